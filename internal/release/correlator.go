package release

import (
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/depadopt/depadopt/internal/timeline"
)

// MatchPolicy controls how adopted version constraints are matched against
// known releases when there is no exact match.
type MatchPolicy string

const (
	// PolicyFloor selects the highest known release at or before the
	// adopted version, or the highest release satisfying a range
	// constraint. This mirrors how npm resolves a constraint against the
	// registry state at adoption time.
	PolicyFloor MatchPolicy = "floor"
	// PolicyExact only matches the trimmed literal version.
	PolicyExact MatchPolicy = "exact"
)

// AdoptionRow is one correlated adoption: a version-change event joined
// with the release it corresponds to. LagDays is nil on a correlation miss;
// the row is still emitted.
type AdoptionRow struct {
	Repository   string
	Version      string // cleaned version
	RawVersion   string // constraint as declared in the manifest
	Commit       string
	AdoptionDate time.Time
	ReleaseDate  *time.Time
	LagDays      *int

	// Filled by ComputeMetrics for rows after the first.
	VersionsSkipped     int
	DaysSinceLastUpdate int
}

// Correlator joins adoption events against a release record set.
type Correlator struct {
	set    *Set
	policy MatchPolicy
}

// NewCorrelator creates a correlator with the given match policy.
func NewCorrelator(set *Set, policy MatchPolicy) *Correlator {
	if policy == "" {
		policy = PolicyFloor
	}
	return &Correlator{set: set, policy: policy}
}

// Match resolves a declared version constraint to a release record.
func (c *Correlator) Match(constraint string) (Record, bool) {
	clean := CleanVersion(constraint)
	if clean == "" {
		return Record{}, false
	}

	if rec, ok := c.set.Lookup(clean); ok {
		return rec, true
	}
	if c.policy == PolicyExact {
		return Record{}, false
	}

	// No exact release for the declared version: take the highest release
	// at or before it.
	if v, err := semver.NewVersion(clean); err == nil {
		return c.set.Floor(v)
	}

	// Range specifier: highest known release satisfying it.
	if cons, err := semver.NewConstraint(constraint); err == nil {
		return c.set.HighestSatisfying(cons)
	}

	return Record{}, false
}

// Correlate computes adoption rows for every adoption event in a timeline.
// Removal events carry no version and produce no row.
func (c *Correlator) Correlate(tl timeline.Timeline) []AdoptionRow {
	var rows []AdoptionRow

	for _, event := range tl.Events {
		if event.New == nil {
			continue
		}

		row := AdoptionRow{
			Repository:   tl.Repository,
			Version:      CleanVersion(event.New.Version),
			RawVersion:   event.New.Version,
			Commit:       event.Commit.ShortSHA(),
			AdoptionDate: event.Commit.When,
		}

		if rec, ok := c.Match(event.New.Version); ok {
			date := rec.Date
			lag := LagDays(rec.Date, event.Commit.When)
			row.ReleaseDate = &date
			row.LagDays = &lag
		}

		rows = append(rows, row)
	}

	return rows
}

// LagDays returns the whole days between a release and its adoption.
func LagDays(release, adoption time.Time) int {
	return int(adoption.Sub(release).Hours() / 24)
}
