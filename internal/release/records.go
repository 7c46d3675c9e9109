package release

import (
	"sort"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
)

// Record is one published release of the tracked package. Sourced from the
// package's own repository (tags or manifest history) or a previously
// exported releases file; read-only input to the correlator.
type Record struct {
	Version string
	Date    time.Time
	Tag     string // originating tag name, when extracted from tags
	Commit  string // originating commit, when extracted from manifest history
}

// Set is an immutable collection of release records, ordered by version.
// Records whose version does not parse as semver are dropped at
// construction; the correlator can only reason about orderable versions.
type Set struct {
	records   []Record
	parsed    []*semver.Version
	byVersion map[string]Record
}

// NewSet builds a Set from records, sorting ascending by version.
func NewSet(records []Record) *Set {
	type pair struct {
		rec Record
		ver *semver.Version
	}

	pairs := make([]pair, 0, len(records))
	for _, rec := range records {
		v, err := semver.NewVersion(rec.Version)
		if err != nil {
			continue
		}
		pairs = append(pairs, pair{rec: rec, ver: v})
	}

	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].ver.LessThan(pairs[j].ver)
	})

	s := &Set{
		records:   make([]Record, len(pairs)),
		parsed:    make([]*semver.Version, len(pairs)),
		byVersion: make(map[string]Record, len(pairs)),
	}
	for i, p := range pairs {
		s.records[i] = p.rec
		s.parsed[i] = p.ver
		s.byVersion[p.rec.Version] = p.rec
	}
	return s
}

// Len returns the number of records in the set.
func (s *Set) Len() int {
	return len(s.records)
}

// Records returns the records ordered ascending by version.
func (s *Set) Records() []Record {
	return s.records
}

// Lookup returns the record for an exact version string.
func (s *Set) Lookup(version string) (Record, bool) {
	rec, ok := s.byVersion[version]
	return rec, ok
}

// Latest returns the highest released version.
func (s *Set) Latest() (Record, bool) {
	if len(s.records) == 0 {
		return Record{}, false
	}
	return s.records[len(s.records)-1], true
}

// Floor returns the highest release at or before the given version.
func (s *Set) Floor(v *semver.Version) (Record, bool) {
	// First index strictly greater than v.
	idx := sort.Search(len(s.parsed), func(i int) bool {
		return s.parsed[i].GreaterThan(v)
	})
	if idx == 0 {
		return Record{}, false
	}
	return s.records[idx-1], true
}

// HighestSatisfying returns the highest release matching the constraint.
func (s *Set) HighestSatisfying(c *semver.Constraints) (Record, bool) {
	for i := len(s.parsed) - 1; i >= 0; i-- {
		if c.Check(s.parsed[i]) {
			return s.records[i], true
		}
	}
	return Record{}, false
}

// CountBetween returns how many releases were published strictly between
// two known versions. Unknown versions count as zero.
func (s *Set) CountBetween(v1, v2 string) int {
	i1 := s.indexOf(CleanVersion(v1))
	i2 := s.indexOf(CleanVersion(v2))
	if i1 < 0 || i2 < 0 {
		return 0
	}
	d := i2 - i1
	if d < 0 {
		d = -d
	}
	if d == 0 {
		return 0
	}
	return d - 1
}

func (s *Set) indexOf(version string) int {
	for i, rec := range s.records {
		if rec.Version == version {
			return i
		}
	}
	return -1
}

// CleanVersion strips npm range operators from a constraint so it can be
// compared against release versions.
func CleanVersion(constraint string) string {
	return strings.TrimLeft(strings.TrimSpace(constraint), "^~")
}
