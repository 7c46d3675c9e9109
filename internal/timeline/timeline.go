package timeline

import (
	"time"

	"github.com/depadopt/depadopt/internal/gitio"
	"github.com/depadopt/depadopt/internal/manifest"
)

// Event records one effective-version change of the tracked package in a
// repository. Prev is nil when the package was first introduced; New is nil
// when the package was removed from the manifest.
type Event struct {
	Repository string
	Commit     gitio.CommitInfo
	Prev       *manifest.Resolution
	New        *manifest.Resolution
}

// PrevVersion returns the previous effective version, or "" for a baseline.
func (e Event) PrevVersion() string {
	if e.Prev == nil {
		return ""
	}
	return e.Prev.Version
}

// NewVersion returns the adopted effective version, or "" for a removal.
func (e Event) NewVersion() string {
	if e.New == nil {
		return ""
	}
	return e.New.Version
}

// Removed reports whether this event dropped the dependency entirely.
func (e Event) Removed() bool {
	return e.New == nil
}

// Timeline is the chronological sequence of version-change events for one
// repository, plus walk diagnostics.
type Timeline struct {
	Repository     string
	Path           string
	Events         []Event
	CommitsScanned int
	ParseFailures  int
	Current        *manifest.Resolution
}

// CurrentVersion returns the effective version at the end of the walk,
// or "" when the package is not declared.
func (t Timeline) CurrentVersion() string {
	if t.Current == nil {
		return ""
	}
	return t.Current.Version
}

// Span returns the duration between the first and last event.
func (t Timeline) Span() time.Duration {
	if len(t.Events) < 2 {
		return 0
	}
	return t.Events[len(t.Events)-1].Commit.When.Sub(t.Events[0].Commit.When)
}
