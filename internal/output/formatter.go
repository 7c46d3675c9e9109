package output

import (
	"time"

	"github.com/depadopt/depadopt/internal/aggregate"
	"github.com/depadopt/depadopt/internal/release"
	"github.com/depadopt/depadopt/internal/timeline"
)

// Compile-time interface conformance checks.
// These ensure that all writer types correctly implement their respective interfaces.
var (
	// TimelineWriter implementations
	_ TimelineWriter = (*ConsoleTimelineWriter)(nil)
	_ TimelineWriter = (*JSONTimelineWriter)(nil)
	_ TimelineWriter = (*CSVTimelineWriter)(nil)

	// MultiRepoWriter implementations
	_ MultiRepoWriter = (*ConsoleMultiWriter)(nil)
	_ MultiRepoWriter = (*JSONMultiWriter)(nil)
	_ MultiRepoWriter = (*CSVMultiWriter)(nil)

	// ReleaseWriter implementations
	_ ReleaseWriter = (*ConsoleReleaseWriter)(nil)
	_ ReleaseWriter = (*JSONReleaseWriter)(nil)
	_ ReleaseWriter = (*CSVReleaseWriter)(nil)
)

// OutputFormat represents the output format type.
type OutputFormat string

const (
	FormatConsole OutputFormat = "console"
	FormatJSON    OutputFormat = "json"
	FormatCSV     OutputFormat = "csv"
)

// OutputOptions controls output behavior.
type OutputOptions struct {
	Format     OutputFormat
	OutputPath string // empty writes to stdout
}

// TimelineReport holds a single-repository version history.
type TimelineReport struct {
	Package     string
	RepoPath    string
	Since       time.Time
	Until       time.Time
	GeneratedAt time.Time
	Timeline    timeline.Timeline
}

// MultiRepoReport holds a multi-repository aggregation.
type MultiRepoReport struct {
	Package     string
	Since       time.Time
	Until       time.Time
	GeneratedAt time.Time
	Results     []aggregate.RepoResult
	Patterns    aggregate.Patterns
	Skipped     []string
}

// ReleaseReport holds the release history of the tracked package.
type ReleaseReport struct {
	Package     string
	SourceRepo  string
	GeneratedAt time.Time
	Records     []release.Record
}

// AdoptionReport holds correlated adoption data for the dashboard and
// spreadsheet exports.
type AdoptionReport struct {
	Package     string
	GeneratedAt time.Time
	Releases    *release.Set
	Metrics     map[string]release.RepoMetrics
	RepoURLs    map[string]string
}

// TimelineWriter writes single-repository timeline reports.
type TimelineWriter interface {
	Write(report *TimelineReport, options OutputOptions) error
}

// MultiRepoWriter writes multi-repository aggregation reports.
type MultiRepoWriter interface {
	Write(report *MultiRepoReport, options OutputOptions) error
}

// ReleaseWriter writes release history reports.
type ReleaseWriter interface {
	Write(report *ReleaseReport, options OutputOptions) error
}

// ParseFormat maps a format flag value to an OutputFormat.
func ParseFormat(s string) OutputFormat {
	switch s {
	case "json":
		return FormatJSON
	case "csv":
		return FormatCSV
	default:
		return FormatConsole
	}
}

// NewTimelineWriter creates a timeline writer for the specified format.
func NewTimelineWriter(format OutputFormat) TimelineWriter {
	switch format {
	case FormatJSON:
		return &JSONTimelineWriter{}
	case FormatCSV:
		return &CSVTimelineWriter{}
	default:
		return &ConsoleTimelineWriter{}
	}
}

// NewMultiRepoWriter creates a multi-repo writer for the specified format.
func NewMultiRepoWriter(format OutputFormat) MultiRepoWriter {
	switch format {
	case FormatJSON:
		return &JSONMultiWriter{}
	case FormatCSV:
		return &CSVMultiWriter{}
	default:
		return &ConsoleMultiWriter{}
	}
}

// NewReleaseWriter creates a release writer for the specified format.
func NewReleaseWriter(format OutputFormat) ReleaseWriter {
	switch format {
	case FormatJSON:
		return &JSONReleaseWriter{}
	case FormatCSV:
		return &CSVReleaseWriter{}
	default:
		return &ConsoleReleaseWriter{}
	}
}
