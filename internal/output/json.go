package output

import (
	"time"

	"github.com/depadopt/depadopt/internal/timeline"
)

// JSONTimelineWriter writes single-repository reports as JSON.
type JSONTimelineWriter struct{}

// JSONTimelineReport is the JSON output structure for a timeline.
type JSONTimelineReport struct {
	Package        string      `json:"package"`
	Repository     string      `json:"repository"`
	Since          string      `json:"since"`
	Until          string      `json:"until"`
	GeneratedAt    string      `json:"generatedAt"`
	CommitsScanned int         `json:"commitsAnalyzed"`
	ParseFailures  int         `json:"parseFailures,omitempty"`
	TotalChanges   int         `json:"totalChanges"`
	Changes        []JSONEvent `json:"changes"`
}

// JSONEvent is the JSON output structure for a single change event.
type JSONEvent struct {
	Commit          string  `json:"commit"`
	Date            string  `json:"date"`
	Author          string  `json:"author"`
	Message         string  `json:"message"`
	PreviousVersion *string `json:"previousVersion"`
	NewVersion      *string `json:"newVersion"`
	VersionType     string  `json:"versionType"`
	ParentPackage   string  `json:"parentPackage,omitempty"`
}

func jsonEvents(events []timeline.Event) []JSONEvent {
	out := make([]JSONEvent, len(events))
	for i, event := range events {
		kind, parent := versionType(event.New)

		item := JSONEvent{
			Commit:        event.Commit.ShortSHA(),
			Date:          event.Commit.When.Format(time.RFC3339),
			Author:        event.Commit.Author.Name,
			Message:       event.Commit.Message,
			VersionType:   kind,
			ParentPackage: parent,
		}
		if event.Prev != nil {
			v := event.Prev.Version
			item.PreviousVersion = &v
		}
		if event.New != nil {
			v := event.New.Version
			item.NewVersion = &v
		}
		out[i] = item
	}
	return out
}

// Write outputs the timeline report as JSON.
func (w *JSONTimelineWriter) Write(report *TimelineReport, options OutputOptions) error {
	jsonReport := JSONTimelineReport{
		Package:        report.Package,
		Repository:     report.RepoPath,
		Since:          report.Since.Format("2006-01-02"),
		Until:          report.Until.Format("2006-01-02"),
		GeneratedAt:    report.GeneratedAt.Format(time.RFC3339),
		CommitsScanned: report.Timeline.CommitsScanned,
		ParseFailures:  report.Timeline.ParseFailures,
		TotalChanges:   len(report.Timeline.Events),
		Changes:        jsonEvents(report.Timeline.Events),
	}

	return writeJSON(jsonReport, options.OutputPath)
}

// JSONMultiWriter writes multi-repository reports as JSON.
type JSONMultiWriter struct{}

// JSONMultiReport is the JSON output structure for a multi-repo run.
type JSONMultiReport struct {
	Package      string           `json:"package"`
	Since        string           `json:"since"`
	Until        string           `json:"until"`
	GeneratedAt  string           `json:"generatedAt"`
	Repositories []JSONRepoResult `json:"repositories"`
	Patterns     JSONPatterns     `json:"adoptionPatterns"`
}

// JSONRepoResult is one repository's outcome in a multi-repo run.
type JSONRepoResult struct {
	Repository     string      `json:"repository"`
	Path           string      `json:"path"`
	Error          string      `json:"error,omitempty"`
	TotalChanges   int         `json:"totalChanges"`
	CurrentVersion string      `json:"currentVersion,omitempty"`
	CommitsScanned int         `json:"commitsAnalyzed"`
	ParseFailures  int         `json:"parseFailures,omitempty"`
	Changes        []JSONEvent `json:"changes,omitempty"`
}

// JSONPatterns is the cross-repo analysis section.
type JSONPatterns struct {
	VersionTimeline []JSONVersionIntro  `json:"versionTimeline"`
	Distribution    map[string]int      `json:"versionDistribution"`
	Laggards        []JSONLaggard       `json:"laggards"`
	AdoptionSpeed   []JSONAdoptionSpeed `json:"adoptionSpeed"`
}

type JSONVersionIntro struct {
	Version   string   `json:"version"`
	FirstSeen string   `json:"firstSeen"`
	FirstRepo string   `json:"firstRepo"`
	Repos     []string `json:"repos"`
}

type JSONLaggard struct {
	Repository     string `json:"repository"`
	CurrentVersion string `json:"currentVersion"`
	LatestVersion  string `json:"latestVersion"`
}

type JSONAdoptionSpeed struct {
	Version      string `json:"version"`
	Days         int    `json:"daysToAdoption"`
	ReposAdopted int    `json:"reposAdopted"`
}

// Write outputs the multi-repo report as JSON.
func (w *JSONMultiWriter) Write(report *MultiRepoReport, options OutputOptions) error {
	repos := make([]JSONRepoResult, len(report.Results))
	for i, res := range report.Results {
		item := JSONRepoResult{
			Repository: res.Repository,
			Path:       res.Path,
		}
		if res.Failed() {
			item.Error = res.Err.Error()
		} else {
			item.TotalChanges = len(res.Timeline.Events)
			item.CurrentVersion = res.Timeline.CurrentVersion()
			item.CommitsScanned = res.Timeline.CommitsScanned
			item.ParseFailures = res.Timeline.ParseFailures
			item.Changes = jsonEvents(res.Timeline.Events)
		}
		repos[i] = item
	}

	patterns := JSONPatterns{
		Distribution: report.Patterns.Distribution,
	}
	for _, intro := range report.Patterns.Timeline {
		patterns.VersionTimeline = append(patterns.VersionTimeline, JSONVersionIntro{
			Version:   intro.Version,
			FirstSeen: intro.FirstSeen.Format(time.RFC3339),
			FirstRepo: intro.FirstRepo,
			Repos:     intro.Repos,
		})
	}
	for _, lag := range report.Patterns.Laggards {
		patterns.Laggards = append(patterns.Laggards, JSONLaggard{
			Repository:     lag.Repository,
			CurrentVersion: lag.CurrentVersion,
			LatestVersion:  lag.LatestVersion,
		})
	}
	for _, speed := range report.Patterns.Speed {
		patterns.AdoptionSpeed = append(patterns.AdoptionSpeed, JSONAdoptionSpeed{
			Version:      speed.Version,
			Days:         speed.Days,
			ReposAdopted: speed.ReposAdopted,
		})
	}

	jsonReport := JSONMultiReport{
		Package:      report.Package,
		Since:        report.Since.Format("2006-01-02"),
		Until:        report.Until.Format("2006-01-02"),
		GeneratedAt:  report.GeneratedAt.Format(time.RFC3339),
		Repositories: repos,
		Patterns:     patterns,
	}

	return writeJSON(jsonReport, options.OutputPath)
}

// JSONReleaseWriter writes release reports as JSON. The field names match
// what release.LoadFile reads, so a releases export round-trips into the
// adoption command.
type JSONReleaseWriter struct{}

// JSONReleaseReport is the JSON output structure for release history.
type JSONReleaseReport struct {
	Package     string        `json:"package"`
	SourceRepo  string        `json:"source_repository"`
	GeneratedAt string        `json:"generated_at"`
	Versions    []JSONRelease `json:"versions"`
}

type JSONRelease struct {
	Version     string `json:"version"`
	ReleaseDate string `json:"release_date"`
	Tag         string `json:"tag,omitempty"`
	Commit      string `json:"commit,omitempty"`
}

// Write outputs the release report as JSON.
func (w *JSONReleaseWriter) Write(report *ReleaseReport, options OutputOptions) error {
	versions := make([]JSONRelease, len(report.Records))
	for i, rec := range report.Records {
		versions[i] = JSONRelease{
			Version:     rec.Version,
			ReleaseDate: rec.Date.Format(time.RFC3339),
			Tag:         rec.Tag,
			Commit:      rec.Commit,
		}
	}

	jsonReport := JSONReleaseReport{
		Package:     report.Package,
		SourceRepo:  report.SourceRepo,
		GeneratedAt: report.GeneratedAt.Format(time.RFC3339),
		Versions:    versions,
	}

	return writeJSON(jsonReport, options.OutputPath)
}
