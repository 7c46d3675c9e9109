package output

import (
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"

	"github.com/depadopt/depadopt/internal/release"
	"github.com/depadopt/depadopt/internal/timeline"
)

var changeHeader = []string{
	"repository", "date", "commit", "author", "message",
	"previous_version", "new_version", "version_type", "parent_package",
}

func changeRow(e timeline.Event) []string {
	kind, parent := versionType(e.New)
	return []string{
		e.Repository,
		e.Commit.When.Format("2006-01-02 15:04:05"),
		e.Commit.ShortSHA(),
		e.Commit.Author.Name,
		e.Commit.Message,
		e.PrevVersion(),
		e.NewVersion(),
		kind,
		parent,
	}
}

// CSVTimelineWriter writes single-repository reports as CSV.
type CSVTimelineWriter struct{}

// Write outputs the timeline report as CSV.
func (w *CSVTimelineWriter) Write(report *TimelineReport, options OutputOptions) error {
	out, closeFn, err := openOutput(options.OutputPath)
	if err != nil {
		return err
	}
	defer closeFn()

	writer := csv.NewWriter(out)
	if err := writer.Write(changeHeader); err != nil {
		return err
	}
	for _, event := range report.Timeline.Events {
		if err := writer.Write(changeRow(event)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// CSVMultiWriter writes multi-repository reports as CSV, one row per
// change event across all repositories.
type CSVMultiWriter struct{}

// Write outputs the multi-repo report as CSV.
func (w *CSVMultiWriter) Write(report *MultiRepoReport, options OutputOptions) error {
	out, closeFn, err := openOutput(options.OutputPath)
	if err != nil {
		return err
	}
	defer closeFn()

	writer := csv.NewWriter(out)
	if err := writer.Write(changeHeader); err != nil {
		return err
	}
	for _, res := range report.Results {
		if res.Failed() {
			continue
		}
		for _, event := range res.Timeline.Events {
			if err := writer.Write(changeRow(event)); err != nil {
				return err
			}
		}
	}
	writer.Flush()
	return writer.Error()
}

// CSVReleaseWriter writes release reports as CSV.
type CSVReleaseWriter struct{}

// Write outputs the release report as CSV.
func (w *CSVReleaseWriter) Write(report *ReleaseReport, options OutputOptions) error {
	out, closeFn, err := openOutput(options.OutputPath)
	if err != nil {
		return err
	}
	defer closeFn()

	writer := csv.NewWriter(out)
	if err := writer.Write([]string{"version", "release_date", "days_since_previous"}); err != nil {
		return err
	}
	for i, rec := range report.Records {
		daysSince := ""
		if i > 0 {
			daysSince = strconv.Itoa(int(rec.Date.Sub(report.Records[i-1].Date).Hours() / 24))
		}
		row := []string{rec.Version, rec.Date.Format("2006-01-02 15:04:05"), daysSince}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteTimelineCSV exports releases and adoptions as one date-ordered
// event stream for timeline visualization.
func WriteTimelineCSV(report *AdoptionReport, path string) error {
	type row struct {
		date, eventType, version, repository, lagDays, notes string
	}

	var rows []row

	for _, rec := range report.Releases.Records() {
		rows = append(rows, row{
			date:      rec.Date.Format("2006-01-02"),
			eventType: "release",
			version:   rec.Version,
			lagDays:   "0",
			notes:     "Package released",
		})
	}

	for _, repo := range sortedKeys(report.Metrics) {
		for _, adoption := range report.Metrics[repo].Rows {
			if adoption.LagDays == nil {
				continue
			}
			rows = append(rows, row{
				date:       adoption.AdoptionDate.Format("2006-01-02"),
				eventType:  "adoption",
				version:    adoption.Version,
				repository: repo,
				lagDays:    strconv.Itoa(*adoption.LagDays),
				notes:      fmt.Sprintf("Adopted after %d days", *adoption.LagDays),
			})
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].date < rows[j].date
	})

	out, closeFn, err := openOutput(path)
	if err != nil {
		return err
	}
	defer closeFn()

	writer := csv.NewWriter(out)
	if err := writer.Write([]string{"date", "event_type", "version", "repository", "lag_days", "notes"}); err != nil {
		return err
	}
	for _, r := range rows {
		if err := writer.Write([]string{r.date, r.eventType, r.version, r.repository, r.lagDays, r.notes}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteComparisonCSV exports per-adoption lag rows for spreadsheet
// comparison across repositories, ordered by adoption date.
func WriteComparisonCSV(report *AdoptionReport, path string) error {
	var rows []release.AdoptionRow
	for _, repo := range sortedKeys(report.Metrics) {
		rows = append(rows, report.Metrics[repo].Rows...)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].AdoptionDate.Before(rows[j].AdoptionDate)
	})

	out, closeFn, err := openOutput(path)
	if err != nil {
		return err
	}
	defer closeFn()

	writer := csv.NewWriter(out)
	header := []string{
		"repository", "version", "release_date", "adoption_date",
		"lag_days", "versions_skipped", "days_since_last_update",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, r := range rows {
		releaseDate, lag := "", ""
		if r.ReleaseDate != nil {
			releaseDate = r.ReleaseDate.Format("2006-01-02")
		}
		if r.LagDays != nil {
			lag = strconv.Itoa(*r.LagDays)
		}
		row := []string{
			r.Repository,
			r.Version,
			releaseDate,
			r.AdoptionDate.Format("2006-01-02"),
			lag,
			strconv.Itoa(r.VersionsSkipped),
			strconv.Itoa(r.DaysSinceLastUpdate),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
