package output

import "time"

// DashboardData is the single data file consumed by web/dashboard.html.
// All rendering, filtering, and charting happen client side; this file is
// the only contract between the batch run and the page. Field names are
// snake_case because the page's JavaScript reads them directly.
type DashboardData struct {
	GeneratedAt   string                        `json:"generated_at"`
	Package       string                        `json:"package"`
	RepoURLs      map[string]string             `json:"repo_github_urls"`
	Releases      map[string]DashboardRelease   `json:"releases"`
	RepoAdoptions map[string][]DashboardEvent   `json:"repo_adoptions"`
	Metrics       map[string]DashboardRepoStats `json:"metrics"`
}

// DashboardRelease is one release entry keyed by clean version.
type DashboardRelease struct {
	Date    string `json:"date"`
	Version string `json:"version"`
}

// DashboardEvent is one adoption of a version by a repository.
type DashboardEvent struct {
	Version      string `json:"version"`
	RawVersion   string `json:"raw_version"`
	AdoptionDate string `json:"adoption_date"`
	Commit       string `json:"commit"`
	LagDays      *int   `json:"lag_days"`
}

// DashboardRepoStats is the per-repository metrics block.
type DashboardRepoStats struct {
	TotalUpdates    int     `json:"total_updates"`
	AvgLagDays      float64 `json:"avg_lag_days"`
	MedianLagDays   float64 `json:"median_lag_days"`
	MinLagDays      int     `json:"min_lag_days"`
	MaxLagDays      int     `json:"max_lag_days"`
	AvgSkipped      float64 `json:"avg_versions_skipped"`
	AvgIntervalDays float64 `json:"avg_update_interval"`
}

// WriteDashboardData serializes the adoption report into the dashboard
// data file.
func WriteDashboardData(report *AdoptionReport, path string) error {
	data := DashboardData{
		GeneratedAt:   report.GeneratedAt.Format(time.RFC3339),
		Package:       report.Package,
		RepoURLs:      report.RepoURLs,
		Releases:      make(map[string]DashboardRelease),
		RepoAdoptions: make(map[string][]DashboardEvent),
		Metrics:       make(map[string]DashboardRepoStats),
	}

	for _, rec := range report.Releases.Records() {
		data.Releases[rec.Version] = DashboardRelease{
			Date:    rec.Date.Format("2006-01-02"),
			Version: rec.Version,
		}
	}

	for repo, metrics := range report.Metrics {
		events := make([]DashboardEvent, len(metrics.Rows))
		for i, row := range metrics.Rows {
			events[i] = DashboardEvent{
				Version:      row.Version,
				RawVersion:   row.RawVersion,
				AdoptionDate: row.AdoptionDate.Format("2006-01-02"),
				Commit:       row.Commit,
				LagDays:      row.LagDays,
			}
		}
		data.RepoAdoptions[repo] = events

		data.Metrics[repo] = DashboardRepoStats{
			TotalUpdates:    metrics.TotalUpdates,
			AvgLagDays:      metrics.AvgLagDays,
			MedianLagDays:   metrics.MedianLagDays,
			MinLagDays:      metrics.MinLagDays,
			MaxLagDays:      metrics.MaxLagDays,
			AvgSkipped:      metrics.AvgSkipped,
			AvgIntervalDays: metrics.AvgIntervalDays,
		}
	}

	return writeJSON(data, path)
}
