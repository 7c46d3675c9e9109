package output

import (
	"fmt"
	"sort"
	"strings"

	"github.com/depadopt/depadopt/internal/release"
	"github.com/depadopt/depadopt/internal/timeline"
	"github.com/fatih/color"
)

const ruleWidth = 100

// ConsoleTimelineWriter prints a single-repository version history report.
type ConsoleTimelineWriter struct{}

// Write renders the timeline report to the console.
func (w *ConsoleTimelineWriter) Write(report *TimelineReport, options OutputOptions) error {
	tl := report.Timeline

	if len(tl.Events) == 0 {
		color.Yellow("No version changes found for %s in the specified time range.", report.Package)
		return nil
	}

	rule := strings.Repeat("=", ruleWidth)
	fmt.Println(rule)
	color.Green("Version History Report for %s", report.Package)
	fmt.Println(rule)
	fmt.Println()

	fmt.Println("## Summary")
	fmt.Printf("- Total version changes: %d\n", len(tl.Events))
	fmt.Printf("- Commits analyzed: %d\n", tl.CommitsScanned)
	fmt.Printf("- Contributors: %d\n", distinctContributors(tl.Events))
	if tl.ParseFailures > 0 {
		color.Yellow("- Manifest parse failures (skipped): %d", tl.ParseFailures)
	}
	if span := tl.Span(); span > 0 {
		days := int(span.Hours() / 24)
		fmt.Printf("- Time span: %d days\n", days)
		if len(tl.Events) > 1 {
			fmt.Printf("- Average days between updates: %.1f\n", float64(days)/float64(len(tl.Events)-1))
		}
	}
	fmt.Println()

	fmt.Println("## Detailed Version Changes")
	fmt.Println(strings.Repeat("-", ruleWidth))

	for i, event := range tl.Events {
		fmt.Printf("\n### Change #%d\n", i+1)
		fmt.Printf("Date:      %s\n", event.Commit.When.Format("2006-01-02 15:04:05"))
		fmt.Printf("Commit:    %s\n", event.Commit.ShortSHA())
		fmt.Printf("Author:    %s\n", event.Commit.Author.Name)
		fmt.Printf("Message:   %s\n", event.Commit.Message)

		prev := event.PrevVersion()
		if prev == "" {
			prev = "(none)"
		}
		if event.Removed() {
			color.Red("Effective: %s -> removed", prev)
		} else {
			color.Cyan("Effective: %s -> %s", prev, event.NewVersion())
			kind, parent := versionType(event.New)
			if kind != "direct" {
				if parent != "" {
					fmt.Printf("Declared:  %s (via %s)\n", kind, parent)
				} else {
					fmt.Printf("Declared:  %s\n", kind)
				}
			}
		}

		if i > 0 {
			days := int(event.Commit.When.Sub(tl.Events[i-1].Commit.When).Hours() / 24)
			fmt.Printf("Days since last update: %d\n", days)
		}
	}

	fmt.Println()
	fmt.Println(rule)
	return nil
}

// ConsoleMultiWriter prints the aggregated multi-repository report.
type ConsoleMultiWriter struct{}

// Write renders the multi-repo report to the console.
func (w *ConsoleMultiWriter) Write(report *MultiRepoReport, options OutputOptions) error {
	rule := strings.Repeat("=", ruleWidth)
	thin := strings.Repeat("-", 50)

	fmt.Println(rule)
	color.Green("Multi-Repository Version History Analysis")
	fmt.Printf("Package: %s\n", report.Package)
	fmt.Printf("Period: %s to %s\n", report.Since.Format("2006-01-02"), report.Until.Format("2006-01-02"))
	fmt.Println(rule)

	for _, skipped := range report.Skipped {
		color.Yellow("Skipping %s", skipped)
	}

	succeeded := 0
	withPackage := 0
	for _, res := range report.Results {
		if res.Failed() {
			continue
		}
		succeeded++
		if res.Timeline.Current != nil {
			withPackage++
		}
	}

	totalChanges := 0
	for _, res := range report.Results {
		if !res.Failed() {
			totalChanges += len(res.Timeline.Events)
		}
	}

	fmt.Println("\n## Summary")
	fmt.Printf("- Repositories analyzed: %d\n", len(report.Results))
	fmt.Printf("- Repositories using %s: %d\n", report.Package, withPackage)
	fmt.Printf("- Total version changes across all repos: %d\n", totalChanges)
	if withPackage > 0 {
		fmt.Printf("- Average changes per repo: %.1f\n", float64(totalChanges)/float64(withPackage))
	}

	if len(report.Patterns.Distribution) > 0 {
		fmt.Println("\n## Current Version Distribution")
		fmt.Println(thin)

		versions := make([]string, 0, len(report.Patterns.Distribution))
		for version := range report.Patterns.Distribution {
			versions = append(versions, version)
		}
		sort.Slice(versions, func(i, j int) bool {
			ci, cj := report.Patterns.Distribution[versions[i]], report.Patterns.Distribution[versions[j]]
			if ci != cj {
				return ci > cj
			}
			return versions[i] < versions[j]
		})

		for _, version := range versions {
			count := report.Patterns.Distribution[version]
			percentage := 0.0
			if withPackage > 0 {
				percentage = float64(count) / float64(withPackage) * 100
			}
			bar := strings.Repeat("#", int(percentage/2))
			fmt.Printf("%-20s | %3d repos | %5.1f%% |%s\n", version, count, percentage, bar)
		}
	}

	if len(report.Patterns.Timeline) > 0 {
		fmt.Println("\n## Version Introduction Timeline")
		fmt.Println(thin)
		for _, intro := range report.Patterns.Timeline {
			fmt.Printf("%-20s | First: %s | %-20s | Adopted by %d repos\n",
				intro.Version, intro.FirstSeen.Format("2006-01-02"), intro.FirstRepo, len(intro.Repos))
		}
	}

	if len(report.Patterns.Speed) > 0 {
		fmt.Println("\n## Adoption Speed Analysis")
		fmt.Println(thin)
		speed := report.Patterns.Speed
		if len(speed) > 5 {
			speed = speed[:5]
		}
		for _, s := range speed {
			fmt.Printf("%-20s | %3d days to reach %d repos\n", s.Version, s.Days, s.ReposAdopted)
		}
	}

	if len(report.Patterns.Laggards) > 0 {
		fmt.Println("\n## Repositories Behind Latest Version")
		fmt.Println(thin)
		for _, lag := range report.Patterns.Laggards {
			fmt.Printf("%-30s | %-15s | Latest: %s\n", lag.Repository, lag.CurrentVersion, lag.LatestVersion)
		}
	}

	fmt.Println("\n## Repository Change Summary")
	fmt.Println(thin)
	for _, res := range report.Results {
		if res.Failed() {
			color.Red("%-30s | error: %v", res.Repository, res.Err)
			continue
		}

		current := res.Timeline.CurrentVersion()
		if current == "" {
			current = "Not found"
		}

		annotation := ""
		if res.Timeline.Current != nil {
			kind, parent := versionType(res.Timeline.Current)
			switch kind {
			case "override":
				annotation = " (override)"
			case "transitive":
				annotation = fmt.Sprintf(" (via %s)", parent)
			case "direct":
				annotation = " (direct)"
			}
		}

		fmt.Printf("%-30s | %3d changes | Current: %-15s%s\n",
			res.Repository, len(res.Timeline.Events), current, annotation)
	}

	return nil
}

// ConsoleReleaseWriter prints the release history report.
type ConsoleReleaseWriter struct{}

// Write renders the release report to the console.
func (w *ConsoleReleaseWriter) Write(report *ReleaseReport, options OutputOptions) error {
	records := report.Records
	if len(records) == 0 {
		color.Yellow("No versions found in the specified time range.")
		return nil
	}

	rule := strings.Repeat("=", 80)
	fmt.Println(rule)
	color.Green("%s Release History", report.Package)
	fmt.Println(rule)
	fmt.Println()
	fmt.Printf("Total versions found: %d\n", len(records))
	fmt.Printf("Date range: %s to %s\n",
		records[0].Date.Format("2006-01-02 15:04:05"),
		records[len(records)-1].Date.Format("2006-01-02 15:04:05"))
	fmt.Println()
	fmt.Printf("%-20s%-25s%s\n", "Version", "Release Date", "Days Since Previous")
	fmt.Println(strings.Repeat("-", 70))

	for i, rec := range records {
		daysSince := ""
		if i > 0 {
			daysSince = fmt.Sprintf("%d days", int(rec.Date.Sub(records[i-1].Date).Hours()/24))
		}
		fmt.Printf("%-20s%-25s%s\n", rec.Version, rec.Date.Format("2006-01-02 15:04:05"), daysSince)
	}

	if len(records) > 1 {
		fmt.Println("\n## Statistics")
		fmt.Println(strings.Repeat("-", 70))

		totalDays := int(records[len(records)-1].Date.Sub(records[0].Date).Hours() / 24)
		fmt.Printf("Average days between releases: %.1f\n", float64(totalDays)/float64(len(records)-1))

		longest, shortest := -1, -1
		var longestPair, shortestPair [2]string
		for i := 1; i < len(records); i++ {
			gap := int(records[i].Date.Sub(records[i-1].Date).Hours() / 24)
			if longest < 0 || gap > longest {
				longest = gap
				longestPair = [2]string{records[i-1].Version, records[i].Version}
			}
			if shortest < 0 || gap < shortest {
				shortest = gap
				shortestPair = [2]string{records[i-1].Version, records[i].Version}
			}
		}
		fmt.Printf("Longest gap: %d days (between %s and %s)\n", longest, longestPair[0], longestPair[1])
		fmt.Printf("Shortest gap: %d days (between %s and %s)\n", shortest, shortestPair[0], shortestPair[1])
	}

	return nil
}

// WriteAdoptionSummary prints the per-repository adoption metrics table.
func WriteAdoptionSummary(report *AdoptionReport) {
	thin := strings.Repeat("-", 70)

	color.Green("Adoption Analysis for %s", report.Package)
	fmt.Printf("Known releases: %d\n", report.Releases.Len())
	fmt.Println(thin)
	fmt.Printf("%-30s | %7s | %8s | %8s | %s\n", "Repository", "Updates", "Avg Lag", "Med Lag", "Avg Skipped")
	fmt.Println(thin)

	repos := make([]string, 0, len(report.Metrics))
	for repo := range report.Metrics {
		repos = append(repos, repo)
	}
	sort.Strings(repos)

	for _, repo := range repos {
		m := report.Metrics[repo]
		fmt.Printf("%-30s | %7d | %7.1fd | %7.1fd | %.1f\n",
			repo, m.TotalUpdates, m.AvgLagDays, m.MedianLagDays, m.AvgSkipped)
	}
}

// WriteCorrelationMisses reports adoptions that matched no known release.
func WriteCorrelationMisses(metrics map[string]release.RepoMetrics) {
	for _, repo := range sortedKeys(metrics) {
		for _, row := range metrics[repo].Rows {
			if row.LagDays == nil {
				color.Yellow("%s: no known release matches %q (adopted %s)",
					repo, row.RawVersion, row.AdoptionDate.Format("2006-01-02"))
			}
		}
	}
}

// distinctContributors counts the unique authors behind a set of change
// events, keyed by normalized email.
func distinctContributors(events []timeline.Event) int {
	seen := make(map[string]struct{})
	for _, event := range events {
		seen[event.Commit.Author.ContributorKey()] = struct{}{}
	}
	return len(seen)
}

func sortedKeys(metrics map[string]release.RepoMetrics) []string {
	keys := make([]string, 0, len(metrics))
	for key := range metrics {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
