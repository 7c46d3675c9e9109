package cmd

import (
	"fmt"
	"time"

	"github.com/depadopt/depadopt/internal/aggregate"
	"github.com/depadopt/depadopt/internal/output"
	"github.com/depadopt/depadopt/internal/release"
	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

// AdoptionCmd returns the adoption command: correlate release dates with
// adoption dates and produce the dashboard data file.
func AdoptionCmd() *cli.Command {
	flags := append(commonFlags(),
		&cli.StringFlag{
			Name:     "releases",
			Usage:    "Releases JSON file produced by the releases command",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "repos",
			Usage: "Repository list: file path, directory to scan, or comma-separated paths (default: config)",
		},
		&cli.IntFlag{
			Name:  "concurrency",
			Usage: "Number of repositories processed in parallel",
		},
		&cli.StringFlag{
			Name:  "data-out",
			Usage: "Dashboard data file path",
			Value: "adoption_data.json",
		},
		&cli.BoolFlag{
			Name:  "timeline-csv",
			Usage: "Also export a timestamped timeline CSV",
		},
		&cli.BoolFlag{
			Name:  "comparison-csv",
			Usage: "Also export a timestamped repository comparison CSV",
		},
	)

	return &cli.Command{
		Name:    "adoption",
		Aliases: []string{"a"},
		Usage:   "Correlate package releases with repository adoptions",
		Flags:   flags,
		Action:  adoptionAction,
	}
}

func adoptionAction(c *cli.Context) error {
	ctx, err := NewCommandContext(c)
	if err != nil {
		return err
	}

	releases, releasesPkg, err := release.LoadFile(c.String("releases"))
	if err != nil {
		return err
	}
	if releases.Len() == 0 {
		return fmt.Errorf("releases file %s contains no usable versions", c.String("releases"))
	}
	if releasesPkg != "" && releasesPkg != ctx.Config.Package {
		color.Yellow("Releases file was generated for %s, tracking %s", releasesPkg, ctx.Config.Package)
	}
	color.Green("Loaded %d releases", releases.Len())

	result, err := resolveRepos(c, ctx)
	if err != nil {
		return err
	}
	for _, skipped := range result.Skipped {
		color.Yellow("Skipping %s", skipped)
	}

	concurrency := ctx.Config.Concurrency
	if n := c.Int("concurrency"); n > 0 {
		concurrency = n
	}

	results := aggregate.Process(c.Context, result.Repos, ctx.WalkRepo, aggregate.Options{
		Concurrency: concurrency,
	})

	correlator := release.NewCorrelator(releases, release.MatchPolicy(ctx.Config.ReleaseMatch))

	metrics := make(map[string]release.RepoMetrics)
	repoNames := make([]string, 0, len(results))
	for _, res := range results {
		if res.Failed() {
			color.Red("Error processing %s: %v", res.Repository, res.Err)
			continue
		}
		repoNames = append(repoNames, res.Repository)
		rows := correlator.Correlate(res.Timeline)
		metrics[res.Repository] = release.ComputeMetrics(rows, releases)
	}

	if len(metrics) == 0 {
		return fmt.Errorf("no repository could be analyzed")
	}

	report := &output.AdoptionReport{
		Package:     ctx.Config.Package,
		GeneratedAt: time.Now(),
		Releases:    releases,
		Metrics:     metrics,
		RepoURLs:    ctx.Config.RepoURLs(repoNames),
	}

	output.WriteAdoptionSummary(report)
	output.WriteCorrelationMisses(metrics)

	dataOut := c.String("data-out")
	if err := output.WriteDashboardData(report, dataOut); err != nil {
		return fmt.Errorf("write dashboard data: %w", err)
	}
	color.Green("Dashboard data saved to %s", dataOut)

	if c.Bool("timeline-csv") {
		path := output.TimestampedName("adoption_timeline", "csv")
		if err := output.WriteTimelineCSV(report, path); err != nil {
			return err
		}
		color.Green("Timeline CSV saved to %s", path)
	}

	if c.Bool("comparison-csv") {
		path := output.TimestampedName("repo_comparison", "csv")
		if err := output.WriteComparisonCSV(report, path); err != nil {
			return err
		}
		color.Green("Comparison CSV saved to %s", path)
	}

	return nil
}
