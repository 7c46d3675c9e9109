package cmd

import (
	"time"

	"github.com/depadopt/depadopt/internal/aggregate"
	"github.com/depadopt/depadopt/internal/discovery"
	"github.com/depadopt/depadopt/internal/output"
	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

// MultiCmd returns the multi command: aggregation across repositories.
func MultiCmd() *cli.Command {
	flags := append(commonFlags(),
		&cli.StringFlag{
			Name:  "repos",
			Usage: "Repository list: file path, directory to scan, or comma-separated paths (default: config)",
		},
		&cli.IntFlag{
			Name:  "concurrency",
			Usage: "Number of repositories processed in parallel",
		},
		&cli.BoolFlag{
			Name:  "no-parallel",
			Usage: "Process repositories sequentially for diagnosing failures",
		},
		&cli.StringSliceFlag{
			Name:  "include",
			Usage: "Repository name globs to include (can be specified multiple times)",
		},
		&cli.StringSliceFlag{
			Name:  "exclude",
			Usage: "Repository name globs to exclude (can be specified multiple times)",
		},
		&cli.BoolFlag{
			Name:  "csv",
			Usage: "Also export a timestamped CSV of all changes",
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Also export a timestamped JSON of the full analysis",
		},
	)

	return &cli.Command{
		Name:    "multi",
		Aliases: []string{"m"},
		Usage:   "Track the package's version history across many repositories",
		Flags:   flags,
		Action:  multiAction,
	}
}

func multiAction(c *cli.Context) error {
	ctx, err := NewCommandContext(c)
	if err != nil {
		return err
	}

	result, err := resolveRepos(c, ctx)
	if err != nil {
		return err
	}

	color.Green("Found %d repositories to analyze", len(result.Repos))

	concurrency := ctx.Config.Concurrency
	if n := c.Int("concurrency"); n > 0 {
		concurrency = n
	}
	if c.Bool("no-parallel") {
		concurrency = 1
	}

	results := aggregate.Process(c.Context, result.Repos, ctx.WalkRepo, aggregate.Options{
		Concurrency: concurrency,
	})
	patterns := aggregate.AnalyzePatterns(results)

	report := &output.MultiRepoReport{
		Package:     ctx.Config.Package,
		Since:       ctx.Since,
		Until:       ctx.Until,
		GeneratedAt: time.Now(),
		Results:     results,
		Patterns:    patterns,
		Skipped:     result.Skipped,
	}

	format := getOutputFormat(c)
	writer := output.NewMultiRepoWriter(format)
	if err := writer.Write(report, output.OutputOptions{
		Format:     format,
		OutputPath: c.String("output"),
	}); err != nil {
		return err
	}

	if c.Bool("csv") {
		path := output.TimestampedName("version_history_multi", "csv")
		csvWriter := output.NewMultiRepoWriter(output.FormatCSV)
		if err := csvWriter.Write(report, output.OutputOptions{
			Format:     output.FormatCSV,
			OutputPath: path,
		}); err != nil {
			return err
		}
		color.Green("Exported detailed history to %s", path)
	}

	if c.Bool("json") {
		path := output.TimestampedName("version_analysis_multi", "json")
		jsonWriter := output.NewMultiRepoWriter(output.FormatJSON)
		if err := jsonWriter.Write(report, output.OutputOptions{
			Format:     output.FormatJSON,
			OutputPath: path,
		}); err != nil {
			return err
		}
		color.Green("Saved complete analysis to %s", path)
	}

	return nil
}

// resolveRepos determines the repository set from the --repos flag or,
// when absent, from the configuration file's repo list.
func resolveRepos(c *cli.Context, ctx *CommandContext) (discovery.Result, error) {
	opts := discovery.Options{
		ManifestPath: ctx.Config.ManifestPath,
		Include:      ctx.Config.Filters.Include,
		Exclude:      ctx.Config.Filters.Exclude,
	}
	if includes := c.StringSlice("include"); len(includes) > 0 {
		opts.Include = includes
	}
	if excludes := c.StringSlice("exclude"); len(excludes) > 0 {
		opts.Exclude = excludes
	}

	if input := c.String("repos"); input != "" {
		return discovery.Resolve(input, opts)
	}

	paths, err := ctx.Config.RepoPaths()
	if err != nil {
		return discovery.Result{}, err
	}
	return discovery.FromPaths(paths, opts)
}
