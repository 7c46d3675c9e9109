package cmd

import (
	"time"

	"github.com/depadopt/depadopt/internal/output"
	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

// TrackCmd returns the track command: single-repository version history.
func TrackCmd() *cli.Command {
	flags := append(commonFlags(),
		&cli.StringFlag{
			Name:    "repo",
			Aliases: []string{"r"},
			Usage:   "Path to Git repository",
			Value:   ".",
		},
		&cli.BoolFlag{
			Name:  "no-save",
			Usage: "Skip the timestamped JSON export of the console report",
		},
	)

	return &cli.Command{
		Name:    "track",
		Aliases: []string{"t"},
		Usage:   "Track the package's version history in one repository",
		Flags:   flags,
		Action:  trackAction,
	}
}

func trackAction(c *cli.Context) error {
	ctx, err := NewCommandContext(c)
	if err != nil {
		return err
	}

	repoPath := c.String("repo")
	color.Green("Analyzing repository: %s", repoPath)
	color.Green("Tracking package: %s", ctx.Config.Package)
	color.Green("Date range: %s to %s",
		ctx.Since.Format("2006-01-02"), ctx.Until.Format("2006-01-02"))

	tl, err := ctx.WalkRepo(c.Context, repoPath)
	if err != nil {
		return err
	}

	report := &output.TimelineReport{
		Package:     ctx.Config.Package,
		RepoPath:    repoPath,
		Since:       ctx.Since,
		Until:       ctx.Until,
		GeneratedAt: time.Now(),
		Timeline:    tl,
	}

	format := getOutputFormat(c)
	writer := output.NewTimelineWriter(format)
	if err := writer.Write(report, output.OutputOptions{
		Format:     format,
		OutputPath: c.String("output"),
	}); err != nil {
		return err
	}

	// The console report is for reading; the JSON export feeds further
	// analysis. A default run with changes saves both.
	if format == output.FormatConsole && len(tl.Events) > 0 &&
		c.String("output") == "" && !c.Bool("no-save") {
		path := output.TimestampedName("component_versions", "json")
		jsonWriter := output.NewTimelineWriter(output.FormatJSON)
		if err := jsonWriter.Write(report, output.OutputOptions{
			Format:     output.FormatJSON,
			OutputPath: path,
		}); err != nil {
			return err
		}
		color.Green("Saved detailed history to %s", path)
	}

	return nil
}
