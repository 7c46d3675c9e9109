package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/depadopt/depadopt/config"
	"github.com/depadopt/depadopt/internal/gitio"
	"github.com/depadopt/depadopt/internal/manifest"
	"github.com/depadopt/depadopt/internal/output"
	"github.com/depadopt/depadopt/internal/release"
	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

// ReleasesCmd returns the releases command: extract the tracked package's
// release history from its own source repository.
func ReleasesCmd() *cli.Command {
	flags := append(commonFlags(),
		&cli.StringFlag{
			Name:    "repo",
			Aliases: []string{"r"},
			Usage:   "Path to the package's source repository (default: config releases.sourceRepo)",
		},
		&cli.IntFlag{
			Name:  "years",
			Usage: "Number of years to look back",
		},
		&cli.BoolFlag{
			Name:  "use-commits",
			Usage: "Extract versions from manifest history instead of tags",
		},
		&cli.StringFlag{
			Name:  "source-manifest",
			Usage: "Manifest path holding the package's own version field",
		},
	)

	return &cli.Command{
		Name:    "releases",
		Aliases: []string{"rel"},
		Usage:   "Extract the package's release versions and dates",
		Flags:   flags,
		Action:  releasesAction,
	}
}

func releasesAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if cfg.Package == "" {
		return fmt.Errorf("no package to track: set --package or the config file's package field")
	}

	repoPath := c.String("repo")
	if repoPath == "" {
		repoPath = cfg.Releases.SourceRepo
	}
	if repoPath == "" {
		return fmt.Errorf("no source repository: set --repo or the config file's releases.sourceRepo field")
	}

	years := cfg.Releases.WindowYears
	if y := c.Int("years"); y > 0 {
		years = y
	}
	since := time.Now().AddDate(-years, 0, 0)

	color.Green("Extracting %s versions from: %s", cfg.Package, repoPath)
	color.Green("Looking back %d years (since %s)", years, since.Format("2006-01-02"))

	var records []release.Record

	if c.Bool("use-commits") {
		records, err = releasesFromCommits(c.Context, cfg.Package, repoPath, sourceManifest(c, cfg), since)
		if err != nil {
			return err
		}
	} else {
		tags, err := gitio.ReadTags(repoPath)
		if err != nil {
			return err
		}
		color.Green("Found %d tags total", len(tags))

		records = release.ExtractFromTags(tags, cfg.Package, since)

		if len(records) == 0 {
			color.Yellow("No release tags found, falling back to manifest history...")
			records, err = releasesFromCommits(c.Context, cfg.Package, repoPath, sourceManifest(c, cfg), since)
			if err != nil {
				return err
			}
		}
	}

	color.Green("Found %d package versions", len(records))

	report := &output.ReleaseReport{
		Package:     cfg.Package,
		SourceRepo:  repoPath,
		GeneratedAt: time.Now(),
		Records:     records,
	}

	format := getOutputFormat(c)
	writer := output.NewReleaseWriter(format)
	if err := writer.Write(report, output.OutputOptions{
		Format:     format,
		OutputPath: c.String("output"),
	}); err != nil {
		return err
	}

	// The JSON export is the input of the adoption command; keep one
	// around whenever the console report was requested.
	if format == output.FormatConsole && len(records) > 0 {
		path := output.TimestampedName("component_releases", "json")
		jsonWriter := output.NewReleaseWriter(output.FormatJSON)
		if err := jsonWriter.Write(report, output.OutputOptions{
			Format:     output.FormatJSON,
			OutputPath: path,
		}); err != nil {
			return err
		}
		color.Green("Exported to %s", path)
	}

	return nil
}

func sourceManifest(c *cli.Context, cfg *config.Config) string {
	if m := c.String("source-manifest"); m != "" {
		return m
	}
	return cfg.Releases.SourceManifest
}

// releasesFromCommits mines release records from the version field of the
// package's own manifest history.
func releasesFromCommits(ctx context.Context, pkg, repoPath, manifestPath string, since time.Time) ([]release.Record, error) {
	reader, err := gitio.NewHistoryReader(gitio.ReadOptions{
		RepoPath:     repoPath,
		ManifestPath: manifestPath,
		Since:        &since,
	})
	if err != nil {
		return nil, err
	}

	revisions, err := reader.ReadManifestRevisions(ctx)
	if err != nil {
		return nil, err
	}

	return release.ExtractFromRevisions(revisions, manifest.DeclaredVersion), nil
}
