package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/depadopt/depadopt/config"
	"github.com/depadopt/depadopt/internal/output"
	"github.com/urfave/cli/v2"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "depadopt",
		Usage:   "Track npm package version adoption across Git repositories",
		Version: "1.0.0",
		Commands: []*cli.Command{
			TrackCmd(),
			MultiCmd(),
			ReleasesCmd(),
			AdoptionCmd(),
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
			},
		},
		Action: func(c *cli.Context) error {
			return cli.ShowAppHelp(c)
		},
	}
}

// Common flags shared across commands
func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "package",
			Aliases: []string{"p"},
			Usage:   "npm package name to track, e.g. @myorg/components",
		},
		&cli.IntFlag{
			Name:    "months",
			Aliases: []string{"m"},
			Usage:   "Number of months to look back",
		},
		&cli.StringFlag{
			Name:  "manifest",
			Usage: "Manifest path inside each repository",
		},
		&cli.StringFlag{
			Name:    "branch",
			Aliases: []string{"b"},
			Usage:   "Branch to analyze (default: HEAD)",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format (console, json, csv)",
			Value:   "console",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output file path (default: stdout)",
		},
		&cli.BoolFlag{
			Name:  "git-cli",
			Usage: "Shell out to the git CLI instead of using go-git",
		},
	}
}

// loadConfig loads configuration from file or defaults, applying CLI
// flag overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if pkg := c.String("package"); pkg != "" {
		cfg.Package = pkg
	}
	if months := c.Int("months"); months > 0 {
		cfg.WindowMonths = months
	}
	if manifest := c.String("manifest"); manifest != "" {
		cfg.ManifestPath = manifest
	}
	if c.Bool("git-cli") {
		cfg.UseGitCLI = true
	}

	return cfg, nil
}

// getOutputFormat parses the output format flag.
func getOutputFormat(c *cli.Context) output.OutputFormat {
	return output.ParseFormat(c.String("format"))
}

// window computes the analysis date range from the configured look-back.
// Months are 30-day months, matching the exported data this tool has
// always produced.
func window(months int) (time.Time, time.Time) {
	until := time.Now()
	since := until.AddDate(0, 0, -months*30)
	return since, until
}

// Run executes the CLI application.
func Run() {
	if err := App().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
