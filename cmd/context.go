package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/depadopt/depadopt/config"
	"github.com/depadopt/depadopt/internal/gitio"
	"github.com/depadopt/depadopt/internal/manifest"
	"github.com/depadopt/depadopt/internal/timeline"
	"github.com/urfave/cli/v2"
)

// CommandContext holds common state for command execution.
// It encapsulates the shared setup logic across the tracking commands.
type CommandContext struct {
	Config *config.Config
	Since  time.Time
	Until  time.Time
	Branch string
	Walker *timeline.Walker
}

// NewCommandContext creates a context from CLI flags. It loads the
// configuration, validates the package name, and computes the window.
func NewCommandContext(c *cli.Context) (*CommandContext, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	if cfg.Package == "" {
		return nil, fmt.Errorf("no package to track: set --package or the config file's package field")
	}

	since, until := window(cfg.WindowMonths)

	return &CommandContext{
		Config: cfg,
		Since:  since,
		Until:  until,
		Branch: c.String("branch"),
		Walker: timeline.NewWalker(cfg.Package),
	}, nil
}

// WalkRepo runs the history walk for a single repository path.
func (ctx *CommandContext) WalkRepo(runCtx context.Context, repoPath string) (timeline.Timeline, error) {
	reader, err := gitio.NewHistoryReader(gitio.ReadOptions{
		RepoPath:     repoPath,
		ManifestPath: ctx.Config.ManifestPath,
		Branch:       ctx.Branch,
		Since:        &ctx.Since,
		Until:        &ctx.Until,
		UseGitCLI:    ctx.Config.UseGitCLI,
	})
	if err != nil {
		return timeline.Timeline{}, err
	}

	tl, err := ctx.Walker.Walk(runCtx, repoName(repoPath), reader)
	if err != nil {
		return timeline.Timeline{}, fmt.Errorf("failed to read history: %w", err)
	}
	tl.Path = repoPath

	// A repository whose last manifest change predates the window yields
	// an empty walk, but it still has a current version at HEAD. Fill it
	// so distribution and laggard analysis see the repository.
	if tl.Current == nil && len(tl.Events) == 0 {
		content, missing, err := gitio.ManifestAtHead(repoPath, ctx.Config.ManifestPath)
		if err == nil && !missing {
			if versions, err := manifest.Extract(content, ctx.Config.Package); err == nil {
				tl.Current = versions.Effective()
			}
		}
	}

	return tl, nil
}

// repoName derives the display name of a repository from its path.
func repoName(repoPath string) string {
	abs, err := filepath.Abs(repoPath)
	if err != nil {
		return filepath.Base(repoPath)
	}
	return filepath.Base(abs)
}
