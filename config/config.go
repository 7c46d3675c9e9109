package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config is the root configuration structure. It is loaded once at command
// startup, merged over defaults, and passed by reference; nothing mutates
// it after loading.
type Config struct {
	// Package is the npm package whose adoption is tracked.
	Package string `json:"package"`
	// CodeBasePath is the directory where repository checkouts live.
	CodeBasePath string `json:"codeBasePath"`
	// Repos are repository names resolved relative to CodeBasePath.
	Repos []string `json:"repos"`
	// GitHubBaseURL, when set, is used to build repository links in the
	// dashboard data, e.g. "https://github.com/myorg".
	GitHubBaseURL string `json:"githubBaseUrl"`

	ManifestPath string        `json:"manifestPath"`
	WindowMonths int           `json:"windowMonths"`
	Concurrency  int           `json:"concurrency"`
	ReleaseMatch string        `json:"releaseMatch"` // "floor" or "exact"
	UseGitCLI    bool          `json:"useGitCli"`
	Filters      FilterConfig  `json:"filters"`
	Releases     ReleaseConfig `json:"releases"`
}

// FilterConfig holds repository name filtering options for directory scans.
type FilterConfig struct {
	Include []string `json:"include"`
	Exclude []string `json:"exclude"`
}

// ReleaseConfig holds release extraction options.
type ReleaseConfig struct {
	// SourceRepo is the checkout of the tracked package's own repository.
	SourceRepo string `json:"sourceRepo"`
	// SourceManifest is the manifest path holding the package's own
	// version field, for --use-commits extraction in monorepos.
	SourceManifest string `json:"sourceManifest"`
	// WindowYears bounds tag extraction.
	WindowYears int `json:"windowYears"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		ManifestPath: "package.json",
		WindowMonths: 12,
		Concurrency:  4,
		ReleaseMatch: "floor",
		Releases: ReleaseConfig{
			SourceManifest: "package.json",
			WindowYears:    3,
		},
	}
}

// LoadConfig loads configuration from a file, merging with defaults.
// An empty path probes .depadopt.json in the working directory and the
// user's home directory; a missing file just yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		candidates := []string{".depadopt.json"}
		if home, err := os.UserHomeDir(); err == nil && home != "" {
			candidates = append(candidates, filepath.Join(home, ".depadopt.json"))
		}
		for _, p := range candidates {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SaveConfig saves configuration to a file.
func SaveConfig(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// RepoPaths joins the configured repository names with the code base path.
func (c *Config) RepoPaths() ([]string, error) {
	if len(c.Repos) == 0 {
		return nil, fmt.Errorf("no repositories configured")
	}
	if c.CodeBasePath == "" {
		return nil, fmt.Errorf("codeBasePath is not configured")
	}

	info, err := os.Stat(c.CodeBasePath)
	if err != nil {
		return nil, fmt.Errorf("code base path %s: %w", c.CodeBasePath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("code base path %s is not a directory", c.CodeBasePath)
	}

	paths := make([]string, len(c.Repos))
	for i, name := range c.Repos {
		paths[i] = filepath.Join(c.CodeBasePath, name)
	}
	return paths, nil
}

// RepoURLs builds repository links from the GitHub base URL, for the
// dashboard data file. Returns an empty map when no base URL is set.
func (c *Config) RepoURLs(repoNames []string) map[string]string {
	urls := make(map[string]string)
	if c.GitHubBaseURL == "" {
		return urls
	}
	for _, name := range repoNames {
		urls[name] = c.GitHubBaseURL + "/" + name
	}
	return urls
}
