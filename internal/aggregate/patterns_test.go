package aggregate

import (
	"errors"
	"testing"
	"time"

	"github.com/depadopt/depadopt/internal/gitio"
	"github.com/depadopt/depadopt/internal/manifest"
	"github.com/depadopt/depadopt/internal/timeline"
)

func adoption(repo, version string, when time.Time) timeline.Event {
	return timeline.Event{
		Repository: repo,
		Commit:     gitio.CommitInfo{When: when},
		New:        &manifest.Resolution{Version: version},
	}
}

func TestAnalyzePatterns(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	results := []RepoResult{
		{
			Repository: "repo-a",
			Timeline: timeline.Timeline{
				Repository: "repo-a",
				Events: []timeline.Event{
					adoption("repo-a", "1.0.0", base),
					adoption("repo-a", "2.0.0", base.AddDate(0, 2, 0)),
				},
				Current: &manifest.Resolution{Version: "2.0.0"},
			},
		},
		{
			Repository: "repo-b",
			Timeline: timeline.Timeline{
				Repository: "repo-b",
				Events: []timeline.Event{
					adoption("repo-b", "1.0.0", base.AddDate(0, 0, 10)),
				},
				Current: &manifest.Resolution{Version: "^1.0.0"},
			},
		},
		{
			Repository: "repo-broken",
			Err:        errors.New("walk failed"),
		},
	}

	patterns := AnalyzePatterns(results)

	// Distribution counts current versions, cleaned, excluding failures.
	if patterns.Distribution["2.0.0"] != 1 || patterns.Distribution["1.0.0"] != 1 {
		t.Errorf("Distribution = %v, expected one repo each on 1.0.0 and 2.0.0", patterns.Distribution)
	}
	if len(patterns.Distribution) != 2 {
		t.Errorf("Distribution has %d entries, expected 2", len(patterns.Distribution))
	}

	// Timeline ordered by first appearance.
	if len(patterns.Timeline) != 2 {
		t.Fatalf("Timeline has %d entries, expected 2", len(patterns.Timeline))
	}
	first := patterns.Timeline[0]
	if first.Version != "1.0.0" || first.FirstRepo != "repo-a" {
		t.Errorf("first intro = %s by %s, expected 1.0.0 by repo-a", first.Version, first.FirstRepo)
	}
	if len(first.Repos) != 2 {
		t.Errorf("1.0.0 adopted by %d repos, expected 2", len(first.Repos))
	}

	// repo-b is behind the fleet's latest version.
	if len(patterns.Laggards) != 1 {
		t.Fatalf("got %d laggards, expected 1", len(patterns.Laggards))
	}
	lag := patterns.Laggards[0]
	if lag.Repository != "repo-b" || lag.CurrentVersion != "1.0.0" || lag.LatestVersion != "2.0.0" {
		t.Errorf("Laggard = %+v", lag)
	}

	// 1.0.0 spread from repo-a to repo-b over 10 days.
	if len(patterns.Speed) != 1 {
		t.Fatalf("got %d speed entries, expected 1 (single-repo versions excluded)", len(patterns.Speed))
	}
	speed := patterns.Speed[0]
	if speed.Version != "1.0.0" || speed.Days != 10 || speed.ReposAdopted != 2 {
		t.Errorf("Speed = %+v, expected 1.0.0 over 10 days in 2 repos", speed)
	}
}

func TestAnalyzePatterns_Empty(t *testing.T) {
	patterns := AnalyzePatterns(nil)
	if len(patterns.Timeline) != 0 || len(patterns.Laggards) != 0 || len(patterns.Speed) != 0 {
		t.Errorf("patterns from no results should be empty: %+v", patterns)
	}
}

func TestLatestVersion(t *testing.T) {
	tests := []struct {
		name     string
		current  map[string]string
		expected string
	}{
		{
			name:     "Highest wins",
			current:  map[string]string{"a": "1.0.0", "b": "2.0.0", "c": "1.5.0"},
			expected: "2.0.0",
		},
		{
			name:     "Unparseable skipped",
			current:  map[string]string{"a": "1.0.0", "b": "workspace:*"},
			expected: "1.0.0",
		},
		{
			name:     "All unparseable",
			current:  map[string]string{"a": "latest"},
			expected: "",
		},
		{name: "Empty", current: nil, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := latestVersion(tt.current); got != tt.expected {
				t.Errorf("latestVersion() = %q, expected %q", got, tt.expected)
			}
		})
	}
}
