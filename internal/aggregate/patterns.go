package aggregate

import (
	"sort"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/depadopt/depadopt/internal/release"
)

// VersionIntro records when a version first appeared anywhere in the fleet
// and which repositories adopted it.
type VersionIntro struct {
	Version   string
	FirstSeen time.Time
	FirstRepo string
	LastSeen  time.Time
	Repos     []string
}

// Laggard is a repository whose current version is behind the latest one
// observed across the fleet.
type Laggard struct {
	Repository     string
	CurrentVersion string
	LatestVersion  string
}

// AdoptionSpeed measures how long a version took to spread from its first
// adopter to its last.
type AdoptionSpeed struct {
	Version      string
	Days         int
	ReposAdopted int
}

// Patterns is the cross-repository adoption analysis.
type Patterns struct {
	Timeline     []VersionIntro // ordered by first appearance
	Distribution map[string]int // current version -> repo count
	Laggards     []Laggard
	Speed        []AdoptionSpeed // ordered fastest first
}

// AnalyzePatterns derives fleet-wide adoption patterns from per-repository
// results. Failed repositories are excluded.
func AnalyzePatterns(results []RepoResult) Patterns {
	patterns := Patterns{Distribution: make(map[string]int)}

	intros := make(map[string]*VersionIntro)
	currentVersions := make(map[string]string)

	for _, res := range results {
		if res.Failed() {
			continue
		}

		if cur := res.Timeline.CurrentVersion(); cur != "" {
			clean := release.CleanVersion(cur)
			currentVersions[res.Repository] = clean
			patterns.Distribution[clean]++
		}

		for _, event := range res.Timeline.Events {
			if event.New == nil {
				continue
			}
			version := release.CleanVersion(event.New.Version)
			when := event.Commit.When

			intro, ok := intros[version]
			if !ok {
				intro = &VersionIntro{
					Version:   version,
					FirstSeen: when,
					FirstRepo: res.Repository,
					LastSeen:  when,
				}
				intros[version] = intro
			} else {
				if when.Before(intro.FirstSeen) {
					intro.FirstSeen = when
					intro.FirstRepo = res.Repository
				}
				if when.After(intro.LastSeen) {
					intro.LastSeen = when
				}
			}

			if !containsString(intro.Repos, res.Repository) {
				intro.Repos = append(intro.Repos, res.Repository)
			}
		}
	}

	for _, intro := range intros {
		sort.Strings(intro.Repos)
		patterns.Timeline = append(patterns.Timeline, *intro)

		if len(intro.Repos) > 1 {
			patterns.Speed = append(patterns.Speed, AdoptionSpeed{
				Version:      intro.Version,
				Days:         int(intro.LastSeen.Sub(intro.FirstSeen).Hours() / 24),
				ReposAdopted: len(intro.Repos),
			})
		}
	}

	sort.Slice(patterns.Timeline, func(i, j int) bool {
		return patterns.Timeline[i].FirstSeen.Before(patterns.Timeline[j].FirstSeen)
	})
	sort.Slice(patterns.Speed, func(i, j int) bool {
		return patterns.Speed[i].Days < patterns.Speed[j].Days
	})

	if latest := latestVersion(currentVersions); latest != "" {
		repos := make([]string, 0, len(currentVersions))
		for repo := range currentVersions {
			repos = append(repos, repo)
		}
		sort.Strings(repos)

		for _, repo := range repos {
			if currentVersions[repo] != latest {
				patterns.Laggards = append(patterns.Laggards, Laggard{
					Repository:     repo,
					CurrentVersion: currentVersions[repo],
					LatestVersion:  latest,
				})
			}
		}
	}

	return patterns
}

// latestVersion returns the highest current version across the fleet.
func latestVersion(current map[string]string) string {
	var best *semver.Version
	var bestRaw string

	for _, raw := range current {
		v, err := semver.NewVersion(raw)
		if err != nil {
			continue
		}
		if best == nil || v.GreaterThan(best) {
			best = v
			bestRaw = raw
		}
	}
	return bestRaw
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
