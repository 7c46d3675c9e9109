package timeline

import (
	"context"

	"github.com/depadopt/depadopt/internal/gitio"
	"github.com/depadopt/depadopt/internal/manifest"
)

// Walker turns a repository's manifest history into a Timeline for one
// tracked package.
type Walker struct {
	pkg string
}

// NewWalker creates a walker for the given package name.
func NewWalker(pkg string) *Walker {
	return &Walker{pkg: pkg}
}

// Walk reads manifest revisions from the source and emits a change event
// for every commit where the effective version differs from the previous
// one. The first resolved state becomes a baseline event with a nil
// previous version; a commit dropping the dependency emits a nil new
// version. Malformed manifests are counted and skipped, the walk continues.
func (w *Walker) Walk(ctx context.Context, repoName string, source gitio.ManifestSource) (Timeline, error) {
	revisions, err := source.ReadManifestRevisions(ctx)
	if err != nil {
		return Timeline{Repository: repoName}, err
	}
	return w.walk(repoName, revisions), nil
}

func (w *Walker) walk(repoName string, revisions []gitio.ManifestRevision) Timeline {
	tl := Timeline{Repository: repoName}

	var last *manifest.Resolution

	for _, rev := range revisions {
		var cur *manifest.Resolution

		if !rev.Missing {
			versions, err := manifest.Extract(rev.Content, w.pkg)
			if err != nil {
				// Malformed manifest at this commit: skip the commit,
				// keep the walk going.
				tl.ParseFailures++
				continue
			}
			cur = versions.Effective()
		}

		tl.CommitsScanned++

		if versionChanged(last, cur) {
			tl.Events = append(tl.Events, Event{
				Repository: repoName,
				Commit:     rev.Commit,
				Prev:       last,
				New:        cur,
			})
		}

		last = cur
	}

	tl.Current = last
	return tl
}

// versionChanged reports whether the effective version string differs.
// A change of declaration kind with the same version is not an event.
func versionChanged(prev, cur *manifest.Resolution) bool {
	switch {
	case prev == nil && cur == nil:
		return false
	case prev == nil || cur == nil:
		return true
	default:
		return prev.Version != cur.Version
	}
}
