package gitio

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// ErrNotARepository indicates the configured path is not a valid Git
// repository. Multi-repo runs record it per repository and continue.
var ErrNotARepository = errors.New("not a git repository")

// HistoryReader reads manifest history from a Git repository.
type HistoryReader struct {
	repo *git.Repository
	opts ReadOptions
}

// NewHistoryReader opens the repository for the given options.
func NewHistoryReader(opts ReadOptions) (*HistoryReader, error) {
	if opts.ManifestPath == "" {
		opts.ManifestPath = "package.json"
	}

	repo, err := git.PlainOpen(opts.RepoPath)
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%w: %s", ErrNotARepository, opts.RepoPath)
		}
		return nil, err
	}
	return &HistoryReader{repo: repo, opts: opts}, nil
}

// ReadManifestRevisions returns the manifest state at every commit that
// touched the manifest path, oldest first.
func (r *HistoryReader) ReadManifestRevisions(ctx context.Context) ([]ManifestRevision, error) {
	if r.opts.UseGitCLI {
		return r.readManifestRevisionsCLI(ctx)
	}

	from, err := r.startHash()
	if err != nil {
		return nil, err
	}

	logOpts := &git.LogOptions{
		From: from,
		PathFilter: func(p string) bool {
			return p == r.opts.ManifestPath
		},
	}
	if r.opts.Since != nil {
		logOpts.Since = r.opts.Since
	}
	if r.opts.Until != nil {
		logOpts.Until = r.opts.Until
	}

	cIter, err := r.repo.Log(logOpts)
	if err != nil {
		return nil, err
	}

	var revisions []ManifestRevision

	err = cIter.ForEach(func(c *object.Commit) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		rev := ManifestRevision{Commit: commitInfo(c)}

		file, err := c.File(r.opts.ManifestPath)
		switch {
		case err == nil:
			content, err := file.Contents()
			if err != nil {
				return err
			}
			rev.Content = []byte(content)
		case errors.Is(err, object.ErrFileNotFound):
			rev.Missing = true
		default:
			return err
		}

		revisions = append(revisions, rev)
		return nil
	})
	if err != nil {
		return nil, err
	}

	// go-git yields newest first; reverse into commit order so that the
	// stable sort below keeps same-second commits parent-before-child.
	for i, j := 0, len(revisions)-1; i < j; i, j = i+1, j-1 {
		revisions[i], revisions[j] = revisions[j], revisions[i]
	}
	sort.SliceStable(revisions, func(i, j int) bool {
		return revisions[i].Commit.When.Before(revisions[j].Commit.When)
	})

	return revisions, nil
}

// startHash resolves the revision the log traversal starts from.
func (r *HistoryReader) startHash() (plumbing.Hash, error) {
	branch := strings.TrimSpace(r.opts.Branch)
	if branch == "" || strings.EqualFold(branch, "HEAD") {
		ref, err := r.repo.Head()
		if err != nil {
			return plumbing.ZeroHash, err
		}
		return ref.Hash(), nil
	}

	hash, err := r.repo.ResolveRevision(plumbing.Revision(branch))
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("resolve branch %q: %w", branch, err)
	}
	return *hash, nil
}

func commitInfo(c *object.Commit) CommitInfo {
	// Reports only use the first line of the commit message.
	message := c.Message
	if idx := strings.IndexByte(message, '\n'); idx != -1 {
		message = message[:idx]
	}

	return CommitInfo{
		SHA:     c.Hash.String(),
		When:    c.Committer.When,
		Author:  AuthorInfo{Name: c.Author.Name, Email: c.Author.Email},
		Message: message,
	}
}
