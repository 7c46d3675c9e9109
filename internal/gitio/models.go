package gitio

import (
	"strings"
	"time"
)

// CommitInfo represents minimal information about a Git commit.
type CommitInfo struct {
	SHA     string
	When    time.Time
	Author  AuthorInfo
	Message string
}

// ShortSHA returns the abbreviated commit hash used in reports.
func (c CommitInfo) ShortSHA() string {
	if len(c.SHA) > 8 {
		return c.SHA[:8]
	}
	return c.SHA
}

// AuthorInfo represents commit author information.
type AuthorInfo struct {
	Name  string
	Email string
}

// ContributorKey returns a normalized identifier for grouping contributors.
func (a AuthorInfo) ContributorKey() string {
	return strings.ToLower(a.Email)
}

// ManifestRevision is the state of the dependency manifest at one commit.
// Missing is set when the commit does not contain the manifest file at all,
// which is distinct from a manifest that fails to parse.
type ManifestRevision struct {
	Commit  CommitInfo
	Content []byte
	Missing bool
}

// TagInfo is a repository tag with its creation date. Annotated tags use
// the tagger date, lightweight tags fall back to the committer date.
type TagInfo struct {
	Name string
	When time.Time
}

// ReadOptions configures the history reader.
type ReadOptions struct {
	RepoPath     string
	ManifestPath string // relative path of the manifest, e.g. "package.json"
	Branch       string
	Since        *time.Time
	Until        *time.Time
	UseGitCLI    bool // shell out to git instead of using go-git
}
