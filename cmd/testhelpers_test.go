package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// initGitRepo creates a temporary git repository for command tests.
func initGitRepo(t *testing.T) (string, *git.Repository) {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("Failed to initialize git repo: %v", err)
	}
	return dir, repo
}

// commitManifest writes package.json and commits it at the given time.
func commitManifest(t *testing.T, repo *git.Repository, content string, when time.Time) {
	t.Helper()

	w, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Failed to get worktree: %v", err)
	}

	path := filepath.Join(w.Filesystem.Root(), "package.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write manifest: %v", err)
	}
	if _, err := w.Add("package.json"); err != nil {
		t.Fatalf("Failed to add manifest: %v", err)
	}
	if _, err := w.Commit("Update manifest", &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Test Author",
			Email: "test@example.com",
			When:  when,
		},
	}); err != nil {
		t.Fatalf("Failed to commit: %v", err)
	}
}
