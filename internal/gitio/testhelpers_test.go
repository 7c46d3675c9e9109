package gitio

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// initTestRepo creates a temporary git repository for reader tests.
func initTestRepo(t *testing.T) (string, *git.Repository) {
	t.Helper()

	tmpDir := t.TempDir()
	repo, err := git.PlainInit(tmpDir, false)
	if err != nil {
		t.Fatalf("Failed to initialize git repo: %v", err)
	}
	return tmpDir, repo
}

// commitFile writes a file and commits it with the given message and time.
func commitFile(t *testing.T, repo *git.Repository, name, content, message string, when time.Time) plumbing.Hash {
	t.Helper()

	w, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Failed to get worktree: %v", err)
	}

	path := filepath.Join(w.Filesystem.Root(), name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if _, err := w.Add(name); err != nil {
		t.Fatalf("Failed to add file: %v", err)
	}

	hash, err := w.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Test Author",
			Email: "test@example.com",
			When:  when,
		},
	})
	if err != nil {
		t.Fatalf("Failed to commit: %v", err)
	}
	return hash
}

// removeFile deletes a tracked file and commits the removal.
func removeFile(t *testing.T, repo *git.Repository, name, message string, when time.Time) plumbing.Hash {
	t.Helper()

	w, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Failed to get worktree: %v", err)
	}
	if _, err := w.Remove(name); err != nil {
		t.Fatalf("Failed to remove file: %v", err)
	}

	hash, err := w.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Test Author",
			Email: "test@example.com",
			When:  when,
		},
	})
	if err != nil {
		t.Fatalf("Failed to commit removal: %v", err)
	}
	return hash
}

// createLightweightTag points a tag ref directly at a commit.
func createLightweightTag(t *testing.T, repo *git.Repository, name string, hash plumbing.Hash) {
	t.Helper()
	if _, err := repo.CreateTag(name, hash, nil); err != nil {
		t.Fatalf("Failed to create tag %s: %v", name, err)
	}
}

// createAnnotatedTag creates a tag object with its own tagger date.
func createAnnotatedTag(t *testing.T, repo *git.Repository, name string, hash plumbing.Hash, when time.Time) {
	t.Helper()
	_, err := repo.CreateTag(name, hash, &git.CreateTagOptions{
		Tagger: &object.Signature{
			Name:  "Test Tagger",
			Email: "tagger@example.com",
			When:  when,
		},
		Message: "release " + name,
	})
	if err != nil {
		t.Fatalf("Failed to create annotated tag %s: %v", name, err)
	}
}
