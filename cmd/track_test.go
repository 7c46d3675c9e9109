package cmd

import (
	"path/filepath"
	"testing"
	"time"
)

// initRepoWithHistory creates a repository whose manifest adopts and then
// bumps the given package inside the default look-back window.
func initRepoWithHistory(t *testing.T, pkg string) string {
	t.Helper()

	dir, repo := initGitRepo(t)
	now := time.Now()
	commitManifest(t, repo, `{"dependencies": {"`+pkg+`": "1.0.0"}}`, now.AddDate(0, 0, -60))
	commitManifest(t, repo, `{"dependencies": {"`+pkg+`": "2.0.0"}}`, now.AddDate(0, 0, -10))
	return dir
}

func savedExports(t *testing.T) []string {
	t.Helper()
	matches, err := filepath.Glob("component_versions_*.json")
	if err != nil {
		t.Fatalf("Failed to glob exports: %v", err)
	}
	return matches
}

func TestTrackCommand_SavesExportByDefault(t *testing.T) {
	repoDir := initRepoWithHistory(t, "@myorg/ui-kit")
	t.Chdir(t.TempDir())

	err := App().Run([]string{"depadopt", "track", "--package", "@myorg/ui-kit", "--repo", repoDir})
	if err != nil {
		t.Fatalf("track command failed: %v", err)
	}

	if exports := savedExports(t); len(exports) != 1 {
		t.Errorf("got %d exports, expected a console run with changes to save one", len(exports))
	}
}

func TestTrackCommand_NoSaveSkipsExport(t *testing.T) {
	repoDir := initRepoWithHistory(t, "@myorg/ui-kit")
	t.Chdir(t.TempDir())

	err := App().Run([]string{"depadopt", "track", "--package", "@myorg/ui-kit", "--repo", repoDir, "--no-save"})
	if err != nil {
		t.Fatalf("track command failed: %v", err)
	}

	if exports := savedExports(t); len(exports) != 0 {
		t.Errorf("got %d exports, expected none with --no-save", len(exports))
	}
}
