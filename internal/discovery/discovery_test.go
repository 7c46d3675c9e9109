package discovery

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// makeRepo creates a directory that passes the git repository check, with
// an optional manifest file.
func makeRepo(t *testing.T, parent, name string, withManifest bool) string {
	t.Helper()
	path := filepath.Join(parent, name)
	if err := os.MkdirAll(filepath.Join(path, ".git"), 0755); err != nil {
		t.Fatalf("Failed to create repo dir: %v", err)
	}
	if withManifest {
		if err := os.WriteFile(filepath.Join(path, "package.json"), []byte("{}"), 0644); err != nil {
			t.Fatalf("Failed to write manifest: %v", err)
		}
	}
	return path
}

func TestResolve_CommaList(t *testing.T) {
	dir := t.TempDir()
	a := makeRepo(t, dir, "repo-a", true)
	b := makeRepo(t, dir, "repo-b", true)
	notARepo := filepath.Join(dir, "plain-dir")
	os.MkdirAll(notARepo, 0755)

	res, err := Resolve(a+", "+b+","+notARepo, Options{})
	if err != nil {
		t.Fatalf("Resolve() unexpected error: %v", err)
	}

	if len(res.Repos) != 2 {
		t.Fatalf("got %d repos, expected 2", len(res.Repos))
	}
	if len(res.Skipped) != 1 || !strings.Contains(res.Skipped[0], "not a valid git repository") {
		t.Errorf("Skipped = %v, expected plain-dir rejected", res.Skipped)
	}
}

func TestResolve_ListFile(t *testing.T) {
	dir := t.TempDir()
	a := makeRepo(t, dir, "repo-a", true)
	b := makeRepo(t, dir, "repo-b", true)

	listFile := filepath.Join(dir, "repos.txt")
	content := "# team repositories\n" + a + "\n\n" + b + "\n"
	if err := os.WriteFile(listFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write list file: %v", err)
	}

	res, err := Resolve(listFile, Options{})
	if err != nil {
		t.Fatalf("Resolve() unexpected error: %v", err)
	}
	if len(res.Repos) != 2 {
		t.Errorf("got %d repos, expected 2 (comments and blanks skipped)", len(res.Repos))
	}
}

func TestResolve_DirScan(t *testing.T) {
	dir := t.TempDir()
	makeRepo(t, dir, "repo-a", true)
	makeRepo(t, dir, "repo-no-manifest", false)
	os.MkdirAll(filepath.Join(dir, "not-a-repo"), 0755)
	os.WriteFile(filepath.Join(dir, "stray-file"), []byte("x"), 0644)

	res, err := Resolve(dir, Options{})
	if err != nil {
		t.Fatalf("Resolve() unexpected error: %v", err)
	}
	if len(res.Repos) != 1 {
		t.Fatalf("got %d repos, expected only repo-a", len(res.Repos))
	}
	if filepath.Base(res.Repos[0]) != "repo-a" {
		t.Errorf("repo = %q, expected repo-a", res.Repos[0])
	}
}

func TestResolve_Filters(t *testing.T) {
	dir := t.TempDir()
	makeRepo(t, dir, "web-app", true)
	makeRepo(t, dir, "web-admin", true)
	makeRepo(t, dir, "backend-api", true)

	tests := []struct {
		name     string
		opts     Options
		expected []string
	}{
		{
			name:     "Include glob",
			opts:     Options{Include: []string{"web-*"}},
			expected: []string{"web-admin", "web-app"},
		},
		{
			name:     "Exclude glob",
			opts:     Options{Exclude: []string{"web-*"}},
			expected: []string{"backend-api"},
		},
		{
			name:     "Exclude wins over include",
			opts:     Options{Include: []string{"web-*"}, Exclude: []string{"web-admin"}},
			expected: []string{"web-app"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Resolve(dir, tt.opts)
			if err != nil {
				t.Fatalf("Resolve() unexpected error: %v", err)
			}
			if len(res.Repos) != len(tt.expected) {
				t.Fatalf("got %d repos, expected %d", len(res.Repos), len(tt.expected))
			}
			for i, want := range tt.expected {
				if filepath.Base(res.Repos[i]) != want {
					t.Errorf("repos[%d] = %q, expected %q", i, res.Repos[i], want)
				}
			}
		})
	}
}

func TestResolve_NoRepositories(t *testing.T) {
	dir := t.TempDir()

	_, err := Resolve(dir, Options{})
	if !errors.Is(err, ErrNoRepositories) {
		t.Errorf("Resolve() error = %v, expected ErrNoRepositories", err)
	}
}

func TestResolve_Deduplicates(t *testing.T) {
	dir := t.TempDir()
	a := makeRepo(t, dir, "repo-a", true)

	res, err := Resolve(a+","+a, Options{})
	if err != nil {
		t.Fatalf("Resolve() unexpected error: %v", err)
	}
	if len(res.Repos) != 1 {
		t.Errorf("got %d repos, expected 1 after deduplication", len(res.Repos))
	}
}

func TestFromPaths(t *testing.T) {
	dir := t.TempDir()
	a := makeRepo(t, dir, "repo-a", true)
	missing := filepath.Join(dir, "gone")

	res, err := FromPaths([]string{a, missing}, Options{})
	if err != nil {
		t.Fatalf("FromPaths() unexpected error: %v", err)
	}
	if len(res.Repos) != 1 {
		t.Errorf("got %d repos, expected 1", len(res.Repos))
	}
	if len(res.Skipped) != 1 {
		t.Errorf("got %d skipped, expected 1", len(res.Skipped))
	}

	if _, err := FromPaths([]string{missing}, Options{}); !errors.Is(err, ErrNoRepositories) {
		t.Errorf("FromPaths() error = %v, expected ErrNoRepositories", err)
	}
}

func TestMatchesName(t *testing.T) {
	tests := []struct {
		name     string
		repo     string
		opts     Options
		expected bool
	}{
		{name: "No filters", repo: "anything", opts: Options{}, expected: true},
		{name: "Include match", repo: "web-app", opts: Options{Include: []string{"web-*"}}, expected: true},
		{name: "Include miss", repo: "api", opts: Options{Include: []string{"web-*"}}, expected: false},
		{name: "Exclude match", repo: "web-app", opts: Options{Exclude: []string{"*-app"}}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matchesName(tt.repo, tt.opts); got != tt.expected {
				t.Errorf("matchesName(%q) = %v, expected %v", tt.repo, got, tt.expected)
			}
		})
	}
}
