// Package discovery resolves the set of repositories a multi-repo run
// operates on. The input may be a file listing paths, a directory to scan,
// or a comma-separated list of paths.
package discovery

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrNoRepositories indicates no usable repository could be resolved.
// This is the one discovery condition that aborts a run.
var ErrNoRepositories = errors.New("no valid repositories found")

// Options controls repository resolution.
type Options struct {
	ManifestPath string   // manifest a scanned directory must contain
	Include      []string // glob patterns on repository names
	Exclude      []string // glob patterns on repository names
}

// Result holds resolved repositories and the inputs that were skipped.
type Result struct {
	Repos   []string // absolute paths, sorted, deduplicated
	Skipped []string // inputs rejected with the reason appended
}

// Resolve turns a repos input into repository paths. Individual bad
// entries are skipped and reported, not fatal; an empty result is.
func Resolve(input string, opts Options) (Result, error) {
	if opts.ManifestPath == "" {
		opts.ManifestPath = "package.json"
	}

	var res Result

	switch {
	case isFile(input):
		if err := res.fromListFile(input, opts); err != nil {
			return res, err
		}
	case isDir(input):
		if err := res.fromDirScan(input, opts); err != nil {
			return res, err
		}
	default:
		res.fromPathList(input, opts)
	}

	res.Repos = dedupeSorted(res.Repos)
	if len(res.Repos) == 0 {
		return res, ErrNoRepositories
	}
	return res, nil
}

// FromPaths validates an explicit list of repository paths, e.g. from the
// configuration file's repo list joined with the code base path.
func FromPaths(paths []string, opts Options) (Result, error) {
	var res Result
	for _, p := range paths {
		res.addCandidate(p, opts)
	}
	res.Repos = dedupeSorted(res.Repos)
	if len(res.Repos) == 0 {
		return res, ErrNoRepositories
	}
	return res, nil
}

func (r *Result) fromListFile(path string, opts Options) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		r.addCandidate(line, opts)
	}
	return scanner.Err()
}

func (r *Result) fromDirScan(dir string, opts Options) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if !isDir(filepath.Join(path, ".git")) {
			continue
		}
		if !isFile(filepath.Join(path, opts.ManifestPath)) {
			continue
		}
		if !matchesName(entry.Name(), opts) {
			continue
		}
		if abs, err := filepath.Abs(path); err == nil {
			r.Repos = append(r.Repos, abs)
		}
	}
	return nil
}

func (r *Result) fromPathList(input string, opts Options) {
	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		r.addCandidate(part, opts)
	}
}

// addCandidate accepts a path when it is a git repository and its name
// passes the filters; otherwise it is recorded as skipped.
func (r *Result) addCandidate(path string, opts Options) {
	expanded := expandHome(path)
	abs, err := filepath.Abs(expanded)
	if err != nil {
		r.Skipped = append(r.Skipped, fmt.Sprintf("%s: %v", path, err))
		return
	}

	if !isDir(filepath.Join(abs, ".git")) {
		r.Skipped = append(r.Skipped, fmt.Sprintf("%s: not a valid git repository", path))
		return
	}
	if !matchesName(filepath.Base(abs), opts) {
		r.Skipped = append(r.Skipped, fmt.Sprintf("%s: excluded by name filters", path))
		return
	}

	r.Repos = append(r.Repos, abs)
}

func matchesName(name string, opts Options) bool {
	for _, pattern := range opts.Exclude {
		if matched, _ := doublestar.Match(pattern, name); matched {
			return false
		}
	}
	if len(opts.Include) == 0 {
		return true
	}
	for _, pattern := range opts.Include {
		if matched, _ := doublestar.Match(pattern, name); matched {
			return true
		}
	}
	return false
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func dedupeSorted(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	out := paths[:0]
	for _, p := range paths {
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
