package gitio

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// readManifestRevisionsCLI shells out to the git CLI instead of using
// go-git. Header fields are NUL-separated so commit subjects containing
// pipes or newlines cannot break parsing.
func (r *HistoryReader) readManifestRevisionsCLI(ctx context.Context) ([]ManifestRevision, error) {
	const format = "%H%x00%cI%x00%an%x00%ae%x00%s"

	args := []string{
		"-C", r.opts.RepoPath,
		"log",
		"--no-color",
		"--reverse",
		"--pretty=format:" + format,
	}

	if r.opts.Since != nil {
		args = append(args, fmt.Sprintf("--since=@%d", r.opts.Since.Unix()))
	}
	if r.opts.Until != nil {
		args = append(args, fmt.Sprintf("--until=@%d", r.opts.Until.Unix()))
	}

	rev := strings.TrimSpace(r.opts.Branch)
	if rev != "" && !strings.EqualFold(rev, "HEAD") {
		args = append(args, rev)
	}

	args = append(args, "--", r.opts.ManifestPath)

	out, err := exec.CommandContext(ctx, "git", args...).CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("git log failed: %w: %s", err, strings.TrimSpace(string(out)))
	}

	var revisions []ManifestRevision

	for _, line := range bytes.Split(out, []byte{'\n'}) {
		if len(line) == 0 {
			continue
		}

		fields := bytes.SplitN(line, []byte{0x00}, 5)
		if len(fields) < 5 {
			return nil, fmt.Errorf("unexpected git log header format")
		}

		when, err := time.Parse(time.RFC3339, string(fields[1]))
		if err != nil {
			return nil, fmt.Errorf("parse committer date: %w", err)
		}

		info := CommitInfo{
			SHA:  string(fields[0]),
			When: when,
			Author: AuthorInfo{
				Name:  string(fields[2]),
				Email: string(fields[3]),
			},
			Message: string(fields[4]),
		}

		content, missing, err := r.showManifest(ctx, info.SHA)
		if err != nil {
			return nil, err
		}

		revisions = append(revisions, ManifestRevision{
			Commit:  info,
			Content: content,
			Missing: missing,
		})
	}

	return revisions, nil
}

// showManifest reads the manifest blob at a commit via `git show`.
// A failing show means the manifest does not exist at that commit.
func (r *HistoryReader) showManifest(ctx context.Context, sha string) ([]byte, bool, error) {
	spec := sha + ":" + r.opts.ManifestPath
	cmd := exec.CommandContext(ctx, "git", "-C", r.opts.RepoPath, "show", spec)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return nil, true, nil
		}
		return nil, false, fmt.Errorf("git show %s: %w: %s", spec, err, strings.TrimSpace(stderr.String()))
	}

	return stdout.Bytes(), false, nil
}
