package gitio

import (
	"errors"
	"sort"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// ReadTags returns all tags of a repository with their dates, newest first.
// Annotated tags report the tagger date; lightweight tags resolve to the
// commit they point at and report the committer date.
func ReadTags(repoPath string) ([]TagInfo, error) {
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, ErrNotARepository
		}
		return nil, err
	}

	iter, err := repo.Tags()
	if err != nil {
		return nil, err
	}

	var tags []TagInfo

	err = iter.ForEach(func(ref *plumbing.Reference) error {
		info := TagInfo{Name: ref.Name().Short()}

		if tag, err := repo.TagObject(ref.Hash()); err == nil {
			info.When = tag.Tagger.When
		} else if errors.Is(err, plumbing.ErrObjectNotFound) {
			commit, err := repo.CommitObject(ref.Hash())
			if err != nil {
				// Tag points at something other than a commit; skip it.
				return nil
			}
			info.When = commit.Committer.When
		} else {
			return err
		}

		tags = append(tags, info)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(tags, func(i, j int) bool {
		return tags[i].When.After(tags[j].When)
	})

	return tags, nil
}

// ManifestAtHead reads the current manifest content from the working tree
// commit at HEAD. Returns missing=true when the file is not present.
func ManifestAtHead(repoPath, manifestPath string) ([]byte, bool, error) {
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, false, ErrNotARepository
		}
		return nil, false, err
	}

	ref, err := repo.Head()
	if err != nil {
		return nil, false, err
	}

	commit, err := repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, false, err
	}

	file, err := commit.File(manifestPath)
	if errors.Is(err, object.ErrFileNotFound) {
		return nil, true, nil
	}
	if err != nil {
		return nil, false, err
	}

	content, err := file.Contents()
	if err != nil {
		return nil, false, err
	}
	return []byte(content), false, nil
}
