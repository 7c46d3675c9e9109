package release

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/depadopt/depadopt/internal/gitio"
)

var semverRe = regexp.MustCompile(`^(\d+\.\d+\.\d+)`)

// ExtractFromTags mines release records from repository tags. Recognized
// tag shapes, matching common npm release tagging conventions:
//
//	<pkg>@1.2.3        full package name, e.g. @scope/name@1.2.3
//	<short>@1.2.3      package name without scope
//	v1.2.3
//	1.2.3
//
// Pre-release suffixes are stripped; tags outside the window are dropped.
func ExtractFromTags(tags []gitio.TagInfo, pkg string, since time.Time) []Record {
	short := pkg
	if idx := strings.LastIndexByte(pkg, '/'); idx != -1 {
		short = pkg[idx+1:]
	}

	var records []Record
	seen := make(map[string]struct{})

	for _, tag := range tags {
		if tag.When.Before(since) {
			continue
		}

		var raw string
		switch {
		case pkg != "" && strings.Contains(tag.Name, pkg+"@"):
			raw = tag.Name[strings.Index(tag.Name, pkg+"@")+len(pkg)+1:]
		case short != "" && strings.Contains(tag.Name, short+"@"):
			raw = tag.Name[strings.Index(tag.Name, short+"@")+len(short)+1:]
		case strings.HasPrefix(tag.Name, "v") && semverRe.MatchString(tag.Name[1:]):
			raw = tag.Name[1:]
		case semverRe.MatchString(tag.Name):
			raw = tag.Name
		default:
			continue
		}

		m := semverRe.FindStringSubmatch(raw)
		if m == nil {
			continue
		}
		version := m[1]

		// Keep the earliest date per version; retagged releases happen.
		if _, dup := seen[version]; dup {
			continue
		}
		seen[version] = struct{}{}

		records = append(records, Record{
			Version: version,
			Date:    tag.When,
			Tag:     tag.Name,
		})
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})

	return records
}

// ExtractFromRevisions mines release records from the package's own
// manifest history: every commit where the declared "version" field first
// takes a new value becomes a release record. Fallback for repositories
// that do not tag releases.
func ExtractFromRevisions(revisions []gitio.ManifestRevision, declaredVersion func([]byte) (string, error)) []Record {
	var records []Record
	seen := make(map[string]struct{})

	for _, rev := range revisions {
		if rev.Missing {
			continue
		}

		version, err := declaredVersion(rev.Content)
		if err != nil || version == "" {
			continue
		}

		m := semverRe.FindStringSubmatch(version)
		if m == nil {
			continue
		}
		version = m[1]

		if _, dup := seen[version]; dup {
			continue
		}
		seen[version] = struct{}{}

		records = append(records, Record{
			Version: version,
			Date:    rev.Commit.When,
			Commit:  rev.Commit.ShortSHA(),
		})
	}

	return records
}
