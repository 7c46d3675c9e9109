package release

import (
	"fmt"
	"testing"
	"time"

	"github.com/depadopt/depadopt/internal/gitio"
	"github.com/depadopt/depadopt/internal/manifest"
)

func TestExtractFromTags(t *testing.T) {
	since := day(2020, 1, 1)

	tests := []struct {
		name     string
		tags     []gitio.TagInfo
		pkg      string
		expected []string
	}{
		{
			name: "Scoped package tags",
			tags: []gitio.TagInfo{
				{Name: "@myorg/ui-kit@1.0.0", When: day(2024, 1, 1)},
				{Name: "@myorg/ui-kit@1.1.0", When: day(2024, 2, 1)},
			},
			pkg:      "@myorg/ui-kit",
			expected: []string{"1.0.0", "1.1.0"},
		},
		{
			name: "Short name tags",
			tags: []gitio.TagInfo{
				{Name: "ui-kit@2.0.0", When: day(2024, 3, 1)},
			},
			pkg:      "@myorg/ui-kit",
			expected: []string{"2.0.0"},
		},
		{
			name: "Version prefix tags",
			tags: []gitio.TagInfo{
				{Name: "v1.2.3", When: day(2024, 1, 1)},
				{Name: "1.3.0", When: day(2024, 2, 1)},
			},
			pkg:      "@myorg/ui-kit",
			expected: []string{"1.2.3", "1.3.0"},
		},
		{
			name: "Pre-release suffix stripped",
			tags: []gitio.TagInfo{
				{Name: "@myorg/ui-kit@1.0.0-beta.1", When: day(2024, 1, 1)},
			},
			pkg:      "@myorg/ui-kit",
			expected: []string{"1.0.0"},
		},
		{
			name: "Unrelated tags skipped",
			tags: []gitio.TagInfo{
				{Name: "deploy-2024-01-01", When: day(2024, 1, 1)},
				{Name: "other-pkg@3.0.0", When: day(2024, 1, 2)},
				{Name: "@myorg/ui-kit@1.0.0", When: day(2024, 1, 3)},
			},
			pkg:      "@myorg/ui-kit",
			expected: []string{"1.0.0"},
		},
		{
			name: "Duplicate versions keep first occurrence",
			tags: []gitio.TagInfo{
				{Name: "@myorg/ui-kit@1.0.0", When: day(2024, 1, 1)},
				{Name: "v1.0.0", When: day(2024, 2, 1)},
			},
			pkg:      "@myorg/ui-kit",
			expected: []string{"1.0.0"},
		},
		{
			name: "Tags before window dropped",
			tags: []gitio.TagInfo{
				{Name: "@myorg/ui-kit@0.1.0", When: day(2019, 1, 1)},
				{Name: "@myorg/ui-kit@1.0.0", When: day(2024, 1, 1)},
			},
			pkg:      "@myorg/ui-kit",
			expected: []string{"1.0.0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := ExtractFromTags(tt.tags, tt.pkg, since)
			if len(records) != len(tt.expected) {
				t.Fatalf("got %d records, expected %d", len(records), len(tt.expected))
			}
			for i, want := range tt.expected {
				if records[i].Version != want {
					t.Errorf("records[%d].Version = %q, expected %q", i, records[i].Version, want)
				}
			}
		})
	}
}

func TestExtractFromTags_SortedByDate(t *testing.T) {
	tags := []gitio.TagInfo{
		{Name: "v2.0.0", When: day(2024, 6, 1)},
		{Name: "v1.0.0", When: day(2024, 1, 1)},
		{Name: "v1.5.0", When: day(2024, 3, 1)},
	}

	records := ExtractFromTags(tags, "pkg", day(2020, 1, 1))
	for i := 1; i < len(records); i++ {
		if records[i].Date.Before(records[i-1].Date) {
			t.Errorf("records not sorted by date: %v before %v", records[i].Date, records[i-1].Date)
		}
	}
}

func TestExtractFromRevisions(t *testing.T) {
	manifestWithVersion := func(version string) []byte {
		return []byte(fmt.Sprintf(`{"name": "@myorg/ui-kit", "version": "%s"}`, version))
	}

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	revisions := []gitio.ManifestRevision{
		{Commit: gitio.CommitInfo{SHA: "aaa111bbb", When: base}, Content: manifestWithVersion("1.0.0")},
		{Commit: gitio.CommitInfo{SHA: "bbb222ccc", When: base.AddDate(0, 0, 5)}, Content: manifestWithVersion("1.0.0")},
		{Commit: gitio.CommitInfo{SHA: "ccc333ddd", When: base.AddDate(0, 1, 0)}, Content: manifestWithVersion("1.1.0")},
		{Commit: gitio.CommitInfo{SHA: "ddd444eee", When: base.AddDate(0, 2, 0)}, Missing: true},
		{Commit: gitio.CommitInfo{SHA: "eee555fff", When: base.AddDate(0, 3, 0)}, Content: []byte(`not json`)},
	}

	records := ExtractFromRevisions(revisions, manifest.DeclaredVersion)

	if len(records) != 2 {
		t.Fatalf("got %d records, expected 2", len(records))
	}
	if records[0].Version != "1.0.0" || records[1].Version != "1.1.0" {
		t.Errorf("versions = %q, %q, expected 1.0.0, 1.1.0", records[0].Version, records[1].Version)
	}
	if records[0].Commit != "aaa111bb" {
		t.Errorf("Commit = %q, expected the first commit declaring the version", records[0].Commit)
	}
	if !records[1].Date.Equal(base.AddDate(0, 1, 0)) {
		t.Errorf("records[1].Date = %v, expected the bump commit's date", records[1].Date)
	}
}
