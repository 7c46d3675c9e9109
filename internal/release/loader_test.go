package release

import (
	"os"
	"path/filepath"
	"testing"
)

func writeReleasesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "releases.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write releases file: %v", err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeReleasesFile(t, `{
		"package": "@myorg/ui-kit",
		"versions": [
			{"version": "2.0.0", "release_date": "2024-06-01T00:00:00Z", "tag": "v2.0.0"},
			{"version": "1.0.0", "release_date": "2024-01-01", "commit": "aaa111bb"}
		]
	}`)

	set, pkg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() unexpected error: %v", err)
	}
	if pkg != "@myorg/ui-kit" {
		t.Errorf("package = %q, expected %q", pkg, "@myorg/ui-kit")
	}
	if set.Len() != 2 {
		t.Fatalf("Len() = %d, expected 2", set.Len())
	}

	// Records come back ordered by version regardless of file order.
	if set.Records()[0].Version != "1.0.0" {
		t.Errorf("first record = %q, expected 1.0.0", set.Records()[0].Version)
	}
	if rec, ok := set.Lookup("1.0.0"); !ok || !rec.Date.Equal(day(2024, 1, 1)) {
		t.Errorf("Lookup(1.0.0) = %+v, %v", rec, ok)
	}
	if rec, _ := set.Lookup("2.0.0"); rec.Tag != "v2.0.0" {
		t.Errorf("Tag = %q, expected v2.0.0", rec.Tag)
	}
}

func TestLoadFile_DateFormats(t *testing.T) {
	tests := []struct {
		name string
		date string
	}{
		{name: "RFC3339", date: "2024-01-01T12:30:00Z"},
		{name: "Datetime", date: "2024-01-01 12:30:00"},
		{name: "Date only", date: "2024-01-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeReleasesFile(t,
				`{"package": "p", "versions": [{"version": "1.0.0", "release_date": "`+tt.date+`"}]}`)
			set, _, err := LoadFile(path)
			if err != nil {
				t.Fatalf("LoadFile() unexpected error: %v", err)
			}
			if set.Len() != 1 {
				t.Errorf("Len() = %d, expected 1", set.Len())
			}
		})
	}
}

func TestLoadFile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T) string
		wantErr bool
	}{
		{
			name:    "File does not exist",
			setup:   func(t *testing.T) string { return filepath.Join(t.TempDir(), "missing.json") },
			wantErr: true,
		},
		{
			name:    "Malformed JSON",
			setup:   func(t *testing.T) string { return writeReleasesFile(t, `{"versions": [`) },
			wantErr: true,
		},
		{
			name: "Unparseable date",
			setup: func(t *testing.T) string {
				return writeReleasesFile(t,
					`{"package": "p", "versions": [{"version": "1.0.0", "release_date": "yesterday"}]}`)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := LoadFile(tt.setup(t))
			if tt.wantErr && err == nil {
				t.Error("LoadFile() expected error, got nil")
			}
		})
	}
}

func TestLoadFile_RangeOperatorsCleaned(t *testing.T) {
	path := writeReleasesFile(t,
		`{"package": "p", "versions": [{"version": "^1.0.0", "release_date": "2024-01-01"}]}`)

	set, _, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() unexpected error: %v", err)
	}
	if _, ok := set.Lookup("1.0.0"); !ok {
		t.Error("Lookup(1.0.0) should hit after the operator is stripped")
	}
}
