package release

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// releasesFile is the on-disk format produced by the releases command.
type releasesFile struct {
	Package  string `json:"package"`
	Versions []struct {
		Version     string `json:"version"`
		ReleaseDate string `json:"release_date"`
		Tag         string `json:"tag"`
		Commit      string `json:"commit"`
	} `json:"versions"`
}

// LoadFile reads a releases export and returns the record set and the
// package name it was generated for.
func LoadFile(path string) (*Set, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read releases file: %w", err)
	}

	var file releasesFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, "", fmt.Errorf("parse releases file %s: %w", path, err)
	}

	records := make([]Record, 0, len(file.Versions))
	for _, v := range file.Versions {
		date, err := parseReleaseDate(v.ReleaseDate)
		if err != nil {
			return nil, "", fmt.Errorf("release %s: %w", v.Version, err)
		}
		records = append(records, Record{
			Version: CleanVersion(v.Version),
			Date:    date,
			Tag:     v.Tag,
			Commit:  v.Commit,
		})
	}

	return NewSet(records), file.Package, nil
}

func parseReleaseDate(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable release date %q", s)
}
