package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/depadopt/depadopt/internal/manifest"
)

// TimestampedName builds a default export file name, e.g.
// "component_versions_20240101_120000.json".
func TimestampedName(prefix, ext string) string {
	return fmt.Sprintf("%s_%s.%s", prefix, time.Now().Format("20060102_150405"), ext)
}

// writeJSON marshals v and writes it to the path, or stdout when empty.
func writeJSON(v interface{}, path string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// openOutput returns the destination writer for a report. The returned
// close function is a no-op for stdout.
func openOutput(path string) (io.Writer, func() error, error) {
	if path == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

// versionType maps an event's new resolution to the export classification
// columns (version_type, parent_package).
func versionType(res *manifest.Resolution) (string, string) {
	if res == nil {
		return "removed", ""
	}
	switch res.Kind {
	case manifest.KindOverride:
		return "override", ""
	case manifest.KindTransitiveOverride:
		return "transitive", res.Parent
	default:
		return "direct", ""
	}
}
