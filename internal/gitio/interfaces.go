package gitio

import "context"

// ManifestSource defines the interface for reading manifest history from a
// Git repository. This abstraction allows for easier testing and the
// alternative git CLI implementation.
type ManifestSource interface {
	// ReadManifestRevisions returns the manifest state at every commit that
	// touched the manifest path, in chronological order.
	ReadManifestRevisions(ctx context.Context) ([]ManifestRevision, error)
}

// Compile-time interface conformance checks.
var (
	_ ManifestSource = (*HistoryReader)(nil)
	_ ManifestSource = (*MockManifestSource)(nil)
)
