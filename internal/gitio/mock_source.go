package gitio

import "context"

// MockManifestSource is a test double for HistoryReader. It allows tests
// to provide predefined manifest revisions without a real Git repository.
type MockManifestSource struct {
	Revisions []ManifestRevision
	Error     error
}

// NewMockManifestSource creates a new MockManifestSource with the given data.
func NewMockManifestSource(revisions []ManifestRevision, err error) *MockManifestSource {
	return &MockManifestSource{Revisions: revisions, Error: err}
}

// ReadManifestRevisions returns the predefined revisions or error.
func (m *MockManifestSource) ReadManifestRevisions(_ context.Context) ([]ManifestRevision, error) {
	return m.Revisions, m.Error
}
