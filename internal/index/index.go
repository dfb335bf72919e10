package index

import "github.com/starford/clusterscope/internal/dataset"

// RecordIndex defines the read side of the dataset mirror.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with mocks.
type RecordIndex interface {
	Rebuild(t *dataset.Table) error
	Checksum() (string, error)
	Count() (int, error)
	Search(query string, limit int) ([]SearchResult, error)
	ClusterSummaries() ([]ClusterSummary, error)
	Close() error
}

// Verify *DB satisfies RecordIndex at compile time.
var _ RecordIndex = (*DB)(nil)
