package dataset

import (
	"time"

	"github.com/starford/clusterscope/internal/models"
)

// Table is an immutable, loaded dataset. It is never modified after Parse
// returns; a reload produces a new Table.
type Table struct {
	records        []models.Record
	maxInteraction float64
	checksum       string
	source         string
	loadedAt       time.Time
}

// Records returns the rows in file order. Callers must treat the slice as
// read-only.
func (t *Table) Records() []models.Record {
	return t.records[:len(t.records):len(t.records)]
}

// Len returns the number of records.
func (t *Table) Len() int { return len(t.records) }

// Record returns the record with the given row id.
func (t *Table) Record(id int) (models.Record, bool) {
	if id < 0 || id >= len(t.records) {
		return models.Record{}, false
	}
	return t.records[id], true
}

// MaxInteraction returns the largest engagement value in the table.
func (t *Table) MaxInteraction() float64 { return t.maxInteraction }

// Checksum returns the SHA-256 of the source file, or "" for tables
// parsed from a reader.
func (t *Table) Checksum() string { return t.checksum }

// Source returns the file the table was loaded from.
func (t *Table) Source() string { return t.source }

// LoadedAt returns when the table was built.
func (t *Table) LoadedAt() time.Time { return t.loadedAt }

// Stats counts records, distinct clusters and distinct categories.
func (t *Table) Stats() models.Stats {
	clusters := make(map[int]struct{})
	categories := make(map[string]struct{})
	for _, r := range t.records {
		clusters[r.ClusterID] = struct{}{}
		categories[r.Category] = struct{}{}
	}
	return models.Stats{
		Records:    len(t.records),
		Clusters:   len(clusters),
		Categories: len(categories),
	}
}
