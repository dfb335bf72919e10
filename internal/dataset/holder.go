package dataset

import (
	"sync/atomic"

	"github.com/starford/clusterscope/internal/models"
)

// Snapshot pairs a table with the filter options derived from it.
type Snapshot struct {
	Table   *Table
	Options models.FilterOptionSet
	Stats   models.Stats
}

// NewSnapshot derives options and stats for t.
func NewSnapshot(t *Table) *Snapshot {
	return &Snapshot{Table: t, Options: DeriveOptions(t), Stats: t.Stats()}
}

// Holder publishes the current snapshot to concurrent readers. Swapping
// replaces the whole snapshot; a published snapshot is never modified.
type Holder struct {
	cur atomic.Pointer[Snapshot]
}

// NewHolder returns a holder serving t.
func NewHolder(t *Table) *Holder {
	h := &Holder{}
	h.Swap(t)
	return h
}

// Current returns the snapshot to use for one request.
func (h *Holder) Current() *Snapshot {
	return h.cur.Load()
}

// Swap installs t and returns the new snapshot.
func (h *Holder) Swap(t *Table) *Snapshot {
	s := NewSnapshot(t)
	h.cur.Store(s)
	return s
}
