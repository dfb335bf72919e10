package api

import (
	"fmt"
	"strconv"
	"time"

	"github.com/starford/clusterscope/internal/apperr"
	"github.com/starford/clusterscope/internal/chart"
	"github.com/starford/clusterscope/internal/checksum"
	"github.com/starford/clusterscope/internal/dataset"
	"github.com/starford/clusterscope/internal/filter"
	"github.com/starford/clusterscope/internal/index"
	"github.com/starford/clusterscope/internal/models"
)

// Service answers dashboard queries against the current dataset snapshot
// and its SQLite mirror.
type Service struct {
	holder *dataset.Holder
	idx    index.RecordIndex
}

// NewService creates a new API service.
func NewService(holder *dataset.Holder, idx index.RecordIndex) *Service {
	return &Service{holder: holder, idx: idx}
}

// Snapshot returns the dataset snapshot for one request.
func (s *Service) Snapshot() *dataset.Snapshot {
	return s.holder.Current()
}

// Options returns the filter control values of the current dataset.
func (s *Service) Options() models.FilterOptionSet {
	return s.Snapshot().Options
}

// Stats returns the header counters and dataset identity.
func (s *Service) Stats() StatsResponse {
	snap := s.Snapshot()
	return StatsResponse{
		Stats:    snap.Stats,
		Checksum: snap.Table.Checksum(),
		LoadedAt: snap.Table.LoadedAt(),
	}
}

// Figure filters the snapshot with p and renders the result. The returned
// tag identifies the figure for conditional requests.
func (s *Service) Figure(p filter.Params) (chart.Figure, string) {
	snap := s.Snapshot()
	rows := filter.Apply(snap.Table.Records(), p)
	return chart.Render(rows), figureTag(snap.Table, p)
}

// Records returns the filtered rows themselves, capped at limit when
// limit > 0.
func (s *Service) Records(p filter.Params, limit int) []models.Record {
	rows := filter.Apply(s.Snapshot().Table.Records(), p)
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}

// Record returns one row by id.
func (s *Service) Record(id int) (models.Record, error) {
	rec, ok := s.Snapshot().Table.Record(id)
	if !ok {
		return models.Record{}, fmt.Errorf("record %d: %w", id, apperr.ErrNotFound)
	}
	return rec, nil
}

// Search runs a text search over titles and excerpts.
func (s *Service) Search(query string, limit int) ([]index.SearchResult, error) {
	return s.idx.Search(query, limit)
}

// Clusters returns per-cluster aggregates with their palette color.
func (s *Service) Clusters() ([]ClusterInfo, error) {
	sums, err := s.idx.ClusterSummaries()
	if err != nil {
		return nil, err
	}
	out := make([]ClusterInfo, 0, len(sums))
	for _, c := range sums {
		out = append(out, ClusterInfo{ClusterSummary: c, Color: chart.ColorFor(c.ClusterID)})
	}
	return out, nil
}

func figureTag(t *dataset.Table, p filter.Params) string {
	return checksum.Tag(t.Checksum(), strconv.FormatInt(t.LoadedAt().UnixNano(), 10),
		p.Category, formatBound(p.Start), formatBound(p.End))
}

func formatBound(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339Nano)
}
