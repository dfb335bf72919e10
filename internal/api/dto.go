package api

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/clusterscope/internal/index"
	"github.com/starford/clusterscope/internal/models"
)

// Query limits.
const (
	maxCategoryLen = 256
	maxSearchLimit = 500
	maxRecordLimit = 5000
)

// FigureQuery holds the raw filter control values from the query string.
type FigureQuery struct {
	Category  string `json:"category" example:"golang"`
	StartDate string `json:"start_date" example:"2024-01-01"`
	EndDate   string `json:"end_date" example:"2024-03-31"`
}

// Validate validates the figure query.
func (q *FigureQuery) Validate() error {
	return validation.ValidateStruct(q,
		validation.Field(&q.Category, validation.Length(0, maxCategoryLen)),
	)
}

// RecordsQuery is a FigureQuery plus a result cap.
type RecordsQuery struct {
	FigureQuery
	Limit int `json:"limit" example:"100"`
}

// Validate validates the records query.
func (q *RecordsQuery) Validate() error {
	if err := q.FigureQuery.Validate(); err != nil {
		return err
	}
	return validation.ValidateStruct(q,
		validation.Field(&q.Limit, validation.Min(0), validation.Max(maxRecordLimit)),
	)
}

// SearchQuery is the query string of GET /api/search.
type SearchQuery struct {
	Q     string `json:"q" example:"borrow checker"`
	Limit int    `json:"limit" example:"20"`
}

// Validate validates the search query.
func (q *SearchQuery) Validate() error {
	return validation.ValidateStruct(q,
		validation.Field(&q.Q, validation.Required, validation.Length(1, maxCategoryLen)),
		validation.Field(&q.Limit, validation.Min(0), validation.Max(maxSearchLimit)),
	)
}

// StatsResponse is returned by GET /api/stats.
type StatsResponse struct {
	models.Stats
	Checksum string    `json:"checksum"`
	LoadedAt time.Time `json:"loaded_at"`
}

// RecordsResponse wraps filtered rows.
type RecordsResponse struct {
	Records []models.Record `json:"records"`
	Total   int             `json:"total"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []index.SearchResult `json:"results"`
}

// ClusterInfo is a cluster aggregate with its legend color.
type ClusterInfo struct {
	index.ClusterSummary
	Color string `json:"color"`
}

// ClustersResponse wraps the cluster list.
type ClustersResponse struct {
	Clusters []ClusterInfo `json:"clusters"`
}
