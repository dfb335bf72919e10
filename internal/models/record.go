// Package models defines the domain types for clusterscope.
package models

import (
	"encoding/json"
	"time"
)

// Category values.
const (
	// CategoryAll is the filter sentinel meaning "no category filter".
	// It is never a real category value.
	CategoryAll = "All"
	// CategoryUnknown is assigned to records without a source category.
	CategoryUnknown = "unknown"
)

// Record is one row of the loaded dataset. Records are produced once at
// load time and never mutated afterwards.
type Record struct {
	ID                int       `json:"id"`
	X                 float64   `json:"x"`
	Y                 float64   `json:"y"`
	ClusterID         int       `json:"cluster_id"`
	InteractionAmount float64   `json:"interaction_amount"`
	Title             string    `json:"title"`
	BodyExcerpt       string    `json:"body_excerpt"`
	Score             int       `json:"score"`
	CommentCount      int       `json:"comment_count"`
	Category          string    `json:"category"`
	CreatedAt         Timestamp `json:"created_at"`
	MarkerSize        float64   `json:"marker_size"`
}

// Timestamp is a nullable UTC instant. The zero value is null.
type Timestamp struct {
	Time  time.Time
	Valid bool
}

// NewTimestamp returns a valid Timestamp for t, normalised to UTC.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC(), Valid: true}
}

// MarshalJSON encodes the timestamp as RFC 3339 or null.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if !ts.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(ts.Time.Format(time.RFC3339))
}

// UnmarshalJSON accepts RFC 3339 strings or null.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*ts = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return err
	}
	*ts = NewTimestamp(t)
	return nil
}

// FilterOptionSet holds the selectable filter values derived from the
// full table. It is computed once per load.
type FilterOptionSet struct {
	Categories        []string  `json:"categories"`
	MinDate           Timestamp `json:"min_date"`
	MaxDate           Timestamp `json:"max_date"`
	DateFilterEnabled bool      `json:"date_filter_enabled"`
}

// ClusterSeries groups the filtered records of one cluster at render time.
type ClusterSeries struct {
	ClusterID int
	Color     string
	Records   []Record
}

// Stats summarises a loaded table for the dashboard header.
type Stats struct {
	Records    int `json:"records"`
	Clusters   int `json:"clusters"`
	Categories int `json:"categories"`
}
