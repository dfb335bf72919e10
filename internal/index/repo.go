package index

import (
	"database/sql"
	"errors"
	"fmt"
)

const metaChecksum = "dataset_checksum"

// SearchResult represents one search hit.
type SearchResult struct {
	ID        int    `json:"id"`
	ClusterID int    `json:"cluster_id"`
	Category  string `json:"category"`
	Title     string `json:"title"`
	Snippet   string `json:"snippet"`
}

// ClusterSummary aggregates the records of one cluster.
type ClusterSummary struct {
	ClusterID       int     `json:"cluster_id"`
	Records         int     `json:"records"`
	Categories      int     `json:"categories"`
	TotalScore      int     `json:"total_score"`
	TotalComments   int     `json:"total_comments"`
	MeanInteraction float64 `json:"mean_interaction"`
}

// Checksum returns the checksum of the mirrored dataset, or "" if the
// mirror is empty.
func (db *DB) Checksum() (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT value FROM meta WHERE key = ?`, metaChecksum).Scan(&cs)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("index: checksum: %w", err)
	}
	return cs, nil
}

// Count returns the number of mirrored records.
func (db *DB) Count() (int, error) {
	var n int
	if err := db.conn.QueryRow(`SELECT count(*) FROM records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("index: count: %w", err)
	}
	return n, nil
}

// ClusterSummaries returns one row per cluster in ascending cluster order.
func (db *DB) ClusterSummaries() ([]ClusterSummary, error) {
	rows, err := db.conn.Query(`
		SELECT cluster_id,
		       count(*),
		       count(DISTINCT category),
		       coalesce(sum(score), 0),
		       coalesce(sum(comment_count), 0),
		       coalesce(avg(interaction_amount), 0)
		FROM records
		GROUP BY cluster_id
		ORDER BY cluster_id
	`)
	if err != nil {
		return nil, fmt.Errorf("index: cluster summaries: %w", err)
	}
	defer rows.Close()

	var out []ClusterSummary
	for rows.Next() {
		var s ClusterSummary
		if err := rows.Scan(&s.ClusterID, &s.Records, &s.Categories, &s.TotalScore, &s.TotalComments, &s.MeanInteraction); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanResults(rows *sql.Rows) ([]SearchResult, error) {
	defer rows.Close()
	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.ID, &r.ClusterID, &r.Category, &r.Title, &r.Snippet); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
