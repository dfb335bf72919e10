package index

import (
	"fmt"
	"log/slog"

	"github.com/starford/clusterscope/internal/dataset"
)

// Sync brings the mirror up to date with t. It is a no-op when the mirror
// already holds a table with the same checksum.
func Sync(db *DB, t *dataset.Table, logger *slog.Logger) error {
	cs, err := db.Checksum()
	if err != nil {
		return err
	}
	if cs != "" && cs == t.Checksum() {
		logger.Debug("sync: mirror up to date", slog.String("checksum", cs))
		return nil
	}
	if err := db.Rebuild(t); err != nil {
		return err
	}
	logger.Info("sync: mirror rebuilt", slog.Int("records", t.Len()))
	return nil
}

// Rebuild replaces every mirrored record with the rows of t in one
// transaction.
func (db *DB) Rebuild(t *dataset.Table) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if _, err := tx.Exec(`DELETE FROM records`); err != nil {
		return fmt.Errorf("index: clear records: %w", err)
	}
	if err := ftsReset(tx); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO records (id, cluster_id, category, title, body_excerpt, score, comment_count, interaction_amount, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("index: prepare record insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range t.Records() {
		var created any
		if r.CreatedAt.Valid {
			created = r.CreatedAt.Time.Unix()
		}
		if _, err := stmt.Exec(r.ID, r.ClusterID, r.Category, r.Title, r.BodyExcerpt,
			r.Score, r.CommentCount, r.InteractionAmount, created); err != nil {
			return fmt.Errorf("index: insert record %d: %w", r.ID, err)
		}
		if err := ftsInsert(tx, r.ID, r.Title, r.BodyExcerpt); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(`
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, metaChecksum, t.Checksum()); err != nil {
		return fmt.Errorf("index: store checksum: %w", err)
	}

	return tx.Commit()
}
