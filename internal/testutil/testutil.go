// Package testutil provides shared test helpers for datasets and databases.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/clusterscope/internal/dataset"
	"github.com/starford/clusterscope/internal/index"
)

// SampleDataset is a small dataset covering defaults, a null timestamp and
// cluster ids that share a palette color (0 and 7).
var SampleDataset = strings.Join([]string{
	`{"tsne_x":1,"tsne_y":1,"cluster_id":0,"interaction_amount":0,"title":"First post","selftext":"hello gophers","score":1,"num_comments":0,"subreddit":"a","created_utc":1000}`,
	`{"tsne_x":2,"tsne_y":2,"cluster_id":1,"interaction_amount":99,"title":"Second post","score":40,"num_comments":12,"subreddit":"b","created_utc":2000}`,
	`{"tsne_x":3,"tsne_y":-1,"cluster_id":7,"interaction_amount":9,"title":"Third post","subreddit":"a","created_utc":"not a time"}`,
	`{"tsne_x":-4,"tsne_y":0.5,"cluster_id":1,"interaction_amount":3,"created_utc":1500}`,
}, "\n") + "\n"

// WriteDataset writes content to a dataset file in a temp dir and returns
// its path.
func WriteDataset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.jsonl")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestTable loads content as a table.
func TestTable(t *testing.T, content string) *dataset.Table {
	t.Helper()
	tbl, err := dataset.Load(WriteDataset(t, content))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return tbl
}

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "clusterscope-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestHolder loads content into a holder and mirrors it into a fresh DB.
func TestHolder(t *testing.T, content string) (*dataset.Holder, *index.DB) {
	t.Helper()
	tbl := TestTable(t, content)
	db := TestDB(t)
	if err := db.Rebuild(tbl); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	return dataset.NewHolder(tbl), db
}
