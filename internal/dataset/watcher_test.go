package dataset_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/starford/clusterscope/internal/dataset"
	"github.com/starford/clusterscope/internal/testutil"
)

func TestWatch_ReloadsOnWrite(t *testing.T) {
	path := testutil.WriteDataset(t, testutil.SampleDataset)
	tbl, err := dataset.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	h := dataset.NewHolder(tbl)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reloaded := make(chan *dataset.Snapshot, 1)
	done := make(chan error, 1)
	go func() {
		done <- dataset.Watch(ctx, h, path, discardLogger(), func(s *dataset.Snapshot) {
			select {
			case reloaded <- s:
			default:
			}
		})
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte(singleRecord), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case s := <-reloaded:
		if s.Table.Len() != 1 {
			t.Errorf("len = %d, want 1", s.Table.Len())
		}
		if h.Current() != s {
			t.Error("holder does not serve the reloaded snapshot")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
