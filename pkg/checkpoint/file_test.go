package checkpoint

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/helloamger/discussions-archiver/pkg/gh"
)

func newTestFileStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "checkpoint.json")
	return NewFileStore(path), path
}

func TestFileStore_LoadMissing(t *testing.T) {
	store, _ := newTestFileStore(t)

	cp, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Missing file should not be an error, got %v", err)
	}
	if len(cp.Discussions) != 0 || !cp.HasMore || cp.LastCursor != nil {
		t.Errorf("Expected default checkpoint, got %+v", cp)
	}
}

func TestFileStore_SaveLoadRoundTrip(t *testing.T) {
	store, path := newTestFileStore(t)
	ctx := context.Background()

	cursor := "Y3Vyc29y"
	saved := Snapshot([]gh.Discussion{
		{Number: 1, Title: "first", CreatedAt: "2024-01-01T00:00:00Z", URL: "u1", BodyHTML: "<p>1</p>"},
		{Number: 2, Title: "second", CreatedAt: "2024-01-02T00:00:00Z", URL: "u2", BodyHTML: "<p>2</p>"},
	}, &cursor, true)

	if err := store.Save(ctx, saved); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.TotalCount != 2 {
		t.Errorf("TotalCount = %d, want 2", loaded.TotalCount)
	}
	if loaded.LastCursor == nil || *loaded.LastCursor != cursor {
		t.Errorf("LastCursor = %v, want %q", loaded.LastCursor, cursor)
	}
	if !loaded.HasMore {
		t.Error("HasMore = false, want true")
	}
	if loaded.Discussions[0].Number != 1 || loaded.Discussions[1].Number != 2 {
		t.Errorf("Discussion order not preserved: %+v", loaded.Discussions)
	}

	// The on-disk record is indented, human-readable JSON.
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Read checkpoint file: %v", err)
	}
	if !strings.Contains(string(raw), "\n  \"discussions\"") {
		t.Error("Expected indented JSON on disk")
	}

	var schema map[string]json.RawMessage
	if err := json.Unmarshal(raw, &schema); err != nil {
		t.Fatalf("Checkpoint file is not valid JSON: %v", err)
	}
	for _, key := range []string{"discussions", "last_cursor", "has_more", "total_count"} {
		if _, ok := schema[key]; !ok {
			t.Errorf("Checkpoint file missing key %q", key)
		}
	}
}

func TestFileStore_SaveOverwrites(t *testing.T) {
	store, _ := newTestFileStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, Snapshot([]gh.Discussion{{Number: 1}}, nil, true)); err != nil {
		t.Fatalf("First save failed: %v", err)
	}
	if err := store.Save(ctx, Snapshot([]gh.Discussion{{Number: 1}, {Number: 2}}, nil, false)); err != nil {
		t.Fatalf("Second save failed: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.TotalCount != 2 || loaded.HasMore {
		t.Errorf("Expected overwritten record with 2 items and has_more=false, got %+v", loaded)
	}
}

func TestFileStore_LoadCorrupt(t *testing.T) {
	store, path := newTestFileStore(t)

	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("Write corrupt file: %v", err)
	}

	cp, err := store.Load(context.Background())
	if err == nil {
		t.Error("Expected an error for a corrupt record")
	}
	if cp == nil || !cp.HasMore || len(cp.Discussions) != 0 {
		t.Errorf("Corrupt record should fall back to the default checkpoint, got %+v", cp)
	}
}

func TestFileStore_LoadInconsistent(t *testing.T) {
	store, path := newTestFileStore(t)

	// total_count disagrees with the accumulator length.
	record := `{"discussions": [], "last_cursor": null, "has_more": true, "total_count": 7}`
	if err := os.WriteFile(path, []byte(record), 0o644); err != nil {
		t.Fatalf("Write record: %v", err)
	}

	cp, err := store.Load(context.Background())
	if err == nil {
		t.Error("Expected an error for an inconsistent record")
	}
	if cp.TotalCount != 0 {
		t.Errorf("Expected default checkpoint, got %+v", cp)
	}
}

func TestFileStore_Clear(t *testing.T) {
	store, path := newTestFileStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, New()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Expected checkpoint file to be removed")
	}

	// Clearing again is not an error.
	if err := store.Clear(ctx); err != nil {
		t.Errorf("Clear on absent file returned error: %v", err)
	}
}
