package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLiveReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "games.json")
	write := func(body string) {
		t.Helper()
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("write catalog: %v", err)
		}
	}

	write(`[{"id":"a","title":"Alpha","category":"Board","iframeUrl":"https://g.example/a"}]`)
	live, err := NewLive(context.Background(), NewLoader(), path)
	if err != nil {
		t.Fatalf("NewLive() error: %v", err)
	}
	if got := len(live.Games()); got != 1 {
		t.Fatalf("games = %d, want 1", got)
	}

	write(`[{"id":"a","title":"Alpha","category":"Board","iframeUrl":"https://g.example/a"},
	        {"id":"b","title":"Beta","category":"Arcade","iframeUrl":"https://g.example/b"}]`)
	if err := live.Reload(context.Background()); err != nil {
		t.Fatalf("Reload() error: %v", err)
	}
	if _, ok := live.Game("b"); !ok {
		t.Fatalf("reloaded catalog missing game b")
	}
	if got := live.Categories(); len(got) != 3 {
		t.Fatalf("categories = %v, want All, Board, Arcade", got)
	}

	// a broken source keeps the last good catalog
	write(`{not json`)
	if err := live.Reload(context.Background()); err == nil {
		t.Fatalf("Reload() of broken catalog should fail")
	}
	if got := live.Snapshot().Len(); got != 2 {
		t.Fatalf("after failed reload len = %d, want 2", got)
	}
}
