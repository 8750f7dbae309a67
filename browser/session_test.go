package browser

import (
	"testing"

	"github.com/qyinm/jamemart/catalog"
	"github.com/qyinm/jamemart/types"
)

func newTestSession() *Session {
	return NewSession(catalog.New([]types.Game{
		types.NewGame("1", "Chess Master", "Board", "Play chess.", "", "https://games.example/chess"),
		types.NewGame("2", "Speed Run", "Arcade", "Run fast.", "", "https://games.example/run"),
		types.NewGame("3", "Checkers", "Board", "Jump.", "", "https://games.example/checkers"),
	}))
}

func TestSessionDefaults(t *testing.T) {
	s := newTestSession()
	if s.Search() != "" || s.Category() != types.AllCategories {
		t.Fatalf("defaults = %q/%q", s.Search(), s.Category())
	}
	if _, ok := s.View().(Browsing); !ok {
		t.Fatalf("initial view = %T, want Browsing", s.View())
	}
	if len(s.Visible()) != 3 {
		t.Fatalf("visible = %d, want 3", len(s.Visible()))
	}
}

func TestSelectAndBackKeepFilters(t *testing.T) {
	s := newTestSession()
	s.SetSearch("ch")
	s.SetCategory("Board")

	visible := s.Visible()
	if len(visible) != 2 {
		t.Fatalf("visible = %d, want 2", len(visible))
	}
	if !s.Select(visible[1]) {
		t.Fatal("Select returned false while browsing")
	}

	v, ok := s.View().(Viewing)
	if !ok {
		t.Fatalf("view = %T, want Viewing", s.View())
	}
	if v.Game.ID() != "3" {
		t.Errorf("viewing %q, want 3", v.Game.ID())
	}

	if !s.Back() {
		t.Fatal("Back returned false while viewing")
	}
	if s.IsViewing() {
		t.Fatal("still viewing after Back")
	}
	if s.Search() != "ch" || s.Category() != "Board" {
		t.Errorf("filters changed across select/back: %q/%q", s.Search(), s.Category())
	}
}

func TestSelectWhileViewingIsIgnored(t *testing.T) {
	s := newTestSession()
	s.SelectID("1")
	if s.SelectID("2") {
		t.Fatal("second select should be refused")
	}
	g, _ := s.Selected()
	if g.ID() != "1" {
		t.Errorf("selected %q, want 1", g.ID())
	}
}

func TestBackWhileBrowsing(t *testing.T) {
	s := newTestSession()
	if s.Back() {
		t.Fatal("Back while browsing should report false")
	}
}

func TestHomeIsIdempotent(t *testing.T) {
	s := newTestSession()
	s.Home()
	if s.IsViewing() {
		t.Fatal("Home while browsing changed state")
	}
	s.SelectID("2")
	s.Home()
	if s.IsViewing() {
		t.Fatal("Home while viewing did not return to browsing")
	}
}

func TestSelectUnknownID(t *testing.T) {
	s := newTestSession()
	if s.SelectID("404") {
		t.Fatal("SelectID accepted an unknown id")
	}
	if s.IsViewing() {
		t.Fatal("unknown id moved to viewing")
	}
}

func TestResetFilters(t *testing.T) {
	s := newTestSession()
	s.SetSearch("zz")
	s.SetCategory("Arcade")
	if !s.Empty() {
		t.Fatal("expected empty result for zz")
	}

	s.ResetFilters()
	if s.Search() != "" || s.Category() != types.AllCategories {
		t.Fatalf("after reset = %q/%q", s.Search(), s.Category())
	}
	if len(s.Visible()) != s.Total() {
		t.Errorf("visible after reset = %d, want %d", len(s.Visible()), s.Total())
	}
}

func TestSetCategoryUnknownFallsBackToAll(t *testing.T) {
	s := newTestSession()
	s.SetCategory("Racing")
	if s.Category() != types.AllCategories {
		t.Errorf("category = %q, want All", s.Category())
	}
}

func TestRestore(t *testing.T) {
	src := newTestSession().source

	s := Restore(src, "speed", "Arcade", "2")
	g, ok := s.Selected()
	if !ok || g.ID() != "2" {
		t.Fatalf("restore selected = %v/%v", g, ok)
	}
	if s.Search() != "speed" || s.Category() != "Arcade" {
		t.Errorf("restore filters = %q/%q", s.Search(), s.Category())
	}

	s = Restore(src, "", "", "missing")
	if s.IsViewing() {
		t.Error("restore with unknown id should browse")
	}
	if s.Category() != types.AllCategories {
		t.Errorf("restore empty category = %q", s.Category())
	}
}
