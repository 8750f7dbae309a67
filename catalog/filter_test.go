package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/qyinm/jamemart/types"
)

func scenarioGames() []types.Game {
	return []types.Game{
		types.NewGame("1", "Chess Master", "Board", "", "", "https://games.example/chess"),
		types.NewGame("2", "Speed Run", "Arcade", "", "", "https://games.example/run"),
	}
}

func ids(games []types.Game) []string {
	out := make([]string, 0, len(games))
	for _, g := range games {
		out = append(out, g.ID())
	}
	return out
}

func TestFilterScenarios(t *testing.T) {
	games := scenarioGames()
	tests := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{"search chess", Criteria{Search: "chess", Category: types.AllCategories}, []string{"1"}},
		{"category arcade", Criteria{Search: "", Category: "Arcade"}, []string{"2"}},
		{"no match", Criteria{Search: "zz", Category: types.AllCategories}, []string{}},
		{"defaults", DefaultCriteria(), []string{"1", "2"}},
		{"unset category means all", Criteria{Search: "r"}, []string{"1", "2"}},
		{"upper-case term", Criteria{Search: "SPEED", Category: types.AllCategories}, []string{"2"}},
		{"both predicates", Criteria{Search: "chess", Category: "Arcade"}, []string{}},
		{"category is exact", Criteria{Category: "board"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Filter(games, tt.criteria))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Filter = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterProperties(t *testing.T) {
	c, err := NewLoader().Load(context.Background(), "")
	if err != nil {
		t.Fatalf("load bundled: %v", err)
	}
	games := c.Games()

	terms := []string{"", "a", "CHESS", "er", "2048", "zz", " "}
	for _, term := range terms {
		for _, cat := range c.Categories() {
			crit := Criteria{Search: term, Category: cat}
			got := Filter(games, crit)

			for _, g := range got {
				if !crit.Matches(g) {
					t.Errorf("%+v: %v does not match", crit, g)
				}
			}

			again := Filter(got, crit)
			if !reflect.DeepEqual(ids(again), ids(got)) {
				t.Errorf("%+v: filter not idempotent: %v then %v", crit, ids(got), ids(again))
			}

			// order preserved: ids appear as a subsequence of the input
			pos := 0
			for _, g := range got {
				for pos < len(games) && games[pos].ID() != g.ID() {
					pos++
				}
				if pos == len(games) {
					t.Fatalf("%+v: output order differs from input", crit)
				}
			}
		}
	}

	if got := Filter(games, DefaultCriteria()); len(got) != len(games) {
		t.Errorf("default criteria returned %d of %d games", len(got), len(games))
	}
}

func TestFilterNormalisesAccents(t *testing.T) {
	games := []types.Game{
		types.NewGame("1", "Pok\u00e9 Cards", "Board", "", "", "https://games.example/poke"),
	}
	got := Filter(games, Criteria{Search: "POKE\u0301", Category: types.AllCategories})
	if len(got) != 1 {
		t.Fatalf("decomposed search did not match composed title")
	}
}

func TestCriteriaIsDefault(t *testing.T) {
	tests := []struct {
		c    Criteria
		want bool
	}{
		{DefaultCriteria(), true},
		{Criteria{}, true},
		{Criteria{Search: "ch"}, false},
		{Criteria{Category: "Board"}, false},
	}
	for _, tt := range tests {
		if got := tt.c.IsDefault(); got != tt.want {
			t.Errorf("%+v.IsDefault() = %v, want %v", tt.c, got, tt.want)
		}
	}
}

func TestCategoriesFirstSeenOrder(t *testing.T) {
	games := []types.Game{
		types.NewGame("1", "a", "Puzzle", "", "", "https://g.example/1"),
		types.NewGame("2", "b", "Arcade", "", "", "https://g.example/2"),
		types.NewGame("3", "c", "Puzzle", "", "", "https://g.example/3"),
		types.NewGame("4", "d", "Board", "", "", "https://g.example/4"),
		types.NewGame("5", "e", "Arcade", "", "", "https://g.example/5"),
	}
	want := []string{types.AllCategories, "Puzzle", "Arcade", "Board"}
	if got := Categories(games); !reflect.DeepEqual(got, want) {
		t.Errorf("Categories = %v, want %v", got, want)
	}
	if got := Categories(nil); !reflect.DeepEqual(got, []string{types.AllCategories}) {
		t.Errorf("Categories(nil) = %v", got)
	}
}

func TestSuggest(t *testing.T) {
	games := scenarioGames()
	got := Suggest(games, "chss", 3)
	if len(got) == 0 || got[0].ID() != "1" {
		t.Fatalf("Suggest(chss) = %v, want Chess Master first", got)
	}
	if got := Suggest(games, "", 3); got != nil {
		t.Errorf("Suggest(empty) = %v, want nil", got)
	}
	if got := Suggest(games, "e", 1); len(got) > 1 {
		t.Errorf("Suggest limit ignored: %v", got)
	}
}

func TestLoadRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			t.Error("missing User-Agent")
		}
		switch r.URL.Path {
		case "/feed":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"id":1,"title":"Chess Master","category":"Board","iframeUrl":"https://games.example/chess"}]`))
		case "/games.yaml":
			w.Header().Set("Content-Type", "application/octet-stream")
			_, _ = w.Write([]byte("- id: 7\n  title: Speed Run\n  category: Arcade\n  iframeUrl: https://games.example/run\n"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	loader := NewLoaderWithClient(srv.Client())

	c, err := loader.Load(context.Background(), srv.URL+"/feed")
	if err != nil {
		t.Fatalf("load json feed: %v", err)
	}
	if _, ok := c.Game("1"); !ok {
		t.Error("game 1 missing from remote json")
	}

	c, err = loader.Load(context.Background(), srv.URL+"/games.yaml")
	if err != nil {
		t.Fatalf("load yaml by extension: %v", err)
	}
	if _, ok := c.Game("7"); !ok {
		t.Error("game 7 missing from remote yaml")
	}

	if _, err := loader.Load(context.Background(), srv.URL+"/missing.json"); err == nil {
		t.Error("expected error for 404")
	}
}
