package dto

import (
	"github.com/qyinm/jamemart/types"
)

func FromGame(g types.Game) Game {
	return Game{
		ID:           g.ID(),
		Title:        g.Name(),
		Category:     g.Category(),
		Description:  g.Summary(),
		ThumbnailURL: g.Thumbnail(),
		IframeURL:    g.IframeURL(),
	}
}

func FromGames(games []types.Game) []Game {
	out := make([]Game, 0, len(games))
	for _, g := range games {
		out = append(out, FromGame(g))
	}
	return out
}

// FromGameDetail adds the hosted player page and the frame permissions.
// playerURL may be empty when no player is running.
func FromGameDetail(g types.Game, playerURL string, permissions []string) GameDetail {
	return GameDetail{
		Game:        FromGame(g),
		PlayerURL:   playerURL,
		Permissions: append([]string{}, permissions...),
	}
}

// FromCategories counts games per category. The "All" entry counts every game.
func FromCategories(categories []string, games []types.Game) []Category {
	counts := make(map[string]int, len(categories))
	for _, g := range games {
		counts[g.Category()]++
	}
	out := make([]Category, 0, len(categories))
	for _, name := range categories {
		n := counts[name]
		if name == types.AllCategories {
			n = len(games)
		}
		out = append(out, Category{Name: name, Count: n})
	}
	return out
}
