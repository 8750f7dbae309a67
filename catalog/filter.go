package catalog

import (
	"strings"

	"github.com/qyinm/jamemart/types"
	"github.com/sahilm/fuzzy"
	"golang.org/x/text/unicode/norm"
)

// Criteria is the pair of filter inputs applied to a game list.
type Criteria struct {
	Search   string
	Category string
}

// DefaultCriteria matches every game.
func DefaultCriteria() Criteria {
	return Criteria{Search: "", Category: types.AllCategories}
}

// IsDefault reports whether c matches every game.
func (c Criteria) IsDefault() bool {
	return c.Search == "" && c.category() == types.AllCategories
}

// category treats an unset category as "All".
func (c Criteria) category() string {
	if c.Category == "" {
		return types.AllCategories
	}
	return c.Category
}

// Matches reports whether g passes both the title search and the category check.
func (c Criteria) Matches(g types.Game) bool {
	if !strings.Contains(fold(g.Name()), fold(c.Search)) {
		return false
	}
	cat := c.category()
	return cat == types.AllCategories || g.Category() == cat
}

// Filter returns the games matching c, in input order.
func Filter(games []types.Game, c Criteria) []types.Game {
	out := make([]types.Game, 0, len(games))
	for _, g := range games {
		if c.Matches(g) {
			out = append(out, g)
		}
	}
	return out
}

// Categories derives "All" followed by each distinct category in first-seen order.
func Categories(games []types.Game) []string {
	out := []string{types.AllCategories}
	seen := map[string]struct{}{types.AllCategories: {}}
	for _, g := range games {
		if _, ok := seen[g.Category()]; ok {
			continue
		}
		seen[g.Category()] = struct{}{}
		out = append(out, g.Category())
	}
	return out
}

// Suggest returns up to n games whose titles fuzzily match term, best first.
// It is only used to help out of an empty result.
func Suggest(games []types.Game, term string, n int) []types.Game {
	term = strings.TrimSpace(term)
	if term == "" || n <= 0 || len(games) == 0 {
		return nil
	}
	matches := fuzzy.FindFrom(term, titles(games))
	if len(matches) > n {
		matches = matches[:n]
	}
	out := make([]types.Game, 0, len(matches))
	for _, m := range matches {
		out = append(out, games[m.Index])
	}
	return out
}

// titles adapts a game slice to fuzzy.Source.
type titles []types.Game

func (t titles) String(i int) string { return t[i].Name() }
func (t titles) Len() int            { return len(t) }

// fold lower-cases s after NFC normalisation so composed and decomposed
// accents compare equal.
func fold(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}
