// Package browser holds the state shared by every catalog front end: the
// filter pair and which of the two views is showing.
package browser

import (
	"github.com/qyinm/jamemart/catalog"
	"github.com/qyinm/jamemart/types"
)

// View is either Browsing or Viewing. The set is closed.
type View interface {
	isView()
}

// Browsing is the grid state.
type Browsing struct{}

// Viewing shows a single game.
type Viewing struct {
	Game types.Game
}

func (Browsing) isView() {}
func (Viewing) isView()  {}

// Session is the state container owned by one top-level view.
// It is not safe for concurrent use.
type Session struct {
	source   types.GameSource
	criteria catalog.Criteria
	view     View
}

// NewSession starts browsing source with default filters.
func NewSession(source types.GameSource) *Session {
	return &Session{
		source:   source,
		criteria: catalog.DefaultCriteria(),
		view:     Browsing{},
	}
}

// Restore builds a session from externally held state, such as URL query
// parameters. An unknown selectedID leaves the session browsing.
func Restore(source types.GameSource, search, category, selectedID string) *Session {
	s := NewSession(source)
	s.SetSearch(search)
	if category != "" {
		s.SetCategory(category)
	}
	if selectedID != "" {
		s.SelectID(selectedID)
	}
	return s
}

func (s *Session) View() View                 { return s.view }
func (s *Session) Criteria() catalog.Criteria { return s.criteria }
func (s *Session) Search() string             { return s.criteria.Search }
func (s *Session) Category() string           { return s.criteria.Category }

// Selected returns the game being viewed, if any.
func (s *Session) Selected() (types.Game, bool) {
	v, ok := s.view.(Viewing)
	if !ok {
		return types.Game{}, false
	}
	return v.Game, true
}

// IsViewing reports whether a game is selected.
func (s *Session) IsViewing() bool {
	_, ok := s.view.(Viewing)
	return ok
}

func (s *Session) SetSearch(term string) {
	s.criteria.Search = term
}

// SetCategory selects a category. Values outside the derived list fall
// back to "All" so the chip row always has a selected entry.
func (s *Session) SetCategory(category string) {
	for _, c := range s.source.Categories() {
		if c == category {
			s.criteria.Category = category
			return
		}
	}
	s.criteria.Category = types.AllCategories
}

// ResetFilters restores the default search term and category in one step.
func (s *Session) ResetFilters() {
	s.criteria = catalog.DefaultCriteria()
}

// Select moves from browsing to viewing g. It is a no-op while viewing,
// since the viewer has no way to pick another game.
func (s *Session) Select(g types.Game) bool {
	if s.IsViewing() || g.IsZero() {
		return false
	}
	s.view = Viewing{Game: g}
	return true
}

// SelectID selects the game with the given id.
func (s *Session) SelectID(id string) bool {
	g, ok := s.source.Game(id)
	if !ok {
		return false
	}
	return s.Select(g)
}

// Back returns from viewing to browsing. Filters are untouched.
func (s *Session) Back() bool {
	if !s.IsViewing() {
		return false
	}
	s.view = Browsing{}
	return true
}

// Home returns to browsing from either state.
func (s *Session) Home() {
	s.view = Browsing{}
}

// Categories returns the derived category list.
func (s *Session) Categories() []string {
	return s.source.Categories()
}

// Visible returns the games passing the current filters.
func (s *Session) Visible() []types.Game {
	return catalog.Filter(s.source.Games(), s.criteria)
}

// Empty reports whether the current filters hide every game.
func (s *Session) Empty() bool {
	return len(s.Visible()) == 0
}

// Suggestions offers near misses for the search term when nothing matches.
func (s *Session) Suggestions(n int) []types.Game {
	return catalog.Suggest(s.source.Games(), s.criteria.Search, n)
}

// Total returns the number of games regardless of filters.
func (s *Session) Total() int {
	return len(s.source.Games())
}
