package catalog

import (
	"errors"

	"github.com/qyinm/jamemart/types"
)

var (
	// ErrNotFound is returned when a game id is not in the catalog.
	ErrNotFound = errors.New("game not found")
	// ErrUnsupportedFormat is returned for catalog sources that cannot be decoded.
	ErrUnsupportedFormat = errors.New("unsupported catalog format")
)

// Catalog implements types.GameSource over a set of games loaded once.
// It is never mutated after construction, so it is safe to share.
type Catalog struct {
	games      []types.Game
	byID       map[string]int
	categories []string
	rejected   []Rejection
}

// Compile-time interface check
var _ types.GameSource = (*Catalog)(nil)

// New builds a Catalog from games, applying the same validation as Load.
func New(games []types.Game) *Catalog {
	records := make([]Record, 0, len(games))
	for _, g := range games {
		records = append(records, recordFromGame(g))
	}
	return FromRecords(records)
}

// FromRecords validates records and builds a Catalog.
func FromRecords(records []Record) *Catalog {
	games, rejected := Validate(records)

	c := &Catalog{
		games:      games,
		byID:       make(map[string]int, len(games)),
		categories: Categories(games),
		rejected:   rejected,
	}
	for i, g := range games {
		c.byID[g.ID()] = i
	}
	return c
}

// Games returns a copy of all games in source order.
func (c *Catalog) Games() []types.Game {
	return append([]types.Game(nil), c.games...)
}

// Game returns the game with the given id.
func (c *Catalog) Game(id string) (types.Game, bool) {
	i, ok := c.byID[id]
	if !ok {
		return types.Game{}, false
	}
	return c.games[i], true
}

// Categories returns "All" followed by each distinct category in first-seen order.
func (c *Catalog) Categories() []string {
	return append([]string(nil), c.categories...)
}

// Len returns the number of games.
func (c *Catalog) Len() int { return len(c.games) }

// Rejected returns the records excluded while loading.
func (c *Catalog) Rejected() []Rejection {
	return append([]Rejection(nil), c.rejected...)
}
