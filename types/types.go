package types

import (
	"github.com/charmbracelet/bubbles/list"
)

// AllCategories is the sentinel category that matches every game.
const AllCategories = "All"

// Game represents one catalog entry
type Game struct {
	id          string
	title       string
	category    string
	description string
	thumbnail   string
	iframeURL   string
}

// NewGame creates a new Game with the given fields
func NewGame(id, title, category, description, thumbnail, iframeURL string) Game {
	return Game{
		id:          id,
		title:       title,
		category:    category,
		description: description,
		thumbnail:   thumbnail,
		iframeURL:   iframeURL,
	}
}

// Getters for Game fields
func (g Game) ID() string        { return g.id }
func (g Game) Name() string      { return g.title }
func (g Game) Category() string  { return g.category }
func (g Game) Summary() string   { return g.description }
func (g Game) Thumbnail() string { return g.thumbnail }
func (g Game) IframeURL() string { return g.iframeURL }

// IsZero reports whether g is the zero Game.
func (g Game) IsZero() bool { return g.id == "" }

// list.Item interface implementation
func (g Game) Title() string       { return g.title }
func (g Game) Description() string { return g.description }
func (g Game) FilterValue() string { return g.title }

// Compile-time check that Game implements list.Item
var _ list.Item = Game{}

// GameSource is the core read-only abstraction over a loaded catalog.
// Sync methods only, no bubbletea dependency, so the TUI, the web
// server and the MCP server share it.
type GameSource interface {
	Games() []Game
	Game(id string) (Game, bool)
	Categories() []string
}
