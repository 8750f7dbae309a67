package dto

type Game struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Category     string `json:"category"`
	Description  string `json:"description,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	IframeURL    string `json:"iframe_url"`
}

type GameDetail struct {
	Game
	PlayerURL   string   `json:"player_url,omitempty"`
	Permissions []string `json:"permissions"`
}

type Category struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}
