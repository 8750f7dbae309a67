package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/qyinm/jamemart/types"
	"gopkg.in/yaml.v3"
)

// RecordID accepts both string and numeric ids in source data.
type RecordID string

func (id *RecordID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = RecordID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = RecordID(n.String())
	return nil
}

func (id *RecordID) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("id must be a scalar, got yaml kind %d", node.Kind)
	}
	if node.Tag == "!!null" {
		*id = ""
		return nil
	}
	*id = RecordID(node.Value)
	return nil
}

// Record is one game entry as it appears in a catalog source, before validation.
type Record struct {
	ID          RecordID `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Category    string   `json:"category" yaml:"category"`
	Description string   `json:"description" yaml:"description"`
	Thumbnail   string   `json:"thumbnail" yaml:"thumbnail"`
	IframeURL   string   `json:"iframeUrl" yaml:"iframeUrl"`

	decodeErr string
}

// Rejection describes a source record that was excluded from the catalog.
type Rejection struct {
	Index  int
	ID     string
	Reason string
}

func (r Rejection) String() string {
	if r.ID == "" {
		return fmt.Sprintf("record %d: %s", r.Index, r.Reason)
	}
	return fmt.Sprintf("record %d (id %q): %s", r.Index, r.ID, r.Reason)
}

// Validate converts records into games, trimming fields and excluding
// records that cannot be shown. Order of accepted records is preserved.
// Index in each Rejection is the record's position in records.
func Validate(records []Record) ([]types.Game, []Rejection) {
	games := make([]types.Game, 0, len(records))
	var rejected []Rejection
	seen := make(map[string]struct{}, len(records))

	for i, rec := range records {
		id := strings.TrimSpace(string(rec.ID))
		reason := checkRecord(id, rec)
		if reason == "" {
			if _, dup := seen[id]; dup {
				reason = "duplicate id"
			}
		}
		if reason != "" {
			rejected = append(rejected, Rejection{Index: i, ID: id, Reason: reason})
			continue
		}

		seen[id] = struct{}{}
		games = append(games, types.NewGame(
			id,
			strings.TrimSpace(rec.Title),
			strings.TrimSpace(rec.Category),
			strings.TrimSpace(rec.Description),
			strings.TrimSpace(rec.Thumbnail),
			strings.TrimSpace(rec.IframeURL),
		))
	}

	return games, rejected
}

// checkRecord returns the first reason rec is unusable, or "".
func checkRecord(id string, rec Record) string {
	switch {
	case rec.decodeErr != "":
		return "decode: " + rec.decodeErr
	case id == "":
		return "missing id"
	case strings.TrimSpace(rec.Title) == "":
		return "missing title"
	case strings.TrimSpace(rec.Category) == "":
		return "missing category"
	case strings.TrimSpace(rec.IframeURL) == "":
		return "missing iframeUrl"
	case !isEmbeddableURL(strings.TrimSpace(rec.IframeURL)):
		return "iframeUrl must be an absolute http(s) URL"
	case strings.EqualFold(strings.TrimSpace(rec.Category), types.AllCategories):
		return fmt.Sprintf("category %q is reserved", types.AllCategories)
	}
	return ""
}

func isEmbeddableURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// recordFromGame is the inverse of Validate for a single game.
func recordFromGame(g types.Game) Record {
	return Record{
		ID:          RecordID(g.ID()),
		Title:       g.Name(),
		Category:    g.Category(),
		Description: g.Summary(),
		Thumbnail:   g.Thumbnail(),
		IframeURL:   g.IframeURL(),
	}
}
