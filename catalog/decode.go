package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"gopkg.in/yaml.v3"
)

// Format identifies how a catalog source is encoded.
type Format int

const (
	FormatUnknown Format = iota
	FormatJSON
	FormatYAML
	FormatHTML
)

// String returns the string representation of the format
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	case FormatHTML:
		return "html"
	default:
		return "unknown"
	}
}

// FormatFromPath guesses the format from a file name or URL path extension.
func FormatFromPath(p string) Format {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	switch strings.ToLower(path.Ext(p)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".html", ".htm":
		return FormatHTML
	default:
		return FormatUnknown
	}
}

// FormatFromContentType maps an HTTP Content-Type header to a format.
func FormatFromContentType(ct string) Format {
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return FormatUnknown
	}
	switch {
	case mediaType == "application/json" || strings.HasSuffix(mediaType, "+json"):
		return FormatJSON
	case mediaType == "application/yaml" || mediaType == "application/x-yaml" || mediaType == "text/yaml":
		return FormatYAML
	case mediaType == "text/html":
		return FormatHTML
	default:
		return FormatUnknown
	}
}

// Decode reads records in the given format. A record that cannot be
// decoded on its own is kept in place and later rejected by Validate;
// only a source that cannot be read at all is an error.
func Decode(r io.Reader, f Format) ([]Record, error) {
	switch f {
	case FormatJSON:
		return DecodeJSON(r)
	case FormatYAML:
		return DecodeYAML(r)
	case FormatHTML:
		return ParseHTML(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}
}

// DecodeJSON accepts either a top-level array of records or an object
// with a "games" array.
func DecodeJSON(r io.Reader) ([]Record, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read json: %w", err)
	}
	body = bytes.TrimSpace(body)

	var raw []json.RawMessage
	if len(body) > 0 && body[0] == '{' {
		var wrapper struct {
			Games []json.RawMessage `json:"games"`
		}
		if err := json.Unmarshal(body, &wrapper); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
		raw = wrapper.Games
	} else if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}

	records := make([]Record, 0, len(raw))
	for _, item := range raw {
		var rec Record
		if err := json.Unmarshal(item, &rec); err != nil {
			rec = Record{decodeErr: err.Error()}
		}
		records = append(records, rec)
	}
	return records, nil
}

// DecodeYAML accepts either a top-level sequence of records or a mapping
// with a "games" sequence.
func DecodeYAML(r io.Reader) ([]Record, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind == yaml.MappingNode {
		root = yamlField(root, "games")
		if root == nil {
			return nil, fmt.Errorf("parse yaml: no games sequence")
		}
	}
	if root.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("parse yaml: expected a sequence of games")
	}

	records := make([]Record, 0, len(root.Content))
	for _, item := range root.Content {
		var rec Record
		if err := item.Decode(&rec); err != nil {
			rec = Record{decodeErr: err.Error()}
		}
		records = append(records, rec)
	}
	return records, nil
}

func yamlField(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

// ParseHTML extracts records from an HTML catalog page. Each game is an
// element carrying data-game-id. Title, description and category come
// from .game-title, .game-description and data-category (or
// .game-category); the embed URL from data-iframe-url, a nested iframe,
// or a.game-play.
func ParseHTML(r io.Reader) ([]Record, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	var records []Record
	doc.Find("[data-game-id]").Each(func(_ int, s *goquery.Selection) {
		id, _ := s.Attr("data-game-id")

		title := strings.TrimSpace(s.Find(".game-title").First().Text())
		if title == "" {
			title = strings.TrimSpace(s.Find("h1,h2,h3,h4").First().Text())
		}

		category, ok := s.Attr("data-category")
		if !ok {
			category = strings.TrimSpace(s.Find(".game-category").First().Text())
		}

		description := strings.TrimSpace(s.Find(".game-description").First().Text())
		if description == "" {
			description = strings.TrimSpace(s.Find("p").First().Text())
		}

		records = append(records, Record{
			ID:          RecordID(strings.TrimSpace(id)),
			Title:       title,
			Category:    strings.TrimSpace(category),
			Description: description,
			Thumbnail:   htmlThumbnail(s),
			IframeURL:   htmlEmbedURL(s),
		})
	})

	return records, nil
}

// htmlThumbnail prefers a lazy-load data-src over src.
func htmlThumbnail(s *goquery.Selection) string {
	img := s.Find("img").First()
	if src, ok := img.Attr("data-src"); ok && strings.TrimSpace(src) != "" {
		return strings.TrimSpace(src)
	}
	src, _ := img.Attr("src")
	return strings.TrimSpace(src)
}

func htmlEmbedURL(s *goquery.Selection) string {
	if u, ok := s.Attr("data-iframe-url"); ok && strings.TrimSpace(u) != "" {
		return strings.TrimSpace(u)
	}
	if u, ok := s.Find("iframe").First().Attr("src"); ok && strings.TrimSpace(u) != "" {
		return strings.TrimSpace(u)
	}
	u, _ := s.Find("a.game-play").First().Attr("href")
	return strings.TrimSpace(u)
}
