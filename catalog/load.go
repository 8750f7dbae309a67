package catalog

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const userAgent = "jamemart/1.0 (+https://github.com/qyinm/jamemart)"

// maxRemoteBytes bounds a remote catalog body.
const maxRemoteBytes = 8 << 20

//go:embed data/games.json
var bundled embed.FS

// Loader reads a catalog from the bundled dataset, a file or a URL.
type Loader struct {
	client *http.Client
}

// NewLoader creates a Loader with a timeout-bounded HTTP client.
func NewLoader() *Loader {
	return &Loader{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NewLoaderWithClient creates a Loader using client for remote sources.
func NewLoaderWithClient(client *http.Client) *Loader {
	if client == nil {
		return NewLoader()
	}
	return &Loader{client: client}
}

// Load reads the catalog at location. An empty location selects the
// bundled dataset, an http(s) URL is fetched, anything else is a file path.
func (l *Loader) Load(ctx context.Context, location string) (*Catalog, error) {
	location = strings.TrimSpace(location)

	var (
		records []Record
		err     error
	)
	switch {
	case location == "":
		records, err = Bundled()
	case strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://"):
		records, err = l.fetch(ctx, location)
	default:
		records, err = loadFile(location)
	}
	if err != nil {
		return nil, err
	}
	return FromRecords(records), nil
}

// Bundled decodes the dataset compiled into the binary.
func Bundled() ([]Record, error) {
	body, err := bundled.ReadFile("data/games.json")
	if err != nil {
		return nil, fmt.Errorf("read bundled catalog: %w", err)
	}
	records, err := DecodeJSON(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("decode bundled catalog: %w", err)
	}
	return records, nil
}

func loadFile(name string) ([]Record, error) {
	format := FormatFromPath(name)
	if format == FormatUnknown {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	records, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", name, err)
	}
	return records, nil
}

func (l *Loader) fetch(ctx context.Context, url string) ([]Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9, text/html;q=0.8")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Read body for error context
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(body))
	}

	format := FormatFromContentType(resp.Header.Get("Content-Type"))
	if format == FormatUnknown {
		format = FormatFromPath(req.URL.Path)
	}

	records, err := Decode(io.LimitReader(resp.Body, maxRemoteBytes), format)
	if err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return records, nil
}
