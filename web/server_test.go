package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/qyinm/jamemart/catalog"
	"github.com/qyinm/jamemart/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() *catalog.Catalog {
	return catalog.New([]types.Game{
		types.NewGame("1", "Chess Master", "Board", "Play **chess** <script>alert(1)</script>", "https://img.example/chess.png", "https://games.example/chess"),
		types.NewGame("2", "Speed Run", "Arcade", "Run fast.", "", "https://games.example/run"),
	})
}

func newTestServer(t *testing.T, notifier *Notifier) *httptest.Server {
	t.Helper()
	h, err := NewHandler(testCatalog(), Options{Notifier: notifier})
	require.NoError(t, err)
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestBrowseListsAllGamesByDefault(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, body := get(t, srv.URL+"/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `data-game-id="1"`)
	assert.Contains(t, body, `data-game-id="2"`)

	// "All" first and selected
	allIdx := strings.Index(body, `>All</a>`)
	boardIdx := strings.Index(body, `>Board</a>`)
	require.True(t, allIdx >= 0 && boardIdx > allIdx, "All chip must come first")
	assert.Contains(t, body, `class="chip chip-active" href="/" aria-current="true">All</a>`)
}

func TestBrowseFiltersBySearchAndCategory(t *testing.T) {
	srv := newTestServer(t, nil)

	_, body := get(t, srv.URL+"/?q=chess")
	assert.Contains(t, body, `data-game-id="1"`)
	assert.NotContains(t, body, `data-game-id="2"`)
	assert.Contains(t, body, `value="chess"`)

	_, body = get(t, srv.URL+"/?category=Arcade")
	assert.Contains(t, body, `data-game-id="2"`)
	assert.NotContains(t, body, `data-game-id="1"`)
	assert.Contains(t, body, `aria-current="true">Arcade</a>`)

	// card links keep the filters for the back link
	assert.Contains(t, body, `href="/games/2?category=Arcade"`)
}

func TestBrowseEmptyState(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, body := get(t, srv.URL+"/?q=zz&category=Board")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "No games found")
	assert.Contains(t, body, `<a class="reset" href="/">Clear filters</a>`)
	assert.NotContains(t, body, `class="card"`)
}

func TestBrowseEmptyStateSuggestions(t *testing.T) {
	srv := newTestServer(t, nil)

	_, body := get(t, srv.URL+"/?q=chss")
	assert.Contains(t, body, "Did you mean")
	assert.Contains(t, body, `<a href="/games/1">Chess Master</a>`)
}

func TestViewerEmbedsSandboxedFrame(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, body := get(t, srv.URL+"/games/1?q=ch&category=Board")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Contains(t, body, `<iframe src="https://games.example/chess"`)
	assert.Contains(t, body, `sandbox="allow-scripts allow-same-origin"`)
	assert.Contains(t, body, `allow="accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture"`)
	assert.NotContains(t, body, "allowfullscreen")
	assert.Contains(t, body, "Loading game...")

	// back and the logo both keep the filters
	assert.Contains(t, body, `<a class="back" href="/?category=Board&amp;q=ch">`)
	assert.Contains(t, body, `<a class="logo" href="/?category=Board&amp;q=ch"`)

	// description is markdown, sanitised
	assert.Contains(t, body, "<strong>chess</strong>")
	assert.NotContains(t, body, "<script>alert(1)</script>")
	assert.Contains(t, body, `data-loaded-url="/api/games/1/loaded"`)
}

func TestLogoKeepsFilters(t *testing.T) {
	srv := newTestServer(t, nil)

	_, body := get(t, srv.URL+"/games/1?q=chess&category=Board")
	assert.Contains(t, body, `<a class="logo" href="/?category=Board&amp;q=chess"`)

	_, body = get(t, srv.URL+"/?q=chess")
	assert.Contains(t, body, `<a class="logo" href="/?q=chess"`)

	_, body = get(t, srv.URL+"/games/404?q=chess")
	assert.Contains(t, body, `<a class="logo" href="/"`)
}

func TestEmptyCatalogHasNothingToClear(t *testing.T) {
	h, err := NewHandler(catalog.New(nil), Options{})
	require.NoError(t, err)
	srv := httptest.NewServer(h)
	defer srv.Close()

	_, body := get(t, srv.URL+"/")
	assert.Contains(t, body, "No games found")
	assert.NotContains(t, body, "Clear filters")
}

func TestGameIDWithSlash(t *testing.T) {
	notifier := NewNotifier()
	ch, cancel := notifier.Subscribe()
	defer cancel()

	store := catalog.New([]types.Game{
		types.NewGame("pack/1", "Tower Pack", "Puzzle", "", "", "https://games.example/tower"),
	})
	h, err := NewHandler(store, Options{Notifier: notifier})
	require.NoError(t, err)
	srv := httptest.NewServer(h)
	defer srv.Close()

	_, body := get(t, srv.URL+"/?q=tower")
	assert.Contains(t, body, `href="/games/pack%2F1?q=tower"`)

	resp, body := get(t, srv.URL+"/games/pack%2F1?q=tower")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `<iframe src="https://games.example/tower"`)
	assert.Contains(t, body, `data-loaded-url="/api/games/pack%2F1/loaded"`)

	resp, body = get(t, GameURL(srv.URL, "pack/1"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Tower Pack")

	resp, _ = get(t, srv.URL+"/api/games/pack%2F1")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/api/games/pack%2F1/loaded", "text/plain", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	select {
	case id := <-ch:
		assert.Equal(t, "pack/1", id)
	case <-time.After(time.Second):
		t.Fatal("no load notification")
	}
}

func TestViewerUnknownGame(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, body := get(t, srv.URL+"/games/404")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "Back to Library")
}

func TestSecurityHeaders(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, _ := get(t, srv.URL+"/games/1")
	policy := resp.Header.Get("Permissions-Policy")
	for _, p := range EmbedPermissions {
		assert.Contains(t, policy, p+"=*")
	}
	assert.Contains(t, policy, "camera=()")
	assert.Contains(t, resp.Header.Get("Content-Security-Policy"), "frame-src https: http:")
}

func TestAPIGames(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, body := get(t, srv.URL+"/api/games?q=SPEED")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Search   string `json:"search"`
		Category string `json:"category"`
		Total    int    `json:"total"`
		Items    []struct {
			ID        string `json:"id"`
			IframeURL string `json:"iframe_url"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.Equal(t, "SPEED", out.Search)
	assert.Equal(t, types.AllCategories, out.Category)
	assert.Equal(t, 2, out.Total)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "2", out.Items[0].ID)
	assert.Equal(t, "https://games.example/run", out.Items[0].IframeURL)
}

func TestAPIGameAndCategories(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, _ := get(t, srv.URL+"/api/games/404")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body := get(t, srv.URL+"/api/categories")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cats struct {
		Items []string `json:"items"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &cats))
	assert.Equal(t, []string{"All", "Board", "Arcade"}, cats.Items)
}

func TestAPICORS(t *testing.T) {
	srv := newTestServer(t, nil)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/categories", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://app.example")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestLoadedPingNotifiesSubscribers(t *testing.T) {
	notifier := NewNotifier()
	ch, cancel := notifier.Subscribe()
	defer cancel()
	srv := newTestServer(t, notifier)

	resp, err := http.Post(srv.URL+"/api/games/1/loaded", "text/plain", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	select {
	case id := <-ch:
		assert.Equal(t, "1", id)
	case <-time.After(time.Second):
		t.Fatal("no load notification")
	}

	resp, err = http.Post(srv.URL+"/api/games/404/loaded", "text/plain", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestNotifierUnsubscribe(t *testing.T) {
	n := NewNotifier()
	ch, cancel := n.Subscribe()
	cancel()
	cancel()
	_, open := <-ch
	assert.False(t, open)
	n.Notify("1")
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "http://localhost:8080/games/a%2Fb", GameURL("http://localhost:8080/", "a/b"))
	assert.Equal(t, "http://localhost:8080", LocalURL(":8080"))
	assert.Equal(t, "http://127.0.0.1:9000", LocalURL("127.0.0.1:9000"))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "/", browseURL(catalog.DefaultCriteria()))
	assert.Equal(t, "/games/1?q=a+b", gameURL("1", catalog.Criteria{Search: "a b", Category: types.AllCategories}))
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("JAMEMART_WEB_PORT", "")
	t.Setenv("PORT", "9090")
	t.Setenv("JAMEMART_ADDR", "")
	t.Setenv("JAMEMART_PLAYER_URL", "")
	t.Setenv("JAMEMART_WEB_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("JAMEMART_WEB_TIMEOUT", "5s")

	cfg := LoadConfig()
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "http://localhost:9090", cfg.PublicURL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
}
