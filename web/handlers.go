package web

import (
	"bytes"
	"encoding/json"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/microcosm-cc/bluemonday"
	"github.com/qyinm/jamemart/browser"
	"github.com/qyinm/jamemart/catalog"
	"github.com/qyinm/jamemart/mcpsrv/dto"
	"github.com/qyinm/jamemart/types"
	"go.uber.org/zap"
)

const (
	cardSummaryRunes = 120
	suggestionCount  = 3
)

type chip struct {
	Name   string
	URL    string
	Active bool
}

type card struct {
	ID        string
	Title     string
	Summary   string
	Category  string
	Thumbnail string
	URL       string
}

type layout struct {
	PageTitle string
	Search    string
	Category  string
	// HomeURL leaves the viewer for the library with the filters intact.
	HomeURL string
}

type browsePage struct {
	layout
	Chips       []chip
	Cards       []card
	Total       int
	Empty       bool
	Suggestions []card
	ResetURL    string
}

type viewerPage struct {
	layout
	ID          string
	Title       string
	GameCat     string
	Description template.HTML
	IframeURL   string
	Allow       string
	Sandbox     string
	BackURL     string
	LoadedURL   string
}

type notFoundPage struct {
	layout
	Message string
}

// sessionFromQuery rebuilds the browsing state carried in the URL.
func (s *server) sessionFromQuery(r *http.Request) *browser.Session {
	q := r.URL.Query()
	return browser.Restore(s.source, strings.TrimSpace(q.Get("q")), strings.TrimSpace(q.Get("category")), "")
}

func (s *server) handleBrowse(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFromQuery(r)
	crit := sess.Criteria()

	page := browsePage{
		layout: layout{PageTitle: "Jame Mart Games", Search: crit.Search, Category: crit.Category, HomeURL: browseURL(crit)},
		Total:  sess.Total(),
	}
	if !crit.IsDefault() {
		page.ResetURL = browseURL(catalog.DefaultCriteria())
	}
	for _, name := range sess.Categories() {
		page.Chips = append(page.Chips, chip{
			Name:   name,
			URL:    browseURL(catalog.Criteria{Search: crit.Search, Category: name}),
			Active: name == crit.Category,
		})
	}
	for _, g := range sess.Visible() {
		page.Cards = append(page.Cards, newCard(g, crit))
	}
	if len(page.Cards) == 0 {
		page.Empty = true
		for _, g := range sess.Suggestions(suggestionCount) {
			page.Suggestions = append(page.Suggestions, newCard(g, catalog.DefaultCriteria()))
		}
	}

	s.render(w, r, http.StatusOK, "browse", page)
}

func (s *server) handleViewer(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sess := browser.Restore(s.source, strings.TrimSpace(q.Get("q")), strings.TrimSpace(q.Get("category")), gameIDParam(r))

	g, ok := sess.Selected()
	if !ok {
		s.renderNotFound(w, r, "That game is not in the catalog.")
		return
	}
	crit := sess.Criteria()

	s.render(w, r, http.StatusOK, "viewer", viewerPage{
		layout:      layout{PageTitle: g.Name() + " | Jame Mart Games", Search: crit.Search, Category: crit.Category, HomeURL: browseURL(crit)},
		ID:          g.ID(),
		Title:       g.Name(),
		GameCat:     g.Category(),
		Description: s.renderDescription(g.Summary()),
		IframeURL:   g.IframeURL(),
		Allow:       strings.Join(EmbedPermissions, "; "),
		Sandbox:     EmbedSandbox,
		BackURL:     browseURL(crit),
		LoadedURL:   "/api/games/" + url.PathEscape(g.ID()) + "/loaded",
	})
}

func (s *server) renderNotFound(w http.ResponseWriter, r *http.Request, msg string) {
	s.render(w, r, http.StatusNotFound, "notfound", notFoundPage{
		layout:  layout{PageTitle: "Not found | Jame Mart Games", Category: types.AllCategories, HomeURL: "/"},
		Message: msg,
	})
}

func (s *server) handleAPIGames(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFromQuery(r)
	writeJSON(w, http.StatusOK, map[string]any{
		"search":   sess.Search(),
		"category": sess.Category(),
		"total":    sess.Total(),
		"items":    dto.FromGames(sess.Visible()),
	})
}

func (s *server) handleAPIGame(w http.ResponseWriter, r *http.Request) {
	g, ok := s.source.Game(gameIDParam(r))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": catalog.ErrNotFound.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"item": dto.FromGame(g)})
}

func (s *server) handleAPICategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"items": s.source.Categories()})
}

// handleLoaded receives the viewer's frame load ping. The body is ignored.
func (s *server) handleLoaded(w http.ResponseWriter, r *http.Request) {
	id := gameIDParam(r)
	if _, ok := s.source.Game(id); !ok {
		http.Error(w, "unknown game", http.StatusNotFound)
		return
	}
	s.notifier.Notify(id)
	s.logger.Debug("game frame loaded", zap.String("game_id", id))
	w.WriteHeader(http.StatusNoContent)
}

// gameIDParam returns the decoded {id} route param. chi matches on the raw
// path when one is set, so an escaped "/" arrives as "%2F".
func gameIDParam(r *http.Request) string {
	id := chi.URLParam(r, "id")
	if r.URL.RawPath == "" {
		return id
	}
	if decoded, err := url.PathUnescape(id); err == nil {
		return decoded
	}
	return id
}

func (s *server) renderDescription(src string) template.HTML {
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(src), &buf); err != nil {
		s.logger.Warn("render description", zap.Error(err))
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(s.policy.SanitizeBytes(buf.Bytes()))
}

func newDescriptionPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.RequireNoFollowOnLinks(true)
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	return policy
}

func newCard(g types.Game, crit catalog.Criteria) card {
	return card{
		ID:        g.ID(),
		Title:     g.Name(),
		Summary:   truncate(g.Summary(), cardSummaryRunes),
		Category:  g.Category(),
		Thumbnail: g.Thumbnail(),
		URL:       gameURL(g.ID(), crit),
	}
}

// browseURL encodes crit as a query string on "/", omitting defaults.
func browseURL(crit catalog.Criteria) string {
	if qs := criteriaQuery(crit); qs != "" {
		return "/?" + qs
	}
	return "/"
}

func gameURL(id string, crit catalog.Criteria) string {
	u := "/games/" + url.PathEscape(id)
	if qs := criteriaQuery(crit); qs != "" {
		return u + "?" + qs
	}
	return u
}

func criteriaQuery(crit catalog.Criteria) string {
	v := url.Values{}
	if crit.Search != "" {
		v.Set("q", crit.Search)
	}
	if crit.Category != "" && crit.Category != types.AllCategories {
		v.Set("category", crit.Category)
	}
	return v.Encode()
}

// truncate shortens s to at most n runes, ending with an ellipsis when cut.
func truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:n-1])) + "…"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
