// Package web serves the catalog as HTML pages and embeds the selected
// game in a sandboxed iframe. Filter and selection state travel in the
// URL, so the server keeps no per-visitor state.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/microcosm-cc/bluemonday"
	"github.com/qyinm/jamemart/logging"
	"github.com/qyinm/jamemart/types"
	"github.com/yuin/goldmark"
	"go.uber.org/zap"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed assets
var assetFS embed.FS

// EmbedPermissions is the complete set of capabilities delegated to an
// embedded game.
var EmbedPermissions = []string{
	"accelerometer",
	"autoplay",
	"clipboard-write",
	"encrypted-media",
	"gyroscope",
	"picture-in-picture",
}

// deniedPermissions are switched off for the page and every frame in it.
var deniedPermissions = []string{
	"camera",
	"display-capture",
	"fullscreen",
	"geolocation",
	"microphone",
	"payment",
	"usb",
}

// EmbedSandbox is the iframe sandbox attribute value.
const EmbedSandbox = "allow-scripts allow-same-origin"

// Options configures NewHandler.
type Options struct {
	Logger         *zap.Logger
	Notifier       *Notifier
	AllowedOrigins []string
	Timeout        time.Duration
}

type server struct {
	source   types.GameSource
	logger   *zap.Logger
	notifier *Notifier
	tmpl     *template.Template
	markdown goldmark.Markdown
	policy   *bluemonday.Policy
}

// NewHandler builds the HTTP handler for source.
func NewHandler(source types.GameSource, opts Options) (http.Handler, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Notifier == nil {
		opts.Notifier = NewNotifier()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	s := &server{
		source:   source,
		logger:   opts.Logger,
		notifier: opts.Notifier,
		tmpl:     tmpl,
		markdown: goldmark.New(),
		policy:   newDescriptionPolicy(),
	}

	assets, err := fs.Sub(assetFS, "assets")
	if err != nil {
		return nil, fmt.Errorf("assets: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(opts.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(middleware.Timeout(opts.Timeout))
	r.Use(securityHeaders)

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(assets))))

	r.Get("/", s.handleBrowse)
	r.Get("/games/{id}", s.handleViewer)

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
		r.Get("/games", s.handleAPIGames)
		r.Get("/games/{id}", s.handleAPIGame)
		r.Post("/games/{id}/loaded", s.handleLoaded)
		r.Get("/categories", s.handleAPICategories)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.renderNotFound(w, r, "Page not found")
	})

	return r, nil
}

func parseTemplates() (*template.Template, error) {
	funcMap := template.FuncMap{
		"now":      time.Now,
		"truncate": truncate,
	}
	t, err := template.New("_root").Funcs(funcMap).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return t, nil
}

// render executes a page template. Output is buffered so a template
// error never leaves a half-written page.
func (s *server) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, page, data); err != nil {
		s.logger.Error("render page", zap.String("page", page), zap.Error(err), zap.String("path", r.URL.Path))
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func securityHeaders(next http.Handler) http.Handler {
	csp := strings.Join([]string{
		"default-src 'self'",
		"img-src 'self' https: http: data:",
		"frame-src https: http:",
		"script-src 'self'",
		"style-src 'self'",
		"connect-src 'self'",
		"base-uri 'none'",
		"form-action 'self'",
	}, "; ")
	policy := permissionsPolicy()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Content-Security-Policy", csp)
		h.Set("Permissions-Policy", policy)
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}

func permissionsPolicy() string {
	parts := make([]string, 0, len(EmbedPermissions)+len(deniedPermissions))
	for _, p := range EmbedPermissions {
		parts = append(parts, p+"=*")
	}
	for _, p := range deniedPermissions {
		parts = append(parts, p+"=()")
	}
	return strings.Join(parts, ", ")
}

// GameURL returns the viewer page for id under base, e.g.
// "http://localhost:8080".
func GameURL(base, id string) string {
	return strings.TrimRight(base, "/") + "/games/" + url.PathEscape(id)
}
