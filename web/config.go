package web

import (
	"strings"
	"time"

	"github.com/qyinm/jamemart/config"
)

// Config holds the web server settings read from the environment.
type Config struct {
	Addr           string
	Catalog        string
	PublicURL      string
	AllowedOrigins []string
	RequestTimeout time.Duration
}

func LoadConfig() Config {
	port := config.Port("8080", "JAMEMART_WEB_PORT", "PORT")
	addr := config.String("JAMEMART_ADDR", ":"+port)

	cfg := Config{
		Addr:           addr,
		Catalog:        config.String("JAMEMART_CATALOG", ""),
		PublicURL:      config.String("JAMEMART_PLAYER_URL", ""),
		AllowedOrigins: config.CSV("JAMEMART_WEB_ALLOWED_ORIGINS"),
		RequestTimeout: config.Duration("JAMEMART_WEB_TIMEOUT", 30*time.Second),
	}
	if cfg.PublicURL == "" {
		cfg.PublicURL = LocalURL(cfg.Addr)
	}
	return cfg
}

// LocalURL turns a listen address into a URL a local browser can open.
func LocalURL(addr string) string {
	host, port := addr, ""
	if i := strings.LastIndex(addr, ":"); i >= 0 {
		host, port = addr[:i], addr[i+1:]
	}
	if host == "" || host == "0.0.0.0" || host == "[::]" {
		host = "localhost"
	}
	if port == "" {
		return "http://" + host
	}
	return "http://" + host + ":" + port
}
