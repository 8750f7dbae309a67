package mcpsrv

import (
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/qyinm/jamemart/config"
)

type Config struct {
	Port           string
	Catalog        string
	PlayerURL      string
	AllowedOrigins []string
	APIKey         string
	Stateless      bool
	EnableAdmin    bool
	RPS            float64
	Burst          int
	SessionTimeout time.Duration
	ReloadInterval time.Duration
}

func LoadConfig() Config {
	cfg := Config{
		Port:           config.Port("8080", "JAMEMART_MCP_PORT", "PORT"),
		Catalog:        config.String("JAMEMART_CATALOG", ""),
		PlayerURL:      config.String("JAMEMART_PLAYER_URL", ""),
		AllowedOrigins: config.CSV("JAMEMART_MCP_ALLOWED_ORIGINS"),
		APIKey:         config.String("JAMEMART_MCP_API_KEY", ""),
		Stateless:      config.Bool("JAMEMART_MCP_STATELESS", false),
		EnableAdmin:    config.Bool("JAMEMART_MCP_ENABLE_ADMIN", false),
		RPS:            config.Float("JAMEMART_MCP_RPS", 2),
		Burst:          config.Int("JAMEMART_MCP_BURST", 5),
		SessionTimeout: config.Duration("JAMEMART_MCP_SESSION_TIMEOUT", 15*time.Minute),
		ReloadInterval: config.Duration("JAMEMART_MCP_RELOAD_INTERVAL", 0),
	}

	if cfg.RPS <= 0 {
		cfg.RPS = 2
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 5
	}

	return cfg
}

func StreamableOptions(cfg Config) *mcp.StreamableHTTPOptions {
	return &mcp.StreamableHTTPOptions{
		Stateless:      cfg.Stateless,
		SessionTimeout: cfg.SessionTimeout,
	}
}
