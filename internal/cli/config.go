package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/pkoster/drawcell/pkg/session"
)

// =============================================================================
// Server Configuration
// =============================================================================

// Config is the TOML configuration for the drawcell server.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Storage StorageConfig `toml:"storage"`
	Diagram DiagramConfig `toml:"diagram"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// StorageConfig selects and configures the session store backend.
type StorageConfig struct {
	Backend string      `toml:"backend"` // memory | file | redis | mongo
	Dir     string      `toml:"dir"`     // file backend; empty uses the default config dir
	Redis   RedisConfig `toml:"redis"`
	Mongo   MongoConfig `toml:"mongo"`
}

// RedisConfig holds redis backend settings.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// MongoConfig holds mongo backend settings.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// DiagramConfig holds document defaults.
type DiagramConfig struct {
	DefaultName     string `toml:"default_name"`
	SessionTTLHours int    `toml:"session_ttl_hours"`
}

// defaultConfig returns the configuration used when no file is given.
func defaultConfig() Config {
	return Config{
		Server:  ServerConfig{Addr: ":8080"},
		Storage: StorageConfig{Backend: "memory"},
		Diagram: DiagramConfig{SessionTTLHours: 24},
	}
}

// loadConfig reads a TOML config file, layering it over the defaults.
// An empty path returns the defaults unchanged.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// sessionTTL returns the configured session lifetime.
func (c Config) sessionTTL() time.Duration {
	if c.Diagram.SessionTTLHours <= 0 {
		return session.DefaultTTL
	}
	return time.Duration(c.Diagram.SessionTTLHours) * time.Hour
}

// newStore builds the session store selected by the configuration.
func newStore(ctx context.Context, cfg StorageConfig) (session.Store, error) {
	switch cfg.Backend {
	case "", "memory":
		return session.NewMemoryStore(), nil
	case "file":
		return session.NewFileStore(cfg.Dir)
	case "redis":
		return session.NewRedisStore(ctx, session.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	case "mongo":
		return session.NewMongoStore(ctx, session.MongoConfig{
			URI:        cfg.Mongo.URI,
			Database:   cfg.Mongo.Database,
			Collection: cfg.Mongo.Collection,
		})
	default:
		return nil, fmt.Errorf("unknown storage backend %q (want memory, file, redis, or mongo)", cfg.Backend)
	}
}
