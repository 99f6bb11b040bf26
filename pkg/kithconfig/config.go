// Package kithconfig loads the server's configuration from three layers,
// lowest precedence first: built-in defaults, an optional YAML file, then
// environment variables (via go-envconfig) — the same file-then-env
// layering the rest of the corpus uses for its server configs.
//
// go-envconfig leaves a field alone when it already holds a non-zero value,
// unless the field's tag carries overwrite. Defaults live here as plain Go
// values, applied before the YAML overlay, so every env tag is marked
// overwrite and carries no default= of its own: envconfig.Process then only
// touches a field when its environment variable is actually set, replacing
// the YAML (or default) value, and leaves it alone otherwise.
package kithconfig

import (
	"context"
	"fmt"
	"os"

	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"
)

// Server holds the CardDAV listener's settings.
type Server struct {
	ListenAddr string `env:"LISTEN_ADDR, overwrite" yaml:"listen_addr"`
	DBPath     string `env:"DB_PATH, overwrite" yaml:"db_path"`
	Realm      string `env:"REALM, overwrite" yaml:"realm"`
}

// Auth holds the single local user credential checked by Basic Auth.
// BcryptHash is the bcrypt digest of the user's password — never the
// password itself.
type Auth struct {
	Username   string `env:"USERNAME, overwrite" yaml:"username"`
	BcryptHash string `env:"BCRYPT_HASH, overwrite" yaml:"bcrypt_hash"`
}

// Config is the full process configuration.
type Config struct {
	Server Server `env:",prefix=KITH_"`
	Auth   Auth   `env:",prefix=KITH_AUTH_"`
}

// defaults returns the built-in base configuration, the lowest-precedence
// layer Load starts from.
func defaults() Config {
	return Config{
		Server: Server{
			ListenAddr: "0.0.0.0:8025",
			DBPath:     "kith.db",
			Realm:      "kith",
		},
		Auth: Auth{
			Username: "kith",
		},
	}
}

// Load resolves defaults(), then configPath (if non-empty) as a YAML
// overlay, then environment variables on top — env vars always win.
func Load(ctx context.Context, configPath string) (*Config, error) {
	cfg := defaults()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("kithconfig: read %s: %w", configPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("kithconfig: parse %s: %w", configPath, err)
		}
	}

	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("kithconfig: process env: %w", err)
	}

	return &cfg, nil
}
