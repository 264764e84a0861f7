// Package config reads the application settings from MUSICLAB_*
// environment variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every variable Load reads.
const EnvPrefix = "MUSICLAB_"

// Progress storage backends.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// Backends lists the accepted MUSICLAB_BACKEND values.
var Backends = []string{BackendSQLite, BackendFile, BackendMemory}

// Config holds application settings. CLI flags override these.
type Config struct {
	// DBPath is the SQLite database file. Empty means the XDG default.
	DBPath string `env:"DB"`

	// Backend selects where the progress record lives.
	Backend string `env:"BACKEND" envDefault:"sqlite"`

	// FileDir is the directory of the file backend. Empty means the
	// directory holding the database.
	FileDir string `env:"FILE_DIR"`

	// NoSplash skips the welcome screen.
	NoSplash bool `env:"NO_SPLASH"`
}

// Load parses the process environment.
func Load() (Config, error) {
	return parse(env.Options{Prefix: EnvPrefix})
}

// LoadFrom parses environ instead of the process environment. Keys
// include the MUSICLAB_ prefix.
func LoadFrom(environ map[string]string) (Config, error) {
	return parse(env.Options{Prefix: EnvPrefix, Environment: environ})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the backend name.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendSQLite, BackendFile, BackendMemory:
		return nil
	default:
		return fmt.Errorf("unknown backend %q (want one of %v)", c.Backend, Backends)
	}
}

// Override returns a copy with non-empty flag values applied.
func (c Config) Override(dbPath, backend string) (Config, error) {
	if dbPath != "" {
		c.DBPath = dbPath
	}
	if backend != "" {
		c.Backend = backend
	}
	return c, c.Validate()
}
