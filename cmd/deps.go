package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abhisek/musiclab/internal/config"
	"github.com/abhisek/musiclab/internal/progress"
	"github.com/abhisek/musiclab/internal/store"
)

// services bundles what the subcommands run against. events is nil unless
// the sqlite backend is in use.
type services struct {
	cfg      config.Config
	progress *progress.Service
	events   store.EventRepo
	st       *store.Store
}

func (s *services) Close() {
	if s.st != nil {
		_ = s.st.Close()
	}
}

// loadConfig reads MUSICLAB_* variables and applies --db and --backend.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	dbPath, _ := cmd.Flags().GetString("db")
	backend, _ := cmd.Flags().GetString("backend")
	return cfg.Override(dbPath, backend)
}

// resolveDBPath returns cfg.DBPath, which already folds --db over
// MUSICLAB_DB, or the default XDG path.
func resolveDBPath(cfg config.Config) (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

// openServices builds the progress service over the configured backend.
// A database that cannot be opened is not fatal: progress degrades to an
// unsaved session and a warning goes to stderr.
func openServices(cmd *cobra.Command) (*services, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	svc := &services{cfg: cfg}

	switch cfg.Backend {
	case config.BackendMemory:
		svc.progress = progress.NewService(progress.NewStore(progress.NewMemoryBackend()))

	case config.BackendFile:
		dir := cfg.FileDir
		if dir == "" {
			dbPath, err := resolveDBPath(cfg)
			if err != nil {
				return nil, fmt.Errorf("resolve data directory: %w", err)
			}
			dir = filepath.Dir(dbPath)
		}
		svc.progress = progress.NewService(progress.NewStore(progress.NewFileBackend(dir)))

	default:
		st, err := openStore(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, "warning:", err)
			fmt.Fprintln(os.Stderr, "warning: progress will not be saved")
			svc.progress = progress.NewService(progress.NewStore(nil))
			return svc, nil
		}
		svc.st = st
		svc.events = st.EventRepo()
		svc.progress = progress.NewService(
			progress.NewStore(st.ProgressRepo()),
			progress.WithSessionLog(svc.events),
		)
	}
	return svc, nil
}

func openStore(cfg config.Config) (*store.Store, error) {
	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

// openEventStore opens the SQLite database for commands that only read
// the event log. It fails when another backend is configured.
func openEventStore(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if cfg.Backend != config.BackendSQLite {
		return nil, fmt.Errorf("the event log needs the %s backend (configured: %s)", config.BackendSQLite, cfg.Backend)
	}
	return openStore(cfg)
}

// warnStatus reports a degraded storage operation on stderr.
func warnStatus(op string, st progress.Status) {
	if st.Degraded() {
		fmt.Fprintf(os.Stderr, "warning: %s: %s\n", op, st)
	}
}
