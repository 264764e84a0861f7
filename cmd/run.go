package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/musiclab/internal/app"
	"github.com/abhisek/musiclab/internal/coach"
	"github.com/abhisek/musiclab/internal/labs"
	"github.com/abhisek/musiclab/internal/llm"
	"github.com/abhisek/musiclab/internal/store"
)

// runApp opens storage, builds the coach, and launches the TUI.
func runApp(cmd *cobra.Command, startLab labs.ID) error {
	svc, err := openServices(cmd)
	if err != nil {
		return err
	}
	defer svc.Close()

	noSplash, _ := cmd.Flags().GetBool("no-splash")
	opts := app.Options{
		Progress: svc.progress,
		Events:   svc.events,
		Coach:    newCoach(cmd, svc.events, true),
		NoSplash: noSplash || svc.cfg.NoSplash,
		StartLab: startLab,
	}
	return app.Run(opts)
}

// newCoach builds a coach over the configured LLM provider. Without one
// the coach still works and serves catalog tips.
func newCoach(cmd *cobra.Command, events store.EventRepo, quiet bool) *coach.Coach {
	provider, err := newProvider(cmd, events)
	if err != nil && !quiet {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Coach tips will come from the lab catalog.")
	}
	return coach.New(provider, coach.DefaultConfig())
}

// newProvider prefers an explicit MUSICLAB_LLM_PROVIDER and otherwise
// looks for a vendor API key in the environment.
func newProvider(cmd *cobra.Command, events store.EventRepo) (llm.Provider, error) {
	var cfg llm.Config
	if os.Getenv(llm.EnvPrefix+"LLM_PROVIDER") != "" {
		c, err := llm.ConfigFromEnv()
		if err != nil {
			return nil, err
		}
		cfg = c
	} else {
		c, ok := llm.DiscoverConfig()
		if !ok {
			return nil, fmt.Errorf("no API key found (set %sLLM_PROVIDER or a vendor *_API_KEY)", llm.EnvPrefix)
		}
		cfg = c
	}
	return llm.NewProvider(cmd.Context(), cfg, events)
}
