package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/musiclab/internal/coach"
)

var coachCmd = &cobra.Command{
	Use:   "coach",
	Short: "Ask the coach what to practice next",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openServices(cmd)
		if err != nil {
			return err
		}
		defer svc.Close()

		ctx := cmd.Context()
		data, status := svc.progress.SessionData(ctx)
		warnStatus("load progress", status)

		tip := newCoach(cmd, svc.events, false).Tip(ctx, data)
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, tip.Text)
		if tip.Source == coach.SourceFallback && tip.Err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: coach fell back to catalog tips: %v\n", tip.Err)
		}
		return nil
	},
}
