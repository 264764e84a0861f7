package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/musiclab/internal/labs"
	"github.com/abhisek/musiclab/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded lab sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		labFlag, _ := cmd.Flags().GetString("lab")

		opts := store.QueryOpts{Limit: limit}
		if labFlag != "" {
			id, err := labs.Parse(labFlag)
			if err != nil {
				return err
			}
			opts.LabID = id
		}

		s, err := openEventStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		sessions, err := s.EventRepo().QueryLabSessions(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("query sessions: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(sessions) == 0 {
			fmt.Fprintln(out, "No sessions recorded yet.")
			return nil
		}

		fmt.Fprintf(out, "%-5s  %-16s  %-20s  %8s  %8s  %4s\n",
			"Seq", "Started", "Lab", "Duration", "Activity", "XP")
		fmt.Fprintln(out, strings.Repeat("─", 72))
		for _, e := range sessions {
			name := string(e.LabID)
			if l, ok := labs.Lookup(e.LabID); ok {
				name = l.Name
			}
			d := (time.Duration(e.DurationMs) * time.Millisecond).Truncate(time.Second)
			fmt.Fprintf(out, "%-5d  %-16s  %-20s  %8s  %8d  %4d\n",
				e.Sequence, e.StartedAt.Local().Format("2006-01-02 15:04"), name, d, e.ActivityCount, e.XPEarned)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of sessions to show")
	historyCmd.Flags().String("lab", "", "Only show sessions of this lab")
}
