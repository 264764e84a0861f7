package cmd

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/musiclab/internal/labs"
	"github.com/abhisek/musiclab/internal/progress"
)

// statsReport is the --json shape of `musiclab stats`.
type statsReport struct {
	Data      progress.UserSessionData `json:"data"`
	Level     progress.LevelProgress   `json:"level"`
	Weekly    progress.WeeklyProgress  `json:"weekly"`
	Suggested labs.ID                  `json:"suggestedLab,omitempty"`
	Storage   string                   `json:"storage"`
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show XP, level, streak and per-lab statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		svc, err := openServices(cmd)
		if err != nil {
			return err
		}
		defer svc.Close()

		ctx := cmd.Context()
		data, status := svc.progress.SessionData(ctx)
		warnStatus("load progress", status)

		report := statsReport{
			Data:    data,
			Level:   progress.LevelProgressFor(data.TotalXP),
			Weekly:  progress.WeeklyProgressFor(data),
			Storage: status.String(),
		}
		report.Suggested, _ = progress.SuggestLab(data, labs.IDs())

		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}
		printStats(cmd, report)
		return nil
	},
}

func printStats(cmd *cobra.Command, r statsReport) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Level %d  (%d XP, %d to next level)\n", r.Level.Level, r.Data.TotalXP, r.Level.XPToNext)
	fmt.Fprintf(out, "Streak: %d day(s)", r.Data.Streak)
	if r.Data.LastActiveDate != "" {
		fmt.Fprintf(out, ", last active %s", r.Data.LastActiveDate)
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Weekly goal: %.1f / %d min (%d%%)\n\n", r.Weekly.Minutes, r.Weekly.Goal, r.Weekly.Percent)

	fmt.Fprintf(out, "%-20s  %8s  %9s  %8s  %6s  %s\n", "Lab", "Sessions", "Time", "Activity", "XP", "Last visit")
	fmt.Fprintln(out, strings.Repeat("─", 72))
	for _, l := range labs.All() {
		st := r.Data.LabStats[l.ID]
		last := "-"
		if t := st.LastVisitTime(); !t.IsZero() {
			last = t.Local().Format("2006-01-02 15:04")
		}
		mark := ""
		if l.ID == r.Suggested {
			mark = " *"
		}
		fmt.Fprintf(out, "%-20s  %8d  %9s  %8d  %6d  %s\n",
			l.Name+mark, st.TotalSessions, (time.Duration(st.TotalTimeMs) * time.Millisecond).Truncate(time.Second),
			st.TotalActivity, st.TotalXP, last)
	}
	if r.Suggested != "" {
		fmt.Fprintln(out, "\n* suggested next")
	}
}

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Print the lab to practice next",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openServices(cmd)
		if err != nil {
			return err
		}
		defer svc.Close()

		id, ok := svc.progress.SuggestedLab(cmd.Context())
		if !ok {
			return errors.New("no labs available")
		}
		l, _ := labs.Lookup(id)
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s %s\n", id, l.Icon, l.Name)
		return nil
	},
}

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record a lab session without opening the TUI",
	Example: "  musiclab record --lab rhythm --duration 5m --activity 20",
	RunE: func(cmd *cobra.Command, args []string) error {
		labFlag, _ := cmd.Flags().GetString("lab")
		duration, _ := cmd.Flags().GetDuration("duration")
		activity, _ := cmd.Flags().GetInt("activity")

		id, err := labs.Parse(labFlag)
		if err != nil {
			return err
		}

		svc, err := openServices(cmd)
		if err != nil {
			return err
		}
		defer svc.Close()

		durationMs := duration.Milliseconds()
		sess := progress.LabSession{
			LabID:         id,
			StartedAt:     time.Now().Add(-duration),
			DurationMs:    durationMs,
			ActivityCount: activity,
			XPEarned:      progress.XPForSession(durationMs, activity),
		}
		res, err := svc.progress.RecordSession(cmd.Context(), sess)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if !res.Admitted {
			fmt.Fprintln(out, "Session too short to count; nothing recorded.")
			return nil
		}
		warnStatus("save progress", res.SaveStatus)
		if res.LogErr != nil {
			fmt.Fprintln(os.Stderr, "warning:", res.LogErr)
		}

		l, _ := labs.Lookup(id)
		fmt.Fprintf(out, "Recorded %s in %s: +%d XP (total %d, level %d, streak %d)\n",
			duration, l.Name, sess.XPEarned, res.Data.TotalXP, res.Data.Level, res.Data.Streak)
		if res.LeveledUp() {
			fmt.Fprintf(out, "Level up! You reached level %d.\n", res.Data.Level)
		}
		return nil
	},
}

var goalCmd = &cobra.Command{
	Use:   "goal [minutes]",
	Short: "Show or set the weekly practice goal",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openServices(cmd)
		if err != nil {
			return err
		}
		defer svc.Close()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		if len(args) == 0 {
			wp := svc.progress.WeeklyProgress(ctx)
			fmt.Fprintf(out, "Weekly goal: %.1f / %d min (%d%%)\n", wp.Minutes, wp.Goal, wp.Percent)
			return nil
		}

		minutes, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("%w: %q is not a number", progress.ErrInvalidGoal, args[0])
		}
		status, err := svc.progress.SetWeeklyGoal(ctx, minutes)
		if err != nil {
			return err
		}
		warnStatus("save progress", status)
		fmt.Fprintf(out, "Weekly goal set to %d minutes.\n", minutes)
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Erase all progress",
	Long:  "Erase XP, level, streak, weekly goal and lab statistics. The session history is kept.",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes && !confirm(cmd, "Erase all Music Lab progress? [y/N] ") {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
			return nil
		}

		svc, err := openServices(cmd)
		if err != nil {
			return err
		}
		defer svc.Close()

		status := svc.progress.Reset(cmd.Context())
		if status.Degraded() {
			return fmt.Errorf("reset progress: %s", status)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Progress reset.")
		return nil
	},
}

func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func init() {
	statsCmd.Flags().Bool("json", false, "Print machine-readable JSON")

	recordCmd.Flags().String("lab", "", "Lab id ("+strings.Join(labNames(), ", ")+")")
	recordCmd.Flags().Duration("duration", 0, "Time spent in the lab, e.g. 90s or 5m")
	recordCmd.Flags().Int("activity", 0, "Number of interactions")
	_ = recordCmd.MarkFlagRequired("lab")

	resetCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}
