package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/abhisek/musiclab/internal/llm"
	"github.com/abhisek/musiclab/internal/store"
)

const timeLayout = "2006-01-02 15:04:05"

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the coach's LLM requests",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		s, err := openEventStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit, Purpose: purpose})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No LLM events found.")
			return nil
		}

		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTIME\tPURPOSE\tMODEL\tIN\tOUT\tMS\tOK")
		for _, e := range events {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
				e.ID, e.Timestamp.Local().Format(timeLayout), e.Purpose, truncate(e.Model, 28),
				e.InputTokens, e.OutputTokens, e.LatencyMs, mark(e.Success))
		}
		return tw.Flush()
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the full request and response of one LLM event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q", args[0])
		}

		s, err := openEventStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("event %d not found", id)
		}
		printLLMEvent(cmd.OutOrStdout(), e)
		return nil
	},
}

func printLLMEvent(w io.Writer, e *store.LLMRequestEvent) {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%d\n", e.ID)
	fmt.Fprintf(tw, "Time:\t%s\n", e.Timestamp.Local().Format(timeLayout))
	fmt.Fprintf(tw, "Provider:\t%s\n", e.Provider)
	fmt.Fprintf(tw, "Model:\t%s\n", e.Model)
	fmt.Fprintf(tw, "Purpose:\t%s\n", e.Purpose)
	fmt.Fprintf(tw, "Tokens:\t%d in / %d out\n", e.InputTokens, e.OutputTokens)
	fmt.Fprintf(tw, "Latency:\t%dms\n", e.LatencyMs)
	fmt.Fprintf(tw, "Success:\t%s\n", mark(e.Success))
	if e.ErrorMessage != "" {
		fmt.Fprintf(tw, "Error:\t%s\n", e.ErrorMessage)
	}
	_ = tw.Flush()

	for _, part := range []struct{ title, body string }{
		{"REQUEST", e.RequestBody},
		{"RESPONSE", e.ResponseBody},
	} {
		body := part.body
		if body == "" {
			body = "(not captured)"
		}
		fmt.Fprintf(w, "\n── %s %s\n%s\n", part.title, strings.Repeat("─", 50), strings.TrimRight(body, "\n"))
	}
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage per purpose and estimated cost per model",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openEventStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		repo := s.EventRepo()
		byPurpose, err := repo.LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(byPurpose) == 0 {
			fmt.Fprintln(out, "No LLM usage recorded yet.")
			return nil
		}
		byModel, err := repo.LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}

		printPurposeUsage(out, byPurpose)
		fmt.Fprintln(out)
		printModelCost(out, byModel)
		return nil
	},
}

func printPurposeUsage(w io.Writer, rows []store.LLMUsage) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "PURPOSE\tCALLS\tIN\tOUT\tTOTAL\tAVG MS\t")
	var total store.LLMUsage
	for _, u := range rows {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t\n",
			u.Key, u.Calls, u.InputTokens, u.OutputTokens, u.InputTokens+u.OutputTokens, u.AvgLatencyMs)
		total.Calls += u.Calls
		total.InputTokens += u.InputTokens
		total.OutputTokens += u.OutputTokens
	}
	fmt.Fprintf(tw, "TOTAL\t%d\t%d\t%d\t%d\t\t\n",
		total.Calls, total.InputTokens, total.OutputTokens, total.InputTokens+total.OutputTokens)
	_ = tw.Flush()
}

// printModelCost prices each model from the built-in table. Models
// without a price make the total partial.
func printModelCost(w io.Writer, rows []store.LLMUsage) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "MODEL\tCALLS\tIN\tOUT\tCOST\t")
	var sum float64
	var unpriced []string
	for _, u := range rows {
		cost := "?"
		if p := llm.LookupCost(u.Key); p != nil {
			c := p.Cost(u.InputTokens, u.OutputTokens)
			sum += c
			cost = formatCost(c)
		} else {
			unpriced = append(unpriced, u.Key)
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\t\n", truncate(u.Key, 32), u.Calls, u.InputTokens, u.OutputTokens, cost)
	}
	label := "TOTAL"
	if len(unpriced) > 0 {
		label = "TOTAL (partial)"
	}
	fmt.Fprintf(tw, "%s\t\t\t\t%s\t\n", label, formatCost(sum))
	_ = tw.Flush()

	if len(unpriced) > 0 {
		fmt.Fprintf(w, "\nPricing unavailable for: %s\n", strings.Join(unpriced, ", "))
	}
}

func mark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only show one purpose (e.g. coach-tip)")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}
