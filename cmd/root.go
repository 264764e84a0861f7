package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "musiclab",
	Short: "Music playground for the terminal",
	Long: "Music Lab is a terminal playground with six interactive labs (rhythm, pitch, sound design,\n" +
		"patterns, harmony, free play) that tracks XP, levels, a daily streak and a weekly goal.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, "")
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides MUSICLAB_DB env var)")
	rootCmd.PersistentFlags().String("backend", "", "Progress storage: sqlite, file or memory (overrides MUSICLAB_BACKEND)")
	rootCmd.Flags().Bool("no-splash", false, "Skip the splash animation")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(goalCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(coachCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}
