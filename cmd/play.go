package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/musiclab/internal/labs"
)

var playCmd = &cobra.Command{
	Use:   "play <lab>",
	Short: "Open a lab directly",
	Long:  "Open a lab directly, skipping the splash. Labs: " + strings.Join(labNames(), ", "),
	Args:  cobra.ExactArgs(1),
	ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return labNames(), cobra.ShellCompDirectiveNoFileComp
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := labs.Parse(args[0])
		if err != nil {
			return err
		}
		return runApp(cmd, id)
	},
}

func labNames() []string {
	ids := labs.IDs()
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}
