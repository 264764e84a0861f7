package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/abhisek/musiclab/internal/selfupdate"
	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update musiclab to the latest version",
	RunE: func(cmd *cobra.Command, args []string) error {
		checkOnly, _ := cmd.Flags().GetBool("check")
		checker := selfupdate.NewChecker(selfupdate.WithTimeout(2 * time.Minute))

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		if checkOnly {
			res, err := checker.Check(ctx, &selfupdate.CheckInput{Version: buildVersion()})
			if err != nil {
				return fmt.Errorf("check for updates: %w", err)
			}
			if res.UpdateAvailable {
				fmt.Printf("musiclab %s is available (running %s): %s\n", res.LatestVersion, buildVersion(), res.ReleaseURL)
			} else {
				fmt.Printf("musiclab %s is the latest release.\n", res.LatestVersion)
			}
			return nil
		}

		err := checker.Update(ctx, &selfupdate.UpdateInput{
			CurrentVersion: buildVersion(),
		}, func(p selfupdate.UpdateProgress) {
			fmt.Println(p.Message)
		})

		if err == nil {
			return nil
		}

		if errors.Is(err, selfupdate.ErrDevBuild) {
			fmt.Println("Cannot update a development build. Install a release build first.")
			return nil
		}
		if errors.Is(err, selfupdate.ErrAlreadyLatest) {
			fmt.Println("Already running the latest version.")
			return nil
		}
		if os.IsPermission(err) {
			return fmt.Errorf("%w\n\nTry running: sudo musiclab update", err)
		}

		return err
	},
}

func init() {
	updateCmd.Flags().Bool("check", false, "Only report whether a newer release exists")
}
