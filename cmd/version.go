package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/upkeepcli/upkeep/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the upkeep version",
	RunE: func(cmd *cobra.Command, _ []string) error {
		fmt.Printf("upkeep %s\n", version.Version)

		check, _ := cmd.Flags().GetBool("check")
		if !check {
			return nil
		}
		res, err := version.CheckLatest()
		if err != nil {
			return fmt.Errorf("check for updates: %w", err)
		}
		if res.Outdated {
			fmt.Printf("%s %s is available (you have %s)\n", warnStyle.Render("update:"), res.Latest, res.Current)
		} else {
			fmt.Println(okStyle.Render("you are on the latest release"))
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().Bool("check", false, "Check GitHub for a newer release")
	rootCmd.AddCommand(versionCmd)
}
