package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/upkeepcli/upkeep/internal/flatpak"
	"github.com/upkeepcli/upkeep/internal/nameutil"
)

var appsCmd = &cobra.Command{
	Use:   "apps",
	Short: "List installed Flatpak applications",
	Long:  "List Flatpak applications from the user and system installations. Example:\n  upkeep apps --system",
	RunE: func(cmd *cobra.Command, _ []string) error {
		userOnly, _ := cmd.Flags().GetBool("user")
		systemOnly, _ := cmd.Flags().GetBool("system")
		filter, _ := cmd.Flags().GetString("filter")

		fp := flatpak.New("flatpak")
		if !fp.Available() {
			return fmt.Errorf("flatpak executable not found in PATH")
		}
		apps, err := fp.Installed(cmd.Context())
		if err != nil {
			return err
		}

		shown := 0
		for _, a := range apps {
			if userOnly && a.System {
				continue
			}
			if systemOnly && !a.System {
				continue
			}
			if filter != "" && !nameutil.FuzzyMatch(a.Name, filter) && !nameutil.FuzzyMatch(a.ID, filter) {
				continue
			}
			scope := ""
			if a.System {
				scope = " " + dimStyle.Render("(system)")
			}
			fmt.Printf("- %s %s %s%s\n", headStyle.Render(a.Name), dimStyle.Render(a.ID), a.Version, scope)
			shown++
		}
		if shown == 0 {
			fmt.Println("no applications matched")
		}
		return nil
	},
}

func init() {
	appsCmd.Flags().Bool("user", false, "Only the per-user installation")
	appsCmd.Flags().Bool("system", false, "Only the system installation")
	appsCmd.Flags().String("filter", "", "Fuzzy-filter by name or application id")
	rootCmd.AddCommand(appsCmd)
}
