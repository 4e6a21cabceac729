package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/upkeepcli/upkeep/internal/sysinfo"
	"github.com/upkeepcli/upkeep/internal/version"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show host and release information",
	Long:  "Show the running distribution, kernel, and the published update manifest if one is configured.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		osr, err := sysinfo.LoadHost()
		if err != nil {
			fmt.Println(warnStyle.Render(fmt.Sprintf("could not read os-release: %v", err)))
		} else {
			pretty := osr["PRETTY_NAME"]
			if pretty == "" {
				pretty = osr["NAME"] + " " + osr["VERSION"]
			}
			fmt.Println(headStyle.Render(pretty))
			if v := osr["VARIANT_ID"]; v != "" {
				fmt.Printf("- variant: %s\n", sysinfo.Title(v))
			}
		}
		if k := sysinfo.Kernel(); k != "" {
			fmt.Printf("- kernel: %s\n", k)
		}
		fmt.Printf("- upkeep: %s\n", version.Version)

		m, err := sysinfo.FetchManifest(cmd.Context(), cfg.ManifestURL)
		if err != nil {
			fmt.Println(warnStyle.Render(fmt.Sprintf("could not fetch the update manifest: %v", err)))
			return nil
		}
		if m == nil {
			fmt.Println(dimStyle.Render("- no update manifest published"))
			return nil
		}
		fmt.Printf("- latest release: %s (%s)\n", headStyle.Render(m.Version), m.Date)
		for _, c := range m.Changes {
			fmt.Printf("  * %s\n", c)
		}
		if m.URL != "" {
			fmt.Printf("  %s\n", dimStyle.Render(m.URL))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
