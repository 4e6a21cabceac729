package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/upkeepcli/upkeep/internal/config"
	"github.com/upkeepcli/upkeep/internal/db"
	"github.com/upkeepcli/upkeep/internal/flatpak"
	"github.com/upkeepcli/upkeep/internal/history"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration, collaborators, and history totals",
	RunE: func(cmd *cobra.Command, _ []string) error {
		fmt.Printf("upkeep status:\n")

		origin := cfgOrigin
		if origin == "" {
			origin = "built-in defaults"
		}
		fmt.Printf("- Config: %s\n", origin)
		fmt.Printf("- Dry-run: %v\n", cfg.DryRun)
		if cfg.ScriptsDir != "" {
			fmt.Printf("- Scripts dir: %s\n", cfg.ScriptsDir)
		} else {
			fmt.Printf("- Scripts dir: not configured\n")
		}

		if dbPath, err := config.DBPath(); err == nil {
			fmt.Printf("- History db: %s\n", dbPath)
		}

		c := newBrewClient()
		if c.Available() {
			if v, err := c.Version(cmd.Context()); err == nil {
				fmt.Printf("- Homebrew: %s\n", v)
			} else {
				fmt.Printf("- Homebrew: present (version check failed: %v)\n", err)
			}
		} else {
			fmt.Printf("- Homebrew: not found (expected: %s)\n", cfg.Brew.Path)
		}
		fmt.Printf("- Flatpak: %v\n", flatpak.New("flatpak").Available())

		dbConn, err := db.InitDB()
		if err != nil {
			return err
		}
		defer func() { _ = dbConn.Close() }()

		st, err := history.NewStore(dbConn).Stats()
		if err != nil {
			return err
		}
		fmt.Printf("- Runs recorded: %d (%d failed)\n", st.Runs, st.Failed)
		fmt.Printf("- Failures reported: %d\n", st.Errors)
		if st.HasRuns {
			fmt.Printf("- Last run: %s\n", st.LastRun.Local().Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
