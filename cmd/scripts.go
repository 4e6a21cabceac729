package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var scriptsCmd = &cobra.Command{
	Use:   "scripts",
	Short: "List runnable scripts",
	Long:  "List the executables in the configured scripts directory. Example:\n  upkeep scripts",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if cfg.ScriptsDir == "" {
			fmt.Println("no scripts directory configured; set scripts_dir in the config")
			return nil
		}
		entries, err := os.ReadDir(cfg.ScriptsDir)
		if err != nil {
			if os.IsNotExist(err) {
				fmt.Printf("scripts directory %s does not exist\n", cfg.ScriptsDir)
				return nil
			}
			return err
		}

		count := 0
		for _, e := range entries {
			if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
				continue
			}
			info, err := e.Info()
			if err != nil {
				continue
			}
			if info.Mode()&0o111 == 0 {
				fmt.Printf("- %s %s\n", e.Name(), dimStyle.Render("(not executable)"))
				continue
			}
			fmt.Printf("- %s\n", e.Name())
			count++
		}
		if count == 0 {
			fmt.Printf("no runnable scripts in %s\n", cfg.ScriptsDir)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scriptsCmd)
}
