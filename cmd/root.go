package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/upkeepcli/upkeep/internal/config"
	"github.com/upkeepcli/upkeep/internal/logging"
)

// cfg and cfgOrigin are resolved by the persistent pre-run before any
// RunE executes; commands read them instead of loading their own copy.
var (
	cfg       *config.Config
	cfgOrigin string
)

var rootCmd = &cobra.Command{
	Use:   "upkeep",
	Short: "upkeep maintains a Linux desktop from one place",
	Long:  "upkeep runs maintenance scripts, queues package installs, and keeps a history of what it did",
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		path, _ := cmd.Flags().GetString("config")
		loaded, origin, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg, cfgOrigin = loaded, origin
		if cmd.Flags().Changed("dry-run") {
			cfg.DryRun, _ = cmd.Flags().GetBool("dry-run")
		}
		verbose, _ := cmd.Flags().GetBool("verbose")
		slog.SetDefault(logging.New(verbose))
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("upkeep: run 'upkeep --help' to see available commands")
	},
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// configSavePath picks where recorded actions and config edits land:
// the loaded config file when it is user-writable, the per-user config
// otherwise.
func configSavePath() (string, error) {
	if cfgOrigin != "" && !strings.HasPrefix(cfgOrigin, "/etc/") && !strings.HasPrefix(cfgOrigin, "/usr/") {
		return cfgOrigin, nil
	}
	return config.UserConfigPath()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a config file")
	rootCmd.PersistentFlags().Bool("dry-run", true, "Log state-changing commands instead of running them")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")
}
