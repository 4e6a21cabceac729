package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/upkeepcli/upkeep/internal/actions"
	"github.com/upkeepcli/upkeep/internal/bundle"
	"github.com/upkeepcli/upkeep/internal/db"
	"github.com/upkeepcli/upkeep/internal/history"
	"github.com/upkeepcli/upkeep/internal/report"
	"github.com/upkeepcli/upkeep/internal/script"
)

var bundleCmd = &cobra.Command{
	Use:   "bundle",
	Short: "Work with Brewfile bundles",
	Long:  "Discover, inspect, and install the Brewfiles found in the configured bundle directories.",
}

var bundleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List discovered bundles",
	RunE: func(cmd *cobra.Command, _ []string) error {
		bundles, err := bundle.Discover(cfg.BundleDirs)
		if err != nil {
			return err
		}
		if len(bundles) == 0 {
			fmt.Println("no bundles found; set bundle_dirs in the config")
			return nil
		}
		for _, b := range bundles {
			fmt.Printf("- %s %s\n", headStyle.Render(b.Name), dimStyle.Render(fmt.Sprintf("(%d entries)", b.Entries())))
			if b.Description != "" {
				fmt.Printf("  %s\n", b.Description)
			}
		}
		return nil
	},
}

var bundleShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a bundle's Brewfile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bundles, err := bundle.Discover(cfg.BundleDirs)
		if err != nil {
			return err
		}
		b, ok := bundle.Find(bundles, args[0])
		if !ok {
			return fmt.Errorf("no bundle named %q", args[0])
		}
		data, err := os.ReadFile(b.Path)
		if err != nil {
			return err
		}
		fmt.Printf("%s %s\n", headStyle.Render(b.Name), dimStyle.Render(b.Path))
		fmt.Print(string(data))
		return nil
	},
}

var bundleInstallCmd = &cobra.Command{
	Use:   "install <name>...",
	Short: "Install one or more bundles",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bundles, err := bundle.Discover(cfg.BundleDirs)
		if err != nil {
			return err
		}

		dbConn, err := db.InitDB()
		if err != nil {
			return err
		}
		defer func() { _ = dbConn.Close() }()

		store := history.NewStore(dbConn)
		reporter := report.NewLog()
		reporter.Subscribe(store.RecordError)

		runner := script.New(cfg.ScriptsDir, cfg.DryRun, reporter)
		runner.History = store

		reg := actions.NewRegistry(actions.NewDispatcher(runner, newBrewClient(), reporter))
		failed := 0
		reg.SubscribeProgress(func(kind actions.Kind, uid string, state actions.State, info map[string]string) {
			renderProgress(kind, uid, state, info)
			if state == actions.StateFailed {
				failed++
			}
		})

		for _, name := range args {
			b, ok := bundle.Find(bundles, name)
			if !ok {
				return fmt.Errorf("no bundle named %q", name)
			}
			reg.Defer(actions.Op{Kind: actions.KindInstallBundle, Target: b.Path, Name: b.Name})
		}

		reg.StartAll(cmd.Context())
		if failed > 0 {
			return fmt.Errorf("%d of %d bundles failed", failed, len(args))
		}
		return nil
	},
}

func init() {
	bundleCmd.AddCommand(bundleListCmd, bundleShowCmd, bundleInstallCmd)
	rootCmd.AddCommand(bundleCmd)
}
