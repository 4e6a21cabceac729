package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/upkeepcli/upkeep/internal/actions"
	"github.com/upkeepcli/upkeep/internal/brew"
	"github.com/upkeepcli/upkeep/internal/bundle"
	"github.com/upkeepcli/upkeep/internal/db"
	"github.com/upkeepcli/upkeep/internal/history"
	"github.com/upkeepcli/upkeep/internal/report"
	"github.com/upkeepcli/upkeep/internal/script"
)

var installCmd = &cobra.Command{
	Use:   "install <target>...",
	Short: "Queue package installs and run them",
	Long: "Install packages through the deferred action queue.\n" +
		"Targets take the form flatpak:<app-id>, brew:<formula>, cask:<token>, or bundle:<name>. Example:\n" +
		"  upkeep install flatpak:org.gnome.Calculator brew:htop",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deferOnly, _ := cmd.Flags().GetBool("defer-only")

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
		brewClient := brew.New(cfg.Brew.Path, cfg.Brew.SearchAPI, cfg.DryRun)

		reg := actions.NewRegistry(actions.NewDispatcher(runner, brewClient, reporter))
		failed := 0
		reg.SubscribeProgress(func(kind actions.Kind, uid string, state actions.State, info map[string]string) {
			renderProgress(kind, uid, state, info)
			if state == actions.StateFailed {
				failed++
			}
		})

		var bundles []bundle.Bundle
		for _, t := range args {
			if strings.HasPrefix(t, "bundle:") {
				if bundles, err = bundle.Discover(cfg.BundleDirs); err != nil {
					return err
				}
				break
			}
		}

		for _, t := range args {
			op, err := parseTarget(t, bundles)
			if err != nil {
				return err
			}
			reg.Defer(op)
		}

		if deferOnly {
			fmt.Printf("%d actions queued\n", len(reg.Pending()))
			return nil
		}

		reg.StartAll(cmd.Context())
		if failed > 0 {
			return fmt.Errorf("%d of %d actions failed", failed, len(args))
		}
		return nil
	},
}

// parseTarget turns a scheme-prefixed CLI target into a deferred op.
func parseTarget(target string, bundles []bundle.Bundle) (actions.Op, error) {
	scheme, value, ok := strings.Cut(target, ":")
	if !ok || value == "" {
		return actions.Op{}, fmt.Errorf("invalid target %q: want <scheme>:<value>", target)
	}
	switch scheme {
	case "flatpak":
		return actions.Op{Kind: actions.KindInstallFlatpak, Target: value, Name: value}, nil
	case "brew":
		return actions.Op{Kind: actions.KindInstallFormula, Target: value}, nil
	case "cask":
		return actions.Op{Kind: actions.KindInstallFormula, Target: value, Cask: true}, nil
	case "bundle":
		b, ok := bundle.Find(bundles, value)
		if !ok {
			return actions.Op{}, fmt.Errorf("no bundle named %q in the configured bundle directories", value)
		}
		return actions.Op{Kind: actions.KindInstallBundle, Target: b.Path, Name: b.Name}, nil
	}
	return actions.Op{}, fmt.Errorf("unknown target scheme %q", scheme)
}

// renderProgress prints one progress broadcast from the action registry.
func renderProgress(kind actions.Kind, uid string, state actions.State, info map[string]string) {
	if uid == actions.AllActions {
		if state == actions.StateFinished {
			fmt.Println(okStyle.Render("all actions processed"))
		}
		return
	}
	label := uid
	switch kind {
	case actions.KindInstallFlatpak:
		if v := info["app_name"]; v != "" {
			label = v
		}
	case actions.KindInstallFormula:
		if v := info["formula"]; v != "" {
			label = v
		}
	case actions.KindInstallBundle:
		if v := info["bundle"]; v != "" {
			label = v
		}
	}
	switch state {
	case actions.StateInitialized:
		fmt.Printf("%s %s\n", dimStyle.Render("queued"), label)
	case actions.StateRunning:
		fmt.Printf("%s %s\n", headStyle.Render("running"), label)
	case actions.StateFinished:
		fmt.Printf("%s %s\n", okStyle.Render("done"), label)
	case actions.StateFailed:
		fmt.Printf("%s %s\n", failStyle.Render("failed"), label)
	}
}

func init() {
	installCmd.Flags().Bool("defer-only", false, "Queue the actions without running them")
	rootCmd.AddCommand(installCmd)
}
