package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/upkeepcli/upkeep/internal/config"
	"github.com/upkeepcli/upkeep/internal/db"
	"github.com/upkeepcli/upkeep/internal/history"
	"github.com/upkeepcli/upkeep/internal/maintenance"
	"github.com/upkeepcli/upkeep/internal/nameutil"
	"github.com/upkeepcli/upkeep/internal/report"
	"github.com/upkeepcli/upkeep/internal/utils"
)

var maintenanceCmd = &cobra.Command{
	Use:     "maintenance",
	Aliases: []string{"maint"},
	Short:   "Run configured maintenance actions",
	Long: "List, run, and record the maintenance command lines kept in the config. Example:\n" +
		"  upkeep maintenance run 1",
}

var maintenanceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured actions",
	RunE: func(cmd *cobra.Command, _ []string) error {
		acts := maintenance.FromConfig(cfg.Maintenance)
		if len(acts) == 0 {
			fmt.Println("no maintenance actions configured; add some with 'upkeep maintenance record'")
			return nil
		}
		for i, a := range acts {
			marker := ""
			if a.Elevate {
				marker = " " + warnStyle.Render("(elevated)")
			}
			fmt.Printf("%2d. %s%s\n", i+1, headStyle.Render(a.Title), marker)
			fmt.Printf("    %s\n", dimStyle.Render(a.Command))
		}
		return nil
	},
}

var maintenanceRunCmd = &cobra.Command{
	Use:   "run <title|index>",
	Short: "Run one action by title or 1-based index",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		acts := maintenance.FromConfig(cfg.Maintenance)
		if len(acts) == 0 {
			return fmt.Errorf("no maintenance actions configured")
		}
		a, err := maintenance.Find(acts, args[0])
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

		mr := &maintenance.Runner{DryRun: cfg.DryRun, Force: force, Reporter: reporter}
		fmt.Printf("-> %s\n", a.Command)
		if err := mr.Run(cmd.Context(), a, os.Stdout, os.Stderr); err != nil {
			return err
		}
		fmt.Printf("%s %s\n", okStyle.Render("ok:"), a.Title)
		return nil
	},
}

var maintenanceRecordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record new actions from typed input",
	Long: "Read command lines from stdin until EOF (Ctrl-D) and save them as maintenance actions.\n" +
		"Blank lines and lines starting with # are skipped.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		title, _ := cmd.Flags().GetString("title")
		elevate, _ := cmd.Flags().GetBool("elevate")

		if title == "" {
			title = utils.Prompt("Title for this action: ")
		}
		title, _ = nameutil.SanitizeTitle(title)
		if title == "" {
			return fmt.Errorf("a non-empty title is required")
		}

		fmt.Println("Enter one command per line; finish with Ctrl-D.")
		cmds, err := maintenance.RecordCommands(os.Stdin)
		if err != nil {
			return err
		}
		if len(cmds) == 0 {
			return fmt.Errorf("no commands entered")
		}

		for i, c := range cmds {
			t := title
			if len(cmds) > 1 {
				t = fmt.Sprintf("%s (%d)", title, i+1)
			}
			cfg.Maintenance = append(cfg.Maintenance, config.MaintenanceAction{Title: t, Command: c, Elevate: elevate})
		}

		path, err := configSavePath()
		if err != nil {
			return err
		}
		if err := config.Save(cfg, path); err != nil {
			return err
		}
		fmt.Printf("recorded %d action(s) to %s\n", len(cmds), path)
		return nil
	},
}

func init() {
	maintenanceRunCmd.Flags().Bool("force", false, "Skip the destructive-command check")
	maintenanceRecordCmd.Flags().String("title", "", "Title for the recorded action")
	maintenanceRecordCmd.Flags().Bool("elevate", false, "Run the recorded command through pkexec")

	maintenanceCmd.AddCommand(maintenanceListCmd, maintenanceRunCmd, maintenanceRecordCmd)
	rootCmd.AddCommand(maintenanceCmd)
}
