package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/upkeepcli/upkeep/internal/db"
	"github.com/upkeepcli/upkeep/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history [script]",
	Short: "Show recorded script runs",
	Long: "Show recorded runs, newest first, optionally for a single script. Example:\n" +
		"  upkeep history update-system --failed",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		failedOnly, _ := cmd.Flags().GetBool("failed")

		scriptName := ""
		if len(args) == 1 {
			scriptName = args[0]
		}

		dbConn, err := db.InitDB()
		if err != nil {
			return err
		}
		defer func() { _ = dbConn.Close() }()

		runs, err := history.NewStore(dbConn).ListRuns(scriptName, limit, failedOnly)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("no runs recorded")
			return nil
		}
		for _, r := range runs {
			status := okStyle.Render("ok")
			if !r.OK {
				status = failStyle.Render(fmt.Sprintf("exit %d", r.ExitCode))
			}
			line := fmt.Sprintf("%s  %-24s %s", dimStyle.Render(r.StartedAt.Local().Format("2006-01-02 15:04:05")), r.Script, status)
			if r.DryRun {
				line += " " + dimStyle.Render("(dry-run)")
			}
			if r.Elevated {
				line += " " + warnStyle.Render("(elevated)")
			}
			if r.Args != "" {
				line += " " + dimStyle.Render(r.Args)
			}
			fmt.Println(line)
		}
		return nil
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export <path>",
	Short: "Snapshot the history database to a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dbConn, err := db.InitDB()
		if err != nil {
			return err
		}
		defer func() { _ = dbConn.Close() }()

		if err := history.NewStore(dbConn).ExportTo(args[0]); err != nil {
			return err
		}
		fmt.Printf("%s %s\n", okStyle.Render("exported:"), args[0])
		return nil
	},
}

var historyImportCmd = &cobra.Command{
	Use:   "import <path>",
	Short: "Merge runs and errors from an exported snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dbConn, err := db.InitDB()
		if err != nil {
			return err
		}
		defer func() { _ = dbConn.Close() }()

		runs, errs, err := history.NewStore(dbConn).ImportFrom(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s %d runs, %d errors\n", okStyle.Render("imported:"), runs, errs)
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Maximum runs to show")
	historyCmd.Flags().Bool("failed", false, "Only failed runs")
	historyCmd.AddCommand(historyExportCmd, historyImportCmd)
	rootCmd.AddCommand(historyCmd)
}
