package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/upkeepcli/upkeep/internal/db"
	"github.com/upkeepcli/upkeep/internal/history"
)

var errorsCmd = &cobra.Command{
	Use:   "errors",
	Short: "Show reported failures",
	Long:  "Show the most recent failure reports, newest first. Example:\n  upkeep errors --limit 5",
	RunE: func(cmd *cobra.Command, _ []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		dbConn, err := db.InitDB()
		if err != nil {
			return err
		}
		defer func() { _ = dbConn.Close() }()

		entries, err := history.NewStore(dbConn).ListErrors(limit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println(okStyle.Render("no failures reported"))
			return nil
		}
		for _, e := range entries {
			first, _, _ := strings.Cut(e.Message, "\n")
			fmt.Printf("%4d  %s  %s  %s\n", e.ID,
				dimStyle.Render(e.CreatedAt.Local().Format("2006-01-02 15:04:05")),
				headStyle.Render(e.Script), first)
		}
		return nil
	},
}

var errorsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one failure report in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q", args[0])
		}

		dbConn, err := db.InitDB()
		if err != nil {
			return err
		}
		defer func() { _ = dbConn.Close() }()

		e, err := history.NewStore(dbConn).GetError(id)
		if err != nil {
			return err
		}
		fmt.Printf("%s %s\n", headStyle.Render(e.Script), dimStyle.Render(e.CreatedAt.Local().Format("2006-01-02 15:04:05")))
		if e.Command != "" {
			fmt.Printf("- command: %s\n", e.Command)
		}
		fmt.Println(e.Message)
		return nil
	},
}

func init() {
	errorsCmd.Flags().Int("limit", 20, "Maximum entries to show")
	errorsCmd.AddCommand(errorsShowCmd)
	rootCmd.AddCommand(errorsCmd)
}
