package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"

	"github.com/upkeepcli/upkeep/internal/db"
	"github.com/upkeepcli/upkeep/internal/history"
	"github.com/upkeepcli/upkeep/internal/report"
	"github.com/upkeepcli/upkeep/internal/script"
	"github.com/upkeepcli/upkeep/internal/security"
)

var runCmd = &cobra.Command{
	Use:   "run <script> [args...]",
	Short: "Run a script from the scripts directory",
	Long: "Run an executable from the configured scripts directory.\n" +
		"With --follow, JSON progress events on stdout render live. Example:\n  upkeep run update-system --follow",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		elevate, _ := cmd.Flags().GetBool("elevate")
		useStdin, _ := cmd.Flags().GetBool("stdin")
		follow, _ := cmd.Flags().GetBool("follow")
		quiet, _ := cmd.Flags().GetBool("quiet")
		force, _ := cmd.Flags().GetBool("force")

		name := args[0]
		rest := args[1:]

		if !force {
			if err := security.CheckAllowed(shellquote.Join(append([]string{name}, rest...)...)); err != nil {
				return fmt.Errorf("%w (use --force to override)", err)
			}
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

		opts := script.Options{Elevate: elevate}
		if useStdin {
			opts.Stdin = os.Stdin
		}

		fmt.Printf("-> %s\n", shellquote.Join(append([]string{name}, rest...)...))

		var runErr error
		switch {
		case follow:
			runErr = runner.RunStream(cmd.Context(), name, rest, opts, renderLine)
		case quiet:
			runErr = runner.Run(cmd.Context(), name, rest, opts)
		default:
			var out string
			out, runErr = runner.RunOutput(cmd.Context(), name, rest, opts)
			if out != "" {
				fmt.Print(out)
				if out[len(out)-1] != '\n' {
					fmt.Println()
				}
			}
		}

		if runErr != nil {
			var scriptErr *script.RunError
			if errors.As(runErr, &scriptErr) {
				fmt.Printf("%s %s exited with code %d\n", failStyle.Render("failed:"), name, scriptErr.ExitCode)
				fmt.Println(dimStyle.Render("the failure was reported; see 'upkeep errors'"))
			}
			return runErr
		}
		fmt.Printf("%s %s\n", okStyle.Render("ok:"), name)
		return nil
	},
}

// renderLine prints one streamed output line, decoding progress protocol
// events and passing everything else through untouched.
func renderLine(line string) {
	ev, err := script.ParseEvent(line)
	if err != nil {
		fmt.Println(line)
		return
	}
	switch ev.Type {
	case script.EventStep:
		fmt.Printf("%s %s\n", headStyle.Render(fmt.Sprintf("[%d/%d]", ev.Step, ev.TotalSteps)), ev.StepName)
	case script.EventProgress:
		fmt.Printf("%s %s\n", headStyle.Render(fmt.Sprintf("%3d%%", ev.Percent)), ev.Message)
	case script.EventComplete:
		fmt.Printf("%s %s\n", okStyle.Render("done:"), ev.Message)
	default:
		fmt.Println(ev.Message)
	}
}

func init() {
	runCmd.Flags().Bool("elevate", false, "Run the script through pkexec")
	runCmd.Flags().Bool("stdin", false, "Forward this terminal's stdin to the script")
	runCmd.Flags().Bool("follow", false, "Stream output live and render progress events")
	runCmd.Flags().Bool("quiet", false, "Discard script output")
	runCmd.Flags().Bool("force", false, "Skip the destructive-command check")
	rootCmd.AddCommand(runCmd)
}
