package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/upkeepcli/upkeep/internal/brew"
	"github.com/upkeepcli/upkeep/internal/nameutil"
	"github.com/upkeepcli/upkeep/internal/utils"
)

var brewCmd = &cobra.Command{
	Use:   "brew",
	Short: "Manage Homebrew packages",
	Long:  "Query and manage Homebrew formulae and casks. Example:\n  upkeep brew list --filter edit",
}

// newBrewClient builds the client from the loaded configuration.
func newBrewClient() *brew.Client {
	return brew.New(cfg.Brew.Path, cfg.Brew.SearchAPI, cfg.DryRun)
}

// requireBrew rejects commands that shell out when no brew executable is
// reachable. Search stays usable without one; it only talks HTTP.
func requireBrew(c *brew.Client) error {
	if !c.Available() {
		return fmt.Errorf("brew executable not found (looked for %q); set brew.path in the config", cfg.Brew.Path)
	}
	return nil
}

func renderPackage(p brew.Package) {
	name := p.Name
	if p.Cask {
		name += " " + dimStyle.Render("(cask)")
	}
	if p.Pinned {
		name += " " + warnStyle.Render("(pinned)")
	}
	line := fmt.Sprintf("- %s %s", name, p.Version)
	if p.Outdated && p.Current != "" {
		line = fmt.Sprintf("- %s %s %s %s", name, p.Version, dimStyle.Render("->"), p.Current)
	}
	fmt.Println(line)
}

var brewListCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed packages",
	RunE: func(cmd *cobra.Command, _ []string) error {
		filter, _ := cmd.Flags().GetString("filter")

		c := newBrewClient()
		if err := requireBrew(c); err != nil {
			return err
		}
		pkgs, err := c.Installed(cmd.Context())
		if err != nil {
			return err
		}
		shown := 0
		for _, p := range pkgs {
			if filter != "" && !nameutil.FuzzyMatch(p.Name, filter) && !nameutil.FuzzyMatch(p.Description, filter) {
				continue
			}
			renderPackage(p)
			shown++
		}
		if shown == 0 {
			fmt.Println("no packages matched")
		}
		return nil
	},
}

var brewOutdatedCmd = &cobra.Command{
	Use:   "outdated",
	Short: "List packages with a newer version available",
	RunE: func(cmd *cobra.Command, _ []string) error {
		c := newBrewClient()
		if err := requireBrew(c); err != nil {
			return err
		}
		pkgs, err := c.Outdated(cmd.Context())
		if err != nil {
			return err
		}
		if len(pkgs) == 0 {
			fmt.Println(okStyle.Render("everything is up to date"))
			return nil
		}
		for _, p := range pkgs {
			renderPackage(p)
		}
		return nil
	},
}

var brewSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the formula index",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pkgs, err := newBrewClient().Search(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if len(pkgs) == 0 {
			fmt.Printf("nothing matched %q\n", args[0])
			return nil
		}
		for _, p := range pkgs {
			fmt.Printf("- %s %s\n", headStyle.Render(p.Name), p.Version)
			if p.Description != "" {
				fmt.Printf("  %s\n", dimStyle.Render(p.Description))
			}
		}
		return nil
	},
}

var brewInfoCmd = &cobra.Command{
	Use:   "info <name>",
	Short: "Show details for one package",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newBrewClient()
		if err := requireBrew(c); err != nil {
			return err
		}
		p, err := c.Info(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s %s\n", headStyle.Render(p.Name), p.Version)
		if p.Description != "" {
			fmt.Printf("- %s\n", p.Description)
		}
		if p.Homepage != "" {
			fmt.Printf("- homepage: %s\n", p.Homepage)
		}
		fmt.Printf("- cask: %v\n", p.Cask)
		if p.Pinned {
			fmt.Printf("- pinned: %v\n", p.Pinned)
		}
		return nil
	},
}

var brewUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Refresh the package index",
	RunE: func(cmd *cobra.Command, _ []string) error {
		c := newBrewClient()
		if err := requireBrew(c); err != nil {
			return err
		}
		if err := c.Update(cmd.Context()); err != nil {
			return err
		}
		fmt.Println(okStyle.Render("index updated"))
		return nil
	},
}

var brewUpgradeCmd = &cobra.Command{
	Use:   "upgrade [name]",
	Short: "Upgrade one package, or everything",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newBrewClient()
		if err := requireBrew(c); err != nil {
			return err
		}
		name := ""
		if len(args) == 1 {
			name = args[0]
		}
		if err := c.Upgrade(cmd.Context(), name); err != nil {
			return err
		}
		fmt.Println(okStyle.Render("upgrade finished"))
		return nil
	},
}

var brewInstallCmd = &cobra.Command{
	Use:   "install <name>",
	Short: "Install a formula or cask",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cask, _ := cmd.Flags().GetBool("cask")
		c := newBrewClient()
		if err := requireBrew(c); err != nil {
			return err
		}
		if err := c.Install(cmd.Context(), args[0], cask); err != nil {
			return err
		}
		fmt.Printf("%s %s\n", okStyle.Render("installed:"), args[0])
		return nil
	},
}

var brewUninstallCmd = &cobra.Command{
	Use:   "uninstall <name>",
	Short: "Uninstall a formula or cask",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cask, _ := cmd.Flags().GetBool("cask")
		yes, _ := cmd.Flags().GetBool("yes")
		c := newBrewClient()
		if err := requireBrew(c); err != nil {
			return err
		}
		if !yes && !utils.Confirm(fmt.Sprintf("Uninstall %s?", args[0])) {
			fmt.Println("aborted")
			return nil
		}
		if err := c.Uninstall(cmd.Context(), args[0], cask); err != nil {
			return err
		}
		fmt.Printf("%s %s\n", okStyle.Render("uninstalled:"), args[0])
		return nil
	},
}

var brewPinCmd = &cobra.Command{
	Use:   "pin <name>",
	Short: "Hold a formula at its current version",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newBrewClient()
		if err := requireBrew(c); err != nil {
			return err
		}
		if err := c.Pin(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("%s %s\n", okStyle.Render("pinned:"), args[0])
		return nil
	},
}

var brewUnpinCmd = &cobra.Command{
	Use:   "unpin <name>",
	Short: "Release a pinned formula",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newBrewClient()
		if err := requireBrew(c); err != nil {
			return err
		}
		if err := c.Unpin(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("%s %s\n", okStyle.Render("unpinned:"), args[0])
		return nil
	},
}

var brewDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Write the installed packages to a Brewfile",
	RunE: func(cmd *cobra.Command, _ []string) error {
		file, _ := cmd.Flags().GetString("file")
		force, _ := cmd.Flags().GetBool("force")
		c := newBrewClient()
		if err := requireBrew(c); err != nil {
			return err
		}
		if err := c.BundleDump(cmd.Context(), file, force); err != nil {
			return err
		}
		fmt.Printf("%s %s\n", okStyle.Render("dumped:"), file)
		return nil
	},
}

func init() {
	brewInstallCmd.Flags().Bool("cask", false, "Treat the target as a cask")
	brewUninstallCmd.Flags().Bool("cask", false, "Treat the target as a cask")
	brewUninstallCmd.Flags().Bool("yes", false, "Skip the confirmation prompt")
	brewListCmd.Flags().String("filter", "", "Fuzzy-filter by name or description")
	brewDumpCmd.Flags().String("file", "Brewfile", "Output path")
	brewDumpCmd.Flags().Bool("force", false, "Overwrite an existing file")

	brewCmd.AddCommand(brewListCmd, brewOutdatedCmd, brewSearchCmd, brewInfoCmd,
		brewUpdateCmd, brewUpgradeCmd, brewInstallCmd, brewUninstallCmd,
		brewPinCmd, brewUnpinCmd, brewDumpCmd)
	rootCmd.AddCommand(brewCmd)
}
