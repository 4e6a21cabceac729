package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/upkeepcli/upkeep/internal/config"
	"github.com/upkeepcli/upkeep/internal/utils"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and edit the configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		if cfgOrigin != "" {
			fmt.Println(dimStyle.Render("# " + cfgOrigin))
		} else {
			fmt.Println(dimStyle.Render("# built-in defaults"))
		}
		fmt.Print(string(data))
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the loaded config file path",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if cfgOrigin == "" {
			fmt.Println("no config file found (using built-in defaults)")
			return nil
		}
		fmt.Println(cfgOrigin)
		return nil
	},
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the configuration in $EDITOR",
	RunE: func(cmd *cobra.Command, _ []string) error {
		target, err := configSavePath()
		if err != nil {
			return err
		}
		if _, err := os.Stat(target); os.IsNotExist(err) {
			// Seed the file so the editor opens the current effective values.
			if err := config.Save(cfg, target); err != nil {
				return err
			}
		}
		if err := utils.OpenEditor(target); err != nil {
			return err
		}
		if _, _, err := config.Load(target); err != nil {
			return fmt.Errorf("saved config does not parse: %w", err)
		}
		fmt.Printf("%s %s\n", okStyle.Render("saved:"), target)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configPathCmd, configEditCmd)
	rootCmd.AddCommand(configCmd)
}
