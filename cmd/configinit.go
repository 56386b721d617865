package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration helpers",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config.yaml with the current effective settings",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, _ := cmd.Flags().GetString("file")

		if _, err := os.Stat(path); err == nil {
			force, _ := cmd.Flags().GetBool("force")
			if !force {
				return eris.Errorf("config: %s already exists (use --force to overwrite)", path)
			}
		}

		out, err := yaml.Marshal(cfg)
		if err != nil {
			return eris.Wrap(err, "config: marshal")
		}
		if err := os.WriteFile(path, out, 0o644); err != nil {
			return eris.Wrapf(err, "config: write %s", path)
		}

		fmt.Printf("wrote %s\n", path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().String("file", "config.yaml", "output path")
	configInitCmd.Flags().Bool("force", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
