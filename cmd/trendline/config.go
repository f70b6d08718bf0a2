package main

import (
	"fmt"

	"github.com/raykavin/trendline/internal/config"
	"github.com/spf13/cobra"
)

var force bool

func buildConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultConfigPath
			if len(args) > 0 {
				path = args[0]
			}

			if err := config.WriteDefault(path, force); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Default configuration written to %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")

	configCmd.AddCommand(initCmd)
	return configCmd
}
