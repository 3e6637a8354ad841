package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the service version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "aiengine %s\n", cfg.Version)
			return nil
		},
	}
}
