package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for the academic-api CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "academic-api",
		Short: "Academic portal backend",
		Long: `academic-api serves the user account and inquiry request API of the
academic portal. Configuration is read from the environment and an optional
.env file in the working directory.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewCreateAdminCmd())

	return cmd
}
