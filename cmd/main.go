package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Running the root command serves the UI.
func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:          "swaggerui",
		Short:        "Serve the Swagger UI from embedded or external asset bundles",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), configPath, cmd.ErrOrStderr())
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"path to a YAML config file (default $SWAGGERUI_CONFIG)")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP server",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runServe(cmd.Context(), configPath, cmd.ErrOrStderr())
			},
		},
		&cobra.Command{
			Use:   "resolve <path>",
			Short: "Print an asset as the UI would serve it",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runResolve(cmd.Context(), configPath, args[0], cmd.OutOrStdout())
			},
		},
	)
	return rootCmd
}
