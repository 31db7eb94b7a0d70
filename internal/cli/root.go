// Package cli defines the doc-translator command tree.
package cli

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "doc-translator",
		Short:         "Chunked document translation service backed by a local LLM",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newServeCmd())
	return cmd
}

// Execute runs the command tree.
func Execute() error {
	return newRootCmd().Execute()
}
