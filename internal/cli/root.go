// Package cli implements the rotator command line tool.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd builds the command tree. Each call returns fresh flag state.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "rotator",
		Short:         "Fair lineup rotations for five-a-side football",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newGenerateCmd(), newKeygenCmd())
	return root
}

// Execute runs the CLI.
func Execute() error { return NewRootCmd().Execute() }
