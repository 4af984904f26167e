package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newVersionCmd creates the version command. It prints the same build
// information as --version, as its own command for script friendliness.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("sam %s\ncommit: %s\nbuilt: %s\n", version, commit, date)
		},
	}
}
