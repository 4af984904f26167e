package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sysmap/sam/pkg/service"
)

// newPathCmd creates the path command that finds the shortest dependency chain.
func newPathCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "path <from> <to>",
		Short: "Find the shortest dependency chain between two applications",
		Long: `Find the shortest dependency chain from one application to another,
following dependencies in consumer-to-provider direction only.
Applications may be given by numeric id or by code.

An unreachable target is a valid answer, not an error.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithService(cmd, func(ctx context.Context, svc *service.Service) error {
				from, err := resolveApplication(ctx, svc.Store, args[0])
				if err != nil {
					return err
				}
				to, err := resolveApplication(ctx, svc.Store, args[1])
				if err != nil {
					return err
				}

				result, cached, err := svc.Path(ctx, from.ID, to.ID)
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(result)
				}

				if !result.Found {
					printWarning("no dependency path from %s to %s", from.Code, to.Code)
					return nil
				}

				chain := make([]string, len(result.Path.Path))
				for i, code := range result.Path.Path {
					chain[i] = StyleHighlight.Render(code)
				}
				fmt.Println(strings.Join(chain, StyleDim.Render(" "+iconArrow+" ")))
				printDetail("%d hops", result.Path.Length)
				printStats(len(result.Path.Path), result.Path.Length, cached)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw JSON payload")

	return cmd
}
