package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sysmap/sam/pkg/service"
)

// newGraphCmd creates the graph command that prints the full graph summary.
func newGraphCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Show the dependency graph summary",
		Long: `Show every cataloged application with its dependency, dependent, and
route counts, plus the global graph totals. --json prints the raw
node-link payload the API serves.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithService(cmd, func(ctx context.Context, svc *service.Service) error {
				payload, cached, err := svc.Graph(ctx)
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(payload)
				}

				fmt.Println(StyleTitle.Render("Dependency graph"))
				printNewline()
				for _, node := range payload.Nodes {
					printKeyValue(node.Code, node.Name)
					printDetail("%d dependencies · %d dependents · %d routes",
						node.DependenciesCount, node.DependentsCount, node.RoutesCount)
				}
				printNewline()
				printStats(payload.Stats.TotalNodes, payload.Stats.TotalEdges, cached)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw JSON payload")

	return cmd
}
