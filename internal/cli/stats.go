package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/sysmap/sam/pkg/service"
)

// newStatsCmd creates the stats command that prints catalog aggregates.
func newStatsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show catalog and graph statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithService(cmd, func(ctx context.Context, svc *service.Service) error {
				stats, cached, err := svc.Stats(ctx)
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(stats)
				}

				fmt.Println(StyleTitle.Render("Catalog statistics"))
				printNewline()
				printKeyValue("applications", StyleNumber.Render(fmt.Sprintf("%d", stats.TotalApplications)))
				printKeyValue("dependencies", StyleNumber.Render(fmt.Sprintf("%d", stats.TotalDependencies)))
				printKeyValue("graph edges", StyleNumber.Render(fmt.Sprintf("%d", stats.TotalEdges)))
				printBreakdown("by type", stats.ByType)
				printBreakdown("by status", stats.ByStatus)
				printBreakdown("by category", stats.ByCategory)
				printNewline()
				printStats(stats.TotalNodes, stats.TotalEdges, cached)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw JSON payload")

	return cmd
}

// printBreakdown prints a labeled count map with stable key order.
func printBreakdown(label string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	printNewline()
	fmt.Println("  " + StyleDim.Render(label))
	for _, k := range keys {
		printKeyValue("  "+k, StyleNumber.Render(fmt.Sprintf("%d", counts[k])))
	}
}
