package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sysmap/sam/pkg/service"
)

// newCyclesCmd creates the cycles command that reports circular dependencies.
func newCyclesCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "cycles",
		Short: "Report circular dependency chains",
		Long: `List every distinct circular dependency chain in the catalog. A healthy
catalog reports none.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithService(cmd, func(ctx context.Context, svc *service.Service) error {
				result, cached, err := svc.Cycles(ctx)
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(result)
				}

				if !result.HasCircular {
					printSuccess("no circular dependencies")
					return nil
				}

				apps, _, err := svc.Store.Snapshot(ctx)
				if err != nil {
					return err
				}
				codes := make(map[int64]string, len(apps))
				for _, app := range apps {
					codes[app.ID] = app.Code
				}

				printWarning("%d circular dependency chain(s)", result.Count)
				for _, cycle := range result.Cycles {
					parts := make([]string, 0, len(cycle)+1)
					for _, id := range cycle {
						parts = append(parts, StyleHighlight.Render(cycleLabel(codes, id)))
					}
					// Close the loop visually by repeating the first member.
					parts = append(parts, StyleHighlight.Render(cycleLabel(codes, cycle[0])))
					fmt.Println("  " + strings.Join(parts, StyleDim.Render(" "+iconArrow+" ")))
				}
				printStats(0, result.Count, cached)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw JSON payload")

	return cmd
}

func cycleLabel(codes map[int64]string, id int64) string {
	if code, ok := codes[id]; ok {
		return code
	}
	return fmt.Sprintf("#%d", id)
}
