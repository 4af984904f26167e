package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/sysmap/sam/pkg/catalog"
	"github.com/sysmap/sam/pkg/service"
)

// newCriticalCmd creates the critical command that lists severe dependencies.
func newCriticalCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "critical",
		Short: "List critical and high-criticality dependencies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithService(cmd, func(ctx context.Context, svc *service.Service) error {
				result, cached, err := svc.Critical(ctx)
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(result)
				}

				if result.Count == 0 {
					printSuccess("no critical dependencies")
					return nil
				}

				fmt.Println(StyleTitle.Render("Critical dependencies"))
				printNewline()
				for _, dep := range result.Dependencies {
					provider := dep.ProviderName
					if provider == "" {
						// External dependencies have no cataloged provider.
						provider = dep.Name
					}
					fmt.Println("  " + StyleValue.Render(dep.ConsumerName) +
						StyleDim.Render(" "+iconArrow+" ") + StyleValue.Render(provider) +
						"  " + criticalityStyle(dep.Criticality).Render(string(dep.Criticality)))
				}
				printNewline()
				printStats(0, result.Count, cached)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw JSON payload")

	return cmd
}

// criticalityStyle colors a criticality label: red for critical, amber
// for high, gray otherwise.
func criticalityStyle(c catalog.Criticality) lipgloss.Style {
	switch c {
	case catalog.CriticalityCritical:
		return StyleCritical
	case catalog.CriticalityHigh:
		return StyleWarning
	default:
		return StyleDim
	}
}
