package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sysmap/sam/pkg/service"
)

// newExportCmd creates the export command that writes the graph to a file.
func newExportCmd() *cobra.Command {
	var (
		format    string
		output    string
		detailed  bool
		externals bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the dependency graph as DOT, SVG, or JSON",
		Long: `Render the dependency graph in a machine-readable format.

Formats:
  dot   Graphviz source
  svg   rendered image (Graphviz layout)
  json  the node-link payload the API serves

Without --output the result goes to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithService(cmd, func(ctx context.Context, svc *service.Service) error {
				spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s export", format))
				if output != "" {
					spinner.Start()
				}

				data, cached, err := svc.Export(ctx, service.ExportOptions{
					Format:        format,
					Detailed:      detailed,
					ExternalNodes: externals,
				})
				if output != "" {
					spinner.Stop()
				}
				if err != nil {
					return err
				}

				if output == "" {
					_, err := os.Stdout.Write(data)
					return err
				}

				if err := os.WriteFile(output, data, 0o644); err != nil {
					return fmt.Errorf("write export: %w", err)
				}
				printSuccess("exported %s (%d bytes)", format, len(data))
				printFile(output)
				if cached {
					printDetail("served from cache")
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", service.FormatDOT, "export format: dot, svg, or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include type, status, and counts in node labels")
	cmd.Flags().BoolVar(&externals, "externals", false, "draw external dependencies as dashed leaves")

	return cmd
}
