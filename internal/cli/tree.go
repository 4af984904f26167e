package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sysmap/sam/pkg/depgraph"
	"github.com/sysmap/sam/pkg/service"
)

// newTreeCmd creates the tree command that prints a rooted dependency tree.
func newTreeCmd() *cobra.Command {
	var (
		depth  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "tree <app>",
		Short: "Show an application's dependency tree",
		Long: `Expand an application's dependencies into a tree, at most --depth levels
deep. The application may be given by numeric id or by code (e.g., ULM).

A branch that would revisit one of its own ancestors is cut short and
marked as a cycle instead of recursing forever.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithService(cmd, func(ctx context.Context, svc *service.Service) error {
				app, err := resolveApplication(ctx, svc.Store, args[0])
				if err != nil {
					return err
				}

				tree, cached, err := svc.Tree(ctx, app.ID, depth)
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(tree)
				}

				fmt.Println(StyleTitle.Render(tree.Application.Code) + " " + StyleDim.Render(tree.Application.Name))
				printChildren(tree, "")
				printNewline()
				printStats(countTreeNodes(tree), 0, cached)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&depth, "depth", depgraph.DefaultTreeDepth, "maximum tree depth")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw JSON payload")

	return cmd
}

// printChildren renders a node's children with box-drawing branch glyphs.
func printChildren(n *depgraph.TreeNode, prefix string) {
	for i, child := range n.Children {
		branch, childPrefix := "├── ", prefix+"│   "
		if i == len(n.Children)-1 {
			branch, childPrefix = "└── ", prefix+"    "
		}

		line := prefix + StyleDim.Render(branch) + StyleHighlight.Render(child.Application.Code)
		if child.Edge != nil {
			line += " " + StyleDim.Render(fmt.Sprintf("(%s, %s)", child.Edge.Type, child.Edge.Criticality))
		}
		if child.CycleTruncated {
			line += " " + StyleWarning.Render("↺ cycle")
		}
		fmt.Println(line)

		printChildren(child, childPrefix)
	}
}

// countTreeNodes counts the nodes in a tree, root included.
func countTreeNodes(n *depgraph.TreeNode) int {
	total := 1
	for _, child := range n.Children {
		total += countTreeNodes(child)
	}
	return total
}
