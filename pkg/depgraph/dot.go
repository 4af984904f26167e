package depgraph

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"
)

// DOTOptions configures DOT generation.
type DOTOptions struct {
	// Detailed adds type, status, and dependency counts to node labels.
	// When false, nodes show code and display name only.
	Detailed bool

	// ExternalNodes draws external dependencies as dashed leaf boxes
	// attached to their consumer.
	ExternalNodes bool
}

// criticalityColors maps edge criticality to a Graphviz color.
var criticalityColors = map[string]string{
	"critical": "#dc2626",
	"high":     "#ea580c",
	"medium":   "#ca8a04",
	"low":      "#6b7280",
	"optional": "#9ca3af",
}

// ToDOT renders the graph in Graphviz DOT format. Nodes are labeled by
// application code, filled with the application's color hint when set;
// edges are colored by criticality. The output can be rendered to SVG
// with [RenderSVG].
func (g *Graph) ToDOT(opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph sam {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	for _, id := range g.order {
		app := g.apps[id]
		attrs := []string{fmt.Sprintf("label=%q", g.nodeLabel(id, opts.Detailed))}
		if app.Color != "" {
			attrs = append(attrs, fmt.Sprintf("fillcolor=%q", app.Color), "fontcolor=white")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", app.Code, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, dep := range g.deps {
		if dep.ProviderID == nil {
			continue
		}
		consumer := g.apps[dep.ConsumerID].Code
		provider := g.apps[*dep.ProviderID].Code
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", consumer, provider, edgeAttrs(dep.Criticality.String(), dep.Name))
	}

	if opts.ExternalNodes {
		buf.WriteString("\n")
		for _, id := range g.order {
			for _, dep := range g.external[id] {
				extID := fmt.Sprintf("ext_%d", dep.ID)
				fmt.Fprintf(&buf, "  %q [label=%q, style=\"rounded,filled,dashed\", fillcolor=lightgrey, fontcolor=black];\n", extID, dep.Name)
				fmt.Fprintf(&buf, "  %q -> %q [%s];\n", g.apps[id].Code, extID, edgeAttrs(dep.Criticality.String(), ""))
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func (g *Graph) nodeLabel(id int64, detailed bool) string {
	app := g.apps[id]
	label := app.Code
	if app.DisplayName != "" && app.DisplayName != app.Code {
		label += "\n" + app.DisplayName
	}
	if !detailed {
		return label
	}
	return fmt.Sprintf("%s\n%s / %s\ndeps: %d  dependents: %d",
		label, app.Type, app.Status, g.DependenciesCount(id), g.DependentsCount(id))
}

func edgeAttrs(criticality, name string) string {
	color, ok := criticalityColors[criticality]
	if !ok {
		color = "#6b7280"
	}
	attrs := fmt.Sprintf("color=%q", color)
	if name != "" {
		attrs += fmt.Sprintf(", label=%q, fontsize=10", name)
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	parsed, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer parsed.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, parsed, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
