package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sysmap/sam/pkg/catalog"
	"github.com/sysmap/sam/pkg/service"
)

// newBrowseCmd creates the browse command, an interactive catalog browser.
func newBrowseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the application catalog interactively",
		Long: `Open an interactive terminal browser over the application catalog.

Keys:
  up/down, j/k  move the cursor
  enter         show the selected application's details and dependencies
  esc           back to the list
  q             quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithService(cmd, func(ctx context.Context, svc *service.Service) error {
				apps, deps, err := svc.Store.Snapshot(ctx)
				if err != nil {
					return err
				}
				if len(apps) == 0 {
					printWarning("catalog is empty, run `sam seed` first")
					return nil
				}

				views, err := svc.ResolveDependencies(ctx, deps)
				if err != nil {
					return err
				}
				byConsumer := make(map[int64][]service.DependencyView)
				for _, v := range views {
					byConsumer[v.ConsumerID] = append(byConsumer[v.ConsumerID], v)
				}

				model := browseModel{apps: apps, deps: byConsumer}
				_, err = tea.NewProgram(model, tea.WithContext(ctx)).Run()
				return err
			})
		},
	}

	return cmd
}

// browseModel is the bubbletea model behind `sam browse`. It has two
// screens: the application list and a per-application detail view.
type browseModel struct {
	apps []catalog.Application
	deps map[int64][]service.DependencyView

	cursor int
	detail bool
}

func (m browseModel) Init() tea.Cmd { return nil }

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.detail = false
	case "up", "k":
		if !m.detail && m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if !m.detail && m.cursor < len(m.apps)-1 {
			m.cursor++
		}
	case "enter":
		m.detail = true
	}
	return m, nil
}

func (m browseModel) View() string {
	if m.detail {
		return m.detailView()
	}
	return m.listView()
}

func (m browseModel) listView() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render("Applications") + "\n\n")

	for i, app := range m.apps {
		line := fmt.Sprintf("%-8s %s", app.Code, app.Name)
		if i == m.cursor {
			b.WriteString(StyleHighlight.Render("› "+line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}

	b.WriteString("\n" + StyleDim.Render("enter: details · q: quit") + "\n")
	return b.String()
}

func (m browseModel) detailView() string {
	app := m.apps[m.cursor]

	var b strings.Builder
	b.WriteString(StyleTitle.Render(app.Code) + " " + StyleDim.Render(app.Name) + "\n\n")

	writeField := func(label, value string) {
		if value != "" {
			b.WriteString(fmt.Sprintf("  %-12s %s\n", StyleDim.Render(label), StyleValue.Render(value)))
		}
	}
	writeField("type", string(app.Type))
	writeField("status", string(app.Status))
	writeField("category", app.Category)
	writeField("team", app.OwnerTeam)
	writeField("description", app.Description)

	deps := m.deps[app.ID]
	b.WriteString("\n" + StyleDim.Render(fmt.Sprintf("  %d dependencies", len(deps))) + "\n")
	for _, dep := range deps {
		target := dep.ProviderName
		if target == "" {
			target = dep.Name
		}
		b.WriteString("    " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(target) +
			" " + StyleDim.Render(fmt.Sprintf("(%s, %s)", dep.Type, dep.Criticality)) + "\n")
	}

	b.WriteString("\n" + StyleDim.Render("esc: back · q: quit") + "\n")
	return b.String()
}
