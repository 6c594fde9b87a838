// # internal/ui/view/view.go
package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"layerscope/internal/data/artifact"
	"layerscope/internal/engine/introspect"
)

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	collapsedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

type item struct {
	title, desc string
	collapsed   bool
}

func (i item) Title() string {
	if i.collapsed {
		return collapsedStyle.Render(i.title)
	}
	return i.title
}
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title + i.desc }

type model struct {
	list    list.Model
	report  *artifact.Report
	compact bool
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "c":
			if m.treeFor(!m.compact) != nil {
				m.compact = !m.compact
				m.list.SetItems(treeItems(m.treeFor(m.compact)))
			}
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-4)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) View() string {
	info := m.report.Model
	mode := "full tree"
	if m.compact {
		mode = "compact tree"
	}
	status := statusStyle.Render(fmt.Sprintf(
		"%s | %s params (%s trainable) | %d modules | %s | c: toggle tree, q: quit",
		info.Class,
		humanCount(info.Parameters.Count), humanCount(info.Parameters.Trainable),
		moduleCount(m.report), mode))

	header := fmt.Sprintf("%s\n%s\n", titleStyle(info.ID), status)
	return docStyle.Render(header + "\n" + m.list.View())
}

func (m model) treeFor(compact bool) *introspect.Node {
	if m.report.Modules == nil {
		return nil
	}
	if compact {
		return m.report.Modules.CompactTree
	}
	return m.report.Modules.Tree
}

func moduleCount(report *artifact.Report) int {
	if report.Modules == nil {
		return 0
	}
	return report.Modules.ModuleCount
}

func treeItems(root *introspect.Node) []list.Item {
	var items []list.Item
	var walk func(n *introspect.Node, depth int)
	walk = func(n *introspect.Node, depth int) {
		items = append(items, nodeItem(n, depth))
		for _, child := range n.Children {
			walk(child, depth+1)
		}
	}
	if root != nil {
		walk(root, 0)
	}
	return items
}

func nodeItem(n *introspect.Node, depth int) item {
	indent := strings.Repeat("  ", depth)
	title := fmt.Sprintf("%s%s (%s)", indent, n.Name, n.Class)
	if n.Collapsed {
		title = fmt.Sprintf("%s%s (%s ×%d)", indent, n.Name, n.Class, n.Repeat)
	}

	parts := []string{
		fmt.Sprintf("params %s", humanCount(n.Parameters.Total.Count)),
	}
	if n.Buffers.Total.Count > 0 {
		parts = append(parts, fmt.Sprintf("buffers %s", humanCount(n.Buffers.Total.Count)))
	}
	parts = append(parts, humanBytes(n.Parameters.Total.SizeBytes+n.Buffers.Total.SizeBytes))
	if len(n.Tags) > 0 {
		parts = append(parts, strings.Join(n.Tags, ","))
	}

	return item{
		title:     title,
		desc:      indent + strings.Join(parts, " · "),
		collapsed: n.Collapsed,
	}
}

func humanCount(n int64) string {
	switch {
	case n >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", float64(n)/1e9)
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1e6)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1e3)
	default:
		return fmt.Sprintf("%d", n)
	}
}

func humanBytes(n int64) string {
	switch {
	case n >= 1<<30:
		return fmt.Sprintf("%.1f GiB", float64(n)/float64(1<<30))
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/float64(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

func initialModel(report *artifact.Report) model {
	l := list.New(treeItems(reportTree(report)), list.NewDefaultDelegate(), 0, 0)
	l.Title = "Module Tree"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)

	return model{
		list:    l,
		report:  report,
		compact: startCompact(report),
	}
}

// startCompact prefers the compact tree when both renderings exist.
func startCompact(report *artifact.Report) bool {
	return report.Modules != nil && report.Modules.CompactTree != nil
}

func reportTree(report *artifact.Report) *introspect.Node {
	if report.Modules == nil {
		return nil
	}
	if report.Modules.CompactTree != nil {
		return report.Modules.CompactTree
	}
	return report.Modules.Tree
}

// Run loads the report at path (chunked manifests included) and opens the
// interactive tree browser.
func Run(path string) error {
	report, err := LoadReport(path)
	if err != nil {
		return err
	}
	if report.Modules == nil || (report.Modules.Tree == nil && report.Modules.CompactTree == nil) {
		return fmt.Errorf("report %q carries no module tree to display", path)
	}

	p := tea.NewProgram(initialModel(report), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
