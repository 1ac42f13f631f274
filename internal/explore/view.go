package explore

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/visualizeme/pkg/render"
	"github.com/matzehuels/visualizeme/pkg/tree"
)

var (
	colorCyan  = lipgloss.Color("36")
	colorRed   = lipgloss.Color("167")
	colorAmber = lipgloss.Color("220")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")

	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleMeta    = lipgloss.NewStyle().Foreground(colorGray)
	styleCursor  = lipgloss.NewStyle().Bold(true)
	styleMatch   = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(colorAmber)
	styleError   = lipgloss.NewStyle().Foreground(colorRed)
	styleStatus  = lipgloss.NewStyle().Foreground(colorGray)
	stylePointer = lipgloss.NewStyle().Foreground(colorCyan)
)

const (
	markerExpanded  = "▾"
	markerCollapsed = "▸"
	markerLeaf      = "·"
	summaryWidth    = 40

	helpBrowse = "↑/↓ move · space toggle · ←/→ fold · / search · n/N next · e edit · w write · s svg · q quit"
	helpSearch = "enter apply · esc close"
	helpEdit   = "enter save · esc cancel · JSON or plain text"
)

// typeStyle colors labels with the dark diagram palette.
func typeStyle(typeName string) lipgloss.Style {
	if c, ok := render.Dark.Types[typeName]; ok {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}
	return lipgloss.NewStyle()
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n")

	if len(m.rows) == 0 {
		b.WriteString(styleDim.Render("  (empty)"))
		b.WriteString("\n")
	}
	end := min(m.offset+m.listHeight(), len(m.rows))
	for i := m.offset; i < end; i++ {
		b.WriteString(m.row(i))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch m.mode {
	case modeSearch, modeEdit:
		b.WriteString(m.input.View())
	default:
		b.WriteString(m.statusLine())
	}
	b.WriteString("\n")
	b.WriteString(styleDim.Render(m.help()))
	return b.String()
}

func (m *Model) header() string {
	name := m.doc.Name
	if name == "" {
		name = "untitled"
	}
	parts := []string{name, string(m.doc.Mode)}
	if t := m.diagram.Tree(); t != nil {
		parts = append(parts, fmt.Sprintf("%d nodes", t.Len()), fmt.Sprintf("%d visible", len(m.rows)))
	}
	if term := m.diagram.SearchTerm(); term != "" {
		parts = append(parts, fmt.Sprintf("%q: %d matches", term, len(m.diagram.Matches())))
	}
	if m.dirty {
		parts = append(parts, "modified")
	}
	return styleTitle.Render("visualizeme") + styleDim.Render(" · "+strings.Join(parts, " · "))
}

func (m *Model) row(i int) string {
	n := m.rows[i]
	marker := markerLeaf
	if !n.IsLeaf() {
		marker = markerExpanded
		if m.diagram.Collapse().IsCollapsed(n.Key) {
			marker = markerCollapsed
		}
	}

	label := typeStyle(n.TypeName()).Render(n.Label)
	if m.diagram.IsMatch(n.Key) {
		label = styleMatch.Render(n.Label)
	}
	line := strings.Repeat("  ", n.Depth) + marker + " " + label + " " + styleMeta.Render(summary(n))

	if i == m.cursor {
		return stylePointer.Render("›") + " " + styleCursor.Render(line)
	}
	return "  " + line
}

func summary(n *tree.Node) string {
	return n.Summary(summaryWidth)
}

func (m *Model) statusLine() string {
	if m.status == "" {
		if n := m.Current(); n != nil {
			return styleStatus.Render(where(n))
		}
		return ""
	}
	if m.failed {
		return styleError.Render("✗ " + m.status)
	}
	return styleStatus.Render(m.status)
}

func (m *Model) help() string {
	switch m.mode {
	case modeSearch:
		return helpSearch
	case modeEdit:
		return helpEdit
	}
	return helpBrowse
}
