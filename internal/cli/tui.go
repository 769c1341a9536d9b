package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/circuitgraph/pkg/pipeline"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// InspectModel - Interactive graph browser
// =============================================================================

type inspectView int

const (
	viewEdges inspectView = iota
	viewNodes
	viewFaults
	viewCount
)

func (v inspectView) String() string {
	switch v {
	case viewEdges:
		return "Edges"
	case viewNodes:
		return "Nodes"
	case viewFaults:
		return "Excluded"
	}
	return "?"
}

// InspectModel is the bubbletea model for browsing a reduced circuit.
type InspectModel struct {
	Result *pipeline.Result
	Tab    inspectView
	Cursor int
	Offset int
	Height int

	rows [viewCount][][]string
}

// NewInspectModel creates an inspect model positioned on the edge list.
func NewInspectModel(res *pipeline.Result) InspectModel {
	m := InspectModel{Result: res, Height: 15}
	m.rows[viewEdges] = edgeRows(res.Reduction, res.Table)
	m.rows[viewNodes] = nodeRows(res.Reduction)
	m.rows[viewFaults] = faultRows(res.Reduction)
	return m
}

func (m InspectModel) current() [][]string { return m.rows[m.Tab] }

func (m InspectModel) Init() tea.Cmd {
	return nil
}

func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "right", "l":
			m = m.switchTo((m.Tab + 1) % viewCount)
		case "shift+tab", "left", "h":
			m = m.switchTo((m.Tab + viewCount - 1) % viewCount)
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.current())-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 10
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m InspectModel) switchTo(v inspectView) InspectModel {
	m.Tab = v
	m.Cursor = 0
	m.Offset = 0
	return m
}

func (m InspectModel) headers() []string {
	switch m.Tab {
	case viewNodes:
		return []string{"Node", "Degree", "Points"}
	case viewFaults:
		return []string{"Link", "Kind", "Reason", "Points"}
	}
	return []string{"Edge", "Device", "Nodes", "Kind", "Params"}
}

func (m InspectModel) View() string {
	var b strings.Builder

	title := "Circuit"
	if m.Result.Name != "" {
		title = m.Result.Name
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("  ")
	for v := inspectView(0); v < viewCount; v++ {
		label := fmt.Sprintf("%s (%d)", v, len(m.rows[v]))
		if v == m.Tab {
			b.WriteString(listSelectedStyle.Render("[" + label + "]"))
		} else {
			b.WriteString(listDimStyle.Render(" " + label + " "))
		}
		b.WriteString(" ")
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  tab switch view  q quit"))
	b.WriteString("\n\n")

	rows := m.current()
	if len(rows) == 0 {
		b.WriteString(listDimStyle.Render("  nothing to show"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(rows))
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(m.headers()...).
		Rows(rows[m.Offset:end]...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			if m.Tab == viewFaults {
				return StyleWarning
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(rows))))
	if d := m.detail(); d != "" {
		b.WriteString("\n")
		b.WriteString(d)
	}

	return b.String()
}

// detail describes the terminals of the selected edge.
func (m InspectModel) detail() string {
	if m.Tab != viewEdges {
		return ""
	}
	g := m.Result.Reduction.Graph
	e, ok := g.GetEdge(m.Cursor)
	if !ok {
		return ""
	}
	var lines []string
	for _, id := range []int{e.From, e.To} {
		n, _ := g.GetNode(id)
		pts := make([]string, len(n.Points))
		for i, p := range n.Points {
			pts[i] = p.String()
		}
		lines = append(lines, fmt.Sprintf("  node %d: %s", id, strings.Join(pts, " ")))
		if e.IsSelfLoop() {
			lines = append(lines, StyleWarning.Render("  shorted: both terminals on the same node"))
			break
		}
	}
	return listDimStyle.Render(strings.Join(lines, "\n"))
}
