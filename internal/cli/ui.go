package cli

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/circuitgraph/pkg/io"
	"github.com/matzehuels/circuitgraph/pkg/reduce"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconError.Render(iconError) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// =============================================================================
// File Output
// =============================================================================

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// =============================================================================
// Key-Value Output
// =============================================================================

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// =============================================================================
// Stats Display
// =============================================================================

// printStats prints reduction statistics on a single line.
func printStats(st reduce.Stats, cached bool) {
	parts := []string{
		fmt.Sprintf("%d nodes", st.Nodes),
		fmt.Sprintf("%d edges", st.Edges),
	}
	if st.Components > 1 {
		parts = append(parts, fmt.Sprintf("%d components", st.Components))
	}
	if st.Shorted > 0 {
		parts = append(parts, StyleWarning.Render(fmt.Sprintf("%d shorted", st.Shorted)))
	}
	if st.Faults > 0 {
		parts = append(parts, StyleWarning.Render(fmt.Sprintf("%d excluded", st.Faults)))
	}

	status := iconFresh
	statusStyle := styleComputed
	if cached {
		status = iconCached
		statusStyle = styleCached
	}
	parts = append(parts, statusStyle.Render(status))

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	fmt.Println(line)
}

// =============================================================================
// Tables
// =============================================================================

var tableHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}

// edgeRows lists one row per edge: id, device, endpoints, kind and params.
func edgeRows(res *reduce.Result, devices io.DeviceTable) [][]string {
	shorted := make(map[int]bool, len(res.Shorted))
	for _, id := range res.Shorted {
		shorted[id] = true
	}
	var rows [][]string
	for _, e := range res.Graph.Edges() {
		dev := devices[e.Device]
		ends := fmt.Sprintf("%d-%d", e.From, e.To)
		if shorted[e.ID] {
			ends += " " + iconWarning
		}
		rows = append(rows, []string{
			strconv.Itoa(e.ID), string(e.Device), ends, dev.Kind, formatParams(dev.Params),
		})
	}
	return rows
}

// nodeRows lists one row per node: id, degree and grid points.
func nodeRows(res *reduce.Result) [][]string {
	var rows [][]string
	for _, n := range res.Graph.Nodes() {
		pts := make([]string, len(n.Points))
		for i, p := range n.Points {
			pts[i] = p.String()
		}
		rows = append(rows, []string{strconv.Itoa(n.ID), strconv.Itoa(n.Degree()), strings.Join(pts, " ")})
	}
	return rows
}

// faultRows lists one row per excluded link.
func faultRows(res *reduce.Result) [][]string {
	var rows [][]string
	for _, f := range res.Faults {
		pts := make([]string, len(f.Points))
		for i, p := range f.Points {
			pts[i] = p.String()
		}
		kind := ""
		if f.Kind != 0 {
			kind = f.Kind.String()
		}
		rows = append(rows, []string{string(f.Link), kind, f.Reason.String(), strings.Join(pts, " ")})
	}
	return rows
}

func formatParams(params map[string]string) string {
	parts := make([]string, 0, len(params))
	for _, k := range slices.Sorted(maps.Keys(params)) {
		parts = append(parts, k+"="+params[k])
	}
	return strings.Join(parts, " ")
}

// printResult prints the edge table, optionally the node table, and the
// fault table when links were excluded.
func printResult(res *reduce.Result, devices io.DeviceTable, nodes bool) {
	fmt.Println(newTable("Edge", "Device", "Nodes", "Kind", "Params").Rows(edgeRows(res, devices)...).Render())
	if nodes {
		fmt.Println(newTable("Node", "Degree", "Points").Rows(nodeRows(res)...).Render())
	}
	if len(res.Faults) > 0 {
		printWarning("%d link(s) excluded from the graph", len(res.Faults))
		fmt.Println(newTable("Link", "Kind", "Reason", "Points").Rows(faultRows(res)...).Render())
	}
}

// =============================================================================
// Commands & Next Steps
// =============================================================================

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}
