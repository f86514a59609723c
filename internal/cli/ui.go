package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/relgraph/pkg/graph"
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

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

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
	styleIconRunning = lipgloss.NewStyle().Foreground(colorCyan)

	styleHeader  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
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
	iconRunning = "•"
)

// =============================================================================
// Output Target
// =============================================================================

// stdout is where status output goes. Layouts of several files finish
// concurrently, so writes are serialized.
var (
	stdout   io.Writer = os.Stdout
	stdoutMu sync.Mutex
)

func writeLine(s string) {
	stdoutMu.Lock()
	defer stdoutMu.Unlock()
	fmt.Fprintln(stdout, s)
}

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	writeLine(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

// printError prints an error message.
func printError(format string, args ...any) {
	writeLine(styleIconError.Render(iconError) + " " + fmt.Sprintf(format, args...))
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	writeLine(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	writeLine(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	writeLine("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a file output line.
func printFile(path string) {
	writeLine("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printNewline prints an empty line.
func printNewline() {
	writeLine("")
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	writeLine(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// =============================================================================
// Stats Display
// =============================================================================

// stat is one labeled count in a stats line.
type stat struct {
	label string
	n     int
}

// printStats prints counts on a single line, skipping zeros:
// "  12 nodes · 30 edges · 2 ghosts".
func printStats(stats ...stat) {
	line := " "
	first := true
	for _, s := range stats {
		if s.n == 0 {
			continue
		}
		if !first {
			line += StyleDim.Render(" ·")
		}
		line += " " + StyleNumber.Render(strconv.Itoa(s.n)) + " " + StyleDim.Render(s.label)
		first = false
	}
	writeLine(line)
}

// printEdgeTable prints edge counts per type in display order.
func printEdgeTable(byType map[graph.EdgeType]int) {
	writeLine(renderEdgeTable(byType))
}

func renderEdgeTable(byType map[graph.EdgeType]int) string {
	var rows [][]string
	total := 0
	for _, et := range graph.EdgeTypes {
		n := byType[et]
		if n == 0 {
			continue
		}
		rows = append(rows, []string{string(et), strconv.Itoa(n)})
		total += n
	}
	rows = append(rows, []string{"total", strconv.Itoa(total)})

	last := len(rows) - 1
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("Edge type", "Count").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == table.HeaderRow:
				return base.Inherit(styleHeader)
			case row == last:
				return base.Bold(true)
			case col == 1:
				return base.Foreground(colorCyan).Align(lipgloss.Right)
			}
			return base
		})
	return t.Render()
}
