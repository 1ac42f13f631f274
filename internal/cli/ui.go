package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// stdout receives status lines.
var stdout io.Writer = os.Stdout

var (
	colorAccent = lipgloss.Color("36")
	colorOK     = lipgloss.Color("35")
	colorWarn   = lipgloss.Color("220")
	colorFail   = lipgloss.Color("167")
	colorCmd    = lipgloss.Color("75")
	colorBright = lipgloss.Color("255")
	colorMuted  = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	StyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	StyleDim     = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue   = lipgloss.NewStyle().Foreground(colorBright)
	StyleNumber  = lipgloss.NewStyle().Foreground(colorAccent)
	StyleWarning = lipgloss.NewStyle().Foreground(colorWarn)
)

var (
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorAccent)
	styleCached      = lipgloss.NewStyle().Foreground(colorOK)
	styleComputed    = lipgloss.NewStyle().Foreground(colorMuted)
	styleCommand     = lipgloss.NewStyle().Foreground(colorCmd)
	styleKey         = lipgloss.NewStyle().Foreground(colorMuted).Width(12)
	styleTableHeader = lipgloss.NewStyle().Foreground(colorMuted).Bold(true)
)

// status kinds, each an icon in its own color.
var (
	statusSuccess = lipgloss.NewStyle().Foreground(colorOK).Render("✓")
	statusError   = lipgloss.NewStyle().Foreground(colorFail).Render("✗")
	statusWarning = lipgloss.NewStyle().Foreground(colorWarn).Render("!")
	statusInfo    = lipgloss.NewStyle().Foreground(colorMuted).Render("›")
)

func statusLine(icon, format string, args ...any) {
	fmt.Fprintln(stdout, icon+" "+fmt.Sprintf(format, args...))
}

func printSuccess(format string, args ...any) { statusLine(statusSuccess, format, args...) }
func printError(format string, args ...any)   { statusLine(statusError, format, args...) }
func printInfo(format string, args ...any)    { statusLine(statusInfo, format, args...) }

func printWarning(format string, args ...any) {
	statusLine(statusWarning, "%s", StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// printDetail prints an indented, dimmed line under a status line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile lists a written file.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render("→")+" "+StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(stdout, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

func printNewline() { fmt.Fprintln(stdout) }

// statsLine summarizes a render: node counts, search hits and whether the
// artifacts came from the cache.
func statsLine(nodes, visible, matches int, search string, cached bool) string {
	var parts []string
	if nodes > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d nodes", nodes)))
	}
	if visible > 0 && visible != nodes {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d visible", visible)))
	}
	if search != "" {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d matches for %q", matches, search)))
	}
	if cached {
		parts = append(parts, styleCached.Render("cached"))
	} else {
		parts = append(parts, styleComputed.Render("fresh"))
	}
	return "  " + strings.Join(parts, StyleDim.Render(" · "))
}

func printStats(nodes, visible, matches int, search string, cached bool) {
	fmt.Fprintln(stdout, statsLine(nodes, visible, matches, search, cached))
}

// renderTable draws rows under headers with a rounded border; the first
// column is the row label.
func renderTable(headers []string, rows [][]string) string {
	label := lipgloss.NewStyle().Foreground(colorBright)
	number := lipgloss.NewStyle().Foreground(colorAccent)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row < 0:
				return styleTableHeader
			case col == 0:
				return label
			}
			return number
		}).
		Render()
}
