package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Palette. The warm colors double as criticality levels in command
// output, so a critical dependency reads the same everywhere.
var (
	colorAccent = lipgloss.Color("36")  // teal - titles, codes
	colorOK     = lipgloss.Color("35")  // green - success, cache hits
	colorHigh   = lipgloss.Color("220") // amber - warnings, high criticality
	colorCrit   = lipgloss.Color("167") // soft red - errors, critical
	colorLink   = lipgloss.Color("75")  // light blue - suggested commands
	colorBright = lipgloss.Color("255") // bright white - values
	colorLabel  = lipgloss.Color("245") // gray - field labels
	colorDim    = lipgloss.Color("240") // dim gray - muted text
)

var (
	// StyleTitle for headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)

	// StyleHighlight for application codes and emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorAccent)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorBright)

	// StyleNumber for counts.
	StyleNumber = lipgloss.NewStyle().Foreground(colorAccent)

	// StyleWarning for warnings and high-criticality labels.
	StyleWarning = lipgloss.NewStyle().Foreground(colorHigh)

	// StyleCritical for critical-criticality labels.
	StyleCritical = lipgloss.NewStyle().Foreground(colorCrit)
)

var (
	styleOK      = lipgloss.NewStyle().Foreground(colorOK)
	styleSpinner = lipgloss.NewStyle().Foreground(colorAccent)
	styleCommand = lipgloss.NewStyle().Foreground(colorLink)
)

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconArrow   = "→"

	badgeCached   = "cached"
	badgeComputed = "computed"
)

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	fmt.Println(styleOK.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(StyleWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printDetail prints an indented secondary line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints an output-file line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorLabel).Width(12)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// printStats prints the result summary line every query command ends
// with: application and link counts plus a badge saying whether the
// projection came from the cache or was computed from a fresh snapshot.
func printStats(apps, links int, cached bool) {
	var parts []string
	if apps > 0 {
		parts = append(parts, fmt.Sprintf("%d apps", apps))
	}
	if links > 0 {
		parts = append(parts, fmt.Sprintf("%d links", links))
	}

	badge := badgeComputed
	badgeStyle := StyleDim
	if cached {
		badge = badgeCached
		badgeStyle = styleOK
	}
	parts = append(parts, badgeStyle.Render(badge))

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	fmt.Println(line)
}

// printNextStep prints a suggested follow-up command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// printNewline prints an empty line.
func printNewline() {
	fmt.Println()
}
