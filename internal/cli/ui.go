package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/gridwire/pkg/core/channel"
)

// =============================================================================
// Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // selection, counts
	colorGreen  = lipgloss.Color("35")  // success
	colorYellow = lipgloss.Color("220") // warnings
	colorRed    = lipgloss.Color("167") // errors
	colorBlue   = lipgloss.Color("75")  // commands, links
	colorPurple = lipgloss.Color("141")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

// kindColors tints channel keys by family: vertical runs share one hue,
// horizontal runs another, so a table reads like the poster.
var kindColors = map[channel.Kind]lipgloss.Color{
	channel.Setout: colorGreen,
	channel.Arrive: colorGreen,
	channel.From:   colorBlue,
	channel.To:     colorBlue,
	channel.Gap:    colorPurple,
	channel.Trunk:  colorYellow,
	channel.Meta:   colorYellow,
}

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleTitle for headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleLink for URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	// StyleDim for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for paths and values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for slot indices and counts.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleWarning for warnings.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey     = lipgloss.NewStyle().Foreground(colorGray).Width(8)
	styleHeader  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// styleChannelKey colours a rendered channel key ("gap(1,0)", "trunk") by
// its kind. Unknown keys are left white.
func styleChannelKey(key string) lipgloss.Style {
	name, _, _ := strings.Cut(key, "(")
	name, _, _ = strings.Cut(name, "[")
	if k, ok := channel.ParseKind(name); ok {
		return lipgloss.NewStyle().Foreground(kindColors[k])
	}
	return StyleValue
}

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
// Status Lines
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Println(styleIconError.Render(iconError) + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line under a status line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints one written output path.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printNextStep suggests the command to run next.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func printNewline() { fmt.Println() }

// =============================================================================
// Poster Summaries
// =============================================================================

// printCapacities prints the four channel capacities of a routed poster,
// one per line.
func printCapacities(c channel.Capacities) {
	for _, kv := range []struct {
		key string
		n   int
	}{{"gap", c.Gap}, {"inner", c.Inner}, {"left", c.Left}, {"right", c.Right}} {
		fmt.Println(styleKey.Render(kv.key) + " " + StyleNumber.Render(fmt.Sprint(kv.n)))
	}
}

// printStats prints poster counts and cache status on one line, e.g.
// "3 icons · 4 wires · cached".
func printStats(icons, wires int, cached bool) {
	var parts []string
	if icons > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d icons", icons)))
	}
	if wires > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d wires", wires)))
	}
	if cached {
		parts = append(parts, styleCached.Render(iconCached))
	} else {
		parts = append(parts, styleComputed.Render(iconFresh))
	}
	fmt.Println("  " + strings.Join(parts, StyleDim.Render(" · ")))
}
