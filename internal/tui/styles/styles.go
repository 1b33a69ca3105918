package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// Color palette
var (
	Amber      = lipgloss.Color("#F79E1B")
	SlateDark  = lipgloss.Color("#1F2937")
	SlateLight = lipgloss.Color("#374151")
	DimGray    = lipgloss.Color("#6B7280")
	LightGray  = lipgloss.Color("#9CA3AF")
	White      = lipgloss.Color("#F9FAFB")
	Red        = lipgloss.Color("#EF4444")
)

// Borders
var (
	BoardBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DimGray)

	InputBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Amber).
			Padding(0, 1)
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(Amber)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)
)

// Cell styles. Empty cells show a slice of the shared backdrop; the target
// of a flight is outlined until the image lands.
var (
	BackdropStyle = lipgloss.NewStyle().
			Foreground(SlateLight)

	FilledCellStyle = lipgloss.NewStyle().
			Foreground(White).
			Background(SlateDark)

	FilledHostStyle = lipgloss.NewStyle().
			Foreground(LightGray).
			Background(SlateDark)

	TargetCellStyle = lipgloss.NewStyle().
			Foreground(Amber).
			Bold(true)

	FlyingStyle = lipgloss.NewStyle().
			Foreground(SlateDark).
			Background(Amber).
			Bold(true).
			Padding(0, 1)
)

// URL bar styles
var (
	PromptStyle = lipgloss.NewStyle().
			Foreground(Amber).
			Bold(true)

	InputTextStyle = lipgloss.NewStyle().
			Foreground(White)

	PlaceholderStyle = lipgloss.NewStyle().
				Foreground(DimGray)
)

// Suggestion list styles
var (
	SuggestionStyle = lipgloss.NewStyle().
			Foreground(LightGray).
			Padding(0, 1)

	SuggestionSelectedStyle = lipgloss.NewStyle().
				Foreground(White).
				Background(SlateLight).
				Padding(0, 1)

	MatchHighlightStyle = lipgloss.NewStyle().
				Foreground(Amber).
				Bold(true)

	MatchHighlightSelectedStyle = lipgloss.NewStyle().
					Foreground(Amber).
					Background(SlateLight).
					Bold(true)
)

// Help styles
var (
	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(Amber)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(DimGray)
)

// Progress bar styles
var (
	ProgressFullStyle = lipgloss.NewStyle().
				Foreground(Amber)

	ProgressEmptyStyle = lipgloss.NewStyle().
				Foreground(DimGray)
)

// Table styles for batch output
var (
	TableHeaderStyle = lipgloss.NewStyle().
				Foreground(Amber).
				Bold(true).
				Padding(0, 1)

	TableCellStyle = lipgloss.NewStyle().
			Foreground(White).
			Padding(0, 1)

	TableEmptyStyle = lipgloss.NewStyle().
			Foreground(DimGray).
			Padding(0, 1)

	TableBorderStyle = lipgloss.NewStyle().
				Foreground(DimGray)
)

// Helper functions

// Ellipsis marks text cut short by Truncate
const Ellipsis = "…"

// Truncate cuts s to width terminal cells, ending in an ellipsis when cut
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return xansi.Truncate(s, width, Ellipsis)
}

// RenderProgressBar renders a bar for a fraction in [0, 1]
func RenderProgressBar(fraction float64, width int) string {
	if width < 3 {
		return ""
	}

	filled := int(float64(width) * fraction)
	filled = min(max(filled, 0), width)

	var b strings.Builder
	b.WriteString(ProgressFullStyle.Render(strings.Repeat("█", filled)))
	b.WriteString(ProgressEmptyStyle.Render(strings.Repeat("░", width-filled)))
	return b.String()
}

// backdropShades runs light to dark so the pattern reads as one image
var backdropShades = []rune{' ', '·', '░', '▒'}

// Backdrop returns one line of the shared backdrop starting at board
// column x on board row y. Neighbouring cells continue the same diagonal
// gradient, so empty cells together show a single picture.
func Backdrop(x, y, width int) string {
	if width <= 0 {
		return ""
	}
	var b strings.Builder
	for i := 0; i < width; i++ {
		shade := ((x+i)/2 + y) % (2 * len(backdropShades))
		if shade >= len(backdropShades) {
			shade = 2*len(backdropShades) - 1 - shade
		}
		b.WriteRune(backdropShades[shade])
	}
	return b.String()
}
