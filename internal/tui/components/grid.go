package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/mosaic/internal/domain"
	"github.com/mmcdole/mosaic/internal/grid"
	"github.com/mmcdole/mosaic/internal/tui/styles"
)

// Layout constants for the board
const (
	// Border adds 1 char on each side
	BorderWidth  = 2
	BorderHeight = 2

	// Smallest cell that can still show a title
	MinCellWidth  = 3
	MinCellHeight = 1
)

// Board renders the image grid: filled cells, the backdrop showing through
// empty ones and the image currently flying to its cell
type Board struct {
	geom     grid.Geometry
	cells    []*domain.Image
	flight   *grid.Flight
	progress float64
	backdrop bool

	width  int
	height int
}

// NewBoard creates an empty board
func NewBoard() Board {
	return Board{backdrop: true}
}

// SetSize sets the outer dimensions including the border
func (b *Board) SetSize(width, height int) {
	b.width = width
	b.height = height
}

// SetBackdrop toggles the backdrop pattern in empty cells
func (b *Board) SetBackdrop(on bool) {
	b.backdrop = on
}

// Backdrop reports whether empty cells show the backdrop
func (b Board) Backdrop() bool {
	return b.backdrop
}

// SetCells replaces the geometry and cell contents
func (b *Board) SetCells(geom grid.Geometry, cells []*domain.Image) {
	b.geom = geom
	b.cells = cells
}

// SetFlight shows f at the given progress in [0, 1]
func (b *Board) SetFlight(f grid.Flight, progress float64) {
	b.flight = &f
	b.progress = min(max(progress, 0), 1)
}

// ClearFlight removes the flying marker
func (b *Board) ClearFlight() {
	b.flight = nil
	b.progress = 0
}

// innerSize is the drawable area inside the border
func (b Board) innerSize() (int, int) {
	return max(b.width-BorderWidth, 0), max(b.height-BorderHeight, 0)
}

// span returns the start and width of band i when size is split n ways
func span(size, n, i int) (int, int) {
	start := i * size / n
	end := (i + 1) * size / n
	return start, end - start
}

// View renders the board
func (b Board) View() string {
	w, h := b.innerSize()
	if w <= 0 || h <= 0 {
		return ""
	}

	var body string
	switch {
	case b.geom.Total == 0:
		body = placeholder(w, h, "empty board")
	case w < b.geom.Columns*MinCellWidth || h < b.geom.Rows*MinCellHeight:
		body = placeholder(w, h, fmt.Sprintf("%d×%d board, enlarge the window", b.geom.Columns, b.geom.Rows))
	default:
		lines := b.renderCells(w, h)
		if b.flight != nil {
			b.drawFlight(lines, w, h)
		}
		body = strings.Join(lines, "\n")
	}
	return styles.BoardBorder.Render(body)
}

func placeholder(w, h int, msg string) string {
	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, styles.DimStyle.Render(styles.Truncate(msg, w)))
}

// renderCells lays the cells out row band by row band
func (b Board) renderCells(w, h int) []string {
	lines := make([]string, 0, h)
	for r := 0; r < b.geom.Rows; r++ {
		y0, ch := span(h, b.geom.Rows, r)
		for ly := 0; ly < ch; ly++ {
			var line strings.Builder
			for c := 0; c < b.geom.Columns; c++ {
				x0, cw := span(w, b.geom.Columns, c)
				line.WriteString(b.cellLine(r*b.geom.Columns+c, x0, y0+ly, cw, ch, ly))
			}
			lines = append(lines, line.String())
		}
	}
	return lines
}

// cellLine renders line ly of the cell at index, which sits at board
// column x and spans cw by ch
func (b Board) cellLine(index, x, y, cw, ch, ly int) string {
	if index >= b.geom.Total {
		return strings.Repeat(" ", cw)
	}
	if index < len(b.cells) && b.cells[index] != nil {
		return filledLine(*b.cells[index], cw, ch, ly)
	}
	if b.flight != nil && b.flight.Index == index {
		return targetLine(cw, ch, ly)
	}
	if !b.backdrop {
		return strings.Repeat(" ", cw)
	}
	return styles.BackdropStyle.Render(styles.Backdrop(x, y, cw))
}

// filledLine centres the title on the middle line with the host under it.
// The rightmost column is left as a gutter.
func filledLine(img domain.Image, cw, ch, ly int) string {
	inner := max(cw-1, 1)
	mid := (ch - 1) / 2
	text, style := "", styles.FilledCellStyle
	switch {
	case ly == mid:
		text = img.Title
	case ly == mid+1:
		text = img.Host()
		style = styles.FilledHostStyle
	}
	text = styles.Truncate(text, inner)
	return style.Width(inner).Align(lipgloss.Center).Render(text) + strings.Repeat(" ", cw-inner)
}

// targetLine outlines the cell an image is flying to
func targetLine(cw, ch, ly int) string {
	if cw < 2 {
		return styles.TargetCellStyle.Render(strings.Repeat("·", cw))
	}
	var s string
	switch {
	case ch == 1:
		s = "[" + strings.Repeat("·", cw-2) + "]"
	case ly == 0:
		s = "┌" + strings.Repeat("╌", cw-2) + "┐"
	case ly == ch-1:
		s = "└" + strings.Repeat("╌", cw-2) + "┘"
	default:
		s = "╎" + strings.Repeat(" ", cw-2) + "╎"
	}
	return styles.TargetCellStyle.Render(s)
}

// drawFlight overlays the flying label between the top of the board and
// the centre of its target cell
func (b Board) drawFlight(lines []string, w, h int) {
	f := b.flight
	label := styles.FlyingStyle.Render(styles.Truncate(f.Image.Title, max(w/3, 1)))
	lw := lipgloss.Width(label)

	x0, cw := span(w, b.geom.Columns, f.Col)
	y0, ch := span(h, b.geom.Rows, f.Row)
	toX := x0 + (cw-lw)/2
	toY := y0 + (ch-1)/2
	fromX := (w - lw) / 2
	fromY := 0

	t := EaseOut(b.progress)
	x := fromX + int(float64(toX-fromX)*t)
	y := fromY + int(float64(toY-fromY)*t)
	overlayAt(lines, []string{label}, w, x, y, lw)
}

// EaseOut decelerates towards the end of a flight
func EaseOut(t float64) float64 {
	t = min(max(t, 0), 1)
	return 1 - (1-t)*(1-t)
}
