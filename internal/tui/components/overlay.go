package components

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

// Overlay draws fg over bg with its top-left corner at column x, line y.
// Both are multi-line strings; bg keeps its size.
func Overlay(bg, fg string, x, y int) string {
	bgLines := strings.Split(bg, "\n")
	fgLines := strings.Split(fg, "\n")
	w := 0
	for _, ln := range bgLines {
		w = max(w, xansi.StringWidth(ln))
	}
	fgW := 0
	for _, ln := range fgLines {
		fgW = max(fgW, xansi.StringWidth(ln))
	}
	overlayAt(bgLines, fgLines, w, x, y, fgW)
	return strings.Join(bgLines, "\n")
}

// OverlayCenter draws fg centred over bg
func OverlayCenter(bg, fg string) string {
	bgLines := strings.Split(bg, "\n")
	fgLines := strings.Split(fg, "\n")
	w, fgW := 0, 0
	for _, ln := range bgLines {
		w = max(w, xansi.StringWidth(ln))
	}
	for _, ln := range fgLines {
		fgW = max(fgW, xansi.StringWidth(ln))
	}
	fgW = min(fgW, w)
	overlayAt(bgLines, fgLines, w, (w-fgW)/2, (len(bgLines)-len(fgLines))/2, fgW)
	return strings.Join(bgLines, "\n")
}

// overlayAt splices fgLines into bgLines in place. Lines past the bottom
// of bg are dropped and the foreground is clipped at width w.
func overlayAt(bgLines []string, fgLines []string, w, x, y, fgW int) {
	if fgW <= 0 || w <= 0 {
		return
	}
	x = min(max(x, 0), w-1)
	y = max(y, 0)
	fgW = min(fgW, w-x)

	for i := 0; i < len(fgLines) && y+i < len(bgLines); i++ {
		bgLine := bgLines[y+i]
		if n := xansi.StringWidth(bgLine); n < w {
			bgLine += strings.Repeat(" ", w-n)
		}
		left := xansi.Cut(bgLine, 0, x)
		right := xansi.Cut(bgLine, x+fgW, w)

		fgLine := fgLines[i]
		if n := xansi.StringWidth(fgLine); n < fgW {
			fgLine += strings.Repeat(" ", fgW-n)
		} else if n > fgW {
			fgLine = xansi.Cut(fgLine, 0, fgW)
		}

		bgLines[y+i] = left + fgLine + right
	}
}
