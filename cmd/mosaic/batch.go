package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mmcdole/mosaic/internal/domain"
	"github.com/mmcdole/mosaic/internal/grid"
	"github.com/mmcdole/mosaic/internal/service"
	"github.com/mmcdole/mosaic/internal/tui/styles"
)

// batchDelay replaces the on-screen flight time when nobody is watching
const batchDelay = time.Millisecond

// emptyMark fills cells with no image in the printed table
const emptyMark = "·"

type batchResult struct {
	Geometry grid.Geometry
	Cells    []*domain.Image
	Added    int
	Ignored  int
}

// readURLs returns the lines of r, dropping # comments. Blank lines are
// kept so they reach the board and get ignored there.
func readURLs(r io.Reader) ([]string, error) {
	var urls []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read urls: %w", err)
	}
	return urls, nil
}

// runBatch feeds every URL from r through a board running on a grid.Loop
// and returns the board once the last flight has landed.
func runBatch(ctx context.Context, r io.Reader, opts grid.Options, history *service.HistoryService) (batchResult, error) {
	urls, err := readURLs(r)
	if err != nil {
		return batchResult{}, err
	}

	loop := grid.NewLoop()
	submitted := false
	opts.Delay = batchDelay
	opts.OnChange = func(e grid.Event) {
		if e.Kind == grid.EventIdle && submitted {
			loop.Stop()
		}
	}
	board := grid.NewController(loop, opts)
	defer board.Close()

	var result batchResult
	loop.Post(func() {
		for _, u := range urls {
			if board.AddImage(u) == grid.AddIgnored {
				result.Ignored++
				continue
			}
			result.Added++
			if history != nil {
				// History is best effort; the service logs failures
				_, _ = history.Record(u)
			}
		}
		submitted = true
		if board.Idle() {
			loop.Stop()
		}
	})

	if err := loop.Run(ctx); err != nil {
		return batchResult{}, fmt.Errorf("batch interrupted: %w", err)
	}

	result.Geometry = board.Geometry()
	result.Cells = board.Cells()
	return result, nil
}

// renderBoardTable lays the cells out as a table, one row per board row.
// width 0 lets the table size itself.
func renderBoardTable(geom grid.Geometry, cells []*domain.Image, width int) string {
	headers := make([]string, geom.Columns+1)
	for c := 0; c < geom.Columns; c++ {
		headers[c+1] = strconv.Itoa(c + 1)
	}

	rows := make([][]string, geom.Rows)
	for r := range rows {
		row := make([]string, geom.Columns+1)
		row[0] = strconv.Itoa(r + 1)
		for c := 0; c < geom.Columns; c++ {
			idx := r*geom.Columns + c
			switch {
			case idx >= geom.Total:
				row[c+1] = ""
			case idx < len(cells) && cells[idx] != nil:
				row[c+1] = cells[idx].Title
			default:
				row[c+1] = emptyMark
			}
		}
		rows[r] = row
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderRow(true).
		BorderStyle(styles.TableBorderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow || col == 0 {
				return styles.TableHeaderStyle
			}
			if row < len(rows) && rows[row][col] == emptyMark {
				return styles.TableEmptyStyle
			}
			return styles.TableCellStyle
		}).
		Headers(headers...).
		Rows(rows...)
	if width > 0 {
		t = t.Width(width)
	}
	return t.Render()
}

func printBatchResult(w io.Writer, res batchResult, width int) error {
	if res.Geometry.Total > 0 {
		if _, err := fmt.Fprintln(w, renderBoardTable(res.Geometry, res.Cells, width)); err != nil {
			return err
		}
	}
	filled := res.Geometry.Total - len(grid.EmptyCells(res.Cells))
	_, err := fmt.Fprintf(w, "%d images on a %d×%d board (%d/%d cells filled, %d lines ignored)\n",
		res.Added, res.Geometry.Columns, res.Geometry.Rows, filled, res.Geometry.Total, res.Ignored)
	return err
}
