package grid

import "math"

// Geometry is the square layout derived from a cell total. It is never
// stored apart from the total it was computed from.
type Geometry struct {
	Total         int
	Columns       int
	Rows          int
	CellWidthPct  float64
	CellHeightPct float64
}

// Size returns the smallest perfect square that holds n items and the
// layout for it. Negative counts are treated as zero.
func Size(n int) Geometry {
	if n < 0 {
		n = 0
	}
	root := ceilSqrt(n)
	return GeometryFor(root * root)
}

// GeometryFor lays out an existing total. The total is expected to be a
// perfect square but any non-negative value gets the tightest bounding box.
func GeometryFor(total int) Geometry {
	if total <= 0 {
		return Geometry{}
	}
	cols := ceilSqrt(total)
	rows := (total + cols - 1) / cols
	return Geometry{
		Total:         total,
		Columns:       cols,
		Rows:          rows,
		CellWidthPct:  100 / float64(cols),
		CellHeightPct: 100 / float64(rows),
	}
}

// Cell returns the row and column of an index
func (g Geometry) Cell(index int) (row, col int) {
	if g.Columns == 0 {
		return 0, 0
	}
	return index / g.Columns, index % g.Columns
}

// Offset returns the top-left corner of a cell in percent of the board
func (g Geometry) Offset(index int) (xPct, yPct float64) {
	row, col := g.Cell(index)
	return float64(col) * g.CellWidthPct, float64(row) * g.CellHeightPct
}

// IsPerfectSquare reports whether n == k*k for some integer k >= 0
func IsPerfectSquare(n int) bool {
	if n < 0 {
		return false
	}
	r := ceilSqrt(n)
	return r*r == n
}

// ceilSqrt is the integer ceiling of sqrt(n). The float estimate is
// corrected in both directions so large counts stay exact.
func ceilSqrt(n int) int {
	if n <= 0 {
		return 0
	}
	r := int(math.Sqrt(float64(n)))
	for r*r < n {
		r++
	}
	for r > 0 && (r-1)*(r-1) >= n {
		r--
	}
	return r
}
