package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSize(t *testing.T) {
	tests := []struct {
		n       int
		total   int
		columns int
		rows    int
	}{
		{-3, 0, 0, 0},
		{0, 0, 0, 0},
		{1, 1, 1, 1},
		{2, 4, 2, 2},
		{4, 4, 2, 2},
		{5, 9, 3, 3},
		{9, 9, 3, 3},
		{10, 16, 4, 4},
		{17, 25, 5, 5},
		{100, 100, 10, 10},
		{101, 121, 11, 11},
	}

	for _, tt := range tests {
		g := Size(tt.n)
		assert.Equal(t, tt.total, g.Total, "Size(%d).Total", tt.n)
		assert.Equal(t, tt.columns, g.Columns, "Size(%d).Columns", tt.n)
		assert.Equal(t, tt.rows, g.Rows, "Size(%d).Rows", tt.n)
	}
}

func TestSizeProperties(t *testing.T) {
	prev := 0
	for n := 0; n <= 5000; n++ {
		g := Size(n)
		require.True(t, IsPerfectSquare(g.Total), "Size(%d).Total=%d is not a perfect square", n, g.Total)
		require.GreaterOrEqual(t, g.Total, n)
		require.GreaterOrEqual(t, g.Total, prev, "grid shrank at n=%d", n)
		prev = g.Total
		if g.Total == 0 {
			continue
		}
		require.GreaterOrEqual(t, g.Columns*g.Rows, g.Total)
		require.Less(t, (g.Columns-1)*g.Rows, g.Total)
	}
}

func TestSizeLargeCounts(t *testing.T) {
	root := 1 << 20
	g := Size(root*root + 1)
	assert.Equal(t, (root+1)*(root+1), g.Total)
	assert.Equal(t, root+1, g.Columns)

	g = Size(root * root)
	assert.Equal(t, root*root, g.Total)
}

func TestGeometryPercentages(t *testing.T) {
	g := Size(9)
	assert.InDelta(t, 100.0/3, g.CellWidthPct, 1e-9)
	assert.InDelta(t, 100.0/3, g.CellHeightPct, 1e-9)

	row, col := g.Cell(5)
	assert.Equal(t, 1, row)
	assert.Equal(t, 2, col)

	x, y := g.Offset(5)
	assert.InDelta(t, 200.0/3, x, 1e-9)
	assert.InDelta(t, 100.0/3, y, 1e-9)
}

func TestGeometryForNonSquare(t *testing.T) {
	g := GeometryFor(10)
	assert.Equal(t, 4, g.Columns)
	assert.Equal(t, 3, g.Rows)
	assert.InDelta(t, 25.0, g.CellWidthPct, 1e-9)

	zero := GeometryFor(0)
	row, col := zero.Cell(3)
	assert.Zero(t, row)
	assert.Zero(t, col)
}

func TestIsPerfectSquare(t *testing.T) {
	for _, n := range []int{0, 1, 4, 9, 144} {
		assert.True(t, IsPerfectSquare(n), "%d", n)
	}
	for _, n := range []int{-1, 2, 3, 8, 10, 143} {
		assert.False(t, IsPerfectSquare(n), "%d", n)
	}
}
