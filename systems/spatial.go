// Package systems provides the per-tick simulation systems.
package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/oids/geometry"
)

// SpatialGrid buckets indices by position for neighbour lookups in a
// bounded arena. Points outside the arena go to the nearest border cell.
type SpatialGrid struct {
	cellSize float64
	origin   r2.Vec
	cols     int
	rows     int
	cells    [][]int32
}

// NewSpatialGrid creates a grid covering extent.
func NewSpatialGrid(extent geometry.Rect, cellSize float64) *SpatialGrid {
	cols := int(math.Ceil(extent.Width()/cellSize)) + 1
	rows := int(math.Ceil(extent.Height()/cellSize)) + 1

	cells := make([][]int32, cols*rows)
	for i := range cells {
		cells[i] = make([]int32, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		origin:   extent.Min,
		cols:     cols,
		rows:     rows,
		cells:    cells,
	}
}

// Clear empties every cell.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds index i at position p.
func (g *SpatialGrid) Insert(i int32, p r2.Vec) {
	col, row := g.cellOf(p)
	idx := row*g.cols + col
	g.cells[idx] = append(g.cells[idx], i)
}

// QueryRadiusInto appends every index in cells overlapping the circle at p
// to dst. Candidates still need an exact distance check.
func (g *SpatialGrid) QueryRadiusInto(dst []int32, p r2.Vec, radius float64) []int32 {
	minCol, minRow := g.cellOf(r2.Vec{X: p.X - radius, Y: p.Y - radius})
	maxCol, maxRow := g.cellOf(r2.Vec{X: p.X + radius, Y: p.Y + radius})

	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			dst = append(dst, g.cells[row*g.cols+col]...)
		}
	}
	return dst
}

// cellOf returns the clamped cell coordinates of p.
func (g *SpatialGrid) cellOf(p r2.Vec) (col, row int) {
	col = int(math.Floor((p.X - g.origin.X) / g.cellSize))
	row = int(math.Floor((p.Y - g.origin.Y) / g.cellSize))

	if col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}
	if row < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}
	return col, row
}
