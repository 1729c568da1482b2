// Package spatial holds the neighbour-query strategies used by the flocking
// core: a uniform grid rebuilt every tick and an unindexed brute-force scan.
package spatial

import (
	"errors"
	"fmt"
	"math"

	"github.com/lao-tseu-is-alive/go-flocking-simulation/pkg/geometry"
)

// ErrInvalidCellSize is returned by NewGrid for a non-positive or non-finite cell size.
var ErrInvalidCellSize = errors.New("cell size must be a positive finite number")

// NeighborQuery returns candidate neighbour indices around a position.
// Candidates are a superset: callers still filter by exact radius.
type NeighborQuery interface {
	Neighbors(p geometry.Vector2D, dst []int) []int
}

// CellKey identifies a grid cell: floor(position / cellSize) on each axis.
type CellKey struct {
	X, Y int
}

// Grid is a uniform spatial hash mapping cells to the indices of the points
// they contain. Build replaces its whole content, so a Grid describes exactly
// one set of positions (one tick).
//
// The 3x3 sweep in Neighbors is only complete for query radii <= CellSize.
type Grid struct {
	cellSize float64
	cells    map[CellKey][]int
	count    int
}

var _ NeighborQuery = (*Grid)(nil)

// NewGrid creates an empty grid with the given cell size.
func NewGrid(cellSize float64) (*Grid, error) {
	if !(cellSize > 0) || math.IsInf(cellSize, 0) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidCellSize, cellSize)
	}
	return &Grid{
		cellSize: cellSize,
		cells:    make(map[CellKey][]int),
	}, nil
}

// CellSize returns the edge length of one cell.
func (g *Grid) CellSize() float64 {
	return g.cellSize
}

// Len returns the number of indexed points.
func (g *Grid) Len() int {
	return g.count
}

// KeyFor returns the cell containing p.
func (g *Grid) KeyFor(p geometry.Vector2D) CellKey {
	return CellKey{
		X: int(math.Floor(p.X / g.cellSize)),
		Y: int(math.Floor(p.Y / g.cellSize)),
	}
}

// Build indexes positions, index i standing for positions[i].
// Buckets from the previous build are truncated, not freed, so steady-state
// rebuilds allocate almost nothing.
func (g *Grid) Build(positions []geometry.Vector2D) {
	for k := range g.cells {
		g.cells[k] = g.cells[k][:0]
	}
	for i, p := range positions {
		key := g.KeyFor(p)
		g.cells[key] = append(g.cells[key], i)
	}
	g.count = len(positions)
}

// Cell returns the bucket for key. The slice is owned by the grid.
func (g *Grid) Cell(key CellKey) []int {
	return g.cells[key]
}

// Neighbors appends to dst the indices found in the 3x3 block of cells
// centred on p's cell, in bucket order, and returns the extended slice.
func (g *Grid) Neighbors(p geometry.Vector2D, dst []int) []int {
	c := g.KeyFor(p)
	for i := c.X - 1; i <= c.X+1; i++ {
		for j := c.Y - 1; j <= c.Y+1; j++ {
			if bucket, ok := g.cells[CellKey{X: i, Y: j}]; ok {
				dst = append(dst, bucket...)
			}
		}
	}
	return dst
}
