package flocking

import (
	"errors"
	"fmt"
	"math"

	"github.com/lao-tseu-is-alive/go-flocking-simulation/pkg/geometry"
	"github.com/paulmach/orb"
)

// ErrInvalidBoundary is returned for a boundary with a non-positive or
// non-finite half extent.
var ErrInvalidBoundary = errors.New("invalid boundary")

// Boundary is the wrap-around world rectangle [-HalfWidth, HalfWidth] x
// [-HalfHeight, HalfHeight], centred on the origin.
type Boundary struct {
	HalfWidth  float64 `json:"halfWidth"`
	HalfHeight float64 `json:"halfHeight"`
}

// NewBoundary derives a boundary from full world (or window) dimensions.
func NewBoundary(width, height float64) (Boundary, error) {
	b := Boundary{HalfWidth: width / 2, HalfHeight: height / 2}
	if err := b.Validate(); err != nil {
		return Boundary{}, err
	}
	return b, nil
}

// Validate checks both half extents are positive and finite.
func (b Boundary) Validate() error {
	if !(b.HalfWidth > 0) || math.IsInf(b.HalfWidth, 0) ||
		!(b.HalfHeight > 0) || math.IsInf(b.HalfHeight, 0) {
		return fmt.Errorf("%w: half extents %vx%v", ErrInvalidBoundary, b.HalfWidth, b.HalfHeight)
	}
	return nil
}

// Rect returns the boundary as a planar bound.
func (b Boundary) Rect() orb.Bound {
	return orb.Bound{
		Min: orb.Point{-b.HalfWidth, -b.HalfHeight},
		Max: orb.Point{b.HalfWidth, b.HalfHeight},
	}
}

// Contains reports whether p lies inside the closed rectangle.
func (b Boundary) Contains(p geometry.Vector2D) bool {
	return b.Rect().Contains(orb.Point{p.X, p.Y})
}

// Wrap snaps each axis lying strictly outside the rectangle to the opposite
// edge. Axes inside (or on) the edge are left untouched.
func (b Boundary) Wrap(p geometry.Vector2D) geometry.Vector2D {
	if p.X > b.HalfWidth {
		p.X = -b.HalfWidth
	} else if p.X < -b.HalfWidth {
		p.X = b.HalfWidth
	}
	if p.Y > b.HalfHeight {
		p.Y = -b.HalfHeight
	} else if p.Y < -b.HalfHeight {
		p.Y = b.HalfHeight
	}
	return p
}
