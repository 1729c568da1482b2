package ui

import "github.com/hajimehoshi/ebiten/v2"

// Widget is anything the Panel can stack vertically.
type Widget interface {
	Update()
	Draw(screen *ebiten.Image)
	Height() float64
	// MoveTo places the widget's top-left corner; the panel calls it on
	// every layout pass so widgets follow scrolling.
	MoveTo(x, y float64)
}

// contains reports whether the cursor (mx, my) is inside the rectangle.
func contains(x, y, w, h float64, mx, my int) bool {
	fx, fy := float64(mx), float64(my)
	return fx >= x && fx <= x+w && fy >= y && fy <= y+h
}

// clickEdge turns a held mouse button into a single click per press.
type clickEdge struct {
	pressed bool
}

// fire returns true once when the left button goes down while over is true.
func (c *clickEdge) fire(over bool) bool {
	down := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	if over && down {
		if !c.pressed {
			c.pressed = true
			return true
		}
		return false
	}
	c.pressed = false
	return false
}
