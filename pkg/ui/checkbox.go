package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Checkbox is a simple UI widget for boolean values
type Checkbox struct {
	Label string
	Value bool
	X, Y  float64
	Size  float64
	click clickEdge
}

// NewCheckbox creates a new checkbox instance
func NewCheckbox(x, y float64, label string, value bool) *Checkbox {
	return &Checkbox{
		Label: label,
		Value: value,
		X:     x,
		Y:     y,
		Size:  16,
	}
}

// Toggle flips the value.
func (c *Checkbox) Toggle() { c.Value = !c.Value }

// Update toggles the value once per click on the box.
func (c *Checkbox) Update() {
	mx, my := ebiten.CursorPosition()
	if c.click.fire(contains(c.X, c.Y, c.Size, c.Size, mx, my)) {
		c.Toggle()
	}
}

// Draw renders the box and its label to the right.
func (c *Checkbox) Draw(screen *ebiten.Image) {
	vector.StrokeRect(screen,
		float32(c.X), float32(c.Y),
		float32(c.Size), float32(c.Size),
		2,
		color.RGBA{R: 200, G: 200, B: 200, A: 255},
		true)
	if c.Value {
		vector.FillRect(screen,
			float32(c.X+2), float32(c.Y+2),
			float32(c.Size-4), float32(c.Size-4),
			color.RGBA{R: 100, G: 200, B: 100, A: 255},
			true)
	}
	ebitenutil.DebugPrintAt(screen, c.Label, int(c.X+c.Size+8), int(c.Y))
}

func (c *Checkbox) Height() float64 { return c.Size + 8 }

func (c *Checkbox) MoveTo(x, y float64) { c.X, c.Y = x, y }
