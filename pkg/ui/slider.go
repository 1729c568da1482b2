package ui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Slider is a horizontal bar editing a float in [Min, Max].
type Slider struct {
	Label    string
	Value    float64
	Min, Max float64
	X, Y     float64
	W, H     float64
}

// NewSlider creates a slider; value is clamped into [min, max].
func NewSlider(x, y, width float64, label string, min, max, value float64) *Slider {
	s := &Slider{
		Label: label,
		Min:   min,
		Max:   max,
		X:     x,
		Y:     y,
		W:     width,
		H:     12,
	}
	s.SetValue(value)
	return s
}

// SetValue stores v clamped into [Min, Max].
func (s *Slider) SetValue(v float64) {
	s.Value = max(s.Min, min(s.Max, v))
}

// Ratio is the position of Value along the bar, in [0, 1].
func (s *Slider) Ratio() float64 {
	if s.Max == s.Min {
		return 0
	}
	return (s.Value - s.Min) / (s.Max - s.Min)
}

// Update drags the value while the left button is held over the bar.
func (s *Slider) Update() {
	if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	if contains(s.X, s.Y, s.W, s.H, mx, my) && s.W > 0 {
		s.SetValue(s.Min + (float64(mx)-s.X)/s.W*(s.Max-s.Min))
	}
}

// Draw renders the label, the bar and the current value.
func (s *Slider) Draw(screen *ebiten.Image) {
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s: %.2f", s.Label, s.Value), int(s.X), int(s.Y-16))
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W), float32(s.H),
		color.RGBA{R: 80, G: 80, B: 80, A: 255}, true)
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W*s.Ratio()), float32(s.H),
		color.RGBA{R: 200, G: 200, B: 200, A: 255}, true)
}

func (s *Slider) Height() float64 { return s.H + 25 }

func (s *Slider) MoveTo(x, y float64) { s.X, s.Y = x, y+16 }
