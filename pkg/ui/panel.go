package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	titleHeight   = 30
	sectionHeight = 25
	margin        = 10
)

// Panel stacks widgets under section headers in a scrollable column.
type Panel struct {
	Title         string
	X, Y          float64
	Width, Height float64
	ScrollOffset  float64
	Hidden        bool

	// Styling
	BGColor     color.RGBA
	BorderColor color.RGBA

	sections []section
}

type section struct {
	title   string
	widgets []Widget
}

// NewPanel creates an empty panel.
func NewPanel(title string, x, y, width, height float64) *Panel {
	return &Panel{
		Title:       title,
		X:           x,
		Y:           y,
		Width:       width,
		Height:      height,
		BGColor:     color.RGBA{R: 40, G: 40, B: 45, A: 230},
		BorderColor: color.RGBA{R: 100, G: 100, B: 110, A: 255},
	}
}

// AddSection starts a new section; later widgets go under it.
func (p *Panel) AddSection(title string) {
	p.sections = append(p.sections, section{title: title})
}

// Add appends w to the current section, opening an untitled one if needed.
func (p *Panel) Add(w Widget) {
	if len(p.sections) == 0 {
		p.AddSection("")
	}
	last := &p.sections[len(p.sections)-1]
	last.widgets = append(last.widgets, w)
	p.layout()
}

// AddSlider adds a slider widget to the panel
func (p *Panel) AddSlider(label string, min, max, value float64) *Slider {
	s := NewSlider(0, 0, p.Width-2*margin, label, min, max, value)
	p.Add(s)
	return s
}

// AddCheckbox adds a checkbox widget to the panel
func (p *Panel) AddCheckbox(label string, value bool) *Checkbox {
	c := NewCheckbox(0, 0, label, value)
	p.Add(c)
	return c
}

// AddButton adds a full-width button to the panel
func (p *Panel) AddButton(label string, onClick func()) *Button {
	b := NewButton(0, 0, p.Width-2*margin, 22, label, onClick)
	p.Add(b)
	return b
}

// ContentHeight is the height of everything in the panel, unscrolled.
func (p *Panel) ContentHeight() float64 {
	h := float64(titleHeight)
	for _, s := range p.sections {
		h += sectionHeight
		for _, w := range s.widgets {
			h += w.Height()
		}
	}
	return h
}

// Scroll moves the content by dy pixels, clamped to the content height.
func (p *Panel) Scroll(dy float64) {
	maxScroll := max(0, p.ContentHeight()-p.Height+40)
	p.ScrollOffset = max(0, min(maxScroll, p.ScrollOffset+dy))
	p.layout()
}

// layout positions every widget for the current scroll offset.
func (p *Panel) layout() {
	y := p.Y + titleHeight - p.ScrollOffset
	for _, s := range p.sections {
		y += sectionHeight
		for _, w := range s.widgets {
			w.MoveTo(p.X+margin, y)
			y += w.Height()
		}
	}
}

func (p *Panel) visible(y, h float64) bool {
	return y+h >= p.Y+titleHeight && y <= p.Y+p.Height
}

// Update handles scrolling and input for visible widgets.
func (p *Panel) Update() {
	if p.Hidden {
		return
	}
	if _, dy := ebiten.Wheel(); dy != 0 {
		p.Scroll(-dy * 20)
	}
	y := p.Y + titleHeight - p.ScrollOffset
	for _, s := range p.sections {
		y += sectionHeight
		for _, w := range s.widgets {
			if p.visible(y, w.Height()) {
				w.Update()
			}
			y += w.Height()
		}
	}
}

// Draw renders the panel and its visible widgets.
func (p *Panel) Draw(screen *ebiten.Image) {
	if p.Hidden {
		return
	}
	vector.FillRect(screen,
		float32(p.X), float32(p.Y),
		float32(p.Width), float32(p.Height),
		p.BGColor, true)
	vector.StrokeRect(screen,
		float32(p.X), float32(p.Y),
		float32(p.Width), float32(p.Height),
		2, p.BorderColor, true)
	ebitenutil.DebugPrintAt(screen, p.Title, int(p.X+margin), int(p.Y+5))

	y := p.Y + titleHeight - p.ScrollOffset
	for _, s := range p.sections {
		if s.title != "" && p.visible(y, sectionHeight) {
			vector.FillRect(screen,
				float32(p.X+5), float32(y),
				float32(p.Width-10), 20,
				color.RGBA{R: 60, G: 60, B: 70, A: 255}, true)
			ebitenutil.DebugPrintAt(screen, s.title, int(p.X+margin), int(y+3))
		}
		y += sectionHeight
		for _, w := range s.widgets {
			if p.visible(y, w.Height()) {
				w.Draw(screen)
			}
			y += w.Height()
		}
	}
}
