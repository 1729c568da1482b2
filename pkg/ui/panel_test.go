package ui

import "testing"

func TestSlider_SetValueClamps(t *testing.T) {
	tests := []struct {
		name      string
		in        float64
		want      float64
		wantRatio float64
	}{
		{"inside", 1.5, 1.5, 0.5},
		{"below", -1, 0, 0},
		{"above", 9, 3, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSlider(0, 0, 100, "Separation", 0, 3, 0)
			s.SetValue(tt.in)
			if s.Value != tt.want {
				t.Errorf("Value = %v; want %v", s.Value, tt.want)
			}
			if s.Ratio() != tt.wantRatio {
				t.Errorf("Ratio = %v; want %v", s.Ratio(), tt.wantRatio)
			}
		})
	}
}

func TestSlider_DegenerateRange(t *testing.T) {
	s := NewSlider(0, 0, 100, "Fixed", 2, 2, 5)
	if s.Value != 2 || s.Ratio() != 0 {
		t.Errorf("got value %v ratio %v; want 2 and 0", s.Value, s.Ratio())
	}
}

func TestPanel_LayoutStacksWidgets(t *testing.T) {
	p := NewPanel("Flock", 10, 10, 200, 300)
	p.AddSection("Strengths")
	s := p.AddSlider("Separation", 0, 3, 1.5)
	c := p.AddCheckbox("Show field of view", true)
	p.AddSection("Population")
	b := p.AddButton("Reset", nil)

	if s.X != 20 || c.X != 20 || b.X != 20 {
		t.Errorf("widgets not indented by margin: %v %v %v", s.X, c.X, b.X)
	}
	if !(s.Y < c.Y && c.Y < b.Y) {
		t.Errorf("widgets not stacked top to bottom: %v %v %v", s.Y, c.Y, b.Y)
	}
	if s.W != 180 {
		t.Errorf("slider width = %v; want 180", s.W)
	}

	want := float64(titleHeight) + 2*sectionHeight + s.Height() + c.Height() + b.Height()
	if got := p.ContentHeight(); got != want {
		t.Errorf("ContentHeight = %v; want %v", got, want)
	}
}

func TestPanel_ScrollClamps(t *testing.T) {
	p := NewPanel("Flock", 0, 0, 200, 60)
	p.AddSection("Strengths")
	for range 5 {
		p.AddSlider("s", 0, 1, 0)
	}
	first := p.sections[0].widgets[0].(*Slider)
	y0 := first.Y

	p.Scroll(-50)
	if p.ScrollOffset != 0 {
		t.Errorf("scrolled above the top: %v", p.ScrollOffset)
	}

	p.Scroll(30)
	if p.ScrollOffset != 30 {
		t.Fatalf("ScrollOffset = %v; want 30", p.ScrollOffset)
	}
	if first.Y != y0-30 {
		t.Errorf("widget did not follow scroll: y=%v want %v", first.Y, y0-30)
	}

	p.Scroll(1e6)
	if want := p.ContentHeight() - p.Height + 40; p.ScrollOffset != want {
		t.Errorf("ScrollOffset = %v; want clamp at %v", p.ScrollOffset, want)
	}
}

func TestCheckbox_Toggle(t *testing.T) {
	c := NewCheckbox(0, 0, "FOV", false)
	c.Toggle()
	if !c.Value {
		t.Error("Toggle did not set the value")
	}
}

func TestContains(t *testing.T) {
	if !contains(10, 10, 20, 5, 15, 12) {
		t.Error("point inside reported outside")
	}
	if contains(10, 10, 20, 5, 31, 12) {
		t.Error("point outside reported inside")
	}
}
