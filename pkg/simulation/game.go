package simulation

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lao-tseu-is-alive/go-flocking-simulation/pkg/flocking"
	"github.com/lao-tseu-is-alive/go-flocking-simulation/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-flocking-simulation/pkg/ui"
	"github.com/tochemey/goakt/v3/actor"
)

var (
	whiteImage    = ebiten.NewImage(3, 3)
	standardColor = color.RGBA{R: 100, G: 200, B: 255, A: 255}
	predatorColor = color.RGBA{R: 255, G: 60, B: 60, A: 255}
	fovColor      = color.RGBA{R: 255, G: 120, B: 120, A: 120}
	background    = color.RGBA{R: 10, G: 10, B: 30, A: 255}
)

const arcSegments = 24

// Game is the ebiten host of one flock. The simulation runs in a FlockActor;
// the game only sends it messages and draws the snapshots it pushes back.
type Game struct {
	ctx        context.Context
	System     actor.ActorSystem
	flockPID   *actor.PID
	snapshotCh chan *Snapshot
	lastState  *Snapshot
	cfg        *Config

	// UI Controls
	panel            *ui.Panel
	widgetSeparation *ui.Slider
	widgetAlignment  *ui.Slider
	widgetCohesion   *ui.Slider
	widgetDisplayFOV *ui.Checkbox
	sentStrengths    Strengths
	resetRequested   bool

	width, height int

	// Timing instrumentation, rolling averages in ms
	updateAvg float64
	drawAvg   float64
}

// NewGame spawns a flock in system and wires the control panel to it.
func NewGame(ctx context.Context, cfg *Config, system actor.ActorSystem) (*Game, error) {
	snapshotCh := make(chan *Snapshot, 10)
	pid, err := SpawnFlock(ctx, system, cfg, snapshotCh)
	if err != nil {
		return nil, err
	}

	g := &Game{
		ctx:        ctx,
		System:     system,
		flockPID:   pid,
		snapshotCh: snapshotCh,
		cfg:        cfg,
		width:      int(cfg.WorldWidth),
		height:     int(cfg.WorldHeight),
	}

	std := cfg.Flocking.Standard
	g.panel = ui.NewPanel("Flock (H hides)", 10, 10, 240, 260)
	g.panel.AddSection("Strengths")
	g.widgetSeparation = g.panel.AddSlider("Separation", 0, 5, std.SeparationStrength)
	g.widgetAlignment = g.panel.AddSlider("Alignment", 0, 5, std.AlignmentStrength)
	g.widgetCohesion = g.panel.AddSlider("Cohesion", 0, 5, std.CohesionStrength)
	g.panel.AddSection("Visualization")
	g.widgetDisplayFOV = g.panel.AddCheckbox("Predator field of view", cfg.DisplayFieldOfView)
	g.panel.AddButton("Reset flock", func() { g.resetRequested = true })
	g.sentStrengths = g.strengths()

	return g, nil
}

func (g *Game) strengths() Strengths {
	return Strengths{
		Separation: g.widgetSeparation.Value,
		Alignment:  g.widgetAlignment.Value,
		Cohesion:   g.widgetCohesion.Value,
	}
}

func (g *Game) Update() error {
	start := time.Now()
	defer func() {
		g.updateAvg = g.updateAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.panel.Hidden = !g.panel.Hidden
	}
	g.panel.Update()

	select {
	case snap := <-g.snapshotCh:
		g.lastState = snap
	default:
		// keep drawing the previous state
	}

	if s := g.strengths(); s != g.sentStrengths {
		if err := actor.Tell(g.ctx, g.flockPID, NewSetStrengths(s)); err != nil {
			return fmt.Errorf("sending strengths: %w", err)
		}
		g.sentStrengths = s
	}
	if g.resetRequested {
		g.resetRequested = false
		if err := actor.Tell(g.ctx, g.flockPID, NewReset()); err != nil {
			return fmt.Errorf("sending reset: %w", err)
		}
	}

	dt := time.Second / time.Duration(ebiten.TPS())
	if err := actor.Tell(g.ctx, g.flockPID, NewTick(dt)); err != nil {
		return fmt.Errorf("sending tick: %w", err)
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	defer func() {
		g.drawAvg = g.drawAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	screen.Fill(background)
	if g.lastState != nil {
		for i := range g.lastState.Agents {
			a := &g.lastState.Agents[i]
			if a.Role == flocking.RolePredator {
				if g.widgetDisplayFOV.Value {
					g.drawFieldOfView(screen, a, g.lastState.Predator)
				}
				g.drawAgent(screen, a, 9, predatorColor)
			} else {
				g.drawAgent(screen, a, 6, standardColor)
			}
		}
	}

	g.panel.Draw(screen)

	msg := fmt.Sprintf("FPS: %.2f\nTPS: %.2f\n\nUpdate: %.2fms\nDraw:   %.2fms",
		ebiten.ActualFPS(), ebiten.ActualTPS(), g.updateAvg, g.drawAvg)
	if g.lastState != nil {
		msg += fmt.Sprintf("\n\nTick: %d\nBoids: %d\nPredators: %d",
			g.lastState.Tick, g.lastState.Standard, g.lastState.Predators)
	}
	ebitenutil.DebugPrintAt(screen, msg, g.width-150, 10)
}

// Layout follows the window size and forwards it to the flock, which applies
// it at its next tick.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 &&
		(outsideWidth != g.width || outsideHeight != g.height) {
		g.width, g.height = outsideWidth, outsideHeight
		_ = actor.Tell(g.ctx, g.flockPID, NewResize(float64(outsideWidth), float64(outsideHeight)))
	}
	return g.width, g.height
}

// toScreen maps world coordinates (origin at the centre, +Y up) to pixels.
func (g *Game) toScreen(p geometry.Vector2D) (float32, float32) {
	return float32(p.X + float64(g.width)/2), float32(float64(g.height)/2 - p.Y)
}

// drawAgent draws a triangle pointing up at rest, rotated by Orientation.
func (g *Game) drawAgent(screen *ebiten.Image, a *flocking.Agent, size float64, clr color.RGBA) {
	shape := [3]geometry.Vector2D{
		{X: 0, Y: size},
		{X: -size * 0.6, Y: -size * 0.6},
		{X: size * 0.6, Y: -size * 0.6},
	}
	r, gr, b, al := float32(clr.R)/255, float32(clr.G)/255, float32(clr.B)/255, float32(clr.A)/255
	vertices := make([]ebiten.Vertex, 0, 3)
	for _, v := range shape {
		x, y := g.toScreen(a.Position.Add(v.Rotate(a.Orientation)))
		vertices = append(vertices, ebiten.Vertex{
			DstX: x, DstY: y,
			SrcX: 1, SrcY: 1,
			ColorR: r, ColorG: gr, ColorB: b, ColorA: al,
		})
	}
	screen.DrawTriangles(vertices, []uint16{0, 1, 2}, whiteImage, &ebiten.DrawTrianglesOptions{})
}

// drawFieldOfView outlines the predator's avoidance sector: it starts at the
// heading and sweeps SeparationAngle counter-clockwise.
func (g *Game) drawFieldOfView(screen *ebiten.Image, a *flocking.Agent, p flocking.RoleParams) {
	if p.SeparationRadius <= 0 {
		return
	}
	start := geometry.Heading(a.Velocity)
	span := math.Min(p.SeparationAngle, geometry.TwoPi)
	cx, cy := g.toScreen(a.Position)

	px, py := cx, cy
	for i := 0; i <= arcSegments; i++ {
		theta := start + span*float64(i)/arcSegments
		x, y := g.toScreen(a.Position.Add(geometry.NewVectorPolar(p.SeparationRadius, theta)))
		vector.StrokeLine(screen, px, py, x, y, 1, fovColor, true)
		px, py = x, y
	}
	vector.StrokeLine(screen, px, py, cx, cy, 1, fovColor, true)
}

func init() {
	whiteImage.Fill(color.White)
}
