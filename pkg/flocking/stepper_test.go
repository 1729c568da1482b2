package flocking

import (
	"errors"
	"math"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/lao-tseu-is-alive/go-flocking-simulation/pkg/geometry"
)

const tolerance = 1e-6

func newTestFlock(seed uint64, standard, predators int, cfg *Config, b Boundary) []Agent {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	agents := InitializeAgents(standard, RoleStandard, cfg.Standard, b, rng, 0)
	return append(agents, InitializeAgents(predators, RolePredator, cfg.Predator, b, rng, standard)...)
}

func TestTick_TwoAgentsSeparate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Standard = RoleParams{
		MaxSpeed:           150,
		MaxSteeringForce:   100,
		SeparationRadius:   50,
		SeparationAngle:    geometry.TwoPi,
		AlignmentRadius:    50,
		CohesionRadius:     50,
		SeparationStrength: 1,
	}
	agents := []Agent{
		{ID: 0, Position: geometry.Vector2D{X: 0, Y: 0}},
		{ID: 1, Position: geometry.Vector2D{X: 10, Y: 0}},
	}
	if err := Tick(agents, cfg, 1.0/60, Boundary{HalfWidth: 400, HalfHeight: 400}); err != nil {
		t.Fatalf("Tick: %v", err)
	}

	if agents[0].Velocity.X >= 0 || agents[0].Velocity.Y != 0 {
		t.Errorf("agent 0 velocity = %v; want pointing along -X", agents[0].Velocity)
	}
	if agents[1].Velocity.X <= 0 || agents[1].Velocity.Y != 0 {
		t.Errorf("agent 1 velocity = %v; want pointing along +X", agents[1].Velocity)
	}
}

func TestTick_SingleAgentFreeFlight(t *testing.T) {
	cfg := DefaultConfig()
	agents := []Agent{{Position: geometry.Vector2D{X: 0, Y: 0}, Velocity: geometry.Vector2D{X: 100, Y: 0}}}
	if err := Tick(agents, cfg, 1, Boundary{HalfWidth: 400, HalfHeight: 400}); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if !agents[0].Position.Eq(geometry.Vector2D{X: 100, Y: 0}) {
		t.Errorf("position = %v; want (100, 0)", agents[0].Position)
	}
	if !agents[0].Velocity.Eq(geometry.Vector2D{X: 100, Y: 0}) {
		t.Errorf("velocity = %v; want unchanged (100, 0)", agents[0].Velocity)
	}
}

func TestTick_InvalidInput(t *testing.T) {
	agents := []Agent{{}}
	if err := Tick(agents, DefaultConfig(), 1, Boundary{}); !errors.Is(err, ErrInvalidBoundary) {
		t.Errorf("zero boundary error = %v; want ErrInvalidBoundary", err)
	}
	cfg := DefaultConfig()
	cfg.CellSize = 0
	if err := Tick(agents, cfg, 1, Boundary{HalfWidth: 1, HalfHeight: 1}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("zero cell size error = %v; want ErrInvalidConfig", err)
	}
}

func TestStepper_Invariants(t *testing.T) {
	cfg := DefaultConfig()
	b := Boundary{HalfWidth: 400, HalfHeight: 300}
	agents := newTestFlock(42, 200, 4, cfg, b)
	s, err := NewStepper(cfg)
	if err != nil {
		t.Fatal(err)
	}

	const dt = 1.0 / 60
	for tick := 0; tick < 300; tick++ {
		s.Step(agents, dt, b)
		for _, a := range agents {
			p := cfg.Params(a.Role)
			if !a.Position.IsFinite() || !a.Velocity.IsFinite() {
				t.Fatalf("tick %d agent %d: non-finite state pos=%v vel=%v", tick, a.ID, a.Position, a.Velocity)
			}
			if a.Velocity.Len() > p.MaxSpeed+tolerance {
				t.Fatalf("tick %d agent %d: speed %v exceeds %v", tick, a.ID, a.Velocity.Len(), p.MaxSpeed)
			}
			// the displacement started from a wrapped, in-bounds position
			start := a.Position.Sub(a.Velocity.Mul(dt))
			if math.Abs(start.X) > b.HalfWidth+tolerance || math.Abs(start.Y) > b.HalfHeight+tolerance {
				t.Fatalf("tick %d agent %d: displacement started out of bounds at %v", tick, a.ID, start)
			}
		}
	}
}

func TestStepper_GridMatchesBruteForce(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CellSize = cfg.Standard.MaxRadius()
	if !cfg.GridCoversRadii() {
		t.Fatal("test config must satisfy the covering invariant")
	}
	b := Boundary{HalfWidth: 300, HalfHeight: 300}
	agents := newTestFlock(3, 300, 0, cfg, b)

	s, err := NewStepper(cfg)
	if err != nil {
		t.Fatal(err)
	}
	positions := make([]geometry.Vector2D, len(agents))
	for i := range agents {
		positions[i] = agents[i].Position
	}
	s.Grid().Build(positions)

	all := allIndices(agents)
	for i := range agents {
		fromGrid := ComputeSteering(i, agents, s.Grid().Neighbors(agents[i].Position, nil), cfg.Standard)
		fromBrute := ComputeSteering(i, agents, all, cfg.Standard)
		if fromGrid.Sub(fromBrute).Len() > tolerance {
			t.Fatalf("agent %d: grid steering %v != brute force %v", i, fromGrid, fromBrute)
		}
	}
}

func TestStepper_UsesPreTickSnapshot(t *testing.T) {
	cfg := DefaultConfig()
	b := Boundary{HalfWidth: 200, HalfHeight: 200}
	forward := newTestFlock(9, 120, 2, cfg, b)
	reversed := slices.Clone(forward)
	slices.Reverse(reversed)

	if err := Tick(forward, cfg, 1.0/30, b); err != nil {
		t.Fatal(err)
	}
	if err := Tick(reversed, cfg, 1.0/30, b); err != nil {
		t.Fatal(err)
	}

	byID := make(map[int]Agent, len(reversed))
	for _, a := range reversed {
		byID[a.ID] = a
	}
	for _, a := range forward {
		r := byID[a.ID]
		if a.Position.Sub(r.Position).Len() > tolerance || a.Velocity.Sub(r.Velocity).Len() > tolerance {
			t.Fatalf("agent %d depends on evaluation order: %v/%v vs %v/%v",
				a.ID, a.Position, a.Velocity, r.Position, r.Velocity)
		}
	}
}

func TestStepper_ParallelMatchesSequential(t *testing.T) {
	b := Boundary{HalfWidth: 400, HalfHeight: 400}
	seqCfg := DefaultConfig()
	parCfg := DefaultConfig()
	parCfg.Workers = 4

	seq := newTestFlock(5, 512, 4, seqCfg, b)
	par := slices.Clone(seq)

	seqStepper, err := NewStepper(seqCfg)
	if err != nil {
		t.Fatal(err)
	}
	parStepper, err := NewStepper(parCfg)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 20; i++ {
		seqStepper.Step(seq, 1.0/60, b)
		parStepper.Step(par, 1.0/60, b)
	}
	if !slices.Equal(seq, par) {
		t.Error("parallel force phase diverged from the sequential one")
	}
}

func TestStepper_PredatorFleesFlock(t *testing.T) {
	cfg := DefaultConfig()
	b := Boundary{HalfWidth: 400, HalfHeight: 400}
	agents := []Agent{
		{ID: 0, Position: geometry.Vector2D{X: 20, Y: 20}},
		{ID: 1, Role: RolePredator, Velocity: geometry.Vector2D{X: 0, Y: 100}},
	}
	if err := Tick(agents, cfg, 1.0/60, b); err != nil {
		t.Fatal(err)
	}
	// predator heading 0, arc covers the first quadrant where the boid is
	if agents[1].Velocity.X >= 0 {
		t.Errorf("predator velocity = %v; want pushed towards -X", agents[1].Velocity)
	}
	// the boid does not see the predator and keeps still
	if !agents[0].Velocity.IsZero() {
		t.Errorf("standard velocity = %v; want zero", agents[0].Velocity)
	}
}

func TestStepper_CellSizeRetuned(t *testing.T) {
	cfg := DefaultConfig()
	s, err := NewStepper(cfg)
	if err != nil {
		t.Fatal(err)
	}
	cfg.CellSize = 120
	s.Step([]Agent{{Velocity: geometry.Vector2D{X: 1}}}, 1.0/60, Boundary{HalfWidth: 10, HalfHeight: 10})
	if got := s.Grid().CellSize(); got != 120 {
		t.Errorf("grid cell size = %v; want 120 after retune", got)
	}
}

func BenchmarkStepper_Step(b *testing.B) {
	cfg := DefaultConfig()
	bound := Boundary{HalfWidth: 500, HalfHeight: 500}
	agents := newTestFlock(1, 1000, 4, cfg, bound)
	s, _ := NewStepper(cfg)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Step(agents, 1.0/60, bound)
	}
}
