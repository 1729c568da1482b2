package flocking

import (
	"fmt"

	"github.com/lao-tseu-is-alive/go-flocking-simulation/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-flocking-simulation/pkg/spatial"
	"golang.org/x/sync/errgroup"
)

// minAgentsPerWorker keeps tiny flocks from paying goroutine overhead.
const minAgentsPerWorker = 64

// Stepper runs ticks over a fixed agent slice. It keeps the grid and scratch
// buffers between ticks; the grid content itself is rebuilt every tick.
// A Stepper is not safe for concurrent use.
type Stepper struct {
	cfg       *Config
	grid      *spatial.Grid
	brute     spatial.BruteForce
	positions []geometry.Vector2D
	steering  []Steering
	scratch   [][]int // one candidate buffer per worker
}

// NewStepper validates cfg and returns a Stepper reading it at every tick.
// The caller may change cfg between ticks but must keep it valid.
func NewStepper(cfg *Config) (*Stepper, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	grid, err := spatial.NewGrid(cfg.CellSize)
	if err != nil {
		return nil, fmt.Errorf("creating spatial grid: %w", err)
	}
	return &Stepper{cfg: cfg, grid: grid}, nil
}

// Config returns the configuration read at tick time.
func (s *Stepper) Config() *Config {
	return s.cfg
}

// Grid exposes the spatial index built by the last tick.
func (s *Stepper) Grid() *spatial.Grid {
	return s.grid
}

// Step advances every agent by dt inside boundary b. All steering is computed
// from the pre-tick snapshot before any agent is integrated.
func (s *Stepper) Step(agents []Agent, dt float64, b Boundary) {
	n := len(agents)
	if n == 0 {
		return
	}
	if s.grid.CellSize() != s.cfg.CellSize {
		// retuned between ticks
		if g, err := spatial.NewGrid(s.cfg.CellSize); err == nil {
			s.grid = g
		}
	}

	// 1. index pre-tick positions
	s.positions = s.positions[:0]
	for i := range agents {
		s.positions = append(s.positions, agents[i].Position)
	}
	s.grid.Build(s.positions)
	s.brute.Build(s.positions)

	// 2. forces, read-only over agents
	if cap(s.steering) < n {
		s.steering = make([]Steering, n)
	}
	s.steering = s.steering[:n]
	s.computeForces(agents, dt)

	// 3. integrate
	for i := range agents {
		Integrate(&agents[i], s.steering[i], s.cfg.Params(agents[i].Role), dt, b)
	}
}

func (s *Stepper) computeForces(agents []Agent, dt float64) {
	n := len(agents)
	workers := s.cfg.Workers
	if workers > n/minAgentsPerWorker {
		workers = n / minAgentsPerWorker
	}
	if workers < 1 {
		workers = 1
	}
	for len(s.scratch) < workers {
		s.scratch = append(s.scratch, make([]int, 0, 64))
	}

	if workers == 1 {
		s.scratch[0] = s.computeRange(agents, 0, n, dt, s.scratch[0])
		return
	}

	chunk := (n + workers - 1) / workers
	var g errgroup.Group
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := min(lo+chunk, n)
		if lo >= hi {
			break
		}
		g.Go(func() error {
			s.scratch[w] = s.computeRange(agents, lo, hi, dt, s.scratch[w])
			return nil
		})
	}
	// barrier: integration must see every force computed from pre-tick state
	_ = g.Wait()
}

func (s *Stepper) computeRange(agents []Agent, lo, hi int, dt float64, buf []int) []int {
	for i := lo; i < hi; i++ {
		var q spatial.NeighborQuery = s.grid
		if agents[i].Role == RolePredator && s.cfg.PredatorBruteForce {
			q = &s.brute
		}
		buf = q.Neighbors(agents[i].Position, buf[:0])
		s.steering[i] = steer(i, agents, buf, s.cfg, dt)
	}
	return buf
}

// Tick advances agents by one step of dt seconds. It is the one-shot form of
// Stepper.Step for callers that do not keep a Stepper around.
func Tick(agents []Agent, cfg *Config, dt float64, b Boundary) error {
	if err := b.Validate(); err != nil {
		return err
	}
	s, err := NewStepper(cfg)
	if err != nil {
		return err
	}
	s.Step(agents, dt, b)
	return nil
}
