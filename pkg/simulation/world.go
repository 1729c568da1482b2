package simulation

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/lao-tseu-is-alive/go-flocking-simulation/pkg/flocking"
	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/goaktpb"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// FlockActor owns the authoritative agent slice and advances it on every
// tick message. Snapshots are pushed to the renderer without blocking.
type FlockActor struct {
	cfg        *Config
	flock      flocking.Config // live copy, retuned by strengths messages
	stepper    *flocking.Stepper
	boundary   flocking.Boundary
	agents     []flocking.Agent
	rng        *rand.Rand
	snapshotCh chan<- *Snapshot

	ticks uint64

	// --- Benchmark Stats ---
	ticksSinceLog int
	stepTotal     time.Duration
	stepCount     int64
	lastLogTime   time.Time
}

// NewFlockActor creates the flock logic unit. snapshotCh may be nil.
func NewFlockActor(cfg *Config, snapshotCh chan<- *Snapshot) *FlockActor {
	return &FlockActor{
		cfg:        cfg,
		flock:      cfg.Flocking,
		snapshotCh: snapshotCh,
	}
}

func (f *FlockActor) PreStart(ctx *actor.Context) error {
	logger := ctx.ActorSystem().Logger()

	if err := f.cfg.Validate(); err != nil {
		return err
	}
	b, err := f.cfg.Boundary()
	if err != nil {
		return err
	}
	f.boundary = b
	if f.stepper, err = flocking.NewStepper(&f.flock); err != nil {
		return fmt.Errorf("creating stepper: %w", err)
	}

	seed := f.cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	f.rng = NewRand(seed)
	f.spawn()
	logger.Infof("Flock ready: %d standard, %d predators in %.0fx%.0f (seed %d)",
		f.cfg.NumStandard, f.cfg.NumPredators, f.cfg.WorldWidth, f.cfg.WorldHeight, seed)

	if !f.flock.GridCoversRadii() {
		report, err := flocking.MeasureCoverage(f.agents, &f.flock)
		if err != nil {
			return err
		}
		logger.Warnf("cellSize %.0f is below the largest grid radius %.0f: initial sweep misses %d of %d neighbour pairs (%.1f%%)",
			f.flock.CellSize, f.flock.MaxGridRadius(), report.Missed, report.Pairs, report.MissRatio()*100)
	}
	f.lastLogTime = time.Now()
	return nil
}

func (f *FlockActor) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {

	case *goaktpb.PostStart:
		ctx.Logger().Infof("Flock %s started", ctx.Self().Name())

	// The Main Simulation Step (Driven by Game Loop)
	case *durationpb.Duration:
		f.step(msg.AsDuration())
		f.pushSnapshot()
		f.logBenchmarks(ctx)

	case *structpb.Struct:
		f.handleControl(ctx, msg)

	case *emptypb.Empty:
		f.spawn()
		f.ticks = 0
		ctx.Logger().Info("Flock reset")

	default:
		ctx.Unhandled()
	}
}

func (f *FlockActor) PostStop(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Infof("Flock stopped after %s ticks", humanize.Comma(int64(f.ticks)))
	return nil
}

func (f *FlockActor) step(dt time.Duration) {
	if dt <= 0 {
		return
	}
	start := time.Now()
	f.stepper.Step(f.agents, dt.Seconds(), f.boundary)
	f.stepTotal += time.Since(start)
	f.stepCount++
	f.ticks++
	f.ticksSinceLog++
}

func (f *FlockActor) handleControl(ctx *actor.ReceiveContext, msg *structpb.Struct) {
	switch Kind(msg) {
	case KindResize:
		w, h, err := ParseResize(msg)
		if err == nil {
			var b flocking.Boundary
			if b, err = flocking.NewBoundary(w, h); err == nil {
				f.boundary = b
				ctx.Logger().Debugf("World resized to %.0fx%.0f", w, h)
			}
		}
		if err != nil {
			ctx.Logger().Warnf("ignoring resize: %v", err)
		}

	case KindStrengths:
		s, err := ParseStrengths(msg)
		if err != nil {
			ctx.Logger().Warnf("ignoring strengths: %v", err)
			return
		}
		// read by the stepper at the next tick
		f.flock.Standard.SeparationStrength = s.Separation
		f.flock.Standard.AlignmentStrength = s.Alignment
		f.flock.Standard.CohesionStrength = s.Cohesion

	case KindStats:
		ctx.Response(f.stats().ToProto())

	default:
		ctx.Unhandled()
	}
}

func (f *FlockActor) spawn() {
	f.agents = f.agents[:0]
	f.agents = append(f.agents, flocking.InitializeAgents(f.cfg.NumStandard, flocking.RoleStandard,
		f.flock.Standard, f.boundary, f.rng, 0)...)
	f.agents = append(f.agents, flocking.InitializeAgents(f.cfg.NumPredators, flocking.RolePredator,
		f.flock.Predator, f.boundary, f.rng, f.cfg.NumStandard)...)
}

// NewRand returns the generator a flock seeded with seed spawns from.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func (f *FlockActor) stats() Stats {
	s := Stats{
		Ticks:  f.ticks,
		Width:  f.boundary.HalfWidth * 2,
		Height: f.boundary.HalfHeight * 2,
	}
	if f.stepCount > 0 {
		s.AvgStep = f.stepTotal / time.Duration(f.stepCount)
	}
	for i := range f.agents {
		if f.agents[i].Role == flocking.RolePredator {
			s.Predators++
		} else {
			s.Standard++
		}
	}
	return s
}

func (f *FlockActor) pushSnapshot() {
	if f.snapshotCh == nil {
		return
	}
	select {
	case f.snapshotCh <- newSnapshot(f.ticks, f.boundary, &f.flock, f.agents):
	default:
		// UI busy, skip frame
	}
}

func (f *FlockActor) logBenchmarks(ctx *actor.ReceiveContext) {
	interval := time.Duration(f.cfg.StatsIntervalSeconds * float64(time.Second))
	elapsed := time.Since(f.lastLogTime)
	if interval <= 0 || elapsed < interval {
		return
	}
	rate := float64(f.ticksSinceLog) / elapsed.Seconds()
	var avg time.Duration
	if f.stepCount > 0 {
		avg = f.stepTotal / time.Duration(f.stepCount)
	}
	ctx.Logger().Infof("📊 TICK RATE: %s/sec | Ticks: %s | Agents: %d | Step: %s",
		humanize.FtoaWithDigits(rate, 1), humanize.Comma(int64(f.ticks)), len(f.agents), avg)
	f.ticksSinceLog = 0
	f.lastLogTime = time.Now()
}

// SpawnFlock starts a FlockActor under a unique name so several flocks can
// share one actor system.
func SpawnFlock(ctx context.Context, system actor.ActorSystem, cfg *Config, snapshotCh chan<- *Snapshot) (*actor.PID, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	name := "flock-" + uuid.NewString()
	pid, err := system.Spawn(ctx, name, NewFlockActor(cfg, snapshotCh))
	if err != nil {
		return nil, fmt.Errorf("failed to spawn flock %s: %w", name, err)
	}
	return pid, nil
}
