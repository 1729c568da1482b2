package simulation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lao-tseu-is-alive/go-flocking-simulation/pkg/flocking"
	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"
	"google.golang.org/protobuf/types/known/structpb"
)

func newTestSystem(t *testing.T) actor.ActorSystem {
	t.Helper()
	ctx := context.Background()
	system, err := actor.NewActorSystem("FlockTest", actor.WithLogger(golog.DiscardLogger))
	if err != nil {
		t.Fatalf("NewActorSystem: %v", err)
	}
	if err := system.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { _ = system.Stop(ctx) })
	return system
}

func smallConfig() *Config {
	cfg := DefaultConfig()
	cfg.NumStandard = 20
	cfg.NumPredators = 2
	cfg.Seed = 42
	return cfg
}

func askStats(t *testing.T, ctx context.Context, pid *actor.PID) Stats {
	t.Helper()
	reply, err := actor.Ask(ctx, pid, NewStatsRequest(), 5*time.Second)
	if err != nil {
		t.Fatalf("Ask stats: %v", err)
	}
	msg, ok := reply.(*structpb.Struct)
	if !ok {
		t.Fatalf("stats reply is %T", reply)
	}
	stats, err := StatsFromProto(msg)
	if err != nil {
		t.Fatalf("StatsFromProto: %v", err)
	}
	return stats
}

func TestFlockActor_TicksAndSnapshots(t *testing.T) {
	ctx := context.Background()
	system := newTestSystem(t)
	snapshots := make(chan *Snapshot, 1)

	pid, err := SpawnFlock(ctx, system, smallConfig(), snapshots)
	if err != nil {
		t.Fatalf("SpawnFlock: %v", err)
	}

	for range 3 {
		if err := actor.Tell(ctx, pid, NewTick(16*time.Millisecond)); err != nil {
			t.Fatalf("Tell tick: %v", err)
		}
	}

	stats := askStats(t, ctx, pid)
	if stats.Ticks != 3 {
		t.Errorf("Ticks = %d; want 3", stats.Ticks)
	}
	if stats.Standard != 20 || stats.Predators != 2 {
		t.Errorf("population = %d/%d; want 20/2", stats.Standard, stats.Predators)
	}
	if stats.Width != 800 || stats.Height != 800 {
		t.Errorf("world = %vx%v; want 800x800", stats.Width, stats.Height)
	}

	select {
	case snap := <-snapshots:
		// the buffer holds the first snapshot, later ones were dropped
		if snap.Tick != 1 {
			t.Errorf("snapshot tick = %d; want 1", snap.Tick)
		}
		if len(snap.Agents) != 22 || snap.Standard != 20 || snap.Predators != 2 {
			t.Errorf("snapshot has %d agents (%d/%d)", len(snap.Agents), snap.Standard, snap.Predators)
		}
		for _, a := range snap.Agents {
			if a.Velocity.Len() > 150+1e-9 || !a.Position.IsFinite() {
				t.Errorf("agent %d broke the speed cap: %+v", a.ID, a)
			}
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no snapshot received")
	}
}

func TestFlockActor_ResizeAndReset(t *testing.T) {
	ctx := context.Background()
	system := newTestSystem(t)

	pid, err := SpawnFlock(ctx, system, smallConfig(), nil)
	if err != nil {
		t.Fatalf("SpawnFlock: %v", err)
	}

	_ = actor.Tell(ctx, pid, NewTick(16*time.Millisecond))
	_ = actor.Tell(ctx, pid, NewResize(400, 300))
	stats := askStats(t, ctx, pid)
	if stats.Width != 400 || stats.Height != 300 {
		t.Errorf("after resize world = %vx%v; want 400x300", stats.Width, stats.Height)
	}

	// invalid sizes are ignored
	_ = actor.Tell(ctx, pid, NewResize(0, 300))
	if stats = askStats(t, ctx, pid); stats.Width != 400 {
		t.Errorf("invalid resize applied: width %v", stats.Width)
	}

	_ = actor.Tell(ctx, pid, NewReset())
	stats = askStats(t, ctx, pid)
	if stats.Ticks != 0 {
		t.Errorf("Ticks after reset = %d; want 0", stats.Ticks)
	}
	if stats.Standard != 20 || stats.Predators != 2 {
		t.Errorf("population after reset = %d/%d; want 20/2", stats.Standard, stats.Predators)
	}
}

func TestSpawnFlock_InvalidConfig(t *testing.T) {
	ctx := context.Background()
	system := newTestSystem(t)

	cfg := smallConfig()
	cfg.Flocking.CellSize = 0
	if _, err := SpawnFlock(ctx, system, cfg, nil); !errors.Is(err, flocking.ErrInvalidConfig) {
		t.Errorf("SpawnFlock error = %v; want ErrInvalidConfig", err)
	}

	cfg = smallConfig()
	cfg.WorldWidth = -1
	if _, err := SpawnFlock(ctx, system, cfg, nil); !errors.Is(err, flocking.ErrInvalidBoundary) {
		t.Errorf("SpawnFlock error = %v; want ErrInvalidBoundary", err)
	}
}

func TestNewSnapshot_IsACopy(t *testing.T) {
	cfg := flocking.DefaultConfig()
	b, _ := flocking.NewBoundary(100, 100)
	agents := []flocking.Agent{
		{ID: 0, Role: flocking.RoleStandard},
		{ID: 1, Role: flocking.RolePredator},
	}
	snap := newSnapshot(7, b, cfg, agents)
	agents[0].Position.X = 42

	if snap.Agents[0].Position.X != 0 {
		t.Error("snapshot shares memory with the live agents")
	}
	if snap.Tick != 7 || snap.Standard != 1 || snap.Predators != 1 {
		t.Errorf("snapshot = tick %d, %d/%d", snap.Tick, snap.Standard, snap.Predators)
	}
	if snap.Predator.SeparationRadius != cfg.Predator.SeparationRadius {
		t.Error("snapshot lost predator params")
	}
}

func BenchmarkFlockActor_Step(b *testing.B) {
	cfg := DefaultConfig()
	cfg.Seed = 1
	f := NewFlockActor(cfg, nil)
	bd, _ := cfg.Boundary()
	f.boundary = bd
	f.stepper, _ = flocking.NewStepper(&f.flock)
	f.rng = NewRand(cfg.Seed)
	f.spawn()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f.step(16 * time.Millisecond)
	}
}
