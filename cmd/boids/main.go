// Command boids runs a flock without a window and reports throughput and how
// far the grid neighbour search drifts from an exhaustive one.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/lao-tseu-is-alive/go-flocking-simulation/pkg/flocking"
	"github.com/lao-tseu-is-alive/go-flocking-simulation/pkg/simulation"
	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"
	"google.golang.org/protobuf/types/known/structpb"
)

func main() {
	configPath := flag.String("config", "", "path to a JSON configuration file (defaults are used when empty)")
	ticks := flag.Int("ticks", 600, "number of ticks to run")
	workers := flag.Int("workers", -1, "override flocking.workers when >= 0")
	compare := flag.Bool("compare", true, "replay the run with a world-sized cell and report divergence")
	flag.Parse()

	logger := golog.New(golog.InfoLevel, os.Stdout)

	cfg := simulation.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = simulation.LoadConfig(*configPath); err != nil {
			logger.Fatalf("loading config: %v", err)
		}
	}
	if *workers >= 0 {
		cfg.Flocking.Workers = *workers
	}
	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}
	dt := time.Second / time.Duration(cfg.TicksPerSecond)

	ctx := context.Background()
	system, err := actor.NewActorSystem("FlockBench", actor.WithLogger(logger))
	if err != nil {
		logger.Fatalf("creating actor system: %v", err)
	}
	if err := system.Start(ctx); err != nil {
		logger.Fatalf("starting actor system: %v", err)
	}
	defer func() { _ = system.Stop(ctx) }()

	pid, err := simulation.SpawnFlock(ctx, system, cfg, nil)
	if err != nil {
		logger.Fatalf("%v", err)
	}

	start := time.Now()
	for range *ticks {
		if err := actor.Tell(ctx, pid, simulation.NewTick(dt)); err != nil {
			logger.Fatalf("sending tick: %v", err)
		}
	}
	reply, err := actor.Ask(ctx, pid, simulation.NewStatsRequest(), time.Minute)
	if err != nil {
		logger.Fatalf("asking stats: %v", err)
	}
	msg, ok := reply.(*structpb.Struct)
	if !ok {
		logger.Fatalf("unexpected stats reply %T", reply)
	}
	stats, err := simulation.StatsFromProto(msg)
	if err != nil {
		logger.Fatalf("%v", err)
	}
	elapsed := time.Since(start)
	logger.Infof("%s ticks of %d agents in %s (%s ticks/sec, %s per step)",
		humanize.Comma(int64(stats.Ticks)), stats.Standard+stats.Predators, elapsed.Round(time.Millisecond),
		humanize.FtoaWithDigits(float64(stats.Ticks)/elapsed.Seconds(), 1), stats.AvgStep)

	if *compare {
		if err := compareWithExhaustive(logger, cfg, *ticks, dt.Seconds()); err != nil {
			logger.Fatalf("%v", err)
		}
	}
}

// compareWithExhaustive runs the same flock twice from one seed, once with the
// configured cell size and once with a cell covering the whole world, which
// makes the 3x3 sweep see every agent.
func compareWithExhaustive(logger golog.Logger, cfg *simulation.Config, ticks int, dt float64) error {
	b, err := cfg.Boundary()
	if err != nil {
		return err
	}
	exhaustive := cfg.Flocking
	exhaustive.CellSize = 2 * max(b.HalfWidth, b.HalfHeight)

	gridAgents := spawn(cfg, b)
	fullAgents := spawn(cfg, b)

	report, err := flocking.MeasureCoverage(gridAgents, &cfg.Flocking)
	if err != nil {
		return err
	}
	logger.Infof("cellSize %.0f, largest grid radius %.0f: initial sweep misses %s of %s neighbour pairs (%.2f%%)",
		cfg.Flocking.CellSize, cfg.Flocking.MaxGridRadius(),
		humanize.Comma(int64(report.Missed)), humanize.Comma(int64(report.Pairs)), report.MissRatio()*100)

	gridStepper, err := flocking.NewStepper(&cfg.Flocking)
	if err != nil {
		return err
	}
	fullStepper, err := flocking.NewStepper(&exhaustive)
	if err != nil {
		return err
	}
	var worst float64
	for range ticks {
		gridStepper.Step(gridAgents, dt, b)
		fullStepper.Step(fullAgents, dt, b)
	}
	for i := range gridAgents {
		worst = max(worst, gridAgents[i].Position.DistanceTo(fullAgents[i].Position))
	}
	logger.Infof("after %s ticks the grid run diverges from the exhaustive run by up to %.2f units",
		humanize.Comma(int64(ticks)), worst)
	return nil
}

func spawn(cfg *simulation.Config, b flocking.Boundary) []flocking.Agent {
	rng := simulation.NewRand(cfg.Seed)
	agents := flocking.InitializeAgents(cfg.NumStandard, flocking.RoleStandard, cfg.Flocking.Standard, b, rng, 0)
	return append(agents, flocking.InitializeAgents(cfg.NumPredators, flocking.RolePredator,
		cfg.Flocking.Predator, b, rng, cfg.NumStandard)...)
}
