package main

import (
	"context"
	"flag"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/lao-tseu-is-alive/go-flocking-simulation/pkg/simulation"
	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"
)

func main() {
	configPath := flag.String("config", "", "path to a JSON configuration file (defaults are used when empty)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	level := golog.InfoLevel
	if *debug {
		level = golog.DebugLevel
	}
	logger := golog.New(level, os.Stdout)

	cfg := simulation.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = simulation.LoadConfig(*configPath); err != nil {
			logger.Fatalf("loading config: %v", err)
		}
	}

	ctx := context.Background()
	system, err := actor.NewActorSystem("FlockWorld",
		actor.WithLogger(logger),
		actor.WithActorInitMaxRetries(3))
	if err != nil {
		logger.Fatalf("creating actor system: %v", err)
	}
	if err := system.Start(ctx); err != nil {
		logger.Fatalf("starting actor system: %v", err)
	}
	defer func() { _ = system.Stop(ctx) }()

	game, err := simulation.NewGame(ctx, cfg, system)
	if err != nil {
		logger.Fatalf("creating game: %v", err)
	}

	ebiten.SetWindowSize(int(cfg.WorldWidth), int(cfg.WorldHeight))
	ebiten.SetWindowTitle("Flocking: boids and predators")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.TicksPerSecond)
	if err := ebiten.RunGame(game); err != nil {
		logger.Errorf("game stopped: %v", err)
	}
}
