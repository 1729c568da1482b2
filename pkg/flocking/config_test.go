package flocking

import (
	"errors"
	"math"
	"testing"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
	// the default parameterization sweeps 3x3 cells smaller than the
	// cohesion radius; this is reported, not corrected
	if cfg.GridCoversRadii() {
		t.Errorf("default cell size %v unexpectedly covers radius %v", cfg.CellSize, cfg.MaxGridRadius())
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero cell size", func(c *Config) { c.CellSize = 0 }},
		{"negative cell size", func(c *Config) { c.CellSize = -1 }},
		{"NaN cell size", func(c *Config) { c.CellSize = math.NaN() }},
		{"negative workers", func(c *Config) { c.Workers = -2 }},
		{"zero max speed", func(c *Config) { c.Standard.MaxSpeed = 0 }},
		{"negative predator max speed", func(c *Config) { c.Predator.MaxSpeed = -5 }},
		{"negative radius", func(c *Config) { c.Standard.CohesionRadius = -1 }},
		{"infinite strength", func(c *Config) { c.Standard.CohesionStrength = math.Inf(1) }},
		{"negative steering force", func(c *Config) { c.Standard.MaxSteeringForce = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v; want ErrInvalidConfig", err)
			}
		})
	}
}

func TestConfig_MaxGridRadius(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.MaxGridRadius(); got != 75 {
		t.Errorf("MaxGridRadius = %v; want 75", got)
	}
	cfg.PredatorBruteForce = false
	if got := cfg.MaxGridRadius(); got != 100 {
		t.Errorf("MaxGridRadius with grid predators = %v; want 100", got)
	}
	cfg.CellSize = 100
	if !cfg.GridCoversRadii() {
		t.Error("cell size 100 should cover radius 100")
	}
}

func TestConfig_Params(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Params(RolePredator) != cfg.Predator {
		t.Error("Params(RolePredator) did not return predator params")
	}
	if cfg.Params(RoleStandard) != cfg.Standard {
		t.Error("Params(RoleStandard) did not return standard params")
	}
}
