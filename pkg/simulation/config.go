package simulation

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/lao-tseu-is-alive/go-flocking-simulation/pkg/flocking"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed flock.schema.json
var configSchema string

const configSchemaURL = "flock.schema.json"

// Config is the on-disk configuration of a simulation run.
type Config struct {
	// World Dimensions
	WorldWidth  float64 `json:"worldWidth"`
	WorldHeight float64 `json:"worldHeight"`

	// Population
	NumStandard  int `json:"numStandard"`
	NumPredators int `json:"numPredators"`

	TicksPerSecond int    `json:"ticksPerSecond"`
	Seed           uint64 `json:"seed"` // 0 picks a random seed

	DisplayFieldOfView   bool    `json:"displayFieldOfView"`
	StatsIntervalSeconds float64 `json:"statsIntervalSeconds"`

	Flocking flocking.Config `json:"flocking"`
}

// DefaultConfig is an 800x800 world with 80 boids and 4 predators.
func DefaultConfig() *Config {
	return &Config{
		WorldWidth:           800,
		WorldHeight:          800,
		NumStandard:          80,
		NumPredators:         4,
		TicksPerSecond:       60,
		DisplayFieldOfView:   true,
		StatsIntervalSeconds: 1,
		Flocking:             *flocking.DefaultConfig(),
	}
}

// Boundary returns the wrap-around rectangle of the configured world.
func (c *Config) Boundary() (flocking.Boundary, error) {
	return flocking.NewBoundary(c.WorldWidth, c.WorldHeight)
}

// Validate checks what the schema cannot express.
func (c *Config) Validate() error {
	if _, err := c.Boundary(); err != nil {
		return err
	}
	if c.TicksPerSecond <= 0 {
		return fmt.Errorf("%w: ticksPerSecond must be > 0", flocking.ErrInvalidConfig)
	}
	return c.Flocking.Validate()
}

// LoadConfig loads configuration from a JSON file, validates it against the
// embedded schema and overlays it on DefaultConfig, so omitted fields keep
// their default value.
func LoadConfig(configFile string) (*Config, error) {
	b, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseConfig(b)
}

// ParseConfig is LoadConfig for an in-memory document.
func ParseConfig(data []byte) (*Config, error) {
	// 1. Compile Schema
	sch, err := jsonschema.CompileString(configSchemaURL, configSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	// 2. Validate the generic document
	var v interface{}
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&v); err != nil {
		return nil, fmt.Errorf("failed to decode config json: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// 3. Unmarshal into Struct
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
