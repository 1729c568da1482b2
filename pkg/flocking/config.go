package flocking

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig wraps every configuration validation failure.
var ErrInvalidConfig = errors.New("invalid flocking config")

// SeparationEpsilon is the squared distance under which two agents count as
// coincident and exert no separation force on each other.
const SeparationEpsilon = 1e-5

// RoleParams are the tuning constants of one role.
type RoleParams struct {
	BaseSpeed        float64 `json:"baseSpeed"`        // initial speed on each axis
	MaxSpeed         float64 `json:"maxSpeed"`         // velocity magnitude cap
	MaxSteeringForce float64 `json:"maxSteeringForce"` // cap on each steering term

	SeparationRadius float64 `json:"separationRadius"` // field-of-view radius
	SeparationAngle  float64 `json:"separationAngle"`  // field-of-view span, radians, from the heading
	AlignmentRadius  float64 `json:"alignmentRadius"`
	CohesionRadius   float64 `json:"cohesionRadius"`

	SeparationStrength float64 `json:"separationStrength"`
	AlignmentStrength  float64 `json:"alignmentStrength"`
	CohesionStrength   float64 `json:"cohesionStrength"`

	// AvoidanceStrength is the magnitude of the predator's repulsion.
	AvoidanceStrength float64 `json:"avoidanceStrength"`
}

// MaxRadius is the largest interaction radius the role uses.
func (p RoleParams) MaxRadius() float64 {
	return math.Max(p.SeparationRadius, math.Max(p.AlignmentRadius, p.CohesionRadius))
}

func (p RoleParams) validate(role Role) error {
	fields := []struct {
		name  string
		value float64
	}{
		{"baseSpeed", p.BaseSpeed},
		{"maxSpeed", p.MaxSpeed},
		{"maxSteeringForce", p.MaxSteeringForce},
		{"separationRadius", p.SeparationRadius},
		{"separationAngle", p.SeparationAngle},
		{"alignmentRadius", p.AlignmentRadius},
		{"cohesionRadius", p.CohesionRadius},
		{"separationStrength", p.SeparationStrength},
		{"alignmentStrength", p.AlignmentStrength},
		{"cohesionStrength", p.CohesionStrength},
		{"avoidanceStrength", p.AvoidanceStrength},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s.%s is not finite", ErrInvalidConfig, role, f.name)
		}
	}
	if p.MaxSpeed <= 0 {
		return fmt.Errorf("%w: %s.maxSpeed must be > 0, got %v", ErrInvalidConfig, role, p.MaxSpeed)
	}
	if p.BaseSpeed < 0 || p.MaxSteeringForce < 0 {
		return fmt.Errorf("%w: %s speeds and forces must be >= 0", ErrInvalidConfig, role)
	}
	if p.SeparationRadius < 0 || p.AlignmentRadius < 0 || p.CohesionRadius < 0 || p.SeparationAngle < 0 {
		return fmt.Errorf("%w: %s radii and angles must be >= 0", ErrInvalidConfig, role)
	}
	return nil
}

// Config holds every parameter the core reads at tick time.
type Config struct {
	Standard RoleParams `json:"standard"`
	Predator RoleParams `json:"predator"`

	// CellSize is the spatial grid cell edge. The 3x3 neighbour sweep is only
	// guaranteed complete when it is >= every radius used through the grid.
	CellSize float64 `json:"cellSize"`

	// Workers splits the force phase across goroutines; <= 1 runs it inline.
	Workers int `json:"workers"`

	// PredatorBruteForce makes predators scan every agent instead of the grid.
	PredatorBruteForce bool `json:"predatorBruteForce"`
}

// DefaultConfig returns the stock parameters:
// agents move at 150 units/s, predators see 100 units ahead.
// CellSize (50) is smaller than the standard cohesion radius (75); see
// GridCoversRadii.
func DefaultConfig() *Config {
	return &Config{
		Standard: RoleParams{
			BaseSpeed:          150,
			MaxSpeed:           150,
			MaxSteeringForce:   300,
			SeparationRadius:   25,
			SeparationAngle:    math.Pi,
			AlignmentRadius:    50,
			CohesionRadius:     75,
			SeparationStrength: 1.5,
			AlignmentStrength:  1.0,
			CohesionStrength:   1.0,
		},
		Predator: RoleParams{
			BaseSpeed:         150,
			MaxSpeed:          150,
			SeparationRadius:  100,
			SeparationAngle:   math.Pi / 2,
			AvoidanceStrength: 150,
		},
		CellSize:           50,
		Workers:            1,
		PredatorBruteForce: true,
	}
}

// Params returns the parameters for role.
func (c *Config) Params(role Role) RoleParams {
	if role == RolePredator {
		return c.Predator
	}
	return c.Standard
}

// Validate reports configuration errors that must stop the simulation at
// setup. It does not reject a cell size smaller than the radii.
func (c *Config) Validate() error {
	if !(c.CellSize > 0) || math.IsInf(c.CellSize, 0) {
		return fmt.Errorf("%w: cellSize must be > 0, got %v", ErrInvalidConfig, c.CellSize)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0, got %d", ErrInvalidConfig, c.Workers)
	}
	if err := c.Standard.validate(RoleStandard); err != nil {
		return err
	}
	return c.Predator.validate(RolePredator)
}

// MaxGridRadius is the largest radius queried through the grid.
func (c *Config) MaxGridRadius() float64 {
	r := c.Standard.MaxRadius()
	if !c.PredatorBruteForce {
		r = math.Max(r, c.Predator.SeparationRadius)
	}
	return r
}

// GridCoversRadii reports whether the 3x3 grid sweep is guaranteed to find
// every neighbour within the configured radii. When false, neighbours farther
// than one cell away can be missed.
func (c *Config) GridCoversRadii() bool {
	return c.CellSize >= c.MaxGridRadius()
}
