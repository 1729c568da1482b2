// Package flocking is the per-tick core of the simulation: steering forces
// for every agent, integration with toroidal wraparound, and the driver that
// sequences both over a spatial index.
package flocking

import (
	"math/rand/v2"

	"github.com/lao-tseu-is-alive/go-flocking-simulation/pkg/geometry"
)

// Role selects which behaviour an agent runs each tick.
type Role int

const (
	// RoleStandard agents flock: separation, alignment and cohesion with
	// other standard agents. They do not see predators.
	RoleStandard Role = iota
	// RolePredator agents only steer away from the standard agents in their
	// field of view.
	RolePredator
)

func (r Role) String() string {
	switch r {
	case RoleStandard:
		return "standard"
	case RolePredator:
		return "predator"
	default:
		return "unknown"
	}
}

// Agent is one simulated flocking entity. Agents never reference each other:
// all interaction goes through indices into the agent slice.
type Agent struct {
	ID          int
	Role        Role
	Position    geometry.Vector2D
	Velocity    geometry.Vector2D
	Orientation float64 // rotation about the plane normal, radians
}

// InitializeAgents creates count agents of the given role, placed uniformly
// inside b, each velocity axis set independently to ±p.BaseSpeed.
// IDs start at firstID so several populations can share one slice.
func InitializeAgents(count int, role Role, p RoleParams, b Boundary, rng *rand.Rand, firstID int) []Agent {
	rect := b.Rect()
	w := rect.Max.X() - rect.Min.X()
	h := rect.Max.Y() - rect.Min.Y()

	agents := make([]Agent, count)
	for i := range agents {
		vel := geometry.Vector2D{X: randomSign(rng) * p.BaseSpeed, Y: randomSign(rng) * p.BaseSpeed}
		agents[i] = Agent{
			ID:   firstID + i,
			Role: role,
			Position: geometry.Vector2D{
				X: rect.Min.X() + rng.Float64()*w,
				Y: rect.Min.Y() + rng.Float64()*h,
			},
			Velocity:    vel,
			Orientation: geometry.Heading(vel),
		}
	}
	return agents
}

func randomSign(rng *rand.Rand) float64 {
	if rng.IntN(2) == 0 {
		return -1
	}
	return 1
}
