package simulation

import (
	"slices"

	"github.com/lao-tseu-is-alive/go-flocking-simulation/pkg/flocking"
)

// Snapshot is a copy of the flock after one tick, handed to the renderer.
// It shares no memory with the actor.
type Snapshot struct {
	Tick      uint64
	Boundary  flocking.Boundary
	Predator  flocking.RoleParams // for drawing the field of view
	Agents    []flocking.Agent
	Standard  int
	Predators int
}

func newSnapshot(tick uint64, b flocking.Boundary, cfg *flocking.Config, agents []flocking.Agent) *Snapshot {
	s := &Snapshot{
		Tick:     tick,
		Boundary: b,
		Predator: cfg.Predator,
		Agents:   slices.Clone(agents),
	}
	for i := range agents {
		if agents[i].Role == flocking.RolePredator {
			s.Predators++
		} else {
			s.Standard++
		}
	}
	return s
}
