package flocking

import "github.com/lao-tseu-is-alive/go-flocking-simulation/pkg/geometry"

// Steering is the per-tick output of the force phase for one agent.
type Steering struct {
	// Vector is an acceleration, or a velocity delta when Delta is set.
	Vector geometry.Vector2D
	Delta  bool
}

// ComputeSteering returns the blended flocking acceleration of agents[self]
// from the candidate indices. Candidates may include self and agents of other
// roles; both are ignored. Radii are re-checked exactly here, so candidates
// can be any superset of the true neighbours.
func ComputeSteering(self int, agents []Agent, candidates []int, p RoleParams) geometry.Vector2D {
	me := &agents[self]
	pos, vel := me.Position, me.Velocity
	heading := geometry.Heading(vel)

	alignRadSq := p.AlignmentRadius * p.AlignmentRadius
	cohRadSq := p.CohesionRadius * p.CohesionRadius

	var (
		velSum, posSum geometry.Vector2D
		alignCount     int
		cohCount       int
		repulsion      geometry.Vector2D
	)

	for _, j := range candidates {
		if j == self {
			continue
		}
		other := &agents[j]
		if other.Role != RoleStandard {
			continue
		}
		distSq := geometry.DistanceSquared(pos, other.Position)

		if distSq < alignRadSq {
			velSum = velSum.Add(other.Velocity)
			alignCount++
		}
		if distSq < cohRadSq {
			posSum = posSum.Add(other.Position)
			cohCount++
		}
		if distSq > SeparationEpsilon &&
			geometry.PointInArc(pos, p.SeparationRadius, heading, p.SeparationAngle, other.Position) {
			// (pi - pj) / d²: magnitude falls off as 1/d
			repulsion = repulsion.Add(pos.Sub(other.Position).Mul(1 / distSq))
		}
	}

	var cohesion, alignment, separation geometry.Vector2D
	if cohCount > 0 {
		center := posSum.Mul(1 / float64(cohCount))
		cohesion = seek(center.Sub(pos), vel, p)
	}
	if alignCount > 0 {
		avgVel := velSum.Mul(1 / float64(alignCount))
		alignment = seek(avgVel, vel, p)
	}
	if !repulsion.IsZero() {
		separation = repulsion.SetLen(p.MaxSteeringForce)
	}

	return alignment.Mul(p.AlignmentStrength).
		Add(separation.Mul(p.SeparationStrength)).
		Add(cohesion.Mul(p.CohesionStrength))
}

// seek is Reynolds steering: desired direction at full speed minus the
// current velocity, capped at MaxSteeringForce.
func seek(direction, vel geometry.Vector2D, p RoleParams) geometry.Vector2D {
	desired := direction.SetLen(p.MaxSpeed)
	return desired.Sub(vel).Limit(p.MaxSteeringForce)
}

// ComputeAvoidance returns the predator's repulsion from the standard agents
// inside its field-of-view arc, scaled to AvoidanceStrength. There is no
// steering clamp on this path.
func ComputeAvoidance(self int, agents []Agent, candidates []int, p RoleParams) geometry.Vector2D {
	me := &agents[self]
	pos := me.Position
	heading := geometry.Heading(me.Velocity)

	var avoidance geometry.Vector2D
	for _, j := range candidates {
		if j == self {
			continue
		}
		other := &agents[j]
		if other.Role != RoleStandard {
			continue
		}
		distSq := geometry.DistanceSquared(pos, other.Position)
		if distSq <= SeparationEpsilon {
			continue
		}
		if geometry.PointInArc(pos, p.SeparationRadius, heading, p.SeparationAngle, other.Position) {
			avoidance = avoidance.Add(pos.Sub(other.Position).Mul(1 / distSq))
		}
	}
	if avoidance.IsZero() {
		return geometry.Zero
	}
	return avoidance.SetLen(p.AvoidanceStrength)
}

// steer dispatches on the agent's role.
func steer(self int, agents []Agent, candidates []int, cfg *Config, dt float64) Steering {
	switch agents[self].Role {
	case RolePredator:
		avoid := ComputeAvoidance(self, agents, candidates, cfg.Predator)
		return Steering{Vector: avoid.Mul(dt), Delta: true}
	default:
		return Steering{Vector: ComputeSteering(self, agents, candidates, cfg.Standard)}
	}
}
