package flocking

import "github.com/lao-tseu-is-alive/go-flocking-simulation/pkg/geometry"

// Integrate advances one agent by dt:
//
//  1. velocity += acceleration*dt, or += the delta for velocity-delta steering
//  2. velocity is scaled down to MaxSpeed if faster
//  3. the pre-displacement position is wrapped to the opposite edge on any
//     axis strictly outside b
//  4. position += velocity*dt
//  5. orientation = atan2(vy, vx) - π/2
//
// Wrapping before the displacement means an agent can sit up to |v|*dt past
// the edge until the next tick corrects it.
func Integrate(a *Agent, s Steering, p RoleParams, dt float64, b Boundary) {
	if s.Delta {
		a.Velocity = a.Velocity.Add(s.Vector)
	} else {
		a.Velocity = a.Velocity.Add(s.Vector.Mul(dt))
	}
	a.Velocity = a.Velocity.Limit(p.MaxSpeed)

	a.Position = b.Wrap(a.Position)
	a.Position = a.Position.Add(a.Velocity.Mul(dt))

	a.Orientation = geometry.Heading(a.Velocity)
}
