package geometry

import "math"

// TwoPi is a full turn in radians.
const TwoPi = 2 * math.Pi

// ForwardOffset is subtracted from a velocity angle to get the visual heading:
// agents are drawn pointing up (+Y) when their rotation is zero.
const ForwardOffset = math.Pi / 2

// DistanceSquared returns the squared Euclidean distance between a and b.
func DistanceSquared(a, b Vector2D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}

// NormalizeAngle maps any angle (radians) into [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, TwoPi)
	if a < 0 {
		a += TwoPi
	}
	// math.Mod of a tiny negative value can round back up to exactly 2π
	if a >= TwoPi {
		a = 0
	}
	return a
}

// Heading returns the facing angle for velocity v: atan2(vy, vx) - π/2.
func Heading(v Vector2D) float64 {
	return math.Atan2(v.Y, v.X) - ForwardOffset
}

// PointInArc reports whether point lies inside the circular sector centred on
// center with the given radius, starting at startAngle and sweeping span
// radians counter-clockwise.
//
// The sector is not centred on startAngle: it only extends forward from it.
// When startAngle+span passes 2π the interval wraps through zero.
// A point exactly on center is always inside when radius > 0, and a span of
// 2π or more matches every bearing within radius.
func PointInArc(center Vector2D, radius, startAngle, span float64, point Vector2D) bool {
	dx := point.X - center.X
	dy := point.Y - center.Y
	distSq := dx*dx + dy*dy
	if distSq > radius*radius {
		return false
	}
	if distSq == 0 {
		return radius > 0
	}
	if span >= TwoPi {
		return true
	}

	bearing := NormalizeAngle(math.Atan2(dy, dx))
	start := NormalizeAngle(startAngle)
	end := start + span

	if end <= TwoPi {
		return bearing >= start && bearing <= end
	}
	// wraps around 0/2π
	return bearing >= start || bearing <= math.Mod(end, TwoPi)
}
