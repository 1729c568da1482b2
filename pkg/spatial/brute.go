package spatial

import "github.com/lao-tseu-is-alive/go-flocking-simulation/pkg/geometry"

// BruteForce is the unindexed strategy: every point is a candidate.
// It is O(n) per query, O(n²) per tick, and fine for a handful of scanners.
type BruteForce struct {
	n int
}

var _ NeighborQuery = (*BruteForce)(nil)

// Build records how many points exist; positions are not needed.
func (b *BruteForce) Build(positions []geometry.Vector2D) {
	b.n = len(positions)
}

// Neighbors appends every index 0..n-1 to dst.
func (b *BruteForce) Neighbors(_ geometry.Vector2D, dst []int) []int {
	for i := 0; i < b.n; i++ {
		dst = append(dst, i)
	}
	return dst
}
