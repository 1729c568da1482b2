package flocking

import (
	"github.com/lao-tseu-is-alive/go-flocking-simulation/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-flocking-simulation/pkg/spatial"
)

// CoverageReport counts neighbour pairs the grid's 3x3 sweep cannot see.
type CoverageReport struct {
	Pairs  int // ordered standard pairs within the radius
	Missed int // of those, pairs outside the 3x3 block
}

// MissRatio is Missed/Pairs, zero when there are no pairs.
func (r CoverageReport) MissRatio() float64 {
	if r.Pairs == 0 {
		return 0
	}
	return float64(r.Missed) / float64(r.Pairs)
}

// MeasureCoverage compares the grid sweep with an exact scan for the largest
// standard radius. It is O(n²) and meant for diagnostics, not for every tick.
func MeasureCoverage(agents []Agent, cfg *Config) (CoverageReport, error) {
	grid, err := spatial.NewGrid(cfg.CellSize)
	if err != nil {
		return CoverageReport{}, err
	}
	positions := make([]geometry.Vector2D, len(agents))
	for i := range agents {
		positions[i] = agents[i].Position
	}
	grid.Build(positions)

	radius := cfg.Standard.MaxRadius()
	radiusSq := radius * radius
	var report CoverageReport
	seen := make(map[int]struct{})
	var buf []int

	for i := range agents {
		if agents[i].Role != RoleStandard {
			continue
		}
		clear(seen)
		buf = grid.Neighbors(positions[i], buf[:0])
		for _, j := range buf {
			seen[j] = struct{}{}
		}
		for j := range agents {
			if j == i || agents[j].Role != RoleStandard {
				continue
			}
			if geometry.DistanceSquared(positions[i], positions[j]) >= radiusSq {
				continue
			}
			report.Pairs++
			if _, ok := seen[j]; !ok {
				report.Missed++
			}
		}
	}
	return report, nil
}
