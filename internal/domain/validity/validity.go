// Package validity flags observations outside the small-u range in which
// the Cooper-Jacob straight-line approximation holds.
package validity

import "github.com/okian/drawdown/internal/domain/model"

// DefaultThreshold is the largest u for which the approximation is accepted.
const DefaultThreshold = 0.05

// Included reports whether u is within threshold. The boundary is inclusive.
func Included(u, threshold float64) bool {
	return u <= threshold
}

// Annotate sets Included on each point from its U and returns the number of
// excluded points. Points are updated in place; they belong to the result.
func Annotate(points []model.PointDiagnostic, threshold float64) int {
	excluded := 0
	for i := range points {
		points[i].Included = Included(points[i].U, threshold)
		if !points[i].Included {
			excluded++
		}
	}
	return excluded
}

// TimeAtThreshold returns the time at which u falls to threshold for an
// observation well at radius, t = r²S/(4T·threshold).
func TimeAtThreshold(radius, storativity, transmissivity, threshold float64) float64 {
	return radius * radius * storativity / (4 * transmissivity * threshold)
}

// IncludedOnly returns the observations whose points are marked included,
// preserving order.
func IncludedOnly(obs []model.Observation, points []model.PointDiagnostic) []model.Observation {
	out := make([]model.Observation, 0, len(obs))
	for i, p := range points {
		if p.Included && i < len(obs) {
			out = append(out, obs[i])
		}
	}
	return out
}
