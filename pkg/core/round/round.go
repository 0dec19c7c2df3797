// Package round smooths the corners of orthogonal polylines.
//
// Every segment is first shrunk around its midpoint so that a radius r of
// free length is left at each end, but never below minScale of its original
// length. Each corner b between the shrunk ends a' and c' is then replaced by
// N points of the quarter ellipse
//
//	p(t) = (1 - sin t)(a' - b) + (1 - cos t)(c' - b) + b,  t in [0, π/2]
//
// which starts at a', bulges toward b and ends at c'. The first and last
// points of the path never move.
package round

import (
	"math"

	"github.com/matzehuels/gridwire/pkg/core/geom"
	"github.com/matzehuels/gridwire/pkg/errors"
)

// Default parameters.
const (
	DefaultRadius   = 3.0
	DefaultMinScale = 0.3
	DefaultPoints   = 11
)

// Rounder replaces polyline corners with elliptical fillets.
type Rounder struct {
	r        float64
	minScale float64
	n        int
}

// New validates the parameters: r >= 0, minScale in [0, 1], n >= 2.
func New(r, minScale float64, n int) (*Rounder, error) {
	if !(r >= 0) {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "round radius must be non-negative, got %g", r)
	}
	if !(minScale >= 0 && minScale <= 1) {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "round min scale must be in [0, 1], got %g", minScale)
	}
	if n < 2 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "round needs at least 2 points per corner, got %d", n)
	}
	return &Rounder{r: r, minScale: minScale, n: n}, nil
}

// Default returns a Rounder with the default parameters.
func Default() *Rounder {
	return &Rounder{r: DefaultRadius, minScale: DefaultMinScale, n: DefaultPoints}
}

// Round smooths a point path. The result has len(pts)-2 fillets of N points
// between the unchanged first and last point. Paths of fewer than three
// points have no corner and are returned as a copy.
func (rd *Rounder) Round(pts []geom.Point) []geom.Point {
	if len(pts) < 3 {
		return append([]geom.Point(nil), pts...)
	}

	// kept[i] is segment i shrunk around its midpoint.
	kept := make([][2]geom.Point, len(pts)-1)
	for i := range kept {
		a, b := pts[i], pts[i+1]
		mid := a.Add(b).Scale(0.5)
		s := rd.scale(math.Hypot(b.X-a.X, b.Y-a.Y))
		kept[i] = [2]geom.Point{
			a.Sub(mid).Scale(s).Add(mid),
			b.Sub(mid).Scale(s).Add(mid),
		}
	}
	kept[0][0] = pts[0]
	kept[len(kept)-1][1] = pts[len(pts)-1]

	out := make([]geom.Point, 0, 2+(len(pts)-2)*rd.n)
	out = append(out, pts[0])
	for i := 1; i < len(pts)-1; i++ {
		out = rd.fillet(out, kept[i-1][1], pts[i], kept[i][0])
	}
	return append(out, pts[len(pts)-1])
}

// RoundPolyline expands and smooths a staircase.
func (rd *Rounder) RoundPolyline(p geom.Polyline) ([]geom.Point, error) {
	pts, err := p.Points()
	if err != nil {
		return nil, err
	}
	return rd.Round(pts), nil
}

func (rd *Rounder) scale(length float64) float64 {
	if length == 0 {
		return rd.minScale
	}
	return max(rd.minScale, 1-2*rd.r/length)
}

func (rd *Rounder) fillet(out []geom.Point, a, b, c geom.Point) []geom.Point {
	da, dc := a.Sub(b), c.Sub(b)
	for k := range rd.n {
		t := math.Pi / 2 * float64(k) / float64(rd.n-1)
		out = append(out, da.Scale(1-math.Sin(t)).Add(dc.Scale(1-math.Cos(t))).Add(b))
	}
	return out
}
