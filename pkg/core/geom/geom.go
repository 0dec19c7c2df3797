// Package geom holds the small geometric types shared by the layout, routing
// and rendering packages.
//
// Coordinates use a y-up convention: the first icon row sits just below
// y = 0 and every further row is more negative. Renderers that draw in a
// y-down space flip the sign.
package geom

import (
	"fmt"

	"github.com/matzehuels/gridwire/pkg/errors"
)

// Point is a 2-D coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p + q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Scale returns p * f.
func (p Point) Scale(f float64) Point { return Point{p.X * f, p.Y * f} }

func (p Point) String() string { return fmt.Sprintf("(%g,%g)", p.X, p.Y) }

// Polyline is an orthogonal staircase. Xs holds the x of every vertical run
// and Ys the y of every horizontal run, so len(Ys) == len(Xs)+1. The
// vertices are (Xs[0],Ys[0]), (Xs[0],Ys[1]), (Xs[1],Ys[1]), (Xs[1],Ys[2]), ...
// and the first segment is always vertical.
type Polyline struct {
	Xs []float64 `json:"xs"`
	Ys []float64 `json:"ys"`
}

// Validate checks the staircase shape.
func (p Polyline) Validate() error {
	if len(p.Xs) == 0 || len(p.Xs)+1 != len(p.Ys) {
		return errors.New(errors.ErrCodeMalformedPolyline, "polyline needs len(ys) == len(xs)+1, got %d xs and %d ys", len(p.Xs), len(p.Ys))
	}
	return nil
}

// Segments returns the number of horizontal runs.
func (p Polyline) Segments() int { return len(p.Xs) - 1 }

// Points expands the staircase into its 2*len(Xs) vertices.
func (p Polyline) Points() ([]Point, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	out := make([]Point, 0, 2*len(p.Xs))
	for i, x := range p.Xs {
		out = append(out, Point{x, p.Ys[i]}, Point{x, p.Ys[i+1]})
	}
	return out, nil
}

// Bounds returns the min and max corner of a point set.
func Bounds(pts []Point) (lo, hi Point) {
	if len(pts) == 0 {
		return lo, hi
	}
	lo, hi = pts[0], pts[0]
	for _, p := range pts[1:] {
		lo.X, lo.Y = min(lo.X, p.X), min(lo.Y, p.Y)
		hi.X, hi.Y = max(hi.X, p.X), max(hi.Y, p.Y)
	}
	return lo, hi
}
