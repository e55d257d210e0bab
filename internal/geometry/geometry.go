// Package geometry provides the pure measurement math used by the takeoff
// engine: distances, path lengths over sequential and branching polylines,
// quadratic curve lengths, and polygon area/centroid.
//
// All functions operate in page-pixel space. Callers divide by the page
// scale to obtain real-world units.
package geometry

import (
	"math"

	"gonum.org/v1/gonum/integrate/quad"
	"gonum.org/v1/gonum/spatial/r2"
)

// Point is a vertex of a measurement in page-pixel coordinates.
//
// ConnectsTo lists outgoing edges to other indices of the same point
// sequence. When any point of a sequence carries edges, the sequence is a
// graph and sequential adjacency no longer defines edges.
//
// ControlPoint, when set, makes the incoming edge that ends at this point a
// quadratic Bézier curve.
type Point struct {
	X            float64 `json:"x" yaml:"x"`
	Y            float64 `json:"y" yaml:"y"`
	ConnectsTo   []int   `json:"connects_to,omitempty" yaml:"connects_to,omitempty"`
	ControlPoint *Point  `json:"control_point,omitempty" yaml:"control_point,omitempty"`
}

// Pt is shorthand for a plain point without edges or curve control.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (p Point) vec() r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}

// gaussPoints is the number of Gauss–Legendre nodes used for curve length.
const gaussPoints = 3

// Distance returns the Euclidean distance between two points.
func Distance(p1, p2 Point) float64 {
	return r2.Norm(r2.Sub(p2.vec(), p1.vec()))
}

// QuadraticLength returns the arc length of the quadratic Bézier curve from
// start to end with control point ctrl.
func QuadraticLength(start, ctrl, end Point) float64 {
	a := r2.Scale(2, r2.Sub(ctrl.vec(), start.vec()))
	b := r2.Scale(2, r2.Sub(end.vec(), ctrl.vec()))
	speed := func(t float64) float64 {
		// B'(t) = 2(1-t)(P1-P0) + 2t(P2-P1)
		return r2.Norm(r2.Add(r2.Scale(1-t, a), r2.Scale(t, b)))
	}
	return quad.Fixed(speed, 0, 1, gaussPoints, quad.Legendre{}, 0)
}

// edgeLength measures the edge from a to b, honouring b's control point.
func edgeLength(a, b Point) float64 {
	if b.ControlPoint != nil {
		return QuadraticLength(a, *b.ControlPoint, b)
	}
	return Distance(a, b)
}

// IsGraph reports whether any point in the sequence carries graph edges.
func IsGraph(points []Point) bool {
	for _, p := range points {
		if len(p.ConnectsTo) > 0 {
			return true
		}
	}
	return false
}

// PathLength returns the total length of an open path. Graph paths sum
// every ConnectsTo edge; sequential paths sum consecutive pairs. Edges that
// point outside the sequence are ignored.
func PathLength(points []Point) float64 {
	if len(points) < 2 {
		return 0
	}
	var total float64
	if IsGraph(points) {
		for _, src := range points {
			for _, idx := range src.ConnectsTo {
				if idx < 0 || idx >= len(points) {
					continue
				}
				total += edgeLength(src, points[idx])
			}
		}
		return total
	}
	for i := 1; i < len(points); i++ {
		total += edgeLength(points[i-1], points[i])
	}
	return total
}

// ClosedPathLength returns the perimeter of a closed shape. Sequential
// sequences gain the closing edge from the last point back to the first,
// curved when the first point has a control point. Graph sequences already
// define every edge explicitly and are measured as-is; appending the first
// point to them would count an edge that is not in the graph.
func ClosedPathLength(points []Point) float64 {
	if len(points) < 2 || IsGraph(points) {
		return PathLength(points)
	}
	closed := make([]Point, 0, len(points)+1)
	closed = append(closed, points...)
	closed = append(closed, points[0])
	return PathLength(closed)
}

func cross(a, b r2.Vec) float64 {
	return a.X*b.Y - b.X*a.Y
}

// quadraticMidpoint evaluates the quadratic Bézier at t = 0.5.
func quadraticMidpoint(start, ctrl, end Point) r2.Vec {
	v := r2.Add(r2.Scale(0.25, start.vec()), r2.Scale(0.5, ctrl.vec()))
	return r2.Add(v, r2.Scale(0.25, end.vec()))
}

// signedArea returns the shoelace sum (twice the signed area). A curved edge
// is replaced by two straight sub-edges through the curve midpoint.
func signedArea(points []Point) float64 {
	n := len(points)
	var sum float64
	for i := 0; i < n; i++ {
		a := points[i]
		b := points[(i+1)%n]
		if b.ControlPoint != nil {
			m := quadraticMidpoint(a, *b.ControlPoint, b)
			sum += cross(a.vec(), m) + cross(m, b.vec())
			continue
		}
		sum += cross(a.vec(), b.vec())
	}
	return sum
}

// PolygonArea returns the unsigned area of the implicitly closed polygon.
func PolygonArea(points []Point) float64 {
	if len(points) < 3 {
		return 0
	}
	return math.Abs(signedArea(points)) / 2
}

// PolygonCentroid returns the area-weighted centroid of the polygon.
// Fewer than three points yield the mean of the points (origin when
// empty); a degenerate zero-area polygon yields its first point.
func PolygonCentroid(points []Point) Point {
	n := len(points)
	if n == 0 {
		return Point{}
	}
	if n < 3 {
		var sum r2.Vec
		for _, p := range points {
			sum = r2.Add(sum, p.vec())
		}
		mean := r2.Scale(1/float64(n), sum)
		return Pt(mean.X, mean.Y)
	}

	var area2, cx, cy float64
	for i := 0; i < n; i++ {
		a := points[i]
		b := points[(i+1)%n]
		c := cross(a.vec(), b.vec())
		area2 += c
		cx += (a.X + b.X) * c
		cy += (a.Y + b.Y) * c
	}
	if area2 == 0 {
		return Pt(points[0].X, points[0].Y)
	}
	// area2 is twice the signed area, so 6A == 3*area2.
	return Pt(cx/(3*area2), cy/(3*area2))
}
