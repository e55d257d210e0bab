package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func square(size float64) []Point {
	return []Point{Pt(0, 0), Pt(size, 0), Pt(size, size), Pt(0, size)}
}

func TestDistance(t *testing.T) {
	assert.InDelta(t, 5.0, Distance(Pt(0, 0), Pt(3, 4)), 1e-9)
	assert.InDelta(t, 0.0, Distance(Pt(7, 7), Pt(7, 7)), 1e-9)
}

func TestPathLength_Sequential(t *testing.T) {
	pts := []Point{Pt(0, 0), Pt(3, 4), Pt(3, 10)}
	assert.InDelta(t, 11.0, PathLength(pts), 1e-9)
}

func TestPathLength_Degenerate(t *testing.T) {
	assert.Equal(t, 0.0, PathLength(nil))
	assert.Equal(t, 0.0, PathLength([]Point{Pt(4, 4)}))
}

func TestPathLength_GraphUsesOnlyExplicitEdges(t *testing.T) {
	// A branches to B and C; sequential adjacency B->C must not count.
	pts := []Point{
		{X: 0, Y: 0, ConnectsTo: []int{1, 2}},
		Pt(10, 0),
		Pt(0, 5),
	}
	assert.InDelta(t, 15.0, PathLength(pts), 1e-9)
}

func TestPathLength_GraphIgnoresOutOfRangeEdges(t *testing.T) {
	pts := []Point{
		{X: 0, Y: 0, ConnectsTo: []int{1, 9, -1}},
		Pt(0, 8),
	}
	assert.InDelta(t, 8.0, PathLength(pts), 1e-9)
}

func TestQuadraticLength_StraightControlMatchesChord(t *testing.T) {
	// Control point on the chord midpoint gives constant speed.
	got := QuadraticLength(Pt(0, 0), Pt(5, 0), Pt(10, 0))
	assert.InDelta(t, 10.0, got, 1e-9)
}

func TestQuadraticLength_CurvedIsLongerThanChord(t *testing.T) {
	got := QuadraticLength(Pt(0, 0), Pt(5, 10), Pt(10, 0))
	// The exact arc is ~14.789; the three-point rule lands at ~14.688.
	assert.Greater(t, got, 10.0)
	assert.InDelta(t, 14.688, got, 0.01)
}

func TestPathLength_SequentialCurve(t *testing.T) {
	ctrl := Pt(5, 10)
	pts := []Point{Pt(0, 0), {X: 10, Y: 0, ControlPoint: &ctrl}}
	assert.InDelta(t, QuadraticLength(Pt(0, 0), ctrl, Pt(10, 0)), PathLength(pts), 1e-12)
}

func TestClosedPathLength_Square(t *testing.T) {
	assert.InDelta(t, 40.0, ClosedPathLength(square(10)), 1e-9)
	assert.InDelta(t, 30.0, PathLength(square(10)), 1e-9)
}

func TestClosedPathLength_GraphNotDoubled(t *testing.T) {
	pts := []Point{
		{X: 0, Y: 0, ConnectsTo: []int{1}},
		{X: 10, Y: 0, ConnectsTo: []int{2}},
		{X: 10, Y: 10, ConnectsTo: []int{0}},
	}
	want := 10 + 10 + math.Sqrt(200)
	assert.InDelta(t, want, ClosedPathLength(pts), 1e-9)
}

func TestPolygonArea_Square(t *testing.T) {
	assert.InDelta(t, 100.0, PolygonArea(square(10)), 1e-9)
}

func TestPolygonArea_OrientationIndependent(t *testing.T) {
	cw := []Point{Pt(0, 0), Pt(0, 10), Pt(10, 10), Pt(10, 0)}
	assert.InDelta(t, 100.0, PolygonArea(cw), 1e-9)
}

func TestPolygonArea_TooFewPoints(t *testing.T) {
	assert.Equal(t, 0.0, PolygonArea([]Point{Pt(0, 0), Pt(1, 1)}))
}

func TestPolygonArea_CurvedEdge(t *testing.T) {
	ctrl := Pt(20, 5)
	pts := square(10)
	pts[2].ControlPoint = &ctrl
	// Edge (10,0)->(10,10) bulges through (15,5): square plus a 25 unit triangle.
	assert.InDelta(t, 125.0, PolygonArea(pts), 1e-9)
}

func TestPolygonArea_CurvedClosingEdge(t *testing.T) {
	ctrl := Pt(-10, 5)
	pts := square(10)
	pts[0].ControlPoint = &ctrl
	// Closing edge (0,10)->(0,0) bulges through (-5,5).
	assert.InDelta(t, 125.0, PolygonArea(pts), 1e-9)
}

func TestPolygonCentroid(t *testing.T) {
	c := PolygonCentroid(square(10))
	assert.InDelta(t, 5.0, c.X, 1e-9)
	assert.InDelta(t, 5.0, c.Y, 1e-9)
}

func TestPolygonCentroid_Fallbacks(t *testing.T) {
	assert.Equal(t, Point{}, PolygonCentroid(nil))

	mean := PolygonCentroid([]Point{Pt(0, 0), Pt(4, 2)})
	assert.InDelta(t, 2.0, mean.X, 1e-9)
	assert.InDelta(t, 1.0, mean.Y, 1e-9)

	collinear := PolygonCentroid([]Point{Pt(3, 3), Pt(4, 4), Pt(5, 5)})
	assert.Equal(t, Pt(3, 3), collinear)
}
