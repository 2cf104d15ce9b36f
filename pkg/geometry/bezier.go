package geometry

import "math"

// Bezier is a single cubic Bézier segment.
type Bezier struct {
	P0, P1, P2, P3 Point
}

// Points returns the four control points in order.
func (b Bezier) Points() []Point {
	return []Point{b.P0, b.P1, b.P2, b.P3}
}

// Eval computes the point on the curve at parameter t ∈ [0,1].
// t outside the range is clamped.
func (b Bezier) Eval(t float64) Point {
	t = clamp01(t)
	mt := 1 - t
	mt2 := mt * mt
	mt3 := mt2 * mt
	t2 := t * t
	t3 := t2 * t

	return Point{
		X: mt3*b.P0.X + 3*mt2*t*b.P1.X + 3*mt*t2*b.P2.X + t3*b.P3.X,
		Y: mt3*b.P0.Y + 3*mt2*t*b.P1.Y + 3*mt*t2*b.P2.Y + t3*b.P3.Y,
	}
}

// Tangent computes the derivative of the curve at parameter t.
func (b Bezier) Tangent(t float64) Point {
	t = clamp01(t)
	mt := 1 - t
	mt2 := mt * mt
	t2 := t * t

	return Point{
		X: 3*mt2*(b.P1.X-b.P0.X) + 6*mt*t*(b.P2.X-b.P1.X) + 3*t2*(b.P3.X-b.P2.X),
		Y: 3*mt2*(b.P1.Y-b.P0.Y) + 6*mt*t*(b.P2.Y-b.P1.Y) + 3*t2*(b.P3.Y-b.P2.Y),
	}
}

// Flatten samples the curve into n+1 points including both endpoints.
func (b Bezier) Flatten(n int) []Point {
	if n < 1 {
		n = 1
	}
	pts := make([]Point, n+1)
	for i := 0; i <= n; i++ {
		pts[i] = b.Eval(float64(i) / float64(n))
	}
	return pts
}

// Length approximates the arc length by sampling.
func (b Bezier) Length() float64 {
	pts := b.Flatten(100)
	length := 0.0
	for i := 1; i < len(pts); i++ {
		length += pts[i].Dist(pts[i-1])
	}
	return length
}

// Midpoint returns the point at t=0.5.
func (b Bezier) Midpoint() Point {
	return b.Eval(0.5)
}

// Bounds returns the bounding box of the control polygon, which always
// contains the curve.
func (b Bezier) Bounds() Rect {
	r := RectFromPoints(b.P0, b.P1)
	r = r.Union(RectFromPoints(b.P2, b.P3))
	return r
}

// EndAngle returns the direction of travel at the end of the curve in
// radians, for arrowheads.
func (b Bezier) EndAngle() float64 {
	tan := b.Tangent(1)
	if tan.X == 0 && tan.Y == 0 {
		tan = b.P3.Sub(b.P0)
	}
	return math.Atan2(tan.Y, tan.X)
}

func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
