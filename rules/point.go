package rules

import "math"

// Point is a position in the play area, in pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns the point offset by dx, dy.
func (p Point) Add(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Distance returns the euclidean distance between two points.
func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Rect is an axis aligned area, Min and Max inclusive.
type Rect struct {
	Min Point `json:"min"`
	Max Point `json:"max"`
}

// Bounds returns the rect spanning [0,width]x[0,height].
func Bounds(width, height float64) Rect {
	return Rect{Max: Point{X: width, Y: height}}
}

// Contains reports whether p lies inside the closed rect.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Inset shrinks the rect by d on every side. If the rect is too small to be
// inset it is returned unchanged.
func (r Rect) Inset(d float64) Rect {
	if r.Width() <= 2*d || r.Height() <= 2*d {
		return r
	}
	return Rect{
		Min: Point{X: r.Min.X + d, Y: r.Min.Y + d},
		Max: Point{X: r.Max.X - d, Y: r.Max.Y - d},
	}
}

// Width of the rect.
func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

// Height of the rect.
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Center of the rect.
func (r Rect) Center() Point {
	return Point{X: (r.Min.X + r.Max.X) / 2, Y: (r.Min.Y + r.Max.Y) / 2}
}

// Area of the rect.
func (r Rect) Area() float64 { return r.Width() * r.Height() }
