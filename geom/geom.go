// Package geom holds the small amount of 2D math the hand and board share.
// World space is y-up; angles are in degrees.
package geom

import "math"

type Vec struct {
	X, Y float64
}

func V(x, y float64) Vec { return Vec{x, y} }

func (v Vec) Add(o Vec) Vec { return Vec{v.X + o.X, v.Y + o.Y} }
func (v Vec) Sub(o Vec) Vec { return Vec{v.X - o.X, v.Y - o.Y} }
func (v Vec) Scale(f float64) Vec { return Vec{v.X * f, v.Y * f} }
func (v Vec) Len() float64 { return math.Hypot(v.X, v.Y) }
func (v Vec) Dist(o Vec) float64 { return v.Sub(o).Len() }
func (v Vec) Lerp(o Vec, t float64) Vec {
	return Vec{Lerp(v.X, o.X, t), Lerp(v.Y, o.Y, t)}
}

// Rotate turns v counter-clockwise by deg degrees around the origin.
func (v Vec) Rotate(deg float64) Vec {
	s, c := math.Sincos(Rad(deg))
	return Vec{v.X*c - v.Y*s, v.X*s + v.Y*c}
}

func Lerp(a, b, t float64) float64 { return a + (b-a)*t }

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func Rad(deg float64) float64 { return deg * math.Pi / 180 }

// AngleDelta is the signed shortest difference b-a in degrees, in (-180, 180].
func AngleDelta(a, b float64) float64 {
	d := math.Mod(b-a, 360)
	if d > 180 {
		d -= 360
	} else if d <= -180 {
		d += 360
	}
	return d
}

// LerpAngle interpolates along the shortest arc.
func LerpAngle(a, b, t float64) float64 {
	return a + AngleDelta(a, b)*t
}

// Shape is anything a point can be tested against.
type Shape interface {
	Contains(p Vec) bool
}

// Rect is an axis aligned rectangle given by its minimum corner and size.
type Rect struct {
	Min  Vec
	W, H float64
}

func RectCentered(c Vec, w, h float64) Rect {
	return Rect{Min: Vec{c.X - w/2, c.Y - h/2}, W: w, H: h}
}

func (r Rect) Center() Vec { return Vec{r.Min.X + r.W/2, r.Min.Y + r.H/2} }

func (r Rect) Contains(p Vec) bool {
	return p.X >= r.Min.X && p.X < r.Min.X+r.W && p.Y >= r.Min.Y && p.Y < r.Min.Y+r.H
}

// OrientedRect is a rectangle centred on Center, rotated by Rot degrees.
type OrientedRect struct {
	Center Vec
	W, H   float64
	Rot    float64
}

func (r OrientedRect) Contains(p Vec) bool {
	local := p.Sub(r.Center).Rotate(-r.Rot)
	return math.Abs(local.X) <= r.W/2 && math.Abs(local.Y) <= r.H/2
}

type Circle struct {
	Center Vec
	R      float64
}

func (c Circle) Contains(p Vec) bool { return p.Dist(c.Center) <= c.R }

// Polygon is a simple polygon; points inside are found by ray casting.
type Polygon []Vec

func (poly Polygon) Contains(p Vec) bool {
	inside := false
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		a, b := poly[i], poly[j]
		if (a.Y > p.Y) != (b.Y > p.Y) &&
			p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}
