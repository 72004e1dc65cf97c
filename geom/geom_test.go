package geom

import (
	"math"
	"testing"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestRotate(t *testing.T) {
	v := V(1, 0).Rotate(90)
	if !near(v.X, 0) || !near(v.Y, 1) {
		t.Fatalf("Rotate(90) = %v", v)
	}
}

func TestAngleDelta(t *testing.T) {
	cases := [][3]float64{
		{0, 10, 10},
		{350, 10, 20},
		{10, 350, -20},
		{-15, 15, 30},
	}
	for _, c := range cases {
		if d := AngleDelta(c[0], c[1]); !near(d, c[2]) {
			t.Fatalf("AngleDelta(%v, %v) = %v, want %v", c[0], c[1], d, c[2])
		}
	}
}

func TestShapes(t *testing.T) {
	r := RectCentered(V(0, 0), 2, 2)
	if !r.Contains(V(0.5, -0.5)) || r.Contains(V(1.5, 0)) {
		t.Fatalf("rect containment wrong")
	}
	o := OrientedRect{Center: V(0, 0), W: 4, H: 1, Rot: 90}
	if !o.Contains(V(0, 1.5)) || o.Contains(V(1.5, 0)) {
		t.Fatalf("oriented rect containment wrong")
	}
	c := Circle{Center: V(1, 1), R: 1}
	if !c.Contains(V(1.5, 1.5)) || c.Contains(V(0, 0)) {
		t.Fatalf("circle containment wrong")
	}
	tri := Polygon{V(0, 0), V(4, 0), V(0, 4)}
	if !tri.Contains(V(1, 1)) || tri.Contains(V(3, 3)) {
		t.Fatalf("polygon containment wrong")
	}
}
