package math

import (
	stdmath "math"
	"testing"
)

func TestVec3Arithmetic(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, 5, 6}

	if got := a.Add(b); got != (Vec3{5, 7, 9}) {
		t.Errorf("Add = %v", got)
	}
	if got := b.Sub(a); got != (Vec3{3, 3, 3}) {
		t.Errorf("Sub = %v", got)
	}
	if got := a.Scale(2); got != (Vec3{2, 4, 6}) {
		t.Errorf("Scale = %v", got)
	}
	if got := a.Dot(b); got != 32 {
		t.Errorf("Dot = %v, want 32", got)
	}
}

func TestVec3Cross(t *testing.T) {
	x := Vec3{X: 1}
	y := Vec3{Y: 1}

	if got := x.Cross(y); got != (Vec3{Z: 1}) {
		t.Errorf("X cross Y = %v, want +Z", got)
	}
	if got := y.Cross(x); got != (Vec3{Z: -1}) {
		t.Errorf("Y cross X = %v, want -Z", got)
	}
}

func TestVec3Normalize(t *testing.T) {
	v := Vec3{3, 0, 4}
	n := v.Normalize()
	if stdmath.Abs(float64(n.Length())-1) > 1e-6 {
		t.Errorf("normalized length %v, want 1", n.Length())
	}
	if n != (Vec3{0.6, 0, 0.8}) {
		t.Errorf("Normalize = %v, want (0.6,0,0.8)", n)
	}
	if (Vec3{}).Normalize() != (Vec3{}) {
		t.Error("zero vector should normalize to zero")
	}
}

func TestVec3MinMax(t *testing.T) {
	a := Vec3{1, 5, 3}
	b := Vec3{2, 4, 3}

	if got := a.Min(b); got != (Vec3{1, 4, 3}) {
		t.Errorf("Min = %v", got)
	}
	if got := a.Max(b); got != (Vec3{2, 5, 3}) {
		t.Errorf("Max = %v", got)
	}
}

func TestVec3Distance(t *testing.T) {
	if d := (Vec3{1, 1, 0}).Distance(Vec3{4, 5, 0}); d != 5 {
		t.Errorf("Distance = %v, want 5", d)
	}
}

func TestVec3XY(t *testing.T) {
	if got := (Vec3{1, 2, 3}).XY(); got != (Vec2{1, 2}) {
		t.Errorf("XY = %v, want (1,2)", got)
	}
}
