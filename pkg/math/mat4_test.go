package math

import (
	stdmath "math"
	"testing"
)

func vecApproxEqual(a, b Vec3, eps float32) bool {
	return a.Sub(b).Length() <= eps
}

func TestIdentityIsNeutral(t *testing.T) {
	m := Translate(3, 4, 5).Mul(RotateZ(0.7))

	if got := m.Mul(Identity()); got != m {
		t.Errorf("m * I = %v, want m", got)
	}
	if got := Identity().Mul(m); got != m {
		t.Errorf("I * m = %v, want m", got)
	}

	p := Vec3{1, 2, 3}
	if got := Identity().TransformPoint(p); got != p {
		t.Errorf("identity moved point to %v", got)
	}
}

func TestTranslate(t *testing.T) {
	m := Translate(10, -5, 2)
	if got := m.TransformPoint(Vec3{1, 1, 1}); got != (Vec3{11, -4, 3}) {
		t.Errorf("translated point %v, want (11,-4,3)", got)
	}
}

func TestRotateZ(t *testing.T) {
	m := RotateZ(stdmath.Pi / 2)

	// +X rotates to +Y around the up axis.
	got := m.TransformPoint(Vec3{X: 1})
	if !vecApproxEqual(got, Vec3{Y: 1}, 1e-6) {
		t.Errorf("rotated +X to %v, want +Y", got)
	}
	// Z is untouched.
	got = m.TransformPoint(Vec3{Z: 2})
	if !vecApproxEqual(got, Vec3{Z: 2}, 1e-6) {
		t.Errorf("rotation moved the up axis: %v", got)
	}
}

func TestMulComposesRightToLeft(t *testing.T) {
	// Translate-then-rotate differs from rotate-then-translate; Mul applies
	// the right operand first.
	rot := RotateZ(stdmath.Pi / 2)
	trans := Translate(1, 0, 0)

	p := Vec3{}
	got := rot.Mul(trans).TransformPoint(p)
	if !vecApproxEqual(got, Vec3{Y: 1}, 1e-6) {
		t.Errorf("rotate(translate(p)) = %v, want (0,1,0)", got)
	}
	got = trans.Mul(rot).TransformPoint(p)
	if !vecApproxEqual(got, Vec3{X: 1}, 1e-6) {
		t.Errorf("translate(rotate(p)) = %v, want (1,0,0)", got)
	}
}

func TestLookAtMapsEyeToOrigin(t *testing.T) {
	eye := Vec3{10, 20, 30}
	view := LookAt(eye, Vec3{10, 20, 0}, Vec3{Y: 1})

	if got := view.TransformPoint(eye); !vecApproxEqual(got, Vec3{}, 1e-4) {
		t.Errorf("eye maps to %v in view space, want origin", got)
	}

	// The look target lands on the negative view Z axis.
	got := view.TransformPoint(Vec3{10, 20, 0})
	if stdmath.Abs(float64(got.X)) > 1e-4 || stdmath.Abs(float64(got.Y)) > 1e-4 || got.Z >= 0 {
		t.Errorf("target maps to %v, want on -Z", got)
	}
}

func TestPerspectiveDepthRange(t *testing.T) {
	proj := Perspective(stdmath.Pi/4, 4.0/3.0, 1, 100)

	// Points on the near and far planes map to clip Z -1 and +1.
	near := proj.TransformPoint(Vec3{0, 0, -1})
	if stdmath.Abs(float64(near.Z)+1) > 1e-5 {
		t.Errorf("near plane maps to Z %v, want -1", near.Z)
	}
	far := proj.TransformPoint(Vec3{0, 0, -100})
	if stdmath.Abs(float64(far.Z)-1) > 1e-4 {
		t.Errorf("far plane maps to Z %v, want 1", far.Z)
	}
}

func TestPtr(t *testing.T) {
	m := Identity()
	if p := m.Ptr(); p == nil || *p != 1 {
		t.Error("Ptr should point at the first element")
	}
}
