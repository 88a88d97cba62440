package picking

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/terrascape/pkg/mathd"
)

func TestScreenRayCenterPixel(t *testing.T) {
	eye := mathd.Vec3{X: 100, Y: 200, Z: 50}
	center := mathd.Vec3{X: 100, Y: 300, Z: 50}
	view := mathd.LookAt(eye, center, mathd.Vec3{Z: 1})
	proj := mathd.Perspective(gomath.Pi/4, 800.0/600.0, 1, 1000)

	ray, ok := ScreenRay(400, 300, 800, 600, view, proj)
	if !ok {
		t.Fatal("center-pixel unprojection failed")
	}

	// The center pixel looks straight down the view axis, here +Y.
	if gomath.Abs(ray.Direction.X) > 1e-9 || gomath.Abs(ray.Direction.Z) > 1e-9 {
		t.Errorf("center ray direction %v, want +Y axis", ray.Direction)
	}
	if ray.Direction.Y <= 0.99 {
		t.Errorf("center ray direction %v, want +Y axis", ray.Direction)
	}

	// The origin sits on the near plane, one unit in front of the eye.
	if d := ray.Origin.Distance(eye); gomath.Abs(d-1) > 1e-6 {
		t.Errorf("ray origin %v is %v from the eye, want 1", ray.Origin, d)
	}
}

func TestScreenRayOffCenterTilts(t *testing.T) {
	view := mathd.LookAt(mathd.Vec3{Z: 10}, mathd.Vec3{}, mathd.Vec3{Y: 1})
	proj := mathd.Perspective(gomath.Pi/4, 1, 1, 1000)

	left, ok := ScreenRay(0, 300, 800, 600, view, proj)
	if !ok {
		t.Fatal("unprojection failed")
	}
	right, ok := ScreenRay(800, 300, 800, 600, view, proj)
	if !ok {
		t.Fatal("unprojection failed")
	}

	if left.Direction.X >= 0 {
		t.Errorf("left-edge ray leans %v, want -X", left.Direction.X)
	}
	if right.Direction.X <= 0 {
		t.Errorf("right-edge ray leans %v, want +X", right.Direction.X)
	}

	// Pixel Y grows downward; the top edge must lean toward +Y here.
	top, _ := ScreenRay(400, 0, 800, 600, view, proj)
	if top.Direction.Y <= 0 {
		t.Errorf("top-edge ray leans %v, want +Y", top.Direction.Y)
	}
}

func TestScreenRayDegenerate(t *testing.T) {
	if _, ok := ScreenRay(0, 0, 800, 600, mathd.Mat4{}, mathd.Mat4{}); ok {
		t.Error("singular matrix should not produce a ray")
	}
	view := mathd.LookAt(mathd.Vec3{Z: 10}, mathd.Vec3{}, mathd.Vec3{Y: 1})
	proj := mathd.Perspective(gomath.Pi/4, 1, 1, 1000)
	if _, ok := ScreenRay(0, 0, 0, 0, view, proj); ok {
		t.Error("empty viewport should not produce a ray")
	}
}

func TestIntersectAABB(t *testing.T) {
	box := func() (mathd.Vec3, mathd.Vec3) {
		return mathd.Vec3{X: -1, Y: -1, Z: -1}, mathd.Vec3{X: 1, Y: 1, Z: 1}
	}

	r := Ray{Origin: mathd.Vec3{X: -5}, Direction: mathd.Vec3{X: 1}}
	lo, hi := box()
	if d, ok := r.IntersectAABB(lo, hi); !ok || gomath.Abs(d-4) > 1e-12 {
		t.Errorf("axis hit: d=%v ok=%v, want 4", d, ok)
	}

	r = Ray{Origin: mathd.Vec3{X: -5, Y: 5}, Direction: mathd.Vec3{X: 1}}
	if _, ok := r.IntersectAABB(lo, hi); ok {
		t.Error("offset ray should miss the box")
	}

	r = Ray{Origin: mathd.Vec3{X: 5}, Direction: mathd.Vec3{X: 1}}
	if _, ok := r.IntersectAABB(lo, hi); ok {
		t.Error("box behind the origin should miss")
	}

	// Origin inside: the exit distance comes back, never a negative one.
	r = Ray{Origin: mathd.Vec3{}, Direction: mathd.Vec3{X: 1}}
	if d, ok := r.IntersectAABB(lo, hi); !ok || d < 0 {
		t.Errorf("inside origin: d=%v ok=%v, want non-negative hit", d, ok)
	}
}

func TestIntersectTriangle(t *testing.T) {
	v0 := mathd.Vec3{X: 0, Y: 0}
	v1 := mathd.Vec3{X: 10, Y: 0}
	v2 := mathd.Vec3{X: 0, Y: 10}

	down := mathd.Vec3{Z: -1}

	r := Ray{Origin: mathd.Vec3{X: 2, Y: 2, Z: 5}, Direction: down}
	if d, ok := r.IntersectTriangle(v0, v1, v2); !ok || gomath.Abs(d-5) > 1e-12 {
		t.Errorf("hit: d=%v ok=%v, want 5", d, ok)
	}

	r = Ray{Origin: mathd.Vec3{X: 8, Y: 8, Z: 5}, Direction: down}
	if _, ok := r.IntersectTriangle(v0, v1, v2); ok {
		t.Error("point outside the triangle should miss")
	}

	r = Ray{Origin: mathd.Vec3{X: 2, Y: 2, Z: 5}, Direction: mathd.Vec3{X: 1}}
	if _, ok := r.IntersectTriangle(v0, v1, v2); ok {
		t.Error("ray parallel to the plane should miss")
	}

	r = Ray{Origin: mathd.Vec3{X: 2, Y: 2, Z: -5}, Direction: down}
	if _, ok := r.IntersectTriangle(v0, v1, v2); ok {
		t.Error("triangle behind the origin should miss")
	}
}

func TestRayAt(t *testing.T) {
	r := Ray{Origin: mathd.Vec3{X: 1, Y: 2, Z: 3}, Direction: mathd.Vec3{Z: -1}}
	p := r.At(2)
	if p != (mathd.Vec3{X: 1, Y: 2, Z: 1}) {
		t.Errorf("At(2) = %v, want (1,2,1)", p)
	}
}
