// Package picking resolves screen-space mouse rays against the terrain
// surface: screen to world-ray unprojection, a DDA walk over landblocks,
// and triangle-precise hits with landblock/cell/vertex addressing.
package picking

import (
	gomath "math"

	"github.com/Faultbox/terrascape/pkg/mathd"
)

// triEpsilon rejects triangle determinants of rays parallel to the plane
// and hits at (or behind) the ray origin.
const triEpsilon = 1e-9

// Ray is a world-space ray with a normalized direction, in double
// precision throughout: at coordinates past 100k units, float32 cannot
// tell adjacent vertices apart after unprojection.
type Ray struct {
	Origin    mathd.Vec3
	Direction mathd.Vec3
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) mathd.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// ScreenRay converts a pixel position into a world-space ray by
// unprojecting the near and far plane points through the inverse
// view-projection matrix. ok is false when the combined matrix is
// singular; that is a routine miss, not an error.
func ScreenRay(pixelX, pixelY, viewportW, viewportH float64, view, proj mathd.Mat4) (Ray, bool) {
	if viewportW <= 0 || viewportH <= 0 {
		return Ray{}, false
	}

	inv, ok := proj.Mul(view).Invert()
	if !ok {
		return Ray{}, false
	}

	// Normalized device coordinates, Y flipped (pixel origin is top-left).
	ndcX := 2.0*pixelX/viewportW - 1.0
	ndcY := 1.0 - 2.0*pixelY/viewportH

	near := inv.MulVec4(mathd.Vec4{ndcX, ndcY, -1.0, 1.0})
	far := inv.MulVec4(mathd.Vec4{ndcX, ndcY, 1.0, 1.0})
	if near[3] == 0 || far[3] == 0 {
		return Ray{}, false
	}

	origin := mathd.Vec3{X: near[0] / near[3], Y: near[1] / near[3], Z: near[2] / near[3]}
	farPt := mathd.Vec3{X: far[0] / far[3], Y: far[1] / far[3], Z: far[2] / far[3]}

	dir := farPt.Sub(origin)
	if dir.Length() == 0 {
		return Ray{}, false
	}
	return Ray{Origin: origin, Direction: dir.Normalize()}, true
}

// IntersectAABB is the slab test against an axis-aligned box. Returns the
// entry distance (the exit distance when the origin is inside) and whether
// the ray touches the box at all.
func (r Ray) IntersectAABB(min, max mathd.Vec3) (float64, bool) {
	tmin := gomath.Inf(-1)
	tmax := gomath.Inf(1)

	o := [3]float64{r.Origin.X, r.Origin.Y, r.Origin.Z}
	d := [3]float64{r.Direction.X, r.Direction.Y, r.Direction.Z}
	lo := [3]float64{min.X, min.Y, min.Z}
	hi := [3]float64{max.X, max.Y, max.Z}

	for axis := 0; axis < 3; axis++ {
		if d[axis] != 0 {
			t1 := (lo[axis] - o[axis]) / d[axis]
			t2 := (hi[axis] - o[axis]) / d[axis]
			if t1 > t2 {
				t1, t2 = t2, t1
			}
			if t1 > tmin {
				tmin = t1
			}
			if t2 < tmax {
				tmax = t2
			}
		} else if o[axis] < lo[axis] || o[axis] > hi[axis] {
			return 0, false
		}
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// IntersectTriangle runs Möller-Trumbore against one triangle. Rays
// parallel to the triangle plane and hits behind the origin are misses.
func (r Ray) IntersectTriangle(v0, v1, v2 mathd.Vec3) (float64, bool) {
	e1 := v1.Sub(v0)
	e2 := v2.Sub(v0)

	p := r.Direction.Cross(e2)
	det := e1.Dot(p)
	if gomath.Abs(det) < triEpsilon {
		return 0, false
	}
	invDet := 1.0 / det

	tv := r.Origin.Sub(v0)
	u := tv.Dot(p) * invDet
	if u < 0 || u > 1 {
		return 0, false
	}

	q := tv.Cross(e1)
	v := r.Direction.Dot(q) * invDet
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t := e2.Dot(q) * invDet
	if t <= triEpsilon {
		return 0, false
	}
	return t, true
}
