package math

import "math"

// Plane is a half-space: points p with Normal·p + D >= 0 are inside.
type Plane struct {
	Normal Vec3
	D      float32
}

// Frustum is the six clip planes of a view volume, inward facing.
// Order: left, right, bottom, top, near, far.
type Frustum [6]Plane

// FrustumFromMatrix extracts clip planes from a combined view-projection
// matrix (Gribb/Hartmann). For an identity matrix the frustum is the
// [-1,1]^3 clip cube.
func FrustumFromMatrix(m Mat4) Frustum {
	row := func(i int) [4]float32 {
		return [4]float32{m[i], m[4+i], m[8+i], m[12+i]}
	}
	r0, r1, r2, r3 := row(0), row(1), row(2), row(3)

	mk := func(a, b [4]float32, sub bool) Plane {
		var p [4]float32
		for i := range p {
			if sub {
				p[i] = a[i] - b[i]
			} else {
				p[i] = a[i] + b[i]
			}
		}
		pl := Plane{Normal: Vec3{p[0], p[1], p[2]}, D: p[3]}
		l := pl.Normal.Length()
		if l > 0 {
			pl.Normal = pl.Normal.Scale(1 / l)
			pl.D /= l
		}
		return pl
	}

	return Frustum{
		mk(r3, r0, false), // left:   w + x >= 0
		mk(r3, r0, true),  // right:  w - x >= 0
		mk(r3, r1, false), // bottom
		mk(r3, r1, true),  // top
		mk(r3, r2, false), // near
		mk(r3, r2, true),  // far
	}
}

// DistanceTo returns the signed distance from the plane to a point.
func (p Plane) DistanceTo(v Vec3) float32 {
	return p.Normal.Dot(v) + p.D
}

// IntersectsBox reports whether an axis-aligned box touches the frustum.
// Uses the positive-vertex test: the box is outside iff for some plane even
// the corner furthest along the plane normal is behind it.
func (f Frustum) IntersectsBox(min, max Vec3) bool {
	for _, pl := range f {
		p := min
		if pl.Normal.X >= 0 {
			p.X = max.X
		}
		if pl.Normal.Y >= 0 {
			p.Y = max.Y
		}
		if pl.Normal.Z >= 0 {
			p.Z = max.Z
		}
		if pl.DistanceTo(p) < 0 {
			return false
		}
	}
	return true
}

// ContainsPoint reports whether a point is inside all frustum planes.
func (f Frustum) ContainsPoint(v Vec3) bool {
	for _, pl := range f {
		if pl.DistanceTo(v) < 0 {
			return false
		}
	}
	return true
}

// ContainsSphere reports whether a sphere touches the frustum.
func (f Frustum) ContainsSphere(center Vec3, radius float32) bool {
	if radius < 0 || math.IsNaN(float64(radius)) {
		return false
	}
	for _, pl := range f {
		if pl.DistanceTo(center) < -radius {
			return false
		}
	}
	return true
}
