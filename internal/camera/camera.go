// Package camera provides the editor camera that feeds view and projection
// matrices into terrain picking.
package camera

import (
	gomath "math"

	"github.com/Faultbox/terrascape/pkg/mathd"
)

// OrbitCamera orbits a center point in the Z-up editor world. Matrices are
// produced in double precision because picking unprojects through them at
// arbitrarily large world coordinates.
type OrbitCamera struct {
	// Center point to orbit around.
	Center mathd.Vec3

	// Spherical coordinates.
	Distance float64 // distance from center
	Pitch    float64 // vertical angle, radians, 0 = horizontal
	Yaw      float64 // horizontal angle, radians

	// Constraints.
	MinDistance float64
	MaxDistance float64
	MinPitch    float64
	MaxPitch    float64

	// Projection.
	FovY float64 // radians
	Near float64
	Far  float64
}

// New returns an orbit camera with editor defaults.
func New() *OrbitCamera {
	return &OrbitCamera{
		Distance:    400.0,
		Pitch:       0.9,
		Yaw:         0.0,
		MinDistance: 24.0,
		MaxDistance: 20000.0,
		MinPitch:    0.05,
		MaxPitch:    1.55,
		FovY:        gomath.Pi / 4,
		Near:        1.0,
		Far:         100000.0,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() mathd.Vec3 {
	cp := gomath.Cos(c.Pitch)
	return mathd.Vec3{
		X: c.Center.X + c.Distance*cp*gomath.Sin(c.Yaw),
		Y: c.Center.Y - c.Distance*cp*gomath.Cos(c.Yaw),
		Z: c.Center.Z + c.Distance*gomath.Sin(c.Pitch),
	}
}

// ViewMatrix returns the view matrix looking at the orbit center.
func (c *OrbitCamera) ViewMatrix() mathd.Mat4 {
	return mathd.LookAt(c.Position(), c.Center, mathd.Vec3{Z: 1})
}

// ProjectionMatrix returns the perspective projection for an aspect ratio.
func (c *OrbitCamera) ProjectionMatrix(aspect float64) mathd.Mat4 {
	return mathd.Perspective(c.FovY, aspect, c.Near, c.Far)
}

// Orbit applies a drag delta to yaw and pitch, clamping pitch so the view
// never flips over the pole (a vertical view would degenerate the Z-up
// look-at basis).
func (c *OrbitCamera) Orbit(deltaYaw, deltaPitch float64) {
	c.Yaw += deltaYaw
	c.Pitch += deltaPitch
	if c.Pitch < c.MinPitch {
		c.Pitch = c.MinPitch
	}
	if c.Pitch > c.MaxPitch {
		c.Pitch = c.MaxPitch
	}
}

// Zoom scales the orbit distance, clamped to the configured range.
func (c *OrbitCamera) Zoom(factor float64) {
	c.Distance *= factor
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
	if c.Distance > c.MaxDistance {
		c.Distance = c.MaxDistance
	}
}

// Pan moves the orbit center in the camera's horizontal frame.
func (c *OrbitCamera) Pan(dx, dy float64) {
	sin, cos := gomath.Sincos(c.Yaw)
	c.Center.X += dx*cos - dy*sin
	c.Center.Y += dx*sin + dy*cos
}
