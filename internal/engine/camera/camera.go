// Package camera provides the fly camera the scene is viewed through.
package camera

import (
	gomath "math"

	"github.com/Faultbox/shoreline/pkg/math"
)

// Controls is one frame of camera input. Axes are in [-1, 1].
type Controls struct {
	Forward float32
	Right   float32
	Up      float32
	Yaw     float32
	Pitch   float32
}

// Idle reports whether the controls would move the camera.
func (c Controls) Idle() bool {
	return c == Controls{}
}

// FlyCamera moves freely: WASD along its axes, QE vertically, arrows to look.
type FlyCamera struct {
	Position math.Vec3
	Yaw      float32 // Horizontal angle (radians), 0 looks down -Z
	Pitch    float32 // Vertical angle (radians)

	FOV    float32 // Vertical field of view (radians)
	Aspect float32
	Near   float32
	Far    float32

	// Sensitivity
	MoveSpeed float32 // Units per second
	TurnSpeed float32 // Radians per second

	// Constraints
	MaxPitch float32

	moved bool
}

// NewFlyCamera creates a camera with sensible defaults for the given aspect.
func NewFlyCamera(aspect float32) *FlyCamera {
	return &FlyCamera{
		Position:  math.Vec3{X: 0, Y: 6, Z: 20},
		Pitch:     -0.25,
		FOV:       float32(gomath.Pi / 3),
		Aspect:    aspect,
		Near:      0.5,
		Far:       48,
		MoveSpeed: 8,
		TurnSpeed: 1.2,
		MaxPitch:  1.5,
		moved:     true,
	}
}

// NearClip returns the near clip distance.
func (c *FlyCamera) NearClip() float32 { return c.Near }

// FarClip returns the far clip distance.
func (c *FlyCamera) FarClip() float32 { return c.Far }

// Forward returns the unit view direction.
func (c *FlyCamera) Forward() math.Vec3 {
	cp := float32(gomath.Cos(float64(c.Pitch)))
	return math.Vec3{
		X: float32(gomath.Sin(float64(c.Yaw))) * cp,
		Y: float32(gomath.Sin(float64(c.Pitch))),
		Z: -float32(gomath.Cos(float64(c.Yaw))) * cp,
	}
}

// RightVector returns the unit horizontal right direction.
func (c *FlyCamera) RightVector() math.Vec3 {
	return math.Vec3{
		X: float32(gomath.Cos(float64(c.Yaw))),
		Z: float32(gomath.Sin(float64(c.Yaw))),
	}
}

// ViewMatrix returns the view matrix for this camera.
func (c *FlyCamera) ViewMatrix() math.Mat4 {
	up := math.Vec3{X: 0, Y: 1, Z: 0}
	return math.LookAt(c.Position, c.Position.Add(c.Forward()), up)
}

// ProjectionMatrix returns the perspective projection.
func (c *FlyCamera) ProjectionMatrix() math.Mat4 {
	return math.Perspective(c.FOV, c.Aspect, c.Near, c.Far)
}

// Update applies one frame of controls scaled by dt seconds.
func (c *FlyCamera) Update(in Controls, dt float32) {
	if in.Idle() || dt <= 0 {
		return
	}

	c.Yaw += in.Yaw * c.TurnSpeed * dt
	c.Pitch += in.Pitch * c.TurnSpeed * dt
	if c.Pitch > c.MaxPitch {
		c.Pitch = c.MaxPitch
	}
	if c.Pitch < -c.MaxPitch {
		c.Pitch = -c.MaxPitch
	}

	step := c.MoveSpeed * dt
	move := c.Forward().Scale(in.Forward * step).
		Add(c.RightVector().Scale(in.Right * step)).
		Add(math.Vec3{Y: in.Up * step})
	c.Position = c.Position.Add(move)
	c.moved = true
}

// SetAspect updates the aspect ratio, e.g. after a window resize.
func (c *FlyCamera) SetAspect(aspect float32) {
	if aspect <= 0 || aspect == c.Aspect {
		return
	}
	c.Aspect = aspect
	c.moved = true
}

// Moved reports whether the camera changed since the last ClearMoved.
func (c *FlyCamera) Moved() bool { return c.moved }

// ClearMoved resets the moved flag once the change has been consumed.
func (c *FlyCamera) ClearMoved() { c.moved = false }
