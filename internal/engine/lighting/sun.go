// Package lighting places the single directional light of the scene.
package lighting

import (
	stdmath "math"

	"github.com/Faultbox/shoreline/pkg/math"
)

// DefaultDistance is how far the light sits from the origin.
const DefaultDistance = 50.0

// SunPosition converts azimuth/elevation angles in degrees to a light position
// at the given distance from the origin. Azimuth rotates around Y, elevation
// is measured from the horizon.
func SunPosition(azimuth, elevation, distance float32) math.Vec3 {
	azRad := float64(azimuth) * stdmath.Pi / 180.0
	elRad := float64(elevation) * stdmath.Pi / 180.0

	x := float32(stdmath.Cos(elRad) * stdmath.Sin(azRad))
	y := float32(stdmath.Sin(elRad))
	z := float32(stdmath.Cos(elRad) * stdmath.Cos(azRad))

	return math.Vec3{X: x, Y: y, Z: z}.Scale(distance)
}

// Direction returns the unit direction light travels from a light at
// position towards the origin. A light at the origin shines straight down.
func Direction(position math.Vec3) math.Vec3 {
	d := position.Neg().Normalize()
	if d.Length() == 0 {
		return math.Vec3{Y: -1}
	}
	return d
}

// Orbit animates the light on a circle around the Y axis.
type Orbit struct {
	Position math.Vec3
	// Speed is the angular velocity in radians per second.
	Speed float32
}

// NewOrbit starts an orbit at position.
func NewOrbit(position math.Vec3, speed float32) *Orbit {
	return &Orbit{Position: position, Speed: speed}
}

// Advance rotates the light by Speed*dt and returns the new position. Height
// and distance from the Y axis are preserved.
func (o *Orbit) Advance(dt float32) math.Vec3 {
	if dt <= 0 || o.Speed == 0 {
		return o.Position
	}
	o.Position = math.RotateY(o.Speed * dt).Project(o.Position)
	return o.Position
}
