package csm

import (
	stdmath "math"

	"github.com/Faultbox/shoreline/pkg/math"
)

// MinRadius keeps the light projection non-degenerate for collapsed slices.
const MinRadius = 1.0 / 16

// Camera is the view a set of cascades is fitted to.
type Camera interface {
	NearClip() float32
	FarClip() float32
	ViewMatrix() math.Mat4
	ProjectionMatrix() math.Mat4
}

// Cascade is one fitted slice of the view frustum.
type Cascade struct {
	// SplitDepth is the view-space z of the slice's far end (negative).
	SplitDepth float32
	// ViewProj maps world space into the cascade's light clip space.
	ViewProj math.Mat4
	// Near and Far are the normalized slice bounds.
	Near, Far float32
	Center    math.Vec3
	Radius    float32
}

// ndcCorners are the frustum corners in OpenGL clip conventions: the near
// plane at z = -1 first, then the far plane at z = +1.
var ndcCorners = [8]math.Vec3{
	{X: -1, Y: 1, Z: -1}, {X: 1, Y: 1, Z: -1}, {X: 1, Y: -1, Z: -1}, {X: -1, Y: -1, Z: -1},
	{X: -1, Y: 1, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 1, Y: -1, Z: 1}, {X: -1, Y: -1, Z: 1},
}

// SliceCorners returns the world-space corners of the frustum slice between
// the normalized distances lastSplit and split.
func SliceCorners(invViewProj math.Mat4, lastSplit, split float32) [8]math.Vec3 {
	var c [8]math.Vec3
	for i, p := range ndcCorners {
		c[i] = invViewProj.Project(p)
	}
	for i := 0; i < 4; i++ {
		ray := c[i+4].Sub(c[i])
		c[i+4] = c[i].Add(ray.Scale(split))
		c[i] = c[i].Add(ray.Scale(lastSplit))
	}
	return c
}

// RoundRadius rounds r up to the next multiple of 1/16 and clamps it to
// MinRadius. Quantizing keeps the projection stable while the camera moves.
func RoundRadius(r float32) float32 {
	q := float32(stdmath.Ceil(float64(r)*16) / 16)
	if q < MinRadius || stdmath.IsNaN(float64(q)) {
		return MinRadius
	}
	return q
}

// LightUp returns the up vector for a light looking along dir.
func LightUp(dir math.Vec3) math.Vec3 {
	if dir.Y > 0.99 || dir.Y < -0.99 {
		return math.Vec3{X: 0, Y: 0, Z: 1}
	}
	return math.Vec3{X: 0, Y: 1, Z: 0}
}

// Fit builds the light projection for the slice [lastSplit, split] of the
// frustum described by invViewProj. near and far are the camera clip
// distances and lightDir points from the light into the scene.
func Fit(invViewProj math.Mat4, near, far, lastSplit, split float32, lightDir math.Vec3) Cascade {
	corners := SliceCorners(invViewProj, lastSplit, split)

	var center math.Vec3
	for _, c := range corners {
		center = center.Add(c)
	}
	center = center.Scale(1.0 / 8)

	var radius float32
	for _, c := range corners {
		if d := c.Distance(center); d > radius {
			radius = d
		}
	}
	radius = RoundRadius(radius)

	dir := lightDir.Normalize()
	if dir.Length() == 0 {
		dir = math.Vec3{X: 0, Y: -1, Z: 0}
	}
	eye := center.Sub(dir.Scale(radius))
	view := math.LookAt(eye, center, LightUp(dir))
	proj := math.Ortho(-radius, radius, -radius, radius, 0, 2*radius)

	return Cascade{
		SplitDepth: -(near + split*(far-near)),
		ViewProj:   proj.Mul(view),
		Near:       lastSplit,
		Far:        split,
		Center:     center,
		Radius:     radius,
	}
}
