// Package water provides the water plane geometry and the offscreen mirror
// passes (refraction and reflection) sampled by the water surface.
package water

import "github.com/Faultbox/shoreline/pkg/math"

// Level is the world-space height of the water surface.
const Level = 0.0

// DefaultPadding extends the water plane beyond the terrain bounds.
const DefaultPadding = 50.0

// ClipPlane is the water plane (normal +Y through y = Level) used to clip
// geometry in both mirror passes.
var ClipPlane = math.Vec4{0, 1, 0, -Level}

// MirrorScale reflects geometry about the water plane.
func MirrorScale() math.Mat4 {
	return math.Scale(1, -1, 1)
}

// Plane holds water plane geometry ready for GPU upload.
type Plane struct {
	Vertices []float32 // Flat array: x,y,z for each of the 4 corners
	Indices  []uint32
	Level    float32
}

// BuildPlane creates a quad at the given height covering the bounds. The
// triangles face +Y.
func BuildPlane(minX, maxX, minZ, maxZ, level float32) *Plane {
	return &Plane{
		Vertices: []float32{
			minX, level, minZ,
			maxX, level, minZ,
			maxX, level, maxZ,
			minX, level, maxZ,
		},
		Indices: []uint32{0, 3, 2, 0, 2, 1},
		Level:   level,
	}
}

// BuildPlaneWithPadding creates water plane vertices with padding around the bounds.
func BuildPlaneWithPadding(minX, maxX, minZ, maxZ, level, padding float32) *Plane {
	return BuildPlane(
		minX-padding,
		maxX+padding,
		minZ-padding,
		maxZ+padding,
		level,
	)
}
