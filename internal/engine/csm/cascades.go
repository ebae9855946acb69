package csm

import "github.com/Faultbox/shoreline/pkg/math"

// Compute fits Count contiguous cascades to the camera frustum.
func Compute(cam Camera, lightDir math.Vec3, lambda float32) [Count]Cascade {
	var out [Count]Cascade
	near, far := cam.NearClip(), cam.FarClip()
	inv := cam.ProjectionMatrix().Mul(cam.ViewMatrix()).Inverse()

	splits := Splits(near, far, Count, lambda)
	var last float32
	for i, split := range splits {
		out[i] = Fit(inv, near, far, last, split, lightDir)
		last = split
	}
	return out
}

// SplitDepths returns the view-space split depth of every cascade.
func SplitDepths(cascades [Count]Cascade) [Count]float32 {
	var d [Count]float32
	for i, c := range cascades {
		d[i] = c.SplitDepth
	}
	return d
}

// Select returns the cascade covering a view-space depth. Depths past the last
// split fall into the last cascade.
func Select(cascades [Count]Cascade, viewZ float32) int {
	for i := 0; i < Count-1; i++ {
		if viewZ >= cascades[i].SplitDepth {
			return i
		}
	}
	return Count - 1
}
