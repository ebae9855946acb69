package config

import (
	"fmt"
	"math/bits"

	"github.com/Faultbox/shoreline/internal/engine/csm"
)

// Resolution limits for offscreen images.
const (
	MinResolution = 256
	MaxResolution = 8192
)

// MinLayerRange is the smallest blend range of a terrain layer.
const MinLayerRange = 0.01

// Sanitize clamps every tunable into its supported range. It fails only when
// the display size cannot be used at all.
func (c *Config) Sanitize() error {
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Graphics.Width, c.Graphics.Height)
	}

	c.Shadows.Resolution = ClampResolution(c.Shadows.Resolution)
	c.Shadows.SplitLambda = csm.ClampLambda(c.Shadows.SplitLambda)
	c.Mirror.Resolution = ClampResolution(c.Mirror.Resolution)

	if c.Camera.FOV <= 1 || c.Camera.FOV >= 179 {
		c.Camera.FOV = 60
	}
	if c.Camera.Near <= 0 {
		c.Camera.Near = 0.1
	}
	if c.Camera.Far <= c.Camera.Near {
		c.Camera.Far = c.Camera.Near + 1
	}
	if c.Camera.Speed <= 0 {
		c.Camera.Speed = 8
	}

	if c.Terrain.Size <= 0 {
		c.Terrain.Size = 64
	}
	if c.Terrain.Grid < 2 {
		c.Terrain.Grid = 2
	}
	if len(c.Terrain.Layers) == 0 {
		c.Terrain.Layers = Default().Terrain.Layers
	}
	c.Terrain.Layers = ClampLayers(c.Terrain.Layers)

	if c.Debug.CascadeIndex < 0 {
		c.Debug.CascadeIndex = 0
	}
	if c.Debug.CascadeIndex >= csm.Count {
		c.Debug.CascadeIndex = csm.Count - 1
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	return nil
}

// ClampResolution clamps r to [MinResolution, MaxResolution] and rounds it
// up to a power of two.
func ClampResolution(r int) int {
	if r <= MinResolution {
		return MinResolution
	}
	if r >= MaxResolution {
		return MaxResolution
	}
	return 1 << bits.Len(uint(r-1))
}

// ClampLayers returns a copy of layers with every blend range at least
// MinLayerRange.
func ClampLayers(layers [][2]float32) [][2]float32 {
	out := make([][2]float32, len(layers))
	for i, l := range layers {
		if l[1] < MinLayerRange {
			l[1] = MinLayerRange
		}
		out[i] = l
	}
	return out
}
