// Package shadow provides the layered depth array and the passes that render
// one cascade of directional light shadows into each layer.
package shadow

import (
	"fmt"

	"github.com/Faultbox/shoreline/internal/engine/gpu"
)

// DefaultResolution is the default shadow map resolution.
const DefaultResolution = 2048

// Device is the part of the backend a shadow map needs.
type Device interface {
	Features() gpu.Features
	CreateImage(s *gpu.Scope, desc gpu.ImageDesc) (*gpu.Image, error)
	CreateTarget(s *gpu.Scope, desc gpu.TargetDesc) (gpu.Target, error)
}

// Layer is the render target of a single cascade.
type Layer struct {
	View   gpu.ImageView
	Target gpu.Target
}

// Map is a square depth array with one layer per cascade. Layers are created
// once and reused every frame.
type Map struct {
	Image      *gpu.Image
	Layers     []Layer
	Resolution int32
}

// NewMap allocates the depth array and its per-layer targets in scope s.
// Resolution should be a power of 2 (e.g. 1024, 2048, 4096).
func NewMap(s *gpu.Scope, dev Device, resolution int32, cascades int) (*Map, error) {
	if resolution <= 0 {
		resolution = DefaultResolution
	}
	if cascades < 1 {
		return nil, fmt.Errorf("shadow map needs at least one cascade, got %d", cascades)
	}

	img, err := dev.CreateImage(s, gpu.ImageDesc{
		Name:   "shadow.depth",
		Width:  resolution,
		Height: resolution,
		Layers: cascades,
		Format: gpu.FormatDepth32F,
	})
	if err != nil {
		return nil, fmt.Errorf("creating shadow depth array: %w", err)
	}

	sm := &Map{Image: img, Resolution: resolution}
	for i := 0; i < cascades; i++ {
		view := gpu.Layer(img, i)
		target, err := dev.CreateTarget(s, gpu.TargetDesc{
			Name:         fmt.Sprintf("shadow.cascade%d", i),
			Depth:        &view,
			SampledAfter: true,
		})
		if err != nil {
			return nil, fmt.Errorf("creating shadow cascade %d target: %w", i, err)
		}
		sm.Layers = append(sm.Layers, Layer{View: view, Target: target})
	}
	return sm, nil
}

// View returns the whole array for sampling in color passes.
func (sm *Map) View() gpu.ImageView {
	return gpu.WholeImage(sm.Image)
}

// Cascades returns the number of layers.
func (sm *Map) Cascades() int {
	return len(sm.Layers)
}

// IsValid returns true if the shadow map was created successfully.
func (sm *Map) IsValid() bool {
	return sm != nil && sm.Image != nil && len(sm.Layers) > 0
}
