package shadow

import (
	"go.uber.org/zap"

	"github.com/Faultbox/shoreline/internal/engine/gpu"
	"github.com/Faultbox/shoreline/internal/logger"
	"github.com/Faultbox/shoreline/pkg/math"
)

// PipelineState returns the depth-only state of the shadow pipeline. Depth
// clamping keeps casters in front of the light's near plane when the device
// supports it.
func PipelineState(f gpu.Features) gpu.PipelineState {
	return gpu.PipelineState{
		DepthTest:    true,
		DepthWrite:   true,
		DepthCompare: gpu.CompareLessOrEqual,
		DepthClamp:   f.DepthClamp,
		Cull:         gpu.CullNone,
		DepthOnly:    true,
	}
}

// Driver records the per-cascade depth passes.
type Driver struct {
	Map       *Map
	Pipeline  *gpu.Pipeline
	Resources *gpu.ResourceSet
	// Casters are drawn into every cascade. Only terrain casts shadows.
	Casters []gpu.Drawable
	// Position offsets the casters in world space.
	Position math.Vec4

	log *zap.Logger
}

// NewDriver creates a driver drawing casters into sm with pipeline p. The
// resource set must bind the cascade matrices block.
func NewDriver(sm *Map, p *gpu.Pipeline, set *gpu.ResourceSet, casters ...gpu.Drawable) *Driver {
	return &Driver{
		Map:       sm,
		Pipeline:  p,
		Resources: set,
		Casters:   casters,
		log:       logger.Named("shadow"),
	}
}

// Record records the depth pass of one cascade. Out of range indices are
// ignored.
func (d *Driver) Record(rec gpu.Recorder, cascade int) {
	if cascade < 0 || cascade >= d.Map.Cascades() {
		d.log.Debug("cascade out of range", zap.Int("cascade", cascade))
		return
	}
	layer := d.Map.Layers[cascade]

	rec.BeginPass(layer.Target, []gpu.ClearValue{gpu.ClearDepth(1)})
	gpu.FillTarget(rec, layer.Target)
	set := gpu.DrawSet{
		Pipeline:  d.Pipeline,
		Resources: d.Resources,
		Push: gpu.ShadowPushConstant{
			Position:     d.Position,
			CascadeIndex: int32(cascade),
		},
	}
	for _, c := range d.Casters {
		set.Record(rec, c)
	}
	rec.EndPass()
}

// RecordAll records every cascade in order.
func (d *Driver) RecordAll(rec gpu.Recorder) {
	for i := range d.Map.Layers {
		d.Record(rec, i)
	}
}
