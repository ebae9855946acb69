package scene

import (
	"fmt"

	"github.com/Faultbox/shoreline/internal/engine/gpu"
	"github.com/Faultbox/shoreline/internal/engine/scene/shaders"
	"github.com/Faultbox/shoreline/internal/engine/terrain"
	"github.com/Faultbox/shoreline/internal/engine/uniforms"
	"github.com/Faultbox/shoreline/internal/engine/water"
)

// WaterRenderer handles the water surface drawn in the final pass.
type WaterRenderer struct {
	Mesh     gpu.Drawable
	Pipeline *gpu.Pipeline
	Plane    *water.Plane
}

// WaterPipelineState returns the state of the water surface pipeline. The
// surface is visible from both sides.
func WaterPipelineState() gpu.PipelineState {
	return gpu.PipelineState{
		DepthTest:    true,
		DepthWrite:   true,
		DepthCompare: gpu.CompareLess,
		Cull:         gpu.CullNone,
	}
}

// NewWaterRenderer creates a water plane covering bounds plus padding.
func NewWaterRenderer(s *gpu.Scope, dev gpu.Device, bounds terrain.Bounds) (*WaterRenderer, error) {
	plane := water.BuildPlaneWithPadding(
		bounds.Min[0], bounds.Max[0],
		bounds.Min[2], bounds.Max[2],
		water.Level, water.DefaultPadding,
	)
	wr := &WaterRenderer{Plane: plane}

	var err error
	wr.Mesh, err = dev.CreateMesh(s, gpu.MeshDesc{
		Name:       "water",
		Vertices:   plane.Vertices,
		Stride:     3 * 4,
		Attributes: []gpu.VertexAttribute{{Location: 0, Components: 3, Offset: 0}},
		Indices:    plane.Indices,
	})
	if err != nil {
		return nil, fmt.Errorf("water mesh: %w", err)
	}

	wr.Pipeline, err = dev.CreatePipeline(s, gpu.PipelineDesc{
		Name:           "water",
		VertexSource:   shaders.WaterVertexShader,
		FragmentSource: shaders.WaterFragmentShader,
		State:          WaterPipelineState(),
		UniformBlocks: map[string]uint32{
			uniforms.SceneBlockName: uniforms.SceneBinding,
			uniforms.CSMBlockName:   uniforms.CSMBinding,
		},
		Samplers: map[string]int32{
			"shadowMap":     shadowUnit,
			"reflectionMap": reflectionUnit,
			"refractionMap": refractionUnit,
		},
		Defines: cascadeDefines(),
	})
	if err != nil {
		return nil, fmt.Errorf("water shader: %w", err)
	}
	return wr, nil
}
