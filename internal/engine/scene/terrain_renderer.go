// Package scene wires the terrain, sky and water drawables, the cascaded
// shadow passes and the mirror passes into one renderable outdoor scene.
package scene

import (
	"fmt"

	"github.com/Faultbox/shoreline/internal/engine/gpu"
	"github.com/Faultbox/shoreline/internal/engine/scene/shaders"
	"github.com/Faultbox/shoreline/internal/engine/shadow"
	"github.com/Faultbox/shoreline/internal/engine/terrain"
	"github.com/Faultbox/shoreline/internal/engine/uniforms"
)

// TerrainRenderer owns the terrain mesh and the pipelines that draw it into
// color passes and into the cascade layers.
type TerrainRenderer struct {
	Mesh gpu.Drawable

	// Pipeline draws into color passes.
	Pipeline *gpu.Pipeline
	// Shadow draws depth into one cascade layer.
	Shadow *gpu.Pipeline

	Bounds terrain.Bounds
	Params terrain.Params
}

// TerrainPipelineState returns the state of the terrain color pipeline. The
// clip plane is enabled so mirror passes can cut the terrain at the water.
func TerrainPipelineState() gpu.PipelineState {
	return gpu.PipelineState{
		DepthTest:    true,
		DepthWrite:   true,
		DepthCompare: gpu.CompareLess,
		Cull:         gpu.CullBack,
		ClipPlane:    true,
	}
}

// NewTerrainRenderer uploads the mesh built from hm and creates both pipelines.
func NewTerrainRenderer(s *gpu.Scope, dev gpu.Device, hm *terrain.Heightmap, p terrain.Params) (*TerrainRenderer, error) {
	mesh := terrain.BuildMesh(hm, p)

	tr := &TerrainRenderer{Bounds: mesh.Bounds, Params: p}

	var err error
	tr.Mesh, err = dev.CreateMesh(s, gpu.MeshDesc{
		Name:     "terrain",
		Vertices: mesh.Interleave(),
		Stride:   terrain.VertexStride,
		Attributes: []gpu.VertexAttribute{
			{Location: 0, Components: 3, Offset: 0},
			{Location: 1, Components: 3, Offset: 12},
			{Location: 2, Components: 2, Offset: 24},
		},
		Indices: mesh.Indices,
	})
	if err != nil {
		return nil, fmt.Errorf("terrain mesh: %w", err)
	}

	defines := cascadeDefines()
	low, span := heightRange(p)
	defines["TERRAIN_MIN"] = glslFloat(low)
	defines["TERRAIN_RANGE"] = glslFloat(span)

	tr.Pipeline, err = dev.CreatePipeline(s, gpu.PipelineDesc{
		Name:           "terrain",
		VertexSource:   shaders.TerrainVertexShader,
		FragmentSource: shaders.TerrainFragmentShader,
		State:          TerrainPipelineState(),
		UniformBlocks: map[string]uint32{
			uniforms.SceneBlockName:        uniforms.SceneBinding,
			uniforms.CSMBlockName:          uniforms.CSMBinding,
			uniforms.TerrainLayerBlockName: uniforms.TerrainLayerBinding,
		},
		Samplers: map[string]int32{"shadowMap": shadowUnit},
		Defines:  defines,
	})
	if err != nil {
		return nil, fmt.Errorf("terrain shader: %w", err)
	}

	tr.Shadow, err = dev.CreatePipeline(s, gpu.PipelineDesc{
		Name:           "terrain.shadow",
		VertexSource:   shaders.ShadowVertexShader,
		FragmentSource: shaders.ShadowFragmentShader,
		State:          shadow.PipelineState(dev.Features()),
		UniformBlocks:  map[string]uint32{uniforms.CSMBlockName: uniforms.CSMBinding},
		Defines:        cascadeDefines(),
	})
	if err != nil {
		return nil, fmt.Errorf("shadow shader: %w", err)
	}

	return tr, nil
}

// heightRange returns the lowest world height and the height span of the
// terrain, used to normalize heights for layer blending.
func heightRange(p terrain.Params) (low, span float32) {
	span = p.HeightScale
	if span <= 0 {
		span = 1
	}
	return p.Offset, span
}
