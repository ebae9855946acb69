package scene

import (
	"fmt"

	"github.com/Faultbox/shoreline/internal/engine/gpu"
	"github.com/Faultbox/shoreline/internal/engine/scene/shaders"
)

// DebugRenderer draws previews of the offscreen images into screen regions.
type DebugRenderer struct {
	// Quad is an attribute-less six vertex quad placed by the debug push.
	Quad gpu.Drawable
	// Color previews a mirror color image.
	Color *gpu.Pipeline
	// Depth previews one cascade layer; the layer comes from a debug push.
	Depth *gpu.Pipeline
}

func debugPipelineState() gpu.PipelineState {
	return gpu.PipelineState{DepthCompare: gpu.CompareAlways, Cull: gpu.CullNone}
}

// NewDebugRenderer creates the preview pipelines.
func NewDebugRenderer(s *gpu.Scope, dev gpu.Device) (*DebugRenderer, error) {
	dr := &DebugRenderer{}

	var err error
	dr.Quad, err = dev.CreateMesh(s, gpu.MeshDesc{Name: "preview.quad", VertexCount: 6})
	if err != nil {
		return nil, fmt.Errorf("preview mesh: %w", err)
	}

	dr.Color, err = dev.CreatePipeline(s, gpu.PipelineDesc{
		Name:           "debug.color",
		VertexSource:   shaders.PreviewVertexShader,
		FragmentSource: shaders.DebugColorFragmentShader,
		State:          debugPipelineState(),
		Samplers:       map[string]int32{"debugImage": 0},
	})
	if err != nil {
		return nil, fmt.Errorf("debug color shader: %w", err)
	}

	dr.Depth, err = dev.CreatePipeline(s, gpu.PipelineDesc{
		Name:           "debug.depth",
		VertexSource:   shaders.PreviewVertexShader,
		FragmentSource: shaders.DebugDepthFragmentShader,
		State:          debugPipelineState(),
		Samplers:       map[string]int32{"shadowMap": shadowUnit},
	})
	if err != nil {
		return nil, fmt.Errorf("debug depth shader: %w", err)
	}
	return dr, nil
}
