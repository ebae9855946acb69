package scene

import (
	"fmt"
	stdmath "math"

	"github.com/Faultbox/shoreline/internal/engine/gpu"
	"github.com/Faultbox/shoreline/internal/engine/scene/shaders"
	"github.com/Faultbox/shoreline/internal/engine/uniforms"
)

// Skysphere tessellation.
const (
	skyRings    = 16
	skySegments = 32
)

// SkyRenderer draws the skysphere first in every color pass.
type SkyRenderer struct {
	Mesh     gpu.Drawable
	Pipeline *gpu.Pipeline
}

// SkyPipelineState returns the state of the sky pipeline. The sphere is
// projected onto the far plane and never writes depth.
func SkyPipelineState() gpu.PipelineState {
	return gpu.PipelineState{
		DepthTest:    true,
		DepthWrite:   false,
		DepthCompare: gpu.CompareLessOrEqual,
		Cull:         gpu.CullNone,
	}
}

// NewSkyRenderer uploads a unit sphere and creates the sky pipeline.
func NewSkyRenderer(s *gpu.Scope, dev gpu.Device) (*SkyRenderer, error) {
	vertices, indices := BuildSphere(skyRings, skySegments)

	sr := &SkyRenderer{}
	var err error
	sr.Mesh, err = dev.CreateMesh(s, gpu.MeshDesc{
		Name:       "sky",
		Vertices:   vertices,
		Stride:     3 * 4,
		Attributes: []gpu.VertexAttribute{{Location: 0, Components: 3, Offset: 0}},
		Indices:    indices,
	})
	if err != nil {
		return nil, fmt.Errorf("sky mesh: %w", err)
	}

	sr.Pipeline, err = dev.CreatePipeline(s, gpu.PipelineDesc{
		Name:           "sky",
		VertexSource:   shaders.SkyVertexShader,
		FragmentSource: shaders.SkyFragmentShader,
		State:          SkyPipelineState(),
		UniformBlocks:  map[string]uint32{uniforms.SceneBlockName: uniforms.SceneBinding},
	})
	if err != nil {
		return nil, fmt.Errorf("sky shader: %w", err)
	}
	return sr, nil
}

// BuildSphere returns the positions (x,y,z) and triangle indices of a unit
// UV sphere. Poles are duplicated per segment.
func BuildSphere(rings, segments int) ([]float32, []uint32) {
	if rings < 2 {
		rings = 2
	}
	if segments < 3 {
		segments = 3
	}

	vertices := make([]float32, 0, (rings+1)*(segments+1)*3)
	for r := 0; r <= rings; r++ {
		phi := stdmath.Pi * float64(r) / float64(rings)
		y := stdmath.Cos(phi)
		ringRadius := stdmath.Sin(phi)
		for sg := 0; sg <= segments; sg++ {
			theta := 2 * stdmath.Pi * float64(sg) / float64(segments)
			vertices = append(vertices,
				float32(ringRadius*stdmath.Cos(theta)),
				float32(y),
				float32(ringRadius*stdmath.Sin(theta)),
			)
		}
	}

	indices := make([]uint32, 0, rings*segments*6)
	stride := uint32(segments + 1)
	for r := uint32(0); r < uint32(rings); r++ {
		for sg := uint32(0); sg < uint32(segments); sg++ {
			i0 := r*stride + sg
			i1 := i0 + 1
			i2 := i0 + stride
			i3 := i2 + 1
			indices = append(indices, i0, i2, i1, i1, i2, i3)
		}
	}
	return vertices, indices
}
