package glgpu

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/shoreline/internal/engine/gpu"
)

// Uniform names backing the push constant variants.
const (
	uniformClipPlane    = "uClipPlane"
	uniformMirrorScale  = "uMirrorScale"
	uniformShadows      = "uShadows"
	uniformPosition     = "uPosition"
	uniformCascadeIndex = "uCascadeIndex"
	uniformLayer        = "uLayer"
	uniformRegion       = "uRegion"
)

// program is the GL side of a pipeline.
type program struct {
	id    uint32
	state gpu.PipelineState

	clipPlane    int32
	mirrorScale  int32
	shadows      int32
	position     int32
	cascadeIndex int32
	layer        int32
	region       int32
}

// CreatePipeline compiles and links a program, binds its uniform blocks and
// sampler units, and resolves the push constant uniforms.
func (d *Device) CreatePipeline(s *gpu.Scope, desc gpu.PipelineDesc) (*gpu.Pipeline, error) {
	id, err := compileProgram(
		injectDefines(desc.VertexSource, desc.Defines),
		injectDefines(desc.FragmentSource, desc.Defines),
	)
	if err != nil {
		return nil, fmt.Errorf("pipeline %s: %w", desc.Name, err)
	}

	for name, binding := range desc.UniformBlocks {
		idx := gl.GetUniformBlockIndex(id, gl.Str(name+"\x00"))
		if idx == gl.INVALID_INDEX {
			d.log.Debug("uniform block unused", zap.String("pipeline", desc.Name), zap.String("block", name))
			continue
		}
		gl.UniformBlockBinding(id, idx, binding)
	}

	gl.UseProgram(id)
	for name, unit := range desc.Samplers {
		if loc := uniformLocation(id, name); loc >= 0 {
			gl.Uniform1i(loc, unit)
		}
	}
	gl.UseProgram(0)

	prog := &program{
		id:           id,
		state:        desc.State,
		clipPlane:    uniformLocation(id, uniformClipPlane),
		mirrorScale:  uniformLocation(id, uniformMirrorScale),
		shadows:      uniformLocation(id, uniformShadows),
		position:     uniformLocation(id, uniformPosition),
		cascadeIndex: uniformLocation(id, uniformCascadeIndex),
		layer:        uniformLocation(id, uniformLayer),
		region:       uniformLocation(id, uniformRegion),
	}
	if err := checkError("creating pipeline " + desc.Name); err != nil {
		gl.DeleteProgram(id)
		return nil, err
	}

	p := &gpu.Pipeline{Name: desc.Name, Handle: id, State: desc.State}
	d.programs[p] = prog
	s.AddFunc(func() error {
		delete(d.programs, p)
		gl.DeleteProgram(id)
		return nil
	})
	d.log.Debug("pipeline created", zap.String("name", desc.Name), zap.Uint32("program", id))
	return p, nil
}
