package glgpu

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/shoreline/internal/engine/gpu"
)

// Recorder executes commands immediately on the current GL context. It also
// serves as the gpu.DrawContext handed to drawables.
type Recorder struct {
	dev     *Device
	current *program
}

// NewRecorder returns a recorder executing against dev's context.
func (d *Device) NewRecorder() *Recorder {
	return &Recorder{dev: d}
}

func (r *Recorder) BeginPass(t gpu.Target, clears []gpu.ClearValue) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.Handle)
	gl.Disable(gl.SCISSOR_TEST)

	var mask uint32
	for _, c := range clears {
		if c.IsDepth {
			gl.DepthMask(true)
			gl.ClearDepth(float64(c.Depth))
			mask |= gl.DEPTH_BUFFER_BIT
			continue
		}
		if !t.DepthOnly {
			gl.ColorMask(true, true, true, true)
			gl.ClearColor(c.Color[0], c.Color[1], c.Color[2], c.Color[3])
			mask |= gl.COLOR_BUFFER_BIT
		}
	}
	if mask != 0 {
		gl.Clear(mask)
	}
}

func (r *Recorder) EndPass() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Disable(gl.SCISSOR_TEST)
	gl.FrontFace(gl.CCW)
}

func setEnabled(cap uint32, on bool) {
	if on {
		gl.Enable(cap)
	} else {
		gl.Disable(cap)
	}
}

func (r *Recorder) BindPipeline(p *gpu.Pipeline) {
	prog, ok := r.dev.programs[p]
	if !ok {
		r.dev.log.Debug("unknown pipeline bound")
		r.current = nil
		return
	}
	r.current = prog
	st := prog.state

	gl.UseProgram(prog.id)

	setEnabled(gl.DEPTH_TEST, st.DepthTest)
	gl.DepthMask(st.DepthWrite)
	switch st.DepthCompare {
	case gpu.CompareLessOrEqual:
		gl.DepthFunc(gl.LEQUAL)
	case gpu.CompareAlways:
		gl.DepthFunc(gl.ALWAYS)
	default:
		gl.DepthFunc(gl.LESS)
	}
	setEnabled(gl.DEPTH_CLAMP, st.DepthClamp && r.dev.features.DepthClamp)

	switch st.Cull {
	case gpu.CullBack:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	case gpu.CullFront:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.FRONT)
	default:
		gl.Disable(gl.CULL_FACE)
	}

	setEnabled(gl.BLEND, st.Blend)
	if st.Blend {
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	}
	setEnabled(gl.CLIP_DISTANCE0, st.ClipPlane)
	colorWrite := !st.DepthOnly
	gl.ColorMask(colorWrite, colorWrite, colorWrite, colorWrite)
}

func (r *Recorder) BindResources(set *gpu.ResourceSet) {
	for _, u := range set.Uniforms {
		gl.BindBufferBase(gl.UNIFORM_BUFFER, u.Binding, u.Buffer.Handle)
	}
	for _, t := range set.Textures {
		gl.ActiveTexture(gl.TEXTURE0 + t.Unit)
		gl.BindTexture(textureTarget(t.View.Image), t.View.Image.Handle)
	}
}

func (r *Recorder) PushConstants(pc gpu.PushConstant) {
	prog := r.current
	if prog == nil {
		return
	}
	switch p := pc.(type) {
	case gpu.ScenePushConstant:
		if prog.clipPlane >= 0 {
			gl.Uniform4f(prog.clipPlane, p.ClipPlane[0], p.ClipPlane[1], p.ClipPlane[2], p.ClipPlane[3])
		}
		if prog.mirrorScale >= 0 {
			gl.Uniform1f(prog.mirrorScale, p.MirrorScale)
		}
		if prog.shadows >= 0 {
			var on int32
			if p.Shadows {
				on = 1
			}
			gl.Uniform1i(prog.shadows, on)
		}
		// Mirroring reverses the winding of every triangle.
		if p.Mirrored() {
			gl.FrontFace(gl.CW)
		} else {
			gl.FrontFace(gl.CCW)
		}
	case gpu.ShadowPushConstant:
		if prog.position >= 0 {
			gl.Uniform4f(prog.position, p.Position[0], p.Position[1], p.Position[2], p.Position[3])
		}
		if prog.cascadeIndex >= 0 {
			gl.Uniform1i(prog.cascadeIndex, p.CascadeIndex)
		}
	case gpu.DebugPushConstant:
		if prog.layer >= 0 {
			gl.Uniform1i(prog.layer, p.Layer)
		}
		if prog.region >= 0 {
			gl.Uniform4f(prog.region, p.Region[0], p.Region[1], p.Region[2], p.Region[3])
		}
	default:
		r.dev.log.Debug("unhandled push constant", zap.Stringer("kind", pc.Kind()))
	}
}

func (r *Recorder) SetViewport(vp gpu.Viewport) {
	gl.Viewport(int32(vp.X), int32(vp.Y), int32(vp.Width), int32(vp.Height))
	gl.DepthRange(float64(vp.MinDepth), float64(vp.MaxDepth))
}

func (r *Recorder) SetScissor(rect gpu.Rect) {
	gl.Enable(gl.SCISSOR_TEST)
	gl.Scissor(rect.X, rect.Y, rect.Width, rect.Height)
}

func (r *Recorder) Draw(d gpu.Drawable) {
	d.Draw(r)
}

// DrawIndexed draws indexed triangles from a vertex array.
func (r *Recorder) DrawIndexed(vao uint32, indexCount int32) {
	gl.BindVertexArray(vao)
	gl.DrawElements(gl.TRIANGLES, indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// DrawArrays draws non-indexed triangles from a vertex array.
func (r *Recorder) DrawArrays(vao uint32, first, count int32) {
	gl.BindVertexArray(vao)
	gl.DrawArrays(gl.TRIANGLES, first, count)
	gl.BindVertexArray(0)
}
