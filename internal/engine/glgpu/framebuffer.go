package glgpu

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/shoreline/internal/engine/gpu"
)

func attach(attachment uint32, v *gpu.ImageView) {
	img := v.Image
	if img.Array() {
		gl.FramebufferTextureLayer(gl.FRAMEBUFFER, attachment, img.Handle, 0, int32(v.BaseLayer))
		return
	}
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, attachment, gl.TEXTURE_2D, img.Handle, 0)
}

// CreateTarget builds a framebuffer object over the given views. A target
// without a color view is depth-only.
func (d *Device) CreateTarget(s *gpu.Scope, desc gpu.TargetDesc) (gpu.Target, error) {
	width, height, err := gpu.TargetSize(desc)
	if err != nil {
		return gpu.Target{}, err
	}

	var fbo uint32
	gl.GenFramebuffers(1, &fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)

	depthOnly := desc.Color == nil || desc.Color.Image == nil
	if !depthOnly {
		attach(gl.COLOR_ATTACHMENT0, desc.Color)
	}
	if desc.Depth != nil && desc.Depth.Image != nil {
		attach(gl.DEPTH_ATTACHMENT, desc.Depth)
	}
	if depthOnly {
		gl.DrawBuffer(gl.NONE)
		gl.ReadBuffer(gl.NONE)
	}

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		gl.DeleteFramebuffers(1, &fbo)
		return gpu.Target{}, fmt.Errorf("%w: %s status 0x%x", ErrIncompleteFramebuffer, desc.Name, status)
	}

	s.AddFunc(func() error {
		gl.DeleteFramebuffers(1, &fbo)
		return nil
	})
	return gpu.Target{
		Name:         desc.Name,
		Handle:       fbo,
		Width:        width,
		Height:       height,
		Writes:       gpu.TargetWrites(desc),
		DepthOnly:    depthOnly,
		SampledAfter: desc.SampledAfter,
	}, nil
}
