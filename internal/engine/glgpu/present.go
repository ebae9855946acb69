package glgpu

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/shoreline/internal/engine/gpu"
)

// offscreen is a presentable color + depth target composited by the overlay
// host instead of the default framebuffer.
type offscreen struct {
	parent *gpu.Scope
	scope  *gpu.Scope
	color  *gpu.Image
	target gpu.Target
}

// PresentOffscreen makes presentable frames render into an offscreen color
// image sized like the window. The image is owned by a child of s and is
// rebuilt on Resize.
func (d *Device) PresentOffscreen(s *gpu.Scope) error {
	d.offscreen = &offscreen{parent: s}
	return d.buildOffscreen()
}

func (d *Device) buildOffscreen() error {
	o := d.offscreen
	if o.scope != nil {
		if err := o.scope.Close(); err != nil {
			return fmt.Errorf("releasing present target: %w", err)
		}
		o.scope = nil
	}

	scope := o.parent.Child()
	color, err := d.CreateImage(scope, gpu.ImageDesc{
		Name:   "present.color",
		Width:  d.width,
		Height: d.height,
		Format: gpu.FormatRGBA8,
	})
	if err != nil {
		scope.Close()
		return err
	}
	depth, err := d.CreateImage(scope, gpu.ImageDesc{
		Name:   "present.depth",
		Width:  d.width,
		Height: d.height,
		Format: gpu.FormatDepth24,
	})
	if err != nil {
		scope.Close()
		return err
	}
	cv, dv := gpu.WholeImage(color), gpu.WholeImage(depth)
	target, err := d.CreateTarget(scope, gpu.TargetDesc{Name: "present", Color: &cv, Depth: &dv})
	if err != nil {
		scope.Close()
		return err
	}

	o.scope, o.color, o.target = scope, color, target
	d.log.Debug("present target built", zap.Int32("width", d.width), zap.Int32("height", d.height))
	return nil
}

// PresentTexture returns the GL texture holding the last presented frame
// when presenting offscreen.
func (d *Device) PresentTexture() (uint32, bool) {
	if d.offscreen == nil || d.offscreen.color == nil {
		return 0, false
	}
	return d.offscreen.color.Handle, true
}

// presentFramebuffer is the framebuffer the presentable image lives in.
func (d *Device) presentFramebuffer() uint32 {
	if d.offscreen == nil {
		return 0
	}
	return d.offscreen.target.Handle
}
