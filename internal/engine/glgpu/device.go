// Package glgpu implements the gpu backend contract on OpenGL 4.1 core.
package glgpu

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/shoreline/internal/engine/gpu"
	"github.com/Faultbox/shoreline/internal/logger"
)

// EXT_texture_filter_anisotropic enums, absent from the core profile bindings.
const (
	textureMaxAnisotropy    = 0x84FE
	maxTextureMaxAnisotropy = 0x84FF
)

// ErrIncompleteFramebuffer reports a framebuffer the driver refused.
var ErrIncompleteFramebuffer = errors.New("glgpu: framebuffer incomplete")

// Device allocates GL objects. It must be used from the thread owning the
// GL context.
type Device struct {
	features gpu.Features
	width    int32
	height   int32
	programs map[*gpu.Pipeline]*program
	nextID   gpu.ImageID

	// offscreen is set when an overlay host composites the frame.
	offscreen *offscreen
	log       *zap.Logger
}

// New loads the GL entry points of the current context and probes optional
// features.
func New(width, height int32) (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("init opengl: %w", err)
	}

	d := &Device{
		width:    width,
		height:   height,
		programs: make(map[*gpu.Pipeline]*program),
		log:      logger.Named("glgpu"),
	}
	d.features = d.probeFeatures()

	d.log.Info("opengl ready",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
		zap.Bool("depth_clamp", d.features.DepthClamp),
		zap.Bool("anisotropy", d.features.Anisotropy),
		zap.Float32("max_anisotropy", d.features.MaxAnisotropy))
	return d, nil
}

func (d *Device) probeFeatures() gpu.Features {
	// Depth clamping is core since GL 3.2.
	f := gpu.Features{DepthClamp: true}

	var n int32
	gl.GetIntegerv(gl.NUM_EXTENSIONS, &n)
	for i := int32(0); i < n; i++ {
		ext := gl.GoStr(gl.GetStringi(gl.EXTENSIONS, uint32(i)))
		if strings.HasSuffix(ext, "_texture_filter_anisotropic") {
			f.Anisotropy = true
		}
	}
	if f.Anisotropy {
		gl.GetFloatv(maxTextureMaxAnisotropy, &f.MaxAnisotropy)
		if f.MaxAnisotropy < 1 {
			f.Anisotropy = false
		}
	}
	return f
}

// Features returns the probed optional features.
func (d *Device) Features() gpu.Features {
	return d.features
}

// Resize records the size of the default framebuffer and rebuilds the
// offscreen present target when there is one.
func (d *Device) Resize(width, height int32) error {
	if width == d.width && height == d.height {
		return nil
	}
	d.width, d.height = width, height
	if d.offscreen != nil {
		return d.buildOffscreen()
	}
	return nil
}

// SwapchainTargets returns the presentable target: the default framebuffer,
// or the offscreen target when presenting offscreen. GL presents a single
// image.
func (d *Device) SwapchainTargets() []gpu.Target {
	if d.offscreen != nil {
		return []gpu.Target{d.offscreen.target}
	}
	return []gpu.Target{{
		Name:   "swapchain",
		Handle: 0,
		Width:  d.width,
		Height: d.height,
	}}
}

// ReadPixels reads the presentable image as bottom-up RGBA rows.
func (d *Device) ReadPixels() ([]byte, int, int) {
	w, h := int(d.width), int(d.height)
	pixels := make([]byte, w*h*4)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, d.presentFramebuffer())
	defer gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, d.width, d.height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, w, h
}

func checkError(op string) error {
	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("%s: gl error 0x%x", op, code)
	}
	return nil
}
