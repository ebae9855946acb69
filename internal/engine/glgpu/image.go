package glgpu

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/shoreline/internal/engine/gpu"
)

func formats(f gpu.Format) (internal int32, format, xtype uint32, err error) {
	switch f {
	case gpu.FormatRGBA8:
		return gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE, nil
	case gpu.FormatDepth24:
		return gl.DEPTH_COMPONENT24, gl.DEPTH_COMPONENT, gl.FLOAT, nil
	case gpu.FormatDepth32F:
		return gl.DEPTH_COMPONENT32F, gl.DEPTH_COMPONENT, gl.FLOAT, nil
	default:
		return 0, 0, 0, fmt.Errorf("unsupported format %v", f)
	}
}

func textureTarget(img *gpu.Image) uint32 {
	if img.Array() {
		return gl.TEXTURE_2D_ARRAY
	}
	return gl.TEXTURE_2D
}

// CreateImage allocates a 2D texture, or a 2D array texture when
// desc.Layers > 0.
func (d *Device) CreateImage(s *gpu.Scope, desc gpu.ImageDesc) (*gpu.Image, error) {
	if desc.Width < 1 || desc.Height < 1 {
		return nil, fmt.Errorf("image %s: invalid size %dx%d", desc.Name, desc.Width, desc.Height)
	}
	internal, format, xtype, err := formats(desc.Format)
	if err != nil {
		return nil, fmt.Errorf("image %s: %w", desc.Name, err)
	}

	d.nextID++
	img := &gpu.Image{
		ID:     d.nextID,
		Name:   desc.Name,
		Width:  desc.Width,
		Height: desc.Height,
		Layers: desc.Layers,
		Format: desc.Format,
	}
	target := textureTarget(img)

	gl.GenTextures(1, &img.Handle)
	gl.BindTexture(target, img.Handle)
	if img.Array() {
		gl.TexImage3D(target, 0, internal, desc.Width, desc.Height, int32(desc.Layers), 0, format, xtype, nil)
	} else {
		gl.TexImage2D(target, 0, internal, desc.Width, desc.Height, 0, format, xtype, nil)
	}

	gl.TexParameteri(target, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(target, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(target, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(target, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	if desc.Anisotropic && d.features.Anisotropy {
		gl.TexParameterf(target, textureMaxAnisotropy, d.features.MaxAnisotropy)
	}
	gl.BindTexture(target, 0)

	if err := checkError("creating image " + desc.Name); err != nil {
		gl.DeleteTextures(1, &img.Handle)
		return nil, err
	}

	handle := img.Handle
	s.AddFunc(func() error {
		gl.DeleteTextures(1, &handle)
		return nil
	})
	d.log.Debug("image created",
		zap.String("name", desc.Name),
		zap.Int32("width", desc.Width),
		zap.Int32("height", desc.Height),
		zap.Int("layers", desc.Layers),
		zap.Stringer("format", desc.Format))
	return img, nil
}
