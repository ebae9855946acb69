// Package gputest provides an in-memory gpu.Device and a tracing gpu.Recorder
// for tests that would otherwise need a GL context.
package gputest

import (
	"fmt"

	"github.com/Faultbox/shoreline/internal/engine/gpu"
)

// Device is a fake gpu.Device. Handles are sequential and never reused.
type Device struct {
	Feat   gpu.Features
	Width  int32
	Height int32

	// FailImages makes CreateImage fail when set.
	FailImages bool
	// FailImagesAfter makes CreateImage fail once that many images exist.
	// Zero disables it.
	FailImagesAfter int

	Images    []*gpu.Image
	Targets   []gpu.Target
	Buffers   []*gpu.Buffer
	Pipelines []*gpu.Pipeline
	Meshes    []*Mesh
	// Writes holds the last data written to each buffer handle.
	Writes map[uint32][]byte
	// Released counts objects released through their scope.
	Released int

	next uint32
}

// NewDevice returns a device with a single 1280x720 swapchain image.
func NewDevice() *Device {
	return &Device{
		Feat:   gpu.Features{DepthClamp: true},
		Width:  1280,
		Height: 720,
		Writes: make(map[uint32][]byte),
	}
}

func (d *Device) handle() uint32 {
	d.next++
	return d.next
}

func (d *Device) own(s *gpu.Scope) {
	s.AddFunc(func() error {
		d.Released++
		return nil
	})
}

func (d *Device) Features() gpu.Features { return d.Feat }

func (d *Device) CreateImage(s *gpu.Scope, desc gpu.ImageDesc) (*gpu.Image, error) {
	if d.FailImages || (d.FailImagesAfter > 0 && len(d.Images) >= d.FailImagesAfter) {
		return nil, fmt.Errorf("creating image %s: out of memory", desc.Name)
	}
	h := d.handle()
	img := &gpu.Image{
		ID:     gpu.ImageID(h),
		Name:   desc.Name,
		Handle: h,
		Width:  desc.Width,
		Height: desc.Height,
		Layers: desc.Layers,
		Format: desc.Format,
	}
	d.Images = append(d.Images, img)
	d.own(s)
	return img, nil
}

func (d *Device) CreateTarget(s *gpu.Scope, desc gpu.TargetDesc) (gpu.Target, error) {
	w, h, err := gpu.TargetSize(desc)
	if err != nil {
		return gpu.Target{}, err
	}
	t := gpu.Target{
		Name:         desc.Name,
		Handle:       d.handle(),
		Width:        w,
		Height:       h,
		Writes:       gpu.TargetWrites(desc),
		DepthOnly:    desc.Color == nil,
		SampledAfter: desc.SampledAfter,
	}
	d.Targets = append(d.Targets, t)
	d.own(s)
	return t, nil
}

func (d *Device) CreateBuffer(s *gpu.Scope, name string, size int) (*gpu.Buffer, error) {
	b := &gpu.Buffer{Name: name, Handle: d.handle(), Size: size}
	d.Buffers = append(d.Buffers, b)
	d.own(s)
	return b, nil
}

func (d *Device) WriteBuffer(b *gpu.Buffer, data []byte) error {
	if len(data) > b.Size {
		return fmt.Errorf("writing %d bytes to buffer %s of size %d", len(data), b.Name, b.Size)
	}
	d.Writes[b.Handle] = append([]byte(nil), data...)
	return nil
}

func (d *Device) CreatePipeline(s *gpu.Scope, desc gpu.PipelineDesc) (*gpu.Pipeline, error) {
	p := &gpu.Pipeline{Name: desc.Name, Handle: d.handle(), State: desc.State}
	d.Pipelines = append(d.Pipelines, p)
	d.own(s)
	return p, nil
}

func (d *Device) CreateMesh(s *gpu.Scope, desc gpu.MeshDesc) (gpu.Drawable, error) {
	m := &Mesh{Name: desc.Name, VAO: d.handle(), IndexCount: int32(len(desc.Indices)), VertexCount: desc.VertexCount}
	d.Meshes = append(d.Meshes, m)
	d.own(s)
	return m, nil
}

func (d *Device) SwapchainTargets() []gpu.Target {
	return []gpu.Target{{Name: "swapchain", Width: d.Width, Height: d.Height}}
}

// Pipeline returns the pipeline created with the given name, or nil.
func (d *Device) Pipeline(name string) *gpu.Pipeline {
	for _, p := range d.Pipelines {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Mesh is a fake drawable.
type Mesh struct {
	Name        string
	VAO         uint32
	IndexCount  int32
	VertexCount int32
}

func (m *Mesh) Draw(ctx gpu.DrawContext) {
	if m.IndexCount > 0 {
		ctx.DrawIndexed(m.VAO, m.IndexCount)
		return
	}
	ctx.DrawArrays(m.VAO, 0, m.VertexCount)
}
