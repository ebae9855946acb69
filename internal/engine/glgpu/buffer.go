package glgpu

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/shoreline/internal/engine/gpu"
)

// CreateBuffer allocates a uniform buffer of size bytes.
func (d *Device) CreateBuffer(s *gpu.Scope, name string, size int) (*gpu.Buffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("buffer %s: invalid size %d", name, size)
	}
	b := &gpu.Buffer{Name: name, Size: size}
	gl.GenBuffers(1, &b.Handle)
	gl.BindBuffer(gl.UNIFORM_BUFFER, b.Handle)
	gl.BufferData(gl.UNIFORM_BUFFER, size, nil, gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
	if err := checkError("creating buffer " + name); err != nil {
		gl.DeleteBuffers(1, &b.Handle)
		return nil, err
	}

	handle := b.Handle
	s.AddFunc(func() error {
		gl.DeleteBuffers(1, &handle)
		return nil
	})
	return b, nil
}

// WriteBuffer replaces the start of a buffer with data.
func (d *Device) WriteBuffer(b *gpu.Buffer, data []byte) error {
	if len(data) > b.Size {
		return fmt.Errorf("writing %d bytes to buffer %s of size %d", len(data), b.Name, b.Size)
	}
	if len(data) == 0 {
		return nil
	}
	gl.BindBuffer(gl.UNIFORM_BUFFER, b.Handle)
	gl.BufferSubData(gl.UNIFORM_BUFFER, 0, len(data), gl.Ptr(data))
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
	return nil
}
