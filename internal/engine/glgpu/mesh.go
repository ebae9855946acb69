package glgpu

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/shoreline/internal/engine/gpu"
)

// Mesh is uploaded geometry. It draws itself through a gpu.DrawContext.
type Mesh struct {
	name        string
	vao         uint32
	vbo         uint32
	ebo         uint32
	indexCount  int32
	vertexCount int32
}

// CreateMesh uploads interleaved float vertices and optional indices. A
// description without vertices yields an attribute-less mesh for
// full-screen passes.
func (d *Device) CreateMesh(s *gpu.Scope, desc gpu.MeshDesc) (gpu.Drawable, error) {
	m := &Mesh{name: desc.Name, indexCount: int32(len(desc.Indices)), vertexCount: desc.VertexCount}

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	if len(desc.Vertices) > 0 {
		if desc.Stride <= 0 {
			gl.BindVertexArray(0)
			gl.DeleteVertexArrays(1, &m.vao)
			return nil, fmt.Errorf("mesh %s: invalid stride %d", desc.Name, desc.Stride)
		}
		gl.GenBuffers(1, &m.vbo)
		gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
		gl.BufferData(gl.ARRAY_BUFFER, len(desc.Vertices)*4, gl.Ptr(desc.Vertices), gl.STATIC_DRAW)
		for _, a := range desc.Attributes {
			gl.EnableVertexAttribArray(a.Location)
			gl.VertexAttribPointerWithOffset(a.Location, a.Components, gl.FLOAT, false, int32(desc.Stride), uintptr(a.Offset))
		}
		if m.vertexCount == 0 {
			m.vertexCount = int32(len(desc.Vertices) * 4 / desc.Stride)
		}
	}
	if len(desc.Indices) > 0 {
		gl.GenBuffers(1, &m.ebo)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(desc.Indices)*4, gl.Ptr(desc.Indices), gl.STATIC_DRAW)
	}
	gl.BindVertexArray(0)

	if err := checkError("creating mesh " + desc.Name); err != nil {
		m.release()
		return nil, err
	}
	s.AddFunc(func() error {
		m.release()
		return nil
	})
	return m, nil
}

func (m *Mesh) release() {
	if m.ebo != 0 {
		gl.DeleteBuffers(1, &m.ebo)
		m.ebo = 0
	}
	if m.vbo != 0 {
		gl.DeleteBuffers(1, &m.vbo)
		m.vbo = 0
	}
	if m.vao != 0 {
		gl.DeleteVertexArrays(1, &m.vao)
		m.vao = 0
	}
}

// Draw issues the mesh's draw call.
func (m *Mesh) Draw(ctx gpu.DrawContext) {
	if m.indexCount > 0 {
		ctx.DrawIndexed(m.vao, m.indexCount)
		return
	}
	ctx.DrawArrays(m.vao, 0, m.vertexCount)
}
