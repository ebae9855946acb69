// Package gpu defines the contract between the renderer core and a graphics backend.
//
// The core only sees opaque handles (images, targets, buffers, pipelines,
// resource sets) and records work through a Recorder. A backend either executes
// the calls immediately or a frame.Sequence captures them for later replay.
package gpu

import (
	"fmt"

	"github.com/Faultbox/shoreline/pkg/math"
)

// ImageID identifies an image across re-creation for dependency tracking.
type ImageID uint32

// Format is the pixel format of an image.
type Format uint8

const (
	FormatUndefined Format = iota
	FormatRGBA8
	FormatDepth24
	FormatDepth32F
)

// IsDepth reports whether the format carries depth.
func (f Format) IsDepth() bool {
	return f == FormatDepth24 || f == FormatDepth32F
}

func (f Format) String() string {
	switch f {
	case FormatRGBA8:
		return "rgba8"
	case FormatDepth24:
		return "depth24"
	case FormatDepth32F:
		return "depth32f"
	default:
		return "undefined"
	}
}

// ImageDesc describes an image to allocate.
type ImageDesc struct {
	Name   string
	Width  int32
	Height int32
	// Layers > 0 allocates an array image even for a single layer.
	Layers int
	Format Format
	// Anisotropic requests anisotropic filtering when the device supports it.
	Anisotropic bool
}

// Image is an allocated GPU image. Backends may replace Handle and the size in
// place when the image is rebuilt; ID stays stable.
type Image struct {
	ID     ImageID
	Name   string
	Handle uint32
	Width  int32
	Height int32
	Layers int
	Format Format
}

// Array reports whether the image is a layered array image.
func (img *Image) Array() bool {
	return img.Layers > 0
}

// ImageView addresses a range of layers of an image.
type ImageView struct {
	Image      *Image
	BaseLayer  int
	LayerCount int
}

// WholeImage returns a view of every layer of img.
func WholeImage(img *Image) ImageView {
	n := img.Layers
	if n == 0 {
		n = 1
	}
	return ImageView{Image: img, LayerCount: n}
}

// Layer returns a view of a single layer of img.
func Layer(img *Image, layer int) ImageView {
	return ImageView{Image: img, BaseLayer: layer, LayerCount: 1}
}

// TargetDesc describes a render target built from image views.
type TargetDesc struct {
	Name  string
	Color *ImageView
	Depth *ImageView
	// SampledAfter transitions the attachments to a shader-readable state when
	// the pass ends.
	SampledAfter bool
}

// Target is the destination of a render pass.
type Target struct {
	Name   string
	Handle uint32
	Width  int32
	Height int32
	// Writes lists every image a pass into this target writes.
	Writes       []ImageID
	DepthOnly    bool
	SampledAfter bool
}

// Viewport is a floating point viewport with a depth range.
type Viewport struct {
	X, Y          float32
	Width, Height float32
	MinDepth      float32
	MaxDepth      float32
}

// FullViewport covers a width x height target with the full depth range.
func FullViewport(width, height int32) Viewport {
	return Viewport{Width: float32(width), Height: float32(height), MaxDepth: 1}
}

// Rect is an integer scissor rectangle.
type Rect struct {
	X, Y          int32
	Width, Height int32
}

// FullRect covers a width x height target.
func FullRect(width, height int32) Rect {
	return Rect{Width: width, Height: height}
}

// ClearValue clears either a color or the depth attachment at pass begin.
type ClearValue struct {
	Color   [4]float32
	Depth   float32
	IsDepth bool
}

// ClearColor returns a color clear value.
func ClearColor(r, g, b, a float32) ClearValue {
	return ClearValue{Color: [4]float32{r, g, b, a}}
}

// ClearDepth returns a depth clear value.
func ClearDepth(d float32) ClearValue {
	return ClearValue{Depth: d, IsDepth: true}
}

// CompareOp is a depth comparison function.
type CompareOp uint8

const (
	CompareLess CompareOp = iota
	CompareLessOrEqual
	CompareAlways
)

// CullMode selects which faces are culled.
type CullMode uint8

const (
	CullNone CullMode = iota
	CullBack
	CullFront
)

// PipelineState is the fixed-function state baked into a pipeline.
type PipelineState struct {
	DepthTest    bool
	DepthWrite   bool
	DepthCompare CompareOp
	DepthClamp   bool
	Cull         CullMode
	Blend        bool
	ClipPlane    bool
	// DepthOnly disables color writes.
	DepthOnly bool
}

// PipelineDesc describes a pipeline to build.
type PipelineDesc struct {
	Name           string
	VertexSource   string
	FragmentSource string
	State          PipelineState
	// UniformBlocks maps block names to binding points.
	UniformBlocks map[string]uint32
	// Samplers maps sampler uniform names to texture units.
	Samplers map[string]int32
	// Defines are injected after the #version line.
	Defines map[string]string
}

// Pipeline is a compiled pipeline.
type Pipeline struct {
	Name   string
	Handle uint32
	State  PipelineState
}

// Buffer is a GPU-visible uniform buffer.
type Buffer struct {
	Name   string
	Handle uint32
	Size   int
}

// UniformBinding binds a buffer to a uniform block binding point.
type UniformBinding struct {
	Binding uint32
	Buffer  *Buffer
}

// TextureBinding binds an image view to a texture unit.
type TextureBinding struct {
	Unit uint32
	View ImageView
}

// ResourceSet groups the buffers and textures a draw reads.
type ResourceSet struct {
	Name     string
	Uniforms []UniformBinding
	Textures []TextureBinding
}

// Reads returns the ids of every image sampled through the set.
func (s *ResourceSet) Reads() []ImageID {
	if s == nil {
		return nil
	}
	ids := make([]ImageID, 0, len(s.Textures))
	for _, t := range s.Textures {
		if t.View.Image != nil {
			ids = append(ids, t.View.Image.ID)
		}
	}
	return ids
}

// Samples reports whether the set samples the image with the given id.
func (s *ResourceSet) Samples(id ImageID) bool {
	for _, r := range s.Reads() {
		if r == id {
			return true
		}
	}
	return false
}

// VertexAttribute describes one float attribute of an interleaved vertex.
type VertexAttribute struct {
	Location   uint32
	Components int32
	Offset     int
}

// MeshDesc describes indexed (or, without indices, non-indexed) geometry.
type MeshDesc struct {
	Name       string
	Vertices   []float32
	Stride     int
	Attributes []VertexAttribute
	Indices    []uint32
	// VertexCount is used for non-indexed meshes; zero with no vertices draws
	// an attribute-less primitive (full-screen triangle).
	VertexCount int32
}

// Features lists optional device capabilities.
type Features struct {
	DepthClamp    bool
	Anisotropy    bool
	MaxAnisotropy float32
}

// Device allocates GPU objects. Every allocation is owned by the given scope
// and released when the scope closes.
type Device interface {
	Features() Features
	CreateImage(s *Scope, desc ImageDesc) (*Image, error)
	CreateTarget(s *Scope, desc TargetDesc) (Target, error)
	CreateBuffer(s *Scope, name string, size int) (*Buffer, error)
	WriteBuffer(b *Buffer, data []byte) error
	CreatePipeline(s *Scope, desc PipelineDesc) (*Pipeline, error)
	CreateMesh(s *Scope, desc MeshDesc) (Drawable, error)
	// SwapchainTargets returns one target per presentable image.
	SwapchainTargets() []Target
}

// TargetWrites derives the written image ids of a target description.
func TargetWrites(desc TargetDesc) []ImageID {
	var ids []ImageID
	if desc.Color != nil && desc.Color.Image != nil {
		ids = append(ids, desc.Color.Image.ID)
	}
	if desc.Depth != nil && desc.Depth.Image != nil {
		ids = append(ids, desc.Depth.Image.ID)
	}
	return ids
}

// TargetSize validates a target description and returns its extent.
func TargetSize(desc TargetDesc) (int32, int32, error) {
	switch {
	case desc.Color != nil && desc.Color.Image != nil:
		c := desc.Color.Image
		if desc.Depth != nil && desc.Depth.Image != nil {
			d := desc.Depth.Image
			if d.Width != c.Width || d.Height != c.Height {
				return 0, 0, fmt.Errorf("target %s: color %dx%d and depth %dx%d differ", desc.Name, c.Width, c.Height, d.Width, d.Height)
			}
		}
		return c.Width, c.Height, nil
	case desc.Depth != nil && desc.Depth.Image != nil:
		return desc.Depth.Image.Width, desc.Depth.Image.Height, nil
	default:
		return 0, 0, fmt.Errorf("target %s has no attachments", desc.Name)
	}
}

// WaterPlane is the clip plane shared by both mirror passes: y = 0, normal +Y.
var WaterPlane = math.Vec4{0, 1, 0, 0}
