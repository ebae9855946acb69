// Package uniforms encodes the uniform blocks shared by the scene shaders and
// keeps them in sync with the camera and the light.
package uniforms

import (
	"github.com/Faultbox/shoreline/internal/engine/csm"
	"github.com/Faultbox/shoreline/pkg/math"
)

// Binding points of the uniform blocks.
const (
	SceneBinding        uint32 = 0
	CSMBinding          uint32 = 1
	TerrainLayerBinding uint32 = 2
)

// Block names as declared in the shaders.
const (
	SceneBlockName        = "SceneBlock"
	CSMBlockName          = "CSMBlock"
	TerrainLayerBlockName = "TerrainLayerBlock"
)

// SceneBlock is the per-pass camera block.
type SceneBlock struct {
	Projection math.Mat4
	// Model is the camera view matrix, combined with the mirror transform in
	// the reflection pass.
	Model    math.Mat4
	LightDir math.Vec3
}

// SceneBlockSize is the encoded size of a SceneBlock.
const SceneBlockSize = 64 + 64 + 16

// Encode returns the std140 bytes of the block.
func (b SceneBlock) Encode() []byte {
	var w std140
	w.mat4(b.Projection)
	w.mat4(b.Model)
	w.vec4(b.LightDir.Vec4(0))
	return w.bytes()
}

// CSMBlock carries the cascade splits and light matrices.
type CSMBlock struct {
	Splits      [csm.Count]float32
	ViewProj    [csm.Count]math.Mat4
	InverseView math.Mat4
	LightDir    math.Vec3
}

// CSMBlockSize is the encoded size of a CSMBlock.
const CSMBlockSize = csm.Count*16 + csm.Count*64 + 64 + 16

// NewCSMBlock fills a block from fitted cascades.
func NewCSMBlock(cascades [csm.Count]csm.Cascade, view math.Mat4, lightDir math.Vec3) CSMBlock {
	b := CSMBlock{
		Splits:      csm.SplitDepths(cascades),
		InverseView: view.Inverse(),
		LightDir:    lightDir,
	}
	for i, c := range cascades {
		b.ViewProj[i] = c.ViewProj
	}
	return b
}

// Encode returns the std140 bytes of the block.
func (b CSMBlock) Encode() []byte {
	var w std140
	for _, s := range b.Splits {
		w.arrayFloat(s)
	}
	for _, m := range b.ViewProj {
		w.mat4(m)
	}
	w.mat4(b.InverseView)
	w.vec4(b.LightDir.Vec4(0))
	return w.bytes()
}

// TerrainLayerCount is the number of height-blended terrain layers.
const TerrainLayerCount = 6

// TerrainLayer is the normalized start height and blend range of a layer.
type TerrainLayer struct {
	Start float32
	Range float32
}

// TerrainLayerBlock holds the blend parameters of every terrain layer.
type TerrainLayerBlock struct {
	Layers [TerrainLayerCount]TerrainLayer
}

// TerrainLayerBlockSize is the encoded size of a TerrainLayerBlock.
const TerrainLayerBlockSize = TerrainLayerCount * 16

// DefaultTerrainLayers blends sand, grass, rock and snow bands.
func DefaultTerrainLayers() TerrainLayerBlock {
	return TerrainLayerBlock{Layers: [TerrainLayerCount]TerrainLayer{
		{Start: 0.0, Range: 0.1},
		{Start: 0.08, Range: 0.15},
		{Start: 0.25, Range: 0.2},
		{Start: 0.45, Range: 0.2},
		{Start: 0.65, Range: 0.2},
		{Start: 0.85, Range: 0.15},
	}}
}

// NewTerrainLayerBlock fills a block from start/range pairs. Missing layers
// keep the defaults and extra pairs are ignored.
func NewTerrainLayerBlock(pairs [][2]float32) TerrainLayerBlock {
	b := DefaultTerrainLayers()
	for i := 0; i < len(pairs) && i < TerrainLayerCount; i++ {
		b.Layers[i] = TerrainLayer{Start: pairs[i][0], Range: pairs[i][1]}
	}
	return b
}

// Pairs returns the start/range pair of every layer.
func (b TerrainLayerBlock) Pairs() [][2]float32 {
	pairs := make([][2]float32, TerrainLayerCount)
	for i, l := range b.Layers {
		pairs[i] = [2]float32{l.Start, l.Range}
	}
	return pairs
}

// Encode returns the std140 bytes of the block.
func (b TerrainLayerBlock) Encode() []byte {
	var w std140
	for _, l := range b.Layers {
		w.vec4(math.Vec4{l.Start, l.Range, 0, 0})
	}
	return w.bytes()
}
