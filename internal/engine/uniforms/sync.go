package uniforms

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/shoreline/internal/engine/csm"
	"github.com/Faultbox/shoreline/internal/engine/gpu"
	"github.com/Faultbox/shoreline/internal/engine/lighting"
	"github.com/Faultbox/shoreline/internal/engine/water"
	"github.com/Faultbox/shoreline/internal/logger"
	"github.com/Faultbox/shoreline/pkg/math"
)

// BufferWriter uploads bytes into a GPU buffer.
type BufferWriter interface {
	WriteBuffer(b *gpu.Buffer, data []byte) error
}

// Buffers are the destinations of every block.
type Buffers struct {
	Scene         *gpu.Buffer
	Refraction    *gpu.Buffer
	Reflection    *gpu.Buffer
	CSM           *gpu.Buffer
	TerrainLayers *gpu.Buffer
}

// NewBuffers allocates every uniform buffer in scope s.
func NewBuffers(s *gpu.Scope, dev gpu.Device) (Buffers, error) {
	var b Buffers
	for _, def := range []struct {
		dst  **gpu.Buffer
		name string
		size int
	}{
		{&b.Scene, "ubo.scene", SceneBlockSize},
		{&b.Refraction, "ubo.refraction", SceneBlockSize},
		{&b.Reflection, "ubo.reflection", SceneBlockSize},
		{&b.CSM, "ubo.csm", CSMBlockSize},
		{&b.TerrainLayers, "ubo.terrain_layers", TerrainLayerBlockSize},
	} {
		buf, err := dev.CreateBuffer(s, def.name, def.size)
		if err != nil {
			return Buffers{}, fmt.Errorf("creating %s: %w", def.name, err)
		}
		*def.dst = buf
	}
	return b, nil
}

// Frame is the per-frame input of the synchronizer.
type Frame struct {
	Camera        csm.Camera
	CameraMoved   bool
	Paused        bool
	LightPosition math.Vec3
	SplitLambda   float32
}

// Synchronizer recomputes the cascades and rewrites the uniform blocks when
// something they depend on changed.
type Synchronizer struct {
	w       BufferWriter
	buffers Buffers
	layers  TerrainLayerBlock

	synced     bool
	dirty      bool
	lastLambda float32
	lastLight  math.Vec3

	scene      SceneBlock
	refraction SceneBlock
	reflection SceneBlock
	csmBlock   CSMBlock
	cascades   [csm.Count]csm.Cascade

	log *zap.Logger
}

// NewSynchronizer creates a synchronizer writing to buffers through w.
func NewSynchronizer(w BufferWriter, buffers Buffers, layers TerrainLayerBlock) *Synchronizer {
	return &Synchronizer{
		w:       w,
		buffers: buffers,
		layers:  layers,
		log:     logger.Named("uniforms"),
	}
}

// Invalidate forces the next Sync to run.
func (s *Synchronizer) Invalidate() {
	s.dirty = true
}

// TerrainLayers returns the terrain layer parameters.
func (s *Synchronizer) TerrainLayers() TerrainLayerBlock { return s.layers }

// SetTerrainLayers replaces the terrain layer parameters.
func (s *Synchronizer) SetTerrainLayers(b TerrainLayerBlock) {
	if b == s.layers {
		return
	}
	s.layers = b
	s.Invalidate()
}

// Due reports whether Sync would run for f.
func (s *Synchronizer) Due(f Frame) bool {
	return !s.synced || s.dirty || f.CameraMoved || !f.Paused ||
		f.SplitLambda != s.lastLambda || f.LightPosition != s.lastLight
}

// Sync recomputes the cascades and uploads every block when due. It reports
// whether anything was written.
func (s *Synchronizer) Sync(f Frame) (bool, error) {
	if !s.Due(f) {
		return false, nil
	}

	cam := f.Camera
	lightDir := lighting.Direction(f.LightPosition)
	view := cam.ViewMatrix()
	proj := cam.ProjectionMatrix()

	s.cascades = csm.Compute(cam, lightDir, f.SplitLambda)
	s.scene = SceneBlock{Projection: proj, Model: view, LightDir: lightDir}
	s.refraction = SceneBlock{Projection: proj, Model: view, LightDir: lightDir}
	s.reflection = SceneBlock{Projection: proj, Model: view.Mul(water.MirrorScale()), LightDir: lightDir}
	s.csmBlock = NewCSMBlock(s.cascades, view, lightDir)

	writes := []struct {
		buf  *gpu.Buffer
		data []byte
	}{
		{s.buffers.Scene, s.scene.Encode()},
		{s.buffers.Refraction, s.refraction.Encode()},
		{s.buffers.Reflection, s.reflection.Encode()},
		{s.buffers.CSM, s.csmBlock.Encode()},
		{s.buffers.TerrainLayers, s.layers.Encode()},
	}
	for _, wr := range writes {
		if wr.buf == nil {
			continue
		}
		if err := s.w.WriteBuffer(wr.buf, wr.data); err != nil {
			return false, fmt.Errorf("writing %s: %w", wr.buf.Name, err)
		}
	}

	s.synced = true
	s.dirty = false
	s.lastLambda = f.SplitLambda
	s.lastLight = f.LightPosition
	s.log.Debug("uniforms synced",
		zap.Float32("lambda", f.SplitLambda),
		zap.Float32("split0", s.csmBlock.Splits[0]))
	return true, nil
}

// Scene returns the last main pass block.
func (s *Synchronizer) Scene() SceneBlock { return s.scene }

// Refraction returns the last refraction pass block.
func (s *Synchronizer) Refraction() SceneBlock { return s.refraction }

// Reflection returns the last reflection pass block.
func (s *Synchronizer) Reflection() SceneBlock { return s.reflection }

// CSM returns the last cascade block.
func (s *Synchronizer) CSM() CSMBlock { return s.csmBlock }

// Cascades returns the last fitted cascades.
func (s *Synchronizer) Cascades() [csm.Count]csm.Cascade { return s.cascades }
