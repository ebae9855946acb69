package uniforms

import (
	"encoding/binary"
	stdmath "math"
	"testing"

	"github.com/Faultbox/shoreline/internal/engine/csm"
	"github.com/Faultbox/shoreline/pkg/math"
)

func floatAt(b []byte, offset int) float32 {
	return stdmath.Float32frombits(binary.LittleEndian.Uint32(b[offset:]))
}

func TestSceneBlockLayout(t *testing.T) {
	b := SceneBlock{
		Projection: math.Identity(),
		Model:      math.Translate(1, 2, 3),
		LightDir:   math.Vec3{X: 0.5, Y: -0.5, Z: 0.25},
	}
	data := b.Encode()
	if len(data) != SceneBlockSize {
		t.Fatalf("len = %d, want %d", len(data), SceneBlockSize)
	}
	if got := floatAt(data, 0); got != 1 {
		t.Errorf("projection[0] = %v, want 1", got)
	}
	if got := floatAt(data, 64+12*4); got != 1 {
		t.Errorf("model translation x = %v, want 1", got)
	}
	for i, want := range []float32{0.5, -0.5, 0.25, 0} {
		if got := floatAt(data, 128+i*4); got != want {
			t.Errorf("lightDir[%d] = %v, want %v", i, got, want)
		}
	}
}

func TestCSMBlockLayout(t *testing.T) {
	var cascades [csm.Count]csm.Cascade
	for i := range cascades {
		cascades[i].SplitDepth = -float32(i + 1)
		cascades[i].ViewProj = math.Scale(float32(i+2), 1, 1)
	}
	b := NewCSMBlock(cascades, math.Translate(0, 0, -5), math.Vec3{Y: -1})
	data := b.Encode()
	if len(data) != CSMBlockSize {
		t.Fatalf("len = %d, want %d", len(data), CSMBlockSize)
	}
	for i := 0; i < csm.Count; i++ {
		if got := floatAt(data, i*16); got != -float32(i+1) {
			t.Errorf("split[%d] = %v, want %v", i, got, -float32(i+1))
		}
		if got := floatAt(data, csm.Count*16+i*64); got != float32(i+2) {
			t.Errorf("viewProj[%d][0] = %v, want %v", i, got, float32(i+2))
		}
	}
	inv := csm.Count*16 + csm.Count*64
	if got := floatAt(data, inv+14*4); got != 5 {
		t.Errorf("inverse view translation z = %v, want 5", got)
	}
	if got := floatAt(data, inv+64+4); got != -1 {
		t.Errorf("lightDir.y = %v, want -1", got)
	}
}

func TestTerrainLayerBlock(t *testing.T) {
	b := NewTerrainLayerBlock([][2]float32{{0.1, 0.2}, {0.3, 0.4}})
	data := b.Encode()
	if len(data) != TerrainLayerBlockSize {
		t.Fatalf("len = %d, want %d", len(data), TerrainLayerBlockSize)
	}
	if floatAt(data, 0) != 0.1 || floatAt(data, 4) != 0.2 || floatAt(data, 16) != 0.3 || floatAt(data, 20) != 0.4 {
		t.Errorf("first layers not encoded: %v", b.Layers[:2])
	}
	def := DefaultTerrainLayers()
	if b.Layers[5] != def.Layers[5] {
		t.Errorf("missing layer = %+v, want default %+v", b.Layers[5], def.Layers[5])
	}

	many := make([][2]float32, 10)
	if got := NewTerrainLayerBlock(many); got.Layers[5] != (TerrainLayer{}) {
		t.Errorf("extra pairs should be ignored, got %+v", got.Layers[5])
	}
}
