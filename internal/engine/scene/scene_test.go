package scene

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Faultbox/shoreline/internal/config"
	"github.com/Faultbox/shoreline/internal/engine/camera"
	"github.com/Faultbox/shoreline/internal/engine/gpu"
	"github.com/Faultbox/shoreline/internal/engine/gpu/gputest"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Grid = 9
	cfg.ShadowResolution = 256
	cfg.MirrorResolution = 256
	cfg.AnimateLight = false
	return cfg
}

func newTestScene(t *testing.T, overlay gpu.Drawable) (*Scene, *gputest.Device) {
	t.Helper()
	dev := gputest.NewDevice()
	s, err := New(dev, testConfig(), overlay)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, dev
}

func TestNewCreatesPipelines(t *testing.T) {
	_, dev := newTestScene(t, nil)

	for _, name := range []string{"terrain", "terrain.shadow", "sky", "water", "debug.color", "debug.depth"} {
		if dev.Pipeline(name) == nil {
			t.Errorf("pipeline %q was not created", name)
		}
	}
	if p := dev.Pipeline("terrain.shadow"); p != nil && !p.State.DepthClamp {
		t.Error("shadow pipeline should clamp depth when the device supports it")
	}
	if p := dev.Pipeline("terrain"); p != nil && !p.State.ClipPlane {
		t.Error("terrain pipeline should enable the clip plane")
	}
}

func TestRenderRecordsEveryPass(t *testing.T) {
	s, dev := newTestScene(t, nil)
	rec := &gputest.Recorder{}

	if err := s.Render(rec); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	// 4 cascades, refraction, reflection, final
	if got := rec.Count("begin"); got != 7 {
		t.Errorf("got %d passes, want 7", got)
	}
	// terrain per cascade, sky+terrain per mirror pass, sky+terrain+water
	if got := rec.Count("draw"); got != 4+2+2+3 {
		t.Errorf("got %d draws, want 11", got)
	}
	if got := len(dev.Writes); got != 5 {
		t.Errorf("got %d uniform buffers written, want 5", got)
	}
}

func TestDebugViewsAddOneDrawEach(t *testing.T) {
	s, _ := newTestScene(t, nil)

	base := &gputest.Recorder{}
	if err := s.Render(base); err != nil {
		t.Fatal(err)
	}

	s.SetDescriptor(s.Descriptor().WithReflection(true))
	rec := &gputest.Recorder{}
	if err := s.Render(rec); err != nil {
		t.Fatal(err)
	}
	if got, want := rec.Count("draw"), base.Count("draw")+1; got != want {
		t.Errorf("got %d draws with reflection preview, want %d", got, want)
	}

	s.SetDescriptor(s.Descriptor().WithRefraction(true).WithCascadeDebug(true, 2))
	rec = &gputest.Recorder{}
	if err := s.Render(rec); err != nil {
		t.Fatal(err)
	}
	if got, want := rec.Count("draw"), base.Count("draw")+3; got != want {
		t.Errorf("got %d draws with every preview, want %d", got, want)
	}
	if got := rec.Count("begin"); got != 7 {
		t.Errorf("previews must not add passes, got %d", got)
	}
}

func TestCascadeDebugIndexClamped(t *testing.T) {
	s, _ := newTestScene(t, nil)

	s.SetDescriptor(s.Descriptor().WithCascadeDebug(true, 42))
	if got := s.Descriptor().CascadeDebug.Index; got != s.CascadeCount()-1 {
		t.Errorf("got cascade index %d, want %d", got, s.CascadeCount()-1)
	}
}

func TestOverlayDrawnLast(t *testing.T) {
	overlay := &gputest.Mesh{Name: "overlay", VertexCount: 3}
	s, _ := newTestScene(t, overlay)
	rec := &gputest.Recorder{}

	if err := s.Render(rec); err != nil {
		t.Fatal(err)
	}

	ops := rec.Ops()
	if len(ops) < 2 || ops[len(ops)-1] != "end" || ops[len(ops)-2] != "draw" {
		t.Fatalf("final pass should end with the overlay draw, got %v", ops)
	}
	if got := rec.Calls[len(rec.Calls)-2].Drawable; got != overlay {
		t.Errorf("last draw is %v, want the overlay", got)
	}
}

func TestPausedStaticSceneSkipsUpload(t *testing.T) {
	s, dev := newTestScene(t, nil)
	s.SetPaused(true)

	if err := s.Render(&gputest.Recorder{}); err != nil {
		t.Fatal(err)
	}
	for k := range dev.Writes {
		delete(dev.Writes, k)
	}

	if err := s.Render(&gputest.Recorder{}); err != nil {
		t.Fatal(err)
	}
	if len(dev.Writes) != 0 {
		t.Errorf("paused static frame wrote %d buffers, want 0", len(dev.Writes))
	}

	s.Update(0.1, camera.Controls{Forward: 1})
	if err := s.Render(&gputest.Recorder{}); err != nil {
		t.Fatal(err)
	}
	if len(dev.Writes) != 5 {
		t.Errorf("camera movement wrote %d buffers, want 5", len(dev.Writes))
	}
}

func TestSetSplitLambda(t *testing.T) {
	s, _ := newTestScene(t, nil)

	s.SetSplitLambda(2)
	if got := s.SplitLambda(); got != 1 {
		t.Errorf("got lambda %v, want 1", got)
	}
	s.SetSplitLambda(-3)
	if got := s.SplitLambda(); got != 0 {
		t.Errorf("got lambda %v, want 0", got)
	}
}

func TestSetMirrorResolution(t *testing.T) {
	s, _ := newTestScene(t, nil)
	if err := s.Render(&gputest.Recorder{}); err != nil {
		t.Fatal(err)
	}

	if err := s.SetMirrorResolution(300); err != nil {
		t.Fatalf("SetMirrorResolution failed: %v", err)
	}
	if got := s.MirrorResolution(); got != 512 {
		t.Errorf("got mirror resolution %d, want 512", got)
	}

	rec := &gputest.Recorder{}
	if err := s.Render(rec); err != nil {
		t.Fatalf("Render after resize failed: %v", err)
	}
	for _, c := range rec.Calls {
		if c.Op == "begin" && (c.Target.Name == "refraction" || c.Target.Name == "reflection") {
			if c.Target.Width != 512 || c.Target.Height != 512 {
				t.Errorf("%s target is %dx%d, want 512x512", c.Target.Name, c.Target.Width, c.Target.Height)
			}
		}
	}
}

func TestSetMirrorResolutionFailureKeepsPairs(t *testing.T) {
	s, dev := newTestScene(t, nil)
	if err := s.Render(&gputest.Recorder{}); err != nil {
		t.Fatal(err)
	}

	// the refraction pair builds, the reflection color image fails
	dev.FailImagesAfter = len(dev.Images) + 2
	if err := s.SetMirrorResolution(1024); err == nil {
		t.Fatal("expected SetMirrorResolution to fail")
	}
	if got := s.MirrorResolution(); got != 256 {
		t.Errorf("got mirror resolution %d, want 256", got)
	}

	rec := &gputest.Recorder{}
	if err := s.Render(rec); err != nil {
		t.Fatalf("Render after failed resize: %v", err)
	}
	seen := 0
	for _, c := range rec.Calls {
		if c.Op == "begin" && (c.Target.Name == "refraction" || c.Target.Name == "reflection") {
			seen++
			if c.Target.Width != 256 || c.Target.Height != 256 {
				t.Errorf("%s target is %dx%d, want 256x256", c.Target.Name, c.Target.Width, c.Target.Height)
			}
		}
	}
	if seen != 2 {
		t.Errorf("recorded %d mirror passes, want 2", seen)
	}

	dev.FailImagesAfter = 0
	if err := s.SetMirrorResolution(1024); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if got := s.MirrorResolution(); got != 1024 {
		t.Errorf("got mirror resolution %d after retry, want 1024", got)
	}
}

func TestResizeUpdatesFinalTarget(t *testing.T) {
	s, dev := newTestScene(t, nil)

	dev.Width, dev.Height = 800, 600
	s.Resize(800, 600)

	rec := &gputest.Recorder{}
	if err := s.Render(rec); err != nil {
		t.Fatal(err)
	}
	var final gputest.Call
	for _, c := range rec.Calls {
		if c.Op == "begin" {
			final = c
		}
	}
	if final.Target.Width != 800 || final.Target.Height != 600 {
		t.Errorf("final target is %dx%d, want 800x600", final.Target.Width, final.Target.Height)
	}
	if got, want := s.Camera.Aspect, float32(800)/600; got != want {
		t.Errorf("got aspect %v, want %v", got, want)
	}
}

func TestCloseReleasesEverything(t *testing.T) {
	dev := gputest.NewDevice()
	s, err := New(dev, testConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}

	created := len(dev.Images) + len(dev.Targets) + len(dev.Buffers) + len(dev.Pipelines) + len(dev.Meshes)
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if dev.Released != created {
		t.Errorf("released %d objects, want %d", dev.Released, created)
	}
}

func TestNewFailsCleanly(t *testing.T) {
	dev := gputest.NewDevice()
	dev.FailImages = true

	if _, err := New(dev, testConfig(), nil); err == nil {
		t.Fatal("expected New to fail when images cannot be created")
	}
	created := len(dev.Targets) + len(dev.Buffers) + len(dev.Pipelines) + len(dev.Meshes)
	if dev.Released != created {
		t.Errorf("released %d objects after failure, want %d", dev.Released, created)
	}
}

func TestBuildSphere(t *testing.T) {
	vertices, indices := BuildSphere(4, 8)

	if got, want := len(vertices), 5*9*3; got != want {
		t.Errorf("got %d floats, want %d", got, want)
	}
	if got, want := len(indices), 4*8*6; got != want {
		t.Errorf("got %d indices, want %d", got, want)
	}
	for i := 0; i < len(vertices); i += 3 {
		x, y, z := vertices[i], vertices[i+1], vertices[i+2]
		if r := x*x + y*y + z*z; r < 0.999 || r > 1.001 {
			t.Fatalf("vertex %d not on unit sphere: r^2 = %v", i/3, r)
		}
	}
	max := uint32(len(vertices) / 3)
	for _, idx := range indices {
		if idx >= max {
			t.Fatalf("index %d out of range %d", idx, max)
		}
	}
}

func TestGLSLFloat(t *testing.T) {
	if got := glslFloat(-2); got != "-2.0000" {
		t.Errorf("got %q, want -2.0000", got)
	}
}

func TestApplyTunables(t *testing.T) {
	overlay := &gputest.Mesh{Name: "overlay", VertexCount: 3}
	s, _ := newTestScene(t, overlay)

	c := config.Default()
	c.Shadows.SplitLambda = 0.3
	c.Light.Animate = true
	c.Debug.Refraction = true
	c.Debug.Cascade = true
	c.Debug.CascadeIndex = 1
	c.Mirror.Resolution = 1024

	if err := s.ApplyTunables(c); err != nil {
		t.Fatalf("ApplyTunables failed: %v", err)
	}
	if got := s.SplitLambda(); got != 0.3 {
		t.Errorf("got lambda %v, want 0.3", got)
	}
	if !s.LightAnimated() {
		t.Error("light animation not enabled")
	}
	d := s.Descriptor()
	if !d.DisplayRefraction || d.DisplayReflection || !d.CascadeDebug.Enabled || d.CascadeDebug.Index != 1 {
		t.Errorf("descriptor not applied: %+v", d)
	}
	if !d.Overlay {
		t.Error("overlay flag must be kept")
	}
	if got := s.MirrorResolution(); got != 1024 {
		t.Errorf("got mirror resolution %d, want 1024", got)
	}
	if got := s.TerrainLayers(); got[0] != c.Terrain.Layers[0] || got[5] != c.Terrain.Layers[5] {
		t.Errorf("terrain layers not applied: %v", got)
	}
}

func TestSetTerrainLayersRewritesBlock(t *testing.T) {
	s, dev := newTestScene(t, nil)
	s.SetPaused(true)
	if err := s.Render(&gputest.Recorder{}); err != nil {
		t.Fatal(err)
	}
	layersBuf := s.buffers.TerrainLayers.Handle
	old := dev.Writes[layersBuf]
	for k := range dev.Writes {
		delete(dev.Writes, k)
	}

	s.SetTerrainLayers([][2]float32{{0.3, 0.5}, {0.6, 0}})
	if got := s.TerrainLayers(); got[0] != [2]float32{0.3, 0.5} || got[1][1] != config.MinLayerRange {
		t.Errorf("got layers %v", got[:2])
	}

	if err := s.Render(&gputest.Recorder{}); err != nil {
		t.Fatal(err)
	}
	data, ok := dev.Writes[layersBuf]
	if !ok {
		t.Fatal("terrain layer block was not rewritten while paused")
	}
	if string(data) == string(old) {
		t.Error("terrain layer block still holds the old layers")
	}
	if got, want := math.Float32frombits(binary.LittleEndian.Uint32(data[16:])), float32(0.6); got != want {
		t.Errorf("second layer start = %v, want %v", got, want)
	}
}

func TestStoreTunablesRoundTrip(t *testing.T) {
	s, _ := newTestScene(t, nil)
	s.SetSplitLambda(0.7)
	s.SetLightAnimated(true)
	s.SetTerrainLayers([][2]float32{{0.1, 0.3}})
	s.SetDescriptor(s.Descriptor().WithReflection(true).WithCascadeDebug(true, 2))
	if err := s.SetMirrorResolution(512); err != nil {
		t.Fatal(err)
	}

	c := config.Default()
	s.StoreTunables(c)
	if c.Shadows.SplitLambda != 0.7 || !c.Light.Animate || c.Mirror.Resolution != 512 {
		t.Errorf("stored lambda=%v animate=%v mirror=%d", c.Shadows.SplitLambda, c.Light.Animate, c.Mirror.Resolution)
	}
	if !c.Debug.Reflection || c.Debug.Refraction || !c.Debug.Cascade || c.Debug.CascadeIndex != 2 {
		t.Errorf("stored debug = %+v", c.Debug)
	}
	if len(c.Terrain.Layers) != 6 || c.Terrain.Layers[0] != [2]float32{0.1, 0.3} {
		t.Errorf("stored layers = %v", c.Terrain.Layers)
	}

	other, _ := newTestScene(t, nil)
	if err := other.ApplyTunables(c); err != nil {
		t.Fatal(err)
	}
	if other.SplitLambda() != s.SplitLambda() || other.Descriptor().CascadeDebug != s.Descriptor().CascadeDebug {
		t.Error("applying stored tunables did not reproduce the scene settings")
	}
}
