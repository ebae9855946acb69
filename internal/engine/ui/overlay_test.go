package ui

import (
	"errors"
	"testing"
	"time"

	"github.com/Faultbox/shoreline/internal/engine/csm"
	"github.com/Faultbox/shoreline/internal/engine/frame"
	"github.com/Faultbox/shoreline/internal/engine/uniforms"
)

type fakeSettings struct {
	paused   bool
	animate  bool
	lambda   float32
	desc     frame.Descriptor
	mirror   int32
	layers   [][2]float32
	calls    []string
	mirrorFn func(int32) error
}

func (f *fakeSettings) Paused() bool                     { return f.paused }
func (f *fakeSettings) LightAnimated() bool              { return f.animate }
func (f *fakeSettings) SplitLambda() float32             { return f.lambda }
func (f *fakeSettings) Descriptor() frame.Descriptor     { return f.desc }
func (f *fakeSettings) CascadeCount() int                { return csm.Count }
func (f *fakeSettings) Cascades() [csm.Count]csm.Cascade { return [csm.Count]csm.Cascade{} }
func (f *fakeSettings) MirrorResolution() int32          { return f.mirror }
func (f *fakeSettings) TerrainLayers() [][2]float32      { return f.layers }

func (f *fakeSettings) SetTerrainLayers(l [][2]float32) {
	f.layers = l
	f.calls = append(f.calls, "layers")
}

func (f *fakeSettings) SetPaused(p bool) {
	f.paused = p
	f.calls = append(f.calls, "pause")
}

func (f *fakeSettings) SetLightAnimated(on bool) {
	f.animate = on
	f.calls = append(f.calls, "light")
}

func (f *fakeSettings) SetSplitLambda(l float32) {
	f.lambda = l
	f.calls = append(f.calls, "lambda")
}

func (f *fakeSettings) SetDescriptor(d frame.Descriptor) {
	f.desc = d
	f.calls = append(f.calls, "descriptor")
}

func (f *fakeSettings) SetMirrorResolution(res int32) error {
	f.calls = append(f.calls, "mirror")
	if f.mirrorFn != nil {
		return f.mirrorFn(res)
	}
	f.mirror = res
	return nil
}

func TestReadState(t *testing.T) {
	s := &fakeSettings{
		paused:  true,
		animate: true,
		lambda:  0.5,
		desc:    frame.Descriptor{}.WithRefraction(true).WithCascadeDebug(true, 2),
		mirror:  1024,
	}

	got := readState(s)
	want := panelState{
		Paused:       true,
		AnimateLight: true,
		Lambda:       0.5,
		Refraction:   true,
		Cascade:      true,
		CascadeIndex: 2,
		MirrorExp:    10,
	}
	if got != want {
		t.Errorf("readState() = %+v, want %+v", got, want)
	}
}

func TestApplyUnchangedDoesNothing(t *testing.T) {
	s := &fakeSettings{mirror: 512}
	st := readState(s)

	if err := apply(s, st, st); err != nil {
		t.Fatal(err)
	}
	if len(s.calls) != 0 {
		t.Errorf("unchanged panel made calls %v", s.calls)
	}
}

func TestApplyChanges(t *testing.T) {
	s := &fakeSettings{mirror: 512, desc: frame.Descriptor{Overlay: true}}
	before := readState(s)

	after := before
	after.Paused = true
	after.Lambda = 0.25
	after.Reflection = true
	after.CascadeIndex = 3
	after.MirrorExp = 11

	if err := apply(s, before, after); err != nil {
		t.Fatal(err)
	}
	if !s.paused {
		t.Error("pause not applied")
	}
	if s.lambda != 0.25 {
		t.Errorf("got lambda %v, want 0.25", s.lambda)
	}
	if !s.desc.DisplayReflection || s.desc.CascadeDebug.Index != 3 {
		t.Errorf("descriptor not applied: %+v", s.desc)
	}
	if !s.desc.Overlay {
		t.Error("overlay flag must survive a descriptor change")
	}
	if s.mirror != 2048 {
		t.Errorf("got mirror resolution %d, want 2048", s.mirror)
	}
	if s.animate {
		t.Error("light animation changed without input")
	}
}

func TestApplyMirrorError(t *testing.T) {
	boom := errors.New("boom")
	s := &fakeSettings{mirror: 512, mirrorFn: func(int32) error { return boom }}
	before := readState(s)
	after := before
	after.MirrorExp = 9

	if err := apply(s, before, after); !errors.Is(err, boom) {
		t.Errorf("got %v, want wrapped boom", err)
	}
}

func TestApplyTerrainLayers(t *testing.T) {
	s := &fakeSettings{mirror: 512, layers: [][2]float32{{0, 0.1}, {0.2, 0.3}}}
	before := readState(s)
	if before.Layers[1] != [2]float32{0.2, 0.3} || before.Layers[2] != [2]float32{} {
		t.Fatalf("readState layers = %v", before.Layers)
	}

	after := before
	after.Layers[1][0] = 0.4
	if err := apply(s, before, after); err != nil {
		t.Fatal(err)
	}
	if len(s.calls) != 1 || s.calls[0] != "layers" {
		t.Errorf("calls = %v, want only layers", s.calls)
	}
	if len(s.layers) != uniforms.TerrainLayerCount || s.layers[1] != [2]float32{0.4, 0.3} {
		t.Errorf("got layers %v", s.layers)
	}
}

func TestMirrorExp(t *testing.T) {
	tests := []struct {
		res  int32
		want int32
	}{
		{0, minMirrorExp},
		{128, minMirrorExp},
		{256, 8},
		{512, 9},
		{700, 9},
		{4096, 12},
		{8192, maxMirrorExp},
	}
	for _, tt := range tests {
		if got := mirrorExp(tt.res); got != tt.want {
			t.Errorf("mirrorExp(%d) = %d, want %d", tt.res, got, tt.want)
		}
	}
}

func TestTiming(t *testing.T) {
	clock := time.Unix(100, 0)
	tm := &Timing{now: func() time.Time { return clock }}

	if dt := tm.Tick(); dt != 0 {
		t.Errorf("first tick = %v, want 0", dt)
	}
	if tm.FPS() != 0 {
		t.Errorf("FPS before any frame = %v, want 0", tm.FPS())
	}

	clock = clock.Add(20 * time.Millisecond)
	if dt := tm.Tick(); dt < 0.0199 || dt > 0.0201 {
		t.Errorf("tick = %v, want 0.02", dt)
	}
	if ms := tm.Milliseconds(); ms != 20 {
		t.Errorf("average = %v ms, want 20", ms)
	}
	if fps := tm.FPS(); fps != 50 {
		t.Errorf("FPS = %v, want 50", fps)
	}

	clock = clock.Add(10 * time.Millisecond)
	tm.Tick()
	if ms := tm.Milliseconds(); ms != 19 {
		t.Errorf("average = %v ms, want 19", ms)
	}
}
