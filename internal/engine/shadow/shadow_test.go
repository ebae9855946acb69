package shadow

import (
	"testing"

	"github.com/Faultbox/shoreline/internal/engine/gpu"
	"github.com/Faultbox/shoreline/internal/engine/gpu/gputest"
)

func newTestMap(t *testing.T, dev *gputest.Device) *Map {
	t.Helper()
	sm, err := NewMap(gpu.NewScope(), dev, 1024, 4)
	if err != nil {
		t.Fatalf("NewMap() error = %v", err)
	}
	return sm
}

func TestNewMapLayers(t *testing.T) {
	dev := gputest.NewDevice()
	sm := newTestMap(t, dev)

	if !sm.IsValid() {
		t.Fatal("map should be valid")
	}
	if len(dev.Images) != 1 {
		t.Errorf("allocated %d images, want one array", len(dev.Images))
	}
	if sm.Image.Layers != 4 || sm.Image.Format != gpu.FormatDepth32F {
		t.Errorf("image = %+v", sm.Image)
	}
	for i, l := range sm.Layers {
		if l.View.BaseLayer != i || l.View.LayerCount != 1 {
			t.Errorf("layer %d view = %+v", i, l.View)
		}
		if !l.Target.DepthOnly || !l.Target.SampledAfter {
			t.Errorf("layer %d target = %+v", i, l.Target)
		}
		if l.Target.Width != 1024 || l.Target.Height != 1024 {
			t.Errorf("layer %d size = %dx%d", i, l.Target.Width, l.Target.Height)
		}
	}
	if v := sm.View(); v.LayerCount != 4 {
		t.Errorf("View().LayerCount = %d, want 4", v.LayerCount)
	}
}

func TestNewMapDefaultsAndErrors(t *testing.T) {
	dev := gputest.NewDevice()
	sm, err := NewMap(gpu.NewScope(), dev, 0, 2)
	if err != nil {
		t.Fatalf("NewMap() error = %v", err)
	}
	if sm.Resolution != DefaultResolution {
		t.Errorf("Resolution = %d, want %d", sm.Resolution, DefaultResolution)
	}

	if _, err := NewMap(gpu.NewScope(), dev, 512, 0); err == nil {
		t.Error("zero cascades should fail")
	}
	dev.FailImages = true
	if _, err := NewMap(gpu.NewScope(), dev, 512, 4); err == nil {
		t.Error("image allocation failure should propagate")
	}
}

func TestDriverRecord(t *testing.T) {
	dev := gputest.NewDevice()
	sm := newTestMap(t, dev)
	pipeline := &gpu.Pipeline{Name: "shadow", State: PipelineState(dev.Features())}
	set := &gpu.ResourceSet{Name: "csm"}
	terrain := &gputest.Mesh{Name: "terrain", IndexCount: 6}
	d := NewDriver(sm, pipeline, set, terrain)

	rec := &gputest.Recorder{}
	d.Record(rec, 2)

	want := []string{"begin", "viewport", "scissor", "pipeline", "resources", "push", "draw", "end"}
	got := rec.Ops()
	if len(got) != len(want) {
		t.Fatalf("ops = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ops = %v, want %v", got, want)
		}
	}

	begin := rec.Calls[0]
	if begin.Target.Handle != sm.Layers[2].Target.Handle {
		t.Errorf("pass target = %v, want layer 2", begin.Target.Name)
	}
	if len(begin.Clears) != 1 || !begin.Clears[0].IsDepth || begin.Clears[0].Depth != 1 {
		t.Errorf("clears = %+v, want depth 1", begin.Clears)
	}
	if vp := rec.Calls[1].Viewport; vp.Width != 1024 || vp.Height != 1024 {
		t.Errorf("viewport = %+v", vp)
	}
	if sc := rec.Calls[2].Scissor; sc.Width != 1024 || sc.Height != 1024 {
		t.Errorf("scissor = %+v", sc)
	}
	push, ok := rec.Calls[5].Push.(gpu.ShadowPushConstant)
	if !ok || push.CascadeIndex != 2 {
		t.Errorf("push = %#v, want cascade 2", rec.Calls[5].Push)
	}
	if rec.DrawCalls != 1 {
		t.Errorf("draw calls = %d, want 1", rec.DrawCalls)
	}
}

func TestDriverRecordAll(t *testing.T) {
	dev := gputest.NewDevice()
	sm := newTestMap(t, dev)
	d := NewDriver(sm, &gpu.Pipeline{}, &gpu.ResourceSet{}, &gputest.Mesh{IndexCount: 3})

	rec := &gputest.Recorder{}
	d.RecordAll(rec)
	d.Record(rec, 9)

	if n := rec.Count("begin"); n != 4 {
		t.Fatalf("passes = %d, want 4", n)
	}
	idx := int32(0)
	for _, c := range rec.Calls {
		if c.Op != "push" {
			continue
		}
		if got := c.Push.(gpu.ShadowPushConstant).CascadeIndex; got != idx {
			t.Errorf("cascade index = %d, want %d", got, idx)
		}
		idx++
	}
}

func TestPipelineStateDepthClamp(t *testing.T) {
	if !PipelineState(gpu.Features{DepthClamp: true}).DepthClamp {
		t.Error("depth clamp should follow the device feature")
	}
	st := PipelineState(gpu.Features{})
	if st.DepthClamp || st.DepthCompare != gpu.CompareLessOrEqual || !st.DepthOnly {
		t.Errorf("state = %+v", st)
	}
}
