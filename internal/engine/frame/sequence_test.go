package frame

import (
	"errors"
	"testing"

	"github.com/Faultbox/shoreline/internal/engine/gpu"
	"github.com/Faultbox/shoreline/internal/engine/gpu/gputest"
)

var quad = &gputest.Mesh{Name: "quad", VertexCount: 3}

func target(name string, sampledAfter bool, writes ...gpu.ImageID) gpu.Target {
	return gpu.Target{Name: name, Width: 64, Height: 64, Writes: writes, SampledAfter: sampledAfter}
}

func sampling(ids ...gpu.ImageID) *gpu.ResourceSet {
	set := &gpu.ResourceSet{Name: "reads"}
	for i, id := range ids {
		set.Textures = append(set.Textures, gpu.TextureBinding{Unit: uint32(i), View: gpu.WholeImage(&gpu.Image{ID: id})})
	}
	return set
}

func pass(seq *Sequence, t gpu.Target, reads *gpu.ResourceSet) {
	seq.BeginPass(t, nil)
	gpu.DrawSet{Pipeline: &gpu.Pipeline{Name: "p"}, Resources: reads}.Record(seq, quad)
	seq.EndPass()
}

func TestValidateOrderedPasses(t *testing.T) {
	seq := NewSequence()
	pass(seq, target("shadow0", true, 1), nil)
	pass(seq, target("shadow1", true, 1), nil)
	pass(seq, target("mirror", true, 2, 3), sampling(1))
	pass(seq, target("final", false), sampling(1, 2))

	if err := seq.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestValidateHazards(t *testing.T) {
	tests := []struct {
		name  string
		build func(*Sequence)
	}{
		{"read before write", func(s *Sequence) {
			pass(s, target("final", false), sampling(5))
			pass(s, target("mirror", true, 5), nil)
		}},
		{"read between writer passes", func(s *Sequence) {
			pass(s, target("shadow0", true, 1), nil)
			pass(s, target("final", false), sampling(1))
			pass(s, target("shadow1", true, 1), nil)
		}},
		{"feedback loop", func(s *Sequence) {
			pass(s, target("mirror", true, 4), sampling(4))
		}},
		{"not transitioned", func(s *Sequence) {
			pass(s, target("mirror", false, 6), nil)
			pass(s, target("final", false), sampling(6))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq := NewSequence()
			tt.build(seq)
			if err := seq.Validate(); !errors.Is(err, ErrHazard) {
				t.Errorf("Validate() = %v, want ErrHazard", err)
			}
		})
	}
}

func TestValidateStructure(t *testing.T) {
	tests := []struct {
		name  string
		build func(*Sequence)
	}{
		{"nested pass", func(s *Sequence) {
			s.BeginPass(target("a", false), nil)
			s.BeginPass(target("b", false), nil)
			s.EndPass()
			s.EndPass()
		}},
		{"draw outside pass", func(s *Sequence) { s.Draw(quad) }},
		{"stray end", func(s *Sequence) { s.EndPass() }},
		{"open pass", func(s *Sequence) { s.BeginPass(target("a", false), nil) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq := NewSequence()
			tt.build(seq)
			if err := seq.Validate(); !errors.Is(err, ErrStructure) {
				t.Errorf("Validate() = %v, want ErrStructure", err)
			}
		})
	}
}

func TestReplayPreservesOrder(t *testing.T) {
	seq := NewSequence()
	seq.BeginPass(target("final", false), []gpu.ClearValue{gpu.ClearDepth(1)})
	gpu.FillTarget(seq, target("final", false))
	gpu.DrawSet{
		Pipeline:  &gpu.Pipeline{Name: "sky"},
		Resources: &gpu.ResourceSet{Name: "scene"},
		Push:      gpu.SceneDefaults(),
	}.Record(seq, quad)
	seq.EndPass()

	rec := &gputest.Recorder{}
	seq.Replay(rec)
	want := []string{"begin", "viewport", "scissor", "pipeline", "resources", "push", "draw", "end"}
	got := rec.Ops()
	if len(got) != len(want) || seq.Len() != len(want) {
		t.Fatalf("ops = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("op %d = %s, want %s", i, got[i], want[i])
		}
	}
	if rec.DrawCalls != 1 {
		t.Errorf("draw calls = %d, want 1", rec.DrawCalls)
	}
}

func TestPassesCaptureBoundState(t *testing.T) {
	seq := NewSequence()
	sky, terrain := &gpu.Pipeline{Name: "sky"}, &gpu.Pipeline{Name: "terrain"}
	set := &gpu.ResourceSet{Name: "scene"}
	seq.BeginPass(target("final", false), nil)
	gpu.DrawSet{Pipeline: sky, Resources: set}.Record(seq, quad)
	seq.BindPipeline(terrain)
	seq.Draw(quad)
	seq.EndPass()
	seq.BeginPass(target("other", false), nil)
	seq.Draw(quad)
	seq.EndPass()

	passes := seq.Passes()
	if len(passes) != 2 {
		t.Fatalf("passes = %d, want 2", len(passes))
	}
	d := passes[0].Draws
	if len(d) != 2 || d[0].Pipeline != sky || d[1].Pipeline != terrain || d[1].Resources != set {
		t.Errorf("first pass draws = %+v", d)
	}
	if p := passes[1].Draws[0]; p.Pipeline != nil || p.Resources != nil {
		t.Errorf("state leaked into second pass: %+v", p)
	}
	if n := len(seq.Draws()); n != 3 {
		t.Errorf("Draws() = %d, want 3", n)
	}
}
