package gputest

import "github.com/Faultbox/shoreline/internal/engine/gpu"

// Call is one command seen by a Recorder.
type Call struct {
	Op        string
	Target    gpu.Target
	Clears    []gpu.ClearValue
	Pipeline  *gpu.Pipeline
	Resources *gpu.ResourceSet
	Push      gpu.PushConstant
	Viewport  gpu.Viewport
	Scissor   gpu.Rect
	Drawable  gpu.Drawable
}

// Recorder logs every command and executes drawables against itself.
type Recorder struct {
	Calls []Call
	// DrawCalls counts DrawIndexed/DrawArrays issued by drawables.
	DrawCalls int
}

func (r *Recorder) BeginPass(t gpu.Target, clears []gpu.ClearValue) {
	r.Calls = append(r.Calls, Call{Op: "begin", Target: t, Clears: clears})
}

func (r *Recorder) EndPass() { r.Calls = append(r.Calls, Call{Op: "end"}) }

func (r *Recorder) BindPipeline(p *gpu.Pipeline) {
	r.Calls = append(r.Calls, Call{Op: "pipeline", Pipeline: p})
}

func (r *Recorder) BindResources(set *gpu.ResourceSet) {
	r.Calls = append(r.Calls, Call{Op: "resources", Resources: set})
}

func (r *Recorder) PushConstants(pc gpu.PushConstant) {
	r.Calls = append(r.Calls, Call{Op: "push", Push: pc})
}

func (r *Recorder) SetViewport(vp gpu.Viewport) {
	r.Calls = append(r.Calls, Call{Op: "viewport", Viewport: vp})
}

func (r *Recorder) SetScissor(rect gpu.Rect) {
	r.Calls = append(r.Calls, Call{Op: "scissor", Scissor: rect})
}

func (r *Recorder) Draw(d gpu.Drawable) {
	r.Calls = append(r.Calls, Call{Op: "draw", Drawable: d})
	d.Draw(r)
}

func (r *Recorder) DrawIndexed(uint32, int32)       { r.DrawCalls++ }
func (r *Recorder) DrawArrays(uint32, int32, int32) { r.DrawCalls++ }

// Ops returns the operation names in order.
func (r *Recorder) Ops() []string {
	ops := make([]string, len(r.Calls))
	for i, c := range r.Calls {
		ops[i] = c.Op
	}
	return ops
}

// Count returns how many calls have the given op.
func (r *Recorder) Count(op string) int {
	n := 0
	for _, c := range r.Calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Last returns the most recent call with the given op before index i.
func (r *Recorder) Last(op string, i int) (Call, bool) {
	for j := i - 1; j >= 0; j-- {
		if r.Calls[j].Op == op {
			return r.Calls[j], true
		}
	}
	return Call{}, false
}
