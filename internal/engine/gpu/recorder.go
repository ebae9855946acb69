package gpu

// Recorder receives rendering commands. A backend executes them directly; a
// frame.Sequence stores them for replay.
type Recorder interface {
	BeginPass(target Target, clears []ClearValue)
	EndPass()
	BindPipeline(p *Pipeline)
	BindResources(set *ResourceSet)
	PushConstants(pc PushConstant)
	SetViewport(vp Viewport)
	SetScissor(r Rect)
	Draw(d Drawable)
}

// DrawContext is handed to a Drawable while the backend executes a draw.
type DrawContext interface {
	DrawIndexed(vao uint32, indexCount int32)
	DrawArrays(vao uint32, first, count int32)
}

// Drawable is an opaque object that issues its own draw calls.
type Drawable interface {
	Draw(ctx DrawContext)
}

// DrawableFunc adapts a function to the Drawable interface.
type DrawableFunc func(ctx DrawContext)

// Draw calls f(ctx).
func (f DrawableFunc) Draw(ctx DrawContext) { f(ctx) }

// DrawSet is the pipeline, resource bindings and push constant bound
// immediately before a draw.
type DrawSet struct {
	Pipeline  *Pipeline
	Resources *ResourceSet
	Push      PushConstant
}

// Record binds the set and draws d.
func (s DrawSet) Record(rec Recorder, d Drawable) {
	rec.BindPipeline(s.Pipeline)
	if s.Resources != nil {
		rec.BindResources(s.Resources)
	}
	if s.Push != nil {
		rec.PushConstants(s.Push)
	}
	rec.Draw(d)
}

// FillTarget sets a viewport and scissor covering the whole target.
func FillTarget(rec Recorder, t Target) {
	rec.SetViewport(FullViewport(t.Width, t.Height))
	rec.SetScissor(FullRect(t.Width, t.Height))
}
