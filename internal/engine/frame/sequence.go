// Package frame records the ordered passes of a frame and replays them.
package frame

import (
	"errors"
	"fmt"

	"github.com/Faultbox/shoreline/internal/engine/gpu"
)

var (
	// ErrHazard reports a read of an image that is not ready to be sampled.
	ErrHazard = errors.New("frame: resource hazard")
	// ErrStructure reports misplaced pass commands.
	ErrStructure = errors.New("frame: invalid pass structure")
)

// Op is a recorded command kind.
type Op uint8

const (
	OpBeginPass Op = iota + 1
	OpEndPass
	OpBindPipeline
	OpBindResources
	OpPushConstants
	OpSetViewport
	OpSetScissor
	OpDraw
)

// Command is one recorded call.
type Command struct {
	Op        Op
	Target    gpu.Target
	Clears    []gpu.ClearValue
	Pipeline  *gpu.Pipeline
	Resources *gpu.ResourceSet
	Push      gpu.PushConstant
	Viewport  gpu.Viewport
	Scissor   gpu.Rect
	Drawable  gpu.Drawable
}

// Sequence stores commands for replay. It implements gpu.Recorder.
type Sequence struct {
	commands []Command
	inPass   bool
	err      error
}

// NewSequence returns an empty sequence.
func NewSequence() *Sequence {
	return &Sequence{}
}

func (s *Sequence) fail(format string, args ...any) {
	if s.err == nil {
		s.err = fmt.Errorf("%w: "+format, append([]any{ErrStructure}, args...)...)
	}
}

func (s *Sequence) add(c Command) {
	s.commands = append(s.commands, c)
}

func (s *Sequence) BeginPass(t gpu.Target, clears []gpu.ClearValue) {
	if s.inPass {
		s.fail("pass %s begins inside another pass", t.Name)
	}
	s.inPass = true
	s.add(Command{Op: OpBeginPass, Target: t, Clears: append([]gpu.ClearValue(nil), clears...)})
}

func (s *Sequence) EndPass() {
	if !s.inPass {
		s.fail("end without a pass")
	}
	s.inPass = false
	s.add(Command{Op: OpEndPass})
}

func (s *Sequence) BindPipeline(p *gpu.Pipeline) {
	s.add(Command{Op: OpBindPipeline, Pipeline: p})
}

func (s *Sequence) BindResources(set *gpu.ResourceSet) {
	s.add(Command{Op: OpBindResources, Resources: set})
}

func (s *Sequence) PushConstants(pc gpu.PushConstant) {
	s.add(Command{Op: OpPushConstants, Push: pc})
}

func (s *Sequence) SetViewport(vp gpu.Viewport) {
	s.add(Command{Op: OpSetViewport, Viewport: vp})
}

func (s *Sequence) SetScissor(r gpu.Rect) {
	s.add(Command{Op: OpSetScissor, Scissor: r})
}

func (s *Sequence) Draw(d gpu.Drawable) {
	if !s.inPass {
		s.fail("draw outside a pass")
	}
	s.add(Command{Op: OpDraw, Drawable: d})
}

// Len returns the number of recorded commands.
func (s *Sequence) Len() int {
	return len(s.commands)
}

// Commands returns the recorded commands.
func (s *Sequence) Commands() []Command {
	return s.commands
}

// Replay issues every command to rec in recording order.
func (s *Sequence) Replay(rec gpu.Recorder) {
	for _, c := range s.commands {
		switch c.Op {
		case OpBeginPass:
			rec.BeginPass(c.Target, c.Clears)
		case OpEndPass:
			rec.EndPass()
		case OpBindPipeline:
			rec.BindPipeline(c.Pipeline)
		case OpBindResources:
			rec.BindResources(c.Resources)
		case OpPushConstants:
			rec.PushConstants(c.Push)
		case OpSetViewport:
			rec.SetViewport(c.Viewport)
		case OpSetScissor:
			rec.SetScissor(c.Scissor)
		case OpDraw:
			rec.Draw(c.Drawable)
		}
	}
}

// Draw is a draw call with the state bound when it was issued.
type Draw struct {
	Pipeline  *gpu.Pipeline
	Resources *gpu.ResourceSet
	Push      gpu.PushConstant
	Drawable  gpu.Drawable
}

// Pass is a recorded render pass and its draws.
type Pass struct {
	Target gpu.Target
	Clears []gpu.ClearValue
	Draws  []Draw
}

// Passes groups the recorded commands by pass. Bound state does not carry
// over between passes.
func (s *Sequence) Passes() []Pass {
	var passes []Pass
	var cur *Pass
	var state Draw
	for _, c := range s.commands {
		switch c.Op {
		case OpBeginPass:
			passes = append(passes, Pass{Target: c.Target, Clears: c.Clears})
			cur = &passes[len(passes)-1]
			state = Draw{}
		case OpEndPass:
			cur = nil
		case OpBindPipeline:
			state.Pipeline = c.Pipeline
		case OpBindResources:
			state.Resources = c.Resources
		case OpPushConstants:
			state.Push = c.Push
		case OpDraw:
			if cur != nil {
				d := state
				d.Drawable = c.Drawable
				cur.Draws = append(cur.Draws, d)
			}
		}
	}
	return passes
}

// Draws returns every draw of every pass in order.
func (s *Sequence) Draws() []Draw {
	var draws []Draw
	for _, p := range s.Passes() {
		draws = append(draws, p.Draws...)
	}
	return draws
}

// Validate checks pass structure and that every sampled image was fully
// written and transitioned for sampling before the pass that reads it.
func (s *Sequence) Validate() error {
	if s.err != nil {
		return s.err
	}
	if s.inPass {
		return fmt.Errorf("%w: pass left open", ErrStructure)
	}

	passes := s.Passes()
	writers := make(map[gpu.ImageID]int)
	for _, p := range passes {
		for _, id := range p.Target.Writes {
			writers[id]++
		}
	}

	written := make(map[gpu.ImageID]int)
	readable := make(map[gpu.ImageID]bool)
	for _, p := range passes {
		for _, d := range p.Draws {
			for _, id := range d.Resources.Reads() {
				if contains(p.Target.Writes, id) {
					return fmt.Errorf("%w: pass %s samples image %d it writes", ErrHazard, p.Target.Name, id)
				}
				if written[id] < writers[id] {
					return fmt.Errorf("%w: pass %s samples image %d before %d of its %d writer passes ended",
						ErrHazard, p.Target.Name, id, written[id], writers[id])
				}
				if writers[id] > 0 && !readable[id] {
					return fmt.Errorf("%w: pass %s samples image %d not transitioned for sampling",
						ErrHazard, p.Target.Name, id)
				}
			}
		}
		for _, id := range p.Target.Writes {
			written[id]++
			readable[id] = p.Target.SampledAfter
		}
	}
	return nil
}

func contains(ids []gpu.ImageID, id gpu.ImageID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
