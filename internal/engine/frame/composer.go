package frame

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/shoreline/internal/engine/gpu"
	"github.com/Faultbox/shoreline/internal/logger"
)

// ErrInvalidState reports a composer call in the wrong lifecycle state.
var ErrInvalidState = errors.New("frame: invalid composer state")

// State is the lifecycle state of a Composer.
type State uint8

const (
	Idle State = iota
	Recording
	Submitted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Recording:
		return "recording"
	case Submitted:
		return "submitted"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// ShadowPasses records the depth pass of every cascade.
type ShadowPasses interface {
	RecordAll(rec gpu.Recorder)
}

// MirrorPasses records the offscreen water passes.
type MirrorPasses interface {
	RecordRefraction(rec gpu.Recorder)
	RecordReflection(rec gpu.Recorder)
}

// Item is a drawable with the state bound before it.
type Item struct {
	Set      gpu.DrawSet
	Drawable gpu.Drawable
}

// Record binds the item's state and draws it.
func (it Item) Record(rec gpu.Recorder) {
	it.Set.Record(rec, it.Drawable)
}

// FinalPass is the content of the pass into each presentable image.
type FinalPass struct {
	// Targets holds one target per presentable image.
	Targets []gpu.Target
	Clears  []gpu.ClearValue
	// Scene is drawn in order: sky, terrain, water surface.
	Scene []Item

	ReflectionPreview Item
	RefractionPreview Item
	// CascadePreview gets its layer from the descriptor. Every preview gets
	// its screen region from PreviewRegion.
	CascadePreview Item
	// Overlay is drawn last when enabled; it binds its own state.
	Overlay gpu.Drawable
}

// Composer records one sequence per presentable image and re-records them
// whenever the descriptor changes.
type Composer struct {
	shadows  ShadowPasses
	mirrors  MirrorPasses
	final    FinalPass
	cascades int

	desc      Descriptor
	sequences []*Sequence
	valid     bool
	state     State
	records   int

	log *zap.Logger
}

// NewComposer creates a composer. Nothing is recorded until the first frame.
func NewComposer(shadows ShadowPasses, mirrors MirrorPasses, final FinalPass, cascades int) *Composer {
	return &Composer{
		shadows:  shadows,
		mirrors:  mirrors,
		final:    final,
		cascades: cascades,
		log:      logger.Named("frame"),
	}
}

// State returns the lifecycle state.
func (c *Composer) State() State { return c.state }

// Descriptor returns the current descriptor.
func (c *Composer) Descriptor() Descriptor { return c.desc }

// Records returns how many times the sequences were recorded.
func (c *Composer) Records() int { return c.records }

// Valid reports whether the recorded sequences match the descriptor.
func (c *Composer) Valid() bool { return c.valid }

// SetDescriptor replaces the descriptor. A changed descriptor invalidates
// every recorded sequence. It reports whether anything changed.
func (c *Composer) SetDescriptor(d Descriptor) bool {
	d = d.Sanitize(c.cascades)
	if d == c.desc {
		return false
	}
	c.desc = d
	c.Invalidate()
	return true
}

// SetTargets replaces the presentable targets, e.g. after a window resize.
func (c *Composer) SetTargets(targets []gpu.Target) {
	c.final.Targets = targets
	c.Invalidate()
}

// Invalidate forces the next frame to re-record every sequence.
func (c *Composer) Invalidate() {
	if c.valid {
		c.log.Debug("sequences invalidated")
	}
	c.valid = false
}

// Sequence returns the recorded sequence of a presentable image.
func (c *Composer) Sequence(image int) *Sequence {
	if image < 0 || image >= len(c.sequences) {
		return nil
	}
	return c.sequences[image]
}

// Record records the sequence of every presentable image.
func (c *Composer) Record() error {
	if c.state != Idle {
		return fmt.Errorf("%w: record while %s", ErrInvalidState, c.state)
	}
	c.state = Recording
	defer func() { c.state = Idle }()

	seqs := make([]*Sequence, len(c.final.Targets))
	for i, t := range c.final.Targets {
		seq := NewSequence()
		c.recordImage(seq, t)
		if err := seq.Validate(); err != nil {
			return fmt.Errorf("recording image %d: %w", i, err)
		}
		seqs[i] = seq
	}
	c.sequences = seqs
	c.valid = true
	c.records++
	c.log.Debug("sequences recorded",
		zap.Int("images", len(seqs)),
		zap.Bool("reflection", c.desc.DisplayReflection),
		zap.Bool("refraction", c.desc.DisplayRefraction),
		zap.Bool("cascade_debug", c.desc.CascadeDebug.Enabled))
	return nil
}

func (c *Composer) recordImage(rec gpu.Recorder, target gpu.Target) {
	c.shadows.RecordAll(rec)
	c.mirrors.RecordRefraction(rec)
	c.mirrors.RecordReflection(rec)

	rec.BeginPass(target, c.final.Clears)
	gpu.FillTarget(rec, target)
	for _, it := range c.final.Scene {
		it.Record(rec)
	}
	if c.desc.DisplayReflection {
		recordPreview(rec, c.final.ReflectionPreview, ReflectionSlot, 0)
	}
	if c.desc.DisplayRefraction {
		recordPreview(rec, c.final.RefractionPreview, RefractionSlot, 0)
	}
	if c.desc.CascadeDebug.Enabled {
		recordPreview(rec, c.final.CascadePreview, CascadeSlot, int32(c.desc.CascadeDebug.Index))
	}
	if c.desc.Overlay && c.final.Overlay != nil {
		rec.Draw(c.final.Overlay)
	}
	rec.EndPass()
}

// recordPreview draws a preview item into its own screen slot.
func recordPreview(rec gpu.Recorder, it Item, slot int, layer int32) {
	it.Set.Push = gpu.DebugPushConstant{Layer: layer, Region: PreviewRegion(slot)}
	it.Record(rec)
}

// Submit replays the sequence of a presentable image into rec, recording
// first when the sequences are stale.
func (c *Composer) Submit(image int, rec gpu.Recorder) error {
	if c.state != Idle {
		return fmt.Errorf("%w: submit while %s", ErrInvalidState, c.state)
	}
	if !c.valid {
		if err := c.Record(); err != nil {
			return err
		}
	}
	seq := c.Sequence(image)
	if seq == nil {
		return fmt.Errorf("%w: no sequence for image %d of %d", ErrInvalidState, image, len(c.sequences))
	}
	c.state = Submitted
	seq.Replay(rec)
	return nil
}

// Complete marks the submitted frame as finished.
func (c *Composer) Complete() error {
	if c.state != Submitted {
		return fmt.Errorf("%w: complete while %s", ErrInvalidState, c.state)
	}
	c.state = Idle
	return nil
}

// Frame submits and completes one frame.
func (c *Composer) Frame(image int, rec gpu.Recorder) error {
	if err := c.Submit(image, rec); err != nil {
		return err
	}
	return c.Complete()
}
