package water

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/Faultbox/shoreline/internal/engine/gpu"
)

// Device is the part of the backend an attachment pair needs.
type Device interface {
	CreateImage(s *gpu.Scope, desc gpu.ImageDesc) (*gpu.Image, error)
	CreateTarget(s *gpu.Scope, desc gpu.TargetDesc) (gpu.Target, error)
}

// AttachmentPair is a square color + depth render target for one mirror
// pass. Both attachments always share a resolution and are rebuilt together.
type AttachmentPair struct {
	Name       string
	Resolution int32
	// Color and Depth keep their identity across Resize so resource sets
	// that sample them stay valid.
	Color *gpu.Image
	Depth *gpu.Image

	dev    Device
	parent *gpu.Scope
	scope  *gpu.Scope
	target gpu.Target
}

// NewAttachmentPair allocates a pair owned by scope s.
func NewAttachmentPair(s *gpu.Scope, dev Device, name string, resolution int32) (*AttachmentPair, error) {
	p := &AttachmentPair{
		Name:   name,
		Color:  &gpu.Image{},
		Depth:  &gpu.Image{},
		dev:    dev,
		parent: s,
	}
	if err := p.build(resolution); err != nil {
		return nil, err
	}
	return p, nil
}

// pairBuild holds freshly created attachments that are not yet visible
// through the pair.
type pairBuild struct {
	scope        *gpu.Scope
	color, depth *gpu.Image
	target       gpu.Target
	resolution   int32
}

// prepare creates attachments at resolution without touching p. On error
// everything it created is released.
func (p *AttachmentPair) prepare(resolution int32) (*pairBuild, error) {
	if resolution < 1 {
		resolution = 1
	}
	scope := p.parent.Child()
	fail := func(err error) (*pairBuild, error) {
		return nil, multierr.Append(err, scope.Close())
	}

	color, err := p.dev.CreateImage(scope, gpu.ImageDesc{
		Name:        p.Name + ".color",
		Width:       resolution,
		Height:      resolution,
		Format:      gpu.FormatRGBA8,
		Anisotropic: true,
	})
	if err != nil {
		return fail(fmt.Errorf("creating %s color attachment: %w", p.Name, err))
	}
	depth, err := p.dev.CreateImage(scope, gpu.ImageDesc{
		Name:   p.Name + ".depth",
		Width:  resolution,
		Height: resolution,
		Format: gpu.FormatDepth24,
	})
	if err != nil {
		return fail(fmt.Errorf("creating %s depth attachment: %w", p.Name, err))
	}

	cv, dv := gpu.WholeImage(color), gpu.WholeImage(depth)
	target, err := p.dev.CreateTarget(scope, gpu.TargetDesc{
		Name:         p.Name,
		Color:        &cv,
		Depth:        &dv,
		SampledAfter: true,
	})
	if err != nil {
		return fail(fmt.Errorf("creating %s target: %w", p.Name, err))
	}
	return &pairBuild{scope: scope, color: color, depth: depth, target: target, resolution: resolution}, nil
}

// commit swaps b into p and releases the attachments it replaces.
func (p *AttachmentPair) commit(b *pairBuild) error {
	old := p.scope
	*p.Color = *b.color
	*p.Depth = *b.depth
	p.target = b.target
	p.Resolution = b.resolution
	p.scope = b.scope
	if old == nil {
		return nil
	}
	if err := old.Close(); err != nil {
		return fmt.Errorf("releasing old %s attachments: %w", p.Name, err)
	}
	return nil
}

func (p *AttachmentPair) build(resolution int32) error {
	b, err := p.prepare(resolution)
	if err != nil {
		return err
	}
	return p.commit(b)
}

// Resize rebuilds both attachments at a new resolution. On error the pair
// keeps its current attachments. Commands recorded against the old target
// must be recorded again.
func (p *AttachmentPair) Resize(resolution int32) error {
	return ResizePairs(resolution, p)
}

// ResizePairs rebuilds every pair at resolution as one step: all new
// attachments are created before any old one is released, so on error every
// pair is left as it was.
func ResizePairs(resolution int32, pairs ...*AttachmentPair) error {
	if resolution < 1 {
		resolution = 1
	}
	var builds []*pairBuild
	for _, p := range pairs {
		if p.Resolution == resolution {
			builds = append(builds, nil)
			continue
		}
		b, err := p.prepare(resolution)
		if err != nil {
			for _, done := range builds {
				if done != nil {
					err = multierr.Append(err, done.scope.Close())
				}
			}
			return err
		}
		builds = append(builds, b)
	}

	var errs error
	for i, b := range builds {
		if b != nil {
			errs = multierr.Append(errs, pairs[i].commit(b))
		}
	}
	return errs
}

// Target returns the render target of the pair.
func (p *AttachmentPair) Target() gpu.Target {
	return p.target
}

// ColorView returns the color attachment for sampling.
func (p *AttachmentPair) ColorView() gpu.ImageView {
	return gpu.WholeImage(p.Color)
}
