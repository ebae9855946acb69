package frame

import "github.com/Faultbox/shoreline/pkg/math"

// CascadeDebug selects a shadow cascade to preview.
type CascadeDebug struct {
	Enabled bool
	Index   int
}

// Descriptor lists the optional draws of the final pass. It is a value:
// the With methods return modified copies.
type Descriptor struct {
	DisplayReflection bool
	DisplayRefraction bool
	CascadeDebug      CascadeDebug
	Overlay           bool
}

// WithReflection toggles the reflection preview.
func (d Descriptor) WithReflection(on bool) Descriptor {
	d.DisplayReflection = on
	return d
}

// WithRefraction toggles the refraction preview.
func (d Descriptor) WithRefraction(on bool) Descriptor {
	d.DisplayRefraction = on
	return d
}

// WithCascadeDebug toggles the cascade depth preview and selects a layer.
func (d Descriptor) WithCascadeDebug(on bool, index int) Descriptor {
	d.CascadeDebug = CascadeDebug{Enabled: on, Index: index}
	return d
}

// WithOverlay toggles the UI overlay.
func (d Descriptor) WithOverlay(on bool) Descriptor {
	d.Overlay = on
	return d
}

// Sanitize clamps the cascade index into [0, cascades).
func (d Descriptor) Sanitize(cascades int) Descriptor {
	if d.CascadeDebug.Index < 0 || cascades < 1 {
		d.CascadeDebug.Index = 0
	} else if d.CascadeDebug.Index >= cascades {
		d.CascadeDebug.Index = cascades - 1
	}
	return d
}

// Preview slots along the bottom edge of the screen.
const (
	ReflectionSlot = iota
	RefractionSlot
	CascadeSlot
)

// Preview quad layout in normalized screen coordinates.
const (
	previewSize   = 0.3
	previewMargin = 0.025
)

// PreviewRegion returns the x, y, width, height of a preview slot. Slots
// are laid out left to right and never overlap.
func PreviewRegion(slot int) math.Vec4 {
	x := previewMargin + float32(slot)*(previewSize+previewMargin)
	return math.Vec4{x, previewMargin, previewSize, previewSize}
}
