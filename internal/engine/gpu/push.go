package gpu

import "github.com/Faultbox/shoreline/pkg/math"

// PushKind tags the variant of a PushConstant.
type PushKind uint8

const (
	PushScene PushKind = iota + 1
	PushShadow
	PushDebug
)

func (k PushKind) String() string {
	switch k {
	case PushScene:
		return "scene"
	case PushShadow:
		return "shadow"
	case PushDebug:
		return "debug"
	default:
		return "unknown"
	}
}

// PushConstant is a small per-draw payload. The set of variants is closed.
type PushConstant interface {
	Kind() PushKind
	pushConstant()
}

// ScenePushConstant drives the scene shaders in color passes.
type ScenePushConstant struct {
	// ClipPlane is the user clip plane; the zero vector disables clipping.
	ClipPlane math.Vec4
	// MirrorScale is 1 for regular passes and -1 when geometry is mirrored.
	MirrorScale float32
	// Shadows enables shadow lookups.
	Shadows bool
}

func (ScenePushConstant) Kind() PushKind { return PushScene }
func (ScenePushConstant) pushConstant()  {}

// Mirrored reports whether geometry is reflected, which flips winding.
func (p ScenePushConstant) Mirrored() bool { return p.MirrorScale < 0 }

// ShadowPushConstant selects the cascade rendered by a shadow pass.
type ShadowPushConstant struct {
	Position     math.Vec4
	CascadeIndex int32
}

func (ShadowPushConstant) Kind() PushKind { return PushShadow }
func (ShadowPushConstant) pushConstant()  {}

// DebugPushConstant places a debug quad and selects the array layer it shows.
type DebugPushConstant struct {
	Layer int32
	// Region is x, y, width, height in normalized screen coordinates with the
	// origin at the bottom left.
	Region math.Vec4
}

func (DebugPushConstant) Kind() PushKind { return PushDebug }
func (DebugPushConstant) pushConstant()  {}

// SceneDefaults is the push constant of an unclipped, unmirrored, shadowed pass.
func SceneDefaults() ScenePushConstant {
	return ScenePushConstant{MirrorScale: 1, Shadows: true}
}
