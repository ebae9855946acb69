package water

import (
	"github.com/Faultbox/shoreline/internal/engine/gpu"
)

// ClearColor fills mirror targets before the sky is drawn.
var ClearColor = gpu.ClearColor(0.45, 0.6, 0.8, 1)

// RefractionPush is the push constant of the refraction pass: geometry below
// the water, regular winding, shadows on.
func RefractionPush() gpu.ScenePushConstant {
	return gpu.ScenePushConstant{ClipPlane: ClipPlane, MirrorScale: 1, Shadows: true}
}

// ReflectionPush is the push constant of the reflection pass: mirrored
// geometry above the water, without shadows.
func ReflectionPush() gpu.ScenePushConstant {
	return gpu.ScenePushConstant{ClipPlane: ClipPlane, MirrorScale: -1, Shadows: false}
}

// Pass is the target and uniforms of one mirror pass.
type Pass struct {
	Pair      *AttachmentPair
	Resources *gpu.ResourceSet
}

// Driver records the refraction and reflection passes.
type Driver struct {
	Refraction Pass
	Reflection Pass

	SkyPipeline     *gpu.Pipeline
	TerrainPipeline *gpu.Pipeline
	Sky             gpu.Drawable
	Terrain         gpu.Drawable
}

// RecordRefraction records the scene below the water into the refraction pair.
func (d *Driver) RecordRefraction(rec gpu.Recorder) {
	d.record(rec, d.Refraction, RefractionPush())
}

// RecordReflection records the mirrored scene above the water into the
// reflection pair.
func (d *Driver) RecordReflection(rec gpu.Recorder) {
	d.record(rec, d.Reflection, ReflectionPush())
}

func (d *Driver) record(rec gpu.Recorder, pass Pass, push gpu.ScenePushConstant) {
	target := pass.Pair.Target()
	rec.BeginPass(target, []gpu.ClearValue{ClearColor, gpu.ClearDepth(1)})
	gpu.FillTarget(rec, target)

	gpu.DrawSet{Pipeline: d.SkyPipeline, Resources: pass.Resources, Push: push}.Record(rec, d.Sky)
	gpu.DrawSet{Pipeline: d.TerrainPipeline, Resources: pass.Resources, Push: push}.Record(rec, d.Terrain)

	rec.EndPass()
}
