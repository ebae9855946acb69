package ui

import (
	"fmt"
	"math/bits"

	"github.com/AllenDang/cimgui-go/imgui"
	"go.uber.org/zap"

	"github.com/Faultbox/shoreline/internal/engine/csm"
	"github.com/Faultbox/shoreline/internal/engine/frame"
	"github.com/Faultbox/shoreline/internal/engine/gpu"
	"github.com/Faultbox/shoreline/internal/engine/uniforms"
	"github.com/Faultbox/shoreline/internal/logger"
)

// Mirror resolution slider bounds, as powers of two.
const (
	minMirrorExp = 8
	maxMirrorExp = 12
)

// Settings is the runtime state the overlay panel edits.
type Settings interface {
	Paused() bool
	SetPaused(bool)
	LightAnimated() bool
	SetLightAnimated(bool)
	SplitLambda() float32
	SetSplitLambda(float32)
	Descriptor() frame.Descriptor
	SetDescriptor(frame.Descriptor)
	CascadeCount() int
	Cascades() [csm.Count]csm.Cascade
	MirrorResolution() int32
	SetMirrorResolution(int32) error
	TerrainLayers() [][2]float32
	SetTerrainLayers([][2]float32)
}

// panelState mirrors the widgets of the settings panel.
type panelState struct {
	Paused       bool
	AnimateLight bool
	Lambda       float32
	Reflection   bool
	Refraction   bool
	Cascade      bool
	CascadeIndex int32
	MirrorExp    int32
	Layers       [uniforms.TerrainLayerCount][2]float32
}

func readState(s Settings) panelState {
	d := s.Descriptor()
	st := panelState{
		Paused:       s.Paused(),
		AnimateLight: s.LightAnimated(),
		Lambda:       s.SplitLambda(),
		Reflection:   d.DisplayReflection,
		Refraction:   d.DisplayRefraction,
		Cascade:      d.CascadeDebug.Enabled,
		CascadeIndex: int32(d.CascadeDebug.Index),
		MirrorExp:    mirrorExp(s.MirrorResolution()),
	}
	copy(st.Layers[:], s.TerrainLayers())
	return st
}

// apply pushes the fields that differ between before and after into s.
func apply(s Settings, before, after panelState) error {
	if after.Paused != before.Paused {
		s.SetPaused(after.Paused)
	}
	if after.AnimateLight != before.AnimateLight {
		s.SetLightAnimated(after.AnimateLight)
	}
	if after.Lambda != before.Lambda {
		s.SetSplitLambda(after.Lambda)
	}
	if after.Reflection != before.Reflection || after.Refraction != before.Refraction ||
		after.Cascade != before.Cascade || after.CascadeIndex != before.CascadeIndex {
		d := s.Descriptor().
			WithReflection(after.Reflection).
			WithRefraction(after.Refraction).
			WithCascadeDebug(after.Cascade, int(after.CascadeIndex))
		s.SetDescriptor(d)
	}
	if after.Layers != before.Layers {
		s.SetTerrainLayers(after.Layers[:])
	}
	if after.MirrorExp != before.MirrorExp {
		if err := s.SetMirrorResolution(int32(1) << uint(clampExp(after.MirrorExp))); err != nil {
			return fmt.Errorf("mirror resolution: %w", err)
		}
	}
	return nil
}

func mirrorExp(res int32) int32 {
	if res <= 0 {
		return minMirrorExp
	}
	return clampExp(int32(bits.Len32(uint32(res)) - 1))
}

func clampExp(e int32) int32 {
	if e < minMirrorExp {
		return minMirrorExp
	}
	if e > maxMirrorExp {
		return maxMirrorExp
	}
	return e
}

// Overlay draws the scene image and the settings panel. It runs as the
// last draw of the final pass.
type Overlay struct {
	settings Settings
	texture  func() (uint32, bool)
	timing   *Timing

	// Screenshot is called when the panel's capture button is pressed.
	Screenshot func()
	// Save is called when the panel's save button is pressed.
	Save func()

	visible bool
	log     *zap.Logger
}

// NewOverlay creates an overlay for s. texture returns the GL texture the
// scene was rendered into.
func NewOverlay(texture func() (uint32, bool)) *Overlay {
	return &Overlay{
		texture: texture,
		timing:  NewTiming(),
		visible: true,
		log:     logger.Named("overlay"),
	}
}

// Bind attaches the settings the panel edits. The scene is created after the
// overlay since it records the overlay into its final pass.
func (o *Overlay) Bind(s Settings) { o.settings = s }

// Timing returns the frame timer shown by the panel.
func (o *Overlay) Timing() *Timing { return o.timing }

// ToggleVisible shows or hides the settings panel.
func (o *Overlay) ToggleVisible() { o.visible = !o.visible }

// Draw builds the ImGui widgets for this frame.
func (o *Overlay) Draw(_ gpu.DrawContext) {
	if id, ok := o.texture(); ok {
		DrawSceneTexture(id)
	}
	if o.visible && o.settings != nil {
		o.drawPanel()
	}
}

func (o *Overlay) drawPanel() {
	imgui.SetNextWindowPos(imgui.NewVec2(10, 10))
	imgui.SetNextWindowBgAlpha(0.8)

	flags := imgui.WindowFlagsAlwaysAutoResize | imgui.WindowFlagsNoSavedSettings
	if imgui.BeginV("Shoreline", nil, flags) {
		imgui.Text(fmt.Sprintf("Frame: %.2f ms (%.0f FPS)", o.timing.Milliseconds(), o.timing.FPS()))
		imgui.Separator()

		before := readState(o.settings)
		after := before

		imgui.Checkbox("Paused (P)", &after.Paused)
		imgui.Checkbox("Animate light", &after.AnimateLight)
		imgui.SliderFloatV("Split lambda", &after.Lambda, 0, 1, "%.2f", imgui.SliderFlagsNone)

		imgui.Spacing()
		imgui.Text("Previews")
		imgui.Checkbox("Reflection", &after.Reflection)
		imgui.SameLine()
		imgui.Checkbox("Refraction", &after.Refraction)
		imgui.Checkbox("Cascade", &after.Cascade)
		imgui.SliderIntV("Cascade index", &after.CascadeIndex, 0, int32(o.settings.CascadeCount()-1), "%d", imgui.SliderFlagsNone)

		if imgui.TreeNodeStr("Terrain layers") {
			for i := range after.Layers {
				imgui.SliderFloat2V(fmt.Sprintf("Layer %d", i), &after.Layers[i], 0, 1, "%.2f", imgui.SliderFlagsNone)
			}
			imgui.TreePop()
		}

		imgui.Spacing()
		imgui.SliderIntV("Mirror size", &after.MirrorExp, minMirrorExp, maxMirrorExp,
			fmt.Sprintf("%d px", int32(1)<<uint(after.MirrorExp)), imgui.SliderFlagsNone)

		if err := apply(o.settings, before, after); err != nil {
			o.log.Error("applying settings", zap.Error(err))
		}

		imgui.Separator()
		for i, c := range o.settings.Cascades() {
			imgui.Text(fmt.Sprintf("Cascade %d: split %.2f  radius %.1f", i, -c.SplitDepth, c.Radius))
		}

		imgui.Separator()
		if o.Screenshot != nil && imgui.Button("Screenshot (F12)") {
			o.Screenshot()
		}
		if o.Save != nil {
			if o.Screenshot != nil {
				imgui.SameLine()
			}
			if imgui.Button("Save settings (F5)") {
				o.Save()
			}
		}
	}
	imgui.End()
}
