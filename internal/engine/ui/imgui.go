// Package ui provides the ImGui host window and the debug overlay drawn on
// top of the scene.
package ui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/backend"
	"github.com/AllenDang/cimgui-go/backend/sdlbackend"
	"github.com/AllenDang/cimgui-go/imgui"
	"go.uber.org/zap"

	"github.com/Faultbox/shoreline/internal/engine/camera"
	"github.com/Faultbox/shoreline/internal/engine/input"
	"github.com/Faultbox/shoreline/internal/logger"
)

// keyBindings maps camera controls to ImGui keys.
var keyBindings = map[input.Key]imgui.Key{
	input.KeyForward:   imgui.KeyW,
	input.KeyBack:      imgui.KeyS,
	input.KeyLeft:      imgui.KeyA,
	input.KeyRight:     imgui.KeyD,
	input.KeyRise:      imgui.KeyE,
	input.KeySink:      imgui.KeyQ,
	input.KeyTurnLeft:  imgui.KeyLeftArrow,
	input.KeyTurnRight: imgui.KeyRightArrow,
	input.KeyLookUp:    imgui.KeyUpArrow,
	input.KeyLookDown:  imgui.KeyDownArrow,
}

// Backend wraps the ImGui SDL backend that owns the window and GL context.
type Backend struct {
	backend backend.Backend[sdlbackend.SDLWindowFlags]
	log     *zap.Logger
}

// NewBackend creates the window and its GL context. OpenGL entry points are
// loaded by the caller once the context exists.
func NewBackend(title string, width, height int32) (*Backend, error) {
	b := &Backend{log: logger.Named("ui")}

	var err error
	b.backend, err = backend.CreateBackend(sdlbackend.NewSDLBackend())
	if err != nil {
		return nil, fmt.Errorf("create backend: %w", err)
	}

	b.backend.SetBgColor(imgui.NewVec4(0.1, 0.1, 0.12, 1.0))
	b.backend.CreateWindow(title, int(width), int(height))

	b.log.Info("overlay window created",
		zap.String("title", title),
		zap.Int32("width", width),
		zap.Int32("height", height))
	return b, nil
}

// Run starts the main render loop.
func (b *Backend) Run(renderFunc func()) {
	b.backend.Run(renderFunc)
}

// SetWindowTitle updates the window title.
func (b *Backend) SetWindowTitle(title string) {
	b.backend.SetWindowTitle(title)
}

// FramebufferSize returns the drawable size in pixels. DisplaySize is in
// logical pixels; the framebuffer scale converts on HiDPI displays.
func (b *Backend) FramebufferSize() (int32, int32) {
	io := imgui.CurrentIO()
	size := io.DisplaySize()
	scale := io.DisplayFramebufferScale()
	return int32(size.X * scale.X), int32(size.Y * scale.Y)
}

// Controls reads the held keys into camera controls. Keys are ignored while
// an ImGui widget has keyboard focus.
func (b *Backend) Controls() camera.Controls {
	if imgui.CurrentIO().WantCaptureKeyboard() {
		return camera.Controls{}
	}
	return input.Controls(func(k input.Key) bool {
		key, ok := keyBindings[k]
		return ok && imgui.IsKeyDown(key)
	})
}

// IsKeyPressed checks if a key was pressed this frame.
func IsKeyPressed(key imgui.Key) bool {
	return imgui.IsKeyChordPressed(imgui.KeyChord(key))
}

// DrawSceneTexture draws the rendered scene behind every other window.
func DrawSceneTexture(textureID uint32) {
	if textureID == 0 {
		return
	}

	viewport := imgui.MainViewport()
	pos := viewport.WorkPos()
	size := viewport.WorkSize()
	imgui.SetNextWindowPos(pos)
	imgui.SetNextWindowSize(size)

	flags := imgui.WindowFlagsNoTitleBar | imgui.WindowFlagsNoResize |
		imgui.WindowFlagsNoMove | imgui.WindowFlagsNoScrollbar |
		imgui.WindowFlagsNoScrollWithMouse | imgui.WindowFlagsNoBringToFrontOnFocus |
		imgui.WindowFlagsNoInputs | imgui.WindowFlagsNoSavedSettings

	imgui.PushStyleVarVec2(imgui.StyleVarWindowPadding, imgui.NewVec2(0, 0))
	if imgui.BeginV("##SceneBackground", nil, flags) {
		texRef := imgui.NewTextureRefTextureID(imgui.TextureID(textureID))
		imgui.ImageV(*texRef,
			size,
			imgui.NewVec2(0, 1),
			imgui.NewVec2(1, 0))
	}
	imgui.End()
	imgui.PopStyleVar()
}
