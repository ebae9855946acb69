// Package main runs the shoreline demo: a terrain with cascaded shadows and
// a reflective water plane, optionally with an ImGui settings overlay.
package main

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/shoreline/internal/config"
	"github.com/Faultbox/shoreline/internal/engine/debug"
	"github.com/Faultbox/shoreline/internal/engine/glgpu"
	"github.com/Faultbox/shoreline/internal/engine/gpu"
	"github.com/Faultbox/shoreline/internal/engine/input"
	"github.com/Faultbox/shoreline/internal/engine/scene"
	"github.com/Faultbox/shoreline/internal/engine/ui"
	"github.com/Faultbox/shoreline/internal/engine/window"
	"github.com/Faultbox/shoreline/internal/logger"
)

const (
	windowTitle   = "Shoreline"
	screenshotDir = "screenshots"

	titleInterval = time.Second
)

func init() {
	runtime.LockOSThread()
}

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Shoreline ===",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.Int("shadow_resolution", cfg.Shadows.Resolution),
		zap.Int("mirror_resolution", cfg.Mirror.Resolution),
		zap.Bool("ui", cfg.UI.Enabled))

	shots := debug.NewScreenshots(screenshotDir, "shoreline")

	// nil when live reload is off
	var reloads <-chan *config.Config
	if watcher := watchConfig(); watcher != nil {
		defer watcher.Close()
		reloads = watcher.Changes()
	}

	if cfg.UI.Enabled {
		err = runOverlay(cfg, shots, reloads)
	} else {
		err = runWindowed(cfg, shots, reloads)
	}
	if err != nil {
		logger.Error("shoreline failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("closed normally")
}

// runOverlay renders through the ImGui host. The scene is drawn into an
// offscreen image that the overlay shows behind its panel.
func runOverlay(cfg *config.Config, shots *debug.Screenshots, reloads <-chan *config.Config) error {
	host, err := ui.NewBackend(windowTitle, int32(cfg.Graphics.Width), int32(cfg.Graphics.Height))
	if err != nil {
		return err
	}

	fbw, fbh := int32(cfg.Graphics.Width), int32(cfg.Graphics.Height)
	dev, err := glgpu.New(fbw, fbh)
	if err != nil {
		return err
	}

	scope := gpu.NewScope()
	defer func() {
		if err := scope.Close(); err != nil {
			logger.Warn("releasing present target", zap.Error(err))
		}
	}()
	if err := dev.PresentOffscreen(scope); err != nil {
		return fmt.Errorf("present target: %w", err)
	}

	overlay := ui.NewOverlay(dev.PresentTexture)
	s, err := scene.New(dev, scene.FromConfig(cfg), overlay)
	if err != nil {
		return err
	}
	defer s.Close()
	overlay.Bind(s)

	capture := func() {
		if path, err := shots.Capture(dev); err != nil {
			logger.Error("screenshot failed", zap.Error(err))
		} else {
			logger.Info("screenshot saved", zap.String("path", path))
		}
	}
	overlay.Screenshot = capture
	overlay.Save = func() { saveSettings(cfg, s) }

	timing := overlay.Timing()
	host.Run(func() {
		dt := timing.Tick()

		if w, h := host.FramebufferSize(); w > 0 && h > 0 && (w != fbw || h != fbh) {
			if err := dev.Resize(w, h); err != nil {
				logger.Error("resize failed", zap.Error(err))
				return
			}
			fbw, fbh = w, h
			s.Resize(w, h)
		}

		if ui.IsKeyPressed(imgui.KeyP) {
			s.TogglePause()
		}
		if ui.IsKeyPressed(imgui.KeyF1) {
			overlay.ToggleVisible()
		}
		if ui.IsKeyPressed(imgui.KeyF5) {
			saveSettings(cfg, s)
		}
		if ui.IsKeyPressed(imgui.KeyF12) {
			capture()
		}

		applyReload(s, reloads)
		s.Update(dt, host.Controls())
		if err := s.Render(dev.NewRecorder()); err != nil {
			logger.Error("render failed", zap.Error(err))
		}
	})
	return nil
}

// runWindowed renders straight into the default framebuffer of an SDL
// window without any overlay.
func runWindowed(cfg *config.Config, shots *debug.Screenshots, reloads <-chan *config.Config) error {
	win, err := window.New(window.ConfigFrom(windowTitle, cfg.Graphics))
	if err != nil {
		return err
	}
	defer win.Close()

	w, h := win.DrawableSize()
	dev, err := glgpu.New(w, h)
	if err != nil {
		return err
	}

	s, err := scene.New(dev, scene.FromConfig(cfg), nil)
	if err != nil {
		return err
	}
	defer s.Close()

	in := input.New()
	timing := ui.NewTiming()
	lastTitle := time.Now()
	for {
		if in.Update() {
			return nil
		}
		if _, _, ok := in.Resized(); ok {
			w, h := win.DrawableSize()
			if err := dev.Resize(w, h); err != nil {
				return fmt.Errorf("resize: %w", err)
			}
			s.Resize(w, h)
		}

		for _, key := range in.KeysDown() {
			switch key {
			case sdl.SCANCODE_ESCAPE:
				return nil
			case sdl.SCANCODE_P:
				s.TogglePause()
			case sdl.SCANCODE_F5:
				saveSettings(cfg, s)
			case sdl.SCANCODE_F12:
				if path, err := shots.Capture(dev); err != nil {
					logger.Error("screenshot failed", zap.Error(err))
				} else {
					logger.Info("screenshot saved", zap.String("path", path))
				}
			}
		}

		dt := timing.Tick()
		if now := time.Now(); now.Sub(lastTitle) >= titleInterval {
			win.SetTitle(window.StatusTitle(windowTitle, timing.FPS(), s.Paused()))
			lastTitle = now
		}

		applyReload(s, reloads)
		s.Update(dt, in.Controls())
		if err := s.Render(dev.NewRecorder()); err != nil {
			return fmt.Errorf("render: %w", err)
		}
		win.SwapBuffers()
	}
}

// watchConfig watches the config file Load read, if any. Failing to watch
// only disables live reload.
func watchConfig() *config.Watcher {
	path := config.Path()
	if path == "" {
		return nil
	}
	w, err := config.Watch(path)
	if err != nil {
		logger.Warn("config reload disabled", zap.Error(err))
		return nil
	}
	return w
}

// saveSettings writes the scene's current tunables over cfg and saves it.
func saveSettings(cfg *config.Config, s *scene.Scene) {
	s.StoreTunables(cfg)
	if err := cfg.Save(); err != nil {
		logger.Error("saving settings", zap.Error(err))
		return
	}
	logger.Info("settings saved", zap.String("path", config.SavePath()))
}

// applyReload applies the newest reloaded config without blocking.
func applyReload(s *scene.Scene, reloads <-chan *config.Config) {
	select {
	case cfg := <-reloads:
		if err := s.ApplyTunables(cfg); err != nil {
			logger.Error("applying reloaded config", zap.Error(err))
		}
	default:
	}
}
