package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagLambda     = flag.Float64("lambda", -1, "Cascade split lambda in [0,1]")
	flagShadowRes  = flag.Int("shadow-res", 0, "Shadow map resolution per cascade")
	flagMirrorRes  = flag.Int("mirror-res", 0, "Reflection/refraction resolution")
	flagNoUI       = flag.Bool("no-ui", false, "Disable the debug overlay")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagWindowed {
		cfg.Graphics.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
	if *flagLambda >= 0 {
		cfg.Shadows.SplitLambda = float32(*flagLambda)
	}
	if *flagShadowRes > 0 {
		cfg.Shadows.Resolution = *flagShadowRes
	}
	if *flagMirrorRes > 0 {
		cfg.Mirror.Resolution = *flagMirrorRes
	}
	if *flagNoUI {
		cfg.UI.Enabled = false
	}
}
