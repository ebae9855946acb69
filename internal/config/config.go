// Package config handles renderer configuration loading and management.
package config

import "errors"

// ErrInvalid is returned when a config cannot be repaired by Sanitize.
var ErrInvalid = errors.New("invalid config")

// Config holds all renderer settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Shadows  ShadowConfig   `yaml:"shadows"`
	Mirror   MirrorConfig   `yaml:"mirror"`
	Camera   CameraConfig   `yaml:"camera"`
	Light    LightConfig    `yaml:"light"`
	Terrain  TerrainConfig  `yaml:"terrain"`
	Debug    DebugConfig    `yaml:"debug"`
	UI       UIConfig       `yaml:"ui"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
}

// ShadowConfig holds cascaded shadow map settings.
type ShadowConfig struct {
	Resolution  int     `yaml:"resolution"`   // Per-cascade depth layer size
	SplitLambda float32 `yaml:"split_lambda"` // 0 = uniform, 1 = logarithmic
	DepthClamp  bool    `yaml:"depth_clamp"`  // Use depth clamp when the device has it
}

// MirrorConfig holds the offscreen reflection/refraction settings.
type MirrorConfig struct {
	Resolution int `yaml:"resolution"`
}

// CameraConfig holds the initial fly camera state.
type CameraConfig struct {
	FOV      float32    `yaml:"fov"` // Vertical field of view in degrees
	Near     float32    `yaml:"near"`
	Far      float32    `yaml:"far"`
	Position [3]float32 `yaml:"position,flow"`
	Yaw      float32    `yaml:"yaw"`
	Pitch    float32    `yaml:"pitch"`
	Speed    float32    `yaml:"speed"`
}

// LightConfig holds the directional light settings.
type LightConfig struct {
	Position [3]float32 `yaml:"position,flow"`
	Animate  bool       `yaml:"animate"`
	Speed    float32    `yaml:"speed"` // Orbit speed in radians per second
}

// TerrainConfig holds terrain generation settings.
type TerrainConfig struct {
	Heightmap   string       `yaml:"heightmap"` // Empty for procedural terrain
	Seed        int64        `yaml:"seed"`
	Size        float32      `yaml:"size"` // World extent along X and Z
	Grid        int          `yaml:"grid"` // Vertices per side
	HeightScale float32      `yaml:"height_scale"`
	Offset      float32      `yaml:"offset"`
	Layers      [][2]float32 `yaml:"layers,flow"` // Start/range pairs in normalized height
}

// DebugConfig holds the frame debug views.
type DebugConfig struct {
	Reflection   bool `yaml:"reflection"`
	Refraction   bool `yaml:"refraction"`
	Cascade      bool `yaml:"cascade"`
	CascadeIndex int  `yaml:"cascade_index"`
}

// UIConfig holds overlay settings.
type UIConfig struct {
	Enabled bool `yaml:"enabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Shadows: ShadowConfig{
			Resolution:  2048,
			SplitLambda: 0.95,
			DepthClamp:  true,
		},
		Mirror: MirrorConfig{
			Resolution: 512,
		},
		Camera: CameraConfig{
			FOV:      60,
			Near:     0.5,
			Far:      48,
			Position: [3]float32{0, 6, 20},
			Yaw:      0,
			Pitch:    -0.25,
			Speed:    8,
		},
		Light: LightConfig{
			Position: [3]float32{-20, 30, -15},
			Animate:  true,
			Speed:    0.1,
		},
		Terrain: TerrainConfig{
			Seed:        7,
			Size:        64,
			Grid:        129,
			HeightScale: 12,
			Offset:      -2,
			Layers: [][2]float32{
				{0.00, 0.10},
				{0.08, 0.15},
				{0.25, 0.20},
				{0.45, 0.20},
				{0.65, 0.20},
				{0.85, 0.15},
			},
		},
		Debug: DebugConfig{},
		UI: UIConfig{
			Enabled: true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
