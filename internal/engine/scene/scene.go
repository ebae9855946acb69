package scene

import (
	"fmt"
	stdmath "math"
	"strconv"

	"go.uber.org/zap"

	"github.com/Faultbox/shoreline/internal/config"
	"github.com/Faultbox/shoreline/internal/engine/camera"
	"github.com/Faultbox/shoreline/internal/engine/csm"
	"github.com/Faultbox/shoreline/internal/engine/frame"
	"github.com/Faultbox/shoreline/internal/engine/gpu"
	"github.com/Faultbox/shoreline/internal/engine/lighting"
	"github.com/Faultbox/shoreline/internal/engine/shadow"
	"github.com/Faultbox/shoreline/internal/engine/terrain"
	"github.com/Faultbox/shoreline/internal/engine/uniforms"
	"github.com/Faultbox/shoreline/internal/engine/water"
	"github.com/Faultbox/shoreline/internal/logger"
	"github.com/Faultbox/shoreline/pkg/math"
)

// Texture units shared by every scene pipeline.
const (
	shadowUnit     = 0
	reflectionUnit = 1
	refractionUnit = 2
)

// Config contains scene configuration options.
type Config struct {
	Width            int32
	Height           int32
	ShadowResolution int32
	MirrorResolution int32
	SplitLambda      float32

	// Camera
	FOV            float32 // Radians
	Near           float32
	Far            float32
	CameraPosition math.Vec3
	Yaw            float32
	Pitch          float32
	MoveSpeed      float32

	// Light
	LightPosition math.Vec3
	AnimateLight  bool
	LightSpeed    float32

	// Terrain
	Heightmap     string // Empty for procedural terrain
	Seed          int64
	Grid          int
	Terrain       terrain.Params
	TerrainLayers [][2]float32

	Debug frame.Descriptor
}

// DefaultConfig returns a default scene configuration.
func DefaultConfig() Config {
	return FromConfig(config.Default())
}

// FromConfig converts the loaded application config.
func FromConfig(c *config.Config) Config {
	p := terrain.DefaultParams()
	p.Extent = c.Terrain.Size
	p.HeightScale = c.Terrain.HeightScale
	p.Offset = c.Terrain.Offset

	cam := c.Camera
	return Config{
		Width:            int32(c.Graphics.Width),
		Height:           int32(c.Graphics.Height),
		ShadowResolution: int32(c.Shadows.Resolution),
		MirrorResolution: int32(c.Mirror.Resolution),
		SplitLambda:      c.Shadows.SplitLambda,

		FOV:            cam.FOV * stdmath.Pi / 180,
		Near:           cam.Near,
		Far:            cam.Far,
		CameraPosition: math.Vec3{X: cam.Position[0], Y: cam.Position[1], Z: cam.Position[2]},
		Yaw:            cam.Yaw,
		Pitch:          cam.Pitch,
		MoveSpeed:      cam.Speed,

		LightPosition: math.Vec3{X: c.Light.Position[0], Y: c.Light.Position[1], Z: c.Light.Position[2]},
		AnimateLight:  c.Light.Animate,
		LightSpeed:    c.Light.Speed,

		Heightmap:     c.Terrain.Heightmap,
		Seed:          c.Terrain.Seed,
		Grid:          c.Terrain.Grid,
		Terrain:       p,
		TerrainLayers: c.Terrain.Layers,

		Debug: frame.Descriptor{
			DisplayReflection: c.Debug.Reflection,
			DisplayRefraction: c.Debug.Refraction,
			CascadeDebug:      frame.CascadeDebug{Enabled: c.Debug.Cascade, Index: c.Debug.CascadeIndex},
		},
	}
}

// Scene manages the terrain, sky and water of one outdoor scene together with
// its shadow cascades and mirror passes.
type Scene struct {
	config Config
	dev    gpu.Device
	scope  *gpu.Scope

	Camera *camera.FlyCamera
	light  *lighting.Orbit

	// Renderers
	terrain *TerrainRenderer
	sky     *SkyRenderer
	water   *WaterRenderer
	debug   *DebugRenderer

	// Offscreen images
	shadowMap  *shadow.Map
	refraction *water.AttachmentPair
	reflection *water.AttachmentPair

	buffers  uniforms.Buffers
	sync     *uniforms.Synchronizer
	composer *frame.Composer

	paused       bool
	animateLight bool
	lambda       float32

	log *zap.Logger
}

// New creates every GPU resource of the scene. overlay may be nil; when set
// it is drawn last in the final pass.
func New(dev gpu.Device, cfg Config, overlay gpu.Drawable) (*Scene, error) {
	s := &Scene{
		config:       cfg,
		dev:          dev,
		scope:        gpu.NewScope(),
		light:        lighting.NewOrbit(cfg.LightPosition, cfg.LightSpeed),
		animateLight: cfg.AnimateLight,
		lambda:       csm.ClampLambda(cfg.SplitLambda),
		log:          logger.Named("scene"),
	}
	if err := s.build(overlay); err != nil {
		if cerr := s.scope.Close(); cerr != nil {
			s.log.Warn("releasing partial scene", zap.Error(cerr))
		}
		return nil, err
	}

	s.log.Info("scene created",
		zap.Int32("shadow_resolution", s.shadowMap.Resolution),
		zap.Int32("mirror_resolution", s.refraction.Resolution),
		zap.Int("cascades", s.shadowMap.Cascades()),
		zap.Bool("depth_clamp", dev.Features().DepthClamp))
	return s, nil
}

func (s *Scene) build(overlay gpu.Drawable) error {
	cfg := s.config

	s.Camera = camera.NewFlyCamera(aspect(cfg.Width, cfg.Height))
	if cfg.FOV > 0 {
		s.Camera.FOV = cfg.FOV
	}
	if cfg.Near > 0 && cfg.Far > cfg.Near {
		s.Camera.Near = cfg.Near
		s.Camera.Far = cfg.Far
	}
	if cfg.MoveSpeed > 0 {
		s.Camera.MoveSpeed = cfg.MoveSpeed
	}
	s.Camera.Position = cfg.CameraPosition
	s.Camera.Yaw = cfg.Yaw
	s.Camera.Pitch = cfg.Pitch

	hm, err := s.heightmap()
	if err != nil {
		return err
	}

	if s.terrain, err = NewTerrainRenderer(s.scope, s.dev, hm, cfg.Terrain); err != nil {
		return err
	}
	if s.sky, err = NewSkyRenderer(s.scope, s.dev); err != nil {
		return err
	}
	if s.water, err = NewWaterRenderer(s.scope, s.dev, s.terrain.Bounds); err != nil {
		return err
	}
	if s.debug, err = NewDebugRenderer(s.scope, s.dev); err != nil {
		return err
	}

	res := cfg.ShadowResolution
	if res <= 0 {
		res = shadow.DefaultResolution
	}
	if s.shadowMap, err = shadow.NewMap(s.scope, s.dev, res, csm.Count); err != nil {
		return fmt.Errorf("creating shadow map: %w", err)
	}
	mirror := int32(config.ClampResolution(int(cfg.MirrorResolution)))
	if s.refraction, err = water.NewAttachmentPair(s.scope, s.dev, "refraction", mirror); err != nil {
		return fmt.Errorf("creating refraction pair: %w", err)
	}
	if s.reflection, err = water.NewAttachmentPair(s.scope, s.dev, "reflection", mirror); err != nil {
		return fmt.Errorf("creating reflection pair: %w", err)
	}

	if s.buffers, err = uniforms.NewBuffers(s.scope, s.dev); err != nil {
		return fmt.Errorf("creating uniform buffers: %w", err)
	}
	s.sync = uniforms.NewSynchronizer(s.dev, s.buffers, uniforms.NewTerrainLayerBlock(cfg.TerrainLayers))

	s.composer = s.newComposer(overlay)
	desc := cfg.Debug.WithOverlay(overlay != nil)
	s.composer.SetDescriptor(desc)
	return nil
}

func (s *Scene) heightmap() (*terrain.Heightmap, error) {
	grid := s.config.Grid
	if grid < 2 {
		grid = 2
	}
	if s.config.Heightmap == "" {
		return terrain.Procedural(grid, s.config.Seed), nil
	}
	hm, err := terrain.LoadHeightmap(s.config.Heightmap, grid)
	if err != nil {
		return nil, fmt.Errorf("loading heightmap: %w", err)
	}
	return hm, nil
}

// newComposer binds the buffers and images into resource sets and builds
// the frame composer from the drivers.
func (s *Scene) newComposer(overlay gpu.Drawable) *frame.Composer {
	b := s.buffers
	shadowTex := gpu.TextureBinding{Unit: shadowUnit, View: s.shadowMap.View()}
	passSet := func(name string, scene *gpu.Buffer) *gpu.ResourceSet {
		return &gpu.ResourceSet{
			Name: name,
			Uniforms: []gpu.UniformBinding{
				{Binding: uniforms.SceneBinding, Buffer: scene},
				{Binding: uniforms.CSMBinding, Buffer: b.CSM},
				{Binding: uniforms.TerrainLayerBinding, Buffer: b.TerrainLayers},
			},
			Textures: []gpu.TextureBinding{shadowTex},
		}
	}

	mainSet := passSet("scene", b.Scene)
	refractionSet := passSet("refraction", b.Refraction)
	reflectionSet := passSet("reflection", b.Reflection)
	waterSet := &gpu.ResourceSet{
		Name: "water",
		Uniforms: []gpu.UniformBinding{
			{Binding: uniforms.SceneBinding, Buffer: b.Scene},
			{Binding: uniforms.CSMBinding, Buffer: b.CSM},
		},
		Textures: []gpu.TextureBinding{
			shadowTex,
			{Unit: reflectionUnit, View: s.reflection.ColorView()},
			{Unit: refractionUnit, View: s.refraction.ColorView()},
		},
	}
	csmSet := &gpu.ResourceSet{
		Name:     "csm",
		Uniforms: []gpu.UniformBinding{{Binding: uniforms.CSMBinding, Buffer: b.CSM}},
	}
	preview := func(name string, view gpu.ImageView) *gpu.ResourceSet {
		return &gpu.ResourceSet{Name: name, Textures: []gpu.TextureBinding{{Unit: 0, View: view}}}
	}

	shadows := shadow.NewDriver(s.shadowMap, s.terrain.Shadow, csmSet, s.terrain.Mesh)
	mirrors := &water.Driver{
		Refraction:      water.Pass{Pair: s.refraction, Resources: refractionSet},
		Reflection:      water.Pass{Pair: s.reflection, Resources: reflectionSet},
		SkyPipeline:     s.sky.Pipeline,
		TerrainPipeline: s.terrain.Pipeline,
		Sky:             s.sky.Mesh,
		Terrain:         s.terrain.Mesh,
	}

	push := gpu.SceneDefaults()
	final := frame.FinalPass{
		Targets: s.dev.SwapchainTargets(),
		Clears:  []gpu.ClearValue{water.ClearColor, gpu.ClearDepth(1)},
		Scene: []frame.Item{
			{Set: gpu.DrawSet{Pipeline: s.sky.Pipeline, Resources: mainSet, Push: push}, Drawable: s.sky.Mesh},
			{Set: gpu.DrawSet{Pipeline: s.terrain.Pipeline, Resources: mainSet, Push: push}, Drawable: s.terrain.Mesh},
			{Set: gpu.DrawSet{Pipeline: s.water.Pipeline, Resources: waterSet, Push: push}, Drawable: s.water.Mesh},
		},
		ReflectionPreview: frame.Item{
			Set:      gpu.DrawSet{Pipeline: s.debug.Color, Resources: preview("preview.reflection", s.reflection.ColorView())},
			Drawable: s.debug.Quad,
		},
		RefractionPreview: frame.Item{
			Set:      gpu.DrawSet{Pipeline: s.debug.Color, Resources: preview("preview.refraction", s.refraction.ColorView())},
			Drawable: s.debug.Quad,
		},
		CascadePreview: frame.Item{
			Set:      gpu.DrawSet{Pipeline: s.debug.Depth, Resources: preview("preview.cascade", s.shadowMap.View())},
			Drawable: s.debug.Quad,
		},
		Overlay: overlay,
	}
	return frame.NewComposer(shadows, mirrors, final, s.shadowMap.Cascades())
}

// Update advances the camera and, unless paused, the light orbit.
func (s *Scene) Update(dt float32, in camera.Controls) {
	s.Camera.Update(in, dt)
	if !s.paused && s.animateLight {
		s.light.Advance(dt)
	}
}

// Render synchronizes the uniform blocks and submits the frame into rec.
func (s *Scene) Render(rec gpu.Recorder) error {
	if _, err := s.sync.Sync(uniforms.Frame{
		Camera:        s.Camera,
		CameraMoved:   s.Camera.Moved(),
		Paused:        s.paused,
		LightPosition: s.light.Position,
		SplitLambda:   s.lambda,
	}); err != nil {
		return fmt.Errorf("syncing uniforms: %w", err)
	}
	s.Camera.ClearMoved()

	return s.composer.Frame(0, rec)
}

// Resize adapts the camera and the final pass to a new window size. The
// device must already report the new swapchain size.
func (s *Scene) Resize(width, height int32) {
	if width <= 0 || height <= 0 {
		s.log.Debug("ignoring empty resize", zap.Int32("width", width), zap.Int32("height", height))
		return
	}
	s.config.Width, s.config.Height = width, height
	s.Camera.SetAspect(aspect(width, height))
	s.composer.SetTargets(s.dev.SwapchainTargets())
}

// Close releases every GPU resource of the scene.
func (s *Scene) Close() error {
	return s.scope.Close()
}

// Paused reports whether animation is paused.
func (s *Scene) Paused() bool { return s.paused }

// SetPaused pauses or resumes animation.
func (s *Scene) SetPaused(p bool) { s.paused = p }

// TogglePause flips the pause state.
func (s *Scene) TogglePause() { s.paused = !s.paused }

// LightAnimated reports whether the light orbits while unpaused.
func (s *Scene) LightAnimated() bool { return s.animateLight }

// SetLightAnimated enables or disables the light orbit.
func (s *Scene) SetLightAnimated(on bool) { s.animateLight = on }

// LightPosition returns the current light position.
func (s *Scene) LightPosition() math.Vec3 { return s.light.Position }

// SetLightPosition moves the light.
func (s *Scene) SetLightPosition(p math.Vec3) {
	s.light.Position = p
	s.sync.Invalidate()
}

// SplitLambda returns the cascade split weight.
func (s *Scene) SplitLambda() float32 { return s.lambda }

// SetSplitLambda sets the cascade split weight, clamped to [0,1].
func (s *Scene) SetSplitLambda(lambda float32) {
	lambda = csm.ClampLambda(lambda)
	if lambda == s.lambda {
		return
	}
	s.lambda = lambda
	s.sync.Invalidate()
}

// TerrainLayers returns the start/range pair of every terrain layer, in
// normalized terrain height.
func (s *Scene) TerrainLayers() [][2]float32 { return s.sync.TerrainLayers().Pairs() }

// SetTerrainLayers replaces the terrain layer blend parameters. Missing
// layers keep their defaults and ranges are clamped to config.MinLayerRange.
func (s *Scene) SetTerrainLayers(layers [][2]float32) {
	s.sync.SetTerrainLayers(uniforms.NewTerrainLayerBlock(config.ClampLayers(layers)))
}

// Descriptor returns the frame descriptor.
func (s *Scene) Descriptor() frame.Descriptor { return s.composer.Descriptor() }

// SetDescriptor replaces the frame descriptor. Out of range cascade indices
// are clamped.
func (s *Scene) SetDescriptor(d frame.Descriptor) {
	if s.composer.SetDescriptor(d) {
		s.log.Debug("frame descriptor changed",
			zap.Bool("reflection", d.DisplayReflection),
			zap.Bool("refraction", d.DisplayRefraction),
			zap.Bool("cascade", d.CascadeDebug.Enabled),
			zap.Int("cascade_index", d.CascadeDebug.Index))
	}
}

// CascadeCount returns the number of shadow cascades.
func (s *Scene) CascadeCount() int { return s.shadowMap.Cascades() }

// Cascades returns the cascades fitted by the last uniform sync.
func (s *Scene) Cascades() [csm.Count]csm.Cascade { return s.sync.Cascades() }

// MirrorResolution returns the side length of the mirror images.
func (s *Scene) MirrorResolution() int32 { return s.refraction.Resolution }

// SetMirrorResolution rebuilds both mirror pairs at a new size, clamped and
// rounded to a power of two. If either pair cannot be built both keep their
// current size.
func (s *Scene) SetMirrorResolution(res int32) error {
	res = int32(config.ClampResolution(int(res)))
	if res == s.refraction.Resolution && res == s.reflection.Resolution {
		return nil
	}
	err := water.ResizePairs(res, s.refraction, s.reflection)
	// old targets may already be released even when err != nil
	s.composer.Invalidate()
	if err != nil {
		return fmt.Errorf("resizing mirror pairs: %w", err)
	}
	s.log.Debug("mirror pairs resized", zap.Int32("resolution", res))
	return nil
}

// ApplyTunables takes the settings of a reloaded config that can change
// without rebuilding the scene: split lambda, light animation, terrain
// layers, debug previews and mirror resolution. The overlay flag is kept.
func (s *Scene) ApplyTunables(c *config.Config) error {
	s.SetSplitLambda(c.Shadows.SplitLambda)
	s.SetLightAnimated(c.Light.Animate)
	s.SetTerrainLayers(c.Terrain.Layers)

	d := s.Descriptor().
		WithReflection(c.Debug.Reflection).
		WithRefraction(c.Debug.Refraction).
		WithCascadeDebug(c.Debug.Cascade, c.Debug.CascadeIndex)
	s.SetDescriptor(d)

	return s.SetMirrorResolution(int32(c.Mirror.Resolution))
}

// StoreTunables writes the settings ApplyTunables reads back into c.
func (s *Scene) StoreTunables(c *config.Config) {
	c.Shadows.SplitLambda = s.SplitLambda()
	c.Light.Animate = s.LightAnimated()
	c.Terrain.Layers = s.TerrainLayers()
	c.Mirror.Resolution = int(s.MirrorResolution())

	d := s.Descriptor()
	c.Debug.Reflection = d.DisplayReflection
	c.Debug.Refraction = d.DisplayRefraction
	c.Debug.Cascade = d.CascadeDebug.Enabled
	c.Debug.CascadeIndex = d.CascadeDebug.Index
}

// TerrainBounds returns the world bounds of the terrain mesh.
func (s *Scene) TerrainBounds() terrain.Bounds { return s.terrain.Bounds }

func aspect(width, height int32) float32 {
	if width <= 0 || height <= 0 {
		return 16.0 / 9.0
	}
	return float32(width) / float32(height)
}

func cascadeDefines() map[string]string {
	return map[string]string{"CASCADE_COUNT": strconv.Itoa(csm.Count)}
}

// glslFloat formats f as a GLSL float literal.
func glslFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'f', 4, 32)
}
