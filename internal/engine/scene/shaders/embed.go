// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// TerrainVertexShader is the vertex shader for terrain in every color pass.
//
//go:embed terrain.vert
var TerrainVertexShader string

// TerrainFragmentShader blends height layers and applies cascaded shadows.
//
//go:embed terrain.frag
var TerrainFragmentShader string

// SkyVertexShader is the vertex shader for the skysphere.
//
//go:embed sky.vert
var SkyVertexShader string

// SkyFragmentShader shades the sky gradient and sun disc.
//
//go:embed sky.frag
var SkyFragmentShader string

// WaterVertexShader is the vertex shader for the water plane.
//
//go:embed water.vert
var WaterVertexShader string

// WaterFragmentShader mixes the reflection and refraction images.
//
//go:embed water.frag
var WaterFragmentShader string

// ShadowVertexShader projects casters into one cascade layer.
//
//go:embed shadow.vert
var ShadowVertexShader string

// ShadowFragmentShader is the empty depth-only fragment stage.
//
//go:embed shadow.frag
var ShadowFragmentShader string

// PreviewVertexShader emits a quad over the region set by the debug push
// constant, from gl_VertexID.
//
//go:embed preview.vert
var PreviewVertexShader string

// DebugColorFragmentShader previews a color image.
//
//go:embed debug_color.frag
var DebugColorFragmentShader string

// DebugDepthFragmentShader previews one layer of the shadow depth array.
//
//go:embed debug_depth.frag
var DebugDepthFragmentShader string
