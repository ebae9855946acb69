// Package terrain builds the height-field terrain mesh from a heightmap.
package terrain

// Vertex represents a terrain mesh vertex with all attributes.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// VertexStride is the size of an interleaved vertex in bytes.
const VertexStride = (3 + 3 + 2) * 4

// Mesh holds the complete terrain mesh data ready for GPU upload.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Bounds   Bounds
}

// Bounds holds the axis-aligned bounding box of the terrain.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// Heightmap is a square grid of normalized heights in [0,1], row-major by z.
type Heightmap struct {
	Heights []float32
	Size    int // Samples per side
}

// Params places the heightmap in the world.
type Params struct {
	// Extent is the world size of one side; the terrain is centered on the origin.
	Extent float32
	// HeightScale multiplies normalized heights.
	HeightScale float32
	// Offset shifts the terrain vertically so part of it lies under water.
	Offset float32
	// UVRepeat tiles texture coordinates across the terrain.
	UVRepeat float32
}

// DefaultParams gives a 64 unit terrain peaking 10 units above the water.
func DefaultParams() Params {
	return Params{Extent: 64, HeightScale: 12, Offset: -2, UVRepeat: 16}
}
