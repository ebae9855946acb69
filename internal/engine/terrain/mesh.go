package terrain

import gomath "math"

// BuildMesh creates a grid mesh centered on the origin from a heightmap.
// Normals are averaged across the triangles sharing each vertex.
func BuildMesh(hm *Heightmap, p Params) *Mesh {
	n := hm.Size
	cell := p.Extent / float32(n-1)
	half := p.Extent / 2

	bounds := Bounds{
		Min: [3]float32{1e10, 1e10, 1e10},
		Max: [3]float32{-1e10, -1e10, -1e10},
	}

	vertices := make([]Vertex, 0, n*n)
	for z := 0; z < n; z++ {
		for x := 0; x < n; x++ {
			pos := [3]float32{
				float32(x)*cell - half,
				hm.At(x, z)*p.HeightScale + p.Offset,
				float32(z)*cell - half,
			}
			updateBounds(&bounds, pos)
			vertices = append(vertices, Vertex{
				Position: pos,
				TexCoord: [2]float32{
					float32(x) / float32(n-1) * p.UVRepeat,
					float32(z) / float32(n-1) * p.UVRepeat,
				},
			})
		}
	}

	indices := make([]uint32, 0, (n-1)*(n-1)*6)
	for z := 0; z < n-1; z++ {
		for x := 0; x < n-1; x++ {
			i0 := uint32(z*n + x)
			i1 := i0 + 1
			i2 := i0 + uint32(n)
			i3 := i2 + 1
			// Counter-clockwise seen from above.
			indices = append(indices, i0, i2, i1, i1, i2, i3)
		}
	}

	smoothNormals(vertices, indices)

	return &Mesh{Vertices: vertices, Indices: indices, Bounds: bounds}
}

// Interleave flattens the vertices as position, normal, uv.
func (m *Mesh) Interleave() []float32 {
	out := make([]float32, 0, len(m.Vertices)*8)
	for _, v := range m.Vertices {
		out = append(out,
			v.Position[0], v.Position[1], v.Position[2],
			v.Normal[0], v.Normal[1], v.Normal[2],
			v.TexCoord[0], v.TexCoord[1])
	}
	return out
}

func smoothNormals(vertices []Vertex, indices []uint32) {
	sums := make([][3]float32, len(vertices))
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		pa, pb, pc := vertices[a].Position, vertices[b].Position, vertices[c].Position
		edge1 := [3]float32{pb[0] - pa[0], pb[1] - pa[1], pb[2] - pa[2]}
		edge2 := [3]float32{pc[0] - pa[0], pc[1] - pa[1], pc[2] - pa[2]}
		// Unnormalized so larger triangles weigh more.
		fn := cross(edge1, edge2)
		for _, idx := range [3]uint32{a, b, c} {
			sums[idx][0] += fn[0]
			sums[idx][1] += fn[1]
			sums[idx][2] += fn[2]
		}
	}
	for i := range vertices {
		vertices[i].Normal = normalize(sums[i])
	}
}

// Helper functions

func updateBounds(b *Bounds, p [3]float32) {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}

func cross(a, b [3]float32) [3]float32 {
	return [3]float32{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func normalize(v [3]float32) [3]float32 {
	l := float32(gomath.Sqrt(float64(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])))
	if l < 0.0001 {
		return [3]float32{0, 1, 0}
	}
	return [3]float32{v[0] / l, v[1] / l, v[2] / l}
}
