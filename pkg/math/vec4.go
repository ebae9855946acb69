package math

// Vec4 is a 4-component vector, also used for plane equations (xyz normal, w offset).
type Vec4 [4]float32

// XYZ drops the w component.
func (v Vec4) XYZ() Vec3 {
	return Vec3{v[0], v[1], v[2]}
}

// Dot returns the 4D dot product. For a plane and a point with w=1 this is the signed distance.
func (v Vec4) Dot(other Vec4) float32 {
	return v[0]*other[0] + v[1]*other[1] + v[2]*other[2] + v[3]*other[3]
}
