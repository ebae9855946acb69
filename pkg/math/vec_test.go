package math

import (
	"testing"
)

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3Normalize(t *testing.T) {
	n := Vec3{3, 4, 0}.Normalize()
	if l := n.Length(); l < 0.999 || l > 1.001 {
		t.Errorf("Vec3.Normalize().Length() = %v, want ~1", l)
	}
	if z := (Vec3{}).Normalize(); z != (Vec3{}) {
		t.Errorf("zero vector normalize = %v, want zero", z)
	}
}

func TestVec3Lerp(t *testing.T) {
	a := Vec3{0, 0, 0}
	b := Vec3{2, 4, -8}
	if got := a.Lerp(b, 0.25); got != (Vec3{0.5, 1, -2}) {
		t.Errorf("Vec3.Lerp() = %v, want (0.5, 1, -2)", got)
	}
}

func TestVec4PlaneDistance(t *testing.T) {
	plane := Vec4{0, 1, 0, 0}
	if d := plane.Dot(Vec3{5, -2, 7}.Vec4(1)); d != -2 {
		t.Errorf("plane distance = %v, want -2", d)
	}
}
