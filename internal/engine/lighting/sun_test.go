package lighting

import (
	stdmath "math"
	"testing"

	"github.com/Faultbox/shoreline/pkg/math"
)

func approx(a, b float32) bool {
	return stdmath.Abs(float64(a-b)) < 1e-4
}

func TestSunPosition(t *testing.T) {
	tests := []struct {
		name   string
		az, el float32
		want   math.Vec3
	}{
		{"zenith", 0, 90, math.Vec3{Y: 10}},
		{"south horizon", 0, 0, math.Vec3{Z: 10}},
		{"east horizon", 90, 0, math.Vec3{X: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SunPosition(tt.az, tt.el, 10)
			if !approx(got.X, tt.want.X) || !approx(got.Y, tt.want.Y) || !approx(got.Z, tt.want.Z) {
				t.Errorf("SunPosition(%v, %v) = %v, want %v", tt.az, tt.el, got, tt.want)
			}
		})
	}
}

func TestDirectionPointsAwayFromLight(t *testing.T) {
	d := Direction(math.Vec3{X: 0, Y: 20, Z: 0})
	if d != (math.Vec3{Y: -1}) {
		t.Errorf("Direction() = %v, want down", d)
	}
	d = Direction(math.Vec3{X: 3, Y: 4})
	if !approx(d.Length(), 1) || !approx(d.X, -0.6) || !approx(d.Y, -0.8) {
		t.Errorf("Direction() = %v", d)
	}
	if Direction(math.Vec3{}) != (math.Vec3{Y: -1}) {
		t.Error("light at origin should shine down")
	}
}

func TestOrbitPreservesHeightAndRadius(t *testing.T) {
	o := NewOrbit(math.Vec3{X: 10, Y: 25, Z: 0}, stdmath.Pi/2)
	p := o.Advance(1)
	if !approx(p.Y, 25) {
		t.Errorf("height = %v, want 25", p.Y)
	}
	if r := float32(stdmath.Hypot(float64(p.X), float64(p.Z))); !approx(r, 10) {
		t.Errorf("radius = %v, want 10", r)
	}
	if approx(p.X, 10) {
		t.Error("light did not move")
	}
	if o.Advance(0) != p {
		t.Error("zero dt should not move the light")
	}
}
