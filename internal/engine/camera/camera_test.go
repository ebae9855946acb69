package camera

import (
	gomath "math"
	"testing"
)

func approx(a, b float32) bool {
	return gomath.Abs(float64(a-b)) < 1e-4
}

func TestFlyCameraDefaultsLookDownNegZ(t *testing.T) {
	c := NewFlyCamera(16.0 / 9.0)
	c.Pitch = 0
	f := c.Forward()
	if !approx(f.X, 0) || !approx(f.Y, 0) || !approx(f.Z, -1) {
		t.Errorf("Forward() = %v, want (0,0,-1)", f)
	}
	if c.NearClip() != 0.5 || c.FarClip() != 48 {
		t.Errorf("clip = %v..%v", c.NearClip(), c.FarClip())
	}
	if !c.Moved() {
		t.Error("new camera should report moved")
	}
}

func TestFlyCameraViewMatrix(t *testing.T) {
	c := NewFlyCamera(1)
	c.Yaw, c.Pitch = 0.7, -0.3
	view := c.ViewMatrix()

	eye := view.Project(c.Position)
	if !approx(eye.X, 0) || !approx(eye.Y, 0) || !approx(eye.Z, 0) {
		t.Errorf("eye in view space = %v, want origin", eye)
	}
	ahead := view.Project(c.Position.Add(c.Forward().Scale(5)))
	if !approx(ahead.X, 0) || !approx(ahead.Y, 0) || !approx(ahead.Z, -5) {
		t.Errorf("point ahead in view space = %v, want (0,0,-5)", ahead)
	}
}

func TestFlyCameraUpdate(t *testing.T) {
	c := NewFlyCamera(1)
	c.Pitch = 0
	c.ClearMoved()
	start := c.Position

	c.Update(Controls{}, 0.1)
	if c.Moved() {
		t.Error("idle controls should not move the camera")
	}

	c.Update(Controls{Forward: 1}, 0.5)
	if !c.Moved() {
		t.Error("camera should report moved")
	}
	if d := c.Position.Distance(start); !approx(d, c.MoveSpeed*0.5) {
		t.Errorf("moved %v, want %v", d, c.MoveSpeed*0.5)
	}
	if c.Position.Z >= start.Z {
		t.Errorf("forward should move towards -Z, got %v", c.Position)
	}

	before := c.Position
	c.Update(Controls{Right: 1}, 1)
	if c.Position.X <= before.X {
		t.Errorf("right should move towards +X, got %v", c.Position)
	}
	c.Update(Controls{Up: 1}, 1)
	if c.Position.Y <= before.Y {
		t.Errorf("up should move towards +Y, got %v", c.Position)
	}
}

func TestFlyCameraPitchClamp(t *testing.T) {
	c := NewFlyCamera(1)
	c.Update(Controls{Pitch: 1}, 100)
	if c.Pitch != c.MaxPitch {
		t.Errorf("pitch = %v, want %v", c.Pitch, c.MaxPitch)
	}
	c.Update(Controls{Pitch: -1}, 100)
	if c.Pitch != -c.MaxPitch {
		t.Errorf("pitch = %v, want %v", c.Pitch, -c.MaxPitch)
	}
}

func TestFlyCameraSetAspect(t *testing.T) {
	c := NewFlyCamera(1)
	c.ClearMoved()
	c.SetAspect(1)
	if c.Moved() {
		t.Error("same aspect should not mark moved")
	}
	c.SetAspect(2)
	if !c.Moved() || c.Aspect != 2 {
		t.Errorf("aspect = %v moved = %v", c.Aspect, c.Moved())
	}
	p := c.ProjectionMatrix()
	if !approx(p[5]/p[0], 2) {
		t.Errorf("projection aspect = %v, want 2", p[5]/p[0])
	}
}
