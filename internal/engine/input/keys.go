package input

import "github.com/Faultbox/shoreline/internal/engine/camera"

// Key is a camera control independent of the windowing backend.
type Key int

const (
	KeyForward Key = iota
	KeyBack
	KeyLeft
	KeyRight
	KeyRise
	KeySink
	KeyTurnLeft
	KeyTurnRight
	KeyLookUp
	KeyLookDown
)

// Controls builds one frame of camera controls from a key state query:
// WASD moves, Q/E sinks and rises, arrows look around.
func Controls(down func(Key) bool) camera.Controls {
	axis := func(neg, pos Key) float32 {
		var v float32
		if down(pos) {
			v++
		}
		if down(neg) {
			v--
		}
		return v
	}
	return camera.Controls{
		Forward: axis(KeyBack, KeyForward),
		Right:   axis(KeyLeft, KeyRight),
		Up:      axis(KeySink, KeyRise),
		Yaw:     axis(KeyTurnLeft, KeyTurnRight),
		Pitch:   axis(KeyLookDown, KeyLookUp),
	}
}
