package input

import (
	"testing"

	"github.com/Faultbox/shoreline/internal/engine/camera"
)

func held(keys ...Key) func(Key) bool {
	set := make(map[Key]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return func(k Key) bool { return set[k] }
}

func TestControls(t *testing.T) {
	tests := []struct {
		name string
		keys []Key
		want camera.Controls
	}{
		{"idle", nil, camera.Controls{}},
		{"forward", []Key{KeyForward}, camera.Controls{Forward: 1}},
		{"opposing keys cancel", []Key{KeyForward, KeyBack}, camera.Controls{}},
		{"strafe and rise", []Key{KeyLeft, KeyRise}, camera.Controls{Right: -1, Up: 1}},
		{"look", []Key{KeyTurnRight, KeyLookDown}, camera.Controls{Yaw: 1, Pitch: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Controls(held(tt.keys...)); got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestEveryKeyHasScancode(t *testing.T) {
	for k := KeyForward; k <= KeyLookDown; k++ {
		if _, ok := Scancodes[k]; !ok {
			t.Errorf("key %d has no scancode", k)
		}
	}
}
