package input

import (
	"testing"

	"github.com/veandco/go-sdl2/sdl"
)

func TestKeysDown(t *testing.T) {
	in := &Input{events: []Event{
		{Type: EventKeyDown, Key: sdl.SCANCODE_P},
		{Type: EventKeyUp, Key: sdl.SCANCODE_W},
		{Type: EventWindowResize, Width: 800, Height: 600},
		{Type: EventKeyDown, Key: sdl.SCANCODE_F12},
	}}

	got := in.KeysDown()
	if len(got) != 2 || got[0] != sdl.SCANCODE_P || got[1] != sdl.SCANCODE_F12 {
		t.Errorf("KeysDown() = %v, want [P F12]", got)
	}
}

func TestResizedKeepsLast(t *testing.T) {
	in := &Input{events: []Event{
		{Type: EventWindowResize, Width: 800, Height: 600},
		{Type: EventKeyDown, Key: sdl.SCANCODE_P},
		{Type: EventWindowResize, Width: 1024, Height: 768},
	}}

	w, h, ok := in.Resized()
	if !ok || w != 1024 || h != 768 {
		t.Errorf("Resized() = %d, %d, %v, want 1024, 768, true", w, h, ok)
	}

	if _, _, ok := New().Resized(); ok {
		t.Error("no resize event should report false")
	}
}
