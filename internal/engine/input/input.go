// Package input handles SDL2 input events and maps keys to camera controls.
package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/shoreline/internal/engine/camera"
)

// EventType is the kind of a processed event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Width  int
	Height int
}

// Scancodes binds each control key to an SDL scancode.
var Scancodes = map[Key]sdl.Scancode{
	KeyForward:   sdl.SCANCODE_W,
	KeyBack:      sdl.SCANCODE_S,
	KeyLeft:      sdl.SCANCODE_A,
	KeyRight:     sdl.SCANCODE_D,
	KeyRise:      sdl.SCANCODE_E,
	KeySink:      sdl.SCANCODE_Q,
	KeyTurnLeft:  sdl.SCANCODE_LEFT,
	KeyTurnRight: sdl.SCANCODE_RIGHT,
	KeyLookUp:    sdl.SCANCODE_UP,
	KeyLookDown:  sdl.SCANCODE_DOWN,
}

// Input handles all input processing.
type Input struct {
	events []Event
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// Update polls SDL events. Returns true if the window should close.
func (i *Input) Update() bool {
	i.events = i.events[:0] // Clear previous events

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			return true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				i.events = append(i.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			if e.Repeat != 0 {
				continue
			}
			if e.Type == sdl.KEYDOWN {
				i.events = append(i.events, Event{Type: EventKeyDown, Key: e.Keysym.Scancode})
			} else if e.Type == sdl.KEYUP {
				i.events = append(i.events, Event{Type: EventKeyUp, Key: e.Keysym.Scancode})
			}
		}
	}

	return false
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// KeysDown returns the keys pressed this frame, in event order.
func (i *Input) KeysDown() []sdl.Scancode {
	var keys []sdl.Scancode
	for _, e := range i.Events() {
		if e.Type == EventKeyDown {
			keys = append(keys, e.Key)
		}
	}
	return keys
}

// Resized returns the last window size reported this frame.
func (i *Input) Resized() (width, height int, ok bool) {
	for _, e := range i.events {
		if e.Type == EventWindowResize {
			width, height, ok = e.Width, e.Height, true
		}
	}
	return width, height, ok
}

// Controls reads the held keys into camera controls.
func (i *Input) Controls() camera.Controls {
	state := sdl.GetKeyboardState()
	return Controls(func(k Key) bool {
		sc, ok := Scancodes[k]
		return ok && int(sc) < len(state) && state[sc] != 0
	})
}
