package input

import (
	"testing"

	"github.com/veandco/go-sdl2/sdl"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name  string
		event sdl.Event
		want  Event
		ok    bool
	}{
		{"quit", &sdl.QuitEvent{Type: sdl.QUIT}, Event{Type: EventQuit}, true},
		{
			"resize",
			&sdl.WindowEvent{Type: sdl.WINDOWEVENT, Event: sdl.WINDOWEVENT_RESIZED, Data1: 800, Data2: 600},
			Event{Type: EventWindowResize, Width: 800, Height: 600},
			true,
		},
		{"window focus ignored", &sdl.WindowEvent{Type: sdl.WINDOWEVENT, Event: sdl.WINDOWEVENT_FOCUS_GAINED}, Event{}, false},
		{
			"key down",
			&sdl.KeyboardEvent{Type: sdl.KEYDOWN, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_M}},
			Event{Type: EventKeyDown, Key: sdl.SCANCODE_M},
			true,
		},
		{
			"key repeat ignored",
			&sdl.KeyboardEvent{Type: sdl.KEYDOWN, Repeat: 1, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_M}},
			Event{},
			false,
		},
		{
			"mouse motion",
			&sdl.MouseMotionEvent{Type: sdl.MOUSEMOTION, X: 10, Y: 20, XRel: 3, YRel: -2},
			Event{Type: EventMouseMove, MouseX: 10, MouseY: 20, DeltaX: 3, DeltaY: -2},
			true,
		},
		{
			"button up",
			&sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONUP, Button: sdl.BUTTON_LEFT, X: 1, Y: 2},
			Event{Type: EventMouseUp, Button: sdl.BUTTON_LEFT, MouseX: 1, MouseY: 2},
			true,
		},
		{"wheel", &sdl.MouseWheelEvent{Type: sdl.MOUSEWHEEL, Y: 2}, Event{Type: EventMouseWheel, Wheel: 2}, true},
		{
			"flipped wheel",
			&sdl.MouseWheelEvent{Type: sdl.MOUSEWHEEL, Y: 2, Direction: sdl.MOUSEWHEEL_FLIPPED},
			Event{Type: EventMouseWheel, Wheel: -2},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := translate(tt.event)
			if ok != tt.ok {
				t.Fatalf("translate() ok = %v, want %v", ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("translate() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestButtonState(t *testing.T) {
	in := New()
	in.push(Event{Type: EventMouseDown, Button: sdl.BUTTON_LEFT})
	if !in.IsButtonDown(sdl.BUTTON_LEFT) {
		t.Error("left button should be down")
	}
	in.push(Event{Type: EventMouseUp, Button: sdl.BUTTON_LEFT})
	if in.IsButtonDown(sdl.BUTTON_LEFT) {
		t.Error("left button should be up")
	}
	in.push(Event{Type: EventKeyDown, Key: sdl.SCANCODE_T})
	if !in.IsKeyPressed(sdl.SCANCODE_T) || in.IsKeyPressed(sdl.SCANCODE_M) {
		t.Error("IsKeyPressed mismatch")
	}
}
