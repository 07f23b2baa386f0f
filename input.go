package g3d

import (
	"fmt"

	"github.com/gogpu/g3d/world"
)

// Event is an input event from the windowing layer.
type Event interface {
	event()
}

// Key identifies the keys the renderer reacts to.
type Key uint8

// Keys.
const (
	KeyUnknown Key = iota
	KeyW
	KeyA
	KeyS
	KeyD
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeySpace
	KeyShift
	KeyEscape
)

var keyNames = [...]string{
	KeyUnknown: "Unknown",
	KeyW:       "W",
	KeyA:       "A",
	KeyS:       "S",
	KeyD:       "D",
	KeyUp:      "Up",
	KeyDown:    "Down",
	KeyLeft:    "Left",
	KeyRight:   "Right",
	KeySpace:   "Space",
	KeyShift:   "Shift",
	KeyEscape:  "Escape",
}

// String returns the key name.
func (k Key) String() string {
	if int(k) < len(keyNames) {
		return keyNames[k]
	}
	return fmt.Sprintf("Key(%d)", k)
}

// movement maps a key to a camera movement.
func (k Key) movement() (world.Movement, bool) {
	switch k {
	case KeyW, KeyUp:
		return world.MoveForward, true
	case KeyS, KeyDown:
		return world.MoveBackward, true
	case KeyA, KeyLeft:
		return world.MoveLeft, true
	case KeyD, KeyRight:
		return world.MoveRight, true
	case KeySpace:
		return world.MoveUp, true
	case KeyShift:
		return world.MoveDown, true
	default:
		return 0, false
	}
}

// MouseButton identifies a mouse button.
type MouseButton uint8

// Mouse buttons.
const (
	MouseButtonLeft MouseButton = iota
	MouseButtonRight
	MouseButtonMiddle
)

// KeyEvent is a key press or release.
type KeyEvent struct {
	Key     Key
	Pressed bool
}

// MouseButtonEvent is a mouse button press or release. The camera rotates
// with mouse motion only while the left button is held.
type MouseButtonEvent struct {
	Button  MouseButton
	Pressed bool
}

// MouseMotionEvent is a raw mouse motion delta in pixels.
type MouseMotionEvent struct {
	DX, DY float64
}

// ScrollEvent is a wheel or touchpad scroll. Positive Delta zooms in.
// Lines reports whether Delta counts lines rather than pixels.
type ScrollEvent struct {
	Delta float64
	Lines bool
}

func (KeyEvent) event()         {}
func (MouseButtonEvent) event() {}
func (MouseMotionEvent) event() {}
func (ScrollEvent) event()      {}

// InputResult tells the caller what HandleInput did with an event.
type InputResult uint8

const (
	// InputIgnored means the event does not concern the renderer.
	InputIgnored InputResult = iota
	// InputConsumed means the event was applied to the camera controller.
	InputConsumed
	// InputExitRequested means the user asked to quit.
	InputExitRequested
)

// String returns the result name.
func (r InputResult) String() string {
	switch r {
	case InputIgnored:
		return "Ignored"
	case InputConsumed:
		return "Consumed"
	case InputExitRequested:
		return "ExitRequested"
	default:
		return fmt.Sprintf("InputResult(%d)", r)
	}
}
