package inputsource

import "github.com/automoto/worldclient/shared/ringbuffer"

// ApplyFunc receives one decoded control value. delta is true when the value
// should be added to the control's current value instead of replacing it.
type ApplyFunc func(c Control, value float32, delta bool)

var mouseButtonControls = [...]struct {
	bit     uint32
	control Control
}{
	{MouseButtonLeft, MouseLeft},
	{MouseButtonRight, MouseRight},
	{MouseButtonMiddle, MouseMiddle},
	{MouseButtonBack, MouseBack},
	{MouseButtonForward, MouseForward},
}

// Decode expands a ring buffer record into control values. Which record fields
// are meaningful is fixed per component:
//
//	KeyboardButton  State = key code, Button = 1 down / 0 up
//	MouseButtons    State = button bitmask
//	MouseMovement   X,Y = movement delta, Z,W = client position
//	MouseScroll     X = horizontal delta, Y = vertical delta
//	GamepadButton   Button = standard button index, X = value
//	GamepadAxes     Button = stick (0 left, 1 right), X,Y = axis values
//	XRButton        Button = hand, State = xr-standard button index, X = value
//	XRAxes          Button = hand, X,Y = thumbstick, Z,W = touchpad
//
// Records that do not resolve to a known control are reported once with
// ControlUnknown so the caller can count them; Decode never fails.
func Decode(r ringbuffer.Record, apply ApplyFunc) {
	src := SourceID(r.InputSourceID)
	comp := ComponentID(r.ComponentID)

	switch {
	case src == SourceKeyboard && comp == ComponentKeyboardButton:
		apply(KeyControl(KeyCode(r.State)), buttonValue(r.Button), false)

	case src == SourceMouse && comp == ComponentMouseButtons:
		for _, mb := range mouseButtonControls {
			v := float32(0)
			if r.State&mb.bit != 0 {
				v = 1
			}
			apply(mb.control, v, false)
		}

	case src == SourceMouse && comp == ComponentMouseMovement:
		apply(MouseMovementX, r.X, true)
		apply(MouseMovementY, r.Y, true)
		apply(MouseClientX, r.Z, false)
		apply(MouseClientY, r.W, false)

	case src == SourceMouse && comp == ComponentMouseScroll:
		apply(MouseScrollX, r.X, true)
		apply(MouseScroll, r.Y, true)

	case src == SourceGamepad && comp == ComponentGamepadButton:
		apply(GamepadButtonControl(int(r.Button)), r.X, false)

	case src == SourceGamepad && comp == ComponentGamepadAxes:
		switch r.Button {
		case 0:
			apply(GamepadLeftStickX, r.X, false)
			apply(GamepadLeftStickY, r.Y, false)
		case 1:
			apply(GamepadRightStickX, r.X, false)
			apply(GamepadRightStickY, r.Y, false)
		default:
			apply(ControlUnknown, 0, false)
		}

	case src == SourceXRController && comp == ComponentXRButton:
		if r.State >= uint32(XRButtonCount) {
			apply(ControlUnknown, 0, false)
			return
		}
		apply(XRControl(r.Button, Control(r.State)), r.X, false)

	case src == SourceXRController && comp == ComponentXRAxes:
		apply(XRControl(r.Button, XRThumbstickX), r.X, false)
		apply(XRControl(r.Button, XRThumbstickY), r.Y, false)
		apply(XRControl(r.Button, XRTouchpadX), r.Z, false)
		apply(XRControl(r.Button, XRTouchpadY), r.W, false)

	default:
		apply(ControlUnknown, 0, false)
	}
}

func buttonValue(b uint8) float32 {
	if b != 0 {
		return 1
	}
	return 0
}
