package inputsource

import "strconv"

// Control is the compact id of one physical control path such as
// "Keyboard/KeyW" or "Mouse/movementX". Raw control state is stored in a
// fixed array indexed by Control.
//
// Layout: each device class owns a fixed block so new controls can be
// appended to a block without shifting the others.
type Control uint16

const (
	ControlUnknown Control = 0

	keyboardBase Control = 0x0100
	mouseBase    Control = 0x0200
	gamepadBase  Control = 0x0300
	xrBase       Control = 0x0400
	xrHandStride Control = 0x0040

	// ControlCount bounds every Control value.
	ControlCount = 0x0500
)

// Mouse controls.
const (
	MouseMovementX Control = mouseBase + iota
	MouseMovementY
	MouseClientX
	MouseClientY
	MouseScroll
	MouseScrollX
	MouseLeft
	MouseRight
	MouseMiddle
	MouseBack
	MouseForward
)

// Gamepad buttons follow the standard gamepad layout order, so a standard
// button index n maps to GamepadSouth+n.
const (
	GamepadSouth Control = gamepadBase + iota
	GamepadEast
	GamepadWest
	GamepadNorth
	GamepadLeftShoulder
	GamepadRightShoulder
	GamepadLeftTrigger
	GamepadRightTrigger
	GamepadSelect
	GamepadStart
	GamepadLeftStickPress
	GamepadRightStickPress
	GamepadDPadUp
	GamepadDPadDown
	GamepadDPadLeft
	GamepadDPadRight
	GamepadHome
	GamepadLeftStickX
	GamepadLeftStickY
	GamepadRightStickX
	GamepadRightStickY
)

// GamepadButtonCount is the number of standard layout buttons.
const GamepadButtonCount = int(GamepadHome-GamepadSouth) + 1

// XR controller controls, offsets within one hand's block. Button offsets
// follow the xr-standard gamepad mapping order.
const (
	XRTrigger Control = iota
	XRSqueeze
	XRTouchpad
	XRThumbstick
	XRButtonPrimary
	XRButtonSecondary
	XRThumbstickX
	XRThumbstickY
	XRTouchpadX
	XRTouchpadY
	xrEnd
)

// XRButtonCount is the number of xr-standard buttons.
const XRButtonCount = int(XRButtonSecondary) + 1

var mouseNames = [...]string{
	"movementX", "movementY", "clientX", "clientY", "Scroll", "ScrollX",
	"Left", "Right", "Middle", "Back", "Forward",
}

var gamepadNames = [...]string{
	"South", "East", "West", "North", "LeftShoulder", "RightShoulder",
	"LeftTrigger", "RightTrigger", "Select", "Start", "LeftStickPress",
	"RightStickPress", "DPadUp", "DPadDown", "DPadLeft", "DPadRight", "Home",
	"LeftStickX", "LeftStickY", "RightStickX", "RightStickY",
}

var xrNames = [...]string{
	"Trigger", "Squeeze", "Touchpad", "Thumbstick", "ButtonPrimary",
	"ButtonSecondary", "ThumbstickX", "ThumbstickY", "TouchpadX", "TouchpadY",
}

var (
	controlPaths [ControlCount]string
	pathControls = make(map[string]Control, 256)
)

func init() {
	register := func(c Control, path string) {
		controlPaths[c] = path
		pathControls[path] = c
	}

	for i := 1; i < KeyCodeCount; i++ {
		register(keyboardBase+Control(i), "Keyboard/"+keyCodeTable[i])
	}
	for i, name := range mouseNames {
		register(mouseBase+Control(i), "Mouse/"+name)
	}
	for i, name := range gamepadNames {
		register(gamepadBase+Control(i), "Gamepad/"+name)
	}
	for i, name := range xrNames {
		register(XRControl(HandLeft, Control(i)), "XR/left/"+name)
		register(XRControl(HandRight, Control(i)), "XR/right/"+name)
	}
}

// KeyControl returns the Control for a keyboard key.
func KeyControl(k KeyCode) Control {
	if k == KeyUnknown || int(k) >= KeyCodeCount {
		return ControlUnknown
	}
	return keyboardBase + Control(k)
}

// GamepadButtonControl returns the Control for a standard gamepad button index.
func GamepadButtonControl(index int) Control {
	if index < 0 || index >= GamepadButtonCount {
		return ControlUnknown
	}
	return GamepadSouth + Control(index)
}

// XRControl returns the Control for an offset (XRTrigger...) on the given hand.
func XRControl(hand uint8, offset Control) Control {
	if offset >= xrEnd {
		return ControlUnknown
	}
	switch hand {
	case HandLeft:
		return xrBase + offset
	case HandRight:
		return xrBase + xrHandStride + offset
	default:
		return ControlUnknown
	}
}

// ParseControl resolves a control path. Unknown paths report false and
// ControlUnknown; callers that must keep them (forward-compatible bindings)
// fall back to string-keyed storage.
func ParseControl(path string) (Control, bool) {
	c, ok := pathControls[path]
	return c, ok
}

// Path returns the control path string.
func (c Control) Path() string {
	if int(c) < ControlCount {
		if p := controlPaths[c]; p != "" {
			return p
		}
	}
	return "Unknown/" + strconv.Itoa(int(c))
}

func (c Control) String() string {
	return c.Path()
}

// Valid reports whether c is a registered control.
func (c Control) Valid() bool {
	return int(c) < ControlCount && controlPaths[c] != ""
}

// IsDelta reports whether the control carries a per-tick delta rather than a
// level. Delta controls accumulate during a tick and are zeroed at its start.
func (c Control) IsDelta() bool {
	switch c {
	case MouseMovementX, MouseMovementY, MouseScroll, MouseScrollX:
		return true
	}
	return false
}

// DeltaControls lists every control for which IsDelta is true.
var DeltaControls = [...]Control{MouseMovementX, MouseMovementY, MouseScroll, MouseScrollX}
