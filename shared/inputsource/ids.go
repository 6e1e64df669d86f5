// Package inputsource is the static registry that keeps ring buffer records
// compact: every (device, control) pair gets a small stable integer, and every
// known control path gets a Control value so the simulation never hashes
// strings on the per-tick path.
//
// The tables are versioned with TableVersion. Ids are only ever appended;
// changing an existing value breaks recordings and remote peers.
package inputsource

// TableVersion identifies the layout of the id and key-code tables.
const TableVersion = 1

// SourceID identifies the device class that produced a record.
type SourceID uint8

const (
	SourceUnknown SourceID = iota
	SourceKeyboard
	SourceMouse
	SourceGamepad
	SourceXRController
)

func (s SourceID) String() string {
	switch s {
	case SourceKeyboard:
		return "Keyboard"
	case SourceMouse:
		return "Mouse"
	case SourceGamepad:
		return "Gamepad"
	case SourceXRController:
		return "XRController"
	default:
		return "Unknown"
	}
}

// ComponentID identifies which part of a device a record describes. It also
// fixes which record fields carry the payload; see Decode.
type ComponentID uint8

const (
	ComponentUnknown ComponentID = iota
	ComponentKeyboardButton
	ComponentMouseButtons
	ComponentMouseMovement
	ComponentMouseScroll
	ComponentGamepadButton
	ComponentGamepadAxes
	ComponentXRButton
	ComponentXRAxes
)

// Mouse button bits carried in the State field of a MouseButtons record.
const (
	MouseButtonLeft uint32 = 1 << iota
	MouseButtonRight
	MouseButtonMiddle
	MouseButtonBack
	MouseButtonForward
)

// Handedness values carried in the Button field of XR records.
const (
	HandNone uint8 = iota
	HandLeft
	HandRight
)
