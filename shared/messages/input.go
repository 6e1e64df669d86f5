package messages

import "github.com/automoto/worldclient/shared/ringbuffer"

// InitializeInputState hands the simulation goroutine the buffers it shares
// with the capture side. It is sent exactly once per session.
type InitializeInputState struct {
	RingBuffer             *ringbuffer.RingBuffer
	ScreenSpaceMouseCoords *ringbuffer.ScreenCoords
}

// Handedness of an XR input source.
type Handedness string

const (
	HandednessNone  Handedness = "none"
	HandednessLeft  Handedness = "left"
	HandednessRight Handedness = "right"
)

// XRInputSource describes one connected XR controller or hand.
type XRInputSource struct {
	ID            uint32
	Handedness    Handedness
	TargetRayMode string // "tracked-pointer", "gaze" or "screen"
	Profiles      []string
}

// UpdateXRInputSources is sent when XR controllers connect or disconnect.
type UpdateXRInputSources struct {
	Added   []XRInputSource
	Removed []uint32 // source ids
}

// InputPathEntry numbers one action path.
type InputPathEntry struct {
	ID   uint16
	Path string
	Type uint8 // action type, see input.ActionType
}

// InputPathTable tells the server which id stands for which action path.
// Sent after joining and again whenever new actions are registered.
type InputPathTable struct {
	Entries []InputPathEntry
}

// ActionValue is the wire form of one resolved action.
type ActionValue struct {
	ID   uint16
	Held bool
	X, Y float32 // Value in X for scalar actions
}

// InputFrame carries the sender's resolved actions for one tick.
type InputFrame struct {
	Sequence  uint32 // Incrementing ID, frames older than the last applied are dropped
	Actions   []ActionValue
	Timestamp int64 // Client timestamp (Unix ms)
}
