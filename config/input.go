package config

import "github.com/automoto/worldclient/shared/ringbuffer"

// InputConfig holds input pipeline and feel settings. The user-facing
// fields are overwritten from persisted settings at startup.
type InputConfig struct {
	// RingBufferCapacity is the number of record slots; a power of two.
	RingBufferCapacity int

	// MouseSensitivity scales the Look action.
	MouseSensitivity float32
	// InvertLook flips the vertical look axis.
	InvertLook bool
	// NormalizeDiagonal gives keyboard diagonals magnitude 1 instead of √2.
	NormalizeDiagonal bool
	// GamepadDeadZone applies to both sticks.
	GamepadDeadZone float32
}

// Input is the global input configuration
var Input InputConfig

func init() {
	Input = InputConfig{
		RingBufferCapacity: ringbuffer.DefaultCapacity,
		MouseSensitivity:   1,
		GamepadDeadZone:    0.25,
	}
}
