// Package netconfig defines lightweight values shared between client and server
// for the input relay. It must have zero dependencies on ebiten or any
// graphics library so the dedicated server binary stays headless.
package netconfig

const (
	// DefaultPort is the relay's WebSocket port.
	DefaultPort = 7373
	// DefaultTickRate is how often the relay integrates input and syncs.
	DefaultTickRate = 20

	// MaxNameLength caps player names; longer names are truncated.
	MaxNameLength = 24
	// MaxInputPaths caps the action ids one client may register.
	MaxInputPaths = 256

	// FramesPerSecond and FrameBurst bound how fast a client may send input
	// frames. Clients send at most one frame per simulation tick.
	FramesPerSecond = 120
	FrameBurst      = 30
)

// LookRadiansPerUnit converts the Look action (mouse pixels or scaled
// stick deflection per tick) to radians of view rotation.
const LookRadiansPerUnit = 0.0025

// MaxPitch limits looking up or down, just short of straight up.
const MaxPitch = 1.55
