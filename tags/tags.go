package tags

import "github.com/yohamta/donburi"

var (
	// OurPlayer marks the local player's avatar entity.
	OurPlayer = donburi.NewTag().SetName("OurPlayer")
	// XRController marks entities spawned for a tracked XR controller.
	XRController = donburi.NewTag().SetName("XRController")
	// Replay marks entities driven by a recorded input stream.
	Replay = donburi.NewTag().SetName("Replay")
)
