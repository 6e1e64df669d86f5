package components

import "github.com/yohamta/donburi"

// XRAvatarRigData holds the entities that represent the local player's XR
// controllers. A zero entity means the hand has nothing attached.
type XRAvatarRigData struct {
	LeftControllerEntity   donburi.Entity
	LeftNetworkedEntity    donburi.Entity
	LeftRayNetworkedEntity donburi.Entity

	RightControllerEntity   donburi.Entity
	RightNetworkedEntity    donburi.Entity
	RightRayNetworkedEntity donburi.Entity
}

var XRAvatarRig = donburi.NewComponentType[XRAvatarRigData]()

// PeerData is the client-side view of a remote player's input, rebuilt from
// replicated state. Axes is keyed by action path.
type PeerData struct {
	Name    string
	Held    []string
	Axes    map[string][2]float32
	IsLocal bool

	// Aim as integrated by the relay, in radians.
	Yaw, Pitch float64
}

var Peer = donburi.NewComponentType[PeerData]()
