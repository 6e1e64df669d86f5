package messages

import "github.com/leap-fish/necs/esync"

// JoinRequest is sent by a client after connecting to request joining the world.
// InputTableVersion must match the server's key-code table; ids in input
// frames are meaningless across versions.
type JoinRequest struct {
	Version           string
	InputTableVersion int
	PlayerName        string
}

// JoinAccepted is sent by the server when a client's join request is accepted.
type JoinAccepted struct {
	NetworkID  esync.NetworkId
	ServerName string
	TickRate   int
	Players    int
}

// JoinRejected is sent by the server when a client's join request is rejected.
type JoinRejected struct {
	Reason string
}

// PeerEvent is broadcast when another player joins or leaves.
type PeerEvent struct {
	NetworkID esync.NetworkId
	Name      string
	Joined    bool
}
