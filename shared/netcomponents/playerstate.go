package netcomponents

import (
	"github.com/automoto/worldclient/shared/messages"
	"github.com/yohamta/donburi"
)

type NetPlayerStateData struct {
	Name         string
	LastSequence uint32 // Last input frame applied by the server
	IsLocal      bool   // Client-side only, not synced
}

var NetPlayerState = donburi.NewComponentType[NetPlayerStateData]()

// NetInputPathsData is the player's action id table, so peers can name the
// ids in NetActionState. It changes only when the player enables new maps.
type NetInputPathsData struct {
	Entries []messages.InputPathEntry
}

var NetInputPaths = donburi.NewComponentType[NetInputPathsData]()

// NetActionStateData is the player's latest resolved actions.
type NetActionStateData struct {
	Actions []messages.ActionValue
}

var NetActionState = donburi.NewComponentType[NetActionStateData]()
