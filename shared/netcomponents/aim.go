package netcomponents

import "github.com/yohamta/donburi"

// NetAimData is a player's view orientation in radians, integrated by the
// server from the player's Look action.
type NetAimData struct {
	Yaw, Pitch float64
}

var NetAim = donburi.NewComponentType[NetAimData]()

// LerpNetAim interpolates between two orientations
func LerpNetAim(from, to NetAimData, t float64) *NetAimData {
	return &NetAimData{
		Yaw:   from.Yaw + (to.Yaw-from.Yaw)*t,
		Pitch: from.Pitch + (to.Pitch-from.Pitch)*t,
	}
}
