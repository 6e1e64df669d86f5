package protocol

import (
	"github.com/automoto/worldclient/shared/netcomponents"
	"github.com/leap-fish/necs/esync"
)

// Sync ID constants - ID 1 is reserved by necs for NetworkId
const (
	SyncIDNetAim         uint = 10
	SyncIDNetPlayerState uint = 11
	SyncIDNetInputPaths  uint = 12
	SyncIDNetActionState uint = 13
)

// Interpolation IDs (uint8 for WithInterpFn)
const (
	InterpIDNetAim uint8 = 10
)

// RegisterComponents registers all network components with necs for serialization.
// This must be called by both server and client before any network operations.
func RegisterComponents() error {
	if err := esync.RegisterComponent(
		SyncIDNetAim,
		netcomponents.NetAimData{},
		netcomponents.NetAim,
		esync.WithInterpFn(InterpIDNetAim, netcomponents.LerpNetAim),
	); err != nil {
		return err
	}

	if err := esync.RegisterComponent(
		SyncIDNetPlayerState,
		netcomponents.NetPlayerStateData{},
		netcomponents.NetPlayerState,
	); err != nil {
		return err
	}

	if err := esync.RegisterComponent(
		SyncIDNetInputPaths,
		netcomponents.NetInputPathsData{},
		netcomponents.NetInputPaths,
	); err != nil {
		return err
	}

	// Action state changes every tick a key is held; no interpolation.
	if err := esync.RegisterComponent(
		SyncIDNetActionState,
		netcomponents.NetActionStateData{},
		netcomponents.NetActionState,
	); err != nil {
		return err
	}

	return nil
}
