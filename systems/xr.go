package systems

import (
	"log"

	"github.com/automoto/worldclient/components"
	"github.com/automoto/worldclient/shared/input"
	"github.com/automoto/worldclient/shared/messages"
	"github.com/automoto/worldclient/tags"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// NewXRInputSystem returns a system that applies pending XR hot-plug
// messages. Removing a hand's source tears down the entities the local
// player's rig attached to that hand.
func NewXRInputSystem(m *input.Module, updates <-chan messages.UpdateXRInputSources) func(*ecs.ECS) {
	return func(e *ecs.ECS) {
		for {
			select {
			case msg := <-updates:
				OnUpdateXRInputSources(e.World, m, msg)
			default:
				return
			}
		}
	}
}

// OnUpdateXRInputSources applies one hot-plug message.
func OnUpdateXRInputSources(world donburi.World, m *input.Module, msg messages.UpdateXRInputSources) {
	for _, hand := range m.UpdateXRInputSources(msg) {
		teardownHand(world, hand)
	}
	if len(msg.Added) > 0 || len(msg.Removed) > 0 {
		log.Printf("[input] xr sources: +%d -%d, %d connected", len(msg.Added), len(msg.Removed), len(m.XRInputSources))
	}
}

func teardownHand(world donburi.World, hand messages.Handedness) {
	player, ok := tags.OurPlayer.First(world)
	if !ok || !player.HasComponent(components.XRAvatarRig) {
		return
	}
	rig := components.XRAvatarRig.Get(player)

	switch hand {
	case messages.HandednessLeft:
		removeEntity(world, &rig.LeftControllerEntity)
		removeEntity(world, &rig.LeftNetworkedEntity)
		removeEntity(world, &rig.LeftRayNetworkedEntity)
	case messages.HandednessRight:
		removeEntity(world, &rig.RightControllerEntity)
		removeEntity(world, &rig.RightNetworkedEntity)
		removeEntity(world, &rig.RightRayNetworkedEntity)
	}
}

// removeEntity removes *e from the world if it is still alive and clears
// the reference.
func removeEntity(world donburi.World, e *donburi.Entity) {
	if *e != 0 && world.Valid(*e) {
		world.Remove(*e)
	}
	*e = 0
}
