package systems

import (
	"github.com/automoto/worldclient/shared/input"
	"github.com/yohamta/donburi/ecs"
)

// NewInputSystem returns the ECS system that runs the per-tick input step:
// reset deltas, drain the live ring buffer into the active controller and
// resolve every controller's actions. It must run before any system that
// reads action state.
func NewInputSystem(m *input.Module, sys *input.System) func(*ecs.ECS) {
	return func(_ *ecs.ECS) {
		sys.Update(m, m.ActiveController)
	}
}

// GetAction returns the resolved state of an action on the active
// controller.
func GetAction(m *input.Module, path string) input.ActionState {
	return m.ActiveController.ActionState(path)
}
