package input

import (
	"errors"
	"fmt"

	"github.com/automoto/worldclient/shared/messages"
	"github.com/automoto/worldclient/shared/ringbuffer"
	"github.com/yohamta/donburi"
)

// ErrControllerNotFound is returned when an entity has no input controller.
var ErrControllerNotFound = errors.New("input controller not found")

// InputControllerTag marks entities that own a controller in a Module.
var InputControllerTag = donburi.NewTag().SetName("InputController")

// Module is the simulation-side input registry: every controller by entity,
// the default controller fed by the live ring buffer, the controller that
// currently consumes live input, and the connected XR sources.
type Module struct {
	Controllers       map[donburi.Entity]*Controller
	DefaultController *Controller
	ActiveController  *Controller

	XRInputSources       map[uint32]messages.XRInputSource
	XRInputSourcesByHand map[messages.Handedness]messages.XRInputSource
	XRPrimaryHand        messages.Handedness
}

// NewModule creates a module whose default controller reads rb. The default
// controller starts out active.
func NewModule(rb *ringbuffer.RingBuffer) *Module {
	def := NewController(&ControllerProps{RingBuffer: rb})
	return &Module{
		Controllers:          make(map[donburi.Entity]*Controller),
		DefaultController:    def,
		ActiveController:     def,
		XRInputSources:       make(map[uint32]messages.XRInputSource),
		XRInputSourcesByHand: make(map[messages.Handedness]messages.XRInputSource),
		XRPrimaryHand:        messages.HandednessRight,
	}
}

// AddInputController attaches c to entity e. A nil c creates a controller
// that shares the default controller's ring buffer.
func AddInputController(world donburi.World, m *Module, c *Controller, e donburi.Entity) *Controller {
	if c == nil {
		c = NewController(&ControllerProps{RingBuffer: m.DefaultController.RingBuffer})
	}
	if world.Valid(e) {
		entry := world.Entry(e)
		if !entry.HasComponent(InputControllerTag) {
			entry.AddComponent(InputControllerTag)
		}
	}
	m.Controllers[e] = c
	return c
}

// RemoveInputController detaches e's controller. If it was active, the
// default controller takes over live input.
func RemoveInputController(world donburi.World, m *Module, e donburi.Entity) {
	c, ok := m.Controllers[e]
	if !ok {
		return
	}
	delete(m.Controllers, e)
	if world.Valid(e) {
		entry := world.Entry(e)
		if entry.HasComponent(InputControllerTag) {
			entry.RemoveComponent(InputControllerTag)
		}
	}
	if m.ActiveController == c {
		m.ActiveController = m.DefaultController
	}
}

// GetInputController returns e's controller or ErrControllerNotFound.
func GetInputController(m *Module, e donburi.Entity) (*Controller, error) {
	c, ok := m.Controllers[e]
	if !ok {
		return nil, fmt.Errorf("entity %v: %w", e, ErrControllerNotFound)
	}
	return c, nil
}

// SetActiveInputController makes e's controller the one that drains live
// input, pointing it at the live ring buffer. An entity without a controller
// gets a new one that starts with the default controller's enabled maps.
func SetActiveInputController(world donburi.World, m *Module, e donburi.Entity) *Controller {
	c, ok := m.Controllers[e]
	if !ok {
		c = NewController(&ControllerProps{
			RingBuffer: m.DefaultController.RingBuffer,
			ActionMaps: append([]*ActionMap(nil), m.DefaultController.ActionMaps...),
		})
		AddInputController(world, m, c, e)
	}
	c.RingBuffer = m.DefaultController.RingBuffer
	m.ActiveController = c
	return c
}

// ForEachController calls fn for every distinct controller the module knows,
// the default controller first.
func (m *Module) ForEachController(fn func(*Controller)) {
	fn(m.DefaultController)
	for _, c := range m.Controllers {
		if c != m.DefaultController {
			fn(c)
		}
	}
	if m.ActiveController != nil && m.ActiveController != m.DefaultController && !m.hasController(m.ActiveController) {
		fn(m.ActiveController)
	}
}

func (m *Module) knows(c *Controller) bool {
	return c == m.DefaultController || c == m.ActiveController || m.hasController(c)
}

func (m *Module) hasController(c *Controller) bool {
	for _, rc := range m.Controllers {
		if rc == c {
			return true
		}
	}
	return false
}

// UpdateXRInputSources applies a hot-plug message to the XR source tables
// and returns the hands whose source went away.
func (m *Module) UpdateXRInputSources(msg messages.UpdateXRInputSources) []messages.Handedness {
	var removedHands []messages.Handedness
	for _, id := range msg.Removed {
		src, ok := m.XRInputSources[id]
		if !ok {
			continue
		}
		delete(m.XRInputSources, id)
		if cur, ok := m.XRInputSourcesByHand[src.Handedness]; ok && cur.ID == id {
			delete(m.XRInputSourcesByHand, src.Handedness)
			removedHands = append(removedHands, src.Handedness)
		}
	}
	for _, src := range msg.Added {
		m.XRInputSources[src.ID] = src
		m.XRInputSourcesByHand[src.Handedness] = src
	}
	return removedHands
}
