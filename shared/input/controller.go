package input

import (
	"github.com/automoto/worldclient/shared/inputsource"
	"github.com/automoto/worldclient/shared/ringbuffer"
)

// RawState holds the last known value of every physical control. Known
// controls live in a fixed array indexed by inputsource.Control; paths the
// registry does not know yet fall back to Extra.
type RawState struct {
	Values [inputsource.ControlCount]float32
	Extra  map[string]float32
}

// Get returns the value of a control path.
func (r *RawState) Get(path string) float32 {
	if c, ok := inputsource.ParseControl(path); ok {
		return r.Values[c]
	}
	return r.Extra[path]
}

// Set overwrites the value of a control path.
func (r *RawState) Set(path string, v float32) {
	if c, ok := inputsource.ParseControl(path); ok {
		r.Values[c] = v
		return
	}
	if r.Extra == nil {
		r.Extra = make(map[string]float32)
	}
	r.Extra[path] = v
}

// Controller is the per-entity input aggregate: a ring buffer handle, raw
// control state, the enabled action maps in priority order and the resolved
// action states. PathToID/IDToPath/PathToDef number every action path so
// action state can be sent to peers compactly.
type Controller struct {
	RingBuffer   *ringbuffer.RingBuffer
	Raw          RawState
	ActionMaps   []*ActionMap
	ActionStates map[string]*ActionState

	PathToID  map[string]uint16
	IDToPath  map[uint16]string
	PathToDef map[string]*ActionDefinition

	compiled   []*compiledMap
	owner      [inputsource.ControlCount]uint16
	ownerExtra map[string]uint16

	applyFn        inputsource.ApplyFunc
	unknownRecords uint64
}

// ControllerProps seeds a new controller. Nil fields get fresh values.
type ControllerProps struct {
	RingBuffer   *ringbuffer.RingBuffer
	ActionMaps   []*ActionMap
	ActionStates map[string]*ActionState
	PathToID     map[string]uint16
	PathToDef    map[string]*ActionDefinition
	IDToPath     map[uint16]string
}

// NewController creates a controller. Without a ring buffer in props a
// private buffer of ringbuffer.DefaultCapacity is allocated. Maps listed in
// props are enabled in order.
func NewController(props *ControllerProps) *Controller {
	if props == nil {
		props = &ControllerProps{}
	}

	c := &Controller{
		RingBuffer:   props.RingBuffer,
		ActionStates: props.ActionStates,
		PathToID:     props.PathToID,
		IDToPath:     props.IDToPath,
		PathToDef:    props.PathToDef,
		ownerExtra:   make(map[string]uint16),
	}
	if c.RingBuffer == nil {
		rb, err := ringbuffer.New(ringbuffer.DefaultCapacity)
		if err != nil {
			panic(err)
		}
		c.RingBuffer = rb
	}
	if c.ActionStates == nil {
		c.ActionStates = make(map[string]*ActionState)
	}
	if c.PathToID == nil {
		c.PathToID = make(map[string]uint16)
	}
	if c.IDToPath == nil {
		c.IDToPath = make(map[uint16]string)
	}
	if c.PathToDef == nil {
		c.PathToDef = make(map[string]*ActionDefinition)
	}
	c.applyFn = c.applyControl

	for _, m := range props.ActionMaps {
		EnableActionMap(c, m)
	}
	return c
}

// ActionState returns the resolved state of an action path. Unknown paths
// return a neutral state.
func (c *Controller) ActionState(path string) ActionState {
	if s, ok := c.ActionStates[path]; ok {
		return *s
	}
	if def, ok := c.PathToDef[path]; ok {
		return ActionState{Type: def.Type}
	}
	return ActionState{}
}

// UnknownRecords reports how many decoded values did not match a known
// control since the controller was created.
func (c *Controller) UnknownRecords() uint64 {
	return c.unknownRecords
}

// ApplyRecord decodes one ring buffer record into raw control state.
func (c *Controller) ApplyRecord(r ringbuffer.Record) {
	inputsource.Decode(r, c.applyFn)
}

func (c *Controller) applyControl(ctl inputsource.Control, v float32, delta bool) {
	if ctl == inputsource.ControlUnknown {
		c.unknownRecords++
		return
	}
	if delta {
		c.Raw.Values[ctl] += v
		return
	}
	c.Raw.Values[ctl] = v
}

// ResetDeltas zeroes the accumulating controls (mouse movement and scroll).
// It runs at the start of every tick, before the drain, so a delta from one
// tick never leaks into the next.
func (c *Controller) ResetDeltas() {
	for _, ctl := range inputsource.DeltaControls {
		c.Raw.Values[ctl] = 0
	}
}

// registerPath gives an action path a network id the first time it is seen.
// Ids start at 1 and never change for the controller's lifetime.
func (c *Controller) registerPath(def *ActionDefinition) {
	c.PathToDef[def.Path] = def
	if _, ok := c.PathToID[def.Path]; ok {
		return
	}
	id := uint16(len(c.PathToID) + 1)
	c.PathToID[def.Path] = id
	c.IDToPath[id] = def.Path
}
