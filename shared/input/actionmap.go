package input

import (
	"log"
	"math"

	"github.com/automoto/worldclient/shared/inputsource"
)

// controlRef is a binding path resolved once at enable time. Paths the
// registry does not know keep their string and read from RawState.Extra.
type controlRef struct {
	ctl   inputsource.Control
	extra string
}

func resolveRef(path string) controlRef {
	if c, ok := inputsource.ParseControl(path); ok {
		return controlRef{ctl: c}
	}
	return controlRef{extra: path}
}

type compiledBinding struct {
	def  *BindingDefinition
	refs [4]controlRef // Control: [0]; Axes: x, y; Directional: up, down, left, right
	n    int
}

type compiledAction struct {
	def      *ActionDefinition
	bindings []compiledBinding
}

type compiledMap struct {
	src     *ActionMap
	actions []compiledAction
}

// compileMap resolves every binding path of m. Malformed bindings are logged
// and left out, so they resolve as if absent and never stop the other
// actions from resolving.
func compileMap(m *ActionMap) *compiledMap {
	cm := &compiledMap{src: m, actions: make([]compiledAction, 0, len(m.Actions))}
	for i := range m.Actions {
		a := &m.Actions[i]
		if a.Type > Vector2 {
			log.Printf("[input] %s: action %q has unknown type %d, ignoring", m.ID, a.Path, a.Type)
			continue
		}
		ca := compiledAction{def: a}
		for j := range a.Bindings {
			b := &a.Bindings[j]
			if err := b.Validate(a.Type); err != nil {
				log.Printf("[input] %s: action %q binding %d ignored: %v", m.ID, a.Path, j, err)
				continue
			}
			cb := compiledBinding{def: b}
			switch b.Type {
			case BindControl:
				cb.refs[0], cb.n = resolveRef(b.Path), 1
			case BindAxes:
				cb.refs[0], cb.refs[1], cb.n = resolveRef(b.X), resolveRef(b.Y), 2
			case BindDirectionalButtons:
				cb.refs[0] = resolveRef(b.Up)
				cb.refs[1] = resolveRef(b.Down)
				cb.refs[2] = resolveRef(b.Left)
				cb.refs[3] = resolveRef(b.Right)
				cb.n = 4
			}
			ca.bindings = append(ca.bindings, cb)
		}
		cm.actions = append(cm.actions, ca)
	}
	return cm
}

// IsActionMapEnabled reports whether m is in c's active list.
func IsActionMapEnabled(c *Controller, m *ActionMap) bool {
	return indexOfMap(c, m) >= 0
}

func indexOfMap(c *Controller, m *ActionMap) int {
	for i, am := range c.ActionMaps {
		if am == m {
			return i
		}
	}
	return -1
}

// EnableActionMap appends m to c's active maps. Later maps take priority over
// earlier ones on shared controls. Enabling a map that is already enabled
// does nothing and keeps its position.
func EnableActionMap(c *Controller, m *ActionMap) {
	if m == nil || IsActionMapEnabled(c, m) {
		return
	}
	c.ActionMaps = append(c.ActionMaps, m)
	c.compiled = append(c.compiled, compileMap(m))

	for i := range m.Actions {
		a := &m.Actions[i]
		if a.Path == "" {
			continue
		}
		c.registerPath(a)
		if _, ok := c.ActionStates[a.Path]; !ok {
			c.ActionStates[a.Path] = &ActionState{Type: a.Type}
		}
	}
	c.rebuildOwnership()
}

// DisableActionMap removes m from c's active maps and resets the state of
// every action only it declared to neutral, so a held button cannot stay
// held. Actions another enabled map still declares keep their state and
// resolve from that map next tick. Network ids stay registered.
func DisableActionMap(c *Controller, m *ActionMap) {
	i := indexOfMap(c, m)
	if i < 0 {
		return
	}
	c.ActionMaps = append(c.ActionMaps[:i], c.ActionMaps[i+1:]...)
	c.compiled = append(c.compiled[:i], c.compiled[i+1:]...)

	for j := range m.Actions {
		path := m.Actions[j].Path
		if declaresPath(c.ActionMaps, path) {
			continue
		}
		if s, ok := c.ActionStates[path]; ok {
			s.reset()
		}
	}
	c.rebuildOwnership()
}

func declaresPath(maps []*ActionMap, path string) bool {
	for _, m := range maps {
		for j := range m.Actions {
			if m.Actions[j].Path == path {
				return true
			}
		}
	}
	return false
}

// rebuildOwnership records, for every bound control, the last enabled map
// binding it (1-based, 0 for none). A control read by an earlier map is
// treated as 0 when a later map owns it.
func (c *Controller) rebuildOwnership() {
	c.owner = [inputsource.ControlCount]uint16{}
	clear(c.ownerExtra)

	for mi, cm := range c.compiled {
		owner := uint16(mi + 1)
		for _, ca := range cm.actions {
			for _, cb := range ca.bindings {
				for _, ref := range cb.refs[:cb.n] {
					if ref.extra != "" {
						c.ownerExtra[ref.extra] = owner
					} else {
						c.owner[ref.ctl] = owner
					}
				}
			}
		}
	}
}

// read returns the raw value of ref as seen by the map at index mi.
func (c *Controller) read(ref controlRef, mi int) float32 {
	owner := uint16(mi + 1)
	if ref.extra != "" {
		if c.ownerExtra[ref.extra] != owner {
			return 0
		}
		return c.Raw.Extra[ref.extra]
	}
	if c.owner[ref.ctl] != owner {
		return 0
	}
	return c.Raw.Values[ref.ctl]
}

// ResolveActions recomputes every action of every enabled map from raw
// control state. Maps resolve in active-list order and actions in
// declaration order; when two maps declare the same action path the later
// map's result stands. Button edges compare against the previous tick.
func ResolveActions(c *Controller) {
	for _, s := range c.ActionStates {
		s.prevHeld = s.Held
	}

	for mi, cm := range c.compiled {
		for ai := range cm.actions {
			ca := &cm.actions[ai]
			s, ok := c.ActionStates[ca.def.Path]
			if !ok {
				s = &ActionState{}
				c.ActionStates[ca.def.Path] = s
			}
			s.Type = ca.def.Type
			c.resolveAction(s, ca, mi)
		}
	}
}

func (c *Controller) resolveAction(s *ActionState, ca *compiledAction, mi int) {
	switch ca.def.Type {
	case Button:
		var best float32
		for i := range ca.bindings {
			v := transformScalar(c.read(ca.bindings[i].refs[0], mi), ca.bindings[i].def)
			if abs32(v) > abs32(best) {
				best = v
			}
		}
		s.Value = best
		s.Vector = [2]float32{}
		s.Held = best != 0

	case Axis1D:
		var best float32
		for i := range ca.bindings {
			v := transformScalar(c.read(ca.bindings[i].refs[0], mi), ca.bindings[i].def)
			if abs32(v) > abs32(best) {
				best = v
			}
		}
		s.Value = best
		s.Vector = [2]float32{}
		s.Held = best != 0

	case Axis2D, Vector2:
		var best [2]float32
		var bestLen float32
		for i := range ca.bindings {
			v := c.bindingVector(&ca.bindings[i], mi)
			if l := length(v); l > bestLen {
				best, bestLen = v, l
			}
		}
		s.Vector = best
		s.Value = bestLen
		s.Held = bestLen != 0
	}

	s.Pressed = s.Held && !s.prevHeld
	s.Released = !s.Held && s.prevHeld
}

func (c *Controller) bindingVector(cb *compiledBinding, mi int) [2]float32 {
	var v [2]float32
	switch cb.def.Type {
	case BindAxes:
		v = [2]float32{c.read(cb.refs[0], mi), c.read(cb.refs[1], mi)}
	case BindDirectionalButtons:
		up := digital(c.read(cb.refs[0], mi))
		down := digital(c.read(cb.refs[1], mi))
		left := digital(c.read(cb.refs[2], mi))
		right := digital(c.read(cb.refs[3], mi))
		v = [2]float32{right - left, up - down}
	}
	return transformVector(v, cb.def)
}

// digital collapses a button's raw value to exactly 0 or 1.
func digital(v float32) float32 {
	if v != 0 {
		return 1
	}
	return 0
}

func transformScalar(v float32, b *BindingDefinition) float32 {
	if b.DeadZone > 0 && abs32(v) < b.DeadZone {
		return 0
	}
	if b.Scale != 0 {
		v *= b.Scale
	}
	if b.Invert {
		v = -v
	}
	if b.Clamp {
		v = max(-1, min(1, v))
	}
	return v
}

func transformVector(v [2]float32, b *BindingDefinition) [2]float32 {
	if b.DeadZone > 0 && length(v) < b.DeadZone {
		return [2]float32{}
	}
	if b.Scale != 0 {
		v[0] *= b.Scale
		v[1] *= b.Scale
	}
	if b.Invert {
		v[0] = -v[0]
	}
	if b.InvertY {
		v[1] = -v[1]
	}
	if b.Normalize {
		if l := length(v); l > 0 {
			v[0] /= l
			v[1] /= l
		}
	}
	if b.Clamp {
		if l := length(v); l > 1 {
			v[0] /= l
			v[1] /= l
		}
	}
	return v
}

func length(v [2]float32) float32 {
	return float32(math.Hypot(float64(v[0]), float64(v[1])))
}

func abs32(v float32) float32 {
	return float32(math.Abs(float64(v)))
}
