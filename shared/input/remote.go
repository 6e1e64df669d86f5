package input

import (
	"slices"

	"github.com/automoto/worldclient/shared/messages"
)

// PathTable lists c's action ids in id order.
func PathTable(c *Controller) []messages.InputPathEntry {
	out := make([]messages.InputPathEntry, 0, len(c.IDToPath))
	for id, path := range c.IDToPath {
		e := messages.InputPathEntry{ID: id, Path: path}
		if def, ok := c.PathToDef[path]; ok {
			e.Type = uint8(def.Type)
		}
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b messages.InputPathEntry) int {
		return int(a.ID) - int(b.ID)
	})
	return out
}

// ApplyPathTable installs a peer's id numbering on a remote controller.
// Entries replace any previous mapping for the same id.
func ApplyPathTable(c *Controller, entries []messages.InputPathEntry) {
	for _, e := range entries {
		if old, ok := c.IDToPath[e.ID]; ok && old != e.Path {
			delete(c.PathToID, old)
		}
		c.IDToPath[e.ID] = e.Path
		c.PathToID[e.Path] = e.ID
		if _, ok := c.PathToDef[e.Path]; !ok {
			c.PathToDef[e.Path] = &ActionDefinition{Path: e.Path, Type: ActionType(e.Type)}
		}
		if _, ok := c.ActionStates[e.Path]; !ok {
			c.ActionStates[e.Path] = &ActionState{Type: ActionType(e.Type)}
		}
	}
}

// EncodeActions appends the wire form of every numbered action of c to dst,
// in id order.
func EncodeActions(c *Controller, dst []messages.ActionValue) []messages.ActionValue {
	start := len(dst)
	for path, id := range c.PathToID {
		s, ok := c.ActionStates[path]
		if !ok {
			continue
		}
		v := messages.ActionValue{ID: id, Held: s.Held}
		if s.Type.is2D() {
			v.X, v.Y = s.Vector[0], s.Vector[1]
		} else {
			v.X = s.Value
		}
		dst = append(dst, v)
	}
	slices.SortFunc(dst[start:], func(a, b messages.ActionValue) int {
		return int(a.ID) - int(b.ID)
	})
	return dst
}

// ApplyRemoteFrame overwrites c's action states with a peer's frame and
// derives Pressed/Released against the previously applied frame. Unknown ids
// are skipped and counted in the return value.
func ApplyRemoteFrame(c *Controller, actions []messages.ActionValue) (unknown int) {
	for _, v := range actions {
		path, ok := c.IDToPath[v.ID]
		if !ok {
			unknown++
			continue
		}
		s, ok := c.ActionStates[path]
		if !ok {
			s = &ActionState{}
			if def, ok := c.PathToDef[path]; ok {
				s.Type = def.Type
			}
			c.ActionStates[path] = s
		}
		s.prevHeld = s.Held
		s.Held = v.Held
		if s.Type.is2D() {
			s.Vector = [2]float32{v.X, v.Y}
			s.Value = length(s.Vector)
		} else {
			s.Value = v.X
			s.Vector = [2]float32{}
		}
		s.Pressed = s.Held && !s.prevHeld
		s.Released = !s.Held && s.prevHeld
	}
	return unknown
}
