package input

import (
	"errors"
	"fmt"
)

// ActionType selects how an action's bindings resolve into a value.
type ActionType uint8

const (
	Button ActionType = iota
	Axis1D
	Axis2D
	Vector2
)

func (t ActionType) String() string {
	switch t {
	case Button:
		return "Button"
	case Axis1D:
		return "Axis1D"
	case Axis2D:
		return "Axis2D"
	case Vector2:
		return "Vector2"
	default:
		return fmt.Sprintf("ActionType(%d)", uint8(t))
	}
}

func (t ActionType) is2D() bool {
	return t == Axis2D || t == Vector2
}

// BindingType selects which control paths of a BindingDefinition are used.
type BindingType uint8

const (
	// BindControl reads one control from Path.
	BindControl BindingType = iota
	// BindAxes reads two analog controls from X and Y.
	BindAxes
	// BindDirectionalButtons is the four-button digital stick: Up, Down, Left
	// and Right each contribute exactly 0 or 1 to their axis.
	BindDirectionalButtons
)

// BindingDefinition ties an action to physical controls plus an optional
// transform. Transforms apply in order: dead-zone, scale, invert, normalize,
// clamp.
type BindingDefinition struct {
	Type BindingType `json:"type"`

	Path string `json:"path,omitempty"`

	X string `json:"x,omitempty"`
	Y string `json:"y,omitempty"`

	Up    string `json:"up,omitempty"`
	Down  string `json:"down,omitempty"`
	Left  string `json:"left,omitempty"`
	Right string `json:"right,omitempty"`

	// Scale multiplies the value; zero means 1.
	Scale float32 `json:"scale,omitempty"`
	// Invert negates the scalar value, or the x component of a 2D value.
	Invert bool `json:"invert,omitempty"`
	// InvertY negates the y component of a 2D value.
	InvertY bool `json:"invertY,omitempty"`
	// DeadZone zeroes values whose magnitude is below it. For 2D bindings the
	// test is radial.
	DeadZone float32 `json:"deadZone,omitempty"`
	// Clamp limits scalars to [-1, 1] and 2D vectors to unit length.
	Clamp bool `json:"clamp,omitempty"`
	// Normalize scales non-zero 2D values to unit length, so a diagonal on a
	// directional-button binding has magnitude 1 instead of √2.
	Normalize bool `json:"normalize,omitempty"`
}

// Control returns a single-control binding.
func Control(path string) BindingDefinition {
	return BindingDefinition{Type: BindControl, Path: path}
}

// Axes returns a two-axis binding.
func Axes(x, y string) BindingDefinition {
	return BindingDefinition{Type: BindAxes, X: x, Y: y}
}

// DirectionalButtons returns a four-button composite binding.
func DirectionalButtons(up, down, left, right string) BindingDefinition {
	return BindingDefinition{Type: BindDirectionalButtons, Up: up, Down: down, Left: left, Right: right}
}

// Validate reports why b cannot drive an action of type t.
func (b *BindingDefinition) Validate(t ActionType) error {
	switch b.Type {
	case BindControl:
		if b.Path == "" {
			return errors.New("control binding without path")
		}
		if t.is2D() {
			return fmt.Errorf("control binding %q on %s action", b.Path, t)
		}
	case BindAxes:
		if b.X == "" || b.Y == "" {
			return errors.New("axes binding needs both x and y")
		}
		if !t.is2D() {
			return fmt.Errorf("axes binding on %s action", t)
		}
	case BindDirectionalButtons:
		if b.Up == "" || b.Down == "" || b.Left == "" || b.Right == "" {
			return errors.New("directional binding needs up, down, left and right")
		}
		if !t.is2D() {
			return fmt.Errorf("directional binding on %s action", t)
		}
	default:
		return fmt.Errorf("unknown binding type %d", b.Type)
	}
	if b.DeadZone < 0 {
		return fmt.Errorf("negative dead-zone %v", b.DeadZone)
	}
	return nil
}

// ActionDefinition declares one logical action.
type ActionDefinition struct {
	Path     string              `json:"path"`
	Type     ActionType          `json:"type"`
	Bindings []BindingDefinition `json:"bindings"`
}

// ActionMap is a named, ordered set of actions. Maps are templates shared by
// reference between controllers; whether a map is enabled is tracked per
// controller, so a map must not be edited after it has been enabled anywhere.
// Use WithBindingOverrides to derive a rebound copy.
type ActionMap struct {
	ID      string             `json:"id"`
	Actions []ActionDefinition `json:"actions"`
}

// Validate checks every action and binding and joins all problems found.
func (m *ActionMap) Validate() error {
	var errs []error
	seen := make(map[string]bool, len(m.Actions))
	for i := range m.Actions {
		a := &m.Actions[i]
		if a.Path == "" {
			errs = append(errs, fmt.Errorf("%s: action %d has no path", m.ID, i))
			continue
		}
		if seen[a.Path] {
			errs = append(errs, fmt.Errorf("%s: duplicate action %q", m.ID, a.Path))
		}
		seen[a.Path] = true
		if a.Type > Vector2 {
			errs = append(errs, fmt.Errorf("%s: action %q: unknown type %d", m.ID, a.Path, a.Type))
			continue
		}
		for j := range a.Bindings {
			if err := a.Bindings[j].Validate(a.Type); err != nil {
				errs = append(errs, fmt.Errorf("%s: action %q binding %d: %w", m.ID, a.Path, j, err))
			}
		}
	}
	return errors.Join(errs...)
}

// WithBindingOverrides returns a copy of m in which every action named in
// overrides has its bindings replaced. Actions not named keep their bindings.
func (m *ActionMap) WithBindingOverrides(overrides map[string][]BindingDefinition) *ActionMap {
	out := &ActionMap{ID: m.ID, Actions: make([]ActionDefinition, len(m.Actions))}
	for i, a := range m.Actions {
		if b, ok := overrides[a.Path]; ok {
			a.Bindings = b
		}
		a.Bindings = append([]BindingDefinition(nil), a.Bindings...)
		out.Actions[i] = a
	}
	return out
}

// ActionState is the resolved value of one action for the current tick.
// Button and Axis1D actions use Value; Axis2D and Vector2 use Vector.
type ActionState struct {
	Type     ActionType
	Pressed  bool // became held this tick
	Released bool // stopped being held this tick
	Held     bool
	Value    float32
	Vector   [2]float32

	prevHeld bool
}

// reset returns s to the neutral value for its type.
func (s *ActionState) reset() {
	s.Pressed = false
	s.Released = false
	s.Held = false
	s.Value = 0
	s.Vector = [2]float32{}
	s.prevHeld = false
}
