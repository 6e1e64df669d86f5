package input

// Action paths of the built-in maps.
const (
	ActionMove     = "Move"
	ActionLook     = "Look"
	ActionJump     = "Jump"
	ActionSprint   = "Sprint"
	ActionCrouch   = "Crouch"
	ActionInteract = "Interact"
	ActionGrab     = "Grab"
	ActionZoom     = "Zoom"
	ActionMenu     = "Menu"

	ActionFocus  = "Editor/Focus"
	ActionSelect = "Editor/Select"

	ActionLeftTrigger   = "XR/LeftTrigger"
	ActionRightTrigger  = "XR/RightTrigger"
	ActionLeftSqueeze   = "XR/LeftSqueeze"
	ActionRightSqueeze  = "XR/RightSqueeze"
	ActionXRMove        = "XR/Move"
	ActionXRTurn        = "XR/Turn"
	ActionPrimaryButton = "XR/PrimaryButton"
)

// PlayerActionMap covers first-person movement for keyboard, mouse and
// gamepad.
var PlayerActionMap = &ActionMap{
	ID: "player",
	Actions: []ActionDefinition{
		{
			Path: ActionMove,
			Type: Vector2,
			Bindings: []BindingDefinition{
				DirectionalButtons("Keyboard/KeyW", "Keyboard/KeyS", "Keyboard/KeyA", "Keyboard/KeyD"),
				DirectionalButtons("Keyboard/ArrowUp", "Keyboard/ArrowDown", "Keyboard/ArrowLeft", "Keyboard/ArrowRight"),
				{Type: BindAxes, X: "Gamepad/LeftStickX", Y: "Gamepad/LeftStickY", InvertY: true, DeadZone: 0.25, Clamp: true},
			},
		},
		{
			Path: ActionLook,
			Type: Axis2D,
			Bindings: []BindingDefinition{
				Axes("Mouse/movementX", "Mouse/movementY"),
				{Type: BindAxes, X: "Gamepad/RightStickX", Y: "Gamepad/RightStickY", Scale: 10, DeadZone: 0.15},
			},
		},
		{
			Path: ActionJump,
			Type: Button,
			Bindings: []BindingDefinition{
				Control("Keyboard/Space"),
				Control("Gamepad/South"),
			},
		},
		{
			Path: ActionSprint,
			Type: Button,
			Bindings: []BindingDefinition{
				Control("Keyboard/ShiftLeft"),
				Control("Gamepad/LeftStickPress"),
			},
		},
		{
			Path: ActionCrouch,
			Type: Button,
			Bindings: []BindingDefinition{
				Control("Keyboard/KeyC"),
				Control("Gamepad/East"),
			},
		},
		{
			Path: ActionInteract,
			Type: Button,
			Bindings: []BindingDefinition{
				Control("Mouse/Left"),
				Control("Keyboard/KeyE"),
				{Type: BindControl, Path: "Gamepad/RightTrigger", DeadZone: 0.5},
			},
		},
		{
			Path: ActionGrab,
			Type: Button,
			Bindings: []BindingDefinition{
				Control("Mouse/Right"),
				Control("Gamepad/RightShoulder"),
			},
		},
		{
			Path: ActionZoom,
			Type: Axis1D,
			Bindings: []BindingDefinition{
				Control("Mouse/Scroll"),
			},
		},
		{
			Path: ActionMenu,
			Type: Button,
			Bindings: []BindingDefinition{
				Control("Keyboard/Escape"),
				Control("Gamepad/Start"),
			},
		},
	},
}

// EditorActionMap is enabled on top of PlayerActionMap while the world
// editor is open, so its bindings take priority.
var EditorActionMap = &ActionMap{
	ID: "editor",
	Actions: []ActionDefinition{
		{Path: ActionFocus, Type: Button, Bindings: []BindingDefinition{Control("Keyboard/KeyF")}},
		{Path: ActionSelect, Type: Button, Bindings: []BindingDefinition{Control("Mouse/Left")}},
	},
}

// ARActionMap drives XR controllers.
var ARActionMap = &ActionMap{
	ID: "ar",
	Actions: []ActionDefinition{
		{Path: ActionLeftTrigger, Type: Button, Bindings: []BindingDefinition{{Type: BindControl, Path: "XR/left/Trigger", DeadZone: 0.1}}},
		{Path: ActionRightTrigger, Type: Button, Bindings: []BindingDefinition{{Type: BindControl, Path: "XR/right/Trigger", DeadZone: 0.1}}},
		{Path: ActionLeftSqueeze, Type: Button, Bindings: []BindingDefinition{{Type: BindControl, Path: "XR/left/Squeeze", DeadZone: 0.1}}},
		{Path: ActionRightSqueeze, Type: Button, Bindings: []BindingDefinition{{Type: BindControl, Path: "XR/right/Squeeze", DeadZone: 0.1}}},
		{
			Path:     ActionXRMove,
			Type:     Vector2,
			Bindings: []BindingDefinition{{Type: BindAxes, X: "XR/left/ThumbstickX", Y: "XR/left/ThumbstickY", InvertY: true, DeadZone: 0.1, Clamp: true}},
		},
		{
			Path:     ActionXRTurn,
			Type:     Axis2D,
			Bindings: []BindingDefinition{{Type: BindAxes, X: "XR/right/ThumbstickX", Y: "XR/right/ThumbstickY", DeadZone: 0.1}},
		},
		{
			Path: ActionPrimaryButton,
			Type: Button,
			Bindings: []BindingDefinition{
				Control("XR/left/ButtonPrimary"),
				Control("XR/right/ButtonPrimary"),
			},
		},
	},
}
