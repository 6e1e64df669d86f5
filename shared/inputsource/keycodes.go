package inputsource

// KeyCode is the compact integer form of a physical keyboard code.
// KeyUnknown stands in for any code missing from the table.
type KeyCode uint32

const KeyUnknown KeyCode = 0

// keyCodeTable maps KeyCode (the index) to the platform code string. Codes
// follow the UI Events KeyboardEvent.code names. Append only.
var keyCodeTable = [...]string{
	"",
	"KeyA", "KeyB", "KeyC", "KeyD", "KeyE", "KeyF", "KeyG", "KeyH", "KeyI",
	"KeyJ", "KeyK", "KeyL", "KeyM", "KeyN", "KeyO", "KeyP", "KeyQ", "KeyR",
	"KeyS", "KeyT", "KeyU", "KeyV", "KeyW", "KeyX", "KeyY", "KeyZ",
	"Digit0", "Digit1", "Digit2", "Digit3", "Digit4",
	"Digit5", "Digit6", "Digit7", "Digit8", "Digit9",
	"F1", "F2", "F3", "F4", "F5", "F6", "F7", "F8", "F9", "F10", "F11", "F12",
	"Escape", "Backquote", "Minus", "Equal", "Backspace", "Tab",
	"BracketLeft", "BracketRight", "Backslash", "CapsLock", "Semicolon",
	"Quote", "Enter", "ShiftLeft", "ShiftRight", "ControlLeft", "ControlRight",
	"AltLeft", "AltRight", "MetaLeft", "MetaRight", "Space", "Comma",
	"Period", "Slash", "ContextMenu",
	"ArrowUp", "ArrowDown", "ArrowLeft", "ArrowRight",
	"Insert", "Delete", "Home", "End", "PageUp", "PageDown",
	"PrintScreen", "ScrollLock", "Pause", "NumLock",
	"Numpad0", "Numpad1", "Numpad2", "Numpad3", "Numpad4",
	"Numpad5", "Numpad6", "Numpad7", "Numpad8", "Numpad9",
	"NumpadAdd", "NumpadSubtract", "NumpadMultiply", "NumpadDivide",
	"NumpadDecimal", "NumpadEnter", "NumpadEqual", "IntlBackslash",
}

// KeyCodeCount is the number of entries in the key-code table, KeyUnknown
// included.
const KeyCodeCount = len(keyCodeTable)

var codeToKeyCode = make(map[string]KeyCode, KeyCodeCount)

func init() {
	for i, code := range keyCodeTable {
		if i == 0 {
			continue
		}
		codeToKeyCode[code] = KeyCode(i)
	}
}

// CodeToKeyCode returns the key code for a platform code such as "KeyW".
// Unrecognized codes map to KeyUnknown so capture never fails on odd keys.
func CodeToKeyCode(code string) KeyCode {
	return codeToKeyCode[code]
}

// Code returns the platform code string, or "" for KeyUnknown and values
// outside the table.
func (k KeyCode) Code() string {
	if int(k) >= KeyCodeCount {
		return ""
	}
	return keyCodeTable[k]
}
