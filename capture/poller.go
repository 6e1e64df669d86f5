package capture

import (
	"github.com/automoto/worldclient/shared/inputsource"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// wheelPixels converts ebiten wheel ticks to the pixel deltas a browser
// reports for one notch.
const wheelPixels = 100

var (
	// Platform key codes by ebiten key; empty for keys the registry does
	// not know, such as the modifier aliases.
	keyCodes [ebiten.KeyMax + 1]string

	// Standard gamepad buttons in ebiten's order, which is the W3C standard
	// layout order the registry uses.
	standardButtons [ebiten.StandardGamepadButtonMax + 1]ebiten.StandardGamepadButton
)

func init() {
	for k := ebiten.Key(0); k <= ebiten.KeyMax; k++ {
		if code := domCode(k); inputsource.CodeToKeyCode(code) != inputsource.KeyUnknown {
			keyCodes[k] = code
		}
	}
	for b := ebiten.StandardGamepadButton(0); b <= ebiten.StandardGamepadButtonMax; b++ {
		standardButtons[b] = b
	}
}

// domCode returns the platform key code name for an ebiten key. Ebiten
// names keys after the same codes except letters, which drop the "Key"
// prefix.
func domCode(k ebiten.Key) string {
	s := k.String()
	if len(s) == 1 && s[0] >= 'A' && s[0] <= 'Z' {
		return "Key" + s
	}
	return s
}

// Poller reads ebiten's input state once per frame and feeds the differences
// to a Producer. It must be called from ebiten's Update.
type Poller struct {
	p *Producer

	// CaptureOnClick grabs the cursor on a left click while uncaptured.
	CaptureOnClick bool

	// XR, when set, turns gamepads into emulated XR hands instead of
	// reading them as a gamepad.
	XR *XREmulator

	keys       []ebiten.Key
	gamepads   []ebiten.GamepadID
	lastX      int
	lastY      int
	havePos    bool
	buttons    uint32
	focused    bool
	padButtons [ebiten.StandardGamepadButtonMax + 1]float64
	padSticks  [2][2]float64
}

// NewPoller creates a poller feeding p.
func NewPoller(p *Producer) *Poller {
	return &Poller{p: p, CaptureOnClick: true, focused: true}
}

// Producer returns the producer the poller feeds.
func (pl *Poller) Producer() *Producer {
	return pl.p
}

// Poll translates this frame's input into records. width and height are the
// layout size used for normalized pointer coordinates.
func (pl *Poller) Poll(width, height int) {
	pl.pollFocus()
	pl.pollCapture()

	pl.keys = inpututil.AppendJustPressedKeys(pl.keys[:0])
	for _, k := range pl.keys {
		if code := keyCodes[k]; code != "" {
			pl.p.KeyDown(code)
		}
	}
	pl.keys = inpututil.AppendJustReleasedKeys(pl.keys[:0])
	for _, k := range pl.keys {
		if code := keyCodes[k]; code != "" {
			pl.p.KeyUp(code)
		}
	}

	pl.pollMouse(width, height)
	if pl.XR != nil {
		pl.XR.Poll(pl.p)
	} else {
		pl.pollGamepad()
	}
}

func (pl *Poller) pollFocus() {
	focused := ebiten.IsFocused()
	if pl.focused && !focused {
		pl.p.ResetAll()
		pl.buttons = 0
	}
	pl.focused = focused
}

func (pl *Poller) pollCapture() {
	captured := ebiten.CursorMode() == ebiten.CursorModeCaptured
	if !captured && pl.CaptureOnClick && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		ebiten.SetCursorMode(ebiten.CursorModeCaptured)
		captured = true
	}
	if captured && inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		ebiten.SetCursorMode(ebiten.CursorModeVisible)
		captured = false
	}
	if pl.p.Captured() && !captured {
		pl.buttons = 0
	}
	pl.p.SetCaptured(captured)
}

func (pl *Poller) pollMouse(width, height int) {
	var buttons uint32
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		buttons |= inputsource.MouseButtonLeft
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
		buttons |= inputsource.MouseButtonRight
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle) {
		buttons |= inputsource.MouseButtonMiddle
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButton3) {
		buttons |= inputsource.MouseButtonBack
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButton4) {
		buttons |= inputsource.MouseButtonForward
	}
	if buttons != pl.buttons {
		pl.buttons = buttons
		pl.p.MouseButtons(buttons)
	}

	x, y := ebiten.CursorPosition()
	if !pl.havePos {
		pl.lastX, pl.lastY, pl.havePos = x, y, true
	}
	if dx, dy := x-pl.lastX, y-pl.lastY; dx != 0 || dy != 0 {
		pl.p.MouseMove(float64(dx), float64(dy), float64(x), float64(y), float64(width), float64(height))
		pl.lastX, pl.lastY = x, y
	}

	if wx, wy := ebiten.Wheel(); wx != 0 || wy != 0 {
		pl.p.Wheel(-wx*wheelPixels, -wy*wheelPixels)
	}
}

// pollGamepad reads the first gamepad with a standard layout.
func (pl *Poller) pollGamepad() {
	pl.gamepads = ebiten.AppendGamepadIDs(pl.gamepads[:0])
	for _, id := range pl.gamepads {
		if !ebiten.IsStandardGamepadLayoutAvailable(id) {
			continue
		}
		for i, b := range standardButtons {
			v := ebiten.StandardGamepadButtonValue(id, b)
			if v != pl.padButtons[i] {
				pl.padButtons[i] = v
				pl.p.GamepadButton(i, v)
			}
		}
		pl.pollStick(0, ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal),
			ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical))
		pl.pollStick(1, ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickHorizontal),
			ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickVertical))
		return
	}
}

func (pl *Poller) pollStick(stick int, x, y float64) {
	if pl.padSticks[stick] == [2]float64{x, y} {
		return
	}
	pl.padSticks[stick] = [2]float64{x, y}
	pl.p.GamepadStick(stick, x, y)
}
