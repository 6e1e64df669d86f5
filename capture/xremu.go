package capture

import (
	"log"

	"github.com/automoto/worldclient/shared/inputsource"
	"github.com/automoto/worldclient/shared/messages"
	"github.com/hajimehoshi/ebiten/v2"
)

// xrProfiles is reported for every emulated controller.
var xrProfiles = []string{"generic-trigger-squeeze-thumbstick"}

// Standard gamepad buttons standing in for each xr-standard button.
var xrButtons = [inputsource.XRButtonCount]ebiten.StandardGamepadButton{
	inputsource.XRTrigger:         ebiten.StandardGamepadButtonFrontBottomRight,
	inputsource.XRSqueeze:         ebiten.StandardGamepadButtonFrontTopRight,
	inputsource.XRTouchpad:        ebiten.StandardGamepadButtonRightStick,
	inputsource.XRThumbstick:      ebiten.StandardGamepadButtonLeftStick,
	inputsource.XRButtonPrimary:   ebiten.StandardGamepadButtonRightBottom,
	inputsource.XRButtonSecondary: ebiten.StandardGamepadButtonRightRight,
}

type emulatedHand struct {
	pad      ebiten.GamepadID
	sourceID uint32 // 0 while no pad drives the hand
	buttons  [inputsource.XRButtonCount]float64
	axes     [4]float64
}

// XREmulator drives the XR controller path from ordinary gamepads so it
// can be used without a headset. The first standard gamepad becomes the
// left hand and the second the right; further pads are ignored. Connecting
// or unplugging a pad is reported as an XR hot-plug message.
type XREmulator struct {
	updates chan<- messages.UpdateXRInputSources
	hands   [2]emulatedHand
	nextID  uint32
	ids     []ebiten.GamepadID
}

// NewXREmulator creates an emulator that sends hot-plug messages on updates.
func NewXREmulator(updates chan<- messages.UpdateXRInputSources) *XREmulator {
	return &XREmulator{updates: updates}
}

func handedness(i int) (uint8, messages.Handedness) {
	if i == 0 {
		return inputsource.HandLeft, messages.HandednessLeft
	}
	return inputsource.HandRight, messages.HandednessRight
}

// assign matches hands to the connected pads and returns the hot-plug
// message describing the change. A hand whose pad went away is released
// through p first.
func (x *XREmulator) assign(p *Producer, pads []ebiten.GamepadID) (msg messages.UpdateXRInputSources) {
	for i := range x.hands {
		h := &x.hands[i]
		if h.sourceID == 0 || containsPad(pads, h.pad) {
			continue
		}
		msg.Removed = append(msg.Removed, h.sourceID)
		x.release(p, i)
		h.sourceID = 0
	}

	for _, id := range pads {
		if x.holds(id) {
			continue
		}
		i := x.freeHand()
		if i < 0 {
			break
		}
		x.nextID++
		_, hand := handedness(i)
		x.hands[i] = emulatedHand{pad: id, sourceID: x.nextID}
		msg.Added = append(msg.Added, messages.XRInputSource{
			ID:            x.nextID,
			Handedness:    hand,
			TargetRayMode: "tracked-pointer",
			Profiles:      xrProfiles,
		})
	}
	return msg
}

func (x *XREmulator) holds(id ebiten.GamepadID) bool {
	for i := range x.hands {
		if x.hands[i].sourceID != 0 && x.hands[i].pad == id {
			return true
		}
	}
	return false
}

func (x *XREmulator) freeHand() int {
	for i := range x.hands {
		if x.hands[i].sourceID == 0 {
			return i
		}
	}
	return -1
}

func containsPad(pads []ebiten.GamepadID, id ebiten.GamepadID) bool {
	for _, p := range pads {
		if p == id {
			return true
		}
	}
	return false
}

// Poll reports hot-plug changes and feeds every driven hand to p.
func (x *XREmulator) Poll(p *Producer) {
	x.ids = ebiten.AppendGamepadIDs(x.ids[:0])
	n := 0
	for _, id := range x.ids {
		if ebiten.IsStandardGamepadLayoutAvailable(id) {
			x.ids[n] = id
			n++
		}
	}

	if msg := x.assign(p, x.ids[:n]); len(msg.Added) > 0 || len(msg.Removed) > 0 {
		x.send(msg)
	}

	for i := range x.hands {
		if x.hands[i].sourceID != 0 {
			x.pollHand(p, i)
		}
	}
}

func (x *XREmulator) pollHand(p *Producer, i int) {
	h := &x.hands[i]
	hand, _ := handedness(i)
	for b, sb := range xrButtons {
		v := ebiten.StandardGamepadButtonValue(h.pad, sb)
		if v != h.buttons[b] {
			h.buttons[b] = v
			p.XRButton(hand, inputsource.Control(b), v)
		}
	}
	axes := [4]float64{
		ebiten.StandardGamepadAxisValue(h.pad, ebiten.StandardGamepadAxisLeftStickHorizontal),
		ebiten.StandardGamepadAxisValue(h.pad, ebiten.StandardGamepadAxisLeftStickVertical),
		ebiten.StandardGamepadAxisValue(h.pad, ebiten.StandardGamepadAxisRightStickHorizontal),
		ebiten.StandardGamepadAxisValue(h.pad, ebiten.StandardGamepadAxisRightStickVertical),
	}
	if axes != h.axes {
		h.axes = axes
		p.XRAxes(hand, axes[0], axes[1], axes[2], axes[3])
	}
}

// release zeroes whatever an unplugged hand still held. Like ResetAll it
// ignores the capture gate.
func (x *XREmulator) release(p *Producer, i int) {
	h := &x.hands[i]
	hand, _ := handedness(i)
	for b, v := range h.buttons {
		if v != 0 {
			p.ForceEnqueue(inputsource.SourceXRController, inputsource.ComponentXRButton, hand, 0, 0, 0, 0, uint32(b))
		}
	}
	if h.axes != [4]float64{} {
		p.ForceEnqueue(inputsource.SourceXRController, inputsource.ComponentXRAxes, hand, 0, 0, 0, 0, 0)
	}
	h.buttons = [inputsource.XRButtonCount]float64{}
	h.axes = [4]float64{}
}

func (x *XREmulator) send(msg messages.UpdateXRInputSources) {
	select {
	case x.updates <- msg:
	default:
		log.Printf("[capture] xr update queue full, dropped +%d -%d", len(msg.Added), len(msg.Removed))
	}
}
