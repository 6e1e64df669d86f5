// Package capture is the producer side of the input pipeline. It turns
// device events into ring buffer records on the window goroutine.
//
// A Producer is not safe for concurrent use: the ring buffer has exactly one
// writer, and that writer is whoever owns the Producer.
package capture

import (
	"log"
	"time"

	"github.com/automoto/worldclient/shared/inputsource"
	"github.com/automoto/worldclient/shared/ringbuffer"
	"golang.org/x/time/rate"
)

// Producer gates and encodes input events.
//
// Events are only enqueued while the pointer is captured (pointer lock or
// camera orbit) and no one holds a disable. With the editor loaded, mouse
// button records and the KeyF key pass through even without capture.
type Producer struct {
	rb     *ringbuffer.RingBuffer
	coords *ringbuffer.ScreenCoords

	captured     bool
	editorLoaded bool
	detached     bool

	lastKeyMap   map[inputsource.KeyCode]bool
	disableStack []int
	nextStackID  int

	warn    *rate.Limiter
	dropped uint64
}

// NewProducer creates a producer writing to rb. coords may be nil.
func NewProducer(rb *ringbuffer.RingBuffer, coords *ringbuffer.ScreenCoords) *Producer {
	return &Producer{
		rb:         rb,
		coords:     coords,
		lastKeyMap: make(map[inputsource.KeyCode]bool),
		warn:       rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// SetCaptured reports whether the window owns the pointer. Losing capture
// releases everything that is held.
func (p *Producer) SetCaptured(captured bool) {
	if p.captured && !captured {
		p.ResetAll()
	}
	p.captured = captured
}

// Captured reports the last value given to SetCaptured.
func (p *Producer) Captured() bool {
	return p.captured
}

// SetEditorLoaded toggles editor passthrough.
func (p *Producer) SetEditorLoaded(loaded bool) {
	p.editorLoaded = loaded
}

// PushDisable suppresses gated enqueues until the returned id is popped.
// Disables nest; input resumes when the stack is empty.
func (p *Producer) PushDisable() int {
	p.nextStackID++
	p.disableStack = append(p.disableStack, p.nextStackID)
	return p.nextStackID
}

// PopDisable removes a disable pushed earlier. Unknown ids are ignored.
func (p *Producer) PopDisable(id int) {
	for i, v := range p.disableStack {
		if v == id {
			p.disableStack = append(p.disableStack[:i], p.disableStack[i+1:]...)
			return
		}
	}
}

// Disabled reports whether any disable is held or the producer is detached.
func (p *Producer) Disabled() bool {
	return p.detached || len(p.disableStack) > 0
}

// Detach permanently cuts the producer off from its ring buffer. Nothing it
// does afterwards, ResetAll included, writes a record. Used when another
// writer (a replay) owns the buffer for the rest of the session.
func (p *Producer) Detach() {
	p.detached = true
}

// Detached reports whether Detach was called.
func (p *Producer) Detached() bool {
	return p.detached
}

// Dropped reports how many records were lost to a full ring buffer.
func (p *Producer) Dropped() uint64 {
	return p.dropped
}

func (p *Producer) passthrough(src inputsource.SourceID, comp inputsource.ComponentID, state uint32) bool {
	if !p.editorLoaded {
		return false
	}
	if src == inputsource.SourceMouse && comp == inputsource.ComponentMouseButtons {
		return true
	}
	return src == inputsource.SourceKeyboard && inputsource.KeyCode(state) == inputsource.CodeToKeyCode("KeyF")
}

// Enqueue writes a record if the gates allow it. It reports whether the
// record reached the ring buffer.
func (p *Producer) Enqueue(src inputsource.SourceID, comp inputsource.ComponentID, button uint8, x, y, z, w float32, state uint32) bool {
	if p.Disabled() {
		return false
	}
	if !p.captured && !p.passthrough(src, comp, state) {
		return false
	}
	return p.ForceEnqueue(src, comp, button, x, y, z, w, state)
}

// ForceEnqueue writes a record regardless of capture and disables. A full
// buffer drops the record with a rate limited warning; capture never blocks.
// A detached producer writes nothing.
func (p *Producer) ForceEnqueue(src inputsource.SourceID, comp inputsource.ComponentID, button uint8, x, y, z, w float32, state uint32) bool {
	if p.detached {
		return false
	}
	if p.rb.Enqueue(uint8(src), uint8(comp), button, x, y, z, w, state) {
		return true
	}
	p.dropped++
	if p.warn.Allow() {
		log.Printf("[capture] input ring buffer full, dropped %d records so far", p.dropped)
	}
	return false
}

// KeyDown records a key press by its platform code ("KeyW"). Auto-repeat
// presses of a key that is already down are ignored.
func (p *Producer) KeyDown(code string) {
	k := inputsource.CodeToKeyCode(code)
	if p.lastKeyMap[k] {
		return
	}
	p.lastKeyMap[k] = true
	p.Enqueue(inputsource.SourceKeyboard, inputsource.ComponentKeyboardButton, 1, 0, 0, 0, 0, uint32(k))
}

// KeyUp records a key release.
func (p *Producer) KeyUp(code string) {
	k := inputsource.CodeToKeyCode(code)
	p.lastKeyMap[k] = false
	p.Enqueue(inputsource.SourceKeyboard, inputsource.ComponentKeyboardButton, 0, 0, 0, 0, 0, uint32(k))
}

// MouseButtons records the full set of pressed mouse buttons.
func (p *Producer) MouseButtons(buttons uint32) {
	p.Enqueue(inputsource.SourceMouse, inputsource.ComponentMouseButtons, 0, 0, 0, 0, 0, buttons)
}

// MouseMove records pointer movement and publishes the pointer position in
// normalized device coordinates for the given view size.
func (p *Producer) MouseMove(dx, dy, clientX, clientY, width, height float64) {
	if p.coords != nil {
		p.coords.Store(ringbuffer.NDCX(clientX, width), ringbuffer.NDCY(clientY, height))
	}
	p.Enqueue(inputsource.SourceMouse, inputsource.ComponentMouseMovement, 0,
		float32(dx), float32(dy), float32(clientX), float32(clientY), 0)
}

// Wheel records a scroll delta. Positive dy scrolls down.
func (p *Producer) Wheel(dx, dy float64) {
	p.Enqueue(inputsource.SourceMouse, inputsource.ComponentMouseScroll, 0, float32(dx), float32(dy), 0, 0, 0)
}

// GamepadButton records a standard layout button value.
func (p *Producer) GamepadButton(index int, value float64) {
	p.Enqueue(inputsource.SourceGamepad, inputsource.ComponentGamepadButton, uint8(index), float32(value), 0, 0, 0, 0)
}

// GamepadStick records a stick position; stick 0 is left, 1 is right.
func (p *Producer) GamepadStick(stick int, x, y float64) {
	p.Enqueue(inputsource.SourceGamepad, inputsource.ComponentGamepadAxes, uint8(stick), float32(x), float32(y), 0, 0, 0)
}

// XRButton records an xr-standard button value on one hand.
func (p *Producer) XRButton(hand uint8, button inputsource.Control, value float64) {
	p.Enqueue(inputsource.SourceXRController, inputsource.ComponentXRButton, hand, float32(value), 0, 0, 0, uint32(button))
}

// XRAxes records thumbstick and touchpad positions on one hand.
func (p *Producer) XRAxes(hand uint8, thumbX, thumbY, padX, padY float64) {
	p.Enqueue(inputsource.SourceXRController, inputsource.ComponentXRAxes, hand,
		float32(thumbX), float32(thumbY), float32(padX), float32(padY), 0)
}

// ResetAll releases every held key and zeroes mouse movement, buttons and
// scroll. It ignores the gates so the simulation never sees a stuck key
// after focus or pointer capture is lost.
func (p *Producer) ResetAll() {
	for k, down := range p.lastKeyMap {
		if !down {
			continue
		}
		p.ForceEnqueue(inputsource.SourceKeyboard, inputsource.ComponentKeyboardButton, 0, 0, 0, 0, 0, uint32(k))
		p.lastKeyMap[k] = false
	}
	p.ForceEnqueue(inputsource.SourceMouse, inputsource.ComponentMouseMovement, 0, 0, 0, 0, 0, 0)
	p.ForceEnqueue(inputsource.SourceMouse, inputsource.ComponentMouseButtons, 0, 0, 0, 0, 0, 0)
	p.ForceEnqueue(inputsource.SourceMouse, inputsource.ComponentMouseScroll, 0, 0, 0, 0, 0, 0)
}
