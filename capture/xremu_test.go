package capture

import (
	"testing"

	"github.com/automoto/worldclient/shared/inputsource"
	"github.com/automoto/worldclient/shared/messages"
	"github.com/hajimehoshi/ebiten/v2"
)

func TestXREmulatorAssignsHands(t *testing.T) {
	p, _ := newTestProducer(t, 16)
	x := NewXREmulator(make(chan messages.UpdateXRInputSources, 4))

	msg := x.assign(p, []ebiten.GamepadID{3, 5, 7})
	if len(msg.Added) != 2 || len(msg.Removed) != 0 {
		t.Fatalf("first pads: %+v", msg)
	}
	if msg.Added[0].Handedness != messages.HandednessLeft || msg.Added[1].Handedness != messages.HandednessRight {
		t.Errorf("hands assigned out of order: %+v", msg.Added)
	}
	if msg.Added[0].ID == msg.Added[1].ID {
		t.Error("sources share an id")
	}

	if msg := x.assign(p, []ebiten.GamepadID{3, 5, 7}); len(msg.Added)+len(msg.Removed) != 0 {
		t.Errorf("unchanged pads produced %+v", msg)
	}

	left := msg.Added[0].ID
	msg = x.assign(p, []ebiten.GamepadID{5, 7})
	if len(msg.Removed) != 1 || msg.Removed[0] != left {
		t.Fatalf("unplugging the left pad: %+v", msg)
	}
	if len(msg.Added) != 1 || msg.Added[0].Handedness != messages.HandednessLeft || msg.Added[0].ID == left {
		t.Errorf("spare pad should take the free hand with a new id: %+v", msg.Added)
	}
}

func TestXREmulatorReleasesUnpluggedHand(t *testing.T) {
	p, rb := newTestProducer(t, 16)
	x := NewXREmulator(make(chan messages.UpdateXRInputSources, 4))
	x.assign(p, []ebiten.GamepadID{1})

	x.hands[0].buttons[inputsource.XRTrigger] = 1
	x.hands[0].axes = [4]float64{0.5, 0, 0, 0}

	x.assign(p, nil)
	recs := drain(rb)
	if len(recs) != 2 {
		t.Fatalf("got %d release records without capture, want 2", len(recs))
	}
	r := recs[0]
	if inputsource.ComponentID(r.ComponentID) != inputsource.ComponentXRButton || r.Button != inputsource.HandLeft ||
		r.State != uint32(inputsource.XRTrigger) || r.X != 0 {
		t.Errorf("trigger release = %+v", r)
	}
	if inputsource.ComponentID(recs[1].ComponentID) != inputsource.ComponentXRAxes || recs[1].X != 0 {
		t.Errorf("axes release = %+v", recs[1])
	}
	if x.hands[0].sourceID != 0 {
		t.Error("hand still driven after unplug")
	}
}

func TestXRRecordsDecode(t *testing.T) {
	p, rb := newTestProducer(t, 16)
	p.SetCaptured(true)

	p.XRButton(inputsource.HandRight, inputsource.XRSqueeze, 0.75)
	p.XRAxes(inputsource.HandLeft, 0.25, -0.5, 0, 0)

	got := map[inputsource.Control]float32{}
	for _, r := range drain(rb) {
		inputsource.Decode(r, func(c inputsource.Control, v float32, _ bool) { got[c] = v })
	}
	if v := got[inputsource.XRControl(inputsource.HandRight, inputsource.XRSqueeze)]; v != 0.75 {
		t.Errorf("right squeeze = %v", v)
	}
	if v := got[inputsource.XRControl(inputsource.HandLeft, inputsource.XRThumbstickY)]; v != -0.5 {
		t.Errorf("left thumbstick y = %v", v)
	}
}

func TestXREmulatorQueueFull(t *testing.T) {
	updates := make(chan messages.UpdateXRInputSources, 1)
	x := NewXREmulator(updates)
	x.send(messages.UpdateXRInputSources{Removed: []uint32{1}})
	x.send(messages.UpdateXRInputSources{Removed: []uint32{2}})
	if got := <-updates; got.Removed[0] != 1 {
		t.Errorf("first message lost: %+v", got)
	}
}
