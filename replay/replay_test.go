package replay

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/automoto/worldclient/shared/input"
	"github.com/automoto/worldclient/shared/inputsource"
	"github.com/automoto/worldclient/shared/ringbuffer"
	"github.com/hashicorp/go-msgpack/v2/codec"
)

type event func(rb *ringbuffer.RingBuffer)

func key(code string, down bool) event {
	return func(rb *ringbuffer.RingBuffer) {
		var b uint8
		if down {
			b = 1
		}
		rb.Enqueue(uint8(inputsource.SourceKeyboard), uint8(inputsource.ComponentKeyboardButton), b,
			0, 0, 0, 0, uint32(inputsource.CodeToKeyCode(code)))
	}
}

func move(dx, dy float32) event {
	return func(rb *ringbuffer.RingBuffer) {
		rb.Enqueue(uint8(inputsource.SourceMouse), uint8(inputsource.ComponentMouseMovement), 0,
			dx, dy, 100, 100, 0)
	}
}

func stick(x, y float32) event {
	return func(rb *ringbuffer.RingBuffer) {
		rb.Enqueue(uint8(inputsource.SourceGamepad), uint8(inputsource.ComponentGamepadAxes), 0,
			x, y, 0, 0, 0)
	}
}

// script is indexed by tick; empty ticks drain nothing.
var script = [][]event{
	{key("KeyW", true)},
	{move(3, -2), move(1, 1)},
	{},
	{key("Space", true), key("KeyD", true)},
	{key("Space", false)},
	{},
	{},
	{stick(0.1, 0.1)},
	{stick(0.9, -0.4), key("KeyW", false)},
	{move(-5, 0)},
	{key("KeyD", false), stick(0, 0)},
	{},
}

func newModule(t *testing.T) (*input.Module, *input.Controller) {
	t.Helper()
	rb, err := ringbuffer.New(64)
	if err != nil {
		t.Fatal(err)
	}
	m := input.NewModule(rb)
	input.EnableActionMap(m.DefaultController, input.PlayerActionMap)
	return m, m.DefaultController
}

func states(c *input.Controller) map[string]input.ActionState {
	out := make(map[string]input.ActionState, len(c.ActionStates))
	for path := range c.ActionStates {
		out[path] = c.ActionState(path)
	}
	return out
}

func TestReplayIsDeterministic(t *testing.T) {
	var buf bytes.Buffer
	rec, err := NewRecorder(&buf, 60)
	if err != nil {
		t.Fatal(err)
	}

	m, c := newModule(t)
	sys := input.System{OnDrain: func(tick uint64, records []ringbuffer.Record) {
		if err := rec.Record(tick, records); err != nil {
			t.Errorf("record tick %d: %v", tick, err)
		}
	}}

	var live []map[string]input.ActionState
	for _, events := range script {
		for _, ev := range events {
			ev(c.RingBuffer)
		}
		sys.Update(m, m.ActiveController)
		live = append(live, states(c))
	}
	if err := rec.Close(); err != nil {
		t.Fatal(err)
	}

	p, err := Load(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if p.Header().TickRate != 60 || p.Header().TableVersion != inputsource.TableVersion {
		t.Errorf("header = %+v", p.Header())
	}

	m2, c2 := newModule(t)
	var sys2 input.System
	for tick := range script {
		if dropped := p.Step(c2.RingBuffer); dropped != 0 {
			t.Fatalf("tick %d: %d records dropped", tick, dropped)
		}
		sys2.Update(m2, m2.ActiveController)

		got := states(c2)
		for path, want := range live[tick] {
			if got[path] != want {
				t.Errorf("tick %d %s: replay %+v, live %+v", tick, path, got[path], want)
			}
		}
	}
	if !p.Done() {
		t.Error("frames left after the last tick")
	}
}

func TestRecorderSkipsEmptyTicks(t *testing.T) {
	var buf bytes.Buffer
	rec, err := NewRecorder(&buf, 60)
	if err != nil {
		t.Fatal(err)
	}
	r := ringbuffer.Record{InputSourceID: uint8(inputsource.SourceKeyboard), ComponentID: uint8(inputsource.ComponentKeyboardButton), Button: 1, State: 1}

	for tick := uint64(10); tick < 70; tick++ {
		var batch []ringbuffer.Record
		if tick%2 == 0 {
			batch = []ringbuffer.Record{r}
		}
		if err := rec.Record(tick, batch); err != nil {
			t.Fatal(err)
		}
	}
	if err := rec.Close(); err != nil {
		t.Fatal(err)
	}

	p, err := Load(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if p.Frames() != 30 {
		t.Errorf("%d frames, want 30", p.Frames())
	}
	// Ticks 10 through 68 span 59 ticks at 60 Hz.
	if want := 59 * time.Second / 60; p.Duration() != want {
		t.Errorf("duration %v, want %v", p.Duration(), want)
	}
	if FormatDuration(p.Duration()) == "" {
		t.Error("empty formatted duration")
	}

	// Gaps are kept: the second frame lands on the third step.
	rb, err := ringbuffer.New(8)
	if err != nil {
		t.Fatal(err)
	}
	p.Step(rb)
	p.Step(rb)
	if rb.Len() != 1 {
		t.Fatalf("after two steps %d records queued, want 1", rb.Len())
	}
	p.Step(rb)
	if rb.Len() != 2 {
		t.Errorf("after three steps %d records queued, want 2", rb.Len())
	}

	p.Rewind()
	if p.Done() {
		t.Error("rewound player reports done")
	}
}

func TestLoadRejectsOtherVersions(t *testing.T) {
	tests := []struct {
		name   string
		header Header
		want   error
	}{
		{"format", Header{Version: FormatVersion + 1, TableVersion: inputsource.TableVersion}, ErrBadVersion},
		{"key table", Header{Version: FormatVersion, TableVersion: inputsource.TableVersion + 1}, ErrTableMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := codec.NewEncoder(&buf, &codec.MsgpackHandle{}).Encode(tt.header); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(&buf); !errors.Is(err, tt.want) {
				t.Errorf("Load error = %v, want %v", err, tt.want)
			}
		})
	}
}
