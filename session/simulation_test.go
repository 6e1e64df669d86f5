package session

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/automoto/worldclient/replay"
	"github.com/automoto/worldclient/shared/input"
	"github.com/automoto/worldclient/shared/inputsource"
	"github.com/automoto/worldclient/shared/messages"
	"github.com/automoto/worldclient/shared/ringbuffer"
	"github.com/automoto/worldclient/systems"
	"github.com/automoto/worldclient/tags"
	"github.com/leap-fish/necs/esync"
)

func newBootstrap(t *testing.T) messages.InitializeInputState {
	t.Helper()
	rb, err := ringbuffer.New(64)
	if err != nil {
		t.Fatal(err)
	}
	return messages.InitializeInputState{RingBuffer: rb, ScreenSpaceMouseCoords: &ringbuffer.ScreenCoords{}}
}

func pressSpace(rb *ringbuffer.RingBuffer) {
	rb.Enqueue(uint8(inputsource.SourceKeyboard), uint8(inputsource.ComponentKeyboardButton), 1,
		0, 0, 0, 0, uint32(inputsource.CodeToKeyCode("Space")))
}

func mapIDs(c *input.Controller) []string {
	var ids []string
	for _, m := range c.ActionMaps {
		ids = append(ids, m.ID)
	}
	return ids
}

func TestSetupCreatesActivePlayer(t *testing.T) {
	tests := []struct {
		name   string
		editor bool
		want   []string
	}{
		{"play", false, []string{"player", "ar"}},
		{"editor", true, []string{"player", "editor", "ar"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim := NewSimulation(Options{EditorMode: tt.editor})
			if err := sim.Setup(newBootstrap(t)); err != nil {
				t.Fatal(err)
			}
			m := sim.Input()
			c, err := input.GetInputController(m, sim.Player())
			if err != nil {
				t.Fatal(err)
			}
			if m.ActiveController != c {
				t.Error("player controller is not active")
			}
			if c.RingBuffer != m.DefaultController.RingBuffer {
				t.Error("active controller does not read the live ring buffer")
			}
			got := mapIDs(c)
			if len(got) != len(tt.want) {
				t.Fatalf("maps = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("maps = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestSetupErrors(t *testing.T) {
	sim := NewSimulation(Options{})
	if err := sim.Setup(messages.InitializeInputState{}); !errors.Is(err, ErrNoRingBuffer) {
		t.Errorf("missing ring buffer: %v", err)
	}
	if err := sim.Setup(newBootstrap(t)); err != nil {
		t.Fatal(err)
	}
	if err := sim.Setup(newBootstrap(t)); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second setup: %v", err)
	}
}

func TestDumpInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.dot")

	sim := NewSimulation(Options{})
	if err := sim.DumpInput(path); !errors.Is(err, ErrNotStarted) {
		t.Errorf("dump before setup: %v", err)
	}

	if err := sim.Setup(newBootstrap(t)); err != nil {
		t.Fatal(err)
	}
	if err := sim.DumpInput(path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "digraph") {
		t.Errorf("dump is not a graphviz graph: %.60q", data)
	}
}

func TestRunDrainsLiveInput(t *testing.T) {
	snaps := make(chan systems.InputSnapshot, 1)
	sim := NewSimulation(Options{TickRate: 200, Snapshots: snaps})
	boot := newBootstrap(t)
	initCh := make(chan messages.InitializeInputState, 1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sim.Run(ctx, initCh) }()

	initCh <- boot
	boot.ScreenSpaceMouseCoords.Store(0.5, -0.5)
	pressSpace(boot.RingBuffer)

	deadline := time.After(2 * time.Second)
	for held := false; !held; {
		select {
		case snap := <-snaps:
			for _, a := range snap.Actions {
				if a.Path == input.ActionJump && a.Held {
					held = true
					if snap.Pointer != [2]float32{0.5, -0.5} {
						t.Errorf("pointer = %v", snap.Pointer)
					}
				}
			}
		case <-deadline:
			t.Fatal("jump never reached the simulation")
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop")
	}
}

func TestRunStopsBeforeBootstrap(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewSimulation(Options{}).Run(ctx, make(chan messages.InitializeInputState))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run = %v, want context.Canceled", err)
	}

	sim := NewSimulation(Options{})
	sim.Stop()
	sim.Stop()
	if err := sim.Run(context.Background(), make(chan messages.InitializeInputState)); err != nil {
		t.Errorf("stopped Run = %v", err)
	}
}

// jumpRecording returns a recording that presses Space on its only frame.
func jumpRecording(t *testing.T) *replay.Player {
	t.Helper()
	var buf bytes.Buffer
	rec, err := replay.NewRecorder(&buf, 60)
	if err != nil {
		t.Fatal(err)
	}
	space := ringbuffer.Record{
		InputSourceID: uint8(inputsource.SourceKeyboard),
		ComponentID:   uint8(inputsource.ComponentKeyboardButton),
		Button:        1,
		State:         uint32(inputsource.CodeToKeyCode("Space")),
	}
	release := space
	release.Button = 0
	if err := rec.Record(3, []ringbuffer.Record{space}); err != nil {
		t.Fatal(err)
	}
	if err := rec.Record(4, []ringbuffer.Record{release}); err != nil {
		t.Fatal(err)
	}
	if err := rec.Close(); err != nil {
		t.Fatal(err)
	}
	p, err := replay.Load(&buf)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestReplayDrivesSession(t *testing.T) {
	p := jumpRecording(t)
	sim := NewSimulation(Options{Replay: p})
	if err := sim.Setup(newBootstrap(t)); err != nil {
		t.Fatal(err)
	}
	if !sim.World().Entry(sim.Player()).HasComponent(tags.Replay) {
		t.Error("player not tagged while replaying")
	}

	sim.Step()
	if !sim.Input().ActiveController.ActionState(input.ActionJump).Pressed {
		t.Error("replayed jump not pressed on first tick")
	}
	sim.Step()
	sim.Step()
	if !p.Done() {
		t.Error("replay should be finished")
	}
	if sim.World().Entry(sim.Player()).HasComponent(tags.Replay) {
		t.Error("replay tag kept after the recording ended")
	}
}

func TestLoopReplayRestarts(t *testing.T) {
	p := jumpRecording(t)
	sim := NewSimulation(Options{Replay: p, LoopReplay: true})
	if err := sim.Setup(newBootstrap(t)); err != nil {
		t.Fatal(err)
	}

	jump := func() input.ActionState {
		return sim.Input().ActiveController.ActionState(input.ActionJump)
	}
	sim.Step() // press
	sim.Step() // release
	if s := jump(); s.Held || !s.Released {
		t.Fatalf("after release: %+v", s)
	}
	sim.Step() // recording rewinds and presses again
	if !jump().Pressed {
		t.Error("looped replay did not press again")
	}
	if !sim.World().Entry(sim.Player()).HasComponent(tags.Replay) {
		t.Error("looping replay should keep the player tagged")
	}
}

func TestXRUpdatesReachModule(t *testing.T) {
	updates := make(chan messages.UpdateXRInputSources, 2)
	sim := NewSimulation(Options{XRUpdates: updates})
	if err := sim.Setup(newBootstrap(t)); err != nil {
		t.Fatal(err)
	}

	updates <- messages.UpdateXRInputSources{Added: []messages.XRInputSource{
		{ID: 1, Handedness: messages.HandednessLeft},
		{ID: 2, Handedness: messages.HandednessRight},
	}}
	sim.Step()
	if n := len(sim.Input().XRInputSources); n != 2 {
		t.Fatalf("%d xr sources after hot-plug, want 2", n)
	}

	updates <- messages.UpdateXRInputSources{Removed: []uint32{1}}
	sim.Step()
	if _, ok := sim.Input().XRInputSourcesByHand[messages.HandednessLeft]; ok {
		t.Error("left hand still connected")
	}
}

type fakeNetwork struct {
	sent []any
}

func (f *fakeNetwork) SendMessage(msg any) error {
	f.sent = append(f.sent, msg)
	return nil
}
func (f *fakeNetwork) Joined() bool                          { return true }
func (f *fakeNetwork) NetworkID() esync.NetworkId            { return 1 }
func (f *fakeNetwork) LatestSnapshot() *esync.WorldSnapshot  { return nil }
func (f *fakeNetwork) DrainPeerEvents() []messages.PeerEvent { return nil }

func TestSessionSendsInputWhenJoined(t *testing.T) {
	net := &fakeNetwork{}
	sim := NewSimulation(Options{Network: net})
	if err := sim.Setup(newBootstrap(t)); err != nil {
		t.Fatal(err)
	}
	sim.Step()

	if len(net.sent) != 2 {
		t.Fatalf("sent %d messages, want path table and frame", len(net.sent))
	}
	table, ok := net.sent[0].(messages.InputPathTable)
	if !ok {
		t.Fatalf("first message is %T", net.sent[0])
	}
	want := len(input.PlayerActionMap.Actions) + len(input.ARActionMap.Actions)
	if len(table.Entries) != want {
		t.Errorf("table has %d entries, want %d", len(table.Entries), want)
	}
	if _, ok := net.sent[1].(messages.InputFrame); !ok {
		t.Errorf("second message is %T", net.sent[1])
	}
	if sim.FrameHistory().NextSeq() != 2 {
		t.Errorf("frame history next seq = %d", sim.FrameHistory().NextSeq())
	}
}
