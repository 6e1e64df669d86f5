package core

import (
	"fmt"
	"log"
	"math"
	"os"
	"testing"

	"github.com/automoto/worldclient/shared/input"
	"github.com/automoto/worldclient/shared/inputsource"
	"github.com/automoto/worldclient/shared/messages"
	"github.com/automoto/worldclient/shared/netcomponents"
	"github.com/automoto/worldclient/shared/netconfig"
	"github.com/automoto/worldclient/shared/protocol"
)

func TestMain(m *testing.M) {
	if err := protocol.RegisterComponents(); err != nil {
		log.Fatalf("register components: %v", err)
	}
	os.Exit(m.Run())
}

type fakePeer struct {
	id   string
	sent []any
}

func (p *fakePeer) Id() string { return p.id }

func (p *fakePeer) SendMessage(msg any) error {
	p.sent = append(p.sent, msg)
	return nil
}

func newTestServer(cfg Config) *Server {
	if cfg.TickRate == 0 {
		cfg.TickRate = netconfig.DefaultTickRate
	}
	return NewServer(cfg)
}

func join(t *testing.T, s *Server, name string) *fakePeer {
	t.Helper()
	p := &fakePeer{id: name}
	s.handleJoin(p, messages.JoinRequest{
		Version:           s.cfg.Version,
		InputTableVersion: inputsource.TableVersion,
		PlayerName:        name,
	})
	if len(p.sent) == 0 {
		t.Fatalf("%s: no reply to join", name)
	}
	if _, ok := p.sent[0].(messages.JoinAccepted); !ok {
		t.Fatalf("%s: got %T, want JoinAccepted", name, p.sent[0])
	}
	return p
}

func TestJoinAccepted(t *testing.T) {
	s := newTestServer(Config{Name: "relay", Version: "1.0"})
	p := join(t, s, "ana")

	acc := p.sent[0].(messages.JoinAccepted)
	if acc.ServerName != "relay" || acc.Players != 1 {
		t.Errorf("accepted = %+v", acc)
	}
	if s.PlayerCount() != 1 {
		t.Errorf("PlayerCount = %d, want 1", s.PlayerCount())
	}

	entry := s.world.Entry(s.players[p].entity)
	if got := netcomponents.NetPlayerState.Get(entry).Name; got != "ana" {
		t.Errorf("name = %q", got)
	}

	// A second request from the same peer is ignored.
	s.handleJoin(p, messages.JoinRequest{Version: "1.0", InputTableVersion: inputsource.TableVersion})
	if len(p.sent) != 1 || s.PlayerCount() != 1 {
		t.Errorf("repeated join changed state: %d messages, %d players", len(p.sent), s.PlayerCount())
	}
}

func TestJoinRejected(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		req  messages.JoinRequest
	}{
		{
			name: "version",
			cfg:  Config{Version: "1.0"},
			req:  messages.JoinRequest{Version: "0.9", InputTableVersion: inputsource.TableVersion},
		},
		{
			name: "input table",
			cfg:  Config{},
			req:  messages.JoinRequest{InputTableVersion: inputsource.TableVersion + 1},
		},
		{
			name: "full",
			cfg:  Config{MaxPlayers: 1},
			req:  messages.JoinRequest{InputTableVersion: inputsource.TableVersion},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(tt.cfg)
			if tt.cfg.MaxPlayers > 0 {
				join(t, s, "first")
			}
			p := &fakePeer{id: "late"}
			s.handleJoin(p, tt.req)

			if len(p.sent) != 1 {
				t.Fatalf("got %d messages, want 1", len(p.sent))
			}
			if _, ok := p.sent[0].(messages.JoinRejected); !ok {
				t.Errorf("got %T, want JoinRejected", p.sent[0])
			}
			if _, ok := s.players[p]; ok {
				t.Error("rejected peer was added")
			}
		})
	}
}

func TestJoinNames(t *testing.T) {
	s := newTestServer(Config{})

	long := &fakePeer{id: "long"}
	s.handleJoin(long, messages.JoinRequest{
		InputTableVersion: inputsource.TableVersion,
		PlayerName:        "abcdefghijklmnopqrstuvwxyz0123456789",
	})
	if got := s.players[long].name; len(got) != netconfig.MaxNameLength {
		t.Errorf("long name = %q, want %d bytes", got, netconfig.MaxNameLength)
	}

	anon := &fakePeer{id: "anon"}
	s.handleJoin(anon, messages.JoinRequest{InputTableVersion: inputsource.TableVersion, PlayerName: "  "})
	if got := s.players[anon].name; got != "player-2" {
		t.Errorf("blank name = %q, want player-2", got)
	}
}

func TestPeerEvents(t *testing.T) {
	s := newTestServer(Config{})
	a := join(t, s, "a")
	b := join(t, s, "b")

	evt, ok := a.sent[len(a.sent)-1].(messages.PeerEvent)
	if !ok || !evt.Joined || evt.Name != "b" {
		t.Fatalf("a saw %+v, want b joining", a.sent[len(a.sent)-1])
	}
	if len(b.sent) != 1 {
		t.Errorf("joining peer got %d messages, want only its acceptance", len(b.sent))
	}

	entity := s.players[b].entity
	s.handleLeave(b)
	evt, ok = a.sent[len(a.sent)-1].(messages.PeerEvent)
	if !ok || evt.Joined || evt.Name != "b" {
		t.Errorf("a saw %+v, want b leaving", a.sent[len(a.sent)-1])
	}
	if s.world.Valid(entity) {
		t.Error("entity of departed player still exists")
	}
	if s.PlayerCount() != 1 {
		t.Errorf("PlayerCount = %d, want 1", s.PlayerCount())
	}

	// Leaving twice, or without joining, is harmless.
	s.handleLeave(b)
	s.handleLeave(&fakePeer{id: "stranger"})
}

func sendTable(s *Server, p Peer) {
	s.handlePathTable(p, messages.InputPathTable{Entries: []messages.InputPathEntry{
		{ID: 1, Path: input.ActionLook, Type: uint8(input.Axis2D)},
		{ID: 2, Path: input.ActionJump, Type: uint8(input.Button)},
	}})
}

func TestFramesUpdateReplicatedState(t *testing.T) {
	s := newTestServer(Config{})
	p := join(t, s, "a")
	sendTable(s, p)

	entry := s.world.Entry(s.players[p].entity)
	if got := len(netcomponents.NetInputPaths.Get(entry).Entries); got != 2 {
		t.Fatalf("replicated %d paths, want 2", got)
	}

	s.handleFrame(p, messages.InputFrame{Sequence: 3, Actions: []messages.ActionValue{
		{ID: 2, Held: true, X: 1},
		{ID: 9, Held: true},
	}})
	if !s.players[p].controller.ActionState(input.ActionJump).Held {
		t.Error("Jump not held after frame")
	}
	if s.players[p].unknown != 1 {
		t.Errorf("unknown = %d, want 1", s.players[p].unknown)
	}
	if got := netcomponents.NetPlayerState.Get(entry).LastSequence; got != 3 {
		t.Errorf("LastSequence = %d, want 3", got)
	}
	if got := len(netcomponents.NetActionState.Get(entry).Actions); got != 2 {
		t.Errorf("replicated %d actions, want 2", got)
	}

	// Older frames arrive late and are dropped.
	s.handleFrame(p, messages.InputFrame{Sequence: 2, Actions: []messages.ActionValue{{ID: 2}}})
	if !s.players[p].controller.ActionState(input.ActionJump).Held {
		t.Error("stale frame was applied")
	}
	if got := netcomponents.NetPlayerState.Get(entry).LastSequence; got != 3 {
		t.Errorf("LastSequence = %d after stale frame, want 3", got)
	}
}

func TestPathTableLimit(t *testing.T) {
	s := newTestServer(Config{})
	p := join(t, s, "a")

	entries := make([]messages.InputPathEntry, netconfig.MaxInputPaths+1)
	for i := range entries {
		entries[i] = messages.InputPathEntry{ID: uint16(i + 1), Path: fmt.Sprintf("Action%d", i)}
	}
	s.handlePathTable(p, messages.InputPathTable{Entries: entries})
	if got := len(s.players[p].controller.IDToPath); got != 0 {
		t.Errorf("oversized table registered %d ids", got)
	}

	s.handlePathTable(p, messages.InputPathTable{Entries: entries[:netconfig.MaxInputPaths]})
	if got := len(s.players[p].controller.IDToPath); got != netconfig.MaxInputPaths {
		t.Errorf("registered %d ids, want %d", got, netconfig.MaxInputPaths)
	}
}

func TestFrameRateLimit(t *testing.T) {
	s := newTestServer(Config{})
	p := join(t, s, "a")

	for seq := uint32(1); seq <= netconfig.FrameBurst+20; seq++ {
		s.handleFrame(p, messages.InputFrame{Sequence: seq})
	}
	if got := s.players[p].dropped; got < 10 {
		t.Errorf("dropped = %d, want at least 10", got)
	}
}

func TestLookTurnsAim(t *testing.T) {
	s := newTestServer(Config{})
	p := join(t, s, "a")
	sendTable(s, p)

	s.handleFrame(p, messages.InputFrame{Sequence: 1, Actions: []messages.ActionValue{
		{ID: 1, Held: true, X: 100, Y: -100000},
	}})
	s.updateAims()

	aim := netcomponents.NetAim.Get(s.world.Entry(s.players[p].entity))
	if want := 100 * netconfig.LookRadiansPerUnit; math.Abs(aim.Yaw-want) > 1e-6 {
		t.Errorf("Yaw = %v, want %v", aim.Yaw, want)
	}
	if aim.Pitch != netconfig.MaxPitch {
		t.Errorf("Pitch = %v, want clamped to %v", aim.Pitch, netconfig.MaxPitch)
	}
}

func TestCommandsRunOnProcess(t *testing.T) {
	s := newTestServer(Config{})
	ran := 0
	s.enqueue(func() { ran++ })
	s.enqueue(func() { ran++ })
	if ran != 0 {
		t.Fatal("command ran before ProcessCommands")
	}
	s.ProcessCommands()
	if ran != 2 {
		t.Errorf("ran = %d, want 2", ran)
	}
}

func TestWrapAngle(t *testing.T) {
	for _, a := range []float64{0, 1, -1, 3 * math.Pi, -3 * math.Pi, 7} {
		got := wrapAngle(a)
		if got < -math.Pi || got > math.Pi {
			t.Errorf("wrapAngle(%v) = %v, outside [-π, π]", a, got)
		}
		if math.Abs(math.Sin(got)-math.Sin(a)) > 1e-9 {
			t.Errorf("wrapAngle(%v) = %v changes direction", a, got)
		}
	}
}
