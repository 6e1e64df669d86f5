package systems

import (
	"slices"
	"strings"
	"time"

	"github.com/automoto/worldclient/components"
	"github.com/automoto/worldclient/network"
	"github.com/automoto/worldclient/shared/input"
	"github.com/automoto/worldclient/shared/ringbuffer"
	"github.com/automoto/worldclient/tags"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// ActionSnapshot is a copy of one resolved action.
type ActionSnapshot struct {
	Path   string
	Type   input.ActionType
	Held   bool
	Value  float32
	Vector [2]float32
}

// PeerSnapshot is a copy of one player's replicated input.
type PeerSnapshot struct {
	Name       string
	IsLocal    bool
	Held       string // held action paths joined by spaces
	Yaw, Pitch float64
}

// InputSnapshot is what the render thread sees of the simulation's input
// state. It owns all of its slices.
type InputSnapshot struct {
	Tick       uint64
	Actions    []ActionSnapshot
	Peers      []PeerSnapshot
	Unknown    uint64
	Buffered   int
	XRSources  int
	EnabledMap []string
	Pointer    [2]float32 // latest pointer position in NDC
	Replaying  bool       // the local player is driven by a recording

	RTT     time.Duration
	Unacked int
}

// NewSnapshotSystem returns a system that publishes an InputSnapshot of the
// active controller after every tick. out should be size-1 buffered; a
// snapshot the reader has not taken yet is replaced by the newer one.
// coords and frames may be nil.
func NewSnapshotSystem(m *input.Module, sys *input.System, coords *ringbuffer.ScreenCoords, frames *network.FrameHistory, out chan InputSnapshot) func(*ecs.ECS) {
	return func(e *ecs.ECS) {
		snap := TakeSnapshot(m, sys.Tick())
		if coords != nil {
			snap.Pointer[0], snap.Pointer[1] = coords.Load()
		}
		_, snap.Replaying = tags.Replay.First(e.World)
		if frames != nil {
			snap.RTT = frames.RTT()
			snap.Unacked = frames.Unacknowledged()
		}
		components.Peer.Each(e.World, func(entry *donburi.Entry) {
			p := components.Peer.Get(entry)
			snap.Peers = append(snap.Peers, PeerSnapshot{
				Name:    p.Name,
				IsLocal: p.IsLocal,
				Held:    strings.Join(p.Held, " "),
				Yaw:     p.Yaw,
				Pitch:   p.Pitch,
			})
		})
		slices.SortFunc(snap.Peers, func(a, b PeerSnapshot) int {
			return strings.Compare(a.Name, b.Name)
		})

		select { // drain stale, push latest
		case <-out:
		default:
		}
		select {
		case out <- snap:
		default:
		}
	}
}

// TakeSnapshot copies the active controller's state, actions sorted by path.
func TakeSnapshot(m *input.Module, tick uint64) InputSnapshot {
	c := m.ActiveController
	snap := InputSnapshot{
		Tick:      tick,
		Unknown:   c.UnknownRecords(),
		XRSources: len(m.XRInputSources),
	}
	if c.RingBuffer != nil {
		snap.Buffered = c.RingBuffer.Len()
	}
	for _, am := range c.ActionMaps {
		snap.EnabledMap = append(snap.EnabledMap, am.ID)
	}
	for path, s := range c.ActionStates {
		snap.Actions = append(snap.Actions, ActionSnapshot{
			Path:   path,
			Type:   s.Type,
			Held:   s.Held,
			Value:  s.Value,
			Vector: s.Vector,
		})
	}
	slices.SortFunc(snap.Actions, func(a, b ActionSnapshot) int {
		return strings.Compare(a.Path, b.Path)
	})
	return snap
}
