package systems

import (
	"log"
	"slices"
	"time"

	cfg "github.com/automoto/worldclient/config"
	"github.com/automoto/worldclient/network"
	"github.com/automoto/worldclient/shared/input"
	"github.com/automoto/worldclient/shared/messages"
	"github.com/yohamta/donburi/ecs"
)

type netInputState struct {
	seq          uint32
	sentFor      *input.Controller
	sentPaths    int
	lastActions  []messages.ActionValue
	actions      []messages.ActionValue // reused each tick to avoid allocation
	lastSendTime time.Time
}

// NewNetworkInputSystem returns an ECS system that sends the active
// controller's resolved actions to the server while joined reports true.
// The id table goes first after every join and again whenever it grows;
// frames go out when any action changes or the resend interval elapses.
// sendFn must serialize synchronously and not retain the message. Sent
// frames are recorded in history so acks from the server can be matched.
func NewNetworkInputSystem(sendFn func(any) error, joined func() bool, m *input.Module, history *network.FrameHistory) func(*ecs.ECS) {
	state := &netInputState{}

	return func(_ *ecs.ECS) {
		c := m.ActiveController
		if c == nil {
			return
		}
		if !joined() {
			state.sentFor, state.sentPaths = nil, 0
			state.lastActions = state.lastActions[:0]
			if history.NextSeq() != 0 {
				history.Reset()
				state.seq = 0
			}
			return
		}

		if n := len(c.PathToID); c != state.sentFor || n != state.sentPaths {
			if err := sendFn(messages.InputPathTable{Entries: input.PathTable(c)}); err != nil {
				log.Printf("[netinput] send path table: %v", err)
				return
			}
			state.sentFor, state.sentPaths = c, n
		}

		state.actions = input.EncodeActions(c, state.actions[:0])
		changed := !slices.Equal(state.actions, state.lastActions)

		now := time.Now()
		if !changed && now.Sub(state.lastSendTime) < cfg.Network.ResendInterval {
			return
		}

		state.seq++
		frame := messages.InputFrame{
			Sequence:  state.seq,
			Actions:   state.actions,
			Timestamp: now.UnixMilli(),
		}
		if err := sendFn(frame); err != nil {
			log.Printf("[netinput] send error: %v", err)
			return
		}

		history.Store(frame.Sequence, now)
		state.lastActions = append(state.lastActions[:0], state.actions...)
		state.lastSendTime = now
	}
}
