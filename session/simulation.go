// Package session runs the consumer side of the input pipeline: a fixed-tick
// simulation goroutine that owns every input controller.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/automoto/worldclient/components"
	"github.com/automoto/worldclient/network"
	"github.com/automoto/worldclient/replay"
	"github.com/automoto/worldclient/shared/input"
	"github.com/automoto/worldclient/shared/messages"
	"github.com/automoto/worldclient/shared/ringbuffer"
	"github.com/automoto/worldclient/systems"
	"github.com/automoto/worldclient/tags"
	"github.com/bradleyjkemp/memviz"
	"github.com/dustin/go-humanize"
	"github.com/leap-fish/necs/esync"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

var (
	ErrNoRingBuffer   = errors.New("session: InitializeInputState without a ring buffer")
	ErrAlreadyStarted = errors.New("session: already initialized")
	ErrNotStarted     = errors.New("session: not initialized")
)

// Network is the part of the relay client the simulation uses.
type Network interface {
	SendMessage(msg any) error
	Joined() bool
	NetworkID() esync.NetworkId
	LatestSnapshot() *esync.WorldSnapshot
	DrainPeerEvents() []messages.PeerEvent
}

// Options configure a Simulation. Zero values mean: no recording, live
// input, offline, PlayerActionMap.
type Options struct {
	TickRate   int
	PlayerMap  *input.ActionMap
	EditorMode bool

	// Recorder receives every drained batch and is closed when Run returns.
	Recorder *replay.Recorder
	// Replay feeds a recording into the ring buffer and becomes its only
	// writer; the capture producer must be detached. The local player is
	// tagged with tags.Replay while it plays.
	Replay *replay.Player
	// LoopReplay restarts the recording when it finishes.
	LoopReplay bool

	Network Network

	// XRUpdates delivers XR hot-plug messages. May be nil.
	XRUpdates <-chan messages.UpdateXRInputSources
	// Snapshots receives the input state after every tick, latest wins.
	// May be nil.
	Snapshots chan systems.InputSnapshot
}

// Simulation owns the ECS world, the input module and the tick loop. Only
// the goroutine calling Run touches them once Run has started.
type Simulation struct {
	opts Options

	ecs    *ecs.ECS
	input  *input.Module
	system *input.System
	player donburi.Entity
	frames network.FrameHistory

	stopChan chan struct{}
	stopOnce sync.Once
	replayed bool
}

func NewSimulation(opts Options) *Simulation {
	if opts.TickRate <= 0 {
		opts.TickRate = 60
	}
	if opts.PlayerMap == nil {
		opts.PlayerMap = input.PlayerActionMap
	}
	return &Simulation{
		opts:     opts,
		system:   &input.System{},
		stopChan: make(chan struct{}),
	}
}

// Run waits for the session bootstrap message, then ticks until ctx is done
// or Stop is called.
func (s *Simulation) Run(ctx context.Context, initCh <-chan messages.InitializeInputState) error {
	defer s.shutdown()

	var msg messages.InitializeInputState
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.stopChan:
		return nil
	case msg = <-initCh:
	}

	if err := s.Setup(msg); err != nil {
		return err
	}

	ticker := time.NewTicker(time.Second / time.Duration(s.opts.TickRate))
	defer ticker.Stop()

	log.Printf("[session] simulation started at %d ticks/second", s.opts.TickRate)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.stopChan:
			return nil
		case <-ticker.C:
			s.Step()
		}
	}
}

// Stop ends Run. Safe to call more than once and from any goroutine.
func (s *Simulation) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
}

// Setup builds the world from the bootstrap message: the input module on
// the shared ring buffer, the local player entity owning the active
// controller, and the per-tick systems.
func (s *Simulation) Setup(msg messages.InitializeInputState) error {
	if s.ecs != nil {
		return ErrAlreadyStarted
	}
	if msg.RingBuffer == nil {
		return ErrNoRingBuffer
	}
	rb := msg.RingBuffer
	log.Printf("[session] ring buffer: %d slots, %s", rb.Cap(), humanize.Bytes(uint64(rb.ByteSize())))

	s.ecs = ecs.NewECS(donburi.NewWorld())
	s.input = input.NewModule(rb)

	world := s.ecs.World
	s.player = world.Create(tags.OurPlayer, components.XRAvatarRig)
	if s.opts.Replay != nil {
		world.Entry(s.player).AddComponent(tags.Replay)
	}
	c := input.SetActiveInputController(world, s.input, s.player)
	input.EnableActionMap(c, s.opts.PlayerMap)
	if s.opts.EditorMode {
		input.EnableActionMap(c, input.EditorActionMap)
	}
	input.EnableActionMap(c, input.ARActionMap)

	if rec := s.opts.Recorder; rec != nil {
		var failed bool
		s.system.OnDrain = func(tick uint64, records []ringbuffer.Record) {
			if err := rec.Record(tick, records); err != nil && !failed {
				failed = true
				log.Printf("[session] recording stopped: %v", err)
			}
		}
	}
	if p := s.opts.Replay; p != nil {
		log.Printf("[session] replaying %d frames (%s)", p.Frames(), replay.FormatDuration(p.Duration()))
		s.ecs.AddSystem(s.replayStep(rb))
	}

	if s.opts.XRUpdates != nil {
		s.ecs.AddSystem(systems.NewXRInputSystem(s.input, s.opts.XRUpdates))
	}
	s.ecs.AddSystem(systems.NewInputSystem(s.input, s.system))

	if n := s.opts.Network; n != nil {
		peers := systems.NewNetPeers(n.NetworkID, &s.frames)
		s.ecs.AddSystem(systems.NewNetPeersSystem(peers, n.LatestSnapshot))
		s.ecs.AddSystem(systems.NewNetworkInputSystem(n.SendMessage, n.Joined, s.input, &s.frames))
		s.ecs.AddSystem(logPeerEvents(n))
	}

	if s.opts.Snapshots != nil {
		s.ecs.AddSystem(systems.NewSnapshotSystem(s.input, s.system, msg.ScreenSpaceMouseCoords, &s.frames, s.opts.Snapshots))
	}
	return nil
}

// Step runs one tick.
func (s *Simulation) Step() {
	s.ecs.Update()
}

// Input returns the input module. Only the simulation goroutine may use it
// while Run is active.
func (s *Simulation) Input() *input.Module {
	return s.input
}

// Player returns the local player entity.
func (s *Simulation) Player() donburi.Entity {
	return s.player
}

// World returns the simulation's ECS world.
func (s *Simulation) World() donburi.World {
	return s.ecs.World
}

// FrameHistory exposes the sent-frame history for latency readouts.
func (s *Simulation) FrameHistory() *network.FrameHistory {
	return &s.frames
}

// DumpInput writes a graphviz graph of the active controller's enabled
// action maps to path. Call it only after Run has returned.
func (s *Simulation) DumpInput(path string) error {
	if s.input == nil {
		return ErrNotStarted
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("dump input: %w", err)
	}
	memviz.Map(f, &s.input.ActiveController.ActionMaps)
	return f.Close()
}

// replayStep feeds the next recorded tick into rb ahead of the drain.
func (s *Simulation) replayStep(rb *ringbuffer.RingBuffer) func(*ecs.ECS) {
	p := s.opts.Replay
	return func(e *ecs.ECS) {
		if p.Done() && s.opts.LoopReplay {
			p.Rewind()
		}
		if p.Done() {
			if !s.replayed {
				s.replayed = true
				if entry := e.World.Entry(s.player); entry.HasComponent(tags.Replay) {
					entry.RemoveComponent(tags.Replay)
				}
				log.Println("[session] replay finished")
			}
			return
		}
		if dropped := p.Step(rb); dropped > 0 {
			log.Printf("[session] replay dropped %d records, ring buffer full", dropped)
		}
	}
}

func logPeerEvents(n Network) func(*ecs.ECS) {
	return func(_ *ecs.ECS) {
		for _, evt := range n.DrainPeerEvents() {
			if evt.Joined {
				log.Printf("[session] %s joined (id %d)", evt.Name, evt.NetworkID)
			} else {
				log.Printf("[session] %s left (id %d)", evt.Name, evt.NetworkID)
			}
		}
	}
}

func (s *Simulation) shutdown() {
	if rec := s.opts.Recorder; rec != nil {
		if err := rec.Close(); err != nil {
			log.Printf("[session] %v", err)
		}
	}
	if s.ecs != nil {
		log.Printf("[session] simulation stopped after %d ticks", s.system.Tick())
	}
}
