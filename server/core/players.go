package core

import (
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/automoto/worldclient/shared/input"
	"github.com/automoto/worldclient/shared/inputsource"
	"github.com/automoto/worldclient/shared/messages"
	"github.com/automoto/worldclient/shared/netcomponents"
	"github.com/automoto/worldclient/shared/netconfig"
	"github.com/leap-fish/necs/esync"
	"github.com/leap-fish/necs/esync/srvsync"
	"github.com/remeh/sizedwaitgroup"
	"github.com/yohamta/donburi"
	"golang.org/x/time/rate"
)

// player is a joined client.
type player struct {
	entity     donburi.Entity
	networkID  esync.NetworkId
	name       string
	controller *input.Controller
	lastSeq    uint32
	limiter    *rate.Limiter

	unknown int // action ids received without a table entry
	dropped int // frames over the rate limit
	actions []messages.ActionValue
}

func (s *Server) handleJoin(peer Peer, req messages.JoinRequest) {
	if _, ok := s.players[peer]; ok {
		return
	}

	if reason := s.rejectReason(req); reason != "" {
		log.Printf("Rejecting %s: %s", peer.Id(), reason)
		if err := peer.SendMessage(messages.JoinRejected{Reason: reason}); err != nil {
			log.Printf("Failed to send rejection to %s: %v", peer.Id(), err)
		}
		return
	}

	name := strings.TrimSpace(req.PlayerName)
	if name == "" {
		name = fmt.Sprintf("player-%d", len(s.players)+1)
	}
	if len(name) > netconfig.MaxNameLength {
		name = name[:netconfig.MaxNameLength]
	}

	entity := s.world.Create(
		netcomponents.NetAim,
		netcomponents.NetPlayerState,
		netcomponents.NetInputPaths,
		netcomponents.NetActionState,
	)
	entry := s.world.Entry(entity)
	netcomponents.NetPlayerState.Set(entry, &netcomponents.NetPlayerStateData{Name: name})

	// Mark entity for network sync with interpolation for aim
	err := srvsync.NetworkSync(s.world, &entity,
		srvsync.WithInterp(netcomponents.NetAim),
		netcomponents.NetPlayerState,
		netcomponents.NetInputPaths,
		netcomponents.NetActionState,
	)
	if err != nil {
		log.Printf("Failed to setup network sync for player: %v", err)
		s.world.Remove(entity)
		return
	}

	p := &player{
		entity:     entity,
		name:       name,
		controller: input.NewController(nil),
		limiter:    rate.NewLimiter(rate.Limit(netconfig.FramesPerSecond), netconfig.FrameBurst),
	}
	if id := esync.GetNetworkId(entry); id != nil {
		p.networkID = *id
	}
	s.players[peer] = p
	s.setPlayerCount(len(s.players))

	if err := peer.SendMessage(messages.JoinAccepted{
		NetworkID:  p.networkID,
		ServerName: s.cfg.Name,
		TickRate:   s.cfg.TickRate,
		Players:    len(s.players),
	}); err != nil {
		log.Printf("Failed to send join acceptance to %s: %v", peer.Id(), err)
	}
	s.broadcast(peer, messages.PeerEvent{NetworkID: p.networkID, Name: name, Joined: true})

	log.Printf("Player %q joined as %d (%d players)", name, p.networkID, len(s.players))
}

func (s *Server) rejectReason(req messages.JoinRequest) string {
	switch {
	case s.cfg.Version != "" && req.Version != s.cfg.Version:
		return fmt.Sprintf("version mismatch: server %s, client %s", s.cfg.Version, req.Version)
	case req.InputTableVersion != inputsource.TableVersion:
		return fmt.Sprintf("input table mismatch: server %d, client %d", inputsource.TableVersion, req.InputTableVersion)
	case s.cfg.MaxPlayers > 0 && len(s.players) >= s.cfg.MaxPlayers:
		return "server full"
	}
	return ""
}

func (s *Server) handleLeave(peer Peer) {
	p, ok := s.players[peer]
	if !ok {
		return
	}
	delete(s.players, peer)
	s.setPlayerCount(len(s.players))

	if s.world.Valid(p.entity) {
		s.world.Remove(p.entity)
	}
	s.broadcast(peer, messages.PeerEvent{NetworkID: p.networkID, Name: p.name})

	if p.unknown > 0 || p.dropped > 0 {
		log.Printf("Player %q left (%d unknown action ids, %d frames over rate)", p.name, p.unknown, p.dropped)
	} else {
		log.Printf("Player %q left", p.name)
	}
}

func (s *Server) handlePathTable(peer Peer, table messages.InputPathTable) {
	p, ok := s.players[peer]
	if !ok {
		return
	}
	added := 0
	for _, e := range table.Entries {
		if _, ok := p.controller.IDToPath[e.ID]; !ok {
			added++
		}
	}
	if len(p.controller.IDToPath)+added > netconfig.MaxInputPaths {
		log.Printf("Player %q sent too many action ids, ignoring table", p.name)
		return
	}
	input.ApplyPathTable(p.controller, table.Entries)

	if s.world.Valid(p.entity) {
		entry := s.world.Entry(p.entity)
		netcomponents.NetInputPaths.Set(entry, &netcomponents.NetInputPathsData{
			Entries: input.PathTable(p.controller),
		})
	}
}

func (s *Server) handleFrame(peer Peer, frame messages.InputFrame) {
	p, ok := s.players[peer]
	if !ok {
		return
	}
	if frame.Sequence <= p.lastSeq {
		return // stale or duplicate
	}
	if !p.limiter.Allow() {
		p.dropped++
		return
	}
	p.lastSeq = frame.Sequence
	p.unknown += input.ApplyRemoteFrame(p.controller, frame.Actions)

	if !s.world.Valid(p.entity) {
		return
	}
	entry := s.world.Entry(p.entity)
	p.actions = input.EncodeActions(p.controller, p.actions[:0])
	netcomponents.NetActionState.Set(entry, &netcomponents.NetActionStateData{
		Actions: append([]messages.ActionValue(nil), p.actions...),
	})
	netcomponents.NetPlayerState.Get(entry).LastSequence = frame.Sequence
}

// updateAims turns every player's Look action into view rotation.
func (s *Server) updateAims() {
	for _, p := range s.players {
		if !s.world.Valid(p.entity) {
			continue
		}
		look := p.controller.ActionState(input.ActionLook)
		if look.Vector == [2]float32{} {
			continue
		}
		aim := netcomponents.NetAim.Get(s.world.Entry(p.entity))
		aim.Yaw = wrapAngle(aim.Yaw + float64(look.Vector[0])*netconfig.LookRadiansPerUnit)
		aim.Pitch = math.Max(-netconfig.MaxPitch, math.Min(netconfig.MaxPitch,
			aim.Pitch-float64(look.Vector[1])*netconfig.LookRadiansPerUnit))
	}
}

func wrapAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a > math.Pi {
		a -= 2 * math.Pi
	} else if a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// broadcastWorkers bounds how many sends a broadcast runs at once.
const broadcastWorkers = 8

// broadcast sends msg to every joined player except skip and returns once
// every send has finished.
func (s *Server) broadcast(skip Peer, msg any) {
	swg := sizedwaitgroup.New(broadcastWorkers)
	for peer := range s.players {
		if peer == skip {
			continue
		}
		swg.Add()
		go func(peer Peer) {
			defer swg.Done()
			if err := peer.SendMessage(msg); err != nil {
				log.Printf("Failed to send to %s: %v", peer.Id(), err)
			}
		}(peer)
	}
	swg.Wait()
}
