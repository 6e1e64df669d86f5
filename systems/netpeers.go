package systems

import (
	"slices"
	"time"

	"github.com/automoto/worldclient/components"
	"github.com/automoto/worldclient/network"
	"github.com/automoto/worldclient/shared/input"
	"github.com/automoto/worldclient/shared/netcomponents"
	"github.com/leap-fish/necs/esync"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// NetPeers mirrors other players' replicated input into the local world.
// Each peer gets a remote input.Controller so its actions carry the same
// Pressed/Released edges as local ones.
type NetPeers struct {
	controllers map[esync.NetworkId]*input.Controller
	presentIDs  map[esync.NetworkId]bool
	localID     func() esync.NetworkId
	history     *network.FrameHistory
}

// NewNetPeers creates the peer mirror. localID names the local player so
// its entry acks sent frames instead of being treated as a peer.
func NewNetPeers(localID func() esync.NetworkId, history *network.FrameHistory) *NetPeers {
	return &NetPeers{
		controllers: make(map[esync.NetworkId]*input.Controller),
		presentIDs:  make(map[esync.NetworkId]bool),
		localID:     localID,
		history:     history,
	}
}

// NewNetPeersSystem applies the latest snapshot, if any, every tick.
func NewNetPeersSystem(p *NetPeers, latest func() *esync.WorldSnapshot) func(*ecs.ECS) {
	return func(e *ecs.ECS) {
		if snap := latest(); snap != nil {
			p.ApplySnapshot(e.World, *snap)
		}
	}
}

// Controller returns the remote controller mirroring peer id.
func (p *NetPeers) Controller(id esync.NetworkId) (*input.Controller, bool) {
	c, ok := p.controllers[id]
	return c, ok
}

// ApplySnapshot creates, updates and removes networked entities to match
// snapshot, then rebuilds each one's Peer component.
func (p *NetPeers) ApplySnapshot(world donburi.World, snapshot esync.WorldSnapshot) {
	myNetID := p.localID()
	clear(p.presentIDs)

	for _, ent := range snapshot {
		p.presentIDs[ent.Id] = true

		var compData []any
		for _, componentBytes := range ent.State {
			instance, err := esync.Mapper.Deserialize(componentBytes)
			if err != nil {
				continue
			}
			compData = append(compData, instance)
		}

		entity := esync.FindByNetworkId(world, ent.Id)
		if !world.Valid(entity) {
			ctypes := componentTypesFromInstances(compData)
			ctypes = append(ctypes, components.Peer)
			entity = world.Create(ctypes...)

			entry := world.Entry(entity)
			entry.AddComponent(esync.NetworkIdComponent)
			esync.NetworkIdComponent.SetValue(entry, ent.Id)
		}

		entry := world.Entry(entity)
		for _, data := range compData {
			applyComponentToEntry(entry, data)
		}

		isLocal := ent.Id == myNetID
		if isLocal && entry.HasComponent(netcomponents.NetPlayerState) {
			state := netcomponents.NetPlayerState.Get(entry)
			state.IsLocal = true
			if p.history != nil {
				p.history.Ack(state.LastSequence, time.Now())
			}
		}
		p.updatePeer(entry, ent.Id, isLocal)
	}

	esync.NetworkEntityQuery.Each(world, func(entry *donburi.Entry) {
		id := esync.GetNetworkId(entry)
		if id == nil {
			return
		}
		if !p.presentIDs[*id] {
			delete(p.controllers, *id)
			entry.Remove()
		}
	})
}

func (p *NetPeers) updatePeer(entry *donburi.Entry, id esync.NetworkId, isLocal bool) {
	c, ok := p.controllers[id]
	if !ok {
		c = input.NewController(nil)
		p.controllers[id] = c
	}
	if entry.HasComponent(netcomponents.NetInputPaths) {
		input.ApplyPathTable(c, netcomponents.NetInputPaths.Get(entry).Entries)
	}
	if entry.HasComponent(netcomponents.NetActionState) {
		input.ApplyRemoteFrame(c, netcomponents.NetActionState.Get(entry).Actions)
	}

	if !entry.HasComponent(components.Peer) {
		entry.AddComponent(components.Peer)
	}
	peer := components.Peer.Get(entry)
	peer.IsLocal = isLocal
	if entry.HasComponent(netcomponents.NetPlayerState) {
		peer.Name = netcomponents.NetPlayerState.Get(entry).Name
	}
	if entry.HasComponent(netcomponents.NetAim) {
		aim := netcomponents.NetAim.Get(entry)
		peer.Yaw, peer.Pitch = aim.Yaw, aim.Pitch
	}
	peer.Held = peer.Held[:0]
	if peer.Axes == nil {
		peer.Axes = make(map[string][2]float32)
	}
	clear(peer.Axes)

	for path, s := range c.ActionStates {
		if s.Held {
			peer.Held = append(peer.Held, path)
		}
		switch s.Type {
		case input.Axis2D, input.Vector2:
			if s.Vector != [2]float32{} {
				peer.Axes[path] = s.Vector
			}
		case input.Axis1D:
			if s.Value != 0 {
				peer.Axes[path] = [2]float32{s.Value, 0}
			}
		}
	}
	slices.Sort(peer.Held)
}

func componentTypesFromInstances(components []any) []donburi.IComponentType {
	var ctypes []donburi.IComponentType
	for _, data := range components {
		switch data.(type) {
		case netcomponents.NetAimData:
			ctypes = append(ctypes, netcomponents.NetAim)
		case netcomponents.NetPlayerStateData:
			ctypes = append(ctypes, netcomponents.NetPlayerState)
		case netcomponents.NetInputPathsData:
			ctypes = append(ctypes, netcomponents.NetInputPaths)
		case netcomponents.NetActionStateData:
			ctypes = append(ctypes, netcomponents.NetActionState)
		}
	}
	return ctypes
}

func applyComponentToEntry(entry *donburi.Entry, data any) {
	switch v := data.(type) {
	case netcomponents.NetAimData:
		if !entry.HasComponent(netcomponents.NetAim) {
			entry.AddComponent(netcomponents.NetAim)
		}
		netcomponents.NetAim.SetValue(entry, v)
	case netcomponents.NetPlayerStateData:
		if !entry.HasComponent(netcomponents.NetPlayerState) {
			entry.AddComponent(netcomponents.NetPlayerState)
		}
		netcomponents.NetPlayerState.SetValue(entry, v)
	case netcomponents.NetInputPathsData:
		if !entry.HasComponent(netcomponents.NetInputPaths) {
			entry.AddComponent(netcomponents.NetInputPaths)
		}
		netcomponents.NetInputPaths.SetValue(entry, v)
	case netcomponents.NetActionStateData:
		if !entry.HasComponent(netcomponents.NetActionState) {
			entry.AddComponent(netcomponents.NetActionState)
		}
		netcomponents.NetActionState.SetValue(entry, v)
	}
}
