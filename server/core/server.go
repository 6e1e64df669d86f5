package core

import (
	"log"
	"sync"

	"github.com/automoto/worldclient/shared/messages"
	"github.com/leap-fish/necs/esync/srvsync"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
	"github.com/yohamta/donburi"
)

// Peer is a connected client as the server sees it. *router.NetworkClient
// satisfies it.
type Peer interface {
	Id() string
	SendMessage(msg any) error
}

// Config holds the relay's settings.
type Config struct {
	Name       string
	Version    string // required client version, empty accepts any
	TickRate   int
	MaxPlayers int
}

// command is work queued by a router callback for the game loop. Commands
// run on the loop goroutine, which is the only one touching the world.
type command func()

const commandQueueSize = 1024

// Server relays players' resolved input: it keeps a remote input controller
// per client, folds each client's frames into it and replicates the result
// to everyone through esync.
type Server struct {
	cfg       Config
	world     donburi.World
	loop      *GameLoop
	transport *transports.WsServerTransport

	commands chan command

	// Only touched on the loop goroutine.
	players map[Peer]*player

	mu    sync.RWMutex
	count int
}

// NewServer creates a new relay
func NewServer(cfg Config) *Server {
	world := donburi.NewWorld()

	s := &Server{
		cfg:      cfg,
		world:    world,
		commands: make(chan command, commandQueueSize),
		players:  make(map[Peer]*player),
	}
	s.loop = NewGameLoop(s, cfg.TickRate)

	// Set up the world for esync
	srvsync.UseEsync(world)

	return s
}

// Start begins the server on the given port
func (s *Server) Start(port uint) error {
	s.setupRouterCallbacks()

	// Start game loop
	go s.loop.Run()

	// Create and start WebSocket transport
	s.transport = transports.NewWsServerTransport(port, "", nil)
	return s.transport.Start()
}

// Stop gracefully shuts down the server
func (s *Server) Stop() {
	s.loop.Stop()
}

func (s *Server) setupRouterCallbacks() {
	router.OnConnect(func(client *router.NetworkClient) {
		log.Printf("Client connected: %s", client.Id())
	})

	router.OnDisconnect(func(client *router.NetworkClient, err error) {
		if err != nil {
			log.Printf("Client %s disconnected with error: %v", client.Id(), err)
		} else {
			log.Printf("Client %s disconnected", client.Id())
		}
		s.enqueue(func() { s.handleLeave(client) })
	})

	router.On(func(client *router.NetworkClient, req messages.JoinRequest) {
		s.enqueue(func() { s.handleJoin(client, req) })
	})

	router.On(func(client *router.NetworkClient, table messages.InputPathTable) {
		s.enqueue(func() { s.handlePathTable(client, table) })
	})

	router.On(func(client *router.NetworkClient, frame messages.InputFrame) {
		s.enqueue(func() { s.handleFrame(client, frame) })
	})

	router.OnError(func(client *router.NetworkClient, err error) {
		log.Printf("Client error: %v", err)
	})
}

// enqueue hands cmd to the game loop. A full queue drops the command; the
// client resends its input state within the resend interval.
func (s *Server) enqueue(cmd command) {
	select {
	case s.commands <- cmd:
	default:
		log.Println("Command queue full, dropping message")
	}
}

// ProcessCommands runs every queued command. Called once per tick by the
// game loop.
func (s *Server) ProcessCommands() {
	for {
		select {
		case cmd := <-s.commands:
			cmd()
		default:
			return
		}
	}
}

// World returns the ECS world
func (s *Server) World() donburi.World {
	return s.world
}

// PlayerCount returns the number of joined players
func (s *Server) PlayerCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.count
}

func (s *Server) setPlayerCount(n int) {
	s.mu.Lock()
	s.count = n
	s.mu.Unlock()
}
