package main

import (
	"context"
	"flag"
	"image"
	"log"

	"github.com/automoto/worldclient/capture"
	"github.com/automoto/worldclient/config"
	"github.com/automoto/worldclient/fonts"
	"github.com/automoto/worldclient/network"
	"github.com/automoto/worldclient/replay"
	"github.com/automoto/worldclient/scenes"
	"github.com/automoto/worldclient/session"
	"github.com/automoto/worldclient/shared/input"
	"github.com/automoto/worldclient/shared/inputsource"
	"github.com/automoto/worldclient/shared/messages"
	"github.com/automoto/worldclient/shared/protocol"
	"github.com/automoto/worldclient/shared/ringbuffer"
	"github.com/automoto/worldclient/statsview"
	"github.com/automoto/worldclient/systems"
	"github.com/hajimehoshi/ebiten/v2"
)

type Scene interface {
	Update()
	Draw(screen *ebiten.Image)
}

type Game struct {
	bounds image.Rectangle
	scene  Scene
}

func NewGame(scene Scene) *Game {
	return &Game{
		bounds: image.Rectangle{},
		scene:  scene,
	}
}

func (g *Game) Update() error {
	g.scene.Update()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
}

func (g *Game) Layout(width, height int) (int, int) {
	g.bounds = image.Rect(0, 0, config.C.Width, config.C.Height)
	return config.C.Width, config.C.Height
}

func main() {
	flag.StringVar(&config.Network.ServerAddress, "server", "", "Relay address host:port (empty plays offline)")
	flag.StringVar(&config.Network.PlayerName, "name", config.Network.PlayerName, "Player name")
	flag.StringVar(&config.Debug.RecordPath, "record", "", "Record drained input to this file")
	flag.StringVar(&config.Debug.ReplayPath, "replay", "", "Replay input from this file instead of devices")
	flag.BoolVar(&config.Debug.LoopReplay, "loop", false, "Restart the replay when it ends")
	flag.BoolVar(&config.Debug.XREmulation, "xremu", false, "Use gamepads as XR controllers (first pad left hand, second right)")
	flag.BoolVar(&config.Debug.EditorMode, "editor", false, "Enable the editor action map")
	flag.BoolVar(&config.Debug.ShowInputPanel, "panel", true, "Show the input panel (toggle with F3)")
	flag.IntVar(&config.C.TickRate, "tickrate", config.C.TickRate, "Simulation ticks per second")
	flag.StringVar(&config.Debug.DumpInputPath, "dumpinput", "", "Write a graphviz dump of the enabled action maps here on exit")
	stats := flag.String("statsview", "", "Serve runtime graphs on this address, e.g. "+statsview.DefaultAddr+" (needs the statsview build tag)")
	flag.Parse()

	if *stats != "" {
		if statsview.Enabled {
			log.Printf("Runtime graphs at %s", statsview.Start(*stats))
		} else {
			log.Println("statsview not available in this build")
		}
	}

	// Register network components for client-side deserialization
	if err := protocol.RegisterComponents(); err != nil {
		log.Fatalf("Failed to register network components: %v", err)
	}

	ebiten.SetWindowSize(config.C.Width, config.C.Height)
	ebiten.SetWindowTitle("worldclient")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeOnlyFullscreenEnabled)

	// Initialize persistence and load saved settings
	if err := systems.InitPersistence(); err != nil {
		log.Printf("Warning: Could not initialize persistence: %v", err)
	}
	saved, _ := systems.LoadSettings()
	systems.ApplySavedSettings(saved)
	var bindings map[string][]input.BindingDefinition
	if saved != nil {
		bindings = saved.Bindings
	}

	if err := fonts.LoadDefaults(); err != nil {
		log.Fatalf("Failed to load fonts: %v", err)
	}

	rb, err := ringbuffer.New(config.Input.RingBufferCapacity)
	if err != nil {
		log.Fatalf("Failed to create ring buffer: %v", err)
	}
	coords := &ringbuffer.ScreenCoords{}
	producer := capture.NewProducer(rb, coords)

	opts := session.Options{
		TickRate:   config.C.TickRate,
		PlayerMap:  systems.BuildPlayerActionMap(bindings),
		EditorMode: config.Debug.EditorMode,
		Snapshots:  make(chan systems.InputSnapshot, 1),
	}

	if path := config.Debug.ReplayPath; path != "" {
		p, err := replay.Open(path)
		if err != nil {
			log.Fatalf("Failed to open replay: %v", err)
		}
		opts.Replay = p
		opts.LoopReplay = config.Debug.LoopReplay
		// the player is the ring buffer's only writer from here on
		producer.Detach()
	}
	if path := config.Debug.RecordPath; path != "" {
		rec, err := replay.Create(path, config.C.TickRate)
		if err != nil {
			log.Fatalf("Failed to start recording: %v", err)
		}
		opts.Recorder = rec
	}

	var xr *capture.XREmulator
	if config.Debug.XREmulation {
		updates := make(chan messages.UpdateXRInputSources, 8)
		opts.XRUpdates = updates
		xr = capture.NewXREmulator(updates)
	}

	var client *network.Client
	if addr := config.Network.ServerAddress; addr != "" {
		client = network.NewClient()
		client.Connect(addr, messages.JoinRequest{
			Version:           config.C.Version,
			InputTableVersion: inputsource.TableVersion,
			PlayerName:        config.Network.PlayerName,
		})
		opts.Network = client
	}

	sim := session.NewSimulation(opts)
	initCh := make(chan messages.InitializeInputState, 1)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sim.Run(ctx, initCh) }()

	initCh <- messages.InitializeInputState{
		RingBuffer:             rb,
		ScreenSpaceMouseCoords: coords,
	}

	runErr := ebiten.RunGame(NewGame(scenes.NewWorldScene(producer, xr, client, opts.Snapshots)))

	cancel()
	if err := <-done; err != nil {
		log.Printf("Simulation error: %v", err)
	}
	if client != nil {
		client.Disconnect()
	}
	if path := config.Debug.DumpInputPath; path != "" {
		if err := sim.DumpInput(path); err != nil {
			log.Printf("Warning: Could not dump input: %v", err)
		}
	}
	if err := systems.SaveSettings(systems.CurrentSettings(bindings)); err != nil {
		log.Printf("Warning: Could not save settings: %v", err)
	}

	if runErr != nil {
		log.Fatal(runErr)
	}
}
