package scenes

import (
	"image/color"
	"log"
	"sync"

	"github.com/automoto/worldclient/capture"
	cfg "github.com/automoto/worldclient/config"
	"github.com/automoto/worldclient/network"
	"github.com/automoto/worldclient/systems"
	"github.com/automoto/worldclient/ui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// WorldScene is the window side of a session: it polls devices into the
// producer every frame and shows the latest snapshot published by the
// simulation goroutine.
type WorldScene struct {
	poller *capture.Poller
	client *network.Client
	snaps  <-chan systems.InputSnapshot

	panel *ui.InputPanel
	last  systems.InputSnapshot
	once  sync.Once

	lastState network.ClientState
}

// NewWorldScene creates the scene. client may be nil when playing offline
// and xr nil unless gamepads should act as XR hands.
func NewWorldScene(p *capture.Producer, xr *capture.XREmulator, client *network.Client, snaps <-chan systems.InputSnapshot) *WorldScene {
	poller := capture.NewPoller(p)
	poller.XR = xr
	return &WorldScene{
		poller: poller,
		client: client,
		snaps:  snaps,
	}
}

func (ws *WorldScene) Update() {
	ws.once.Do(ws.configure)

	ws.poller.Poll(cfg.C.Width, cfg.C.Height)

	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		ws.panel.Visible = !ws.panel.Visible
	}

	select {
	case snap := <-ws.snaps:
		ws.last = snap
	default:
	}

	status := ui.CaptureStatus{
		Captured: ws.poller.Producer().Captured(),
		Disabled: ws.poller.Producer().Disabled(),
		Dropped:  ws.poller.Producer().Dropped(),
	}
	if ws.client != nil {
		state := ws.client.State()
		if state != ws.lastState {
			if state == network.StateError {
				log.Printf("[world] relay: %v", ws.client.LastError())
			}
			ws.lastState = state
		}
		status.Network = state.String()
	}

	ws.panel.Refresh(ws.last, status)
	ws.panel.Update()
}

func (ws *WorldScene) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)

	// Pointer position as the simulation last saw it.
	x := (ws.last.Pointer[0] + 1) / 2 * float32(cfg.C.Width)
	y := (1 - ws.last.Pointer[1]) / 2 * float32(cfg.C.Height)
	vector.DrawFilledRect(screen, x-2, y-2, 4, 4, cfg.LightBlue, false)

	DrawPeers(screen, ws.last.Peers)
	ws.panel.Draw(screen)
}

func (ws *WorldScene) configure() {
	ws.panel = ui.NewInputPanel()
	ws.poller.Producer().SetEditorLoaded(cfg.Debug.EditorMode)
}
