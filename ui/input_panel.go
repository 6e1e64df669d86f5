package ui

import (
	"fmt"
	"strings"
	"time"

	cfg "github.com/automoto/worldclient/config"
	"github.com/automoto/worldclient/fonts"
	"github.com/automoto/worldclient/shared/input"
	"github.com/automoto/worldclient/systems"
	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

const (
	maxActionLines = 24
	maxPeerLines   = 8
)

// CaptureStatus is the producer-side state shown next to the simulation's
// snapshot. It is read on the window goroutine.
type CaptureStatus struct {
	Captured bool
	Disabled bool
	Dropped  uint64
	Network  string
}

// InputPanel is the ebitenui overlay that shows resolved actions, buffer
// health and connected peers.
type InputPanel struct {
	UI      *ebitenui.UI
	Visible bool

	statusLabel  *widget.Label
	mapsLabel    *widget.Label
	actionLabels []*widget.Label
	peerLabels   []*widget.Label

	titleFace  text.Face
	normalFace text.Face
	monoFace   text.Face
}

// NewInputPanel builds the panel. fonts.LoadDefaults must have run.
func NewInputPanel() *InputPanel {
	p := &InputPanel{Visible: cfg.Debug.ShowInputPanel}
	p.titleFace = fonts.Title.Face()
	p.normalFace = fonts.Normal.Face()
	p.monoFace = fonts.Mono.Face()
	p.buildUI()
	return p
}

func (p *InputPanel) buildUI() {
	rootContainer := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)

	padding := widget.Insets{Top: 6, Bottom: 6, Left: 8, Right: 8}
	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(image.NewNineSliceColor(cfg.UI.PanelColor)),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Padding(&padding),
			widget.RowLayoutOpts.Spacing(2),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionStart,
				VerticalPosition:   widget.AnchorLayoutPositionStart,
			}),
		),
	)

	panel.AddChild(widget.NewLabel(
		widget.LabelOpts.Text("INPUT", &p.titleFace, &widget.LabelColor{Idle: cfg.UI.TextColor}),
	))

	p.statusLabel = widget.NewLabel(
		widget.LabelOpts.Text("waiting for simulation", &p.normalFace, &widget.LabelColor{Idle: cfg.UI.DimColor}),
	)
	panel.AddChild(p.statusLabel)

	p.mapsLabel = widget.NewLabel(
		widget.LabelOpts.Text("", &p.normalFace, &widget.LabelColor{Idle: cfg.UI.DimColor}),
	)
	panel.AddChild(p.mapsLabel)

	for range maxActionLines {
		l := widget.NewLabel(
			widget.LabelOpts.Text("", &p.monoFace, &widget.LabelColor{Idle: cfg.UI.TextColor}),
		)
		p.actionLabels = append(p.actionLabels, l)
		panel.AddChild(l)
	}

	panel.AddChild(widget.NewLabel(
		widget.LabelOpts.Text("PEERS", &p.titleFace, &widget.LabelColor{Idle: cfg.UI.TextColor}),
	))
	for range maxPeerLines {
		l := widget.NewLabel(
			widget.LabelOpts.Text("", &p.monoFace, &widget.LabelColor{Idle: cfg.UI.HeldColor}),
		)
		p.peerLabels = append(p.peerLabels, l)
		panel.AddChild(l)
	}

	rootContainer.AddChild(panel)
	p.UI = &ebitenui.UI{Container: rootContainer}
}

// Refresh copies a snapshot and the capture status into the labels.
func (p *InputPanel) Refresh(snap systems.InputSnapshot, status CaptureStatus) {
	p.statusLabel.Label = FormatStatus(snap, status)
	p.mapsLabel.Label = "maps: " + strings.Join(snap.EnabledMap, " > ")

	lines := FormatActions(snap.Actions)
	setLines(p.actionLabels, lines)

	peers := make([]string, 0, len(snap.Peers))
	for _, peer := range snap.Peers {
		peers = append(peers, FormatPeer(peer))
	}
	if len(peers) == 0 {
		peers = append(peers, "none")
	}
	setLines(p.peerLabels, peers)
}

func setLines(labels []*widget.Label, lines []string) {
	for i, l := range labels {
		if i < len(lines) {
			l.Label = lines[i]
		} else {
			l.Label = ""
		}
	}
}

// Update calls the UI's Update method
func (p *InputPanel) Update() {
	if p.Visible {
		p.UI.Update()
	}
}

// Draw renders the panel when it is visible.
func (p *InputPanel) Draw(screen *ebiten.Image) {
	if p.Visible {
		p.UI.Draw(screen)
	}
}

// FormatStatus is the panel's one-line pipeline summary.
func FormatStatus(snap systems.InputSnapshot, status CaptureStatus) string {
	capture := "free"
	switch {
	case snap.Replaying:
		capture = "replay"
	case status.Disabled:
		capture = "disabled"
	case status.Captured:
		capture = "captured"
	}
	line := fmt.Sprintf("tick %d  queued %d  unknown %d  dropped %d  pointer %s  xr %d",
		snap.Tick, snap.Buffered, snap.Unknown, status.Dropped, capture, snap.XRSources)
	if status.Network != "" {
		line += fmt.Sprintf("  net %s", status.Network)
		if snap.RTT > 0 {
			line += fmt.Sprintf(" %s/%d", snap.RTT.Round(time.Millisecond), snap.Unacked)
		}
	}
	return line
}

// FormatActions renders one line per action: held buttons are marked with
// '*', axes show their value.
func FormatActions(actions []systems.ActionSnapshot) []string {
	lines := make([]string, 0, len(actions))
	for _, a := range actions {
		mark := " "
		if a.Held {
			mark = "*"
		}
		var value string
		switch a.Type {
		case input.Button:
			value = ""
		case input.Axis1D:
			value = fmt.Sprintf("%+.2f", a.Value)
		default:
			value = fmt.Sprintf("(%+.2f, %+.2f)", a.Vector[0], a.Vector[1])
		}
		lines = append(lines, strings.TrimRight(fmt.Sprintf("%s %-18s %s", mark, a.Path, value), " "))
	}
	return lines
}

// FormatPeer renders a peer as "name: held actions".
func FormatPeer(p systems.PeerSnapshot) string {
	name := p.Name
	if name == "" {
		name = "?"
	}
	if p.IsLocal {
		name += " (you)"
	}
	if p.Held == "" {
		return name
	}
	return name + ": " + p.Held
}
