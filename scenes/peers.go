package scenes

import (
	"image/color"
	"math"

	cfg "github.com/automoto/worldclient/config"
	"github.com/automoto/worldclient/fonts"
	"github.com/automoto/worldclient/shared/netconfig"
	"github.com/automoto/worldclient/systems"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	dialRadius  = 22
	dialSpacing = 64
)

// DrawPeers draws one aim dial per player along the bottom of the screen.
// The needle points along the player's yaw and the dot on the right edge
// rides up and down with pitch.
func DrawPeers(screen *ebiten.Image, peers []systems.PeerSnapshot) {
	if len(peers) == 0 {
		return
	}
	face := fonts.Mono.Get()
	colorIndex := 0

	for i, p := range peers {
		var c color.RGBA
		if p.IsLocal {
			c = cfg.BrightGreen
		} else {
			c = cfg.PeerColors[colorIndex%len(cfg.PeerColors)]
			colorIndex++
		}

		cx := float32(dialSpacing/2 + i*dialSpacing)
		cy := float32(cfg.C.Height - dialRadius - 24)
		vector.StrokeCircle(screen, cx, cy, dialRadius, 1, c, true)

		tx, ty := aimTip(cx, cy, dialRadius, p.Yaw)
		vector.StrokeLine(screen, cx, cy, tx, ty, 2, c, true)

		py := cy - float32(p.Pitch/netconfig.MaxPitch)*dialRadius
		vector.DrawFilledRect(screen, cx+dialRadius+3, py-2, 4, 4, cfg.White, false)

		if face != nil {
			label := p.Name
			if len(label) > 8 {
				label = label[:8]
			}
			text.Draw(screen, label, face, int(cx)-len(label)*3, int(cy)+dialRadius+14, cfg.White)
		}
	}
}

// aimTip returns the end of a needle of length r from (cx, cy) at yaw
// radians, with yaw 0 pointing up and positive yaw turning clockwise.
func aimTip(cx, cy, r float32, yaw float64) (float32, float32) {
	return cx + r*float32(math.Sin(yaw)), cy - r*float32(math.Cos(yaw))
}
