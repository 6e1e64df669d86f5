package config

import (
	"image/color"
	"time"
)

// Config holds general client configuration
type Config struct {
	Width  int
	Height int

	// TickRate is the simulation rate in ticks per second. Input is drained
	// and resolved once per tick.
	TickRate int

	Version string
}

// NetworkConfig holds the input relay connection settings
type NetworkConfig struct {
	ServerAddress  string // host:port, empty runs offline
	PlayerName     string
	ResendInterval time.Duration // resend unchanged input this often
}

// UIConfig contains input debug panel configuration values
type UIConfig struct {
	PanelColor     color.RGBA
	TextColor      color.RGBA
	HeldColor      color.RGBA
	DimColor       color.RGBA
	TitleFontSize  float64
	NormalFontSize float64
}

// DebugConfig contains debug/testing command-line options
type DebugConfig struct {
	ShowInputPanel bool
	RecordPath     string // write drained input here when set
	ReplayPath     string // replay a recording instead of live input
	LoopReplay     bool   // restart the replay when it ends
	XREmulation    bool   // drive the XR hands from gamepads
	EditorMode     bool   // start with the editor action map enabled
	DumpInputPath  string // graphviz dump of the action maps on exit
}

// Global configuration instances
var C *Config
var Network NetworkConfig
var UI UIConfig
var Debug DebugConfig

// Shared RGBA color constants
var (
	White        = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	BrightGreen  = color.RGBA{R: 0, G: 255, B: 60, A: 255}
	LightBlue    = color.RGBA{R: 100, G: 180, B: 255, A: 255}
	Grey         = color.RGBA{R: 120, G: 120, B: 130, A: 255}
	BlackOverlay = color.RGBA{R: 0, G: 0, B: 0, A: 180}
)

// PeerColors tints remote players in join order; the local player is
// always BrightGreen.
var PeerColors = []color.RGBA{
	{R: 255, G: 90, B: 90, A: 255},
	{R: 255, G: 200, B: 60, A: 255},
	{R: 200, G: 110, B: 255, A: 255},
	{R: 80, G: 220, B: 220, A: 255},
}

func init() {
	C = &Config{
		Width:    960,
		Height:   540,
		TickRate: 60,
		Version:  "0.1.0",
	}

	Network = NetworkConfig{
		PlayerName:     "player",
		ResendInterval: 50 * time.Millisecond,
	}

	UI = UIConfig{
		PanelColor:     BlackOverlay,
		TextColor:      White,
		HeldColor:      BrightGreen,
		DimColor:       Grey,
		TitleFontSize:  16,
		NormalFontSize: 12,
	}
}
