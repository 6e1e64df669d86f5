package systems

import (
	"encoding/json"
	"log"
	"strings"

	cfg "github.com/automoto/worldclient/config"
	"github.com/automoto/worldclient/shared/input"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/quasilyte/gdata"
)

const settingsItem = "input-settings"

// SavedSettings represents the input settings stored on disk
type SavedSettings struct {
	MouseSensitivity  float32 `json:"mouseSensitivity"`
	InvertLook        bool    `json:"invertLook"`
	NormalizeDiagonal bool    `json:"normalizeDiagonal"`
	GamepadDeadZone   float32 `json:"gamepadDeadZone"`
	Fullscreen        bool    `json:"fullscreen"`
	ResolutionIndex   int     `json:"resolutionIndex"`

	// Bindings replaces the bindings of the named player actions.
	Bindings map[string][]input.BindingDefinition `json:"bindings,omitempty"`
}

var gdataManager *gdata.Manager

// InitPersistence initializes the gdata manager for settings storage
func InitPersistence() error {
	m, err := gdata.Open(gdata.Config{
		AppName: "worldclient",
	})
	if err != nil {
		return err
	}
	gdataManager = m
	return nil
}

// LoadSettings loads settings from disk. It returns nil without an error
// when nothing has been saved yet or persistence is unavailable.
func LoadSettings() (*SavedSettings, error) {
	if gdataManager == nil {
		return nil, nil
	}

	data, err := gdataManager.LoadItem(settingsItem)
	if err != nil {
		log.Printf("Warning: Could not load settings: %v", err)
		return nil, nil
	}
	if len(data) == 0 {
		return nil, nil
	}

	var settings SavedSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		log.Printf("Warning: Could not parse saved settings: %v", err)
		return nil, err
	}

	return &settings, nil
}

// SaveSettings saves settings to disk
func SaveSettings(s *SavedSettings) error {
	if gdataManager == nil {
		return nil
	}

	data, err := json.Marshal(s)
	if err != nil {
		log.Printf("Warning: Could not serialize settings: %v", err)
		return err
	}

	if err := gdataManager.SaveItem(settingsItem, data); err != nil {
		log.Printf("Warning: Could not save settings: %v", err)
		return err
	}
	return nil
}

// CurrentSettings captures the live input configuration for saving.
func CurrentSettings(bindings map[string][]input.BindingDefinition) *SavedSettings {
	return &SavedSettings{
		MouseSensitivity:  cfg.Input.MouseSensitivity,
		InvertLook:        cfg.Input.InvertLook,
		NormalizeDiagonal: cfg.Input.NormalizeDiagonal,
		GamepadDeadZone:   cfg.Input.GamepadDeadZone,
		Fullscreen:        ebiten.IsFullscreen(),
		ResolutionIndex:   resolutionIndex(),
		Bindings:          bindings,
	}
}

func resolutionIndex() int {
	w, h := ebiten.WindowSize()
	for i, res := range cfg.Settings.Resolutions {
		if res.Width == w && res.Height == h {
			return i
		}
	}
	return cfg.Settings.DefaultResolutionIndex
}

// ApplySavedSettings copies loaded settings into the global input
// configuration and the window. Binding overrides are applied later by
// BuildPlayerActionMap.
func ApplySavedSettings(saved *SavedSettings) {
	if saved == nil {
		return
	}

	if saved.MouseSensitivity > 0 {
		cfg.Input.MouseSensitivity = saved.MouseSensitivity
	}
	cfg.Input.InvertLook = saved.InvertLook
	cfg.Input.NormalizeDiagonal = saved.NormalizeDiagonal
	if saved.GamepadDeadZone > 0 && saved.GamepadDeadZone < 1 {
		cfg.Input.GamepadDeadZone = saved.GamepadDeadZone
	}

	ebiten.SetFullscreen(saved.Fullscreen)
	if !saved.Fullscreen && saved.ResolutionIndex >= 0 && saved.ResolutionIndex < len(cfg.Settings.Resolutions) {
		res := cfg.Settings.Resolutions[saved.ResolutionIndex]
		ebiten.SetWindowSize(res.Width, res.Height)
	}
}

// BuildPlayerActionMap derives the player map from the built-in template,
// the global input configuration and saved binding overrides.
func BuildPlayerActionMap(overrides map[string][]input.BindingDefinition) *input.ActionMap {
	m := input.PlayerActionMap.WithBindingOverrides(overrides)
	if err := m.Validate(); err != nil {
		log.Printf("Warning: ignoring saved bindings: %v", err)
		m = input.PlayerActionMap.WithBindingOverrides(nil)
	}

	for i := range m.Actions {
		a := &m.Actions[i]
		for j := range a.Bindings {
			b := &a.Bindings[j]
			switch {
			case a.Path == input.ActionLook:
				if b.Scale == 0 {
					b.Scale = 1
				}
				b.Scale *= cfg.Input.MouseSensitivity
				b.InvertY = b.InvertY != cfg.Input.InvertLook
			case a.Path == input.ActionMove && b.Type == input.BindDirectionalButtons:
				b.Normalize = cfg.Input.NormalizeDiagonal
			}
			if b.Type == input.BindAxes && isGamepadPath(b.X) {
				b.DeadZone = cfg.Input.GamepadDeadZone
			}
		}
	}
	return m
}

func isGamepadPath(p string) bool {
	return strings.HasPrefix(p, "Gamepad/")
}
