// Package config persists clicker settings as JSON and converts between
// the on-disk document and the engine's runtime parameters. Unusable
// values in a loaded file fall back to defaults field by field, so a
// hand-edited config never prevents startup.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cadence/internal/core/clicker"
	"cadence/internal/keys"
)

const (
	defaultDelayMS = 1000
	defaultCPS     = 10.0
)

type Config struct {
	Hotkey        []string `json:"hotkey"`
	ClickMode     string   `json:"click_mode"`
	ClickType     string   `json:"click_type"`
	NormalDelayMS int      `json:"normal_delay_ms"`
	CPS           float64  `json:"cps"`
}

func Default() Config {
	return Config{
		Hotkey:        []string{"F6"},
		ClickMode:     clicker.ModeClick.String(),
		ClickType:     clicker.ActionLeftClick.String(),
		NormalDelayMS: defaultDelayMS,
		CPS:           defaultCPS,
	}
}

// DefaultPath places the config under the user's documents folder, next
// to where the installer drops the app data. Without a resolvable home
// the file lives beside the working directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".", ".cadence-config.json")
	}
	return filepath.Join(home, "Documents", "Cadence", "config.json")
}

// Load reads the config at path. A missing file is not an error; it
// returns (nil, nil) so the caller can fall back to defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes the config atomically: the document lands in a temp file
// first and replaces the old one with a rename.
func Save(cfg Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to persist config: %w", err)
	}

	return nil
}

// Params converts the document into engine parameters. Unknown modes,
// unknown keys, and out-of-range numbers individually degrade to their
// defaults.
func (c Config) Params() clicker.Params {
	mode, _ := clicker.ParseMode(c.ClickMode)
	action, _ := clicker.ParseAction(c.ClickType)

	delayMS := c.NormalDelayMS
	if delayMS <= 0 {
		delayMS = defaultDelayMS
	}

	cps := c.CPS
	if cps <= 0 {
		cps = defaultCPS
	}

	hotkey := keys.ParseList(c.Hotkey)
	if len(hotkey) == 0 {
		hotkey = []keys.Key{keys.F6}
	}

	return clicker.Params{
		Mode:   mode,
		Action: action,
		Hotkey: hotkey,
		Delay:  time.Duration(delayMS) * time.Millisecond,
		CPS:    cps,
	}
}

// FromParams renders runtime parameters back into the on-disk shape.
// The window target is session-only state and never persisted.
func FromParams(p clicker.Params) Config {
	return Config{
		Hotkey:        keys.Names(p.Hotkey),
		ClickMode:     p.Mode.String(),
		ClickType:     p.Action.String(),
		NormalDelayMS: int(p.Delay / time.Millisecond),
		CPS:           p.CPS,
	}
}
