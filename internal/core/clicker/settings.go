package clicker

import (
	"sync"
	"time"

	"cadence/internal/keys"
)

const (
	DefaultDelay = time.Second
	DefaultCPS   = 10.0
	minDelay     = time.Millisecond
)

// Params is one consistent view of every tunable the engine reads. The
// engine snapshots it once per cycle so a mid-cycle change never mixes old
// and new values.
type Params struct {
	Mode   Mode
	Action Action
	Target string
	Hotkey []keys.Key
	Delay  time.Duration
	CPS    float64
}

// Settings holds the live parameters shared between the UI, the hotkey
// recognizer and the engine.
type Settings struct {
	mu sync.Mutex
	p  Params
}

func NewSettings() *Settings {
	return &Settings{p: Params{
		Mode:   ModeClick,
		Action: ActionLeftClick,
		Hotkey: []keys.Key{keys.F6},
		Delay:  DefaultDelay,
		CPS:    DefaultCPS,
	}}
}

// Snapshot returns a copy safe to use without holding any lock.
func (s *Settings) Snapshot() Params {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.p
	p.Hotkey = append([]keys.Key(nil), s.p.Hotkey...)
	return p
}

// Apply replaces every parameter at once, clamping values the engine
// cannot run with.
func (s *Settings) Apply(p Params) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.p.Mode = p.Mode
	s.p.Action = p.Action
	s.p.Target = p.Target
	if len(p.Hotkey) > 0 {
		s.p.Hotkey = append([]keys.Key(nil), p.Hotkey...)
	}
	s.p.Delay = clampDelay(p.Delay)
	s.p.CPS = clampCPS(p.CPS)
}

func (s *Settings) SetMode(m Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.p.Mode = m
}

func (s *Settings) SetAction(a Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.p.Action = a
}

// SetTarget selects a window title for direct delivery. An empty title
// reverts to global input simulation.
func (s *Settings) SetTarget(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.p.Target = title
}

// SetHotkey replaces the toggle combo. Empty combos are ignored so the
// clicker always stays reachable from the keyboard.
func (s *Settings) SetHotkey(combo []keys.Key) {
	if len(combo) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.p.Hotkey = append([]keys.Key(nil), combo...)
}

func (s *Settings) Hotkey() []keys.Key {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]keys.Key(nil), s.p.Hotkey...)
}

func (s *Settings) SetDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.p.Delay = clampDelay(d)
}

func (s *Settings) SetCPS(cps float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.p.CPS = clampCPS(cps)
}

func clampDelay(d time.Duration) time.Duration {
	if d < minDelay {
		return minDelay
	}
	return d
}

func clampCPS(cps float64) float64 {
	if cps <= 0 {
		return DefaultCPS
	}
	return cps
}
