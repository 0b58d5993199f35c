package clicker

import (
	"sync"

	"cadence/internal/keys"
)

// Recognizer watches the global key stream for the configured hotkey
// combo and toggles the engine when the whole combo is held. It fires
// once per satisfaction; the combo must be partially released and pressed
// again before it can fire again.
type Recognizer struct {
	settings *Settings
	engine   *Engine
	capture  *Capture
	logger   Logger

	mu        sync.Mutex
	down      map[keys.Key]struct{}
	satisfied bool
}

// NewRecognizer wires a recognizer to the engine it toggles. capture may
// be nil when no rebinding UI exists.
func NewRecognizer(settings *Settings, engine *Engine, capture *Capture, logger Logger) *Recognizer {
	return &Recognizer{
		settings: settings,
		engine:   engine,
		capture:  capture,
		logger:   logger,
		down:     make(map[keys.Key]struct{}),
	}
}

// Run consumes the source until its event channel closes.
func (r *Recognizer) Run(source KeySource) {
	for ev := range source.Events() {
		r.HandleKey(ev)
	}
}

// HandleKey feeds one key transition into the recognizer. While a capture
// session is rebinding the hotkey, global events are ignored so the keys
// being recorded cannot also toggle the clicker.
func (r *Recognizer) HandleKey(ev KeyEvent) {
	if r.capture != nil && r.capture.Capturing() {
		return
	}
	if ev.Pressed {
		r.keyDown(ev.Key)
		return
	}
	r.keyUp(ev.Key)
}

func (r *Recognizer) keyDown(k keys.Key) {
	combo := r.settings.Hotkey()

	r.mu.Lock()
	if _, held := r.down[k]; held {
		r.mu.Unlock()
		return
	}
	r.down[k] = struct{}{}
	fire := !r.satisfied && comboHas(combo, k) && r.allDown(combo)
	if fire {
		r.satisfied = true
	}
	r.mu.Unlock()

	if fire {
		r.logger.Debug("Hotkey matched", "combo", keys.Label(combo))
		r.engine.Toggle()
	}
}

func (r *Recognizer) keyUp(k keys.Key) {
	combo := r.settings.Hotkey()

	r.mu.Lock()
	delete(r.down, k)
	if r.satisfied && !r.allDown(combo) {
		r.satisfied = false
	}
	r.mu.Unlock()
}

// Reset forgets all held keys. Called after the combo changes so stale
// state from the old combo cannot trigger the new one.
func (r *Recognizer) Reset() {
	r.mu.Lock()
	r.down = make(map[keys.Key]struct{})
	r.satisfied = false
	r.mu.Unlock()
}

// allDown reports whether every combo member is currently held. Callers
// hold r.mu.
func (r *Recognizer) allDown(combo []keys.Key) bool {
	for _, k := range combo {
		if _, held := r.down[k]; !held {
			return false
		}
	}
	return len(combo) > 0
}

func comboHas(combo []keys.Key, k keys.Key) bool {
	for _, member := range combo {
		if member == k {
			return true
		}
	}
	return false
}
