// Package hookinput adapts the gohook global keyboard hook into the key
// event stream the recognizer consumes. It carries raw events for every
// key, not a registered combo, so the hotkey can be rebound at runtime
// without restarting the hook.
package hookinput

import (
	"sync"

	hook "github.com/robotn/gohook"

	"cadence/internal/core/clicker"
	"cadence/internal/keys"
)

type Listener struct {
	logger clicker.Logger
	events chan clicker.KeyEvent
	once   sync.Once
	wg     sync.WaitGroup
}

// Start installs the global hook and begins translating events. There is
// one OS-level hook per process; callers create at most one Listener.
func Start(logger clicker.Logger) *Listener {
	l := &Listener{
		logger: logger,
		events: make(chan clicker.KeyEvent, 64),
	}
	raw := hook.Start()
	l.wg.Add(1)
	go l.pump(raw)
	return l
}

func (l *Listener) Events() <-chan clicker.KeyEvent {
	return l.events
}

// Close uninstalls the hook. gohook closes the raw channel on End, which
// lets the pump drain and close the event stream.
func (l *Listener) Close() error {
	l.once.Do(hook.End)
	l.wg.Wait()
	return nil
}

func (l *Listener) pump(raw chan hook.Event) {
	defer l.wg.Done()
	defer close(l.events)

	for ev := range raw {
		var pressed bool
		switch ev.Kind {
		case hook.KeyDown:
			pressed = true
		case hook.KeyUp:
			pressed = false
		default:
			// KeyHold repeats and mouse events are not transitions.
			continue
		}
		k, ok := keyFromCode(ev.Keycode)
		if !ok {
			continue
		}
		select {
		case l.events <- clicker.KeyEvent{Key: k, Pressed: pressed}:
		default:
			l.logger.Debug("Dropping key event, consumer is behind", "key", string(k))
		}
	}
}
