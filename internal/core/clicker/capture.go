package clicker

import (
	"sync"

	"cadence/internal/keys"
)

// Capture is a hotkey rebinding session. While active it records keys the
// UI reports as pressed. Two keys held together commit immediately as a
// chord; a single non-modifier key commits when it is released. Modifier
// keys never commit alone, so Shift or Ctrl can still start a chord.
type Capture struct {
	mu     sync.Mutex
	active bool
	down   []keys.Key
}

func NewCapture() *Capture {
	return &Capture{}
}

// Begin starts a fresh session, discarding any partial state from a
// previous one.
func (c *Capture) Begin() {
	c.mu.Lock()
	c.active = true
	c.down = nil
	c.mu.Unlock()
}

// Cancel ends the session without committing. The previous hotkey stays
// in effect.
func (c *Capture) Cancel() {
	c.mu.Lock()
	c.active = false
	c.down = nil
	c.mu.Unlock()
}

func (c *Capture) Capturing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// KeyDown records a pressed key. It returns the committed combo and true
// once two keys are held together; the session ends on commit.
func (c *Capture) KeyDown(k keys.Key) ([]keys.Key, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.active {
		return nil, false
	}
	for _, held := range c.down {
		if held == k {
			return nil, false
		}
	}
	c.down = append(c.down, k)
	if len(c.down) >= 2 {
		combo := c.down
		c.active = false
		c.down = nil
		return combo, true
	}
	return nil, false
}

// KeyUp records a released key. Releasing the only held key commits it as
// a single-key hotkey, unless it is a modifier, which just leaves the
// session waiting for another key.
func (c *Capture) KeyUp(k keys.Key) ([]keys.Key, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.active {
		return nil, false
	}
	if len(c.down) == 1 && c.down[0] == k && !keys.IsModifier(k) {
		combo := c.down
		c.active = false
		c.down = nil
		return combo, true
	}
	for i, held := range c.down {
		if held == k {
			c.down = append(c.down[:i], c.down[i+1:]...)
			break
		}
	}
	return nil, false
}
