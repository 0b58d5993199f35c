//go:build linux

package evdevinput

import (
	evdev "github.com/holoplot/go-evdev"

	"cadence/internal/keys"
)

var keyCodes = map[evdev.EvCode]keys.Key{
	evdev.KEY_F1:        keys.F1,
	evdev.KEY_F2:        keys.F2,
	evdev.KEY_F3:        keys.F3,
	evdev.KEY_F4:        keys.F4,
	evdev.KEY_F5:        keys.F5,
	evdev.KEY_F6:        keys.F6,
	evdev.KEY_F7:        keys.F7,
	evdev.KEY_F8:        keys.F8,
	evdev.KEY_F9:        keys.F9,
	evdev.KEY_F10:       keys.F10,
	evdev.KEY_F11:       keys.F11,
	evdev.KEY_F12:       keys.F12,
	evdev.KEY_SPACE:     keys.Space,
	evdev.KEY_ENTER:     keys.Enter,
	evdev.KEY_ESC:       keys.Escape,
	evdev.KEY_TAB:       keys.Tab,
	evdev.KEY_HOME:      keys.Home,
	evdev.KEY_END:       keys.End,
	evdev.KEY_PAGEUP:    keys.PageUp,
	evdev.KEY_PAGEDOWN:  keys.PageDown,
	evdev.KEY_INSERT:    keys.Insert,
	evdev.KEY_DELETE:    keys.Delete,
	evdev.KEY_UP:        keys.Up,
	evdev.KEY_DOWN:      keys.Down,
	evdev.KEY_LEFT:      keys.Left,
	evdev.KEY_RIGHT:     keys.Right,
	evdev.KEY_BACKSPACE: keys.Backspace,
	evdev.KEY_CAPSLOCK:  keys.CapsLock,
	evdev.KEY_LEFTSHIFT: keys.LeftShift,
	evdev.KEY_LEFTCTRL:  keys.LeftCtrl,
	evdev.KEY_LEFTALT:   keys.Alt,
}

func keyFromCode(code evdev.EvCode) (keys.Key, bool) {
	k, ok := keyCodes[code]
	return k, ok
}
