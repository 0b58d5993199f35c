package hookinput

import (
	hook "github.com/robotn/gohook"

	"cadence/internal/keys"
)

// hookNames maps canonical key names to the spellings gohook's Keycode
// table uses. Keys whose spelling is missing from the running gohook
// build are skipped at init and simply never arrive from the hook.
var hookNames = map[keys.Key]string{
	keys.F1:        "f1",
	keys.F2:        "f2",
	keys.F3:        "f3",
	keys.F4:        "f4",
	keys.F5:        "f5",
	keys.F6:        "f6",
	keys.F7:        "f7",
	keys.F8:        "f8",
	keys.F9:        "f9",
	keys.F10:       "f10",
	keys.F11:       "f11",
	keys.F12:       "f12",
	keys.Space:     "space",
	keys.Enter:     "enter",
	keys.Escape:    "esc",
	keys.Tab:       "tab",
	keys.Home:      "home",
	keys.End:       "end",
	keys.PageUp:    "pageup",
	keys.PageDown:  "pagedown",
	keys.Insert:    "insert",
	keys.Delete:    "delete",
	keys.Up:        "up",
	keys.Down:      "down",
	keys.Left:      "left",
	keys.Right:     "right",
	keys.Backspace: "backspace",
	keys.CapsLock:  "capslock",
	keys.LeftShift: "shift",
	keys.LeftCtrl:  "ctrl",
	keys.Alt:       "alt",
}

var codeToKey = make(map[uint16]keys.Key, len(hookNames))

func init() {
	for k, name := range hookNames {
		code, ok := hook.Keycode[name]
		if !ok || code == 0 {
			continue
		}
		codeToKey[code] = k
	}
}

func keyFromCode(code uint16) (keys.Key, bool) {
	k, ok := codeToKey[code]
	return k, ok
}
