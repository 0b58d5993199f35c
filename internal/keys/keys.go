// Package keys is the single lookup table for hotkey-capable keys. The
// canonical name of a key is used everywhere: config files, UI labels and
// recognizer state all share it, so a saved combination always parses back.
package keys

import "strings"

type Key string

const (
	F1  Key = "F1"
	F2  Key = "F2"
	F3  Key = "F3"
	F4  Key = "F4"
	F5  Key = "F5"
	F6  Key = "F6"
	F7  Key = "F7"
	F8  Key = "F8"
	F9  Key = "F9"
	F10 Key = "F10"
	F11 Key = "F11"
	F12 Key = "F12"

	Space  Key = "Space"
	Enter  Key = "Enter"
	Escape Key = "Escape"
	Tab    Key = "Tab"

	Home     Key = "Home"
	End      Key = "End"
	PageUp   Key = "Page Up"
	PageDown Key = "Page Down"
	Insert   Key = "Insert"
	Delete   Key = "Delete"

	Up    Key = "Up"
	Down  Key = "Down"
	Left  Key = "Left"
	Right Key = "Right"

	Backspace Key = "Backspace"
	CapsLock  Key = "Caps Lock"

	LeftShift Key = "Left Shift"
	LeftCtrl  Key = "Left Ctrl"
	Alt       Key = "Alt"
)

var all = []Key{
	F1, F2, F3, F4, F5, F6, F7, F8, F9, F10, F11, F12,
	Space, Enter, Escape, Tab,
	Home, End, PageUp, PageDown, Insert, Delete,
	Up, Down, Left, Right,
	Backspace, CapsLock,
	LeftShift, LeftCtrl, Alt,
}

// aliases maps normalized legacy/shorthand spellings onto canonical keys.
// Older config files spelled some keys without spaces ("PageUp") and never
// wrote modifiers at all; both generations parse here.
var aliases = map[string]Key{
	"esc":       Escape,
	"return":    Enter,
	"pgup":      PageUp,
	"pgdown":    PageDown,
	"pgdn":      PageDown,
	"shift":     LeftShift,
	"lshift":    LeftShift,
	"ctrl":      LeftCtrl,
	"lctrl":     LeftCtrl,
	"control":   LeftCtrl,
	"lalt":      Alt,
	"caps":      CapsLock,
	"del":       Delete,
	"ins":       Insert,
	"arrowup":   Up,
	"arrowdown": Down,
	"arrowleft": Left,
	"arrowright": Right,
}

var byNormalizedName map[string]Key

func init() {
	byNormalizedName = make(map[string]Key, len(all)+len(aliases))
	for _, k := range all {
		byNormalizedName[normalize(string(k))] = k
	}
	for alias, k := range aliases {
		byNormalizedName[alias] = k
	}
}

func normalize(value string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(value)), " ", "")
}

// Parse resolves a config or display spelling to its canonical key.
func Parse(value string) (Key, bool) {
	k, ok := byNormalizedName[normalize(value)]
	return k, ok
}

// ParseList resolves a list of spellings, dropping entries that do not
// name a known key.
func ParseList(values []string) []Key {
	out := make([]Key, 0, len(values))
	for _, value := range values {
		k, ok := Parse(value)
		if !ok {
			continue
		}
		out = append(out, k)
	}
	return out
}

func Valid(k Key) bool {
	_, ok := byNormalizedName[normalize(string(k))]
	return ok
}

func IsModifier(k Key) bool {
	switch k {
	case LeftShift, LeftCtrl, Alt:
		return true
	}
	return false
}

// All returns the full table in display order.
func All() []Key {
	out := make([]Key, len(all))
	copy(out, all)
	return out
}

// Names converts a combination to its config representation.
func Names(combo []Key) []string {
	out := make([]string, len(combo))
	for i, k := range combo {
		out[i] = string(k)
	}
	return out
}

// Label renders a combination for the UI, e.g. "Left Ctrl + F6".
func Label(combo []Key) string {
	if len(combo) == 0 {
		return "-"
	}
	return strings.Join(Names(combo), " + ")
}

// Equal reports whether two combinations contain the same keys in the
// same order.
func Equal(a, b []Key) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
