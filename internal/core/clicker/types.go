package clicker

import "cadence/internal/keys"

type Mode int

const (
	ModeClick Mode = iota
	ModeHold
	ModeHumanized
)

func (m Mode) String() string {
	switch m {
	case ModeHold:
		return "Hold"
	case ModeHumanized:
		return "Humanized"
	}
	return "Click"
}

func ParseMode(value string) (Mode, bool) {
	switch value {
	case "Click":
		return ModeClick, true
	case "Hold":
		return ModeHold, true
	case "Humanized":
		return ModeHumanized, true
	}
	return ModeClick, false
}

type Action int

const (
	ActionLeftClick Action = iota
	ActionRightClick
	ActionSpace
)

func (a Action) String() string {
	switch a {
	case ActionRightClick:
		return "RightClick"
	case ActionSpace:
		return "Space"
	}
	return "LeftClick"
}

func ParseAction(value string) (Action, bool) {
	switch value {
	case "LeftClick":
		return ActionLeftClick, true
	case "RightClick":
		return ActionRightClick, true
	case "Space":
		return ActionSpace, true
	}
	return ActionLeftClick, false
}

// WindowHandle is an opaque OS window identifier. Handles are not stable
// across window lifecycle events; resolve a title to a handle right before
// each use and never store one.
type WindowHandle uintptr

type Window struct {
	Handle WindowHandle
	Title  string
}

// Simulator synthesizes input into the OS-wide input stream. Press and
// Release are separate so Hold mode can keep a button down; callers pair
// them per mode.
type Simulator interface {
	Press(action Action) error
	Release(action Action) error
	Close() error
}

// WindowDirectory lists currently visible top-level windows.
type WindowDirectory interface {
	Windows() ([]Window, error)
}

// WindowPoster delivers an action directly to one window, bypassing global
// cursor and focus state.
type WindowPoster interface {
	Post(handle WindowHandle, action Action, pressed bool) error
}

type KeyEvent struct {
	Key     keys.Key
	Pressed bool
}

// KeySource is a stream of global key transitions feeding the recognizer.
type KeySource interface {
	Events() <-chan KeyEvent
	Close() error
}

type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}
