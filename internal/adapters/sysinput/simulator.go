// Package sysinput injects global input through robotgo, pressing real
// buttons and keys at the OS level wherever the cursor happens to be.
package sysinput

import (
	"github.com/go-vgo/robotgo"

	"cadence/internal/core/clicker"
)

type Simulator struct{}

func New() *Simulator {
	return &Simulator{}
}

func (*Simulator) Press(action clicker.Action) error {
	switch action {
	case clicker.ActionSpace:
		return robotgo.KeyToggle("space", "down")
	case clicker.ActionRightClick:
		return robotgo.Toggle("right", "down")
	default:
		return robotgo.Toggle("left", "down")
	}
}

func (*Simulator) Release(action clicker.Action) error {
	switch action {
	case clicker.ActionSpace:
		return robotgo.KeyToggle("space", "up")
	case clicker.ActionRightClick:
		return robotgo.Toggle("right", "up")
	default:
		return robotgo.Toggle("left", "up")
	}
}

// Close is a no-op; robotgo keeps no per-caller state.
func (*Simulator) Close() error {
	return nil
}
