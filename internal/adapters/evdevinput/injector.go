//go:build linux

// Package evdevinput backs the clicker with the kernel input layer. The
// injector emits through a uinput device and the listener reads raw
// /dev/input devices, which keeps both directions working under Wayland
// where no global hook or XTest is available.
package evdevinput

import (
	evdev "github.com/holoplot/go-evdev"

	"cadence/internal/core/clicker"
)

// Injector is a virtual uinput device exposing exactly the codes the
// supported actions need.
type Injector struct {
	dev *evdev.InputDevice
}

func NewInjector() (*Injector, error) {
	id := evdev.InputID{
		BusType: uint16(evdev.BUS_VIRTUAL),
		Vendor:  0x1,
		Product: 0x1,
		Version: 1,
	}
	capabilities := map[evdev.EvType][]evdev.EvCode{
		evdev.EV_KEY: {evdev.KEY_SPACE, evdev.BTN_LEFT, evdev.BTN_RIGHT},
	}

	dev, err := evdev.CreateDevice("cadence-clicker", id, capabilities)
	if err != nil {
		return nil, err
	}
	return &Injector{dev: dev}, nil
}

func (i *Injector) Press(action clicker.Action) error {
	return i.write(action, 1)
}

func (i *Injector) Release(action clicker.Action) error {
	return i.write(action, 0)
}

func (i *Injector) write(action clicker.Action, value int32) error {
	events := []evdev.InputEvent{
		{Type: evdev.EV_KEY, Code: actionCode(action), Value: value},
		{Type: evdev.EV_SYN, Code: evdev.SYN_REPORT, Value: 0},
	}
	for idx := range events {
		if err := i.dev.WriteOne(&events[idx]); err != nil {
			return err
		}
	}
	return nil
}

func (i *Injector) Close() error {
	if i.dev == nil {
		return nil
	}
	return i.dev.Close()
}

func actionCode(action clicker.Action) evdev.EvCode {
	switch action {
	case clicker.ActionRightClick:
		return evdev.BTN_RIGHT
	case clicker.ActionSpace:
		return evdev.KEY_SPACE
	default:
		return evdev.BTN_LEFT
	}
}
