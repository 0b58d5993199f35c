// Package wintarget resolves window titles to handles and posts input
// messages straight to a window's queue, so clicks land in a chosen
// window without moving the cursor or stealing focus.
package wintarget

import "cadence/internal/core/clicker"

const (
	wmKeyDown     = 0x0100
	wmKeyUp       = 0x0101
	wmLButtonDown = 0x0201
	wmLButtonUp   = 0x0202
	wmRButtonDown = 0x0204
	wmRButtonUp   = 0x0205

	mkLButton = 0x0001
	mkRButton = 0x0002

	vkSpace = 0x20
)

// messageFor maps one action edge onto the Win32 message and wParam the
// target window expects. Button-down messages carry the matching MK flag;
// button-up messages carry none.
func messageFor(action clicker.Action, pressed bool) (msg uint32, wParam uintptr) {
	switch action {
	case clicker.ActionRightClick:
		if pressed {
			return wmRButtonDown, mkRButton
		}
		return wmRButtonUp, 0
	case clicker.ActionSpace:
		if pressed {
			return wmKeyDown, vkSpace
		}
		return wmKeyUp, vkSpace
	default:
		if pressed {
			return wmLButtonDown, mkLButton
		}
		return wmLButtonUp, 0
	}
}

// clientLParam packs client coordinates the way mouse messages carry
// them, x in the low word and y in the high word.
func clientLParam(x, y int32) uintptr {
	return uintptr(uint32(y)<<16 | uint32(x)&0xFFFF)
}
