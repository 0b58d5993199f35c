//go:build windows

package wintarget

import (
	"fmt"
	"strings"
	"sync"
	"syscall"
	"unsafe"

	"cadence/internal/core/clicker"
)

var (
	user32 = syscall.NewLazyDLL("user32.dll")

	procEnumWindows     = user32.NewProc("EnumWindows")
	procIsWindowVisible = user32.NewProc("IsWindowVisible")
	procGetWindowTextW  = user32.NewProc("GetWindowTextW")
	procGetClientRect   = user32.NewProc("GetClientRect")
	procPostMessageW    = user32.NewProc("PostMessageW")

	enumCallback = syscall.NewCallback(collectWindow)

	// collectMu serializes enumerations; the callback writes into the
	// shared collected slice.
	collectMu sync.Mutex
	collected []clicker.Window
)

// collectWindow is the EnumWindows callback. Invisible windows, untitled
// windows and the desktop shell's "Program Manager" are not click
// targets and are filtered out here.
func collectWindow(hwnd uintptr, lParam uintptr) uintptr {
	visible, _, _ := procIsWindowVisible.Call(hwnd)
	if visible == 0 {
		return 1
	}
	title := windowText(hwnd)
	if title == "" || title == "Program Manager" {
		return 1
	}
	collected = append(collected, clicker.Window{
		Handle: clicker.WindowHandle(hwnd),
		Title:  title,
	})
	return 1
}

func windowText(hwnd uintptr) string {
	var buf [256]uint16
	length, _, _ := procGetWindowTextW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if length == 0 {
		return ""
	}
	return strings.TrimSpace(syscall.UTF16ToString(buf[:length]))
}

// Directory lists the currently visible top-level windows.
type Directory struct{}

func NewDirectory() *Directory {
	return &Directory{}
}

func (*Directory) Windows() ([]clicker.Window, error) {
	collectMu.Lock()
	defer collectMu.Unlock()

	collected = nil
	ret, _, callErr := procEnumWindows.Call(enumCallback, 0)
	if ret == 0 {
		return nil, fmt.Errorf("EnumWindows failed: %w", callErr)
	}
	windows := collected
	collected = nil
	return windows, nil
}

type rect struct {
	Left   int32
	Top    int32
	Right  int32
	Bottom int32
}

// Poster delivers action edges to a window with PostMessageW. Mouse
// messages aim at the center of the window's client area.
type Poster struct{}

func NewPoster() *Poster {
	return &Poster{}
}

func (*Poster) Post(handle clicker.WindowHandle, action clicker.Action, pressed bool) error {
	msg, wParam := messageFor(action, pressed)

	var lParam uintptr
	if action != clicker.ActionSpace {
		var r rect
		ret, _, callErr := procGetClientRect.Call(uintptr(handle), uintptr(unsafe.Pointer(&r)))
		if ret == 0 {
			return fmt.Errorf("GetClientRect failed: %w", callErr)
		}
		lParam = clientLParam((r.Right-r.Left)/2, (r.Bottom-r.Top)/2)
	}

	ret, _, callErr := procPostMessageW.Call(uintptr(handle), uintptr(msg), wParam, lParam)
	if ret == 0 {
		return fmt.Errorf("PostMessageW failed: %w", callErr)
	}
	return nil
}
