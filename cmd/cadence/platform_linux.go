//go:build linux

package main

import (
	"fmt"
	"os"
	"strings"

	"cadence/internal/adapters/evdevinput"
	"cadence/internal/adapters/hookinput"
	"cadence/internal/adapters/sysinput"
	"cadence/internal/core/clicker"
)

func parseBackendChoice(value string) (string, error) {
	backend := strings.ToLower(strings.TrimSpace(value))
	if backend == "" {
		backend = "auto"
	}
	switch backend {
	case "auto", "wayland", "x11", "evdev":
		return backend, nil
	default:
		return "", fmt.Errorf("invalid --backend %q (linux supports auto|wayland|x11)", value)
	}
}

// openPlatformPorts wires the Linux input stack. Wayland sessions read and
// write /dev/input directly; X11 sessions go through the display server's
// hook API, which needs no device permissions.
func openPlatformPorts(backend string, logger clicker.Logger) (platformPorts, error) {
	resolved := resolveLinuxBackend(backend)
	logger.Info("Backend", "name", resolved)

	if resolved == "x11" {
		return platformPorts{
			simulator: sysinput.New(),
			source:    hookinput.Start(logger),
		}, nil
	}

	injector, err := evdevinput.NewInjector()
	if err != nil {
		return platformPorts{}, fmt.Errorf("failed to create virtual input device: %w", err)
	}
	source, err := evdevinput.StartListener(logger)
	if err != nil {
		_ = injector.Close()
		return platformPorts{}, err
	}
	return platformPorts{
		simulator: injector,
		source:    source,
	}, nil
}

func listWindowTitles() ([]string, error) {
	return nil, fmt.Errorf("window listing is only supported on Windows")
}

func permissionDeniedHint() string {
	return "Permission denied opening input backend. On Wayland use root/udev for /dev/input + /dev/uinput. On X11 ensure an active X11 session and DISPLAY is set."
}

func resolveLinuxBackend(configured string) string {
	choice := strings.ToLower(strings.TrimSpace(configured))
	if choice == "" {
		choice = "auto"
	}
	if choice == "evdev" {
		choice = "wayland"
	}
	if choice != "auto" {
		return choice
	}

	sessionType := strings.ToLower(strings.TrimSpace(os.Getenv("XDG_SESSION_TYPE")))
	switch sessionType {
	case "wayland":
		return "wayland"
	case "x11":
		return "x11"
	}

	if strings.TrimSpace(os.Getenv("WAYLAND_DISPLAY")) != "" {
		return "wayland"
	}
	if strings.TrimSpace(os.Getenv("DISPLAY")) != "" {
		return "x11"
	}
	return "wayland"
}
