//go:build windows

package main

import (
	"fmt"
	"strings"

	"cadence/internal/adapters/hookinput"
	"cadence/internal/adapters/sysinput"
	"cadence/internal/adapters/wintarget"
	"cadence/internal/core/clicker"
)

func parseBackendChoice(value string) (string, error) {
	backend := strings.ToLower(strings.TrimSpace(value))
	if backend == "" {
		backend = "auto"
	}
	switch backend {
	case "auto", "windows":
		return backend, nil
	default:
		return "", fmt.Errorf("invalid --backend %q (windows supports auto|windows)", value)
	}
}

func openPlatformPorts(backend string, logger clicker.Logger) (platformPorts, error) {
	logger.Info("Backend", "name", "windows")
	return platformPorts{
		simulator: sysinput.New(),
		windows:   wintarget.NewDirectory(),
		poster:    wintarget.NewPoster(),
		source:    hookinput.Start(logger),
	}, nil
}

func listWindowTitles() ([]string, error) {
	windows, err := wintarget.NewDirectory().Windows()
	if err != nil {
		return nil, err
	}
	titles := make([]string, 0, len(windows))
	for _, w := range windows {
		titles = append(titles, w.Title)
	}
	return titles, nil
}

func permissionDeniedHint() string {
	return "Permission denied registering global input hooks. Run as Administrator and ensure input-hooking is allowed."
}
