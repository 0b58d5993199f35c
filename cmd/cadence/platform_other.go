//go:build !linux && !windows

package main

import (
	"fmt"
	"strings"

	"cadence/internal/core/clicker"
)

func parseBackendChoice(value string) (string, error) {
	backend := strings.ToLower(strings.TrimSpace(value))
	if backend == "" || backend == "auto" {
		return "auto", nil
	}
	return "", fmt.Errorf("invalid --backend %q (unsupported platform)", value)
}

func openPlatformPorts(_ string, _ clicker.Logger) (platformPorts, error) {
	return platformPorts{}, fmt.Errorf("input simulation is not supported on this platform")
}

func listWindowTitles() ([]string, error) {
	return nil, fmt.Errorf("window listing is not supported on this platform")
}

func permissionDeniedHint() string {
	return "Permission denied opening input backend."
}
