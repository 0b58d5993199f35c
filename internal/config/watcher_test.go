package config

import (
	"path/filepath"
	"testing"
	"time"
)

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

func TestWatcherAppliesChangedConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := Save(Default(), path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	applied := make(chan Config, 4)
	watcher, err := NewWatcher(path, func(cfg Config) { applied <- cfg }, noopLogger{})
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer watcher.Close()

	cfg := Default()
	cfg.ClickMode = "Humanized"
	cfg.CPS = 42.5
	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	select {
	case got := <-applied:
		if got.ClickMode != "Humanized" || got.CPS != 42.5 {
			t.Fatalf("applied config = %+v", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("timeout waiting for reload")
	}
}

func TestWatcherIgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	applied := make(chan Config, 4)
	watcher, err := NewWatcher(path, func(cfg Config) { applied <- cfg }, noopLogger{})
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer watcher.Close()

	if err := Save(Default(), filepath.Join(dir, "other.json")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	select {
	case cfg := <-applied:
		t.Fatalf("unexpected reload for unrelated file: %+v", cfg)
	case <-time.After(700 * time.Millisecond):
	}
}

func TestWatcherCoalescesRapidSaves(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	applied := make(chan Config, 4)
	watcher, err := NewWatcher(path, func(cfg Config) { applied <- cfg }, noopLogger{})
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer watcher.Close()

	for _, cps := range []float64{10, 20, 30} {
		cfg := Default()
		cfg.CPS = cps
		if err := Save(cfg, path); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	select {
	case got := <-applied:
		if got.CPS != 30 {
			t.Fatalf("applied CPS = %v, want the last written value", got.CPS)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("timeout waiting for reload")
	}

	select {
	case got := <-applied:
		t.Fatalf("expected a single coalesced reload, got another: %+v", got)
	case <-time.After(700 * time.Millisecond):
	}
}
