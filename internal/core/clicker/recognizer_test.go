package clicker

import (
	"testing"

	"cadence/internal/keys"
)

func newRecognizerFixture(t *testing.T) (*Settings, *Engine, *Capture, *Recognizer) {
	t.Helper()
	settings := NewSettings()
	engine := newTestEngine(t, settings, Ports{Simulator: &recordingSimulator{}})
	capture := NewCapture()
	return settings, engine, capture, NewRecognizer(settings, engine, capture, noopLogger{})
}

func press(r *Recognizer, k keys.Key) {
	r.HandleKey(KeyEvent{Key: k, Pressed: true})
}

func release(r *Recognizer, k keys.Key) {
	r.HandleKey(KeyEvent{Key: k, Pressed: false})
}

func TestSingleKeyTogglesOnEveryPress(t *testing.T) {
	_, engine, _, rec := newRecognizerFixture(t)

	press(rec, keys.F6)
	if !engine.Active() {
		t.Fatalf("expected active after first press")
	}
	release(rec, keys.F6)
	if !engine.Active() {
		t.Fatalf("release must not toggle")
	}
	press(rec, keys.F6)
	if engine.Active() {
		t.Fatalf("expected inactive after second press")
	}
}

func TestUnrelatedKeyNeverToggles(t *testing.T) {
	_, engine, _, rec := newRecognizerFixture(t)

	press(rec, keys.F7)
	release(rec, keys.F7)
	press(rec, keys.Space)
	release(rec, keys.Space)

	if engine.Active() {
		t.Fatalf("unrelated keys must not toggle the engine")
	}
}

func TestChordFiresOnlyWhenAllKeysHeld(t *testing.T) {
	settings, engine, _, rec := newRecognizerFixture(t)
	settings.SetHotkey([]keys.Key{keys.LeftCtrl, keys.F6})

	press(rec, keys.F6)
	if engine.Active() {
		t.Fatalf("partial chord must not fire")
	}
	release(rec, keys.F6)

	press(rec, keys.LeftCtrl)
	if engine.Active() {
		t.Fatalf("partial chord must not fire")
	}
	press(rec, keys.F6)
	if !engine.Active() {
		t.Fatalf("expected toggle once the whole chord is held")
	}
}

func TestChordFiresOncePerSatisfaction(t *testing.T) {
	settings, engine, _, rec := newRecognizerFixture(t)
	settings.SetHotkey([]keys.Key{keys.LeftCtrl, keys.F6})

	press(rec, keys.LeftCtrl)
	press(rec, keys.F6)
	if !engine.Active() {
		t.Fatalf("expected toggle on chord completion")
	}

	press(rec, keys.F6)
	if !engine.Active() {
		t.Fatalf("repeated press of a held key must not re-fire")
	}

	release(rec, keys.F6)
	press(rec, keys.F6)
	if engine.Active() {
		t.Fatalf("expected re-fire after partial release and re-press")
	}
}

func TestHotkeyChangeTakesEffectImmediately(t *testing.T) {
	settings, engine, _, rec := newRecognizerFixture(t)
	settings.SetHotkey([]keys.Key{keys.F8})

	press(rec, keys.F6)
	if engine.Active() {
		t.Fatalf("old combo must not fire after rebinding")
	}
	press(rec, keys.F8)
	if !engine.Active() {
		t.Fatalf("expected new combo to fire")
	}
}

func TestCaptureSuspendsGlobalRecognition(t *testing.T) {
	_, engine, capture, rec := newRecognizerFixture(t)

	capture.Begin()
	press(rec, keys.F6)
	release(rec, keys.F6)
	if engine.Active() {
		t.Fatalf("recognizer must ignore events during capture")
	}

	capture.Cancel()
	press(rec, keys.F6)
	if !engine.Active() {
		t.Fatalf("expected recognition to resume after capture ends")
	}
}

func TestResetForgetsHeldKeys(t *testing.T) {
	settings, engine, _, rec := newRecognizerFixture(t)
	settings.SetHotkey([]keys.Key{keys.LeftCtrl, keys.F6})

	press(rec, keys.LeftCtrl)
	rec.Reset()
	press(rec, keys.F6)

	if engine.Active() {
		t.Fatalf("keys held before Reset must not complete the chord")
	}
}
