package clicker

import (
	"testing"

	"cadence/internal/keys"
)

func TestCaptureChordCommitsOnSecondKey(t *testing.T) {
	capture := NewCapture()
	capture.Begin()

	if combo, done := capture.KeyDown(keys.LeftCtrl); done {
		t.Fatalf("unexpected commit after one key: %v", combo)
	}
	combo, done := capture.KeyDown(keys.F6)
	if !done {
		t.Fatalf("expected commit once two keys are held")
	}
	if !keys.Equal(combo, []keys.Key{keys.LeftCtrl, keys.F6}) {
		t.Fatalf("combo = %v, want [Left Ctrl F6]", combo)
	}
	if capture.Capturing() {
		t.Fatalf("expected session to end on commit")
	}
}

func TestCaptureSingleKeyCommitsOnRelease(t *testing.T) {
	capture := NewCapture()
	capture.Begin()

	if _, done := capture.KeyDown(keys.F7); done {
		t.Fatalf("single key must not commit on press")
	}
	combo, done := capture.KeyUp(keys.F7)
	if !done {
		t.Fatalf("expected commit on release of a single key")
	}
	if !keys.Equal(combo, []keys.Key{keys.F7}) {
		t.Fatalf("combo = %v, want [F7]", combo)
	}
}

func TestCaptureModifierAloneDoesNotCommit(t *testing.T) {
	capture := NewCapture()
	capture.Begin()

	capture.KeyDown(keys.LeftShift)
	if _, done := capture.KeyUp(keys.LeftShift); done {
		t.Fatalf("modifier release alone must not commit")
	}
	if !capture.Capturing() {
		t.Fatalf("expected session to keep waiting after modifier release")
	}

	capture.KeyDown(keys.Space)
	combo, done := capture.KeyUp(keys.Space)
	if !done {
		t.Fatalf("expected commit for a later non-modifier key")
	}
	if !keys.Equal(combo, []keys.Key{keys.Space}) {
		t.Fatalf("combo = %v, want [Space]", combo)
	}
}

func TestCaptureModifierStartsChord(t *testing.T) {
	capture := NewCapture()
	capture.Begin()

	capture.KeyDown(keys.LeftShift)
	combo, done := capture.KeyDown(keys.Space)
	if !done {
		t.Fatalf("expected chord commit with a held modifier")
	}
	if !keys.Equal(combo, []keys.Key{keys.LeftShift, keys.Space}) {
		t.Fatalf("combo = %v, want [Left Shift Space]", combo)
	}
}

func TestCaptureCancelDiscardsPartialState(t *testing.T) {
	capture := NewCapture()
	capture.Begin()

	capture.KeyDown(keys.F6)
	capture.Cancel()

	if capture.Capturing() {
		t.Fatalf("expected session to be inactive after cancel")
	}
	if _, done := capture.KeyUp(keys.F6); done {
		t.Fatalf("release after cancel must not commit")
	}
}

func TestCaptureIgnoresKeysWhenIdle(t *testing.T) {
	capture := NewCapture()

	if _, done := capture.KeyDown(keys.F6); done {
		t.Fatalf("idle capture must ignore key presses")
	}
	if _, done := capture.KeyUp(keys.F6); done {
		t.Fatalf("idle capture must ignore key releases")
	}
}

func TestCaptureBeginRestartsSession(t *testing.T) {
	capture := NewCapture()
	capture.Begin()
	capture.KeyDown(keys.F6)

	capture.Begin()
	combo, done := capture.KeyUp(keys.F7)
	if done {
		t.Fatalf("unexpected commit: %v", combo)
	}
	capture.KeyDown(keys.F7)
	combo, done = capture.KeyUp(keys.F7)
	if !done || !keys.Equal(combo, []keys.Key{keys.F7}) {
		t.Fatalf("combo = %v done = %v, want [F7] true", combo, done)
	}
}
