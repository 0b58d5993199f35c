package clicker

import (
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"
)

type simEdge struct {
	action  Action
	pressed bool
}

type recordingSimulator struct {
	mu     sync.Mutex
	edges  []simEdge
	fail   error
	closed bool
}

func (r *recordingSimulator) Press(action Action) error {
	return r.record(action, true)
}

func (r *recordingSimulator) Release(action Action) error {
	return r.record(action, false)
}

func (r *recordingSimulator) record(action Action, pressed bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	r.edges = append(r.edges, simEdge{action: action, pressed: pressed})
	return nil
}

func (r *recordingSimulator) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *recordingSimulator) setFail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fail = err
}

func (r *recordingSimulator) snapshot() []simEdge {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]simEdge, len(r.edges))
	copy(out, r.edges)
	return out
}

func (r *recordingSimulator) isClosed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

type postEdge struct {
	handle  WindowHandle
	action  Action
	pressed bool
}

type recordingPoster struct {
	mu    sync.Mutex
	posts []postEdge
}

func (r *recordingPoster) Post(handle WindowHandle, action Action, pressed bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts = append(r.posts, postEdge{handle: handle, action: action, pressed: pressed})
	return nil
}

func (r *recordingPoster) snapshot() []postEdge {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]postEdge, len(r.posts))
	copy(out, r.posts)
	return out
}

type fakeDirectory struct {
	mu      sync.Mutex
	windows []Window
	err     error
	calls   int
}

func (f *fakeDirectory) Windows() ([]Window, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]Window, len(f.windows))
	copy(out, f.windows)
	return out, nil
}

func (f *fakeDirectory) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

func newTestEngine(t *testing.T, settings *Settings, ports Ports) *Engine {
	t.Helper()
	engine, err := NewEngine(settings, ports, noopLogger{})
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return engine
}

func waitUntil(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within %v", timeout)
}

func TestNewEngineValidation(t *testing.T) {
	if _, err := NewEngine(nil, Ports{Simulator: &recordingSimulator{}}, noopLogger{}); err == nil {
		t.Fatalf("expected error for nil settings")
	}
	if _, err := NewEngine(NewSettings(), Ports{}, noopLogger{}); err == nil {
		t.Fatalf("expected error for nil simulator")
	}
	if _, err := NewEngine(NewSettings(), Ports{Simulator: &recordingSimulator{}}, nil); err == nil {
		t.Fatalf("expected error for nil logger")
	}
	if _, err := NewEngine(NewSettings(), Ports{Simulator: &recordingSimulator{}}, noopLogger{}); err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
}

func TestHumanizedDelayStaysWithinJitterBand(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, cps := range []float64{1, 5, 10, 10.5, 15, 20, 20.5, 35, 42.5, 50} {
		base := 1000.0 / cps
		band := float64(jitterBandMS(cps))
		lo := base - band
		if lo < 1 {
			lo = 1
		}
		hi := base + band
		for i := 0; i < 200; i++ {
			gotMS := float64(humanizedDelay(cps, rng)) / float64(time.Millisecond)
			if gotMS < lo-0.01 || gotMS > hi+0.01 {
				t.Fatalf("humanizedDelay(%v) = %.3fms, want within [%.3f, %.3f]", cps, gotMS, lo, hi)
			}
		}
	}
}

func TestBurstSamplingBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 200; i++ {
		if size := burstSize(80, rng); size < 35 || size > 45 {
			t.Fatalf("burstSize(80) = %d, want within [35, 45]", size)
		}
		if size := burstSize(51, rng); size < 20 || size > 30 {
			t.Fatalf("burstSize(51) = %d, want within [20, 30]", size)
		}
		if size := burstSize(2, rng); size < 0 || size > 6 {
			t.Fatalf("burstSize(2) = %d, want within [0, 6]", size)
		}
		if gap := burstGap(rng); gap < 500*time.Microsecond || gap > 1500*time.Microsecond {
			t.Fatalf("burstGap() = %v, want within [0.5ms, 1.5ms]", gap)
		}
		if pause := burstPause(rng); pause < 450*time.Millisecond || pause > 550*time.Millisecond {
			t.Fatalf("burstPause() = %v, want within [450ms, 550ms]", pause)
		}
	}
}

func TestClickPairSendsPressThenRelease(t *testing.T) {
	sim := &recordingSimulator{}
	settings := NewSettings()
	engine := newTestEngine(t, settings, Ports{Simulator: sim})

	if err := engine.clickPair(settings.Snapshot()); err != nil {
		t.Fatalf("clickPair() error = %v", err)
	}

	edges := sim.snapshot()
	if len(edges) != 2 {
		t.Fatalf("expected 2 edges, got %d", len(edges))
	}
	if edges[0] != (simEdge{action: ActionLeftClick, pressed: true}) {
		t.Fatalf("unexpected first edge: %#v", edges[0])
	}
	if edges[1] != (simEdge{action: ActionLeftClick, pressed: false}) {
		t.Fatalf("unexpected second edge: %#v", edges[1])
	}
}

func TestEmitClickRetriesAfterWriteFailure(t *testing.T) {
	sim := &recordingSimulator{}
	sim.setFail(errors.New("device gone"))
	settings := NewSettings()
	engine := newTestEngine(t, settings, Ports{Simulator: sim})

	if ok := engine.emitClick(settings.Snapshot()); !ok {
		t.Fatalf("emitClick() = false, want retry")
	}
	if got := engine.Clicks(); got != 0 {
		t.Fatalf("Clicks() = %d after failed write, want 0", got)
	}

	sim.setFail(nil)
	if ok := engine.emitClick(settings.Snapshot()); !ok {
		t.Fatalf("emitClick() = false after recovery")
	}
	if got := engine.Clicks(); got != 1 {
		t.Fatalf("Clicks() = %d, want 1", got)
	}
}

func TestHoldReleaseMatchesRecordedPress(t *testing.T) {
	sim := &recordingSimulator{}
	settings := NewSettings()
	settings.SetMode(ModeHold)
	engine := newTestEngine(t, settings, Ports{Simulator: sim})

	if ok := engine.pressHold(settings.Snapshot()); !ok {
		t.Fatalf("pressHold() = false")
	}
	if !engine.holding.Load() {
		t.Fatalf("expected holding after press")
	}

	settings.SetAction(ActionRightClick)
	engine.releaseHeld()

	if engine.holding.Load() {
		t.Fatalf("expected holding cleared after release")
	}
	edges := sim.snapshot()
	if len(edges) != 2 {
		t.Fatalf("expected 2 edges, got %d", len(edges))
	}
	if edges[1] != (simEdge{action: ActionLeftClick, pressed: false}) {
		t.Fatalf("release edge = %#v, want release of the pressed action", edges[1])
	}
}

func TestHoldModePressesOnceAndReleasesOnDisable(t *testing.T) {
	sim := &recordingSimulator{}
	settings := NewSettings()
	settings.SetMode(ModeHold)
	engine := newTestEngine(t, settings, Ports{Simulator: sim})
	engine.Start()
	defer engine.Stop()

	engine.SetActive(true)
	waitUntil(t, 2*time.Second, func() bool { return len(sim.snapshot()) == 1 })
	time.Sleep(50 * time.Millisecond)

	edges := sim.snapshot()
	if len(edges) != 1 || edges[0] != (simEdge{action: ActionLeftClick, pressed: true}) {
		t.Fatalf("expected a single press while holding, got %#v", edges)
	}

	engine.SetActive(false)
	waitUntil(t, 2*time.Second, func() bool { return len(sim.snapshot()) == 2 })

	edges = sim.snapshot()
	if edges[1] != (simEdge{action: ActionLeftClick, pressed: false}) {
		t.Fatalf("expected release after disabling, got %#v", edges[1])
	}
}

func TestHoldModeRepressesAfterActionChange(t *testing.T) {
	sim := &recordingSimulator{}
	settings := NewSettings()
	settings.SetMode(ModeHold)
	engine := newTestEngine(t, settings, Ports{Simulator: sim})
	engine.Start()
	defer engine.Stop()

	engine.SetActive(true)
	waitUntil(t, 2*time.Second, func() bool { return len(sim.snapshot()) == 1 })

	settings.SetAction(ActionRightClick)
	waitUntil(t, 2*time.Second, func() bool { return len(sim.snapshot()) >= 3 })

	edges := sim.snapshot()
	if edges[1] != (simEdge{action: ActionLeftClick, pressed: false}) {
		t.Fatalf("expected old action released first, got %#v", edges[1])
	}
	if edges[2] != (simEdge{action: ActionRightClick, pressed: true}) {
		t.Fatalf("expected new action pressed, got %#v", edges[2])
	}
}

func TestClickModeEmitsCompletePairs(t *testing.T) {
	sim := &recordingSimulator{}
	settings := NewSettings()
	settings.SetDelay(time.Millisecond)
	engine := newTestEngine(t, settings, Ports{Simulator: sim})
	engine.Start()

	engine.SetActive(true)
	waitUntil(t, 2*time.Second, func() bool { return len(sim.snapshot()) >= 6 })
	engine.Stop()

	edges := sim.snapshot()
	if len(edges)%2 != 0 {
		t.Fatalf("expected complete press/release pairs, got %d edges", len(edges))
	}
	for i, edge := range edges {
		want := simEdge{action: ActionLeftClick, pressed: i%2 == 0}
		if edge != want {
			t.Fatalf("edge %d = %#v, want %#v", i, edge, want)
		}
	}
}

func TestStopReleasesHeldBeforeClosingSimulator(t *testing.T) {
	sim := &recordingSimulator{}
	settings := NewSettings()
	settings.SetMode(ModeHold)
	engine := newTestEngine(t, settings, Ports{Simulator: sim})
	engine.Start()

	engine.SetActive(true)
	waitUntil(t, 2*time.Second, func() bool { return len(sim.snapshot()) == 1 })

	engine.Stop()

	if !sim.isClosed() {
		t.Fatalf("expected simulator to be closed")
	}
	edges := sim.snapshot()
	if len(edges) != 2 {
		t.Fatalf("expected press and release, got %#v", edges)
	}
	if edges[1] != (simEdge{action: ActionLeftClick, pressed: false}) {
		t.Fatalf("expected trailing release, got %#v", edges[1])
	}
}

func TestTargetMissingEmitsNothing(t *testing.T) {
	sim := &recordingSimulator{}
	poster := &recordingPoster{}
	dir := &fakeDirectory{windows: []Window{{Handle: 1, Title: "Editor"}}}
	settings := NewSettings()
	settings.SetDelay(time.Millisecond)
	settings.SetTarget("Game")
	engine := newTestEngine(t, settings, Ports{Simulator: sim, Windows: dir, Poster: poster})
	engine.Start()
	defer engine.Stop()

	engine.SetActive(true)
	waitUntil(t, 2*time.Second, func() bool { return dir.callCount() >= 3 })
	engine.SetActive(false)

	if edges := sim.snapshot(); len(edges) != 0 {
		t.Fatalf("expected no global input with a target configured, got %#v", edges)
	}
	if posts := poster.snapshot(); len(posts) != 0 {
		t.Fatalf("expected no posts for a missing window, got %#v", posts)
	}
}

func TestTargetResolvedPostsDirectly(t *testing.T) {
	sim := &recordingSimulator{}
	poster := &recordingPoster{}
	dir := &fakeDirectory{windows: []Window{{Handle: 7, Title: "Game"}}}
	settings := NewSettings()
	settings.SetDelay(time.Millisecond)
	settings.SetTarget("Game")
	engine := newTestEngine(t, settings, Ports{Simulator: sim, Windows: dir, Poster: poster})
	engine.Start()

	engine.SetActive(true)
	waitUntil(t, 2*time.Second, func() bool { return len(poster.snapshot()) >= 4 })
	engine.Stop()

	if edges := sim.snapshot(); len(edges) != 0 {
		t.Fatalf("expected no global input with a resolved target, got %#v", edges)
	}
	posts := poster.snapshot()
	if len(posts)%2 != 0 {
		t.Fatalf("expected complete post pairs, got %d posts", len(posts))
	}
	for i, post := range posts {
		want := postEdge{handle: 7, action: ActionLeftClick, pressed: i%2 == 0}
		if post != want {
			t.Fatalf("post %d = %#v, want %#v", i, post, want)
		}
	}
}

func TestTargetWithoutWindowPortsEmitsNothing(t *testing.T) {
	sim := &recordingSimulator{}
	settings := NewSettings()
	settings.SetTarget("Game")
	engine := newTestEngine(t, settings, Ports{Simulator: sim})

	if err := engine.clickPair(settings.Snapshot()); err != nil {
		t.Fatalf("clickPair() error = %v", err)
	}
	if edges := sim.snapshot(); len(edges) != 0 {
		t.Fatalf("expected no edges without window ports, got %#v", edges)
	}
}

func TestSetActiveSignalsWakeOnTransitions(t *testing.T) {
	engine := newTestEngine(t, NewSettings(), Ports{Simulator: &recordingSimulator{}})

	engine.SetActive(true)
	select {
	case <-engine.wakeCh:
	default:
		t.Fatalf("expected wake signal after enabling")
	}

	engine.SetActive(true)
	select {
	case <-engine.wakeCh:
		t.Fatalf("expected no wake signal for a repeated state")
	default:
	}

	engine.SetActive(false)
	select {
	case <-engine.wakeCh:
	default:
		t.Fatalf("expected wake signal after disabling")
	}
}

func TestWaitWithWakeReturnsOnSignal(t *testing.T) {
	engine := newTestEngine(t, NewSettings(), Ports{Simulator: &recordingSimulator{}})

	done := make(chan time.Duration, 1)
	go func() {
		start := time.Now()
		if !engine.waitWithWake(5 * time.Second) {
			done <- -1
			return
		}
		done <- time.Since(start)
	}()

	time.Sleep(20 * time.Millisecond)
	engine.signalWake()

	select {
	case elapsed := <-done:
		if elapsed < 0 {
			t.Fatalf("waitWithWake returned false")
		}
		if elapsed > 150*time.Millisecond {
			t.Fatalf("waitWithWake did not wake promptly: %v", elapsed)
		}
	case <-time.After(300 * time.Millisecond):
		t.Fatalf("timeout waiting for wake")
	}
}
