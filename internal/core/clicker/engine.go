package clicker

import (
	"errors"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"
)

const (
	// idlePoll bounds how long the loop sleeps between checks while
	// inactive, so a toggle is picked up promptly even without a wake.
	idlePoll = 10 * time.Millisecond

	// burstThresholdCPS is the rate above which Humanized mode switches
	// from per-click pacing to burst scheduling.
	burstThresholdCPS = 50.0

	// writeBackoff spaces retries after a failed injection so a broken
	// output device does not spin the loop.
	writeBackoff = 100 * time.Millisecond

	progressEvery = time.Second
)

// Ports gathers the engine's external dependencies. Simulator is required.
// Windows and Poster are optional; without them a configured target title
// silently degrades to a no-op.
type Ports struct {
	Simulator Simulator
	Windows   WindowDirectory
	Poster    WindowPoster
}

// Engine runs the clicking loop. One goroutine owns all input emission;
// other goroutines only flip flags and signal wakes.
type Engine struct {
	settings *Settings
	ports    Ports
	logger   Logger

	active     atomic.Bool
	holding    atomic.Bool
	clickCount atomic.Int64

	stateMu    sync.Mutex
	heldAction Action
	heldTarget string

	rng *rand.Rand

	wakeCh    chan struct{}
	stopCh    chan struct{}
	stopOnce  sync.Once
	workersWG sync.WaitGroup
}

func NewEngine(settings *Settings, ports Ports, logger Logger) (*Engine, error) {
	if settings == nil {
		return nil, errors.New("settings must not be nil")
	}
	if ports.Simulator == nil {
		return nil, errors.New("simulator must not be nil")
	}
	if logger == nil {
		return nil, errors.New("logger must not be nil")
	}
	return &Engine{
		settings: settings,
		ports:    ports,
		logger:   logger,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		wakeCh:   make(chan struct{}, 1),
		stopCh:   make(chan struct{}),
	}, nil
}

// Start launches the clicking loop.
func (e *Engine) Start() {
	e.workersWG.Add(1)
	go e.run()
}

// Stop halts the loop, releases any held input and closes the simulator.
// It is safe to call more than once.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() {
		close(e.stopCh)
		e.workersWG.Wait()
		e.releaseHeld()
		if err := e.ports.Simulator.Close(); err != nil {
			e.logger.Warn("Failed to close simulator", "err", err)
		}
	})
}

func (e *Engine) Active() bool {
	return e.active.Load()
}

// SetActive flips the clicking flag and wakes the loop so both starting
// and stopping take effect without waiting out a pending delay.
func (e *Engine) SetActive(active bool) {
	if e.active.Swap(active) == active {
		return
	}
	if active {
		e.logger.Info("Clicking enabled")
	} else {
		e.logger.Info("Clicking disabled")
	}
	e.signalWake()
}

func (e *Engine) Toggle() {
	e.SetActive(!e.active.Load())
}

func (e *Engine) Clicks() int64 {
	return e.clickCount.Load()
}

func (e *Engine) run() {
	defer e.workersWG.Done()
	lastProgress := time.Now()
	for {
		if e.stopped() {
			return
		}
		if !e.active.Load() {
			e.releaseHeld()
			if !e.waitWithWake(idlePoll) {
				return
			}
			continue
		}

		p := e.settings.Snapshot()
		if e.holding.Load() && !e.holdMatches(p) {
			e.releaseHeld()
		}

		switch p.Mode {
		case ModeHold:
			if !e.holding.Load() {
				if !e.pressHold(p) {
					return
				}
			}
			if !e.waitWithWake(idlePoll) {
				return
			}
		case ModeHumanized:
			if p.CPS > burstThresholdCPS {
				if !e.emitBurst(p) {
					return
				}
				e.logProgress(&lastProgress)
				if !e.waitWithWake(burstPause(e.rng)) {
					return
				}
			} else {
				if !e.emitClick(p) {
					return
				}
				e.logProgress(&lastProgress)
				if !e.waitWithWake(humanizedDelay(p.CPS, e.rng)) {
					return
				}
			}
		default:
			if !e.emitClick(p) {
				return
			}
			e.logProgress(&lastProgress)
			if !e.waitWithWake(p.Delay) {
				return
			}
		}
	}
}

// emitClick sends one press/release pair. It reports false only when the
// engine is stopping; injection errors are logged and retried after a
// short backoff.
func (e *Engine) emitClick(p Params) bool {
	if err := e.clickPair(p); err != nil {
		if e.stopped() {
			return false
		}
		e.logger.Warn("Failed to send click", "action", p.Action.String(), "err", err)
		return e.sleepWithStop(writeBackoff)
	}
	e.clickCount.Add(1)
	return true
}

// emitBurst sends one burst of clicks back to back. The burst size and the
// intra-burst gap are both sampled once per burst.
func (e *Engine) emitBurst(p Params) bool {
	size := burstSize(p.CPS, e.rng)
	gap := burstGap(e.rng)
	for i := 0; i < size; i++ {
		if e.stopped() {
			return false
		}
		if err := e.clickPair(p); err != nil {
			e.logger.Warn("Failed to send burst click", "action", p.Action.String(), "err", err)
			return e.sleepWithStop(writeBackoff)
		}
		e.clickCount.Add(1)
		if i < size-1 && !e.sleepWithStop(gap) {
			return false
		}
	}
	return true
}

func (e *Engine) clickPair(p Params) error {
	if p.Target == "" {
		if err := e.ports.Simulator.Press(p.Action); err != nil {
			return err
		}
		return e.ports.Simulator.Release(p.Action)
	}
	handle, ok := e.resolveTarget(p.Target)
	if !ok {
		return nil
	}
	if err := e.ports.Poster.Post(handle, p.Action, true); err != nil {
		return err
	}
	return e.ports.Poster.Post(handle, p.Action, false)
}

// pressHold issues the press half of Hold mode and records what was
// pressed, so the matching release works even if the settings change
// while the button is down.
func (e *Engine) pressHold(p Params) bool {
	if err := e.dispatch(p.Action, p.Target, true); err != nil {
		e.logger.Warn("Failed to press for hold", "action", p.Action.String(), "err", err)
		return e.sleepWithStop(writeBackoff)
	}
	e.stateMu.Lock()
	e.heldAction = p.Action
	e.heldTarget = p.Target
	e.stateMu.Unlock()
	e.holding.Store(true)
	return true
}

// releaseHeld undoes a pending Hold press. The holding flag is cleared
// even when the release write fails, otherwise the loop would retry a
// release against a device that already rejected it.
func (e *Engine) releaseHeld() {
	if !e.holding.Load() {
		return
	}
	e.stateMu.Lock()
	action := e.heldAction
	target := e.heldTarget
	e.stateMu.Unlock()
	if err := e.dispatch(action, target, false); err != nil {
		e.logger.Warn("Failed to release held input", "action", action.String(), "err", err)
	}
	e.holding.Store(false)
}

func (e *Engine) holdMatches(p Params) bool {
	if p.Mode != ModeHold {
		return false
	}
	e.stateMu.Lock()
	defer e.stateMu.Unlock()
	return e.heldAction == p.Action && e.heldTarget == p.Target
}

// dispatch routes one edge either to the global simulator or, when a
// target title is set, directly to that window.
func (e *Engine) dispatch(action Action, target string, pressed bool) error {
	if target == "" {
		if pressed {
			return e.ports.Simulator.Press(action)
		}
		return e.ports.Simulator.Release(action)
	}
	handle, ok := e.resolveTarget(target)
	if !ok {
		return nil
	}
	return e.ports.Poster.Post(handle, action, pressed)
}

// resolveTarget looks the title up in the window directory. A missing
// window, a lookup error or absent window ports all degrade to "not
// found"; the caller skips the emission.
func (e *Engine) resolveTarget(title string) (WindowHandle, bool) {
	if e.ports.Windows == nil || e.ports.Poster == nil {
		return 0, false
	}
	windows, err := e.ports.Windows.Windows()
	if err != nil {
		e.logger.Warn("Window lookup failed", "err", err)
		return 0, false
	}
	for _, w := range windows {
		if w.Title == title {
			return w.Handle, true
		}
	}
	e.logger.Debug("Target window not found", "title", title)
	return 0, false
}

func (e *Engine) logProgress(last *time.Time) {
	now := time.Now()
	if now.Sub(*last) < progressEvery {
		return
	}
	*last = now
	e.logger.Info("Clicks sent", "count", e.clickCount.Load())
}

func (e *Engine) signalWake() {
	select {
	case e.wakeCh <- struct{}{}:
	default:
	}
}

// waitWithWake sleeps for d but returns early on a wake signal. It
// reports false when the engine is stopping.
func (e *Engine) waitWithWake(d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-e.stopCh:
		return false
	case <-e.wakeCh:
		return true
	case <-timer.C:
		return true
	}
}

// sleepWithStop sleeps for d, ignoring wakes. It reports false when the
// engine is stopping.
func (e *Engine) sleepWithStop(d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-e.stopCh:
		return false
	case <-timer.C:
		return true
	}
}

func (e *Engine) stopped() bool {
	select {
	case <-e.stopCh:
		return true
	default:
		return false
	}
}
