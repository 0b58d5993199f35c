//go:build linux

package evdevinput

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"

	evdev "github.com/holoplot/go-evdev"

	"cadence/internal/core/clicker"
)

// Listener streams key transitions from every readable keyboard-capable
// input device.
type Listener struct {
	devices []*evdev.InputDevice
	logger  clicker.Logger
	events  chan clicker.KeyEvent

	stopCh    chan struct{}
	stopOnce  sync.Once
	readersWG sync.WaitGroup
}

func StartListener(logger clicker.Logger) (*Listener, error) {
	devices, err := openKeyDevices()
	if err != nil {
		return nil, err
	}

	l := &Listener{
		devices: devices,
		logger:  logger,
		events:  make(chan clicker.KeyEvent, 64),
		stopCh:  make(chan struct{}),
	}
	for _, dev := range devices {
		l.readersWG.Add(1)
		go l.readLoop(dev)
	}
	go func() {
		l.readersWG.Wait()
		close(l.events)
	}()
	return l, nil
}

func (l *Listener) Events() <-chan clicker.KeyEvent {
	return l.events
}

func (l *Listener) Close() error {
	l.stopOnce.Do(func() {
		close(l.stopCh)
		for _, dev := range l.devices {
			_ = dev.Close()
		}
	})
	l.readersWG.Wait()
	return nil
}

func (l *Listener) readLoop(dev *evdev.InputDevice) {
	defer l.readersWG.Done()

	path := dev.Path()
	for {
		events, err := dev.ReadSlice(64)
		if err != nil {
			if l.stopped() || isDeviceClosedError(err) {
				return
			}
			if isWouldBlockError(err) {
				if !l.sleepWithStop(10 * time.Millisecond) {
					return
				}
				continue
			}
			l.logger.Warn("Read failed", "path", path, "err", err)
			if !l.sleepWithStop(100 * time.Millisecond) {
				return
			}
			continue
		}

		for _, event := range events {
			if event.Type != evdev.EV_KEY {
				continue
			}
			var pressed bool
			switch event.Value {
			case 1:
				pressed = true
			case 0:
				pressed = false
			default:
				// Auto-repeat is not a transition.
				continue
			}
			k, ok := keyFromCode(event.Code)
			if !ok {
				continue
			}
			select {
			case l.events <- clicker.KeyEvent{Key: k, Pressed: pressed}:
			default:
				l.logger.Debug("Dropping key event, consumer is behind", "key", string(k))
			}
		}
	}
}

func (l *Listener) stopped() bool {
	select {
	case <-l.stopCh:
		return true
	default:
		return false
	}
}

func (l *Listener) sleepWithStop(duration time.Duration) bool {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-l.stopCh:
		return false
	case <-timer.C:
		return true
	}
}

// openKeyDevices opens every non-virtual input device that exposes key
// events, in nonblocking mode. Virtual devices are skipped so the
// clicker's own injector never feeds the listener.
func openKeyDevices() ([]*evdev.InputDevice, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return nil, err
	}
	sort.Slice(paths, func(i, j int) bool {
		return paths[i].Path < paths[j].Path
	})

	devices := make([]*evdev.InputDevice, 0, len(paths))
	for _, path := range paths {
		dev, err := evdev.OpenWithFlags(path.Path, syscall.O_RDONLY)
		if err != nil {
			continue
		}

		name := path.Name
		if actualName, nameErr := dev.Name(); nameErr == nil && actualName != "" {
			name = actualName
		}
		if deviceIsVirtual(dev, name) || len(dev.CapableEvents(evdev.EV_KEY)) == 0 {
			_ = dev.Close()
			continue
		}
		if err := dev.NonBlock(); err != nil {
			_ = dev.Close()
			continue
		}
		devices = append(devices, dev)
	}

	if len(devices) == 0 {
		return nil, fmt.Errorf("no readable input devices with key events found")
	}
	return devices, nil
}

func deviceIsVirtual(device *evdev.InputDevice, name string) bool {
	id, err := device.InputID()
	if err == nil && id.BusType == uint16(evdev.BUS_VIRTUAL) {
		return true
	}
	lower := strings.ToLower(name)
	for _, token := range []string{"virtual", "uinput", "ydotool", "cadence"} {
		if strings.Contains(lower, token) {
			return true
		}
	}
	return false
}

func isDeviceClosedError(err error) bool {
	return errors.Is(err, syscall.EBADF) || errors.Is(err, syscall.ENODEV)
}

func isWouldBlockError(err error) bool {
	return errors.Is(err, syscall.EAGAIN) || errors.Is(err, syscall.EWOULDBLOCK)
}
