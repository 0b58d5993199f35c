package main

import (
	"time"

	"github.com/getlantern/systray"

	"cadence/internal/keys"
)

// runTray parks the clicker behind a system tray menu. systray owns the
// calling goroutine and returns once Quit is clicked.
func runTray(rt *appRuntime) {
	systray.Run(trayReady(rt), func() {})
}

func trayReady(rt *appRuntime) func() {
	return func() {
		systray.SetTitle("Cadence")
		systray.SetTooltip("Cadence autoclicker (" + keys.Label(rt.settings.Hotkey()) + " toggles)")

		mToggle := systray.AddMenuItem("Start clicking", "Toggle the clicker")
		systray.AddSeparator()
		mQuit := systray.AddMenuItem("Quit", "Stop clicking and exit")

		go func() {
			ticker := time.NewTicker(500 * time.Millisecond)
			defer ticker.Stop()
			for {
				select {
				case <-mToggle.ClickedCh:
					rt.engine.Toggle()
				case <-mQuit.ClickedCh:
					systray.Quit()
					return
				case <-ticker.C:
					if rt.engine.Active() {
						mToggle.SetTitle("Stop clicking")
					} else {
						mToggle.SetTitle("Start clicking")
					}
				}
			}
		}()
	}
}
