package main

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"cadence/internal/config"
	"cadence/internal/core/clicker"
	"cadence/internal/keys"
)

type clickerTheme struct {
	base fyne.Theme
}

func newClickerTheme() fyne.Theme {
	return &clickerTheme{base: theme.DarkTheme()}
}

func (t *clickerTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameBackground:
		return color.NRGBA{R: 0x0d, G: 0x10, B: 0x14, A: 0xff}
	case theme.ColorNameHeaderBackground:
		return color.NRGBA{R: 0x12, G: 0x16, B: 0x1c, A: 0xff}
	case theme.ColorNameButton:
		return color.NRGBA{R: 0x1d, G: 0x23, B: 0x2c, A: 0xff}
	case theme.ColorNameDisabledButton:
		return color.NRGBA{R: 0x16, G: 0x1a, B: 0x20, A: 0xff}
	case theme.ColorNameInputBackground:
		return color.NRGBA{R: 0x13, G: 0x18, B: 0x1f, A: 0xff}
	case theme.ColorNameInputBorder, theme.ColorNameSeparator:
		return color.NRGBA{R: 0x2b, G: 0x33, B: 0x40, A: 0xff}
	case theme.ColorNamePrimary, theme.ColorNameHyperlink:
		return color.NRGBA{R: 0xff, G: 0x66, B: 0x66, A: 0xff}
	case theme.ColorNameFocus:
		return color.NRGBA{R: 0xff, G: 0x7a, B: 0x7a, A: 0x66}
	case theme.ColorNameHover:
		return color.NRGBA{R: 0xff, G: 0x7a, B: 0x7a, A: 0x22}
	case theme.ColorNamePressed:
		return color.NRGBA{R: 0xff, G: 0x7a, B: 0x7a, A: 0x40}
	case theme.ColorNameSelection:
		return color.NRGBA{R: 0xff, G: 0x66, B: 0x66, A: 0x44}
	case theme.ColorNameForeground:
		return color.NRGBA{R: 0xf2, G: 0xf4, B: 0xf8, A: 0xff}
	case theme.ColorNamePlaceHolder:
		return color.NRGBA{R: 0xa9, G: 0xb3, B: 0xc2, A: 0xff}
	case theme.ColorNameError:
		return color.NRGBA{R: 0xff, G: 0x82, B: 0x82, A: 0xff}
	case theme.ColorNameWarning:
		return color.NRGBA{R: 0xff, G: 0x9f, B: 0x5a, A: 0xff}
	case theme.ColorNameSuccess:
		return color.NRGBA{R: 0x7f, G: 0xd4, B: 0xa8, A: 0xff}
	}
	return t.base.Color(name, variant)
}

func (t *clickerTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

func (t *clickerTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

func (t *clickerTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 8
	case theme.SizeNameInnerPadding:
		return 8
	case theme.SizeNameInputRadius:
		return 8
	}
	return t.base.Size(name)
}

func displayAction(action clicker.Action) string {
	switch action {
	case clicker.ActionRightClick:
		return "Right Click"
	case clicker.ActionSpace:
		return "Space"
	}
	return "Left Click"
}

func actionFromDisplay(value string) (clicker.Action, bool) {
	switch value {
	case "Left Click":
		return clicker.ActionLeftClick, true
	case "Right Click":
		return clicker.ActionRightClick, true
	case "Space":
		return clicker.ActionSpace, true
	}
	return clicker.ActionLeftClick, false
}

// uiKeyNames maps the window toolkit's key names onto the hotkey table.
// Right-side modifiers collapse onto their canonical left-side keys.
var uiKeyNames = map[fyne.KeyName]keys.Key{
	fyne.KeyF1:  keys.F1,
	fyne.KeyF2:  keys.F2,
	fyne.KeyF3:  keys.F3,
	fyne.KeyF4:  keys.F4,
	fyne.KeyF5:  keys.F5,
	fyne.KeyF6:  keys.F6,
	fyne.KeyF7:  keys.F7,
	fyne.KeyF8:  keys.F8,
	fyne.KeyF9:  keys.F9,
	fyne.KeyF10: keys.F10,
	fyne.KeyF11: keys.F11,
	fyne.KeyF12: keys.F12,

	fyne.KeySpace:  keys.Space,
	fyne.KeyReturn: keys.Enter,
	fyne.KeyEnter:  keys.Enter,
	fyne.KeyEscape: keys.Escape,
	fyne.KeyTab:    keys.Tab,

	fyne.KeyHome:     keys.Home,
	fyne.KeyEnd:      keys.End,
	fyne.KeyPageUp:   keys.PageUp,
	fyne.KeyPageDown: keys.PageDown,
	fyne.KeyInsert:   keys.Insert,
	fyne.KeyDelete:   keys.Delete,

	fyne.KeyUp:    keys.Up,
	fyne.KeyDown:  keys.Down,
	fyne.KeyLeft:  keys.Left,
	fyne.KeyRight: keys.Right,

	fyne.KeyBackspace: keys.Backspace,

	desktop.KeyCapsLock:     keys.CapsLock,
	desktop.KeyShiftLeft:    keys.LeftShift,
	desktop.KeyShiftRight:   keys.LeftShift,
	desktop.KeyControlLeft:  keys.LeftCtrl,
	desktop.KeyControlRight: keys.LeftCtrl,
	desktop.KeyAltLeft:      keys.Alt,
	desktop.KeyAltRight:     keys.Alt,
}

func uiKeyFromName(name fyne.KeyName) (keys.Key, bool) {
	k, ok := uiKeyNames[name]
	return k, ok
}

func runUI(opts options) error {
	fApp := app.New()
	fApp.Settings().SetTheme(newClickerTheme())

	window := fApp.NewWindow("Cadence")
	window.Resize(fyne.NewSize(560, 640))
	window.SetFixedSize(true)
	window.CenterOnScreen()

	clamp := func(v, min, max float64) float64 {
		if v < min {
			return min
		}
		if v > max {
			return max
		}
		return v
	}

	logGrid := widget.NewTextGrid()
	logGrid.SetText("")
	logScroll := container.NewVScroll(logGrid)
	logScroll.SetMinSize(fyne.NewSize(0, 150))

	const maxUILogLines = 50
	var logMu sync.Mutex
	logLines := make([]string, 0, maxUILogLines)
	debugLogs := debugLogsEnabled()
	appendLogLine := func(line string) {
		if !debugLogs {
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			return
		}

		logMu.Lock()
		logLines = append(logLines, line)
		if len(logLines) > maxUILogLines {
			logLines = logLines[len(logLines)-maxUILogLines:]
		}
		logText := strings.Join(logLines, "\n")
		logMu.Unlock()

		fyne.Do(func() {
			logGrid.SetText(logText)
			logScroll.ScrollToBottom()
		})
	}

	logger := newSlogLogger(opts.logLevel, appendLogLine)

	var stateMu sync.Mutex
	var runtime *appRuntime
	uiClosed := false
	uiStop := make(chan struct{})

	getRuntime := func() *appRuntime {
		stateMu.Lock()
		defer stateMu.Unlock()
		return runtime
	}

	modeRadio := widget.NewRadioGroup([]string{"Click", "Hold", "Humanized"}, nil)
	modeRadio.Required = true
	actionRadio := widget.NewRadioGroup([]string{"Left Click", "Right Click", "Space"}, nil)
	actionRadio.Required = true

	delaySlider := widget.NewSlider(1, 1000)
	delaySlider.Step = 1
	delaySlider.SetValue(1000)

	cpsSlider := widget.NewSlider(1, 100)
	cpsSlider.Step = 0
	cpsSlider.SetValue(10)

	delayValue := widget.NewLabel("")
	cpsValue := widget.NewLabel("")
	delayValue.Alignment = fyne.TextAlignTrailing
	cpsValue.Alignment = fyne.TextAlignTrailing
	delayValue.TextStyle = fyne.TextStyle{Bold: true}
	cpsValue.TextStyle = fyne.TextStyle{Bold: true}

	burstNote := canvas.NewText("Rates above 50 CPS click in bursts", nil)
	burstNote.Color = theme.Color(theme.ColorNameWarning)
	burstNote.TextSize = 12
	burstNote.Hide()

	newSliderControl := func(label string, value *widget.Label, slider *widget.Slider) fyne.CanvasObject {
		title := widget.NewLabel(label)
		title.TextStyle = fyne.TextStyle{Bold: true}
		head := container.NewBorder(nil, nil, title, value, nil)
		return container.NewVBox(head, slider)
	}

	delayControl := newSliderControl("Delay", delayValue, delaySlider)
	cpsControl := newSliderControl("CPS", cpsValue, cpsSlider)

	hotkeyLabel := widget.NewLabel(keys.Label([]keys.Key{keys.F6}))
	hotkeyLabel.TextStyle = fyne.TextStyle{Bold: true}
	rebindBtn := widget.NewButton("Change", nil)
	rebindBtn.Importance = widget.MediumImportance
	cancelBtn := widget.NewButton("Cancel", nil)
	cancelBtn.Hide()

	targetSelect := widget.NewSelect([]string{}, nil)
	targetSelect.PlaceHolder = "Entire screen"
	clearTargetBtn := widget.NewButton("Clear", nil)

	clicksText := widget.NewLabel("Clicks sent: 0")
	clicksText.TextStyle = fyne.TextStyle{Bold: true}

	errorText := canvas.NewText("", nil)
	errorText.Color = theme.Color(theme.ColorNameError)

	toggleBtn := widget.NewButton("Stopped", nil)
	toggleBtn.Importance = widget.HighImportance
	initProgress := widget.NewProgressBarInfinite()
	initProgress.Hide()

	setActiveStateUI := func(active bool) {
		if active {
			toggleBtn.SetText("Clicking")
		} else {
			toggleBtn.SetText("Stopped")
		}
	}

	updateControlText := func() {
		delayValue.SetText(fmt.Sprintf("%d ms", int(math.Round(delaySlider.Value))))
		cpsValue.SetText(fmt.Sprintf("%.2f", cpsSlider.Value))
		if modeRadio.Selected == "Humanized" && cpsSlider.Value > 50 {
			burstNote.Show()
		} else {
			burstNote.Hide()
		}
	}
	updateControlText()

	updateTimingVisibility := func() {
		switch modeRadio.Selected {
		case "Humanized":
			delayControl.Hide()
			cpsControl.Show()
		case "Hold":
			delayControl.Hide()
			cpsControl.Hide()
		default:
			delayControl.Show()
			cpsControl.Hide()
		}
		updateControlText()
	}

	persistSettings := func() {
		rt := getRuntime()
		if rt == nil {
			return
		}
		if err := config.Save(config.FromParams(rt.settings.Snapshot()), opts.configPath); err != nil {
			errorText.Text = fmt.Sprintf("Failed to save settings: %v", err)
			errorText.Refresh()
			appendLogLine("ERROR " + errorText.Text)
		}
	}

	endCaptureUI := func() {
		rebindBtn.SetText("Change")
		rebindBtn.Enable()
		cancelBtn.Hide()
	}

	handleUIKey := func(name fyne.KeyName, pressed bool) {
		rt := getRuntime()
		if rt == nil || !rt.capture.Capturing() {
			return
		}
		k, ok := uiKeyFromName(name)
		if !ok {
			return
		}

		var combo []keys.Key
		var done bool
		if pressed {
			combo, done = rt.capture.KeyDown(k)
		} else {
			combo, done = rt.capture.KeyUp(k)
		}
		if !done {
			return
		}

		rt.settings.SetHotkey(combo)
		rt.recognizer.Reset()
		hotkeyLabel.SetText(keys.Label(combo))
		endCaptureUI()
		persistSettings()
		appendLogLine("INFO Hotkey set to " + keys.Label(combo))
	}

	if deskCanvas, ok := window.Canvas().(desktop.Canvas); ok {
		deskCanvas.SetOnKeyDown(func(ev *fyne.KeyEvent) {
			handleUIKey(ev.Name, true)
		})
		deskCanvas.SetOnKeyUp(func(ev *fyne.KeyEvent) {
			handleUIKey(ev.Name, false)
		})
	}

	rebindBtn.OnTapped = func() {
		rt := getRuntime()
		if rt == nil {
			return
		}
		rt.capture.Begin()
		rebindBtn.SetText("Press keys...")
		rebindBtn.Disable()
		cancelBtn.Show()
		window.Canvas().Unfocus()
		appendLogLine("INFO Waiting for hotkey input")
	}

	cancelBtn.OnTapped = func() {
		rt := getRuntime()
		if rt == nil {
			return
		}
		rt.capture.Cancel()
		rt.recognizer.Reset()
		endCaptureUI()
	}

	toggleBtn.OnTapped = func() {
		rt := getRuntime()
		if rt == nil {
			return
		}
		rt.engine.Toggle()
		setActiveStateUI(rt.engine.Active())
	}

	refreshWindowOptions := func(rt *appRuntime) {
		windows, err := rt.windows.Windows()
		if err != nil {
			return
		}
		titles := make([]string, 0, len(windows))
		for _, w := range windows {
			titles = append(titles, w.Title)
		}
		fyne.Do(func() {
			targetSelect.SetOptions(titles)
		})
	}

	// applySnapshotToUI seeds the controls from the loaded settings and only
	// then wires their change handlers, so the initial sync never writes the
	// config back.
	applySnapshotToUI := func(rt *appRuntime) {
		p := rt.settings.Snapshot()

		modeRadio.Selected = p.Mode.String()
		modeRadio.Refresh()
		actionRadio.Selected = displayAction(p.Action)
		actionRadio.Refresh()
		delaySlider.Value = clamp(float64(p.Delay/time.Millisecond), 1, 1000)
		delaySlider.Refresh()
		cpsSlider.Value = clamp(p.CPS, 1, 100)
		cpsSlider.Refresh()
		hotkeyLabel.SetText(keys.Label(p.Hotkey))
		if p.Target != "" {
			targetSelect.Selected = p.Target
			targetSelect.Refresh()
		}
		updateTimingVisibility()

		modeRadio.OnChanged = func(selected string) {
			mode, ok := clicker.ParseMode(selected)
			if !ok {
				return
			}
			rt.settings.SetMode(mode)
			updateTimingVisibility()
			persistSettings()
		}
		actionRadio.OnChanged = func(selected string) {
			action, ok := actionFromDisplay(selected)
			if !ok {
				return
			}
			rt.settings.SetAction(action)
			persistSettings()
		}
		delaySlider.OnChanged = func(v float64) {
			rt.settings.SetDelay(time.Duration(math.Round(v)) * time.Millisecond)
			updateControlText()
			persistSettings()
		}
		cpsSlider.OnChanged = func(v float64) {
			rt.settings.SetCPS(v)
			updateControlText()
			persistSettings()
		}
		targetSelect.OnChanged = func(selected string) {
			rt.settings.SetTarget(selected)
		}
		clearTargetBtn.OnTapped = func() {
			rt.settings.SetTarget("")
			targetSelect.ClearSelected()
		}
	}

	runUILoops := func(rt *appRuntime) {
		stateTicker := time.NewTicker(150 * time.Millisecond)
		windowTicker := time.NewTicker(2 * time.Second)
		defer stateTicker.Stop()
		defer windowTicker.Stop()

		for {
			select {
			case <-uiStop:
				return
			case <-stateTicker.C:
				active := rt.engine.Active()
				clicks := rt.engine.Clicks()
				combo := keys.Label(rt.settings.Hotkey())
				fyne.Do(func() {
					setActiveStateUI(active)
					clicksText.SetText(fmt.Sprintf("Clicks sent: %d", clicks))
					if hotkeyLabel.Text != combo && !rt.capture.Capturing() {
						hotkeyLabel.SetText(combo)
					}
				})
			case <-windowTicker.C:
				if rt.windows != nil {
					refreshWindowOptions(rt)
				}
			}
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var closeOnce sync.Once
	cleanup := func() {
		closeOnce.Do(func() {
			stateMu.Lock()
			uiClosed = true
			rt := runtime
			stateMu.Unlock()

			close(uiStop)
			if rt != nil {
				rt.Stop()
			}
		})
	}

	requestQuit := func() {
		fyne.Do(func() {
			cleanup()
			if currentApp := fyne.CurrentApp(); currentApp != nil {
				currentApp.Quit()
				return
			}
			window.SetCloseIntercept(nil)
			window.Close()
		})
	}

	go func() {
		<-sigCh
		requestQuit()
	}()

	// Some GUI backends can leave Ctrl+C as raw ETX byte instead of SIGINT.
	go func() {
		buf := make([]byte, 1)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				return
			}
			if n == 1 && buf[0] == 3 {
				requestQuit()
				return
			}
		}
	}()

	window.SetCloseIntercept(func() {
		cleanup()
		if currentApp := fyne.CurrentApp(); currentApp != nil {
			currentApp.Quit()
			return
		}
		window.SetCloseIntercept(nil)
		window.Close()
	})

	titleText := canvas.NewText("CADENCE", color.NRGBA{R: 0xff, G: 0x75, B: 0x75, A: 0xff})
	titleText.TextStyle = fyne.TextStyle{Bold: true}
	titleText.TextSize = 30

	accentLine := canvas.NewRectangle(color.NRGBA{R: 0xff, G: 0x66, B: 0x66, A: 0xff})
	accentLine.SetMinSize(fyne.NewSize(220, 3))

	modeCard := widget.NewCard("Mode", "", modeRadio)
	actionCard := widget.NewCard("Click Type", "", actionRadio)
	controlsRow := container.NewGridWithColumns(2, modeCard, actionCard)

	timingCard := widget.NewCard("Timing", "", container.NewVBox(delayControl, cpsControl, burstNote))
	hotkeyCard := widget.NewCard("Hotkey", "", container.NewBorder(
		nil, nil, hotkeyLabel, container.NewHBox(cancelBtn, rebindBtn), nil,
	))
	targetCard := widget.NewCard("Target Window", "", container.NewBorder(
		nil, nil, nil, clearTargetBtn, targetSelect,
	))
	targetCard.Hide()

	mainContent := container.NewVBox(
		titleText,
		accentLine,
		controlsRow,
		timingCard,
		hotkeyCard,
		targetCard,
		clicksText,
		errorText,
		initProgress,
		toggleBtn,
	)
	mainPanel := container.NewPadded(mainContent)

	var rootContent fyne.CanvasObject = mainPanel
	if debugLogs {
		logsCard := widget.NewCard("Logs", "", logScroll)
		split := container.NewVSplit(mainPanel, logsCard)
		split.SetOffset(0.68)
		rootContent = split
	}

	initProgress.Show()
	appendLogLine("INFO Initializing input backend...")
	go func() {
		rt, err := startRuntime(opts, logger, true)
		fyne.Do(func() {
			initProgress.Hide()
			if err != nil {
				if isPermissionError(err) {
					errorText.Text = permissionDeniedHint()
				} else {
					errorText.Text = err.Error()
				}
				errorText.Refresh()
				appendLogLine("ERROR " + errorText.Text)
				return
			}

			stateMu.Lock()
			closed := uiClosed
			if !closed {
				runtime = rt
			}
			stateMu.Unlock()
			if closed {
				rt.Stop()
				return
			}

			applySnapshotToUI(rt)
			setActiveStateUI(rt.engine.Active())
			if rt.windows != nil {
				targetCard.Show()
				go refreshWindowOptions(rt)
			}
			go runUILoops(rt)
			appendLogLine("INFO Initialization complete")
		})
	}()

	window.SetContent(rootContent)
	window.ShowAndRun()
	cleanup()
	return nil
}
