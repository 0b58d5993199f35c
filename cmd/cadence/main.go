package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"cadence/internal/config"
	"cadence/internal/core/clicker"
	"cadence/internal/keys"
)

type options struct {
	mode         string
	action       string
	target       string
	hotkeyRaw    string
	cps          float64
	delayMS      int
	backend      string
	configPath   string
	startEnabled bool
	listWindows  bool
	ui           bool
	tray         bool
	logLevel     slog.Level
}

type lineSinkWriter struct {
	sink  func(line string)
	mu    sync.Mutex
	lines bytes.Buffer
}

func (w *lineSinkWriter) Write(p []byte) (int, error) {
	if w.sink == nil {
		return len(p), nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	total := len(p)
	for len(p) > 0 {
		idx := bytes.IndexByte(p, '\n')
		if idx == -1 {
			_, _ = w.lines.Write(p)
			break
		}
		_, _ = w.lines.Write(p[:idx])
		line := strings.TrimSpace(w.lines.String())
		w.lines.Reset()
		if line != "" {
			w.sink(line)
		}
		p = p[idx+1:]
	}
	return total, nil
}

func newSlogLogger(level slog.Level, sink func(line string)) *slog.Logger {
	if !debugLogsEnabled() {
		return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
			Level: level,
		}))
	}

	out := io.Writer(os.Stderr)
	if sink != nil {
		out = io.MultiWriter(os.Stderr, &lineSinkWriter{sink: sink})
	}

	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: level,
	}))
}

func debugLogsEnabled() bool {
	return strings.TrimSpace(os.Getenv("DEBUG")) == "1"
}

func parseLogLevel(value string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warning", "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid --log-level %q (expected debug|info|warning|error)", value)
	}
}

func parseOptions(args []string) (options, error) {
	opts := options{}
	flags := flag.NewFlagSet("cadence", flag.ContinueOnError)
	flags.SetOutput(os.Stderr)

	var backendRaw string
	var logLevelRaw string
	var cliMode bool

	flags.StringVar(&opts.mode, "mode", "", "Override the stored click mode. Allowed: Click, Hold, Humanized.")
	flags.StringVar(&opts.action, "action", "", "Override the stored click type. Allowed: LeftClick, RightClick, Space.")
	flags.Float64Var(&opts.cps, "cps", 0, "Override clicks per second for Humanized mode. Rates above 50 click in bursts.")
	flags.IntVar(&opts.delayMS, "delay-ms", 0, "Override the delay between clicks for Click mode, in milliseconds.")
	flags.StringVar(&opts.target, "target", "", "Window title to deliver clicks to directly. Windows only; empty clicks globally.")
	flags.StringVar(&opts.hotkeyRaw, "hotkey", "", "Override the toggle hotkey, e.g. \"F6\" or \"Left Ctrl+F8\".")
	flags.StringVar(&opts.configPath, "config", "", "Config file path. Defaults to Documents/Cadence/config.json.")
	flags.StringVar(&backendRaw, "backend", "auto", "Input backend. Linux: auto|wayland|x11. Windows: auto|windows.")
	flags.BoolVar(&opts.startEnabled, "start", false, "Start with clicking enabled instead of waiting for the hotkey.")
	flags.BoolVar(&opts.listWindows, "list-windows", false, "Print clickable window titles and exit.")
	flags.BoolVar(&opts.ui, "ui", true, "Start desktop GUI (Fyne) by default. Use --ui=false or --cli for terminal mode.")
	flags.BoolVar(&opts.tray, "tray", false, "Run headless with a system tray menu instead of a window.")
	flags.BoolVar(&cliMode, "cli", false, "Force terminal mode (disables GUI).")
	flags.StringVar(&logLevelRaw, "log-level", "info", "Log verbosity (default: info). Allowed: debug, info, warning, error.")

	if err := flags.Parse(args); err != nil {
		return opts, err
	}
	if flags.NArg() > 0 {
		return opts, fmt.Errorf("unexpected arguments: %s", strings.Join(flags.Args(), " "))
	}
	if opts.cps < 0 {
		return opts, fmt.Errorf("--cps must be > 0")
	}
	if opts.delayMS < 0 {
		return opts, fmt.Errorf("--delay-ms must be > 0")
	}
	if opts.mode != "" {
		if _, ok := clicker.ParseMode(opts.mode); !ok {
			return opts, fmt.Errorf("invalid --mode %q (expected Click|Hold|Humanized)", opts.mode)
		}
	}
	if opts.action != "" {
		if _, ok := clicker.ParseAction(opts.action); !ok {
			return opts, fmt.Errorf("invalid --action %q (expected LeftClick|RightClick|Space)", opts.action)
		}
	}
	if opts.hotkeyRaw != "" && len(parseHotkeyFlag(opts.hotkeyRaw)) == 0 {
		return opts, fmt.Errorf("invalid --hotkey %q (expected key names joined with +, e.g. \"Left Ctrl+F6\")", opts.hotkeyRaw)
	}
	if cliMode || opts.tray {
		opts.ui = false
	}

	parsedLevel, err := parseLogLevel(logLevelRaw)
	if err != nil {
		return opts, err
	}
	backendChoice, err := parseBackendChoice(backendRaw)
	if err != nil {
		return opts, err
	}

	opts.backend = backendChoice
	opts.logLevel = parsedLevel
	if opts.configPath == "" {
		opts.configPath = config.DefaultPath()
	}
	return opts, nil
}

func parseHotkeyFlag(raw string) []keys.Key {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == '+' || r == ','
	})
	return keys.ParseList(parts)
}

// loadSettings builds the live settings from the stored config with any
// command line overrides applied on top.
func loadSettings(opts options, logger clicker.Logger) *clicker.Settings {
	settings := clicker.NewSettings()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		logger.Warn("Failed to load config, using defaults", "path", opts.configPath, "error", err)
	}
	if cfg != nil {
		settings.Apply(cfg.Params())
	}

	if opts.mode != "" {
		mode, _ := clicker.ParseMode(opts.mode)
		settings.SetMode(mode)
	}
	if opts.action != "" {
		action, _ := clicker.ParseAction(opts.action)
		settings.SetAction(action)
	}
	if opts.cps > 0 {
		settings.SetCPS(opts.cps)
	}
	if opts.delayMS > 0 {
		settings.SetDelay(time.Duration(opts.delayMS) * time.Millisecond)
	}
	if opts.hotkeyRaw != "" {
		settings.SetHotkey(parseHotkeyFlag(opts.hotkeyRaw))
	}
	if opts.target != "" {
		settings.SetTarget(opts.target)
	}
	return settings
}

// platformPorts is what a platform backend contributes: a simulator that
// writes input, a stream of global key transitions, and on Windows the
// directory/poster pair for targeted delivery. windows and poster stay nil
// where the OS has no stable window handles.
type platformPorts struct {
	simulator clicker.Simulator
	windows   clicker.WindowDirectory
	poster    clicker.WindowPoster
	source    clicker.KeySource
}

// appRuntime bundles the running engine with everything feeding it. Stop
// tears the pieces down in dependency order: the key source first so the
// recognizer pump drains, the engine last so held input is released.
type appRuntime struct {
	settings   *clicker.Settings
	engine     *clicker.Engine
	recognizer *clicker.Recognizer
	capture    *clicker.Capture
	source     clicker.KeySource
	watcher    *config.Watcher
	windows    clicker.WindowDirectory
	logger     clicker.Logger
	pumpDone   chan struct{}
	stopOnce   sync.Once
}

func startRuntime(opts options, logger clicker.Logger, withCapture bool) (*appRuntime, error) {
	settings := loadSettings(opts, logger)

	ports, err := openPlatformPorts(opts.backend, logger)
	if err != nil {
		return nil, err
	}

	engine, err := clicker.NewEngine(settings, clicker.Ports{
		Simulator: ports.simulator,
		Windows:   ports.windows,
		Poster:    ports.poster,
	}, logger)
	if err != nil {
		_ = ports.source.Close()
		_ = ports.simulator.Close()
		return nil, err
	}

	var capture *clicker.Capture
	if withCapture {
		capture = clicker.NewCapture()
	}
	recognizer := clicker.NewRecognizer(settings, engine, capture, logger)

	rt := &appRuntime{
		settings:   settings,
		engine:     engine,
		recognizer: recognizer,
		capture:    capture,
		source:     ports.source,
		windows:    ports.windows,
		logger:     logger,
		pumpDone:   make(chan struct{}),
	}

	engine.Start()
	go func() {
		defer close(rt.pumpDone)
		recognizer.Run(ports.source)
	}()

	watcher, err := config.NewWatcher(opts.configPath, rt.applyReloaded, logger)
	if err != nil {
		logger.Warn("Config watcher unavailable", "error", err)
	} else {
		rt.watcher = watcher
	}

	p := settings.Snapshot()
	logger.Info("Hotkey", "combo", keys.Label(p.Hotkey))
	logger.Info("Mode", "mode", p.Mode.String(), "action", p.Action.String())
	if opts.startEnabled {
		engine.SetActive(true)
	}

	return rt, nil
}

// applyReloaded folds a changed config file into the live settings. The
// window target survives the reload because it is never written to disk.
func (rt *appRuntime) applyReloaded(cfg config.Config) {
	p := cfg.Params()
	p.Target = rt.settings.Snapshot().Target
	rt.settings.Apply(p)
}

func (rt *appRuntime) Stop() {
	rt.stopOnce.Do(func() {
		if rt.watcher != nil {
			_ = rt.watcher.Close()
		}
		if rt.source != nil {
			_ = rt.source.Close()
		}
		<-rt.pumpDone
		rt.engine.Stop()
	})
}

func isPermissionError(err error) bool {
	return errors.Is(err, os.ErrPermission) || errors.Is(err, syscall.EPERM) || errors.Is(err, syscall.EACCES)
}

func run(args []string, stderr io.Writer) int {
	opts, err := parseOptions(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, err)
		return 2
	}

	if opts.listWindows {
		titles, err := listWindowTitles()
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		for _, title := range titles {
			fmt.Println(title)
		}
		return 0
	}

	if opts.ui {
		if err := runUI(opts); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		return 0
	}

	logger := newSlogLogger(opts.logLevel, nil)
	rt, err := startRuntime(opts, logger, false)
	if err != nil {
		if isPermissionError(err) {
			fmt.Fprintln(stderr, permissionDeniedHint())
			return 1
		}
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer rt.Stop()

	if opts.tray {
		runTray(rt)
		return 0
	}

	logger.Info("Press the hotkey to toggle clicking. Press Ctrl+C to stop")
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	<-ctx.Done()
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}
