// vxkeyd reads raw key events from evdev keyboards, translates them
// through the active keymap and dispatches the resulting actions.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/fsnotify/fsnotify"
	flag "github.com/spf13/pflag"

	"vxkeyd/config"
	"vxkeyd/device"
	"vxkeyd/dispatch"
	"vxkeyd/hook"
	"vxkeyd/keyseq"
	"vxkeyd/monitor"
	"vxkeyd/translate"
)

const defaultConfigPath = "/etc/vxkeyd/vxkeyd.conf"

func main() {
	configPath := defaultConfigPath
	if env, ok := os.LookupEnv("CONFIG"); ok {
		configPath = env
	}
	_, debug := os.LookupEnv("DEBUG")
	_, verbose := os.LookupEnv("VERBOSE")
	_, testMode := os.LookupEnv("TEST")

	f := flag.NewFlagSet("vxkeyd", flag.ExitOnError)
	confFlag := f.StringP("conf", "c", configPath, "Non-default config location")
	keymapFlag := f.StringP("keymap", "k", "", "Binary keymap file, overrides the config")
	debugFlag := f.BoolP("debug", "d", debug, "Debug log level")
	verboseFlag := f.BoolP("verbose", "v", verbose, "Increase log level to INFO")
	testFlag := f.BoolP("test", "t", testMode, "Only print resolved symbols to STDERR. No actions.")
	f.Parse(os.Args[1:])

	level := slog.LevelWarn
	if *verboseFlag {
		level = slog.LevelInfo
	}
	if *debugFlag {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(log, *confFlag, *keymapFlag, *testFlag); err != nil {
		log.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger, confPath, keymapOverride string, testMode bool) error {
	cfg, err := config.Load(confPath, log)
	if err != nil {
		return err
	}
	if keymapOverride != "" {
		cfg.Keymap.File = keymapOverride
	}

	engine := translate.New(log, translate.Options{
		DisableZap:    cfg.Engine.DisableZap,
		EnableCompose: cfg.Engine.EnableCompose,
	})
	if cfg.Keymap.File != "" {
		// A broken keymap is not fatal, the built-in table serves.
		engine.LoadKeymap(cfg.Keymap.File)
	}

	done := make(chan struct{})
	var quitOnce sync.Once
	quit := func() { quitOnce.Do(func() { close(done) }) }

	dispatcher := dispatch.New(log, hook.NewRunner(log), dispatch.Hooks{
		SwitchConsole:   cfg.Hooks.SwitchConsole,
		PreviousConsole: cfg.Hooks.PreviousConsole,
		NextConsole:     cfg.Hooks.NextConsole,
		Reboot:          cfg.Hooks.Reboot,
	}, quit)

	var mon *monitor.Server
	if cfg.Monitor.Listen != "" {
		mon = monitor.New(log)
		defer mon.Close()
		go func() {
			if err := mon.ListenAndServe(cfg.Monitor.Listen); err != nil {
				log.Warn("monitor stopped", "error", err)
			}
		}()
	}

	scanner := &device.Scanner{
		Search: cfg.ScanDevices.Search,
		Bypass: cfg.ScanDevices.BypassRE,
		Log:    log,
	}
	keyboards, err := scanner.Keyboards()
	if err != nil {
		return err
	}
	if len(keyboards) == 0 {
		log.Warn("no keyboards found", "search", cfg.ScanDevices.Search)
	}

	events := make(chan device.Event, 8)
	for _, dev := range keyboards {
		go device.Read(dev, events, log)
	}

	watch := watchKeymap(cfg, log)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case ev := <-events:
			sym, action := engine.Resolve(ev.Code, ev.Pressed(), ev.Autorepeat())
			if testMode {
				if sym != nil {
					fmt.Fprintf(os.Stderr, "%s:%d -> %s\n", keyseq.NameForCode(ev.Code), ev.Value, sym)
				}
				continue
			}
			if sym != nil && mon != nil {
				mon.Broadcast(sym)
			}
			dispatcher.Dispatch(action)

		case wev := <-watch:
			if wev.Name == cfg.Keymap.File && wev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				log.Info("keymap file changed, reloading", "path", wev.Name)
				engine.LoadKeymap(cfg.Keymap.File)
			}

		case s := <-sig:
			log.Info("exiting on signal", "signal", s.String())
			return nil

		case <-done:
			return nil
		}
	}
}

// watchKeymap sets up a hot-reload watch on the keymap file. Returns a
// nil channel (never ready) when watching is off or unavailable.
func watchKeymap(cfg *config.Config, log *slog.Logger) chan fsnotify.Event {
	if cfg.Keymap.File == "" || !cfg.Keymap.Watch {
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Warn("keymap watch unavailable", "error", err)
		return nil
	}
	// Watch the directory: editors and compilers replace the file.
	if err := watcher.Add(filepath.Dir(cfg.Keymap.File)); err != nil {
		log.Warn("keymap watch unavailable", "path", cfg.Keymap.File, "error", err)
		watcher.Close()
		return nil
	}
	go func() {
		for err := range watcher.Errors {
			log.Warn("keymap watch error", "error", err)
		}
	}()
	return watcher.Events
}
