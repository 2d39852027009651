// Package dispatch fans resolver actions out to the host: hook
// commands for console and reboot requests, a quit callback for Zap,
// and log records for lock changes.
package dispatch

import (
	"io"
	"log/slog"
	"strconv"
	"strings"

	"vxkeyd/translate"
)

// Hooks holds the configurable command lines. "{console}" in a console
// hook is replaced with the target console index. Empty hooks are
// logged and otherwise ignored.
type Hooks struct {
	SwitchConsole   string
	PreviousConsole string
	NextConsole     string
	Reboot          string
}

// Runner executes one hook command line.
type Runner interface {
	Run(line string) error
}

// Dispatcher is a pure mapping from actions to host calls; it keeps no
// state of its own, so dispatching the same action twice performs the
// same calls twice.
type Dispatcher struct {
	log    *slog.Logger
	runner Runner
	hooks  Hooks
	quit   func()
}

// New builds a dispatcher. quit is invoked for the Zap action and may
// be nil.
func New(log *slog.Logger, runner Runner, hooks Hooks, quit func()) *Dispatcher {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Dispatcher{log: log, runner: runner, hooks: hooks, quit: quit}
}

// Dispatch performs the side effect for one resolver action.
func (d *Dispatcher) Dispatch(a translate.Action) {
	switch a.Kind {
	case translate.ActionNone:

	case translate.ActionLockOn, translate.ActionLockOff:
		d.log.Info("lock changed", "lock", a.Lock.String(), "on", a.Kind == translate.ActionLockOn)

	case translate.ActionZap:
		d.log.Info("zap requested, quitting")
		if d.quit != nil {
			d.quit()
		}

	case translate.ActionReboot:
		d.runHook("reboot", d.hooks.Reboot)

	case translate.ActionPreviousConsole:
		d.runHook("previous-console", d.hooks.PreviousConsole)

	case translate.ActionNextConsole:
		d.runHook("next-console", d.hooks.NextConsole)

	case translate.ActionSwitchConsole:
		line := strings.ReplaceAll(d.hooks.SwitchConsole, "{console}", strconv.Itoa(a.Console))
		d.runHook("switch-console", line)
	}
}

func (d *Dispatcher) runHook(name, line string) {
	if line == "" {
		d.log.Info("no hook configured", "action", name)
		return
	}
	if d.runner == nil {
		return
	}
	if err := d.runner.Run(line); err != nil {
		d.log.Warn("hook failed", "action", name, "error", err)
	}
}
