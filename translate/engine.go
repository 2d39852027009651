package translate

import (
	"io"
	"log/slog"

	"vxkeyd/keymap"
)

// Options is the construction-time engine configuration. Both switches
// are read at construction and never change afterwards.
type Options struct {
	// DisableZap suppresses the application-quit action on the Zap
	// system key.
	DisableZap bool
	// EnableCompose turns on dead-key/compose handling for the
	// built-in table. Loading an external keymap enables compose for
	// that table regardless.
	EnableCompose bool
}

// Engine owns the active keymap table and the translation state. It is
// single-threaded by contract: events must be delivered one at a time,
// in device order, and table swaps must not race a resolution.
type Engine struct {
	log     *slog.Logger
	opts    Options
	table   *keymap.Table
	compose bool
	state   State
}

// New creates an engine bound to the built-in default table.
func New(log *slog.Logger, opts Options) *Engine {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	e := &Engine{
		log:     log,
		opts:    opts,
		table:   keymap.Builtin(),
		compose: opts.EnableCompose,
	}
	e.state.reset()
	return e
}

// LoadKeymap reads a binary keymap file and makes it the active table.
// On failure the previously active table and state stay in force and
// the error reports which validation step failed. On success the
// translation state is reset and compose handling is enabled for the
// loaded table.
func (e *Engine) LoadKeymap(path string) error {
	t, err := keymap.Load(path)
	if err != nil {
		e.log.Warn("keymap load failed, keeping active table", "error", err)
		return err
	}
	e.table = t
	e.compose = true
	e.state.reset()
	e.log.Debug("keymap loaded", "path", path,
		"mappings", len(t.Mappings), "composings", len(t.Composings))
	return nil
}

// UnloadKeymap rebinds the engine to the built-in default table and
// resets the translation state. Safe to call repeatedly.
func (e *Engine) UnloadKeymap() {
	e.log.Debug("restoring built-in keymap")
	e.table = keymap.Builtin()
	e.compose = e.opts.EnableCompose
	e.state.reset()
}

// SetLangLock sets the external language-lock toggle. It is not driven
// by key events.
func (e *Engine) SetLangLock(on bool) {
	e.state.LangLock = on
}

// State returns a copy of the current translation state.
func (e *Engine) State() State { return e.state }

// Table returns the active table.
func (e *Engine) Table() *keymap.Table { return e.table }

// ComposeEnabled reports whether dead-key/compose handling is active
// for the current table.
func (e *Engine) ComposeEnabled() bool { return e.compose }
