// Package translate turns raw (keycode, pressed, autorepeat) key
// events into resolved symbols and side-effect actions, driven by a
// keymap table and a small mutable translation state.
package translate

import "vxkeyd/keymap"

// Lock identifies one of the three independent lock toggles.
type Lock int

const (
	LockCaps Lock = iota
	LockNum
	LockScroll
)

func (l Lock) String() string {
	switch l {
	case LockCaps:
		return "CapsLock"
	case LockNum:
		return "NumLock"
	case LockScroll:
		return "ScrollLock"
	default:
		return "Lock(?)"
	}
}

// ComposePhase is the dead-key/compose state machine phase.
type ComposePhase uint8

const (
	// ComposeIdle: no composition in progress.
	ComposeIdle ComposePhase = iota
	// ComposeArmed: the Compose key was pressed; the next key primes a
	// dead sequence if it appears as a first code point in the table.
	ComposeArmed
	// DeadArmed: a dead key is buffered; the next key completes or
	// cancels the pair.
	DeadArmed
)

func (p ComposePhase) String() string {
	switch p {
	case ComposeIdle:
		return "idle"
	case ComposeArmed:
		return "compose-armed"
	case DeadArmed:
		return "dead-armed"
	default:
		return "phase(?)"
	}
}

// State is the translation state mutated by every resolved key event.
// It is owned by the engine and reset whenever the active table
// changes.
type State struct {
	// Modifiers is the kernel-side mask of currently depressed
	// modifier keys.
	Modifiers uint8
	// Locks holds the three lock bits, indexed by Lock.
	Locks [3]bool
	// Phase and DeadUnicode drive the compose state machine;
	// DeadUnicode is NoUnicode when nothing is buffered.
	Phase       ComposePhase
	DeadUnicode uint16
	// LangLock is toggled externally (input method switch) and XORs
	// the AltGr class during candidate testing.
	LangLock bool
}

func (s *State) reset() {
	*s = State{DeadUnicode: keymap.NoUnicode}
}
