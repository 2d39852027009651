package translate

import (
	"fmt"

	"vxkeyd/keymap"
)

// Symbol is one resolved key event, ready for delivery to the
// windowing collaborator.
type Symbol struct {
	// Key is the logical key; KeyUnknown when the identity was
	// discarded (composed characters).
	Key keymap.Key
	// Modifiers is the emission-side modifier mask in effect before
	// this event.
	Modifiers keymap.Modifiers
	// Unicode is the character code point, NoUnicode when none.
	Unicode uint16
	// Keycode is the raw hardware code the symbol resolved from.
	Keycode    uint16
	Pressed    bool
	Autorepeat bool
}

// Text returns the symbol's character, or "" when it carries none.
func (s *Symbol) Text() string {
	if s.Unicode == keymap.NoUnicode {
		return ""
	}
	return string(rune(s.Unicode))
}

func (s *Symbol) String() string {
	dir := "release"
	if s.Pressed {
		dir = "press"
		if s.Autorepeat {
			dir = "repeat"
		}
	}
	return fmt.Sprintf("%s %s mods=%s text=%q code=%d", dir, s.Key, s.Modifiers, s.Text(), s.Keycode)
}

// ActionKind discriminates resolver side effects.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionLockOn
	ActionLockOff
	ActionReboot
	ActionZap
	ActionPreviousConsole
	ActionNextConsole
	ActionSwitchConsole
)

func (k ActionKind) String() string {
	switch k {
	case ActionNone:
		return "none"
	case ActionLockOn:
		return "lock-on"
	case ActionLockOff:
		return "lock-off"
	case ActionReboot:
		return "reboot"
	case ActionZap:
		return "zap"
	case ActionPreviousConsole:
		return "previous-console"
	case ActionNextConsole:
		return "next-console"
	case ActionSwitchConsole:
		return "switch-console"
	default:
		return "action(?)"
	}
}

// Action is a discrete side effect produced by resolution. The zero
// value means no action. Lock is meaningful for the lock kinds,
// Console for ActionSwitchConsole.
type Action struct {
	Kind    ActionKind
	Lock    Lock
	Console int
}

func (a Action) String() string {
	switch a.Kind {
	case ActionLockOn, ActionLockOff:
		return fmt.Sprintf("%s(%s)", a.Kind, a.Lock)
	case ActionSwitchConsole:
		return fmt.Sprintf("%s(%d)", a.Kind, a.Console)
	default:
		return a.Kind.String()
	}
}
