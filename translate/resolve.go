package translate

import "vxkeyd/keymap"

// NumLock-off remap: keypad scan codes to the navigation key they fall
// back to. The keypad minus (74) and plus (78) positions are excluded.
var numpadNavigation = map[uint16]keymap.Key{
	71: keymap.KeyHome,
	72: keymap.KeyUp,
	73: keymap.KeyPageUp,
	75: keymap.KeyLeft,
	76: keymap.KeyClear,
	77: keymap.KeyRight,
	79: keymap.KeyEnd,
	80: keymap.KeyDown,
	81: keymap.KeyPageDown,
	82: keymap.KeyInsert,
	83: keymap.KeyDelete,
}

// Resolve translates one raw key event against the active table,
// mutating the translation state. The returned symbol is nil when the
// event is swallowed (modifiers, locks, system chords, compose
// priming, unmapped keycodes); the returned action is zero-valued when
// the event has no side effect.
func (e *Engine) Resolve(keycode uint16, pressed, autorepeat bool) (*Symbol, Action) {
	firstPress := pressed && !autorepeat

	// Candidate search: first plain entry and first entry matching the
	// adjusted live modifier mask. First match wins for both slots.
	var plain, withmod *keymap.Mapping
	for i := range e.table.Mappings {
		if plain != nil && withmod != nil {
			break
		}
		m := &e.table.Mappings[i]
		if m.Keycode != keycode {
			continue
		}
		if m.Modifiers == keymap.ModPlain && plain == nil {
			plain = m
		}
		testmods := e.state.Modifiers
		if e.state.Locks[LockCaps] && m.Flags&keymap.IsLetter != 0 {
			testmods ^= keymap.ModShift
		}
		if e.state.LangLock {
			testmods ^= keymap.ModAltGr
		}
		if m.Modifiers == testmods && withmod == nil {
			withmod = m
		}
	}

	// CapsLock flips the shift presentation of letters independently
	// of which candidate matched.
	modifiers := e.state.Modifiers
	if e.state.Locks[LockCaps] && withmod != nil && withmod.Flags&keymap.IsLetter != 0 {
		modifiers ^= keymap.ModShift
	}

	it := withmod
	if it == nil {
		it = plain
	}
	if it == nil {
		e.log.Debug("no mapping for keycode", "keycode", keycode, "modifiers", e.state.Modifiers)
		return nil, Action{}
	}

	var action Action
	skip := false
	unicode := it.Unicode
	code := it.Code
	key, _ := code.Split()

	switch {
	case it.Flags&keymap.IsModifier != 0 && it.Special != 0:
		// Modifier key: track it in the kernel mask, emit nothing.
		// Repeats re-set the same bit, which is harmless.
		if pressed {
			e.state.Modifiers |= uint8(it.Special)
		} else {
			e.state.Modifiers &^= uint8(it.Special)
		}
		skip = true

	case key.IsLock():
		// Lock keys toggle only on a genuine press.
		if firstPress {
			lock := Lock(key - keymap.KeyCapsLock)
			e.state.Locks[lock] = !e.state.Locks[lock]
			if e.state.Locks[lock] {
				action = Action{Kind: ActionLockOn, Lock: lock}
			} else {
				action = Action{Kind: ActionLockOff, Lock: lock}
			}
		}
		skip = true

	case it.Flags&keymap.IsSystem != 0 && it.Special != 0:
		if firstPress {
			switch it.Special {
			case keymap.SystemReboot:
				action = Action{Kind: ActionReboot}
			case keymap.SystemZap:
				if !e.opts.DisableZap {
					action = Action{Kind: ActionZap}
				}
			case keymap.SystemConsolePrevious:
				action = Action{Kind: ActionPreviousConsole}
			case keymap.SystemConsoleNext:
				action = Action{Kind: ActionNextConsole}
			default:
				if it.Special >= keymap.SystemConsoleFirst && it.Special <= keymap.SystemConsoleLast {
					action = Action{
						Kind:    ActionSwitchConsole,
						Console: int(it.Special - keymap.SystemConsoleFirst),
					}
				}
			}
		}
		skip = true

	case key == keymap.KeyMulti && e.compose:
		if firstPress {
			e.state.Phase = ComposeArmed
		}
		skip = true

	case it.Flags&keymap.IsDead != 0 && e.compose:
		switch {
		case firstPress && e.state.Phase == DeadArmed && e.state.DeadUnicode == unicode:
			// Same dead key twice: cancel, emit an unknown-key symbol
			// with no character so the completion is observable.
			e.state.Phase = ComposeIdle
			code = keymap.Code(keymap.KeyUnknown)
			unicode = keymap.NoUnicode
		case firstPress && unicode != keymap.NoUnicode:
			e.state.DeadUnicode = unicode
			e.state.Phase = DeadArmed
			skip = true
		default:
			skip = true
		}
	}

	if !skip {
		// No usable specific candidate, or one without baked modifier
		// bits: merge the live modifier state into the emission.
		if (it == plain && withmod == nil) ||
			(withmod != nil && withmod.Code&keymap.Code(keymap.ModifierMask) == 0) {
			code |= keymap.Code(keymap.EmissionModifiers(modifiers))
		}

		if e.compose && firstPress && it.Flags&keymap.IsModifier == 0 {
			switch e.state.Phase {
			case ComposeArmed:
				if unicode != keymap.NoUnicode && e.table.HasComposeFirst(unicode) {
					// Key primes a dead sequence.
					e.state.DeadUnicode = unicode
					unicode = keymap.NoUnicode
					e.state.Phase = DeadArmed
					skip = true
				} else {
					e.state.Phase = ComposeIdle
				}
			case DeadArmed:
				valid := false
				if unicode != keymap.NoUnicode {
					if composed, ok := e.table.FindCompose(e.state.DeadUnicode, unicode); ok && composed != keymap.NoUnicode {
						unicode = composed
						code = keymap.Code(keymap.KeyUnknown)
						valid = true
					}
				}
				if !valid {
					// Unknown or invalid pair: the buffered dead
					// character is emitted literally.
					unicode = e.state.DeadUnicode
					code = keymap.Code(keymap.KeyUnknown)
				}
				e.state.Phase = ComposeIdle
			}
		}

		if !skip {
			key, mods := code.Split()

			// NumLock off: keypad keys fall back to navigation.
			if !e.state.Locks[LockNum] && mods.Has(keymap.Keypad) {
				if nav, ok := numpadNavigation[keycode]; ok {
					unicode = keymap.NoUnicode
					key = nav
				}
			}

			// Shift+Tab is delivered as Backtab.
			if key == keymap.KeyTab && mods.Has(keymap.Shift) {
				key = keymap.KeyBacktab
			}

			sym := &Symbol{
				Key:        key,
				Modifiers:  mods,
				Unicode:    unicode,
				Keycode:    keycode,
				Pressed:    pressed,
				Autorepeat: autorepeat,
			}
			e.log.Debug("resolved", "keycode", keycode, "symbol", sym, "action", action)
			return sym, action
		}
	}

	e.log.Debug("swallowed", "keycode", keycode, "pressed", pressed,
		"state_mods", e.state.Modifiers, "phase", e.state.Phase, "action", action)
	return nil, action
}
