package keymap

import (
	evdev "github.com/gvalkov/golang-evdev"
)

// Compiled-in US keymap. It is always available as the fallback table
// and is never replaced in place; Builtin returns the same table on
// every call so ownership checks stay a pointer comparison.

var builtin = buildDefault()

// Builtin returns the compiled-in default table.
func Builtin() *Table { return builtin }

// qwerty letter rows, keycode-aligned with the evdev key rows.
var letterRows = []struct {
	first uint16
	chars string
}{
	{evdev.KEY_Q, "qwertyuiop"},
	{evdev.KEY_A, "asdfghjkl"},
	{evdev.KEY_Z, "zxcvbnm"},
}

// digit row and its shifted symbols, keycode-aligned from KEY_1.
const (
	digitChars = "1234567890"
	digitShift = "!@#$%^&*()"
)

// punctuation keys: plain and shifted character per keycode.
var punctKeys = []struct {
	code        uint16
	base, shift rune
}{
	{evdev.KEY_MINUS, '-', '_'},
	{evdev.KEY_EQUAL, '=', '+'},
	{evdev.KEY_LEFTBRACE, '[', '{'},
	{evdev.KEY_RIGHTBRACE, ']', '}'},
	{evdev.KEY_SEMICOLON, ';', ':'},
	{evdev.KEY_APOSTROPHE, '\'', '"'},
	{evdev.KEY_GRAVE, '`', '~'},
	{evdev.KEY_BACKSLASH, '\\', '|'},
	{evdev.KEY_COMMA, ',', '<'},
	{evdev.KEY_DOT, '.', '>'},
	{evdev.KEY_SLASH, '/', '?'},
}

func buildDefault() *Table {
	t := &Table{}
	add := func(m Mapping) { t.Mappings = append(t.Mappings, m) }

	// Letters: plain, shifted and control entries. The plain and
	// shifted entries carry no baked modifier bits, so the live state
	// is merged into the emission; the control entries bake Control in.
	for _, row := range letterRows {
		for i, c := range row.chars {
			kc := row.first + uint16(i)
			upper := uint16(c) - 0x20
			add(Mapping{kc, uint16(c), Code(upper), ModPlain, IsLetter, 0})
			add(Mapping{kc, upper, Code(upper), ModShift, IsLetter, 0})
			add(Mapping{kc, upper - 'A' + 1, Pack(Key(upper), Control), ModControl, 0, 0})
		}
	}

	// Digit row.
	for i := range digitChars {
		kc := uint16(evdev.KEY_1 + i)
		add(Mapping{kc, uint16(digitChars[i]), Code(digitChars[i]), ModPlain, 0, 0})
		add(Mapping{kc, uint16(digitShift[i]), Code(digitShift[i]), ModShift, 0, 0})
	}

	// Punctuation.
	for _, p := range punctKeys {
		add(Mapping{p.code, uint16(p.base), Code(p.base), ModPlain, 0, 0})
		add(Mapping{p.code, uint16(p.shift), Code(p.shift), ModShift, 0, 0})
	}

	// Whitespace and editing keys.
	add(Mapping{evdev.KEY_SPACE, ' ', Code(' '), ModPlain, 0, 0})
	add(Mapping{evdev.KEY_ENTER, '\r', Code(KeyReturn), ModPlain, 0, 0})
	add(Mapping{evdev.KEY_TAB, '\t', Code(KeyTab), ModPlain, 0, 0})
	add(Mapping{evdev.KEY_ESC, 0x1b, Code(KeyEscape), ModPlain, 0, 0})
	add(Mapping{evdev.KEY_BACKSPACE, 0x08, Code(KeyBackspace), ModPlain, 0, 0})

	// Modifier keys. Special carries the kernel mask bit the key
	// owns; the right alt selects the AltGr layer.
	add(Mapping{evdev.KEY_LEFTSHIFT, NoUnicode, Code(KeyShift), ModPlain, IsModifier, uint16(ModShift)})
	add(Mapping{evdev.KEY_RIGHTSHIFT, NoUnicode, Code(KeyShift), ModPlain, IsModifier, uint16(ModShift)})
	add(Mapping{evdev.KEY_LEFTCTRL, NoUnicode, Code(KeyControl), ModPlain, IsModifier, uint16(ModControl)})
	add(Mapping{evdev.KEY_RIGHTCTRL, NoUnicode, Code(KeyControl), ModPlain, IsModifier, uint16(ModControl)})
	add(Mapping{evdev.KEY_LEFTALT, NoUnicode, Code(KeyAlt), ModPlain, IsModifier, uint16(ModAlt)})
	add(Mapping{evdev.KEY_RIGHTALT, NoUnicode, Code(KeyAltGr), ModPlain, IsModifier, uint16(ModAltGr)})

	// The kernel mask has no meta bit; meta keys emit as ordinary
	// special keys instead of tracking state.
	add(Mapping{evdev.KEY_LEFTMETA, NoUnicode, Code(KeyMeta), ModPlain, 0, 0})
	add(Mapping{evdev.KEY_RIGHTMETA, NoUnicode, Code(KeyMeta), ModPlain, 0, 0})
	add(Mapping{evdev.KEY_COMPOSE, NoUnicode, Code(KeyMulti), ModPlain, 0, 0})

	// Lock keys.
	add(Mapping{evdev.KEY_CAPSLOCK, NoUnicode, Code(KeyCapsLock), ModPlain, 0, 0})
	add(Mapping{evdev.KEY_NUMLOCK, NoUnicode, Code(KeyNumLock), ModPlain, 0, 0})
	add(Mapping{evdev.KEY_SCROLLLOCK, NoUnicode, Code(KeyScrollLock), ModPlain, 0, 0})

	// Function keys, plus Ctrl+Alt+Fn virtual console switches.
	for i := 0; i < 12; i++ {
		kc := uint16(evdev.KEY_F1 + i)
		if i >= 10 {
			kc = uint16(evdev.KEY_F11 + i - 10)
		}
		add(Mapping{kc, NoUnicode, Code(KeyF1 + Key(i)), ModPlain, 0, 0})
		add(Mapping{kc, NoUnicode, Code(KeyF1 + Key(i)), ModControl | ModAlt, IsSystem, SystemConsoleFirst + uint16(i)})
	}

	// System chords.
	add(Mapping{evdev.KEY_DELETE, NoUnicode, Code(KeyDelete), ModControl | ModAlt, IsSystem, SystemReboot})
	add(Mapping{evdev.KEY_BACKSPACE, NoUnicode, Code(KeyBackspace), ModControl | ModAlt, IsSystem, SystemZap})
	add(Mapping{evdev.KEY_LEFT, NoUnicode, Code(KeyLeft), ModControl | ModAlt, IsSystem, SystemConsolePrevious})
	add(Mapping{evdev.KEY_RIGHT, NoUnicode, Code(KeyRight), ModControl | ModAlt, IsSystem, SystemConsoleNext})

	// Navigation cluster.
	add(Mapping{evdev.KEY_HOME, NoUnicode, Code(KeyHome), ModPlain, 0, 0})
	add(Mapping{evdev.KEY_UP, NoUnicode, Code(KeyUp), ModPlain, 0, 0})
	add(Mapping{evdev.KEY_PAGEUP, NoUnicode, Code(KeyPageUp), ModPlain, 0, 0})
	add(Mapping{evdev.KEY_LEFT, NoUnicode, Code(KeyLeft), ModPlain, 0, 0})
	add(Mapping{evdev.KEY_RIGHT, NoUnicode, Code(KeyRight), ModPlain, 0, 0})
	add(Mapping{evdev.KEY_END, NoUnicode, Code(KeyEnd), ModPlain, 0, 0})
	add(Mapping{evdev.KEY_DOWN, NoUnicode, Code(KeyDown), ModPlain, 0, 0})
	add(Mapping{evdev.KEY_PAGEDOWN, NoUnicode, Code(KeyPageDown), ModPlain, 0, 0})
	add(Mapping{evdev.KEY_INSERT, NoUnicode, Code(KeyInsert), ModPlain, 0, 0})
	add(Mapping{evdev.KEY_DELETE, NoUnicode, Code(KeyDelete), ModPlain, 0, 0})

	// Keypad. The baked Keypad bit drives the NumLock-off remap.
	kp := func(code uint16, ch rune, key Key) {
		add(Mapping{code, uint16(ch), Pack(key, Keypad), ModPlain, 0, 0})
	}
	kp(evdev.KEY_KP7, '7', Key('7'))
	kp(evdev.KEY_KP8, '8', Key('8'))
	kp(evdev.KEY_KP9, '9', Key('9'))
	kp(evdev.KEY_KPMINUS, '-', Key('-'))
	kp(evdev.KEY_KP4, '4', Key('4'))
	kp(evdev.KEY_KP5, '5', Key('5'))
	kp(evdev.KEY_KP6, '6', Key('6'))
	kp(evdev.KEY_KPPLUS, '+', Key('+'))
	kp(evdev.KEY_KP1, '1', Key('1'))
	kp(evdev.KEY_KP2, '2', Key('2'))
	kp(evdev.KEY_KP3, '3', Key('3'))
	kp(evdev.KEY_KP0, '0', Key('0'))
	kp(evdev.KEY_KPDOT, '.', Key('.'))
	kp(evdev.KEY_KPASTERISK, '*', Key('*'))
	kp(evdev.KEY_KPSLASH, '/', Key('/'))
	kp(evdev.KEY_KPENTER, '\r', KeyEnter)

	t.Composings = defaultComposings()
	return t
}

// Diacritic pairs reachable through the Compose key. Each diacritic
// composed with space yields the literal diacritic character.
func defaultComposings() []Composing {
	sets := []struct {
		mark  uint16
		pairs map[uint16]uint16
	}{
		{'`', map[uint16]uint16{
			'a': 0xe0, 'e': 0xe8, 'i': 0xec, 'o': 0xf2, 'u': 0xf9,
			'A': 0xc0, 'E': 0xc8, 'I': 0xcc, 'O': 0xd2, 'U': 0xd9,
		}},
		{0xb4, map[uint16]uint16{ // acute
			'a': 0xe1, 'e': 0xe9, 'i': 0xed, 'o': 0xf3, 'u': 0xfa, 'y': 0xfd,
			'A': 0xc1, 'E': 0xc9, 'I': 0xcd, 'O': 0xd3, 'U': 0xda, 'Y': 0xdd,
		}},
		{'^', map[uint16]uint16{
			'a': 0xe2, 'e': 0xea, 'i': 0xee, 'o': 0xf4, 'u': 0xfb,
			'A': 0xc2, 'E': 0xca, 'I': 0xce, 'O': 0xd4, 'U': 0xdb,
		}},
		{'~', map[uint16]uint16{
			'a': 0xe3, 'n': 0xf1, 'o': 0xf5,
			'A': 0xc3, 'N': 0xd1, 'O': 0xd5,
		}},
		{0xa8, map[uint16]uint16{ // diaeresis
			'a': 0xe4, 'e': 0xeb, 'i': 0xef, 'o': 0xf6, 'u': 0xfc, 'y': 0xff,
			'A': 0xc4, 'E': 0xcb, 'I': 0xcf, 'O': 0xd6, 'U': 0xdc,
		}},
	}

	var cs []Composing
	for _, set := range sets {
		cs = append(cs, Composing{set.mark, ' ', set.mark})
		// Deterministic order for the table literal.
		for _, second := range []uint16{
			'a', 'e', 'i', 'n', 'o', 'u', 'y',
			'A', 'E', 'I', 'N', 'O', 'U', 'Y',
		} {
			if result, ok := set.pairs[second]; ok {
				cs = append(cs, Composing{set.mark, second, result})
			}
		}
	}
	return cs
}
