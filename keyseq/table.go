package keyseq

import (
	"strconv"

	evdev "github.com/gvalkov/golang-evdev"
)

// keyDef maps key names to evdev codes. Letter and digit names double
// as the characters they type; punctuation gets both a symbol alias
// and its key position.
var keyDef = map[string]uint16{
	"Esc":       evdev.KEY_ESC,
	"Tab":       evdev.KEY_TAB,
	"Space":     evdev.KEY_SPACE,
	"Enter":     evdev.KEY_ENTER,
	"Backspace": evdev.KEY_BACKSPACE,

	"LShift": evdev.KEY_LEFTSHIFT,
	"RShift": evdev.KEY_RIGHTSHIFT,
	"LCtrl":  evdev.KEY_LEFTCTRL,
	"RCtrl":  evdev.KEY_RIGHTCTRL,
	"LAlt":   evdev.KEY_LEFTALT,
	"RAlt":   evdev.KEY_RIGHTALT,
	"LMeta":  evdev.KEY_LEFTMETA,
	"RMeta":  evdev.KEY_RIGHTMETA,
	"Menu":   evdev.KEY_COMPOSE,

	"CapsLock":   evdev.KEY_CAPSLOCK,
	"NumLock":    evdev.KEY_NUMLOCK,
	"ScrollLock": evdev.KEY_SCROLLLOCK,

	"Up":       evdev.KEY_UP,
	"Down":     evdev.KEY_DOWN,
	"Left":     evdev.KEY_LEFT,
	"Right":    evdev.KEY_RIGHT,
	"Home":     evdev.KEY_HOME,
	"End":      evdev.KEY_END,
	"PageUp":   evdev.KEY_PAGEUP,
	"PageDown": evdev.KEY_PAGEDOWN,
	"Insert":   evdev.KEY_INSERT,
	"Delete":   evdev.KEY_DELETE,

	"-":  evdev.KEY_MINUS,
	"=":  evdev.KEY_EQUAL,
	"[":  evdev.KEY_LEFTBRACE,
	"]":  evdev.KEY_RIGHTBRACE,
	";":  evdev.KEY_SEMICOLON,
	"'":  evdev.KEY_APOSTROPHE,
	"`":  evdev.KEY_GRAVE,
	"\\": evdev.KEY_BACKSLASH,
	",":  evdev.KEY_COMMA,
	".":  evdev.KEY_DOT,
	"/":  evdev.KEY_SLASH,

	"Keypad_0":     evdev.KEY_KP0,
	"Keypad_1":     evdev.KEY_KP1,
	"Keypad_2":     evdev.KEY_KP2,
	"Keypad_3":     evdev.KEY_KP3,
	"Keypad_4":     evdev.KEY_KP4,
	"Keypad_5":     evdev.KEY_KP5,
	"Keypad_6":     evdev.KEY_KP6,
	"Keypad_7":     evdev.KEY_KP7,
	"Keypad_8":     evdev.KEY_KP8,
	"Keypad_9":     evdev.KEY_KP9,
	"Keypad_Dot":   evdev.KEY_KPDOT,
	"Keypad_Plus":  evdev.KEY_KPPLUS,
	"Keypad_Minus": evdev.KEY_KPMINUS,
	"Keypad_Star":  evdev.KEY_KPASTERISK,
	"Keypad_Slash": evdev.KEY_KPSLASH,
	"Keypad_Enter": evdev.KEY_KPENTER,
}

// shiftSymbols maps a shifted symbol to the name of the key that
// produces it.
var shiftSymbols = map[rune]string{
	'!': "1", '@': "2", '#': "3", '$': "4", '%': "5",
	'^': "6", '&': "7", '*': "8", '(': "9", ')': "0",
	'_': "-", '+': "=", '{': "[", '}': "]", ':': ";",
	'"': "'", '~': "`", '|': "\\", '<': ",", '>': ".",
	'?': "/",
}

// keyName is keyDef inverted; first writer wins for aliased codes.
var keyName = map[uint16]string{}

func init() {
	letters := "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	letterCodes := []uint16{
		evdev.KEY_A, evdev.KEY_B, evdev.KEY_C, evdev.KEY_D, evdev.KEY_E,
		evdev.KEY_F, evdev.KEY_G, evdev.KEY_H, evdev.KEY_I, evdev.KEY_J,
		evdev.KEY_K, evdev.KEY_L, evdev.KEY_M, evdev.KEY_N, evdev.KEY_O,
		evdev.KEY_P, evdev.KEY_Q, evdev.KEY_R, evdev.KEY_S, evdev.KEY_T,
		evdev.KEY_U, evdev.KEY_V, evdev.KEY_W, evdev.KEY_X, evdev.KEY_Y,
		evdev.KEY_Z,
	}
	for i := 0; i < len(letters); i++ {
		keyDef[letters[i:i+1]] = letterCodes[i]
	}

	digitCodes := []uint16{
		evdev.KEY_0, evdev.KEY_1, evdev.KEY_2, evdev.KEY_3, evdev.KEY_4,
		evdev.KEY_5, evdev.KEY_6, evdev.KEY_7, evdev.KEY_8, evdev.KEY_9,
	}
	for i := 0; i < 10; i++ {
		keyDef[string(rune('0'+i))] = digitCodes[i]
	}

	for i := 0; i < 12; i++ {
		code := uint16(evdev.KEY_F1 + i)
		if i >= 10 {
			code = uint16(evdev.KEY_F11 + i - 10)
		}
		keyDef["F"+strconv.Itoa(i+1)] = code
	}

	for name, code := range keyDef {
		if _, taken := keyName[code]; !taken {
			keyName[code] = name
		}
	}
}
