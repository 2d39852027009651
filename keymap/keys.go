package keymap

import "fmt"

// Key is a layout-independent logical key identifier. Values below
// KeySpecialBase are the Unicode code point of the key's uppercase
// character; special keys live above it. The three lock keys are
// contiguous so lock state can be indexed by offset from KeyCapsLock.
type Key uint32

const (
	// KeySpecialBase separates character keys from special keys.
	KeySpecialBase Key = 0x01000000

	KeyEscape     Key = 0x01000000
	KeyTab        Key = 0x01000001
	KeyBacktab    Key = 0x01000002
	KeyBackspace  Key = 0x01000003
	KeyReturn     Key = 0x01000004
	KeyEnter      Key = 0x01000005
	KeyInsert     Key = 0x01000006
	KeyDelete     Key = 0x01000007
	KeyPause      Key = 0x01000008
	KeyPrint      Key = 0x01000009
	KeySysReq     Key = 0x0100000a
	KeyClear      Key = 0x0100000b
	KeyHome       Key = 0x01000010
	KeyEnd        Key = 0x01000011
	KeyLeft       Key = 0x01000012
	KeyUp         Key = 0x01000013
	KeyRight      Key = 0x01000014
	KeyDown       Key = 0x01000015
	KeyPageUp     Key = 0x01000016
	KeyPageDown   Key = 0x01000017
	KeyShift      Key = 0x01000020
	KeyControl    Key = 0x01000021
	KeyMeta       Key = 0x01000022
	KeyAlt        Key = 0x01000023
	KeyCapsLock   Key = 0x01000024
	KeyNumLock    Key = 0x01000025
	KeyScrollLock Key = 0x01000026
	KeyF1         Key = 0x01000030
	KeyF2         Key = 0x01000031
	KeyF3         Key = 0x01000032
	KeyF4         Key = 0x01000033
	KeyF5         Key = 0x01000034
	KeyF6         Key = 0x01000035
	KeyF7         Key = 0x01000036
	KeyF8         Key = 0x01000037
	KeyF9         Key = 0x01000038
	KeyF10        Key = 0x01000039
	KeyF11        Key = 0x0100003a
	KeyF12        Key = 0x0100003b
	KeyMenu       Key = 0x01000055
	KeyAltGr      Key = 0x01001103
	KeyMulti      Key = 0x01001120

	// KeyUnknown marks an emission whose logical key identity has been
	// discarded, e.g. a composed character.
	KeyUnknown Key = 0x01ffffff
)

var keyNames = map[Key]string{
	KeyEscape:     "Escape",
	KeyTab:        "Tab",
	KeyBacktab:    "Backtab",
	KeyBackspace:  "Backspace",
	KeyReturn:     "Return",
	KeyEnter:      "Enter",
	KeyInsert:     "Insert",
	KeyDelete:     "Delete",
	KeyPause:      "Pause",
	KeyPrint:      "Print",
	KeySysReq:     "SysReq",
	KeyClear:      "Clear",
	KeyHome:       "Home",
	KeyEnd:        "End",
	KeyLeft:       "Left",
	KeyUp:         "Up",
	KeyRight:      "Right",
	KeyDown:       "Down",
	KeyPageUp:     "PageUp",
	KeyPageDown:   "PageDown",
	KeyShift:      "Shift",
	KeyControl:    "Control",
	KeyMeta:       "Meta",
	KeyAlt:        "Alt",
	KeyCapsLock:   "CapsLock",
	KeyNumLock:    "NumLock",
	KeyScrollLock: "ScrollLock",
	KeyMenu:       "Menu",
	KeyAltGr:      "AltGr",
	KeyMulti:      "Multi",
	KeyUnknown:    "Unknown",
}

var namedKeys = func() map[string]Key {
	m := make(map[string]Key, len(keyNames)+12)
	for k, name := range keyNames {
		m[name] = k
	}
	for i := Key(0); i < 12; i++ {
		m[fmt.Sprintf("F%d", i+1)] = KeyF1 + i
	}
	return m
}()

// KeyByName resolves a key's display name back to its value.
func KeyByName(name string) (Key, bool) {
	k, ok := namedKeys[name]
	return k, ok
}

// IsCharacter reports whether the key identifies itself by code point.
func (k Key) IsCharacter() bool { return k < KeySpecialBase }

// IsLock reports whether the key is one of the three lock keys.
func (k Key) IsLock() bool { return k >= KeyCapsLock && k <= KeyScrollLock }

func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	if k.IsCharacter() {
		return fmt.Sprintf("%q", rune(k))
	}
	if k >= KeyF1 && k <= KeyF12 {
		return fmt.Sprintf("F%d", k-KeyF1+1)
	}
	return fmt.Sprintf("Key(%#08x)", uint32(k))
}

// Modifiers is the emission-side modifier representation carried in the
// high bits of a packed Code.
type Modifiers uint32

const (
	Shift       Modifiers = 0x02000000
	Control     Modifiers = 0x04000000
	Alt         Modifiers = 0x08000000
	Meta        Modifiers = 0x10000000
	Keypad      Modifiers = 0x20000000
	GroupSwitch Modifiers = 0x40000000

	// ModifierMask covers the modifier classes recognized during
	// resolution. GroupSwitch is deliberately outside the mask.
	ModifierMask = Shift | Control | Alt | Meta | Keypad
)

// Has reports whether m contains mod.
func (m Modifiers) Has(mod Modifiers) bool { return m&mod != 0 }

func (m Modifiers) String() string {
	if m == 0 {
		return "-"
	}
	s := ""
	add := func(bit Modifiers, name string) {
		if m&bit != 0 {
			if s != "" {
				s += "+"
			}
			s += name
		}
	}
	add(Shift, "Shift")
	add(Control, "Control")
	add(Alt, "Alt")
	add(Meta, "Meta")
	add(Keypad, "Keypad")
	add(GroupSwitch, "Group")
	return s
}

// Code is the packed symbol code stored in a Mapping record: a logical
// key identifier in the low bits with emission modifier bits above it.
// The packing is part of the keymap file format; resolution decodes it
// with Split immediately after table lookup.
type Code uint32

// Split decodes a packed code into its logical key and the modifier
// bits baked into the entry.
func (c Code) Split() (Key, Modifiers) {
	return Key(c &^ Code(ModifierMask)), Modifiers(c) & ModifierMask
}

// Pack builds a packed code from a logical key and modifier bits.
func Pack(k Key, m Modifiers) Code {
	return Code(k) | Code(m)
}

// Kernel-side modifier mask, as tracked by the translation state and
// matched against a Mapping's Modifiers field. One byte, by format.
const (
	ModPlain   uint8 = 0x00
	ModShift   uint8 = 0x01
	ModAltGr   uint8 = 0x02
	ModControl uint8 = 0x04
	ModAlt     uint8 = 0x08
	ModShiftL  uint8 = 0x10
	ModShiftR  uint8 = 0x20
	ModCtrlL   uint8 = 0x40
	ModCtrlR   uint8 = 0x80
)

// EmissionModifiers translates the kernel-side modifier mask into the
// emission representation. AltGr selects a layer and does not surface
// as an emitted modifier.
func EmissionModifiers(mods uint8) Modifiers {
	var m Modifiers
	if mods&(ModShift|ModShiftL|ModShiftR) != 0 {
		m |= Shift
	}
	if mods&(ModControl|ModCtrlL|ModCtrlR) != 0 {
		m |= Control
	}
	if mods&ModAlt != 0 {
		m |= Alt
	}
	return m
}
