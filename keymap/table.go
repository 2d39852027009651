// Package keymap holds the scancode translation tables: the mapping and
// composing records, the packed symbol-code contract, the binary .vkm
// file codec and the compiled-in US default table.
package keymap

// Entry flags. A dense bit set by format; resolution dispatches on them
// in a fixed priority order (modifier, lock, system, compose, dead,
// ordinary).
const (
	IsDead       uint8 = 0x01
	IsAutorepeat uint8 = 0x02
	IsSystem     uint8 = 0x04
	IsModifier   uint8 = 0x08
	IsLetter     uint8 = 0x10
)

// Special codes for IsSystem entries. Console switch targets occupy the
// SystemConsoleFirst..SystemConsoleLast sub-range; the console index is
// the offset from SystemConsoleFirst.
const (
	SystemReboot          uint16 = 0x01
	SystemZap             uint16 = 0x02
	SystemConsolePrevious uint16 = 0x03
	SystemConsoleNext     uint16 = 0x04
	SystemConsoleFirst    uint16 = 0x10
	SystemConsoleLast     uint16 = 0x7f
)

// NoUnicode is the "no character" sentinel for unicode fields.
const NoUnicode uint16 = 0xffff

// Mapping is one translation rule: under the exact kernel modifier mask
// Modifiers, keycode Keycode resolves to the packed symbol Code and the
// character Unicode. Field order and widths are the binary file layout.
//
// Several entries may share a keycode; resolution takes the first plain
// (Modifiers==0) hit and the first hit whose mask equals the adjusted
// live modifier state.
type Mapping struct {
	Keycode   uint16
	Unicode   uint16
	Code      Code
	Modifiers uint8
	Flags     uint8
	Special   uint16
}

// Composing is one dead-key pair rule: First primes, Second resolves to
// Result. Result == NoUnicode marks an explicitly invalid pair.
type Composing struct {
	First  uint16
	Second uint16
	Result uint16
}

// Table is a complete keymap: ordered mapping rules plus ordered
// composing rules. Exactly one table is active in an engine at a time.
type Table struct {
	Mappings   []Mapping
	Composings []Composing
}

// HasComposeFirst reports whether any composing rule is primed by the
// given code point.
func (t *Table) HasComposeFirst(first uint16) bool {
	for i := range t.Composings {
		if t.Composings[i].First == first {
			return true
		}
	}
	return false
}

// FindCompose returns the result of the first composing rule matching
// the (first, second) pair. The result may be NoUnicode for pairs the
// table declares invalid.
func (t *Table) FindCompose(first, second uint16) (uint16, bool) {
	for i := range t.Composings {
		if t.Composings[i].First == first && t.Composings[i].Second == second {
			return t.Composings[i].Result, true
		}
	}
	return NoUnicode, false
}
