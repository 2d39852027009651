// vxkeymap compiles textual keymap sources into the binary .vkm format
// and dumps binary keymaps back into readable form.
//
// Source format, one rule per line, '#' starts a comment:
//
//	map <keycode|name> <mods> <key> <unicode> <flags> <special>
//	compose <first> <second> <result>
//
// <mods> is "plain" or a '+'-joined list (shift, altgr, ctrl, alt,
// shiftl, shiftr, ctrll, ctrlr). <key> and <unicode> take a quoted
// character like 'a' or a number; "-" means no character. <flags> is
// "-" or a '+'-joined list (letter, dead, system, modifier,
// autorepeat). <special> is "-", a number, a modifier name, or one of
// reboot, zap, prev-console, next-console, console<N>.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	flag "github.com/spf13/pflag"

	"vxkeyd/keymap"
	"vxkeyd/keyseq"
)

func main() {
	f := flag.NewFlagSet("vxkeymap", flag.ExitOnError)
	dump := f.StringP("dump", "D", "", "Print the contents of a binary keymap file")
	compile := f.StringP("compile", "C", "", "Compile a textual keymap source")
	out := f.StringP("out", "o", "keymap.vkm", "Output file for --compile")
	builtin := f.BoolP("builtin", "b", false, "Print the compiled-in default table")
	f.Parse(os.Args[1:])

	switch {
	case *builtin:
		dumpTable(keymap.Builtin())
	case *dump != "":
		t, err := keymap.Load(*dump)
		if err != nil {
			fatal(err)
		}
		dumpTable(t)
	case *compile != "":
		t, err := compileFile(*compile)
		if err != nil {
			fatal(err)
		}
		w, err := os.Create(*out)
		if err != nil {
			fatal(err)
		}
		if err := t.Encode(w); err != nil {
			w.Close()
			fatal(err)
		}
		if err := w.Close(); err != nil {
			fatal(err)
		}
		fmt.Printf("%s: %d mappings, %d composings\n", *out, len(t.Mappings), len(t.Composings))
	default:
		f.Usage()
		os.Exit(2)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "vxkeymap:", err)
	os.Exit(1)
}

func dumpTable(t *keymap.Table) {
	for _, m := range t.Mappings {
		key, emitted := m.Code.Split()
		fmt.Printf("map %-14s %-12s %-12s %-8s %-22s %s\n",
			keycodeName(m.Keycode), modsString(m.Modifiers),
			key.String()+modSuffix(emitted), unicodeString(m.Unicode),
			flagsString(m.Flags), specialString(m.Flags, m.Special))
	}
	for _, c := range t.Composings {
		fmt.Printf("compose %s %s %s\n",
			unicodeString(c.First), unicodeString(c.Second), unicodeString(c.Result))
	}
}

func keycodeName(code uint16) string {
	if name := keyseq.NameForCode(code); name != "" {
		return name
	}
	return strconv.Itoa(int(code))
}

func modSuffix(m keymap.Modifiers) string {
	if m == 0 {
		return ""
	}
	return "+" + m.String()
}

var modNames = []struct {
	bit  uint8
	name string
}{
	{keymap.ModShift, "shift"},
	{keymap.ModAltGr, "altgr"},
	{keymap.ModControl, "ctrl"},
	{keymap.ModAlt, "alt"},
	{keymap.ModShiftL, "shiftl"},
	{keymap.ModShiftR, "shiftr"},
	{keymap.ModCtrlL, "ctrll"},
	{keymap.ModCtrlR, "ctrlr"},
}

func modsString(mods uint8) string {
	if mods == 0 {
		return "plain"
	}
	var parts []string
	for _, m := range modNames {
		if mods&m.bit != 0 {
			parts = append(parts, m.name)
		}
	}
	return strings.Join(parts, "+")
}

var flagNames = []struct {
	bit  uint8
	name string
}{
	{keymap.IsLetter, "letter"},
	{keymap.IsDead, "dead"},
	{keymap.IsSystem, "system"},
	{keymap.IsModifier, "modifier"},
	{keymap.IsAutorepeat, "autorepeat"},
}

func flagsString(flags uint8) string {
	if flags == 0 {
		return "-"
	}
	var parts []string
	for _, f := range flagNames {
		if flags&f.bit != 0 {
			parts = append(parts, f.name)
		}
	}
	return strings.Join(parts, "+")
}

func unicodeString(u uint16) string {
	if u == keymap.NoUnicode {
		return "-"
	}
	r := rune(u)
	if unicode.IsGraphic(r) && r != ' ' && r != '\'' {
		return "'" + string(r) + "'"
	}
	return fmt.Sprintf("%#04x", u)
}

func specialString(flags uint8, special uint16) string {
	if special == 0 {
		return "-"
	}
	if flags&keymap.IsModifier != 0 {
		return modsString(uint8(special))
	}
	switch special {
	case keymap.SystemReboot:
		return "reboot"
	case keymap.SystemZap:
		return "zap"
	case keymap.SystemConsolePrevious:
		return "prev-console"
	case keymap.SystemConsoleNext:
		return "next-console"
	}
	if special >= keymap.SystemConsoleFirst && special <= keymap.SystemConsoleLast {
		return "console" + strconv.Itoa(int(special-keymap.SystemConsoleFirst))
	}
	return fmt.Sprintf("%#04x", special)
}

func compileFile(path string) (*keymap.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t := &keymap.Table{}
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		var err error
		switch fields[0] {
		case "map":
			err = compileMapping(t, fields[1:])
		case "compose":
			err = compileComposing(t, fields[1:])
		default:
			err = fmt.Errorf("unknown directive %q", fields[0])
		}
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(t.Mappings) == 0 {
		return nil, fmt.Errorf("%s: no mapping rules", path)
	}
	return t, nil
}

func compileMapping(t *keymap.Table, args []string) error {
	if len(args) != 6 {
		return fmt.Errorf("map wants 6 fields, got %d", len(args))
	}
	keycode, err := parseKeycode(args[0])
	if err != nil {
		return err
	}
	mods, err := parseMods(args[1])
	if err != nil {
		return err
	}
	code, err := parseKey(args[2])
	if err != nil {
		return err
	}
	uni, err := parseUnicode(args[3])
	if err != nil {
		return err
	}
	flags, err := parseFlags(args[4])
	if err != nil {
		return err
	}
	special, err := parseSpecial(args[5], flags)
	if err != nil {
		return err
	}
	t.Mappings = append(t.Mappings, keymap.Mapping{
		Keycode:   keycode,
		Unicode:   uni,
		Code:      code,
		Modifiers: mods,
		Flags:     flags,
		Special:   special,
	})
	return nil
}

func compileComposing(t *keymap.Table, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("compose wants 3 fields, got %d", len(args))
	}
	var vals [3]uint16
	for i, arg := range args {
		v, err := parseUnicode(arg)
		if err != nil {
			return err
		}
		vals[i] = v
	}
	t.Composings = append(t.Composings, keymap.Composing{
		First: vals[0], Second: vals[1], Result: vals[2],
	})
	return nil
}

func parseKeycode(s string) (uint16, error) {
	if code, ok := keyseq.CodeForName(s); ok {
		return code, nil
	}
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("bad keycode %q", s)
	}
	return uint16(v), nil
}

func parseMods(s string) (uint8, error) {
	if s == "plain" {
		return keymap.ModPlain, nil
	}
	var mods uint8
Part:
	for _, part := range strings.Split(s, "+") {
		for _, m := range modNames {
			if part == m.name {
				mods |= m.bit
				continue Part
			}
		}
		return 0, fmt.Errorf("bad modifier %q", part)
	}
	return mods, nil
}

// parseKey accepts a quoted character (packed as its uppercase code
// point), a key name like Tab, or a raw packed code as a number, each
// optionally followed by '+'-joined baked emission modifiers, e.g.
// "'7'+Keypad".
func parseKey(s string) (keymap.Code, error) {
	base, rest := s, ""
	if strings.HasPrefix(s, "'") {
		if i := strings.Index(s[1:], "'"); i >= 0 {
			base, rest = s[:i+2], s[i+2:]
		}
	} else if i := strings.IndexByte(s, '+'); i >= 0 {
		base, rest = s[:i], s[i:]
	}

	var mods keymap.Modifiers
	for _, part := range strings.Split(strings.TrimPrefix(rest, "+"), "+") {
		switch part {
		case "":
		case "Shift":
			mods |= keymap.Shift
		case "Control":
			mods |= keymap.Control
		case "Alt":
			mods |= keymap.Alt
		case "Meta":
			mods |= keymap.Meta
		case "Keypad":
			mods |= keymap.Keypad
		case "Group":
			mods |= keymap.GroupSwitch
		default:
			return 0, fmt.Errorf("bad key modifier %q in %q", part, s)
		}
	}

	if r, ok := quotedChar(base); ok {
		return keymap.Pack(keymap.Key(unicode.ToUpper(r)), mods), nil
	}
	if k, ok := keymap.KeyByName(base); ok {
		return keymap.Pack(k, mods), nil
	}
	v, err := strconv.ParseUint(base, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("bad key %q", s)
	}
	return keymap.Code(v) | keymap.Code(mods), nil
}

func parseUnicode(s string) (uint16, error) {
	if s == "-" {
		return keymap.NoUnicode, nil
	}
	if r, ok := quotedChar(s); ok {
		if r > 0xfffe {
			return 0, fmt.Errorf("character %q outside the BMP", r)
		}
		return uint16(r), nil
	}
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("bad unicode %q", s)
	}
	return uint16(v), nil
}

func parseFlags(s string) (uint8, error) {
	if s == "-" {
		return 0, nil
	}
	var flags uint8
Part:
	for _, part := range strings.Split(s, "+") {
		for _, f := range flagNames {
			if part == f.name {
				flags |= f.bit
				continue Part
			}
		}
		return 0, fmt.Errorf("bad flag %q", part)
	}
	return flags, nil
}

func parseSpecial(s string, flags uint8) (uint16, error) {
	if s == "-" {
		return 0, nil
	}
	if flags&keymap.IsModifier != 0 {
		mods, err := parseMods(s)
		if err != nil {
			return 0, err
		}
		return uint16(mods), nil
	}
	switch s {
	case "reboot":
		return keymap.SystemReboot, nil
	case "zap":
		return keymap.SystemZap, nil
	case "prev-console":
		return keymap.SystemConsolePrevious, nil
	case "next-console":
		return keymap.SystemConsoleNext, nil
	}
	if n, ok := strings.CutPrefix(s, "console"); ok {
		idx, err := strconv.ParseUint(n, 10, 16)
		if err != nil || keymap.SystemConsoleFirst+uint16(idx) > keymap.SystemConsoleLast {
			return 0, fmt.Errorf("bad console target %q", s)
		}
		return keymap.SystemConsoleFirst + uint16(idx), nil
	}
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("bad special %q", s)
	}
	return uint16(v), nil
}

func quotedChar(s string) (rune, bool) {
	if len(s) < 3 || s[0] != '\'' || s[len(s)-1] != '\'' {
		return 0, false
	}
	r, size := utf8.DecodeRuneInString(s[1 : len(s)-1])
	if r == utf8.RuneError || size != len(s)-2 {
		return 0, false
	}
	return r, true
}
