package translate

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	evdev "github.com/gvalkov/golang-evdev"

	"vxkeyd/keymap"
)

// writeKeymap encodes a table into a temp .vkm file.
func writeKeymap(t *testing.T, table *keymap.Table) string {
	t.Helper()
	var buf bytes.Buffer
	if err := table.Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	path := filepath.Join(t.TempDir(), "test.vkm")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewDefaults(t *testing.T) {
	e := New(nil, Options{})
	if e.Table() != keymap.Builtin() {
		t.Error("fresh engine must bind the built-in table")
	}
	if e.ComposeEnabled() {
		t.Error("compose must be off unless enabled")
	}
	st := e.State()
	if st.Modifiers != 0 || st.Phase != ComposeIdle || st.DeadUnicode != keymap.NoUnicode {
		t.Errorf("fresh state = %+v", st)
	}

	if !New(nil, Options{EnableCompose: true}).ComposeEnabled() {
		t.Error("EnableCompose must turn compose on for the built-in table")
	}
}

func TestLoadKeymap(t *testing.T) {
	table := &keymap.Table{
		Mappings: []keymap.Mapping{
			{Keycode: evdev.KEY_A, Unicode: 'z', Code: keymap.Code('Z'), Flags: keymap.IsLetter},
		},
	}
	e := New(nil, Options{})
	if err := e.LoadKeymap(writeKeymap(t, table)); err != nil {
		t.Fatalf("LoadKeymap: %v", err)
	}
	if e.Table() == keymap.Builtin() {
		t.Error("loaded keymap must replace the built-in table")
	}
	if !e.ComposeEnabled() {
		t.Error("loading a keymap must enable compose")
	}

	// The dvorak-ish table is in force.
	sym, _ := e.Resolve(evdev.KEY_A, true, false)
	if sym == nil || sym.Unicode != 'z' {
		t.Errorf("Resolve(KEY_A) = %v, want 'z'", sym)
	}
}

func TestLoadKeymapFailureKeepsState(t *testing.T) {
	e := New(nil, Options{})
	before := e.Table()

	// Depress shift so there is live state to preserve.
	e.Resolve(evdev.KEY_LEFTSHIFT, true, false)

	path := filepath.Join(t.TempDir(), "bad.vkm")
	if err := os.WriteFile(path, []byte("not a keymap at all"), 0o644); err != nil {
		t.Fatal(err)
	}
	err := e.LoadKeymap(path)
	var lerr *keymap.LoadError
	if !errors.As(err, &lerr) || lerr.Kind != keymap.LoadBadMagic {
		t.Fatalf("LoadKeymap error = %v, want LoadBadMagic", err)
	}
	if e.Table() != before {
		t.Error("failed load must leave the active table in force")
	}
	if e.State().Modifiers == 0 {
		t.Error("failed load must not reset the translation state")
	}

	// The untouched table still resolves with the preserved shift state.
	sym, _ := e.Resolve(evdev.KEY_A, true, false)
	if sym == nil || sym.Unicode != 'A' {
		t.Errorf("Resolve(KEY_A) after failed load = %v, want 'A'", sym)
	}
}

func TestLoadKeymapZeroMappingsKeepsTable(t *testing.T) {
	// A well-formed header declaring zero mapping records is a load
	// failure, not an empty table.
	var buf bytes.Buffer
	header := []uint32{keymap.FileMagic, keymap.FileVersion, 0, 0}
	if err := binary.Write(&buf, binary.LittleEndian, header); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "empty.vkm")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	e := New(nil, Options{})
	before := e.Table()
	err := e.LoadKeymap(path)
	var lerr *keymap.LoadError
	if !errors.As(err, &lerr) || lerr.Kind != keymap.LoadEmptyMapping {
		t.Fatalf("LoadKeymap error = %v, want LoadEmptyMapping", err)
	}
	if e.Table() != before {
		t.Fatal("empty keymap replaced the active table")
	}

	sym, _ := e.Resolve(evdev.KEY_A, true, false)
	if sym == nil || sym.Unicode != 'a' {
		t.Errorf("Resolve(KEY_A) after rejected load = %v, want 'a'", sym)
	}
}

func TestUnloadKeymapIdempotent(t *testing.T) {
	table := &keymap.Table{
		Mappings: []keymap.Mapping{
			{Keycode: evdev.KEY_A, Unicode: 'z', Code: keymap.Code('Z'), Flags: keymap.IsLetter},
		},
	}
	e := New(nil, Options{EnableCompose: false})
	if err := e.LoadKeymap(writeKeymap(t, table)); err != nil {
		t.Fatal(err)
	}
	e.Resolve(evdev.KEY_LEFTSHIFT, true, false)

	for i := 0; i < 3; i++ {
		e.UnloadKeymap()
		if e.Table() != keymap.Builtin() {
			t.Fatalf("unload %d: table is not the built-in", i)
		}
		if e.ComposeEnabled() {
			t.Errorf("unload %d: compose must return to the configured value", i)
		}
		st := e.State()
		if st.Modifiers != 0 || st.DeadUnicode != keymap.NoUnicode {
			t.Errorf("unload %d: state not reset: %+v", i, st)
		}
	}
}

func TestSetLangLock(t *testing.T) {
	// An AltGr layer entry selected purely by the external language
	// lock, no modifier key involved.
	table := &keymap.Table{
		Mappings: []keymap.Mapping{
			{Keycode: evdev.KEY_A, Unicode: 'a', Code: keymap.Code('A'), Modifiers: keymap.ModPlain, Flags: keymap.IsLetter},
			{Keycode: evdev.KEY_A, Unicode: 0xe6, Code: keymap.Code(0xc6), Modifiers: keymap.ModAltGr, Flags: keymap.IsLetter},
		},
	}
	e := New(nil, Options{})
	if err := e.LoadKeymap(writeKeymap(t, table)); err != nil {
		t.Fatal(err)
	}

	sym, _ := e.Resolve(evdev.KEY_A, true, false)
	if sym == nil || sym.Unicode != 'a' {
		t.Fatalf("lang lock off: %v, want 'a'", sym)
	}
	e.SetLangLock(true)
	sym, _ = e.Resolve(evdev.KEY_A, true, false)
	if sym == nil || sym.Unicode != 0xe6 {
		t.Errorf("lang lock on: %v, want U+00E6", sym)
	}
	e.SetLangLock(false)
	sym, _ = e.Resolve(evdev.KEY_A, true, false)
	if sym == nil || sym.Unicode != 'a' {
		t.Errorf("lang lock off again: %v, want 'a'", sym)
	}
}
