package keymap

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func sampleTable() *Table {
	return &Table{
		Mappings: []Mapping{
			{Keycode: 30, Unicode: 'a', Code: Code('A'), Modifiers: ModPlain, Flags: IsLetter},
			{Keycode: 30, Unicode: 'A', Code: Code('A'), Modifiers: ModShift, Flags: IsLetter},
			{Keycode: 111, Unicode: NoUnicode, Code: Code(KeyDelete), Modifiers: ModControl | ModAlt, Flags: IsSystem, Special: SystemReboot},
		},
		Composings: []Composing{
			{'`', 'a', 0xe0},
			{'`', '`', NoUnicode},
		},
	}
}

// writeKeymap encodes a table into a temp file and returns its path.
func writeKeymap(t *testing.T, table *Table) string {
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

func TestLoadRoundTrip(t *testing.T) {
	want := sampleTable()
	got, err := Load(writeKeymap(t, want))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("decoded table differs\ngot  %+v\nwant %+v", got, want)
	}
}

func TestLoadRecordSizes(t *testing.T) {
	// The on-disk record sizes are part of the format.
	if got := binary.Size(Mapping{}); got != 12 {
		t.Errorf("Mapping encodes to %d bytes, want 12", got)
	}
	if got := binary.Size(Composing{}); got != 6 {
		t.Errorf("Composing encodes to %d bytes, want 6", got)
	}
}

func TestLoadFailures(t *testing.T) {
	valid := func() []byte {
		var buf bytes.Buffer
		if err := sampleTable().Encode(&buf); err != nil {
			t.Fatal(err)
		}
		return buf.Bytes()
	}

	tests := []struct {
		name string
		data []byte
		kind LoadErrorKind
	}{
		{
			name: "truncated header",
			data: valid()[:8],
			kind: LoadShortRead,
		},
		{
			name: "bad magic",
			data: func() []byte {
				d := valid()
				binary.LittleEndian.PutUint32(d[0:], 0xdeadbeef)
				return d
			}(),
			kind: LoadBadMagic,
		},
		{
			name: "bad version",
			data: func() []byte {
				d := valid()
				binary.LittleEndian.PutUint32(d[4:], 99)
				return d
			}(),
			kind: LoadBadVersion,
		},
		{
			name: "zero mappings",
			data: func() []byte {
				d := valid()
				binary.LittleEndian.PutUint32(d[8:], 0)
				return d
			}(),
			kind: LoadEmptyMapping,
		},
		{
			name: "absurd record count",
			data: func() []byte {
				d := valid()
				binary.LittleEndian.PutUint32(d[8:], 1<<24)
				return d
			}(),
			kind: LoadDecodeFailure,
		},
		{
			name: "truncated records",
			data: valid()[:16+12+5],
			kind: LoadDecodeFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.vkm")
			if err := os.WriteFile(path, tt.data, 0o644); err != nil {
				t.Fatal(err)
			}
			table, err := Load(path)
			if table != nil {
				t.Errorf("Load returned a table alongside an error")
			}
			var lerr *LoadError
			if !errors.As(err, &lerr) {
				t.Fatalf("Load error = %v, want *LoadError", err)
			}
			if lerr.Kind != tt.kind {
				t.Errorf("error kind = %v, want %v", lerr.Kind, tt.kind)
			}
			if lerr.Path != path {
				t.Errorf("error path = %q, want %q", lerr.Path, path)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.vkm"))
	var lerr *LoadError
	if !errors.As(err, &lerr) || lerr.Kind != LoadOpen {
		t.Fatalf("Load error = %v, want *LoadError with LoadOpen", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadOpen should wrap the underlying open error, got %v", err)
	}
}
