package keymap

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// .vkm files have a very simple structure:
//
//	u32 magic        (FileMagic)
//	u32 version      (1)
//	u32 mapCount     (# of Mapping records, nonzero)
//	u32 composeCount (# of Composing records)
//	mapCount x Mapping, composeCount x Composing
//
// All fields little-endian, declaration order, no padding.
const (
	FileMagic   uint32 = 0x76786d31 // "vxm1"
	FileVersion uint32 = 1
)

// Fuse against absurd record counts from a corrupt header.
const maxRecords = 1 << 20

// LoadErrorKind discriminates the ways a keymap load can fail.
type LoadErrorKind int

const (
	LoadOpen LoadErrorKind = iota
	LoadShortRead
	LoadBadMagic
	LoadBadVersion
	LoadEmptyMapping
	LoadDecodeFailure
)

func (k LoadErrorKind) String() string {
	switch k {
	case LoadOpen:
		return "cannot open file"
	case LoadShortRead:
		return "short read in header"
	case LoadBadMagic:
		return "bad magic"
	case LoadBadVersion:
		return "unsupported version"
	case LoadEmptyMapping:
		return "no mapping records"
	case LoadDecodeFailure:
		return "record decode failed"
	default:
		return "load error"
	}
}

// LoadError reports a failed keymap load. Every load failure is
// recoverable: the caller's active table is left untouched.
type LoadError struct {
	Path string
	Kind LoadErrorKind
	Err  error
}

func (e *LoadError) Error() string {
	msg := fmt.Sprintf("keymap %q: %s", e.Path, e.Kind)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LoadError) Unwrap() error { return e.Err }

// Load reads and validates a binary keymap file. On any failure the
// returned table is nil and the error is a *LoadError; no partially
// decoded table ever escapes.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Kind: LoadOpen, Err: err}
	}
	defer f.Close()

	t, kind, err := decode(f)
	if err != nil {
		return nil, &LoadError{Path: path, Kind: kind, Err: err}
	}
	return t, nil
}

func decode(r io.Reader) (*Table, LoadErrorKind, error) {
	var header struct {
		Magic        uint32
		Version      uint32
		MapCount     uint32
		ComposeCount uint32
	}
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, LoadShortRead, err
	}
	if header.Magic != FileMagic {
		return nil, LoadBadMagic, fmt.Errorf("got %#08x, want %#08x", header.Magic, FileMagic)
	}
	if header.Version != FileVersion {
		return nil, LoadBadVersion, fmt.Errorf("got %d, want %d", header.Version, FileVersion)
	}
	if header.MapCount == 0 {
		return nil, LoadEmptyMapping, errors.New("mapping count is zero")
	}
	if header.MapCount > maxRecords || header.ComposeCount > maxRecords {
		return nil, LoadDecodeFailure, fmt.Errorf("record counts %d/%d exceed limit", header.MapCount, header.ComposeCount)
	}

	t := &Table{
		Mappings: make([]Mapping, header.MapCount),
	}
	if header.ComposeCount > 0 {
		t.Composings = make([]Composing, header.ComposeCount)
	}
	for i := range t.Mappings {
		if err := binary.Read(r, binary.LittleEndian, &t.Mappings[i]); err != nil {
			return nil, LoadDecodeFailure, fmt.Errorf("mapping %d/%d: %w", i, header.MapCount, err)
		}
	}
	for i := range t.Composings {
		if err := binary.Read(r, binary.LittleEndian, &t.Composings[i]); err != nil {
			return nil, LoadDecodeFailure, fmt.Errorf("composing %d/%d: %w", i, header.ComposeCount, err)
		}
	}
	return t, 0, nil
}

// Encode writes the table in the binary keymap format.
func (t *Table) Encode(w io.Writer) error {
	header := []uint32{FileMagic, FileVersion, uint32(len(t.Mappings)), uint32(len(t.Composings))}
	if err := binary.Write(w, binary.LittleEndian, header); err != nil {
		return fmt.Errorf("writing keymap header: %w", err)
	}
	for i := range t.Mappings {
		if err := binary.Write(w, binary.LittleEndian, &t.Mappings[i]); err != nil {
			return fmt.Errorf("writing mapping %d: %w", i, err)
		}
	}
	for i := range t.Composings {
		if err := binary.Write(w, binary.LittleEndian, &t.Composings[i]); err != nil {
			return fmt.Errorf("writing composing %d: %w", i, err)
		}
	}
	return nil
}
