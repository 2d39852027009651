// Package keyseq plans the key strokes needed to produce a string or a
// chord sequence on a US-layout evdev keyboard.
package keyseq

import (
	"errors"
	"strings"
	"unicode"
)

// Stroke is one press or release of a key.
type Stroke struct {
	Code  uint16
	Press bool
}

// Chord is one simultaneous key combination with its modifier set.
type Chord struct {
	Shift, Ctrl, Alt, Meta bool
	Codes                  []int
}

// ForString obtains the strokes needed to type a string.
func ForString(input string) ([]Stroke, error) {
	return ForSequence(SequenceForString(input))
}

// ForSequence obtains the strokes for a chord sequence such as
// "LCtrl+LAlt+Delete" or "LShift+H E L L O". Within a chord every key
// is pressed, then every key released, in chord order.
func ForSequence(sequence string) ([]Stroke, error) {
	strokes := make([]Stroke, 0, 2*len(sequence))
	release := make([]Stroke, 0, 4)
	for _, chord := range strings.Split(sequence, " ") {
		for _, key := range strings.Split(chord, "+") {
			code, ok := keyDef[key]
			if !ok {
				return nil, errors.New("unknown keyboard key " + key)
			}
			strokes = append(strokes, Stroke{code, true})
			release = append(release, Stroke{code, false})
		}
		strokes = append(strokes, release...)
		release = release[:0]
	}
	return strokes, nil
}

// Chords parses a chord sequence into modifier flags plus key codes,
// the shape a virtual keyboard wants.
func Chords(sequence string) ([]Chord, error) {
	var chords []Chord
	for _, chord := range strings.Split(sequence, " ") {
		var c Chord
		for _, key := range strings.Split(chord, "+") {
			switch key {
			case "LShift", "RShift":
				c.Shift = true
			case "LCtrl", "RCtrl":
				c.Ctrl = true
			case "LAlt", "RAlt":
				c.Alt = true
			case "LMeta", "RMeta":
				c.Meta = true
			default:
				code, ok := keyDef[key]
				if !ok {
					return nil, errors.New("unknown keyboard key " + key)
				}
				c.Codes = append(c.Codes, int(code))
			}
		}
		chords = append(chords, c)
	}
	return chords, nil
}

// SequenceForString converts an input string into a chord sequence.
func SequenceForString(input string) string {
	var sequence strings.Builder
	wroteFirst := false
	for _, char := range input {
		if wroteFirst {
			sequence.WriteRune(' ')
		} else {
			wroteFirst = true
		}
		sequence.WriteString(SequenceForChar(char))
	}
	return sequence.String()
}

// SequenceForChar converts one character into a chord.
func SequenceForChar(char rune) string {
	if unicode.IsLower(char) {
		return string(unicode.ToUpper(char))
	}
	if unicode.IsUpper(char) {
		return "LShift+" + string(char)
	}
	switch char {
	case '\n':
		return "Enter"
	case '\t':
		return "Tab"
	case ' ':
		return "Space"
	}
	if base, ok := shiftSymbols[char]; ok {
		return "LShift+" + base
	}
	return string(char)
}

// CodeForName resolves a key name to its evdev code.
func CodeForName(name string) (uint16, bool) {
	code, ok := keyDef[name]
	return code, ok
}

// NameForCode resolves an evdev code back to its primary key name.
func NameForCode(code uint16) string {
	return keyName[code]
}
