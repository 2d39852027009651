// vxkeyfeed injects key strokes through a virtual uinput keyboard.
// Useful for exercising the daemon end to end without touching real
// hardware.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/micmonay/keybd_event"
	flag "github.com/spf13/pflag"

	"vxkeyd/keyseq"
)

func main() {
	f := flag.NewFlagSet("vxkeyfeed", flag.ExitOnError)
	text := f.StringP("type", "T", "", "Type a literal string")
	seq := f.StringP("seq", "s", "", "Play a chord sequence, e.g. \"LCtrl+LAlt+Delete\"")
	delay := f.DurationP("delay", "w", 5*time.Millisecond, "Delay between chords")
	f.Parse(os.Args[1:])

	sequence := *seq
	if *text != "" {
		sequence = keyseq.SequenceForString(*text)
	}
	if sequence == "" {
		f.Usage()
		os.Exit(2)
	}

	chords, err := keyseq.Chords(sequence)
	if err != nil {
		fatal(err)
	}

	kb, err := keybd_event.NewKeyBonding()
	if err != nil {
		fatal(err)
	}
	// The fresh uinput device needs a moment to be picked up.
	time.Sleep(2 * time.Second)

	for _, c := range chords {
		kb.Clear()
		kb.SetKeys(c.Codes...)
		kb.HasSHIFT(c.Shift)
		kb.HasCTRL(c.Ctrl)
		kb.HasALT(c.Alt)
		kb.HasSuper(c.Meta)
		if err := kb.Launching(); err != nil {
			fatal(err)
		}
		time.Sleep(*delay)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "vxkeyfeed:", err)
	os.Exit(1)
}
