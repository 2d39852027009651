// Package device discovers evdev keyboards and reads their raw key
// events.
package device

import (
	"fmt"
	"log/slog"
	"regexp"

	evdev "github.com/gvalkov/golang-evdev"
)

// Raw event values as delivered by the kernel.
const (
	Release int32 = 0
	Press   int32 = 1
	Repeat  int32 = 2
)

// Highest keycode accepted from a device.
const MaxKeycode = 767

// Event is one raw key event: hardware code plus press state.
type Event struct {
	Code  uint16
	Value int32
}

// Pressed reports press or autorepeat.
func (e Event) Pressed() bool { return e.Value != Release }

// Autorepeat reports a repeat event.
func (e Event) Autorepeat() bool { return e.Value == Repeat }

// Scanner finds keyboard-capable input devices under a glob pattern,
// skipping names matched by the bypass expression.
type Scanner struct {
	Search string
	Bypass *regexp.Regexp
	Log    *slog.Logger
}

// Keyboards lists the devices that expose key events and are not
// bypassed. Devices with pointer axes are treated as mice and skipped.
func (s *Scanner) Keyboards() ([]*evdev.InputDevice, error) {
	devices, err := evdev.ListInputDevices(s.Search)
	if err != nil {
		return nil, fmt.Errorf("listing input devices %q: %w", s.Search, err)
	}

	var keyboards []*evdev.InputDevice
	for _, dev := range devices {
		if s.Bypass != nil && s.Bypass.MatchString(dev.Name) {
			s.Log.Debug("bypassing device", "name", dev.Name)
			continue
		}
		isKeyboard := false
		isMouse := false
		for c := range dev.Capabilities {
			switch c.Type {
			case evdev.EV_ABS, evdev.EV_REL:
				isMouse = true
			case evdev.EV_KEY:
				isKeyboard = true
			}
		}
		if isKeyboard && !isMouse {
			s.Log.Info("keyboard found", "name", dev.Name, "device", dev.Fn)
			keyboards = append(keyboards, dev)
		}
	}
	return keyboards, nil
}

// Read pumps key events from one device into out until a read error.
// Runs as a goroutine per device.
func Read(dev *evdev.InputDevice, out chan<- Event, log *slog.Logger) {
	for {
		ev, err := dev.ReadOne()
		if err != nil {
			log.Warn("closing device after read error", "name", dev.Name, "error", err)
			return
		}
		if ev.Type != evdev.EV_KEY {
			continue
		}
		if ev.Code > MaxKeycode {
			log.Warn("event code out of range", "code", ev.Code)
			continue
		}
		out <- Event{Code: ev.Code, Value: ev.Value}
	}
}
