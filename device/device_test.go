package device

import "testing"

func TestEventStates(t *testing.T) {
	tests := []struct {
		value              int32
		pressed, repeating bool
	}{
		{Release, false, false},
		{Press, true, false},
		{Repeat, true, true},
	}
	for _, tt := range tests {
		ev := Event{Code: 30, Value: tt.value}
		if ev.Pressed() != tt.pressed {
			t.Errorf("value %d: Pressed = %v, want %v", tt.value, ev.Pressed(), tt.pressed)
		}
		if ev.Autorepeat() != tt.repeating {
			t.Errorf("value %d: Autorepeat = %v, want %v", tt.value, ev.Autorepeat(), tt.repeating)
		}
	}
}
