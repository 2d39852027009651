package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParseDefaults(t *testing.T) {
	c, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.ScanDevices.Search != "/dev/input/event*" {
		t.Errorf("Search = %q", c.ScanDevices.Search)
	}
	if c.ScanDevices.BypassRE == nil {
		t.Fatal("BypassRE not compiled")
	}
	if !c.ScanDevices.BypassRE.MatchString("USB Video Device") {
		t.Error("default bypass must match video devices")
	}
	if !c.Keymap.Watch {
		t.Error("Keymap.Watch must default on")
	}
	if c.Engine.DisableZap || c.Engine.EnableCompose {
		t.Errorf("engine defaults = %+v", c.Engine)
	}
	if c.Monitor.Listen != "" {
		t.Errorf("Monitor.Listen = %q, want disabled", c.Monitor.Listen)
	}
}

func TestParseOverrides(t *testing.T) {
	c, err := Parse([]byte(`
[Keymap]
File = "/etc/vxkeyd/de.vkm"
Watch = false

[Engine]
EnableCompose = true

[Hooks]
SwitchConsole = "chvt {console}"
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.Keymap.File != "/etc/vxkeyd/de.vkm" || c.Keymap.Watch {
		t.Errorf("Keymap = %+v", c.Keymap)
	}
	if !c.Engine.EnableCompose {
		t.Error("EnableCompose override lost")
	}
	if c.Hooks.SwitchConsole != "chvt {console}" {
		t.Errorf("SwitchConsole = %q", c.Hooks.SwitchConsole)
	}
	// Untouched sections keep their defaults.
	if c.ScanDevices.Search != "/dev/input/event*" {
		t.Errorf("Search = %q, default lost", c.ScanDevices.Search)
	}
}

func TestParseErrors(t *testing.T) {
	if _, err := Parse([]byte("not = [valid")); err == nil {
		t.Error("broken TOML must fail")
	}
	_, err := Parse([]byte("[ScanDevices]\nBypass = \"(\"\n"))
	if err == nil || !strings.Contains(err.Error(), "Bypass") {
		t.Errorf("bad regexp error = %v", err)
	}
}

func TestLoadMissingFileFallsBack(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.conf"), discard())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.ScanDevices.Search != "/dev/input/event*" {
		t.Errorf("fallback Search = %q", c.ScanDevices.Search)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vxkeyd.conf")
	err := os.WriteFile(path, []byte("[Monitor]\nListen = \"127.0.0.1:8017\"\n"), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	c, err := Load(path, discard())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Monitor.Listen != "127.0.0.1:8017" {
		t.Errorf("Listen = %q", c.Monitor.Listen)
	}
}
