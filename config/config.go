// Package config reads the daemon's TOML configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"

	"github.com/pelletier/go-toml"

	"vxkeyd/embeddedConfig"
)

type TScanDevices struct {
	Search   string
	Bypass   string
	BypassRE *regexp.Regexp `toml:"-"`
}

type TKeymap struct {
	File  string
	Watch bool
}

type TEngine struct {
	DisableZap    bool
	EnableCompose bool
}

type TMonitor struct {
	Listen string
}

type THooks struct {
	SwitchConsole   string
	PreviousConsole string
	NextConsole     string
	Reboot          string
}

type Config struct {
	ScanDevices TScanDevices
	Keymap      TKeymap
	Engine      TEngine
	Monitor     TMonitor
	Hooks       THooks
}

// Load reads the config file at path, falling back to the embedded
// defaults when the file cannot be read (the daemon may run on a box
// with no config installed). Parse and validation errors are real
// errors.
func Load(path string, log *slog.Logger) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn("unable to read config file, using defaults", "path", path, "error", err)
		data = []byte(embeddedConfig.Toml)
	}
	return Parse(data)
}

// Parse decodes a TOML document over the embedded defaults.
func Parse(data []byte) (*Config, error) {
	c := &Config{}
	if err := toml.Unmarshal([]byte(embeddedConfig.Toml), c); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	if err := toml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	re, err := regexp.Compile(c.ScanDevices.Bypass)
	if err != nil {
		return nil, fmt.Errorf("invalid ScanDevices.Bypass expression: %w", err)
	}
	c.ScanDevices.BypassRE = re
	return c, nil
}
