// Package embeddedConfig carries the compiled-in default daemon
// configuration, used when no config file can be read.
package embeddedConfig

const Toml = `# vxkeyd built-in defaults

[ScanDevices]
Search = "/dev/input/event*"
Bypass = "(?i)Video|Camera"

[Keymap]
# Binary .vkm keymap file. Empty keeps the compiled-in US table.
File = ""
# Reload the keymap when the file changes.
Watch = true

[Engine]
DisableZap = false
EnableCompose = false

[Monitor]
# WebSocket symbol tap, e.g. "127.0.0.1:8017". Empty disables it.
Listen = ""

[Hooks]
# "{console}" is replaced with the console index.
SwitchConsole = ""
PreviousConsole = ""
NextConsole = ""
Reboot = ""
`
