// Package hook runs configured external hook commands.
package hook

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	shellquote "github.com/kballard/go-shellquote"
)

// DefaultTimeout bounds a hook command's run time.
const DefaultTimeout = 10 * time.Second

// Runner executes hook command lines. The command line is split with
// shell quoting rules but no shell is involved.
type Runner struct {
	Log     *slog.Logger
	Timeout time.Duration
}

// NewRunner returns a runner with the default timeout.
func NewRunner(log *slog.Logger) *Runner {
	return &Runner{Log: log, Timeout: DefaultTimeout}
}

// Run parses and executes one hook command line, waiting for it to
// finish. Output is captured and logged; a non-zero exit or timeout is
// returned as an error.
func (r *Runner) Run(line string) error {
	words, err := shellquote.Split(line)
	if err != nil {
		return fmt.Errorf("parsing hook command %q: %w", line, err)
	}
	if len(words) == 0 {
		return fmt.Errorf("empty hook command")
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, words[0], words[1:]...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("hook %q: %w", words[0], err)
	}
	if r.Log != nil && len(out) > 0 {
		r.Log.Debug("hook output", "command", words[0], "output", string(out))
	}
	return nil
}
