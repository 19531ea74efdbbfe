// Package shellexec is the process-execution boundary for RUN_COMMAND
// actions. The engine only consumes the CommandRunner interface; spawning a
// real process is the job of the Local implementation wired in by the app
// layer, which keeps the engine itself free of process side effects.
package shellexec

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/scaffoldgo/scaffoldgo/internal/ctxlog"
)

// CommandRunner hands a resolved command line to an external process and
// waits synchronously for its exit code and captured output.
type CommandRunner interface {
	Run(ctx context.Context, command, workDir string) (exitCode int, output string, err error)
}

// Local runs commands through the system shell in the caller's environment.
type Local struct{}

// NewLocal creates a shell-backed command runner.
func NewLocal() *Local {
	return &Local{}
}

// Run implements CommandRunner.
func (l *Local) Run(ctx context.Context, command, workDir string) (int, string, error) {
	logger := ctxlog.With(ctx, "command", command, "workDir", workDir)
	logger.Debug("Running external command.")

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = workDir
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	err := cmd.Run()
	output := buf.String()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			logger.Debug("Command exited nonzero.", "exitCode", exitErr.ExitCode())
			return exitErr.ExitCode(), output, nil
		}
		return -1, output, err
	}
	return 0, output, nil
}
