// Package command runs short external programs and captures their standard output.
package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// waitDelay bounds how long Wait keeps reading output after the program was killed.
const waitDelay = 500 * time.Millisecond

var (
	// ErrLaunchFailed reports that the program could not be started at all.
	ErrLaunchFailed = errors.New("launch failed")
	// ErrTimedOut reports that the program outlived its timeout and was killed.
	ErrTimedOut = errors.New("timed out")
)

// Request describes one program invocation. The name is never passed through a shell.
type Request struct {
	Name      string
	Arguments []string
	Directory string
	// Timeout bounds the run; zero waits for the program to exit.
	Timeout time.Duration
}

// Runner captures standard output of a program.
// A non-zero exit status is not an error: the captured output is still returned.
type Runner interface {
	Output(ctx context.Context, request Request) ([]byte, error)
}

// ExecRunner runs programs with os/exec. Standard error is discarded.
type ExecRunner struct{}

// Output starts the program, waits for it, and returns what it wrote to standard output.
func (ExecRunner) Output(ctx context.Context, request Request) ([]byte, error) {
	runContext := ctx
	if request.Timeout > 0 {
		var cancel context.CancelFunc
		runContext, cancel = context.WithTimeout(ctx, request.Timeout)
		defer cancel()
	}

	// #nosec G204
	process := exec.CommandContext(runContext, request.Name, request.Arguments...)
	process.Dir = request.Directory
	process.WaitDelay = waitDelay
	var standardOutput bytes.Buffer
	process.Stdout = &standardOutput

	if startError := process.Start(); startError != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrLaunchFailed, request.Name, startError)
	}
	waitError := process.Wait()
	if contextError := runContext.Err(); contextError != nil {
		if errors.Is(contextError, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, fmt.Errorf("%w: %q after %s", ErrTimedOut, request.Name, request.Timeout)
		}
		return nil, fmt.Errorf("run %q: %w", request.Name, contextError)
	}
	var exitError *exec.ExitError
	if waitError != nil && !errors.As(waitError, &exitError) {
		return nil, fmt.Errorf("wait for %q: %w", request.Name, waitError)
	}
	return standardOutput.Bytes(), nil
}
