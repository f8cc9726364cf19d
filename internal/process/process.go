package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// tailSize bounds the output kept for long-running processes
const tailSize = 64 * 1024

// LaunchError reports an executable that could not be started
type LaunchError struct {
	Path string
	Err  error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to launch %s: %v", e.Path, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// Result is the outcome of a process that was launched and ran to completion
type Result struct {
	Output   string
	ExitCode int
	Duration time.Duration
}

// Success reports whether the process exited with status 0
func (r Result) Success() bool {
	return r.ExitCode == 0
}

// Runner launches external executables
type Runner struct {
	log zerolog.Logger
}

// NewRunner creates a runner that logs launches to log
func NewRunner(log zerolog.Logger) *Runner {
	return &Runner{log: log}
}

// Run starts name with args, merges stdout and stderr and blocks until the
// process exits. The returned error is a *LaunchError when the process never
// started, or the context error when ctx ended first. A non-zero exit status
// is not an error: it is reported in Result.ExitCode.
func (r *Runner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &out
	cmd.Stderr = &out

	start := time.Now()
	if err := cmd.Start(); err != nil {
		r.log.Error().Err(err).Str("path", name).Msg("Launch failed")
		return Result{}, &LaunchError{Path: name, Err: err}
	}
	r.log.Debug().Str("path", name).Strs("args", args).Int("pid", cmd.Process.Pid).Msg("Process started")

	waitErr := cmd.Wait()
	res := Result{
		Output:   out.String(),
		ExitCode: cmd.ProcessState.ExitCode(),
		Duration: time.Since(start),
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return res, ctxErr
	}

	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) {
		// I/O failure while copying output; the process itself has exited
		r.log.Warn().Err(waitErr).Str("path", name).Msg("Process wait error")
	}

	r.log.Debug().
		Str("path", name).
		Int("exit_code", res.ExitCode).
		Dur("duration", res.Duration).
		Msg("Process exited")

	return res, nil
}

// Start launches a long-running process without waiting for it
func (r *Runner) Start(name string, args ...string) (*Handle, error) {
	h := &Handle{
		out:  &tailBuffer{max: tailSize},
		done: make(chan struct{}),
		log:  r.log,
	}

	cmd := exec.Command(name, args...)
	cmd.Stdout = h.out
	cmd.Stderr = h.out

	if err := cmd.Start(); err != nil {
		r.log.Error().Err(err).Str("path", name).Msg("Launch failed")
		return nil, &LaunchError{Path: name, Err: err}
	}
	h.cmd = cmd

	r.log.Info().Str("path", name).Strs("args", args).Int("pid", cmd.Process.Pid).Msg("Managed process started")

	go func() {
		err := cmd.Wait()
		h.mu.Lock()
		h.err = err
		h.mu.Unlock()
		close(h.done)
		h.log.Info().Int("pid", cmd.Process.Pid).Int("exit_code", cmd.ProcessState.ExitCode()).Msg("Managed process exited")
	}()

	return h, nil
}

// Handle is a managed process started by Runner.Start
type Handle struct {
	cmd  *exec.Cmd
	out  *tailBuffer
	done chan struct{}
	log  zerolog.Logger

	mu  sync.Mutex
	err error
}

// Pid returns the operating system process id
func (h *Handle) Pid() int {
	return h.cmd.Process.Pid
}

// Done is closed once the process has exited
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Err returns the wait error once Done is closed
func (h *Handle) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

// Exited reports whether the process has already exited
func (h *Handle) Exited() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// Output returns the most recent output of the process
func (h *Handle) Output() string {
	return h.out.String()
}

// Terminate asks the process to exit and returns immediately.
// Capture engines finalize their output file on interrupt.
func (h *Handle) Terminate() error {
	if h.Exited() {
		return nil
	}
	if err := h.cmd.Process.Signal(os.Interrupt); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			return nil
		}
		// Interrupt is not supported on every platform
		return h.Kill()
	}
	return nil
}

// Kill forcefully stops the process
func (h *Handle) Kill() error {
	if h.Exited() {
		return nil
	}
	if err := h.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}

// Wait blocks until the process exits or ctx ends
func (h *Handle) Wait(ctx context.Context) error {
	select {
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop terminates the process and waits up to grace for it to exit before
// killing it. It returns once the process is gone or ctx ends.
func (h *Handle) Stop(ctx context.Context, grace time.Duration) error {
	if err := h.Terminate(); err != nil {
		return fmt.Errorf("failed to terminate process: %w", err)
	}

	graceCtx, cancel := context.WithTimeout(ctx, grace)
	defer cancel()
	if err := h.Wait(graceCtx); err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	h.log.Warn().Int("pid", h.Pid()).Dur("grace", grace).Msg("Process did not exit, killing")
	if err := h.Kill(); err != nil {
		return fmt.Errorf("failed to kill process: %w", err)
	}
	return h.Wait(ctx)
}

// tailBuffer keeps the last max bytes written to it
type tailBuffer struct {
	mu  sync.Mutex
	buf []byte
	max int
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.max; over > 0 {
		t.buf = append(t.buf[:0], t.buf[over:]...)
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return string(t.buf)
}
