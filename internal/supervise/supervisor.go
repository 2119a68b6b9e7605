// Package supervise spawns one agent subprocess per iteration and exposes
// its stdout as a stream of lines while they arrive. Stderr is captured
// separately and becomes available after exit, so a failing backend's
// diagnostics are never interleaved with the event stream.
package supervise

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"

	"golang.org/x/sync/errgroup"
)

// Line scanning limits. Backends emit single-line JSON events that can carry
// entire file contents, so the scanner's ceiling is generous.
const (
	scanBufSize = 64 * 1024
	scanMaxSize = 4 * 1024 * 1024
)

// Process is one running agent subprocess. Lines delivers stdout lines as
// the process flushes them; the channel closes when stdout closes. Wait
// must be called exactly once after the channel closes.
type Process struct {
	cmd    *exec.Cmd
	lines  chan string
	stderr bytes.Buffer
	eg     *errgroup.Group
}

// Start launches the subprocess described by inv. A failure to spawn (the
// executable missing, permission denied) is returned as an error; a later
// non-zero exit is not an error, it is the Wait result.
func Start(ctx context.Context, inv Invocation) (*Process, error) {
	cmd := exec.CommandContext(ctx, inv.Command, inv.Args...)
	cmd.Dir = inv.Dir

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("stderr pipe: %w", err)
	}

	var stdin io.WriteCloser
	if inv.PromptViaStdin {
		stdin, err = cmd.StdinPipe()
		if err != nil {
			return nil, fmt.Errorf("stdin pipe: %w", err)
		}
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting %s: %w", inv.Command, err)
	}

	p := &Process{
		cmd:   cmd,
		lines: make(chan string, 64),
	}

	if stdin != nil {
		// Written concurrently so a prompt larger than the pipe buffer
		// cannot deadlock against an unread stdout.
		go func() {
			_, _ = io.WriteString(stdin, inv.Prompt)
			_ = stdin.Close()
		}()
	}

	// Stdout and stderr drain on independent goroutines so neither pipe
	// filling up can stall the other.
	var eg errgroup.Group
	eg.Go(func() error {
		defer close(p.lines)
		scanner := bufio.NewScanner(stdout)
		scanner.Buffer(make([]byte, scanBufSize), scanMaxSize)
		for scanner.Scan() {
			p.lines <- scanner.Text()
		}
		err := scanner.Err()
		if err != nil {
			// A scan error (an oversized line) must not stop the drain:
			// an undrained pipe blocks the child forever and the run with
			// it. Discard the rest and report the error through Wait.
			_, _ = io.Copy(io.Discard, stdout)
		}
		return err
	})
	eg.Go(func() error {
		_, err := io.Copy(&p.stderr, stderr)
		return err
	})
	p.eg = &eg

	return p, nil
}

// Lines returns the stdout line stream. The channel closes when the
// process closes its stdout.
func (p *Process) Lines() <-chan string {
	return p.lines
}

// Wait blocks until the process exits and returns its exit code. A non-zero
// exit code is reported with a nil error; the error return covers failures
// of the wait itself (for example the context being canceled).
func (p *Process) Wait() (int, error) {
	readErr := p.eg.Wait()

	err := p.cmd.Wait()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return -1, fmt.Errorf("waiting for %s: %w", p.cmd.Path, err)
	}
	if readErr != nil && !errors.Is(readErr, io.ErrClosedPipe) {
		return 0, fmt.Errorf("reading output: %w", readErr)
	}
	return 0, nil
}

// Stderr returns everything the process wrote to standard error. Complete
// only after Wait returns.
func (p *Process) Stderr() string {
	return p.stderr.String()
}

// Runner launches iterations for a fixed backend, project root, model
// override, and mode. It exists so the loop controller can depend on a
// start function rather than on exec details.
type Runner struct {
	Backend     Backend
	ProjectRoot string
	Model       string
	Mode        string
}

// Start spawns one iteration with the given prompt.
func (r *Runner) Start(ctx context.Context, prompt string) (*Process, error) {
	inv, err := BuildInvocation(r.Backend, prompt, r.ProjectRoot, r.Model, r.Mode)
	if err != nil {
		return nil, err
	}
	return Start(ctx, inv)
}
