package web2pdf

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/alnah/go-web2pdf/internal/process"
)

// outputTailLines is how many trailing output lines an Outcome keeps.
const outputTailLines = 20

// Command describes one external tool invocation.
type Command struct {
	Name   string
	Args   []string
	Dir    string
	OnLine func(line string) // receives stdout and stderr lines; may be nil
}

// String renders the command line for logs.
func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Outcome is the result of a finished invocation. A non-zero ExitCode is
// not an error at this level; adapters decide what it means.
type Outcome struct {
	ExitCode int
	Duration time.Duration
	Tail     []string // last output lines
}

// Runner runs external tools. ExecRunner is the production implementation;
// tests substitute fakes.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Outcome, error)
}

// ExecRunner runs commands with os/exec in their own process group and
// kills the whole group when ctx is canceled.
type ExecRunner struct{}

// Compile-time interface implementation check.
var _ Runner = ExecRunner{}

// Run starts the command, streams its output line by line and waits for it.
// It returns ErrToolNotFound when the executable is not on PATH.
func (ExecRunner) Run(ctx context.Context, c Command) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}
	bin, err := exec.LookPath(c.Name)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %s", ErrToolNotFound, c.Name)
	}

	start := time.Now()
	cmd := exec.Command(bin, c.Args...) // #nosec G204 -- tool and arguments come from the converter
	cmd.Dir = c.Dir
	process.Detach(cmd)

	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		_ = pw.Close()
		return Outcome{}, fmt.Errorf("starting %s: %w", c.Name, err)
	}

	tail := make([]string, 0, outputTailLines)
	scanned := make(chan struct{})
	go func() {
		defer close(scanned)
		sc := bufio.NewScanner(pr)
		sc.Buffer(make([]byte, 64*1024), 1024*1024)
		for sc.Scan() {
			line := sc.Text()
			if len(tail) == outputTailLines {
				tail = tail[1:]
			}
			tail = append(tail, line)
			if c.OnLine != nil {
				c.OnLine(line)
			}
		}
		// keep draining so the child never blocks on a full pipe
		_, _ = io.Copy(io.Discard, pr)
	}()

	waited := make(chan error, 1)
	go func() { waited <- cmd.Wait() }()

	var waitErr error
	select {
	case <-ctx.Done():
		process.KillProcessGroup(cmd.Process.Pid)
		<-waited
		_ = pw.Close()
		<-scanned
		return Outcome{ExitCode: -1, Duration: time.Since(start), Tail: tail}, ctx.Err()
	case waitErr = <-waited:
	}
	_ = pw.Close()
	<-scanned

	out := Outcome{Duration: time.Since(start), Tail: tail}
	var exitErr *exec.ExitError
	switch {
	case errors.As(waitErr, &exitErr):
		out.ExitCode = exitErr.ExitCode()
	case waitErr != nil:
		return out, fmt.Errorf("waiting for %s: %w", c.Name, waitErr)
	}
	return out, nil
}
