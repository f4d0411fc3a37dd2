package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/younsl/failover/internal/models"
)

const (
	// DefaultShell runs commands the way a user would type them.
	DefaultShell = "/bin/sh"

	// NotExecutedCode is the return code of a command that has not run yet.
	NotExecutedCode = 127
	// LaunchFailureCode is the return code recorded when the shell itself
	// could not be started.
	LaunchFailureCode = 113
	// TimeoutCode is the return code recorded when the context expired.
	TimeoutCode = 124

	// waitDelay bounds how long Run waits for output pipes after the
	// process was killed, since children of the shell may keep them open.
	waitDelay = time.Second

	notExecuted = "Command not executed"
)

// ErrTimeout is returned by Run when the context deadline expired before
// the command finished.
var ErrTimeout = errors.New("command timed out")

// Command is a shell command and what came out of running it
type Command struct {
	Command    string
	Output     string
	Error      string
	ReturnCode int

	shell string
}

// New creates a Command that runs through DefaultShell
func New(command string) *Command {
	return NewWithShell(DefaultShell, command)
}

// NewWithShell creates a Command that runs through the given shell
func NewWithShell(shell, command string) *Command {
	return &Command{
		Command:    strings.TrimSpace(command),
		Output:     notExecuted,
		Error:      notExecuted,
		ReturnCode: NotExecutedCode,
		shell:      shell,
	}
}

// Run executes the command and blocks until it exits or ctx is done.
// A non-zero exit is recorded in ReturnCode and is not an error. Failing to
// start the shell is recorded as LaunchFailureCode and is not an error
// either. Only a context deadline returns ErrTimeout, and cancellation
// returns the context error.
func (c *Command) Run(ctx context.Context) error {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, c.shell, "-c", c.Command)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	if err := cmd.Start(); err != nil {
		c.Output = err.Error()
		c.Error = fmt.Sprintf("Unable to execute: \"%s\"", c.Command)
		c.ReturnCode = LaunchFailureCode
		return nil
	}

	err := cmd.Wait()
	c.Output = stdout.String()
	c.Error = stderr.String()

	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			c.ReturnCode = TimeoutCode
			return fmt.Errorf("%w: %q", ErrTimeout, c.Command)
		}
		c.ReturnCode = cmd.ProcessState.ExitCode()
		return ctxErr
	}

	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		c.Error = strings.TrimSpace(c.Error + "\n" + err.Error())
	}
	c.ReturnCode = cmd.ProcessState.ExitCode()
	return nil
}

// Succeeded reports whether the command ran and exited with zero
func (c *Command) Succeeded() bool {
	return c.ReturnCode == 0
}

// ShowResults writes the command and its trimmed results to w verbatim
func (c *Command) ShowResults(w io.Writer) {
	res := c.Results()
	header := color.New(color.Bold)
	header.Fprintf(w, "COMMAND     : \"%s\"\n", res.Command)
	fmt.Fprintf(w, "OUTPUT      : \"%s\"\n", res.Output)
	fmt.Fprintf(w, "ERROR       : \"%s\"\n", res.Error)
	if res.ReturnCode == 0 {
		fmt.Fprintf(w, "RETURN CODE : %d\n", res.ReturnCode)
	} else {
		color.New(color.FgRed).Fprintf(w, "RETURN CODE : %d\n", res.ReturnCode)
	}
}

// Results returns the command and its trimmed results
func (c *Command) Results() models.CommandResult {
	return models.CommandResult{
		Command:    strings.TrimSpace(c.Command),
		Output:     strings.TrimSpace(c.Output),
		Error:      strings.TrimSpace(c.Error),
		ReturnCode: c.ReturnCode,
	}
}

// Map returns the results as plain key/value pairs
func (c *Command) Map() map[string]any {
	res := c.Results()
	return map[string]any{
		"command":    res.Command,
		"output":     res.Output,
		"error":      res.Error,
		"returnCode": res.ReturnCode,
	}
}

// Shell executes commands through a fixed shell binary
type Shell struct {
	Path string
}

// Execute runs command once and returns the finished Command
func (s Shell) Execute(ctx context.Context, command string) (*Command, error) {
	path := s.Path
	if path == "" {
		path = DefaultShell
	}
	c := NewWithShell(path, command)
	err := c.Run(ctx)
	return c, err
}
