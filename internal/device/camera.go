package device

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"placebook/internal/model"
)

// CaptureOptions mirrors the platform picker options.
type CaptureOptions struct {
	AllowEdit bool
	Quality   float64 // 0..1
}

// CaptureResult is either cancelled or carries the captured file.
// FileRef may be empty on a non-cancelled result when the tool wrote nothing.
type CaptureResult struct {
	Cancelled bool
	FileRef   string
}

// TerminalHandoff hands the terminal to an interactive command and takes it
// back afterwards. *tea.Program satisfies it.
type TerminalHandoff interface {
	ReleaseTerminal() error
	RestoreTerminal() error
}

// exitInterrupted is the shell status for a command stopped with ctrl+c.
const exitInterrupted = 130

// CommandCamera captures photos by running an external tool such as
// fswebcam, libcamera-still or imagesnap.
//
// Command and EditCommand are split on whitespace; the placeholders
// {output} and {quality} are substituted per argument.
type CommandCamera struct {
	Command     string
	EditCommand string
	OutputDir   string

	// Terminal, when set, is released while the edit command runs so the
	// editor can use the screen and keyboard.
	Terminal TerminalHandoff
	Logger   *slog.Logger

	lookPath func(string) (string, error)
	now      func() time.Time
}

// NewCommandCamera creates a camera writing temporary captures to outputDir.
func NewCommandCamera(command, editCommand, outputDir string) *CommandCamera {
	return &CommandCamera{
		Command:     command,
		EditCommand: editCommand,
		OutputDir:   outputDir,
		lookPath:    exec.LookPath,
		now:         time.Now,
	}
}

// RequestPermission grants access when the capture tool resolves on PATH.
// It is checked on every attempt, so installing the tool later unlocks capture.
func (c *CommandCamera) RequestPermission(ctx context.Context) (model.Permission, error) {
	args := strings.Fields(c.Command)
	if len(args) == 0 {
		return model.PermissionDenied, nil
	}
	if _, err := c.lookPath(args[0]); err != nil {
		return model.PermissionDenied, nil
	}
	return model.PermissionGranted, nil
}

// Capture runs the capture tool and then, with AllowEdit, the edit command.
//
// The capture tool counts as cancelled only when it was interrupted (killed
// by a signal or exit status 130); any other failure is an error carrying
// the tool's output. The edit command is interactive, so any non-zero exit
// means the user backed out. A context that ends before a tool exits is an
// error, never a cancel.
func (c *CommandCamera) Capture(ctx context.Context, opts CaptureOptions) (CaptureResult, error) {
	if err := os.MkdirAll(c.OutputDir, 0700); err != nil {
		return CaptureResult{}, fmt.Errorf("failed to create capture directory: %w", err)
	}
	output := filepath.Join(c.OutputDir, fmt.Sprintf("capture-%d.jpg", c.now().UnixNano()))

	cancelled, err := c.run(ctx, c.Command, output, opts.Quality, false)
	if err != nil {
		os.Remove(output)
		return CaptureResult{}, err
	}
	if cancelled {
		os.Remove(output)
		return CaptureResult{Cancelled: true}, nil
	}

	if opts.AllowEdit && strings.TrimSpace(c.EditCommand) != "" {
		cancelled, err := c.run(ctx, c.EditCommand, output, opts.Quality, true)
		if err != nil {
			os.Remove(output)
			return CaptureResult{}, err
		}
		if cancelled {
			os.Remove(output)
			return CaptureResult{Cancelled: true}, nil
		}
	}

	info, err := os.Stat(output)
	if err != nil || info.Size() == 0 {
		return CaptureResult{}, nil
	}
	return CaptureResult{FileRef: output}, nil
}

func (c *CommandCamera) run(ctx context.Context, command, output string, quality float64, interactive bool) (bool, error) {
	args := expandArgs(strings.Fields(command), output, quality)
	if len(args) == 0 {
		return false, fmt.Errorf("no capture command configured")
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	var out []byte
	var err error
	if interactive && c.Terminal != nil {
		err = c.runAttached(cmd)
	} else {
		out, err = cmd.CombinedOutput()
	}
	if err == nil {
		return false, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return false, fmt.Errorf("%s did not finish: %w", args[0], ctxErr)
	}

	detail := strings.TrimSpace(string(out))
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if interactive || code == -1 || code == exitInterrupted {
			c.logger().Debug("camera tool cancelled", "tool", args[0], "exit_code", code)
			return true, nil
		}
		c.logger().Warn("camera tool failed", "tool", args[0], "exit_code", code, "output", detail)
		return false, fmt.Errorf("%s exited with status %d: %s", args[0], code, detail)
	}
	return false, fmt.Errorf("failed to run %s: %w (%s)", args[0], err, detail)
}

// runAttached runs cmd on the real terminal between a release and a restore.
func (c *CommandCamera) runAttached(cmd *exec.Cmd) error {
	if err := c.Terminal.ReleaseTerminal(); err != nil {
		return fmt.Errorf("failed to release terminal: %w", err)
	}
	cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	runErr := cmd.Run()
	if err := c.Terminal.RestoreTerminal(); err != nil {
		c.logger().Error("failed to restore terminal", "error", err)
		if runErr == nil {
			return fmt.Errorf("failed to restore terminal: %w", err)
		}
	}
	return runErr
}

func (c *CommandCamera) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func expandArgs(args []string, output string, quality float64) []string {
	q := strconv.Itoa(qualityPercent(quality))
	expanded := make([]string, 0, len(args))
	hasOutput := false
	for _, a := range args {
		if strings.Contains(a, "{output}") {
			hasOutput = true
		}
		a = strings.ReplaceAll(a, "{output}", output)
		a = strings.ReplaceAll(a, "{quality}", q)
		expanded = append(expanded, a)
	}
	if !hasOutput && len(expanded) > 0 {
		expanded = append(expanded, output)
	}
	return expanded
}

func qualityPercent(q float64) int {
	if q <= 0 || q > 1 {
		return 100
	}
	return int(q*100 + 0.5)
}
