// Package toolchain wraps the external programs lessonpress depends on:
// pandoc (markdown to PDF) and a PDF concatenation tool. The rest of the
// pipeline only sees the Converter and Merger interfaces.
package toolchain

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Converter renders one markup file into a PDF at dst.
type Converter interface {
	Convert(ctx context.Context, src, dst string) error
}

// Merger concatenates PDFs, in order, into dst.
type Merger interface {
	Merge(ctx context.Context, inputs []string, dst string) error
}

var (
	// ErrMissingRenderTool means pandoc or its PDF engine is unavailable.
	ErrMissingRenderTool = errors.New("render tool not available")

	// ErrNoMergeTool means none of the supported merge tools is installed.
	ErrNoMergeTool = errors.New("no PDF merge tool available (install mutool, gs or pdfunite)")
)

// ToolFailureError reports an external command that exited unsuccessfully.
type ToolFailureError struct {
	Command []string
	Output  string
	Err     error
}

func (e *ToolFailureError) Error() string {
	return fmt.Sprintf("command failed: %s: %v\n\noutput:\n%s", strings.Join(e.Command, " "), e.Err, e.Output)
}

func (e *ToolFailureError) Unwrap() error { return e.Err }

// Runner executes name with args in dir and returns its combined output.
type Runner func(ctx context.Context, dir, name string, args ...string) ([]byte, error)

// ExecRunner runs commands with os/exec. There is no timeout: the call
// blocks until the tool exits or ctx is cancelled.
func ExecRunner(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}

// LookPathFunc resolves a binary name to a path.
type LookPathFunc func(file string) (string, error)

// run invokes the runner and converts a failure into a ToolFailureError.
func run(ctx context.Context, r Runner, dir, name string, args ...string) error {
	out, err := r(ctx, dir, name, args...)
	if err != nil {
		return &ToolFailureError{
			Command: append([]string{name}, args...),
			Output:  string(out),
			Err:     err,
		}
	}
	return nil
}
