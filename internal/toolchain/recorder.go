package toolchain

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ConvertCall is one recorded Convert invocation.
type ConvertCall struct {
	Src string
	Dst string
}

// MergeCall is one recorded Merge invocation.
type MergeCall struct {
	Inputs []string
	Dst    string
}

// Recorder is a Converter and Merger for tests. It records every call and
// writes a small placeholder file at the destination instead of running
// external tools.
type Recorder struct {
	mu       sync.Mutex
	Converts []ConvertCall
	Merges   []MergeCall

	// FailOn makes calls whose destination matches a key fail with
	// a ToolFailureError carrying the mapped output.
	FailOn map[string]string
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{FailOn: map[string]string{}}
}

func (r *Recorder) Convert(_ context.Context, src, dst string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Converts = append(r.Converts, ConvertCall{Src: src, Dst: dst})
	if err := r.failure("pandoc", dst); err != nil {
		return err
	}
	if _, err := os.Stat(src); err != nil {
		return &ToolFailureError{Command: []string{"pandoc", src}, Output: err.Error(), Err: err}
	}
	return writePlaceholder(dst, "converted "+filepath.Base(src))
}

func (r *Recorder) Merge(_ context.Context, inputs []string, dst string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Merges = append(r.Merges, MergeCall{Inputs: append([]string(nil), inputs...), Dst: dst})
	if err := r.failure("merge", dst); err != nil {
		return err
	}
	return writePlaceholder(dst, fmt.Sprintf("merged %d files", len(inputs)))
}

// ConvertedTo returns the destinations of all Convert calls in order.
func (r *Recorder) ConvertedTo() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.Converts))
	for _, c := range r.Converts {
		out = append(out, c.Dst)
	}
	return out
}

func (r *Recorder) failure(tool, dst string) error {
	out, ok := r.FailOn[dst]
	if !ok {
		return nil
	}
	return &ToolFailureError{Command: []string{tool, dst}, Output: out, Err: errors.New("exit status 1")}
}

func writePlaceholder(dst, body string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dst, []byte("%PDF-1.4\n% "+body+"\n"), 0o644)
}
