package toolchain

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/abhisek/lessonpress/internal/logger"
)

// MergeTool concatenates PDFs with one of mutool, gs or pdfunite.
type MergeTool struct {
	Name string // mutool, gs or pdfunite
	Path string // resolved binary
	Dir  string
	Run  Runner
	log  *logger.Logger
}

// FindMergeTool returns the first tool in order that lookPath can resolve.
func FindMergeTool(order []string, lookPath LookPathFunc, dir string, log *logger.Logger) (*MergeTool, error) {
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	for _, name := range order {
		if mergeArgs(name, nil, "") == nil {
			continue
		}
		path, err := lookPath(name)
		if err != nil {
			continue
		}
		log.Debug("merge tool selected", "tool", name, "path", path)
		return &MergeTool{Name: name, Path: path, Dir: dir, Run: ExecRunner, log: log.With("tool", name)}, nil
	}
	return nil, ErrNoMergeTool
}

// Args returns the command line that merges inputs into dst.
func (m *MergeTool) Args(inputs []string, dst string) []string {
	return mergeArgs(m.Name, inputs, dst)
}

// Merge concatenates inputs into dst.
func (m *MergeTool) Merge(ctx context.Context, inputs []string, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	args := m.Args(inputs, dst)
	m.log.Debug("merging", "dst", dst, "inputs", len(inputs))
	return run(ctx, m.Run, m.Dir, m.Path, args...)
}

// mergeArgs returns nil for tools it does not know.
func mergeArgs(tool string, inputs []string, dst string) []string {
	switch tool {
	case "mutool":
		return append([]string{"merge", "-o", dst}, inputs...)
	case "gs":
		return append([]string{"-dBATCH", "-dNOPAUSE", "-q", "-sDEVICE=pdfwrite", "-sOutputFile=" + dst}, inputs...)
	case "pdfunite":
		args := append([]string{}, inputs...)
		return append(args, dst)
	default:
		return nil
	}
}
