package toolchain

import (
	"context"
	"strings"
	"time"

	"github.com/abhisek/lessonpress/internal/logger"
	"github.com/abhisek/lessonpress/internal/store"
)

// JournalingConverter records every conversion in the build journal.
type JournalingConverter struct {
	inner Converter
	repo  store.JournalRepo
	runID string
	tool  string
	log   *logger.Logger
}

// WithConvertJournal wraps c so each call is appended to repo under runID.
func WithConvertJournal(c Converter, repo store.JournalRepo, runID string, log *logger.Logger) Converter {
	tool := "pandoc"
	if p, ok := c.(*Pandoc); ok {
		tool = p.Bin
	}
	return &JournalingConverter{inner: c, repo: repo, runID: runID, tool: tool, log: log}
}

func (j *JournalingConverter) Convert(ctx context.Context, src, dst string) error {
	start := time.Now()
	err := j.inner.Convert(ctx, src, dst)

	command := j.tool + " " + src
	if p, ok := j.inner.(*Pandoc); ok {
		command = p.Bin + " " + strings.Join(p.Args(src, dst), " ")
	}
	appendEvent(ctx, j.repo, j.log, store.ToolEvent{
		RunID:      j.runID,
		Kind:       "convert",
		Tool:       j.tool,
		Command:    command,
		OutputPath: dst,
	}, start, err)
	return err
}

// JournalingMerger records every merge in the build journal.
type JournalingMerger struct {
	inner Merger
	repo  store.JournalRepo
	runID string
	log   *logger.Logger
}

// WithMergeJournal wraps m so each call is appended to repo under runID.
func WithMergeJournal(m Merger, repo store.JournalRepo, runID string, log *logger.Logger) Merger {
	return &JournalingMerger{inner: m, repo: repo, runID: runID, log: log}
}

func (j *JournalingMerger) Merge(ctx context.Context, inputs []string, dst string) error {
	start := time.Now()
	err := j.inner.Merge(ctx, inputs, dst)

	tool := "merge"
	command := strings.Join(append([]string{tool}, inputs...), " ")
	if mt, ok := j.inner.(*MergeTool); ok {
		tool = mt.Name
		command = mt.Name + " " + strings.Join(mt.Args(inputs, dst), " ")
	}
	appendEvent(ctx, j.repo, j.log, store.ToolEvent{
		RunID:      j.runID,
		Kind:       "merge",
		Tool:       tool,
		Command:    command,
		OutputPath: dst,
	}, start, err)
	return err
}

// appendEvent logs the event but never fails the tool call.
func appendEvent(ctx context.Context, repo store.JournalRepo, log *logger.Logger, ev store.ToolEvent, start time.Time, err error) {
	ev.DurationMs = time.Since(start).Milliseconds()
	ev.Success = err == nil
	if err != nil {
		ev.ErrorMessage = err.Error()
	}
	ev.CreatedAt = start
	if logErr := repo.AppendToolEvent(ctx, ev); logErr != nil {
		log.Warn("failed to record tool event", "kind", ev.Kind, "path", ev.OutputPath, "error", logErr)
	}
}
