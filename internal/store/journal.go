package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

const journalTable = "tool_events"

// ToolEvent records one external tool invocation.
type ToolEvent struct {
	ID           int64
	RunID        string
	Kind         string // "convert" or "merge"
	Tool         string
	Command      string
	OutputPath   string
	Success      bool
	DurationMs   int64
	ErrorMessage string
	CreatedAt    time.Time
}

// JournalRepo appends and reads tool events. The journal is an audit log
// only; nothing reads it to decide whether work can be skipped.
type JournalRepo interface {
	// AppendToolEvent records a tool invocation.
	AppendToolEvent(ctx context.Context, ev ToolEvent) error

	// Recent returns up to limit events, newest first. limit <= 0 means 20.
	Recent(ctx context.Context, limit int) ([]ToolEvent, error)

	// Run returns the events of one run in invocation order.
	Run(ctx context.Context, runID string) ([]ToolEvent, error)
}

type journalRepo struct {
	drv *entsql.Driver
}

var journalColumns = []string{
	"id", "run_id", "kind", "tool", "command", "output_path",
	"success", "duration_ms", "error_message", "created_at",
}

func (r *journalRepo) AppendToolEvent(ctx context.Context, ev ToolEvent) error {
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now()
	}
	query, args := entsql.Dialect(dialect.SQLite).
		Insert(journalTable).
		Columns(journalColumns[1:]...).
		Values(ev.RunID, ev.Kind, ev.Tool, ev.Command, ev.OutputPath,
			ev.Success, ev.DurationMs, ev.ErrorMessage, ev.CreatedAt.UnixMilli()).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save tool event: %w", err)
	}
	return nil
}

func (r *journalRepo) Recent(ctx context.Context, limit int) ([]ToolEvent, error) {
	if limit <= 0 {
		limit = 20
	}
	sel := entsql.Dialect(dialect.SQLite).
		Select(journalColumns...).
		From(entsql.Table(journalTable)).
		OrderBy(entsql.Desc("id")).
		Limit(limit)
	return r.query(ctx, sel)
}

func (r *journalRepo) Run(ctx context.Context, runID string) ([]ToolEvent, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select(journalColumns...).
		From(entsql.Table(journalTable)).
		Where(entsql.EQ("run_id", runID)).
		OrderBy("id")
	return r.query(ctx, sel)
}

func (r *journalRepo) query(ctx context.Context, sel *entsql.Selector) ([]ToolEvent, error) {
	query, args := sel.Query()
	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query tool events: %w", err)
	}
	defer rows.Close()

	var events []ToolEvent
	for rows.Next() {
		var (
			ev        ToolEvent
			createdAt int64
		)
		if err := rows.Scan(&ev.ID, &ev.RunID, &ev.Kind, &ev.Tool, &ev.Command, &ev.OutputPath,
			&ev.Success, &ev.DurationMs, &ev.ErrorMessage, &createdAt); err != nil {
			return nil, fmt.Errorf("scan tool event: %w", err)
		}
		ev.CreatedAt = time.UnixMilli(createdAt)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tool events: %w", err)
	}
	return events, nil
}
