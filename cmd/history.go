package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/abhisek/lessonpress/internal/store"
	"github.com/abhisek/lessonpress/internal/ui/theme"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent tool invocations from the build journal",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		runID, _ := cmd.Flags().GetString("run")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		path, err := cfg.JournalPath()
		if err != nil {
			return fmt.Errorf("resolve journal path: %w", err)
		}
		if path == "" {
			return fmt.Errorf("build journal is disabled")
		}

		s, err := store.OpenFile(path)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		defer s.Close()

		ctx := cmd.Context()
		var events []store.ToolEvent
		if runID != "" {
			events, err = s.JournalRepo().Run(ctx, runID)
		} else {
			events, err = s.JournalRepo().Recent(ctx, limit)
		}
		if err != nil {
			return fmt.Errorf("query journal: %w", err)
		}

		printHistory(cmd.OutOrStdout(), events)
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Maximum number of events to show")
	historyCmd.Flags().String("run", "", "Show every event of one run id")
}

func printHistory(w io.Writer, events []store.ToolEvent) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No tool events recorded.")
		return
	}

	fmt.Fprintf(w, "%-19s  %-8s  %-8s  %-8s  %-7s  %s\n", "Timestamp", "Run", "Kind", "Tool", "Ms", "Output")
	fmt.Fprintln(w, theme.Rule(100))
	for _, e := range events {
		run := e.RunID
		if len(run) > 8 {
			run = run[:8]
		}
		fmt.Fprintf(w, "%-19s  %-8s  %-8s  %-8s  %-7d  %s %s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			run,
			e.Kind,
			e.Tool,
			e.DurationMs,
			theme.Mark(e.Success),
			e.OutputPath,
		)
		if e.ErrorMessage != "" {
			fmt.Fprintf(w, "    %s\n", theme.Fail.Render(firstLine(e.ErrorMessage)))
		}
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
