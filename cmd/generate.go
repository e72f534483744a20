package cmd

import (
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/abhisek/lessonpress/internal/config"
	"github.com/abhisek/lessonpress/internal/pipeline"
	"github.com/abhisek/lessonpress/internal/toolchain"
	"github.com/abhisek/lessonpress/internal/ui/theme"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate lesson PDFs and packets",
	Long: "Generate renders the syllabus and lesson plans, writes practice and answer sheets " +
		"for every lesson in the bank, and merges the teacher and student packets. " +
		"With no scope flag everything is generated.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if f, _ := cmd.Flags().GetString("font"); f != "" {
			cfg.Render.MainFont = f
		}
		if f, _ := cmd.Flags().GetString("monofont"); f != "" {
			cfg.Render.MonoFont = f
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		log, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer log.Sync()

		scope, err := scopeFromFlags(cmd)
		if err != nil {
			return err
		}
		stages := scope.Stages()
		layout := cfg.Layout()
		pandoc := toolchain.NewPandoc(cfg.Root, renderOptions(cfg), log)
		out := cmd.OutOrStdout()

		if dry, _ := cmd.Flags().GetBool("dry-run"); dry {
			pv, err := pipeline.New(layout, pandoc, nil, log).Preview(stages)
			if err != nil {
				return err
			}
			printPreview(out, cfg.Root, pv)
			return nil
		}

		ctx := cmd.Context()

		// Tools are probed before any file is written.
		if err := pandoc.Probe(ctx); err != nil {
			return err
		}
		var converter toolchain.Converter = pandoc
		var merger toolchain.Merger
		if stages.Packets {
			mt, err := toolchain.FindMergeTool(cfg.MergeTools, exec.LookPath, cfg.Root, log)
			if err != nil {
				return err
			}
			merger = mt
		}

		runID := uuid.NewString()
		if s := openJournal(cfg, log); s != nil {
			defer s.Close()
			repo := s.JournalRepo()
			converter = toolchain.WithConvertJournal(converter, repo, runID, log)
			if merger != nil {
				merger = toolchain.WithMergeJournal(merger, repo, runID, log)
			}
		}

		log.Info("starting run", "run_id", runID, "stages", stages.Names(), "root", cfg.Root)
		report, err := pipeline.New(layout, converter, merger, log).Run(ctx, stages)
		if report != nil {
			printReport(out, cfg.Root, runID, report, err == nil)
		}
		return err
	},
}

func init() {
	f := generateCmd.Flags()
	f.Bool("all", false, "Generate docs, lessons and packets (default when no scope flag is given)")
	f.Bool("docs", false, "Generate the syllabus and lesson-plan PDFs")
	f.Bool("lessons", false, "Generate practice and answer PDFs for every lesson")
	f.Bool("packs", false, "Generate docs and lessons, then merge the teacher and student packets")
	f.Int("lesson", 0, "Generate practice and answer PDFs for one lesson number")
	f.String("font", "", "Main font family (overrides config)")
	f.String("monofont", "", "Monospace font family (overrides config)")
	f.Bool("dry-run", false, "Print the resolved plan without running any tool")
}

func scopeFromFlags(cmd *cobra.Command) (pipeline.Scope, error) {
	f := cmd.Flags()
	var s pipeline.Scope
	s.All, _ = f.GetBool("all")
	s.Docs, _ = f.GetBool("docs")
	s.Lessons, _ = f.GetBool("lessons")
	s.Packets, _ = f.GetBool("packs")
	s.Lesson, _ = f.GetInt("lesson")
	if f.Changed("lesson") && s.Lesson < 1 {
		return s, fmt.Errorf("--lesson must be a positive lesson number, got %d", s.Lesson)
	}
	return s, nil
}

func renderOptions(cfg config.Config) toolchain.RenderOptions {
	r := cfg.Render
	return toolchain.RenderOptions{
		Engine:       r.Engine,
		Header:       cfg.HeaderPath(),
		PaperSize:    r.PaperSize,
		Margin:       r.Margin,
		FontSize:     r.FontSize,
		MainFont:     r.MainFont,
		CJKFont:      cfg.CJKFont(),
		MonoFont:     r.MonoFont,
		LinksAsNotes: r.LinksAsNotes,
		MinVersion:   r.MinPandocVersion,
	}
}

// rel shortens path for display when it lives under root.
func rel(root, path string) string {
	if r, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(r, "..") {
		return r
	}
	return path
}

func printReport(w io.Writer, root, runID string, r *pipeline.Report, ok bool) {
	fmt.Fprintln(w, theme.Title.Render("lessonpress generate")+" "+theme.Hint.Render(runID))
	fmt.Fprintln(w, theme.Rule(48))
	fmt.Fprintf(w, "%s %v\n", theme.Label.Render("Stages: "), r.Stages)
	for _, p := range r.Docs {
		fmt.Fprintf(w, "%s %s\n", theme.Mark(true), theme.Path.Render(rel(root, p)))
	}
	for _, p := range r.PDFs {
		fmt.Fprintf(w, "%s %s\n", theme.Mark(true), theme.Path.Render(rel(root, p)))
	}
	for _, p := range r.Packets {
		fmt.Fprintf(w, "%s %s\n", theme.Mark(true), theme.Label.Render(rel(root, p)))
	}
	for _, warn := range r.Warnings {
		fmt.Fprintf(w, "%s %s\n", theme.Warn.Render("!"), warn)
	}
	if !ok {
		fmt.Fprintf(w, "%s %s\n", theme.Mark(false), theme.Fail.Render("run aborted"))
		return
	}
	fmt.Fprintln(w, theme.Card.Render(fmt.Sprintf("%s %d lessons, %d docs, %d packets",
		theme.Mark(true), len(r.Lessons), len(r.Docs), len(r.Packets))))
}

func printPreview(w io.Writer, root string, pv *pipeline.Preview) {
	fmt.Fprintln(w, theme.Title.Render("lessonpress generate --dry-run"))
	fmt.Fprintln(w, theme.Rule(48))
	fmt.Fprintf(w, "%s %v\n", theme.Label.Render("Stages: "), pv.Stages)
	if len(pv.Lessons) > 0 {
		fmt.Fprintf(w, "%s %v\n", theme.Label.Render("Lessons:"), pv.Lessons)
	}
	for _, c := range pv.Conversions {
		fmt.Fprintf(w, "  convert %s -> %s\n", rel(root, c.Src), rel(root, c.Dst))
	}
	for _, p := range pv.Packets {
		fmt.Fprintf(w, "%s %s (%d inputs)\n", theme.Label.Render("merge"), rel(root, p.Output), len(p.Inputs))
		for _, in := range p.Inputs {
			fmt.Fprintf(w, "    %s\n", theme.Path.Render(rel(root, in)))
		}
	}
}
