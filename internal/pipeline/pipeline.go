// Package pipeline runs the generation stages in order: narrative docs,
// lesson practice/answer sheets, then the teacher and student packets.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/lessonpress/internal/artifact"
	"github.com/abhisek/lessonpress/internal/bank"
	"github.com/abhisek/lessonpress/internal/compose"
	"github.com/abhisek/lessonpress/internal/logger"
	"github.com/abhisek/lessonpress/internal/packet"
	"github.com/abhisek/lessonpress/internal/toolchain"
)

// Report collects what a run produced.
type Report struct {
	Stages   []string
	Docs     []string // narrative PDFs
	Lessons  []int
	Markup   []string
	PDFs     []string // practice and answer PDFs
	Packets  []string
	Warnings []string
}

// Pipeline sequences the stages against one project layout.
type Pipeline struct {
	layout    artifact.Layout
	converter toolchain.Converter
	assembler *packet.Assembler
	log       *logger.Logger
	now       func() time.Time
}

// New returns a Pipeline. merger may be nil when no run will include the
// packets stage.
func New(layout artifact.Layout, converter toolchain.Converter, merger toolchain.Merger, log *logger.Logger) *Pipeline {
	return &Pipeline{
		layout:    layout,
		converter: converter,
		assembler: packet.NewAssembler(layout, merger, log),
		log:       log,
		now:       time.Now,
	}
}

// Run executes the enabled stages. The first error aborts the run; files
// already written stay on disk.
func (p *Pipeline) Run(ctx context.Context, st Stages) (*Report, error) {
	r := &Report{Stages: st.Names()}

	if st.Docs {
		if err := p.generateDocs(ctx, r); err != nil {
			return r, fmt.Errorf("docs: %w", err)
		}
	}
	if st.Lessons {
		if err := p.generateLessons(ctx, st.Lesson, r); err != nil {
			return r, fmt.Errorf("lessons: %w", err)
		}
	}
	if st.Packets {
		if err := p.assemblePackets(ctx, r); err != nil {
			return r, fmt.Errorf("packets: %w", err)
		}
	}
	return r, nil
}

func (p *Pipeline) generateDocs(ctx context.Context, r *Report) error {
	if src := p.layout.SyllabusSource(); artifact.Exists(src) {
		dst := p.layout.SyllabusPDF()
		if err := p.convert(ctx, src, dst); err != nil {
			return err
		}
		r.Docs = append(r.Docs, dst)
	} else {
		p.log.Debug("no syllabus source", "path", src)
	}

	plans, err := p.layout.DiscoverPlans()
	if err != nil {
		return err
	}
	for _, plan := range plans {
		dst := p.layout.PlanPDF(plan.Lesson)
		if err := p.convert(ctx, plan.Path, dst); err != nil {
			return err
		}
		r.Docs = append(r.Docs, dst)
	}
	return nil
}

func (p *Pipeline) generateLessons(ctx context.Context, only int, r *Report) error {
	lessons, err := bank.LoadAll(p.layout.BankDir, only)
	if err != nil {
		return err
	}

	for _, l := range lessons {
		if rep := bank.Inspect(l); len(rep.DuplicateIDs) > 0 {
			msg := fmt.Sprintf("lesson %d: duplicate item ids %v", l.Number, rep.DuplicateIDs)
			p.log.Warn("duplicate item ids", "lesson", l.Number, "ids", rep.DuplicateIDs)
			r.Warnings = append(r.Warnings, msg)
		}

		practice := p.layout.PracticeMarkup(l.Number)
		answer := p.layout.AnswerMarkup(l.Number)
		if err := artifact.WriteText(practice, compose.PracticeDocument(l)); err != nil {
			return err
		}
		if err := artifact.WriteText(answer, compose.AnswerDocument(l)); err != nil {
			return err
		}
		r.Markup = append(r.Markup, practice, answer)

		if err := p.convert(ctx, practice, p.layout.PracticePDF(l.Number)); err != nil {
			return err
		}
		if err := p.convert(ctx, answer, p.layout.AnswerPDF(l.Number)); err != nil {
			return err
		}
		r.PDFs = append(r.PDFs, p.layout.PracticePDF(l.Number), p.layout.AnswerPDF(l.Number))
		r.Lessons = append(r.Lessons, l.Number)
		p.log.Info("lesson generated", "lesson", l.Number, "items", l.ItemCount())
	}
	return nil
}

func (p *Pipeline) assemblePackets(ctx context.Context, r *Report) error {
	for _, aud := range artifact.Audiences {
		doc, err := compose.CoverDocument(aud, p.now())
		if err != nil {
			return err
		}
		src := p.layout.CoverMarkup(aud)
		if err := artifact.WriteText(src, doc); err != nil {
			return err
		}
		r.Markup = append(r.Markup, src)
		if err := p.convert(ctx, src, p.layout.CoverPDF(aud)); err != nil {
			return err
		}
	}

	m, err := p.Manifest()
	if err != nil {
		return err
	}
	for _, aud := range artifact.Audiences {
		out, err := p.assembler.Assemble(ctx, aud, m)
		if err != nil {
			return err
		}
		r.Packets = append(r.Packets, out)
	}
	return nil
}

// Manifest lists the documents a complete build has: every lesson in the
// bank, every discovered plan, and the syllabus when its source exists.
func (p *Pipeline) Manifest() (packet.Manifest, error) {
	lessons, err := bank.LoadAll(p.layout.BankDir, 0)
	if err != nil {
		return packet.Manifest{}, err
	}
	plans, err := p.layout.DiscoverPlans()
	if err != nil {
		return packet.Manifest{}, err
	}

	m := packet.Manifest{Syllabus: artifact.Exists(p.layout.SyllabusSource())}
	for _, l := range lessons {
		m.Lessons = append(m.Lessons, l.Number)
	}
	for _, pl := range plans {
		m.Plans = append(m.Plans, pl.Lesson)
	}
	return m, nil
}

func (p *Pipeline) convert(ctx context.Context, src, dst string) error {
	p.log.Debug("converting", "src", src, "dst", dst)
	return p.converter.Convert(ctx, src, dst)
}
