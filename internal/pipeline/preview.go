package pipeline

import (
	"github.com/abhisek/lessonpress/internal/artifact"
	"github.com/abhisek/lessonpress/internal/bank"
)

// Conversion is one planned markup to PDF step.
type Conversion struct {
	Src string
	Dst string
}

// PacketPlan is the resolved input list of one packet.
type PacketPlan struct {
	Audience artifact.Audience
	Output   string
	Inputs   []string
}

// Preview is what Run would do, resolved without invoking any tool or
// writing any file.
type Preview struct {
	Stages      []string
	Conversions []Conversion
	Lessons     []int
	Packets     []PacketPlan
}

// Preview resolves the plan for st.
func (p *Pipeline) Preview(st Stages) (*Preview, error) {
	pv := &Preview{Stages: st.Names()}
	l := p.layout

	if st.Docs {
		if artifact.Exists(l.SyllabusSource()) {
			pv.Conversions = append(pv.Conversions, Conversion{Src: l.SyllabusSource(), Dst: l.SyllabusPDF()})
		}
		plans, err := l.DiscoverPlans()
		if err != nil {
			return nil, err
		}
		for _, plan := range plans {
			pv.Conversions = append(pv.Conversions, Conversion{Src: plan.Path, Dst: l.PlanPDF(plan.Lesson)})
		}
	}

	if st.Lessons {
		lessons, err := bank.LoadAll(l.BankDir, st.Lesson)
		if err != nil {
			return nil, err
		}
		for _, ls := range lessons {
			pv.Lessons = append(pv.Lessons, ls.Number)
			pv.Conversions = append(pv.Conversions,
				Conversion{Src: l.PracticeMarkup(ls.Number), Dst: l.PracticePDF(ls.Number)},
				Conversion{Src: l.AnswerMarkup(ls.Number), Dst: l.AnswerPDF(ls.Number)},
			)
		}
	}

	if st.Packets {
		for _, aud := range artifact.Audiences {
			pv.Conversions = append(pv.Conversions, Conversion{Src: l.CoverMarkup(aud), Dst: l.CoverPDF(aud)})
		}
		m, err := p.Manifest()
		if err != nil {
			return nil, err
		}
		for _, aud := range artifact.Audiences {
			inputs, err := p.assembler.Inputs(aud, m)
			if err != nil {
				return nil, err
			}
			pv.Packets = append(pv.Packets, PacketPlan{Audience: aud, Output: l.PacketPDF(aud), Inputs: inputs})
		}
	}
	return pv, nil
}
