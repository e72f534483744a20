// Package packet decides which finished PDFs make up the teacher and
// student packets and hands them to the merge tool.
package packet

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/abhisek/lessonpress/internal/artifact"
	"github.com/abhisek/lessonpress/internal/logger"
	"github.com/abhisek/lessonpress/internal/toolchain"
)

// ErrEmptyInputSet is returned when a packet resolves to no inputs.
var ErrEmptyInputSet = errors.New("packet has no input documents")

// MissingArtifactError lists every packet input that does not exist.
type MissingArtifactError struct {
	Packet string
	Paths  []string
}

func (e *MissingArtifactError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "cannot assemble %s: missing PDFs:", e.Packet)
	for _, p := range e.Paths {
		b.WriteString("\n- ")
		b.WriteString(p)
	}
	return b.String()
}

// Manifest describes which documents a full build is expected to have
// produced. Numbers are lesson numbers.
type Manifest struct {
	Syllabus bool  // include the syllabus PDF
	Plans    []int // lessons with a lesson-plan document
	Lessons  []int // lessons in the bank
}

// Assembler resolves and merges packets.
type Assembler struct {
	layout artifact.Layout
	merger toolchain.Merger
	exists func(string) bool
	log    *logger.Logger
}

// NewAssembler returns an Assembler. merger may be nil, in which case
// Assemble fails with toolchain.ErrNoMergeTool once inputs are verified.
func NewAssembler(layout artifact.Layout, merger toolchain.Merger, log *logger.Logger) *Assembler {
	return &Assembler{layout: layout, merger: merger, exists: artifact.Exists, log: log}
}

// Inputs returns the ordered PDFs for the audience's packet.
//
// Teacher: cover, syllabus, plans, practice sheets, answer sheets.
// Student: cover, practice sheets. Answer sheets never go to students.
func (a *Assembler) Inputs(aud artifact.Audience, m Manifest) ([]string, error) {
	l := a.layout
	lessons := sortedUnique(m.Lessons)

	switch aud {
	case artifact.Teacher:
		inputs := []string{l.CoverPDF(artifact.Teacher)}
		if m.Syllabus {
			inputs = append(inputs, l.SyllabusPDF())
		}
		for _, n := range sortedUnique(m.Plans) {
			inputs = append(inputs, l.PlanPDF(n))
		}
		for _, n := range lessons {
			inputs = append(inputs, l.PracticePDF(n))
		}
		for _, n := range lessons {
			inputs = append(inputs, l.AnswerPDF(n))
		}
		return inputs, nil

	case artifact.Student:
		inputs := []string{l.CoverPDF(artifact.Student)}
		for _, n := range lessons {
			inputs = append(inputs, l.PracticePDF(n))
		}
		return inputs, nil
	}
	return nil, fmt.Errorf("unknown packet audience %q", aud)
}

// Assemble resolves the audience's inputs and merges them into its packet
// PDF, returning the output path.
func (a *Assembler) Assemble(ctx context.Context, aud artifact.Audience, m Manifest) (string, error) {
	inputs, err := a.Inputs(aud, m)
	if err != nil {
		return "", err
	}
	out := a.layout.PacketPDF(aud)
	if err := a.Merge(ctx, string(aud), inputs, out); err != nil {
		return "", err
	}
	return out, nil
}

// Merge concatenates inputs into out after checking that every input exists.
// Nothing is written when any input is missing.
func (a *Assembler) Merge(ctx context.Context, name string, inputs []string, out string) error {
	if len(inputs) == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyInputSet, out)
	}

	var missing []string
	for _, p := range inputs {
		if !a.exists(p) {
			missing = append(missing, p)
		}
	}
	if len(missing) > 0 {
		return &MissingArtifactError{Packet: name, Paths: missing}
	}

	if a.merger == nil {
		return toolchain.ErrNoMergeTool
	}

	a.log.Info("merging packet", "packet", name, "inputs", len(inputs), "path", out)
	if err := a.merger.Merge(ctx, inputs, out); err != nil {
		return fmt.Errorf("merge %s packet: %w", name, err)
	}
	return nil
}

func sortedUnique(ns []int) []int {
	seen := make(map[int]bool, len(ns))
	out := make([]int, 0, len(ns))
	for _, n := range ns {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	sort.Ints(out)
	return out
}
