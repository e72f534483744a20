// Package artifact names every file the pipeline reads or writes. All names
// embed a zero-padded two-digit lesson number so they sort by lesson.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
)

// Audience selects which packet (and cover) a document belongs to.
type Audience string

const (
	Teacher Audience = "teacher"
	Student Audience = "student"
)

// Audiences lists the packets in assembly order.
var Audiences = []Audience{Teacher, Student}

func (a Audience) label() string {
	switch a {
	case Teacher:
		return "教师材料"
	case Student:
		return "学生材料"
	default:
		return string(a)
	}
}

// Layout holds the directories of one project.
type Layout struct {
	BankDir   string // data/题库
	DocsDir   string // docs
	PlansDir  string // docs/教案
	OutputDir string // output
	MarkupDir string // output/_md
}

// Tag formats a lesson number for file names.
func Tag(n int) string {
	return fmt.Sprintf("%02d", n)
}

func (l Layout) SyllabusSource() string {
	return filepath.Join(l.DocsDir, "教学大纲.md")
}

func (l Layout) SyllabusPDF() string {
	return filepath.Join(l.OutputDir, "教学大纲.pdf")
}

func (l Layout) PlanPDF(n int) string {
	return filepath.Join(l.OutputDir, fmt.Sprintf("教案-第%s课.pdf", Tag(n)))
}

func (l Layout) PracticeMarkup(n int) string {
	return filepath.Join(l.MarkupDir, fmt.Sprintf("lesson-%s-练习.md", Tag(n)))
}

func (l Layout) AnswerMarkup(n int) string {
	return filepath.Join(l.MarkupDir, fmt.Sprintf("lesson-%s-答案.md", Tag(n)))
}

func (l Layout) PracticePDF(n int) string {
	return filepath.Join(l.OutputDir, fmt.Sprintf("lesson-%s-练习.pdf", Tag(n)))
}

func (l Layout) AnswerPDF(n int) string {
	return filepath.Join(l.OutputDir, fmt.Sprintf("lesson-%s-答案.pdf", Tag(n)))
}

func (l Layout) CoverMarkup(a Audience) string {
	return filepath.Join(l.MarkupDir, a.label()+"-封面.md")
}

func (l Layout) CoverPDF(a Audience) string {
	return filepath.Join(l.OutputDir, a.label()+"-封面.pdf")
}

func (l Layout) PacketPDF(a Audience) string {
	return filepath.Join(l.OutputDir, a.label()+"-完整版.pdf")
}

var answerPDFRE = regexp.MustCompile(`^lesson-\d+-答案\.pdf$`)

// IsAnswerPDF reports whether path follows the answer-sheet naming.
func IsAnswerPDF(path string) bool {
	return answerPDFRE.MatchString(filepath.Base(path))
}

// Plan is a lesson-plan source document.
type Plan struct {
	Path   string
	Lesson int
}

var planLessonRE = regexp.MustCompile(`第(\d+)\s*课`)

// PlanLesson extracts the lesson number from a plan file name such as
// "第3课-移项.md".
func PlanLesson(name string) (int, bool) {
	m := planLessonRE.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// DiscoverPlans lists 第*课-*.md files in the plans directory sorted by
// lesson number. A missing directory yields no plans.
func (l Layout) DiscoverPlans() ([]Plan, error) {
	matches, err := filepath.Glob(filepath.Join(l.PlansDir, "第*课-*.md"))
	if err != nil {
		return nil, fmt.Errorf("glob lesson plans: %w", err)
	}
	var plans []Plan
	for _, m := range matches {
		stem := filepath.Base(m)
		stem = stem[:len(stem)-len(filepath.Ext(stem))]
		n, ok := PlanLesson(stem)
		if !ok {
			continue
		}
		plans = append(plans, Plan{Path: m, Lesson: n})
	}
	sort.SliceStable(plans, func(i, j int) bool {
		if plans[i].Lesson != plans[j].Lesson {
			return plans[i].Lesson < plans[j].Lesson
		}
		return plans[i].Path < plans[j].Path
	})
	return plans, nil
}

// Exists reports whether path names an existing file.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// WriteText writes a generated markup document, creating parent directories.
func WriteText(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
