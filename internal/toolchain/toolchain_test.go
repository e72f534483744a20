package toolchain

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abhisek/lessonpress/internal/logger"
	"github.com/abhisek/lessonpress/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultOpts() RenderOptions {
	return RenderOptions{
		Engine:       "xelatex",
		PaperSize:    "a4",
		Margin:       "2cm",
		FontSize:     "12pt",
		MainFont:     "PingFang SC",
		MonoFont:     "Menlo",
		LinksAsNotes: true,
	}
}

func lookPathFor(installed ...string) LookPathFunc {
	return func(file string) (string, error) {
		for _, i := range installed {
			if i == file {
				return "/usr/bin/" + file, nil
			}
		}
		return "", fmt.Errorf("%s: not found", file)
	}
}

type fakeRun struct {
	calls  [][]string
	output string
	err    error
}

func (f *fakeRun) run(_ context.Context, dir, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, append([]string{dir, name}, args...))
	return []byte(f.output), f.err
}

func TestPandoc_Args(t *testing.T) {
	p := NewPandoc("/proj", defaultOpts(), logger.Nop())
	got := p.Args("in.md", "out.pdf")
	want := []string{
		"in.md", "-o", "out.pdf", "--pdf-engine=xelatex",
		"-V", "papersize=a4",
		"-V", "geometry:margin=2cm",
		"-V", "fontsize=12pt",
		"-V", "mainfont=PingFang SC",
		"-V", "CJKmainfont=PingFang SC",
		"-V", "monofont=Menlo",
		"-V", "links-as-notes=true",
	}
	assert.Equal(t, want, got)
}

func TestPandoc_ArgsHeaderOnlyWhenPresent(t *testing.T) {
	header := filepath.Join(t.TempDir(), "header.tex")
	opts := defaultOpts()
	opts.Header = header
	opts.CJKFont = "Noto Sans CJK SC"
	opts.LinksAsNotes = false
	p := NewPandoc("/proj", opts, logger.Nop())

	assert.NotContains(t, p.Args("a.md", "a.pdf"), "-H")

	require.NoError(t, os.WriteFile(header, []byte(`\usepackage{xeCJK}`), 0o644))
	args := p.Args("a.md", "a.pdf")
	assert.Equal(t, []string{"-H", header}, args[4:6])
	assert.Contains(t, args, "CJKmainfont=Noto Sans CJK SC")
	assert.NotContains(t, args, "links-as-notes=true")
}

func TestPandoc_ConvertFailure(t *testing.T) {
	fr := &fakeRun{output: "! LaTeX Error: font not found", err: errors.New("exit status 43")}
	p := NewPandoc("/proj", defaultOpts(), logger.Nop())
	p.Run = fr.run

	dst := filepath.Join(t.TempDir(), "out", "a.pdf")
	err := p.Convert(context.Background(), "a.md", dst)

	var tf *ToolFailureError
	require.ErrorAs(t, err, &tf)
	assert.Equal(t, "pandoc", tf.Command[0])
	assert.Contains(t, tf.Output, "font not found")
	assert.Contains(t, err.Error(), "pandoc a.md -o "+dst)
	require.Len(t, fr.calls, 1)
	assert.Equal(t, "/proj", fr.calls[0][0])
	assert.DirExists(t, filepath.Dir(dst))
}

func TestPandoc_Probe(t *testing.T) {
	p := NewPandoc("/proj", defaultOpts(), logger.Nop())

	p.LookPath = lookPathFor("pandoc", "xelatex")
	assert.NoError(t, p.Probe(context.Background()))

	p.LookPath = lookPathFor("pandoc")
	err := p.Probe(context.Background())
	assert.True(t, errors.Is(err, ErrMissingRenderTool))
	assert.Contains(t, err.Error(), "xelatex")

	p.LookPath = lookPathFor("xelatex")
	assert.True(t, errors.Is(p.Probe(context.Background()), ErrMissingRenderTool))
}

func TestPandoc_ProbeMinVersion(t *testing.T) {
	opts := defaultOpts()
	opts.MinVersion = "2.11"
	p := NewPandoc("/proj", opts, logger.Nop())
	p.LookPath = lookPathFor("pandoc", "xelatex")

	fr := &fakeRun{output: "pandoc 3.1.11.1\nFeatures: +server +lua\n"}
	p.Run = fr.run
	assert.NoError(t, p.Probe(context.Background()))

	fr.output = "pandoc 2.5\n"
	err := p.Probe(context.Background())
	assert.True(t, errors.Is(err, ErrMissingRenderTool))
	assert.Contains(t, err.Error(), "v2.5")
}

func TestParsePandocVersion(t *testing.T) {
	assert.Equal(t, "v3.1.11", parsePandocVersion("pandoc 3.1.11.1\nCompiled with..."))
	assert.Equal(t, "v2.19", parsePandocVersion("pandoc.exe 2.19\n"))
	assert.Equal(t, "", parsePandocVersion("something else"))
}

func TestCanonicalVersion(t *testing.T) {
	assert.Equal(t, "v2.11", CanonicalVersion("2.11"))
	assert.Equal(t, "v3.1", CanonicalVersion(" v3.1 "))
	assert.Equal(t, "", CanonicalVersion(""))
	assert.Equal(t, "", CanonicalVersion("  "))
}

func TestMergeArgs(t *testing.T) {
	inputs := []string{"a.pdf", "b.pdf"}
	assert.Equal(t, []string{"merge", "-o", "out.pdf", "a.pdf", "b.pdf"}, mergeArgs("mutool", inputs, "out.pdf"))
	assert.Equal(t, []string{"-dBATCH", "-dNOPAUSE", "-q", "-sDEVICE=pdfwrite", "-sOutputFile=out.pdf", "a.pdf", "b.pdf"},
		mergeArgs("gs", inputs, "out.pdf"))
	assert.Equal(t, []string{"a.pdf", "b.pdf", "out.pdf"}, mergeArgs("pdfunite", inputs, "out.pdf"))
	assert.Nil(t, mergeArgs("qpdf", inputs, "out.pdf"))
	assert.Equal(t, []string{"a.pdf", "b.pdf"}, inputs)
}

func TestFindMergeTool(t *testing.T) {
	order := []string{"mutool", "gs", "pdfunite"}

	mt, err := FindMergeTool(order, lookPathFor("gs", "pdfunite"), "/proj", logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, "gs", mt.Name)
	assert.Equal(t, "/usr/bin/gs", mt.Path)

	mt, err = FindMergeTool(order, lookPathFor("mutool", "pdfunite"), "/proj", logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, "mutool", mt.Name)

	_, err = FindMergeTool(order, lookPathFor("pandoc"), "/proj", logger.Nop())
	assert.True(t, errors.Is(err, ErrNoMergeTool))
}

func TestMergeTool_Merge(t *testing.T) {
	fr := &fakeRun{}
	mt, err := FindMergeTool([]string{"pdfunite"}, lookPathFor("pdfunite"), "/proj", logger.Nop())
	require.NoError(t, err)
	mt.Run = fr.run

	dst := filepath.Join(t.TempDir(), "packet.pdf")
	require.NoError(t, mt.Merge(context.Background(), []string{"a.pdf", "b.pdf"}, dst))
	require.Len(t, fr.calls, 1)
	assert.Equal(t, []string{"/proj", "/usr/bin/pdfunite", "a.pdf", "b.pdf", dst}, fr.calls[0])
}

func TestRecorder(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.md")
	require.NoError(t, os.WriteFile(src, []byte("# a\n"), 0o644))

	r := NewRecorder()
	dst := filepath.Join(dir, "out", "a.pdf")
	require.NoError(t, r.Convert(context.Background(), src, dst))
	assert.FileExists(t, dst)
	assert.Equal(t, []string{dst}, r.ConvertedTo())

	err := r.Convert(context.Background(), filepath.Join(dir, "missing.md"), filepath.Join(dir, "m.pdf"))
	var tf *ToolFailureError
	assert.ErrorAs(t, err, &tf)

	merged := filepath.Join(dir, "merged.pdf")
	r.FailOn[merged] = "boom"
	err = r.Merge(context.Background(), []string{dst}, merged)
	require.ErrorAs(t, err, &tf)
	assert.Equal(t, "boom", tf.Output)
	assert.NoFileExists(t, merged)
	require.Len(t, r.Merges, 1)
}

type memJournal struct {
	events []store.ToolEvent
	err    error
}

func (m *memJournal) AppendToolEvent(_ context.Context, ev store.ToolEvent) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, ev)
	return nil
}

func (m *memJournal) Recent(context.Context, int) ([]store.ToolEvent, error) { return m.events, nil }

func (m *memJournal) Run(context.Context, string) ([]store.ToolEvent, error) { return m.events, nil }

func TestJournalingConverter(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.md")
	require.NoError(t, os.WriteFile(src, []byte("# a\n"), 0o644))

	rec := NewRecorder()
	failDst := filepath.Join(dir, "b.pdf")
	rec.FailOn[failDst] = "bad"
	j := &memJournal{}
	conv := WithConvertJournal(rec, j, "run-1", logger.Nop())

	require.NoError(t, conv.Convert(context.Background(), src, filepath.Join(dir, "a.pdf")))
	require.Error(t, conv.Convert(context.Background(), src, failDst))

	require.Len(t, j.events, 2)
	assert.Equal(t, "run-1", j.events[0].RunID)
	assert.Equal(t, "convert", j.events[0].Kind)
	assert.True(t, j.events[0].Success)
	assert.False(t, j.events[1].Success)
	assert.True(t, strings.Contains(j.events[1].ErrorMessage, "bad"))
}

func TestJournalingMerger_JournalFailureIgnored(t *testing.T) {
	rec := NewRecorder()
	j := &memJournal{err: errors.New("disk full")}
	m := WithMergeJournal(rec, j, "run-1", logger.Nop())

	dst := filepath.Join(t.TempDir(), "out.pdf")
	assert.NoError(t, m.Merge(context.Background(), []string{"a.pdf"}, dst))
	assert.FileExists(t, dst)
}
