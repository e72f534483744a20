package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/abhisek/lessonpress/internal/bank"
	"github.com/abhisek/lessonpress/internal/config"
	"github.com/abhisek/lessonpress/internal/pipeline"
	"github.com/abhisek/lessonpress/internal/store"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeBank(t *testing.T, root string) {
	t.Helper()
	dir := filepath.Join(root, "data", "题库")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	body := `{"lesson": 1, "title": "认识方程", "sections": [{"name": "A", "items": [
		{"id": "1a", "type": "solve", "prompt": "x + 2 = 5", "answer": "x = 3"},
		{"id": "1a", "type": "mystery", "prompt": "?"}
	]}]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, bank.RecordName(1)), []byte(body), 0o644))
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestScopeFromFlags(t *testing.T) {
	c := &cobra.Command{}
	c.Flags().Bool("all", false, "")
	c.Flags().Bool("docs", false, "")
	c.Flags().Bool("lessons", false, "")
	c.Flags().Bool("packs", false, "")
	c.Flags().Int("lesson", 0, "")

	require.NoError(t, c.Flags().Parse([]string{"--docs", "--lesson", "4"}))
	s, err := scopeFromFlags(c)
	require.NoError(t, err)
	assert.Equal(t, pipeline.Scope{Docs: true, Lesson: 4}, s)

	require.NoError(t, c.Flags().Parse([]string{"--lesson", "0"}))
	_, err = scopeFromFlags(c)
	assert.Error(t, err)
}

func TestRenderOptions(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Root = "/proj"
	cfg.Render.MinPandocVersion = "2.11"

	opts := renderOptions(cfg)
	assert.Equal(t, "xelatex", opts.Engine)
	assert.Equal(t, filepath.Join("/proj", "tools", "pandoc_header.tex"), opts.Header)
	assert.Equal(t, "PingFang SC", opts.CJKFont)
	assert.Equal(t, "2.11", opts.MinVersion)
}

func TestRel(t *testing.T) {
	assert.Equal(t, filepath.Join("output", "a.pdf"), rel("/proj", "/proj/output/a.pdf"))
	assert.Equal(t, "/elsewhere/a.pdf", rel("/proj", "/elsewhere/a.pdf"))
}

func TestPrintHistory(t *testing.T) {
	var buf bytes.Buffer
	printHistory(&buf, nil)
	assert.Contains(t, buf.String(), "No tool events recorded.")

	buf.Reset()
	printHistory(&buf, []store.ToolEvent{{
		RunID:        "0123456789abcdef",
		Kind:         "merge",
		Tool:         "pdfunite",
		OutputPath:   "output/学生材料-完整版.pdf",
		ErrorMessage: "exit status 1\nSyntax Error",
		CreatedAt:    time.Now(),
	}})
	out := buf.String()
	assert.Contains(t, out, "01234567 ")
	assert.NotContains(t, out, "0123456789")
	assert.Contains(t, out, "output/学生材料-完整版.pdf")
	assert.Contains(t, out, "exit status 1")
	assert.NotContains(t, out, "Syntax Error")
}

func TestPrintReport(t *testing.T) {
	r := &pipeline.Report{
		Stages:   []string{"lessons", "packets"},
		Lessons:  []int{1, 2},
		PDFs:     []string{"/proj/output/lesson-01-练习.pdf"},
		Packets:  []string{"/proj/output/学生材料-完整版.pdf"},
		Warnings: []string{"lesson 2: duplicate item ids [a]"},
	}

	var buf bytes.Buffer
	printReport(&buf, "/proj", "run-1", r, true)
	out := buf.String()
	assert.Contains(t, out, filepath.Join("output", "lesson-01-练习.pdf"))
	assert.Contains(t, out, "duplicate item ids")
	assert.Contains(t, out, "2 lessons, 0 docs, 1 packets")
	assert.Contains(t, out, "╭")

	buf.Reset()
	printReport(&buf, "/proj", "run-1", r, false)
	assert.Contains(t, buf.String(), "run aborted")
	assert.NotContains(t, buf.String(), "1 packets")
}

func TestValidateCommand(t *testing.T) {
	root := t.TempDir()
	writeBank(t, root)

	out, err := execute(t, "validate", "--root", root, "--db", config.JournalOff)
	require.NoError(t, err)
	assert.Contains(t, out, "duplicate ids: 1a")
	assert.Contains(t, out, "missing answer: 1a")
	assert.Contains(t, out, "unknown type: 1a: mystery")
	assert.Contains(t, out, "0/1 lessons clean")
}

func TestGenerateDryRun(t *testing.T) {
	root := t.TempDir()
	writeBank(t, root)

	out, err := execute(t, "generate", "--dry-run", "--lessons", "--root", root, "--db", config.JournalOff)
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join("output", "lesson-01-练习.pdf"))
	assert.Contains(t, out, filepath.Join("output", "lesson-01-答案.pdf"))
	assert.NoDirExists(t, filepath.Join(root, "output"))
}
