package toolchain

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/abhisek/lessonpress/internal/logger"
)

// RenderOptions are the fixed layout parameters passed to every conversion.
type RenderOptions struct {
	Engine       string // PDF engine, e.g. xelatex
	Header       string // optional LaTeX header include
	PaperSize    string
	Margin       string
	FontSize     string
	MainFont     string
	CJKFont      string
	MonoFont     string
	LinksAsNotes bool

	// MinVersion, when set, rejects older pandoc releases at probe time.
	MinVersion string
}

// Pandoc converts markdown to PDF by shelling out to pandoc.
type Pandoc struct {
	Bin      string
	Dir      string // working directory for pandoc
	Opts     RenderOptions
	Run      Runner
	LookPath LookPathFunc
	log      *logger.Logger
}

// NewPandoc returns a Pandoc converter running in dir.
func NewPandoc(dir string, opts RenderOptions, log *logger.Logger) *Pandoc {
	return &Pandoc{
		Bin:      "pandoc",
		Dir:      dir,
		Opts:     opts,
		Run:      ExecRunner,
		LookPath: exec.LookPath,
		log:      log.With("tool", "pandoc"),
	}
}

// Probe checks that pandoc and the PDF engine are installed, and that
// pandoc is new enough when a minimum version is configured.
func (p *Pandoc) Probe(ctx context.Context) error {
	for _, bin := range []string{p.Bin, p.Opts.Engine} {
		if _, err := p.LookPath(bin); err != nil {
			return fmt.Errorf("%w: %s not found in PATH", ErrMissingRenderTool, bin)
		}
	}
	if p.Opts.MinVersion == "" {
		return nil
	}

	out, err := p.Run(ctx, p.Dir, p.Bin, "--version")
	if err != nil {
		return &ToolFailureError{Command: []string{p.Bin, "--version"}, Output: string(out), Err: err}
	}
	have := parsePandocVersion(string(out))
	want := CanonicalVersion(p.Opts.MinVersion)
	if have == "" {
		p.log.Warn("could not parse pandoc version", "output", firstLine(string(out)))
		return nil
	}
	if semver.Compare(have, want) < 0 {
		return fmt.Errorf("%w: pandoc %s is older than required %s", ErrMissingRenderTool, have, want)
	}
	p.log.Debug("pandoc version ok", "version", have, "min", want)
	return nil
}

// Args returns the pandoc command line for converting src into dst.
func (p *Pandoc) Args(src, dst string) []string {
	args := []string{src, "-o", dst, "--pdf-engine=" + p.Opts.Engine}
	if p.Opts.Header != "" {
		if _, err := os.Stat(p.Opts.Header); err == nil {
			args = append(args, "-H", p.Opts.Header)
		}
	}
	cjk := p.Opts.CJKFont
	if cjk == "" {
		cjk = p.Opts.MainFont
	}
	vars := []string{
		"papersize=" + p.Opts.PaperSize,
		"geometry:margin=" + p.Opts.Margin,
		"fontsize=" + p.Opts.FontSize,
		"mainfont=" + p.Opts.MainFont,
		"CJKmainfont=" + cjk,
		"monofont=" + p.Opts.MonoFont,
	}
	if p.Opts.LinksAsNotes {
		vars = append(vars, "links-as-notes=true")
	}
	for _, v := range vars {
		args = append(args, "-V", v)
	}
	return args
}

// Convert renders src into dst, creating dst's directory first.
func (p *Pandoc) Convert(ctx context.Context, src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	args := p.Args(src, dst)
	p.log.Debug("converting", "src", src, "dst", dst, "args", args)
	return run(ctx, p.Run, p.Dir, p.Bin, args...)
}

var pandocVersionRE = regexp.MustCompile(`(?m)^pandoc(?:\.exe)?\s+(\d+(?:\.\d+){0,2})`)

// parsePandocVersion extracts a semver string such as "v3.1.11" from
// `pandoc --version` output. Four-part releases are truncated.
func parsePandocVersion(out string) string {
	m := pandocVersionRE.FindStringSubmatch(out)
	if m == nil {
		return ""
	}
	v := "v" + m[1]
	if !semver.IsValid(v) {
		return ""
	}
	return v
}

// CanonicalVersion adds the "v" prefix semver expects. Empty stays empty.
func CanonicalVersion(v string) string {
	v = strings.TrimSpace(v)
	if v != "" && !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
