// Package config resolves lessonpress settings from defaults, an optional
// lessonpress.yaml in the project root, and LESSONPRESS_* environment
// variables. Command-line flags are applied last by the cmd package.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/lessonpress/internal/artifact"
	"github.com/abhisek/lessonpress/internal/toolchain"
)

// FileName is the optional project config file looked up in the root.
const FileName = "lessonpress.yaml"

// JournalOff disables the build journal when used as the journal path.
const JournalOff = "off"

// RenderConfig holds the layout parameters handed to pandoc.
type RenderConfig struct {
	Engine       string `yaml:"engine"`
	Header       string `yaml:"header"` // LaTeX header include; skipped when the file is absent
	PaperSize    string `yaml:"paper_size"`
	Margin       string `yaml:"margin"`
	FontSize     string `yaml:"font_size"`
	MainFont     string `yaml:"main_font"`
	CJKFont      string `yaml:"cjk_font"` // defaults to MainFont
	MonoFont     string `yaml:"mono_font"`
	LinksAsNotes bool   `yaml:"links_as_notes"`

	// MinPandocVersion, when set, is the oldest pandoc accepted, e.g. "v2.11".
	MinPandocVersion string `yaml:"min_pandoc_version"`
}

// Config holds all lessonpress configuration. Relative directories are
// resolved against Root.
type Config struct {
	Root      string `yaml:"-"`
	BankDir   string `yaml:"bank_dir"`
	DocsDir   string `yaml:"docs_dir"`
	PlansDir  string `yaml:"plans_dir"`
	OutputDir string `yaml:"output_dir"`
	MarkupDir string `yaml:"markup_dir"`

	Render RenderConfig `yaml:"render"`

	// MergeTools is the preference order for PDF concatenation.
	MergeTools []string `yaml:"merge_tools"`

	LogMode  string `yaml:"log_mode"`
	LogLevel string `yaml:"log_level"`

	// Journal is the SQLite build journal path. Empty selects the default
	// location, JournalOff disables it.
	Journal string `yaml:"journal"`
}

// KnownMergeTools lists the concatenation tools lessonpress can drive.
var KnownMergeTools = []string{"mutool", "gs", "pdfunite"}

// DefaultConfig returns a Config with the conventional project layout.
func DefaultConfig() Config {
	return Config{
		Root:      ".",
		BankDir:   filepath.Join("data", "题库"),
		DocsDir:   "docs",
		PlansDir:  filepath.Join("docs", "教案"),
		OutputDir: "output",
		MarkupDir: filepath.Join("output", "_md"),
		Render: RenderConfig{
			Engine:       "xelatex",
			Header:       filepath.Join("tools", "pandoc_header.tex"),
			PaperSize:    "a4",
			Margin:       "2cm",
			FontSize:     "12pt",
			MainFont:     "PingFang SC",
			MonoFont:     "Menlo",
			LinksAsNotes: true,
		},
		MergeTools: append([]string(nil), KnownMergeTools...),
		LogMode:    "dev",
		LogLevel:   "info",
	}
}

// Load builds a Config for the project at root: defaults, then
// root/lessonpress.yaml if present, then the environment.
func Load(root string) (Config, error) {
	return LoadFile(root, filepath.Join(root, FileName), false)
}

// LoadFile is Load with an explicit config file. When required is false a
// missing file is ignored.
func LoadFile(root, path string, required bool) (Config, error) {
	cfg := DefaultConfig()
	cfg.Root = root

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !required:
	default:
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&c.BankDir, "LESSONPRESS_BANK_DIR")
	set(&c.DocsDir, "LESSONPRESS_DOCS_DIR")
	set(&c.PlansDir, "LESSONPRESS_PLANS_DIR")
	set(&c.OutputDir, "LESSONPRESS_OUTPUT_DIR")
	set(&c.MarkupDir, "LESSONPRESS_MARKUP_DIR")
	set(&c.Render.MainFont, "LESSONPRESS_FONT")
	set(&c.Render.MonoFont, "LESSONPRESS_MONO_FONT")
	set(&c.LogMode, "LESSONPRESS_LOG_MODE")
	set(&c.LogLevel, "LESSONPRESS_LOG_LEVEL")
	set(&c.Journal, "LESSONPRESS_DB")

	if v := strings.TrimSpace(os.Getenv("LESSONPRESS_MERGE_TOOLS")); v != "" {
		var tools []string
		for _, t := range strings.Split(v, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tools = append(tools, t)
			}
		}
		c.MergeTools = tools
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	dirs := []struct{ key, val string }{
		{"bank_dir", c.BankDir},
		{"docs_dir", c.DocsDir},
		{"plans_dir", c.PlansDir},
		{"output_dir", c.OutputDir},
		{"markup_dir", c.MarkupDir},
	}
	for _, d := range dirs {
		if strings.TrimSpace(d.val) == "" {
			return fmt.Errorf("%s must not be empty", d.key)
		}
	}

	if len(c.MergeTools) == 0 {
		return fmt.Errorf("merge_tools must list at least one tool")
	}
	for _, t := range c.MergeTools {
		if !isKnownMergeTool(t) {
			return fmt.Errorf("unknown merge tool %q (supported: %s)", t, strings.Join(KnownMergeTools, ", "))
		}
	}

	if c.Render.Engine == "" {
		return fmt.Errorf("render.engine must not be empty")
	}
	if c.Render.MainFont == "" {
		return fmt.Errorf("render.main_font must not be empty")
	}
	if v := c.Render.MinPandocVersion; v != "" && !semver.IsValid(toolchain.CanonicalVersion(v)) {
		return fmt.Errorf("render.min_pandoc_version %q is not a valid version", v)
	}
	return nil
}

func isKnownMergeTool(name string) bool {
	for _, k := range KnownMergeTools {
		if k == name {
			return true
		}
	}
	return false
}

// Layout resolves the project directories against Root.
func (c Config) Layout() artifact.Layout {
	return artifact.Layout{
		BankDir:   c.abs(c.BankDir),
		DocsDir:   c.abs(c.DocsDir),
		PlansDir:  c.abs(c.PlansDir),
		OutputDir: c.abs(c.OutputDir),
		MarkupDir: c.abs(c.MarkupDir),
	}
}

// HeaderPath returns the resolved LaTeX header path, or "" when unset.
func (c Config) HeaderPath() string {
	if c.Render.Header == "" {
		return ""
	}
	return c.abs(c.Render.Header)
}

// CJKFont returns the CJK font, falling back to the main font.
func (c Config) CJKFont() string {
	if c.Render.CJKFont != "" {
		return c.Render.CJKFont
	}
	return c.Render.MainFont
}

func (c Config) abs(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, p)
}

// DefaultJournalPath resolves the journal location:
// $XDG_DATA_HOME/lessonpress/journal.db, else ~/.local/share/lessonpress/journal.db.
func DefaultJournalPath() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "lessonpress", "journal.db"), nil
}

// JournalPath returns the journal path to open, or "" when disabled.
func (c Config) JournalPath() (string, error) {
	switch c.Journal {
	case JournalOff:
		return "", nil
	case "":
		return DefaultJournalPath()
	default:
		return c.abs(c.Journal), nil
	}
}
