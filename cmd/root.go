package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/abhisek/lessonpress/internal/config"
	"github.com/abhisek/lessonpress/internal/logger"
	"github.com/abhisek/lessonpress/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lessonpress",
	Short: "Build printable lesson packets from a question bank",
	Long: "lessonpress turns per-lesson question records into practice and answer sheets, " +
		"renders them to PDF with pandoc, and merges teacher and student packets.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("root", ".", "Project root containing data/ and docs/")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default <root>/"+config.FileName+")")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite build journal, or \"off\" (overrides LESSONPRESS_DB env var)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves configuration with flags applied last:
// defaults < config file < LESSONPRESS_* env < flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	root, _ := cmd.Flags().GetString("root")
	root, err := filepath.Abs(root)
	if err != nil {
		return config.Config{}, fmt.Errorf("resolve project root: %w", err)
	}

	var cfg config.Config
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		cfg, err = config.LoadFile(root, path, true)
	} else {
		cfg, err = config.Load(root)
	}
	if err != nil {
		return config.Config{}, err
	}

	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.Journal = p
	}
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

func newLogger(cfg config.Config) (*logger.Logger, error) {
	log, err := logger.New(cfg.LogMode, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return log, nil
}

// openJournal opens the build journal. It returns nil when the journal is
// disabled or cannot be opened; a broken journal never blocks a build.
func openJournal(cfg config.Config, log *logger.Logger) *store.Store {
	path, err := cfg.JournalPath()
	if err != nil {
		log.Warn("build journal disabled", "error", err)
		return nil
	}
	if path == "" {
		return nil
	}
	s, err := store.OpenFile(path)
	if err != nil {
		log.Warn("build journal disabled", "path", path, "error", err)
		return nil
	}
	return s
}
