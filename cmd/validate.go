package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/abhisek/lessonpress/internal/bank"
	"github.com/abhisek/lessonpress/internal/ui/theme"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the question bank without rendering anything",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		only, _ := cmd.Flags().GetInt("lesson")

		lessons, err := bank.LoadAll(cfg.Layout().BankDir, only)
		if err != nil {
			return err
		}

		reports := make([]bank.Report, 0, len(lessons))
		for _, l := range lessons {
			reports = append(reports, bank.Inspect(l))
		}
		printValidation(cmd.OutOrStdout(), reports)
		return nil
	},
}

func init() {
	validateCmd.Flags().Int("lesson", 0, "Only check this lesson number")
}

func printValidation(w io.Writer, reports []bank.Report) {
	fmt.Fprintf(w, "%-8s  %-8s  %-6s  %s\n", "Lesson", "Sections", "Items", "Issues")
	fmt.Fprintln(w, theme.Rule(60))

	clean := 0
	for _, r := range reports {
		var issues []string
		if len(r.DuplicateIDs) > 0 {
			issues = append(issues, "duplicate ids: "+strings.Join(r.DuplicateIDs, ", "))
		}
		if len(r.MissingAnswers) > 0 {
			issues = append(issues, "missing answer: "+strings.Join(r.MissingAnswers, ", "))
		}
		if len(r.UnknownTypes) > 0 {
			issues = append(issues, "unknown type: "+strings.Join(r.UnknownTypes, ", "))
		}

		mark := theme.Mark(true)
		if r.Clean() {
			clean++
		} else {
			mark = theme.Warn.Render("!")
		}
		fmt.Fprintf(w, "%s %-6d  %-8d  %-6d  %s\n", mark, r.Lesson, r.Sections, r.Items, strings.Join(issues, "; "))
	}
	fmt.Fprintf(w, "\n%d/%d lessons clean\n", clean, len(reports))
}
