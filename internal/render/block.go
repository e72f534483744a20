// Package render turns single bank items into markdown line blocks for the
// practice sheet and the answer sheet.
package render

import (
	"fmt"
	"strings"

	"github.com/abhisek/lessonpress/internal/bank"
)

// EscapeInline escapes the characters pandoc markdown treats specially in
// item ids. Prompts and answers are never escaped: authors may use markup.
func EscapeInline(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

// Normalize collapses CRLF line endings and trims surrounding whitespace.
func Normalize(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\r\n", "\n"))
}

// Heading returns the numbered prompt line shared by both sheets. Prompt
// line breaks become paragraph breaks.
func Heading(item bank.Item, index int) string {
	prompt := strings.ReplaceAll(Normalize(item.Prompt), "\n", "\n\n")
	return fmt.Sprintf("%d. （%s）%s", index, EscapeInline(item.ID), prompt)
}

// PracticeBlock renders item for the practice sheet: the prompt, a blank
// line, the type's workspace and a trailing blank line.
func PracticeBlock(item bank.Item, index int) []string {
	ws := Workspace(item.Type)
	lines := make([]string, 0, len(ws)+3)
	lines = append(lines, Heading(item, index), "")
	lines = append(lines, ws...)
	lines = append(lines, "")
	return lines
}

// AnswerBlock renders item for the answer sheet. The analysis heading is
// emitted only when the item has solution steps.
func AnswerBlock(item bank.Item, index int) []string {
	lines := []string{
		Heading(item, index),
		"",
		"   **答案：** " + Normalize(item.Answer),
	}
	if len(item.Solution) > 0 {
		lines = append(lines, "", "   **解析：**")
		for _, step := range item.Solution {
			lines = append(lines, "   - "+Normalize(step))
		}
	}
	lines = append(lines, "")
	return lines
}
