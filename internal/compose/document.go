// Package compose assembles per-lesson practice and answer documents and the
// packet cover pages as pandoc markdown.
package compose

import (
	"fmt"
	"strings"

	"github.com/abhisek/lessonpress/internal/artifact"
	"github.com/abhisek/lessonpress/internal/bank"
	"github.com/abhisek/lessonpress/internal/render"
)

const practiceBanner = "**提示：** 每道题尽量写出“对两边做了什么”。把“代回检验”当作通关/开锁环节：检验通过才算完成 ✓"

// PracticeDocument renders the blank-workspace sheet for l.
func PracticeDocument(l bank.Lesson) string {
	lines := header(fmt.Sprintf("# 第 %s 课 练习题：%s", artifact.Tag(l.Number), l.Title), l)
	lines = append(lines, practiceBanner, "")
	lines = appendItems(lines, l, render.PracticeBlock)
	return finish(lines)
}

// AnswerDocument renders the answer and analysis sheet for l. It numbers
// items exactly like PracticeDocument.
func AnswerDocument(l bank.Lesson) string {
	lines := header(fmt.Sprintf("# 第 %s 课 答案与解析：%s", artifact.Tag(l.Number), l.Title), l)
	lines = appendItems(lines, l, render.AnswerBlock)
	return finish(lines)
}

func header(title string, l bank.Lesson) []string {
	lines := []string{title}
	if l.NumberSystem != "" {
		lines = append(lines, "> 约束："+l.NumberSystem)
	}
	return append(lines, "")
}

// appendItems walks every section with one question counter for the
// whole lesson.
func appendItems(lines []string, l bank.Lesson, block func(bank.Item, int) []string) []string {
	index := 1
	for _, sec := range l.Sections {
		lines = append(lines, strings.TrimSpace("## "+sec.Name), "")
		for _, item := range sec.Items {
			lines = append(lines, block(item, index)...)
			index++
		}
	}
	return lines
}

func finish(lines []string) string {
	return strings.TrimRight(strings.Join(lines, "\n"), " \t\r\n") + "\n"
}
