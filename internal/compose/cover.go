package compose

import (
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/lessonpress/internal/artifact"
)

// ErrUnknownCoverKind is returned for an audience without a cover.
var ErrUnknownCoverKind = errors.New("unknown cover kind")

// CoverDocument renders the cover page of the given packet, stamped with date.
func CoverDocument(kind artifact.Audience, date time.Time) (string, error) {
	today := date.Format("2006-01-02")
	switch kind {
	case artifact.Teacher:
		return "# 教师材料（完整版）\n\n" +
			"## 三年级方程（10 次 × 30 分钟｜一对一）\n\n" +
			"- 生成日期：" + today + "\n" +
			"- 用途：老师备课 + 课堂参考（含大纲/教案/练习/答案）\n\n" +
			"### 内容清单\n\n" +
			"1. 教学大纲\n" +
			"2. 10 份教案（第 01–10 课）\n" +
			"3. 10 课练习题（可打印留白版）\n" +
			"4. 10 课答案与解析（含“开锁检验 ✓/✗”）\n\n" +
			"### 课堂口令（请反复用）\n\n" +
			"> 两边做同一件事，等号才不变。\n\n" +
			"### 提醒\n\n" +
			"- 主线：正整数 + 0\n" +
			"- 分数拓展：少量 1/2、1/4（第 9–10 课）\n" +
			"- 负数：全套仅 3 题，均标注“挑战可跳过”\n", nil

	case artifact.Student:
		return "# 学生材料（练习册）\n\n" +
			"## 三年级方程（10 次 × 30 分钟｜一对一）\n\n" +
			"- 生成日期：" + today + "\n" +
			"- 用途：学生练习与订正（不含答案）\n\n" +
			"### 做题规则（写在第一页就够）\n\n" +
			"1. 每一步都写清：**对两边做了什么**。\n" +
			"2. 做完必须“开锁检验”：把答案代回去，看左右是否一样 ✓。\n\n" +
			"### 提醒\n\n" +
			"- 主线：正整数 + 0\n" +
			"- 分数拓展：少量 1/2、1/4（最后两课）\n" +
			"- 挑战题（负数）可以跳过\n", nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCoverKind, kind)
}
