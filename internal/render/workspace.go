package render

import "github.com/abhisek/lessonpress/internal/bank"

const blank = "______________________________"

var (
	answerOnly = []string{
		"   答：" + blank,
	}

	// Solving always ends with a substitution check.
	stepsWithCheck = []string{
		"   步骤：" + blank,
		"        " + blank,
		"        " + blank,
		"   检验：" + blank,
	}

	wideSteps = []string{
		"   步骤：" + blank,
		"        " + blank,
		"        " + blank,
		"        " + blank,
		"        " + blank,
		"   检验/说明：__________________________",
	}

	explanation = []string{
		"   说明：" + blank,
		"        " + blank,
	}
)

var workspaces = map[bank.ItemType][]string{
	bank.TypeFillBlank:  answerOnly,
	bank.TypeSolve:      stepsWithCheck,
	bank.TypeQuadratic:  stepsWithCheck,
	bank.TypeWord:       wideSteps,
	bank.TypeSystem:     wideSteps,
	bank.TypeTable:      wideSteps,
	bank.TypePlot:       wideSteps,
	bank.TypeGraphTask:  wideSteps,
	bank.TypeOpen:       wideSteps,
	bank.TypeCreate:     wideSteps,
	bank.TypeListPairs:  wideSteps,
	bank.TypeNoSolution: wideSteps,
}

// Workspace returns the handwriting area printed after a practice prompt.
// Any type outside the table, including the empty type, gets the
// explanation area. The returned slice must not be modified.
func Workspace(t bank.ItemType) []string {
	if ws, ok := workspaces[t]; ok {
		return ws
	}
	return explanation
}
