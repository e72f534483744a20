package bank

import "strings"

// ItemType is the declared kind of an exercise item. It decides how much
// workspace a practice sheet leaves after the prompt.
type ItemType string

const (
	TypeFillBlank  ItemType = "fill_blank"
	TypeSolve      ItemType = "solve"
	TypeQuadratic  ItemType = "quadratic"
	TypeWord       ItemType = "word"
	TypeSystem     ItemType = "system"
	TypeTable      ItemType = "table"
	TypePlot       ItemType = "plot"
	TypeGraphTask  ItemType = "graph_task"
	TypeOpen       ItemType = "open"
	TypeCreate     ItemType = "create"
	TypeListPairs  ItemType = "list_pairs"
	TypeNoSolution ItemType = "no_solution"

	// Reasoning-style items. They share the default workspace.
	TypeReason    ItemType = "reason"
	TypeCheckStep ItemType = "check_step"
	TypeCompare   ItemType = "compare"
	TypeCheckPair ItemType = "check_pair"
	TypeMeaning   ItemType = "meaning"
	TypeJudge     ItemType = "judge"
	TypeChoose    ItemType = "choose"
)

var knownTypes = map[ItemType]bool{
	TypeFillBlank: true, TypeSolve: true, TypeQuadratic: true,
	TypeWord: true, TypeSystem: true, TypeTable: true, TypePlot: true,
	TypeGraphTask: true, TypeOpen: true, TypeCreate: true,
	TypeListPairs: true, TypeNoSolution: true,
	TypeReason: true, TypeCheckStep: true, TypeCompare: true,
	TypeCheckPair: true, TypeMeaning: true, TypeJudge: true, TypeChoose: true,
}

// ParseItemType trims the raw value. Unknown values are kept as-is so
// renderers can fall back to the default workspace.
func ParseItemType(s string) ItemType {
	return ItemType(strings.TrimSpace(s))
}

// Known reports whether t belongs to the closed set of item types.
func (t ItemType) Known() bool {
	return knownTypes[t]
}

// Item is a single exercise. Missing fields are loaded as empty strings.
type Item struct {
	ID       string
	Type     ItemType
	Prompt   string
	Answer   string
	Solution []string
}

// Section groups items under a printed heading.
type Section struct {
	Name  string
	Items []Item
}

// Lesson is one record of the lesson bank.
type Lesson struct {
	// Number identifies the lesson and drives zero-padded file naming.
	Number int

	Title string

	// NumberSystem describes the allowed domain of numbers, e.g. "正整数 + 0".
	// Display-only; empty when the record omits it.
	NumberSystem string

	Sections []Section
}

// ItemCount returns the total number of items across all sections.
func (l Lesson) ItemCount() int {
	n := 0
	for _, s := range l.Sections {
		n += len(s.Items)
	}
	return n
}

// Items returns every item in printed order.
func (l Lesson) Items() []Item {
	out := make([]Item, 0, l.ItemCount())
	for _, s := range l.Sections {
		out = append(out, s.Items...)
	}
	return out
}
