package bank

import "strings"

// Report summarizes content issues in a lesson that do not block
// generation. Duplicate ids are tolerated: both items are rendered.
type Report struct {
	Lesson         int
	Sections       int
	Items          int
	DuplicateIDs   []string
	MissingAnswers []string
	UnknownTypes   []string // "id: type" pairs
}

// Clean reports whether the lesson has no content issues.
func (r Report) Clean() bool {
	return len(r.DuplicateIDs) == 0 && len(r.MissingAnswers) == 0 && len(r.UnknownTypes) == 0
}

// Inspect builds a Report for l.
func Inspect(l Lesson) Report {
	r := Report{Lesson: l.Number, Sections: len(l.Sections), Items: l.ItemCount()}

	counts := make(map[string]int)
	for _, it := range l.Items() {
		counts[it.ID]++
		if counts[it.ID] == 2 {
			r.DuplicateIDs = append(r.DuplicateIDs, it.ID)
		}
		if strings.TrimSpace(it.Answer) == "" {
			r.MissingAnswers = append(r.MissingAnswers, it.ID)
		}
		if it.Type != "" && !it.Type.Known() {
			r.UnknownTypes = append(r.UnknownTypes, it.ID+": "+string(it.Type))
		}
	}
	return r
}
