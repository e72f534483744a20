package bank

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// ErrMalformedRecord is matched by every loader failure caused by the
// record itself (bad JSON, missing required fields, wrong shapes).
var ErrMalformedRecord = errors.New("malformed lesson record")

// RecordError describes why a lesson record could not be loaded.
type RecordError struct {
	Path string // empty when parsing from memory
	Err  error
}

func (e *RecordError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("malformed lesson record: %v", e.Err)
	}
	return fmt.Sprintf("malformed lesson record %s: %v", e.Path, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrMalformedRecord) hold for every RecordError.
func (e *RecordError) Is(target error) bool { return target == ErrMalformedRecord }

// Load reads and parses the lesson record at path.
func Load(path string) (Lesson, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Lesson{}, fmt.Errorf("read lesson record: %w", err)
	}
	lesson, err := Parse(data)
	if err != nil {
		var re *RecordError
		if errors.As(err, &re) {
			re.Path = path
		}
		return Lesson{}, err
	}
	return lesson, nil
}

// Parse builds a Lesson from a JSON record. Only lesson, title and sections
// are required; absent item fields default to empty strings.
func Parse(data []byte) (Lesson, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return Lesson{}, &RecordError{Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	schema, err := compiledSchema()
	if err != nil {
		return Lesson{}, fmt.Errorf("compile lesson schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return Lesson{}, &RecordError{Err: fmt.Errorf("schema validation failed: %w", err)}
	}

	// Validation guarantees an object with the required keys.
	rec := doc.(map[string]any)

	number, err := lessonNumber(rec["lesson"])
	if err != nil {
		return Lesson{}, &RecordError{Err: err}
	}

	lesson := Lesson{
		Number:       number,
		Title:        text(rec["title"]),
		NumberSystem: text(rec["number_system"]),
	}

	rawSections, _ := rec["sections"].([]any)
	lesson.Sections = make([]Section, 0, len(rawSections))
	for _, rs := range rawSections {
		sec, _ := rs.(map[string]any)
		lesson.Sections = append(lesson.Sections, parseSection(sec))
	}
	return lesson, nil
}

func parseSection(sec map[string]any) Section {
	s := Section{Name: text(sec["name"])}
	rawItems, _ := sec["items"].([]any)
	s.Items = make([]Item, 0, len(rawItems))
	for _, ri := range rawItems {
		item, _ := ri.(map[string]any)
		s.Items = append(s.Items, parseItem(item))
	}
	return s
}

func parseItem(item map[string]any) Item {
	it := Item{
		ID:     text(item["id"]),
		Type:   ParseItemType(text(item["type"])),
		Prompt: text(item["prompt"]),
		Answer: text(item["answer"]),
	}
	// A non-list solution is treated as absent.
	if steps, ok := item["solution"].([]any); ok {
		it.Solution = make([]string, 0, len(steps))
		for _, st := range steps {
			it.Solution = append(it.Solution, text(st))
		}
	}
	return it
}

func lessonNumber(v any) (int, error) {
	var n int
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			n = int(i)
			break
		}
		f, err := t.Float64()
		if err != nil || f != math.Trunc(f) {
			return 0, fmt.Errorf("lesson %q is not an integer", t.String())
		}
		n = int(f)
	case string:
		i, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(t), "+"))
		if err != nil {
			return 0, fmt.Errorf("lesson %q is not an integer", t)
		}
		n = i
	default:
		return 0, fmt.Errorf("lesson has unsupported type %T", v)
	}
	if n < 1 {
		return 0, fmt.Errorf("lesson must be positive, got %d", n)
	}
	return n, nil
}

// text renders a decoded JSON value as display text. Absent and null values
// become the empty string.
func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}
