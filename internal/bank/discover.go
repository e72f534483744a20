package bank

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
)

// ErrEmptyBank is returned when no lesson records match the request.
var ErrEmptyBank = errors.New("no lesson records found")

var recordNameRE = regexp.MustCompile(`^lesson-(\d+)\.json$`)

// RecordName returns the canonical file name for lesson n, e.g. lesson-03.json.
func RecordName(n int) string {
	return fmt.Sprintf("lesson-%02d.json", n)
}

// Record is a lesson file found in the bank directory.
type Record struct {
	Path   string
	Number int // 0 when the file name carries no number
}

// Discover lists lesson-*.json records in dir sorted by lesson number.
// When only is positive, just the record named RecordName(only) is kept.
func Discover(dir string, only int) ([]Record, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "lesson-*.json"))
	if err != nil {
		return nil, fmt.Errorf("glob lesson records: %w", err)
	}

	var records []Record
	for _, m := range matches {
		name := filepath.Base(m)
		if only > 0 && name != RecordName(only) {
			continue
		}
		r := Record{Path: m}
		if sm := recordNameRE.FindStringSubmatch(name); sm != nil {
			r.Number, _ = strconv.Atoi(sm[1])
		}
		records = append(records, r)
	}

	if len(records) == 0 {
		if only > 0 {
			return nil, fmt.Errorf("%w: %s", ErrEmptyBank, filepath.Join(dir, RecordName(only)))
		}
		return nil, fmt.Errorf("%w in %s", ErrEmptyBank, dir)
	}

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Number != records[j].Number {
			return records[i].Number < records[j].Number
		}
		return records[i].Path < records[j].Path
	})
	return records, nil
}

// LoadAll discovers and loads records from dir. A record whose lesson number
// disagrees with its file name, or two records claiming the same lesson,
// fail with ErrMalformedRecord.
func LoadAll(dir string, only int) ([]Lesson, error) {
	records, err := Discover(dir, only)
	if err != nil {
		return nil, err
	}

	seen := make(map[int]string, len(records))
	lessons := make([]Lesson, 0, len(records))
	for _, r := range records {
		l, err := Load(r.Path)
		if err != nil {
			return nil, err
		}
		if r.Number != 0 && r.Number != l.Number {
			return nil, &RecordError{
				Path: r.Path,
				Err:  fmt.Errorf("file name says lesson %d but record says %d", r.Number, l.Number),
			}
		}
		if prev, ok := seen[l.Number]; ok {
			return nil, &RecordError{
				Path: r.Path,
				Err:  fmt.Errorf("lesson %d already defined by %s", l.Number, prev),
			}
		}
		seen[l.Number] = r.Path
		lessons = append(lessons, l)
	}

	sort.SliceStable(lessons, func(i, j int) bool { return lessons[i].Number < lessons[j].Number })
	return lessons, nil
}

