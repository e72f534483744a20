package bank

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRecord = `{
  "lesson": 3,
  "title": "移项",
  "number_system": "正整数 + 0",
  "sections": [
    {
      "name": "热身",
      "items": [
        {"id": "L03-01", "type": "fill_blank", "prompt": "x + 2 = 5，x = ?", "answer": "3"},
        {"id": "L03-02", "type": "solve", "prompt": "2x = 8", "answer": "x = 4", "solution": ["两边除以 2", "x = 4"]}
      ]
    },
    {
      "name": "挑战",
      "items": [
        {"id": "L03-03", "prompt": "说说为什么"}
      ]
    }
  ]
}`

func TestParse_ValidRecord(t *testing.T) {
	l, err := Parse([]byte(sampleRecord))
	require.NoError(t, err)

	assert.Equal(t, 3, l.Number)
	assert.Equal(t, "移项", l.Title)
	assert.Equal(t, "正整数 + 0", l.NumberSystem)
	require.Len(t, l.Sections, 2)
	assert.Equal(t, "热身", l.Sections[0].Name)
	assert.Equal(t, 3, l.ItemCount())

	solve := l.Sections[0].Items[1]
	assert.Equal(t, TypeSolve, solve.Type)
	assert.Equal(t, []string{"两边除以 2", "x = 4"}, solve.Solution)
}

func TestParse_DefaultsMissingItemFields(t *testing.T) {
	l, err := Parse([]byte(sampleRecord))
	require.NoError(t, err)

	it := l.Sections[1].Items[0]
	assert.Equal(t, "L03-03", it.ID)
	assert.Equal(t, ItemType(""), it.Type)
	assert.Equal(t, "", it.Answer)
	assert.Nil(t, it.Solution)
}

func TestParse_Coercion(t *testing.T) {
	l, err := Parse([]byte(`{"lesson": "07", "title": 12, "sections": []}`))
	require.NoError(t, err)
	assert.Equal(t, 7, l.Number)
	assert.Equal(t, "12", l.Title)
	assert.Equal(t, "", l.NumberSystem)
	assert.Empty(t, l.Sections)

	l, err = Parse([]byte(`{"lesson": 2, "title": "t", "sections": [{"items": [{"id": 5, "answer": 10, "solution": "not a list"}]}]}`))
	require.NoError(t, err)
	it := l.Sections[0].Items[0]
	assert.Equal(t, "5", it.ID)
	assert.Equal(t, "10", it.Answer)
	assert.Nil(t, it.Solution)
}

func TestParse_TextFieldsCoerceAlike(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"string", `"正整数"`, "正整数"},
		{"number", `3`, "3"},
		{"boolean", `true`, "true"},
		{"null", `null`, ""},
		{"object", `{"a": 1}`, `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := fmt.Sprintf(`{"lesson": 1, "title": %s, "number_system": %s, "sections": []}`, tt.value, tt.value)
			l, err := Parse([]byte(rec))
			require.NoError(t, err)
			assert.Equal(t, tt.want, l.Title)
			assert.Equal(t, tt.want, l.NumberSystem)
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", `{"lesson": 1,`},
		{"not an object", `[1, 2, 3]`},
		{"missing lesson", `{"title": "t", "sections": []}`},
		{"missing title", `{"lesson": 1, "sections": []}`},
		{"missing sections", `{"lesson": 1, "title": "t"}`},
		{"sections not a list", `{"lesson": 1, "title": "t", "sections": {}}`},
		{"lesson not numeric", `{"lesson": "one", "title": "t", "sections": []}`},
		{"lesson zero", `{"lesson": 0, "title": "t", "sections": []}`},
		{"lesson fractional", `{"lesson": 1.5, "title": "t", "sections": []}`},
		{"items not a list", `{"lesson": 1, "title": "t", "sections": [{"items": "x"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedRecord), "got %v", err)
		})
	}
}

func TestLoad_SetsPathOnError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lesson-01.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"lesson": 1}`), 0o644))

	_, err := Load(path)
	var re *RecordError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, path, re.Path)
	assert.Contains(t, err.Error(), path)
}

func TestItemType_Known(t *testing.T) {
	assert.True(t, TypeChoose.Known())
	assert.True(t, ParseItemType("  solve ").Known())
	assert.False(t, ItemType("essay").Known())
	assert.False(t, ItemType("").Known())
}
