package formatter

import (
	"testing"

	"sayso-interpreter/internal/model"
)

func TestFormatRecordAlignsWideLabels(t *testing.T) {
	f := New(map[string]string{"amount": "金額", "category": "カテゴリ"})
	got := f.FormatRecord("expense", map[string]model.Value{
		"amount":   model.Int(1200),
		"category": model.String("food"),
		"item":     model.String("lunch"),
	}, []string{"item", "amount"})

	expected := "expense\n" +
		"item     : lunch\n" +
		"金額     : 1200\n" +
		"カテゴリ : food"
	if got != expected {
		t.Errorf("FormatRecord() =\n%s\nwant\n%s", got, expected)
	}
}

func TestFormatResult(t *testing.T) {
	f := New(nil)
	in := &model.Intent{Name: "add_todo", Fields: []model.FieldRule{{Field: "title", Kind: model.RuleLeading}}}

	tests := []struct {
		name     string
		res      model.ParseResult
		expected string
	}{
		{
			name:     "failure",
			res:      model.ParseResult{Errors: []*model.ParseError{model.NewMissingRequiredField("title", "todo: <title>")}},
			expected: "⚠️ could not run the command\n- missing required field \"title\"; usage: todo: <title>",
		},
		{
			name: "success with note",
			res: model.ParseResult{
				Action: &model.Action{Intent: "add_todo", Fields: map[string]model.Value{
					"title":  model.String("buy milk"),
					"status": model.String("pending"),
				}},
				Errors: []*model.ParseError{model.NewUnresolvedDate("due", "someday")},
			},
			expected: "✅ add_todo\ntitle  : buy milk\nstatus : pending\n(note) field \"due\": could not understand date \"someday\", ignored",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.FormatResult(tt.res, in); got != tt.expected {
				t.Errorf("FormatResult() =\n%s\nwant\n%s", got, tt.expected)
			}
		})
	}
}

func TestFormatTable(t *testing.T) {
	f := New(nil)
	got := f.FormatTable([]string{"id", "title"}, [][]string{{"1", "牛乳"}, {"12", "buy eggs"}})
	expected := "id | title\n" +
		"---+---------\n" +
		"1  | 牛乳\n" +
		"12 | buy eggs"
	if got != expected {
		t.Errorf("FormatTable() =\n%s\nwant\n%s", got, expected)
	}
	if got := f.FormatTable([]string{"id"}, nil); got != "id\n--\n(empty)" {
		t.Errorf("FormatTable(empty) = %q", got)
	}
}

func TestFormatHelp(t *testing.T) {
	f := New(nil)
	got := f.FormatHelp([]model.Intent{
		{Name: "list_todos", Literals: []string{"list", "一覧"}, Usage: "list"},
		{Name: "search", Labels: []string{"search"}},
	})
	expected := "commands:\n- list  (list / 一覧)\n- search"
	if got != expected {
		t.Errorf("FormatHelp() = %q, want %q", got, expected)
	}
}
