package action

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"sayso-interpreter/internal/model"
	"sayso-interpreter/internal/service/datetime"
	"sayso-interpreter/internal/service/extract"
)

var now = time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC)

var addTodo = &model.Intent{
	Name: "add_todo",
	Fields: []model.FieldRule{
		{Field: "title", Kind: model.RuleLeading},
		{Field: "due", Kind: model.RuleDate, Labels: []string{"due"}},
	},
	Required: []string{"title"},
	Defaults: map[string]model.Value{
		"priority": model.String("medium"),
		"status":   model.String("pending"),
	},
	Usage: "todo: <title>, due: <date>",
}

var addExpense = &model.Intent{
	Name: "add_expense",
	Fields: []model.FieldRule{
		{Field: "amount", Kind: model.RuleNumeric, Labels: []string{"amount"}, Number: model.NumberInt},
		{Field: "date", Kind: model.RuleDate, Labels: []string{"date"}},
	},
	Required: []string{"amount"},
	Defaults: map[string]model.Value{"date": model.String("today"), "category": model.String("other")},
}

func TestBuildAppliesDefaults(t *testing.T) {
	b := NewBuilder(datetime.NewResolver(datetime.DefaultTime))
	got := b.Build(addTodo, extract.Extraction{Fields: map[string]model.Value{
		"title":    model.String("buy milk"),
		"priority": model.String("high"),
	}}, now)

	expected := model.ParseResult{
		Action: &model.Action{Intent: "add_todo", Fields: map[string]model.Value{
			"title":    model.String("buy milk"),
			"priority": model.String("high"),
			"status":   model.String("pending"),
		}},
		Errors: []*model.ParseError{},
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("Build() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildMissingRequired(t *testing.T) {
	b := NewBuilder(nil)
	got := b.Build(addTodo, extract.Extraction{Fields: map[string]model.Value{}}, now)
	if got.Action != nil {
		t.Fatalf("Build() action = %+v, want nil", got.Action)
	}
	if len(got.Errors) != 1 || !errors.Is(got.Errors[0], model.ErrMissingRequiredField) || got.Errors[0].Field != "title" {
		t.Fatalf("Build() errors = %v, want MissingRequiredField(title)", got.Errors)
	}
	if msg := got.Errors[0].Message; msg != `missing required field "title"; usage: todo: <title>, due: <date>` {
		t.Errorf("message = %q", msg)
	}
}

func TestBuildKeepsSoftIssues(t *testing.T) {
	b := NewBuilder(nil)
	issue := model.NewUnresolvedDate("due", "someday")
	got := b.Build(addTodo, extract.Extraction{
		Fields: map[string]model.Value{"title": model.String("x")},
		Issues: []*model.ParseError{issue},
	}, now)
	if got.Action == nil {
		t.Fatal("Build() action is nil, want action with warning")
	}
	if diff := cmp.Diff([]model.ErrorCode{model.CodeUnresolvedDate}, got.Codes()); diff != "" {
		t.Errorf("codes mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildMissingRequiredKeepsIssues(t *testing.T) {
	b := NewBuilder(nil)
	got := b.Build(addExpense, extract.Extraction{
		Fields: map[string]model.Value{},
		Issues: []*model.ParseError{model.NewInvalidNumericValue("amount", "lots")},
	}, now)
	expected := []model.ErrorCode{model.CodeMissingRequiredField, model.CodeInvalidNumericValue}
	if got.Action != nil || !cmp.Equal(expected, got.Codes()) {
		t.Errorf("Build() = %+v, want codes %v and no action", got, expected)
	}
}

func TestBuildResolvesDateDefault(t *testing.T) {
	b := NewBuilder(nil)
	got := b.Build(addExpense, extract.Extraction{Fields: map[string]model.Value{"amount": model.Int(1200)}}, now)
	if got.Action == nil {
		t.Fatalf("Build() errors = %v", got.Errors)
	}
	expected := map[string]model.Value{
		"amount":   model.Int(1200),
		"date":     model.Date("2024-01-15", false),
		"category": model.String("other"),
	}
	if diff := cmp.Diff(expected, got.Action.Fields); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
}
