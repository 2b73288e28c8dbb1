package executor

import (
	"context"
	"errors"
	"testing"

	"sayso-interpreter/internal/model"
)

func TestExecute(t *testing.T) {
	e := NewExecutor()
	var got *model.Action
	e.Register("add_todo", HandlerFunc(func(ctx context.Context, act *model.Action, req *model.MessageRequest) (model.ActionSummary, error) {
		got = act
		return model.ActionSummary{Note: "saved for " + req.UserID}, nil
	}))

	act := &model.Action{Intent: "add_todo", Fields: map[string]model.Value{"title": model.String("buy milk")}}
	summary, err := e.Execute(context.Background(), act, &model.MessageRequest{UserID: "u1"})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got != act {
		t.Error("handler did not receive the action")
	}
	if summary.Intent != "add_todo" || summary.Note != "saved for u1" {
		t.Errorf("Execute() = %+v", summary)
	}
}

func TestExecuteErrors(t *testing.T) {
	boom := errors.New("boom")
	e := NewExecutor()
	e.Register("fail", HandlerFunc(func(context.Context, *model.Action, *model.MessageRequest) (model.ActionSummary, error) {
		return model.ActionSummary{}, boom
	}))

	tests := []struct {
		name string
		act  *model.Action
		want error
	}{
		{name: "not registered", act: &model.Action{Intent: "stats"}, want: model.ErrActionNotSupport},
		{name: "handler error", act: &model.Action{Intent: "fail"}, want: boom},
		{name: "nil action", act: nil, want: model.ErrInvalidRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := e.Execute(context.Background(), tt.act, nil); !errors.Is(err, tt.want) {
				t.Errorf("Execute() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRegistry(t *testing.T) {
	e := NewExecutor()
	noop := HandlerFunc(func(context.Context, *model.Action, *model.MessageRequest) (model.ActionSummary, error) {
		return model.ActionSummary{}, nil
	})
	e.Register("stats", noop)
	e.Register("help", noop)
	if !e.Has("help") || e.Has("list_todos") {
		t.Error("Has() mismatch")
	}
	if got := e.Intents(); len(got) != 2 || got[0] != "help" || got[1] != "stats" {
		t.Errorf("Intents() = %v", got)
	}
}
