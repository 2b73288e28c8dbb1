package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sayso-interpreter/internal/model"
	"sayso-interpreter/internal/service/executor"
	"sayso-interpreter/internal/service/formatter"
)

func newTestService(t *testing.T, exec *executor.Executor) *MessageService {
	t.Helper()
	return NewMessageService(newTestInterpreter(t), exec, formatter.New(nil), zap.NewNop(),
		WithLocation(time.UTC),
		WithClock(func() time.Time { return monday }),
	)
}

func TestMessageServiceParse(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := WithRequestID(context.Background(), "req-1")

	resp, err := svc.Parse(ctx, model.MessageRequest{Text: "expense: lunch, amount: 1,200"})
	require.NoError(t, err)
	assert.Equal(t, "req-1", resp.RequestID)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Action)
	assert.Equal(t, "add_expense", resp.Action.Intent)
	assert.Equal(t, model.Date("2024-01-15", false), resp.Action.Fields["date"])
	assert.Contains(t, resp.Reply, "✅ add_expense")
	assert.Empty(t, resp.Errors)
}

func TestMessageServiceParseFailure(t *testing.T) {
	svc := newTestService(t, nil)

	resp, err := svc.Parse(context.Background(), model.MessageRequest{Text: "asdf123"})
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Nil(t, resp.Action)
	assert.NotEmpty(t, resp.RequestID)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, model.CodeNoMatch, resp.Errors[0].Code)
	assert.Contains(t, resp.Reply, "could not run the command")
}

func TestMessageServiceReferenceTime(t *testing.T) {
	svc := newTestService(t, nil)

	got, err := svc.ReferenceTime("")
	require.NoError(t, err)
	assert.True(t, got.Equal(monday))

	got, err = svc.ReferenceTime("2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), got)

	got, err = svc.ReferenceTime("2024-03-01T09:30:00+09:00")
	require.NoError(t, err)
	assert.Equal(t, 9, got.Hour())

	_, err = svc.ReferenceTime("yesterday")
	assert.ErrorIs(t, err, model.ErrInvalidRequest)

	_, err = svc.Parse(context.Background(), model.MessageRequest{Text: "todo: x", Now: "yesterday"})
	assert.ErrorIs(t, err, model.ErrInvalidRequest)
}

func TestMessageServiceProcess(t *testing.T) {
	exec := executor.NewExecutor()
	var got *model.Action
	exec.Register("add_todo", executor.HandlerFunc(func(_ context.Context, act *model.Action, req *model.MessageRequest) (model.ActionSummary, error) {
		got = act
		return model.ActionSummary{Record: map[string]model.Value{"id": model.Int(7), "title": act.Fields["title"]}}, nil
	}))
	exec.Register("list_todos", executor.HandlerFunc(func(context.Context, *model.Action, *model.MessageRequest) (model.ActionSummary, error) {
		return model.ActionSummary{Headers: []string{"id", "title"}, Rows: [][]string{{"7", "buy milk"}}}, nil
	}))
	svc := newTestService(t, exec)

	t.Run("record reply", func(t *testing.T) {
		resp, err := svc.Process(context.Background(), model.MessageRequest{Text: "todo: buy milk"})
		require.NoError(t, err)
		assert.True(t, resp.Executed)
		require.NotNil(t, got)
		assert.Equal(t, model.String("buy milk"), got.Fields["title"])
		require.NotNil(t, resp.Summary)
		assert.Equal(t, "add_todo", resp.Summary.Intent)
		assert.Equal(t, "add_todo\ntitle : buy milk\nid    : 7", resp.Reply)
	})

	t.Run("table reply", func(t *testing.T) {
		resp, err := svc.Process(context.Background(), model.MessageRequest{Text: "list"})
		require.NoError(t, err)
		assert.True(t, resp.Executed)
		assert.Equal(t, "id | title\n---+---------\n7  | buy milk", resp.Reply)
	})

	t.Run("built-in help", func(t *testing.T) {
		resp, err := svc.Process(context.Background(), model.MessageRequest{Text: "ヘルプ"})
		require.NoError(t, err)
		assert.True(t, resp.Executed)
		assert.Contains(t, resp.Reply, "commands:")
		assert.Contains(t, resp.Reply, "todo: <title>")
	})

	t.Run("no handler", func(t *testing.T) {
		resp, err := svc.Process(context.Background(), model.MessageRequest{Text: "memo: call mom"})
		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.False(t, resp.Executed)
		assert.Nil(t, resp.Summary)
		assert.Contains(t, resp.Reply, "✅ add_memo")
	})

	t.Run("parse failure skips executor", func(t *testing.T) {
		resp, err := svc.Process(context.Background(), model.MessageRequest{Text: "todo:"})
		require.NoError(t, err)
		assert.False(t, resp.Executed)
		assert.Equal(t, []model.ErrorCode{model.CodeMissingRequiredField}, model.ParseResult{Errors: resp.Errors}.Codes())
	})
}

func TestMessageServiceProcessHandlerError(t *testing.T) {
	boom := errors.New("db down")
	exec := executor.NewExecutor()
	exec.Register("add_memo", executor.HandlerFunc(func(context.Context, *model.Action, *model.MessageRequest) (model.ActionSummary, error) {
		return model.ActionSummary{}, boom
	}))
	svc := newTestService(t, exec)

	resp, err := svc.Process(context.Background(), model.MessageRequest{Text: "memo: call mom"})
	assert.ErrorIs(t, err, boom)
	assert.False(t, resp.Executed)
	assert.Contains(t, resp.Reply, "add_memo")
}

func TestMessageServiceSwap(t *testing.T) {
	svc := newTestService(t, nil)
	custom, err := NewInterpreter([]model.Intent{{
		Name:     "ping",
		Literals: []string{"ping"},
	}})
	require.NoError(t, err)

	svc.Swap(custom)
	resp, err := svc.Parse(context.Background(), model.MessageRequest{Text: "ping"})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "ping", resp.Action.Intent)

	svc.Swap(nil)
	assert.Same(t, custom, svc.Interpreter())

	infos := svc.Intents()
	require.Len(t, infos, 1)
	assert.Equal(t, "ping", infos[0].Name)
}
