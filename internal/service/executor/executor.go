package executor

import (
	"context"
	"fmt"
	"sort"

	"sayso-interpreter/internal/model"
)

// Handler 执行某一意图的动作（通常是调用方自己的持久化或查询）
type Handler interface {
	Handle(ctx context.Context, act *model.Action, req *model.MessageRequest) (model.ActionSummary, error)
}

// HandlerFunc 函数形式的 Handler
type HandlerFunc func(ctx context.Context, act *model.Action, req *model.MessageRequest) (model.ActionSummary, error)

// Handle 实现 Handler
func (f HandlerFunc) Handle(ctx context.Context, act *model.Action, req *model.MessageRequest) (model.ActionSummary, error) {
	return f(ctx, act, req)
}

// Executor 按 Action.Intent 将动作路由到注册的执行器。
// 注册在启动阶段完成，之后只读
type Executor struct {
	handlers map[string]Handler
}

// NewExecutor 创建执行器
func NewExecutor() *Executor {
	return &Executor{handlers: make(map[string]Handler)}
}

// Register 为意图注册执行器，重复注册会覆盖
func (e *Executor) Register(intent string, h Handler) {
	e.handlers[intent] = h
}

// Has 是否已为意图注册执行器
func (e *Executor) Has(intent string) bool {
	_, ok := e.handlers[intent]
	return ok
}

// Intents 返回已注册的意图名
func (e *Executor) Intents() []string {
	names := make([]string, 0, len(e.handlers))
	for name := range e.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Execute 执行单条动作，按 intent 路由
func (e *Executor) Execute(ctx context.Context, act *model.Action, req *model.MessageRequest) (model.ActionSummary, error) {
	if act == nil {
		return model.ActionSummary{}, fmt.Errorf("%w: nil action", model.ErrInvalidRequest)
	}
	h, ok := e.handlers[act.Intent]
	if !ok {
		return model.ActionSummary{}, fmt.Errorf("%w: %s", model.ErrActionNotSupport, act.Intent)
	}
	summary, err := h.Handle(ctx, act, req)
	if err != nil {
		return model.ActionSummary{}, fmt.Errorf("execute %s: %w", act.Intent, err)
	}
	if summary.Intent == "" {
		summary.Intent = act.Intent
	}
	return summary, nil
}
