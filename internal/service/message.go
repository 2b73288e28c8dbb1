package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sayso-interpreter/internal/model"
	"sayso-interpreter/internal/service/executor"
	"sayso-interpreter/internal/service/formatter"
)

type requestIDKey struct{}

// WithRequestID 将请求 ID 写入 ctx
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID 从 ctx 读取请求 ID；没有时生成一个新的
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}

// MessageService 编排：接收消息文本 -> 解析为 Action -> 交给执行器 -> 生成回复
type MessageService struct {
	interpreter atomic.Pointer[Interpreter]
	executor    *executor.Executor
	formatter   *formatter.Formatter
	logger      *zap.Logger
	location    *time.Location
	clock       func() time.Time
}

// MessageOption 定义 MessageService 的可选配置
type MessageOption func(*MessageService)

// WithLocation 设置未指定 now 时使用的时区
func WithLocation(loc *time.Location) MessageOption {
	return func(s *MessageService) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithClock 替换当前时间来源（测试用）
func WithClock(clock func() time.Time) MessageOption {
	return func(s *MessageService) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewMessageService 创建编排服务。executor 中未注册 help 时自动注册内置的帮助执行器
func NewMessageService(interp *Interpreter, exec *executor.Executor, f *formatter.Formatter, logger *zap.Logger, opts ...MessageOption) *MessageService {
	if exec == nil {
		exec = executor.NewExecutor()
	}
	if f == nil {
		f = formatter.New(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &MessageService{
		executor:  exec,
		formatter: f,
		logger:    logger,
		location:  time.Local,
		clock:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.interpreter.Store(interp)
	if !exec.Has("help") {
		exec.Register("help", executor.HandlerFunc(s.handleHelp))
	}
	return s
}

// Interpreter 返回当前使用的解析器
func (s *MessageService) Interpreter() *Interpreter {
	return s.interpreter.Load()
}

// Swap 原子替换解析器（规则热加载）
func (s *MessageService) Swap(interp *Interpreter) {
	if interp != nil {
		s.interpreter.Store(interp)
	}
}

// ReferenceTime 解析请求中的参考时间：空值取当前时间，支持 RFC3339 与 2006-01-02
func (s *MessageService) ReferenceTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return s.clock().In(s.location), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", raw, s.location); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: now %q must be RFC3339 or YYYY-MM-DD", model.ErrInvalidRequest, raw)
}

// Parse 只解析不执行
func (s *MessageService) Parse(ctx context.Context, req model.MessageRequest) (model.ParseResponse, error) {
	resp := model.ParseResponse{RequestID: RequestID(ctx)}
	now, err := s.ReferenceTime(req.Now)
	if err != nil {
		resp.Errors = []*model.ParseError{}
		resp.Reply = err.Error()
		return resp, err
	}
	interp := s.Interpreter()
	res := interp.Parse(req.Text, now)

	resp.Success = res.OK()
	resp.Action = res.Action
	resp.Errors = res.Errors
	var in *model.Intent
	if res.Action != nil {
		in, _ = interp.Intent(res.Action.Intent)
	}
	resp.Reply = s.formatter.FormatResult(res, in)

	s.logger.Info("message parsed",
		zap.String("request_id", resp.RequestID),
		zap.Bool("success", resp.Success),
		zap.String("intent", intentName(res.Action)),
		zap.Any("codes", res.Codes()),
	)
	return resp, nil
}

// Process 解析消息并交给执行器；未注册执行器的意图只返回解析确认
func (s *MessageService) Process(ctx context.Context, req model.MessageRequest) (model.MessageResponse, error) {
	parsed, err := s.Parse(ctx, req)
	resp := model.MessageResponse{ParseResponse: parsed}
	if err != nil || !parsed.Success {
		return resp, err
	}

	summary, err := s.executor.Execute(ctx, parsed.Action, &req)
	if errors.Is(err, model.ErrActionNotSupport) {
		s.logger.Debug("no handler registered", zap.String("request_id", parsed.RequestID), zap.String("intent", parsed.Action.Intent))
		return resp, nil
	}
	if err != nil {
		s.logger.Error("execute action failed",
			zap.String("request_id", parsed.RequestID),
			zap.String("intent", parsed.Action.Intent),
			zap.Error(err),
		)
		resp.Reply = fmt.Sprintf("执行动作 %s 失败: %v", parsed.Action.Intent, err)
		return resp, err
	}

	resp.Executed = true
	resp.Summary = &summary
	resp.Reply = s.replyFor(summary)
	return resp, nil
}

// Intents 返回已加载意图的对外描述
func (s *MessageService) Intents() []model.IntentInfo {
	intents := s.Interpreter().Intents()
	out := make([]model.IntentInfo, 0, len(intents))
	for _, in := range intents {
		out = append(out, model.IntentInfo{
			Name:     in.Name,
			Literals: in.Literals,
			Labels:   in.Labels,
			Required: in.Required,
			Usage:    in.Usage,
		})
	}
	return out
}

// replyFor 根据执行结果生成回复：表格、记录或备注
func (s *MessageService) replyFor(summary model.ActionSummary) string {
	switch {
	case len(summary.Rows) > 0 || len(summary.Headers) > 0:
		return s.formatter.FormatTable(summary.Headers, summary.Rows)
	case len(summary.Record) > 0:
		var order []string
		if in, ok := s.Interpreter().Intent(summary.Intent); ok {
			order = in.FieldNames()
		}
		return s.formatter.FormatRecord(summary.Intent, summary.Record, order)
	case summary.Note != "":
		return summary.Note
	default:
		return "处理完成"
	}
}

func (s *MessageService) handleHelp(_ context.Context, _ *model.Action, _ *model.MessageRequest) (model.ActionSummary, error) {
	return model.ActionSummary{Intent: "help", Note: s.formatter.FormatHelp(s.Interpreter().Intents())}, nil
}

func intentName(a *model.Action) string {
	if a == nil {
		return ""
	}
	return a.Intent
}
