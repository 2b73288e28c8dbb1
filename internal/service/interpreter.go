package service

import (
	"fmt"
	"time"

	"sayso-interpreter/internal/model"
	"sayso-interpreter/internal/service/action"
	"sayso-interpreter/internal/service/datetime"
	"sayso-interpreter/internal/service/extract"
	"sayso-interpreter/internal/service/intent"
	"sayso-interpreter/internal/utils"
)

// Interpreter 将一条自由文本解析为 Action：规范化 -> 意图匹配 -> 字段提取 -> 组装。
// 构建后只读，Parse 可并发调用
type Interpreter struct {
	matcher     *intent.Matcher
	extractors  map[string]*extract.Extractor
	builder     *action.Builder
	defaultTime datetime.Clock
	suggestions bool
}

// Option 定义可选配置
type Option func(*Interpreter)

// WithDefaultTime 设置 datetime 字段缺省时刻
func WithDefaultTime(c datetime.Clock) Option {
	return func(i *Interpreter) {
		i.defaultTime = c
	}
}

// WithSuggestions 未命中时是否给出“你是不是想输入”的提示
func WithSuggestions(enabled bool) Option {
	return func(i *Interpreter) {
		i.suggestions = enabled
	}
}

// NewInterpreter 编译意图表
func NewInterpreter(intents []model.Intent, opts ...Option) (*Interpreter, error) {
	in := &Interpreter{
		defaultTime: datetime.DefaultTime,
		suggestions: true,
		extractors:  make(map[string]*extract.Extractor, len(intents)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(in)
		}
	}

	matcher, err := intent.NewMatcher(intents)
	if err != nil {
		return nil, err
	}
	resolver := datetime.NewResolver(in.defaultTime)
	for _, it := range matcher.Intents() {
		if _, dup := in.extractors[it.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate intent %q", model.ErrInvalidRules, it.Name)
		}
		ex, err := extract.New(it.Fields, resolver)
		if err != nil {
			return nil, fmt.Errorf("intent %q: %w", it.Name, err)
		}
		in.extractors[it.Name] = ex
	}
	in.matcher = matcher
	in.builder = action.NewBuilder(resolver)
	return in, nil
}

// Parse 解析一条消息。now 为参考时间，日期表达式相对它解析。
// 不会 panic，所有失败都体现在 ParseResult.Errors 中
func (i *Interpreter) Parse(text string, now time.Time) model.ParseResult {
	normalized := utils.Normalize(text)
	m, ok := i.matcher.Match(normalized)
	if !ok {
		suggestion := ""
		if i.suggestions {
			suggestion = i.matcher.Suggest(normalized)
		}
		return model.ParseResult{Errors: []*model.ParseError{model.NewNoMatch(normalized, suggestion)}}
	}
	ex := i.extractors[m.Intent.Name].Extract(m.Remainder, now)
	return i.builder.Build(m.Intent, ex, now)
}

// Intents 返回已加载的意图
func (i *Interpreter) Intents() []model.Intent {
	return i.matcher.Intents()
}

// Intent 按名称取意图
func (i *Interpreter) Intent(name string) (*model.Intent, bool) {
	return i.matcher.Lookup(name)
}
