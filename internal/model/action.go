package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ValueKind 字段值的类型
type ValueKind string

const (
	KindString   ValueKind = "string"
	KindInt      ValueKind = "int"
	KindFloat    ValueKind = "float"
	KindDate     ValueKind = "date"     // 2006-01-02
	KindDateTime ValueKind = "datetime" // 2006-01-02 15:04
	KindList     ValueKind = "list"
)

// Value 字段值（按 Kind 取对应成员）
type Value struct {
	Kind  ValueKind
	Str   string
	Int   int64
	Float float64
	List  []string
}

// String 构造字符串值
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Int 构造整数值
func Int(n int64) Value { return Value{Kind: KindInt, Int: n} }

// Float 构造浮点值
func Float(f float64) Value { return Value{Kind: KindFloat, Float: f} }

// Date 构造已规范化的日期值，withTime 为 true 时为 datetime
func Date(s string, withTime bool) Value {
	if withTime {
		return Value{Kind: KindDateTime, Str: s}
	}
	return Value{Kind: KindDate, Str: s}
}

// List 构造字符串列表值
func List(items []string) Value { return Value{Kind: KindList, List: items} }

// Text 以文本形式返回值，用于回复拼接
func (v Value) Text() string {
	switch v.Kind {
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'f', -1, 64)
	case KindList:
		return strings.Join(v.List, ", ")
	default:
		return v.Str
	}
}

// Interface 返回 Go 原生值，供调用方直接作为持久化参数
func (v Value) Interface() any {
	switch v.Kind {
	case KindInt:
		return v.Int
	case KindFloat:
		return v.Float
	case KindList:
		return v.List
	default:
		return v.Str
	}
}

// MarshalJSON 按原生 JSON 类型输出
func (v Value) MarshalJSON() ([]byte, error) {
	if v.Kind == KindList && v.List == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(v.Interface())
}

// ValueFromAny 将 YAML/JSON 解码得到的默认值转换为 Value
func ValueFromAny(raw any) (Value, error) {
	switch val := raw.(type) {
	case string:
		return String(val), nil
	case int:
		return Int(int64(val)), nil
	case int64:
		return Int(val), nil
	case float64:
		return Float(val), nil
	case bool:
		return String(strconv.FormatBool(val)), nil
	case []any:
		items := make([]string, 0, len(val))
		for _, item := range val {
			items = append(items, fmt.Sprint(item))
		}
		return List(items), nil
	case []string:
		return List(val), nil
	default:
		return Value{}, fmt.Errorf("unsupported default value %v (%T)", raw, raw)
	}
}

// Action 解析得到的结构化动作，由调用方按 Intent 执行持久化
type Action struct {
	// Intent 命中的意图名称，如 add_todo
	Intent string `json:"intent"`
	// Fields 提取（含默认值）后的字段
	Fields map[string]Value `json:"fields"`
}

// Get 取字段值
func (a *Action) Get(name string) (Value, bool) {
	v, ok := a.Fields[name]
	return v, ok
}

// Params 以原生值 map 返回字段，便于直接传给存储层
func (a *Action) Params() map[string]any {
	out := make(map[string]any, len(a.Fields))
	for k, v := range a.Fields {
		out[k] = v.Interface()
	}
	return out
}

// ParseResult 一次解析的完整结果。Action 为 nil 时 Errors 必不为空；
// Action 非 nil 时 Errors 中只有非致命的提示
type ParseResult struct {
	Action *Action       `json:"action,omitempty"`
	Errors []*ParseError `json:"errors"`
}

// OK 是否成功构建了 Action
func (r ParseResult) OK() bool { return r.Action != nil }

// Messages 以字符串列表返回全部错误说明
func (r ParseResult) Messages() []string {
	out := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		out = append(out, e.Message)
	}
	return out
}

// Codes 返回全部错误码，便于断言与统计
func (r ParseResult) Codes() []ErrorCode {
	out := make([]ErrorCode, 0, len(r.Errors))
	for _, e := range r.Errors {
		out = append(out, e.Code)
	}
	return out
}
