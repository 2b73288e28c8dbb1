package model

import (
	"errors"
	"fmt"
)

var (
	ErrNoMatch              = errors.New("no matching intent")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrInvalidNumericValue  = errors.New("invalid numeric value")
	ErrUnresolvedDate       = errors.New("unresolved date")
	ErrInvalidChoice        = errors.New("invalid choice")

	ErrActionNotSupport = errors.New("action type not supported")
	ErrInvalidRules     = errors.New("invalid intent rules")
	ErrInvalidRequest   = errors.New("invalid request")
)

// ErrorCode 解析错误码
type ErrorCode string

const (
	CodeNoMatch              ErrorCode = "NO_MATCH"
	CodeMissingRequiredField ErrorCode = "MISSING_REQUIRED_FIELD"
	CodeInvalidNumericValue  ErrorCode = "INVALID_NUMERIC_VALUE"
	CodeUnresolvedDate       ErrorCode = "UNRESOLVED_DATE"
	CodeInvalidChoice        ErrorCode = "INVALID_CHOICE"
)

var codeSentinels = map[ErrorCode]error{
	CodeNoMatch:              ErrNoMatch,
	CodeMissingRequiredField: ErrMissingRequiredField,
	CodeInvalidNumericValue:  ErrInvalidNumericValue,
	CodeUnresolvedDate:       ErrUnresolvedDate,
	CodeInvalidChoice:        ErrInvalidChoice,
}

// ParseError 解析过程中的一条可恢复错误
type ParseError struct {
	Code    ErrorCode `json:"code"`
	Field   string    `json:"field,omitempty"`
	Message string    `json:"message"`
}

// Error 实现 error
func (e *ParseError) Error() string { return e.Message }

// Unwrap 返回对应的哨兵错误，支持 errors.Is
func (e *ParseError) Unwrap() error { return codeSentinels[e.Code] }

// Fatal 是否阻止 Action 构建；只有缺少必填字段与无匹配是致命的
func (e *ParseError) Fatal() bool {
	return e.Code == CodeMissingRequiredField || e.Code == CodeNoMatch
}

// NewNoMatch 无匹配意图
func NewNoMatch(input, suggestion string) *ParseError {
	msg := fmt.Sprintf("unrecognized command: %q", input)
	if suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", suggestion)
	}
	return &ParseError{Code: CodeNoMatch, Message: msg}
}

// NewMissingRequiredField 缺少必填字段，usage 为可选的用法示例
func NewMissingRequiredField(field, usage string) *ParseError {
	msg := fmt.Sprintf("missing required field %q", field)
	if usage != "" {
		msg += "; usage: " + usage
	}
	return &ParseError{Code: CodeMissingRequiredField, Field: field, Message: msg}
}

// NewInvalidNumericValue 数值无法解析，字段按缺省处理
func NewInvalidNumericValue(field, raw string) *ParseError {
	return &ParseError{
		Code:    CodeInvalidNumericValue,
		Field:   field,
		Message: fmt.Sprintf("field %q: %q is not a number, ignored", field, raw),
	}
}

// NewUnresolvedDate 日期无法识别，字段按缺省处理
func NewUnresolvedDate(field, raw string) *ParseError {
	return &ParseError{
		Code:    CodeUnresolvedDate,
		Field:   field,
		Message: fmt.Sprintf("field %q: could not understand date %q, ignored", field, raw),
	}
}

// NewInvalidChoice 取值不在可选范围内，字段按缺省处理
func NewInvalidChoice(field, raw string) *ParseError {
	return &ParseError{
		Code:    CodeInvalidChoice,
		Field:   field,
		Message: fmt.Sprintf("field %q: unknown value %q, ignored", field, raw),
	}
}
