package formatter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"

	"sayso-interpreter/internal/model"
)

// Formatter 将解析结果或执行结果整理为回复文本
type Formatter struct {
	// Labels 字段名 -> 显示名，如 amount -> 金額；未配置时直接显示字段名
	Labels map[string]string
}

// New 创建格式化器
func New(labels map[string]string) *Formatter {
	return &Formatter{Labels: labels}
}

// FormatResult 成功时确认意图并列出字段，失败时列出错误信息
func (f *Formatter) FormatResult(res model.ParseResult, in *model.Intent) string {
	var b strings.Builder
	if res.Action == nil {
		b.WriteString("⚠️ could not run the command")
		for _, e := range res.Errors {
			b.WriteString("\n- ")
			b.WriteString(e.Message)
		}
		return b.String()
	}

	var order []string
	if in != nil {
		order = in.FieldNames()
	}
	b.WriteString(f.FormatRecord("✅ "+res.Action.Intent, res.Action.Fields, order))
	for _, e := range res.Errors {
		b.WriteString("\n(note) ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// FormatRecord 以“标签: 值”形式输出记录，标签按显示宽度对齐（中日文字符占两列）。
// order 决定输出顺序，不在 order 中的字段按名称排序追加
func (f *Formatter) FormatRecord(title string, record map[string]model.Value, order []string) string {
	keys := orderedKeys(record, order)
	labels := make([]string, len(keys))
	width := 0
	for i, k := range keys {
		labels[i] = f.label(k)
		if w := runewidth.StringWidth(labels[i]); w > width {
			width = w
		}
	}

	var b strings.Builder
	b.WriteString(title)
	for i, k := range keys {
		b.WriteString("\n")
		b.WriteString(runewidth.FillRight(labels[i], width))
		b.WriteString(" : ")
		b.WriteString(record[k].Text())
	}
	return b.String()
}

// FormatTable 输出按显示宽度对齐的表格，用于 list / stats 类结果
func (f *Formatter) FormatTable(headers []string, rows [][]string) string {
	cols := len(headers)
	for _, r := range rows {
		if len(r) > cols {
			cols = len(r)
		}
	}
	if cols == 0 {
		return "(empty)"
	}
	widths := make([]int, cols)
	measure := func(cells []string) {
		for i, c := range cells {
			if w := runewidth.StringWidth(c); w > widths[i] {
				widths[i] = w
			}
		}
	}
	measure(headers)
	for _, r := range rows {
		measure(r)
	}

	var lines []string
	line := func(cells []string) string {
		parts := make([]string, cols)
		for i := range parts {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			parts[i] = runewidth.FillRight(cell, widths[i])
		}
		return strings.TrimRight(strings.Join(parts, " | "), " ")
	}
	if len(headers) > 0 {
		lines = append(lines, line(headers))
		seps := make([]string, cols)
		for i, w := range widths {
			seps[i] = strings.Repeat("-", w)
		}
		lines = append(lines, strings.Join(seps, "-+-"))
	}
	for _, r := range rows {
		lines = append(lines, line(r))
	}
	if len(rows) == 0 {
		lines = append(lines, "(empty)")
	}
	return strings.Join(lines, "\n")
}

// FormatHelp 列出全部意图的用法
func (f *Formatter) FormatHelp(intents []model.Intent) string {
	var b strings.Builder
	b.WriteString("commands:")
	for _, in := range intents {
		usage := in.Usage
		if usage == "" {
			usage = in.Name
		}
		fmt.Fprintf(&b, "\n- %s", usage)
		if aliases := triggers(in); len(aliases) > 1 {
			fmt.Fprintf(&b, "  (%s)", strings.Join(aliases, " / "))
		}
	}
	return b.String()
}

func (f *Formatter) label(field string) string {
	if l, ok := f.Labels[field]; ok && l != "" {
		return l
	}
	return field
}

func triggers(in model.Intent) []string {
	out := append([]string(nil), in.Literals...)
	return append(out, in.Labels...)
}

func orderedKeys(record map[string]model.Value, order []string) []string {
	keys := make([]string, 0, len(record))
	seen := make(map[string]bool, len(record))
	for _, k := range order {
		if _, ok := record[k]; ok && !seen[k] {
			keys = append(keys, k)
			seen[k] = true
		}
	}
	var rest []string
	for k := range record {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}
