package model

import "sort"

// RuleKind 字段提取规则类型
type RuleKind string

const (
	// RuleLeading 取第一个分隔符前的文本
	RuleLeading RuleKind = "leading"
	// RuleMarker label:value 形式
	RuleMarker RuleKind = "marker"
	// RuleNumeric label:value，去掉千分位后转为数值
	RuleNumeric RuleKind = "numeric"
	// RuleDate label:value，交给日期解析
	RuleDate RuleKind = "date"
)

// NumberKind 数值字段的目标类型
type NumberKind string

const (
	NumberInt   NumberKind = "int"
	NumberFloat NumberKind = "float"
)

// Precision 日期字段的精度
type Precision string

const (
	// PrecisionDate 只保留日期，忽略时间
	PrecisionDate Precision = "date"
	// PrecisionDateTime 必须带时间，未给出时用默认时间
	PrecisionDateTime Precision = "datetime"
	// PrecisionAuto 给出时间才带时间
	PrecisionAuto Precision = "auto"
)

// FieldRule 一条字段提取规则
type FieldRule struct {
	// Field 目标字段名
	Field string `yaml:"name" json:"name"`
	// Kind 规则类型
	Kind RuleKind `yaml:"rule" json:"rule"`
	// Labels 双语标签，如 [amount, 金额]
	Labels []string `yaml:"labels,omitempty" json:"labels,omitempty"`
	// Number numeric 规则（或带数值的 leading 规则）的目标类型
	Number NumberKind `yaml:"number,omitempty" json:"number,omitempty"`
	// Precision date 规则的精度，默认 date
	Precision Precision `yaml:"precision,omitempty" json:"precision,omitempty"`
	// Choices 别名 -> 规范值，如 高: high
	Choices map[string]string `yaml:"choices,omitempty" json:"choices,omitempty"`
	// List 为 true 时按空白、/、・ 拆分为列表
	List bool `yaml:"list,omitempty" json:"list,omitempty"`
}

// IsMarker 是否为 label:value 类规则
func (r FieldRule) IsMarker() bool {
	return r.Kind == RuleMarker || r.Kind == RuleNumeric || r.Kind == RuleDate
}

// Intent 一条命令定义，引擎构建时加载
type Intent struct {
	// Name 意图名称，即 Action.Intent
	Name string `yaml:"name" json:"name"`
	// Literals 整句字面命令，如 list / 一覧
	Literals []string `yaml:"literals,omitempty" json:"literals,omitempty"`
	// Labels 句首锚定的命令标签，如 todo / タスク
	Labels []string `yaml:"labels,omitempty" json:"labels,omitempty"`
	// Fields 字段规则，按声明顺序
	Fields []FieldRule `yaml:"fields,omitempty" json:"fields,omitempty"`
	// Required 必填字段
	Required []string `yaml:"required,omitempty" json:"required,omitempty"`
	// Defaults 可选字段的默认值（日期字段为日期表达式）
	Defaults map[string]Value `yaml:"-" json:"defaults,omitempty"`
	// Usage 用法示例
	Usage string `yaml:"usage,omitempty" json:"usage,omitempty"`
}

// Rule 返回某字段的第一条指定类型规则
func (i Intent) Rule(field string, kinds ...RuleKind) (FieldRule, bool) {
	for _, r := range i.Fields {
		if r.Field != field {
			continue
		}
		if len(kinds) == 0 {
			return r, true
		}
		for _, k := range kinds {
			if r.Kind == k {
				return r, true
			}
		}
	}
	return FieldRule{}, false
}

// FieldNames 按首次声明顺序返回字段名（去重）
func (i Intent) FieldNames() []string {
	seen := make(map[string]bool, len(i.Fields))
	var names []string
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	for _, r := range i.Fields {
		add(r.Field)
	}
	for _, name := range i.Required {
		add(name)
	}
	var extra []string
	for name := range i.Defaults {
		if !seen[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append(names, extra...)
}
