package rules

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"sayso-interpreter/internal/model"
)

//go:embed default.yaml
var defaultRules []byte

// intentDoc YAML 中的一条意图；defaults 为任意标量或列表，解析后转为 model.Value
type intentDoc struct {
	model.Intent `yaml:",inline"`
	Defaults     map[string]any `yaml:"defaults,omitempty"`
}

type document struct {
	Intents []intentDoc `yaml:"intents"`
}

// Default 返回内置的双语意图表
func Default() ([]model.Intent, error) {
	intents, err := Parse(defaultRules)
	if err != nil {
		return nil, fmt.Errorf("default rules: %w", err)
	}
	return intents, nil
}

// Load 从 YAML 文件加载意图表；path 为空时返回内置表
func Load(path string) ([]model.Intent, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules %s: %w", path, err)
	}
	intents, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("rules %s: %w", path, err)
	}
	return intents, nil
}

// Parse 解析并校验 YAML 意图表
func Parse(data []byte) ([]model.Intent, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: parse yaml: %v", model.ErrInvalidRules, err)
	}
	if len(doc.Intents) == 0 {
		return nil, fmt.Errorf("%w: no intents defined", model.ErrInvalidRules)
	}
	intents := make([]model.Intent, 0, len(doc.Intents))
	for _, d := range doc.Intents {
		in := d.Intent
		if len(d.Defaults) > 0 {
			in.Defaults = make(map[string]model.Value, len(d.Defaults))
			for name, raw := range d.Defaults {
				v, err := model.ValueFromAny(raw)
				if err != nil {
					return nil, fmt.Errorf("%w: intent %q default %q: %v", model.ErrInvalidRules, in.Name, name, err)
				}
				in.Defaults[name] = v
			}
		}
		intents = append(intents, in)
	}
	if err := Validate(intents); err != nil {
		return nil, err
	}
	return intents, nil
}

// Validate 校验意图表的结构：名称唯一、至少一个触发方式、规则合法、必填字段可得
func Validate(intents []model.Intent) error {
	seen := make(map[string]bool, len(intents))
	for i := range intents {
		in := &intents[i]
		in.Name = strings.TrimSpace(in.Name)
		if in.Name == "" {
			return fmt.Errorf("%w: intent #%d has no name", model.ErrInvalidRules, i+1)
		}
		if seen[in.Name] {
			return fmt.Errorf("%w: duplicate intent %q", model.ErrInvalidRules, in.Name)
		}
		seen[in.Name] = true
		if len(in.Literals) == 0 && len(in.Labels) == 0 {
			return fmt.Errorf("%w: intent %q needs literals or labels", model.ErrInvalidRules, in.Name)
		}
		for j := range in.Fields {
			if err := validateRule(&in.Fields[j]); err != nil {
				return fmt.Errorf("%w: intent %q: %v", model.ErrInvalidRules, in.Name, err)
			}
		}
		for _, name := range in.Required {
			_, hasRule := in.Rule(name)
			_, hasDefault := in.Defaults[name]
			if !hasRule && !hasDefault {
				return fmt.Errorf("%w: intent %q: required field %q has no rule", model.ErrInvalidRules, in.Name, name)
			}
		}
	}
	return nil
}

// validateRule 校验单条规则并补全缺省的 number / precision
func validateRule(r *model.FieldRule) error {
	if strings.TrimSpace(r.Field) == "" {
		return fmt.Errorf("field rule has no name")
	}
	switch r.Kind {
	case model.RuleLeading:
	case model.RuleMarker, model.RuleNumeric, model.RuleDate:
		if len(r.Labels) == 0 {
			return fmt.Errorf("field %q: %s rule needs labels", r.Field, r.Kind)
		}
		for _, l := range r.Labels {
			if strings.TrimSpace(l) == "" {
				return fmt.Errorf("field %q: empty label", r.Field)
			}
		}
	default:
		return fmt.Errorf("field %q: unknown rule %q", r.Field, r.Kind)
	}
	switch r.Number {
	case "", model.NumberInt, model.NumberFloat:
	default:
		return fmt.Errorf("field %q: unknown number kind %q", r.Field, r.Number)
	}
	if r.Kind == model.RuleNumeric && r.Number == "" {
		r.Number = model.NumberInt
	}
	switch r.Precision {
	case "", model.PrecisionDate, model.PrecisionDateTime, model.PrecisionAuto:
	default:
		return fmt.Errorf("field %q: unknown precision %q", r.Field, r.Precision)
	}
	if r.Kind == model.RuleDate && r.Precision == "" {
		r.Precision = model.PrecisionDate
	}
	return nil
}
