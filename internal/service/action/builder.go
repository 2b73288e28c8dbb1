package action

import (
	"time"

	"sayso-interpreter/internal/model"
	"sayso-interpreter/internal/service/datetime"
	"sayso-interpreter/internal/service/extract"
)

// Builder 将意图与提取出的字段组装为 Action：补默认值、校验必填
type Builder struct {
	resolver *datetime.Resolver
}

// NewBuilder 创建组装器；resolver 用于解析日期字段的默认值（如 today）
func NewBuilder(resolver *datetime.Resolver) *Builder {
	if resolver == nil {
		resolver = datetime.NewResolver(datetime.DefaultTime)
	}
	return &Builder{resolver: resolver}
}

// Build 组装结果。缺少必填字段时 Action 为空；
// 其余提示（无法解析的日期、数值等）随成功的 Action 一并返回
func (b *Builder) Build(in *model.Intent, ex extract.Extraction, now time.Time) model.ParseResult {
	fields := make(map[string]model.Value, len(ex.Fields)+len(in.Defaults))
	for k, v := range ex.Fields {
		fields[k] = v
	}
	for name, def := range in.Defaults {
		if _, ok := fields[name]; ok {
			continue
		}
		fields[name] = b.defaultValue(in, name, def, now)
	}

	var missing []*model.ParseError
	for _, name := range in.Required {
		if _, ok := fields[name]; !ok {
			missing = append(missing, model.NewMissingRequiredField(name, in.Usage))
		}
	}

	errs := make([]*model.ParseError, 0, len(missing)+len(ex.Issues))
	errs = append(errs, missing...)
	errs = append(errs, ex.Issues...)
	if len(missing) > 0 {
		return model.ParseResult{Errors: errs}
	}
	return model.ParseResult{
		Action: &model.Action{Intent: in.Name, Fields: fields},
		Errors: errs,
	}
}

// defaultValue 日期字段的默认值是日期表达式，按 now 解析；解析失败时原样保留
func (b *Builder) defaultValue(in *model.Intent, name string, def model.Value, now time.Time) model.Value {
	rule, ok := in.Rule(name, model.RuleDate)
	if !ok || def.Kind != model.KindString {
		return def
	}
	precision := rule.Precision
	if precision == "" {
		precision = model.PrecisionDate
	}
	if v, ok := b.resolver.Resolve(def.Str, now, precision); ok {
		return v
	}
	return def
}
