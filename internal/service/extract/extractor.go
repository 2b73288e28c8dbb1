package extract

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"sayso-interpreter/internal/model"
	"sayso-interpreter/internal/service/datetime"
)

// Separators 分隔字段的标点
const Separators = ",，、"

const (
	boundary     = `(?:^|[\s` + Separators + `])`
	plainValue   = `[^` + Separators + `]*`
	numericValue = `[-+]?[¥$]?\d[\d,]*(?:\.\d+)?`
)

var listSplitRE = regexp.MustCompile(`[\s/・]+`)

// Extraction 字段提取结果：Fields 只包含成功提取的字段，Issues 为非致命提示
type Extraction struct {
	Fields map[string]model.Value
	Issues []*model.ParseError
}

type compiledRule struct {
	rule model.FieldRule
	re   *regexp.Regexp
}

// Extractor 按一个意图的字段规则从剩余文本中提取字段；构建后只读，可并发使用
type Extractor struct {
	markers  []compiledRule
	leading  []model.FieldRule
	anyLabel *regexp.Regexp
	resolver *datetime.Resolver
}

// New 编译字段规则
func New(rules []model.FieldRule, resolver *datetime.Resolver) (*Extractor, error) {
	if resolver == nil {
		resolver = datetime.NewResolver(datetime.DefaultTime)
	}
	e := &Extractor{resolver: resolver}
	var allLabels []string
	for _, r := range rules {
		switch r.Kind {
		case model.RuleLeading:
			e.leading = append(e.leading, r)
		case model.RuleMarker, model.RuleNumeric, model.RuleDate:
			if len(r.Labels) == 0 {
				return nil, fmt.Errorf("%w: field %q: %s rule needs labels", model.ErrInvalidRules, r.Field, r.Kind)
			}
			value := plainValue
			if r.Kind == model.RuleNumeric {
				value = numericValue + `|` + plainValue
			}
			re, err := regexp.Compile(`(?i)` + labelPattern(r.Labels) + `\s*[:：]\s*(` + value + `)`)
			if err != nil {
				return nil, fmt.Errorf("%w: field %q: %v", model.ErrInvalidRules, r.Field, err)
			}
			e.markers = append(e.markers, compiledRule{rule: r, re: re})
			allLabels = append(allLabels, r.Labels...)
		default:
			return nil, fmt.Errorf("%w: field %q: unknown rule %q", model.ErrInvalidRules, r.Field, r.Kind)
		}
	}
	if len(allLabels) > 0 {
		e.anyLabel = regexp.MustCompile(`(?i)` + labelPattern(allLabels) + `\s*[:：]`)
	}
	return e, nil
}

// Extract 从 remainder 中提取字段。纯函数：不修改状态，不会 panic，
// 无法解析的可选值按缺省处理并记入 Issues
func (e *Extractor) Extract(remainder string, now time.Time) Extraction {
	out := Extraction{Fields: make(map[string]model.Value)}

	for _, m := range e.markers {
		if _, claimed := out.Fields[m.rule.Field]; claimed {
			continue
		}
		sub := m.re.FindStringSubmatch(remainder)
		if sub == nil {
			continue
		}
		raw := e.cutAtLabel(sub[1])
		if raw == "" {
			continue
		}
		if v, issue := e.convert(m.rule, raw, now); issue != nil {
			out.Issues = append(out.Issues, issue)
		} else {
			out.Fields[m.rule.Field] = v
		}
	}

	if len(e.leading) > 0 {
		segment := e.leadingSegment(remainder)
		for _, r := range e.leading {
			if _, claimed := out.Fields[r.Field]; claimed || segment == "" {
				continue
			}
			if v, issue := e.convert(r, segment, now); issue != nil {
				out.Issues = append(out.Issues, issue)
			} else {
				out.Fields[r.Field] = v
			}
		}
	}
	return out
}

// leadingSegment 取第一个分隔符（或第一个字段标签）之前的文本
func (e *Extractor) leadingSegment(s string) string {
	if i := strings.IndexAny(s, Separators); i >= 0 {
		s = s[:i]
	}
	return e.cutAtLabel(s)
}

// cutAtLabel 截断到下一个字段标签之前，使 "buy milk due: tomorrow" 中的标签不混入值
func (e *Extractor) cutAtLabel(s string) string {
	if e.anyLabel != nil {
		if loc := e.anyLabel.FindStringIndex(s); loc != nil {
			s = s[:loc[0]]
		}
	}
	return strings.TrimSpace(s)
}

func (e *Extractor) convert(r model.FieldRule, raw string, now time.Time) (model.Value, *model.ParseError) {
	switch {
	case r.Kind == model.RuleNumeric || (r.Kind == model.RuleLeading && r.Number != ""):
		v, ok := parseNumber(raw, r.Number)
		if !ok {
			return model.Value{}, model.NewInvalidNumericValue(r.Field, raw)
		}
		return v, nil
	case r.Kind == model.RuleDate:
		precision := r.Precision
		if precision == "" {
			precision = model.PrecisionDate
		}
		v, ok := e.resolver.Resolve(raw, now, precision)
		if !ok {
			return model.Value{}, model.NewUnresolvedDate(r.Field, raw)
		}
		return v, nil
	case len(r.Choices) > 0:
		canonical, ok := lookupChoice(r.Choices, raw)
		if !ok {
			return model.Value{}, model.NewInvalidChoice(r.Field, raw)
		}
		return model.String(canonical), nil
	case r.List:
		return model.List(splitList(raw)), nil
	default:
		return model.String(raw), nil
	}
}

// parseNumber 去掉千分位与货币符号后按 kind 解析；int 字段不接受小数
func parseNumber(raw string, kind model.NumberKind) (model.Value, bool) {
	s := strings.NewReplacer(",", "", "¥", "", "$", "", " ", "").Replace(raw)
	if s == "" {
		return model.Value{}, false
	}
	if kind == model.NumberFloat {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return model.Value{}, false
		}
		return model.Float(f), true
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return model.Value{}, false
	}
	return model.Int(n), true
}

func lookupChoice(choices map[string]string, raw string) (string, bool) {
	if v, ok := choices[raw]; ok {
		return v, true
	}
	for alias, v := range choices {
		if strings.EqualFold(alias, raw) {
			return v, true
		}
	}
	return "", false
}

func splitList(raw string) []string {
	parts := listSplitRE.Split(raw, -1)
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			items = append(items, p)
		}
	}
	return items
}

// labelPattern 生成标签的正则分组。ASCII 标签要求前面是行首、空白或分隔符，
// 避免 username: 命中 name:；日文标签之间通常不加空格，不做边界要求
func labelPattern(labels []string) string {
	sorted := append([]string(nil), labels...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return utf8.RuneCountInString(sorted[i]) > utf8.RuneCountInString(sorted[j])
	})
	var ascii, other []string
	for _, l := range sorted {
		if l == "" {
			continue
		}
		q := regexp.QuoteMeta(l)
		if isASCIIWord(l) {
			ascii = append(ascii, q)
		} else {
			other = append(other, q)
		}
	}
	var alts []string
	if len(ascii) > 0 {
		alts = append(alts, boundary+`(?:`+strings.Join(ascii, "|")+`)`)
	}
	if len(other) > 0 {
		alts = append(alts, `(?:`+strings.Join(other, "|")+`)`)
	}
	return `(?:` + strings.Join(alts, "|") + `)`
}

func isASCIIWord(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return r < utf8.RuneSelf
}
