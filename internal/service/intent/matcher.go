package intent

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"sayso-interpreter/internal/model"
	"sayso-interpreter/internal/utils"
)

// Match 一次匹配结果
type Match struct {
	// Intent 命中的意图
	Intent *model.Intent
	// Remainder 标签之后的文本（已去首尾空白）；字面命令为空
	Remainder string
}

type anchored struct {
	intent *model.Intent
	re     *regexp.Regexp
}

// Matcher 按声明顺序匹配意图：先整句字面命令，再句首锚定的 label: 命令
type Matcher struct {
	intents  []model.Intent
	literals []literal
	anchored []anchored
	keywords []string
}

type literal struct {
	intent *model.Intent
	text   string
}

// NewMatcher 编译意图表
func NewMatcher(intents []model.Intent) (*Matcher, error) {
	m := &Matcher{intents: append([]model.Intent(nil), intents...)}
	for i := range m.intents {
		in := &m.intents[i]
		for _, lit := range in.Literals {
			lit = strings.TrimSpace(lit)
			if lit == "" {
				continue
			}
			m.literals = append(m.literals, literal{intent: in, text: lit})
			m.keywords = append(m.keywords, lit)
		}
		if len(in.Labels) == 0 {
			continue
		}
		alt, ok := alternation(in.Labels)
		if !ok {
			return nil, fmt.Errorf("%w: intent %q: empty labels", model.ErrInvalidRules, in.Name)
		}
		re, err := regexp.Compile(`(?is)^` + alt + `\s*[:：]\s*(.*)$`)
		if err != nil {
			return nil, fmt.Errorf("%w: intent %q: %v", model.ErrInvalidRules, in.Name, err)
		}
		m.anchored = append(m.anchored, anchored{intent: in, re: re})
		m.keywords = append(m.keywords, in.Labels...)
	}
	return m, nil
}

// Match 返回命中的意图与剩余文本；没有命中时 ok 为 false
func (m *Matcher) Match(input string) (Match, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return Match{}, false
	}
	for _, lit := range m.literals {
		if strings.EqualFold(input, lit.text) {
			return Match{Intent: lit.intent}, true
		}
	}
	for _, a := range m.anchored {
		if sub := a.re.FindStringSubmatch(input); sub != nil {
			return Match{Intent: a.intent, Remainder: strings.TrimSpace(sub[1])}, true
		}
	}
	return Match{}, false
}

// Suggest 为未命中的输入找最接近的命令词
func (m *Matcher) Suggest(input string) string {
	return utils.Suggest(utils.FirstWord(input), m.keywords)
}

// Intents 返回已加载的意图（按声明顺序）
func (m *Matcher) Intents() []model.Intent {
	return m.intents
}

// Lookup 按名称查找意图
func (m *Matcher) Lookup(name string) (*model.Intent, bool) {
	for i := range m.intents {
		if m.intents[i].Name == name {
			return &m.intents[i], true
		}
	}
	return nil, false
}

func alternation(labels []string) (string, bool) {
	sorted := append([]string(nil), labels...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return utf8.RuneCountInString(sorted[i]) > utf8.RuneCountInString(sorted[j])
	})
	quoted := make([]string, 0, len(sorted))
	for _, l := range sorted {
		if l = strings.TrimSpace(l); l != "" {
			quoted = append(quoted, regexp.QuoteMeta(l))
		}
	}
	if len(quoted) == 0 {
		return "", false
	}
	return `(?:` + strings.Join(quoted, "|") + `)`, true
}
