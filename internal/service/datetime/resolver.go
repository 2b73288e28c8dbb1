package datetime

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"sayso-interpreter/internal/model"
)

const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04"
)

// Clock 一天中的时刻
type Clock struct {
	Hour   int
	Minute int
}

// String HH:MM
func (c Clock) String() string { return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute) }

// ParseClock 解析 HH:MM
func ParseClock(s string) (Clock, error) {
	m := clockRE.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil || m[0] != strings.TrimSpace(s) {
		return Clock{}, fmt.Errorf("invalid clock %q", s)
	}
	c, ok := clockFrom(m[1], m[2])
	if !ok {
		return Clock{}, fmt.Errorf("invalid clock %q", s)
	}
	return c, nil
}

// DefaultTime 需要时间但未给出时使用的默认时刻
var DefaultTime = Clock{Hour: 12, Minute: 0}

var (
	todayRE     = regexp.MustCompile(`(?i)\btoday\b|今日`)
	tomorrowRE  = regexp.MustCompile(`(?i)\btomorrow\b|明日`)
	nextWeekRE  = regexp.MustCompile(`(?i)\bnext\s+week\b|来週`)
	nextMonthRE = regexp.MustCompile(`(?i)\bnext\s+month\b|来月`)
	isoDateRE   = regexp.MustCompile(`\b(\d{4})[-/](\d{1,2})[-/](\d{1,2})\b`)
	monthDayRE  = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})\b`)
	daysLaterRE = regexp.MustCompile(`(?i)(\d+)\s*(?:days?\s+later\b|日後)`)
	weekdayEnRE = regexp.MustCompile(`(?i)\b(sunday|monday|tuesday|wednesday|thursday|friday|saturday|sun|mon|tue|tues|wed|thu|thur|thurs|fri|sat)\b`)
	weekdayJaRE = regexp.MustCompile(`([日月火水木金土])曜(?:日)?`)
	clockRE     = regexp.MustCompile(`(\d{1,2}):(\d{2})`)
	clockJaRE   = regexp.MustCompile(`(\d{1,2})時(?:(\d{1,2})分)?`)
)

var weekdaysEn = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday, "tues": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday, "thur": time.Thursday, "thurs": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

var weekdaysJa = map[string]time.Weekday{
	"日": time.Sunday, "月": time.Monday, "火": time.Tuesday, "水": time.Wednesday,
	"木": time.Thursday, "金": time.Friday, "土": time.Saturday,
}

// Resolver 将日期表达式规范化为日历值。不读取系统时钟，参考时间由调用方传入
type Resolver struct {
	defaultTime Clock
}

// NewResolver 创建日期解析器，defaultTime 为 datetime 精度下缺省的时刻
func NewResolver(defaultTime Clock) *Resolver {
	return &Resolver{defaultTime: defaultTime}
}

// DefaultTime 返回缺省时刻
func (r *Resolver) DefaultTime() Clock { return r.defaultTime }

// Resolution 一次成功的解析
type Resolution struct {
	// Time 解析结果，位于 now 的时区
	Time time.Time
	// HasTime 表达式中是否给出了时间
	HasTime bool
}

// ResolveTime 解析 expr；没有任何规则命中时 ok 为 false（这是正常结果，不是错误）
func (r *Resolver) ResolveTime(expr string, now time.Time) (Resolution, bool) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return Resolution{}, false
	}
	day, ok := resolveDay(expr, now)
	if !ok {
		return Resolution{}, false
	}
	clock, hasTime := findClock(expr)
	if !hasTime {
		return Resolution{Time: day}, true
	}
	t := time.Date(day.Year(), day.Month(), day.Day(), clock.Hour, clock.Minute, 0, 0, now.Location())
	return Resolution{Time: t, HasTime: true}, true
}

// Resolve 解析并按精度格式化：
// date 只输出日期；datetime 总是带时间（缺省用默认时刻）；auto 给出时间才带
func (r *Resolver) Resolve(expr string, now time.Time, precision model.Precision) (model.Value, bool) {
	res, ok := r.ResolveTime(expr, now)
	if !ok {
		return model.Value{}, false
	}
	switch precision {
	case model.PrecisionDateTime:
		t := res.Time
		if !res.HasTime {
			t = time.Date(t.Year(), t.Month(), t.Day(), r.defaultTime.Hour, r.defaultTime.Minute, 0, 0, t.Location())
		}
		return model.Date(t.Format(DateTimeLayout), true), true
	case model.PrecisionAuto:
		if res.HasTime {
			return model.Date(res.Time.Format(DateTimeLayout), true), true
		}
		return model.Date(res.Time.Format(DateLayout), false), true
	default:
		return model.Date(res.Time.Format(DateLayout), false), true
	}
}

// resolveDay 按顺序尝试各日期规则，第一个命中的生效
func resolveDay(expr string, now time.Time) (time.Time, bool) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch {
	case todayRE.MatchString(expr):
		return today, true
	case tomorrowRE.MatchString(expr):
		return today.AddDate(0, 0, 1), true
	case nextWeekRE.MatchString(expr):
		return today.AddDate(0, 0, 7), true
	case nextMonthRE.MatchString(expr):
		return time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, now.Location()), true
	}

	if m := isoDateRE.FindStringSubmatch(expr); m != nil {
		return calendarDate(atoi(m[1]), atoi(m[2]), atoi(m[3]), now.Location())
	}
	if m := monthDayRE.FindStringSubmatch(expr); m != nil {
		return calendarDate(now.Year(), atoi(m[1]), atoi(m[2]), now.Location())
	}
	if m := daysLaterRE.FindStringSubmatch(expr); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return time.Time{}, false
		}
		return today.AddDate(0, 0, n), true
	}
	if wd, ok := findWeekday(expr); ok {
		return today.AddDate(0, 0, daysUntil(now.Weekday(), wd)), true
	}
	return time.Time{}, false
}

// daysUntil 到下一个 target 的天数，严格在今天之后（同一天则为 7）
func daysUntil(from, target time.Weekday) int {
	offset := (int(target) - int(from) + 7) % 7
	if offset == 0 {
		return 7
	}
	return offset
}

func findWeekday(expr string) (time.Weekday, bool) {
	if m := weekdayEnRE.FindStringSubmatch(expr); m != nil {
		wd, ok := weekdaysEn[strings.ToLower(m[1])]
		return wd, ok
	}
	if m := weekdayJaRE.FindStringSubmatch(expr); m != nil {
		wd, ok := weekdaysJa[m[1]]
		return wd, ok
	}
	return 0, false
}

// findClock 查找 HH:MM 或 H時M分；不合法的时刻视为没有给出
func findClock(expr string) (Clock, bool) {
	if m := clockRE.FindStringSubmatch(expr); m != nil {
		return clockFrom(m[1], m[2])
	}
	if m := clockJaRE.FindStringSubmatch(expr); m != nil {
		minute := m[2]
		if minute == "" {
			minute = "0"
		}
		return clockFrom(m[1], minute)
	}
	return Clock{}, false
}

func clockFrom(hour, minute string) (Clock, bool) {
	h, m := atoi(hour), atoi(minute)
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return Clock{}, false
	}
	return Clock{Hour: h, Minute: m}, true
}

// calendarDate 构造日期，拒绝 2/30 这类会被 time.Date 进位的日期
func calendarDate(year, month, day int, loc *time.Location) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	if t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return n
}
