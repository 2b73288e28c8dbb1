package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Normalize 规范化输入文本：NFC 合成、全角 ASCII 折叠为半角（：→: １２→12），
// 各类 Unicode 空白统一为半角空格，并去掉首尾空白
func Normalize(s string) string {
	s = norm.NFC.String(s)
	s = width.Fold.String(s)
	s = strings.Map(func(r rune) rune {
		if r != '\n' && unicode.IsSpace(r) {
			return ' '
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}

// FirstWord 返回第一个空白或冒号之前的部分
func FirstWord(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == ':' || r == '：'
	}); i >= 0 {
		return s[:i]
	}
	return s
}
