package utils

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// Suggest 在候选命令词中模糊查找最接近 word 的一个；找不到或 word 为空时返回 ""
func Suggest(word string, candidates []string) string {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" || len(candidates) == 0 {
		return ""
	}
	lowered := make([]string, len(candidates))
	for i, c := range candidates {
		lowered[i] = strings.ToLower(c)
	}
	matches := fuzzy.Find(word, lowered)
	if len(matches) == 0 {
		return ""
	}
	best := candidates[matches[0].Index]
	if strings.EqualFold(best, word) {
		return ""
	}
	return best
}
