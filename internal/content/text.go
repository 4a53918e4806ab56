package content

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

var hangulWord = regexp.MustCompile(`[가-힣]{2,4}`)

const metaDescriptionLimit = 150

// WordCount counts characters other than ASCII spaces, the way Korean
// blog platforms report length.
func WordCount(s string) int {
	return utf8.RuneCountInString(s) - strings.Count(s, " ")
}

// RelatedKeywords picks up to three frequent Hangul words (2 to 4
// syllables) from text, excluding keyword. A word must occur at least
// twice; ties keep first-seen order.
func RelatedKeywords(text, keyword string) []string {
	freq := make(map[string]int)
	var order []string
	for _, w := range hangulWord.FindAllString(text, -1) {
		if w == keyword {
			continue
		}
		if freq[w] == 0 {
			order = append(order, w)
		}
		freq[w]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return freq[order[i]] > freq[order[j]]
	})
	if len(order) > 5 {
		order = order[:5]
	}

	related := make([]string, 0, 3)
	for _, w := range order {
		if freq[w] >= 2 {
			related = append(related, w)
		}
		if len(related) == 3 {
			break
		}
	}
	return related
}

// MetaDescription builds an SEO description of at most 150 characters.
func MetaDescription(title, keyword string) string {
	desc := fmt.Sprintf("%s에 대한 완벽 가이드. %s... 자세한 정보와 실용적인 팁을 확인하세요.", keyword, truncateRunes(title, 50))
	return truncateRunes(desc, metaDescriptionLimit)
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// decodeJSON parses a model reply that may be wrapped in a markdown code
// fence.
func decodeJSON(raw string, dest interface{}) error {
	clean := strings.TrimSpace(raw)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	clean = strings.TrimSpace(clean)
	if start, end := strings.Index(clean, "{"), strings.LastIndex(clean, "}"); start > 0 && end > start {
		clean = clean[start : end+1]
	}
	return json.Unmarshal([]byte(clean), dest)
}

func nonEmpty(values []string) []string {
	out := values[:0]
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
