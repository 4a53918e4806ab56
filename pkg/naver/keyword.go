package naver

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// APIKeyword prepares a keyword for the Naver APIs: NFC composed, full-width
// ASCII folded and every whitespace rune removed.
func APIKeyword(keyword string) string {
	folded := width.Fold.String(norm.NFC.String(keyword))
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, folded)
}

// CacheKey is the lower-cased API form, so "Go Lang" and "golang" share an
// entry.
func CacheKey(keyword string) string {
	return strings.ToLower(APIKeyword(keyword))
}

// NormalizeDate converts the date formats the search APIs return into
// YYYY-MM-DD. Unknown formats yield "".
func NormalizeDate(raw string) string {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return ""
	case len(raw) >= 8 && isDigits(raw[:8]) && (len(raw) == 8 || len(raw) >= 12):
		return raw[:4] + "-" + raw[4:6] + "-" + raw[6:8]
	case strings.Contains(raw, "T"):
		return dashedDate(strings.SplitN(raw, "T", 2)[0])
	case strings.Contains(raw, "-"):
		return dashedDate(raw)
	default:
		return ""
	}
}

func dashedDate(s string) string {
	if len(s) < 10 {
		return ""
	}
	s = s[:10]
	if !isDigits(s[:4]) || s[4] != '-' || !isDigits(s[5:7]) || s[7] != '-' || !isDigits(s[8:10]) {
		return ""
	}
	return s
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
