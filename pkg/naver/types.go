package naver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"keyword-scout/pkg/scoring"
)

// Post is one search hit with its date normalized to YYYY-MM-DD ("" when
// the upstream date is missing or unparseable).
type Post struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Link        string `json:"link"`
	Date        string `json:"date"`
}

// SearchResult is the total hit count plus the first page of posts.
type SearchResult struct {
	Total int    `json:"total"`
	Posts []Post `json:"posts"`
}

// KeywordStat is one keywordstool row.
type KeywordStat struct {
	Keyword          string  `json:"keyword"`
	PCCount          int     `json:"monthlyPcQcCnt"`
	MobileCount      int     `json:"monthlyMobileQcCnt"`
	AvgPCClicks      float64 `json:"monthlyAvePcClkCnt"`
	AvgMobileClicks  float64 `json:"monthlyAveMobileClkCnt"`
	CompetitionIndex string  `json:"compIdx"`
}

// MonthlySearches is PC plus mobile searches.
func (k KeywordStat) MonthlySearches() int {
	return k.PCCount + k.MobileCount
}

// Volume converts the row into scoring input.
func (k KeywordStat) Volume() *scoring.SearchVolume {
	return &scoring.SearchVolume{
		PCCount:          k.PCCount,
		MobileCount:      k.MobileCount,
		AvgPCClicks:      k.AvgPCClicks,
		AvgMobileClicks:  k.AvgMobileClicks,
		CompetitionIndex: k.CompetitionIndex,
	}
}

// VolumeOf returns the search volume of the first keywordstool row, which
// the API reserves for the hint keyword. It returns nil for no rows.
func VolumeOf(stats []KeywordStat) *scoring.SearchVolume {
	if len(stats) == 0 {
		return nil
	}
	return stats[0].Volume()
}

// RelatedOf returns up to limit rows other than keyword itself, compared
// case-insensitively after normalization.
func RelatedOf(stats []KeywordStat, keyword string, limit int) []KeywordStat {
	target := strings.ToLower(APIKeyword(keyword))
	related := make([]KeywordStat, 0, min(len(stats), limit))
	for _, s := range stats {
		if strings.ToLower(APIKeyword(s.Keyword)) == target {
			continue
		}
		related = append(related, s)
		if len(related) == limit {
			break
		}
	}
	return related
}

// flexNumber decodes numbers that the search ad API sometimes sends as
// strings, including the "< 10" bucket for low volumes.
type flexNumber float64

func (n *flexNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}
	if data[0] != '"' {
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return err
		}
		*n = flexNumber(f)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(s), "<"))
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		*n = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid numeric value %q: %w", s, err)
	}
	*n = flexNumber(f)
	return nil
}
