package research

import (
	"keyword-scout/internal/present"
	"keyword-scout/pkg/naver"
	"keyword-scout/pkg/scoring"
)

const (
	blogShare = 0.6
	cafeShare = 0.4

	relatedLimit = 20
	trendWindow  = 90
)

// GraphData is the trend series split into chart columns.
type GraphData struct {
	Dates  []string  `json:"dates"`
	Ratios []float64 `json:"ratios"`
}

// TrendSummary is the search trend part of a report.
type TrendSummary struct {
	GraphData   GraphData `json:"graphData"`
	LatestRatio float64   `json:"latestRatio"`
	Period      string    `json:"period"`
}

// ContentStats describes one content channel (blog or cafe).
type ContentStats struct {
	Total           int          `json:"total"`
	RecentPosts     []naver.Post `json:"recentPosts"`
	MonthlyEstimate float64      `json:"monthlyEstimate"`
}

// RelatedKeyword is a keywordstool row other than the researched keyword.
type RelatedKeyword struct {
	Keyword             string `json:"keyword"`
	MonthlySearchVolume int    `json:"monthlySearchVolume"`
	PCCount             int    `json:"monthlyPcQcCnt"`
	MobileCount         int    `json:"monthlyMobileQcCnt"`
	CompetitionIndex    string `json:"compIdx"`
}

// Report is everything /api/search returns for one keyword.
type Report struct {
	Keyword              string                    `json:"keyword"`
	SearchTrend          TrendSummary              `json:"searchTrend"`
	SearchVolume         *scoring.SearchVolume     `json:"searchVolume"`
	Blog                 ContentStats              `json:"blog"`
	Cafe                 ContentStats              `json:"cafe"`
	TotalContentCount    int                       `json:"totalContentCount"`
	MonthlyEstimates     scoring.EstimationResult  `json:"monthlyEstimates"`
	FinalMonthlyEstimate float64                   `json:"finalMonthlyEstimate"`
	Result               scoring.OpportunityResult `json:"result"`
	Analysis             present.Analysis          `json:"analysis"`
	RelatedKeywords      []RelatedKeyword          `json:"relatedKeywords"`
	LongtailKeywords     []string                  `json:"longtailKeywords"`
	DataType             scoring.Basis             `json:"dataType"`
	Cached               bool                      `json:"cached"`
}

func summarizeTrend(trend scoring.TrendSeries) TrendSummary {
	summary := TrendSummary{
		GraphData: GraphData{Dates: make([]string, 0, len(trend)), Ratios: trend.Ratios()},
		Period:    "N/A",
	}
	for _, p := range trend {
		summary.GraphData.Dates = append(summary.GraphData.Dates, p.Period)
	}
	if len(trend) > 0 {
		summary.LatestRatio = trend.Latest()
		summary.Period = trend[len(trend)-1].Period
	}
	return summary
}

func channel(result *naver.SearchResult, share, final float64) ContentStats {
	stats := ContentStats{RecentPosts: []naver.Post{}}
	if result != nil {
		stats.Total = result.Total
		if result.Posts != nil {
			stats.RecentPosts = result.Posts
		}
	}
	if final > 0 {
		stats.MonthlyEstimate = scoring.Round1(final * share)
	}
	return stats
}

func relatedKeywords(stats []naver.KeywordStat, keyword string) []RelatedKeyword {
	rows := naver.RelatedOf(stats, keyword, relatedLimit)
	related := make([]RelatedKeyword, 0, len(rows))
	for _, r := range rows {
		comp := r.CompetitionIndex
		if comp == "" {
			comp = "N/A"
		}
		related = append(related, RelatedKeyword{
			Keyword:             r.Keyword,
			MonthlySearchVolume: r.MonthlySearches(),
			PCCount:             r.PCCount,
			MobileCount:         r.MobileCount,
			CompetitionIndex:    comp,
		})
	}
	return related
}
