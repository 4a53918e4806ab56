package naver

import (
	"context"
	"time"

	"keyword-scout/pkg/scoring"
)

// TrendClient reads relative search interest from the DataLab API.
type TrendClient interface {
	SearchTrend(ctx context.Context, keyword string, start, end time.Time) (scoring.TrendSeries, error)
}

// SearchClient reads blog and cafe search results.
type SearchClient interface {
	Blog(ctx context.Context, keyword string) (*SearchResult, error)
	Cafe(ctx context.Context, keyword string) (*SearchResult, error)
}

// AdClient reads keyword statistics from the search advertising API.
type AdClient interface {
	KeywordTool(ctx context.Context, keyword string) ([]KeywordStat, error)
}
