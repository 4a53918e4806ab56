package research

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"keyword-scout/pkg/naver"
	"keyword-scout/pkg/scoring"
	"keyword-scout/pkg/storage"
)

type fakeNaver struct {
	stats    []naver.KeywordStat
	statsErr error
	trend    scoring.TrendSeries
	trendErr error
	blog     *naver.SearchResult
	cafe     *naver.SearchResult
	err      error

	calls      atomic.Int32
	start, end time.Time
}

func (f *fakeNaver) KeywordTool(context.Context, string) ([]naver.KeywordStat, error) {
	f.calls.Add(1)
	return f.stats, f.statsErr
}

func (f *fakeNaver) SearchTrend(_ context.Context, _ string, start, end time.Time) (scoring.TrendSeries, error) {
	f.calls.Add(1)
	f.start, f.end = start, end
	return f.trend, f.trendErr
}

func (f *fakeNaver) Blog(context.Context, string) (*naver.SearchResult, error) {
	f.calls.Add(1)
	return f.blog, f.err
}

func (f *fakeNaver) Cafe(context.Context, string) (*naver.SearchResult, error) {
	f.calls.Add(1)
	return f.cafe, f.err
}

type fixedLongtail []string

func (l fixedLongtail) Longtail(context.Context, string) []string {
	return l
}

func newFake() *fakeNaver {
	return &fakeNaver{
		stats: []naver.KeywordStat{
			{Keyword: "캠핑", PCCount: 1000, MobileCount: 2000, CompetitionIndex: "높음"},
			{Keyword: "캠핑용품", PCCount: 300, MobileCount: 700},
			{Keyword: "캠 핑", PCCount: 1, MobileCount: 1},
		},
		trend: scoring.TrendSeries{
			{Period: "2024-01", Ratio: 40},
			{Period: "2024-02", Ratio: 60},
			{Period: "2024-03", Ratio: 80},
		},
		blog: &naver.SearchResult{Total: 600, Posts: []naver.Post{{Title: "캠핑 후기", Date: "2024-03-01"}}},
		cafe: &naver.SearchResult{Total: 400},
	}
}

func newService(f *fakeNaver, cache storage.Cache) *Service {
	svc := NewService(Dependencies{
		Trend:    f,
		Search:   f,
		Ads:      f,
		Longtail: fixedLongtail{"캠핑 초보 준비물"},
		Cache:    cache,
		CacheTTL: time.Hour,
	}, nil)
	svc.now = func() time.Time { return time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestAnalyzeWithSearchVolume(t *testing.T) {
	f := newFake()
	svc := newService(f, nil)

	report, err := svc.Analyze(context.Background(), "  캠핑 ", language.Korean)
	require.NoError(t, err)

	assert.Equal(t, "캠핑", report.Keyword)
	assert.Equal(t, scoring.BasisVolume, report.DataType)
	require.NotNil(t, report.SearchVolume)
	assert.Equal(t, 3000, report.SearchVolume.Total())
	assert.Equal(t, 1000, report.TotalContentCount)

	want := scoring.NewEngine(scoring.DefaultConfig()).Evaluate(scoring.Signals{
		Trend: f.trend, Volume: report.SearchVolume, ContentCount: 1000,
	})
	assert.Equal(t, want.FinalEstimate, report.FinalMonthlyEstimate)
	assert.Equal(t, want.Opportunity, report.Result)
	assert.Len(t, report.MonthlyEstimates, 4)

	assert.Equal(t, scoring.Round1(report.FinalMonthlyEstimate*0.6), report.Blog.MonthlyEstimate)
	assert.Equal(t, scoring.Round1(report.FinalMonthlyEstimate*0.4), report.Cafe.MonthlyEstimate)
	assert.Len(t, report.Blog.RecentPosts, 1)
	assert.NotNil(t, report.Cafe.RecentPosts)

	assert.Equal(t, []string{"2024-01", "2024-02", "2024-03"}, report.SearchTrend.GraphData.Dates)
	assert.Equal(t, 80.0, report.SearchTrend.LatestRatio)
	assert.Equal(t, "2024-03", report.SearchTrend.Period)

	require.Len(t, report.RelatedKeywords, 1)
	assert.Equal(t, "캠핑용품", report.RelatedKeywords[0].Keyword)
	assert.Equal(t, 1000, report.RelatedKeywords[0].MonthlySearchVolume)
	assert.Equal(t, "N/A", report.RelatedKeywords[0].CompetitionIndex)
	assert.Equal(t, []string{"캠핑 초보 준비물"}, report.LongtailKeywords)

	assert.Equal(t, "3,000", report.Analysis.Demand)
	assert.Equal(t, "1,000개", report.Analysis.ContentCount)
	assert.False(t, report.Cached)

	assert.Equal(t, 90*24*time.Hour, f.end.Sub(f.start))
}

func TestAnalyzeFallsBackToTrend(t *testing.T) {
	f := newFake()
	f.stats = nil
	f.statsErr = fmt.Errorf("keywordstool: %w", naver.ErrMissingCredentials)
	svc := newService(f, nil)

	report, err := svc.Analyze(context.Background(), "캠핑", language.English)
	require.NoError(t, err)

	assert.Equal(t, scoring.BasisTrend, report.DataType)
	assert.Nil(t, report.SearchVolume)
	assert.NotNil(t, report.RelatedKeywords)
	assert.Empty(t, report.RelatedKeywords)
	assert.Equal(t, "80%", report.Analysis.Demand)
	assert.Equal(t, "1,000 posts", report.Analysis.ContentCount)
}

func TestAnalyzeDegradesWhenEverythingFails(t *testing.T) {
	boom := errors.New("upstream down")
	f := &fakeNaver{statsErr: boom, trendErr: boom, err: boom}
	svc := newService(f, nil)

	report, err := svc.Analyze(context.Background(), "캠핑", language.Korean)
	require.NoError(t, err)

	assert.Equal(t, 0, report.TotalContentCount)
	assert.Equal(t, scoring.InsufficientData, report.Result.Score)
	assert.Equal(t, scoring.GradeNA, report.Result.Grade)
	assert.Equal(t, "N/A", report.SearchTrend.Period)
	assert.NotNil(t, report.SearchTrend.GraphData.Dates)
	assert.NotNil(t, report.Blog.RecentPosts)
	assert.Equal(t, 0.0, report.Blog.MonthlyEstimate)
	assert.Equal(t, "데이터 부족", report.Analysis.Score)
}

func TestAnalyzeUsesCache(t *testing.T) {
	cache := storage.NewMemoryCache(16, time.Minute)
	defer cache.Close()

	f := newFake()
	svc := newService(f, cache)

	first, err := svc.Analyze(context.Background(), "캠핑", language.Korean)
	require.NoError(t, err)
	calls := f.calls.Load()
	assert.Equal(t, int32(5), calls)

	second, err := svc.Analyze(context.Background(), "캠핑", language.English)
	require.NoError(t, err)
	assert.Equal(t, calls, f.calls.Load())
	assert.True(t, second.Cached)
	assert.Equal(t, first.Result, second.Result)
	assert.Equal(t, first.MonthlyEstimates, second.MonthlyEstimates)
	assert.Equal(t, "1,000 posts", second.Analysis.ContentCount)
}

func TestAnalyzeRejectsBlankKeyword(t *testing.T) {
	svc := newService(newFake(), nil)
	_, err := svc.Analyze(context.Background(), "   ", language.Korean)
	assert.ErrorIs(t, err, ErrEmptyKeyword)
}

func TestAnalyzeWithoutCollaborators(t *testing.T) {
	svc := NewService(Dependencies{}, nil)
	report, err := svc.Analyze(context.Background(), "캠핑", language.Korean)
	require.NoError(t, err)
	assert.Equal(t, scoring.BasisTrend, report.DataType)
	assert.Equal(t, []string{}, report.LongtailKeywords)
}

func TestAnalyzeCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc := newService(newFake(), nil)
	_, err := svc.Analyze(ctx, "캠핑", language.Korean)
	assert.ErrorIs(t, err, context.Canceled)
}
