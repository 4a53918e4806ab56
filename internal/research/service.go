// Package research collects the signals for a keyword from Naver, runs the
// scoring engine over them and assembles the search report.
package research

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/language"

	"keyword-scout/internal/present"
	"keyword-scout/pkg/logger"
	"keyword-scout/pkg/naver"
	"keyword-scout/pkg/scoring"
	"keyword-scout/pkg/storage"
	"keyword-scout/pkg/utils"
)

// ErrEmptyKeyword is returned for a blank keyword.
var ErrEmptyKeyword = errors.New("research: keyword is required")

const cachePrefix = "report:"

// LongtailSource suggests longtail keywords. It is expected to fall back on
// its own and never fail.
type LongtailSource interface {
	Longtail(ctx context.Context, keyword string) []string
}

// Dependencies are the collaborators of a Service. Any of them may be nil;
// the matching part of the report is then left empty.
type Dependencies struct {
	Trend    naver.TrendClient
	Search   naver.SearchClient
	Ads      naver.AdClient
	Longtail LongtailSource
	// Cache stores finished reports per normalized keyword.
	Cache    storage.Cache
	CacheTTL time.Duration
}

type Service struct {
	deps   Dependencies
	engine *scoring.Engine
	log    *logger.Logger
	now    func() time.Time
}

func NewService(deps Dependencies, engine *scoring.Engine) *Service {
	if engine == nil {
		engine = scoring.NewEngine(scoring.DefaultConfig())
	}
	return &Service{
		deps:   deps,
		engine: engine,
		log:    logger.GetLogger().WithField("component", "research"),
		now:    time.Now,
	}
}

// signals is the raw collector output for one keyword.
type signals struct {
	stats    []naver.KeywordStat
	trend    scoring.TrendSeries
	blog     *naver.SearchResult
	cafe     *naver.SearchResult
	longtail []string
}

func (s signals) contentCount() int {
	total := 0
	if s.blog != nil {
		total += s.blog.Total
	}
	if s.cafe != nil {
		total += s.cafe.Total
	}
	return total
}

// Analyze builds the report for keyword. Failing sources degrade to empty
// data; only a blank keyword or a cancelled context is an error.
func (s *Service) Analyze(ctx context.Context, keyword string, lang language.Tag) (*Report, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, ErrEmptyKeyword
	}

	key := cachePrefix + utils.KeyHash(naver.CacheKey(keyword))
	if report, ok := s.cached(ctx, key); ok {
		report.Keyword = keyword
		report.Analysis = present.Describe(report.Result, report.TotalContentCount, report.SearchVolume, lang)
		return report, nil
	}

	sig := s.collect(ctx, keyword)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	volume := naver.VolumeOf(sig.stats)
	contentCount := sig.contentCount()
	eval := s.engine.Evaluate(scoring.Signals{Trend: sig.trend, Volume: volume, ContentCount: contentCount})

	final := eval.FinalEstimate
	longtail := sig.longtail
	if longtail == nil {
		longtail = []string{}
	}
	report := &Report{
		Keyword:              keyword,
		SearchTrend:          summarizeTrend(sig.trend),
		SearchVolume:         volume,
		Blog:                 channel(sig.blog, blogShare, final),
		Cafe:                 channel(sig.cafe, cafeShare, final),
		TotalContentCount:    contentCount,
		MonthlyEstimates:     eval.Estimates,
		FinalMonthlyEstimate: final,
		Result:               eval.Opportunity,
		RelatedKeywords:      relatedKeywords(sig.stats, keyword),
		LongtailKeywords:     longtail,
		DataType:             eval.Opportunity.Basis,
	}

	s.store(ctx, key, report)
	report.Analysis = present.Describe(report.Result, contentCount, volume, lang)

	s.log.WithFields(map[string]interface{}{
		"keyword":  keyword,
		"key":      utils.ShortHash(naver.CacheKey(keyword)),
		"dataType": report.DataType,
		"grade":    report.Result.Grade,
		"content":  contentCount,
		"estimate": final,
	}).Info("Keyword analyzed")
	return report, nil
}

func (s *Service) collect(ctx context.Context, keyword string) signals {
	var (
		sig signals
		wg  sync.WaitGroup
	)
	run := func(fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn()
		}()
	}

	if s.deps.Ads != nil {
		run(func() {
			stats, err := s.deps.Ads.KeywordTool(ctx, keyword)
			s.logSourceError("keywordstool", keyword, err)
			sig.stats = stats
		})
	}
	if s.deps.Trend != nil {
		run(func() {
			end := s.now()
			start := end.AddDate(0, 0, -trendWindow)
			trend, err := s.deps.Trend.SearchTrend(ctx, keyword, start, end)
			s.logSourceError("datalab", keyword, err)
			sig.trend = trend
		})
	}
	if s.deps.Search != nil {
		run(func() {
			blog, err := s.deps.Search.Blog(ctx, keyword)
			s.logSourceError("blog", keyword, err)
			sig.blog = blog
		})
		run(func() {
			cafe, err := s.deps.Search.Cafe(ctx, keyword)
			s.logSourceError("cafe", keyword, err)
			sig.cafe = cafe
		})
	}
	if s.deps.Longtail != nil {
		run(func() {
			sig.longtail = s.deps.Longtail.Longtail(ctx, keyword)
		})
	}

	wg.Wait()
	return sig
}

func (s *Service) logSourceError(source, keyword string, err error) {
	if err == nil {
		return
	}
	log := s.log.WithFields(map[string]interface{}{"source": source, "keyword": keyword})
	if errors.Is(err, naver.ErrMissingCredentials) {
		log.Debug("Source not configured, skipping")
		return
	}
	log.WithError(err).Warn("Source failed, continuing without it")
}

func (s *Service) cached(ctx context.Context, key string) (*Report, bool) {
	if s.deps.Cache == nil {
		return nil, false
	}
	var report Report
	ok, err := storage.LoadJSON(ctx, s.deps.Cache, key, &report)
	if err != nil {
		s.log.WithError(err).WithField("key", key).Warn("Failed to read cached report")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	report.Cached = true
	return &report, true
}

func (s *Service) store(ctx context.Context, key string, report *Report) {
	if s.deps.Cache == nil {
		return
	}
	if err := storage.SaveJSON(ctx, s.deps.Cache, key, report, s.deps.CacheTTL); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("Failed to cache report")
	}
}
