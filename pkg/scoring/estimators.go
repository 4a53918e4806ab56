package scoring

import "math"

// Content-count tiers used by the maturity heuristics.
const (
	earlyStageLimit   = 100_000
	trendMidLimit     = 500_000
	lifecycleMidLimit = 1_000_000

	trendMinMonths = 12.0
	trendMaxMonths = 72.0
	recentWindow   = 3
)

// Method is one named estimator. Estimate must be a pure function of its
// input; the engine isolates panics and non-finite results.
type Method struct {
	Name     MethodName
	Estimate func(Signals) Estimate
}

// DefaultMethods returns the four estimators parameterised by cfg.
func DefaultMethods(cfg Config) []Method {
	return []Method{
		{Name: MethodTrendWeighted, Estimate: func(s Signals) Estimate {
			return Available(TrendWeightedEstimate(s.Trend, s.ContentCount, cfg.FallbackMonths))
		}},
		{Name: MethodVolumeRatio, Estimate: func(s Signals) Estimate {
			return VolumeRatioEstimate(s.Volume, cfg.VolumeRatio)
		}},
		{Name: MethodLifecycleMaturity, Estimate: func(s Signals) Estimate {
			return Available(LifecycleEstimate(s.ContentCount, cfg.MinLifecycleMonths, cfg.MaxLifecycleMonths))
		}},
		{Name: MethodRecencySampling, Estimate: RecencySamplingEstimate},
	}
}

// TrendWeightedEstimate divides the content count by an assumed lifespan
// that stretches when interest is rising and shrinks when it is fading.
func TrendWeightedEstimate(trend TrendSeries, contentCount int, fallbackMonths float64) float64 {
	if len(trend) == 0 {
		return math.Max(float64(contentCount)/fallbackMonths, 0)
	}

	ratios := trend.Ratios()
	recent := ratios
	if len(recent) > recentWindow {
		recent = recent[len(recent)-recentWindow:]
	}
	currentTrend := mean(recent)
	averageTrend := mean(ratios)

	trendWeight := 1.0
	if averageTrend > 0 {
		trendWeight = currentTrend / averageTrend
	}

	effectiveMonths := clamp(trendBaseMonths(contentCount)*trendWeight, trendMinMonths, trendMaxMonths)
	return math.Max(float64(contentCount)/effectiveMonths, 0)
}

func trendBaseMonths(contentCount int) float64 {
	switch {
	case contentCount < earlyStageLimit:
		return 24
	case contentCount < trendMidLimit:
		return 48
	default:
		return 72
	}
}

// VolumeRatioEstimate assumes one new post per ratio monthly searches.
func VolumeRatioEstimate(volume *SearchVolume, ratio float64) Estimate {
	if volume == nil || volume.Total() <= 0 {
		return Unavailable
	}
	return Available(math.Max(float64(volume.Total())/ratio, 1))
}

// LifecycleEstimate spreads the content over a lifespan that is long for
// young keywords and short for saturated ones.
func LifecycleEstimate(contentCount int, minMonths, maxMonths float64) float64 {
	if contentCount <= 0 {
		return 0
	}

	var months float64
	switch {
	case contentCount < earlyStageLimit:
		months = maxMonths
	case contentCount < lifecycleMidLimit:
		months = (minMonths + maxMonths) / 2
	default:
		months = minMonths
	}
	return float64(contentCount) / months
}

// RecencySamplingEstimate is reserved for sampling publication dates of
// recent posts. It has no implementation and carries zero weight.
func RecencySamplingEstimate(Signals) Estimate {
	return Unavailable
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
