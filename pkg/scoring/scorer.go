package scoring

import (
	"fmt"
	"math"
)

type gradeBand struct {
	min            float64
	grade          Grade
	recommendation Recommendation
}

// Bands are ordered from the highest threshold down; the first band whose
// minimum the score reaches wins.
var (
	volumeBands = []gradeBand{
		{10, GradeAPlus, RecVolumeExcellent},
		{5, GradeA, RecGood},
		{2, GradeB, RecModerate},
		{1, GradeC, RecWorthTrying},
		{0.5, GradeD, RecVolumeFierce},
	}
	trendBands = []gradeBand{
		{20, GradeAPlus, RecTrendExcellent},
		{15, GradeA, RecGood},
		{10, GradeB, RecModerate},
		{6, GradeC, RecWorthTrying},
		{3, GradeD, RecTrendFierce},
	}
)

func gradeFor(score float64, bands []gradeBand, floor Recommendation) (Grade, Recommendation) {
	for _, b := range bands {
		if score >= b.min {
			return b.grade, b.recommendation
		}
	}
	return GradeF, floor
}

// GradeForVolumeScore grades a searches-per-post ratio.
func GradeForVolumeScore(score float64) Grade {
	g, _ := gradeFor(score, volumeBands, RecVolumeSaturated)
	return g
}

// GradeForTrendScore grades a trend-based score.
func GradeForTrendScore(score float64) Grade {
	g, _ := gradeFor(score, trendBands, RecTrendSaturated)
	return g
}

// ScoreWithVolume compares monthly searches with monthly new posts.
func (e *Engine) ScoreWithVolume(volume SearchVolume, contentCount int, monthlyEstimate float64) (result OpportunityResult) {
	total := float64(volume.Total())
	monthlyContent := e.monthlyContent(contentCount, monthlyEstimate)
	base := OpportunityResult{Basis: BasisVolume, MonthlyContent: monthlyContent, Demand: total}
	defer e.recoverScore(&result, base)

	if contentCount == 0 {
		base.Score = Infinite
		base.Grade = GradeAPlus
		base.Saturation = Value(0)
		base.Recommendation = RecBlueOcean
		return base
	}
	if total == 0 {
		base.Score = Value(0)
		base.Grade = GradeNA
		base.Saturation = NotApplicable
		base.Recommendation = RecNoSearchVolume
		return base
	}

	var score float64
	if monthlyContent > 0 {
		score = total / monthlyContent
	}
	saturation := monthlyContent / total * 100
	if !finite(score) || !finite(saturation) {
		return e.scoreError(base, fmt.Sprintf("non-finite volume score %v / saturation %v", score, saturation))
	}

	base.Grade, base.Recommendation = gradeFor(score, volumeBands, RecVolumeSaturated)
	base.Score = Value(round(score, 2))
	base.Saturation = Value(round(saturation, 1))
	return base
}

// ScoreWithTrend weighs the latest trend ratio against the order of
// magnitude of monthly new posts.
func (e *Engine) ScoreWithTrend(trend TrendSeries, contentCount int, monthlyEstimate float64) (result OpportunityResult) {
	if contentCount < 0 {
		contentCount = 0
	}
	trendRatio := trend.Latest()
	monthlyContent := e.monthlyContent(contentCount, monthlyEstimate)
	base := OpportunityResult{Basis: BasisTrend, MonthlyContent: monthlyContent, Demand: trendRatio}
	defer e.recoverScore(&result, base)

	if contentCount == 0 {
		base.Saturation = Value(0)
		if trendRatio > 0 {
			base.Score = Infinite
			base.Grade = GradeAPlus
			base.Recommendation = RecBlueOcean
		} else {
			base.Score = InsufficientData
			base.Grade = GradeNA
			base.Recommendation = RecNoTrendData
		}
		return base
	}
	if trendRatio <= 0 {
		base.Score = Value(0)
		base.Grade = GradeNA
		base.Saturation = NotApplicable
		base.Recommendation = RecLowTrend
		return base
	}

	contentDensity := math.Log10(math.Max(monthlyContent, 1))
	trendStrength := trendRatio / 10
	score := trendStrength / math.Max(contentDensity, 1) * 10
	saturation := math.Min(contentDensity/math.Max(trendStrength, 0.1)*20, 100)
	if !finite(score) || !finite(saturation) {
		return e.scoreError(base, fmt.Sprintf("non-finite trend score %v / saturation %v", score, saturation))
	}

	base.Grade, base.Recommendation = gradeFor(score, trendBands, RecTrendSaturated)
	base.Score = Value(round(score, 2))
	base.Saturation = Value(round(saturation, 1))
	return base
}

func (e *Engine) scoreError(base OpportunityResult, cause string) OpportunityResult {
	e.log.WithFields(map[string]interface{}{
		"basis": base.Basis,
		"cause": cause,
	}).Warn("Opportunity score could not be computed")
	if !finite(base.Demand) {
		base.Demand = 0
	}
	base.Score = ErrorMetric
	base.Grade = GradeNA
	base.Saturation = ErrorMetric
	base.Recommendation = RecComputationError
	return base
}

func (e *Engine) recoverScore(result *OpportunityResult, base OpportunityResult) {
	if r := recover(); r != nil {
		*result = e.scoreError(base, fmt.Sprint(r))
	}
}
