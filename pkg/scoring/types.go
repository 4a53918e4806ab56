// Package scoring estimates how many posts a keyword receives per month and
// turns that estimate plus a demand signal into an opportunity grade.
//
// Everything here is a pure function of its inputs. An Engine holds only
// immutable configuration and may be shared between goroutines.
package scoring

import (
	"encoding/json"
	"fmt"
	"math"
)

// TrendPoint is one period of a relative search-interest series (0..100).
type TrendPoint struct {
	Period string  `json:"period"`
	Ratio  float64 `json:"ratio"`
}

// TrendSeries is ordered chronologically, most recent last.
type TrendSeries []TrendPoint

// Ratios returns the ratio column.
func (ts TrendSeries) Ratios() []float64 {
	ratios := make([]float64, len(ts))
	for i, p := range ts {
		ratios[i] = p.Ratio
	}
	return ratios
}

// Latest returns the most recent ratio, or 0 for an empty series.
func (ts TrendSeries) Latest() float64 {
	if len(ts) == 0 {
		return 0
	}
	return ts[len(ts)-1].Ratio
}

// SearchVolume is the paid-search keyword tool record for one keyword.
type SearchVolume struct {
	PCCount          int     `json:"monthlyPcQcCnt"`
	MobileCount      int     `json:"monthlyMobileQcCnt"`
	AvgPCClicks      float64 `json:"monthlyAvePcClkCnt"`
	AvgMobileClicks  float64 `json:"monthlyAveMobileClkCnt"`
	CompetitionIndex string  `json:"compIdx"`
}

// Total is PC plus mobile monthly searches.
func (v SearchVolume) Total() int {
	return v.PCCount + v.MobileCount
}

// Signals are the raw inputs for one keyword. Volume is nil when paid-search
// data is unavailable.
type Signals struct {
	Trend        TrendSeries
	Volume       *SearchVolume
	ContentCount int
}

// MethodName identifies an estimation method.
type MethodName string

const (
	MethodTrendWeighted     MethodName = "trend_weighted"
	MethodVolumeRatio       MethodName = "volume_ratio"
	MethodLifecycleMaturity MethodName = "lifecycle_maturity"
	MethodRecencySampling   MethodName = "recency_sampling"
)

// MethodNames lists the methods every EstimationResult reports.
func MethodNames() []MethodName {
	return []MethodName{
		MethodTrendWeighted,
		MethodVolumeRatio,
		MethodLifecycleMaturity,
		MethodRecencySampling,
	}
}

// Estimate is a monthly publication estimate or the absence of one.
type Estimate struct {
	Value     float64
	Available bool
}

// Unavailable marks a method that had no usable input or faulted.
var Unavailable = Estimate{}

func Available(v float64) Estimate {
	return Estimate{Value: v, Available: true}
}

func (e Estimate) MarshalJSON() ([]byte, error) {
	if !e.Available {
		return []byte("null"), nil
	}
	return json.Marshal(e.Value)
}

func (e *Estimate) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*e = Unavailable
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*e = Available(v)
	return nil
}

// EstimationResult maps each method to its estimate.
type EstimationResult map[MethodName]Estimate

// Aggregation is the Aggregator output.
type Aggregation struct {
	Estimates     EstimationResult `json:"estimates"`
	FinalEstimate float64          `json:"finalEstimate"`
	// Fallback is true when no method contributed and the final estimate is
	// the flat content/FallbackMonths average.
	Fallback bool `json:"fallback"`
}

// MetricKind distinguishes real numbers from the sentinels a score or
// saturation can take.
type MetricKind int

const (
	MetricValue MetricKind = iota
	MetricInfinite
	MetricNotApplicable
	MetricInsufficientData
	MetricError
)

// Metric is a number or a sentinel.
type Metric struct {
	Kind  MetricKind
	Value float64
}

func Value(v float64) Metric {
	return Metric{Kind: MetricValue, Value: v}
}

var (
	Infinite         = Metric{Kind: MetricInfinite}
	NotApplicable    = Metric{Kind: MetricNotApplicable}
	InsufficientData = Metric{Kind: MetricInsufficientData}
	ErrorMetric      = Metric{Kind: MetricError}
)

// IsValue reports whether m holds a number.
func (m Metric) IsValue() bool {
	return m.Kind == MetricValue
}

// Sentinel returns the wire name of a sentinel, or "" for numbers.
func (m Metric) Sentinel() string {
	switch m.Kind {
	case MetricInfinite:
		return "infinite"
	case MetricNotApplicable:
		return "N/A"
	case MetricInsufficientData:
		return "insufficient_data"
	case MetricError:
		return "error"
	default:
		return ""
	}
}

func (m Metric) MarshalJSON() ([]byte, error) {
	if m.Kind == MetricValue {
		return json.Marshal(m.Value)
	}
	return json.Marshal(m.Sentinel())
}

func (m *Metric) UnmarshalJSON(data []byte) error {
	var v float64
	if err := json.Unmarshal(data, &v); err == nil {
		*m = Value(v)
		return nil
	}
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("metric must be a number or a sentinel name: %s", data)
	}
	for _, s := range []Metric{Infinite, NotApplicable, InsufficientData, ErrorMetric} {
		if s.Sentinel() == name {
			*m = s
			return nil
		}
	}
	return fmt.Errorf("unknown metric sentinel %q", name)
}

// Grade is the letter grade of an opportunity.
type Grade string

const (
	GradeAPlus Grade = "A+"
	GradeA     Grade = "A"
	GradeB     Grade = "B"
	GradeC     Grade = "C"
	GradeD     Grade = "D"
	GradeF     Grade = "F"
	GradeNA    Grade = "N/A"
)

// Rank orders grades from F (0) to A+ (5). N/A ranks -1.
func (g Grade) Rank() int {
	switch g {
	case GradeAPlus:
		return 5
	case GradeA:
		return 4
	case GradeB:
		return 3
	case GradeC:
		return 2
	case GradeD:
		return 1
	case GradeF:
		return 0
	default:
		return -1
	}
}

// Recommendation is a language-neutral advice code; internal/present turns
// it into display text.
type Recommendation string

const (
	RecBlueOcean        Recommendation = "blue_ocean"
	RecNoSearchVolume   Recommendation = "no_search_volume"
	RecNoTrendData      Recommendation = "insufficient_trend_data"
	RecLowTrend         Recommendation = "low_trend"
	RecComputationError Recommendation = "computation_error"

	RecVolumeExcellent Recommendation = "volume_excellent"
	RecGood            Recommendation = "good"
	RecModerate        Recommendation = "moderate"
	RecWorthTrying     Recommendation = "worth_trying"
	RecVolumeFierce    Recommendation = "volume_fierce"
	RecVolumeSaturated Recommendation = "volume_saturated"

	RecTrendExcellent Recommendation = "trend_excellent"
	RecTrendFierce    Recommendation = "trend_fierce"
	RecTrendSaturated Recommendation = "trend_saturated"
)

// Basis names the demand signal a result was computed from.
type Basis string

const (
	BasisVolume Basis = "realSearch"
	BasisTrend  Basis = "trendOnly"
)

// OpportunityResult is the scorer output. It is computed per request and
// never persisted.
type OpportunityResult struct {
	Score          Metric         `json:"opportunityScore"`
	Grade          Grade          `json:"grade"`
	Saturation     Metric         `json:"saturationPercent"`
	Recommendation Recommendation `json:"recommendation"`
	Basis          Basis          `json:"basis"`
	// MonthlyContent is the supply figure the score used.
	MonthlyContent float64 `json:"monthlyContent"`
	// Demand is total monthly searches (volume basis) or the latest trend ratio.
	Demand float64 `json:"demand"`
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
