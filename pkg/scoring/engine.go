package scoring

import (
	"fmt"

	"keyword-scout/pkg/logger"
)

// Engine runs the estimators, the aggregator and the scorer with one
// immutable configuration.
type Engine struct {
	cfg     Config
	methods []Method
	log     *logger.Logger
}

// NewEngine builds an engine with the default estimators. An invalid
// configuration falls back to DefaultConfig.
func NewEngine(cfg Config) *Engine {
	log := logger.GetLogger().WithField("component", "scoring")
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Warn("Invalid scoring config, using defaults")
		cfg = DefaultConfig()
	}
	return NewEngineWithMethods(cfg, DefaultMethods(cfg), log)
}

// NewEngineWithMethods builds an engine with an explicit estimator set.
func NewEngineWithMethods(cfg Config, methods []Method, log *logger.Logger) *Engine {
	if log == nil {
		log = logger.GetLogger().WithField("component", "scoring")
	}
	return &Engine{cfg: cfg, methods: methods, log: log}
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Aggregate runs every method and combines the positive estimates into a
// weighted average. It always returns a finite estimate >= 0.
func (e *Engine) Aggregate(s Signals) Aggregation {
	results := make(EstimationResult, len(e.methods))
	for _, name := range MethodNames() {
		results[name] = Unavailable
	}

	var weightedSum, totalWeight float64
	for _, m := range e.methods {
		est := e.runMethod(m, s)
		if est.Available {
			est.Value = round(est.Value, 1)
		}
		results[m.Name] = est

		weight := e.cfg.Weights.For(m.Name)
		if !est.Available || est.Value <= 0 || weight <= 0 {
			continue
		}
		weightedSum += est.Value * weight
		totalWeight += weight
	}

	if totalWeight == 0 {
		fallback := e.fallbackMonthly(s.ContentCount)
		e.log.WithFields(map[string]interface{}{
			"content_count": s.ContentCount,
			"fallback":      fallback,
		}).Debug("No estimator contributed, using flat average")
		return Aggregation{Estimates: results, FinalEstimate: fallback, Fallback: true}
	}

	final := round(weightedSum/totalWeight, 1)
	if !finite(final) || final < 0 {
		final = e.fallbackMonthly(s.ContentCount)
	}
	return Aggregation{Estimates: results, FinalEstimate: final}
}

// runMethod converts panics and out-of-contract values into Unavailable.
func (e *Engine) runMethod(m Method, s Signals) (est Estimate) {
	defer func() {
		if r := recover(); r != nil {
			e.log.WithFields(map[string]interface{}{
				"method": m.Name,
				"panic":  fmt.Sprint(r),
			}).Warn("Estimator faulted, marking unavailable")
			est = Unavailable
		}
	}()

	est = m.Estimate(s)
	if est.Available && (!finite(est.Value) || est.Value < 0) {
		e.log.WithFields(map[string]interface{}{
			"method": m.Name,
			"value":  fmt.Sprint(est.Value),
		}).Warn("Estimator returned an invalid value, marking unavailable")
		return Unavailable
	}
	return est
}

func (e *Engine) fallbackMonthly(contentCount int) float64 {
	if contentCount <= 0 {
		return 0
	}
	return float64(contentCount) / e.cfg.FallbackMonths
}

// monthlyContent prefers the aggregated estimate and otherwise uses the flat
// average.
func (e *Engine) monthlyContent(contentCount int, monthlyEstimate float64) float64 {
	if monthlyEstimate > 0 && finite(monthlyEstimate) {
		return monthlyEstimate
	}
	return e.fallbackMonthly(contentCount)
}

// Evaluation bundles the aggregator and scorer output for one keyword.
type Evaluation struct {
	Aggregation
	Opportunity OpportunityResult `json:"analysis"`
}

// Evaluate aggregates and then scores with the volume branch when paid-search
// volume is present, the trend branch otherwise.
func (e *Engine) Evaluate(s Signals) Evaluation {
	agg := e.Aggregate(s)
	var result OpportunityResult
	if s.Volume != nil {
		result = e.ScoreWithVolume(*s.Volume, s.ContentCount, agg.FinalEstimate)
	} else {
		result = e.ScoreWithTrend(s.Trend, s.ContentCount, agg.FinalEstimate)
	}
	return Evaluation{Aggregation: agg, Opportunity: result}
}

// Round1 rounds half away from zero to one decimal, the precision estimates
// are reported with.
func Round1(v float64) float64 {
	return round(v, 1)
}
