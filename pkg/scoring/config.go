package scoring

import (
	"errors"
	"fmt"
)

// Weights is the weight table of the Aggregator.
type Weights struct {
	TrendWeighted     float64 `mapstructure:"trend_weighted" json:"trend_weighted"`
	VolumeRatio       float64 `mapstructure:"volume_ratio" json:"volume_ratio"`
	LifecycleMaturity float64 `mapstructure:"lifecycle_maturity" json:"lifecycle_maturity"`
	RecencySampling   float64 `mapstructure:"recency_sampling" json:"recency_sampling"`
}

// For returns the weight of a method; unknown methods weigh 0.
func (w Weights) For(name MethodName) float64 {
	switch name {
	case MethodTrendWeighted:
		return w.TrendWeighted
	case MethodVolumeRatio:
		return w.VolumeRatio
	case MethodLifecycleMaturity:
		return w.LifecycleMaturity
	case MethodRecencySampling:
		return w.RecencySampling
	default:
		return 0
	}
}

// Config holds the tunable constants of the engine. The defaults are
// provisional product values; change them only with product sign-off.
type Config struct {
	Weights Weights `mapstructure:"weights"`
	// FallbackMonths spreads the total content count evenly when nothing
	// better is known (60 = five years).
	FallbackMonths float64 `mapstructure:"fallback_months"`
	// VolumeRatio is monthly searches per newly published post.
	VolumeRatio        float64 `mapstructure:"volume_ratio"`
	MinLifecycleMonths float64 `mapstructure:"min_lifecycle_months"`
	MaxLifecycleMonths float64 `mapstructure:"max_lifecycle_months"`
}

func DefaultConfig() Config {
	return Config{
		Weights: Weights{
			TrendWeighted:     0.4,
			VolumeRatio:       0.3,
			LifecycleMaturity: 0.3,
			RecencySampling:   0.0,
		},
		FallbackMonths:     60,
		VolumeRatio:        50,
		MinLifecycleMonths: 12,
		MaxLifecycleMonths: 72,
	}
}

func (c Config) Validate() error {
	var errs []error
	for _, name := range MethodNames() {
		if w := c.Weights.For(name); w < 0 {
			errs = append(errs, fmt.Errorf("weight for %s must not be negative: %v", name, w))
		}
	}
	if c.FallbackMonths <= 0 {
		errs = append(errs, fmt.Errorf("fallback_months must be positive: %v", c.FallbackMonths))
	}
	if c.VolumeRatio <= 0 {
		errs = append(errs, fmt.Errorf("volume_ratio must be positive: %v", c.VolumeRatio))
	}
	if c.MinLifecycleMonths <= 0 || c.MaxLifecycleMonths < c.MinLifecycleMonths {
		errs = append(errs, fmt.Errorf("lifecycle months must satisfy 0 < min <= max, got %v..%v",
			c.MinLifecycleMonths, c.MaxLifecycleMonths))
	}
	return errors.Join(errs...)
}
