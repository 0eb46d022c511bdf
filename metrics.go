package quantfolio

import (
	"fmt"
	"math"
)

// Metric identifies one of the value-weighted risk metrics a portfolio can
// report. Every metric is reduced by the same weighted-average contract;
// only the per-instrument capability call and its extra context vary.
type Metric int

const (
	MetricYTM Metric = iota
	MetricYTW
	MetricModDurationToMat
	MetricModDurationToWorst
	MetricModDurationToWorstRollingCall
	MetricConvexityToMat
	MetricConvexityToWorst
	MetricZSpreadToMat
	MetricZSpreadToWorst
	MetricZSpreadToWorstRollingCall
	MetricOAS
)

var metricNames = map[Metric]string{
	MetricYTM:                           "ytm",
	MetricYTW:                           "ytw",
	MetricModDurationToMat:              "mod_duration_to_mat",
	MetricModDurationToWorst:            "mod_duration_to_worst",
	MetricModDurationToWorstRollingCall: "mod_duration_to_worst_rolling_call",
	MetricConvexityToMat:                "convexity_to_mat",
	MetricConvexityToWorst:              "convexity_to_worst",
	MetricZSpreadToMat:                  "zspread_to_mat",
	MetricZSpreadToWorst:                "zspread_to_worst",
	MetricZSpreadToWorstRollingCall:     "zspread_to_worst_rolling_call",
	MetricOAS:                           "oas",
}

func (m Metric) String() string {
	if s, ok := metricNames[m]; ok {
		return s
	}
	return "unknown"
}

// AllMetrics lists every reportable metric in declaration order.
func AllMetrics() []Metric {
	all := make([]Metric, 0, len(metricNames))
	for m := MetricYTM; m <= MetricOAS; m++ {
		all = append(all, m)
	}
	return all
}

// ParseMetric parses a metric name as printed by Metric.String.
func ParseMetric(s string) (Metric, error) {
	for m, name := range metricNames {
		if name == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown metric: %q", s)
}

// capability invokes the metric on the instrument, probing for the matching
// optional interface. ok is false when the instrument lacks the capability.
func capability(sec Security, m Metric, on Date, ctx *Context) (v float64, ok bool) {
	switch m {
	case MetricYTM:
		if c, has := sec.(YieldToMaturity); has {
			return c.YTM(on, ctx), true
		}
	case MetricYTW:
		if c, has := sec.(YieldToWorst); has {
			return c.YTW(on, ctx), true
		}
	case MetricModDurationToMat:
		if c, has := sec.(ModDurationToMat); has {
			return c.ModDurationToMat(on, ctx), true
		}
	case MetricModDurationToWorst:
		if c, has := sec.(ModDurationToWorst); has {
			return c.ModDurationToWorst(on, ctx), true
		}
	case MetricModDurationToWorstRollingCall:
		if c, has := sec.(ModDurationToWorstRollingCall); has {
			return c.ModDurationToWorstRollingCall(on, ctx), true
		}
	case MetricConvexityToMat:
		if c, has := sec.(ConvexityToMat); has {
			return c.ConvexityToMat(on, ctx), true
		}
	case MetricConvexityToWorst:
		if c, has := sec.(ConvexityToWorst); has {
			return c.ConvexityToWorst(on, ctx), true
		}
	case MetricZSpreadToMat:
		if c, has := sec.(ZSpreadToMat); has {
			return c.ZSpreadToMat(on, ctx), true
		}
	case MetricZSpreadToWorst:
		if c, has := sec.(ZSpreadToWorst); has {
			return c.ZSpreadToWorst(on, ctx), true
		}
	case MetricZSpreadToWorstRollingCall:
		if c, has := sec.(ZSpreadToWorstRollingCall); has {
			return c.ZSpreadToWorstRollingCall(on, ctx), true
		}
	case MetricOAS:
		if c, has := sec.(OptionAdjustedSpreader); has {
			return c.OAS(on, ctx), true
		}
	}
	return 0, false
}

// Value materializes the snapshot at date and returns the total portfolio
// value with its per-name breakdown. The currency entry has unit value 1 by
// definition; a not-a-number unit value is substituted by zero with a
// diagnostic. Value fails only when no snapshot exists at or before the
// date.
func (p *Portfolio) Value(on Date) (float64, map[string]float64, error) {
	if err := p.CarryTo(on); err != nil {
		return 0, nil, err
	}
	pos, _ := p.positions.Get(on)

	values := make(map[string]float64, len(pos))
	var total float64
	for name, qty := range pos {
		unit := 1.0
		if name != p.currency {
			sec := p.securities.Resolve(name)
			if sec == nil {
				p.substitution(name, on, "value", "no instrument for held name")
				unit = 0
			} else {
				unit = sec.Value(on)
				if math.IsNaN(unit) {
					p.substitution(name, on, "value", "not-a-number unit value")
					unit = 0
				}
			}
		}
		values[name] = unit * qty.Float64()
		total += values[name]
	}
	return total, values, nil
}

// WeightedMetric is the generic value-weighted reduction behind every
// reported metric. It materializes the snapshot at date, weights each held
// name by its share of total value, and forwards ctx verbatim to each
// instrument's capability call. The currency's contribution is zero by
// definition. A missing instrument, a missing capability or a not-a-number
// result contributes zero with a diagnostic; such failures are local and
// never abort the aggregation.
//
// It fails with ErrNoPriorSnapshot when the date precedes the ledger and
// with ErrDegenerateValuation when total value is zero.
func (p *Portfolio) WeightedMetric(on Date, m Metric, ctx *Context) (float64, map[string]float64, error) {
	total, values, err := p.Value(on)
	if err != nil {
		return 0, nil, err
	}
	if total == 0 {
		return 0, nil, fmt.Errorf("%s at %s: %w", m, on, ErrDegenerateValuation)
	}
	if ctx == nil {
		ctx = &Context{}
	}

	results := make(map[string]float64, len(values))
	for name := range values {
		if name == p.currency {
			results[name] = 0
			continue
		}
		sec := p.securities.Resolve(name)
		if sec == nil {
			p.substitution(name, on, m.String(), "no instrument for held name")
			results[name] = 0
			continue
		}
		v, ok := capability(sec, m, on, ctx)
		if !ok {
			p.substitution(name, on, m.String(), "capability not implemented")
			results[name] = 0
			continue
		}
		if math.IsNaN(v) {
			p.substitution(name, on, m.String(), "not-a-number result")
			v = 0
		}
		results[name] = v
	}

	var weighted float64
	for name, v := range results {
		weighted += values[name] * v / total
	}
	return weighted, results, nil
}

// YTM reports the value-weighted yield to maturity.
func (p *Portfolio) YTM(on Date) (float64, map[string]float64, error) {
	return p.WeightedMetric(on, MetricYTM, nil)
}

// YTW reports the value-weighted yield to worst.
func (p *Portfolio) YTW(on Date) (float64, map[string]float64, error) {
	return p.WeightedMetric(on, MetricYTW, nil)
}

// ModDurationToMat reports the value-weighted modified duration to maturity.
func (p *Portfolio) ModDurationToMat(on Date) (float64, map[string]float64, error) {
	return p.WeightedMetric(on, MetricModDurationToMat, nil)
}

// ModDurationToWorst reports the value-weighted modified duration to worst.
func (p *Portfolio) ModDurationToWorst(on Date) (float64, map[string]float64, error) {
	return p.WeightedMetric(on, MetricModDurationToWorst, nil)
}

// ModDurationToWorstRollingCall reports the value-weighted modified duration
// to worst assuming the next call is exercised.
func (p *Portfolio) ModDurationToWorstRollingCall(on Date) (float64, map[string]float64, error) {
	return p.WeightedMetric(on, MetricModDurationToWorstRollingCall, nil)
}

// ConvexityToMat reports the value-weighted convexity to maturity.
func (p *Portfolio) ConvexityToMat(on Date) (float64, map[string]float64, error) {
	return p.WeightedMetric(on, MetricConvexityToMat, nil)
}

// ConvexityToWorst reports the value-weighted convexity to worst.
func (p *Portfolio) ConvexityToWorst(on Date) (float64, map[string]float64, error) {
	return p.WeightedMetric(on, MetricConvexityToWorst, nil)
}

// ZSpreadToMat reports the value-weighted z-spread to maturity over the
// given benchmark zero curve.
func (p *Portfolio) ZSpreadToMat(on Date, curve YieldCurve) (float64, map[string]float64, error) {
	return p.WeightedMetric(on, MetricZSpreadToMat, &Context{YieldCurve: curve})
}

// ZSpreadToWorst reports the value-weighted z-spread to worst over the given
// benchmark zero curve.
func (p *Portfolio) ZSpreadToWorst(on Date, curve YieldCurve) (float64, map[string]float64, error) {
	return p.WeightedMetric(on, MetricZSpreadToWorst, &Context{YieldCurve: curve})
}

// ZSpreadToWorstRollingCall reports the value-weighted z-spread to worst
// assuming the next call is exercised.
func (p *Portfolio) ZSpreadToWorstRollingCall(on Date, curve YieldCurve) (float64, map[string]float64, error) {
	return p.WeightedMetric(on, MetricZSpreadToWorstRollingCall, &Context{YieldCurve: curve})
}

// OAS reports the value-weighted option-adjusted spread, using the
// evaluation date's calibrated short-rate model parameters supplied by the
// caller.
func (p *Portfolio) OAS(on Date, model *ShortRateModel) (float64, map[string]float64, error) {
	return p.WeightedMetric(on, MetricOAS, &Context{Model: model})
}
