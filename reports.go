package quantfolio

import (
	"math"
	"sort"
)

// ValuationLine is one instrument's contribution to the portfolio value.
type ValuationLine struct {
	Security string
	Quantity Quantity
	Value    Money
	Weight   float64 // share of the total, 0 when the total is zero
}

// ValuationReport is the portfolio value at a date, broken down by
// instrument, largest position first.
type ValuationReport struct {
	Date     Date
	Currency string
	Total    Money
	Lines    []ValuationLine
}

// NewValuationReport values the portfolio at the date and breaks the total
// down per instrument.
func (p *Portfolio) NewValuationReport(on Date) (*ValuationReport, error) {
	total, values, err := p.Value(on)
	if err != nil {
		return nil, err
	}
	snapshot, err := p.Snapshot(on)
	if err != nil {
		return nil, err
	}

	report := &ValuationReport{
		Date:     on,
		Currency: p.currency,
		Total:    M(total, p.currency),
	}
	for _, name := range sortedNames(snapshot) {
		line := ValuationLine{
			Security: name,
			Quantity: snapshot[name],
			Value:    M(values[name], p.currency),
		}
		if total != 0 {
			line.Weight = values[name] / total
		}
		report.Lines = append(report.Lines, line)
	}
	sort.SliceStable(report.Lines, func(a, b int) bool {
		return math.Abs(report.Lines[a].Value.Float64()) > math.Abs(report.Lines[b].Value.Float64())
	})
	return report, nil
}

// MetricLine is one portfolio-level metric with its per-instrument
// contributions.
type MetricLine struct {
	Metric  Metric
	Value   float64
	PerName map[string]float64
}

// RiskReport aggregates a set of value-weighted metrics at a date.
type RiskReport struct {
	Date     Date
	Currency string
	Total    Money
	Metrics  []MetricLine
}

// NewRiskReport computes the requested metrics at the date. Metrics needing
// context inputs read them from ctx; a metric whose inputs are absent still
// appears, with every instrument contribution substituted to zero.
func (p *Portfolio) NewRiskReport(on Date, ctx *Context, metrics ...Metric) (*RiskReport, error) {
	if len(metrics) == 0 {
		metrics = AllMetrics()
	}
	total, _, err := p.Value(on)
	if err != nil {
		return nil, err
	}
	report := &RiskReport{
		Date:     on,
		Currency: p.currency,
		Total:    M(total, p.currency),
	}
	for _, m := range metrics {
		value, perName, err := p.WeightedMetric(on, m, ctx)
		if err != nil {
			return nil, err
		}
		report.Metrics = append(report.Metrics, MetricLine{Metric: m, Value: value, PerName: perName})
	}
	return report, nil
}
