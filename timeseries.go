package quantfolio

import (
	"iter"
	"math"
)

// TimeSeries is a sparse, date-indexed series of float64 observations.
//
// It backs instrument price and cashflow histories and carries benchmark
// curves into metric calls. Missing observations read as NaN so that the
// aggregation layer's not-a-number substitution rules apply uniformly.
type TimeSeries struct {
	h history[float64]
}

// NewTimeSeries creates an empty time series.
func NewTimeSeries() *TimeSeries { return &TimeSeries{} }

// Len returns the number of observations.
func (ts *TimeSeries) Len() int { return ts.h.Len() }

// Set records an observation, overwriting any existing one at that date.
func (ts *TimeSeries) Set(on Date, v float64) { ts.h.Set(on, v) }

// Get returns the observation at 'on', or NaN when there is none.
func (ts *TimeSeries) Get(on Date) float64 {
	v, ok := ts.h.Get(on)
	if !ok {
		return math.NaN()
	}
	return v
}

// AsOf returns the observation at 'on' or the most recent one before it,
// NaN when the series has no observation at or before 'on'.
func (ts *TimeSeries) AsOf(on Date) float64 {
	_, v, ok := ts.h.AsOf(on)
	if !ok {
		return math.NaN()
	}
	return v
}

// Latest returns the date and value of the last observation.
// It returns a zero date and NaN when the series is empty.
func (ts *TimeSeries) Latest() (Date, float64) {
	on, v, ok := ts.h.Latest()
	if !ok {
		return Date{}, math.NaN()
	}
	return on, v
}

// Values returns an iterator over all observations in chronological order.
func (ts *TimeSeries) Values() iter.Seq2[Date, float64] { return ts.h.Values() }

// Between returns an iterator over observations with start < date <= end.
//
// This is the window the carry-forward accrual cares about: cashflows paid
// after the prior snapshot, up to and including the projected date.
func (ts *TimeSeries) Between(start, end Date) iter.Seq2[Date, float64] {
	return func(yield func(Date, float64) bool) {
		for on, v := range ts.h.Values() {
			if !on.After(start) {
				continue
			}
			if on.After(end) {
				return
			}
			if !yield(on, v) {
				return
			}
		}
	}
}

// Sum adds all observations with start < date <= end.
func (ts *TimeSeries) Sum(start, end Date) float64 {
	var total float64
	for _, v := range ts.Between(start, end) {
		total += v
	}
	return total
}
