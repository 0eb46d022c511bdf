package instrument

import (
	"math"
	"slices"

	"github.com/quantfolio/quantfolio"
	"github.com/quantfolio/quantfolio/bond"
)

// CurveHistory is a date-keyed series of term-structure snapshots. Looking
// up a term at a date uses the latest curve on or before that date, so a
// portfolio valued mid-week reads Friday's curve the way it reads Friday's
// prices.
type CurveHistory struct {
	dates  []quantfolio.Date
	curves []*bond.Curve
}

// Set records the curve for the date, replacing any existing snapshot.
func (h *CurveHistory) Set(on quantfolio.Date, c *bond.Curve) {
	i, found := slices.BinarySearchFunc(h.dates, on, quantfolio.Date.Compare)
	if found {
		h.curves[i] = c
		return
	}
	h.dates = slices.Insert(h.dates, i, on)
	h.curves = slices.Insert(h.curves, i, c)
}

// Zero returns the zero rate at the term from the latest curve on or
// before the date, NaN when no curve has been recorded yet.
func (h *CurveHistory) Zero(on quantfolio.Date, term float64) float64 {
	i, found := slices.BinarySearchFunc(h.dates, on, quantfolio.Date.Compare)
	if !found {
		i--
	}
	if i < 0 {
		return math.NaN()
	}
	return h.curves[i].Rate(term)
}
