package bond

import "sort"

// Curve is a zero-rate term structure: continuously-compounded zero rates by
// term in years. Rates between pillars interpolate linearly; beyond the
// first or last pillar the curve is flat.
type Curve struct {
	terms []float64
	rates []float64
}

// NewCurve builds a curve from term/rate pillars; the pillars are sorted by
// term.
func NewCurve(points map[float64]float64) *Curve {
	c := &Curve{
		terms: make([]float64, 0, len(points)),
		rates: make([]float64, 0, len(points)),
	}
	for t := range points {
		c.terms = append(c.terms, t)
	}
	sort.Float64s(c.terms)
	for _, t := range c.terms {
		c.rates = append(c.rates, points[t])
	}
	return c
}

// Len returns the number of pillars.
func (c *Curve) Len() int { return len(c.terms) }

// Rate returns the zero rate for a term in years.
func (c *Curve) Rate(term float64) float64 {
	n := len(c.terms)
	if n == 0 {
		return 0
	}
	if term <= c.terms[0] {
		return c.rates[0]
	}
	if term >= c.terms[n-1] {
		return c.rates[n-1]
	}
	i := sort.SearchFloat64s(c.terms, term)
	// term lies strictly between pillars i-1 and i.
	t0, t1 := c.terms[i-1], c.terms[i]
	r0, r1 := c.rates[i-1], c.rates[i]
	return r0 + (r1-r0)*(term-t0)/(t1-t0)
}
