package bond

import (
	"fmt"
	"math"
	"time"
)

const (
	spreadTolerance = 1e-12
	spreadMaxIter   = 100
	spreadFloor     = -0.20
	spreadCeiling   = 1.00
)

// ZeroRate gives the benchmark zero rate (continuous compounding) for a term
// in years. *Curve satisfies it; callers may pass any term structure.
type ZeroRate func(term float64) float64

// ZSpread solves for the constant spread s over the benchmark zero curve
// that reprices the cashflows to the target dirty price:
//
//	target = Σ CF_k · exp(−(z(t_k)+s)·t_k)
func ZSpread(target float64, settlement time.Time, cfs []Cashflow, zero ZeroRate) (float64, error) {
	return solveSpread(target, settlement, cfs, func(t float64) float64 {
		return math.Exp(-zero(t) * t)
	})
}

// DiscountFunc is a discount factor for a term in years.
type DiscountFunc func(term float64) float64

// SpreadOverDiscount solves for the constant continuously-compounded spread
// s over an arbitrary discount function:
//
//	target = Σ CF_k · D(t_k) · exp(−s·t_k)
//
// With D built from a benchmark curve this is the z-spread; with D built
// from a calibrated short-rate model it is the basis of the OAS.
func SpreadOverDiscount(target float64, settlement time.Time, cfs []Cashflow, disc DiscountFunc) (float64, error) {
	return solveSpread(target, settlement, cfs, disc)
}

func solveSpread(target float64, settlement time.Time, cfs []Cashflow, disc DiscountFunc) (float64, error) {
	if len(cfs) == 0 {
		return 0, fmt.Errorf("spread: no cashflows after settlement")
	}
	if target <= 0 {
		return 0, fmt.Errorf("spread: target price must be positive, got %v", target)
	}

	price := func(s float64) (p, dPds float64) {
		for _, cf := range cfs {
			if !cf.Date.After(settlement) {
				continue
			}
			t := yearFraction(settlement, cf.Date)
			v := cf.Amount() * disc(t) * math.Exp(-s*t)
			p += v
			dPds -= t * v
		}
		return p, dPds
	}

	s := 0.0
	for iter := 0; iter < spreadMaxIter; iter++ {
		p, dPds := price(s)
		f := p - target
		if math.Abs(f) < spreadTolerance {
			return s, nil
		}
		if math.Abs(dPds) < 1e-15 {
			break
		}
		s = clamp(s-f/dPds, spreadFloor, spreadCeiling)
	}

	// Bisection fallback: price is monotonically decreasing in spread.
	lo, hi := spreadFloor, spreadCeiling
	for iter := 0; iter < 200; iter++ {
		mid := (lo + hi) / 2
		p, _ := price(mid)
		switch {
		case math.Abs(p-target) < spreadTolerance:
			return mid, nil
		case p > target:
			lo = mid
		default:
			hi = mid
		}
	}
	if hi-lo < 1e-10 {
		return (lo + hi) / 2, nil
	}
	return 0, fmt.Errorf("spread: did not converge for target %v", target)
}

// VasicekDiscount builds the zero-coupon discount function of a calibrated
// one-factor short-rate model (Vasicek/Hull-White closed form) with short
// rate r0, mean-reversion speed a and volatility sigma. The long-run mean is
// taken at r0; recalibrating it is the caller's concern.
//
//	B(t) = (1 − e^(−a·t)) / a
//	A(t) = exp((B(t) − t)·(r0 − σ²/(2a²)) − σ²·B(t)²/(4a))
//	P(t) = A(t) · e^(−B(t)·r0)
func VasicekDiscount(r0, a, sigma float64) DiscountFunc {
	return func(t float64) float64 {
		if t <= 0 {
			return 1
		}
		if a <= 0 {
			// Degenerate mean reversion: deterministic rate with volatility drag.
			return math.Exp(-r0*t + sigma*sigma*t*t*t/6)
		}
		b := (1 - math.Exp(-a*t)) / a
		lnA := (b-t)*(r0-sigma*sigma/(2*a*a)) - sigma*sigma*b*b/(4*a)
		return math.Exp(lnA - b*r0)
	}
}
