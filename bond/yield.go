package bond

import (
	"fmt"
	"math"
	"time"
)

const (
	yieldTolerance = 1e-12
	yieldMaxIter   = 100
	yieldFloor     = -0.10
	yieldCeiling   = 1.00
)

// PriceFromYield returns the dirty price of the cashflows discounted at a
// single annually-compounded yield, ACT/365.
//
//	t_k   = yearFraction(settlement, cf_k)
//	price = Σ CF_k / (1+y)^t_k
func PriceFromYield(settlement time.Time, cfs []Cashflow, y float64) float64 {
	p, _ := priceAndDeriv(settlement, cfs, y)
	return p
}

// priceAndDeriv returns (price, dPrice/dy).
//
//	dP/dy = Σ −t_k · CF_k / (1+y)^(t_k+1)
func priceAndDeriv(settlement time.Time, cfs []Cashflow, y float64) (price, dPdy float64) {
	for _, cf := range cfs {
		if !cf.Date.After(settlement) {
			continue
		}
		t := yearFraction(settlement, cf.Date)
		df := math.Pow(1+y, -t)
		price += cf.Amount() * df
		dPdy -= t * cf.Amount() * df / (1 + y)
	}
	return price, dPdy
}

// Yield solves for the annually-compounded yield y such that the dirty price
// of the cashflows equals target.
//
// The solver uses Newton-Raphson with analytic first derivative, falling
// back to bisection when Newton stalls.
func Yield(target float64, settlement time.Time, cfs []Cashflow) (float64, error) {
	if len(cfs) == 0 {
		return 0, fmt.Errorf("Yield: no cashflows after settlement")
	}
	if target <= 0 {
		return 0, fmt.Errorf("Yield: target price must be positive, got %v", target)
	}

	y := clamp(0.025, yieldFloor, yieldCeiling)
	for iter := 0; iter < yieldMaxIter; iter++ {
		price, dPdy := priceAndDeriv(settlement, cfs, y)
		f := price - target
		if math.Abs(f) < yieldTolerance {
			return y, nil
		}
		if math.Abs(dPdy) < 1e-15 {
			break // Newton stalled, fall back to bisection.
		}
		y = clamp(y-f/dPdy, yieldFloor, yieldCeiling)
	}

	// Bisection: price is monotonically decreasing in yield.
	lo, hi := yieldFloor, yieldCeiling
	for iter := 0; iter < 200; iter++ {
		mid := (lo + hi) / 2
		price, _ := priceAndDeriv(settlement, cfs, mid)
		switch {
		case math.Abs(price-target) < yieldTolerance:
			return mid, nil
		case price > target:
			lo = mid
		default:
			hi = mid
		}
	}
	if hi-lo < 1e-10 {
		return (lo + hi) / 2, nil
	}
	return 0, fmt.Errorf("Yield: did not converge for target %v", target)
}

// ModifiedDuration is the percent price sensitivity to yield, −(1/P)·dP/dy,
// at the given yield.
func ModifiedDuration(settlement time.Time, cfs []Cashflow, y float64) float64 {
	price, dPdy := priceAndDeriv(settlement, cfs, y)
	if price == 0 {
		return math.NaN()
	}
	return -dPdy / price
}

// Convexity is the second-order price sensitivity, (1/P)·d²P/dy².
func Convexity(settlement time.Time, cfs []Cashflow, y float64) float64 {
	var price, d2 float64
	for _, cf := range cfs {
		if !cf.Date.After(settlement) {
			continue
		}
		t := yearFraction(settlement, cf.Date)
		df := math.Pow(1+y, -t)
		price += cf.Amount() * df
		d2 += t * (t + 1) * cf.Amount() * df / ((1 + y) * (1 + y))
	}
	if price == 0 {
		return math.NaN()
	}
	return d2 / price
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
