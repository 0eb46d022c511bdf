package bond

import "time"

// Cashflow is a single dated cash payment for a bond.
//
// Amounts are in price-per-100 terms (coupon and principal on a 100 face).
type Cashflow struct {
	Date      time.Time
	Coupon    float64
	Principal float64
}

func (c Cashflow) Amount() float64 {
	return c.Coupon + c.Principal
}

// FixedSchedule builds the remaining cashflows of a plain fixed-rate bond:
// periodic coupons from the first coupon date through maturity, principal
// redeemed at maturity.
//
// couponRate is the annual coupon in percent (e.g. 2.5 for 2.5%), frequency
// is coupons per year (1 = annual, 2 = semi-annual), face is the redemption
// amount (normally 100).
func FixedSchedule(issue, maturity time.Time, couponRate float64, frequency int, face float64) []Cashflow {
	if frequency <= 0 {
		frequency = 1
	}
	monthsPerPeriod := 12 / frequency
	coupon := couponRate / float64(frequency)

	// Roll coupon dates backwards from maturity to just after issue, then
	// emit them in order.
	var dates []time.Time
	for d := maturity; d.After(issue); d = d.AddDate(0, -monthsPerPeriod, 0) {
		dates = append(dates, d)
	}
	cfs := make([]Cashflow, 0, len(dates))
	for i := len(dates) - 1; i >= 0; i-- {
		cf := Cashflow{Date: dates[i], Coupon: coupon}
		if dates[i].Equal(maturity) {
			cf.Principal = face
		}
		cfs = append(cfs, cf)
	}
	return cfs
}

// Remaining filters a schedule down to the cashflows strictly after the
// settlement date.
func Remaining(cfs []Cashflow, settlement time.Time) []Cashflow {
	out := make([]Cashflow, 0, len(cfs))
	for _, cf := range cfs {
		if cf.Date.After(settlement) {
			out = append(out, cf)
		}
	}
	return out
}

// CashBetween sums the coupon and principal amounts paid strictly after
// start, up to and including end.
func CashBetween(cfs []Cashflow, start, end time.Time) float64 {
	var total float64
	for _, cf := range cfs {
		if cf.Date.After(start) && !cf.Date.After(end) {
			total += cf.Amount()
		}
	}
	return total
}

// daysBetween returns the whole days from a to b.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

// yearFraction is the ACT/365 fraction of a year from a to b.
func yearFraction(a, b time.Time) float64 {
	return float64(daysBetween(a, b)) / 365.0
}
