package instrument

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/quantfolio/quantfolio"
	"github.com/quantfolio/quantfolio/bond"
)

// FixedRateBond is a plain fixed-coupon bond. It prices off its series and
// derives the yield, duration, convexity and z-spread family from its
// remaining cashflow schedule. For a bullet bond the worst redemption date
// is the maturity, so every to-worst capability coincides with its
// to-maturity counterpart.
type FixedRateBond struct {
	base
	schedule []bond.Cashflow
}

func newFixedRateBond(s *Series) (*FixedRateBond, error) {
	maturity, err := s.dateAttr(AttrMaturity)
	if err != nil {
		return nil, err
	}
	coupon, err := s.floatAttr(AttrCoupon)
	if err != nil {
		return nil, err
	}
	freq, err := s.intAttr(AttrFrequency, 1)
	if err != nil {
		return nil, err
	}
	issue := maturity.AddMonth(-50 * 12) // far enough back for any listed history
	if s.Attr(AttrIssueDate) != "" {
		if issue, err = s.dateAttr(AttrIssueDate); err != nil {
			return nil, err
		}
	}
	return &FixedRateBond{
		base:     base{series: s, maturity: maturity},
		schedule: bond.FixedSchedule(issue.Time(), maturity.Time(), coupon, freq, 100),
	}, nil
}

// CashToDate reports the coupons (and redemption) paid by the schedule in
// the window, per unit of face.
func (b *FixedRateBond) CashToDate(start, on quantfolio.Date) float64 {
	return bond.CashBetween(b.schedule, start.Time(), on.Time())
}

// yieldOn solves the yield repricing the given schedule to the market price
// at the date. NaN when the price is unobservable or the solver fails.
func (b *FixedRateBond) yieldOn(on quantfolio.Date, cfs []bond.Cashflow) float64 {
	price := b.Value(on)
	if math.IsNaN(price) || price <= 0 {
		return math.NaN()
	}
	y, err := bond.Yield(price, on.Time(), bond.Remaining(cfs, on.Time()))
	if err != nil {
		return math.NaN()
	}
	return y
}

func (b *FixedRateBond) zspreadOn(on quantfolio.Date, cfs []bond.Cashflow, ctx *quantfolio.Context) float64 {
	if ctx == nil || ctx.YieldCurve == nil {
		return math.NaN()
	}
	price := b.Value(on)
	if math.IsNaN(price) || price <= 0 {
		return math.NaN()
	}
	zero := func(term float64) float64 { return ctx.YieldCurve.Zero(on, term) }
	s, err := bond.ZSpread(price, on.Time(), bond.Remaining(cfs, on.Time()), zero)
	if err != nil {
		return math.NaN()
	}
	return s
}

func (b *FixedRateBond) YTM(on quantfolio.Date, ctx *quantfolio.Context) float64 {
	return b.yieldOn(on, b.schedule)
}

func (b *FixedRateBond) YTW(on quantfolio.Date, ctx *quantfolio.Context) float64 {
	return b.YTM(on, ctx)
}

func (b *FixedRateBond) ModDurationToMat(on quantfolio.Date, ctx *quantfolio.Context) float64 {
	y := b.yieldOn(on, b.schedule)
	if math.IsNaN(y) {
		return math.NaN()
	}
	return bond.ModifiedDuration(on.Time(), bond.Remaining(b.schedule, on.Time()), y)
}

func (b *FixedRateBond) ModDurationToWorst(on quantfolio.Date, ctx *quantfolio.Context) float64 {
	return b.ModDurationToMat(on, ctx)
}

func (b *FixedRateBond) ConvexityToMat(on quantfolio.Date, ctx *quantfolio.Context) float64 {
	y := b.yieldOn(on, b.schedule)
	if math.IsNaN(y) {
		return math.NaN()
	}
	return bond.Convexity(on.Time(), bond.Remaining(b.schedule, on.Time()), y)
}

func (b *FixedRateBond) ConvexityToWorst(on quantfolio.Date, ctx *quantfolio.Context) float64 {
	return b.ConvexityToMat(on, ctx)
}

func (b *FixedRateBond) ZSpreadToMat(on quantfolio.Date, ctx *quantfolio.Context) float64 {
	return b.zspreadOn(on, b.schedule, ctx)
}

func (b *FixedRateBond) ZSpreadToWorst(on quantfolio.Date, ctx *quantfolio.Context) float64 {
	return b.ZSpreadToMat(on, ctx)
}

// SettlementValue is the redemption amount plus any final coupon paid at
// maturity.
func (b *FixedRateBond) SettlementValue(on quantfolio.Date) float64 {
	if len(b.schedule) == 0 {
		return math.NaN()
	}
	return b.schedule[len(b.schedule)-1].Amount()
}

// call is one entry of a callable bond's call schedule.
type call struct {
	date  quantfolio.Date
	price float64
}

// CallableFixedRateBond is a fixed-coupon bond the issuer may redeem early
// on the declared call dates. The to-worst family minimizes the yield over
// every redemption scenario; the rolling-call family assumes the next call
// after the date is exercised; OAS solves the spread over the calibrated
// short-rate model's discount function on the worst scenario.
type CallableFixedRateBond struct {
	FixedRateBond
	calls []call
}

func newCallableFixedRateBond(s *Series) (*CallableFixedRateBond, error) {
	fixed, err := newFixedRateBond(s)
	if err != nil {
		return nil, err
	}
	calls, err := parseCallSchedule(s)
	if err != nil {
		return nil, err
	}
	return &CallableFixedRateBond{FixedRateBond: *fixed, calls: calls}, nil
}

// parseCallSchedule reads the CALL_SCHEDULE attribute: comma-separated
// "date" or "date@price" entries, price defaulting to par.
func parseCallSchedule(s *Series) ([]call, error) {
	raw := s.Attr(AttrCallSchedule)
	if raw == "" {
		return nil, fmt.Errorf("series %q: missing attribute %s", s.Name, AttrCallSchedule)
	}
	var calls []call
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		c := call{price: 100}
		if at := strings.IndexByte(entry, '@'); at >= 0 {
			p, err := strconv.ParseFloat(entry[at+1:], 64)
			if err != nil {
				return nil, fmt.Errorf("series %q: call price in %q: %w", s.Name, entry, err)
			}
			c.price = p
			entry = entry[:at]
		}
		d, err := quantfolio.ParseDate(entry)
		if err != nil {
			return nil, fmt.Errorf("series %q: call date: %w", s.Name, err)
		}
		c.date = d
		calls = append(calls, c)
	}
	return calls, nil
}

// callScenario truncates the schedule at a call: coupons up to and
// including the call date, principal redeemed at the call price.
func (b *CallableFixedRateBond) callScenario(c call) []bond.Cashflow {
	var cfs []bond.Cashflow
	for _, cf := range b.schedule {
		if cf.Date.After(c.date.Time()) {
			break
		}
		cfs = append(cfs, bond.Cashflow{Date: cf.Date, Coupon: cf.Coupon})
	}
	return append(cfs, bond.Cashflow{Date: c.date.Time(), Principal: c.price})
}

// worstScenario returns the redemption schedule with the lowest yield among
// maturity and every call still alive at the date. It falls back to the
// maturity schedule when no scenario yields a solvable price.
func (b *CallableFixedRateBond) worstScenario(on quantfolio.Date) []bond.Cashflow {
	worst := b.schedule
	worstYield := b.yieldOn(on, b.schedule)
	for _, c := range b.calls {
		if !c.date.After(on) {
			continue
		}
		cfs := b.callScenario(c)
		y := b.yieldOn(on, cfs)
		if math.IsNaN(y) {
			continue
		}
		if math.IsNaN(worstYield) || y < worstYield {
			worst, worstYield = cfs, y
		}
	}
	return worst
}

// rollingCallScenario is the schedule assuming the next call after the date
// is exercised; the maturity schedule when no call remains.
func (b *CallableFixedRateBond) rollingCallScenario(on quantfolio.Date) []bond.Cashflow {
	for _, c := range b.calls {
		if c.date.After(on) {
			return b.callScenario(c)
		}
	}
	return b.schedule
}

func (b *CallableFixedRateBond) YTW(on quantfolio.Date, ctx *quantfolio.Context) float64 {
	return b.yieldOn(on, b.worstScenario(on))
}

func (b *CallableFixedRateBond) ModDurationToWorst(on quantfolio.Date, ctx *quantfolio.Context) float64 {
	cfs := b.worstScenario(on)
	y := b.yieldOn(on, cfs)
	if math.IsNaN(y) {
		return math.NaN()
	}
	return bond.ModifiedDuration(on.Time(), bond.Remaining(cfs, on.Time()), y)
}

func (b *CallableFixedRateBond) ModDurationToWorstRollingCall(on quantfolio.Date, ctx *quantfolio.Context) float64 {
	cfs := b.rollingCallScenario(on)
	y := b.yieldOn(on, cfs)
	if math.IsNaN(y) {
		return math.NaN()
	}
	return bond.ModifiedDuration(on.Time(), bond.Remaining(cfs, on.Time()), y)
}

func (b *CallableFixedRateBond) ConvexityToWorst(on quantfolio.Date, ctx *quantfolio.Context) float64 {
	cfs := b.worstScenario(on)
	y := b.yieldOn(on, cfs)
	if math.IsNaN(y) {
		return math.NaN()
	}
	return bond.Convexity(on.Time(), bond.Remaining(cfs, on.Time()), y)
}

func (b *CallableFixedRateBond) ZSpreadToWorst(on quantfolio.Date, ctx *quantfolio.Context) float64 {
	return b.zspreadOn(on, b.worstScenario(on), ctx)
}

func (b *CallableFixedRateBond) ZSpreadToWorstRollingCall(on quantfolio.Date, ctx *quantfolio.Context) float64 {
	return b.zspreadOn(on, b.rollingCallScenario(on), ctx)
}

// OAS solves the constant spread over the calibrated short-rate model's
// discount function that reprices the worst redemption scenario to the
// market price.
func (b *CallableFixedRateBond) OAS(on quantfolio.Date, ctx *quantfolio.Context) float64 {
	if ctx == nil || ctx.Model == nil {
		return math.NaN()
	}
	price := b.Value(on)
	if math.IsNaN(price) || price <= 0 {
		return math.NaN()
	}
	m := ctx.Model
	disc := bond.VasicekDiscount(m.ShortRate, m.MeanReversion, m.Sigma)
	cfs := bond.Remaining(b.worstScenario(on), on.Time())
	s, err := bond.SpreadOverDiscount(price, on.Time(), cfs, disc)
	if err != nil {
		return math.NaN()
	}
	return s
}

// FloatingRateBond is a floating-coupon bond tied to a rate index. Its
// coupons depend on index fixings recorded in the cashflow series, so it
// carries the required contract and expiry only; the fixed-yield metric
// family does not apply.
type FloatingRateBond struct {
	base
	index string
}

func newFloatingRateBond(s *Series) (*FloatingRateBond, error) {
	maturity, err := s.dateAttr(AttrMaturity)
	if err != nil {
		return nil, err
	}
	return &FloatingRateBond{
		base:  base{series: s, maturity: maturity},
		index: s.Attr(AttrIndex),
	}, nil
}

// Index returns the name of the rate index the coupons fix against.
func (b *FloatingRateBond) Index() string { return b.index }
