package instrument

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfolio/quantfolio"
	"github.com/quantfolio/quantfolio/bond"
)

func day(y int, m time.Month, d int) quantfolio.Date {
	return quantfolio.NewDate(y, m, d)
}

// fixedSeries is a 5% annual bullet maturing 2030-06-15, priced at par.
func fixedSeries() *Series {
	s := NewSeries("BND1", TypeBond)
	s.Attributes[AttrSubtype] = SubtypeFixedRate
	s.Attributes[AttrIssueDate] = "2020-06-15"
	s.Attributes[AttrMaturity] = "2030-06-15"
	s.Attributes[AttrCoupon] = "5.0"
	s.Attributes[AttrFrequency] = "1"
	s.Prices.Set(day(2025, time.March, 10), 100)
	return s
}

func callableSeries() *Series {
	s := fixedSeries()
	s.Name = "CALL1"
	s.Attributes[AttrSubtype] = SubtypeCallableFixedRate
	s.Attributes[AttrCallSchedule] = "2027-06-15@100,2028-06-15"
	return s
}

func TestNew_TagMapping(t *testing.T) {
	tests := []struct {
		tag  string
		want any
	}{
		{TypeEquity, &Equity{}},
		{TypeCurrencyFuture, &CurrencyFuture{}},
		{TypeEquityOption, &EquityOption{}},
		{TypeSwapVolatility, &Swaption{}},
		{TypeDepositRate, &Rate{}},
		{TypeZeroRate, &Rate{}},
		{TypeCreditDefault, &Rate{}},
		{"SOMETHING_ELSE", &Generic{}},
	}
	for _, tc := range tests {
		t.Run(tc.tag, func(t *testing.T) {
			sec, err := New(NewSeries("S", tc.tag))
			require.NoError(t, err)
			assert.IsType(t, tc.want, sec)
		})
	}
}

func TestNew_BondSubtypes(t *testing.T) {
	sec, err := New(fixedSeries())
	require.NoError(t, err)
	assert.IsType(t, &FixedRateBond{}, sec)

	sec, err = New(callableSeries())
	require.NoError(t, err)
	assert.IsType(t, &CallableFixedRateBond{}, sec)

	s := fixedSeries()
	s.Attributes[AttrSubtype] = SubtypeFloatingRate
	s.Attributes[AttrIndex] = "US0003M"
	sec, err = New(s)
	require.NoError(t, err)
	require.IsType(t, &FloatingRateBond{}, sec)
	assert.Equal(t, "US0003M", sec.(*FloatingRateBond).Index())

	s = fixedSeries()
	s.Attributes[AttrSubtype] = "PERPETUAL"
	_, err = New(s)
	assert.Error(t, err)
}

func TestNew_BondErrors(t *testing.T) {
	t.Run("missing maturity", func(t *testing.T) {
		s := fixedSeries()
		delete(s.Attributes, AttrMaturity)
		_, err := New(s)
		assert.ErrorContains(t, err, AttrMaturity)
	})
	t.Run("missing coupon", func(t *testing.T) {
		s := fixedSeries()
		delete(s.Attributes, AttrCoupon)
		_, err := New(s)
		assert.ErrorContains(t, err, AttrCoupon)
	})
	t.Run("bad call schedule", func(t *testing.T) {
		s := callableSeries()
		s.Attributes[AttrCallSchedule] = "2027-06-15@par"
		_, err := New(s)
		assert.Error(t, err)
	})
}

// Capability sets must vary by variant: the core probes with type
// assertions, so an equity must not satisfy the yield interfaces and a
// callable bond must satisfy all of them.
func TestCapabilitySets(t *testing.T) {
	equity, err := New(NewSeries("EQ", TypeEquity))
	require.NoError(t, err)
	fixed, err := New(fixedSeries())
	require.NoError(t, err)
	callable, err := New(callableSeries())
	require.NoError(t, err)

	_, ok := equity.(quantfolio.YieldToMaturity)
	assert.False(t, ok, "equity must not expose ytm")
	_, ok = fixed.(quantfolio.YieldToMaturity)
	assert.True(t, ok, "fixed bond must expose ytm")
	_, ok = fixed.(quantfolio.ZSpreadToMat)
	assert.True(t, ok, "fixed bond must expose z-spread")
	_, ok = fixed.(quantfolio.OptionAdjustedSpreader)
	assert.False(t, ok, "fixed bond must not expose oas")
	_, ok = fixed.(quantfolio.SettlementValuer)
	assert.True(t, ok, "fixed bond settles at redemption")

	for name, probe := range map[string]bool{
		"ytw":          func() bool { _, ok := callable.(quantfolio.YieldToWorst); return ok }(),
		"dur worst":    func() bool { _, ok := callable.(quantfolio.ModDurationToWorst); return ok }(),
		"dur rolling":  func() bool { _, ok := callable.(quantfolio.ModDurationToWorstRollingCall); return ok }(),
		"conv worst":   func() bool { _, ok := callable.(quantfolio.ConvexityToWorst); return ok }(),
		"zspr worst":   func() bool { _, ok := callable.(quantfolio.ZSpreadToWorst); return ok }(),
		"zspr rolling": func() bool { _, ok := callable.(quantfolio.ZSpreadToWorstRollingCall); return ok }(),
		"oas":          func() bool { _, ok := callable.(quantfolio.OptionAdjustedSpreader); return ok }(),
	} {
		assert.True(t, probe, "callable bond must expose %s", name)
	}

	s := fixedSeries()
	s.Attributes[AttrSubtype] = SubtypeFloatingRate
	floating, err := New(s)
	require.NoError(t, err)
	_, ok = floating.(quantfolio.YieldToMaturity)
	assert.False(t, ok, "floating bond must not expose fixed-yield metrics")
}

func TestFixedRateBond_YTM(t *testing.T) {
	sec, err := New(fixedSeries())
	require.NoError(t, err)
	b := sec.(*FixedRateBond)
	on := day(2025, time.June, 15) // coupon date: par price means ytm = coupon

	ytm := b.YTM(on, nil)
	assert.InDelta(t, 0.05, ytm, 1e-3)
	assert.Equal(t, ytm, b.YTW(on, nil), "bullet bond: ytw is ytm")

	s := fixedSeries()
	s.Prices.Set(day(2025, time.June, 15), 95)
	discounted, err := New(s)
	require.NoError(t, err)
	assert.Greater(t, discounted.(*FixedRateBond).YTM(on, nil), ytm,
		"discount price must raise the yield")
}

func TestFixedRateBond_NoPrice(t *testing.T) {
	s := fixedSeries()
	s.Prices = quantfolio.NewTimeSeries()
	sec, err := New(s)
	require.NoError(t, err)
	b := sec.(*FixedRateBond)
	on := day(2025, time.June, 15)

	assert.True(t, math.IsNaN(b.YTM(on, nil)))
	assert.True(t, math.IsNaN(b.ModDurationToMat(on, nil)))
}

func TestFixedRateBond_DurationConvexity(t *testing.T) {
	sec, err := New(fixedSeries())
	require.NoError(t, err)
	b := sec.(*FixedRateBond)
	on := day(2025, time.June, 15)

	dur := b.ModDurationToMat(on, nil)
	assert.Greater(t, dur, 0.0)
	assert.Less(t, dur, 5.0, "duration below remaining maturity")
	assert.Equal(t, dur, b.ModDurationToWorst(on, nil))

	conv := b.ConvexityToMat(on, nil)
	assert.Greater(t, conv, 0.0)
	assert.Equal(t, conv, b.ConvexityToWorst(on, nil))
}

func TestFixedRateBond_ZSpread(t *testing.T) {
	sec, err := New(fixedSeries())
	require.NoError(t, err)
	b := sec.(*FixedRateBond)
	on := day(2025, time.June, 15)

	assert.True(t, math.IsNaN(b.ZSpreadToMat(on, nil)), "no context, no curve")
	assert.True(t, math.IsNaN(b.ZSpreadToMat(on, &quantfolio.Context{})))

	curves := &CurveHistory{}
	curves.Set(on, bond.NewCurve(map[float64]float64{1: 0.03, 10: 0.03}))
	ctx := &quantfolio.Context{YieldCurve: curves}

	spread := b.ZSpreadToMat(on, ctx)
	require.False(t, math.IsNaN(spread))
	assert.InDelta(t, 0.02, spread, 5e-3,
		"par 5%% bond over a flat 3%% curve trades near 200bp")
	assert.Equal(t, spread, b.ZSpreadToWorst(on, ctx))
}

func TestFixedRateBond_CashToDate(t *testing.T) {
	sec, err := New(fixedSeries())
	require.NoError(t, err)
	b := sec.(*FixedRateBond)

	// One annual coupon falls in (2025-01-01, 2025-12-31].
	assert.Equal(t, 5.0, b.CashToDate(day(2025, time.January, 1), day(2025, time.December, 31)))
	// Exclusive start: a coupon on the start date is not recounted.
	assert.Equal(t, 0.0, b.CashToDate(day(2025, time.June, 15), day(2026, time.June, 14)))
	// Redemption year pays coupon plus principal.
	assert.Equal(t, 105.0, b.CashToDate(day(2030, time.January, 1), day(2030, time.December, 31)))
}

func TestFixedRateBond_Settlement(t *testing.T) {
	sec, err := New(fixedSeries())
	require.NoError(t, err)
	b := sec.(*FixedRateBond)

	assert.False(t, b.IsExpired(day(2030, time.June, 15)))
	assert.True(t, b.IsExpired(day(2030, time.June, 16)))
	assert.Equal(t, 105.0, b.SettlementValue(day(2030, time.June, 16)))
}

func TestCallable_YTW(t *testing.T) {
	s := callableSeries()
	s.Prices.Set(day(2025, time.June, 15), 105) // premium: call scenario is worst
	sec, err := New(s)
	require.NoError(t, err)
	b := sec.(*CallableFixedRateBond)
	on := day(2025, time.June, 15)

	ytm := b.YTM(on, nil)
	ytw := b.YTW(on, nil)
	assert.Less(t, ytw, ytm, "premium callable: yield to call below yield to maturity")

	// Once every call has passed, the worst scenario is the maturity one.
	later := day(2028, time.June, 16)
	s.Prices.Set(later, 105)
	assert.InDelta(t, b.YTM(later, nil), b.YTW(later, nil), 1e-12)
}

func TestCallable_RollingCall(t *testing.T) {
	sec, err := New(callableSeries())
	require.NoError(t, err)
	b := sec.(*CallableFixedRateBond)

	on := day(2025, time.June, 15)
	cfs := b.rollingCallScenario(on)
	require.NotEmpty(t, cfs)
	assert.Equal(t, day(2027, time.June, 15).Time(), cfs[len(cfs)-1].Date,
		"next call after the date is assumed exercised")

	between := day(2027, time.July, 1)
	cfs = b.rollingCallScenario(between)
	assert.Equal(t, day(2028, time.June, 15).Time(), cfs[len(cfs)-1].Date)

	after := day(2028, time.July, 1)
	cfs = b.rollingCallScenario(after)
	assert.Equal(t, day(2030, time.June, 15).Time(), cfs[len(cfs)-1].Date,
		"no call left: maturity schedule")
}

func TestCallable_WorstMetrics(t *testing.T) {
	s := callableSeries()
	s.Prices.Set(day(2025, time.June, 15), 105)
	sec, err := New(s)
	require.NoError(t, err)
	b := sec.(*CallableFixedRateBond)
	on := day(2025, time.June, 15)

	durWorst := b.ModDurationToWorst(on, nil)
	durMat := b.ModDurationToMat(on, nil)
	assert.Greater(t, durWorst, 0.0)
	assert.Less(t, durWorst, durMat, "call truncation shortens duration")

	assert.Greater(t, b.ConvexityToWorst(on, nil), 0.0)
	assert.Greater(t, b.ModDurationToWorstRollingCall(on, nil), 0.0)
}

func TestCallable_OAS(t *testing.T) {
	s := callableSeries()
	s.Prices.Set(day(2025, time.June, 15), 105)
	sec, err := New(s)
	require.NoError(t, err)
	b := sec.(*CallableFixedRateBond)
	on := day(2025, time.June, 15)

	assert.True(t, math.IsNaN(b.OAS(on, nil)))
	assert.True(t, math.IsNaN(b.OAS(on, &quantfolio.Context{})))

	ctx := &quantfolio.Context{Model: &quantfolio.ShortRateModel{
		ShortRate:     0.03,
		MeanReversion: 0.1,
		Sigma:         0.01,
	}}
	oas := b.OAS(on, ctx)
	assert.False(t, math.IsNaN(oas))
}

func TestCurrencyFuture_Expiry(t *testing.T) {
	s := NewSeries("FUT1", TypeCurrencyFuture)
	s.Attributes[AttrMaturity] = "2025-09-19"
	s.Prices.Set(day(2025, time.September, 18), 1.085)
	sec, err := New(s)
	require.NoError(t, err)

	assert.False(t, sec.IsExpired(day(2025, time.September, 19)))
	assert.True(t, sec.IsExpired(day(2025, time.September, 22)))

	sv, ok := sec.(quantfolio.SettlementValuer)
	require.True(t, ok)
	assert.Equal(t, 1.085, sv.SettlementValue(day(2025, time.September, 22)))
}

func TestBase_DisplayName(t *testing.T) {
	s := NewSeries("EQ1", TypeEquity)
	s.Attributes[AttrDescription] = "ACME Corp Common"
	sec, err := New(s)
	require.NoError(t, err)

	d, ok := sec.(quantfolio.Described)
	require.True(t, ok)
	assert.Equal(t, "ACME Corp Common", d.DisplayName())

	secs := quantfolio.Securities{sec}
	assert.Same(t, sec, secs.Resolve("EQ1"))
	assert.Same(t, sec, secs.Resolve("ACME Corp Common"))
}

func TestCurveHistory(t *testing.T) {
	h := &CurveHistory{}
	assert.True(t, math.IsNaN(h.Zero(day(2025, time.January, 1), 5)))

	h.Set(day(2025, time.January, 10), bond.NewCurve(map[float64]float64{1: 0.02, 5: 0.03}))
	h.Set(day(2025, time.February, 10), bond.NewCurve(map[float64]float64{1: 0.025, 5: 0.035}))

	assert.True(t, math.IsNaN(h.Zero(day(2025, time.January, 9), 5)), "before first curve")
	assert.Equal(t, 0.03, h.Zero(day(2025, time.January, 10), 5))
	assert.Equal(t, 0.03, h.Zero(day(2025, time.January, 20), 5), "carries forward")
	assert.Equal(t, 0.035, h.Zero(day(2025, time.March, 1), 5))

	// Replacing a date keeps the series single-valued.
	h.Set(day(2025, time.January, 10), bond.NewCurve(map[float64]float64{5: 0.04}))
	assert.Equal(t, 0.04, h.Zero(day(2025, time.January, 15), 5))
}
