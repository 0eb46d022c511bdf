package quantfolio

import (
	"io"
	"math"

	"github.com/rs/zerolog"
)

// quiet is a diagnostics logger that discards everything, for tests that
// deliberately trigger substitutions.
var quiet = WithLogger(zerolog.New(io.Discard))

// stub is a minimal instrument satisfying only the required capability
// contract: constant unit value, optional expiry date, optional cashflow
// series for accrual.
type stub struct {
	name   string
	unit   float64
	expiry Date        // zero value means never expires
	cash   *TimeSeries // dated cashflows, nil means none
}

func (s stub) Name() string { return s.name }

func (s stub) Value(on Date) float64 { return s.unit }

func (s stub) IsExpired(on Date) bool {
	return !s.expiry.IsZero() && on.After(s.expiry)
}

func (s stub) CashToDate(start, on Date) float64 {
	if s.cash == nil {
		return 0
	}
	return s.cash.Sum(start, on)
}

// yieldStub adds the yield capabilities on top of stub.
type yieldStub struct {
	stub
	ytm, ytw float64
}

func (y yieldStub) YTM(on Date, ctx *Context) float64 { return y.ytm }
func (y yieldStub) YTW(on Date, ctx *Context) float64 { return y.ytw }

// settleStub adds a settlement value for expiry-credit tests.
type settleStub struct {
	stub
	settlement float64
}

func (s settleStub) SettlementValue(on Date) float64 { return s.settlement }

// aliasStub resolves by display name as well as series name.
type aliasStub struct {
	stub
	display string
}

func (a aliasStub) DisplayName() string { return a.display }

// nanStub prices to NaN, to exercise the substitution path.
type nanStub struct{ stub }

func (nanStub) Value(on Date) float64 { return math.NaN() }
func (nanStub) YTM(on Date, ctx *Context) float64 { return math.NaN() }
func (nanStub) CashToDate(start, on Date) float64 { return math.NaN() }
