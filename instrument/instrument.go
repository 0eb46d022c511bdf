package instrument

import (
	"github.com/quantfolio/quantfolio"
)

// base is the series-backed implementation of the required capability
// contract that every variant embeds. Unit value is the last available
// price, accrual sums the cashflow series, and an instrument without a
// maturity never expires.
type base struct {
	series   *Series
	maturity quantfolio.Date // zero means no maturity
}

func (b base) Name() string { return b.series.Name }

// DisplayName returns the description attribute when present, so the
// resolver can match either name.
func (b base) DisplayName() string {
	if desc := b.series.Attr(AttrDescription); desc != "" {
		return desc
	}
	return b.series.Name
}

// Value is the last available price at the date; NaN when the series has no
// observation at or before it.
func (b base) Value(on quantfolio.Date) float64 {
	return b.series.Prices.AsOf(on)
}

func (b base) IsExpired(on quantfolio.Date) bool {
	return !b.maturity.IsZero() && on.After(b.maturity)
}

// CashToDate sums the per-unit cash payments after start, up to and
// including the date.
func (b base) CashToDate(start, on quantfolio.Date) float64 {
	if b.series.Cashflows == nil {
		return 0
	}
	return b.series.Cashflows.Sum(start, on)
}

// Generic is the fallback variant for unrecognized type tags: required
// capabilities only.
type Generic struct{ base }

// Equity is a plain equity: priced off the series, dividends in the
// cashflow series, never expires.
type Equity struct{ base }

// expirable is a base variant with a maturity and a price-based settlement.
type expirable struct{ base }

// SettlementValue is the last available price at the date; the
// carry-forward engine may credit it when the instrument expires.
func (e expirable) SettlementValue(on quantfolio.Date) float64 {
	return e.series.Prices.AsOf(on)
}

// CurrencyFuture is a currency future: priced off the series, expires at
// maturity, settles at the last price.
type CurrencyFuture struct{ expirable }

// EquityOption is a listed equity option: priced off the series, expires at
// maturity, settles at the last price.
type EquityOption struct{ expirable }

// Swaption is a swap option quoted by its premium series.
type Swaption struct{ expirable }

// Rate is a quoted-rate series variant (deposit rate, overnight rate, swap
// rate, credit-default-swap rate, rate index, zero rate). It prices off the
// quote and expires at maturity when one is declared.
type Rate struct{ base }
