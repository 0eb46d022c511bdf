package quantfolio

// Security is the capability contract every instrument must satisfy to
// participate in the ledger.
//
// Value returns the instrument's unit market value on the given date; it may
// return NaN when no price is observable, and the aggregation layer
// substitutes zero. CashToDate returns the cash paid out by the instrument
// (coupons, dividends) after start and up to and including date.
//
// Everything beyond this contract is optional: an instrument advertises a
// risk metric by implementing the corresponding single-method interface
// below. Callers probe with a type assertion and treat a failed assertion as
// "no capability", never as an error.
type Security interface {
	Name() string
	Value(on Date) float64
	IsExpired(on Date) bool
	CashToDate(start, on Date) float64
}

// Described is an optional extension for instruments whose display name
// differs from their series name. The resolver matches either.
type Described interface {
	DisplayName() string
}

// SettlementValuer is an optional extension: the unit redemption or exercise
// value of the instrument at expiry. The carry-forward engine credits it to
// cash, when configured to, before dropping an expired position.
type SettlementValuer interface {
	SettlementValue(on Date) float64
}

// YieldCurve provides the benchmark zero rate (continuous compounding) for a
// term in years, as observed on a date. The z-spread family prices against it.
type YieldCurve interface {
	Zero(on Date, term float64) float64
}

// Context carries the extra inputs some metric calls need, forwarded
// verbatim from the portfolio query to the instrument.
type Context struct {
	// YieldCurve is the benchmark zero curve used by the z-spread family.
	YieldCurve YieldCurve
	// Model holds the evaluation date's calibrated short-rate model
	// parameters, required by OAS. Calibration itself is external.
	Model *ShortRateModel
}

// ShortRateModel is a calibrated one-factor short-rate parameter set
// (Hull-White style): the short rate, its mean-reversion speed and
// volatility on the evaluation date.
type ShortRateModel struct {
	ShortRate     float64
	MeanReversion float64
	Sigma         float64
}

// Optional metric capabilities. One interface per metric so instruments can
// expose any subset independently.

type YieldToMaturity interface {
	YTM(on Date, ctx *Context) float64
}

type YieldToWorst interface {
	YTW(on Date, ctx *Context) float64
}

type ModDurationToMat interface {
	ModDurationToMat(on Date, ctx *Context) float64
}

type ModDurationToWorst interface {
	ModDurationToWorst(on Date, ctx *Context) float64
}

type ModDurationToWorstRollingCall interface {
	ModDurationToWorstRollingCall(on Date, ctx *Context) float64
}

type ConvexityToMat interface {
	ConvexityToMat(on Date, ctx *Context) float64
}

type ConvexityToWorst interface {
	ConvexityToWorst(on Date, ctx *Context) float64
}

type ZSpreadToMat interface {
	ZSpreadToMat(on Date, ctx *Context) float64
}

type ZSpreadToWorst interface {
	ZSpreadToWorst(on Date, ctx *Context) float64
}

type ZSpreadToWorstRollingCall interface {
	ZSpreadToWorstRollingCall(on Date, ctx *Context) float64
}

type OptionAdjustedSpreader interface {
	OAS(on Date, ctx *Context) float64
}

// Securities is a shared collection of instrument objects. The Portfolio
// holds one but neither creates nor destroys the instruments in it.
type Securities []Security

// Resolve scans the collection for an instrument whose series name or
// display name equals name; first match wins. It returns nil when none
// match: callers must treat nil as "no capability", not as an error.
func (s Securities) Resolve(name string) Security {
	for _, sec := range s {
		if sec == nil {
			continue
		}
		if sec.Name() == name {
			return sec
		}
		if d, ok := sec.(Described); ok && d.DisplayName() == name {
			return sec
		}
	}
	return nil
}
