// Package quantfolio values a portfolio of heterogeneous financial
// instruments over time and reports value-weighted risk metrics (yield,
// duration, convexity, z-spread, option-adjusted spread).
//
// The heart of the package is the [Portfolio]: a sparse, date-keyed ledger of
// held quantities plus an audit ledger of executed trades. Dates without an
// explicit snapshot are materialized on demand by carrying the nearest prior
// snapshot forward, accruing interim cashflows (coupons, dividends) into the
// cash balance along the way.
//
// Instruments participate through a small capability contract ([Security])
// plus independently optional metric capabilities ([YieldToMaturity],
// [ZSpreadToMat], [OptionAdjustedSpreader], ...). A single generic
// value-weighted reduction serves every reported metric; an instrument that
// lacks a capability, or whose pricing returns NaN, contributes zero with a
// diagnostic instead of aborting the portfolio-wide report.
//
// Pricing mechanics live outside the core: the instrument package maps raw
// data series to concrete variants, and the bond package carries the yield,
// duration and spread solvers they delegate to.
package quantfolio
