package quantfolio

import "errors"

// Failure taxonomy of the ledger and the metric aggregation.
//
// Per-instrument lookup and numeric failures are isolated at the aggregation
// boundary: they are substituted by zero and logged, never returned. The
// errors below are the caller-visible, query-aborting ones.
var (
	// ErrNoPriorSnapshot reports that no ledger snapshot exists at or before
	// the requested date, so carry-forward has nothing to project from.
	ErrNoPriorSnapshot = errors.New("no snapshot at or before the requested date")

	// ErrZeroNetQuantity reports a same-day trade merge whose quantities net
	// to zero: the quantity-weighted average price is undefined.
	ErrZeroNetQuantity = errors.New("trades net to zero quantity, merged price undefined")

	// ErrDegenerateValuation reports a total portfolio value of zero at the
	// query date: value weighting is undefined.
	ErrDegenerateValuation = errors.New("total portfolio value is zero, weighting undefined")
)
