// Package instrument maps raw data series to concrete instrument variants
// implementing the quantfolio capability contract.
//
// A variant exposes only the capabilities it genuinely has: an equity prices
// and pays dividends, a fixed-rate bond adds the yield and spread family, a
// callable bond adds the to-worst, rolling-call and option-adjusted
// variants. The factory resolves a series' declared type tag to the right
// variant; everything the core sees is the capability set.
package instrument

import (
	"fmt"
	"strconv"

	"github.com/quantfolio/quantfolio"
)

// Attribute keys understood by the factory.
const (
	AttrSubtype      = "SUBTYPE"
	AttrDescription  = "DESCRIPTION"
	AttrMaturity     = "MATURITY"
	AttrIssueDate    = "ISSUE_DATE"
	AttrCoupon       = "COUPON"
	AttrFrequency    = "FREQUENCY"
	AttrCallSchedule = "CALL_SCHEDULE"
	AttrIndex        = "INDEX"
)

// Series is a raw, named data series: a declared type tag, free-form
// attributes, a price history, and an optional history of per-unit cash
// payments (coupons, dividends).
type Series struct {
	Name       string
	Type       string
	Attributes map[string]string

	Prices    *quantfolio.TimeSeries
	Cashflows *quantfolio.TimeSeries
}

// NewSeries creates an empty series with the given name and type tag.
func NewSeries(name, typeTag string) *Series {
	return &Series{
		Name:       name,
		Type:       typeTag,
		Attributes: make(map[string]string),
		Prices:     quantfolio.NewTimeSeries(),
		Cashflows:  quantfolio.NewTimeSeries(),
	}
}

// Attr returns an attribute value, "" when absent.
func (s *Series) Attr(key string) string {
	if s.Attributes == nil {
		return ""
	}
	return s.Attributes[key]
}

// dateAttr parses a required date attribute.
func (s *Series) dateAttr(key string) (quantfolio.Date, error) {
	raw := s.Attr(key)
	if raw == "" {
		return quantfolio.Date{}, fmt.Errorf("series %q: missing attribute %s", s.Name, key)
	}
	d, err := quantfolio.ParseDate(raw)
	if err != nil {
		return quantfolio.Date{}, fmt.Errorf("series %q: attribute %s: %w", s.Name, key, err)
	}
	return d, nil
}

// floatAttr parses a required numeric attribute.
func (s *Series) floatAttr(key string) (float64, error) {
	raw := s.Attr(key)
	if raw == "" {
		return 0, fmt.Errorf("series %q: missing attribute %s", s.Name, key)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("series %q: attribute %s: %w", s.Name, key, err)
	}
	return v, nil
}

// intAttr parses an optional integer attribute with a default.
func (s *Series) intAttr(key string, def int) (int, error) {
	raw := s.Attr(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("series %q: attribute %s: %w", s.Name, key, err)
	}
	return v, nil
}
