package instrument

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/quantfolio/quantfolio"
)

// seriesJSON is the persistent form of a Series: observations are keyed by
// date string so files stay diffable.
type seriesJSON struct {
	Name       string             `json:"name"`
	Type       string             `json:"type"`
	Attributes map[string]string  `json:"attributes,omitempty"`
	Prices     map[string]float64 `json:"prices,omitempty"`
	Cashflows  map[string]float64 `json:"cashflows,omitempty"`
}

// DecodeSeries reads a JSON array of series definitions.
func DecodeSeries(r io.Reader) ([]*Series, error) {
	var raw []seriesJSON
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("cannot decode series: %w", err)
	}

	out := make([]*Series, 0, len(raw))
	for _, rs := range raw {
		if rs.Name == "" {
			return nil, fmt.Errorf("series without a name")
		}
		s := NewSeries(rs.Name, rs.Type)
		for k, v := range rs.Attributes {
			s.Attributes[k] = v
		}
		if err := fillSeries(s.Prices, rs.Prices); err != nil {
			return nil, fmt.Errorf("series %q: prices: %w", rs.Name, err)
		}
		if err := fillSeries(s.Cashflows, rs.Cashflows); err != nil {
			return nil, fmt.Errorf("series %q: cashflows: %w", rs.Name, err)
		}
		out = append(out, s)
	}
	return out, nil
}

func fillSeries(ts *quantfolio.TimeSeries, obs map[string]float64) error {
	for ds, v := range obs {
		d, err := quantfolio.ParseDate(ds)
		if err != nil {
			return err
		}
		ts.Set(d, v)
	}
	return nil
}

// EncodeSeries persists series definitions as a JSON array, dates sorted so
// the output is canonical.
func EncodeSeries(w io.Writer, series []*Series) error {
	raw := make([]seriesJSON, 0, len(series))
	for _, s := range series {
		rs := seriesJSON{
			Name:       s.Name,
			Type:       s.Type,
			Attributes: s.Attributes,
			Prices:     dumpSeries(s.Prices),
			Cashflows:  dumpSeries(s.Cashflows),
		}
		raw = append(raw, rs)
	}
	sort.Slice(raw, func(a, b int) bool { return raw[a].Name < raw[b].Name })

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(raw)
}

func dumpSeries(ts *quantfolio.TimeSeries) map[string]float64 {
	if ts == nil || ts.Len() == 0 {
		return nil
	}
	out := make(map[string]float64, ts.Len())
	for d, v := range ts.Values() {
		out[d.String()] = v
	}
	return out
}
