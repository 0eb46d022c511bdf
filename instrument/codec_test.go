package instrument

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSeries(t *testing.T) {
	input := `[
	  {
	    "name": "BND1",
	    "type": "BOND",
	    "attributes": {"SUBTYPE": "FIXEDRATE", "MATURITY": "2030-06-15", "COUPON": "5.0"},
	    "prices": {"2025-03-10": 99.5, "2025-03-11": 99.8},
	    "cashflows": {"2024-06-15": 5.0}
	  },
	  {"name": "ACME", "type": "EQUITY"}
	]`

	series, err := DecodeSeries(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, series, 2)

	s := series[0]
	assert.Equal(t, "BND1", s.Name)
	assert.Equal(t, TypeBond, s.Type)
	assert.Equal(t, "2030-06-15", s.Attr(AttrMaturity))
	assert.Equal(t, 99.8, s.Prices.Get(day(2025, time.March, 11)))
	assert.Equal(t, 5.0, s.Cashflows.Get(day(2024, time.June, 15)))

	assert.Equal(t, 0, series[1].Prices.Len())
}

func TestDecodeSeries_Errors(t *testing.T) {
	_, err := DecodeSeries(strings.NewReader(`[{"type": "EQUITY"}]`))
	assert.ErrorContains(t, err, "without a name")

	_, err = DecodeSeries(strings.NewReader(`[{"name": "X", "prices": {"not a date": 1}}]`))
	assert.Error(t, err)
}

func TestEncodeSeries_RoundTrip(t *testing.T) {
	s := NewSeries("ACME", TypeEquity)
	s.Attributes[AttrDescription] = "ACME Corp"
	s.Prices.Set(day(2025, time.March, 10), 42.5)
	s.Cashflows.Set(day(2025, time.February, 1), 0.8)

	var buf strings.Builder
	require.NoError(t, EncodeSeries(&buf, []*Series{s}))

	decoded, err := DecodeSeries(strings.NewReader(buf.String()))
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	assert.Equal(t, "ACME Corp", decoded[0].Attr(AttrDescription))
	assert.Equal(t, 42.5, decoded[0].Prices.Get(day(2025, time.March, 10)))
	assert.Equal(t, 0.8, decoded[0].Cashflows.Get(day(2025, time.February, 1)))
}
