package instrument

import (
	"fmt"

	"github.com/quantfolio/quantfolio"
)

// Security type tags, as recorded in the SECURITY_TYPE field of provider
// series.
const (
	TypeBond           = "BOND"
	TypeDepositRate    = "DEPOSIT_RATE"
	TypeDepositRateFut = "DEPOSIT_RATE_FUTURE"
	TypeRateIndex      = "RATE_INDEX"
	TypeZeroRate       = "ZERO_RATE"
	TypeCurrencyFuture = "CURRENCY_FUTURE"
	TypeSwapRate       = "SWAP_RATE"
	TypeSwapVolatility = "SWAP_VOL"
	TypeOvernightSwap  = "OIS_RATE"
	TypeEquityOption   = "EQUITY_OPTION"
	TypeEquity         = "EQUITY"
	TypeCreditDefault  = "CDS"
)

// Bond subtype tags, read from the SUBTYPE attribute.
const (
	SubtypeFixedRate         = "FIXEDRATE"
	SubtypeCallableFixedRate = "CALLABLEFIXEDRATE"
	SubtypeFloatingRate      = "FLOATINGRATE"
)

// New builds the security variant matching the series' type tag. A series
// whose tag is unknown becomes a Generic instrument that only prices and
// accrues; errors are reserved for recognized tags with missing or
// malformed attributes.
func New(s *Series) (quantfolio.Security, error) {
	if s.Type == TypeBond {
		return newBond(s)
	}
	b, err := baseFor(s)
	if err != nil {
		return nil, err
	}
	switch s.Type {
	case TypeCurrencyFuture:
		return &CurrencyFuture{expirable{b}}, nil
	case TypeEquityOption:
		return &EquityOption{expirable{b}}, nil
	case TypeSwapVolatility:
		return &Swaption{expirable{b}}, nil
	case TypeEquity:
		return &Equity{b}, nil
	case TypeDepositRate, TypeDepositRateFut, TypeRateIndex, TypeZeroRate,
		TypeSwapRate, TypeOvernightSwap, TypeCreditDefault:
		return &Rate{b}, nil
	default:
		return &Generic{b}, nil
	}
}

// baseFor builds the shared series-backed base, reading the maturity
// attribute when the series declares one.
func baseFor(s *Series) (base, error) {
	b := base{series: s}
	if s.Attr(AttrMaturity) != "" {
		maturity, err := s.dateAttr(AttrMaturity)
		if err != nil {
			return base{}, err
		}
		b.maturity = maturity
	}
	return b, nil
}

func newBond(s *Series) (quantfolio.Security, error) {
	switch sub := s.Attr(AttrSubtype); sub {
	case SubtypeFixedRate, "":
		return newFixedRateBond(s)
	case SubtypeCallableFixedRate:
		return newCallableFixedRateBond(s)
	case SubtypeFloatingRate:
		return newFloatingRateBond(s)
	default:
		return nil, fmt.Errorf("series %q: unknown bond subtype %q", s.Name, sub)
	}
}

// NewAll builds securities for every series, in order. It fails on the
// first series that cannot be built.
func NewAll(series ...*Series) (quantfolio.Securities, error) {
	secs := make(quantfolio.Securities, 0, len(series))
	for _, s := range series {
		sec, err := New(s)
		if err != nil {
			return nil, err
		}
		secs = append(secs, sec)
	}
	return secs, nil
}
