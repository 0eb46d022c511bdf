package quantfolio

import (
	"fmt"
	"maps"
	"math"
	"os"
	"slices"

	"github.com/rs/zerolog"
)

// Portfolio is a sparse, date-keyed ledger of held quantities plus an audit
// ledger of the trades that produced them.
//
// The position ledger maps each date to the quantities held per instrument
// name; the base currency code appears as a regular entry whose quantity is
// the cash balance (any sign). Dates present in the ledger are exactly the
// dates at which a trade occurred or an explicit carry was materialized.
// No non-currency entry ever holds quantity zero.
//
// The instrument collection is shared, not owned: the Portfolio neither
// creates nor destroys instrument lifetimes.
//
// A Portfolio is not safe for concurrent writers; the contract is one
// logical writer at a time.
type Portfolio struct {
	currency   string
	securities Securities

	positions history[map[string]Quantity]
	trades    history[map[string]Trade] // audit record only, never drives valuation

	log          zerolog.Logger
	creditExpiry bool
}

// Option configures a Portfolio.
type Option func(*Portfolio)

// WithLogger replaces the diagnostics logger. Every zero-substitution the
// aggregation layer performs is logged there, naming security, date and
// operation.
func WithLogger(log zerolog.Logger) Option {
	return func(p *Portfolio) { p.log = log }
}

// WithExpiryCredit controls whether the carry-forward engine credits an
// expired instrument's settlement value (redemption, exercise proceeds) to
// cash before dropping the position. The reference behavior is to drop
// without credit, so the default is false; the instrument must implement
// SettlementValuer for the credit to apply.
func WithExpiryCredit(credit bool) Option {
	return func(p *Portfolio) { p.creditExpiry = credit }
}

// NewPortfolio creates an empty portfolio holding cash in the given base
// currency, pricing instruments out of the shared collection.
func NewPortfolio(currency string, securities Securities, opts ...Option) *Portfolio {
	p := &Portfolio{
		currency:   currency,
		securities: securities,
		log:        zerolog.New(os.Stderr).With().Timestamp().Str("component", "portfolio").Logger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Currency returns the portfolio's base currency code.
func (p *Portfolio) Currency() string { return p.currency }

// AddPosition increments the held quantity for name at date, creating the
// date entry if absent. It has no side effect on cash.
func (p *Portfolio) AddPosition(on Date, name string, qty Quantity) {
	pos, ok := p.positions.Get(on)
	if !ok {
		pos = make(map[string]Quantity)
		p.positions.Set(on, pos)
	}
	pos[name] = pos[name].Add(qty)
	if pos[name].IsZero() && name != p.currency {
		delete(pos, name)
	}
}

// RemovePosition decrements the held quantity for name at date. When qty is
// omitted the whole position entry for name is removed from that date's
// snapshot. A date with no ledger entry is left untouched.
func (p *Portfolio) RemovePosition(on Date, name string, qty ...Quantity) {
	pos, ok := p.positions.Get(on)
	if !ok {
		return
	}
	if len(qty) == 0 {
		delete(pos, name)
		return
	}
	pos[name] = pos[name].Sub(qty[0])
	if pos[name].IsZero() && name != p.currency {
		delete(pos, name)
	}
}

// AddTrade records a trade on name at date and applies its net effect to the
// positions: holdings increase by the traded quantity, cash decreases by
// quantity times price. Two same-day trades on the same name merge into one
// audit record at the quantity-weighted average price; AddTrade fails with
// ErrZeroNetQuantity when the merged quantities cancel out. A trade dated
// before the earliest existing snapshot fails with ErrNoPriorSnapshot; only
// the first trade on an empty ledger opens a fresh snapshot.
func (p *Portfolio) AddTrade(on Date, name string, trade Trade) error {
	day, ok := p.trades.Get(on)
	record := trade
	if ok {
		if prior, ok := day[name]; ok {
			merged, err := MergeTrades(prior, trade)
			if err != nil {
				return fmt.Errorf("trade on %q at %s: %w", name, on, err)
			}
			record = merged
		}
	}
	if err := p.applyTrade(on, name, trade); err != nil {
		return err
	}
	// Record the audit entry only once the trade is applied, so a failed
	// trade leaves no trace in the ledger.
	if !ok {
		day = make(map[string]Trade)
		p.trades.Set(on, day)
	}
	day[name] = record
	return nil
}

// applyTrade applies the net effect of a single trade to the position ledger,
// materializing the trade date by carry-forward first when needed.
func (p *Portfolio) applyTrade(on Date, name string, trade Trade) error {
	if _, ok := p.positions.Get(on); !ok {
		if err := p.CarryTo(on); err != nil {
			// Only the very first trade opens the ledger from nothing; a
			// trade backdated before the earliest snapshot must fail.
			if p.positions.Len() > 0 {
				return err
			}
			p.positions.Set(on, make(map[string]Quantity))
		}
	}
	p.AddPosition(on, name, trade.Quantity)
	p.AddPosition(on, p.currency, Q(trade.Cost().Amount()).Neg())
	return nil
}

// CarryTo projects the ledger forward to date, materializing a snapshot from
// the nearest strictly-earlier one. Held instruments carry their quantity
// unchanged unless expired; interim cashflows accrue into the cash balance.
// It is a pure forward projection (never looks past the date) and is
// idempotent: a date that already has a snapshot is left untouched.
//
// It fails with ErrNoPriorSnapshot when the ledger has no entry at or before
// the date.
func (p *Portfolio) CarryTo(on Date) error {
	if _, ok := p.positions.Get(on); ok {
		return nil
	}
	prev, prevPos, ok := p.positions.Before(on)
	if !ok {
		return fmt.Errorf("carry to %s: %w", on, ErrNoPriorSnapshot)
	}

	carried := make(map[string]Quantity)
	cash := prevPos[p.currency]

	for _, name := range sortedNames(prevPos) {
		if name == p.currency {
			continue
		}
		qty := prevPos[name]
		sec := p.securities.Resolve(name)
		if sec == nil {
			// No instrument for this name: carry it untouched, accrue nothing.
			p.substitution(name, on, "resolve", "no instrument for held name")
			carried[name] = qty
			continue
		}

		accrued := sec.CashToDate(prev, on)
		if math.IsNaN(accrued) {
			p.substitution(name, on, "cash_to_date", "not-a-number accrual")
			accrued = 0
		}
		cash = cash.Add(Q(accrued))

		if !sec.IsExpired(on) {
			carried[name] = qty
			continue
		}
		// Expired: the position is dropped. Settlement proceeds are credited
		// only when configured and the instrument can state them.
		if p.creditExpiry {
			if sv, ok := sec.(SettlementValuer); ok {
				settle := sv.SettlementValue(on)
				if math.IsNaN(settle) {
					p.substitution(name, on, "settlement_value", "not-a-number settlement")
					settle = 0
				}
				cash = cash.Add(qty.Mul(Q(settle)))
			}
		}
	}

	carried[p.currency] = cash
	p.positions.Set(on, carried)
	return nil
}

// Snapshot materializes and returns a copy of the position map at date.
func (p *Portfolio) Snapshot(on Date) (map[string]Quantity, error) {
	if err := p.CarryTo(on); err != nil {
		return nil, err
	}
	pos, _ := p.positions.Get(on)
	return maps.Clone(pos), nil
}

// Position materializes the date and returns the held quantity for name.
func (p *Portfolio) Position(on Date, name string) (Quantity, error) {
	if err := p.CarryTo(on); err != nil {
		return Quantity{}, err
	}
	pos, _ := p.positions.Get(on)
	return pos[name], nil
}

// Trades returns a copy of the audit record of net merged trades at date.
func (p *Portfolio) Trades(on Date) map[string]Trade {
	day, ok := p.trades.Get(on)
	if !ok {
		return nil
	}
	return maps.Clone(day)
}

// OldestDate returns the earliest date with a ledger entry, and false when
// the ledger is empty.
func (p *Portfolio) OldestDate() (Date, bool) {
	on, _, ok := p.positions.First()
	return on, ok
}

// Names returns the instrument names held at date (the currency excluded),
// in lexical order, materializing the date first.
func (p *Portfolio) Names(on Date) ([]string, error) {
	if err := p.CarryTo(on); err != nil {
		return nil, err
	}
	pos, _ := p.positions.Get(on)
	names := make([]string, 0, len(pos))
	for _, name := range sortedNames(pos) {
		if name != p.currency {
			names = append(names, name)
		}
	}
	return names, nil
}

// substitution logs a zero-substitution diagnostic naming the instrument,
// date, and operation.
func (p *Portfolio) substitution(name string, on Date, op, reason string) {
	p.log.Warn().
		Str("security", name).
		Stringer("date", on).
		Str("op", op).
		Msg(reason + ", substituting zero")
}

func sortedNames(m map[string]Quantity) []string {
	names := slices.Collect(maps.Keys(m))
	slices.Sort(names)
	return names
}
