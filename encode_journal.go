package quantfolio

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// CommandType identifies the kind of a journal entry.
type CommandType string

const (
	CmdPosition CommandType = "position"
	CmdTrade    CommandType = "trade"
	CmdRemove   CommandType = "remove"
)

// Entry is a single dated journal record that can be replayed against a
// portfolio.
type Entry interface {
	When() Date
	apply(p *Portfolio) error
}

// baseCmd carries the fields shared by every entry.
type baseCmd struct {
	Command  CommandType `json:"command"`
	Date     Date        `json:"date"`
	Security string      `json:"security"`
}

func (c baseCmd) When() Date { return c.Date }

// PositionEntry declares an absolute quantity adjustment at a date.
type PositionEntry struct {
	baseCmd
	Quantity Quantity `json:"quantity"`
}

func (e PositionEntry) apply(p *Portfolio) error {
	p.AddPosition(e.Date, e.Security, e.Quantity)
	return nil
}

// TradeEntry records a buy (positive quantity) or sell (negative).
type TradeEntry struct {
	baseCmd
	Quantity Quantity        `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency"`
}

func (e TradeEntry) apply(p *Portfolio) error {
	return p.AddTrade(e.Date, e.Security, Trade{
		Quantity: e.Quantity,
		Price:    M(e.Price, e.Currency),
	})
}

// RemoveEntry drops an instrument from the snapshot at a date.
type RemoveEntry struct{ baseCmd }

func (e RemoveEntry) apply(p *Portfolio) error {
	p.RemovePosition(e.Date, e.Security)
	return nil
}

// Journal is an ordered list of entries, the persistent form of a
// portfolio's bookkeeping.
type Journal struct {
	entries []Entry
}

func NewJournal() *Journal { return &Journal{} }

func (j *Journal) Append(entries ...Entry) { j.entries = append(j.entries, entries...) }

func (j *Journal) Len() int { return len(j.entries) }

// stableSort orders entries by date, same-day entries keep their relative
// order so trades replay the way they were recorded.
func (j *Journal) stableSort() {
	sort.SliceStable(j.entries, func(a, b int) bool {
		return j.entries[a].When().Before(j.entries[b].When())
	})
}

// Replay applies every entry, in date order, to the portfolio.
func (j *Journal) Replay(p *Portfolio) error {
	j.stableSort()
	for _, e := range j.entries {
		if err := e.apply(p); err != nil {
			return fmt.Errorf("cannot replay %s entry on %s: %w", kindOf(e), e.When(), err)
		}
	}
	return nil
}

func kindOf(e Entry) CommandType {
	switch e.(type) {
	case PositionEntry:
		return CmdPosition
	case TradeEntry:
		return CmdTrade
	case RemoveEntry:
		return CmdRemove
	}
	return "unknown"
}

// DecodeJournal reads JSONL entries from r, one JSON object per line, and
// returns them sorted by date.
func DecodeJournal(r io.Reader) (*Journal, error) {
	journal := NewJournal()
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var identifier struct {
			Command CommandType `json:"command"`
		}
		if err := json.Unmarshal(line, &identifier); err != nil {
			return nil, fmt.Errorf("could not identify command in line %q: %w", string(line), err)
		}

		var entry Entry
		var err error
		switch identifier.Command {
		case CmdPosition:
			var e PositionEntry
			err = json.Unmarshal(line, &e)
			entry = e
		case CmdTrade:
			var e TradeEntry
			err = json.Unmarshal(line, &e)
			entry = e
		case CmdRemove:
			var e RemoveEntry
			err = json.Unmarshal(line, &e)
			entry = e
		default:
			err = fmt.Errorf("unknown journal command: %q", identifier.Command)
		}
		if err != nil {
			return nil, err
		}
		journal.Append(entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}

	journal.stableSort()
	return journal, nil
}

// EncodeEntry marshals a single entry and writes it to w followed by a
// newline.
func EncodeEntry(w io.Writer, e Entry) error {
	data, err := json.Marshal(withCommand(e))
	if err != nil {
		return fmt.Errorf("failed to marshal journal entry: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write journal entry: %w", err)
	}
	return nil
}

// withCommand makes sure the command discriminator is set before encoding,
// so hand-built entries round trip.
func withCommand(e Entry) Entry {
	switch v := e.(type) {
	case PositionEntry:
		v.Command = CmdPosition
		return v
	case TradeEntry:
		v.Command = CmdTrade
		return v
	case RemoveEntry:
		v.Command = CmdRemove
		return v
	}
	return e
}

// EncodeJournal sorts the journal by date and persists it to w in JSONL
// format.
func EncodeJournal(w io.Writer, journal *Journal) error {
	journal.stableSort()
	for _, e := range journal.entries {
		if err := EncodeEntry(w, e); err != nil {
			return err
		}
	}
	return nil
}

// NewPositionEntry builds a position declaration entry.
func NewPositionEntry(on Date, security string, qty Quantity) PositionEntry {
	return PositionEntry{baseCmd: baseCmd{Command: CmdPosition, Date: on, Security: security}, Quantity: qty}
}

// NewTradeEntry builds a trade entry.
func NewTradeEntry(on Date, security string, qty Quantity, price Money) TradeEntry {
	return TradeEntry{
		baseCmd:  baseCmd{Command: CmdTrade, Date: on, Security: security},
		Quantity: qty,
		Price:    price.Amount(),
		Currency: price.Currency(),
	}
}

// NewRemoveEntry builds a removal entry.
func NewRemoveEntry(on Date, security string) RemoveEntry {
	return RemoveEntry{baseCmd{Command: CmdRemove, Date: on, Security: security}}
}
