package quantfolio

import "fmt"

// Trade is an immutable executed trade: a quantity at a unit price.
// A negative quantity is a sale.
type Trade struct {
	Quantity Quantity `json:"quantity"`
	Price    Money    `json:"price"`
}

// T builds a Trade from raw numbers, pricing in the given currency.
func T(qty, price float64, currency string) Trade {
	return Trade{Quantity: Q(qty), Price: M(price, currency)}
}

// Cost is the cash consideration of the trade: quantity times unit price.
func (t Trade) Cost() Money { return t.Price.Mul(t.Quantity) }

func (t Trade) String() string {
	return fmt.Sprintf("%s @ %s", t.Quantity, t.Price)
}

// MergeTrades nets two same-day trades on the same instrument into one,
// pricing the result at the quantity-weighted average price:
//
//	qty   = a.qty + b.qty
//	price = (a.qty·a.price + b.qty·b.price) / qty
//
// It fails with ErrZeroNetQuantity when the quantities cancel out, since the
// average price would divide by zero.
func MergeTrades(a, b Trade) (Trade, error) {
	qty := a.Quantity.Add(b.Quantity)
	if qty.IsZero() {
		return Trade{}, fmt.Errorf("merging %s with %s: %w", a, b, ErrZeroNetQuantity)
	}
	notional := a.Price.Mul(a.Quantity).Add(b.Price.Mul(b.Quantity))
	return Trade{Quantity: qty, Price: notional.Div(qty)}, nil
}
