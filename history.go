package quantfolio

import (
	"iter"
	"slices"
)

// history stores a chronological series of values, each associated with a
// specific date. Dates are unique and the series is always sorted, so
// "latest date at or before d" lookups are binary searches.
type history[T any] struct {
	days   []Date
	values []T
}

func compareDates(a, b Date) int { return a.Compare(b) }

// Len returns the number of items in the history.
func (h *history[T]) Len() int { return len(h.days) }

// Get returns the value at 'day' and true, or the zero value and false.
func (h *history[T]) Get(day Date) (T, bool) {
	i, found := slices.BinarySearchFunc(h.days, day, compareDates)
	if found {
		return h.values[i], true
	}
	var zero T
	return zero, false
}

// Set records a value at 'day', overwriting any existing value at that date.
func (h *history[T]) Set(day Date, v T) {
	i, found := slices.BinarySearchFunc(h.days, day, compareDates)
	if found {
		h.values[i] = v
		return
	}
	h.days = slices.Insert(h.days, i, day)
	h.values = slices.Insert(h.values, i, v)
}

// Delete removes the entry at 'day' if present.
func (h *history[T]) Delete(day Date) {
	i, found := slices.BinarySearchFunc(h.days, day, compareDates)
	if !found {
		return
	}
	h.days = slices.Delete(h.days, i, i+1)
	h.values = slices.Delete(h.values, i, i+1)
}

// AsOf returns the entry on 'day', or the most recent entry before it.
func (h *history[T]) AsOf(day Date) (Date, T, bool) {
	i, found := slices.BinarySearchFunc(h.days, day, compareDates)
	if found {
		return h.days[i], h.values[i], true
	}
	if i == 0 {
		var zero T
		return Date{}, zero, false // No date on or before the given day.
	}
	return h.days[i-1], h.values[i-1], true
}

// Before returns the most recent entry strictly before 'day'.
func (h *history[T]) Before(day Date) (Date, T, bool) {
	i, _ := slices.BinarySearchFunc(h.days, day, compareDates)
	// i is the insertion point; the entry at i-1 is the last strictly-earlier one.
	if i == 0 {
		var zero T
		return Date{}, zero, false
	}
	return h.days[i-1], h.values[i-1], true
}

// First returns the earliest entry in the history.
func (h *history[T]) First() (Date, T, bool) {
	if len(h.days) == 0 {
		var zero T
		return Date{}, zero, false
	}
	return h.days[0], h.values[0], true
}

// Latest returns the latest entry in the history.
func (h *history[T]) Latest() (Date, T, bool) {
	last := len(h.days) - 1
	if last < 0 {
		var zero T
		return Date{}, zero, false
	}
	return h.days[last], h.values[last], true
}

// Values returns an iterator over all date/value pairs, in chronological order.
func (h *history[T]) Values() iter.Seq2[Date, T] {
	return func(yield func(Date, T) bool) {
		for i, on := range h.days {
			if !yield(on, h.values[i]) {
				return
			}
		}
	}
}
