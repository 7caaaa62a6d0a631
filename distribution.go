package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Distribution yields the shares of a Money split into equal parts. Each share is
// the remaining amount divided by the remaining number of shares, rounded half to
// even at the currency precision, so rounding leftovers move to later shares.
// A Distribution is consumed once and cannot be restarted.
type Distribution struct {
	currency  Currency
	remaining decimal.Decimal
	left      int64
}

// Distribute splits m into n shares that sum exactly to m.
func (m Money) Distribute(n int) (*Distribution, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: number of shares must be positive, got %d", ErrInvalidArgument, n)
	}

	return &Distribution{
		currency:  m.currency,
		remaining: m.amount,
		left:      int64(n),
	}, nil
}

// Split collects every share of Distribute(n).
func (m Money) Split(n int) ([]Money, error) {
	d, err := m.Distribute(n)
	if err != nil {
		return nil, err
	}

	return d.Collect(), nil
}

// Next returns the next share, or false once all shares were produced.
func (d *Distribution) Next() (Money, bool) {
	if d.left <= 0 {
		return Money{}, false
	}

	// The final share takes whatever is left, keeping the sum exact even for
	// amounts carrying more digits than the currency.
	part := d.remaining
	if d.left > 1 {
		part = d.remaining.
			Div(decimal.NewFromInt(d.left)).
			RoundBank(int32(d.currency.DecimalPlaces))
	}

	d.remaining = d.remaining.Sub(part)
	d.left--

	return New(part, d.currency), true
}

// Remaining reports how many shares are still to be produced.
func (d *Distribution) Remaining() int {
	return int(d.left)
}

// Collect drains the distribution.
func (d *Distribution) Collect() []Money {
	parts := make([]Money, 0, d.left)

	for part, ok := d.Next(); ok; part, ok = d.Next() {
		parts = append(parts, part)
	}

	return parts
}
