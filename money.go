package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// maxFormatPlaces is the largest number of decimal places Format supports.
const maxFormatPlaces = 4

// Money is an immutable amount of a currency. Arithmetic keeps full precision;
// only Distribute, Round and Format round the amount.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// New returns amount of currency. The amount is kept as given, without rounding.
func New(amount decimal.Decimal, currency Currency) Money {
	return Money{amount: amount, currency: currency}
}

// FromInt returns a whole amount of currency.
func FromInt(amount int64, currency Currency) Money {
	return New(decimal.NewFromInt(amount), currency)
}

// FromString parses a decimal amount such as "12.34".
func FromString(amount string, currency Currency) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("%w: amount %q: %v", ErrInvalidArgument, amount, err)
	}

	return New(d, currency), nil
}

// Zero returns no money in currency.
func Zero(currency Currency) Money {
	return New(decimal.Zero, currency)
}

// One returns a single unit of currency.
func One(currency Currency) Money {
	return New(decimal.NewFromInt(1), currency)
}

// Amount is the exact, unrounded amount.
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

func (m Money) Currency() Currency {
	return m.currency
}

// Code is shorthand for m.Currency().Code.
func (m Money) Code() Code {
	return m.currency.Code
}

func (m Money) sameCurrency(other Money) error {
	if !m.currency.Equal(other.currency) {
		return fmt.Errorf("%w: %s and %s", ErrCurrencyMismatch, m.currency.Code, other.currency.Code)
	}

	return nil
}

func (m Money) Add(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}

	return New(m.amount.Add(other.amount), m.currency), nil
}

func (m Money) Subtract(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}

	return New(m.amount.Sub(other.amount), m.currency), nil
}

func (m Money) Multiply(factor int64) Money {
	return New(m.amount.Mul(decimal.NewFromInt(factor)), m.currency)
}

// Divide returns the quotient without rounding it to the currency precision.
func (m Money) Divide(divisor int64) (Money, error) {
	if divisor == 0 {
		return Money{}, ErrDivisionByZero
	}

	return New(m.amount.Div(decimal.NewFromInt(divisor)), m.currency), nil
}

func (m Money) Negate() Money {
	return New(m.amount.Neg(), m.currency)
}

func (m Money) Abs() Money {
	return New(m.amount.Abs(), m.currency)
}

// Round rounds the amount to the currency decimal places using banker's rounding.
func (m Money) Round() Money {
	return New(m.amount.RoundBank(int32(m.currency.DecimalPlaces)), m.currency)
}

func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// Equal reports whether both amount and currency code match.
func (m Money) Equal(other Money) bool {
	return m.currency.Equal(other.currency) && m.amount.Equal(other.amount)
}

// CompareAmounts compares amounts only, even across different currencies.
// It returns -1, 0 or +1.
func CompareAmounts(a, b Money) int {
	return a.amount.Cmp(b.amount)
}

// Compare is the strict counterpart of CompareAmounts: it refuses to order
// amounts of different currencies.
func Compare(a, b Money) (int, error) {
	if err := a.sameCurrency(b); err != nil {
		return 0, err
	}

	return a.amount.Cmp(b.amount), nil
}

func (m Money) LessThan(other Money) bool {
	return CompareAmounts(m, other) < 0
}

func (m Money) LessThanOrEqual(other Money) bool {
	return CompareAmounts(m, other) <= 0
}

func (m Money) GreaterThan(other Money) bool {
	return CompareAmounts(m, other) > 0
}

func (m Money) GreaterThanOrEqual(other Money) bool {
	return CompareAmounts(m, other) >= 0
}

// Format renders the symbol, the amount with exactly as many fractional digits as
// the currency has decimal places, and the code, e.g. "$10.50 USD".
func (m Money) Format() (string, error) {
	places := m.currency.DecimalPlaces

	if places < 0 || places > maxFormatPlaces {
		return "", fmt.Errorf("%w: %s has %d", ErrUnsupportedPrecision, m.currency.Code, places)
	}

	return m.currency.Symbol + m.amount.StringFixed(int32(places)) + " " + string(m.currency.Code), nil
}

func (m Money) String() string {
	formatted, err := m.Format()
	if err != nil {
		return m.amount.String() + " " + string(m.currency.Code)
	}

	return formatted
}
