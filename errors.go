package money

import "errors"

var (
	ErrCurrencyMismatch     = errors.New("currencies do not match")
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrDivisionByZero       = errors.New("division by zero")
	ErrUnknownCode          = errors.New("unknown currency code")
	ErrUnknownCurrency      = errors.New("currency metadata cannot be resolved")
	ErrMetadataNotFound     = errors.New("currency metadata not found")
	ErrUnsupportedPrecision = errors.New("unsupported decimal places")
	ErrRateUnavailable      = errors.New("exchange rates are unavailable")
	ErrUnsupportedCurrency  = errors.New("currency is not supported by the rate snapshot")
	ErrFetch                = errors.New("fetching exchange rates failed")
	ErrSnapshotNotFound     = errors.New("rate snapshot is not found in storage")
)
