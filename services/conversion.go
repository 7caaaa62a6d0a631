package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/malusev998/money"
)

// Kind tells how an amount was converted.
type Kind string

const (
	KindIdentity Kind = "identity"
	KindDirect   Kind = "direct"
	KindIndirect Kind = "indirect"
)

func rateFor(snapshot money.RateSnapshot, code money.Code) (decimal.Decimal, error) {
	rate, ok := snapshot.Rate(code)
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("%w: %s by %s", money.ErrUnsupportedCurrency, code, snapshot.Provider)
	}

	return rate, nil
}

// ConvertAmount converts amount from one currency to another using the rates of
// snapshot. When from is the snapshot base the target rate is applied directly,
// otherwise the amount is first converted into the base. The result is not rounded.
func ConvertAmount(snapshot money.RateSnapshot, amount decimal.Decimal, from, to money.Code) (decimal.Decimal, Kind, error) {
	if from == to {
		return amount, KindIdentity, nil
	}

	targetRate, err := rateFor(snapshot, to)
	if err != nil {
		return decimal.Decimal{}, "", err
	}

	if from == snapshot.Base {
		return amount.Mul(targetRate), KindDirect, nil
	}

	sourceRate, err := rateFor(snapshot, from)
	if err != nil {
		return decimal.Decimal{}, "", err
	}

	return amount.Div(sourceRate).Mul(targetRate), KindIndirect, nil
}

// CrossRate returns how many units of to one unit of from buys.
func CrossRate(snapshot money.RateSnapshot, from, to money.Code) (decimal.Decimal, error) {
	rate, _, err := ConvertAmount(snapshot, decimal.NewFromInt(1), from, to)
	return rate, err
}
