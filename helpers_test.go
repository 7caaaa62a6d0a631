package money_test

import (
	"fmt"
	"sync/atomic"

	"github.com/malusev998/money"
)

type fakeResolver struct {
	table map[money.Code]money.Metadata
	calls int64
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{
		table: map[money.Code]money.Metadata{
			money.USD: {Symbol: "$", EnglishName: "US Dollar", NativeName: "US Dollar"},
			money.EUR: {Symbol: "€", EnglishName: "Euro", NativeName: "euro"},
			money.JPY: {Symbol: "¥", EnglishName: "Japanese Yen", NativeName: "日本円"},
			money.BHD: {Symbol: "BD", EnglishName: "Bahraini Dinar", NativeName: "دينار بحريني"},
			money.CLF: {Symbol: "UF", EnglishName: "Chilean Unit of Account (UF)", NativeName: "Unidad de Fomento"},
		},
	}
}

func (f *fakeResolver) ResolveMetadata(code money.Code) (money.Metadata, error) {
	atomic.AddInt64(&f.calls, 1)

	metadata, ok := f.table[code]
	if !ok {
		return money.Metadata{}, fmt.Errorf("%w: %s", money.ErrMetadataNotFound, code)
	}

	return metadata, nil
}

func (f *fakeResolver) Calls() int64 {
	return atomic.LoadInt64(&f.calls)
}

func usd() money.Currency {
	return money.NewCurrency(money.USD, money.Metadata{Symbol: "$", EnglishName: "US Dollar"})
}

func eur() money.Currency {
	return money.NewCurrency(money.EUR, money.Metadata{Symbol: "€", EnglishName: "Euro"})
}
