package metadata_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/malusev998/money"
	"github.com/malusev998/money/metadata"
)

func TestDefault(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)

	table, err := metadata.Default()
	asserts.NoError(err)
	asserts.NotEmpty(table)

	usd, err := table.ResolveMetadata(money.USD)
	asserts.NoError(err)
	asserts.Equal("$", usd.Symbol)
	asserts.Equal("US Dollar", usd.EnglishName)

	jpy, err := table.ResolveMetadata(money.JPY)
	asserts.NoError(err)
	asserts.Equal("Japanese Yen", jpy.EnglishName)
	asserts.Equal("日本円", jpy.NativeName)

	for _, code := range []money.Code{money.XAU, money.XTS, money.XXX, money.XDR} {
		_, err := table.ResolveMetadata(code)
		asserts.True(errors.Is(err, money.ErrMetadataNotFound), code)
	}

	for code, m := range table {
		asserts.True(code.IsValid())
		asserts.NotEmpty(m.Symbol, code)
		asserts.NotEmpty(m.EnglishName, code)
	}
}

func TestParse(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)

	table, err := metadata.Parse([]byte("eur: {symbol: \"€\", name: Euro, native: euro}\n"))
	asserts.NoError(err)
	asserts.Equal(metadata.Table{money.EUR: {Symbol: "€", EnglishName: "Euro", NativeName: "euro"}}, table)

	_, err = metadata.Parse([]byte("BTC: {symbol: B}\n"))
	asserts.True(errors.Is(err, money.ErrUnknownCode))

	_, err = metadata.Parse([]byte("- not a map"))
	asserts.Error(err)
}

func TestNewResolver(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)

	path := filepath.Join(t.TempDir(), "currencies.yml")
	asserts.NoError(os.WriteFile(path, []byte("USD: {symbol: \"US$\", name: Dollar}\nXAU: {symbol: oz, name: Gold}\n"), 0o600))

	resolver, err := metadata.NewResolver(path)
	asserts.NoError(err)

	usd, err := resolver.ResolveMetadata(money.USD)
	asserts.NoError(err)
	asserts.Equal("US$", usd.Symbol)

	gold, err := resolver.ResolveMetadata(money.XAU)
	asserts.NoError(err)
	asserts.Equal("Gold", gold.EnglishName)

	eur, err := resolver.ResolveMetadata(money.EUR)
	asserts.NoError(err)
	asserts.Equal("€", eur.Symbol)

	_, err = resolver.ResolveMetadata(money.XTS)
	asserts.True(errors.Is(err, money.ErrMetadataNotFound))

	_, err = metadata.NewResolver(filepath.Join(t.TempDir(), "missing.yml"))
	asserts.Error(err)
}

func TestRegistryWithDefaultTable(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)

	registry := money.NewRegistry(metadata.MustDefault())

	bhd, err := registry.Lookup(money.BHD)
	asserts.NoError(err)
	asserts.Equal(3, bhd.DecimalPlaces)
	asserts.Equal("Bahraini Dinar", bhd.EnglishName)

	_, err = registry.Lookup(money.XAU)
	asserts.True(errors.Is(err, money.ErrUnknownCurrency))
}
