package money

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

type Provider string

const (
	OpenExchangeRatesProvider Provider = "OpenExchangeRates"
	ExchangeRatesAPIProvider  Provider = "ExchangeRatesAPI"
	FreeConvProvider          Provider = "FreeCurrConversion"
	EmptyProvider             Provider = ""
)

func ConvertToProvidersFromStringSlice(strings []string) ([]Provider, error) {
	providers := make([]Provider, 0, len(strings))

	for _, str := range strings {
		provider, err := ConvertToProviderFromString(str)
		if err != nil {
			return nil, err
		}

		providers = append(providers, provider)
	}

	return providers, nil
}

func ConvertToProviderFromString(str string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "openexchangerates":
		return OpenExchangeRatesProvider, nil
	case "exchangeratesapi":
		return ExchangeRatesAPIProvider, nil
	case "freecurrconversion":
		return FreeConvProvider, nil
	}

	return EmptyProvider, fmt.Errorf("value %s is not valid Provider", str)
}

func (p Provider) String() string {
	return string(p)
}

func (p *Provider) UnmarshalText(text []byte) error {
	provider, err := ConvertToProviderFromString(string(text))
	if err != nil {
		return err
	}

	*p = provider

	return nil
}

func (p Provider) MarshalText() ([]byte, error) {
	return []byte(p), nil
}

func (p *Provider) UnmarshalYAML(value *yaml.Node) error {
	var str string
	if err := value.Decode(&str); err != nil {
		return err
	}

	return p.UnmarshalText([]byte(str))
}

func (p Provider) MarshalYAML() (interface{}, error) {
	return string(p), nil
}
