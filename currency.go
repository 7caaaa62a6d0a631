package money

type (
	// Metadata is the display information of a currency as resolved by a
	// MetadataResolver. It never carries decimal places: those come from a fixed table.
	Metadata struct {
		Symbol      string `yaml:"symbol"`
		EnglishName string `yaml:"name"`
		NativeName  string `yaml:"native"`
	}

	MetadataResolver interface {
		ResolveMetadata(code Code) (Metadata, error)
	}

	// Currency is an immutable value describing a currency. Two currencies are equal
	// when their codes are equal.
	Currency struct {
		Code          Code
		DecimalPlaces int
		Symbol        string
		EnglishName   string
		NativeName    string
	}
)

// NewCurrency builds a Currency from its code and metadata.
func NewCurrency(code Code, metadata Metadata) Currency {
	return Currency{
		Code:          code,
		DecimalPlaces: DecimalPlacesFor(code),
		Symbol:        metadata.Symbol,
		EnglishName:   metadata.EnglishName,
		NativeName:    metadata.NativeName,
	}
}

// MinimalCurrency is a Currency with no symbol or names, used when metadata is missing.
func MinimalCurrency(code Code) Currency {
	return NewCurrency(code, Metadata{})
}

// DecimalPlacesFor reports the number of minor unit digits of a currency.
func DecimalPlacesFor(code Code) int {
	switch code {
	case CLF:
		return 4
	case BHD, IQD, JOD, KWD, LYD, OMR, TND:
		return 3
	case MGA, MRO:
		return 1
	case CLP, CVE, DJF, ISK, JPY, KMF, KRW, PYG, RWF, UGX, UYI, VND, VUV,
		XAF, XOF, XPF,
		XAG, XAU, XPD, XPT, // precious metals
		XBA, XBB, XBC, XBD, XDR, XFU, XSU, XUA, // units of account
		XTS, XXX:
		return 0
	default:
		return 2
	}
}

func (c Currency) Equal(other Currency) bool {
	return c.Code == other.Code
}

func (c Currency) String() string {
	if c.EnglishName == "" {
		return string(c.Code)
	}

	return c.EnglishName
}
