package money

import (
	"fmt"
	"sort"
	"strings"
)

// Code is an ISO 4217 alphabetic currency code. The set of valid codes is closed:
// only the constants declared below are recognised.
type Code string

const (
	AED Code = "AED"
	AFN Code = "AFN"
	ALL Code = "ALL"
	AMD Code = "AMD"
	ANG Code = "ANG"
	AOA Code = "AOA"
	ARS Code = "ARS"
	AUD Code = "AUD"
	AWG Code = "AWG"
	AZN Code = "AZN"
	BAM Code = "BAM"
	BBD Code = "BBD"
	BDT Code = "BDT"
	BGN Code = "BGN"
	BHD Code = "BHD"
	BIF Code = "BIF"
	BMD Code = "BMD"
	BND Code = "BND"
	BOB Code = "BOB"
	BOV Code = "BOV"
	BRL Code = "BRL"
	BSD Code = "BSD"
	BTN Code = "BTN"
	BWP Code = "BWP"
	BYR Code = "BYR"
	BZD Code = "BZD"
	CAD Code = "CAD"
	CDF Code = "CDF"
	CHE Code = "CHE"
	CHF Code = "CHF"
	CHW Code = "CHW"
	CLF Code = "CLF"
	CLP Code = "CLP"
	CNY Code = "CNY"
	COP Code = "COP"
	COU Code = "COU"
	CRC Code = "CRC"
	CUC Code = "CUC"
	CUP Code = "CUP"
	CVE Code = "CVE"
	CZK Code = "CZK"
	DJF Code = "DJF"
	DKK Code = "DKK"
	DOP Code = "DOP"
	DZD Code = "DZD"
	EGP Code = "EGP"
	ERN Code = "ERN"
	ETB Code = "ETB"
	EUR Code = "EUR"
	FJD Code = "FJD"
	FKP Code = "FKP"
	GBP Code = "GBP"
	GEL Code = "GEL"
	GHS Code = "GHS"
	GIP Code = "GIP"
	GMD Code = "GMD"
	GNF Code = "GNF"
	GTQ Code = "GTQ"
	GYD Code = "GYD"
	HKD Code = "HKD"
	HNL Code = "HNL"
	HRK Code = "HRK"
	HTG Code = "HTG"
	HUF Code = "HUF"
	IDR Code = "IDR"
	ILS Code = "ILS"
	INR Code = "INR"
	IQD Code = "IQD"
	IRR Code = "IRR"
	ISK Code = "ISK"
	JMD Code = "JMD"
	JOD Code = "JOD"
	JPY Code = "JPY"
	KES Code = "KES"
	KGS Code = "KGS"
	KHR Code = "KHR"
	KMF Code = "KMF"
	KPW Code = "KPW"
	KRW Code = "KRW"
	KWD Code = "KWD"
	KYD Code = "KYD"
	KZT Code = "KZT"
	LAK Code = "LAK"
	LBP Code = "LBP"
	LKR Code = "LKR"
	LRD Code = "LRD"
	LSL Code = "LSL"
	LYD Code = "LYD"
	MAD Code = "MAD"
	MDL Code = "MDL"
	MGA Code = "MGA"
	MKD Code = "MKD"
	MMK Code = "MMK"
	MNT Code = "MNT"
	MOP Code = "MOP"
	MRO Code = "MRO"
	MUR Code = "MUR"
	MVR Code = "MVR"
	MWK Code = "MWK"
	MXN Code = "MXN"
	MXV Code = "MXV"
	MYR Code = "MYR"
	MZN Code = "MZN"
	NAD Code = "NAD"
	NGN Code = "NGN"
	NIO Code = "NIO"
	NOK Code = "NOK"
	NPR Code = "NPR"
	NZD Code = "NZD"
	OMR Code = "OMR"
	PAB Code = "PAB"
	PEN Code = "PEN"
	PGK Code = "PGK"
	PHP Code = "PHP"
	PKR Code = "PKR"
	PLN Code = "PLN"
	PYG Code = "PYG"
	QAR Code = "QAR"
	RON Code = "RON"
	RSD Code = "RSD"
	RUB Code = "RUB"
	RWF Code = "RWF"
	SAR Code = "SAR"
	SBD Code = "SBD"
	SCR Code = "SCR"
	SDG Code = "SDG"
	SEK Code = "SEK"
	SGD Code = "SGD"
	SHP Code = "SHP"
	SLL Code = "SLL"
	SOS Code = "SOS"
	SRD Code = "SRD"
	SSP Code = "SSP"
	STD Code = "STD"
	SYP Code = "SYP"
	SZL Code = "SZL"
	THB Code = "THB"
	TJS Code = "TJS"
	TMT Code = "TMT"
	TND Code = "TND"
	TOP Code = "TOP"
	TRY Code = "TRY"
	TTD Code = "TTD"
	TWD Code = "TWD"
	TZS Code = "TZS"
	UAH Code = "UAH"
	UGX Code = "UGX"
	USD Code = "USD"
	USN Code = "USN"
	USS Code = "USS"
	UYI Code = "UYI"
	UYU Code = "UYU"
	UZS Code = "UZS"
	VEF Code = "VEF"
	VND Code = "VND"
	VUV Code = "VUV"
	WST Code = "WST"
	XAF Code = "XAF"
	XAG Code = "XAG"
	XAU Code = "XAU"
	XBA Code = "XBA"
	XBB Code = "XBB"
	XBC Code = "XBC"
	XBD Code = "XBD"
	XCD Code = "XCD"
	XDR Code = "XDR"
	XFU Code = "XFU"
	XOF Code = "XOF"
	XPD Code = "XPD"
	XPF Code = "XPF"
	XPT Code = "XPT"
	XSU Code = "XSU"
	XTS Code = "XTS"
	XUA Code = "XUA"
	XXX Code = "XXX"
	YER Code = "YER"
	ZAR Code = "ZAR"
	ZMW Code = "ZMW"
)

var numericCodes = map[Code]uint16{
	AED: 784,
	AFN: 971,
	ALL: 8,
	AMD: 51,
	ANG: 532,
	AOA: 973,
	ARS: 32,
	AUD: 36,
	AWG: 533,
	AZN: 944,
	BAM: 977,
	BBD: 52,
	BDT: 50,
	BGN: 975,
	BHD: 48,
	BIF: 108,
	BMD: 60,
	BND: 96,
	BOB: 68,
	BOV: 984,
	BRL: 986,
	BSD: 44,
	BTN: 64,
	BWP: 72,
	BYR: 974,
	BZD: 84,
	CAD: 124,
	CDF: 976,
	CHE: 947,
	CHF: 756,
	CHW: 948,
	CLF: 990,
	CLP: 152,
	CNY: 156,
	COP: 170,
	COU: 970,
	CRC: 188,
	CUC: 931,
	CUP: 192,
	CVE: 132,
	CZK: 203,
	DJF: 262,
	DKK: 208,
	DOP: 214,
	DZD: 12,
	EGP: 818,
	ERN: 232,
	ETB: 230,
	EUR: 978,
	FJD: 242,
	FKP: 238,
	GBP: 826,
	GEL: 981,
	GHS: 936,
	GIP: 292,
	GMD: 270,
	GNF: 324,
	GTQ: 320,
	GYD: 328,
	HKD: 344,
	HNL: 340,
	HRK: 191,
	HTG: 332,
	HUF: 348,
	IDR: 360,
	ILS: 376,
	INR: 356,
	IQD: 368,
	IRR: 364,
	ISK: 352,
	JMD: 388,
	JOD: 400,
	JPY: 392,
	KES: 404,
	KGS: 417,
	KHR: 116,
	KMF: 174,
	KPW: 408,
	KRW: 410,
	KWD: 414,
	KYD: 136,
	KZT: 398,
	LAK: 418,
	LBP: 422,
	LKR: 144,
	LRD: 430,
	LSL: 426,
	LYD: 434,
	MAD: 504,
	MDL: 498,
	MGA: 969,
	MKD: 807,
	MMK: 104,
	MNT: 496,
	MOP: 446,
	MRO: 478,
	MUR: 480,
	MVR: 462,
	MWK: 454,
	MXN: 484,
	MXV: 979,
	MYR: 458,
	MZN: 943,
	NAD: 516,
	NGN: 566,
	NIO: 558,
	NOK: 578,
	NPR: 524,
	NZD: 554,
	OMR: 512,
	PAB: 590,
	PEN: 604,
	PGK: 598,
	PHP: 608,
	PKR: 586,
	PLN: 985,
	PYG: 600,
	QAR: 634,
	RON: 946,
	RSD: 941,
	RUB: 643,
	RWF: 646,
	SAR: 682,
	SBD: 90,
	SCR: 690,
	SDG: 938,
	SEK: 752,
	SGD: 702,
	SHP: 654,
	SLL: 694,
	SOS: 706,
	SRD: 968,
	SSP: 728,
	STD: 678,
	SYP: 760,
	SZL: 748,
	THB: 764,
	TJS: 972,
	TMT: 934,
	TND: 788,
	TOP: 776,
	TRY: 949,
	TTD: 780,
	TWD: 901,
	TZS: 834,
	UAH: 980,
	UGX: 800,
	USD: 840,
	USN: 997,
	USS: 998,
	UYI: 940,
	UYU: 858,
	UZS: 860,
	VEF: 937,
	VND: 704,
	VUV: 548,
	WST: 882,
	XAF: 950,
	XAG: 961,
	XAU: 959,
	XBA: 955,
	XBB: 956,
	XBC: 957,
	XBD: 958,
	XCD: 951,
	XDR: 960,
	XFU: 0,
	XOF: 952,
	XPD: 964,
	XPF: 953,
	XPT: 962,
	XSU: 994,
	XTS: 963,
	XUA: 965,
	XXX: 999,
	YER: 886,
	ZAR: 710,
	ZMW: 967,
}

// ParseCode converts a case-insensitive alphabetic code into a Code.
func ParseCode(s string) (Code, error) {
	code := Code(strings.ToUpper(strings.TrimSpace(s)))

	if !code.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCode, s)
	}

	return code, nil
}

// MustParseCode is like ParseCode but panics on invalid input.
func MustParseCode(s string) Code {
	code, err := ParseCode(s)
	if err != nil {
		panic(err)
	}

	return code
}

// ConvertToCodesFromStringSlice parses every element of strs.
func ConvertToCodesFromStringSlice(strs []string) ([]Code, error) {
	codes := make([]Code, 0, len(strs))

	for _, str := range strs {
		code, err := ParseCode(str)
		if err != nil {
			return nil, err
		}

		codes = append(codes, code)
	}

	return codes, nil
}

func (c Code) IsValid() bool {
	_, ok := numericCodes[c]
	return ok
}

// Numeric returns the ISO 4217 numeric code, or 0 for invalid codes.
// XFU is also numbered 0.
func (c Code) Numeric() uint16 {
	return numericCodes[c]
}

func (c Code) String() string {
	return string(c)
}

// Codes returns every known code in alphabetical order.
func Codes() []Code {
	codes := make([]Code, 0, len(numericCodes))

	for code := range numericCodes {
		codes = append(codes, code)
	}

	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	return codes
}
