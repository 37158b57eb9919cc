package ledger

import (
	"encoding/hex"
	"regexp"
	"strings"
)

// NativeCurrency is the reserved code of the ledger's native asset
const NativeCurrency = "XRP"

const (
	standardCodeLen = 3
	maxTextCodeLen  = 20
	hexCodeLen      = 40
)

var (
	standardCodeReg = regexp.MustCompile(`^[A-Z0-9?!@#$%^&*<>(){}\[\]|]{3}$`)
	hexCodeReg      = regexp.MustCompile(`^[0-9A-F]{40}$`)
)

// NormalizeCurrency trims and upper-cases a currency code
func NormalizeCurrency(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsNativeCurrency reports whether code names the native asset
func IsNativeCurrency(code string) bool {
	return NormalizeCurrency(code) == NativeCurrency
}

// EncodeCurrency converts a user facing currency code to its ledger form.
// 3 char codes are kept, 4..20 char codes are hex encoded and right padded
// to 40 hex chars, 40 hex char codes are passed through.
func EncodeCurrency(code string) (string, error) {
	code = NormalizeCurrency(code)
	switch {
	case code == "":
		return "", Validation("bad_currency", "currency code is empty")
	case code == NativeCurrency:
		return NativeCurrency, nil
	case len(code) == hexCodeLen && hexCodeReg.MatchString(code):
		if strings.HasPrefix(code, "00") {
			return "", Validation("bad_currency", "currency code %v uses the reserved standard prefix", code)
		}
		return code, nil
	case len(code) == standardCodeLen:
		if !standardCodeReg.MatchString(code) {
			return "", Validation("bad_currency", "currency code %v has invalid characters", code)
		}
		return code, nil
	case len(code) > standardCodeLen && len(code) <= maxTextCodeLen:
		for _, c := range code {
			if c <= ' ' || c > '~' {
				return "", Validation("bad_currency", "currency code %v has invalid characters", code)
			}
		}
		encoded := strings.ToUpper(hex.EncodeToString([]byte(code)))
		return encoded + strings.Repeat("0", hexCodeLen-len(encoded)), nil
	default:
		return "", Validation("bad_currency", "currency code %v has invalid length %v", code, len(code))
	}
}

// DecodeCurrency converts a ledger currency code to a readable form.
// Hex codes holding printable ASCII are decoded, others are returned as is.
func DecodeCurrency(code string) string {
	code = NormalizeCurrency(code)
	if len(code) != hexCodeLen || !hexCodeReg.MatchString(code) {
		return code
	}
	raw, err := hex.DecodeString(code)
	if err != nil {
		return code
	}
	text := strings.TrimRight(string(raw), "\x00")
	if len(text) <= standardCodeLen {
		return code
	}
	for _, c := range text {
		if c <= ' ' || c > '~' {
			return code
		}
	}
	return text
}

// SameCurrency compares two codes in their ledger form
func SameCurrency(a, b string) bool {
	ea, err := EncodeCurrency(a)
	if err != nil {
		return NormalizeCurrency(a) == NormalizeCurrency(b)
	}
	eb, err := EncodeCurrency(b)
	if err != nil {
		return false
	}
	return ea == eb
}
