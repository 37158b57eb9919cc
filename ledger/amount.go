package ledger

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// DropsPerXRP is the number of drops in one unit of the native asset
const DropsPerXRP = 1000000

const nativeDecimals = 6

// maxIssuedDigits bounds the precision of issued values on ledger
const maxIssuedDigits = 16

// Asset identifies a currency without a quantity
type Asset struct {
	Currency string `json:"currency"`
	Issuer   string `json:"issuer,omitempty"`
}

// NativeAsset is the ledger's native asset
var NativeAsset = Asset{Currency: NativeCurrency}

// IsNative reports whether the asset is the native one
func (a Asset) IsNative() bool {
	return (a.Currency == NativeCurrency || a.Currency == "") && a.Issuer == ""
}

// NewAsset validates and encodes a currency/issuer pair
func NewAsset(currency, issuer string) (Asset, error) {
	code, err := EncodeCurrency(currency)
	if err != nil {
		return Asset{}, err
	}
	if code == NativeCurrency {
		if issuer != "" {
			return Asset{}, Validation("bad_issuer", "native asset never carries an issuer")
		}
		return NativeAsset, nil
	}
	if err := CheckAddress("issuer", issuer); err != nil {
		return Asset{}, err
	}
	return Asset{Currency: code, Issuer: issuer}, nil
}

func (a Asset) String() string {
	if a.IsNative() {
		return NativeCurrency
	}
	return DecodeCurrency(a.Currency) + "." + a.Issuer
}

// Amount is either a native amount in integer drops or an issued amount
// with a currency code, an issuer and a decimal value.
type Amount struct {
	asset Asset
	drops int64
	value decimal.Decimal
}

// NewDrops returns a native amount
func NewDrops(drops int64) (Amount, error) {
	if drops < 0 {
		return Amount{}, Validation("bad_amount", "negative native amount %v", drops)
	}
	return Amount{asset: NativeAsset, drops: drops}, nil
}

// NativeFromDecimal converts a decimal XRP quantity to drops.
// Sub-drop precision is rejected rather than rounded.
func NativeFromDecimal(value string) (Amount, error) {
	d, err := parseDecimal(value)
	if err != nil {
		return Amount{}, err
	}
	drops := d.Shift(nativeDecimals)
	if !drops.Equal(drops.Truncate(0)) {
		return Amount{}, Validation("bad_precision", "native amount %v is finer than one drop", value)
	}
	if drops.GreaterThan(decimal.NewFromInt(math.MaxInt64)) {
		return Amount{}, Validation("bad_amount", "native amount %v overflows", value)
	}
	return NewDrops(drops.IntPart())
}

// NewIssued returns an issued amount; the issuer is required
func NewIssued(currency, issuer, value string) (Amount, error) {
	asset, err := NewAsset(currency, issuer)
	if err != nil {
		return Amount{}, err
	}
	if asset.IsNative() {
		return Amount{}, Validation("bad_currency", "native currency is not an issued asset")
	}
	d, err := parseDecimal(value)
	if err != nil {
		return Amount{}, err
	}
	if len(d.Coefficient().String()) > maxIssuedDigits {
		return Amount{}, Validation("bad_precision", "issued amount %v exceeds %v significant digits", value, maxIssuedDigits)
	}
	return Amount{asset: asset, value: d}, nil
}

// ParseAmount builds an amount from user input. Native values are given in
// whole units (eg. "1.5" is 1500000 drops).
func ParseAmount(currency, issuer, value string) (Amount, error) {
	if IsNativeCurrency(currency) {
		if issuer != "" {
			return Amount{}, Validation("bad_issuer", "native amounts never carry an issuer")
		}
		return NativeFromDecimal(value)
	}
	return NewIssued(currency, issuer, value)
}

func parseDecimal(value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, Validation("bad_amount", "amount is empty")
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, Validation("bad_amount", "amount %v is not a number", value)
	}
	if d.IsNegative() {
		return decimal.Zero, Validation("bad_amount", "amount %v is negative", value)
	}
	return d, nil
}

// IsNative reports a native amount
func (a Amount) IsNative() bool { return a.asset.IsNative() }

// Asset returns the currency/issuer of the amount
func (a Amount) Asset() Asset { return a.asset }

// Currency returns the ledger currency code
func (a Amount) Currency() string { return a.asset.Currency }

// Issuer returns the issuer, empty for native
func (a Amount) Issuer() string { return a.asset.Issuer }

// Drops returns the native quantity in drops
func (a Amount) Drops() int64 { return a.drops }

// Value returns the quantity in whole units
func (a Amount) Value() decimal.Decimal {
	if a.IsNative() {
		return decimal.New(a.drops, -nativeDecimals)
	}
	return a.value
}

// IsPositive reports a quantity above zero
func (a Amount) IsPositive() bool {
	if a.IsNative() {
		return a.drops > 0
	}
	return a.value.IsPositive()
}

// IsZero reports a zero quantity; the zero Amount is native zero
func (a Amount) IsZero() bool {
	return !a.IsPositive()
}

// SameAsset reports whether both amounts denote the same asset
func (a Amount) SameAsset(b Amount) bool {
	return a.asset.Currency == b.asset.Currency && a.asset.Issuer == b.asset.Issuer
}

// Cmp compares quantities of the same asset
func (a Amount) Cmp(b Amount) int {
	return a.Value().Cmp(b.Value())
}

// Equal reports same asset and same quantity
func (a Amount) Equal(b Amount) bool {
	return a.SameAsset(b) && a.Cmp(b) == 0
}

// ValueString renders the ledger wire quantity: drops for native,
// the decimal string for issued amounts.
func (a Amount) ValueString() string {
	if a.IsNative() {
		return strconv.FormatInt(a.drops, 10)
	}
	return a.value.String()
}

func (a Amount) String() string {
	if a.IsNative() {
		return a.Value().String() + " " + NativeCurrency
	}
	return a.value.String() + " " + a.asset.String()
}

type issuedJSON struct {
	Currency string `json:"currency"`
	Issuer   string `json:"issuer"`
	Value    string `json:"value"`
}

// MarshalJSON encodes the ledger wire form
func (a Amount) MarshalJSON() ([]byte, error) {
	if a.IsNative() {
		return json.Marshal(strconv.FormatInt(a.drops, 10))
	}
	return json.Marshal(issuedJSON{
		Currency: a.asset.Currency,
		Issuer:   a.asset.Issuer,
		Value:    a.value.String(),
	})
}

// UnmarshalJSON decodes the ledger wire form
func (a *Amount) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		drops, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("bad native amount %q: %w", s, err)
		}
		*a = Amount{asset: NativeAsset, drops: drops}
		return nil
	}
	var v issuedJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	d, err := decimal.NewFromString(v.Value)
	if err != nil {
		return fmt.Errorf("bad issued amount value %q: %w", v.Value, err)
	}
	*a = Amount{asset: Asset{Currency: NormalizeCurrency(v.Currency), Issuer: v.Issuer}, value: d}
	return nil
}
