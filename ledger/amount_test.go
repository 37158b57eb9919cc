package ledger

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer = "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh"
	testHolder = "rNDKeo9RrCiRdfsMG8AdoZvNZxHASGzbZL"
)

func TestNativeFromDecimal(t *testing.T) {
	tests := []struct {
		value string
		drops int64
		err   string
	}{
		{"1.5", 1500000, ""},
		{"1", 1000000, ""},
		{"0.000001", 1, ""},
		{"100000", 100000000000, ""},
		{"0.0000001", 0, "bad_precision"},
		{"1.0000005", 0, "bad_precision"},
		{"-1", 0, "bad_amount"},
		{"abc", 0, "bad_amount"},
		{"", 0, "bad_amount"},
	}
	for _, test := range tests {
		amt, err := NativeFromDecimal(test.value)
		if test.err != "" {
			assert.Equal(t, KindValidation, KindOf(err), test.value)
			assert.Equal(t, test.err, CodeOf(err), test.value)
			continue
		}
		require.NoError(t, err, test.value)
		assert.True(t, amt.IsNative())
		assert.Equal(t, test.drops, amt.Drops(), test.value)
	}
}

func TestParseAmount(t *testing.T) {
	amt, err := ParseAmount("usd", testIssuer, "12.50")
	require.NoError(t, err)
	assert.False(t, amt.IsNative())
	assert.Equal(t, "USD", amt.Currency())
	assert.Equal(t, testIssuer, amt.Issuer())
	assert.Equal(t, "12.5", amt.ValueString())

	_, err = ParseAmount("USD", "", "1")
	assert.Equal(t, "missing_issuer", CodeOf(err))

	_, err = ParseAmount("XRP", testIssuer, "1")
	assert.Equal(t, "bad_issuer", CodeOf(err))

	_, err = ParseAmount("USD", testIssuer, "1.23456789012345678")
	assert.Equal(t, "bad_precision", CodeOf(err))

	amt, err = ParseAmount(" xrp ", "", "2")
	require.NoError(t, err)
	assert.Equal(t, int64(2000000), amt.Drops())
	assert.Equal(t, "2", amt.Value().String())
}

func TestAmountWireFormat(t *testing.T) {
	native, err := NewDrops(1500000)
	require.NoError(t, err)
	data, err := json.Marshal(native)
	require.NoError(t, err)
	assert.Equal(t, `"1500000"`, string(data))

	issued, err := NewIssued("solo", testIssuer, "100")
	require.NoError(t, err)
	data, err = json.Marshal(issued)
	require.NoError(t, err)
	assert.JSONEq(t, `{"currency":"534F4C4F00000000000000000000000000000000","issuer":"`+testIssuer+`","value":"100"}`, string(data))

	var decoded Amount
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, decoded.Equal(issued))
	assert.Equal(t, "100 SOLO."+testIssuer, decoded.String())
}

func TestAmountCompare(t *testing.T) {
	a, _ := NewIssued("USD", testIssuer, "10")
	b, _ := NewIssued("USD", testIssuer, "10.000")
	c, _ := NewIssued("USD", testHolder, "10")
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.True(t, a.SameAsset(b))
	assert.Equal(t, 0, a.Cmp(c))

	var zero Amount
	assert.True(t, zero.IsNative())
	assert.True(t, zero.IsZero())
}
