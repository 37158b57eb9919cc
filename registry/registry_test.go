package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anyswap/XRPL-Custody/ledger"
)

const (
	usdIssuer  = "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh"
	soloIssuer = "rsoLo2S1kiGeCcn6hCUXVrCpGMWLrRrLZz"
	scammer    = "rNDKeo9RrCiRdfsMG8AdoZvNZxHASGzbZL"
)

func testRegistry(t *testing.T) *Registry {
	r, err := New(map[string]string{"usd": usdIssuer, "SOLO": soloIssuer}, []string{scammer, " "})
	require.NoError(t, err)
	return r
}

func TestResolveIssuer(t *testing.T) {
	r := testRegistry(t)

	issuer, err := r.ResolveIssuer("XRP", usdIssuer)
	require.NoError(t, err)
	assert.Equal(t, "", issuer)

	issuer, err = r.ResolveIssuer("usd", "")
	require.NoError(t, err)
	assert.Equal(t, usdIssuer, issuer)

	issuer, err = r.ResolveIssuer("USD", soloIssuer)
	require.NoError(t, err)
	assert.Equal(t, soloIssuer, issuer)

	issuer, err = r.ResolveIssuer("solo", "")
	require.NoError(t, err)
	assert.Equal(t, soloIssuer, issuer)

	_, err = r.ResolveIssuer("EUR", "")
	assert.Equal(t, ledger.KindValidation, ledger.KindOf(err))
	assert.Equal(t, "unknown_currency", ledger.CodeOf(err))
}

func TestBlacklist(t *testing.T) {
	r := testRegistry(t)
	assert.True(t, r.IsBlacklisted(scammer))
	assert.False(t, r.IsBlacklisted(usdIssuer))
	assert.Equal(t, []string{scammer}, r.Blacklist())

	next := r.WithBlacklist(usdIssuer)
	assert.True(t, next.IsBlacklisted(usdIssuer))
	assert.False(t, r.IsBlacklisted(usdIssuer), "original snapshot must not change")

	h := NewHolder(r)
	h.Store(next)
	assert.True(t, h.Load().IsBlacklisted(usdIssuer))
}

func TestCurrencies(t *testing.T) {
	r := testRegistry(t)
	assert.Equal(t, []string{"534F4C4F00000000000000000000000000000000", "USD"}, r.Currencies())
	assert.Equal(t, map[string]string{"USD": usdIssuer, "SOLO": soloIssuer}, r.Tokens())
}

func TestNewRejectsBadEntries(t *testing.T) {
	_, err := New(map[string]string{"XRP": usdIssuer}, nil)
	assert.Error(t, err)
	_, err = New(map[string]string{"USD": "not-an-address"}, nil)
	assert.Error(t, err)
	_, err = New(map[string]string{"U": usdIssuer}, nil)
	assert.Error(t, err)
}

func TestLoadBlacklistFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blacklist.txt")
	content := "# known scams\n" + scammer + "\n\n  " + usdIssuer + "  # frozen issuer\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	list, err := LoadBlacklistFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{scammer, usdIssuer}, list)

	_, err = LoadBlacklistFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}
