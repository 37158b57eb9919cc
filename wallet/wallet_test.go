package wallet

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anyswap/XRPL-Custody/ledger"
	"github.com/anyswap/XRPL-Custody/ledger/ledgertest"
	"github.com/anyswap/XRPL-Custody/registry"
)

const (
	issuerAddr  = "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh"
	aliceAddr   = "rNDKeo9RrCiRdfsMG8AdoZvNZxHASGzbZL"
	bobAddr     = "rPT1Sjq2YGrBMTttX4GZHjKu9dyfzbpAYe"
	carolAddr   = "rf1BiGeXwwQoi8Z2ueFYTEXSwuJYfV2Jpn"
	blockedAddr = "rLHzPsX6oXkzU2qL12kHCH8G8cnZv1rBJh"
	unfundedAdr = "rUn84CUYbNjRoTQ6mSW7BVJPSVJNLb1QLo"

	xrp = int64(ledger.DropsPerXRP)
)

type testCred struct {
	address string
	seed    string
	wiped   bool
}

func (c *testCred) Address() string { return c.address }
func (c *testCred) Seed() string    { return c.seed }
func (c *testCred) Wipe()           { c.seed, c.wiped = "", true }

type fixture struct {
	t      *testing.T
	ledger *ledgertest.Ledger
	wallet *Wallet
	ctx    context.Context
}

func newFixture(t *testing.T) *fixture {
	reg, err := registry.New(map[string]string{
		"USD": issuerAddr,
		"TKA": issuerAddr,
		"TKB": issuerAddr,
	}, []string{blockedAddr})
	require.NoError(t, err)
	l := ledgertest.New()
	creds := CredentialSourceFunc(func(label string) (Credential, error) {
		return &testCred{address: label, seed: "s" + label}, nil
	})
	w := New(l, registry.NewHolder(reg), creds, Config{})
	w.now = func() time.Time { return ledger.FromRippleTime(700000000) }
	return &fixture{t: t, ledger: l, wallet: w, ctx: context.Background()}
}

// fund funds address with xrps whole XRP
func (f *fixture) fund(address string, xrps int64) {
	f.ledger.Fund(address, "s"+address, xrps*xrp)
}

func (f *fixture) account(address string) *Account {
	acct, err := f.wallet.OpenAccount(address)
	require.NoError(f.t, err)
	return acct
}

func assertKind(t *testing.T, err error, kind ledger.Kind, code string) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, ledger.KindOf(err), err.Error())
	if code != "" {
		assert.Equal(t, code, ledger.CodeOf(err), err.Error())
	}
}

func TestConfigDefaults(t *testing.T) {
	w := New(ledgertest.New(), nil, nil, Config{BaseFee: 15})
	cfg := w.Config()
	assert.Equal(t, int64(15), cfg.BaseFee)
	assert.Equal(t, DefaultBaseReserve, cfg.BaseReserve)
	assert.Equal(t, DefaultOwnerReserve, cfg.OwnerReserve)
	assert.Equal(t, DefaultSubmitTimeout, cfg.SubmitTimeout)
	assert.Equal(t, DefaultTrustLimit, cfg.DefaultTrustLimit)
}

func TestOpenAccount(t *testing.T) {
	f := newFixture(t)
	_, err := f.wallet.OpenAccount("")
	assert.Equal(t, ErrEmptyIdentity, err)

	w := New(f.ledger, f.wallet.registry, nil, Config{})
	_, err = w.OpenAccount(aliceAddr)
	assert.Equal(t, ErrNoCredentials, err)

	acct := f.account(aliceAddr)
	assert.Equal(t, aliceAddr, acct.Label())
	assert.Equal(t, aliceAddr, acct.Address())
}

func TestWithAccountWipesCredential(t *testing.T) {
	f := newFixture(t)
	cred := &testCred{address: aliceAddr, seed: "s" + aliceAddr}
	f.wallet.creds = CredentialSourceFunc(func(string) (Credential, error) { return cred, nil })

	var seen *Account
	err := f.wallet.WithAccount("alice", func(acct *Account) error {
		seen = acct
		return nil
	})
	require.NoError(t, err)
	assert.True(t, cred.wiped)

	_, err = seen.Submit(f.ctx, ledger.NewOfferCancel(aliceAddr, 1))
	assert.Equal(t, ErrAccountClosed, err)
}

func TestSubmitWrongSigner(t *testing.T) {
	f := newFixture(t)
	acct := f.account(aliceAddr)
	defer acct.Close()
	_, err := acct.Submit(f.ctx, ledger.NewOfferCancel(bobAddr, 1))
	assert.Equal(t, ErrWrongSigner, err)
	assert.Equal(t, 0, f.ledger.Calls())
}

func TestSubmitUnknownOutcome(t *testing.T) {
	f := newFixture(t)
	f.fund(aliceAddr, 100)
	f.fund(bobAddr, 100)
	acct := f.account(aliceAddr)
	defer acct.Close()

	f.ledger.DropNextResult()
	_, err := f.wallet.CheckedSend(f.ctx, acct, &SendRequest{Destination: bobAddr, Currency: "XRP", Amount: "1"})
	assertKind(t, err, ledger.KindSubmissionUnknown, "unknown_outcome")
	assert.True(t, ledger.IsRetryable(err))
}
