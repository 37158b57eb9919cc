package wallet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anyswap/XRPL-Custody/ledger"
)

func TestSummary(t *testing.T) {
	f := tradeFixture(t)
	alice := f.account(aliceAddr)
	defer alice.Close()
	_, err := f.wallet.CheckedOfferCreate(f.ctx, alice, mustIssued(t, "TKA", "10"), mustNative(t, "5"), nil)
	require.NoError(t, err)

	sum, err := f.wallet.Summary(f.ctx, aliceAddr)
	require.NoError(t, err)
	assert.Equal(t, aliceAddr, sum.Address)
	assert.Equal(t, uint32(3), sum.OwnerCount)
	assert.Equal(t, "99.999988", sum.Balance)
	assert.Equal(t, "16", sum.Reserve)
	assert.Equal(t, "83.999988", sum.Spendable)
	assert.Len(t, sum.Trustlines, 2)
	require.Len(t, sum.Offers, 1)
	assert.Equal(t, OfferOpen, sum.Offers[0].Status)
	assert.Equal(t, "TKA", sum.Offers[0].Gives.Currency)
}

func TestSummaryUnknownAccount(t *testing.T) {
	f := newFixture(t)
	_, err := f.wallet.Summary(f.ctx, unfundedAdr)
	assert.True(t, ledger.IsAccountNotFound(err))

	_, err = f.wallet.Summary(f.ctx, "bogus")
	assertKind(t, err, ledger.KindValidation, "bad_address")
}

func TestHistory(t *testing.T) {
	f := newFixture(t)
	f.fund(aliceAddr, 100)
	f.fund(bobAddr, 100)
	alice := f.account(aliceAddr)
	defer alice.Close()
	for _, value := range []string{"1", "2", "3"} {
		_, err := f.wallet.CheckedSend(f.ctx, alice, &SendRequest{Destination: bobAddr, Currency: "XRP", Amount: value})
		require.NoError(t, err)
	}

	entries, err := f.wallet.History(f.ctx, bobAddr, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "3", entries[0].Amount.Value)
	assert.False(t, entries[0].Outgoing)
	assert.Equal(t, ledger.TxPayment, entries[0].Type)
	require.NotNil(t, entries[0].Time)

	entries, err = f.wallet.History(f.ctx, aliceAddr, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
	assert.True(t, entries[2].Outgoing)
}
