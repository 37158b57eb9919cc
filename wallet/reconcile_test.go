package wallet

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anyswap/XRPL-Custody/ledger"
)

func TestOfferStatusPartiallyFilled(t *testing.T) {
	f := newFixture(t)
	funded := mustIssued(t, "TKA", "40")
	f.ledger.AddOffer(ledger.Offer{
		Owner:           aliceAddr,
		Sequence:        7,
		TakerGets:       mustIssued(t, "TKA", "100"),
		TakerPays:       mustNative(t, "10"),
		TakerGetsFunded: &funded,
	})

	status, err := f.wallet.GetOfferStatus(f.ctx, aliceAddr, 7)
	require.NoError(t, err)
	assert.Equal(t, OfferPartiallyFilled, status.State)
	assert.False(t, status.State.IsTerminal())
	assert.Zero(t, status.Pages)
}

func TestOfferStatusCancelWinsOverCreate(t *testing.T) {
	f := newFixture(t)
	f.ledger.AddHistory(aliceAddr,
		ledger.TxRecord{Hash: "C1", Type: ledger.TxOfferCreate, Account: aliceAddr, Sequence: 7, Result: ledger.TesSUCCESS},
		ledger.TxRecord{Hash: "P1", Type: ledger.TxPayment, Account: bobAddr, Sequence: 3, Result: ledger.TesSUCCESS},
		ledger.TxRecord{Hash: "X1", Type: ledger.TxOfferCancel, Account: aliceAddr, Sequence: 8, OfferSequence: 7, Result: ledger.TesSUCCESS},
	)

	status, err := f.wallet.GetOfferStatus(f.ctx, aliceAddr, 7)
	require.NoError(t, err)
	assert.Equal(t, OfferCancelled, status.State)
	assert.Equal(t, "X1", status.TxHash)
	assert.True(t, status.State.IsTerminal())
}

func TestOfferStatusIgnoresFailedCancel(t *testing.T) {
	f := newFixture(t)
	f.ledger.AddHistory(aliceAddr,
		ledger.TxRecord{Hash: "C1", Type: ledger.TxOfferCreate, Account: aliceAddr, Sequence: 7, Result: ledger.TesSUCCESS},
		ledger.TxRecord{Hash: "X1", Type: ledger.TxOfferCancel, Account: aliceAddr, Sequence: 8, OfferSequence: 7, Result: "tecNO_ENTRY"},
	)

	status, err := f.wallet.GetOfferStatus(f.ctx, aliceAddr, 7)
	require.NoError(t, err)
	assert.Equal(t, OfferFilled, status.State)
	assert.Equal(t, "C1", status.TxHash)
}

func TestOfferStatusUnknown(t *testing.T) {
	f := newFixture(t)
	f.ledger.AddHistory(aliceAddr,
		ledger.TxRecord{Hash: "P1", Type: ledger.TxPayment, Account: aliceAddr, Sequence: 1, Result: ledger.TesSUCCESS},
	)

	status, err := f.wallet.GetOfferStatus(f.ctx, aliceAddr, 7)
	require.NoError(t, err)
	assert.Equal(t, OfferUnknown, status.State)
	assert.False(t, status.Conclusive())
	assertKind(t, status.Err(), ledger.KindReconciliationAmbiguity, "offer_not_found")
}

func TestOfferStatusScanWindow(t *testing.T) {
	f := newFixture(t)
	f.ledger.AddHistory(aliceAddr,
		ledger.TxRecord{Hash: "C1", Type: ledger.TxOfferCreate, Account: aliceAddr, Sequence: 7, Result: ledger.TesSUCCESS})
	for i := 0; i < 5; i++ {
		f.ledger.AddHistory(aliceAddr,
			ledger.TxRecord{Hash: fmt.Sprintf("P%d", i), Type: ledger.TxPayment, Account: aliceAddr, Sequence: uint32(8 + i), Result: ledger.TesSUCCESS})
	}

	status, err := f.wallet.GetOfferStatusWindow(f.ctx, aliceAddr, 7, ScanWindow{PageSize: 2, MaxPages: 1})
	require.NoError(t, err)
	assert.Equal(t, OfferUnknown, status.State)
	assert.Equal(t, 1, status.Pages)
	assert.Equal(t, 2, status.Scanned)

	status, err = f.wallet.GetOfferStatusWindow(f.ctx, aliceAddr, 7, ScanWindow{PageSize: 2, MaxPages: 5})
	require.NoError(t, err)
	assert.Equal(t, OfferFilled, status.State)
	assert.Equal(t, 3, status.Pages)
	assert.Equal(t, 6, status.Scanned)
}

func TestOfferStatusBadInput(t *testing.T) {
	f := newFixture(t)
	_, err := f.wallet.GetOfferStatus(f.ctx, "nope", 7)
	assertKind(t, err, ledger.KindValidation, "bad_owner")
	_, err = f.wallet.GetOfferStatus(f.ctx, aliceAddr, 0)
	assertKind(t, err, ledger.KindValidation, "bad_sequence")
	assert.Equal(t, 0, f.ledger.Calls())
}

func TestOfferStatusNetworkFailure(t *testing.T) {
	f := newFixture(t)
	f.ledger.FailNext(ledger.Network(fmt.Errorf("connection refused"), "account_offers"))
	_, err := f.wallet.GetOfferStatus(f.ctx, aliceAddr, 7)
	assertKind(t, err, ledger.KindNetwork, "network")
}
