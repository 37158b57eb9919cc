package wallet

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anyswap/XRPL-Custody/ledger"
	"github.com/anyswap/XRPL-Custody/ledger/ledgertest"
)

const closeTime = 700000000

func at(offset time.Duration) *time.Time {
	t := ledger.FromRippleTime(closeTime).Add(offset)
	return &t
}

func TestConditionPairFromPreimage(t *testing.T) {
	pair, err := ConditionPairFromPreimage(bytes.Repeat([]byte{0xAA}, 32))
	require.NoError(t, err)
	assert.Len(t, pair.Condition, 78)
	assert.Equal(t, "A0258020", pair.Condition[:8])
	assert.Equal(t, "810120", pair.Condition[len(pair.Condition)-6:])
	assert.Len(t, pair.Fulfillment, 72)
	assert.Equal(t, "A0228020", pair.Fulfillment[:8])

	condition, err := ConditionFromFulfillment(pair.Fulfillment)
	require.NoError(t, err)
	assert.Equal(t, pair.Condition, condition)

	_, err = ConditionPairFromPreimage(nil)
	assertKind(t, err, ledger.KindValidation, "bad_preimage")
}

func TestNewConditionPairIsRandom(t *testing.T) {
	a, err := NewConditionPair()
	require.NoError(t, err)
	b, err := NewConditionPair()
	require.NoError(t, err)
	assert.NotEqual(t, a.Condition, b.Condition)
}

func TestConditionFromFulfillmentRejects(t *testing.T) {
	for _, bad := range []string{"zz", "", "A0028001", "A022802001"} {
		_, err := ConditionFromFulfillment(bad)
		assertKind(t, err, ledger.KindValidation, "bad_fulfillment")
	}
}

func TestFulfillmentFee(t *testing.T) {
	assert.Equal(t, int64(12*35), FulfillmentFee(12, 36))
	assert.Equal(t, int64(12*33), FulfillmentFee(12, 0))
}

func TestCreateConditionEscrowIssuedNeedsCancelAfter(t *testing.T) {
	f := newFixture(t)
	alice := f.account(aliceAddr)
	defer alice.Close()

	_, err := f.wallet.CreateConditionEscrow(f.ctx, alice, &EscrowRequest{Destination: bobAddr, Currency: "USD", Amount: "10"})
	assertKind(t, err, ledger.KindValidation, "missing_cancel_after")
	assert.Equal(t, 0, f.ledger.Calls())
}

func TestCreateTimeEscrowRejects(t *testing.T) {
	f := newFixture(t)
	alice := f.account(aliceAddr)
	defer alice.Close()

	_, err := f.wallet.CreateTimeEscrow(f.ctx, alice, &EscrowRequest{Destination: bobAddr, Currency: "XRP", Amount: "10"})
	assertKind(t, err, ledger.KindValidation, "missing_release_after")

	_, err = f.wallet.CreateTimeEscrow(f.ctx, alice, &EscrowRequest{
		Destination: bobAddr, Currency: "XRP", Amount: "10",
		ReleaseAfter: at(2 * time.Hour), CancelAfter: at(time.Hour),
	})
	assertKind(t, err, ledger.KindValidation, "bad_escrow_time")

	_, err = f.wallet.CreateTimeEscrow(f.ctx, alice, &EscrowRequest{
		Destination: blockedAddr, Currency: "XRP", Amount: "10", ReleaseAfter: at(time.Hour),
	})
	assertKind(t, err, ledger.KindPolicy, "blacklisted")
	assert.Equal(t, 0, f.ledger.Calls())
}

func TestTimeEscrowFinish(t *testing.T) {
	f := newFixture(t)
	f.fund(aliceAddr, 100)
	f.fund(bobAddr, 100)
	alice := f.account(aliceAddr)
	defer alice.Close()
	bob := f.account(bobAddr)
	defer bob.Close()

	created, err := f.wallet.CreateTimeEscrow(f.ctx, alice, &EscrowRequest{
		Destination: bobAddr, Currency: "XRP", Amount: "25", ReleaseAfter: at(time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, aliceAddr, created.Owner)
	require.NotNil(t, created.ReleaseAt)
	assert.True(t, created.ReleaseAt.Equal(*at(time.Hour)))
	assert.Nil(t, created.CancelAt)

	_, err = f.wallet.FinishEscrow(f.ctx, bob, aliceAddr, created.Sequence, "")
	assertKind(t, err, ledger.KindLedgerRejection, string(ledger.TecNO_PERMISSION))

	f.ledger.SetCloseTime(closeTime + 7200)
	before := f.ledger.Balance(bobAddr)
	res, err := f.wallet.FinishEscrow(f.ctx, bob, aliceAddr, created.Sequence, "")
	require.NoError(t, err)
	assert.Equal(t, ledger.TesSUCCESS, res.Result)
	assert.Equal(t, before+25*xrp-ledgertest.Fee, f.ledger.Balance(bobAddr))
}

func TestConditionEscrowFinish(t *testing.T) {
	f := newFixture(t)
	f.fund(aliceAddr, 100)
	f.fund(bobAddr, 100)
	alice := f.account(aliceAddr)
	defer alice.Close()
	bob := f.account(bobAddr)
	defer bob.Close()

	created, err := f.wallet.CreateConditionEscrow(f.ctx, alice, &EscrowRequest{
		Destination: bobAddr, Currency: "XRP", Amount: "10", CancelAfter: at(24 * time.Hour),
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.Fulfillment)
	condition, err := ConditionFromFulfillment(created.Fulfillment)
	require.NoError(t, err)
	assert.Equal(t, created.Condition, condition)

	other, err := NewConditionPair()
	require.NoError(t, err)
	_, err = f.wallet.FinishEscrow(f.ctx, bob, aliceAddr, created.Sequence, other.Fulfillment)
	assertKind(t, err, ledger.KindLedgerRejection, string(ledger.TecCRYPTOCONDITION_ERR))

	_, err = f.wallet.FinishEscrow(f.ctx, bob, aliceAddr, created.Sequence, "nothex")
	assertKind(t, err, ledger.KindValidation, "bad_fulfillment")

	before := f.ledger.Balance(bobAddr)
	res, err := f.wallet.FinishEscrow(f.ctx, bob, aliceAddr, created.Sequence, created.Fulfillment)
	require.NoError(t, err)
	assert.Equal(t, ledger.TesSUCCESS, res.Result)
	fee := FulfillmentFee(f.wallet.Config().BaseFee, len(created.Fulfillment)/2)
	assert.Equal(t, before+10*xrp-fee, f.ledger.Balance(bobAddr))
}

func TestEscrowCancel(t *testing.T) {
	f := newFixture(t)
	f.fund(aliceAddr, 100)
	f.fund(bobAddr, 100)
	alice := f.account(aliceAddr)
	defer alice.Close()

	created, err := f.wallet.CreateTimeEscrow(f.ctx, alice, &EscrowRequest{
		Destination: bobAddr, Currency: "XRP", Amount: "10",
		ReleaseAfter: at(time.Hour), CancelAfter: at(2 * time.Hour),
	})
	require.NoError(t, err)
	require.NotNil(t, created.CancelAt)

	_, err = f.wallet.CancelEscrow(f.ctx, alice, aliceAddr, created.Sequence)
	assertKind(t, err, ledger.KindLedgerRejection, string(ledger.TecNO_PERMISSION))

	f.ledger.SetCloseTime(closeTime + 3*3600)
	before := f.ledger.Balance(aliceAddr)
	_, err = f.wallet.CancelEscrow(f.ctx, alice, aliceAddr, created.Sequence)
	require.NoError(t, err)
	assert.Equal(t, before+10*xrp-ledgertest.Fee, f.ledger.Balance(aliceAddr))
}
