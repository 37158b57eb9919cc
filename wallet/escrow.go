package wallet

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/anyswap/XRPL-Custody/ledger"
)

// EscrowRequest describes an escrow; Amount is in whole units
type EscrowRequest struct {
	Destination    string
	Currency       string
	Issuer         string
	Amount         string
	DestinationTag *uint32
	ReleaseAfter   *time.Time
	CancelAfter    *time.Time
}

// EscrowResult identifies a created escrow by its owner sequence
type EscrowResult struct {
	TxResult
	Owner       string     `json:"owner"`
	ReleaseAt   *time.Time `json:"releaseAfter,omitempty"`
	CancelAt    *time.Time `json:"cancelAfter,omitempty"`
	Condition   string     `json:"condition,omitempty"`
	Fulfillment string     `json:"fulfillment,omitempty"`
}

func (w *Wallet) prepareEscrow(owner *Account, req *EscrowRequest) (*ledger.EscrowCreate, error) {
	reg := w.registry.Load()
	destination, err := checkDestination(reg, "destination", req.Destination)
	if err != nil {
		return nil, err
	}
	amt, err := resolveAmount(reg, req.Currency, req.Issuer, req.Amount)
	if err != nil {
		return nil, err
	}
	tx := &ledger.EscrowCreate{
		TxBase:         ledger.TxBase{TransactionType: ledger.TxEscrowCreate, Account: owner.Address()},
		Destination:    destination,
		Amount:         amt,
		DestinationTag: req.DestinationTag,
	}
	if req.ReleaseAfter != nil {
		if tx.FinishAfter, err = ledger.ToRippleTime(*req.ReleaseAfter); err != nil {
			return nil, err
		}
	}
	if req.CancelAfter != nil {
		if tx.CancelAfter, err = ledger.ToRippleTime(*req.CancelAfter); err != nil {
			return nil, err
		}
	}
	if tx.FinishAfter != 0 && tx.CancelAfter != 0 && tx.CancelAfter <= tx.FinishAfter {
		return nil, ledger.Validation("bad_escrow_time", "cancel-after must be later than release time")
	}
	return tx, nil
}

// CreateTimeEscrow locks an amount until releaseAfter. The escrow can be
// cancelled by anyone after cancelAfter when one is set.
func (w *Wallet) CreateTimeEscrow(ctx context.Context, owner *Account, req *EscrowRequest) (*EscrowResult, error) {
	if req.ReleaseAfter == nil {
		return nil, ledger.Validation("missing_release_after", "time escrow needs a release time")
	}
	tx, err := w.prepareEscrow(owner, req)
	if err != nil {
		return nil, err
	}
	result, err := w.submitEscrow(ctx, owner, tx)
	if err != nil {
		return result, err
	}
	result.ReleaseAt, result.CancelAt = timeOf(tx.FinishAfter), timeOf(tx.CancelAfter)
	return result, nil
}

// CreateConditionEscrow locks an amount behind a fresh crypto-condition.
// The fulfillment is returned to the creator and never stored here.
func (w *Wallet) CreateConditionEscrow(ctx context.Context, owner *Account, req *EscrowRequest) (*EscrowResult, error) {
	tx, err := w.prepareEscrow(owner, req)
	if err != nil {
		return nil, err
	}
	if !tx.Amount.IsNative() && tx.CancelAfter == 0 {
		return nil, ledger.Validation("missing_cancel_after", "issued asset escrows require cancel-after")
	}
	pair, err := NewConditionPair()
	if err != nil {
		return nil, err
	}
	tx.Condition = pair.Condition
	result, err := w.submitEscrow(ctx, owner, tx)
	if err != nil {
		return result, err
	}
	result.ReleaseAt, result.CancelAt = timeOf(tx.FinishAfter), timeOf(tx.CancelAfter)
	result.Condition, result.Fulfillment = pair.Condition, pair.Fulfillment
	return result, nil
}

func (w *Wallet) submitEscrow(ctx context.Context, owner *Account, tx *ledger.EscrowCreate) (*EscrowResult, error) {
	if err := w.checkFunding(ctx, owner.Address(), tx.Amount, w.cfg.BaseFee); err != nil {
		return nil, err
	}
	res, err := owner.Submit(ctx, tx)
	if err != nil {
		return nil, err
	}
	if _, err = res.SequenceNumber(); err != nil {
		// applied on ledger but unidentifiable, the caller must reconcile by hash
		return nil, fmt.Errorf("escrow %v: %w", res.Hash, err)
	}
	return &EscrowResult{TxResult: *newTxResult(res), Owner: owner.Address()}, nil
}

// FinishEscrow releases the escrow owner/sequence. A fulfillment is
// forwarded together with the condition derived from it; the ledger
// checks it against the stored condition.
func (w *Wallet) FinishEscrow(ctx context.Context, finisher *Account, owner string, sequence uint32, fulfillment string) (*TxResult, error) {
	if err := ledger.CheckAddress("owner", owner); err != nil {
		return nil, err
	}
	tx := &ledger.EscrowFinish{
		TxBase:        ledger.TxBase{TransactionType: ledger.TxEscrowFinish, Account: finisher.Address()},
		Owner:         owner,
		OfferSequence: sequence,
	}
	if fulfillment = strings.ToUpper(strings.TrimSpace(fulfillment)); fulfillment != "" {
		condition, err := ConditionFromFulfillment(fulfillment)
		if err != nil {
			return nil, err
		}
		tx.Condition, tx.Fulfillment = condition, fulfillment
		tx.Fee = strconv.FormatInt(FulfillmentFee(w.cfg.BaseFee, len(fulfillment)/2), 10)
	}
	res, err := finisher.Submit(ctx, tx)
	return newTxResult(res), err
}

// FulfillmentFee is the EscrowFinish fee for a fulfillment of size bytes
func FulfillmentFee(baseFee int64, size int) int64 {
	return baseFee * (33 + int64(size)/16)
}

// CancelEscrow returns an expired escrow to its owner
func (w *Wallet) CancelEscrow(ctx context.Context, canceller *Account, owner string, sequence uint32) (*TxResult, error) {
	if err := ledger.CheckAddress("owner", owner); err != nil {
		return nil, err
	}
	tx := &ledger.EscrowCancel{
		TxBase:        ledger.TxBase{TransactionType: ledger.TxEscrowCancel, Account: canceller.Address()},
		Owner:         owner,
		OfferSequence: sequence,
	}
	res, err := canceller.Submit(ctx, tx)
	return newTxResult(res), err
}

func timeOf(secs uint32) *time.Time {
	if secs == 0 {
		return nil
	}
	t := ledger.FromRippleTime(secs)
	return &t
}
