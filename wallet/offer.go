package wallet

import (
	"context"

	"github.com/anyswap/XRPL-Custody/ledger"
)

// OfferOptions select the OfferCreate execution flags
type OfferOptions struct {
	ImmediateOrCancel bool
	FillOrKill        bool
	Sell              bool
	// Replaces cancels the owner's offer with this sequence in the same transaction
	Replaces uint32
}

func (o *OfferOptions) flags() uint32 {
	var flags uint32
	if o == nil {
		return flags
	}
	if o.ImmediateOrCancel {
		flags |= ledger.TfImmediateOrCancel
	}
	if o.FillOrKill {
		flags |= ledger.TfFillOrKill
	}
	if o.Sell {
		flags |= ledger.TfSell
	}
	return flags
}

// OfferRequest is a user facing offer; values are in whole units
type OfferRequest struct {
	GiveCurrency string
	GiveIssuer   string
	GiveAmount   string
	WantCurrency string
	WantIssuer   string
	WantAmount   string
}

// ParseOffer resolves both legs of req against the registry
func (w *Wallet) ParseOffer(req *OfferRequest) (give, want ledger.Amount, err error) {
	reg := w.registry.Load()
	if give, err = resolveAmount(reg, req.GiveCurrency, req.GiveIssuer, req.GiveAmount); err != nil {
		return give, want, err
	}
	want, err = resolveAmount(reg, req.WantCurrency, req.WantIssuer, req.WantAmount)
	return give, want, err
}

func (w *Wallet) screenLegs(give, want ledger.Amount) error {
	reg := w.registry.Load()
	for _, leg := range []ledger.Amount{give, want} {
		if !leg.IsNative() && reg.IsBlacklisted(leg.Issuer()) {
			return ledger.Policy("blacklisted_issuer", "issuer %v is blacklisted", leg.Issuer())
		}
	}
	if !give.IsPositive() || !want.IsPositive() {
		return ledger.Validation("bad_amount", "offer amounts must be positive")
	}
	if give.SameAsset(want) {
		return ledger.Validation("bad_offer", "offer trades %v for itself", give.Asset())
	}
	return nil
}

// CheckedOfferCreate places an offer giving give in exchange for want after
// checking the owner can fund the give leg and hold the want leg.
// The returned sequence identifies the offer.
func (w *Wallet) CheckedOfferCreate(ctx context.Context, owner *Account, give, want ledger.Amount, opts *OfferOptions) (*TxResult, error) {
	if err := w.screenLegs(give, want); err != nil {
		return nil, err
	}
	if err := w.checkFunding(ctx, owner.Address(), give, 0); err != nil {
		return nil, err
	}
	if err := w.checkReceivable(ctx, owner.Address(), want); err != nil {
		return nil, err
	}
	tx := ledger.NewOfferCreate(owner.Address(), give, want, opts.flags())
	if opts != nil {
		tx.OfferSequence = opts.Replaces
	}
	return w.submitOffer(ctx, owner, tx)
}

// TakeOfferExact submits the mirror of a resting offer: the taker gives
// what the owner wants and wants what the owner gives. Only the payload
// shape is checked.
func (w *Wallet) TakeOfferExact(ctx context.Context, taker *Account, ownerGives, ownerWants ledger.Amount) (*TxResult, error) {
	tx := ledger.NewOfferCreate(taker.Address(), ownerWants, ownerGives, 0)
	return w.submitOffer(ctx, taker, tx)
}

// CancelOffer removes the owner's offer created at sequence
func (w *Wallet) CancelOffer(ctx context.Context, owner *Account, sequence uint32) (*TxResult, error) {
	res, err := owner.Submit(ctx, ledger.NewOfferCancel(owner.Address(), sequence))
	return newTxResult(res), err
}

func (w *Wallet) submitOffer(ctx context.Context, owner *Account, tx *ledger.OfferCreate) (*TxResult, error) {
	res, err := owner.Submit(ctx, tx)
	if err != nil {
		return newTxResult(res), err
	}
	if _, err := res.SequenceNumber(); err != nil {
		return newTxResult(res), err
	}
	return newTxResult(res), nil
}
