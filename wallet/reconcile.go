package wallet

import (
	"context"
	"encoding/json"

	"github.com/anyswap/XRPL-Custody/ledger"
)

// OfferState is the reconciled lifecycle state of an offer
type OfferState string

// offer states
const (
	OfferOpen            OfferState = "open"
	OfferPartiallyFilled OfferState = "partially_filled"
	OfferFilled          OfferState = "filled"
	OfferCancelled       OfferState = "cancelled"
	OfferFailed          OfferState = "failed"
	// OfferUnknown means the scanned history window held no record of the
	// offer; it may be older than the window or may never have existed.
	OfferUnknown OfferState = "unknown"
)

// IsTerminal reports states that can no longer change
func (s OfferState) IsTerminal() bool {
	switch s {
	case OfferFilled, OfferCancelled, OfferFailed:
		return true
	}
	return false
}

// OfferStatus is the reconciled view of one offer
type OfferStatus struct {
	Owner    string              `json:"owner"`
	Sequence uint32              `json:"sequence"`
	State    OfferState          `json:"status"`
	Offer    *ledger.Offer       `json:"-"`
	TxHash   string              `json:"txHash,omitempty"`
	Result   ledger.EngineResult `json:"result,omitempty"`
	Scanned  int                 `json:"scanned"`
	Pages    int                 `json:"pages"`
}

// Conclusive is false when the state could not be determined
func (s *OfferStatus) Conclusive() bool {
	return s.State != OfferUnknown
}

// Err returns a ReconciliationAmbiguity error for an unknown status
func (s *OfferStatus) Err() error {
	if s.Conclusive() {
		return nil
	}
	return &ledger.Error{
		Kind:    ledger.KindReconciliationAmbiguity,
		Code:    "offer_not_found",
		Message: "no record of the offer within the scanned history window, widen the window or check the creating transaction",
	}
}

// ScanWindow bounds the history scan
type ScanWindow struct {
	PageSize int
	MaxPages int
}

// GetOfferStatus reconciles an offer with the configured scan window
func (w *Wallet) GetOfferStatus(ctx context.Context, owner string, sequence uint32) (*OfferStatus, error) {
	return w.GetOfferStatusWindow(ctx, owner, sequence, ScanWindow{PageSize: w.cfg.HistoryPageSize, MaxPages: w.cfg.HistoryMaxPages})
}

// GetOfferStatusWindow reconciles an offer: the open book answers first,
// then the owner's history is scanned newest first. A cancel found in
// history wins over the creating record.
func (w *Wallet) GetOfferStatusWindow(ctx context.Context, owner string, sequence uint32, window ScanWindow) (*OfferStatus, error) {
	if err := ledger.CheckAddress("owner", owner); err != nil {
		return nil, err
	}
	if sequence == 0 {
		return nil, ledger.Validation("bad_sequence", "offer sequence is zero")
	}
	if window.PageSize <= 0 {
		window.PageSize = DefaultHistoryPageSize
	}
	if window.MaxPages <= 0 {
		window.MaxPages = DefaultHistoryMaxPages
	}

	status := &OfferStatus{Owner: owner, Sequence: sequence}
	offers, err := w.gw.AccountOffers(ctx, owner)
	if err != nil {
		return nil, err
	}
	for i := range offers {
		if offers[i].Sequence != sequence {
			continue
		}
		status.Offer = &offers[i]
		status.State = restingState(&offers[i])
		return status, nil
	}

	var create *ledger.TxRecord
	var marker json.RawMessage
	for page := 0; page < window.MaxPages; page++ {
		history, err := w.gw.AccountTransactions(ctx, owner, &ledger.HistoryRequest{Limit: window.PageSize, Marker: marker})
		if err != nil {
			return nil, err
		}
		status.Pages++
		for i := range history.Transactions {
			rec := &history.Transactions[i]
			status.Scanned++
			if rec.Account != owner {
				continue
			}
			if cancelsOffer(rec, sequence) {
				status.State = OfferCancelled
				status.TxHash = rec.Hash
				status.Result = rec.Result
				return status, nil
			}
			if create == nil && rec.Type == ledger.TxOfferCreate && rec.Sequence == sequence {
				create = rec
			}
		}
		// the creating record bounds the search: anything cancelling the
		// offer comes after it and so was already seen
		if create != nil || !history.HasMore() {
			break
		}
		marker = history.Marker
	}

	if create == nil {
		status.State = OfferUnknown
		return status, nil
	}
	status.TxHash = create.Hash
	status.Result = create.Result
	if create.Result.IsSuccess() {
		status.State = OfferFilled
	} else {
		status.State = OfferFailed
	}
	return status, nil
}

// restingState is the state of an offer still on the book
func restingState(o *ledger.Offer) OfferState {
	if o.IsPartiallyFunded() {
		return OfferPartiallyFilled
	}
	return OfferOpen
}

// cancelsOffer reports a successful OfferCancel of sequence, or a
// successful OfferCreate that replaced it
func cancelsOffer(rec *ledger.TxRecord, sequence uint32) bool {
	if !rec.Result.IsSuccess() || rec.OfferSequence != sequence {
		return false
	}
	return rec.Type == ledger.TxOfferCancel || (rec.Type == ledger.TxOfferCreate && rec.Sequence != sequence)
}
