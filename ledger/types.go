package ledger

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// AccountInfo is the validated root state of an account
type AccountInfo struct {
	Address    string
	Balance    int64 // drops
	Sequence   uint32
	OwnerCount uint32
}

// Trustline is one line of an account as seen from the holder's side
type Trustline struct {
	Peer      string          `json:"account"`
	Currency  string          `json:"currency"`
	Balance   decimal.Decimal `json:"balance"`
	Limit     decimal.Decimal `json:"limit"`
	LimitPeer decimal.Decimal `json:"limit_peer"`
	NoRipple  bool            `json:"no_ripple,omitempty"`
	Freeze    bool            `json:"freeze,omitempty"`
}

// RemainingCapacity returns limit - balance clamped at zero. The anomaly
// flag is set when the balance already exceeds the limit.
func (t *Trustline) RemainingCapacity() (remaining decimal.Decimal, anomaly bool) {
	remaining = t.Limit.Sub(t.Balance)
	if remaining.IsNegative() {
		return decimal.Zero, true
	}
	return remaining, false
}

// Offer is a resting offer on the order book
type Offer struct {
	Owner      string
	Sequence   uint32
	Flags      uint32
	TakerGets  Amount
	TakerPays  Amount
	Quality    string
	Expiration uint32

	// funded snapshot, nil when the node did not report one
	TakerGetsFunded *Amount
	TakerPaysFunded *Amount
}

// IsPartiallyFunded reports whether the funded snapshot differs from the
// nominal amounts on either leg
func (o *Offer) IsPartiallyFunded() bool {
	if o.TakerGetsFunded != nil && !o.TakerGetsFunded.Equal(o.TakerGets) {
		return true
	}
	if o.TakerPaysFunded != nil && !o.TakerPaysFunded.Equal(o.TakerPays) {
		return true
	}
	return false
}

// TxRecord is a transaction as reported in account history
type TxRecord struct {
	Hash          string
	Type          TxType
	Account       string
	Sequence      uint32
	OfferSequence uint32
	Destination   string
	Amount        *Amount
	TakerGets     *Amount
	TakerPays     *Amount
	Result        EngineResult
	LedgerIndex   uint32
	Date          uint32
	Validated     bool
	Raw           json.RawMessage
}

// HistoryRequest pages account history
type HistoryRequest struct {
	Limit   int
	Forward bool
	Marker  json.RawMessage
}

// HistoryPage is one page of account history
type HistoryPage struct {
	Transactions []TxRecord
	Marker       json.RawMessage
}

// HasMore reports whether another page is available
func (p *HistoryPage) HasMore() bool {
	return len(p.Marker) > 0 && string(p.Marker) != "null"
}

// SignedTx is a signed transaction ready for submission
type SignedTx struct {
	Blob               string
	Hash               string
	Type               TxType
	Account            string
	Sequence           uint32
	LastLedgerSequence uint32
}

// SubmitResult is the validated outcome of a submission
type SubmitResult struct {
	Hash        string
	Result      EngineResult
	Sequence    *uint32
	LedgerIndex uint32
	Validated   bool
}

// SequenceNumber returns the consumed sequence or ErrMissingSequence
func (r *SubmitResult) SequenceNumber() (uint32, error) {
	if r == nil || r.Sequence == nil {
		return 0, ErrMissingSequence
	}
	return *r.Sequence, nil
}
