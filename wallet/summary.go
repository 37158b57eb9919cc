package wallet

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/anyswap/XRPL-Custody/ledger"
)

// history listing limits
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 200
)

// TrustlineView is a trust line for display
type TrustlineView struct {
	Currency  string `json:"currency"`
	Issuer    string `json:"issuer"`
	Balance   string `json:"balance"`
	Limit     string `json:"limit"`
	Remaining string `json:"remaining"`
	Anomaly   bool   `json:"anomaly,omitempty"`
}

// OfferView is an own resting offer for display
type OfferView struct {
	Sequence uint32     `json:"sequence"`
	Gives    AmountView `json:"gives"`
	Wants    AmountView `json:"wants"`
	Status   OfferState `json:"status"`
}

// Summary is a point-in-time view of one account
type Summary struct {
	Address    string          `json:"address"`
	Balance    string          `json:"balance"`
	Spendable  string          `json:"spendable"`
	Reserve    string          `json:"reserve"`
	Sequence   uint32          `json:"sequence"`
	OwnerCount uint32          `json:"ownerCount"`
	Trustlines []TrustlineView `json:"trustlines"`
	Offers     []OfferView     `json:"offers"`
}

func dropsString(drops int64) string {
	return decimal.New(drops, -6).String()
}

// Summary reads balances, trust lines and resting offers of address
func (w *Wallet) Summary(ctx context.Context, address string) (*Summary, error) {
	if err := ledger.CheckAddress("address", address); err != nil {
		return nil, err
	}
	info, err := w.gw.AccountInfo(ctx, address)
	if err != nil {
		return nil, err
	}
	reserve := w.reserve(info.OwnerCount)
	spendable := info.Balance - reserve
	if spendable < 0 {
		spendable = 0
	}
	sum := &Summary{
		Address:    address,
		Balance:    dropsString(info.Balance),
		Spendable:  dropsString(spendable),
		Reserve:    dropsString(reserve),
		Sequence:   info.Sequence,
		OwnerCount: info.OwnerCount,
	}

	lines, err := w.gw.AccountLines(ctx, address, "")
	if err != nil {
		return nil, err
	}
	sum.Trustlines = make([]TrustlineView, 0, len(lines))
	for i := range lines {
		line := &lines[i]
		remaining, anomaly := line.RemainingCapacity()
		sum.Trustlines = append(sum.Trustlines, TrustlineView{
			Currency:  ledger.DecodeCurrency(line.Currency),
			Issuer:    line.Peer,
			Balance:   line.Balance.String(),
			Limit:     line.Limit.String(),
			Remaining: remaining.String(),
			Anomaly:   anomaly,
		})
	}

	offers, err := w.gw.AccountOffers(ctx, address)
	if err != nil {
		return nil, err
	}
	sum.Offers = make([]OfferView, 0, len(offers))
	for i := range offers {
		o := &offers[i]
		sum.Offers = append(sum.Offers, OfferView{
			Sequence: o.Sequence,
			Gives:    ViewOf(o.TakerGets),
			Wants:    ViewOf(o.TakerPays),
			Status:   restingState(o),
		})
	}
	return sum, nil
}

// HistoryEntry is one transaction of account history for display
type HistoryEntry struct {
	Hash        string              `json:"hash"`
	Type        ledger.TxType       `json:"type"`
	Account     string              `json:"account"`
	Destination string              `json:"destination,omitempty"`
	Amount      *AmountView         `json:"amount,omitempty"`
	Result      ledger.EngineResult `json:"result"`
	LedgerIndex uint32              `json:"ledgerIndex"`
	Time        *time.Time          `json:"time,omitempty"`
	Outgoing    bool                `json:"outgoing"`
}

// History lists the newest transactions touching address
func (w *Wallet) History(ctx context.Context, address string, limit int) ([]HistoryEntry, error) {
	if err := ledger.CheckAddress("address", address); err != nil {
		return nil, err
	}
	limit = clamp(limit, DefaultHistoryLimit, MaxHistoryLimit)
	page, err := w.gw.AccountTransactions(ctx, address, &ledger.HistoryRequest{Limit: limit})
	if err != nil {
		return nil, err
	}
	entries := make([]HistoryEntry, 0, len(page.Transactions))
	for i := range page.Transactions {
		tx := &page.Transactions[i]
		entry := HistoryEntry{
			Hash:        tx.Hash,
			Type:        tx.Type,
			Account:     tx.Account,
			Destination: tx.Destination,
			Result:      tx.Result,
			LedgerIndex: tx.LedgerIndex,
			Outgoing:    tx.Account == address,
		}
		if tx.Amount != nil {
			view := ViewOf(*tx.Amount)
			entry.Amount = &view
		}
		entry.Time = timeOf(tx.Date)
		entries = append(entries, entry)
	}
	return entries, nil
}
