package wallet

import (
	"context"
	"sort"

	mapset "github.com/deckarep/golang-set"

	"github.com/anyswap/XRPL-Custody/ledger"
	"github.com/anyswap/XRPL-Custody/log"
)

// book listing limits
const (
	DefaultBookLimit    = 10
	MaxBookLimit        = 50
	DefaultIncomingMax  = 20
	DefaultPerBookLimit = 5
	MaxPerBookLimit     = 20
)

// AmountView is an amount in whole units with a readable currency code
type AmountView struct {
	Currency string `json:"currency"`
	Issuer   string `json:"issuer,omitempty"`
	Value    string `json:"value"`
}

// ViewOf renders amt for display
func ViewOf(amt ledger.Amount) AmountView {
	if amt.IsNative() {
		return AmountView{Currency: ledger.NativeCurrency, Value: amt.Value().String()}
	}
	return AmountView{
		Currency: ledger.DecodeCurrency(amt.Currency()),
		Issuer:   amt.Issuer(),
		Value:    amt.Value().String(),
	}
}

// BookEntry is a resting offer seen from a would-be taker
type BookEntry struct {
	Owner      string     `json:"owner"`
	Sequence   uint32     `json:"offer_sequence"`
	Quality    string     `json:"quality"`
	OwnerGives AmountView `json:"owner_give"`
	OwnerWants AmountView `json:"owner_want"`
	Status     OfferState `json:"status"`
}

func newBookEntry(o *ledger.Offer) BookEntry {
	return BookEntry{
		Owner:      o.Owner,
		Sequence:   o.Sequence,
		Quality:    o.Quality,
		OwnerGives: ViewOf(o.TakerGets),
		OwnerWants: ViewOf(o.TakerPays),
		Status:     OfferOpen,
	}
}

func clamp(v, def, max int) int {
	if v <= 0 {
		return def
	}
	if v > max {
		return max
	}
	return v
}

// OrderBook lists offers a requester selling sell for buy could take,
// skipping the requester's own offers when exclude is set
func (w *Wallet) OrderBook(ctx context.Context, sell, buy ledger.Asset, limit int, exclude string) ([]BookEntry, error) {
	limit = clamp(limit, DefaultBookLimit, MaxBookLimit)
	offers, err := w.gw.BookOffers(ctx, buy, sell, limit)
	if err != nil {
		return nil, err
	}
	entries := make([]BookEntry, 0, len(offers))
	for i := range offers {
		if exclude != "" && offers[i].Owner == exclude {
			continue
		}
		entries = append(entries, newBookEntry(&offers[i]))
	}
	return entries, nil
}

// IncomingOffers scans the books pairing XRP with every asset the account
// knows of, from the registry and its own trust lines, and lists offers of
// other owners, deduplicated by owner and sequence.
func (w *Wallet) IncomingOffers(ctx context.Context, address string, limit, perBook int) ([]BookEntry, error) {
	limit = clamp(limit, DefaultIncomingMax, MaxBookLimit)
	perBook = clamp(perBook, DefaultPerBookLimit, MaxPerBookLimit)

	assets := mapset.NewThreadUnsafeSet()
	reg := w.registry.Load()
	for code, issuer := range reg.Tokens() {
		if asset, err := ledger.NewAsset(code, issuer); err == nil {
			assets.Add(asset)
		}
	}
	lines, err := w.gw.AccountLines(ctx, address, "")
	if err != nil {
		return nil, err
	}
	for _, line := range lines {
		if asset, err := ledger.NewAsset(line.Currency, line.Peer); err == nil && !asset.IsNative() {
			assets.Add(asset)
		}
	}
	issued := make([]ledger.Asset, 0, assets.Cardinality())
	for _, item := range assets.ToSlice() {
		issued = append(issued, item.(ledger.Asset))
	}
	sort.Slice(issued, func(i, j int) bool { return issued[i].String() < issued[j].String() })

	seen := mapset.NewThreadUnsafeSet()
	entries := make([]BookEntry, 0, limit)
	for _, asset := range issued {
		for _, pair := range [][2]ledger.Asset{{ledger.NativeAsset, asset}, {asset, ledger.NativeAsset}} {
			offers, err := w.gw.BookOffers(ctx, pair[0], pair[1], perBook)
			if err != nil {
				if ledger.KindOf(err) == ledger.KindNetwork {
					return nil, err
				}
				log.Warn("skip order book", "gets", pair[0], "pays", pair[1], "err", err)
				continue
			}
			for i := range offers {
				o := &offers[i]
				if o.Owner == address || o.Sequence == 0 {
					continue
				}
				key := offerKey{owner: o.Owner, sequence: o.Sequence}
				if !seen.Add(key) {
					continue
				}
				entries = append(entries, newBookEntry(o))
				if len(entries) >= limit {
					return entries, nil
				}
			}
		}
	}
	return entries, nil
}

type offerKey struct {
	owner    string
	sequence uint32
}
