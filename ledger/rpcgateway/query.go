package rpcgateway

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/anyswap/XRPL-Custody/ledger"
)

const (
	linesPageLimit  = 400
	offersPageLimit = 400
	maxQueryPages   = 50
)

// AccountInfo impl
func (c *Client) AccountInfo(ctx context.Context, address string) (*ledger.AccountInfo, error) {
	params := map[string]interface{}{
		"account":      address,
		"ledger_index": "validated",
		"strict":       true,
	}
	var res accountInfoResult
	if err := c.call(ctx, "account_info", params, &res); err != nil {
		return nil, err
	}
	balance, err := strconv.ParseInt(res.AccountData.Balance, 10, 64)
	if err != nil {
		return nil, ledger.Network(err, "account_info: bad balance %q", res.AccountData.Balance)
	}
	return &ledger.AccountInfo{
		Address:    res.AccountData.Account,
		Balance:    balance,
		Sequence:   uint32(res.AccountData.Sequence),
		OwnerCount: uint32(res.AccountData.OwnerCount),
	}, nil
}

// AccountLines impl
func (c *Client) AccountLines(ctx context.Context, address, peer string) ([]ledger.Trustline, error) {
	var lines []ledger.Trustline
	var marker json.RawMessage
	for page := 0; page < maxQueryPages; page++ {
		params := map[string]interface{}{
			"account":      address,
			"ledger_index": "validated",
			"limit":        linesPageLimit,
		}
		if peer != "" {
			params["peer"] = peer
		}
		if len(marker) > 0 {
			params["marker"] = marker
		}
		var res accountLinesResult
		if err := c.call(ctx, "account_lines", params, &res); err != nil {
			return nil, err
		}
		lines = append(lines, res.Lines...)
		if !hasMarker(res.Marker) {
			break
		}
		marker = res.Marker
	}
	return lines, nil
}

// AccountOffers impl
func (c *Client) AccountOffers(ctx context.Context, address string) ([]ledger.Offer, error) {
	var offers []ledger.Offer
	var marker json.RawMessage
	for page := 0; page < maxQueryPages; page++ {
		params := map[string]interface{}{
			"account":      address,
			"ledger_index": "validated",
			"limit":        offersPageLimit,
		}
		if len(marker) > 0 {
			params["marker"] = marker
		}
		var res accountOffersResult
		if err := c.call(ctx, "account_offers", params, &res); err != nil {
			return nil, err
		}
		for i := range res.Offers {
			o := &res.Offers[i]
			offers = append(offers, ledger.Offer{
				Owner:           address,
				Sequence:        uint32(o.Seq),
				Flags:           o.Flags,
				TakerGets:       o.TakerGets,
				TakerPays:       o.TakerPays,
				Quality:         o.Quality,
				Expiration:      o.Expiration,
				TakerGetsFunded: o.TakerGetsFunded,
				TakerPaysFunded: o.TakerPaysFunded,
			})
		}
		if !hasMarker(res.Marker) {
			break
		}
		marker = res.Marker
	}
	return offers, nil
}

// AccountTransactions impl, newest first unless req.Forward
func (c *Client) AccountTransactions(ctx context.Context, address string, req *ledger.HistoryRequest) (*ledger.HistoryPage, error) {
	params := map[string]interface{}{
		"account":          address,
		"ledger_index_min": -1,
		"ledger_index_max": -1,
		"binary":           false,
		"forward":          req.Forward,
	}
	if req.Limit > 0 {
		params["limit"] = req.Limit
	}
	if hasMarker(req.Marker) {
		params["marker"] = req.Marker
	}
	var res accountTxResult
	if err := c.call(ctx, "account_tx", params, &res); err != nil {
		return nil, err
	}
	page := &ledger.HistoryPage{
		Transactions: make([]ledger.TxRecord, 0, len(res.Transactions)),
	}
	if hasMarker(res.Marker) {
		page.Marker = res.Marker
	}
	for _, entry := range res.Transactions {
		raw := entry.Tx
		if len(raw) == 0 {
			raw = entry.TxJSON
		}
		var fields txFields
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, ledger.Network(err, "account_tx: bad transaction")
		}
		if fields.Hash == "" {
			fields.Hash = entry.Hash
		}
		if fields.LedgerIndex == 0 {
			fields.LedgerIndex = entry.LedgerIndex
		}
		page.Transactions = append(page.Transactions, toTxRecord(&fields, entry.Meta, entry.Validated, raw))
	}
	return page, nil
}

// BookOffers impl
func (c *Client) BookOffers(ctx context.Context, gets, pays ledger.Asset, limit int) ([]ledger.Offer, error) {
	params := map[string]interface{}{
		"taker_gets":   gets,
		"taker_pays":   pays,
		"ledger_index": "validated",
	}
	if limit > 0 {
		params["limit"] = limit
	}
	var res bookOffersResult
	if err := c.call(ctx, "book_offers", params, &res); err != nil {
		return nil, err
	}
	offers := make([]ledger.Offer, 0, len(res.Offers))
	for i := range res.Offers {
		o := &res.Offers[i]
		offers = append(offers, ledger.Offer{
			Owner:           o.Account,
			Sequence:        uint32(o.Sequence),
			Flags:           o.Flags,
			TakerGets:       o.TakerGets,
			TakerPays:       o.TakerPays,
			Quality:         o.Quality,
			Expiration:      o.Expiration,
			TakerGetsFunded: o.TakerGetsFunded,
			TakerPaysFunded: o.TakerPaysFunded,
		})
	}
	return offers, nil
}

// CurrentLedger returns the open ledger index
func (c *Client) CurrentLedger(ctx context.Context) (uint32, error) {
	var res ledgerCurrentResult
	if err := c.call(ctx, "ledger_current", map[string]interface{}{}, &res); err != nil {
		return 0, err
	}
	return uint32(res.LedgerCurrentIndex), nil
}

// ValidatedLedger returns the latest validated ledger index
func (c *Client) ValidatedLedger(ctx context.Context) (uint32, error) {
	params := map[string]interface{}{"ledger_index": "validated"}
	var res ledgerResult
	if err := c.call(ctx, "ledger", params, &res); err != nil {
		return 0, err
	}
	return uint32(res.LedgerIndex), nil
}

func hasMarker(marker json.RawMessage) bool {
	return len(marker) > 0 && string(marker) != "null"
}
