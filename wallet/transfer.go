package wallet

import (
	"context"
	"strings"

	"github.com/anyswap/XRPL-Custody/ledger"
	"github.com/anyswap/XRPL-Custody/registry"
)

// SendRequest describes a payment; Amount is in whole units
type SendRequest struct {
	Destination    string
	Currency       string
	Issuer         string
	Amount         string
	DestinationTag *uint32
}

// checkDestination screens then validates a counterparty address.
// Both steps are local.
func checkDestination(reg *registry.Registry, field, address string) (string, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return "", ledger.Validation("missing_"+field, "%v is empty", field)
	}
	if reg.IsBlacklisted(address) {
		return "", ledger.Policy("blacklisted", "%v %v is blacklisted", field, address)
	}
	if err := ledger.CheckAddress(field, address); err != nil {
		return "", err
	}
	return address, nil
}

// resolveAmount resolves the issuer, screens it and parses the amount
func resolveAmount(reg *registry.Registry, currency, issuer, value string) (ledger.Amount, error) {
	if strings.TrimSpace(currency) == "" {
		return ledger.Amount{}, ledger.Validation("missing_currency", "currency is empty")
	}
	issuer, err := reg.ResolveIssuer(currency, issuer)
	if err != nil {
		return ledger.Amount{}, err
	}
	if issuer != "" && reg.IsBlacklisted(issuer) {
		return ledger.Amount{}, ledger.Policy("blacklisted_issuer", "issuer %v is blacklisted", issuer)
	}
	amt, err := ledger.ParseAmount(currency, issuer, value)
	if err != nil {
		return ledger.Amount{}, err
	}
	if !amt.IsPositive() {
		return ledger.Amount{}, ledger.Validation("bad_amount", "amount must be positive")
	}
	return amt, nil
}

// CheckedSend screens, validates and fund-checks a payment, then submits it.
// Blacklist and input problems are rejected before any ledger query.
func (w *Wallet) CheckedSend(ctx context.Context, sender *Account, req *SendRequest) (*TxResult, error) {
	reg := w.registry.Load()
	destination, err := checkDestination(reg, "destination", req.Destination)
	if err != nil {
		return nil, err
	}
	amt, err := resolveAmount(reg, req.Currency, req.Issuer, req.Amount)
	if err != nil {
		return nil, err
	}

	if amt.IsNative() {
		exists, err := w.accountExists(ctx, destination)
		if err != nil {
			return nil, err
		}
		if !exists && amt.Drops() < w.cfg.BaseReserve {
			return nil, ledger.Policy("below_reserve", "destination %v does not exist, creating it needs at least %v drops", destination, w.cfg.BaseReserve)
		}
	} else if err := w.checkReceivable(ctx, destination, amt); err != nil {
		return nil, err
	}

	if err := w.checkFunding(ctx, sender.Address(), amt, w.cfg.BaseFee); err != nil {
		return nil, err
	}

	tx := ledger.NewPayment(sender.Address(), destination, amt, req.DestinationTag)
	res, err := sender.Submit(ctx, tx)
	return newTxResult(res), err
}
