package wallet

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/anyswap/XRPL-Custody/ledger"
)

// Capacity is what a holder can still receive on a trust line
type Capacity struct {
	Line      ledger.Trustline
	Remaining decimal.Decimal
	// Anomaly is set when the ledger reports a balance above the limit
	Anomaly bool
}

// FindTrustline returns the holder's line for currency, preferring the one
// to issuer and falling back to any line in that currency. found is false
// when the holder has no such line, which is not the same as a line with
// zero capacity.
func (w *Wallet) FindTrustline(ctx context.Context, holder, currency, issuer string) (line *ledger.Trustline, found bool, err error) {
	lines, err := w.gw.AccountLines(ctx, holder, "")
	if err != nil {
		return nil, false, err
	}
	line, found = matchTrustline(lines, currency, issuer)
	return line, found, nil
}

func matchTrustline(lines []ledger.Trustline, currency, issuer string) (*ledger.Trustline, bool) {
	code, err := ledger.EncodeCurrency(currency)
	if err != nil {
		return nil, false
	}
	var fallback *ledger.Trustline
	for i := range lines {
		line := &lines[i]
		if !ledger.SameCurrency(line.Currency, code) {
			continue
		}
		if issuer == "" || line.Peer == issuer {
			return line, true
		}
		if fallback == nil {
			fallback = line
		}
	}
	return fallback, fallback != nil
}

// ReceivableCapacity reports how much of currency the holder can still
// receive. A missing line is a PolicyRejection with code no_trustline.
func (w *Wallet) ReceivableCapacity(ctx context.Context, holder, currency, issuer string) (*Capacity, error) {
	line, found, err := w.FindTrustline(ctx, holder, currency, issuer)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ledger.Policy("no_trustline", "%v has no trust line for %v", holder, ledger.NormalizeCurrency(currency))
	}
	remaining, anomaly := line.RemainingCapacity()
	return &Capacity{Line: *line, Remaining: remaining, Anomaly: anomaly}, nil
}

// checkReceivable rejects when holder cannot receive amt on its trust line.
// The issuer receiving its own currency is a redemption and needs no line.
func (w *Wallet) checkReceivable(ctx context.Context, holder string, amt ledger.Amount) error {
	if amt.IsNative() || holder == amt.Issuer() {
		return nil
	}
	capacity, err := w.ReceivableCapacity(ctx, holder, amt.Currency(), amt.Issuer())
	if err != nil {
		return err
	}
	if amt.Value().GreaterThan(capacity.Remaining) {
		return ledger.Policy("insufficient_capacity", "%v can receive at most %v %v, need %v",
			holder, capacity.Remaining, ledger.DecodeCurrency(amt.Currency()), amt.Value())
	}
	return nil
}

// SetTrustLine creates or updates the account's trust line to issuer.
// An empty limit uses the configured default.
func (w *Wallet) SetTrustLine(ctx context.Context, acct *Account, currency, issuer, limit string) (*TxResult, error) {
	if ledger.IsNativeCurrency(currency) {
		return nil, ledger.Validation("native_trustline", "XRP does not use trust lines")
	}
	reg := w.registry.Load()
	issuer, err := reg.ResolveIssuer(currency, issuer)
	if err != nil {
		return nil, err
	}
	if issuer == acct.Address() {
		return nil, ledger.Validation("self_issuer", "issuer cannot be your own wallet address")
	}
	if reg.IsBlacklisted(issuer) {
		return nil, ledger.Policy("blacklisted_issuer", "issuer %v is blacklisted", issuer)
	}
	if limit == "" {
		limit = w.cfg.DefaultTrustLimit
	}
	limitAmount, err := ledger.NewIssued(currency, issuer, limit)
	if err != nil {
		return nil, err
	}
	res, err := acct.Submit(ctx, ledger.NewTrustSet(acct.Address(), limitAmount))
	return newTxResult(res), err
}
