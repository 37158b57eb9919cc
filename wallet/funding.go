package wallet

import (
	"context"

	"github.com/anyswap/XRPL-Custody/ledger"
)

// reserve returns the drops an account must keep for its owned objects
func (w *Wallet) reserve(ownerCount uint32) int64 {
	return w.cfg.BaseReserve + int64(ownerCount)*w.cfg.OwnerReserve
}

// SpendableNative returns balance minus reserve, never below zero
func (w *Wallet) SpendableNative(ctx context.Context, address string) (int64, error) {
	info, err := w.gw.AccountInfo(ctx, address)
	if err != nil {
		return 0, err
	}
	spendable := info.Balance - w.reserve(info.OwnerCount)
	if spendable < 0 {
		spendable = 0
	}
	return spendable, nil
}

// accountExists reports whether address is funded on ledger
func (w *Wallet) accountExists(ctx context.Context, address string) (bool, error) {
	_, err := w.gw.AccountInfo(ctx, address)
	switch {
	case err == nil:
		return true, nil
	case ledger.IsAccountNotFound(err):
		return false, nil
	default:
		return false, err
	}
}

// checkFunding rejects when owner cannot cover amt plus extraDrops of fees.
// Native: spendable balance above the reserve. Issued: the owner's trust
// line balance, unless the owner is the issuer.
func (w *Wallet) checkFunding(ctx context.Context, owner string, amt ledger.Amount, extraDrops int64) error {
	if amt.IsNative() {
		spendable, err := w.SpendableNative(ctx, owner)
		if err != nil {
			return err
		}
		if need := amt.Drops() + extraDrops; need > spendable {
			return ledger.Policy("insufficient_funds", "%v can spend %v drops above reserve, need %v", owner, spendable, need)
		}
		return nil
	}
	if owner == amt.Issuer() {
		return nil
	}
	line, found, err := w.FindTrustline(ctx, owner, amt.Currency(), amt.Issuer())
	if err != nil {
		return err
	}
	if !found {
		return ledger.Policy("insufficient_funds", "%v holds no %v", owner, ledger.DecodeCurrency(amt.Currency()))
	}
	if line.Balance.LessThan(amt.Value()) {
		return ledger.Policy("insufficient_funds", "%v holds %v %v, need %v", owner, line.Balance, ledger.DecodeCurrency(amt.Currency()), amt.Value())
	}
	return nil
}
