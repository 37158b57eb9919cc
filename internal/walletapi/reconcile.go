package walletapi

import (
	"context"
	"fmt"

	"github.com/anyswap/XRPL-Custody/ledger"
	"github.com/anyswap/XRPL-Custody/log"
	"github.com/anyswap/XRPL-Custody/wallet"
)

// ReconcileTrackedOffers reconciles up to limit pending tracked offers
// once and stores their new status. It returns how many were updated.
// A network failure ends the round early.
func (s *Service) ReconcileTrackedOffers(ctx context.Context, limit int) (updated int, err error) {
	if s.store == nil {
		return 0, errNoStore
	}
	pending, err := s.store.FindPendingOffers(limit)
	if err != nil {
		return 0, err
	}
	for _, mo := range pending {
		if err = ctx.Err(); err != nil {
			return updated, err
		}
		status, err := s.wallet.GetOfferStatus(ctx, mo.Owner, mo.Sequence)
		if err != nil {
			log.Warn("reconcile tracked offer failed", "owner", mo.Owner, "sequence", mo.Sequence, "err", err)
			if ledger.KindOf(err) == ledger.KindNetwork {
				return updated, err
			}
			continue
		}
		s.metrics.ObserveReconcile(string(status.State))
		if status.State == wallet.OfferUnknown {
			s.alerter.Alert("reconcile",
				fmt.Sprintf("offer %v/%v not found", mo.Owner, mo.Sequence),
				fmt.Sprintf("tracked offer %v of %v is neither open nor in the last %v history records (%v pages).",
					mo.Sequence, mo.Owner, status.Scanned, status.Pages))
		}
		if status.State == wallet.OfferState(mo.Status) && !status.State.IsTerminal() {
			if err = s.store.UpdateTrackedOffer(mo.Owner, mo.Sequence, mo.Status, "", ""); err != nil {
				log.Warn("update tracked offer checks failed", "owner", mo.Owner, "sequence", mo.Sequence, "err", err)
			}
			continue
		}
		err = s.store.UpdateTrackedOffer(mo.Owner, mo.Sequence, string(status.State), status.TxHash, string(status.Result))
		if err != nil {
			log.Warn("update tracked offer failed", "owner", mo.Owner, "sequence", mo.Sequence, "err", err)
			continue
		}
		log.Info("tracked offer reconciled", "owner", mo.Owner, "sequence", mo.Sequence, "from", mo.Status, "to", status.State)
		updated++
	}
	return updated, nil
}
