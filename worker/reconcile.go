package worker

import (
	"context"
	"time"

	"github.com/anyswap/XRPL-Custody/internal/walletapi"
)

var (
	defaultReconcileInterval = time.Minute
	defaultReconcileBatch    = 100
)

// StartReconcileJob reconciles tracked offers every interval until ctx is done
func StartReconcileJob(ctx context.Context, svc *walletapi.Service, interval time.Duration, batch int) {
	if interval <= 0 {
		interval = defaultReconcileInterval
	}
	if batch <= 0 {
		batch = defaultReconcileBatch
	}
	logWorker("reconcile", "start reconcile tracked offers job", "interval", interval, "batch", batch)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		reconcileOnce(ctx, svc, batch)
		select {
		case <-ctx.Done():
			logWorker("reconcile", "stop reconcile tracked offers job")
			return
		case <-ticker.C:
		}
	}
}

func reconcileOnce(ctx context.Context, svc *walletapi.Service, batch int) {
	start := time.Now()
	updated, err := svc.ReconcileTrackedOffers(ctx, batch)
	if err != nil {
		logWorkerError("reconcile", "reconcile round failed", err, "updated", updated)
		return
	}
	if updated > 0 {
		logWorker("reconcile", "reconcile round finished", "updated", updated, "timespent", time.Since(start).String())
	} else {
		logWorkerTrace("reconcile", "reconcile round finished", "timespent", time.Since(start).String())
	}
}
