package worker

import (
	"context"
	"sync"
	"time"

	"github.com/anyswap/XRPL-Custody/internal/walletapi"
	"github.com/anyswap/XRPL-Custody/registry"
)

// Options of the background jobs
type Options struct {
	ReconcileInterval time.Duration
	ReconcileBatch    int
	DisableReconcile  bool

	// BlacklistFile is watched when set; Rebuild builds the registry
	// from config and the current file content
	BlacklistFile string
	Rebuild       func() (*registry.Registry, error)
}

// StartWork starts the jobs. They stop when ctx is done; wg tracks them.
func StartWork(ctx context.Context, wg *sync.WaitGroup, svc *walletapi.Service, opts Options) {
	logWorker("worker", "start wallet worker")

	if !opts.DisableReconcile {
		wg.Add(1)
		go func() {
			defer wg.Done()
			StartReconcileJob(ctx, svc, opts.ReconcileInterval, opts.ReconcileBatch)
		}()
	}

	if opts.BlacklistFile != "" && opts.Rebuild != nil {
		watcher, err := NewBlacklistWatcher(opts.BlacklistFile, opts.Rebuild, svc.SetBaseRegistry)
		if err != nil {
			logWorkerError("blacklist", "start blacklist watcher failed", err, "file", opts.BlacklistFile)
			return
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			watcher.Run(ctx)
		}()
	}
}
