package worker

import (
	"context"
	"io/ioutil"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anyswap/XRPL-Custody/internal/walletapi"
	"github.com/anyswap/XRPL-Custody/ledger/ledgertest"
	"github.com/anyswap/XRPL-Custody/metrics"
	"github.com/anyswap/XRPL-Custody/registry"
	"github.com/anyswap/XRPL-Custody/wallet"
)

const (
	issuerAddr  = "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh"
	blockedAddr = "rLHzPsX6oXkzU2qL12kHCH8G8cnZv1rBJh"
)

func newService(t *testing.T) *walletapi.Service {
	reg, err := registry.New(map[string]string{"USD": issuerAddr}, nil)
	require.NoError(t, err)
	holder := registry.NewHolder(reg)
	w := wallet.New(ledgertest.New(), holder, nil, wallet.Config{})
	return walletapi.NewService(w, holder, walletapi.Options{Metrics: metrics.New(prometheus.NewRegistry())})
}

func TestBlacklistWatcherReloads(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "blacklist.txt")
	require.NoError(t, ioutil.WriteFile(file, nil, 0600))

	svc := newService(t)
	rebuild := func() (*registry.Registry, error) {
		blacklist, err := registry.LoadBlacklistFile(file)
		if err != nil {
			return nil, err
		}
		return registry.New(map[string]string{"USD": issuerAddr}, blacklist)
	}

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	StartWork(ctx, &wg, svc, Options{DisableReconcile: true, BlacklistFile: file, Rebuild: rebuild})

	// other files in the directory are ignored
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "other.txt"), []byte(blockedAddr), 0600))
	require.NoError(t, ioutil.WriteFile(file, []byte(blockedAddr+"\n"), 0600))

	assert.Eventually(t, func() bool {
		return svc.Wallet().Registry().IsBlacklisted(blockedAddr)
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	wg.Wait()
}

func TestReconcileJobStops(t *testing.T) {
	svc := newService(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		StartReconcileJob(ctx, svc, 10*time.Millisecond, 1)
		close(done)
	}()
	time.Sleep(30 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reconcile job did not stop")
	}
}

func TestNewBlacklistWatcherMissingDir(t *testing.T) {
	_, err := NewBlacklistWatcher(filepath.Join(t.TempDir(), "missing", "list.txt"), nil, nil)
	assert.Error(t, err)
}
