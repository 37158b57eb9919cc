// Package wallet implements the safety layer between custodial accounts
// and the ledger: guards that screen and fund-check transfers, offers and
// escrows before submission, and the offer lifecycle reconciler.
//
// Guards always re-read ledger state; nothing is cached between calls.
// A check can still race with a concurrent ledger change between the read
// and the submission, so a passing guard is advisory and the ledger keeps
// the final word.
package wallet

import (
	"time"

	"github.com/anyswap/XRPL-Custody/ledger"
	"github.com/anyswap/XRPL-Custody/registry"
)

// Config of the safety layer. Reserves and fees are in drops.
type Config struct {
	BaseReserve   int64
	OwnerReserve  int64
	BaseFee       int64
	SubmitTimeout time.Duration

	HistoryPageSize int
	HistoryMaxPages int

	DefaultTrustLimit string
}

// default config values
var (
	DefaultBaseReserve     int64 = 10000000
	DefaultOwnerReserve    int64 = 2000000
	DefaultBaseFee         int64 = 12
	DefaultSubmitTimeout         = 60 * time.Second
	DefaultHistoryPageSize       = 200
	DefaultHistoryMaxPages       = 1
	DefaultTrustLimit            = "1000000"
)

func (c *Config) setDefaults() {
	if c.BaseReserve == 0 {
		c.BaseReserve = DefaultBaseReserve
	}
	if c.OwnerReserve == 0 {
		c.OwnerReserve = DefaultOwnerReserve
	}
	if c.BaseFee == 0 {
		c.BaseFee = DefaultBaseFee
	}
	if c.SubmitTimeout == 0 {
		c.SubmitTimeout = DefaultSubmitTimeout
	}
	if c.HistoryPageSize == 0 {
		c.HistoryPageSize = DefaultHistoryPageSize
	}
	if c.HistoryMaxPages == 0 {
		c.HistoryMaxPages = DefaultHistoryMaxPages
	}
	if c.DefaultTrustLimit == "" {
		c.DefaultTrustLimit = DefaultTrustLimit
	}
}

// Wallet runs guarded operations against one gateway
type Wallet struct {
	gw       ledger.Gateway
	registry *registry.Holder
	creds    CredentialSource
	cfg      Config
	now      func() time.Time
}

// New creates a wallet. creds may be nil when only read operations and
// explicitly built accounts are used.
func New(gw ledger.Gateway, reg *registry.Holder, creds CredentialSource, cfg Config) *Wallet {
	cfg.setDefaults()
	return &Wallet{gw: gw, registry: reg, creds: creds, cfg: cfg, now: time.Now}
}

// Config returns the effective config
func (w *Wallet) Config() Config {
	return w.cfg
}

// Registry returns the current registry snapshot
func (w *Wallet) Registry() *registry.Registry {
	return w.registry.Load()
}

// TxResult is the outcome of a guarded submission
type TxResult struct {
	Hash        string              `json:"hash"`
	Result      ledger.EngineResult `json:"result"`
	Sequence    uint32              `json:"sequence,omitempty"`
	LedgerIndex uint32              `json:"ledgerIndex,omitempty"`
}

func newTxResult(res *ledger.SubmitResult) *TxResult {
	if res == nil {
		return nil
	}
	out := &TxResult{Hash: res.Hash, Result: res.Result, LedgerIndex: res.LedgerIndex}
	if res.Sequence != nil {
		out.Sequence = *res.Sequence
	}
	return out
}
