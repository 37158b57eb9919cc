package wallet

import (
	"context"
	"errors"

	"github.com/anyswap/XRPL-Custody/ledger"
	"github.com/anyswap/XRPL-Custody/log"
)

// Credential is signing material bound to one ledger address
type Credential interface {
	Address() string
	Seed() string
	Wipe()
}

// CredentialSource rehydrates stored credentials by identity label
type CredentialSource interface {
	LoadCredential(label string) (Credential, error)
}

// CredentialSourceFunc adapts a function to CredentialSource
type CredentialSourceFunc func(label string) (Credential, error)

// LoadCredential impl
func (f CredentialSourceFunc) LoadCredential(label string) (Credential, error) {
	return f(label)
}

// errors of account handling
var (
	ErrAccountClosed = errors.New("account context is closed")
	ErrNoCredentials = errors.New("no credential source configured")
	ErrWrongSigner   = errors.New("transaction account does not match signer")
	ErrEmptyIdentity = errors.New("empty identity label")
)

// Account binds an identity to its signing credential for the duration of
// one operation. Close wipes the credential.
type Account struct {
	label   string
	address string
	cred    Credential
	gw      ledger.Gateway
	cfg     *Config
}

// NewAccount wraps an already loaded credential
func (w *Wallet) NewAccount(label string, cred Credential) *Account {
	return &Account{
		label:   label,
		address: cred.Address(),
		cred:    cred,
		gw:      w.gw,
		cfg:     &w.cfg,
	}
}

// OpenAccount loads the credential of label from the credential source
func (w *Wallet) OpenAccount(label string) (*Account, error) {
	if label == "" {
		return nil, ErrEmptyIdentity
	}
	if w.creds == nil {
		return nil, ErrNoCredentials
	}
	cred, err := w.creds.LoadCredential(label)
	if err != nil {
		return nil, err
	}
	return w.NewAccount(label, cred), nil
}

// WithAccount runs fn with the account of label and wipes the credential after
func (w *Wallet) WithAccount(label string, fn func(*Account) error) error {
	acct, err := w.OpenAccount(label)
	if err != nil {
		return err
	}
	defer acct.Close()
	return fn(acct)
}

// Label returns the identity label
func (a *Account) Label() string { return a.label }

// Address returns the ledger address
func (a *Account) Address() string { return a.address }

// Close wipes the credential; the account cannot sign afterwards
func (a *Account) Close() {
	if a.cred != nil {
		a.cred.Wipe()
		a.cred = nil
	}
}

// Submit signs tx with the account credential, submits it and waits for a
// validated outcome no longer than the configured submit timeout.
func (a *Account) Submit(ctx context.Context, tx ledger.Transaction) (*ledger.SubmitResult, error) {
	if a.cred == nil {
		return nil, ErrAccountClosed
	}
	base := tx.GetBase()
	if base.Account != a.address {
		return nil, ErrWrongSigner
	}
	if err := tx.Validate(); err != nil {
		return nil, err
	}
	signed, err := a.gw.Sign(ctx, tx, a.cred.Seed())
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, a.cfg.SubmitTimeout)
	defer cancel()
	res, err := a.gw.SubmitAndAwait(ctx, signed)
	if err != nil {
		log.Warn("submit transaction failed", "account", a.address, "type", base.TransactionType, "hash", signed.Hash, "kind", ledger.KindOf(err), "err", err)
		return res, err
	}
	log.Info("transaction validated", "account", a.address, "type", base.TransactionType, "hash", res.Hash, "result", res.Result)
	return res, nil
}
