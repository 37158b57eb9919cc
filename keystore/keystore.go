// Package keystore keeps signing seeds encrypted at rest in leveldb.
// Seeds are sealed with nacl/secretbox under a key derived by scrypt from
// the service passphrase and a per record salt.
package keystore

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"

	"github.com/anyswap/XRPL-Custody/ledger"
	"github.com/anyswap/XRPL-Custody/leveldb"
)

const (
	credPrefix = "cred-"
	saltLen    = 16
	nonceLen   = 24
	keyLen     = 32
)

// scrypt cost parameters
var (
	ScryptN = 1 << 15
	ScryptR = 8
	ScryptP = 1
)

// keystore errors
var (
	ErrNotFound        = errors.New("credential not found")
	ErrExists          = errors.New("credential already exists")
	ErrWrongPassphrase = errors.New("wrong passphrase or corrupted credential")
	ErrEmptyPassphrase = errors.New("empty passphrase")
	ErrAddressMismatch = errors.New("address is not controlled by the seed")
)

// AddressDeriver derives the account address a seed controls
type AddressDeriver interface {
	DeriveAddress(ctx context.Context, seed string) (string, error)
}

type record struct {
	Address string `json:"address"`
	Salt    []byte `json:"salt"`
	Nonce   []byte `json:"nonce"`
	Box     []byte `json:"box"`
}

// Credential is a decrypted seed bound to its ledger address
type Credential struct {
	label   string
	address string
	seed    []byte
}

// Label returns the identity label
func (c *Credential) Label() string { return c.label }

// Address returns the ledger address the seed signs for
func (c *Credential) Address() string { return c.address }

// Seed returns the signing seed; empty after Wipe
func (c *Credential) Seed() string { return string(c.seed) }

// Wipe zeroes the seed bytes
func (c *Credential) Wipe() {
	for i := range c.seed {
		c.seed[i] = 0
	}
	c.seed = nil
}

// Keystore stores credentials by label
type Keystore struct {
	db         *leveldb.Database
	passphrase []byte
}

// Open opens or creates a keystore in dir
func Open(dir string, passphrase string) (*Keystore, error) {
	if passphrase == "" {
		return nil, ErrEmptyPassphrase
	}
	db, err := leveldb.New(dir, 0, 0)
	if err != nil {
		return nil, err
	}
	return &Keystore{db: db, passphrase: []byte(passphrase)}, nil
}

// Close closes the underlying database
func (ks *Keystore) Close() error {
	return ks.db.Close()
}

func normalizeLabel(label string) (string, error) {
	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" {
		return "", ledger.Validation("missing_label", "credential label is empty")
	}
	return label, nil
}

func (ks *Keystore) deriveKey(salt []byte) (*[keyLen]byte, error) {
	derived, err := scrypt.Key(ks.passphrase, salt, ScryptN, ScryptR, ScryptP, keyLen)
	if err != nil {
		return nil, err
	}
	var key [keyLen]byte
	copy(key[:], derived)
	return &key, nil
}

// Import derives the address of seed and stores the pair under label.
// A non-empty expected address must equal the derived one.
func (ks *Keystore) Import(ctx context.Context, deriver AddressDeriver, label, seed, expected string) (string, error) {
	if seed == "" {
		return "", ledger.Validation("missing_seed", "seed is empty")
	}
	address, err := deriver.DeriveAddress(ctx, seed)
	if err != nil {
		return "", err
	}
	if expected != "" && expected != address {
		return "", fmt.Errorf("%w: expect %v, derived %v", ErrAddressMismatch, expected, address)
	}
	if err = ks.Store(label, address, seed); err != nil {
		return "", err
	}
	return address, nil
}

// Store seals seed for address under label. The caller vouches that seed
// controls address; Import checks it.
func (ks *Keystore) Store(label, address, seed string) error {
	label, err := normalizeLabel(label)
	if err != nil {
		return err
	}
	if err = ledger.CheckAddress("address", address); err != nil {
		return err
	}
	if seed == "" {
		return ledger.Validation("missing_seed", "seed is empty")
	}
	key := []byte(credPrefix + label)
	exist, err := ks.db.Has(key)
	if err != nil {
		return err
	}
	if exist {
		return fmt.Errorf("%w: %v", ErrExists, label)
	}

	rec := record{Address: address, Salt: make([]byte, saltLen)}
	if _, err = rand.Read(rec.Salt); err != nil {
		return err
	}
	var nonce [nonceLen]byte
	if _, err = rand.Read(nonce[:]); err != nil {
		return err
	}
	secret, err := ks.deriveKey(rec.Salt)
	if err != nil {
		return err
	}
	rec.Nonce = nonce[:]
	rec.Box = secretbox.Seal(nil, []byte(seed), &nonce, secret)
	data, err := json.Marshal(&rec)
	if err != nil {
		return err
	}
	return ks.db.Put(key, data)
}

func (ks *Keystore) load(label string) (string, *record, error) {
	label, err := normalizeLabel(label)
	if err != nil {
		return "", nil, err
	}
	data, err := ks.db.Get([]byte(credPrefix + label))
	if leveldb.IsNotFoundErr(err) {
		return "", nil, fmt.Errorf("%w: %v", ErrNotFound, label)
	}
	if err != nil {
		return "", nil, err
	}
	var rec record
	if err = json.Unmarshal(data, &rec); err != nil {
		return "", nil, err
	}
	return label, &rec, nil
}

// Load decrypts the credential of label. Callers Wipe it after use.
func (ks *Keystore) Load(label string) (*Credential, error) {
	label, rec, err := ks.load(label)
	if err != nil {
		return nil, err
	}
	if len(rec.Nonce) != nonceLen {
		return nil, ErrWrongPassphrase
	}
	secret, err := ks.deriveKey(rec.Salt)
	if err != nil {
		return nil, err
	}
	var nonce [nonceLen]byte
	copy(nonce[:], rec.Nonce)
	seed, ok := secretbox.Open(nil, rec.Box, &nonce, secret)
	if !ok {
		return nil, ErrWrongPassphrase
	}
	return &Credential{label: label, address: rec.Address, seed: seed}, nil
}

// Address returns the stored address of label without decrypting
func (ks *Keystore) Address(label string) (string, error) {
	_, rec, err := ks.load(label)
	if err != nil {
		return "", err
	}
	return rec.Address, nil
}

// Delete removes the credential of label
func (ks *Keystore) Delete(label string) error {
	label, err := normalizeLabel(label)
	if err != nil {
		return err
	}
	return ks.db.Delete([]byte(credPrefix + label))
}

// Labels lists stored labels
func (ks *Keystore) Labels() ([]string, error) {
	return ks.db.Keys([]byte(credPrefix))
}
