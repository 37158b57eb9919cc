// Package registry holds the currency to issuer address book and the
// address blacklist. A Registry is immutable once built; reloads build a
// new one and swap it in a Holder.
package registry

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync/atomic"

	mapset "github.com/deckarep/golang-set"

	"github.com/anyswap/XRPL-Custody/ledger"
)

// Registry maps currency codes to issuers and screens addresses
type Registry struct {
	issuers   map[string]string
	blacklist mapset.Set
}

// New validates and builds a registry. Currency keys are normalized to
// their ledger form.
func New(issuers map[string]string, blacklist []string) (*Registry, error) {
	r := &Registry{
		issuers:   make(map[string]string, len(issuers)),
		blacklist: mapset.NewThreadUnsafeSet(),
	}
	for currency, issuer := range issuers {
		code, err := ledger.EncodeCurrency(currency)
		if err != nil {
			return nil, err
		}
		if code == ledger.NativeCurrency {
			return nil, fmt.Errorf("registry: native currency has no issuer")
		}
		if !ledger.IsValidAddress(issuer) {
			return nil, fmt.Errorf("registry: invalid issuer %v for %v", issuer, currency)
		}
		r.issuers[code] = issuer
	}
	for _, addr := range blacklist {
		addr = strings.TrimSpace(addr)
		if addr != "" {
			r.blacklist.Add(addr)
		}
	}
	return r, nil
}

// Issuer returns the registered issuer of currency
func (r *Registry) Issuer(currency string) (string, bool) {
	code, err := ledger.EncodeCurrency(currency)
	if err != nil {
		return "", false
	}
	issuer, ok := r.issuers[code]
	return issuer, ok
}

// ResolveIssuer picks the issuer for an operation: none for the native
// currency, the override if given, else the registered one.
func (r *Registry) ResolveIssuer(currency, override string) (string, error) {
	if ledger.IsNativeCurrency(currency) {
		return "", nil
	}
	if override = strings.TrimSpace(override); override != "" {
		return override, nil
	}
	issuer, ok := r.Issuer(currency)
	if !ok {
		return "", ledger.Validation("unknown_currency", "no issuer registered for %v", ledger.NormalizeCurrency(currency))
	}
	return issuer, nil
}

// IsBlacklisted reports whether address is screened out
func (r *Registry) IsBlacklisted(address string) bool {
	return r.blacklist.Contains(strings.TrimSpace(address))
}

// Blacklist returns the screened addresses, sorted
func (r *Registry) Blacklist() []string {
	list := make([]string, 0, r.blacklist.Cardinality())
	for _, item := range r.blacklist.ToSlice() {
		list = append(list, item.(string))
	}
	sort.Strings(list)
	return list
}

// Currencies returns the registered currency codes in ledger form, sorted
func (r *Registry) Currencies() []string {
	codes := make([]string, 0, len(r.issuers))
	for code := range r.issuers {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Tokens returns a copy of the address book keyed by readable code
func (r *Registry) Tokens() map[string]string {
	out := make(map[string]string, len(r.issuers))
	for code, issuer := range r.issuers {
		out[ledger.DecodeCurrency(code)] = issuer
	}
	return out
}

// WithBlacklist returns a new registry sharing the address book and
// screening extra addresses on top of the current ones
func (r *Registry) WithBlacklist(extra ...string) *Registry {
	next := &Registry{issuers: r.issuers, blacklist: r.blacklist.Clone()}
	for _, addr := range extra {
		if addr = strings.TrimSpace(addr); addr != "" {
			next.blacklist.Add(addr)
		}
	}
	return next
}

// LoadBlacklistFile reads one address per line, # starts a comment
func LoadBlacklistFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var list []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		if line = strings.TrimSpace(line); line != "" {
			list = append(list, line)
		}
	}
	return list, scanner.Err()
}

// Holder publishes the current registry snapshot
type Holder struct {
	value atomic.Value
}

// NewHolder returns a holder publishing r
func NewHolder(r *Registry) *Holder {
	h := &Holder{}
	h.Store(r)
	return h
}

// Load returns the current snapshot
func (h *Holder) Load() *Registry {
	return h.value.Load().(*Registry)
}

// Store replaces the snapshot
func (h *Holder) Store(r *Registry) {
	h.value.Store(r)
}
