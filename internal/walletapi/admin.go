package walletapi

import (
	"strings"

	"github.com/anyswap/XRPL-Custody/ledger"
	"github.com/anyswap/XRPL-Custody/log"
	"github.com/anyswap/XRPL-Custody/registry"
)

// blacklist operations
const (
	BlacklistAdd    = "add"
	BlacklistRemove = "remove"
	BlacklistQuery  = "query"
)

// LoadAdminBlacklist merges the stored admin entries into the registry
func (s *Service) LoadAdminBlacklist() error {
	if s.store == nil {
		return errNoStore
	}
	addresses, err := s.store.LoadBlacklist()
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, addr := range addresses {
		s.extra.Add(addr)
	}
	s.apply()
	log.Info("load admin blacklist success", "count", len(addresses))
	return nil
}

// SetBaseRegistry replaces the configured registry, eg. after the
// blacklist file changed. Admin entries stay in force.
func (s *Service) SetBaseRegistry(base *registry.Registry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.base = base
	s.apply()
}

// apply swaps in base plus the admin entries. Called with mu held.
func (s *Service) apply() {
	extra := make([]string, 0, s.extra.Cardinality())
	for item := range s.extra.Iter() {
		extra = append(extra, item.(string))
	}
	next := s.base.WithBlacklist(extra...)
	s.holder.Store(next)
	s.metrics.SetBlacklistSize(len(next.Blacklist()))
}

// Blacklist api. Removing an address only lifts an admin entry; addresses
// from the config stay blacklisted.
func (s *Service) Blacklist(args *BlacklistArgs) (*BlacklistResult, error) {
	address := strings.TrimSpace(args.Address)
	if err := ledger.CheckAddress("address", address); err != nil {
		return nil, err
	}
	switch args.Operation {
	case BlacklistAdd:
		if s.store != nil {
			if err := s.store.AddToBlacklist(address, args.Memo); err != nil {
				return nil, err
			}
		}
		s.mu.Lock()
		s.extra.Add(address)
		s.apply()
		s.mu.Unlock()
	case BlacklistRemove:
		if s.store != nil {
			if err := s.store.RemoveFromBlacklist(address); err != nil {
				return nil, err
			}
		}
		s.mu.Lock()
		s.extra.Remove(address)
		s.apply()
		s.mu.Unlock()
	case BlacklistQuery:
	default:
		return nil, errUnknownOp
	}
	return &BlacklistResult{
		Address:   address,
		IsBlacked: s.holder.Load().IsBlacklisted(address),
	}, nil
}
