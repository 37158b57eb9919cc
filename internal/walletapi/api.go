// Package walletapi is the service layer behind the rpc and rest servers.
// It runs guarded wallet operations, records them and maps failures to
// json-rpc errors.
package walletapi

import (
	"context"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set"

	"github.com/anyswap/XRPL-Custody/ledger"
	"github.com/anyswap/XRPL-Custody/log"
	"github.com/anyswap/XRPL-Custody/metrics"
	"github.com/anyswap/XRPL-Custody/mongodb"
	"github.com/anyswap/XRPL-Custody/params"
	"github.com/anyswap/XRPL-Custody/registry"
	"github.com/anyswap/XRPL-Custody/tools"
	"github.com/anyswap/XRPL-Custody/wallet"
)

const (
	maxSubmissionsLimit = 100
)

// Options optional collaborators of a Service
type Options struct {
	Identifier string
	Store      Store
	Metrics    *metrics.Metrics
	Alerter    *tools.Alerter
}

// Service runs wallet operations for the api servers
type Service struct {
	wallet     *wallet.Wallet
	holder     *registry.Holder
	identifier string
	store      Store
	metrics    *metrics.Metrics
	alerter    *tools.Alerter

	mu    sync.Mutex
	base  *registry.Registry
	extra mapset.Set // admin blacklist entries
}

// NewService creates a service. holder must be the holder the wallet reads.
func NewService(w *wallet.Wallet, holder *registry.Holder, opts Options) *Service {
	if opts.Metrics == nil {
		opts.Metrics = metrics.Default()
	}
	s := &Service{
		wallet:     w,
		holder:     holder,
		identifier: opts.Identifier,
		store:      opts.Store,
		metrics:    opts.Metrics,
		alerter:    opts.Alerter,
		base:       holder.Load(),
		extra:      mapset.NewSet(),
	}
	s.metrics.SetBlacklistSize(len(s.base.Blacklist()))
	return s
}

// Wallet returns the underlying wallet
func (s *Service) Wallet() *wallet.Wallet {
	return s.wallet
}

// observe is deferred with a pointer to the named error result
func (s *Service) observe(operation string, started time.Time, errp *error) {
	s.metrics.ObserveOperation(operation, started, *errp)
}

// GetServerInfo api
func (s *Service) GetServerInfo() *ServerInfo {
	reg := s.holder.Load()
	return &ServerInfo{
		Identifier: s.identifier,
		Version:    params.VersionWithMeta,
		Tokens:     reg.Tokens(),
		Blacklist:  len(reg.Blacklist()),
	}
}

// GetAccountSummary api
func (s *Service) GetAccountSummary(ctx context.Context, address string) (res *wallet.Summary, err error) {
	defer s.observe("summary", time.Now(), &err)
	log.Debug("[api] receive GetAccountSummary", "address", address)
	return s.wallet.Summary(ctx, address)
}

// GetHistory api
func (s *Service) GetHistory(ctx context.Context, args *AddressArgs) (res []wallet.HistoryEntry, err error) {
	defer s.observe("history", time.Now(), &err)
	log.Debug("[api] receive GetHistory", "address", args.Address, "limit", args.Limit)
	return s.wallet.History(ctx, args.Address, args.Limit)
}

// GetCapacity api
func (s *Service) GetCapacity(ctx context.Context, args *TokenArgs) (res *CapacityResult, err error) {
	defer s.observe("capacity", time.Now(), &err)
	if err = ledger.CheckAddress("address", args.Address); err != nil {
		return nil, err
	}
	capacity, err := s.wallet.ReceivableCapacity(ctx, args.Address, args.Currency, args.Issuer)
	if err != nil {
		return nil, err
	}
	return &CapacityResult{
		Currency:  ledger.DecodeCurrency(capacity.Line.Currency),
		Issuer:    capacity.Line.Peer,
		Remaining: capacity.Remaining.String(),
		Anomaly:   capacity.Anomaly,
	}, nil
}

// CheckAddress api
func (s *Service) CheckAddress(ctx context.Context, args *TokenArgs) (res *wallet.AddressReport, err error) {
	defer s.observe("check_address", time.Now(), &err)
	return s.wallet.CheckAddress(ctx, args.Address, args.Currency, args.Issuer)
}

// CheckIssuer api
func (s *Service) CheckIssuer(ctx context.Context, args *TokenArgs) (res *wallet.IssuerReport, err error) {
	defer s.observe("check_issuer", time.Now(), &err)
	return s.wallet.CheckIssuer(ctx, args.Currency, args.Issuer)
}

// GetOrderBook api
func (s *Service) GetOrderBook(ctx context.Context, args *OrderBookArgs) (res []wallet.BookEntry, err error) {
	defer s.observe("order_book", time.Now(), &err)
	reg := s.holder.Load()
	sell, err := resolveAsset(reg, args.SellCurrency, args.SellIssuer)
	if err != nil {
		return nil, err
	}
	buy, err := resolveAsset(reg, args.BuyCurrency, args.BuyIssuer)
	if err != nil {
		return nil, err
	}
	return s.wallet.OrderBook(ctx, sell, buy, args.Limit, args.Exclude)
}

// GetIncomingOffers api
func (s *Service) GetIncomingOffers(ctx context.Context, args *IncomingOffersArgs) (res []wallet.BookEntry, err error) {
	defer s.observe("incoming_offers", time.Now(), &err)
	return s.wallet.IncomingOffers(ctx, args.Address, args.Limit, args.PerBook)
}

// GetOfferStatus api. Pages widens the history scan window.
func (s *Service) GetOfferStatus(ctx context.Context, args *OfferRefArgs) (res *wallet.OfferStatus, err error) {
	defer s.observe("offer_status", time.Now(), &err)
	if args.Owner == "" {
		return nil, errMissingOwner
	}
	cfg := s.wallet.Config()
	window := wallet.ScanWindow{PageSize: cfg.HistoryPageSize, MaxPages: cfg.HistoryMaxPages}
	if args.Pages > window.MaxPages {
		window.MaxPages = args.Pages
	}
	return s.wallet.GetOfferStatusWindow(ctx, args.Owner, args.Sequence, window)
}

// GetEnabledTokens api
func (s *Service) GetEnabledTokens(address string) ([]*mongodb.MgoEnabledToken, error) {
	if s.store == nil {
		return nil, errNoStore
	}
	if err := ledger.CheckAddress("address", address); err != nil {
		return nil, err
	}
	return s.store.FindEnabledTokens(address)
}

// GetSubmissions api
func (s *Service) GetSubmissions(args *SubmissionsArgs) ([]*mongodb.MgoSubmission, error) {
	if s.store == nil {
		return nil, errNoStore
	}
	if err := ledger.CheckAddress("account", args.Account); err != nil {
		return nil, err
	}
	limit := args.Limit
	if limit == 0 {
		limit = 20
	}
	if limit > maxSubmissionsLimit {
		return nil, errLimitTooLarge
	}
	offset := args.Offset
	if offset < 0 {
		offset = 0
	}
	return s.store.FindSubmissions(args.Account, offset, limit)
}

func resolveAsset(reg *registry.Registry, currency, issuer string) (ledger.Asset, error) {
	if ledger.IsNativeCurrency(currency) {
		return ledger.NativeAsset, nil
	}
	issuer, err := reg.ResolveIssuer(currency, issuer)
	if err != nil {
		return ledger.Asset{}, err
	}
	if reg.IsBlacklisted(issuer) {
		return ledger.Asset{}, ledger.Policy("blacklisted_issuer", "issuer %v is blacklisted", issuer)
	}
	return ledger.NewAsset(currency, issuer)
}
