// Package rpcapi exposes the wallet service over json-rpc 2.0.
package rpcapi

import (
	"net/http"

	"github.com/anyswap/XRPL-Custody/internal/walletapi"
	"github.com/anyswap/XRPL-Custody/mongodb"
	"github.com/anyswap/XRPL-Custody/params"
	"github.com/anyswap/XRPL-Custody/wallet"
)

// RPCAPI rpc api handler
type RPCAPI struct {
	svc *walletapi.Service
}

// NewRPCAPI creates the rpc api of svc
func NewRPCAPI(svc *walletapi.Service) *RPCAPI {
	return &RPCAPI{svc: svc}
}

// RPCNullArgs null args
type RPCNullArgs struct{}

// GetVersionInfo api
func (s *RPCAPI) GetVersionInfo(r *http.Request, args *RPCNullArgs, result *string) error {
	version := params.VersionWithMeta
	*result = version
	return nil
}

// GetServerInfo api
func (s *RPCAPI) GetServerInfo(r *http.Request, args *RPCNullArgs, result *walletapi.ServerInfo) error {
	*result = *s.svc.GetServerInfo()
	return nil
}

// GetAccountSummary api
func (s *RPCAPI) GetAccountSummary(r *http.Request, address *string, result *wallet.Summary) error {
	res, err := s.svc.GetAccountSummary(r.Context(), *address)
	if err == nil && res != nil {
		*result = *res
	}
	return walletapi.ToRPCError(err)
}

// GetHistory api
func (s *RPCAPI) GetHistory(r *http.Request, args *walletapi.AddressArgs, result *[]wallet.HistoryEntry) error {
	res, err := s.svc.GetHistory(r.Context(), args)
	if err == nil {
		*result = res
	}
	return walletapi.ToRPCError(err)
}

// GetCapacity api
func (s *RPCAPI) GetCapacity(r *http.Request, args *walletapi.TokenArgs, result *walletapi.CapacityResult) error {
	res, err := s.svc.GetCapacity(r.Context(), args)
	if err == nil && res != nil {
		*result = *res
	}
	return walletapi.ToRPCError(err)
}

// CheckAddress api
func (s *RPCAPI) CheckAddress(r *http.Request, args *walletapi.TokenArgs, result *wallet.AddressReport) error {
	res, err := s.svc.CheckAddress(r.Context(), args)
	if err == nil && res != nil {
		*result = *res
	}
	return walletapi.ToRPCError(err)
}

// CheckIssuer api
func (s *RPCAPI) CheckIssuer(r *http.Request, args *walletapi.TokenArgs, result *wallet.IssuerReport) error {
	res, err := s.svc.CheckIssuer(r.Context(), args)
	if err == nil && res != nil {
		*result = *res
	}
	return walletapi.ToRPCError(err)
}

// GetOrderBook api
func (s *RPCAPI) GetOrderBook(r *http.Request, args *walletapi.OrderBookArgs, result *[]wallet.BookEntry) error {
	res, err := s.svc.GetOrderBook(r.Context(), args)
	if err == nil {
		*result = res
	}
	return walletapi.ToRPCError(err)
}

// GetIncomingOffers api
func (s *RPCAPI) GetIncomingOffers(r *http.Request, args *walletapi.IncomingOffersArgs, result *[]wallet.BookEntry) error {
	res, err := s.svc.GetIncomingOffers(r.Context(), args)
	if err == nil {
		*result = res
	}
	return walletapi.ToRPCError(err)
}

// GetOfferStatus api
func (s *RPCAPI) GetOfferStatus(r *http.Request, args *walletapi.OfferRefArgs, result *wallet.OfferStatus) error {
	res, err := s.svc.GetOfferStatus(r.Context(), args)
	if err == nil && res != nil {
		*result = *res
	}
	return walletapi.ToRPCError(err)
}

// GetEnabledTokens api
func (s *RPCAPI) GetEnabledTokens(r *http.Request, address *string, result *[]*mongodb.MgoEnabledToken) error {
	res, err := s.svc.GetEnabledTokens(*address)
	if err == nil {
		*result = res
	}
	return walletapi.ToRPCError(err)
}

// GetSubmissions api
func (s *RPCAPI) GetSubmissions(r *http.Request, args *walletapi.SubmissionsArgs, result *[]*mongodb.MgoSubmission) error {
	res, err := s.svc.GetSubmissions(args)
	if err == nil {
		*result = res
	}
	return walletapi.ToRPCError(err)
}

// Send api
func (s *RPCAPI) Send(r *http.Request, args *walletapi.SendArgs, result *wallet.TxResult) error {
	res, err := s.svc.Send(r.Context(), args)
	if err == nil && res != nil {
		*result = *res
	}
	return walletapi.ToRPCError(err)
}

// SetTrustLine api
func (s *RPCAPI) SetTrustLine(r *http.Request, args *walletapi.TrustLineArgs, result *wallet.TxResult) error {
	res, err := s.svc.SetTrustLine(r.Context(), args)
	if err == nil && res != nil {
		*result = *res
	}
	return walletapi.ToRPCError(err)
}

// CreateOffer api
func (s *RPCAPI) CreateOffer(r *http.Request, args *walletapi.OfferArgs, result *walletapi.OfferResult) error {
	res, err := s.svc.CreateOffer(r.Context(), args)
	if err == nil && res != nil {
		*result = *res
	}
	return walletapi.ToRPCError(err)
}

// TakeOffer api
func (s *RPCAPI) TakeOffer(r *http.Request, args *walletapi.OfferArgs, result *walletapi.OfferResult) error {
	res, err := s.svc.TakeOffer(r.Context(), args)
	if err == nil && res != nil {
		*result = *res
	}
	return walletapi.ToRPCError(err)
}

// CancelOffer api
func (s *RPCAPI) CancelOffer(r *http.Request, args *walletapi.OfferRefArgs, result *wallet.TxResult) error {
	res, err := s.svc.CancelOffer(r.Context(), args)
	if err == nil && res != nil {
		*result = *res
	}
	return walletapi.ToRPCError(err)
}

// CreateEscrow api
func (s *RPCAPI) CreateEscrow(r *http.Request, args *walletapi.EscrowArgs, result *wallet.EscrowResult) error {
	res, err := s.svc.CreateEscrow(r.Context(), args)
	if err == nil && res != nil {
		*result = *res
	}
	return walletapi.ToRPCError(err)
}

// FinishEscrow api
func (s *RPCAPI) FinishEscrow(r *http.Request, args *walletapi.EscrowRefArgs, result *wallet.TxResult) error {
	res, err := s.svc.FinishEscrow(r.Context(), args)
	if err == nil && res != nil {
		*result = *res
	}
	return walletapi.ToRPCError(err)
}

// CancelEscrow api
func (s *RPCAPI) CancelEscrow(r *http.Request, args *walletapi.EscrowRefArgs, result *wallet.TxResult) error {
	res, err := s.svc.CancelEscrow(r.Context(), args)
	if err == nil && res != nil {
		*result = *res
	}
	return walletapi.ToRPCError(err)
}
