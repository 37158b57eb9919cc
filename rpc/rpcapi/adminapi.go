package rpcapi

import (
	"fmt"
	"net/http"

	"github.com/anyswap/XRPL-Custody/internal/walletapi"
	"github.com/anyswap/XRPL-Custody/log"
	"github.com/anyswap/XRPL-Custody/params"
)

// AdminKeyHeader carries the admin key of admin calls
const AdminKeyHeader = "X-Admin-Key"

func checkAdmin(r *http.Request) error {
	if !params.IsAdminKey(r.Header.Get(AdminKeyHeader)) {
		log.Warn("reject admin call", "remote", r.RemoteAddr)
		return fmt.Errorf("not admin")
	}
	return nil
}

// AdminBlacklist add, remove or query an admin blacklist entry
func (s *RPCAPI) AdminBlacklist(r *http.Request, args *walletapi.BlacklistArgs, result *walletapi.BlacklistResult) error {
	if err := checkAdmin(r); err != nil {
		return walletapi.ToRPCError(err)
	}
	res, err := s.svc.Blacklist(args)
	if err == nil && res != nil {
		*result = *res
		log.Info("admin blacklist call", "operation", args.Operation, "address", args.Address, "isBlacked", res.IsBlacked)
	}
	return walletapi.ToRPCError(err)
}

// AdminReconcile runs one offer reconcile round now
func (s *RPCAPI) AdminReconcile(r *http.Request, limit *int, result *int) error {
	if err := checkAdmin(r); err != nil {
		return walletapi.ToRPCError(err)
	}
	updated, err := s.svc.ReconcileTrackedOffers(r.Context(), *limit)
	*result = updated
	return walletapi.ToRPCError(err)
}
