package walletapi

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anyswap/XRPL-Custody/ledger"
	"github.com/anyswap/XRPL-Custody/log"
	"github.com/anyswap/XRPL-Custody/mongodb"
	"github.com/anyswap/XRPL-Custody/wallet"
)

// run opens the account of identity for one guarded operation, records
// the attempt and alerts when the outcome is unknown
func (s *Service) run(ctx context.Context, operation, identity string, fn func(*wallet.Account) (*wallet.TxResult, error)) (res *wallet.TxResult, err error) {
	defer s.observe(operation, time.Now(), &err)
	var account string
	err = s.wallet.WithAccount(identity, func(acct *wallet.Account) error {
		account = acct.Address()
		var ferr error
		res, ferr = fn(acct)
		return ferr
	})
	log.Info("[api] "+operation, "identity", identity, "account", account, "kind", ledger.KindOf(err), "err", err)
	if account != "" {
		s.recordSubmission(operation, account, res, err)
	}
	if ledger.KindOf(err) == ledger.KindSubmissionUnknown {
		s.alerter.Alert("submission",
			fmt.Sprintf("%v outcome unknown for %v", operation, account),
			fmt.Sprintf("identity: %v\naccount: %v\nerror: %v\nReconcile by hash before retrying.", identity, account, err))
	}
	return res, err
}

func (s *Service) recordSubmission(operation, account string, res *wallet.TxResult, err error) {
	if s.store == nil {
		return
	}
	ms := &mongodb.MgoSubmission{
		Operation: operation,
		Account:   account,
	}
	if res != nil {
		ms.TxHash = res.Hash
		ms.Result = string(res.Result)
		ms.Sequence = res.Sequence
	}
	if err != nil {
		ms.Kind = ledger.KindOf(err).String()
		ms.Code = ledger.CodeOf(err)
		ms.Message = err.Error()
		var lerr *ledger.Error
		if ms.TxHash == "" && errors.As(err, &lerr) {
			ms.TxHash = lerr.TxHash
		}
	}
	if errf := s.store.AddSubmission(ms); errf != nil {
		log.Warn("record submission failed", "operation", operation, "account", account, "err", errf)
	}
}

// Send api
func (s *Service) Send(ctx context.Context, args *SendArgs) (*wallet.TxResult, error) {
	req := &wallet.SendRequest{
		Destination:    args.Destination,
		Currency:       args.Currency,
		Issuer:         args.Issuer,
		Amount:         args.Amount,
		DestinationTag: args.DestinationTag,
	}
	return s.run(ctx, "send", args.Identity, func(acct *wallet.Account) (*wallet.TxResult, error) {
		return s.wallet.CheckedSend(ctx, acct, req)
	})
}

// SetTrustLine api. A successful line is recorded as an enabled token.
func (s *Service) SetTrustLine(ctx context.Context, args *TrustLineArgs) (*wallet.TxResult, error) {
	var holder string
	res, err := s.run(ctx, "trust_set", args.Identity, func(acct *wallet.Account) (*wallet.TxResult, error) {
		holder = acct.Address()
		return s.wallet.SetTrustLine(ctx, acct, args.Currency, args.Issuer, args.Limit)
	})
	if err != nil || s.store == nil {
		return res, err
	}
	issuer, _ := s.holder.Load().ResolveIssuer(args.Currency, args.Issuer)
	limit := args.Limit
	if limit == "" {
		limit = s.wallet.Config().DefaultTrustLimit
	}
	errf := s.store.AddEnabledToken(&mongodb.MgoEnabledToken{
		Holder:   holder,
		Currency: ledger.NormalizeCurrency(args.Currency),
		Issuer:   issuer,
		Limit:    limit,
		TxHash:   res.Hash,
	})
	if errf != nil {
		log.Warn("record enabled token failed", "holder", holder, "currency", args.Currency, "err", errf)
	}
	return res, nil
}

// CreateOffer api. The new offer is reconciled once and tracked until it
// reaches a terminal state.
func (s *Service) CreateOffer(ctx context.Context, args *OfferArgs) (*OfferResult, error) {
	give, want, err := s.wallet.ParseOffer(args.request())
	if err != nil {
		s.metrics.ObserveOperation("offer_create", time.Now(), err)
		return nil, err
	}
	var owner string
	res, err := s.run(ctx, "offer_create", args.Identity, func(acct *wallet.Account) (*wallet.TxResult, error) {
		owner = acct.Address()
		return s.wallet.CheckedOfferCreate(ctx, acct, give, want, args.options())
	})
	if err != nil {
		return nil, err
	}
	return s.followOffer(ctx, owner, res), nil
}

// TakeOffer api. The Give and Want legs of args are those of the resting
// offer being taken.
func (s *Service) TakeOffer(ctx context.Context, args *OfferArgs) (*OfferResult, error) {
	ownerGives, ownerWants, err := s.wallet.ParseOffer(args.request())
	if err != nil {
		s.metrics.ObserveOperation("offer_take", time.Now(), err)
		return nil, err
	}
	var taker string
	res, err := s.run(ctx, "offer_take", args.Identity, func(acct *wallet.Account) (*wallet.TxResult, error) {
		taker = acct.Address()
		return s.wallet.TakeOfferExact(ctx, acct, ownerGives, ownerWants)
	})
	if err != nil {
		return nil, err
	}
	return s.followOffer(ctx, taker, res), nil
}

func (s *Service) followOffer(ctx context.Context, owner string, res *wallet.TxResult) *OfferResult {
	out := &OfferResult{TxResult: *res}
	status, err := s.wallet.GetOfferStatus(ctx, owner, res.Sequence)
	if err != nil {
		log.Warn("reconcile new offer failed", "owner", owner, "sequence", res.Sequence, "err", err)
		out.Status = wallet.OfferUnknown
	} else {
		out.Status = status.State
	}
	if s.store == nil || out.Status.IsTerminal() {
		return out
	}
	errf := s.store.AddTrackedOffer(&mongodb.MgoTrackedOffer{
		Owner:    owner,
		Sequence: res.Sequence,
		Status:   string(out.Status),
		TxHash:   res.Hash,
		Result:   string(res.Result),
	})
	if errf != nil {
		log.Warn("track offer failed", "owner", owner, "sequence", res.Sequence, "err", errf)
	}
	return out
}

// CancelOffer api
func (s *Service) CancelOffer(ctx context.Context, args *OfferRefArgs) (*wallet.TxResult, error) {
	var owner string
	res, err := s.run(ctx, "offer_cancel", args.Identity, func(acct *wallet.Account) (*wallet.TxResult, error) {
		owner = acct.Address()
		return s.wallet.CancelOffer(ctx, acct, args.Sequence)
	})
	if err != nil || s.store == nil {
		return res, err
	}
	errf := s.store.UpdateTrackedOffer(owner, args.Sequence, string(wallet.OfferCancelled), res.Hash, string(res.Result))
	if errf != nil {
		log.Debug("update tracked offer failed", "owner", owner, "sequence", args.Sequence, "err", errf)
	}
	return res, nil
}

// CreateEscrow api
func (s *Service) CreateEscrow(ctx context.Context, args *EscrowArgs) (*wallet.EscrowResult, error) {
	req := &wallet.EscrowRequest{
		Destination:    args.Destination,
		Currency:       args.Currency,
		Issuer:         args.Issuer,
		Amount:         args.Amount,
		DestinationTag: args.DestinationTag,
		ReleaseAfter:   args.ReleaseAfter,
		CancelAfter:    args.CancelAfter,
	}
	operation := "escrow_create"
	if args.Condition {
		operation = "escrow_create_condition"
	}
	var result *wallet.EscrowResult
	_, err := s.run(ctx, operation, args.Identity, func(acct *wallet.Account) (*wallet.TxResult, error) {
		var err error
		if args.Condition {
			result, err = s.wallet.CreateConditionEscrow(ctx, acct, req)
		} else {
			result, err = s.wallet.CreateTimeEscrow(ctx, acct, req)
		}
		if result == nil {
			return nil, err
		}
		return &result.TxResult, err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// FinishEscrow api
func (s *Service) FinishEscrow(ctx context.Context, args *EscrowRefArgs) (*wallet.TxResult, error) {
	return s.run(ctx, "escrow_finish", args.Identity, func(acct *wallet.Account) (*wallet.TxResult, error) {
		return s.wallet.FinishEscrow(ctx, acct, args.Owner, args.Sequence, args.Fulfillment)
	})
}

// CancelEscrow api
func (s *Service) CancelEscrow(ctx context.Context, args *EscrowRefArgs) (*wallet.TxResult, error) {
	return s.run(ctx, "escrow_cancel", args.Identity, func(acct *wallet.Account) (*wallet.TxResult, error) {
		return s.wallet.CancelEscrow(ctx, acct, args.Owner, args.Sequence)
	})
}
