package rpcgateway

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/anyswap/XRPL-Custody/ledger"
	"github.com/anyswap/XRPL-Custody/log"
)

// results that mean "already seen", keep waiting for validation
var alreadyApplied = map[ledger.EngineResult]bool{
	"tefALREADY":  true,
	"tefPAST_SEQ": true,
}

// Sign fills LastLedgerSequence and asks the node to sign the payload.
// Fee and Sequence are autofilled by the node when left empty.
func (c *Client) Sign(ctx context.Context, tx ledger.Transaction, seed string) (*ledger.SignedTx, error) {
	if err := tx.Validate(); err != nil {
		return nil, err
	}
	base := tx.GetBase()
	if base.LastLedgerSequence == 0 {
		current, err := c.CurrentLedger(ctx)
		if err != nil {
			return nil, err
		}
		base.LastLedgerSequence = current + c.cfg.LedgerOffset
	}
	params := map[string]interface{}{
		"tx_json": tx,
		"secret":  seed,
	}
	var res signResult
	if err := c.call(ctx, "sign", params, &res); err != nil {
		return nil, err
	}
	if res.TxBlob == "" || res.TxJSON.Hash == "" {
		return nil, ledger.Network(nil, "sign: empty signing result")
	}
	return &ledger.SignedTx{
		Blob:               res.TxBlob,
		Hash:               res.TxJSON.Hash,
		Type:               ledger.TxType(res.TxJSON.TransactionType),
		Account:            res.TxJSON.Account,
		Sequence:           uint32(res.TxJSON.Sequence),
		LastLedgerSequence: uint32(res.TxJSON.LastLedgerSequence),
	}, nil
}

// DeriveAddress asks the node for the account address seed controls.
// wallet_propose is an admin method, so the node must trust the caller.
func (c *Client) DeriveAddress(ctx context.Context, seed string) (string, error) {
	var res struct {
		AccountID string `json:"account_id"`
	}
	if err := c.call(ctx, "wallet_propose", map[string]interface{}{"seed": seed}, &res); err != nil {
		return "", err
	}
	if !ledger.IsValidAddress(res.AccountID) {
		return "", ledger.Network(nil, "wallet_propose: bad account id %q", res.AccountID)
	}
	return res.AccountID, nil
}

// SubmitAndAwait submits a signed blob and polls until the transaction is
// in a validated ledger, LastLedgerSequence has passed, or ctx is done.
// The blob goes to the first endpoint only and is never re-sent; a
// transport failure there is SubmissionUnknown. An open circuit rejects
// before anything is sent and stays a NetworkFailure.
func (c *Client) SubmitAndAwait(ctx context.Context, signed *ledger.SignedTx) (*ledger.SubmitResult, error) {
	var res submitResult
	err := c.callPrimary(ctx, "submit", map[string]interface{}{"tx_blob": signed.Blob}, &res)
	if err != nil {
		if ledger.KindOf(err) == ledger.KindNetwork && !errors.Is(err, ledger.ErrBreakerOpen) {
			return nil, ledger.Unknown(signed.Hash, err)
		}
		return nil, err
	}
	preliminary := ledger.EngineResult(res.EngineResult)
	log.Info("transaction submitted", "hash", signed.Hash, "type", signed.Type, "account", signed.Account, "sequence", signed.Sequence, "result", preliminary)
	if preliminary.IsFinalRejection() && !alreadyApplied[preliminary] {
		return &ledger.SubmitResult{Hash: signed.Hash, Result: preliminary}, ledger.Rejected(preliminary, signed.Hash, res.EngineResultMessage)
	}
	return c.await(ctx, signed)
}

func (c *Client) await(ctx context.Context, signed *ledger.SignedTx) (*ledger.SubmitResult, error) {
	ticker := time.NewTicker(c.cfg.PollInterval)
	defer ticker.Stop()
	for {
		result, done, err := c.checkValidated(ctx, signed)
		if done {
			return result, err
		}
		if err != nil {
			log.Debug("await transaction", "hash", signed.Hash, "err", err)
		}
		select {
		case <-ctx.Done():
			log.Warn("stop waiting for transaction", "hash", signed.Hash, "err", ctx.Err())
			return nil, ledger.Unknown(signed.Hash, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (c *Client) checkValidated(ctx context.Context, signed *ledger.SignedTx) (result *ledger.SubmitResult, done bool, err error) {
	var res txResult
	err = c.doCall(ctx, "tx", map[string]interface{}{"transaction": signed.Hash, "binary": false}, &res, 1)
	switch {
	case errors.Is(err, errTxnNotFound):
	case err != nil:
		return nil, false, err
	case res.Validated:
		fields := res.txFields
		if len(res.TxJSON) > 0 {
			_ = json.Unmarshal(res.TxJSON, &fields)
		}
		result = &ledger.SubmitResult{
			Hash:        signed.Hash,
			Result:      parseMeta(res.Meta),
			LedgerIndex: uint32(res.LedgerIndex),
			Validated:   true,
		}
		if fields.Sequence != 0 {
			seq := uint32(fields.Sequence)
			result.Sequence = &seq
		}
		if !result.Result.IsSuccess() {
			return result, true, ledger.Rejected(result.Result, signed.Hash, "")
		}
		return result, true, nil
	}
	if signed.LastLedgerSequence == 0 {
		return nil, false, nil
	}
	validated, err := c.ValidatedLedger(ctx)
	if err != nil {
		return nil, false, err
	}
	if validated > signed.LastLedgerSequence {
		return &ledger.SubmitResult{Hash: signed.Hash, Result: ledger.TefMAX_LEDGER}, true,
			ledger.Rejected(ledger.TefMAX_LEDGER, signed.Hash, "last ledger sequence passed without validation")
	}
	return nil, false, nil
}
