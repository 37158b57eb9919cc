package walletapi

import (
	"errors"

	rpcjson "github.com/gorilla/rpc/v2/json2"

	"github.com/anyswap/XRPL-Custody/keystore"
	"github.com/anyswap/XRPL-Custody/ledger"
	"github.com/anyswap/XRPL-Custody/wallet"
)

// rpc error codes by failure kind
const (
	codeInternal                = -32000
	codeValidation              = -32090
	codePolicy                  = -32091
	codeLedgerRejection         = -32092
	codeNetwork                 = -32093
	codeSubmissionUnknown       = -32094
	codeReconciliationAmbiguity = -32095
	codeIdentity                = -32096
)

var (
	errNoStore       = newRPCError(-32097, "no record store configured")
	errUnknownOp     = newRPCError(codeValidation, "unknown blacklist operation")
	errMissingOwner  = newRPCError(codeValidation, "missing offer owner")
	errLimitTooLarge = newRPCError(codeValidation, "limit too large")
)

var kindCodes = map[ledger.Kind]rpcjson.ErrorCode{
	ledger.KindValidation:              codeValidation,
	ledger.KindPolicy:                  codePolicy,
	ledger.KindLedgerRejection:         codeLedgerRejection,
	ledger.KindNetwork:                 codeNetwork,
	ledger.KindSubmissionUnknown:       codeSubmissionUnknown,
	ledger.KindReconciliationAmbiguity: codeReconciliationAmbiguity,
}

// ErrorData is attached to tagged rpc errors
type ErrorData struct {
	Kind      string `json:"kind"`
	Code      string `json:"code,omitempty"`
	TxHash    string `json:"txHash,omitempty"`
	Retryable bool   `json:"retryable,omitempty"`
}

func newRPCError(ec rpcjson.ErrorCode, message string) error {
	return &rpcjson.Error{
		Code:    ec,
		Message: message,
	}
}

func newRPCInternalError(err error) error {
	return newRPCError(codeInternal, "rpcError: "+err.Error())
}

// ToRPCError converts an operation error to a json-rpc error keeping
// the failure kind, code and transaction hash
func ToRPCError(err error) error {
	if err == nil {
		return nil
	}
	var rpcErr *rpcjson.Error
	if errors.As(err, &rpcErr) {
		return rpcErr
	}
	var lerr *ledger.Error
	if errors.As(err, &lerr) {
		code, ok := kindCodes[lerr.Kind]
		if !ok {
			code = codeInternal
		}
		return &rpcjson.Error{
			Code:    code,
			Message: lerr.Error(),
			Data: &ErrorData{
				Kind:      lerr.Kind.String(),
				Code:      lerr.Code,
				TxHash:    lerr.TxHash,
				Retryable: ledger.IsRetryable(lerr),
			},
		}
	}
	switch {
	case errors.Is(err, keystore.ErrNotFound),
		errors.Is(err, wallet.ErrEmptyIdentity),
		errors.Is(err, wallet.ErrWrongSigner):
		return newRPCError(codeIdentity, err.Error())
	}
	return newRPCInternalError(err)
}
