package ledger

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so callers can tell "bad input" from
// "refused by policy" from "the network said no" from "we do not know".
type Kind int

// error kinds
const (
	KindUnknown Kind = iota
	KindValidation
	KindPolicy
	KindLedgerRejection
	KindNetwork
	KindSubmissionUnknown
	KindReconciliationAmbiguity
)

var kindNames = map[Kind]string{
	KindUnknown:                 "Unknown",
	KindValidation:              "ValidationError",
	KindPolicy:                  "PolicyRejection",
	KindLedgerRejection:         "LedgerRejection",
	KindNetwork:                 "NetworkFailure",
	KindSubmissionUnknown:       "SubmissionUnknown",
	KindReconciliationAmbiguity: "ReconciliationAmbiguity",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is the tagged error returned by guards, builders and the gateway.
// Code carries the ledger engine result for LedgerRejection and a short
// machine readable reason for the other kinds.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	TxHash  string
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Code != "" {
		msg += " [" + e.Code + "]"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.TxHash != "" {
		msg += " (tx " + e.TxHash + ")"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches sentinel errors by kind and code
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Code == "" || t.Code == e.Code)
}

// Validation returns a ValidationError
func Validation(code, format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: fmt.Sprintf(format, args...)}
}

// Policy returns a PolicyRejection
func Policy(code, format string, args ...interface{}) *Error {
	return &Error{Kind: KindPolicy, Code: code, Message: fmt.Sprintf(format, args...)}
}

// Rejected returns a LedgerRejection carrying the engine result
func Rejected(result EngineResult, txHash, message string) *Error {
	return &Error{Kind: KindLedgerRejection, Code: string(result), Message: message, TxHash: txHash}
}

// Network wraps a transport or node failure
func Network(cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: KindNetwork, Code: "network", Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Unknown returns a SubmissionUnknown for a transaction whose fate could not be observed
func Unknown(txHash string, cause error) *Error {
	return &Error{Kind: KindSubmissionUnknown, Code: "unknown_outcome", Message: "transaction outcome not observed, retry may be required", TxHash: txHash, Cause: cause}
}

// KindOf returns the kind of err, or KindUnknown if err is not tagged
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// CodeOf returns the code of a tagged error
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsRetryable reports whether the caller may retry the operation.
// Read failures are safe to retry; an unknown submission outcome needs
// reconciliation first, so it carries the "retry may be required" marker too.
func IsRetryable(err error) bool {
	switch KindOf(err) {
	case KindNetwork, KindSubmissionUnknown:
		return true
	}
	return false
}

// sentinel errors
var (
	ErrAccountNotFound = &Error{Kind: KindPolicy, Code: "account_not_found", Message: "account not found"}
	ErrMissingSequence = errors.New("submission result carries no sequence number")
	ErrBreakerOpen     = &Error{Kind: KindNetwork, Code: "breaker_open", Message: "ledger gateway circuit open"}
)

// IsAccountNotFound reports whether err says the account does not exist on ledger
func IsAccountNotFound(err error) bool {
	return errors.Is(err, ErrAccountNotFound)
}
