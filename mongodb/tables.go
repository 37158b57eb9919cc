package mongodb

import (
	"fmt"
	"strings"
)

// MgoEnabledToken a trust line set up through the service
type MgoEnabledToken struct {
	Key       string `bson:"_id"`
	Holder    string `bson:"holder"`
	Currency  string `bson:"currency"`
	Issuer    string `bson:"issuer"`
	Limit     string `bson:"limit"`
	TxHash    string `bson:"txhash"`
	EnabledAt int64  `bson:"enabledat"`
}

// EnabledTokenKey is the record id of holder's token
func EnabledTokenKey(holder, currency, issuer string) string {
	return strings.Join([]string{holder, strings.ToUpper(currency), issuer}, ":")
}

// MgoSubmission an audit record of one guarded submission
type MgoSubmission struct {
	Key       string `bson:"_id"`
	Operation string `bson:"operation"`
	Account   string `bson:"account"`
	TxHash    string `bson:"txhash"`
	Result    string `bson:"result"`
	Sequence  uint32 `bson:"sequence"`
	Kind      string `bson:"kind"`
	Code      string `bson:"code"`
	Message   string `bson:"message"`
	Timestamp int64  `bson:"timestamp"`
}

// MgoTrackedOffer an offer followed by the reconciler until terminal
type MgoTrackedOffer struct {
	Key       string `bson:"_id"`
	Owner     string `bson:"owner"`
	Sequence  uint32 `bson:"sequence"`
	Status    string `bson:"status"`
	TxHash    string `bson:"txhash"`
	Result    string `bson:"result"`
	Checks    int    `bson:"checks"`
	CreatedAt int64  `bson:"createdat"`
	UpdatedAt int64  `bson:"updatedat"`
}

// TrackedOfferKey is the record id of an offer
func TrackedOfferKey(owner string, sequence uint32) string {
	return fmt.Sprintf("%s:%d", owner, sequence)
}

// MgoBlackAccount a blacklisted address added by an admin
type MgoBlackAccount struct {
	Key       string `bson:"_id"` // address
	Memo      string `bson:"memo"`
	Timestamp int64  `bson:"timestamp"`
}
