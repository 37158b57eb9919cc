package wallet

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/anyswap/XRPL-Custody/ledger"
)

// PREIMAGE-SHA-256 crypto-condition framing, DER with implicit tags
const (
	preimageLen = 32

	tagPreimageFulfillment = 0xA0
	tagPreimage            = 0x80
	tagFingerprint         = 0x80
	tagCost                = 0x81
)

// ConditionPair is a condition and the fulfillment that satisfies it,
// both uppercase hex as the ledger expects
type ConditionPair struct {
	Condition   string `json:"condition"`
	Fulfillment string `json:"fulfillment"`
}

// NewConditionPair generates a pair from a fresh 32 byte random preimage
func NewConditionPair() (*ConditionPair, error) {
	preimage := make([]byte, preimageLen)
	if _, err := rand.Read(preimage); err != nil {
		return nil, err
	}
	return ConditionPairFromPreimage(preimage)
}

// ConditionPairFromPreimage builds the pair for preimage
func ConditionPairFromPreimage(preimage []byte) (*ConditionPair, error) {
	if len(preimage) == 0 || len(preimage) > 127 {
		return nil, ledger.Validation("bad_preimage", "preimage length %v out of range", len(preimage))
	}
	fulfillment := make([]byte, 0, 4+len(preimage))
	fulfillment = append(fulfillment, tagPreimageFulfillment, byte(2+len(preimage)), tagPreimage, byte(len(preimage)))
	fulfillment = append(fulfillment, preimage...)
	return &ConditionPair{
		Condition:   conditionOf(preimage),
		Fulfillment: strings.ToUpper(hex.EncodeToString(fulfillment)),
	}, nil
}

func conditionOf(preimage []byte) string {
	fingerprint := sha256.Sum256(preimage)
	condition := make([]byte, 0, 39)
	condition = append(condition, tagPreimageFulfillment, 0x25, tagFingerprint, 0x20)
	condition = append(condition, fingerprint[:]...)
	condition = append(condition, tagCost, 0x01, byte(len(preimage)))
	return strings.ToUpper(hex.EncodeToString(condition))
}

// ConditionFromFulfillment parses a hex fulfillment and derives its condition
func ConditionFromFulfillment(fulfillmentHex string) (string, error) {
	raw, err := hex.DecodeString(strings.TrimSpace(fulfillmentHex))
	if err != nil {
		return "", ledger.Validation("bad_fulfillment", "fulfillment is not hex")
	}
	if len(raw) < 4 || raw[0] != tagPreimageFulfillment || raw[2] != tagPreimage ||
		int(raw[1]) != len(raw)-2 || int(raw[3]) != len(raw)-4 {
		return "", ledger.Validation("bad_fulfillment", "fulfillment is not a PREIMAGE-SHA-256 fulfillment")
	}
	return conditionOf(raw[4:]), nil
}
