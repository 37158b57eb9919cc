package rpcgateway

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/anyswap/XRPL-Custody/ledger"
)

// flexUint accepts numbers and numeric strings, rippled uses both
type flexUint uint32

func (f *flexUint) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return err
	}
	*f = flexUint(v)
	return nil
}

type accountInfoResult struct {
	AccountData struct {
		Account    string   `json:"Account"`
		Balance    string   `json:"Balance"`
		Sequence   flexUint `json:"Sequence"`
		OwnerCount flexUint `json:"OwnerCount"`
	} `json:"account_data"`
}

type accountLinesResult struct {
	Lines  []ledger.Trustline `json:"lines"`
	Marker json.RawMessage    `json:"marker"`
}

type accountOffer struct {
	Flags           uint32         `json:"flags"`
	Seq             flexUint       `json:"seq"`
	TakerGets       ledger.Amount  `json:"taker_gets"`
	TakerPays       ledger.Amount  `json:"taker_pays"`
	Quality         string         `json:"quality"`
	Expiration      uint32         `json:"expiration"`
	TakerGetsFunded *ledger.Amount `json:"taker_gets_funded"`
	TakerPaysFunded *ledger.Amount `json:"taker_pays_funded"`
}

type accountOffersResult struct {
	Offers []accountOffer  `json:"offers"`
	Marker json.RawMessage `json:"marker"`
}

type bookOffer struct {
	Account         string         `json:"Account"`
	Sequence        flexUint       `json:"Sequence"`
	Flags           uint32         `json:"Flags"`
	TakerGets       ledger.Amount  `json:"TakerGets"`
	TakerPays       ledger.Amount  `json:"TakerPays"`
	Quality         string         `json:"quality"`
	Expiration      uint32         `json:"Expiration"`
	TakerGetsFunded *ledger.Amount `json:"taker_gets_funded"`
	TakerPaysFunded *ledger.Amount `json:"taker_pays_funded"`
}

type bookOffersResult struct {
	Offers []bookOffer `json:"offers"`
}

// txFields is the subset of transaction fields the wallet looks at
type txFields struct {
	Hash            string          `json:"hash"`
	TransactionType string          `json:"TransactionType"`
	Account         string          `json:"Account"`
	Sequence        flexUint        `json:"Sequence"`
	OfferSequence   flexUint        `json:"OfferSequence"`
	Destination     string          `json:"Destination"`
	Amount          json.RawMessage `json:"Amount"`
	TakerGets       json.RawMessage `json:"TakerGets"`
	TakerPays       json.RawMessage `json:"TakerPays"`
	Date            flexUint        `json:"date"`
	LedgerIndex     flexUint        `json:"ledger_index"`
}

type txMeta struct {
	TransactionResult string `json:"TransactionResult"`
}

// accountTxEntry covers both the v1 (tx) and v2 (tx_json + hash) layouts
type accountTxEntry struct {
	Tx          json.RawMessage `json:"tx"`
	TxJSON      json.RawMessage `json:"tx_json"`
	Hash        string          `json:"hash"`
	Meta        json.RawMessage `json:"meta"`
	Validated   bool            `json:"validated"`
	LedgerIndex flexUint        `json:"ledger_index"`
}

type accountTxResult struct {
	Transactions []accountTxEntry `json:"transactions"`
	Marker       json.RawMessage  `json:"marker"`
}

type txResult struct {
	txFields
	TxJSON    json.RawMessage `json:"tx_json"`
	Meta      json.RawMessage `json:"meta"`
	Validated bool            `json:"validated"`
}

type ledgerCurrentResult struct {
	LedgerCurrentIndex flexUint `json:"ledger_current_index"`
}

type ledgerResult struct {
	LedgerIndex flexUint `json:"ledger_index"`
	Validated   bool     `json:"validated"`
}

type signResult struct {
	TxBlob string `json:"tx_blob"`
	TxJSON struct {
		Hash               string   `json:"hash"`
		TransactionType    string   `json:"TransactionType"`
		Account            string   `json:"Account"`
		Sequence           flexUint `json:"Sequence"`
		LastLedgerSequence flexUint `json:"LastLedgerSequence"`
	} `json:"tx_json"`
}

type submitResult struct {
	EngineResult        string `json:"engine_result"`
	EngineResultMessage string `json:"engine_result_message"`
	TxJSON              struct {
		Hash string `json:"hash"`
	} `json:"tx_json"`
}

func decodeAmount(raw json.RawMessage) *ledger.Amount {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	amt := new(ledger.Amount)
	if err := json.Unmarshal(raw, amt); err != nil {
		return nil
	}
	return amt
}

func parseMeta(raw json.RawMessage) ledger.EngineResult {
	var meta txMeta
	if len(raw) == 0 || raw[0] != '{' {
		return ""
	}
	if err := json.Unmarshal(raw, &meta); err != nil {
		return ""
	}
	return ledger.EngineResult(meta.TransactionResult)
}

func toTxRecord(fields *txFields, meta json.RawMessage, validated bool, raw json.RawMessage) ledger.TxRecord {
	return ledger.TxRecord{
		Hash:          fields.Hash,
		Type:          ledger.TxType(fields.TransactionType),
		Account:       fields.Account,
		Sequence:      uint32(fields.Sequence),
		OfferSequence: uint32(fields.OfferSequence),
		Destination:   fields.Destination,
		Amount:        decodeAmount(fields.Amount),
		TakerGets:     decodeAmount(fields.TakerGets),
		TakerPays:     decodeAmount(fields.TakerPays),
		Result:        parseMeta(meta),
		LedgerIndex:   uint32(fields.LedgerIndex),
		Date:          uint32(fields.Date),
		Validated:     validated,
		Raw:           raw,
	}
}
