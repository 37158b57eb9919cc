package ledger

import "strings"

// EngineResult is a transaction engine result code, eg. tesSUCCESS
type EngineResult string

// well known engine results
const (
	TesSUCCESS             EngineResult = "tesSUCCESS"
	TecKILLED              EngineResult = "tecKILLED"
	TecPATH_DRY            EngineResult = "tecPATH_DRY"
	TecUNFUNDED_OFFER      EngineResult = "tecUNFUNDED_OFFER"
	TecUNFUNDED_PAYMENT    EngineResult = "tecUNFUNDED_PAYMENT"
	TecNO_DST_INSUF_XRP    EngineResult = "tecNO_DST_INSUF_XRP"
	TecNO_LINE             EngineResult = "tecNO_LINE"
	TecNO_TARGET           EngineResult = "tecNO_TARGET"
	TecNO_PERMISSION       EngineResult = "tecNO_PERMISSION"
	TecCRYPTOCONDITION_ERR EngineResult = "tecCRYPTOCONDITION_ERROR"
	TecINSUFFICIENT_RESERV EngineResult = "tecINSUFFICIENT_RESERVE"
	TemREDUNDANT           EngineResult = "temREDUNDANT"
	TemBAD_AMOUNT          EngineResult = "temBAD_AMOUNT"
	TefMAX_LEDGER          EngineResult = "tefMAX_LEDGER"
	TerQUEUED              EngineResult = "terQUEUED"
)

// IsSuccess reports tesSUCCESS
func (r EngineResult) IsSuccess() bool {
	return r == TesSUCCESS
}

// IsClaimed reports a tec result: the transaction was applied, the fee was
// charged and the sequence consumed, but the intended effect did not happen.
func (r EngineResult) IsClaimed() bool {
	return strings.HasPrefix(string(r), "tec")
}

// IsFinalRejection reports results that can never succeed for this blob,
// so there is nothing to wait for.
func (r EngineResult) IsFinalRejection() bool {
	s := string(r)
	return strings.HasPrefix(s, "tem") || strings.HasPrefix(s, "tef") || strings.HasPrefix(s, "tej")
}

// IsProvisional reports results that may still change once a ledger validates
func (r EngineResult) IsProvisional() bool {
	s := string(r)
	return s == "" || strings.HasPrefix(s, "ter") || strings.HasPrefix(s, "tel") || r.IsSuccess() || r.IsClaimed()
}
