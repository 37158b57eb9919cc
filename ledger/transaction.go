package ledger

// TxType is the ledger TransactionType field
type TxType string

// transaction types produced by this module
const (
	TxPayment      TxType = "Payment"
	TxTrustSet     TxType = "TrustSet"
	TxOfferCreate  TxType = "OfferCreate"
	TxOfferCancel  TxType = "OfferCancel"
	TxEscrowCreate TxType = "EscrowCreate"
	TxEscrowFinish TxType = "EscrowFinish"
	TxEscrowCancel TxType = "EscrowCancel"
)

// transaction flags
const (
	TfFullyCanonicalSig uint32 = 0x80000000

	TfPassive           uint32 = 0x00010000
	TfImmediateOrCancel uint32 = 0x00020000
	TfFillOrKill        uint32 = 0x00040000
	TfSell              uint32 = 0x00080000

	TfSetNoRipple uint32 = 0x00020000
)

// Transaction is the closed set of payloads this module builds
type Transaction interface {
	GetBase() *TxBase
	Validate() error
	isTransaction()
}

// TxBase holds the common fields. Sequence, Fee and LastLedgerSequence are
// left empty for the signer to fill.
type TxBase struct {
	TransactionType    TxType `json:"TransactionType"`
	Account            string `json:"Account"`
	Fee                string `json:"Fee,omitempty"`
	Sequence           uint32 `json:"Sequence,omitempty"`
	Flags              uint32 `json:"Flags,omitempty"`
	LastLedgerSequence uint32 `json:"LastLedgerSequence,omitempty"`
}

// GetBase returns the common fields
func (b *TxBase) GetBase() *TxBase { return b }

func (b *TxBase) isTransaction() {}

func (b *TxBase) validate(want TxType) error {
	if b.TransactionType != want {
		return Validation("bad_tx_type", "transaction type %v, want %v", b.TransactionType, want)
	}
	return CheckAddress("account", b.Account)
}

// Payment moves an amount to a destination
type Payment struct {
	TxBase
	Destination    string  `json:"Destination"`
	Amount         Amount  `json:"Amount"`
	DestinationTag *uint32 `json:"DestinationTag,omitempty"`
}

// NewPayment builds a payment payload
func NewPayment(account, destination string, amount Amount, destinationTag *uint32) *Payment {
	return &Payment{
		TxBase:         TxBase{TransactionType: TxPayment, Account: account},
		Destination:    destination,
		Amount:         amount,
		DestinationTag: destinationTag,
	}
}

// Validate checks the payload shape
func (tx *Payment) Validate() error {
	if err := tx.validate(TxPayment); err != nil {
		return err
	}
	if err := CheckAddress("destination", tx.Destination); err != nil {
		return err
	}
	if !tx.Amount.IsPositive() {
		return Validation("bad_amount", "payment amount must be positive")
	}
	return nil
}

// TrustSet creates or modifies a trust line
type TrustSet struct {
	TxBase
	LimitAmount Amount `json:"LimitAmount"`
}

// NewTrustSet builds a trust set payload
func NewTrustSet(account string, limit Amount) *TrustSet {
	return &TrustSet{
		TxBase:      TxBase{TransactionType: TxTrustSet, Account: account},
		LimitAmount: limit,
	}
}

// Validate checks the payload shape
func (tx *TrustSet) Validate() error {
	if err := tx.validate(TxTrustSet); err != nil {
		return err
	}
	if tx.LimitAmount.IsNative() {
		return Validation("bad_currency", "trust lines cannot hold the native currency")
	}
	if tx.LimitAmount.Issuer() == tx.Account {
		return Validation("bad_issuer", "cannot trust yourself")
	}
	return nil
}

// OfferCreate places an offer; TakerGets is what the owner gives
type OfferCreate struct {
	TxBase
	TakerGets     Amount `json:"TakerGets"`
	TakerPays     Amount `json:"TakerPays"`
	Expiration    uint32 `json:"Expiration,omitempty"`
	OfferSequence uint32 `json:"OfferSequence,omitempty"`
}

// NewOfferCreate builds an offer payload
func NewOfferCreate(account string, gets, pays Amount, flags uint32) *OfferCreate {
	return &OfferCreate{
		TxBase:    TxBase{TransactionType: TxOfferCreate, Account: account, Flags: flags},
		TakerGets: gets,
		TakerPays: pays,
	}
}

// Validate checks the payload shape
func (tx *OfferCreate) Validate() error {
	if err := tx.validate(TxOfferCreate); err != nil {
		return err
	}
	if !tx.TakerGets.IsPositive() || !tx.TakerPays.IsPositive() {
		return Validation("bad_amount", "offer amounts must be positive")
	}
	if tx.TakerGets.SameAsset(tx.TakerPays) {
		return Validation("bad_offer", "offer trades %v for itself", tx.TakerGets.Asset())
	}
	if tx.Flags&TfImmediateOrCancel != 0 && tx.Flags&TfFillOrKill != 0 {
		return Validation("bad_flags", "immediate-or-cancel and fill-or-kill are exclusive")
	}
	return nil
}

// OfferCancel removes an offer by its creating sequence
type OfferCancel struct {
	TxBase
	OfferSequence uint32 `json:"OfferSequence"`
}

// NewOfferCancel builds an offer cancel payload
func NewOfferCancel(account string, offerSequence uint32) *OfferCancel {
	return &OfferCancel{
		TxBase:        TxBase{TransactionType: TxOfferCancel, Account: account},
		OfferSequence: offerSequence,
	}
}

// Validate checks the payload shape
func (tx *OfferCancel) Validate() error {
	if err := tx.validate(TxOfferCancel); err != nil {
		return err
	}
	if tx.OfferSequence == 0 {
		return Validation("bad_sequence", "offer sequence is zero")
	}
	return nil
}

// EscrowCreate locks an amount until a time or a condition is met
type EscrowCreate struct {
	TxBase
	Destination    string  `json:"Destination"`
	Amount         Amount  `json:"Amount"`
	FinishAfter    uint32  `json:"FinishAfter,omitempty"`
	CancelAfter    uint32  `json:"CancelAfter,omitempty"`
	Condition      string  `json:"Condition,omitempty"`
	DestinationTag *uint32 `json:"DestinationTag,omitempty"`
}

// Validate checks the payload shape
func (tx *EscrowCreate) Validate() error {
	if err := tx.validate(TxEscrowCreate); err != nil {
		return err
	}
	if err := CheckAddress("destination", tx.Destination); err != nil {
		return err
	}
	if !tx.Amount.IsPositive() {
		return Validation("bad_amount", "escrow amount must be positive")
	}
	if tx.FinishAfter == 0 && tx.Condition == "" {
		return Validation("bad_escrow", "escrow needs a finish time or a condition")
	}
	if tx.FinishAfter != 0 && tx.CancelAfter != 0 && tx.CancelAfter <= tx.FinishAfter {
		return Validation("bad_escrow_time", "cancel-after must be later than release time")
	}
	if !tx.Amount.IsNative() && tx.CancelAfter == 0 {
		return Validation("missing_cancel_after", "issued asset escrows require cancel-after")
	}
	return nil
}

// EscrowFinish releases an escrow to its destination
type EscrowFinish struct {
	TxBase
	Owner         string `json:"Owner"`
	OfferSequence uint32 `json:"OfferSequence"`
	Condition     string `json:"Condition,omitempty"`
	Fulfillment   string `json:"Fulfillment,omitempty"`
}

// Validate checks the payload shape
func (tx *EscrowFinish) Validate() error {
	if err := tx.validate(TxEscrowFinish); err != nil {
		return err
	}
	if err := CheckAddress("owner", tx.Owner); err != nil {
		return err
	}
	if (tx.Condition == "") != (tx.Fulfillment == "") {
		return Validation("bad_fulfillment", "condition and fulfillment must be given together")
	}
	return nil
}

// EscrowCancel returns an expired escrow to its owner
type EscrowCancel struct {
	TxBase
	Owner         string `json:"Owner"`
	OfferSequence uint32 `json:"OfferSequence"`
}

// Validate checks the payload shape
func (tx *EscrowCancel) Validate() error {
	if err := tx.validate(TxEscrowCancel); err != nil {
		return err
	}
	return CheckAddress("owner", tx.Owner)
}
