// Package ledgertest provides an in-memory ledger.Gateway for tests.
package ledgertest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/anyswap/XRPL-Custody/ledger"
)

// reserves and fee used by the simulated ledger, in drops
const (
	BaseReserve  = 10000000
	OwnerReserve = 2000000
	Fee          = 12
)

type account struct {
	address    string
	seed       string
	balance    int64
	sequence   uint32
	ownerCount uint32
	funded     bool
	history    []ledger.TxRecord
}

type lineKey struct {
	holder   string
	currency string
	issuer   string
}

type escrow struct {
	owner       string
	destination string
	amount      ledger.Amount
	finishAfter uint32
	cancelAfter uint32
	condition   string
}

type offerKey struct {
	owner    string
	sequence uint32
}

// Ledger is a small, single threaded model of the network state.
// It is not a matching engine: an incoming offer only crosses a resting
// offer that mirrors it exactly.
type Ledger struct {
	mu       sync.Mutex
	accounts map[string]*account
	bySeed   map[string]string
	lines    map[lineKey]*ledger.Trustline
	offers   []*ledger.Offer
	escrows  map[offerKey]*escrow
	pending  map[string]ledger.Transaction

	ledgerIndex uint32
	closeTime   uint32
	calls       int

	failNext   error
	forceNext  ledger.EngineResult
	dropResult bool
	failBooks  map[[2]ledger.Asset]error
}

// New creates an empty ledger
func New() *Ledger {
	return &Ledger{
		accounts:    make(map[string]*account),
		bySeed:      make(map[string]string),
		lines:       make(map[lineKey]*ledger.Trustline),
		escrows:     make(map[offerKey]*escrow),
		pending:     make(map[string]ledger.Transaction),
		failBooks:   make(map[[2]ledger.Asset]error),
		ledgerIndex: 1000,
		closeTime:   700000000,
	}
}

var _ ledger.Gateway = (*Ledger)(nil)

// Fund creates or tops up an account holding drops, keyed by seed for signing
func (l *Ledger) Fund(address, seed string, drops int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	acct := l.accounts[address]
	if acct == nil {
		acct = &account{address: address, sequence: 1}
		l.accounts[address] = acct
	}
	acct.balance += drops
	acct.funded = true
	if seed != "" {
		acct.seed = seed
		l.bySeed[seed] = address
	}
}

// SetSequence sets the next sequence of a funded account
func (l *Ledger) SetSequence(address string, sequence uint32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if acct := l.accounts[address]; acct != nil {
		acct.sequence = sequence
	}
}

// SetLine sets the holder's side of a trust line to issuer
func (l *Ledger) SetLine(holder, currency, issuer, limit, balance string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	code, _ := ledger.EncodeCurrency(currency)
	key := lineKey{holder, code, issuer}
	line := l.lines[key]
	if line == nil {
		line = &ledger.Trustline{Peer: issuer, Currency: code}
		l.lines[key] = line
		if acct := l.accounts[holder]; acct != nil {
			acct.ownerCount++
		}
	}
	line.Limit = decimal.RequireFromString(limit)
	line.Balance = decimal.RequireFromString(balance)
}

// AddOffer places a resting offer without going through submission
func (l *Ledger) AddOffer(offer ledger.Offer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	o := offer
	l.offers = append(l.offers, &o)
}

// AddHistory appends records to the account history, oldest first
func (l *Ledger) AddHistory(address string, records ...ledger.TxRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()
	acct := l.accounts[address]
	if acct == nil {
		acct = &account{address: address, sequence: 1}
		l.accounts[address] = acct
	}
	for _, rec := range records {
		rec.Validated = true
		acct.history = append(acct.history, rec)
	}
}

// FailNext makes the next gateway call fail with err
func (l *Ledger) FailNext(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failNext = err
}

// FailBook makes every BookOffers query of the gets/pays book fail with err
func (l *Ledger) FailBook(gets, pays ledger.Asset, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failBooks[[2]ledger.Asset{gets, pays}] = err
}

// ForceResult makes the next submission end with result without applying it
func (l *Ledger) ForceResult(result ledger.EngineResult) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.forceNext = result
}

// DropNextResult makes the next submission apply but never report back,
// as when a node accepts a transaction and the wait times out
func (l *Ledger) DropNextResult() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.dropResult = true
}

// SetCloseTime sets the ledger close time in ledger epoch seconds
func (l *Ledger) SetCloseTime(t uint32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closeTime = t
}

// Calls returns the number of gateway calls served
func (l *Ledger) Calls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

// Balance returns native drops of address
func (l *Ledger) Balance(address string) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if acct := l.accounts[address]; acct != nil {
		return acct.balance
	}
	return 0
}

// LineBalance returns the holder's balance on a line, "" when absent
func (l *Ledger) LineBalance(holder, currency, issuer string) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	code, _ := ledger.EncodeCurrency(currency)
	if line := l.lines[lineKey{holder, code, issuer}]; line != nil {
		return line.Balance.String()
	}
	return ""
}

// Offers returns all resting offers
func (l *Ledger) Offers() []ledger.Offer {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]ledger.Offer, 0, len(l.offers))
	for _, o := range l.offers {
		out = append(out, *o)
	}
	return out
}

func (l *Ledger) enter() error {
	l.mu.Lock()
	l.calls++
	if err := l.failNext; err != nil {
		l.failNext = nil
		l.mu.Unlock()
		return err
	}
	return nil
}

// AccountInfo impl
func (l *Ledger) AccountInfo(ctx context.Context, address string) (*ledger.AccountInfo, error) {
	if err := l.enter(); err != nil {
		return nil, err
	}
	defer l.mu.Unlock()
	acct := l.accounts[address]
	if acct == nil || !acct.funded {
		return nil, fmt.Errorf("account_info: %w", ledger.ErrAccountNotFound)
	}
	return &ledger.AccountInfo{
		Address:    address,
		Balance:    acct.balance,
		Sequence:   acct.sequence,
		OwnerCount: acct.ownerCount,
	}, nil
}

// AccountLines impl
func (l *Ledger) AccountLines(ctx context.Context, address, peer string) ([]ledger.Trustline, error) {
	if err := l.enter(); err != nil {
		return nil, err
	}
	defer l.mu.Unlock()
	if acct := l.accounts[address]; acct == nil || !acct.funded {
		return nil, fmt.Errorf("account_lines: %w", ledger.ErrAccountNotFound)
	}
	var lines []ledger.Trustline
	for key, line := range l.lines {
		if key.holder != address || (peer != "" && key.issuer != peer) {
			continue
		}
		lines = append(lines, *line)
	}
	// issuers see the mirrored lines of their holders
	for key, line := range l.lines {
		if key.issuer != address || (peer != "" && key.holder != peer) {
			continue
		}
		lines = append(lines, ledger.Trustline{
			Peer:      key.holder,
			Currency:  line.Currency,
			Balance:   line.Balance.Neg(),
			Limit:     decimal.Zero,
			LimitPeer: line.Limit,
		})
	}
	return lines, nil
}

// AccountOffers impl
func (l *Ledger) AccountOffers(ctx context.Context, address string) ([]ledger.Offer, error) {
	if err := l.enter(); err != nil {
		return nil, err
	}
	defer l.mu.Unlock()
	var offers []ledger.Offer
	for _, o := range l.offers {
		if o.Owner == address {
			offers = append(offers, *o)
		}
	}
	return offers, nil
}

// AccountTransactions impl. The marker is the index to continue from.
func (l *Ledger) AccountTransactions(ctx context.Context, address string, req *ledger.HistoryRequest) (*ledger.HistoryPage, error) {
	if err := l.enter(); err != nil {
		return nil, err
	}
	defer l.mu.Unlock()
	acct := l.accounts[address]
	if acct == nil {
		return nil, fmt.Errorf("account_tx: %w", ledger.ErrAccountNotFound)
	}
	ordered := make([]ledger.TxRecord, len(acct.history))
	copy(ordered, acct.history)
	if !req.Forward {
		for i, j := 0, len(ordered)-1; i < j; i, j = i+1, j-1 {
			ordered[i], ordered[j] = ordered[j], ordered[i]
		}
	}
	start := 0
	if len(req.Marker) > 0 {
		if err := json.Unmarshal(req.Marker, &start); err != nil {
			return nil, err
		}
	}
	limit := req.Limit
	if limit <= 0 {
		limit = 200
	}
	end := start + limit
	if end > len(ordered) {
		end = len(ordered)
	}
	page := &ledger.HistoryPage{}
	if start < end {
		page.Transactions = ordered[start:end]
	}
	if end < len(ordered) {
		page.Marker, _ = json.Marshal(end)
	}
	return page, nil
}

// BookOffers impl
func (l *Ledger) BookOffers(ctx context.Context, gets, pays ledger.Asset, limit int) ([]ledger.Offer, error) {
	if err := l.enter(); err != nil {
		return nil, err
	}
	defer l.mu.Unlock()
	if err := l.failBooks[[2]ledger.Asset{gets, pays}]; err != nil {
		return nil, err
	}
	var offers []ledger.Offer
	for _, o := range l.offers {
		if o.TakerGets.Asset() == gets && o.TakerPays.Asset() == pays {
			offers = append(offers, *o)
			if limit > 0 && len(offers) >= limit {
				break
			}
		}
	}
	return offers, nil
}

// Sign impl: the seed must belong to the transaction account
func (l *Ledger) Sign(ctx context.Context, tx ledger.Transaction, seed string) (*ledger.SignedTx, error) {
	if err := tx.Validate(); err != nil {
		return nil, err
	}
	if err := l.enter(); err != nil {
		return nil, err
	}
	defer l.mu.Unlock()
	base := tx.GetBase()
	if l.bySeed[seed] != base.Account {
		return nil, &ledger.Error{Kind: ledger.KindValidation, Code: "badSecret", Message: "secret does not match account"}
	}
	acct := l.accounts[base.Account]
	if base.Sequence == 0 {
		base.Sequence = acct.sequence
	}
	if base.Fee == "" {
		base.Fee = fmt.Sprint(Fee)
	}
	base.LastLedgerSequence = l.ledgerIndex + 20
	blob, err := json.Marshal(tx)
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(append(blob, []byte(seed)...))
	hash := strings.ToUpper(hex.EncodeToString(sum[:]))
	l.pending[hash] = tx
	return &ledger.SignedTx{
		Blob:               strings.ToUpper(hex.EncodeToString(blob)),
		Hash:               hash,
		Type:               base.TransactionType,
		Account:            base.Account,
		Sequence:           base.Sequence,
		LastLedgerSequence: base.LastLedgerSequence,
	}, nil
}

// SubmitAndAwait impl: applies the transaction at once
func (l *Ledger) SubmitAndAwait(ctx context.Context, signed *ledger.SignedTx) (*ledger.SubmitResult, error) {
	if err := l.enter(); err != nil {
		return nil, ledger.Unknown(signed.Hash, err)
	}
	defer l.mu.Unlock()
	tx := l.pending[signed.Hash]
	if tx == nil {
		return nil, ledger.Rejected("tefBAD_SIGNATURE", signed.Hash, "unknown blob")
	}
	delete(l.pending, signed.Hash)

	base := tx.GetBase()
	acct := l.accounts[base.Account]
	if base.Sequence != acct.sequence {
		return &ledger.SubmitResult{Hash: signed.Hash, Result: "tefPAST_SEQ"}, ledger.Rejected("tefPAST_SEQ", signed.Hash, "")
	}

	result := l.forceNext
	l.forceNext = ""
	var affected []string
	if result == "" {
		result, affected = l.apply(tx)
	}
	if result.IsFinalRejection() {
		return &ledger.SubmitResult{Hash: signed.Hash, Result: result}, ledger.Rejected(result, signed.Hash, "")
	}
	seq := base.Sequence
	acct.sequence++
	acct.balance -= feeOf(base)
	l.ledgerIndex++

	rec := record(tx, signed.Hash, result, l.ledgerIndex, l.closeTime)
	acct.history = append(acct.history, rec)
	for _, addr := range affected {
		if other := l.accounts[addr]; other != nil && addr != base.Account {
			other.history = append(other.history, rec)
		}
	}

	if l.dropResult {
		l.dropResult = false
		return nil, ledger.Unknown(signed.Hash, context.DeadlineExceeded)
	}
	res := &ledger.SubmitResult{
		Hash:        signed.Hash,
		Result:      result,
		Sequence:    &seq,
		LedgerIndex: l.ledgerIndex,
		Validated:   true,
	}
	if !result.IsSuccess() {
		return res, ledger.Rejected(result, signed.Hash, "")
	}
	return res, nil
}

func feeOf(base *ledger.TxBase) int64 {
	fee, err := strconv.ParseInt(base.Fee, 10, 64)
	if err != nil || fee <= 0 {
		return Fee
	}
	return fee
}

func record(tx ledger.Transaction, hash string, result ledger.EngineResult, index, date uint32) ledger.TxRecord {
	base := tx.GetBase()
	rec := ledger.TxRecord{
		Hash:        hash,
		Type:        base.TransactionType,
		Account:     base.Account,
		Sequence:    base.Sequence,
		Result:      result,
		LedgerIndex: index,
		Date:        date,
		Validated:   true,
	}
	switch t := tx.(type) {
	case *ledger.Payment:
		rec.Destination = t.Destination
		amt := t.Amount
		rec.Amount = &amt
	case *ledger.OfferCreate:
		gets, pays := t.TakerGets, t.TakerPays
		rec.TakerGets, rec.TakerPays = &gets, &pays
		rec.OfferSequence = t.OfferSequence
	case *ledger.OfferCancel:
		rec.OfferSequence = t.OfferSequence
	case *ledger.EscrowCreate:
		rec.Destination = t.Destination
		amt := t.Amount
		rec.Amount = &amt
	case *ledger.EscrowFinish:
		rec.OfferSequence = t.OfferSequence
	case *ledger.EscrowCancel:
		rec.OfferSequence = t.OfferSequence
	}
	return rec
}
