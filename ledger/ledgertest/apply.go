package ledgertest

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/anyswap/XRPL-Custody/ledger"
)

func (l *Ledger) reserve(acct *account) int64 {
	return BaseReserve + int64(acct.ownerCount)*OwnerReserve
}

func (l *Ledger) spendable(acct *account) int64 {
	return acct.balance - l.reserve(acct) - Fee
}

// apply executes tx and returns its result and the other accounts it touched
func (l *Ledger) apply(tx ledger.Transaction) (ledger.EngineResult, []string) {
	switch t := tx.(type) {
	case *ledger.Payment:
		return l.applyPayment(t), []string{t.Destination}
	case *ledger.TrustSet:
		return l.applyTrustSet(t), nil
	case *ledger.OfferCreate:
		return l.applyOfferCreate(t)
	case *ledger.OfferCancel:
		l.removeOffer(t.Account, t.OfferSequence)
		return ledger.TesSUCCESS, nil
	case *ledger.EscrowCreate:
		return l.applyEscrowCreate(t), []string{t.Destination}
	case *ledger.EscrowFinish:
		return l.applyEscrowFinish(t)
	case *ledger.EscrowCancel:
		return l.applyEscrowCancel(t), nil
	}
	return "temUNKNOWN", nil
}

func (l *Ledger) applyPayment(tx *ledger.Payment) ledger.EngineResult {
	if tx.Destination == tx.Account {
		return ledger.TemREDUNDANT
	}
	dest := l.accounts[tx.Destination]
	if dest == nil || !dest.funded {
		if !tx.Amount.IsNative() {
			return "tecNO_DST"
		}
		if tx.Amount.Drops() < BaseReserve {
			return ledger.TecNO_DST_INSUF_XRP
		}
		if dest == nil {
			dest = &account{address: tx.Destination, sequence: 1}
			l.accounts[tx.Destination] = dest
		}
	}
	if result := l.canMove(tx.Account, tx.Destination, tx.Amount); !result.IsSuccess() {
		if result == ledger.TecUNFUNDED_OFFER {
			return ledger.TecUNFUNDED_PAYMENT
		}
		return result
	}
	l.move(tx.Account, tx.Destination, tx.Amount)
	dest.funded = true
	return ledger.TesSUCCESS
}

func (l *Ledger) applyTrustSet(tx *ledger.TrustSet) ledger.EngineResult {
	issuer := tx.LimitAmount.Issuer()
	if acct := l.accounts[issuer]; acct == nil || !acct.funded {
		return "tecNO_DST"
	}
	key := lineKey{tx.Account, tx.LimitAmount.Currency(), issuer}
	line := l.lines[key]
	if line == nil {
		owner := l.accounts[tx.Account]
		if owner.balance < BaseReserve+int64(owner.ownerCount+1)*OwnerReserve {
			return "tecNO_LINE_INSUF_RESERVE"
		}
		line = &ledger.Trustline{Peer: issuer, Currency: key.currency}
		l.lines[key] = line
		owner.ownerCount++
	}
	line.Limit = tx.LimitAmount.Value()
	return ledger.TesSUCCESS
}

func (l *Ledger) applyOfferCreate(tx *ledger.OfferCreate) (ledger.EngineResult, []string) {
	if tx.OfferSequence != 0 {
		l.removeOffer(tx.Account, tx.OfferSequence)
	}
	if !tx.TakerGets.IsNative() && tx.TakerGets.Issuer() != tx.Account {
		line := l.lines[lineKey{tx.Account, tx.TakerGets.Currency(), tx.TakerGets.Issuer()}]
		if line == nil || !line.Balance.IsPositive() {
			return ledger.TecUNFUNDED_OFFER, nil
		}
	}
	if tx.TakerGets.IsNative() && l.spendable(l.accounts[tx.Account]) <= 0 {
		return ledger.TecUNFUNDED_OFFER, nil
	}

	for i, o := range l.offers {
		if o.Owner == tx.Account || !o.TakerGets.Equal(tx.TakerPays) || !o.TakerPays.Equal(tx.TakerGets) {
			continue
		}
		if l.canMove(tx.Account, o.Owner, tx.TakerGets) != ledger.TesSUCCESS ||
			l.canMove(o.Owner, tx.Account, o.TakerGets) != ledger.TesSUCCESS {
			continue
		}
		l.move(tx.Account, o.Owner, tx.TakerGets)
		l.move(o.Owner, tx.Account, o.TakerGets)
		l.offers = append(l.offers[:i], l.offers[i+1:]...)
		if owner := l.accounts[o.Owner]; owner != nil && owner.ownerCount > 0 {
			owner.ownerCount--
		}
		return ledger.TesSUCCESS, []string{o.Owner}
	}

	if tx.Flags&(ledger.TfImmediateOrCancel|ledger.TfFillOrKill) != 0 {
		return ledger.TecKILLED, nil
	}
	owner := l.accounts[tx.Account]
	if owner.balance < BaseReserve+int64(owner.ownerCount+1)*OwnerReserve {
		return "tecINSUF_RESERVE_OFFER", nil
	}
	l.offers = append(l.offers, &ledger.Offer{
		Owner:     tx.Account,
		Sequence:  tx.Sequence,
		Flags:     tx.Flags,
		TakerGets: tx.TakerGets,
		TakerPays: tx.TakerPays,
	})
	owner.ownerCount++
	return ledger.TesSUCCESS, nil
}

func (l *Ledger) removeOffer(owner string, sequence uint32) {
	for i, o := range l.offers {
		if o.Owner == owner && o.Sequence == sequence {
			l.offers = append(l.offers[:i], l.offers[i+1:]...)
			if acct := l.accounts[owner]; acct != nil && acct.ownerCount > 0 {
				acct.ownerCount--
			}
			return
		}
	}
}

func (l *Ledger) applyEscrowCreate(tx *ledger.EscrowCreate) ledger.EngineResult {
	if !tx.Amount.IsNative() {
		return ledger.TemBAD_AMOUNT
	}
	if dest := l.accounts[tx.Destination]; dest == nil || !dest.funded {
		return "tecNO_DST"
	}
	if (tx.FinishAfter != 0 && tx.FinishAfter <= l.closeTime) || (tx.CancelAfter != 0 && tx.CancelAfter <= l.closeTime) {
		return ledger.TecNO_PERMISSION
	}
	owner := l.accounts[tx.Account]
	if tx.Amount.Drops() > l.spendable(owner) {
		return "tecUNFUNDED"
	}
	owner.balance -= tx.Amount.Drops()
	owner.ownerCount++
	l.escrows[offerKey{tx.Account, tx.Sequence}] = &escrow{
		owner:       tx.Account,
		destination: tx.Destination,
		amount:      tx.Amount,
		finishAfter: tx.FinishAfter,
		cancelAfter: tx.CancelAfter,
		condition:   tx.Condition,
	}
	return ledger.TesSUCCESS
}

func (l *Ledger) applyEscrowFinish(tx *ledger.EscrowFinish) (ledger.EngineResult, []string) {
	key := offerKey{tx.Owner, tx.OfferSequence}
	e := l.escrows[key]
	if e == nil {
		return ledger.TecNO_TARGET, nil
	}
	if e.finishAfter != 0 && l.closeTime <= e.finishAfter {
		return ledger.TecNO_PERMISSION, nil
	}
	if e.cancelAfter != 0 && l.closeTime >= e.cancelAfter {
		return ledger.TecNO_PERMISSION, nil
	}
	if e.condition != "" {
		if tx.Fulfillment == "" || !strings.EqualFold(tx.Condition, e.condition) || !fulfills(tx.Fulfillment, e.condition) {
			return ledger.TecCRYPTOCONDITION_ERR, nil
		}
	}
	l.accounts[e.destination].balance += e.amount.Drops()
	l.releaseEscrow(key, e)
	return ledger.TesSUCCESS, []string{e.owner, e.destination}
}

func (l *Ledger) applyEscrowCancel(tx *ledger.EscrowCancel) ledger.EngineResult {
	key := offerKey{tx.Owner, tx.OfferSequence}
	e := l.escrows[key]
	if e == nil {
		return ledger.TecNO_TARGET
	}
	if e.cancelAfter == 0 || l.closeTime < e.cancelAfter {
		return ledger.TecNO_PERMISSION
	}
	l.accounts[e.owner].balance += e.amount.Drops()
	l.releaseEscrow(key, e)
	return ledger.TesSUCCESS
}

func (l *Ledger) releaseEscrow(key offerKey, e *escrow) {
	delete(l.escrows, key)
	if owner := l.accounts[e.owner]; owner != nil && owner.ownerCount > 0 {
		owner.ownerCount--
	}
}

// fulfills checks a PREIMAGE-SHA-256 fulfillment against a condition
func fulfills(fulfillmentHex, conditionHex string) bool {
	fulfillment, err := hex.DecodeString(fulfillmentHex)
	if err != nil || len(fulfillment) < 4 || fulfillment[0] != 0xA0 || fulfillment[2] != 0x80 {
		return false
	}
	preimage := fulfillment[4:]
	if int(fulfillment[3]) != len(preimage) {
		return false
	}
	hash := sha256.Sum256(preimage)
	want := append([]byte{0xA0, 0x25, 0x80, 0x20}, hash[:]...)
	want = append(want, 0x81, 0x01, byte(len(preimage)))
	condition, err := hex.DecodeString(conditionHex)
	return err == nil && bytes.Equal(condition, want)
}

// canMove checks that from holds amt and to can receive it
func (l *Ledger) canMove(from, to string, amt ledger.Amount) ledger.EngineResult {
	if amt.IsNative() {
		if amt.Drops() > l.spendable(l.accounts[from]) {
			return ledger.TecUNFUNDED_OFFER
		}
		return ledger.TesSUCCESS
	}
	issuer := amt.Issuer()
	if from != issuer {
		line := l.lines[lineKey{from, amt.Currency(), issuer}]
		if line == nil || line.Balance.LessThan(amt.Value()) {
			return ledger.TecUNFUNDED_OFFER
		}
	}
	if to != issuer {
		line := l.lines[lineKey{to, amt.Currency(), issuer}]
		if line == nil || line.Balance.Add(amt.Value()).GreaterThan(line.Limit) {
			return ledger.TecPATH_DRY
		}
	}
	return ledger.TesSUCCESS
}

func (l *Ledger) move(from, to string, amt ledger.Amount) {
	if amt.IsNative() {
		l.accounts[from].balance -= amt.Drops()
		l.accounts[to].balance += amt.Drops()
		return
	}
	issuer := amt.Issuer()
	if from != issuer {
		line := l.lines[lineKey{from, amt.Currency(), issuer}]
		line.Balance = line.Balance.Sub(amt.Value())
	}
	if to != issuer {
		line := l.lines[lineKey{to, amt.Currency(), issuer}]
		line.Balance = line.Balance.Add(amt.Value())
	}
}
