package wallet

import (
	"context"
	"time"

	"github.com/anyswap/XRPL-Custody/ledger"
)

// RiskLevel grades a counterparty
type RiskLevel string

// risk levels
const (
	RiskHigh   RiskLevel = "high"
	RiskMedium RiskLevel = "medium"
	RiskLow    RiskLevel = "low"
)

// thresholds below which a counterparty is medium risk
const (
	minAgeMonths = 6
	minTxCount   = 10
)

// ledgerGenesis is the earliest plausible first transaction date
var ledgerGenesis = time.Date(2012, 1, 1, 0, 0, 0, 0, time.UTC)

// AddressReport is the result of screening a destination address
type AddressReport struct {
	Address      string    `json:"address"`
	Currency     string    `json:"currency"`
	Issuer       string    `json:"issuer,omitempty"`
	Valid        bool      `json:"valid"`
	Blacklisted  bool      `json:"blacklisted"`
	AgeMonths    int       `json:"age_months"`
	TxCount      uint32    `json:"tx_count"`
	HasTrustline bool      `json:"has_trustline"`
	Risk         RiskLevel `json:"risk"`
}

// CheckAddress grades address as a destination for currency. Unknown
// accounts and missing trust lines are high risk; young or barely used
// accounts are medium risk.
func (w *Wallet) CheckAddress(ctx context.Context, address, currency, issuer string) (*AddressReport, error) {
	if currency == "" {
		currency = ledger.NativeCurrency
	}
	reg := w.registry.Load()
	issuer, err := reg.ResolveIssuer(currency, issuer)
	if err != nil {
		return nil, err
	}
	report := &AddressReport{
		Address:      address,
		Currency:     ledger.NormalizeCurrency(currency),
		Issuer:       issuer,
		Blacklisted:  reg.IsBlacklisted(address),
		HasTrustline: issuer == "",
		Risk:         RiskHigh,
	}
	if report.Blacklisted || !ledger.IsValidAddress(address) {
		return report, nil
	}

	info, err := w.gw.AccountInfo(ctx, address)
	if ledger.IsAccountNotFound(err) {
		return report, nil
	}
	if err != nil {
		return nil, err
	}
	report.Valid = true
	report.TxCount = info.Sequence
	if report.AgeMonths, err = w.AccountAgeMonths(ctx, address); err != nil {
		return nil, err
	}
	if issuer != "" {
		lines, err := w.gw.AccountLines(ctx, address, issuer)
		if err != nil {
			return nil, err
		}
		_, report.HasTrustline = matchTrustline(lines, currency, issuer)
	}

	switch {
	case !report.HasTrustline:
		report.Risk = RiskHigh
	case report.AgeMonths < minAgeMonths || report.TxCount < minTxCount:
		report.Risk = RiskMedium
	default:
		report.Risk = RiskLow
	}
	return report, nil
}

// IssuerReport is the result of screening an issuer
type IssuerReport struct {
	Issuer         string    `json:"issuer"`
	Currency       string    `json:"currency"`
	Valid          bool      `json:"valid"`
	Blacklisted    bool      `json:"blacklisted"`
	AgeMonths      int       `json:"age_months"`
	IssuesCurrency bool      `json:"issues_currency"`
	Risk           RiskLevel `json:"risk"`
}

// CheckIssuer grades an issuer of currency before trusting it
func (w *Wallet) CheckIssuer(ctx context.Context, currency, issuer string) (*IssuerReport, error) {
	if ledger.IsNativeCurrency(currency) {
		return nil, ledger.Validation("native_issuer", "XRP has no issuer")
	}
	code, err := ledger.EncodeCurrency(currency)
	if err != nil {
		return nil, err
	}
	reg := w.registry.Load()
	issuer, err = reg.ResolveIssuer(currency, issuer)
	if err != nil {
		return nil, err
	}
	if err = ledger.CheckAddress("issuer", issuer); err != nil {
		return nil, err
	}
	report := &IssuerReport{
		Issuer:      issuer,
		Currency:    ledger.NormalizeCurrency(currency),
		Blacklisted: reg.IsBlacklisted(issuer),
		Risk:        RiskHigh,
	}

	_, err = w.gw.AccountInfo(ctx, issuer)
	switch {
	case ledger.IsAccountNotFound(err):
		return report, nil
	case err != nil:
		return nil, err
	}
	report.Valid = true
	if report.AgeMonths, err = w.AccountAgeMonths(ctx, issuer); err != nil {
		return nil, err
	}
	lines, err := w.gw.AccountLines(ctx, issuer, "")
	if err != nil {
		return nil, err
	}
	for _, line := range lines {
		if ledger.SameCurrency(line.Currency, code) {
			report.IssuesCurrency = true
			break
		}
	}

	switch {
	case report.Blacklisted:
		report.Risk = RiskHigh
	case !report.IssuesCurrency || report.AgeMonths < minAgeMonths:
		report.Risk = RiskMedium
	default:
		report.Risk = RiskLow
	}
	return report, nil
}

// AccountAgeMonths estimates account age from its first transaction.
// Implausible dates count as zero.
func (w *Wallet) AccountAgeMonths(ctx context.Context, address string) (int, error) {
	page, err := w.gw.AccountTransactions(ctx, address, &ledger.HistoryRequest{Limit: 1, Forward: true})
	if err != nil {
		return 0, err
	}
	if len(page.Transactions) == 0 || page.Transactions[0].Date == 0 {
		return 0, nil
	}
	created := ledger.FromRippleTime(page.Transactions[0].Date)
	now := w.now().UTC()
	if created.Before(ledgerGenesis) || created.After(now.Add(24*time.Hour)) {
		return 0, nil
	}
	return fullMonthsBetween(created, now), nil
}

func fullMonthsBetween(start, end time.Time) int {
	if !end.After(start) {
		return 0
	}
	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
	if end.Day() < start.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}
