package walletapi

import (
	"time"

	"github.com/anyswap/XRPL-Custody/wallet"
)

// ServerInfo server info
type ServerInfo struct {
	Identifier string            `json:"identifier"`
	Version    string            `json:"version"`
	Tokens     map[string]string `json:"tokens"`
	Blacklist  int               `json:"blacklistSize"`
}

// AddressArgs address and optional page limit
type AddressArgs struct {
	Address string `json:"address"`
	Limit   int    `json:"limit,omitempty"`
}

// TokenArgs a holder's view of one token
type TokenArgs struct {
	Address  string `json:"address"`
	Currency string `json:"currency"`
	Issuer   string `json:"issuer,omitempty"`
}

// CapacityResult remaining receivable amount on a trust line
type CapacityResult struct {
	Currency  string `json:"currency"`
	Issuer    string `json:"issuer"`
	Remaining string `json:"remaining"`
	Anomaly   bool   `json:"anomaly,omitempty"`
}

// SendArgs send args
type SendArgs struct {
	Identity       string  `json:"identity"`
	Destination    string  `json:"destination"`
	Currency       string  `json:"currency"`
	Issuer         string  `json:"issuer,omitempty"`
	Amount         string  `json:"amount"`
	DestinationTag *uint32 `json:"destinationTag,omitempty"`
}

// TrustLineArgs trust line args
type TrustLineArgs struct {
	Identity string `json:"identity"`
	Currency string `json:"currency"`
	Issuer   string `json:"issuer,omitempty"`
	Limit    string `json:"limit,omitempty"`
}

// OfferArgs offer args; amounts are in whole units
type OfferArgs struct {
	Identity     string `json:"identity"`
	GiveCurrency string `json:"giveCurrency"`
	GiveIssuer   string `json:"giveIssuer,omitempty"`
	GiveAmount   string `json:"giveAmount"`
	WantCurrency string `json:"wantCurrency"`
	WantIssuer   string `json:"wantIssuer,omitempty"`
	WantAmount   string `json:"wantAmount"`

	ImmediateOrCancel bool   `json:"immediateOrCancel,omitempty"`
	FillOrKill        bool   `json:"fillOrKill,omitempty"`
	Sell              bool   `json:"sell,omitempty"`
	Replaces          uint32 `json:"replaces,omitempty"`
}

func (args *OfferArgs) request() *wallet.OfferRequest {
	return &wallet.OfferRequest{
		GiveCurrency: args.GiveCurrency,
		GiveIssuer:   args.GiveIssuer,
		GiveAmount:   args.GiveAmount,
		WantCurrency: args.WantCurrency,
		WantIssuer:   args.WantIssuer,
		WantAmount:   args.WantAmount,
	}
}

func (args *OfferArgs) options() *wallet.OfferOptions {
	return &wallet.OfferOptions{
		ImmediateOrCancel: args.ImmediateOrCancel,
		FillOrKill:        args.FillOrKill,
		Sell:              args.Sell,
		Replaces:          args.Replaces,
	}
}

// OfferResult a placed offer and its reconciled status
type OfferResult struct {
	wallet.TxResult
	Status wallet.OfferState `json:"status,omitempty"`
}

// OfferRefArgs identifies an offer
type OfferRefArgs struct {
	Identity string `json:"identity,omitempty"`
	Owner    string `json:"owner,omitempty"`
	Sequence uint32 `json:"sequence"`
	Pages    int    `json:"pages,omitempty"`
}

// OrderBookArgs order book args
type OrderBookArgs struct {
	SellCurrency string `json:"sellCurrency"`
	SellIssuer   string `json:"sellIssuer,omitempty"`
	BuyCurrency  string `json:"buyCurrency"`
	BuyIssuer    string `json:"buyIssuer,omitempty"`
	Limit        int    `json:"limit,omitempty"`
	Exclude      string `json:"exclude,omitempty"`
}

// IncomingOffersArgs incoming offers args
type IncomingOffersArgs struct {
	Address string `json:"address"`
	Limit   int    `json:"limit,omitempty"`
	PerBook int    `json:"perBook,omitempty"`
}

// EscrowArgs escrow creation args. A condition escrow gets a fresh
// condition and returns its fulfillment.
type EscrowArgs struct {
	Identity       string     `json:"identity"`
	Destination    string     `json:"destination"`
	Currency       string     `json:"currency"`
	Issuer         string     `json:"issuer,omitempty"`
	Amount         string     `json:"amount"`
	DestinationTag *uint32    `json:"destinationTag,omitempty"`
	ReleaseAfter   *time.Time `json:"releaseAfter,omitempty"`
	CancelAfter    *time.Time `json:"cancelAfter,omitempty"`
	Condition      bool       `json:"condition,omitempty"`
}

// EscrowRefArgs identifies an escrow to finish or cancel
type EscrowRefArgs struct {
	Identity    string `json:"identity"`
	Owner       string `json:"owner"`
	Sequence    uint32 `json:"sequence"`
	Fulfillment string `json:"fulfillment,omitempty"`
}

// SubmissionsArgs submission audit query
type SubmissionsArgs struct {
	Account string `json:"account"`
	Offset  int    `json:"offset,omitempty"`
	Limit   int    `json:"limit,omitempty"`
}

// BlacklistArgs admin blacklist operation: add, remove or query
type BlacklistArgs struct {
	Operation string `json:"operation"`
	Address   string `json:"address"`
	Memo      string `json:"memo,omitempty"`
}

// BlacklistResult blacklist operation result
type BlacklistResult struct {
	Address   string `json:"address"`
	IsBlacked bool   `json:"isBlacked"`
}
