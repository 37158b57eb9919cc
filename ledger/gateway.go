package ledger

import "context"

// Querier reads validated ledger state
type Querier interface {
	AccountInfo(ctx context.Context, address string) (*AccountInfo, error)
	// AccountLines lists the trust lines of address, restricted to peer if not empty
	AccountLines(ctx context.Context, address, peer string) ([]Trustline, error)
	AccountOffers(ctx context.Context, address string) ([]Offer, error)
	AccountTransactions(ctx context.Context, address string, req *HistoryRequest) (*HistoryPage, error)
	// BookOffers lists offers giving `gets` in exchange for `pays`
	BookOffers(ctx context.Context, gets, pays Asset, limit int) ([]Offer, error)
}

// Signer turns a payload into a signed blob. The seed never leaves the call.
type Signer interface {
	Sign(ctx context.Context, tx Transaction, seed string) (*SignedTx, error)
}

// Submitter broadcasts a signed blob and waits for a validated outcome.
// An engine result other than tesSUCCESS is returned as a LedgerRejection
// together with the result; an unobserved outcome is a SubmissionUnknown.
type Submitter interface {
	SubmitAndAwait(ctx context.Context, signed *SignedTx) (*SubmitResult, error)
}

// Gateway is the only channel to the ledger network
type Gateway interface {
	Querier
	Signer
	Submitter
}
