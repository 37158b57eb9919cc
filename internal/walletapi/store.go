package walletapi

import (
	"github.com/anyswap/XRPL-Custody/mongodb"
)

// Store persists the records kept alongside guarded operations
type Store interface {
	AddSubmission(ms *mongodb.MgoSubmission) error
	FindSubmissions(account string, offset, limit int) ([]*mongodb.MgoSubmission, error)

	AddEnabledToken(mt *mongodb.MgoEnabledToken) error
	FindEnabledTokens(holder string) ([]*mongodb.MgoEnabledToken, error)

	AddTrackedOffer(mo *mongodb.MgoTrackedOffer) error
	UpdateTrackedOffer(owner string, sequence uint32, status, txHash, result string) error
	FindPendingOffers(limit int) ([]*mongodb.MgoTrackedOffer, error)

	AddToBlacklist(address, memo string) error
	RemoveFromBlacklist(address string) error
	QueryBlacklist(address string) (bool, error)
	LoadBlacklist() ([]string, error)
}

// MongoStore is the mongodb backed Store
type MongoStore struct{}

// AddSubmission impl
func (MongoStore) AddSubmission(ms *mongodb.MgoSubmission) error {
	return mongodb.AddSubmission(ms)
}

// FindSubmissions impl
func (MongoStore) FindSubmissions(account string, offset, limit int) ([]*mongodb.MgoSubmission, error) {
	return mongodb.FindSubmissions(account, offset, limit)
}

// AddEnabledToken impl
func (MongoStore) AddEnabledToken(mt *mongodb.MgoEnabledToken) error {
	return mongodb.AddEnabledToken(mt)
}

// FindEnabledTokens impl
func (MongoStore) FindEnabledTokens(holder string) ([]*mongodb.MgoEnabledToken, error) {
	return mongodb.FindEnabledTokens(holder)
}

// AddTrackedOffer impl
func (MongoStore) AddTrackedOffer(mo *mongodb.MgoTrackedOffer) error {
	return mongodb.AddTrackedOffer(mo)
}

// UpdateTrackedOffer impl
func (MongoStore) UpdateTrackedOffer(owner string, sequence uint32, status, txHash, result string) error {
	return mongodb.UpdateTrackedOffer(owner, sequence, status, txHash, result)
}

// FindPendingOffers impl
func (MongoStore) FindPendingOffers(limit int) ([]*mongodb.MgoTrackedOffer, error) {
	return mongodb.FindPendingOffers(limit)
}

// AddToBlacklist impl
func (MongoStore) AddToBlacklist(address, memo string) error {
	return mongodb.AddToBlacklist(address, memo)
}

// RemoveFromBlacklist impl
func (MongoStore) RemoveFromBlacklist(address string) error {
	return mongodb.RemoveFromBlacklist(address)
}

// QueryBlacklist impl
func (MongoStore) QueryBlacklist(address string) (bool, error) {
	return mongodb.QueryBlacklist(address)
}

// LoadBlacklist impl
func (MongoStore) LoadBlacklist() ([]string, error) {
	return mongodb.LoadBlacklist()
}
