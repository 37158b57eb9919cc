package mongodb

import (
	"time"

	"github.com/pborman/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	maxCountOfResults = 5000
)

// terminal offer states, kept in sync with the reconciler
var terminalOfferStatus = []string{"filled", "cancelled", "failed"}

// --------------- enabled tokens --------------------------------

// AddEnabledToken inserts or refreshes an enabled token record
func AddEnabledToken(mt *MgoEnabledToken) error {
	if client == nil {
		return ErrNotConnected
	}
	if mt.Key == "" {
		mt.Key = EnabledTokenKey(mt.Holder, mt.Currency, mt.Issuer)
	}
	if mt.EnabledAt == 0 {
		mt.EnabledAt = time.Now().Unix()
	}
	opts := options.Replace().SetUpsert(true)
	_, err := collEnabledTokens.ReplaceOne(clientCtx, bson.M{"_id": mt.Key}, mt, opts)
	return mongoError(err)
}

// FindEnabledTokens lists the enabled tokens of holder
func FindEnabledTokens(holder string) ([]*MgoEnabledToken, error) {
	if client == nil {
		return nil, ErrNotConnected
	}
	opts := options.Find().SetSort(bson.D{{Key: "enabledat", Value: 1}}).SetLimit(maxCountOfResults)
	cur, err := collEnabledTokens.Find(clientCtx, bson.M{"holder": holder}, opts)
	if err != nil {
		return nil, mongoError(err)
	}
	result := make([]*MgoEnabledToken, 0, 10)
	err = cur.All(clientCtx, &result)
	return result, mongoError(err)
}

// --------------- submissions --------------------------------

// AddSubmission inserts a submission record, assigning an id when empty
func AddSubmission(ms *MgoSubmission) error {
	if client == nil {
		return ErrNotConnected
	}
	if ms.Key == "" {
		ms.Key = uuid.New()
	}
	if ms.Timestamp == 0 {
		ms.Timestamp = time.Now().Unix()
	}
	_, err := collSubmissions.InsertOne(clientCtx, ms)
	return mongoError(err)
}

// FindSubmission finds a submission by id
func FindSubmission(key string) (*MgoSubmission, error) {
	if client == nil {
		return nil, ErrNotConnected
	}
	var result MgoSubmission
	err := collSubmissions.FindOne(clientCtx, bson.M{"_id": key}).Decode(&result)
	if err != nil {
		return nil, mongoError(err)
	}
	return &result, nil
}

// FindSubmissions lists the newest submissions of account
func FindSubmissions(account string, offset, limit int) ([]*MgoSubmission, error) {
	if client == nil {
		return nil, ErrNotConnected
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	cur, err := collSubmissions.Find(clientCtx, bson.M{"account": account}, opts)
	if err != nil {
		return nil, mongoError(err)
	}
	result := make([]*MgoSubmission, 0, limit)
	err = cur.All(clientCtx, &result)
	return result, mongoError(err)
}

// --------------- tracked offers --------------------------------

// AddTrackedOffer starts tracking an offer
func AddTrackedOffer(mo *MgoTrackedOffer) error {
	if client == nil {
		return ErrNotConnected
	}
	now := time.Now().Unix()
	if mo.Key == "" {
		mo.Key = TrackedOfferKey(mo.Owner, mo.Sequence)
	}
	mo.CreatedAt, mo.UpdatedAt = now, now
	_, err := collTrackedOffers.InsertOne(clientCtx, mo)
	return mongoError(err)
}

// UpdateTrackedOffer records a reconciled status
func UpdateTrackedOffer(owner string, sequence uint32, status, txHash, result string) error {
	if client == nil {
		return ErrNotConnected
	}
	updates := bson.M{"status": status, "updatedat": time.Now().Unix()}
	if txHash != "" {
		updates["txhash"] = txHash
	}
	if result != "" {
		updates["result"] = result
	}
	update := bson.M{"$set": updates, "$inc": bson.M{"checks": 1}}
	_, err := collTrackedOffers.UpdateByID(clientCtx, TrackedOfferKey(owner, sequence), update)
	return mongoError(err)
}

// FindTrackedOffer finds a tracked offer
func FindTrackedOffer(owner string, sequence uint32) (*MgoTrackedOffer, error) {
	if client == nil {
		return nil, ErrNotConnected
	}
	var result MgoTrackedOffer
	err := collTrackedOffers.FindOne(clientCtx, bson.M{"_id": TrackedOfferKey(owner, sequence)}).Decode(&result)
	if err != nil {
		return nil, mongoError(err)
	}
	return &result, nil
}

// FindPendingOffers lists tracked offers not yet in a terminal state,
// least recently checked first
func FindPendingOffers(limit int) ([]*MgoTrackedOffer, error) {
	if client == nil {
		return nil, ErrNotConnected
	}
	if limit <= 0 || limit > maxCountOfResults {
		limit = maxCountOfResults
	}
	query := bson.M{"status": bson.M{"$nin": terminalOfferStatus}}
	opts := options.Find().SetSort(bson.D{{Key: "updatedat", Value: 1}}).SetLimit(int64(limit))
	cur, err := collTrackedOffers.Find(clientCtx, query, opts)
	if err != nil {
		return nil, mongoError(err)
	}
	result := make([]*MgoTrackedOffer, 0, 10)
	err = cur.All(clientCtx, &result)
	return result, mongoError(err)
}
