package mongodb

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/anyswap/XRPL-Custody/log"
)

// --------------- blacklist --------------------------------

// AddToBlacklist add to blacklist
func AddToBlacklist(address, memo string) error {
	if client == nil {
		return ErrNotConnected
	}
	mb := &MgoBlackAccount{
		Key:       address,
		Memo:      memo,
		Timestamp: time.Now().Unix(),
	}
	_, err := collBlacklist.InsertOne(clientCtx, mb)
	if err == nil {
		log.Info("mongodb add to black list success", "address", address)
	} else {
		log.Info("mongodb add to black list failed", "address", address, "err", err)
	}
	return mongoError(err)
}

// RemoveFromBlacklist remove from blacklist
func RemoveFromBlacklist(address string) error {
	if client == nil {
		return ErrNotConnected
	}
	res, err := collBlacklist.DeleteOne(clientCtx, bson.M{"_id": address})
	if err == nil && res.DeletedCount == 0 {
		return ErrItemNotFound
	}
	if err == nil {
		log.Info("mongodb remove from black list success", "address", address)
	} else {
		log.Info("mongodb remove from black list failed", "address", address, "err", err)
	}
	return mongoError(err)
}

// QueryBlacklist query if is blacked
func QueryBlacklist(address string) (isBlacked bool, err error) {
	if client == nil {
		return false, ErrNotConnected
	}
	var result MgoBlackAccount
	err = collBlacklist.FindOne(clientCtx, bson.M{"_id": address}).Decode(&result)
	if err == nil {
		return true, nil
	}
	if err = mongoError(err); err == ErrItemNotFound {
		return false, nil
	}
	return false, err
}

// LoadBlacklist returns all blacklisted addresses
func LoadBlacklist() ([]string, error) {
	if client == nil {
		return nil, ErrNotConnected
	}
	opts := options.Find().SetLimit(maxCountOfResults)
	cur, err := collBlacklist.Find(clientCtx, bson.M{}, opts)
	if err != nil {
		return nil, mongoError(err)
	}
	var items []*MgoBlackAccount
	if err = cur.All(clientCtx, &items); err != nil {
		return nil, mongoError(err)
	}
	addresses := make([]string, 0, len(items))
	for _, item := range items {
		addresses = append(addresses, item.Key)
	}
	return addresses, nil
}
