package mongodb

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/anyswap/XRPL-Custody/log"
)

const (
	tbEnabledTokens string = "EnabledTokens"
	tbSubmissions   string = "Submissions"
	tbTrackedOffers string = "TrackedOffers"
	tbBlacklist     string = "Blacklist"
)

var (
	database *mongo.Database

	collEnabledTokens *mongo.Collection
	collSubmissions   *mongo.Collection
	collTrackedOffers *mongo.Collection
	collBlacklist     *mongo.Collection
)

func initCollections() {
	database = client.Database(databaseName)

	initCollection(tbEnabledTokens, &collEnabledTokens, "holder")
	initCollection(tbSubmissions, &collSubmissions, "account", "timestamp")
	initCollection(tbTrackedOffers, &collTrackedOffers, "status", "updatedat")
	initCollection(tbBlacklist, &collBlacklist)
}

func initCollection(table string, collection **mongo.Collection, indexKey ...string) {
	*collection = database.Collection(table)
	if len(indexKey) != 0 {
		createOneIndex(*collection, indexKey...)
	}
}

func createOneIndex(coll *mongo.Collection, indexes ...string) {
	keys := make(bson.D, len(indexes))
	for i, index := range indexes {
		keys[i] = bson.E{Key: index, Value: 1}
	}
	model := mongo.IndexModel{Keys: keys}
	_, err := coll.Indexes().CreateOne(clientCtx, model)
	if err != nil {
		log.Error("[mongodb] create indexes failed", "collection", coll.Name(), "indexes", indexes, "err", err)
	}
}
