// Package mongodb records enabled tokens, submissions, tracked offers and
// admin blacklist entries.
package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/anyswap/XRPL-Custody/log"
)

var (
	client    *mongo.Client
	clientCtx = context.Background()

	databaseName string

	connectTimeout = 10 * time.Second
	retryInterval  = 3 * time.Second
)

// HasClient has client connected
func HasClient() bool {
	return client != nil
}

// MongoServerInit connects to mongodb and prepares the collections.
// It retries until connected.
func MongoServerInit(appName string, hosts []string, dbName, userName, password string) {
	databaseName = dbName

	clientOpts := options.Client().
		SetAppName(appName).
		SetHosts(hosts).
		SetConnectTimeout(connectTimeout).
		SetServerSelectionTimeout(connectTimeout)
	if userName != "" || password != "" {
		clientOpts.SetAuth(options.Credential{
			AuthSource: dbName,
			Username:   userName,
			Password:   password,
		})
	}

	log.Info("[mongodb] connect database start.", "hosts", hosts, "dbName", dbName)
	for {
		err := connect(clientOpts)
		if err == nil {
			break
		}
		log.Warn("[mongodb] connect database failed", "err", err)
		time.Sleep(retryInterval)
	}
	log.Info("[mongodb] connect database success.", "dbName", dbName)

	initCollections()
}

func connect(opts *options.ClientOptions) (err error) {
	ctx, cancel := context.WithTimeout(clientCtx, connectTimeout)
	defer cancel()
	c, err := mongo.Connect(ctx, opts)
	if err != nil {
		return err
	}
	if err = c.Ping(ctx, readpref.Primary()); err != nil {
		_ = c.Disconnect(clientCtx)
		return err
	}
	client = c
	return nil
}

// Close disconnects from mongodb
func Close() {
	if client == nil {
		return
	}
	if err := client.Disconnect(clientCtx); err != nil {
		log.Warn("[mongodb] disconnect failed", "err", err)
	}
	client = nil
}
