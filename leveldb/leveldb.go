// Package leveldb is a wrapper of goleveldb.
package leveldb

import (
	"errors"

	goleveldb "github.com/syndtr/goleveldb/leveldb"
	dberrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/anyswap/XRPL-Custody/log"
)

const (
	// minCache is the minimum amount of memory in megabytes to allocate to leveldb
	// read and write caching, split half and half.
	minCache = 16

	// minHandles is the minimum number of files handles to allocate to the open
	// database files.
	minHandles = 16
)

// IsNotFoundErr is err 'ErrNotFound'
func IsNotFoundErr(err error) bool {
	return errors.Is(err, dberrors.ErrNotFound)
}

// Database is a persistent key-value store
type Database struct {
	path  string
	lvldb *goleveldb.DB
}

// New returns a wrapped LevelDB object.
func New(path string, cache int, handles int) (*Database, error) {
	if cache < minCache {
		cache = minCache
	}
	if handles < minHandles {
		handles = minHandles
	}
	options := &opt.Options{
		Filter:                 filter.NewBloomFilter(10),
		DisableSeeksCompaction: true,
		OpenFilesCacheCapacity: handles,
		BlockCacheCapacity:     cache / 2 * opt.MiB,
		WriteBuffer:            cache / 4 * opt.MiB,
	}
	log.Info("open leveldb", "database", path, "cache", cache, "handles", handles)

	// Open the db and recover any potential corruptions
	db, err := goleveldb.OpenFile(path, options)
	if dberrors.IsCorrupted(err) {
		log.Warn("leveldb corrupted, try recover", "database", path, "err", err)
		db, err = goleveldb.RecoverFile(path, nil)
	}
	if err != nil {
		return nil, err
	}
	return &Database{path: path, lvldb: db}, nil
}

// Close flushes any pending data to disk and closes the store
func (db *Database) Close() error {
	return db.lvldb.Close()
}

// Has retrieves if a key is present in the key-value store.
func (db *Database) Has(key []byte) (bool, error) {
	return db.lvldb.Has(key, nil)
}

// Get retrieves the given key if it's present in the key-value store.
func (db *Database) Get(key []byte) ([]byte, error) {
	return db.lvldb.Get(key, nil)
}

// Put inserts the given value into the key-value store.
func (db *Database) Put(key []byte, value []byte) error {
	return db.lvldb.Put(key, value, nil)
}

// Delete removes the key from the key-value store.
func (db *Database) Delete(key []byte) error {
	return db.lvldb.Delete(key, nil)
}

// Keys lists keys with prefix in binary order, prefix stripped
func (db *Database) Keys(prefix []byte) ([]string, error) {
	iter := db.lvldb.NewIterator(util.BytesPrefix(prefix), nil)
	defer iter.Release()
	var keys []string
	for iter.Next() {
		keys = append(keys, string(iter.Key()[len(prefix):]))
	}
	return keys, iter.Error()
}

// Path returns the path to the database directory.
func (db *Database) Path() string {
	return db.path
}
