// Package book persists finished root searches so that repeated positions
// (openings, replayed games) are answered without searching again.
package book

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/dgraph-io/badger/v4"

	"checkers/internal/engine"
)

const keyPrefix = "analysis/"

// Book wraps BadgerDB.
type Book struct {
	db *badger.DB
}

// Open opens (or creates) a book in dir.
func Open(dir string) (*Book, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	return open(opts)
}

// OpenInMemory returns a book that lives only as long as the process.
func OpenInMemory() (*Book, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return open(opts)
}

func open(opts badger.Options) (*Book, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open analysis book: %w", err)
	}
	return &Book{db: db}, nil
}

// Close closes the database
func (b *Book) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}

func entryKey(hash uint64, depth int, evaluator string) []byte {
	return []byte(fmt.Sprintf("%s%016x/%d/%s", keyPrefix, hash, depth, evaluator))
}

// Lookup implements engine.ResultCache.
func (b *Book) Lookup(hash uint64, depth int, evaluator string) (engine.Entry, bool) {
	var ent engine.Entry
	found := false
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(entryKey(hash, depth, evaluator))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, &ent); err != nil {
				return err
			}
			found = true
			return nil
		})
	})
	if err != nil {
		log.Printf("book: lookup %016x depth %d: %v", hash, depth, err)
		return engine.Entry{}, false
	}
	return ent, found
}

// Store implements engine.ResultCache.
func (b *Book) Store(hash uint64, depth int, evaluator string, ent engine.Entry) error {
	data, err := json.Marshal(ent)
	if err != nil {
		return err
	}
	err = b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(entryKey(hash, depth, evaluator), data)
	})
	if err != nil {
		log.Printf("book: store %016x depth %d: %v", hash, depth, err)
		return fmt.Errorf("store analysis: %w", err)
	}
	return nil
}

// Len counts stored entries.
func (b *Book) Len() (int, error) {
	n := 0
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}

var _ engine.ResultCache = (*Book)(nil)
