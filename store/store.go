package store

import (
	"bytes"
	"path/filepath"
	"sync/atomic"

	"github.com/baarbz/DecentralizedExchange/lib"
	"github.com/dgraph-io/badger/v4"
)

const maxKeyBytes = 255 // maximum size of a key

var _ lib.StoreI = &Store{} // enforce the Store interface

/*
The Store is a thin abstraction over a single BadgerDB instance.

Every read goes straight to the latest committed badger state; single writes are their own badger
transaction and WriteBatch() applies a group of sets and deletes in one badger transaction so a
flushed Txn either lands completely or not at all.

Keys are lexicographically ordered prefix keys so groups of records (pools, positions, balances, events)
can be iterated efficiently.
*/
type Store struct {
	db     *badger.DB
	log    lib.LoggerI
	closed atomic.Bool
}

// New() creates a new instance of a StoreI either in memory or an actual disk DB
func New(config lib.Config, l lib.LoggerI) (lib.StoreI, lib.ErrorI) {
	if config.StoreConfig.InMemory {
		return NewStoreInMemory(l)
	}
	return NewStore(filepath.Join(config.DataDirPath, config.DBName), l)
}

// NewStore() opens (or creates) a disk DB at path
func NewStore(path string, log lib.LoggerI) (*Store, lib.ErrorI) {
	db, err := badger.Open(badger.DefaultOptions(path).WithLogger(badgerLogger{log}).WithLoggingLevel(badger.WARNING))
	if err != nil {
		return nil, ErrOpenDB(err)
	}
	return NewStoreWithDB(db, log), nil
}

// NewStoreInMemory() creates a new instance of a mem DB
func NewStoreInMemory(log lib.LoggerI) (*Store, lib.ErrorI) {
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(badgerLogger{log}).WithLoggingLevel(badger.ERROR))
	if err != nil {
		return nil, ErrOpenDB(err)
	}
	return NewStoreWithDB(db, log), nil
}

// NewStoreWithDB() returns a Store object given a DB and a logger
func NewStoreWithDB(db *badger.DB, log lib.LoggerI) *Store {
	return &Store{db: db, log: log}
}

// Get() returns the value bytes for a key; a missing key is a nil value, not an error
func (s *Store) Get(key []byte) (value []byte, err lib.ErrorI) {
	e := s.db.View(func(txn *badger.Txn) error {
		item, er := txn.Get(key)
		if er != nil {
			if er == badger.ErrKeyNotFound {
				return nil
			}
			return er
		}
		value, er = item.ValueCopy(nil)
		return er
	})
	if e != nil {
		return nil, ErrStoreGet(e)
	}
	return
}

// Set() writes a single key value pair
func (s *Store) Set(key, value []byte) lib.ErrorI {
	return s.WriteBatch([]lib.StoreOp{{Key: key, Value: value}})
}

// Delete() removes a single key
func (s *Store) Delete(key []byte) lib.ErrorI {
	return s.WriteBatch([]lib.StoreOp{{Key: key, Delete: true}})
}

// WriteBatch() applies all operations in a single badger transaction
func (s *Store) WriteBatch(ops []lib.StoreOp) lib.ErrorI {
	for _, op := range ops {
		if len(op.Key) == 0 || len(op.Key) > maxKeyBytes {
			return ErrInvalidKey()
		}
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		for _, op := range ops {
			if op.Delete {
				if e := txn.Delete(op.Key); e != nil {
					return e
				}
				continue
			}
			if e := txn.Set(op.Key, op.Value); e != nil {
				return e
			}
		}
		return nil
	})
	if err != nil {
		return ErrCommitDB(err)
	}
	return nil
}

// NewTxn() wraps the store in a discardable in-memory overlay
func (s *Store) NewTxn() lib.TxnI { return NewTxn(s) }

// Iterator() iterates the keys under prefix in lexicographical order
func (s *Store) Iterator(prefix []byte) (lib.IteratorI, lib.ErrorI) {
	return s.newIterator(prefix, nil, false), nil
}

// RevIterator() iterates the keys under prefix in reverse lexicographical order
func (s *Store) RevIterator(prefix []byte) (lib.IteratorI, lib.ErrorI) {
	return s.newIterator(prefix, seekLast(prefix), true), nil
}

// SeekIterator() iterates the keys under prefix in lexicographical order, starting at the first key >= start
func (s *Store) SeekIterator(prefix, start []byte) (lib.IteratorI, lib.ErrorI) {
	if bytes.Compare(start, prefix) < 0 {
		start = prefix
	}
	return s.newIterator(prefix, start, false), nil
}

// Close() gracefully stops the database; it is safe to call more than once
func (s *Store) Close() lib.ErrorI {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return ErrCloseDB(err)
	}
	return nil
}

// newIterator() opens a badger iterator under prefix, positioned at seek or rewound when seek is nil
func (s *Store) newIterator(prefix, seek []byte, reverse bool) *Iterator {
	txn := s.db.NewTransaction(false)
	it := txn.NewIterator(badger.IteratorOptions{Prefix: prefix, Reverse: reverse, PrefetchValues: false})
	if seek != nil {
		it.Seek(seek)
	} else {
		it.Rewind()
	}
	return &Iterator{txn: txn, parent: it, log: s.log}
}

// seekLast() returns a key that sorts after every key under prefix
func seekLast(prefix []byte) []byte {
	return append(bytes.Clone(prefix), bytes.Repeat([]byte{0xFF}, maxKeyBytes+1)...)
}

// IteratorI interface enforcement
var _ lib.IteratorI = &Iterator{}

// Iterator implements a wrapper around BadgerDB's iterator but satisfies the IteratorI interface
type Iterator struct {
	txn    *badger.Txn
	parent *badger.Iterator
	log    lib.LoggerI
}

func (i *Iterator) Valid() bool { return i.parent.Valid() }
func (i *Iterator) Next()       { i.parent.Next() }
func (i *Iterator) Key() []byte { return i.parent.Item().KeyCopy(nil) }

// Value() copies the value out of the badger item; read failures are logged and yield nil
func (i *Iterator) Value() []byte {
	v, err := i.parent.Item().ValueCopy(nil)
	if err != nil {
		i.log.Error(ErrStoreGet(err).Error())
		return nil
	}
	return v
}

// Close() releases the iterator and its read transaction
func (i *Iterator) Close() {
	i.parent.Close()
	i.txn.Discard()
}

// badgerLogger adapts the project logger to badger's logging interface
type badgerLogger struct{ l lib.LoggerI }

func (b badgerLogger) Errorf(f string, a ...interface{})   { b.l.Errorf(f, a...) }
func (b badgerLogger) Warningf(f string, a ...interface{}) { b.l.Warnf(f, a...) }
func (b badgerLogger) Infof(f string, a ...interface{})    { b.l.Infof(f, a...) }
func (b badgerLogger) Debugf(f string, a ...interface{})   { b.l.Debugf(f, a...) }
