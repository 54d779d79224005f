package lib

/* This file contains persistence module interfaces that are used throughout the app */

// StoreI defines the interface for interacting with the dex's key value storage
type StoreI interface {
	RWStoreI
	BatchWriterI
	NewTxn() TxnI                                          // wrap the store in a discardable overlay
	Close() ErrorI                                         // gracefully stop the database
	SeekIterator(prefix, start []byte) (IteratorI, ErrorI) // iterate the keys under prefix from start onwards
}

// TxnI is a discardable in-memory overlay over a parent store
type TxnI interface {
	RWStoreI
	Write() ErrorI // flush the operations to the parent
	Discard()      // drop the operations
}

// RWStoreI defines the Read/Write interface for basic db CRUD operations
type RWStoreI interface {
	RStoreI
	WStoreI
}

// WStoreI defines an interface for basic write operations
type WStoreI interface {
	Set(key, value []byte) ErrorI // set value bytes referenced by key bytes
	Delete(key []byte) ErrorI     // remove the key
}

// RStoreI defines an interface for basic read operations
type RStoreI interface {
	Get(key []byte) ([]byte, ErrorI)               // access value bytes using key bytes
	Iterator(prefix []byte) (IteratorI, ErrorI)    // iterate through the data one KV pair at a time in lexicographical order
	RevIterator(prefix []byte) (IteratorI, ErrorI) // iterate through the data one KV pair at a time in reverse lexicographical order
}

// BatchWriterI applies a set of operations in a single atomic database transaction
type BatchWriterI interface {
	WriteBatch(ops []StoreOp) ErrorI
}

// StoreOp is a single set or delete destined for an atomic batch
type StoreOp struct {
	Key    []byte
	Value  []byte
	Delete bool
}

// IteratorI defines an interface for iterating over key-value pairs in a data store
type IteratorI interface {
	Valid() bool           // if the item the iterator is pointing at is valid
	Next()                 // move to next item
	Key() (key []byte)     // retrieve key
	Value() (value []byte) // retrieve value
	Close()                // close the iterator when done, ensuring proper resource management
}
