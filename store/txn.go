package store

import (
	"bytes"
	"sort"
	"strings"

	"github.com/baarbz/DecentralizedExchange/lib"
)

var _ lib.TxnI = &Txn{} // enforce the TxnI interface

/*
	Txn buffers sets and deletes in memory on top of a parent store.
	Reads see the buffered writes merged over the parent as if Write() had already happened.
	Write() flushes the buffer; when the parent is a BatchWriterI the flush is a single atomic batch.
	Discard() drops the buffer and leaves the parent untouched.

	CONTRACT:
	- not thread safe; callers serialize access
	- a deleted key reads as nil
*/
type Txn struct {
	parent lib.RWStoreI
	writes map[string]pending
}

// pending is a buffered set or delete
type pending struct {
	value   []byte
	deleted bool
}

// NewTxn() creates an empty overlay on parent
func NewTxn(parent lib.RWStoreI) *Txn {
	return &Txn{parent: parent, writes: make(map[string]pending)}
}

// Get() reads the buffered value first and falls back to the parent
func (t *Txn) Get(key []byte) ([]byte, lib.ErrorI) {
	if p, found := t.writes[string(key)]; found {
		if p.deleted {
			return nil, nil
		}
		return p.value, nil
	}
	return t.parent.Get(key)
}

// Set() buffers a write
func (t *Txn) Set(key, value []byte) lib.ErrorI {
	if len(key) == 0 || len(key) > maxKeyBytes {
		return ErrInvalidKey()
	}
	t.writes[string(key)] = pending{value: bytes.Clone(value)}
	return nil
}

// Delete() buffers a removal
func (t *Txn) Delete(key []byte) lib.ErrorI {
	if len(key) == 0 || len(key) > maxKeyBytes {
		return ErrInvalidKey()
	}
	t.writes[string(key)] = pending{deleted: true}
	return nil
}

// Iterator() merges buffered writes under prefix with the parent in ascending order
func (t *Txn) Iterator(prefix []byte) (lib.IteratorI, lib.ErrorI) {
	parent, err := t.parent.Iterator(prefix)
	if err != nil {
		return nil, err
	}
	return newMergedIterator(parent, t.keysWithPrefix(prefix, false), t.writes, false), nil
}

// RevIterator() merges buffered writes under prefix with the parent in descending order
func (t *Txn) RevIterator(prefix []byte) (lib.IteratorI, lib.ErrorI) {
	parent, err := t.parent.RevIterator(prefix)
	if err != nil {
		return nil, err
	}
	return newMergedIterator(parent, t.keysWithPrefix(prefix, true), t.writes, true), nil
}

// Write() flushes the buffer to the parent and resets it
func (t *Txn) Write() lib.ErrorI {
	keys := t.keysWithPrefix(nil, false)
	if bw, ok := t.parent.(lib.BatchWriterI); ok {
		ops := make([]lib.StoreOp, 0, len(keys))
		for _, k := range keys {
			p := t.writes[k]
			ops = append(ops, lib.StoreOp{Key: []byte(k), Value: p.value, Delete: p.deleted})
		}
		if err := bw.WriteBatch(ops); err != nil {
			return err
		}
	} else {
		for _, k := range keys {
			p := t.writes[k]
			var err lib.ErrorI
			if p.deleted {
				err = t.parent.Delete([]byte(k))
			} else {
				err = t.parent.Set([]byte(k), p.value)
			}
			if err != nil {
				return err
			}
		}
	}
	t.writes = make(map[string]pending)
	return nil
}

// Discard() drops every buffered operation
func (t *Txn) Discard() { t.writes = make(map[string]pending) }

// keysWithPrefix() returns the buffered keys under prefix in iteration order
func (t *Txn) keysWithPrefix(prefix []byte, reverse bool) []string {
	p, keys := string(prefix), make([]string, 0, len(t.writes))
	for k := range t.writes {
		if strings.HasPrefix(k, p) {
			keys = append(keys, k)
		}
	}
	if reverse {
		sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	} else {
		sort.Strings(keys)
	}
	return keys
}

var _ lib.IteratorI = &mergedIterator{} // enforce the Iterator interface

// mergedIterator walks the parent iterator and a snapshot of buffered keys side by side;
// on equal keys the buffered entry shadows the parent and buffered deletes are skipped
type mergedIterator struct {
	parent  lib.IteratorI
	keys    []string
	writes  map[string]pending
	pos     int
	reverse bool

	key, value []byte
	valid      bool
}

func newMergedIterator(parent lib.IteratorI, keys []string, writes map[string]pending, reverse bool) *mergedIterator {
	// snapshot the buffered entries so later writes do not disturb the walk
	snapshot := make(map[string]pending, len(keys))
	for _, k := range keys {
		snapshot[k] = writes[k]
	}
	m := &mergedIterator{parent: parent, keys: keys, writes: snapshot, reverse: reverse}
	m.advance()
	return m
}

func (m *mergedIterator) Valid() bool   { return m.valid }
func (m *mergedIterator) Next()         { m.advance() }
func (m *mergedIterator) Key() []byte   { return m.key }
func (m *mergedIterator) Value() []byte { return m.value }
func (m *mergedIterator) Close()        { m.parent.Close() }

// advance() moves to the next visible entry
func (m *mergedIterator) advance() {
	for {
		hasBuffered, hasParent := m.pos < len(m.keys), m.parent.Valid()
		switch {
		case !hasBuffered && !hasParent:
			m.key, m.value, m.valid = nil, nil, false
			return
		case !hasBuffered:
			m.fromParent()
			return
		case !hasParent:
			if m.fromBuffer() {
				return
			}
			continue
		}
		switch m.compare([]byte(m.keys[m.pos]), m.parent.Key()) {
		case 1:
			m.fromParent()
			return
		case 0:
			m.parent.Next()
		}
		if m.fromBuffer() {
			return
		}
	}
}

// fromParent() takes the current parent entry
func (m *mergedIterator) fromParent() {
	m.key, m.value, m.valid = m.parent.Key(), m.parent.Value(), true
	m.parent.Next()
}

// fromBuffer() consumes the current buffered key and reports whether it is visible
func (m *mergedIterator) fromBuffer() bool {
	k := m.keys[m.pos]
	p := m.writes[k]
	m.pos++
	if p.deleted {
		return false
	}
	m.key, m.value, m.valid = []byte(k), p.value, true
	return true
}

// compare() orders two keys in the direction of iteration
func (m *mergedIterator) compare(a, b []byte) int {
	if m.reverse {
		return -bytes.Compare(a, b)
	}
	return bytes.Compare(a, b)
}
