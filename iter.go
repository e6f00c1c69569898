package kvdb

import (
	"bytes"
	"fmt"
	"iter"

	"go.etcd.io/bbolt"
)

// Iter returns a lazy forward iterator over all key/value pairs in col,
// in byte-lexicographic key order. The iterator owns the read snapshot
// it was created against, so writes committed after creation are never
// visible to it. Callers must Release the iterator when done; iterating
// to exhaustion (or draining Pairs) releases it automatically.
//
// The environment read lock is held only while the snapshot is opened,
// matching the locking policy for point lookups.
func (db *DB) Iter(col Column) *Iterator {
	db.stats.iters.Inc()
	db.env.mu.RLock()
	defer db.env.mu.RUnlock()

	btx, err := db.env.bdb.Begin(false)
	if err != nil {
		panic(fmt.Errorf("kvdb: failed to start reading: %w", err))
	}
	it := &Iterator{btx: btx, col: col}
	if buck := btx.Bucket(col.bucketName()); buck != nil {
		it.cur = buck.Cursor()
	}
	return it
}

// IterFromPrefix should start iteration at the first key >= prefix and
// bound it to keys sharing that prefix.
//
// Known deviation, preserved from the reference implementation: the
// prefix is ignored entirely and the full sequence of Iter is returned,
// starting from the first key. Callers needing prefix-bounded iteration
// must filter the sequence themselves.
func (db *DB) IterFromPrefix(col Column, prefix []byte) *Iterator {
	db.logger.Warn("kvdb: IterFromPrefix ignores the prefix", "substore", col.String())
	return db.Iter(col)
}

// Iterator is a forward-only sequence of (key, value) pairs over one
// substore. It is finite, not restartable, and co-owns its read
// snapshot, so it cannot dangle. Not safe for concurrent use.
type Iterator struct {
	btx     *bbolt.Tx
	cur     *bbolt.Cursor // nil when the substore does not exist
	col     Column
	key     []byte
	value   []byte
	err     error
	started bool
	done    bool
}

// Next advances to the next pair. It returns false at the end of the
// substore or on a decoding failure; check Err after the loop.
func (it *Iterator) Next() bool {
	if it.done || it.cur == nil {
		return false
	}
	var k, v []byte
	if !it.started {
		it.started = true
		k, v = it.cur.First()
	} else {
		k, v = it.cur.Next()
	}
	if k == nil {
		it.Release()
		return false
	}
	data, err := decodeBlob(v)
	if err != nil {
		it.err = engineErrf("iter", it.col, bytes.Clone(k), 0, err)
		it.Release()
		return false
	}
	// engine memory is only valid inside the snapshot; copy out
	it.key = bytes.Clone(k)
	it.value = data
	return true
}

// Key returns the current key. Valid after a true Next.
func (it *Iterator) Key() []byte {
	return it.key
}

// Value returns the current value. Valid after a true Next.
func (it *Iterator) Value() []byte {
	return it.value
}

// Err reports a decoding failure encountered during iteration, which is
// a corruption condition, not a normal end of sequence.
func (it *Iterator) Err() error {
	return it.err
}

// Release closes the underlying snapshot. Idempotent; Next returns
// false afterwards.
func (it *Iterator) Release() {
	if it.done {
		return
	}
	it.done = true
	// The only error Rollback returns is ErrTxClosed; not expected to
	// happen unless the Bolt API changes.
	err := it.btx.Rollback()
	if err != nil && err != bbolt.ErrTxClosed {
		panic(err)
	}
}

// Pairs exposes the iterator as a range-over sequence. The iterator is
// released when the sequence ends, even on early break.
func (it *Iterator) Pairs() iter.Seq2[[]byte, []byte] {
	return func(yield func(k, v []byte) bool) {
		defer it.Release()
		for it.Next() {
			if !yield(it.key, it.value) {
				return
			}
		}
	}
}
