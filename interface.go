package kvdb

// KeyValueDB is the operation surface of a column-addressed key-value
// database. *DB is the canonical implementation; the interface exists so
// that callers can swap in instrumented or in-memory stand-ins.
type KeyValueDB interface {
	// Get returns the value under key in col, or nil if absent.
	Get(col Column, key []byte) ([]byte, error)

	// GetByPrefix returns the first value whose key starts with prefix,
	// or nil. See DB.GetByPrefix for the implementation status.
	GetByPrefix(col Column, prefix []byte) []byte

	// Write applies the operations in order, one commit per operation.
	// Partial application on failure is allowed and expected.
	Write(tr *Transaction) error

	// WriteBuffered applies the transaction and panics on failure.
	WriteBuffered(tr *Transaction)

	// Flush persists buffered writes. A no-op here: every operation is
	// committed before Write returns.
	Flush() error

	// Iter iterates col in byte-lexicographic key order.
	Iter(col Column) *Iterator

	// IterFromPrefix should bound iteration to keys sharing prefix.
	// See DB.IterFromPrefix for the implementation status.
	IterFromPrefix(col Column, prefix []byte) *Iterator

	// Restore should replace the live contents with the dataset at
	// newPath. See DB.Restore for the implementation status.
	Restore(newPath string) error

	// Close releases this facade's reference to the environment.
	Close()
}

var _ KeyValueDB = (*DB)(nil)
