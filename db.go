package kvdb

import (
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"go.etcd.io/bbolt"
)

// DB is the public facade over one shared environment. Multiple DBs
// opened on the same path (through the same registry) observe a single
// engine handle, so a write through one is visible to reads through the
// others.
type DB struct {
	env      *Env
	registry *Registry
	logger   *slog.Logger
	closed   atomic.Bool

	stats *dbMetrics
}

// OpenDefault opens the database at path with baseline configuration,
// using the process-wide DefaultRegistry.
func OpenDefault(path string) (*DB, error) {
	return Open(DefaultConfig(), path)
}

// Open opens the database at path using the process-wide DefaultRegistry.
func Open(config Config, path string) (*DB, error) {
	return DefaultRegistry.Open(config, path)
}

// Open registers or attaches to the shared environment handle for path.
// The config of the first opener wins; later openers of the same path
// share the already-open handle.
func (r *Registry) Open(config Config, path string) (*DB, error) {
	env, err := r.acquire(config, path)
	if err != nil {
		return nil, err
	}
	return &DB{
		env:      env,
		registry: r,
		logger:   config.logger(),
		stats:    newDBMetrics(),
	}, nil
}

// Get returns the value stored under key in col, or nil if absent.
// Absence is not an error. A stored record that cannot be decoded is a
// corruption condition and is returned as an *EngineError.
func (db *DB) Get(col Column, key []byte) ([]byte, error) {
	db.stats.reads.Inc()
	v, err := db.env.get(col, key)
	if err != nil {
		return nil, engineErrf("get", col, key, 0, err)
	}
	if v != nil {
		db.stats.readHits.Inc()
	}
	return v, nil
}

// GetByPrefix returns the first value (in key order) whose key begins
// with prefix, scanning committed data only, or nil if none match.
//
// Not implemented: always returns nil. Kept as a stub to preserve the
// reference behavior; callers needing prefix lookup should use Iter and
// filter.
func (db *DB) GetByPrefix(col Column, prefix []byte) []byte {
	db.logger.Error("kvdb: GetByPrefix not implemented", "substore", col.String())
	return nil
}

// Write applies the transaction's operations in order, committing each
// one separately. The batch is NOT atomic: on failure, earlier
// operations stay durably committed and later ones are never attempted;
// the returned *EngineError carries the count of committed operations.
func (db *DB) Write(tr *Transaction) error {
	committed := 0
	for _, op := range tr.ops {
		if err := db.env.applyOp(op); err != nil {
			return engineErrf(op.op.String(), op.col, op.key, committed, err)
		}
		committed++
		db.stats.commits.Inc()
		switch op.op {
		case OpPut:
			db.stats.puts.Inc()
		case OpDelete:
			db.stats.deletes.Inc()
		}
	}
	return nil
}

// WriteBuffered applies the transaction like Write but treats any
// failure as fatal and panics. Use it only for transactions that cannot
// fail under normal operation; everything else should call Write and
// handle the error.
func (db *DB) WriteBuffered(tr *Transaction) {
	err := db.Write(tr)
	if err != nil {
		panic(fmt.Errorf("kvdb: write: %w", err))
	}
}

// Flush is a guaranteed-success no-op: every operation is committed by
// the engine before Write returns, so there is nothing buffered to
// flush.
func (db *DB) Flush() error {
	return nil
}

// Restore should atomically replace the live environment's contents
// with the dataset at newPath.
//
// Not implemented: performs no action and reports success, preserving
// the reference behavior. Do not rely on it for disaster recovery.
func (db *DB) Restore(newPath string) error {
	db.logger.Error("kvdb: Restore not implemented", "path", newPath)
	return nil
}

// Close flushes (discarding the result) and releases this facade's
// reference to the shared environment. The engine handle itself closes
// when the last facade referencing its path is closed. Close is
// idempotent.
func (db *DB) Close() {
	if !db.closed.CompareAndSwap(false, true) {
		return
	}
	_ = db.Flush()
	db.registry.release(db.env)
}

// Substores returns the names of all substores that exist on disk, in
// byte order.
func (db *DB) Substores() ([]string, error) {
	db.env.mu.RLock()
	defer db.env.mu.RUnlock()

	var names []string
	err := db.env.bdb.View(func(btx *bbolt.Tx) error {
		return btx.ForEach(func(name []byte, _ *bbolt.Bucket) error {
			names = append(names, string(name))
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("kvdb: %w", err)
	}
	return names, nil
}

// WritePrometheus writes this facade's operation counters in Prometheus
// text format.
func (db *DB) WritePrometheus(w io.Writer) {
	db.stats.set.WritePrometheus(w)
}
