package kvdb

import (
	"fmt"
	"sync"

	"go.etcd.io/bbolt"
)

// Env is one open engine instance bound to a filesystem path. All
// facades opened on the same path share one Env through a Registry.
//
// The mutex implements the environment locking policy: any number of
// concurrent readers, or one exclusive writer. Point lookups and
// iterator creation hold the read lock for the duration of the call
// only; each write operation holds the write lock for its own
// single-operation engine transaction. Acquisition blocks with no
// timeout and no cancellation.
type Env struct {
	path string
	bdb  *bbolt.DB

	mu sync.RWMutex

	refs int // guarded by the owning registry
}

func (e *Env) Path() string {
	return e.path
}

// applyOp resolves the target substore (creating it if absent) and
// applies one put or delete inside its own engine transaction, so the
// operation is committed by the time applyOp returns.
func (e *Env) applyOp(op WriteOp) error {
	var data []byte
	if op.op == OpPut {
		var err error
		data, err = encodeBlob(op.value)
		if err != nil {
			return fmt.Errorf("encode value: %w", err)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	return e.bdb.Update(func(btx *bbolt.Tx) error {
		buck, err := btx.CreateBucketIfNotExists(op.col.bucketName())
		if err != nil {
			return fmt.Errorf("resolve substore: %w", err)
		}
		switch op.op {
		case OpPut:
			return buck.Put(op.key, data)
		case OpDelete:
			return buck.Delete(op.key)
		default:
			return fmt.Errorf("%v", op.op)
		}
	})
}

// get looks key up in col under a fresh read snapshot. Absent substores
// and absent keys both report absence; they are indistinguishable
// through this interface and neither creates anything on disk.
func (e *Env) get(col Column, key []byte) ([]byte, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var out []byte
	err := e.bdb.View(func(btx *bbolt.Tx) error {
		buck := btx.Bucket(col.bucketName())
		if buck == nil {
			return nil
		}
		raw := buck.Get(key)
		if raw == nil {
			return nil
		}
		// decodeBlob allocates, so out stays valid past the snapshot
		v, err := decodeBlob(raw)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
