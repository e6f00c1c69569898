package kvdb

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
	"go.etcd.io/bbolt"
)

// Registry deduplicates environment handles by filesystem path, so that
// opening the same database twice within a process never creates two
// independent engine instances. Paths are cleaned and made absolute
// before lookup.
//
// Handles are reference-counted: every successful Open takes a
// reference, every DB.Close releases one, and the engine handle is
// closed and evicted when the count reaches zero. Reopening after full
// release creates a fresh handle.
type Registry struct {
	envs *xsync.MapOf[string, *Env]
}

func NewRegistry() *Registry {
	return &Registry{envs: xsync.NewMapOf[string, *Env]()}
}

// DefaultRegistry backs the package-level Open and OpenDefault.
var DefaultRegistry = NewRegistry()

func (r *Registry) acquire(config Config, path string) (*Env, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}

	var openErr error
	env, _ := r.envs.Compute(abs, func(old *Env, loaded bool) (*Env, bool) {
		if loaded {
			old.refs++
			return old, false
		}
		bdb, err := bbolt.Open(abs, 0666, boltOptions(config))
		if err != nil {
			openErr = err
			return nil, true
		}
		return &Env{path: abs, bdb: bdb, refs: 1}, false
	})
	if openErr != nil {
		return nil, &OpenError{Path: abs, Err: openErr}
	}
	return env, nil
}

func (r *Registry) release(env *Env) {
	var evicted *bbolt.DB
	r.envs.Compute(env.path, func(old *Env, loaded bool) (*Env, bool) {
		if !loaded {
			return nil, true
		}
		old.refs--
		if old.refs <= 0 {
			evicted = old.bdb
			return nil, true
		}
		return old, false
	})
	if evicted != nil {
		err := evicted.Close()
		if err != nil {
			panic(fmt.Errorf("kvdb: closing: %w", err))
		}
	}
}

// Len returns the number of live environments.
func (r *Registry) Len() int {
	return r.envs.Size()
}

func boltOptions(config Config) *bbolt.Options {
	bopt := *bbolt.DefaultOptions
	bopt.Timeout = 10 * time.Second
	if config.NoSync {
		bopt.NoSync = true
		bopt.NoFreelistSync = true
		bopt.InitialMmapSize = 1024 * 1024 * 5
	} else {
		bopt.InitialMmapSize = 1024 * 1024 * 1024
		bopt.FreelistType = bbolt.FreelistMapType
	}
	return &bopt
}
