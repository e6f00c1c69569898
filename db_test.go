package kvdb

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"
)

func setup(t testing.TB) *DB {
	t.Helper()
	return openAt(t, NewRegistry(), filepath.Join(t.TempDir(), "kv.db"))
}

func openAt(t testing.TB, r *Registry, path string) *DB {
	t.Helper()
	config := DefaultConfig()
	config.NoSync = true
	db := must(r.Open(config, path))
	t.Cleanup(db.Close)
	return db
}

func put(t testing.TB, db *DB, col Column, key, value string) {
	t.Helper()
	tr := NewTransaction()
	tr.Put(col, []byte(key), []byte(value))
	if err := db.Write(tr); err != nil {
		t.Fatalf("Write(%s/%s) failed: %v", col, key, err)
	}
}

func get(t testing.TB, db *DB, col Column, key string) []byte {
	t.Helper()
	v, err := db.Get(col, []byte(key))
	if err != nil {
		t.Fatalf("Get(%s/%s) failed: %v", col, key, err)
	}
	return v
}

func deepEqual[T any](t testing.TB, a, e T) {
	if !reflect.DeepEqual(a, e) {
		t.Helper()
		t.Errorf("** got %v, wanted %v", a, e)
	}
}

func TestRoundTrip(t *testing.T) {
	db := setup(t)

	value := []byte{0x00, 0x01, 0xFE, 0xFF, 'h', 'i'}
	tr := NewTransaction()
	tr.Put(DefaultColumn, []byte("k"), value)
	if err := db.Write(tr); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got := get(t, db, DefaultColumn, "k")
	if !bytes.Equal(got, value) {
		t.Fatalf("Get = %x, wanted %x", got, value)
	}
}

func TestRoundTripEmptyValue(t *testing.T) {
	db := setup(t)
	put(t, db, DefaultColumn, "k", "")

	got := get(t, db, DefaultColumn, "k")
	if got == nil || len(got) != 0 {
		t.Fatalf("Get = %v, wanted present empty value", got)
	}
}

func TestGetAbsent(t *testing.T) {
	db := setup(t)
	if got := get(t, db, DefaultColumn, "nope"); got != nil {
		t.Fatalf("Get(absent) = %x, wanted nil", got)
	}
	// absent substore reports absence too
	if got := get(t, db, Col(42), "nope"); got != nil {
		t.Fatalf("Get(absent column) = %x, wanted nil", got)
	}
}

func TestOverwrite(t *testing.T) {
	db := setup(t)
	put(t, db, Col(1), "k", "v1")
	put(t, db, Col(1), "k", "v2")
	deepEqual(t, string(get(t, db, Col(1), "k")), "v2")
}

func TestDelete(t *testing.T) {
	db := setup(t)
	put(t, db, DefaultColumn, "k", "v")

	tr := NewTransaction()
	tr.Delete(DefaultColumn, []byte("k"))
	if err := db.Write(tr); err != nil {
		t.Fatalf("Write(delete) failed: %v", err)
	}
	if got := get(t, db, DefaultColumn, "k"); got != nil {
		t.Fatalf("Get after delete = %x, wanted nil", got)
	}
}

func TestDeleteAbsentKey(t *testing.T) {
	db := setup(t)

	tr := NewTransaction()
	tr.Delete(Col(3), []byte("never-written"))
	if err := db.Write(tr); err != nil {
		t.Fatalf("Write(delete absent) failed: %v", err)
	}
}

func TestColumnIsolation(t *testing.T) {
	db := setup(t)
	put(t, db, Col(1), "k", "one")

	if got := get(t, db, Col(2), "k"); got != nil {
		t.Fatalf("Get(col 2) = %q, wanted nil", got)
	}
	if got := get(t, db, DefaultColumn, "k"); got != nil {
		t.Fatalf("Get(default) = %q, wanted nil", got)
	}
	deepEqual(t, string(get(t, db, Col(1), "k")), "one")
}

func TestWritePartialApplication(t *testing.T) {
	db := setup(t)

	tr := NewTransaction()
	tr.Put(DefaultColumn, []byte("k1"), []byte("v1"))
	tr.Put(DefaultColumn, []byte("k2"), []byte("v2"))
	tr.Put(DefaultColumn, nil, []byte("boom")) // empty keys are rejected by the engine
	tr.Put(DefaultColumn, []byte("k3"), []byte("v3"))

	err := db.Write(tr)
	if err == nil {
		t.Fatalf("Write succeeded, wanted failure at op 3")
	}
	var ee *EngineError
	if !errors.As(err, &ee) {
		t.Fatalf("err = %T, wanted *EngineError", err)
	}
	if ee.Committed != 2 {
		t.Fatalf("Committed = %d, wanted 2", ee.Committed)
	}
	if ee.Op != "put" {
		t.Fatalf("Op = %q, wanted put", ee.Op)
	}

	// ops before the failure are durable, ops after were never attempted
	deepEqual(t, string(get(t, db, DefaultColumn, "k1")), "v1")
	deepEqual(t, string(get(t, db, DefaultColumn, "k2")), "v2")
	if got := get(t, db, DefaultColumn, "k3"); got != nil {
		t.Fatalf("Get(k3) = %q, wanted nil", got)
	}
}

func TestWriteBufferedPanicsOnFailure(t *testing.T) {
	db := setup(t)

	tr := NewTransaction()
	tr.Put(DefaultColumn, nil, []byte("boom"))

	defer func() {
		if recover() == nil {
			t.Fatalf("WriteBuffered did not panic on failure")
		}
	}()
	db.WriteBuffered(tr)
}

func TestWriteBuffered(t *testing.T) {
	db := setup(t)
	tr := NewTransaction()
	tr.Put(Col(5), []byte("k"), []byte("v"))
	db.WriteBuffered(tr)
	deepEqual(t, string(get(t, db, Col(5), "k")), "v")
}

func TestSharedEnvironmentIdentity(t *testing.T) {
	r := NewRegistry()
	path := filepath.Join(t.TempDir(), "kv.db")
	db1 := openAt(t, r, path)
	db2 := openAt(t, r, path)

	if db1.env != db2.env {
		t.Fatalf("two facades on the same path got different environments")
	}

	put(t, db1, Col(7), "shared", "yes")
	deepEqual(t, string(get(t, db2, Col(7), "shared")), "yes")
}

func TestFlushAlwaysSucceeds(t *testing.T) {
	db := setup(t)
	if err := db.Flush(); err != nil {
		t.Fatalf("Flush = %v, wanted nil", err)
	}
}

func TestGetByPrefixStub(t *testing.T) {
	db := setup(t)
	put(t, db, DefaultColumn, "prefix-match", "v")

	if got := db.GetByPrefix(DefaultColumn, []byte("prefix")); got != nil {
		t.Fatalf("GetByPrefix = %q, wanted nil (stub)", got)
	}
}

func TestRestoreStub(t *testing.T) {
	db := setup(t)
	put(t, db, DefaultColumn, "k", "v")

	if err := db.Restore(filepath.Join(t.TempDir(), "other.db")); err != nil {
		t.Fatalf("Restore = %v, wanted nil (stub)", err)
	}
	// stored data must be untouched
	deepEqual(t, string(get(t, db, DefaultColumn, "k")), "v")
}

func TestCloseIdempotent(t *testing.T) {
	r := NewRegistry()
	db := openAt(t, r, filepath.Join(t.TempDir(), "kv.db"))
	db.Close()
	db.Close()
	if n := r.Len(); n != 0 {
		t.Fatalf("registry Len = %d after double close, wanted 0", n)
	}
}

func TestSubstores(t *testing.T) {
	db := setup(t)
	put(t, db, DefaultColumn, "a", "1")
	put(t, db, Col(2), "a", "1")
	put(t, db, Col(1), "a", "1")

	names := must(db.Substores())
	deepEqual(t, names, []string{"1", "2", "default"})
}

func TestMetrics(t *testing.T) {
	db := setup(t)

	tr := NewTransaction()
	tr.Put(DefaultColumn, []byte("a"), []byte("1"))
	tr.Put(DefaultColumn, []byte("b"), []byte("2"))
	tr.Delete(DefaultColumn, []byte("a"))
	if err := db.Write(tr); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	get(t, db, DefaultColumn, "b")

	var buf strings.Builder
	db.WritePrometheus(&buf)
	out := buf.String()
	for _, want := range []string{
		"kvdb_commits_total 3",
		"kvdb_puts_total 2",
		"kvdb_deletes_total 1",
		"kvdb_reads_total 1",
		"kvdb_read_hits_total 1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("metrics output missing %q:\n%s", want, out)
		}
	}
}

func TestConcurrentReadersAndWriters(t *testing.T) {
	db := setup(t)
	const writers = 4
	const keysPerWriter = 25

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < keysPerWriter; i++ {
				tr := NewTransaction()
				key := fmt.Sprintf("w%d-k%03d", w, i)
				tr.Put(Col(uint32(w)), []byte(key), []byte(key))
				if err := db.Write(tr); err != nil {
					t.Errorf("Write(%s) failed: %v", key, err)
					return
				}
				if _, err := db.Get(Col(uint32(w)), []byte(key)); err != nil {
					t.Errorf("Get(%s) failed: %v", key, err)
					return
				}
			}
		}(w)
	}
	wg.Wait()

	for w := 0; w < writers; w++ {
		n := 0
		for range db.Iter(Col(uint32(w))).Pairs() {
			n++
		}
		if n != keysPerWriter {
			t.Errorf("column %d has %d keys, wanted %d", w, n, keysPerWriter)
		}
	}
}

func TestConfigTuningAcceptedButUnused(t *testing.T) {
	r := NewRegistry()
	config := Config{MemoryBudgetMB: 128, Columns: 4, NoSync: true}
	db := must(r.Open(config, filepath.Join(t.TempDir(), "kv.db")))
	t.Cleanup(db.Close)

	put(t, db, Col(9), "k", "v")
	deepEqual(t, string(get(t, db, Col(9), "k")), "v")
}
