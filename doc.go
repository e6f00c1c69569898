/*
Package kvdb exposes a multi-column, transactional key-value interface
on top of a single embedded ordered key-value engine (in this case, Bolt).

We implement:

1. Columns, optional integer namespaces that map to physically separate
substores inside one shared environment.

2. Transactions, ordered lists of put/delete operations applied against
the correct substore, one engine commit per operation.

3. Readers, per-call read snapshots for point lookups and forward
iteration in byte-lexicographic key order.

4. An environment registry, deduplicating engine handles by filesystem
path so that every facade opened on the same path shares one handle.

# Technical Details

**Substores.**
We rely on scoped namespaces for keys called buckets. Bolt supports them
natively. The default column maps to a bucket with a fixed name; column n
maps to a bucket named by the decimal rendering of n. Substores are
created implicitly the first time a write touches them.

**Values.**
Stored values are typed: the raw bytes supplied by the caller are wrapped
as a blob record (msgpack-encoded kind tag plus payload) on write and
unwrapped on read. The round trip is byte-exact. A record that fails to
unwrap is a corruption condition and is surfaced, never swallowed.

**Batches are not atomic.**
Each operation in a transaction gets its own engine commit. If operation
k fails, operations 1..k-1 stay durably committed and later operations
are never attempted. The returned EngineError reports how many operations
committed. Callers must not assume whole-batch atomicity.

**Stubbed capabilities.**
GetByPrefix, prefix-aware iteration and Restore are declared but not
implemented; Flush is a guaranteed-success no-op. Each stub documents its
intended contract and logs when invoked.
*/
package kvdb
