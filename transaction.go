package kvdb

import (
	"bytes"
	"fmt"
)

type Op int

const (
	OpNone   Op = 0
	OpPut    Op = 1
	OpDelete Op = 2
)

func (v Op) String() string {
	switch v {
	case OpNone:
		return "none"
	case OpPut:
		return "put"
	case OpDelete:
		return "delete"
	default:
		return fmt.Sprintf("invalid op %d", int(v))
	}
}

// WriteOp is a single put or delete, scoped to a column and key.
type WriteOp struct {
	op    Op
	col   Column
	key   []byte
	value []byte
}

func (w WriteOp) Op() Op {
	return w.op
}
func (w WriteOp) Column() Column {
	return w.col
}
func (w WriteOp) Key() []byte {
	return w.key
}
func (w WriteOp) Value() []byte {
	return w.value
}

// Transaction is an ordered list of write operations submitted together.
// It is a batch in submission only: each operation gets its own engine
// commit when applied, see DB.Write.
type Transaction struct {
	ops []WriteOp
}

func NewTransaction() *Transaction {
	return &Transaction{}
}

func NewTransactionCapacity(n int) *Transaction {
	return &Transaction{ops: make([]WriteOp, 0, n)}
}

// Put appends an insert-or-overwrite of value under key in col.
// Key and value bytes are copied; the caller may reuse its buffers.
func (tr *Transaction) Put(col Column, key, value []byte) {
	tr.ops = append(tr.ops, WriteOp{
		op:    OpPut,
		col:   col,
		key:   bytes.Clone(key),
		value: bytes.Clone(value),
	})
}

// Delete appends a removal of key in col. Deleting an absent key is not
// an error when the transaction is applied.
func (tr *Transaction) Delete(col Column, key []byte) {
	tr.ops = append(tr.ops, WriteOp{
		op:  OpDelete,
		col: col,
		key: bytes.Clone(key),
	})
}

func (tr *Transaction) Len() int {
	return len(tr.ops)
}

// Ops returns the operations in submission order. The slice is the
// transaction's backing storage; treat it as read-only.
func (tr *Transaction) Ops() []WriteOp {
	return tr.ops
}
