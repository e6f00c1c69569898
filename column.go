package kvdb

import "strconv"

// defaultSubstore is the bucket backing the unnamed column. The name is
// part of the on-disk layout and must never change.
const defaultSubstore = "default"

// Column identifies a logical namespace within a database. The zero value
// is the default (unnamed) column; Col(n) names column n. A column maps to
// a physically separate substore created lazily on first write.
type Column struct {
	num  uint32
	some bool
}

// DefaultColumn is the unnamed column, kept for readability at call sites.
var DefaultColumn Column

func Col(n uint32) Column {
	return Column{num: n, some: true}
}

func (c Column) IsDefault() bool {
	return !c.some
}

// Num returns the column number, or false for the default column.
func (c Column) Num() (uint32, bool) {
	return c.num, c.some
}

// String returns the substore name the column maps to.
func (c Column) String() string {
	if !c.some {
		return defaultSubstore
	}
	return strconv.FormatUint(uint64(c.num), 10)
}

func (c Column) bucketName() []byte {
	return []byte(c.String())
}
