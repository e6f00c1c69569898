package kvdb

import (
	"fmt"
	"strings"
)

// OpenError reports that an environment could not be created or attached
// to (bad path, permissions, corrupt files).
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Unwrap() error {
	return e.Err
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("kvdb: open %s: %v", e.Path, e.Err)
}

// EngineError reports a failure from the underlying engine during
// substore resolution, commit, read or decode. For write transactions,
// Committed is the number of earlier operations that were already
// durably committed when the failure happened; those stay applied.
type EngineError struct {
	Op        string
	Substore  string
	Key       []byte
	Committed int
	Err       error
}

func engineErrf(op string, col Column, key []byte, committed int, err error) *EngineError {
	return &EngineError{Op: op, Substore: col.String(), Key: key, Committed: committed, Err: err}
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

func (e *EngineError) Error() string {
	var buf strings.Builder
	buf.WriteString("kvdb: ")
	buf.WriteString(e.Op)
	buf.WriteByte(' ')
	buf.WriteString(e.Substore)
	if e.Key != nil {
		buf.WriteByte('/')
		buf.WriteString(hexstr(e.Key))
	}
	buf.WriteString(": ")
	buf.WriteString(e.Err.Error())
	if e.Committed > 0 {
		fmt.Fprintf(&buf, " (%d earlier ops committed)", e.Committed)
	}
	return buf.String()
}

// DataError describes a malformed stored record.
type DataError struct {
	Data []byte
	Off  int
	Err  error
	Msg  string
}

func dataErrf(data []byte, off int, err error, format string, args ...any) error {
	return &DataError{data, off, err, fmt.Sprintf(format, args...)}
}

func (e *DataError) Unwrap() error {
	return e.Err
}

func (e *DataError) Error() string {
	const prefixLen = 64
	const suffixLen = 32
	n := len(e.Data)
	if n <= prefixLen+suffixLen {
		if e.Err != nil {
			return fmt.Sprintf("%s: %v: (%d) %x", e.Msg, e.Err, n, e.Data)
		} else {
			return fmt.Sprintf("%s: (%d) %x", e.Msg, n, e.Data)
		}
	} else {
		p, s := e.Data[:prefixLen], e.Data[n-suffixLen:]
		if e.Err != nil {
			return fmt.Sprintf("%s: %v: (%d) %x...%x", e.Msg, e.Err, n, p, s)
		} else {
			return fmt.Sprintf("%s: (%d) %x...%x", e.Msg, n, p, s)
		}
	}
}
