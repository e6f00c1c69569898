package kvdb

import (
	"github.com/vmihailenco/msgpack/v5"
)

// The engine stores typed values; this adapter only ever writes blobs.
// The kind tag stays in the record so that other value kinds can be added
// without an on-disk migration.
type storedValueKind uint8

const (
	kindBlob storedValueKind = 1
)

type storedValue struct {
	Kind storedValueKind `msgpack:"k"`
	Data []byte          `msgpack:"d"`
}

func encodeBlob(v []byte) ([]byte, error) {
	return msgpack.Marshal(storedValue{Kind: kindBlob, Data: v})
}

// decodeBlob unwraps a stored record back into the caller's bytes.
// Failure here means the record was not written through this adapter,
// i.e. corruption; callers must surface it.
func decodeBlob(data []byte) ([]byte, error) {
	var sv storedValue
	if err := msgpack.Unmarshal(data, &sv); err != nil {
		return nil, dataErrf(data, 0, err, "invalid stored value")
	}
	if sv.Kind != kindBlob {
		return nil, dataErrf(data, 0, nil, "unsupported stored value kind %d", sv.Kind)
	}
	if sv.Data == nil {
		// present-but-empty must stay distinguishable from absent
		return []byte{}, nil
	}
	return sv.Data, nil
}
