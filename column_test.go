package kvdb

import "testing"

func TestColumnNames(t *testing.T) {
	deepEqual(t, DefaultColumn.String(), "default")
	deepEqual(t, Col(0).String(), "0")
	deepEqual(t, Col(7).String(), "7")
	deepEqual(t, Col(4294967295).String(), "4294967295")

	if !DefaultColumn.IsDefault() || Col(0).IsDefault() {
		t.Fatalf("IsDefault mismatch")
	}

	n, ok := Col(7).Num()
	if !ok || n != 7 {
		t.Fatalf("Num = (%d, %v), wanted (7, true)", n, ok)
	}
	if _, ok := DefaultColumn.Num(); ok {
		t.Fatalf("Num(default) = ok, wanted !ok")
	}

	// column 0 and the default column are distinct substores
	if string(Col(0).bucketName()) == string(DefaultColumn.bucketName()) {
		t.Fatalf("col 0 and default share a substore name")
	}
}
