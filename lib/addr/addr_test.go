package addr

import "testing"

func TestNewStdRejectsWrongHashLength(t *testing.T) {
	if _, err := NewStd(0, make([]byte, 31)); err == nil {
		t.Errorf("expected an error for a 31-byte hash")
	}
	if _, err := NewStd(0, make([]byte, 33)); err == nil {
		t.Errorf("expected an error for a 33-byte hash")
	}
}

func TestNewStdAcceptsExactLength(t *testing.T) {
	hash := make([]byte, HashSize)
	for i := range hash {
		hash[i] = byte(i)
	}
	a, err := NewStd(-1, hash)
	if err != nil {
		t.Fatalf("NewStd failed: %v", err)
	}
	if a.Workchain != -1 {
		t.Errorf("Workchain = %d, want -1", a.Workchain)
	}
	if a.Hash != [HashSize]byte(hash) {
		t.Errorf("Hash does not match input")
	}
}

func TestStringFormat(t *testing.T) {
	hash := make([]byte, HashSize)
	hash[0] = 0xAB
	a, err := NewStd(0, hash)
	if err != nil {
		t.Fatalf("NewStd failed: %v", err)
	}
	want := "0:ab00000000000000000000000000000000000000000000000000000000000000"
	if got := a.String(); got != want {
		t.Errorf("String() = %s, want %s", got, want)
	}
}
