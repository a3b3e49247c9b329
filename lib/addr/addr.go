// Package addr defines the single on-chain address encoding the codec must
// write and read: addr_none$00 and addr_std$10 with anycast=0. Other address
// kinds (var, anycast) are out of scope; the reader rejects their tags.
package addr

import "fmt"

// HashSize is the length in bytes of a std address's account id.
const HashSize = 32

// Std is an addr_std$10 with anycast=0: a signed 8-bit workchain id plus a
// 256-bit account hash.
type Std struct {
	Workchain int8
	Hash      [HashSize]byte
}

// String renders "workchain:hash" in lower-case hex, the conventional form.
func (a Std) String() string {
	return fmt.Sprintf("%d:%x", a.Workchain, a.Hash[:])
}

// NewStd builds a Std address, failing if hash is not exactly HashSize bytes.
func NewStd(workchain int8, hash []byte) (Std, error) {
	if len(hash) != HashSize {
		return Std{}, fmt.Errorf("addr: hash must be %d bytes, got %d", HashSize, len(hash))
	}
	var a Std
	a.Workchain = workchain
	copy(a.Hash[:], hash)
	return a, nil
}
