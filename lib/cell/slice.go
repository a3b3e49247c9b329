package cell

import (
	"fmt"
	"math/big"
	stdbits "math/bits"

	"github.com/holiman/uint256"

	"github.com/gotonboc/tonboc/lib/addr"
	"github.com/gotonboc/tonboc/lib/bits"
)

// Slice is an immutable, read-only view over a Cell taken at parse time: a
// copy of its bit buffer, bit length, and ordered child references, plus a
// read cursor and a ref cursor that only ever advance.
type Slice struct {
	data      []byte
	bitLen    int
	cursor    int
	refs      []*Cell
	refCursor int
}

func (s *Slice) getBit(i int) bool {
	return s.data[i>>3]&(1<<(7-uint(i&7))) != 0
}

// RemainingBits reports how many unread payload bits remain.
func (s *Slice) RemainingBits() int {
	return s.bitLen - s.cursor
}

// RemainingRefs reports how many unread child references remain.
func (s *Slice) RemainingRefs() int {
	return len(s.refs) - s.refCursor
}

// LoadBit reads the next bit, advancing the cursor.
func (s *Slice) LoadBit() (bool, error) {
	if s.cursor >= s.bitLen {
		return false, fmt.Errorf("slice: load_bit: no more data (cursor=%d len=%d)", s.cursor, s.bitLen)
	}
	v := s.getBit(s.cursor)
	s.cursor++
	return v, nil
}

// LoadBits reads the next width bits into a fresh BitString.
func (s *Slice) LoadBits(width int) (*bits.BitString, error) {
	if width < 0 {
		return nil, fmt.Errorf("slice: load_bits: negative width %d", width)
	}
	if s.cursor+width > s.bitLen {
		return nil, fmt.Errorf("slice: load_bits: out of data (cursor=%d width=%d len=%d)", s.cursor, width, s.bitLen)
	}
	out := bits.New(width)
	for i := 0; i < width; i++ {
		if err := out.WriteBit(s.getBit(s.cursor)); err != nil {
			return nil, err
		}
		s.cursor++
	}
	return out, nil
}

// LoadUint reads width bits as a non-negative big-endian integer.
func (s *Slice) LoadUint(width int) (*big.Int, error) {
	if width < 0 {
		return nil, fmt.Errorf("slice: load_uint: negative width %d", width)
	}
	if s.cursor+width > s.bitLen {
		return nil, fmt.Errorf("slice: load_uint: out of data (cursor=%d width=%d len=%d)", s.cursor, width, s.bitLen)
	}
	result := new(big.Int)
	for i := 0; i < width; i++ {
		result.Lsh(result, 1)
		if s.getBit(s.cursor) {
			result.SetBit(result, 0, 1)
		}
		s.cursor++
	}
	return result, nil
}

// LoadInt is the inverse of BitString.WriteInt: width==1 yields -1 or 0;
// width>1 reads a sign bit followed by width-1 magnitude bits.
func (s *Slice) LoadInt(width int) (*big.Int, error) {
	if width == 1 {
		bit, err := s.LoadBit()
		if err != nil {
			return nil, err
		}
		if bit {
			return big.NewInt(-1), nil
		}
		return big.NewInt(0), nil
	}
	if width < 1 {
		return nil, fmt.Errorf("slice: load_int: width must be >= 1, got %d", width)
	}
	sign, err := s.LoadBit()
	if err != nil {
		return nil, err
	}
	magnitude, err := s.LoadUint(width - 1)
	if err != nil {
		return nil, err
	}
	if sign {
		pow := new(big.Int).Lsh(big.NewInt(1), uint(width-1))
		return new(big.Int).Sub(magnitude, pow), nil
	}
	return magnitude, nil
}

// LoadVarUint reads a floor(log2(w))-bit length prefix (in bytes), then that
// many bytes as a big-endian unsigned integer. w is the bit-width of the
// length field's domain, e.g. 16 for Coins.
func (s *Slice) LoadVarUint(w int) (*big.Int, error) {
	if w <= 1 {
		return nil, fmt.Errorf("slice: load_var_uint: w must be > 1, got %d", w)
	}
	prefixWidth := stdbits.Len(uint(w)) - 1
	lengthVal, err := s.LoadUint(prefixWidth)
	if err != nil {
		return nil, err
	}
	length := int(lengthVal.Int64())
	if length == 0 {
		return big.NewInt(0), nil
	}
	return s.LoadUint(length * 8)
}

// LoadCoins reads a Grams/Coins amount: LoadVarUint(16).
func (s *Slice) LoadCoins() (*uint256.Int, error) {
	v, err := s.LoadVarUint(16)
	if err != nil {
		return nil, err
	}
	result, overflow := uint256.FromBig(v)
	if overflow {
		return nil, fmt.Errorf("slice: load_coins: amount overflows 256 bits")
	}
	return result, nil
}

// LoadAddress parses addr_none$00 or addr_std$10 with anycast=0, returning
// nil for addr_none. Anycast addresses and any tag other than 0 or 2 are
// rejected, since they are out of scope for this codec.
func (s *Slice) LoadAddress() (*addr.Std, error) {
	tag, err := s.LoadUint(2)
	if err != nil {
		return nil, err
	}
	switch tag.Int64() {
	case 0:
		return nil, nil
	case 2:
		anycast, err := s.LoadBit()
		if err != nil {
			return nil, err
		}
		if anycast {
			return nil, fmt.Errorf("slice: load_address: anycast addresses are not supported")
		}
		wc, err := s.LoadInt(8)
		if err != nil {
			return nil, err
		}
		hashBits, err := s.LoadBits(addr.HashSize * 8)
		if err != nil {
			return nil, err
		}
		hashBytes, err := hashBits.GetTopUppedArray()
		if err != nil {
			return nil, err
		}
		a, err := addr.NewStd(int8(wc.Int64()), hashBytes)
		if err != nil {
			return nil, err
		}
		return &a, nil
	default:
		return nil, fmt.Errorf("slice: load_address: unsupported address tag %d", tag.Int64())
	}
}

// LoadRef returns the next unread child reference as a Slice. refs was
// copied from a Cell; AddRef caps a Cell at MaxRefs references, but WriteCell
// and direct appends to Cell.Refs do not check the cap.
func (s *Slice) LoadRef() (*Slice, error) {
	if s.refCursor >= len(s.refs) {
		return nil, fmt.Errorf("slice: load_ref: no more references (have %d)", len(s.refs))
	}
	ref := s.refs[s.refCursor]
	s.refCursor++
	return ref.BeginParse(), nil
}
