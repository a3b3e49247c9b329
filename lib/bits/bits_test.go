package bits

import (
	"math/big"
	"testing"

	"github.com/holiman/uint256"

	"github.com/gotonboc/tonboc/lib/addr"
)

func TestWriteBitCapacity(t *testing.T) {
	b := New(4)
	for i := range 4 {
		if err := b.WriteBit(i%2 == 0); err != nil {
			t.Fatalf("WriteBit %d failed: %v", i, err)
		}
	}
	if b.Len() != 4 {
		t.Errorf("Len() = %d, want 4", b.Len())
	}
	if err := b.WriteBit(true); err == nil {
		t.Errorf("expected capacity overflow, got nil error")
	}
}

func TestWriteUintMaxValueFillsWidth(t *testing.T) {
	for width := 1; width <= 16; width++ {
		max := new(big.Int).Lsh(big.NewInt(1), uint(width))
		max.Sub(max, big.NewInt(1))
		b := New(width)
		if err := b.WriteUint(max, width); err != nil {
			t.Fatalf("width %d: WriteUint(%s) failed: %v", width, max, err)
		}
		if b.Len() != width {
			t.Errorf("width %d: Len() = %d, want %d", width, b.Len(), width)
		}
	}
}

func TestWriteUintRejectsOverflow(t *testing.T) {
	b := New(8)
	if err := b.WriteUint(big.NewInt(256), 8); err == nil {
		t.Errorf("expected error writing 256 into 8 bits")
	}
	if err := b.WriteUint(big.NewInt(-1), 8); err == nil {
		t.Errorf("expected error writing a negative value as unsigned")
	}
}

func TestWriteUintWidthZero(t *testing.T) {
	b := New(8)
	if err := b.WriteUint(big.NewInt(0), 0); err != nil {
		t.Errorf("WriteUint(0, 0) should be a no-op, got error: %v", err)
	}
	if b.Len() != 0 {
		t.Errorf("WriteUint(0, 0) should not advance cursor, got Len()=%d", b.Len())
	}
	if err := b.WriteUint(big.NewInt(1), 0); err == nil {
		t.Errorf("WriteUint(1, 0) should fail")
	}
}

func TestWriteIntWidthOne(t *testing.T) {
	test := func(value int64, wantErr bool) {
		b := New(1)
		err := b.WriteInt(big.NewInt(value), 1)
		if wantErr && err == nil {
			t.Errorf("WriteInt(%d, 1): expected error, got nil", value)
		}
		if !wantErr && err != nil {
			t.Errorf("WriteInt(%d, 1): unexpected error: %v", value, err)
		}
	}
	test(-1, false)
	test(0, false)
	test(1, true)
	test(2, true)
	test(-2, true)
}

func TestWriteIntRangeFillsWidth(t *testing.T) {
	for width := 2; width <= 17; width++ {
		lo := new(big.Int).Lsh(big.NewInt(-1), uint(width-1))
		hi := new(big.Int).Lsh(big.NewInt(1), uint(width-1))
		hi.Sub(hi, big.NewInt(1))
		for _, n := range []*big.Int{lo, big.NewInt(0), hi, big.NewInt(-1), big.NewInt(1)} {
			b := New(width)
			if err := b.WriteInt(n, width); err != nil {
				t.Fatalf("width %d: WriteInt(%s) failed: %v", width, n, err)
			}
			if b.Len() != width {
				t.Errorf("width %d, value %s: Len() = %d, want %d", width, n, b.Len(), width)
			}
		}
	}
}

func TestWriteGramsZero(t *testing.T) {
	b := New(256)
	if err := b.WriteGrams(nil); err != nil {
		t.Fatalf("WriteGrams(nil) failed: %v", err)
	}
	if b.Len() != 4 {
		t.Errorf("WriteGrams(0) should write exactly 4 bits, got %d", b.Len())
	}

	b2 := New(256)
	if err := b2.WriteGrams(uint256.NewInt(0)); err != nil {
		t.Fatalf("WriteGrams(0) failed: %v", err)
	}
	if b2.Len() != 4 {
		t.Errorf("WriteGrams(0) should write exactly 4 bits, got %d", b2.Len())
	}
}

func TestWriteGramsNonZero(t *testing.T) {
	b := New(256)
	amount := uint256.NewInt(1_000_000_000) // 1 TON in nanotons, fits in 4 bytes
	if err := b.WriteGrams(amount); err != nil {
		t.Fatalf("WriteGrams failed: %v", err)
	}
	// 4-bit length prefix + 4 bytes of magnitude
	if b.Len() != 4+4*8 {
		t.Errorf("Len() = %d, want %d", b.Len(), 4+4*8)
	}
}

func TestWriteAddressNone(t *testing.T) {
	b := New(2)
	if err := b.WriteAddress(nil); err != nil {
		t.Fatalf("WriteAddress(nil) failed: %v", err)
	}
	if b.Len() != 2 {
		t.Errorf("WriteAddress(nil) should write 2 bits, got %d", b.Len())
	}
}

func TestWriteAddressStd(t *testing.T) {
	hash := make([]byte, 32)
	a, err := addr.NewStd(0, hash)
	if err != nil {
		t.Fatalf("addr.NewStd failed: %v", err)
	}
	b := New(267)
	if err := b.WriteAddress(&a); err != nil {
		t.Fatalf("WriteAddress failed: %v", err)
	}
	if b.Len() != 267 {
		t.Errorf("Len() = %d, want 267 (2 tag + 1 anycast + 8 workchain + 256 hash)", b.Len())
	}
}

func TestTopUppedHexExamples(t *testing.T) {
	// S2: write 1,0,1,1 -> "B"; write one more 1 -> "BC_"
	b := New(8)
	for _, bit := range []bool{true, false, true, true} {
		if err := b.WriteBit(bit); err != nil {
			t.Fatalf("WriteBit failed: %v", err)
		}
	}
	if got := b.ToHex(); got != "B" {
		t.Errorf("ToHex() after 4 bits = %q, want %q", got, "B")
	}
	if err := b.WriteBit(true); err != nil {
		t.Fatalf("WriteBit failed: %v", err)
	}
	if got := b.ToHex(); got != "BC_" {
		t.Errorf("ToHex() after 5 bits = %q, want %q", got, "BC_")
	}
}

func TestHexConventionEmptyAndSingleBit(t *testing.T) {
	empty := New(8)
	if got := empty.ToHex(); got != "" {
		t.Errorf("ToHex() of empty cell = %q, want empty string", got)
	}

	oneBit := New(8)
	if err := oneBit.WriteBit(true); err != nil {
		t.Fatalf("WriteBit failed: %v", err)
	}
	if got := oneBit.ToHex(); got != "C_" {
		t.Errorf("ToHex() of a single 1 bit = %q, want %q", got, "C_")
	}

	fourBits := New(8)
	for _, bit := range []bool{true, false, true, false} {
		if err := fourBits.WriteBit(bit); err != nil {
			t.Fatalf("WriteBit failed: %v", err)
		}
	}
	if got := fourBits.ToHex(); got != "A" {
		t.Errorf("ToHex() of 1010 = %q, want %q", got, "A")
	}
}

func TestTopUppedArrayInverse(t *testing.T) {
	for k := 0; k <= 20; k++ {
		b := New(24)
		for i := 0; i < k; i++ {
			if err := b.WriteBit(i%3 != 0); err != nil {
				t.Fatalf("k=%d: WriteBit %d failed: %v", k, i, err)
			}
		}
		topUpped, err := b.GetTopUppedArray()
		if err != nil {
			t.Fatalf("k=%d: GetTopUppedArray failed: %v", k, err)
		}

		restored := New(24)
		if err := restored.SetTopUppedArray(topUpped, k%8 == 0); err != nil {
			t.Fatalf("k=%d: SetTopUppedArray failed: %v", k, err)
		}
		if restored.Len() != k {
			t.Errorf("k=%d: restored Len() = %d, want %d", k, restored.Len(), k)
		}
		for i := 0; i < k; i++ {
			if restored.getBit(i) != b.getBit(i) {
				t.Errorf("k=%d: bit %d mismatch after round trip", k, i)
			}
		}
	}
}

func TestWriteBitStringAppendsPrefix(t *testing.T) {
	src := New(16)
	for _, bit := range []bool{true, true, false, true, false} {
		if err := src.WriteBit(bit); err != nil {
			t.Fatalf("WriteBit failed: %v", err)
		}
	}
	dst := New(5)
	if err := dst.WriteBitString(src); err != nil {
		t.Fatalf("WriteBitString failed: %v", err)
	}
	if dst.Len() != 5 {
		t.Errorf("dst.Len() = %d, want 5", dst.Len())
	}
	for i := 0; i < 5; i++ {
		if dst.getBit(i) != src.getBit(i) {
			t.Errorf("bit %d mismatch", i)
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	original := New(8)
	if err := original.WriteBit(true); err != nil {
		t.Fatalf("WriteBit failed: %v", err)
	}
	clone := original.Clone()
	if err := original.WriteBit(false); err != nil {
		t.Fatalf("WriteBit failed: %v", err)
	}
	if clone.Len() != 1 {
		t.Errorf("clone.Len() = %d, want 1 (mutation of original leaked into clone)", clone.Len())
	}
}
