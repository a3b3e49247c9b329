// Package cell implements the Cell, the native on-chain data primitive: up
// to 1023 bits of payload plus up to four ordered child references and an
// is-exotic flag. A Cell's identity (Hash) is a pure function of its
// content — its own bits, descriptor bytes, and its children's hashes and
// depths — never of caller-assigned names or positions.
package cell

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/gotonboc/tonboc/lib/bits"
)

// MaxBits is the maximum number of payload bits a single cell may hold.
const MaxBits = 1023

// MaxRefs is the maximum number of child references a single cell may hold.
const MaxRefs = 4

// Cell is a node in the bag-of-cells DAG. Children are pushed, never
// assigned as a parent, so a Cell graph built through the public writers is
// a DAG by construction.
type Cell struct {
	Bits     *bits.BitString
	Refs     []*Cell
	IsExotic bool
}

// New returns an empty, non-exotic cell with the full 1023-bit capacity.
func New() *Cell {
	return &Cell{Bits: bits.New(MaxBits)}
}

// NewExotic returns an empty cell with the is-exotic flag set. Exotic cell
// body semantics (pruned branches, Merkle proofs, library cells) are out of
// scope; only the flag itself is preserved through encode/decode.
func NewExotic() *Cell {
	c := New()
	c.IsExotic = true
	return c
}

// AddRef appends a child reference. Fails once the cell already holds
// MaxRefs references.
func (c *Cell) AddRef(ref *Cell) error {
	if len(c.Refs) >= MaxRefs {
		return fmt.Errorf("cell: cannot hold more than %d references", MaxRefs)
	}
	c.Refs = append(c.Refs, ref)
	return nil
}

// WriteCell appends other's bits to c and concatenates other's references
// onto c's own. The writer is responsible for not exceeding MaxBits/MaxRefs;
// WriteBitString surfaces a capacity error if the bits don't fit.
func (c *Cell) WriteCell(other *Cell) error {
	if err := c.Bits.WriteBitString(other.Bits); err != nil {
		return err
	}
	c.Refs = append(c.Refs, other.Refs...)
	return nil
}

// GetMaxDepth returns 0 for a leaf, or 1 + the deepest child otherwise.
func (c *Cell) GetMaxDepth() int {
	if len(c.Refs) == 0 {
		return 0
	}
	max := 0
	for _, ref := range c.Refs {
		if d := ref.GetMaxDepth(); d > max {
			max = d
		}
	}
	return max + 1
}

// GetMaxLevel returns the maximum level among children; 0 for a leaf or for
// any non-exotic cell, since level semantics beyond 0 belong to exotic cell
// kinds this codec does not interpret.
func (c *Cell) GetMaxLevel() int {
	max := 0
	for _, ref := range c.Refs {
		if l := ref.GetMaxLevel(); l > max {
			max = l
		}
	}
	return max
}

// refsDescriptor is the BoC wire format's d1 byte: ref_count + 8*is_exotic + 32*level.
func (c *Cell) refsDescriptor() byte {
	d1 := len(c.Refs)
	if c.IsExotic {
		d1 += 8
	}
	d1 += 32 * c.GetMaxLevel()
	return byte(d1)
}

// bitsDescriptor is the BoC wire format's d2 byte: floor(cursor/8) + ceil(cursor/8).
// Its parity encodes whether the last byte is fully used.
func (c *Cell) bitsDescriptor() byte {
	cursor := c.Bits.Len()
	return byte(cursor/8 + (cursor+7)/8)
}

// DataWithDescriptors returns d1 ++ d2 ++ the top-upped bits: the per-cell
// body layout the BoC serializer packs before appending reference indices.
func (c *Cell) DataWithDescriptors() ([]byte, error) {
	topUpped, err := c.Bits.GetTopUppedArray()
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, 2+len(topUpped))
	out = append(out, c.refsDescriptor(), c.bitsDescriptor())
	out = append(out, topUpped...)
	return out, nil
}

// Repr returns the pre-image hashed to produce the cell's identity:
// data_with_descriptors ++ each child's max depth (big-endian uint16) ++
// each child's hash.
func (c *Cell) Repr() ([]byte, error) {
	out, err := c.DataWithDescriptors()
	if err != nil {
		return nil, err
	}
	for _, ref := range c.Refs {
		var depth [2]byte
		binary.BigEndian.PutUint16(depth[:], uint16(ref.GetMaxDepth()))
		out = append(out, depth[:]...)
	}
	for _, ref := range c.Refs {
		h, err := ref.Hash()
		if err != nil {
			return nil, err
		}
		out = append(out, h[:]...)
	}
	return out, nil
}

// Hash returns the SHA-256 of Repr, the cell's content-addressed identity.
// It recomputes on every call; callers that hash the same cell repeatedly
// across a large graph should cache the result themselves (see lib/boc's
// topological walk, which memoizes by hash during serialization).
func (c *Cell) Hash() ([32]byte, error) {
	repr, err := c.Repr()
	if err != nil {
		return [32]byte{}, err
	}
	return sha256.Sum256(repr), nil
}

// HashString returns Hash as lower-case hex.
func (c *Cell) HashString() (string, error) {
	h, err := c.Hash()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(h[:]), nil
}

// RefsCount returns the number of child references.
func (c *Cell) RefsCount() int {
	return len(c.Refs)
}

// BeginParse returns a read-only Slice snapshot of the cell's current bits
// and references. Later mutation of c does not affect a Slice already
// taken from it.
func (c *Cell) BeginParse() *Slice {
	raw := c.Bits.Bytes()
	data := make([]byte, len(raw))
	copy(data, raw)
	refs := make([]*Cell, len(c.Refs))
	copy(refs, c.Refs)
	return &Slice{
		data:   data,
		bitLen: c.Bits.Len(),
		refs:   refs,
	}
}
