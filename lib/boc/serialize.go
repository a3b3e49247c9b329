package boc

import (
	"fmt"
	stdbits "math/bits"

	"github.com/gotonboc/tonboc/lib/cell"
)

// walker performs the hash-keyed topological walk of §4.4 step 1: a
// depth-first traversal that relocates a previously-visited cell (and all of
// its descendants, recursively) to the end of the order whenever a later
// parent needs to reference it, so every reference in the final order points
// strictly forward.
type walker struct {
	order   []*cell.Cell
	indexOf map[[32]byte]int
	hashOf  map[*cell.Cell][32]byte
}

func newWalker() *walker {
	return &walker{
		indexOf: make(map[[32]byte]int),
		hashOf:  make(map[*cell.Cell][32]byte),
	}
}

func (w *walker) hashFor(c *cell.Cell) ([32]byte, error) {
	if h, ok := w.hashOf[c]; ok {
		return h, nil
	}
	h, err := c.Hash()
	if err != nil {
		return [32]byte{}, err
	}
	w.hashOf[c] = h
	return h, nil
}

// removeAt drops the cell at idx from the order, shifting every later
// index down by one.
func (w *walker) removeAt(idx int) {
	w.order = append(w.order[:idx], w.order[idx+1:]...)
	for h, i := range w.indexOf {
		if i > idx {
			w.indexOf[h] = i - 1
		}
	}
}

// relocateToEnd moves the cell identified by h to the end of the order, then
// recursively relocates each of its children in the same way: a child placed
// before its relocated parent would otherwise violate the forward-reference
// invariant.
func (w *walker) relocateToEnd(h [32]byte) error {
	idx, ok := w.indexOf[h]
	if !ok {
		return fmt.Errorf("boc: serialize: internal: relocating an unvisited cell")
	}
	c := w.order[idx]
	w.removeAt(idx)
	w.indexOf[h] = len(w.order)
	w.order = append(w.order, c)
	for _, child := range c.Refs {
		childHash, err := w.hashFor(child)
		if err != nil {
			return err
		}
		if err := w.relocateToEnd(childHash); err != nil {
			return err
		}
	}
	return nil
}

// visit walks c depth-first. parentHash/hasParent identify the reference
// that is driving this visit, used only to detect the relocation condition
// on a revisit. A root is visited with hasParent == false, so that visit
// never relocates it; a root that another root references can still be
// relocated through that reference, which is why callers look roots up in
// indexOf only after the whole walk.
func (w *walker) visit(c *cell.Cell, parentHash [32]byte, hasParent bool) error {
	h, err := w.hashFor(c)
	if err != nil {
		return err
	}
	if idx, ok := w.indexOf[h]; ok {
		if hasParent {
			parentIdx, ok := w.indexOf[parentHash]
			if !ok {
				return fmt.Errorf("boc: serialize: internal: parent missing from index")
			}
			if parentIdx > idx {
				if err := w.relocateToEnd(h); err != nil {
					return err
				}
			}
		}
		return nil
	}

	idx := len(w.order)
	w.order = append(w.order, c)
	w.indexOf[h] = idx
	for _, ref := range c.Refs {
		if err := w.visit(ref, h, true); err != nil {
			return err
		}
	}
	return nil
}

func treeWalkMulti(roots []*cell.Cell) (*walker, error) {
	w := newWalker()
	var zero [32]byte
	for _, root := range roots {
		if err := w.visit(root, zero, false); err != nil {
			return nil, err
		}
	}
	return w, nil
}

func ceilDiv8(bitsLen int) int {
	return (bitsLen + 7) / 8
}

// sizeBytesFor preserves the reference implementation's documented quirk:
// min(ceil(bits(cellsNum)/8), 1) rather than max(...). For any cellsNum >= 1
// this is always exactly 1; appendUintNChecked is what makes Serialize fail
// for graphs over 255 cells instead of silently truncating indices into a
// size field the formula never lets grow past one byte.
func sizeBytesFor(cellsNum int) int {
	sBits := stdbits.Len(uint(cellsNum))
	sBytes := ceilDiv8(sBits)
	if sBytes > 1 {
		sBytes = 1
	}
	return sBytes
}

func offsetBytesFor(fullSize int) int {
	offsetBits := stdbits.Len(uint(fullSize))
	offsetBytes := ceilDiv8(offsetBits)
	if offsetBytes < 1 {
		offsetBytes = 1
	}
	return offsetBytes
}

// appendUintNChecked is appendUintN with a range check: it fails rather than
// silently truncating v's high bytes when v does not fit in n bytes. Every
// s_bytes-width field in the envelope (cell/root counts, reference indices)
// must go through this instead of the bare appendUintN, since sizeBytesFor
// preserves §9's clamp-to-1 quirk and so cannot be trusted to have grown to
// fit cellsNum on its own.
func appendUintNChecked(out []byte, v uint64, n int) ([]byte, error) {
	if n < 8 && v>>uint(8*n) != 0 {
		return nil, fmt.Errorf("boc: serialize: value %d does not fit in %d byte(s)", v, n)
	}
	return appendUintN(out, v, n), nil
}

func serializeCellForBoc(c *cell.Cell, w *walker, sBytes int) ([]byte, error) {
	body, err := c.DataWithDescriptors()
	if err != nil {
		return nil, err
	}
	for _, ref := range c.Refs {
		h, err := w.hashFor(ref)
		if err != nil {
			return nil, err
		}
		idx, ok := w.indexOf[h]
		if !ok {
			return nil, fmt.Errorf("boc: serialize: internal: reference missing from topological order")
		}
		body, err = appendUintNChecked(body, uint64(idx), sBytes)
		if err != nil {
			return nil, fmt.Errorf("boc: serialize: reference index %d exceeds %d-cell graph's s_bytes capacity: %w", idx, len(w.order), err)
		}
	}
	return body, nil
}

// SerializeRoots encodes the DAGs reachable from roots into the standard
// B5EE9C72 envelope, with the given has_idx and CRC32-C trailer flags.
// has_cache_bits and the reserved flags field carry no meaning this codec
// assigns, so they are always written zero.
func SerializeRoots(roots []*cell.Cell, hasIdx, hasCRC bool) ([]byte, error) {
	if len(roots) == 0 {
		return nil, fmt.Errorf("boc: serialize: at least one root is required")
	}

	w, err := treeWalkMulti(roots)
	if err != nil {
		return nil, err
	}

	cellsNum := len(w.order)
	sBytes := sizeBytesFor(cellsNum)

	bodies := make([][]byte, cellsNum)
	offsets := make([]int, cellsNum)
	fullSize := 0
	for i, c := range w.order {
		body, err := serializeCellForBoc(c, w, sBytes)
		if err != nil {
			return nil, err
		}
		bodies[i] = body
		offsets[i] = fullSize
		fullSize += len(body)
	}

	offsetBytes := offsetBytesFor(fullSize)
	rootsNum := len(roots)
	const absentNum = 0

	out := make([]byte, 0, fullSize+32)
	out = append(out, magicStandard[:]...)

	var flagsByte byte
	if hasIdx {
		flagsByte |= 0x80
	}
	if hasCRC {
		flagsByte |= 0x40
	}
	flagsByte |= byte(sBytes & 0x07)
	out = append(out, flagsByte)
	out = append(out, byte(offsetBytes))
	out, err = appendUintNChecked(out, uint64(cellsNum), sBytes)
	if err != nil {
		return nil, fmt.Errorf("boc: serialize: cells_num %d exceeds s_bytes capacity: %w", cellsNum, err)
	}
	out, err = appendUintNChecked(out, uint64(rootsNum), sBytes)
	if err != nil {
		return nil, fmt.Errorf("boc: serialize: roots_num %d exceeds s_bytes capacity: %w", rootsNum, err)
	}
	out, err = appendUintNChecked(out, uint64(absentNum), sBytes)
	if err != nil {
		return nil, fmt.Errorf("boc: serialize: absent_num %d exceeds s_bytes capacity: %w", absentNum, err)
	}
	out = appendUintN(out, uint64(fullSize), offsetBytes)

	for _, root := range roots {
		h, err := w.hashFor(root)
		if err != nil {
			return nil, err
		}
		idx, ok := w.indexOf[h]
		if !ok {
			return nil, fmt.Errorf("boc: serialize: internal: root missing from topological order")
		}
		out, err = appendUintNChecked(out, uint64(idx), sBytes)
		if err != nil {
			return nil, fmt.Errorf("boc: serialize: root index %d exceeds %d-cell graph's s_bytes capacity: %w", idx, cellsNum, err)
		}
	}

	if hasIdx {
		for _, off := range offsets {
			out = appendUintN(out, uint64(off), offsetBytes)
		}
	}

	for _, body := range bodies {
		out = append(out, body...)
	}

	if hasCRC {
		out = appendCRC32C(out)
	}

	return out, nil
}

// Serialize encodes the single-root DAG rooted at root.
func Serialize(root *cell.Cell, hasIdx, hasCRC bool) ([]byte, error) {
	return SerializeRoots([]*cell.Cell{root}, hasIdx, hasCRC)
}
