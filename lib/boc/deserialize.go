// Package boc implements the Bag-of-Cells wire codec: serializing a cell DAG
// into the topologically-ordered, optionally indexed and CRC32-C protected
// envelope format, and parsing that envelope back into a cell graph.
package boc

import (
	"fmt"

	"github.com/gotonboc/tonboc/lib/cell"
)

// deserializeCellData parses one cell's d1/d2 descriptors, its top-upped
// data payload, and its (still unresolved) reference indices from the front
// of cellData, returning the built cell, its reference indices in order, and
// the remaining unconsumed bytes.
func deserializeCellData(cellData []byte, refIndexSize int) (*cell.Cell, []int, []byte, error) {
	if len(cellData) < 2 {
		return nil, nil, nil, fmt.Errorf("boc: not enough bytes for cell descriptors")
	}
	d1, d2 := cellData[0], cellData[1]
	cellData = cellData[2:]

	isExotic := d1&8 != 0
	refCount := int(d1 & 7)
	dataBytes := (int(d2) + 1) / 2
	fullyFilled := d2&1 == 0

	var c *cell.Cell
	if isExotic {
		c = cell.NewExotic()
	} else {
		c = cell.New()
	}

	if len(cellData) < dataBytes+refIndexSize*refCount {
		return nil, nil, nil, fmt.Errorf("boc: not enough bytes for cell data/refs")
	}

	if err := c.Bits.SetTopUppedArray(cellData[:dataBytes], fullyFilled); err != nil {
		return nil, nil, nil, err
	}
	cellData = cellData[dataBytes:]

	refs := make([]int, refCount)
	for i := 0; i < refCount; i++ {
		refs[i] = readUintN(refIndexSize, cellData)
		cellData = cellData[refIndexSize:]
	}

	return c, refs, cellData, nil
}

// Deserialize parses a full BoC envelope and returns its root cells, in the
// order the header's root list names them.
func Deserialize(data []byte) ([]*cell.Cell, error) {
	h, err := parseHeader(data)
	if err != nil {
		return nil, err
	}
	if h.absentNum != 0 {
		return nil, fmt.Errorf("boc: absent cells are not supported")
	}

	cells := make([]*cell.Cell, h.cellsNum)
	refLists := make([][]int, h.cellsNum)
	remaining := h.cellsData
	for i := 0; i < h.cellsNum; i++ {
		c, refs, rest, err := deserializeCellData(remaining, h.sizeBytes)
		if err != nil {
			return nil, fmt.Errorf("boc: cell %d: %w", i, err)
		}
		cells[i] = c
		refLists[i] = refs
		remaining = rest
	}

	for i := h.cellsNum - 1; i >= 0; i-- {
		for _, r := range refLists[i] {
			if r <= i {
				return nil, fmt.Errorf("boc: cell %d references %d, violating the forward-reference invariant", i, r)
			}
			if r >= h.cellsNum {
				return nil, fmt.Errorf("boc: cell %d references out-of-range index %d", i, r)
			}
			if err := cells[i].AddRef(cells[r]); err != nil {
				return nil, fmt.Errorf("boc: cell %d: %w", i, err)
			}
		}
	}

	roots := make([]*cell.Cell, len(h.rootList))
	for i, idx := range h.rootList {
		if idx < 0 || idx >= h.cellsNum {
			return nil, fmt.Errorf("boc: root index %d out of range", idx)
		}
		roots[i] = cells[idx]
	}
	return roots, nil
}
