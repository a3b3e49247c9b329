package boc

import (
	"encoding/binary"
	"fmt"
)

var (
	magicStandard = [4]byte{0xB5, 0xEE, 0x9C, 0x72}
	magicLean     = [4]byte{0x68, 0xFF, 0x65, 0xF3}
	magicLeanCRC  = [4]byte{0xAC, 0xC3, 0xA7, 0x28}
)

// header holds the fields parsed from a BoC's envelope, ahead of the cell
// body data that follows it.
type header struct {
	hasIdx       bool
	hasCRC32C    bool
	hasCacheBits bool
	flags        int
	sizeBytes    int
	offsetBytes  int
	cellsNum     int
	rootsNum     int
	absentNum    int
	totCellsSize int
	rootList     []int
	cellsData    []byte
}

func readUintN(n int, data []byte) int {
	var v uint64
	for i := 0; i < n; i++ {
		v = v<<8 | uint64(data[i])
	}
	return int(v)
}

// parseHeader consumes original's envelope fields and leaves the cell body
// bytes (validated against the declared total size, with the CRC trailer
// checked and stripped) in the returned header's cellsData.
func parseHeader(original []byte) (*header, error) {
	data := original
	if len(data) < 5 {
		return nil, fmt.Errorf("boc: not enough bytes for magic prefix")
	}

	var prefix [4]byte
	copy(prefix[:], data[:4])
	data = data[4:]

	var h header
	switch prefix {
	case magicStandard:
		flagsByte := data[0]
		h.hasIdx = flagsByte&0x80 != 0
		h.hasCRC32C = flagsByte&0x40 != 0
		h.hasCacheBits = flagsByte&0x20 != 0
		h.flags = int((flagsByte >> 3) & 0x03)
		h.sizeBytes = int(flagsByte & 0x07)
		data = data[1:]
	case magicLean:
		h.hasIdx = true
		if len(data) < 1 {
			return nil, fmt.Errorf("boc: not enough bytes for size_bytes")
		}
		h.sizeBytes = int(data[0])
		data = data[1:]
	case magicLeanCRC:
		h.hasIdx = true
		h.hasCRC32C = true
		if len(data) < 1 {
			return nil, fmt.Errorf("boc: not enough bytes for size_bytes")
		}
		h.sizeBytes = int(data[0])
		data = data[1:]
	default:
		return nil, fmt.Errorf("boc: unrecognized magic prefix %x", prefix)
	}

	if h.sizeBytes <= 0 {
		return nil, fmt.Errorf("boc: invalid size_bytes %d", h.sizeBytes)
	}
	if len(data) < 1+5*h.sizeBytes {
		return nil, fmt.Errorf("boc: not enough bytes for cell counters")
	}

	h.offsetBytes = int(data[0])
	data = data[1:]
	if h.offsetBytes <= 0 {
		return nil, fmt.Errorf("boc: invalid offset_bytes %d", h.offsetBytes)
	}

	h.cellsNum = readUintN(h.sizeBytes, data)
	data = data[h.sizeBytes:]
	h.rootsNum = readUintN(h.sizeBytes, data)
	data = data[h.sizeBytes:]
	h.absentNum = readUintN(h.sizeBytes, data)
	data = data[h.sizeBytes:]

	if len(data) < h.offsetBytes {
		return nil, fmt.Errorf("boc: not enough bytes for tot_cells_size")
	}
	h.totCellsSize = readUintN(h.offsetBytes, data)
	data = data[h.offsetBytes:]

	if len(data) < h.rootsNum*h.sizeBytes {
		return nil, fmt.Errorf("boc: not enough bytes for root list")
	}
	h.rootList = make([]int, h.rootsNum)
	for i := 0; i < h.rootsNum; i++ {
		h.rootList[i] = readUintN(h.sizeBytes, data)
		data = data[h.sizeBytes:]
	}

	if h.hasIdx {
		need := h.cellsNum * h.offsetBytes
		if len(data) < need {
			return nil, fmt.Errorf("boc: not enough bytes for offset index")
		}
		data = data[need:]
	}

	if len(data) < h.totCellsSize {
		return nil, fmt.Errorf("boc: not enough bytes for cell data")
	}
	h.cellsData = data[:h.totCellsSize]
	data = data[h.totCellsSize:]

	if h.hasCRC32C {
		if len(data) != 4 {
			return nil, fmt.Errorf("boc: expected exactly 4 trailing crc32c bytes, found %d", len(data))
		}
		if err := verifyCRC32C(original); err != nil {
			return nil, err
		}
		data = data[4:]
	}

	if len(data) > 0 {
		return nil, fmt.Errorf("boc: %d unexpected trailing bytes", len(data))
	}

	return &h, nil
}

func appendUintN(out []byte, v uint64, n int) []byte {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], v)
	return append(out, tmp[8-n:]...)
}
