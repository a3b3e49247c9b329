package boc

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
)

// castagnoliTable is the reflected Castagnoli polynomial 0x82F63B78 used for
// BoC integrity, exactly as mr-tron/tongo's boc.go builds it.
var castagnoliTable = crc32.MakeTable(crc32.Castagnoli)

func crc32c(data []byte) uint32 {
	return crc32.Checksum(data, castagnoliTable)
}

// appendCRC32C appends the little-endian CRC32-C of data to data itself.
func appendCRC32C(data []byte) []byte {
	var trailer [4]byte
	binary.LittleEndian.PutUint32(trailer[:], crc32c(data))
	return append(data, trailer[:]...)
}

// verifyCRC32C checks that the last 4 bytes of full are the little-endian
// CRC32-C of everything preceding them.
func verifyCRC32C(full []byte) error {
	if len(full) < 4 {
		return fmt.Errorf("boc: not enough bytes for crc32c trailer")
	}
	body := full[:len(full)-4]
	want := binary.LittleEndian.Uint32(full[len(full)-4:])
	got := crc32c(body)
	if got != want {
		return fmt.Errorf("boc: crc32c mismatch: computed %#x, trailer says %#x", got, want)
	}
	return nil
}
