// Package tonboc is a thin root façade over lib/boc and lib/cell: the same
// shape as the teacher's root-level parser.go, just pointed at Bag-of-Cells
// data instead of an ASN.1 source file.
package tonboc

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/gotonboc/tonboc/lib/boc"
	"github.com/gotonboc/tonboc/lib/cell"
)

// LoadBoc parses raw BoC bytes and returns its root cells.
func LoadBoc(data []byte) ([]*cell.Cell, error) {
	return boc.Deserialize(data)
}

// LoadBocBase64 decodes s as standard base64 and parses the result as a BoC.
func LoadBocBase64(s string) ([]*cell.Cell, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("tonboc: base64 decode: %w", err)
	}
	return LoadBoc(data)
}

// LoadBocHex decodes s as hex and parses the result as a BoC.
func LoadBocHex(s string) ([]*cell.Cell, error) {
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("tonboc: hex decode: %w", err)
	}
	return LoadBoc(data)
}

// LoadBocFile reads filename and parses its contents as raw BoC bytes.
func LoadBocFile(filename string) ([]*cell.Cell, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("tonboc: read %s: %w", filename, err)
	}
	return LoadBoc(data)
}

// SerializeBase64 serializes root and encodes the result as standard base64.
func SerializeBase64(root *cell.Cell, hasIdx, hasCRC bool) (string, error) {
	data, err := boc.Serialize(root, hasIdx, hasCRC)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// SerializeHex serializes root and encodes the result as lower-case hex.
func SerializeHex(root *cell.Cell, hasIdx, hasCRC bool) (string, error) {
	data, err := boc.Serialize(root, hasIdx, hasCRC)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(data), nil
}
