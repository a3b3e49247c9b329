package main

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
)

// readInput loads path (or stdin, if path is "-") and decodes it per format,
// one of "raw", "hex", or "base64".
func readInput(path, format string) ([]byte, error) {
	var raw []byte
	var err error
	if path == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}

	switch strings.ToLower(format) {
	case "raw":
		return raw, nil
	case "hex":
		return hex.DecodeString(strings.TrimSpace(string(raw)))
	case "base64":
		return base64.StdEncoding.DecodeString(strings.TrimSpace(string(raw)))
	default:
		return nil, fmt.Errorf("unknown format %q, want raw, hex, or base64", format)
	}
}
