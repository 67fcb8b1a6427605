package compiler

import (
	"bytes"
	"fmt"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// readSource reads an IDL unit and decodes it to a UTF-8 string,
// detecting the source encoding from its byte-order mark. Tooling
// that emits IDL from Windows editors routinely saves UTF-16 with a
// BOM; files without one are assumed to already be UTF-8.
func readSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return string(data[3:]), nil
	}
	if len(data) >= 2 && data[0] == 0xFF && data[1] == 0xFE {
		return decodeUTF16(path, data, unicode.LittleEndian)
	}
	if len(data) >= 2 && data[0] == 0xFE && data[1] == 0xFF {
		return decodeUTF16(path, data, unicode.BigEndian)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("reading %s: not valid UTF-8 and no UTF-16 byte-order mark present", path)
	}
	return string(data), nil
}

// decodeUTF16 transcodes a BOM-prefixed UTF-16 byte stream to UTF-8.
func decodeUTF16(path string, data []byte, endianness unicode.Endianness) (string, error) {
	decoder := unicode.UTF16(endianness, unicode.UseBOM).NewDecoder()
	utf8Data, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return "", fmt.Errorf("decoding %s as UTF-16: %w", path, err)
	}
	return string(bytes.TrimPrefix(utf8Data, []byte("\xEF\xBB\xBF"))), nil
}
