// Package encoding converts the fixed-size, NUL-padded name fields of Quake
// model and archive formats to and from UTF-8. Names on disk are Windows-1252.
package encoding

import (
	"bytes"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Latin1ToUTF8 converts Windows-1252 bytes to a UTF-8 string.
func Latin1ToUTF8(data []byte) string {
	result, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), data)
	if err != nil {
		return string(data)
	}
	return string(result)
}

// UTF8ToLatin1 converts a UTF-8 string to Windows-1252. Runes without a
// Windows-1252 form become '?'.
func UTF8ToLatin1(s string) []byte {
	result := make([]byte, 0, len(s))
	for _, r := range s {
		b, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			b = '?'
		}
		result = append(result, b)
	}
	return result
}

// FixedString decodes a NUL-terminated name from a fixed-size field.
func FixedString(data []byte) string {
	if i := bytes.IndexByte(data, 0); i >= 0 {
		data = data[:i]
	}
	return Latin1ToUTF8(data)
}

// PutFixedString encodes s into a fixed-size field of size bytes. The name is
// truncated to size-1 bytes so the field always ends in NUL.
func PutFixedString(s string, size int) []byte {
	result := make([]byte, size)
	if size == 0 {
		return result
	}
	copy(result[:size-1], UTF8ToLatin1(s))
	return result
}

// NormalizePath turns an archive or model path into the form used for
// case-insensitive lookups: forward slashes, lower case, no leading "./".
func NormalizePath(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	path = strings.TrimPrefix(path, "./")
	return strings.ToLower(path)
}
