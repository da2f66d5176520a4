// Package encode turns a serialized diagram document into the compact
// token draw.io accepts in a URL fragment.
//
// The chain is fixed by the viewer and bit-exact: zlib-compress, strip the
// 2-byte format header and 4-byte Adler-32 trailer (the viewer expects a
// headerless deflate stream), base64-encode, then percent-encode with an
// empty leave-unescaped set. A consumer reverses each step in order, using
// a raw-inflate routine for the final decompression.
package encode

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"fmt"
	"strings"
)

// zlib framing sizes. CMF/FLG lead the stream, the Adler-32 checksum
// trails it; both must go for a headerless deflate payload.
const (
	zlibHeaderSize  = 2
	zlibTrailerSize = 4
)

// Deflate compresses data and strips the zlib framing, leaving the raw
// deflate stream.
func Deflate(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("compress: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("compress: %w", err)
	}

	framed := buf.Bytes()
	if len(framed) < zlibHeaderSize+zlibTrailerSize {
		return nil, fmt.Errorf("compress: stream shorter than zlib framing (%d bytes)", len(framed))
	}
	return framed[zlibHeaderSize : len(framed)-zlibTrailerSize], nil
}

// Token runs the full document-to-fragment chain:
// headerless deflate, base64, percent-encode.
func Token(document []byte) (string, error) {
	raw, err := Deflate(document)
	if err != nil {
		return "", err
	}
	return PercentEncode(base64.StdEncoding.EncodeToString(raw)), nil
}

// PercentEncode escapes every character that is not an ASCII letter or
// digit, using uppercase hex. The viewer's decoder tolerates nothing in
// the unescaped set beyond alphanumerics.
func PercentEncode(s string) string {
	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isAlphanumeric(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteString(fmt.Sprintf("%%%02X", c))
	}
	return b.String()
}

func isAlphanumeric(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
