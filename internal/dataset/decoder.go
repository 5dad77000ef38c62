package dataset

import (
	"strings"
	"unicode/utf8"

	"github.com/opensante/psmap/internal/registry"
	"golang.org/x/text/encoding/charmap"
)

// Decode converts a raw payload to UTF-8 according to the encoding
// declared in the category definition. Legacy single-byte encodings
// decode losslessly; UTF-8 payloads keep their bytes, with invalid
// sequences replaced so one bad byte does not sink a 50MB file. A
// leading byte-order mark is stripped either way.
func Decode(payload []byte, encoding string) string {
	var text string
	switch strings.ToLower(encoding) {
	case registry.EncodingLatin1:
		text = decodeCharmap(payload, charmap.ISO8859_1)
	case registry.EncodingWindows1252:
		text = decodeCharmap(payload, charmap.Windows1252)
	default:
		text = replaceInvalidUTF8(payload)
	}
	return strings.TrimPrefix(text, "\uFEFF")
}

// decodeCharmap maps every byte through the charset table. Single-byte
// charsets cannot fail mid-stream, so the error path only covers an
// unmapped byte, which the decoder already replaces.
func decodeCharmap(payload []byte, cm *charmap.Charmap) string {
	decoded, err := cm.NewDecoder().Bytes(payload)
	if err != nil {
		return replaceInvalidUTF8(payload)
	}
	return string(decoded)
}

// replaceInvalidUTF8 substitutes U+FFFD for invalid sequences.
func replaceInvalidUTF8(payload []byte) string {
	if utf8.Valid(payload) {
		return string(payload)
	}
	return strings.ToValidUTF8(string(payload), "�")
}
