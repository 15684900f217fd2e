package wire

import (
	"strconv"
	"strings"
)

// DecodeEscapes replaces every \uXXXX escape in s with its UTF-8 encoding.
//
// Up to four bytes after \u are taken as the code point, fewer at the end of
// the input. Code points are encoded on their own: surrogate halves are not
// paired and come out as three bytes each. A sequence whose digits do not
// parse as hex is copied unchanged, as is every other backslash pair and a
// trailing lone backslash.
func DecodeEscapes(s string) string {
	if strings.IndexByte(s, '\\') < 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); {
		if s[i] != '\\' {
			b.WriteByte(s[i])
			i++
			continue
		}

		i++
		if i == len(s) {
			b.WriteByte('\\')
			break
		}
		if s[i] != 'u' {
			b.WriteByte('\\')
			b.WriteByte(s[i])
			i++
			continue
		}

		i++
		end := min(i+4, len(s))
		digits := s[i:end]
		i = end
		if !writeCodePoint(&b, digits) {
			b.WriteString(`\u`)
			b.WriteString(digits)
		}
	}
	return b.String()
}

func writeCodePoint(b *strings.Builder, digits string) bool {
	cp, err := strconv.ParseUint(digits, 16, 16)
	if err != nil {
		return false
	}
	switch {
	case cp < 0x80:
		b.WriteByte(byte(cp))
	case cp < 0x800:
		b.WriteByte(0xC0 | byte(cp>>6))
		b.WriteByte(0x80 | byte(cp&0x3F))
	default:
		b.WriteByte(0xE0 | byte(cp>>12))
		b.WriteByte(0x80 | byte(cp>>6&0x3F))
		b.WriteByte(0x80 | byte(cp&0x3F))
	}
	return true
}
