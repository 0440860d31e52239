package encoding

import (
	"fmt"
	"strings"
)

// Characters that pass through URLQuote unescaped: RFC 3986 unreserved
// characters plus '/'.
func quoteSafe(c byte) bool {
	switch {
	case 'A' <= c && c <= 'Z', 'a' <= c && c <= 'z', '0' <= c && c <= '9':
		return true
	case c == '-' || c == '.' || c == '_' || c == '~' || c == '/':
		return true
	}
	return false
}

const upperHex = "0123456789ABCDEF"

// URLQuote percent-escapes text so it can be embedded in a URL or other
// transport string without further framing.
func URLQuote(text string) string {
	var quoted strings.Builder
	quoted.Grow(len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		if quoteSafe(c) {
			quoted.WriteByte(c)
			continue
		}
		quoted.WriteByte('%')
		quoted.WriteByte(upperHex[c>>4])
		quoted.WriteByte(upperHex[c&0x0f])
	}
	return quoted.String()
}

// URLUnquote reverses URLQuote, returning the raw bytes of the quoted text.
// Truncated or non-hexadecimal percent escapes yield an error wrapping
// [ErrMalformedEncoding].
func URLUnquote(text string) ([]byte, error) {
	raw := make([]byte, 0, len(text))
	for i := 0; i < len(text); {
		if text[i] != '%' {
			raw = append(raw, text[i])
			i++
			continue
		}
		if i+2 >= len(text) {
			return nil, fmt.Errorf("%w: truncated percent escape at offset %d", ErrMalformedEncoding, i)
		}
		hi, okHi := unhex(text[i+1])
		lo, okLo := unhex(text[i+2])
		if !okHi || !okLo {
			return nil, fmt.Errorf("%w: invalid percent escape at offset %d", ErrMalformedEncoding, i)
		}
		raw = append(raw, hi<<4|lo)
		i += 3
	}
	return raw, nil
}

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
