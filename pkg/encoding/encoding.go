// Package encoding provides the reversible byte-to-text encodings used
// throughout the module: a closed family of base-N encodings for keys, seeds,
// and digests, plus URL-safe percent-quoting for embedding encoded values in
// transport strings.
//
// Every encoding round-trips exactly: Decode(Encode(b)) == b for all byte
// slices, including the empty slice. Decoding never silently truncates or
// substitutes; malformed input is rejected with an error wrapping
// [ErrMalformedEncoding].
package encoding

import (
	"encoding/base32"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedEncoding indicates text that is not valid output of the
// expected encoding.
var ErrMalformedEncoding = errors.New("malformed encoding")

// ErrUnknownBase indicates an unrecognized encoding-base name.
var ErrUnknownBase = errors.New("unknown encoding base")

// Base identifies one of the supported byte-to-text encodings. The zero value
// is Base64, the default used for key and seed transport.
type Base int

const (
	Base64 Base = iota
	Base64URL
	Base32
	Base16
)

var basesByName = map[string]Base{
	"b64":    Base64,
	"b64url": Base64URL,
	"b32":    Base32,
	"b16":    Base16,
}

var baseNames = map[Base]string{
	Base64:    "b64",
	Base64URL: "b64url",
	Base32:    "b32",
	Base16:    "b16",
}

// ParseBase maps an encoding-base name to a Base. Names are matched
// case-insensitively. Unrecognized names return an error wrapping
// [ErrUnknownBase].
func ParseBase(name string) (Base, error) {
	if base, ok := basesByName[strings.ToLower(name)]; ok {
		return base, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownBase, name)
}

// BaseNames returns the recognized encoding-base names.
func BaseNames() []string {
	names := make([]string, 0, len(basesByName))
	for name := range basesByName {
		names = append(names, name)
	}
	return names
}

func (b Base) String() string {
	if name, ok := baseNames[b]; ok {
		return name
	}
	return fmt.Sprintf("base(%d)", int(b))
}

// Encode converts raw bytes to text in the receiver's encoding.
func (b Base) Encode(raw []byte) string {
	switch b {
	case Base64URL:
		return base64.URLEncoding.EncodeToString(raw)
	case Base32:
		return base32.StdEncoding.EncodeToString(raw)
	case Base16:
		return strings.ToUpper(hex.EncodeToString(raw))
	default:
		return base64.StdEncoding.EncodeToString(raw)
	}
}

// Decode reverses Encode. Text that is not valid output of the receiver's
// encoding yields an error wrapping [ErrMalformedEncoding].
func (b Base) Decode(text string) ([]byte, error) {
	var raw []byte
	var err error
	switch b {
	case Base64URL:
		raw, err = base64.URLEncoding.DecodeString(text)
	case Base32:
		raw, err = base32.StdEncoding.DecodeString(text)
	case Base16:
		// Encode emits uppercase only; lowercase digits are not valid output.
		if strings.ContainsAny(text, "abcdef") {
			return nil, fmt.Errorf("%w: lowercase hex digit", ErrMalformedEncoding)
		}
		raw, err = hex.DecodeString(text)
	default:
		raw, err = base64.StdEncoding.DecodeString(text)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedEncoding, err)
	}
	return raw, nil
}
