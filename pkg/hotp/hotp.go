// Package hotp implements the HMAC-based one-time password algorithm of
// RFC 4226 over the module's encoded pre-shared keys.
//
// Generation is stateless: the caller supplies the counter and is
// responsible for advancing it and for drift tolerance when verifying. The
// [Verifier] type layers a bounded look-ahead window with replay rejection
// on top for callers that want that policy handled.
package hotp

import (
	"crypto/hmac"
	"crypto/subtle"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/tokenaccess/otpkit/pkg/digest"
	"github.com/tokenaccess/otpkit/pkg/encoding"
)

const (
	MinDigits     = 6
	MaxDigits     = 8
	DefaultDigits = 6
)

var (
	// ErrInvalidPSK indicates a pre-shared key that does not decode under
	// the configured base.
	ErrInvalidPSK = errors.New("invalid pre-shared key")
	// ErrInvalidDigitCount indicates a requested code length outside
	// [MinDigits, MaxDigits].
	ErrInvalidDigitCount = errors.New("invalid digit count")
)

// powers of ten for truncation, indexed by digit count
var digitsPower = [MaxDigits + 1]uint32{1, 10, 100, 1000, 10000, 100000, 1000000, 10000000, 100000000}

// Generate computes the RFC 4226 value for a single counter: HMAC over the
// 8-byte big-endian counter, dynamic truncation, reduction modulo 10^digits,
// zero-padded to digits characters. Deterministic in all arguments.
func Generate(psk string, counter uint64, base encoding.Base, alg digest.Algorithm, digits int) (string, error) {
	if digits < MinDigits || digits > MaxDigits {
		return "", fmt.Errorf("%w: %d", ErrInvalidDigitCount, digits)
	}
	key, err := base.Decode(psk)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidPSK, err)
	}

	mac := hmac.New(alg.New, key)
	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], counter)
	mac.Write(msg[:])
	sum := mac.Sum(nil)

	// Dynamic truncation: the low nibble of the last byte picks a 4-byte
	// window; the high bit is masked to avoid signedness ambiguity.
	offset := sum[len(sum)-1] & 0x0f
	code := binary.BigEndian.Uint32(sum[offset:offset+4]) & 0x7fffffff

	return fmt.Sprintf("%0*d", digits, code%digitsPower[digits]), nil
}

// Validate reports whether code is the HOTP value for the given counter.
// The comparison is constant-time. Malformed inputs validate as false.
func Validate(code, psk string, counter uint64, base encoding.Base, alg digest.Algorithm, digits int) bool {
	expected, err := Generate(psk, counter, base, alg, digits)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(code), []byte(expected)) == 1
}
