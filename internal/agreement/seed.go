package agreement

import (
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/tokenaccess/otpkit/pkg/digest"
)

// DefaultSeedLength is the HOTP seed length recommended by RFC 4226.
const DefaultSeedLength = 20

// DeriveSeed stretches a raw shared secret into a fixed-length HOTP seed
// using HKDF with no salt and the user identity as the info parameter.
//
// Binding the identity into derivation keeps seeds unlinkable across user
// contexts even if the same raw secret were ever produced twice. Both
// parties must use byte-identical identity strings; a mismatch is not
// detectable here and silently yields a non-interoperable seed.
//
// The caller retains ownership of secret and must Zeroize it after this
// returns.
func DeriveSeed(secret []byte, identity string, alg digest.Algorithm, length int) ([]byte, error) {
	if length <= 0 {
		length = DefaultSeedLength
	}
	seed := make([]byte, length)
	kdf := hkdf.New(alg.New, secret, nil, []byte(identity))
	if _, err := io.ReadFull(kdf, seed); err != nil {
		return nil, fmt.Errorf("deriving seed: %w", err)
	}
	return seed, nil
}
