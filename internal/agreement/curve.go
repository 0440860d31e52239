// Package agreement implements the Diffie-Hellman core of the module:
// ephemeral key pairs on a closed set of curves, the raw shared-secret
// exchange, and the HKDF step that binds a shared secret to a user identity.
//
// Only key-agreement curves appear in the enumeration. Signature-only curves
// (ed25519 and friends) are deliberately absent; asking for one fails with
// [ErrUnsupportedCurve] rather than silently substituting a usable curve.
package agreement

import (
	"crypto/ecdh"
	"fmt"
	"strings"
)

// Curve identifies a supported Diffie-Hellman-capable elliptic curve. The
// zero value is X25519, the default exchange curve.
type Curve int

const (
	X25519 Curve = iota
	P256
	P384
	P521
)

var curvesByName = map[string]Curve{
	"x25519": X25519,
	"p256":   P256,
	"p384":   P384,
	"p521":   P521,
}

var curveNames = map[Curve]string{
	X25519: "x25519",
	P256:   "p256",
	P384:   "p384",
	P521:   "p521",
}

// ParseCurve maps a curve name to a Curve. Names are matched
// case-insensitively. Unrecognized names return an error wrapping
// [ErrUnsupportedCurve].
func ParseCurve(name string) (Curve, error) {
	if curve, ok := curvesByName[strings.ToLower(name)]; ok {
		return curve, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedCurve, name)
}

// CurveNames returns the recognized curve names.
func CurveNames() []string {
	names := make([]string, 0, len(curvesByName))
	for name := range curvesByName {
		names = append(names, name)
	}
	return names
}

func (c Curve) String() string {
	if name, ok := curveNames[c]; ok {
		return name
	}
	return fmt.Sprintf("curve(%d)", int(c))
}

func (c Curve) ecdh() ecdh.Curve {
	switch c {
	case P256:
		return ecdh.P256()
	case P384:
		return ecdh.P384()
	case P521:
		return ecdh.P521()
	default:
		return ecdh.X25519()
	}
}

// PrivateKeySize returns the length in bytes of a private scalar on the
// curve.
func (c Curve) PrivateKeySize() int {
	switch c {
	case P256:
		return 32
	case P384:
		return 48
	case P521:
		return 66
	default:
		return 32
	}
}
