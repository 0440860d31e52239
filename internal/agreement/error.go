package agreement

import "errors"

var (
	// ErrUnsupportedCurve indicates a curve name outside the supported
	// Diffie-Hellman-capable set.
	ErrUnsupportedCurve = errors.New("unsupported curve")
	// ErrMalformedPeerKey indicates peer public-key bytes that do not decode
	// to a valid point on the negotiated curve, including the identity point
	// and low-order points where the curve implementation detects them.
	ErrMalformedPeerKey = errors.New("malformed peer public key")
)
