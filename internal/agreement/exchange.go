package agreement

import (
	"crypto/ecdh"
	"crypto/rand"
	"fmt"
)

// A KeyPair is an ephemeral Diffie-Hellman key pair bound to a single curve.
// The private scalar never leaves the process except through PrivateBytes,
// which exists solely so callers can place it in an OS credential store.
//
// A KeyPair is not mutated after construction, so concurrent read-only use
// (PublicBytes, SharedSecret against different peers) is safe.
type KeyPair struct {
	curve Curve
	priv  *ecdh.PrivateKey
}

// GenerateKeyPair creates a fresh key pair on the given curve.
func GenerateKeyPair(curve Curve) (*KeyPair, error) {
	priv, err := curve.ecdh().GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generating %s key pair: %w", curve, err)
	}
	return &KeyPair{curve: curve, priv: priv}, nil
}

// LoadKeyPair reconstructs a key pair from a previously exported private
// scalar, e.g. one read back from a credential store.
func LoadKeyPair(curve Curve, scalar []byte) (*KeyPair, error) {
	priv, err := curve.ecdh().NewPrivateKey(scalar)
	if err != nil {
		return nil, fmt.Errorf("loading %s private key: %w", curve, err)
	}
	return &KeyPair{curve: curve, priv: priv}, nil
}

// Curve returns the curve the pair was generated on.
func (k *KeyPair) Curve() Curve {
	return k.curve
}

// PublicBytes returns the raw encoding of the public point.
func (k *KeyPair) PublicBytes() []byte {
	return k.priv.PublicKey().Bytes()
}

// PrivateBytes returns a copy of the private scalar. The caller owns the
// copy and must Zeroize it when done.
func (k *KeyPair) PrivateBytes() []byte {
	return k.priv.Bytes()
}

// SharedSecret performs the Diffie-Hellman exchange with a peer's raw public
// bytes and returns the raw shared secret. The peer bytes must be a valid
// point on the pair's own curve; anything else, including low-order x25519
// points whose exchange would yield the all-zero secret, fails with an error
// wrapping [ErrMalformedPeerKey], so small-subgroup confinement never
// reaches the caller.
//
// The caller owns the returned buffer and must Zeroize it on every exit path
// once the seed has been derived from it.
func (k *KeyPair) SharedSecret(peerPublic []byte) ([]byte, error) {
	pub, err := k.curve.ecdh().NewPublicKey(peerPublic)
	if err != nil {
		// The error names the curve and the defect, never key bytes.
		return nil, fmt.Errorf("%w: %s", ErrMalformedPeerKey, err)
	}
	secret, err := k.priv.ECDH(pub)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedPeerKey, err)
	}
	return secret, nil
}

// Destroy renders the pair unusable. crypto/ecdh keys are immutable, so the
// wrapped key is dropped for collection; buffers this package handed out via
// PrivateBytes or SharedSecret remain the caller's responsibility.
func (k *KeyPair) Destroy() {
	k.priv = nil
}
