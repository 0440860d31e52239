// Package pairing exposes the key-agreement flow that sets up an OTP
// relationship between two parties.
//
// Each party creates an [Exchange], sends its exported public key to the
// peer out of band, and calls [Exchange.DerivePSK] with the peer's key and
// an agreed user identity. Both sides obtain the same encoded pre-shared
// key, which seeds HOTP generation (see package hotp). The curve, encoding
// base, and identity string must be agreed out of band; none of them are
// embedded in the exported key.
package pairing

import (
	"github.com/tokenaccess/otpkit/internal/agreement"
	"github.com/tokenaccess/otpkit/pkg/digest"
	"github.com/tokenaccess/otpkit/pkg/encoding"
)

// Expose the agreement enumerations and errors from the otherwise internal
// package.

type Curve = agreement.Curve

const (
	CurveX25519 = agreement.X25519
	CurveP256   = agreement.P256
	CurveP384   = agreement.P384
	CurveP521   = agreement.P521
)

var (
	ErrUnsupportedCurve = agreement.ErrUnsupportedCurve
	ErrMalformedPeerKey = agreement.ErrMalformedPeerKey

	// ParseCurve maps a curve name to a Curve, rejecting names outside the
	// Diffie-Hellman-capable set with ErrUnsupportedCurve.
	ParseCurve = agreement.ParseCurve

	// CurveNames returns the recognized curve names.
	CurveNames = agreement.CurveNames
)

// Options configure an Exchange. The zero value selects x25519, standard
// base64, SHA256, and a 20-byte seed, matching the defaults used by peers
// that configure nothing.
type Options struct {
	Curve      Curve
	Base       encoding.Base
	Algorithm  digest.Algorithm
	SeedLength int // 0 means agreement.DefaultSeedLength (20)
}

// An Exchange owns one ephemeral key pair and derives identity-bound
// pre-shared keys from peers' public keys. It holds no other session state:
// the same Exchange may derive PSKs against any number of peers.
//
// An Exchange is safe for concurrent use; it is never mutated after New
// except by Close.
type Exchange struct {
	keys *agreement.KeyPair
	opts Options
}

// New generates a fresh ephemeral key pair and returns an Exchange bound to
// it.
func New(opts Options) (*Exchange, error) {
	keys, err := agreement.GenerateKeyPair(opts.Curve)
	if err != nil {
		return nil, err
	}
	return &Exchange{keys: keys, opts: opts}, nil
}

// Resume rebuilds an Exchange around a previously exported private scalar,
// e.g. one loaded from a credential store by the CLI tools.
func Resume(opts Options, scalar []byte) (*Exchange, error) {
	keys, err := agreement.LoadKeyPair(opts.Curve, scalar)
	if err != nil {
		return nil, err
	}
	return &Exchange{keys: keys, opts: opts}, nil
}

// PublicKey exports the public point in transport form: raw bytes, base
// encoded, then URL-quoted. Pure function of the held key pair.
func (x *Exchange) PublicKey() string {
	return encoding.URLQuote(x.opts.Base.Encode(x.keys.PublicBytes()))
}

// PrivateBytes returns a copy of the private scalar for storage in a
// credential store. The caller must scrub the copy when done.
func (x *Exchange) PrivateBytes() []byte {
	return x.keys.PrivateBytes()
}

// DerivePSK reverses the transport encoding on the peer's exported public
// key, performs the Diffie-Hellman exchange, and binds the resulting secret
// to identity, returning the base-encoded pre-shared key.
//
// The raw shared secret exists only inside this call and is scrubbed before
// it returns, on success and error paths alike. Both parties must pass the
// same identity string; see [agreement.DeriveSeed].
func (x *Exchange) DerivePSK(peerPublicKey, identity string) (string, error) {
	encoded, err := encoding.URLUnquote(peerPublicKey)
	if err != nil {
		return "", err
	}
	peerBytes, err := x.opts.Base.Decode(string(encoded))
	if err != nil {
		return "", err
	}
	secret, err := x.keys.SharedSecret(peerBytes)
	if err != nil {
		return "", err
	}
	defer agreement.Zeroize(secret)
	seed, err := agreement.DeriveSeed(secret, identity, x.opts.Algorithm, x.opts.SeedLength)
	if err != nil {
		return "", err
	}
	defer agreement.Zeroize(seed)
	return x.opts.Base.Encode(seed), nil
}

// Close destroys the underlying key pair. The Exchange must not be used
// afterwards.
func (x *Exchange) Close() {
	x.keys.Destroy()
}
