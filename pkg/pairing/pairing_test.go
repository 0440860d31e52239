package pairing_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tokenaccess/otpkit/pkg/digest"
	"github.com/tokenaccess/otpkit/pkg/encoding"
	"github.com/tokenaccess/otpkit/pkg/pairing"
)

var _ = Describe("Exchange", func() {
	var opts pairing.Options

	BeforeEach(func() {
		opts = pairing.Options{} // x25519, b64, SHA256, 20-byte seed
	})

	Describe("PublicKey", func() {
		It("exports a URL-safe string", func() {
			x, err := pairing.New(opts)
			Expect(err).NotTo(HaveOccurred())
			defer x.Close()

			exported := x.PublicKey()
			Expect(exported).NotTo(BeEmpty())
			// Reversing the transport encoding must recover a 32-byte x25519 point.
			unquoted, err := encoding.URLUnquote(exported)
			Expect(err).NotTo(HaveOccurred())
			raw, err := encoding.Base64.Decode(string(unquoted))
			Expect(err).NotTo(HaveOccurred())
			Expect(raw).To(HaveLen(32))
		})

		It("is stable across calls", func() {
			x, err := pairing.New(opts)
			Expect(err).NotTo(HaveOccurred())
			defer x.Close()
			Expect(x.PublicKey()).To(Equal(x.PublicKey()))
		})
	})

	Describe("DerivePSK", func() {
		It("gives both parties the same PSK for the same identity", func() {
			alice, err := pairing.New(opts)
			Expect(err).NotTo(HaveOccurred())
			defer alice.Close()
			bob, err := pairing.New(opts)
			Expect(err).NotTo(HaveOccurred())
			defer bob.Close()

			alicePSK, err := alice.DerivePSK(bob.PublicKey(), "alice")
			Expect(err).NotTo(HaveOccurred())
			bobPSK, err := bob.DerivePSK(alice.PublicKey(), "alice")
			Expect(err).NotTo(HaveOccurred())
			Expect(alicePSK).To(Equal(bobPSK))

			raw, err := encoding.Base64.Decode(alicePSK)
			Expect(err).NotTo(HaveOccurred())
			Expect(raw).To(HaveLen(20))
		})

		It("derives deterministically for equal inputs", func() {
			alice, err := pairing.New(opts)
			Expect(err).NotTo(HaveOccurred())
			defer alice.Close()
			bob, err := pairing.New(opts)
			Expect(err).NotTo(HaveOccurred())
			defer bob.Close()

			first, err := alice.DerivePSK(bob.PublicKey(), "alice")
			Expect(err).NotTo(HaveOccurred())
			second, err := alice.DerivePSK(bob.PublicKey(), "alice")
			Expect(err).NotTo(HaveOccurred())
			Expect(first).To(Equal(second))
		})

		It("derives unlinkable PSKs for different identities", func() {
			alice, err := pairing.New(opts)
			Expect(err).NotTo(HaveOccurred())
			defer alice.Close()
			bob, err := pairing.New(opts)
			Expect(err).NotTo(HaveOccurred())
			defer bob.Close()

			asAlice, err := alice.DerivePSK(bob.PublicKey(), "alice")
			Expect(err).NotTo(HaveOccurred())
			asBob, err := alice.DerivePSK(bob.PublicKey(), "bob")
			Expect(err).NotTo(HaveOccurred())
			Expect(asAlice).NotTo(Equal(asBob))
		})

		It("rejects a corrupted peer key", func() {
			alice, err := pairing.New(opts)
			Expect(err).NotTo(HaveOccurred())
			defer alice.Close()
			bob, err := pairing.New(opts)
			Expect(err).NotTo(HaveOccurred())
			defer bob.Close()

			// Truncating the encoded key corrupts the base64 group structure.
			exported := bob.PublicKey()
			_, err = alice.DerivePSK(exported[:len(exported)-1], "alice")
			Expect(err).To(HaveOccurred())
		})

		It("rejects a peer point of the wrong size", func() {
			alice, err := pairing.New(opts)
			Expect(err).NotTo(HaveOccurred())
			defer alice.Close()

			bogus := encoding.URLQuote(encoding.Base64.Encode([]byte{1, 2, 3}))
			_, err = alice.DerivePSK(bogus, "alice")
			Expect(err).To(MatchError(pairing.ErrMalformedPeerKey))
		})

		It("rejects a low-order peer point", func() {
			alice, err := pairing.New(opts)
			Expect(err).NotTo(HaveOccurred())
			defer alice.Close()

			zeroPoint := encoding.URLQuote(encoding.Base64.Encode(make([]byte, 32)))
			_, err = alice.DerivePSK(zeroPoint, "alice")
			Expect(err).To(MatchError(pairing.ErrMalformedPeerKey))
		})

		It("rejects malformed base-N text", func() {
			alice, err := pairing.New(opts)
			Expect(err).NotTo(HaveOccurred())
			defer alice.Close()

			_, err = alice.DerivePSK("!!!not-base64!!!", "alice")
			Expect(err).To(MatchError(encoding.ErrMalformedEncoding))
		})
	})

	Describe("configuration", func() {
		It("supports every curve in the enumeration", func() {
			for _, name := range pairing.CurveNames() {
				curve, err := pairing.ParseCurve(name)
				Expect(err).NotTo(HaveOccurred())

				alice, err := pairing.New(pairing.Options{Curve: curve})
				Expect(err).NotTo(HaveOccurred())
				bob, err := pairing.New(pairing.Options{Curve: curve})
				Expect(err).NotTo(HaveOccurred())

				alicePSK, err := alice.DerivePSK(bob.PublicKey(), "pair")
				Expect(err).NotTo(HaveOccurred())
				bobPSK, err := bob.DerivePSK(alice.PublicKey(), "pair")
				Expect(err).NotTo(HaveOccurred())
				Expect(alicePSK).To(Equal(bobPSK))

				alice.Close()
				bob.Close()
			}
		})

		It("rejects signature-only curve names", func() {
			_, err := pairing.ParseCurve("ed25519")
			Expect(err).To(MatchError(pairing.ErrUnsupportedCurve))
		})

		It("honors a custom seed length", func() {
			alice, err := pairing.New(pairing.Options{SeedLength: 32})
			Expect(err).NotTo(HaveOccurred())
			defer alice.Close()
			bob, err := pairing.New(pairing.Options{SeedLength: 32})
			Expect(err).NotTo(HaveOccurred())
			defer bob.Close()

			psk, err := alice.DerivePSK(bob.PublicKey(), "alice")
			Expect(err).NotTo(HaveOccurred())
			raw, err := encoding.Base64.Decode(psk)
			Expect(err).NotTo(HaveOccurred())
			Expect(raw).To(HaveLen(32))
		})

		It("derives different PSKs under different hash algorithms", func() {
			alice, err := pairing.New(pairing.Options{Algorithm: digest.SHA256})
			Expect(err).NotTo(HaveOccurred())
			defer alice.Close()
			bob, err := pairing.New(pairing.Options{Algorithm: digest.SHA256})
			Expect(err).NotTo(HaveOccurred())
			defer bob.Close()

			sha256PSK, err := alice.DerivePSK(bob.PublicKey(), "alice")
			Expect(err).NotTo(HaveOccurred())

			// Same key pairs, different KDF hash.
			aliceSHA512, err := pairing.Resume(pairing.Options{Algorithm: digest.SHA512}, alice.PrivateBytes())
			Expect(err).NotTo(HaveOccurred())
			defer aliceSHA512.Close()
			sha512PSK, err := aliceSHA512.DerivePSK(bob.PublicKey(), "alice")
			Expect(err).NotTo(HaveOccurred())
			Expect(sha512PSK).NotTo(Equal(sha256PSK))
		})
	})

	Describe("Resume", func() {
		It("rebuilds the same key pair from an exported scalar", func() {
			original, err := pairing.New(opts)
			Expect(err).NotTo(HaveOccurred())
			defer original.Close()

			resumed, err := pairing.Resume(opts, original.PrivateBytes())
			Expect(err).NotTo(HaveOccurred())
			defer resumed.Close()
			Expect(resumed.PublicKey()).To(Equal(original.PublicKey()))
		})
	})
})
