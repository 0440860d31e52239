package agreement

// Zeroize overwrites b with zeros. Callers holding secret material must call
// it on every exit path, typically via defer, before releasing the buffer.
func Zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
