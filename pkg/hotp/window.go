package hotp

import (
	"github.com/tokenaccess/otpkit/pkg/digest"
	"github.com/tokenaccess/otpkit/pkg/encoding"
)

// windowSize is the number of past counters tracked for replay rejection.
// SlidingWindow.history is a uint64 bitmask, so this must be ≤ 64.
const windowSize = 32

// DefaultLookAhead is the number of future counters a Verifier tries when a
// code does not match the next expected counter, absorbing generations the
// verifier never saw.
const DefaultLookAhead = 8

// updateSlidingWindow takes the current counter value (the highest counter
// of any code accepted so far), the current history bitmask, and a candidate
// counter. It returns the updated state and sets ok to true only when the
// candidate has verifiably never been accepted before. On ok == false the
// returned state equals the input state.
func updateSlidingWindow(counter, history, candidate uint64) (updatedCounter, updatedHistory uint64, ok bool) {
	updatedCounter = counter
	updatedHistory = history

	if candidate == counter {
		// Already accepted.
		return
	}

	if candidate < counter {
		age := counter - candidate
		if age > windowSize {
			// History doesn't reach back this far; fail closed.
			return
		}
		if history>>(age-1)&1 == 1 {
			// Already accepted.
			return
		}
		ok = true
		updatedHistory |= 1 << (age - 1)
		return
	}

	// candidate > counter: fresh by construction. Shift the window forward
	// and mark the previous counter as used (if candidate = counter + 1,
	// that's the LSB).
	ok = true
	updatedCounter = candidate
	shift := candidate - counter
	updatedHistory <<= shift
	updatedHistory |= 1 << (shift - 1)
	return
}

// A SlidingWindow tracks accepted counters so each is honored at most once.
// The zero value is ready to use; the first counter offered is always
// accepted.
type SlidingWindow struct {
	history uint64
	counter uint64
	used    bool
}

// Counter returns the highest counter accepted so far.
func (w *SlidingWindow) Counter() uint64 {
	return w.counter
}

// History returns the acceptance bitmask for counters below Counter.
func (w *SlidingWindow) History() uint64 {
	return w.history
}

// Update marks counter as used, returning false if it was already used or
// has aged out of the tracked window.
func (w *SlidingWindow) Update(counter uint64) bool {
	if !w.used {
		w.used = true
		w.counter = counter
		return true
	}
	var ok bool
	w.counter, w.history, ok = updateSlidingWindow(w.counter, w.history, counter)
	return ok
}

// Restore primes the window with previously exported state, e.g. from a
// counter cache.
func (w *SlidingWindow) Restore(counter, history uint64) {
	w.counter = counter
	w.history = history
	w.used = true
}

// A Verifier validates incoming codes for one pre-shared key, trying the
// next expected counters up to a bounded look-ahead and rejecting replays.
// It is not safe for concurrent use.
type Verifier struct {
	PSK       string
	Base      encoding.Base
	Algorithm digest.Algorithm
	Digits    int // 0 means DefaultDigits
	LookAhead uint64

	window SlidingWindow
}

// Window exposes the verifier's replay state for persistence.
func (v *Verifier) Window() *SlidingWindow {
	return &v.window
}

// Verify checks code against the counters following the last accepted one,
// up to the configured look-ahead. On success it returns the matching
// counter, records it as used, and never accepts it again.
func (v *Verifier) Verify(code string) (uint64, bool) {
	digits := v.Digits
	if digits == 0 {
		digits = DefaultDigits
	}
	lookahead := v.LookAhead
	if lookahead == 0 {
		lookahead = DefaultLookAhead
	}
	start := v.window.counter + 1
	if !v.window.used {
		start = 0
	}
	for counter := start; counter < start+lookahead; counter++ {
		if !Validate(code, v.PSK, counter, v.Base, v.Algorithm, digits) {
			continue
		}
		if !v.window.Update(counter) {
			return 0, false
		}
		return counter, true
	}
	return 0, false
}
