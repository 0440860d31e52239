package hotp

import (
	"testing"

	"github.com/tokenaccess/otpkit/pkg/digest"
	"github.com/tokenaccess/otpkit/pkg/encoding"
)

func TestSlidingWindow(t *testing.T) {
	type windowTest struct {
		counter         uint64
		history         uint64
		candidate       uint64
		expectedCounter uint64
		expectedHistory uint64
		expectedOk      bool
	}
	tests := []windowTest{
		// Candidate is greater than all previous counters.
		{
			counter:         100,
			history:         (1 << 0) | (1 << 5),
			candidate:       101,
			expectedCounter: 101,
			expectedHistory: 1 | (1 << 1) | (1 << 6),
			expectedOk:      true,
		},
		// Candidate is greater, with skipped counters in between.
		{
			counter:         100,
			history:         (1 << 0) | (1 << 5),
			candidate:       103,
			expectedCounter: 103,
			expectedHistory: (1 << 2) | (1 << 3) | (1 << 8),
			expectedOk:      true,
		},
		// Candidate is so far ahead the old history shifts out entirely.
		{
			counter:         100,
			history:         (1 << 0) | (1 << 5),
			candidate:       500,
			expectedCounter: 500,
			expectedHistory: 0,
			expectedOk:      true,
		},
		// Candidate falls in the window and hasn't been used.
		{
			counter:         100,
			history:         (1 << 0) | (1 << 5),
			candidate:       98,
			expectedCounter: 100,
			expectedHistory: (1 << 0) | (1 << 1) | (1 << 5),
			expectedOk:      true,
		},
		// Candidate falls in the window but was already used.
		{
			counter:         100,
			history:         (1 << 0) | (1 << 5),
			candidate:       99,
			expectedCounter: 100,
			expectedHistory: (1 << 0) | (1 << 5),
			expectedOk:      false,
		},
		// Candidate is older than the window; freshness can't be validated.
		{
			counter:         100,
			history:         (1 << 0) | (1 << 5),
			candidate:       3,
			expectedCounter: 100,
			expectedHistory: (1 << 0) | (1 << 5),
			expectedOk:      false,
		},
		// Candidate equals the current counter.
		{
			counter:         100,
			history:         (1 << 0) | (1 << 5),
			candidate:       100,
			expectedCounter: 100,
			expectedHistory: (1 << 0) | (1 << 5),
			expectedOk:      false,
		},
	}
	for _, test := range tests {
		counter, history, ok := updateSlidingWindow(test.counter, test.history, test.candidate)
		if counter != test.expectedCounter || history != test.expectedHistory || ok != test.expectedOk {
			t.Errorf("Failed window test %+v, got counter=%d, history=%d, ok=%v", test, counter, history, ok)
		}
		var w SlidingWindow
		w.Restore(test.counter, test.history)
		if w.Update(test.candidate) != test.expectedOk {
			t.Errorf("Failed window test %+v", test)
		}
	}
}

func TestSlidingWindowFirstUse(t *testing.T) {
	var w SlidingWindow
	if !w.Update(50) {
		t.Error("fresh window rejected its first counter")
	}
	if w.Update(50) {
		t.Error("window accepted a replayed counter")
	}
	if !w.Update(51) {
		t.Error("window rejected the next counter")
	}
}

func TestSlidingWindowExportedStateStaysAligned(t *testing.T) {
	// Counter 5 accepted, counter 4 used before it.
	var w SlidingWindow
	w.Restore(5, 1)
	if !w.Update(6) {
		t.Fatal("window rejected the next counter")
	}

	// Round-tripping the exported state must keep every bit attached to the
	// counter it recorded.
	var restored SlidingWindow
	restored.Restore(w.Counter(), w.History())
	for _, used := range []uint64{4, 5, 6} {
		if restored.Update(used) {
			t.Errorf("restored window accepted used counter %d", used)
		}
	}
	if !restored.Update(3) {
		t.Error("restored window rejected unused counter 3")
	}
}

func TestVerifier(t *testing.T) {
	v := Verifier{
		PSK:       rfc4226PSK,
		Base:      encoding.Base64,
		Algorithm: digest.SHA1,
		Digits:    6,
	}

	// First code (counter 0 in the RFC 4226 vectors).
	counter, ok := v.Verify("755224")
	if !ok || counter != 0 {
		t.Fatalf("Verify(755224) = (%d, %v), want (0, true)", counter, ok)
	}

	// Replay must fail.
	if _, ok := v.Verify("755224"); ok {
		t.Error("verifier accepted a replayed code")
	}

	// Counter 3 is within the default look-ahead even though 1 and 2 were
	// never presented.
	counter, ok = v.Verify("969429")
	if !ok || counter != 3 {
		t.Errorf("Verify(969429) = (%d, %v), want (3, true)", counter, ok)
	}

	// A garbage code finds no counter.
	if _, ok := v.Verify("000000"); ok {
		t.Error("verifier accepted an arbitrary code")
	}
}

func TestVerifierLookAheadBound(t *testing.T) {
	v := Verifier{
		PSK:       rfc4226PSK,
		Base:      encoding.Base64,
		Algorithm: digest.SHA1,
		Digits:    6,
		LookAhead: 2,
	}
	if _, ok := v.Verify("755224"); !ok {
		t.Fatal("verifier rejected counter 0")
	}
	// Counter 3 is beyond a look-ahead of 2 (tries counters 1 and 2 only).
	if _, ok := v.Verify("969429"); ok {
		t.Error("verifier accepted a code beyond its look-ahead")
	}
}

func TestVerifierRestoredState(t *testing.T) {
	v := Verifier{
		PSK:       rfc4226PSK,
		Base:      encoding.Base64,
		Algorithm: digest.SHA1,
		Digits:    6,
	}
	// Resume as if counter 8 had already been accepted in a previous run.
	v.Window().Restore(8, 0)
	counter, ok := v.Verify("520489") // counter 9
	if !ok || counter != 9 {
		t.Errorf("Verify(520489) = (%d, %v), want (9, true)", counter, ok)
	}
	// Codes at or below the restored counter are replays.
	if _, ok := v.Verify("399871"); ok { // counter 8
		t.Error("verifier accepted a code at the restored counter")
	}
}
