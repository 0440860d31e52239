package encoding

import (
	"bytes"
	"errors"
	"testing"
)

func TestURLQuote(t *testing.T) {
	type testCase struct {
		text   string
		quoted string
	}
	tests := []testCase{
		{"", ""},
		{"abcXYZ019-._~/", "abcXYZ019-._~/"},
		{"a+b=", "a%2Bb%3D"},
		{"hello world", "hello%20world"},
		{"100%", "100%25"},
	}
	for _, test := range tests {
		if got := URLQuote(test.text); got != test.quoted {
			t.Errorf("URLQuote(%q) = %q, want %q", test.text, got, test.quoted)
		}
	}
}

func TestURLQuoteRoundTrip(t *testing.T) {
	// Base64 output is the usual payload; cover its full alphabet plus padding.
	texts := []string{
		"",
		"AQIDBA==",
		"++//==",
		"a_b-c.d~e/f",
	}
	for _, text := range texts {
		raw, err := URLUnquote(URLQuote(text))
		if err != nil {
			t.Errorf("round trip of %q failed: %s", text, err)
			continue
		}
		if !bytes.Equal(raw, []byte(text)) {
			t.Errorf("round trip of %q gave %q", text, raw)
		}
	}
}

func TestURLUnquoteMalformed(t *testing.T) {
	for _, text := range []string{"%", "%2", "%zz", "abc%"} {
		if _, err := URLUnquote(text); !errors.Is(err, ErrMalformedEncoding) {
			t.Errorf("URLUnquote(%q) = %v, want ErrMalformedEncoding", text, err)
		}
	}
}
