package wire

import (
	"bytes"
	"strings"
	"testing"
)

// FuzzScan checks that Scan never panics and only returns a prefix of its
// input that leaves the scanner balanced.
func FuzzScan(f *testing.F) {
	f.Add([]byte(`{"ok":true,"result":[]}`))
	f.Add([]byte(`{"t":"a\"}b"}`))
	f.Add([]byte(`}{{}`))
	f.Add([]byte(`\{}`))
	f.Add([]byte(`{"unterminated`))
	f.Add([]byte(``))

	f.Fuzz(func(t *testing.T, data []byte) {
		got, err := Scan(bytes.NewReader(data))
		if err != nil {
			if got != nil {
				t.Fatalf("partial result %q returned with error", got)
			}
			return
		}
		if !bytes.HasPrefix(data, got) {
			t.Fatalf("result %q is not a prefix of %q", got, data)
		}
		if got[len(got)-1] != '}' {
			t.Fatalf("result %q does not end with '}'", got)
		}
	})
}

// FuzzDecodeEscapes checks that decoding never panics and leaves
// backslash-free input alone.
func FuzzDecodeEscapes(f *testing.F) {
	f.Add(`\u0434\u0430`)
	f.Add(`\ud83d\ude00`)
	f.Add(`\u12`)
	f.Add(`\uzzzz`)
	f.Add(`\\`)
	f.Add(`plain`)

	f.Fuzz(func(t *testing.T, s string) {
		out := DecodeEscapes(s)
		if !strings.Contains(s, `\`) && out != s {
			t.Fatalf("DecodeEscapes(%q) = %q, want unchanged", s, out)
		}
	})
}
