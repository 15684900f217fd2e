package wire

import (
	"bytes"
	"fmt"

	"github.com/prilive-com/tglite/tg"
)

// ByteSource yields the next byte of a stream, blocking until one is
// available. Any error means the stream is gone.
type ByteSource interface {
	ReadByte() (byte, error)
}

// ScanState is the brace-counting state of a Scanner.
type ScanState struct {
	// Depth is -1 before the first '{', 0 once the object is balanced and
	// positive while nested.
	Depth int
	// InString is toggled by every unescaped '"'. It is never reset between
	// literals.
	InString bool
	// PendingEscape is set after a '\'; the next byte is kept verbatim.
	PendingEscape bool
}

// Scanner detects the end of one JSON object in a byte stream fed one byte
// at a time. The zero value is not ready; use NewScanner.
type Scanner struct {
	state ScanState
	buf   bytes.Buffer
	done  bool
}

// NewScanner returns a scanner that has not seen an opening brace yet.
func NewScanner() *Scanner {
	return &Scanner{state: ScanState{Depth: -1}}
}

// Reset discards the buffer and restores the initial state.
func (s *Scanner) Reset() {
	s.state = ScanState{Depth: -1}
	s.buf.Reset()
	s.done = false
}

// State returns the current scan state.
func (s *Scanner) State() ScanState { return s.state }

// Done reports whether the object has been closed.
func (s *Scanner) Done() bool { return s.done }

// Bytes returns everything fed so far, including bytes before the first '{'.
// The slice aliases the scanner's buffer until the next Feed or Reset.
func (s *Scanner) Bytes() []byte { return s.buf.Bytes() }

// Feed consumes one byte and reports whether the depth has just returned to
// zero. Feeding a done scanner is a no-op that reports true.
func (s *Scanner) Feed(c byte) bool {
	if s.done {
		return true
	}
	s.buf.WriteByte(c)

	if s.state.PendingEscape {
		s.state.PendingEscape = false
		return false
	}

	switch c {
	case '\\':
		s.state.PendingEscape = true
		return false
	case '"':
		s.state.InString = !s.state.InString
	}
	if s.state.InString {
		return false
	}

	switch c {
	case '{':
		if s.state.Depth == -1 {
			s.state.Depth = 1
		} else {
			s.state.Depth++
		}
	case '}':
		// A '}' before any '{' drives the depth below -1; that arithmetic is
		// kept as is.
		s.state.Depth--
	}
	if s.state.Depth == 0 {
		s.done = true
	}
	return s.done
}

// Scan reads src until one JSON object is balanced and returns every byte
// read, the closing '}' included. Nothing after it is consumed. If src fails
// first, Scan returns an error wrapping tg.ErrNoJSON and the read error, and
// no partial data.
func Scan(src ByteSource) ([]byte, error) {
	s := NewScanner()
	for {
		c, err := src.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", tg.ErrNoJSON, err)
		}
		if s.Feed(c) {
			return bytes.Clone(s.Bytes()), nil
		}
	}
}
