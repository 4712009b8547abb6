// Package decoder adapts a buffered byte source into a lazy sequence of
// Unicode scalars, selectable by encoding. It is the lowest layer of the
// pipeline: it does not track coordinates (that is the lexer's job, since
// only the lexer knows whether a scalar was consumed or pushed back).
package decoder

import (
	"bufio"
	"errors"
	"io"
	"unicode"
	"unicode/utf8"
)

// Encoding selects how bytes are interpreted as scalars.
type Encoding int

const (
	// Utf8 is the default encoding.
	Utf8 Encoding = iota
	// Ascii rejects any scalar outside the 7-bit ASCII range.
	Ascii
)

// Sentinel errors surfaced by Next. These are decoder-internal signals;
// the lexer translates them into jsonerr details.
var (
	ErrEndOfInput = errors.New("decoder: end of input")
	ErrNonUTF8    = errors.New("decoder: non-utf8 input detected")
	ErrStream     = errors.New("decoder: stream failure")
)

// Decoder pulls one scalar at a time from a buffered reader. It is not
// restartable: once it has reported ErrEndOfInput, every subsequent call
// reports it again.
type Decoder struct {
	r        *bufio.Reader
	encoding Encoding
	done     bool
}

// New wraps r with the given encoding. Readers that are not already
// buffered are wrapped in a bufio.Reader, mirroring the teacher's
// bufio.NewReader(r) call in Parse.
func New(r io.Reader, encoding Encoding) *Decoder {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Decoder{r: br, encoding: encoding}
}

// Next returns the next scalar from the input. On clean exhaustion it
// returns ErrEndOfInput; on malformed input for the selected encoding it
// returns ErrNonUTF8; on any other I/O failure it returns ErrStream
// (wrapping the underlying error).
func (d *Decoder) Next() (rune, error) {
	if d.done {
		return 0, ErrEndOfInput
	}

	r, n, err := d.r.ReadRune()
	if err != nil {
		if errors.Is(err, io.EOF) {
			d.done = true
			return 0, ErrEndOfInput
		}
		return 0, errors.Join(ErrStream, err)
	}

	if r == unicode.ReplacementChar && n == 1 {
		return 0, ErrNonUTF8
	}
	if d.encoding == Ascii && r >= utf8.RuneSelf {
		return 0, ErrNonUTF8
	}
	return r, nil
}
