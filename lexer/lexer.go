// Package lexer produces a lazy sequence of packed tokens from a rune
// stream: it validates numbers, strings, and literals and keeps precise
// coordinate/span bookkeeping, ported from the teacher's single-pass
// consumeCharacter pump but split into the named matchers the taxonomy in
// jsonerr requires.
package lexer

import (
	"strconv"
	"strings"

	"github.com/mcvoid/json/coords"
	"github.com/mcvoid/json/decoder"
	"github.com/mcvoid/json/jsonerr"
)

// Kind identifies the tagged union case of a Token.
type Kind int

const (
	StartObject Kind = iota
	EndObject
	StartArray
	EndArray
	Colon
	Comma
	String
	Integer
	Float
	Boolean
	Null
	EndOfInput
)

func (k Kind) String() string {
	switch k {
	case StartObject:
		return "StartObject"
	case EndObject:
		return "EndObject"
	case StartArray:
		return "StartArray"
	case EndArray:
		return "EndArray"
	case Colon:
		return "Colon"
	case Comma:
		return "Comma"
	case String:
		return "String"
	case Integer:
		return "Integer"
	case Float:
		return "Float"
	case Boolean:
		return "Boolean"
	case Null:
		return "Null"
	case EndOfInput:
		return "EndOfInput"
	default:
		return "Unknown"
	}
}

// Token is a lexical unit with its Span. Only the field matching Kind is
// meaningful. Text carries string contents with escape sequences retained
// verbatim (unescaping is a downstream concern; see Unescape).
type Token struct {
	Kind    Kind
	Text    string
	Int     int64
	Float64 float64
	Bool    bool
	Span    coords.Span
}

// Options configures the lexer.
type Options struct {
	// Encoding records the caller's choice of byte decoding. The lexer
	// itself does not read it: decoding is done by the Decoder passed to
	// New, using the encoding that Decoder was constructed with.
	Encoding decoder.Encoding
	// MixedNumerics, when true (the default), distinguishes Integer from
	// Float tokens by whether the textual form has a '.' or exponent.
	// When false, every number is emitted as Float.
	MixedNumerics bool
}

// DefaultOptions returns the lexer's default configuration: UTF-8 input
// with integer/float distinction enabled.
func DefaultOptions() Options {
	return Options{Encoding: decoder.Utf8, MixedNumerics: true}
}

// Lexer walks a rune stream and emits Tokens. It holds a reference to the
// decoder, a scratch buffer for the in-progress lexeme, a single-scalar
// push-back slot, and the current Coord.
type Lexer struct {
	dec  *decoder.Decoder
	opts Options

	coord          coords.Coord
	pendingNewline bool

	hasPushback        bool
	pushbackRune       rune
	prevCoord          coords.Coord
	prevPendingNewline bool

	eofSeen bool
	buf     strings.Builder
}

// New constructs a Lexer over dec using the given options.
func New(dec *decoder.Decoder, opts Options) *Lexer {
	return &Lexer{
		dec:   dec,
		opts:  opts,
		coord: coords.Start(),
	}
}

func isASCIIWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r':
		return true
	default:
		return false
	}
}

func isASCIIDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isASCIIAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isHexDigit(r rune) bool {
	return isASCIIDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// readScalar returns the next rune, consuming the push-back slot first.
func (l *Lexer) readScalar() (rune, error) {
	if l.hasPushback {
		r := l.pushbackRune
		l.hasPushback = false
		l.prevCoord = l.coord
		l.prevPendingNewline = l.pendingNewline
		l.applyAdvance(r)
		return r, nil
	}
	r, err := l.dec.Next()
	if err != nil {
		return 0, err
	}
	l.prevCoord = l.coord
	l.prevPendingNewline = l.pendingNewline
	l.applyAdvance(r)
	return r, nil
}

func (l *Lexer) applyAdvance(r rune) {
	l.coord.Advance(l.pendingNewline)
	l.pendingNewline = false
	if r == '\n' || r == '\r' {
		l.pendingNewline = true
	}
}

// pushBack returns r to the input stream, restoring the coordinate state
// to what it was before r was read. Only the most recently read scalar may
// be pushed back.
func (l *Lexer) pushBack(r rune) {
	l.hasPushback = true
	l.pushbackRune = r
	l.coord = l.prevCoord
	l.pendingNewline = l.prevPendingNewline
}

func (l *Lexer) lexErr(d jsonerr.Detail, c coords.Coord) error {
	return jsonerr.Lex(d, c)
}

func (l *Lexer) decodeErr(err error) error {
	switch err {
	case decoder.ErrEndOfInput:
		return l.lexErr(jsonerr.EndOfInput{}, l.coord)
	case decoder.ErrNonUTF8:
		return l.lexErr(jsonerr.NonUTF8InputDetected{}, l.coord)
	default:
		return l.lexErr(jsonerr.StreamFailure{Message: err.Error()}, l.coord)
	}
}

// Consume returns the next Token. Whitespace preceding the token is
// skipped; whitespace inside strings and numbers is not. On clean
// exhaustion it yields EndOfInput idempotently on every subsequent call.
func (l *Lexer) Consume() (Token, error) {
	if l.eofSeen {
		return Token{Kind: EndOfInput, Span: coords.Point(l.coord)}, nil
	}

	r, err := l.skipWhitespace()
	if err != nil {
		if isEndOfInput(err) {
			l.eofSeen = true
			return Token{Kind: EndOfInput, Span: coords.Point(l.coord)}, nil
		}
		return Token{}, err
	}

	start := l.coord

	switch {
	case r == '{':
		return Token{Kind: StartObject, Span: coords.Point(start)}, nil
	case r == '}':
		return Token{Kind: EndObject, Span: coords.Point(start)}, nil
	case r == '[':
		return Token{Kind: StartArray, Span: coords.Point(start)}, nil
	case r == ']':
		return Token{Kind: EndArray, Span: coords.Point(start)}, nil
	case r == ':':
		return Token{Kind: Colon, Span: coords.Point(start)}, nil
	case r == ',':
		return Token{Kind: Comma, Span: coords.Point(start)}, nil
	case r == '"':
		return l.matchString(start)
	case r == 'n':
		return l.matchLiteral(start, "null", Token{Kind: Null})
	case r == 't':
		return l.matchLiteral(start, "true", Token{Kind: Boolean, Bool: true})
	case r == 'f':
		return l.matchLiteral(start, "false", Token{Kind: Boolean, Bool: false})
	case r == '-' || isASCIIDigit(r):
		return l.matchNumber(start, r)
	default:
		return Token{}, l.lexErr(jsonerr.InvalidCharacter{Char: r}, start)
	}
}

func isEndOfInput(err error) bool {
	if err == decoder.ErrEndOfInput {
		return true
	}
	e, ok := err.(*jsonerr.Error)
	if !ok {
		return false
	}
	_, ok = e.Detail.(jsonerr.EndOfInput)
	return ok
}

func (l *Lexer) skipWhitespace() (rune, error) {
	for {
		r, err := l.readScalar()
		if err != nil {
			return 0, l.decodeErr(err)
		}
		if !isASCIIWhitespace(r) {
			return r, nil
		}
	}
}

// matchLiteral reads len(word)-1 further scalars (the first was already
// consumed by Consume's dispatch) and compares the whole run against word.
func (l *Lexer) matchLiteral(start coords.Coord, word string, tmpl Token) (Token, error) {
	got := []rune{rune(word[0])}
	for _, want := range word[1:] {
		r, err := l.readScalar()
		if err != nil {
			return Token{}, l.decodeErr(err)
		}
		got = append(got, r)
		if r != want {
			return Token{}, l.lexErr(jsonerr.MatchFailed{Expected: word, Got: string(got)}, l.coord)
		}
	}
	tmpl.Span = coords.NewSpan(start, l.coord)
	return tmpl, nil
}

// matchString reads scalars up to the closing unescaped quote, validating
// escape sequences but retaining them verbatim.
func (l *Lexer) matchString(start coords.Coord) (Token, error) {
	l.buf.Reset()
	for {
		r, err := l.readScalar()
		if err != nil {
			if isEndOfInput(err) {
				return Token{}, l.lexErr(jsonerr.EndOfInput{}, l.coord)
			}
			return Token{}, l.decodeErr(err)
		}
		switch r {
		case '"':
			return Token{Kind: String, Text: l.buf.String(), Span: coords.NewSpan(start, l.coord)}, nil
		case '\\':
			if err := l.matchEscape(); err != nil {
				return Token{}, err
			}
		default:
			l.buf.WriteRune(r)
		}
	}
}

func (l *Lexer) matchEscape() error {
	escCoord := l.coord
	r, err := l.readScalar()
	if err != nil {
		if isEndOfInput(err) {
			return l.lexErr(jsonerr.EndOfInput{}, l.coord)
		}
		return l.decodeErr(err)
	}
	switch r {
	case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
		l.buf.WriteByte('\\')
		l.buf.WriteRune(r)
		return nil
	case 'u':
		l.buf.WriteString("\\u")
		return l.matchUnicodeEscape(escCoord)
	default:
		return l.lexErr(jsonerr.InvalidEscapeSequence{Fragment: "\\" + string(r)}, escCoord)
	}
}

func (l *Lexer) matchUnicodeEscape(escCoord coords.Coord) error {
	var hex strings.Builder
	for i := 0; i < 4; i++ {
		r, err := l.readScalar()
		if err != nil {
			if isEndOfInput(err) {
				return l.lexErr(jsonerr.EndOfInput{}, l.coord)
			}
			return l.decodeErr(err)
		}
		if !isHexDigit(r) {
			return l.lexErr(jsonerr.InvalidUnicodeEscapeSequence{Fragment: "\\u" + hex.String() + string(r)}, escCoord)
		}
		hex.WriteRune(r)
	}
	l.buf.WriteString(hex.String())
	return nil
}

// matchNumber scans a JSON number per the prefix/body rules in spec.md
// §4.3, then parses the accepted fragment with a fast-path parser.
func (l *Lexer) matchNumber(start coords.Coord, first rune) (Token, error) {
	l.buf.Reset()
	l.buf.WriteRune(first)

	sawDot := false
	sawExp := false
	isFloat := false

	// Determine the leading digit: for '-' it's the scalar that follows
	// (which must exist and be a digit); otherwise it's first itself.
	leadDigit := first
	if first == '-' {
		r, err := l.peekForPrefix(start)
		if err != nil {
			return Token{}, err
		}
		if !isASCIIDigit(r) {
			return Token{}, l.lexErr(jsonerr.InvalidNumericRepresentation{Fragment: l.buf.String() + string(r)}, l.coord)
		}
		leadDigit = r
	}

	// Leading-zero rule: a leading '0' (or "-0") may only be followed by
	// '.', a terminator, or whitespace -- never another digit.
	if leadDigit == '0' {
		r, consumed, err := l.peekTerminatorAware()
		if err != nil {
			return Token{}, err
		}
		if consumed {
			if isASCIIDigit(r) {
				return Token{}, l.lexErr(jsonerr.InvalidNumericRepresentation{Fragment: l.buf.String() + string(r)}, l.coord)
			}
			if r == '.' {
				l.buf.WriteRune(r)
				sawDot = true
				isFloat = true
			} else {
				l.pushBack(r)
			}
		}
	}

	for {
		r, err := l.readScalar()
		if err != nil {
			if isEndOfInput(err) {
				break
			}
			return Token{}, l.decodeErr(err)
		}
		switch {
		case isASCIIDigit(r):
			l.buf.WriteRune(r)
		case r == '.':
			if sawDot {
				return Token{}, l.lexErr(jsonerr.InvalidNumericRepresentation{Fragment: l.buf.String() + "."}, l.coord)
			}
			sawDot = true
			isFloat = true
			l.buf.WriteRune(r)
		case r == 'e' || r == 'E':
			if sawExp {
				return Token{}, l.lexErr(jsonerr.InvalidNumericRepresentation{Fragment: l.buf.String() + string(r)}, l.coord)
			}
			sawExp = true
			isFloat = true
			l.buf.WriteRune(r)
			sign, err := l.readScalar()
			if err != nil {
				if isEndOfInput(err) {
					return Token{}, l.lexErr(jsonerr.InvalidNumericRepresentation{Fragment: l.buf.String()}, l.coord)
				}
				return Token{}, l.decodeErr(err)
			}
			if sign != '+' && sign != '-' {
				return Token{}, l.lexErr(jsonerr.InvalidNumericRepresentation{Fragment: l.buf.String() + string(sign)}, l.coord)
			}
			l.buf.WriteRune(sign)
		case r == ',' || r == ']' || r == '}':
			l.pushBack(r)
			goto done
		case isASCIIWhitespace(r):
			l.pushBack(r)
			goto done
		case isASCIIAlpha(r):
			return Token{}, l.lexErr(jsonerr.InvalidNumericRepresentation{Fragment: l.buf.String() + string(r)}, l.coord)
		default:
			l.pushBack(r)
			goto done
		}
	}
done:

	text := l.buf.String()
	end := l.coord
	if !l.opts.MixedNumerics {
		isFloat = true
	}
	if isFloat {
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Token{}, l.lexErr(jsonerr.InvalidNumericRepresentation{Fragment: text}, start)
		}
		return Token{Kind: Float, Float64: v, Span: coords.NewSpan(start, end)}, nil
	}
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return Token{}, l.lexErr(jsonerr.InvalidNumericRepresentation{Fragment: text}, start)
	}
	return Token{Kind: Integer, Int: v, Span: coords.NewSpan(start, end)}, nil
}

// peekForPrefix reads the scalar that follows a leading '-'. The scalar is
// consumed either way: a digit is written to the buffer as part of the
// number, anything else is returned for the caller to report.
func (l *Lexer) peekForPrefix(start coords.Coord) (rune, error) {
	r, err := l.readScalar()
	if err != nil {
		if isEndOfInput(err) {
			return 0, l.lexErr(jsonerr.InvalidNumericRepresentation{Fragment: l.buf.String()}, start)
		}
		return 0, l.decodeErr(err)
	}
	if isASCIIDigit(r) {
		l.buf.WriteRune(r)
	}
	return r, nil
}

// peekTerminatorAware reads one scalar after a leading zero, reporting
// whether a scalar was actually consumed (false only at end of input,
// where a bare "0" is a valid, complete number).
func (l *Lexer) peekTerminatorAware() (rune, bool, error) {
	r, err := l.readScalar()
	if err != nil {
		if isEndOfInput(err) {
			return 0, false, nil
		}
		return 0, false, l.decodeErr(err)
	}
	return r, true, nil
}

// Unescape translates the verbatim escape sequences retained in a String
// token's Text into their decoded form. This is an opt-in helper: the
// core lexing pipeline never calls it. Surrogate pairs in \uXXXX escapes
// are validated only as well-formed hex by the lexer and are not combined
// here either; each \uXXXX escape becomes a single rune.
func Unescape(raw string) (string, error) {
	var b strings.Builder
	runes := []rune(raw)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '\\' {
			b.WriteRune(r)
			continue
		}
		i++
		if i >= len(runes) {
			return "", strconv.ErrSyntax
		}
		switch runes[i] {
		case '"':
			b.WriteByte('"')
		case '\\':
			b.WriteByte('\\')
		case '/':
			b.WriteByte('/')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'u':
			if i+4 >= len(runes) {
				return "", strconv.ErrSyntax
			}
			hex := string(runes[i+1 : i+5])
			v, err := strconv.ParseUint(hex, 16, 32)
			if err != nil {
				return "", err
			}
			b.WriteRune(rune(v))
			i += 4
		default:
			return "", strconv.ErrSyntax
		}
	}
	return b.String(), nil
}
