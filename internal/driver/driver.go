// Package driver implements the recursive-descent grammar walk shared by
// the tree-builder and event-emitter front ends. It generalizes the
// teacher's single pushdown automaton (parser.go's consumeCharacter) back
// into the plain grammar shape chisel-json implements twice in parallel
// (src/dom.rs vs src/sax.rs), parameterized here by a Visitor instead of
// duplicated per front end.
package driver

import (
	"github.com/mcvoid/json/coords"
	"github.com/mcvoid/json/jsonerr"
	"github.com/mcvoid/json/lexer"
)

// DefaultMaxDepth mirrors the teacher's own depth constant in parser.go:
// nested JSON deeper than this is almost certainly a mistake, not a
// legitimate document.
const DefaultMaxDepth = 1024

// Visitor receives callbacks as the driver walks the token stream. Each
// method may return an error to abort the parse; that error is surfaced to
// the caller unchanged. Scalar is called for String/Integer/Float/Boolean/
// Null leaf tokens.
//
// LeaveObjectValue and the ArrayElement pair exist only so the event
// emitter can push/pop its Pointer around each member; the tree builder
// implements them as no-ops.
type Visitor interface {
	StartDocument(span coords.Span) error
	EnterObject(span coords.Span) error
	LeaveObject(span coords.Span) error
	EnterArray(span coords.Span) error
	LeaveArray(span coords.Span) error
	ObjectKey(text string, span coords.Span) error
	LeaveObjectValue() error
	EnterArrayElement(index int) error
	LeaveArrayElement() error
	Scalar(tok lexer.Token) error
}

// Driver walks tokens from a Lexer, dispatching structural and scalar
// events to a Visitor. It is shared, unexported machinery: the json and
// sax packages each supply their own Visitor.
type Driver struct {
	lex      *lexer.Lexer
	visitor  Visitor
	maxDepth int
}

// New constructs a Driver over lex. maxDepth <= 0 selects DefaultMaxDepth.
func New(lex *lexer.Lexer, visitor Visitor, maxDepth int) *Driver {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Driver{lex: lex, visitor: visitor, maxDepth: maxDepth}
}

// Run parses exactly one JSON document: a root object or array, as
// required by spec.md §4.5's parse(root) contract.
func (d *Driver) Run() error {
	tok, err := d.lex.Consume()
	if err != nil {
		return err
	}
	switch tok.Kind {
	case lexer.StartObject:
		if err := d.visitor.StartDocument(tok.Span); err != nil {
			return err
		}
		if err := d.visitor.EnterObject(tok.Span); err != nil {
			return err
		}
		return d.parseObject(tok.Span, 1)
	case lexer.StartArray:
		if err := d.visitor.StartDocument(tok.Span); err != nil {
			return err
		}
		if err := d.visitor.EnterArray(tok.Span); err != nil {
			return err
		}
		return d.parseArray(tok.Span, 1)
	case lexer.EndOfInput:
		return jsonerr.Parse(jsonerr.EndOfInput{}, tok.Span.Start)
	default:
		return jsonerr.Parse(jsonerr.InvalidRootObject{}, tok.Span.Start)
	}
}

func (d *Driver) checkDepth(depth int, at coords.Coord) error {
	if depth > d.maxDepth {
		return jsonerr.Parse(jsonerr.DepthExceeded{Limit: d.maxDepth}, at)
	}
	return nil
}

func (d *Driver) parseValue(depth int) error {
	tok, err := d.lex.Consume()
	if err != nil {
		return err
	}
	switch tok.Kind {
	case lexer.StartObject:
		if err := d.checkDepth(depth+1, tok.Span.Start); err != nil {
			return err
		}
		if err := d.visitor.EnterObject(tok.Span); err != nil {
			return err
		}
		return d.parseObject(tok.Span, depth+1)
	case lexer.StartArray:
		if err := d.checkDepth(depth+1, tok.Span.Start); err != nil {
			return err
		}
		if err := d.visitor.EnterArray(tok.Span); err != nil {
			return err
		}
		return d.parseArray(tok.Span, depth+1)
	case lexer.String, lexer.Integer, lexer.Float, lexer.Boolean, lexer.Null:
		return d.visitor.Scalar(tok)
	case lexer.EndOfInput:
		return jsonerr.Parse(jsonerr.EndOfInput{}, tok.Span.Start)
	default:
		return jsonerr.Parse(jsonerr.UnexpectedToken{Token: tok.Kind.String()}, tok.Span.Start)
	}
}

// parseObject loops: expect String(key), then Colon, then a value; Comma
// continues; EndObject terminates. LeaveObjectValue is called once the
// value belonging to a key has been fully parsed, so an emitter can pop
// that key from its Pointer.
func (d *Driver) parseObject(openSpan coords.Span, depth int) error {
	for {
		tok, err := d.lex.Consume()
		if err != nil {
			return err
		}
		switch tok.Kind {
		case lexer.String:
			if err := d.visitor.ObjectKey(tok.Text, tok.Span); err != nil {
				return err
			}
			colon, err := d.lex.Consume()
			if err != nil {
				return err
			}
			if colon.Kind != lexer.Colon {
				return jsonerr.Parse(jsonerr.PairExpected{}, colon.Span.Start)
			}
			if err := d.parseValue(depth); err != nil {
				return err
			}
			if err := d.visitor.LeaveObjectValue(); err != nil {
				return err
			}
		case lexer.Comma:
			// continue
		case lexer.EndObject:
			return d.visitor.LeaveObject(tok.Span)
		case lexer.EndOfInput:
			return jsonerr.Parse(jsonerr.EndOfInput{}, tok.Span.Start)
		default:
			return jsonerr.Parse(jsonerr.InvalidObject{}, tok.Span.Start)
		}
	}
}

// parseArray loops: EndArray terminates; Comma continues and advances the
// element index; otherwise a value is expected. Each element is bracketed
// by EnterArrayElement/LeaveArrayElement so an emitter can push/pop the
// element's index on its Pointer.
func (d *Driver) parseArray(openSpan coords.Span, depth int) error {
	index := 0
	for {
		tok, err := d.lex.Consume()
		if err != nil {
			return err
		}
		switch tok.Kind {
		case lexer.EndArray:
			return d.visitor.LeaveArray(tok.Span)
		case lexer.Comma:
			index++
		case lexer.StartObject:
			if err := d.checkDepth(depth+1, tok.Span.Start); err != nil {
				return err
			}
			if err := d.visitor.EnterArrayElement(index); err != nil {
				return err
			}
			if err := d.visitor.EnterObject(tok.Span); err != nil {
				return err
			}
			if err := d.parseObject(tok.Span, depth+1); err != nil {
				return err
			}
			if err := d.visitor.LeaveArrayElement(); err != nil {
				return err
			}
		case lexer.StartArray:
			if err := d.checkDepth(depth+1, tok.Span.Start); err != nil {
				return err
			}
			if err := d.visitor.EnterArrayElement(index); err != nil {
				return err
			}
			if err := d.visitor.EnterArray(tok.Span); err != nil {
				return err
			}
			if err := d.parseArray(tok.Span, depth+1); err != nil {
				return err
			}
			if err := d.visitor.LeaveArrayElement(); err != nil {
				return err
			}
		case lexer.String, lexer.Integer, lexer.Float, lexer.Boolean, lexer.Null:
			if err := d.visitor.EnterArrayElement(index); err != nil {
				return err
			}
			if err := d.visitor.Scalar(tok); err != nil {
				return err
			}
			if err := d.visitor.LeaveArrayElement(); err != nil {
				return err
			}
		case lexer.EndOfInput:
			return jsonerr.Parse(jsonerr.EndOfInput{}, tok.Span.Start)
		default:
			return jsonerr.Parse(jsonerr.InvalidArray{}, tok.Span.Start)
		}
	}
}
