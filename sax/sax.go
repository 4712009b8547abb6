// Package sax implements a streaming event emitter: it drives the shared
// lexical/syntactic pipeline and reports each structural and scalar match
// to a user callback, alongside a Span and the structural Pointer of the
// match's position. It is the second front end sharing internal/driver
// with the json package's tree builder, generalizing chisel-json's
// src/sax.rs into a single callback shape instead of dom.rs/sax.rs's
// separate, parallel recursive descents.
package sax

import (
	"io"
	"os"
	"strings"

	"github.com/mcvoid/json/coords"
	"github.com/mcvoid/json/decoder"
	"github.com/mcvoid/json/internal/driver"
	"github.com/mcvoid/json/jsonerr"
	"github.com/mcvoid/json/lexer"
	"github.com/mcvoid/json/pointer"
)

// MatchKind tags the category of an Event's Match.
type MatchKind int

const (
	StartOfInput MatchKind = iota
	EndOfInput
	StartObject
	EndObject
	StartArray
	EndArray
	ObjectKey
	String
	Integer
	Float
	Boolean
	Null
	numMatchKinds
)

var matchKindStrings = [numMatchKinds]string{
	"StartOfInput", "EndOfInput", "StartObject", "EndObject",
	"StartArray", "EndArray", "ObjectKey", "String", "Integer",
	"Float", "Boolean", "Null",
}

func (k MatchKind) String() string {
	if k < 0 || k >= numMatchKinds {
		return "<unknown>"
	}
	return matchKindStrings[k]
}

// Match is the payload of an Event. Text carries ObjectKey and String
// text; Int, Float64, and Bool carry their respective scalar kinds.
type Match struct {
	Kind    MatchKind
	Text    string
	Int     int64
	Float64 float64
	Bool    bool
}

// Event bundles a Match, its Span, and the Pointer describing its
// structural position at the moment of the call. Pointer is a live,
// mutable value owned by the parse in progress: it is valid only for the
// duration of the callback invocation and must not be retained past it.
// Callers that need the path afterward should call Pointer.String() (or
// Pointer.Clone()) before returning.
type Event struct {
	Match   Match
	Span    coords.Span
	Pointer *pointer.Pointer
}

// Callback receives one Event per structural or scalar match, in document
// order. A non-nil return aborts the parse; that error propagates
// unchanged from the ParseFromXxx call that drove it.
type Callback func(e *Event) error

// emitVisitor implements driver.Visitor, translating the shared grammar
// walk into Events and maintaining the Pointer the spec requires: pushed
// before an ObjectKey or array index is reported, popped once the
// corresponding value finishes.
type emitVisitor struct {
	ptr *pointer.Pointer
	cb  Callback
}

func (e *emitVisitor) emit(m Match, span coords.Span) error {
	return e.cb(&Event{Match: m, Span: span, Pointer: e.ptr})
}

func (e *emitVisitor) StartDocument(span coords.Span) error {
	return e.emit(Match{Kind: StartOfInput}, span)
}

func (e *emitVisitor) EnterObject(span coords.Span) error {
	return e.emit(Match{Kind: StartObject}, span)
}

func (e *emitVisitor) LeaveObject(span coords.Span) error {
	return e.emit(Match{Kind: EndObject}, span)
}

func (e *emitVisitor) EnterArray(span coords.Span) error {
	return e.emit(Match{Kind: StartArray}, span)
}

func (e *emitVisitor) LeaveArray(span coords.Span) error {
	return e.emit(Match{Kind: EndArray}, span)
}

// ObjectKey pushes the key onto the pointer before reporting it, per the
// "pushed, then emitted" ordering the spec calls out explicitly.
func (e *emitVisitor) ObjectKey(text string, span coords.Span) error {
	e.ptr.PushName(text)
	return e.emit(Match{Kind: ObjectKey, Text: text}, span)
}

func (e *emitVisitor) LeaveObjectValue() error {
	e.ptr.Pop()
	return nil
}

func (e *emitVisitor) EnterArrayElement(index int) error {
	e.ptr.PushIndex(index)
	return nil
}

func (e *emitVisitor) LeaveArrayElement() error {
	e.ptr.Pop()
	return nil
}

func (e *emitVisitor) Scalar(tok lexer.Token) error {
	switch tok.Kind {
	case lexer.String:
		return e.emit(Match{Kind: String, Text: tok.Text}, tok.Span)
	case lexer.Integer:
		return e.emit(Match{Kind: Integer, Int: tok.Int}, tok.Span)
	case lexer.Float:
		return e.emit(Match{Kind: Float, Float64: tok.Float64}, tok.Span)
	case lexer.Boolean:
		return e.emit(Match{Kind: Boolean, Bool: tok.Bool}, tok.Span)
	case lexer.Null:
		return e.emit(Match{Kind: Null}, tok.Span)
	}
	return nil
}

// ParseFromReader drives cb over the JSON document read from r.
func ParseFromReader(r io.Reader, cb Callback) error {
	dec := decoder.New(r, decoder.Utf8)
	lex := lexer.New(dec, lexer.DefaultOptions())
	v := &emitVisitor{ptr: pointer.New(), cb: cb}
	drv := driver.New(lex, v, driver.DefaultMaxDepth)
	return drv.Run()
}

// ParseFromString drives cb over s, failing ZeroLengthInput at the start
// coordinate if s is empty.
func ParseFromString(s string, cb Callback) error {
	if len(s) == 0 {
		return jsonerr.Parse(jsonerr.ZeroLengthInput{}, coords.Start())
	}
	return ParseFromReader(strings.NewReader(s), cb)
}

// ParseFromBytes drives cb over b, failing ZeroLengthInput at the start
// coordinate if b is empty.
func ParseFromBytes(b []byte, cb Callback) error {
	if len(b) == 0 {
		return jsonerr.Parse(jsonerr.ZeroLengthInput{}, coords.Start())
	}
	return ParseFromReader(strings.NewReader(string(b)), cb)
}

// ParseFromPath opens path and drives cb over its contents, failing
// InvalidFile if the path cannot be opened.
func ParseFromPath(path string, cb Callback) error {
	f, err := os.Open(path)
	if err != nil {
		return jsonerr.Parse(jsonerr.InvalidFile{Path: path}, coords.Start())
	}
	defer f.Close()
	return ParseFromReader(f, cb)
}
