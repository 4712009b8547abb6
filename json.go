// Package json implements a JSON tree-builder: it consumes an input
// source and returns an in-memory Value tree. It shares its lexical and
// syntactic pipeline (coords, decoder, lexer, internal/driver) with the
// sax package's streaming event emitter.
//
// The public Value API (Type, AsNull/AsNumber/.../Index/Key) is kept close
// to the teacher's original github.com/mcvoid/json shape; the internals
// ride on the shared recursive-descent driver instead of a hand-rolled
// pushdown automaton.
package json

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mcvoid/json/coords"
	"github.com/mcvoid/json/decoder"
	"github.com/mcvoid/json/internal/driver"
	"github.com/mcvoid/json/jsonerr"
	"github.com/mcvoid/json/lexer"
)

var (
	// ErrType reports that a Value is being cast to an incorrect type.
	ErrType = errors.New("type error")
	// ErrParse is the sentinel that parser-stage *jsonerr.Error values
	// unwrap to; lexer-stage errors unwrap to jsonerr.ErrLex instead.
	ErrParse = jsonerr.ErrParse
)

// Type is the tag of a JSON Value.
type Type int

const (
	Null Type = iota
	Number
	Integer
	String
	Boolean
	Array
	Object
	numTypes
	typeUnknown Type = -1
)

var typeStrings = [numTypes]string{
	"<null>",
	"<number>",
	"<integer>",
	"<string>",
	"<boolean>",
	"<array>",
	"<object>",
}

func (t Type) String() string {
	if t < 0 || t >= numTypes {
		return "<unknown>"
	}
	return typeStrings[t]
}

// ObjectEntry is one key/value pair of an Object, preserved in insertion
// order; duplicate keys are permitted and all are kept.
type ObjectEntry struct {
	Key   string
	Value Value
}

// Value is a JSON value: a tagged union of null, number, integer, string,
// boolean, array, and object.
type Value struct {
	typ          Type
	numberValue  float64
	integerValue int64
	stringValue  string
	booleanValue bool
	arrayValue   []Value
	objectValue  []ObjectEntry
}

// Type reports the tag of v.
func (v *Value) Type() Type {
	if v == nil {
		return typeUnknown
	}
	if v.typ >= 0 && v.typ < numTypes {
		return v.typ
	}
	return typeUnknown
}

func (v *Value) AsNull() (struct{}, error) {
	if v.Type() == Null {
		return struct{}{}, nil
	}
	return struct{}{}, fmt.Errorf("%w: value not null %v", ErrType, v)
}

// AsNumber extracts a number, casting an Integer to float64. Use AsInteger
// when integer precision matters.
func (v *Value) AsNumber() (float64, error) {
	switch v.Type() {
	case Integer:
		return float64(v.integerValue), nil
	case Number:
		return v.numberValue, nil
	default:
		return 0, fmt.Errorf("%w: value not a valid number %v", ErrType, v)
	}
}

// AsInteger extracts an integer. It will not convert a decimal Number.
func (v *Value) AsInteger() (int64, error) {
	if v.Type() == Integer {
		return v.integerValue, nil
	}
	return 0, fmt.Errorf("%w: value not a valid integer %v", ErrType, v)
}

func (v *Value) AsString() (string, error) {
	if v.Type() == String {
		return v.stringValue, nil
	}
	return "", fmt.Errorf("%w: value not a valid string %v", ErrType, v)
}

func (v *Value) AsBoolean() (bool, error) {
	if v.Type() == Boolean {
		return v.booleanValue, nil
	}
	return false, fmt.Errorf("%w: value not a valid boolean %v", ErrType, v)
}

func (v *Value) AsArray() ([]Value, error) {
	if v.Type() == Array {
		return v.arrayValue, nil
	}
	return nil, fmt.Errorf("%w: value not a valid array %v", ErrType, v)
}

// AsObject extracts an object as an ordered slice of entries. Use
// AsObjectMap for map semantics (which discards duplicate-key ordering).
func (v *Value) AsObject() ([]ObjectEntry, error) {
	if v.Type() == Object {
		return v.objectValue, nil
	}
	return nil, fmt.Errorf("%w: value not a valid object %v", ErrType, v)
}

// AsObjectMap extracts an object as a map, last-write-wins on duplicate
// keys, for consumers that want map semantics (spec.md §9 leaves this
// policy to the caller). Values are returned by pointer, mirroring the
// teacher's map[string]*Value shape, so the fluent AsXxx/Index/Key methods
// stay callable on a map lookup result.
func (v *Value) AsObjectMap() (map[string]*Value, error) {
	entries, err := v.AsObject()
	if err != nil {
		return nil, err
	}
	m := make(map[string]*Value, len(entries))
	for i := range entries {
		m[entries[i].Key] = &entries[i].Value
	}
	return m, nil
}

// String returns a debug string representation. NOT valid JSON.
func (v *Value) String() string {
	if v == nil {
		return "<nil>"
	}
	switch v.typ {
	case Null:
		return "null"
	case Integer:
		return strconv.FormatInt(v.integerValue, 10)
	case Number:
		return strconv.FormatFloat(v.numberValue, 'f', -1, 64)
	case String:
		return strconv.Quote(v.stringValue)
	case Boolean:
		if v.booleanValue {
			return "true"
		}
		return "false"
	case Array:
		var b strings.Builder
		b.WriteByte('[')
		for i, val := range v.arrayValue {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(val.String())
		}
		b.WriteByte(']')
		return b.String()
	case Object:
		var b strings.Builder
		b.WriteByte('{')
		for i, entry := range v.objectValue {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(strconv.Quote(entry.Key))
			b.WriteString(": ")
			b.WriteString(entry.Value.String())
		}
		b.WriteByte('}')
		return b.String()
	default:
		return "<unknown>"
	}
}

// Index is a fluent accessor for array members; out-of-range or non-array
// access yields the zero Value (Null) rather than an error.
func (v *Value) Index(i int) *Value {
	if v.Type() != Array || i < 0 || i >= len(v.arrayValue) {
		return &Value{}
	}
	return &v.arrayValue[i]
}

// Key is a fluent accessor for object members; missing keys or non-object
// access yields the zero Value (Null) rather than an error. The first
// matching entry wins when duplicate keys are present.
func (v *Value) Key(k string) *Value {
	if v.Type() != Object {
		return &Value{}
	}
	for i := range v.objectValue {
		if v.objectValue[i].Key == k {
			return &v.objectValue[i].Value
		}
	}
	return &Value{}
}

// builderVisitor implements driver.Visitor, reducing the token stream into
// a Value tree. It generalizes the teacher's valueStack/growObject/
// growArray PDA actions into the shared driver's Visitor callbacks.
type builderVisitor struct {
	frames []*frame
	result Value
}

type frame struct {
	isObject bool
	key      string
	entries  []ObjectEntry
	items    []Value
}

func (b *builderVisitor) attach(v Value) {
	if len(b.frames) == 0 {
		b.result = v
		return
	}
	top := b.frames[len(b.frames)-1]
	if top.isObject {
		top.entries = append(top.entries, ObjectEntry{Key: top.key, Value: v})
	} else {
		top.items = append(top.items, v)
	}
}

func (b *builderVisitor) StartDocument(coords.Span) error { return nil }

func (b *builderVisitor) EnterObject(coords.Span) error {
	b.frames = append(b.frames, &frame{isObject: true})
	return nil
}

func (b *builderVisitor) LeaveObject(coords.Span) error {
	top := b.frames[len(b.frames)-1]
	b.frames = b.frames[:len(b.frames)-1]
	b.attach(Value{typ: Object, objectValue: top.entries})
	return nil
}

func (b *builderVisitor) EnterArray(coords.Span) error {
	b.frames = append(b.frames, &frame{isObject: false})
	return nil
}

func (b *builderVisitor) LeaveArray(coords.Span) error {
	top := b.frames[len(b.frames)-1]
	b.frames = b.frames[:len(b.frames)-1]
	b.attach(Value{typ: Array, arrayValue: top.items})
	return nil
}

func (b *builderVisitor) ObjectKey(text string, _ coords.Span) error {
	b.frames[len(b.frames)-1].key = text
	return nil
}

// LeaveObjectValue, EnterArrayElement, and LeaveArrayElement exist for the
// event emitter's Pointer bookkeeping; the tree builder already captures
// structure via attach, so these are no-ops here.
func (b *builderVisitor) LeaveObjectValue() error    { return nil }
func (b *builderVisitor) EnterArrayElement(int) error { return nil }
func (b *builderVisitor) LeaveArrayElement() error   { return nil }

func (b *builderVisitor) Scalar(tok lexer.Token) error {
	switch tok.Kind {
	case lexer.String:
		b.attach(Value{typ: String, stringValue: tok.Text})
	case lexer.Integer:
		b.attach(Value{typ: Integer, integerValue: tok.Int})
	case lexer.Float:
		b.attach(Value{typ: Number, numberValue: tok.Float64})
	case lexer.Boolean:
		b.attach(Value{typ: Boolean, booleanValue: tok.Bool})
	case lexer.Null:
		b.attach(Value{typ: Null})
	}
	return nil
}

// Parse parses a JSON value from a Reader. If it cannot read a valid
// value, it returns a null Value and a non-nil error.
func Parse(r io.Reader) (*Value, error) {
	dec := decoder.New(r, decoder.Utf8)
	lex := lexer.New(dec, lexer.DefaultOptions())
	b := &builderVisitor{}
	drv := driver.New(lex, b, driver.DefaultMaxDepth)
	if err := drv.Run(); err != nil {
		return &Value{}, err
	}
	return &b.result, nil
}

// ParseString parses a JSON value from a string.
func ParseString(s string) (*Value, error) {
	return Parse(strings.NewReader(s))
}

// ParseBytes parses a JSON value from a byte slice.
func ParseBytes(b []byte) (*Value, error) {
	return Parse(strings.NewReader(string(b)))
}

// ParseFromPath opens path and parses its contents, mirroring
// chisel-json's dom.rs Parser::parse_file. It fails jsonerr.InvalidFile if
// the path cannot be opened.
func ParseFromPath(path string) (*Value, error) {
	f, err := os.Open(path)
	if err != nil {
		return &Value{}, jsonerr.Parse(jsonerr.InvalidFile{Path: path}, coords.Start())
	}
	defer f.Close()
	return Parse(f)
}
