package schemaconv

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	eng "github.com/reoring/schemaconv/internal/engine"
)

// DuplicateKeyError reports an object that assigns the same member name more
// than once (RFC 7493 section 2.3). Line and column are set by the YAML parser.
type DuplicateKeyError struct {
	Key     string
	Pointer Pointer // object holding the key
	Offset  int64

	Line, Column           int
	FirstLine, FirstColumn int
}

func (e *DuplicateKeyError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("duplicate key %q at %d:%d (first at %d:%d)", e.Key, e.Line, e.Column, e.FirstLine, e.FirstColumn)
	}
	return fmt.Sprintf("duplicate key %q at %s", e.Key, pointerLabel(e.Pointer))
}

// SyntaxError reports malformed input. Err is the tokenizer's own error, or a
// description of the unexpected token.
type SyntaxError struct {
	Offset int64
	Err    error
}

func (e *SyntaxError) Error() string { return e.Err.Error() }

func (e *SyntaxError) Unwrap() error { return e.Err }

// ParseOptions bundles parsing options.
type ParseOptions struct {
	// Driver tokenizes the input; nil selects encoding/json.
	Driver JSONDriver
	// MaxDepth bounds nesting; 0 means unlimited.
	MaxDepth int
}

// ErrMaxDepth is wrapped by the SyntaxError returned when MaxDepth is exceeded.
var ErrMaxDepth = errors.New("max depth exceeded")

// Parse parses a JSON document, rejecting objects with repeated keys.
func Parse(data []byte) (*Node, error) {
	return ParseReader(bytes.NewReader(data), ParseOptions{})
}

// ParseWith parses a JSON document with options.
func ParseWith(data []byte, opt ParseOptions) (*Node, error) {
	return ParseReader(bytes.NewReader(data), opt)
}

// ParseReader parses a JSON document from r. It returns *DuplicateKeyError or
// *SyntaxError on failure.
func ParseReader(r io.Reader, opt ParseOptions) (*Node, error) {
	d := opt.Driver
	if d == nil {
		d = defaultJSONDriver{}
	}
	p := &parser{src: d.NewReader(r), maxDepth: opt.MaxDepth}
	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	root, err := p.value(tok, "", 0)
	if err != nil {
		return nil, err
	}
	tok, err = p.src.NextToken()
	switch {
	case err == io.EOF:
		return root, nil
	case err != nil:
		return nil, &SyntaxError{Offset: p.src.Location(), Err: err}
	}
	return nil, &SyntaxError{Offset: tok.Offset, Err: fmt.Errorf("invalid character after top-level value: %s", tok.Kind)}
}

// MustParse is Parse for literals in tests and examples. It panics on error.
func MustParse(text string) *Node {
	n, err := Parse([]byte(text))
	if err != nil {
		panic(err)
	}
	return n
}

type parser struct {
	src      TokenSource
	maxDepth int
}

func (p *parser) next() (Token, error) {
	tok, err := p.src.NextToken()
	if err == io.EOF {
		return Token{}, &SyntaxError{Offset: p.src.Location(), Err: io.ErrUnexpectedEOF}
	}
	if err != nil {
		return Token{}, &SyntaxError{Offset: p.src.Location(), Err: err}
	}
	return tok, nil
}

func (p *parser) value(tok Token, ptr Pointer, depth int) (*Node, error) {
	switch tok.Kind {
	case eng.KindBeginObject, eng.KindBeginArray:
		if p.maxDepth > 0 && depth >= p.maxDepth {
			return nil, &SyntaxError{Offset: tok.Offset, Err: fmt.Errorf("%w at %s", ErrMaxDepth, pointerLabel(ptr))}
		}
		if tok.Kind == eng.KindBeginObject {
			return p.object(ptr, depth+1)
		}
		return p.array(ptr, depth+1)
	case eng.KindString:
		return String(tok.String), nil
	case eng.KindNumber:
		return Number(tok.Number), nil
	case eng.KindBool:
		return Bool(tok.Bool), nil
	case eng.KindNull:
		return Null(), nil
	}
	return nil, unexpected(tok)
}

func (p *parser) object(ptr Pointer, depth int) (*Node, error) {
	obj := Object()
	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}
		if tok.Kind == eng.KindEndObject {
			return obj, nil
		}
		if tok.Kind != eng.KindKey {
			return nil, unexpected(tok)
		}
		key := tok.String
		if obj.Has(key) {
			return nil, &DuplicateKeyError{Key: key, Pointer: ptr, Offset: tok.Offset}
		}
		vt, err := p.next()
		if err != nil {
			return nil, err
		}
		v, err := p.value(vt, ptr.Field(key), depth)
		if err != nil {
			return nil, err
		}
		obj.append(key, v)
	}
}

func (p *parser) array(ptr Pointer, depth int) (*Node, error) {
	arr := Array()
	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}
		if tok.Kind == eng.KindEndArray {
			return arr, nil
		}
		v, err := p.value(tok, ptr.Index(len(arr.Items)), depth)
		if err != nil {
			return nil, err
		}
		arr.Items = append(arr.Items, v)
	}
}

func unexpected(tok Token) error {
	return &SyntaxError{Offset: tok.Offset, Err: fmt.Errorf("unexpected %s at offset %s", tok.Kind, strconv.FormatInt(tok.Offset, 10))}
}

// DetectDuplicateKeys scans a whole document and reports every repeated key,
// where Parse stops at the first. A syntax error ends the scan and is returned
// with the duplicates found before it.
func DetectDuplicateKeys(data []byte, opt ParseOptions) ([]*DuplicateKeyError, error) {
	d := opt.Driver
	if d == nil {
		d = defaultJSONDriver{}
	}
	src := d.NewReader(bytes.NewReader(data))
	dups, err := eng.ScanDuplicateKeys(src, -1)
	out := make([]*DuplicateKeyError, 0, len(dups))
	for _, dup := range dups {
		out = append(out, &DuplicateKeyError{Key: dup.Key, Pointer: Pointer(dup.Pointer), Offset: dup.Offset})
	}
	if err != nil {
		return out, &SyntaxError{Offset: src.Location(), Err: err}
	}
	return out, nil
}

// ParseDiagnostic converts a parse failure into an error diagnostic:
// duplicate_key for *DuplicateKeyError and parse_error for anything else.
func ParseDiagnostic(path string, err error) Diagnostic {
	var dup *DuplicateKeyError
	if errors.As(err, &dup) {
		return NewDiagnostic(Error, CodeDuplicateKey, path, dup.Pointer, map[string]string{"key": dup.Key})
	}
	return NewDiagnostic(Error, CodeParseError, path, "", map[string]string{"error": err.Error()})
}
