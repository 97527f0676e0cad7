// Package gojson provides a schemaconv.JSONDriver backed by goccy/go-json.
package gojson

import (
	"bytes"
	"errors"
	"io"
	"strconv"

	j "github.com/goccy/go-json"

	schemaconv "github.com/reoring/schemaconv"
	eng "github.com/reoring/schemaconv/internal/engine"
)

// Driver returns a schemaconv.JSONDriver backed by goccy/go-json.
func Driver() schemaconv.JSONDriver { return driverGoJSON{} }

type driverGoJSON struct{}

func (driverGoJSON) NewReader(r io.Reader) schemaconv.TokenSource { return NewReader(r) }
func (driverGoJSON) Name() string                                 { return "go-json" }

type source struct {
	dec    *j.Decoder
	frames eng.Frames
}

// errInvalid is returned when go-json rejects the input without detail.
var errInvalid = errors.New("go-json: invalid JSON")

// NewReader wraps an io.Reader into a token source using go-json. The
// decoder's Token method does not check separators, so the whole input is
// read and validated first; invalid input yields a source whose first token
// is the validation error.
func NewReader(r io.Reader) eng.TokenSource {
	data, err := io.ReadAll(r)
	if err != nil {
		return failed{err}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return failed{io.ErrUnexpectedEOF}
	}
	if !j.Valid(data) {
		var v any
		if err := j.Unmarshal(data, &v); err != nil {
			return failed{err}
		}
		return failed{errInvalid}
	}
	dec := j.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return &source{dec: dec}
}

type failed struct{ err error }

func (f failed) NextToken() (eng.Token, error) { return eng.Token{}, f.err }
func (f failed) Location() int64              { return -1 }

// NewBytes wraps a byte slice into a token source using go-json.
func NewBytes(b []byte) eng.TokenSource { return NewReader(bytes.NewReader(b)) }

func (s *source) NextToken() (eng.Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		return eng.Token{}, err
	}
	switch v := tok.(type) {
	case j.Delim:
		return s.frames.Delim(byte(v), -1), nil
	case string:
		return s.frames.String(v, -1), nil
	case bool:
		return s.frames.Scalar(eng.Token{Kind: eng.KindBool, Bool: v, Offset: -1}), nil
	case j.Number:
		return s.frames.Scalar(eng.Token{Kind: eng.KindNumber, Number: string(v), Offset: -1}), nil
	case float64:
		return s.frames.Scalar(eng.Token{Kind: eng.KindNumber, Number: strconv.FormatFloat(v, 'g', -1, 64), Offset: -1}), nil
	}
	return s.frames.Scalar(eng.Token{Kind: eng.KindNull, Offset: -1}), nil
}

// Location is unknown for go-json tokens.
func (s *source) Location() int64 { return -1 }
