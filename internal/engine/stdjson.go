package engine

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"
)

type jsonSource struct {
	dec        *json.Decoder
	frames     frameStack
	lastOffset int64
}

// NewReader wraps an io.Reader into a TokenSource backed by encoding/json.
func NewReader(r io.Reader) TokenSource {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return &jsonSource{dec: dec, lastOffset: -1}
}

// NewBytes wraps a byte slice into a TokenSource backed by encoding/json.
func NewBytes(b []byte) TokenSource { return NewReader(bytes.NewReader(b)) }

func (s *jsonSource) NextToken() (Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		return Token{}, err
	}
	s.lastOffset = s.dec.InputOffset()

	switch v := tok.(type) {
	case json.Delim:
		return s.frames.delim(byte(v), s.lastOffset), nil
	case string:
		return s.frames.str(v, s.lastOffset), nil
	case bool:
		return s.frames.scalar(Token{Kind: KindBool, Bool: v, Offset: s.lastOffset}), nil
	case json.Number:
		return s.frames.scalar(Token{Kind: KindNumber, Number: string(v), Offset: s.lastOffset}), nil
	case float64:
		return s.frames.scalar(Token{Kind: KindNumber, Number: strconv.FormatFloat(v, 'g', -1, 64), Offset: s.lastOffset}), nil
	}
	return s.frames.scalar(Token{Kind: KindNull, Offset: s.lastOffset}), nil
}

func (s *jsonSource) Location() int64 { return s.lastOffset }
