package schemaconv

import (
	"io"

	eng "github.com/reoring/schemaconv/internal/engine"
)

// TokenSource yields JSON tokens to the Strict Document Parser. Drivers outside
// this module implement it through the aliases below.
type TokenSource = eng.TokenSource

// Token describes a token in the input stream. Offset records the byte position
// when known (-1 otherwise).
type Token = eng.Token

// TokenKind enumerates JSON token kinds.
type TokenKind = eng.Kind

const (
	TokenBeginObject TokenKind = eng.KindBeginObject
	TokenEndObject   TokenKind = eng.KindEndObject
	TokenBeginArray  TokenKind = eng.KindBeginArray
	TokenEndArray    TokenKind = eng.KindEndArray
	TokenKey         TokenKind = eng.KindKey
	TokenString      TokenKind = eng.KindString
	TokenNumber      TokenKind = eng.KindNumber
	TokenBool        TokenKind = eng.KindBool
	TokenNull        TokenKind = eng.KindNull
)

// JSONDriver converts JSON input into a TokenSource. The default implementation
// is based on encoding/json; source/gojson provides a goccy/go-json one.
type JSONDriver interface {
	NewReader(r io.Reader) TokenSource
	Name() string
}

// DefaultJSONDriver returns the encoding/json-backed driver.
func DefaultJSONDriver() JSONDriver { return defaultJSONDriver{} }

type defaultJSONDriver struct{}

func (defaultJSONDriver) NewReader(r io.Reader) TokenSource { return eng.NewReader(r) }
func (defaultJSONDriver) Name() string                      { return "encoding/json" }
