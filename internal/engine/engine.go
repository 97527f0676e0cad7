package engine

import "strings"

// Kind represents token kinds from a generic source.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

func (k Kind) String() string {
	switch k {
	case KindBeginObject:
		return "'{'"
	case KindEndObject:
		return "'}'"
	case KindBeginArray:
		return "'['"
	case KindEndArray:
		return "']'"
	case KindKey:
		return "object key"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	case KindNull:
		return "null"
	}
	return "unknown token"
}

// Token represents a streaming token with approximate input offset.
type Token struct {
	Kind   Kind
	String string
	Number string // literal text, never converted
	Bool   bool
	Offset int64
}

// TokenSource is a minimal interface required by the engine.
type TokenSource interface {
	NextToken() (Token, error)
	Location() int64
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// EscapePointerToken escapes a reference token per RFC 6901.
func EscapePointerToken(s string) string { return pointerEscaper.Replace(s) }

var pointerUnescaper = strings.NewReplacer("~1", "/", "~0", "~")

// UnescapePointerToken reverses EscapePointerToken.
func UnescapePointerToken(s string) string { return pointerUnescaper.Replace(s) }

// JoinPointer appends an escaped token to a JSON Pointer. The root pointer is "".
func JoinPointer(base, token string) string {
	return base + "/" + EscapePointerToken(token)
}
