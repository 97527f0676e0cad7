package engine

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type frame struct {
	kind         containerKind
	expectingKey bool
}

// frameStack classifies strings inside objects as keys or values. Drivers that
// only see delimiters and scalars share it.
type frameStack []frame

func (s *frameStack) push(k containerKind) {
	*s = append(*s, frame{kind: k, expectingKey: k == kindObject})
}

func (s *frameStack) pop() {
	if n := len(*s); n > 0 {
		*s = (*s)[:n-1]
	}
	s.valueDone()
}

// valueDone marks the value of the pending member as consumed.
func (s *frameStack) valueDone() {
	if n := len(*s); n > 0 {
		top := &(*s)[n-1]
		if top.kind == kindObject && !top.expectingKey {
			top.expectingKey = true
		}
	}
}

// takeKey reports whether the next string is an object key, and if so consumes
// the key position.
func (s *frameStack) takeKey() bool {
	if n := len(*s); n > 0 {
		top := &(*s)[n-1]
		if top.kind == kindObject && top.expectingKey {
			top.expectingKey = false
			return true
		}
	}
	return false
}

func (s *frameStack) delim(d byte, off int64) Token {
	switch d {
	case '{':
		s.push(kindObject)
		return Token{Kind: KindBeginObject, Offset: off}
	case '}':
		s.pop()
		return Token{Kind: KindEndObject, Offset: off}
	case '[':
		s.push(kindArray)
		return Token{Kind: KindBeginArray, Offset: off}
	default:
		s.pop()
		return Token{Kind: KindEndArray, Offset: off}
	}
}

func (s *frameStack) str(v string, off int64) Token {
	if s.takeKey() {
		return Token{Kind: KindKey, String: v, Offset: off}
	}
	s.valueDone()
	return Token{Kind: KindString, String: v, Offset: off}
}

func (s *frameStack) scalar(t Token) Token {
	s.valueDone()
	return t
}

// Frames is the exported form of the key/value classifier for drivers that live
// outside this package.
type Frames struct{ s frameStack }

// Delim classifies '{', '}', '[' or ']'.
func (f *Frames) Delim(d byte, off int64) Token { return f.s.delim(d, off) }

// String classifies a string as a key or a value.
func (f *Frames) String(v string, off int64) Token { return f.s.str(v, off) }

// Scalar records a number, boolean or null value.
func (f *Frames) Scalar(t Token) Token { return f.s.scalar(t) }
