package schemaconv

import (
	"bytes"
	"strconv"
	"unicode/utf8"
)

// Indent renders n in the canonical human-facing layout: two-space
// indentation, ": " between key and value, one member or element per line,
// non-ASCII characters written as-is and a trailing newline. Empty objects and
// arrays render as {} and []. Numbers keep their literal text.
func Indent(n *Node) []byte {
	var b bytes.Buffer
	writeIndented(&b, n, 0)
	b.WriteByte('\n')
	return b.Bytes()
}

// Compact renders n without insignificant whitespace.
func Compact(n *Node) []byte {
	var b bytes.Buffer
	writeCompact(&b, n)
	return b.Bytes()
}

func writeIndented(b *bytes.Buffer, n *Node, depth int) {
	switch {
	case n.IsObject() && len(n.Members) > 0:
		b.WriteString("{\n")
		for i, m := range n.Members {
			if i > 0 {
				b.WriteString(",\n")
			}
			pad(b, depth+1)
			writeString(b, m.Key)
			b.WriteString(": ")
			writeIndented(b, m.Value, depth+1)
		}
		b.WriteByte('\n')
		pad(b, depth)
		b.WriteByte('}')
	case n.IsArray() && len(n.Items) > 0:
		b.WriteString("[\n")
		for i, it := range n.Items {
			if i > 0 {
				b.WriteString(",\n")
			}
			pad(b, depth+1)
			writeIndented(b, it, depth+1)
		}
		b.WriteByte('\n')
		pad(b, depth)
		b.WriteByte(']')
	default:
		writeCompact(b, n)
	}
}

func writeCompact(b *bytes.Buffer, n *Node) {
	if n == nil {
		b.WriteString("null")
		return
	}
	switch n.Kind {
	case KindNull:
		b.WriteString("null")
	case KindBool:
		b.WriteString(strconv.FormatBool(n.Bool))
	case KindNumber:
		b.WriteString(n.Number)
	case KindString:
		writeString(b, n.Str)
	case KindArray:
		b.WriteByte('[')
		for i, it := range n.Items {
			if i > 0 {
				b.WriteByte(',')
			}
			writeCompact(b, it)
		}
		b.WriteByte(']')
	case KindObject:
		b.WriteByte('{')
		for i, m := range n.Members {
			if i > 0 {
				b.WriteByte(',')
			}
			writeString(b, m.Key)
			b.WriteByte(':')
			writeCompact(b, m.Value)
		}
		b.WriteByte('}')
	}
}

func pad(b *bytes.Buffer, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteString("  ")
	}
}

const hexDigits = "0123456789abcdef"

// writeString quotes s escaping only the quote, the backslash and control
// characters. Invalid UTF-8 is replaced with U+FFFD.
func writeString(b *bytes.Buffer, s string) {
	b.WriteByte('"')
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			switch c {
			case '"':
				b.WriteString(`\"`)
			case '\\':
				b.WriteString(`\\`)
			case '\n':
				b.WriteString(`\n`)
			case '\r':
				b.WriteString(`\r`)
			case '\t':
				b.WriteString(`\t`)
			case '\b':
				b.WriteString(`\b`)
			case '\f':
				b.WriteString(`\f`)
			default:
				if c < 0x20 {
					b.WriteString(`\u00`)
					b.WriteByte(hexDigits[c>>4])
					b.WriteByte(hexDigits[c&0xf])
				} else {
					b.WriteByte(c)
				}
			}
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			b.WriteString("�")
		} else {
			b.WriteString(s[i : i+size])
		}
		i += size
	}
	b.WriteByte('"')
}
