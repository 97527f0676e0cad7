package schemaconv

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestParseYAML_DuplicateKeyPosition(t *testing.T) {
	src := "properties:\n  a: 1\n  b: 2\n  a: 3\n"
	_, err := ParseYAML([]byte(src))
	var dk *DuplicateKeyError
	if !errors.As(err, &dk) {
		t.Fatalf("expected DuplicateKeyError, got: %v", err)
	}
	if dk.Key != "a" || dk.Pointer != "/properties" {
		t.Fatalf("unexpected duplicate: key=%s pointer=%s", dk.Key, dk.Pointer)
	}
	if dk.Line != 4 || dk.FirstLine != 2 {
		t.Fatalf("expected lines 4 (first 2), got %d (first %d)", dk.Line, dk.FirstLine)
	}
	if !strings.Contains(dk.Error(), "4:3") {
		t.Fatalf("expected position in message, got: %s", dk.Error())
	}
}

func TestParseYAML_Scalars(t *testing.T) {
	n, err := ParseYAML([]byte("s: text\nq: \"1\"\ni: 0x10\nf: 1.5\nb: true\nz: ~\nl: [a, 2]\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := MustParse(`{"s":"text","q":"1","i":16,"f":1.5,"b":true,"z":null,"l":["a",2]}`)
	if !n.Equal(want) {
		t.Fatalf("expected %s, got %s", Compact(want), Compact(n))
	}
}

func TestYAMLReader_MultiDocument(t *testing.T) {
	r := NewYAMLReader(strings.NewReader("a: 1\n---\nb: 2\n"))
	var keys []string
	for {
		n, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		keys = append(keys, n.Keys()...)
	}
	if strings.Join(keys, ",") != "a,b" {
		t.Fatalf("expected a,b, got %v", keys)
	}
}
