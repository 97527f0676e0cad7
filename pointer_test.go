package schemaconv

import "testing"

func TestPointer_FieldEscapes(t *testing.T) {
	p := Pointer("").Field("a/b").Field("m~n").Index(3)
	if p != "/a~1b/m~0n/3" {
		t.Fatalf("expected /a~1b/m~0n/3, got %s", p)
	}
}

func TestPointer_ParentAndGrandparent(t *testing.T) {
	p := Pointer("/properties/tender/properties")
	if p.Parent() != "properties" {
		t.Fatalf("expected parent=properties, got %s", p.Parent())
	}
	gp, ok := p.Grandparent()
	if !ok || gp != "tender" {
		t.Fatalf("expected grandparent=tender, got %q %v", gp, ok)
	}
	if Pointer("").Parent() != "" {
		t.Fatalf("expected empty parent at root")
	}
	if _, ok := Pointer("/a").Grandparent(); ok {
		t.Fatalf("expected no grandparent for single segment")
	}
}

func TestLookup(t *testing.T) {
	root := MustParse(`{"a/b":[{"c":1},{"m~n":true}],"":"empty"}`)
	cases := []struct {
		p    Pointer
		ok   bool
		kind Kind
	}{
		{"", true, KindObject},
		{"/a~1b/0/c", true, KindNumber},
		{"/a~1b/1/m~0n", true, KindBool},
		{"/", true, KindString},
		{"/a~1b/01", false, 0},
		{"/a~1b/2", false, 0},
		{"/missing", false, 0},
		{"/a~1b/0/c/deeper", false, 0},
	}
	for _, c := range cases {
		n, ok := Lookup(root, c.p)
		if ok != c.ok {
			t.Fatalf("%q: expected ok=%v, got %v", c.p, c.ok, ok)
		}
		if ok && n.Kind != c.kind {
			t.Fatalf("%q: expected kind %s, got %s", c.p, c.kind, n.Kind)
		}
	}
}

func TestSet_MatchGlob(t *testing.T) {
	s := NewSet("/properties/id", "/definitions/*/properties/id")
	if !s.Match("/properties/id") {
		t.Fatalf("expected exact match")
	}
	if !s.Match("/definitions/Award/properties/id") {
		t.Fatalf("expected glob match")
	}
	if s.Match("/definitions/Award/properties/title") {
		t.Fatalf("unexpected match")
	}
}
