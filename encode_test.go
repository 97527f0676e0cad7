package schemaconv

import "testing"

func TestIndent_CanonicalLayout(t *testing.T) {
	n := MustParse(`{"a":[1,{"b":"é"}],"c":{},"d":[],"e":"q\"\\\n\u0001/<"}`)
	want := "{\n" +
		"  \"a\": [\n" +
		"    1,\n" +
		"    {\n" +
		"      \"b\": \"é\"\n" +
		"    }\n" +
		"  ],\n" +
		"  \"c\": {},\n" +
		"  \"d\": [],\n" +
		"  \"e\": \"q\\\"\\\\\\n\\u0001/<\"\n" +
		"}\n"
	if got := string(Indent(n)); got != want {
		t.Fatalf("expected:\n%s\ngot:\n%s", want, got)
	}
}

func TestIndent_RoundTripIsStable(t *testing.T) {
	src := "{\n  \"title\": \"日本語\",\n  \"n\": 1.50\n}\n"
	if got := string(Indent(MustParse(src))); got != src {
		t.Fatalf("expected stable output, got:\n%s", got)
	}
}

func TestIndent_KeepsNumberLiterals(t *testing.T) {
	for _, lit := range []string{"1.50", "1e3", "1E+3", "-0", "10.0", "12345678901234567890"} {
		want := "{\n  \"n\": " + lit + "\n}\n"
		if got := string(Indent(MustParse(`{"n":` + lit + `}`))); got != want {
			t.Fatalf("%s: expected literal kept, got:\n%s", lit, got)
		}
	}
}

func TestCompact(t *testing.T) {
	n := Object().With("a", Array(Null(), Bool(true), Number("2"))).With("b", String("x"))
	if got := string(Compact(n)); got != `{"a":[null,true,2],"b":"x"}` {
		t.Fatalf("unexpected compact output: %s", got)
	}
}
