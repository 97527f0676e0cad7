package schemaconv

import (
	"reflect"
	"testing"
)

func TestTypes(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{`{}`, nil},
		{`{"type":"string"}`, []string{"string"}},
		{`{"type":["string","null"]}`, []string{"string", "null"}},
		{`{"type":7}`, nil},
	}
	for _, c := range cases {
		if got := Types(MustParse(c.in)); !reflect.DeepEqual(got, c.want) {
			t.Fatalf("%s: expected %v, got %v", c.in, c.want, got)
		}
	}
}

func TestIsArrayOfObjects(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{`{"type":"array","items":{"$ref":"#/definitions/A"}}`, true},
		{`{"type":["array","null"],"items":{"properties":{}}}`, true},
		{`{"type":"array","items":{"type":"string"}}`, false},
		{`{"type":"object","properties":{}}`, false},
		{`{"type":"array"}`, false},
		{`{"items":{"properties":{}}}`, false},
	}
	for _, c := range cases {
		if got := IsArrayOfObjects(MustParse(c.in)); got != c.want {
			t.Fatalf("%s: expected %v, got %v", c.in, c.want, got)
		}
	}
}

func TestIsMissingProperty(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{`{}`, true},
		{`{"title":null}`, true},
		{`{"title":""}`, true},
		{`{"title":"  \n"}`, true},
		{`{"title":[]}`, true},
		{`{"title":{}}`, true},
		{`{"title":false}`, false},
		{`{"title":0}`, false},
		{`{"title":"Title"}`, false},
	}
	for _, c := range cases {
		if got := IsMissingProperty(MustParse(c.in), "title"); got != c.want {
			t.Fatalf("%s: expected %v, got %v", c.in, c.want, got)
		}
	}
}

func TestIsCodelist(t *testing.T) {
	if !IsCodelist([]string{"Code", "Title"}) || !IsCodelist([]string{"code"}) {
		t.Fatalf("expected codelist headers to be recognized")
	}
	if IsCodelist([]string{"CODE", "Title"}) || IsCodelist(nil) {
		t.Fatalf("unexpected codelist")
	}
}

func TestIsJSONSchemaAndMergePatch(t *testing.T) {
	schema := MustParse(`{"$schema":"http://json-schema.org/draft-04/schema#","properties":{}}`)
	patch := MustParse(`{"properties":{"a":{}}}`)
	other := MustParse(`{"version":"1.1"}`)
	if !IsJSONSchema(schema) || IsJSONMergePatch(schema) {
		t.Fatalf("schema misclassified")
	}
	if !IsJSONSchema(patch) || !IsJSONMergePatch(patch) {
		t.Fatalf("patch misclassified")
	}
	if IsJSONSchema(other) || IsJSONMergePatch(other) {
		t.Fatalf("plain document misclassified")
	}
}
