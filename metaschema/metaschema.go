// Package metaschema validates schema documents against a general-purpose JSON
// Schema, usually a draft metaschema or a project-specific patch of one.
package metaschema

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	schemaconv "github.com/reoring/schemaconv"
)

// Validator holds a compiled metaschema. It is safe for concurrent use.
type Validator struct {
	url    string
	schema *jsonschema.Schema
}

// New compiles the metaschema in data, registered under url so that its own
// $ref values resolve relative to it. Draft 4 is assumed when the document
// does not declare $schema.
func New(url string, data []byte) (*Validator, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft4
	c.AssertFormat = true
	if err := c.AddResource(url, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("load metaschema %s: %w", url, err)
	}
	sch, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile metaschema %s: %w", url, err)
	}
	return &Validator{url: url, schema: sch}, nil
}

// URL returns the location the metaschema was registered under.
func (v *Validator) URL() string { return v.url }

// Validate reports one invalid_schema error per failing leaf of the
// validation and returns how many it reported.
func (v *Validator) Validate(path string, doc *schemaconv.Node, rep schemaconv.Reporter) int {
	err := v.schema.Validate(doc.Interface())
	if err == nil {
		return 0
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		rep.Report(diagnostic(path, "", "", err.Error()))
		return 1
	}
	count := 0
	for _, leaf := range leaves(ve, nil) {
		rep.Report(diagnostic(path, leaf.InstanceLocation, leaf.KeywordLocation, leaf.Message))
		count++
	}
	return count
}

func leaves(ve *jsonschema.ValidationError, out []*jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return append(out, ve)
	}
	for _, c := range ve.Causes {
		out = leaves(c, out)
	}
	return out
}

func diagnostic(path, instance, keyword, msg string) schemaconv.Diagnostic {
	d := schemaconv.NewDiagnostic(schemaconv.Error, schemaconv.CodeInvalidSchema, path, schemaconv.Pointer(instance), map[string]string{
		"error":   msg,
		"keyword": keyword,
	})
	d.Rule = "metaschema"
	return d
}
