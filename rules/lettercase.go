package rules

import (
	"context"
	"regexp"

	schemaconv "github.com/reoring/schemaconv"
)

var (
	lowerCamel = regexp.MustCompile(`^[a-z][A-Za-z]+$`)
	upperCamel = regexp.MustCompile(`^[A-Z][A-Za-z]+$`)
)

// LetterCase requires lowerCamelCase property names and UpperCamelCase
// definition names, ASCII letters only.
type LetterCase struct {
	PropertyExceptions   schemaconv.Set
	DefinitionExceptions schemaconv.Set
}

func (LetterCase) Name() string { return "letter_case" }

func (r LetterCase) Validate(_ context.Context, path string, root *schemaconv.Node, rep schemaconv.Reporter) int {
	e := newEmitter(r.Name(), path, rep)
	return schemaconv.Traverse(func(_ string, n *schemaconv.Node, ptr schemaconv.Pointer) int {
		count := 0
		switch ptr.Parent() {
		case "properties":
			for _, key := range n.Keys() {
				if !lowerCamel.MatchString(key) && !r.PropertyExceptions.Match(key) {
					count += e.report(schemaconv.CodeLetterCaseProperty, ptr.Field(key), nil)
				}
			}
		case "definitions", "$defs":
			for _, key := range n.Keys() {
				if !upperCamel.MatchString(key) && !r.DefinitionExceptions.Match(key) {
					count += e.report(schemaconv.CodeLetterCaseDefinition, ptr.Field(key), nil)
				}
			}
		}
		return count
	}, path, root)
}
